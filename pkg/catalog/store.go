package catalog

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/sopds/catalog/pkg/authors"
	"github.com/sopds/catalog/pkg/books"
	"github.com/sopds/catalog/pkg/errcodes"
	"github.com/sopds/catalog/pkg/genres"
	"github.com/sopds/catalog/pkg/models"
	"github.com/sopds/catalog/pkg/series"
	"github.com/uptrace/bun"
)

// Repository is the catalog store contract the reconciler works against.
// Find methods return a nil record and a nil error when nothing matches.
type Repository interface {
	FindBookByPath(ctx context.Context, path string) (*models.Book, error)
	BookExists(ctx context.Context, path string) (bool, error)
	SaveBook(ctx context.Context, book *models.Book) error
	FindAuthorByFullName(ctx context.Context, fullName string) (*models.Author, error)
	SaveAuthor(ctx context.Context, author *models.Author) error
	FindSeriesByName(ctx context.Context, name string) (*models.Series, error)
	SaveSeries(ctx context.Context, series *models.Series) error
	FindGenreByCode(ctx context.Context, code string) (*models.Genre, error)
}

// Store is a Repository that can run a unit of work atomically. Everything
// done through the Repository handed to fn is committed together or not at
// all.
type Store interface {
	Repository
	RunInTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}

type repository struct {
	bookService   *books.Service
	authorService *authors.Service
	seriesService *series.Service
	genreService  *genres.Service
}

func newRepository(db bun.IDB) *repository {
	return &repository{
		bookService:   books.NewService(db),
		authorService: authors.NewService(db),
		seriesService: series.NewService(db),
		genreService:  genres.NewService(db),
	}
}

// BunStore implements Store on top of the entity services.
type BunStore struct {
	*repository
	db *bun.DB
}

func NewStore(db *bun.DB) *BunStore {
	return &BunStore{
		repository: newRepository(db),
		db:         db,
	}
}

func (s *BunStore) RunInTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error {
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, newRepository(tx))
	})
	return errors.WithStack(err)
}

func notFoundAsNil[T any](record *T, err error, resource string) (*T, error) {
	if errors.Is(err, errcodes.NotFound(resource)) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return record, nil
}

func (r *repository) FindBookByPath(ctx context.Context, path string) (*models.Book, error) {
	book, err := r.bookService.RetrieveBook(ctx, books.RetrieveBookOptions{Path: &path})
	return notFoundAsNil(book, err, "Book")
}

func (r *repository) BookExists(ctx context.Context, path string) (bool, error) {
	return r.bookService.BookExists(ctx, path)
}

func (r *repository) SaveBook(ctx context.Context, book *models.Book) error {
	return r.bookService.CreateBook(ctx, book)
}

func (r *repository) FindAuthorByFullName(ctx context.Context, fullName string) (*models.Author, error) {
	author, err := r.authorService.RetrieveAuthor(ctx, authors.RetrieveAuthorOptions{FullName: &fullName})
	return notFoundAsNil(author, err, "Author")
}

func (r *repository) SaveAuthor(ctx context.Context, author *models.Author) error {
	return r.authorService.CreateAuthor(ctx, author)
}

func (r *repository) FindSeriesByName(ctx context.Context, name string) (*models.Series, error) {
	s, err := r.seriesService.RetrieveSeries(ctx, series.RetrieveSeriesOptions{Name: &name})
	return notFoundAsNil(s, err, "Series")
}

func (r *repository) SaveSeries(ctx context.Context, s *models.Series) error {
	return r.seriesService.CreateSeries(ctx, s)
}

func (r *repository) FindGenreByCode(ctx context.Context, code string) (*models.Genre, error) {
	genre, err := r.genreService.RetrieveGenre(ctx, genres.RetrieveGenreOptions{Code: &code})
	return notFoundAsNil(genre, err, "Genre")
}
