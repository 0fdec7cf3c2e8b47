package books

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sopds/catalog/pkg/errcodes"
	"github.com/sopds/catalog/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID   *int
	Path *string
}

type ListBooksOptions struct {
	Limit    *int
	Offset   *int
	Format   *string
	AuthorID *int
	SeriesID *int
	GenreID  *int
	Search   *string

	includeTotal bool
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

// runInTx reuses the surrounding transaction when the service is bound to one.
func (svc *Service) runInTx(ctx context.Context, fn func(ctx context.Context, tx bun.IDB) error) error {
	if tx, ok := svc.db.(bun.Tx); ok {
		return fn(ctx, tx)
	}
	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

// CreateBook inserts the book together with its author and genre links.
// Authors, genres and the series must already be persisted.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt
	if book.TitleSort == "" {
		book.TitleSort = book.Title
	}
	if book.Series != nil {
		book.SeriesID = &book.Series.ID
	}

	err := svc.runInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		_, err := tx.
			NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}

		if len(book.Authors) > 0 {
			links := make([]*models.BookAuthor, 0, len(book.Authors))
			for i, a := range book.Authors {
				if a.ID == 0 {
					return errors.Errorf("author %q is not persisted", a.FullName)
				}
				links = append(links, &models.BookAuthor{BookID: book.ID, AuthorID: a.ID, SortOrder: i + 1})
			}
			if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		if len(book.Genres) > 0 {
			links := make([]*models.BookGenre, 0, len(book.Genres))
			for _, g := range book.Genres {
				links = append(links, &models.BookGenre{BookID: book.ID, GenreID: g.ID})
			}
			if _, err := tx.NewInsert().Model(&links).Exec(ctx); err != nil {
				return errors.WithStack(err)
			}
		}

		return nil
	})
	return errors.WithStack(err)
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		Relation("Series").
		Relation("Authors").
		Relation("Genres")

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.Path != nil {
		q = q.Where("b.path = ?", *opts.Path)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

// BookExists reports whether a book is catalogued under path.
func (svc *Service) BookExists(ctx context.Context, path string) (bool, error) {
	exists, err := svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		Where("b.path = ?", path).
		Exists(ctx)
	return exists, errors.WithStack(err)
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	b, _, err := svc.listBooksWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	books := []*models.Book{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Series").
		Relation("Authors").
		Relation("Genres").
		Order("b.title_sort ASC", "b.id ASC")

	if opts.Format != nil && *opts.Format != "" {
		q = q.Where("b.format = ?", strings.ToUpper(*opts.Format))
	}
	if opts.AuthorID != nil {
		q = q.Where("b.id IN (SELECT book_id FROM book_authors WHERE author_id = ?)", *opts.AuthorID)
	}
	if opts.SeriesID != nil {
		q = q.Where("b.series_id = ?", *opts.SeriesID)
	}
	if opts.GenreID != nil {
		q = q.Where("b.id IN (SELECT book_id FROM book_genres WHERE genre_id = ?)", *opts.GenreID)
	}
	if opts.Search != nil && strings.TrimSpace(*opts.Search) != "" {
		q = q.Where("b.title LIKE ?", "%"+strings.TrimSpace(*opts.Search)+"%")
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

// CountBooks returns the number of catalogued books.
func (svc *Service) CountBooks(ctx context.Context) (int, error) {
	count, err := svc.db.NewSelect().Model((*models.Book)(nil)).Count(ctx)
	return count, errors.WithStack(err)
}
