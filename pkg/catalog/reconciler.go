// Package catalog turns extracted book metadata into catalog records.
package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/sopds/catalog/pkg/fb2"
	"github.com/sopds/catalog/pkg/fileutils"
	"github.com/sopds/catalog/pkg/formats"
	"github.com/sopds/catalog/pkg/htmlutil"
	"github.com/sopds/catalog/pkg/models"
	"github.com/sopds/catalog/pkg/sortname"
)

// File identifies what is being catalogued. RelPath is the library-relative
// path and the unique key of the resulting book.
type File struct {
	RelPath  string
	Filename string
	Format   string
	Size     int64
}

// Reconciler creates book records together with their authors, series and
// genres. Calls are serialized so find-or-create never races and the path
// check of a unit always happens before its write.
type Reconciler struct {
	store Store

	mu     sync.Mutex
	genres map[string]*models.Genre
}

func NewReconciler(store Store) *Reconciler {
	return &Reconciler{
		store:  store,
		genres: make(map[string]*models.Genre),
	}
}

// Exists reports whether file.RelPath is already catalogued. It's a cheap
// pre-check; Reconcile repeats it inside its unit of work.
func (r *Reconciler) Exists(ctx context.Context, relPath string) (bool, error) {
	exists, err := r.store.BookExists(ctx, bookPath(relPath))
	return exists, errors.WithStack(err)
}

// Reconcile catalogues file. meta may be nil, in which case a minimal record
// is derived from the filename. It reports whether a new book was added;
// an already catalogued path is left untouched.
func (r *Reconciler) Reconcile(ctx context.Context, file File, meta *fb2.Metadata) (bool, error) {
	log := logger.FromContext(ctx).Data(logger.Data{"path": file.RelPath})

	r.mu.Lock()
	defer r.mu.Unlock()

	added := false
	err := r.store.RunInTx(ctx, func(ctx context.Context, repo Repository) error {
		existing, err := repo.FindBookByPath(ctx, bookPath(file.RelPath))
		if err != nil {
			return errors.WithStack(err)
		}
		if existing != nil {
			log.Debug("book already exists", logger.Data{"book_id": existing.ID})
			return nil
		}

		book, fromMeta := newBook(file, meta)
		if fromMeta {
			if err := r.attachAuthors(ctx, repo, book, meta.Authors); err != nil {
				return err
			}
			if err := r.attachGenres(ctx, repo, book, meta.Genres); err != nil {
				return err
			}
			if err := r.attachSeries(ctx, repo, book, meta.SeriesName, meta.SeriesNumber); err != nil {
				return err
			}
		}

		if err := repo.SaveBook(ctx, book); err != nil {
			return errors.Wrap(err, "save book")
		}
		added = true
		log.Debug("book added", logger.Data{"book_id": book.ID, "title": book.Title})
		return nil
	})
	if err != nil {
		return false, errors.Wrapf(err, "reconcile %s", file.RelPath)
	}
	return added, nil
}

func bookPath(relPath string) string {
	return htmlutil.Truncate(relPath, models.BookPathMaxLen)
}

// newBook maps metadata onto a book record. Without a usable title the
// record falls back to the filename and fromMeta is false; none of the
// document's other metadata is used then.
func newBook(file File, meta *fb2.Metadata) (book *models.Book, fromMeta bool) {
	book = &models.Book{
		Path:       bookPath(file.RelPath),
		Filename:   file.Filename,
		Format:     strings.ToUpper(file.Format),
		FilesizeMB: fileutils.FractionalMB(file.Size),
		Available:  true,
	}

	if meta == nil || strings.TrimSpace(meta.Title) == "" {
		book.Title = htmlutil.Truncate(formats.TrimExtension(file.Filename), models.BookTitleMaxLen)
		book.TitleSort = htmlutil.Truncate(sortname.ForTitle(book.Title), models.BookTitleMaxLen)
		return book, false
	}

	book.Title = htmlutil.Truncate(strings.TrimSpace(meta.Title), models.BookTitleMaxLen)
	book.TitleSort = htmlutil.Truncate(sortname.ForTitle(book.Title), models.BookTitleMaxLen)
	book.Annotation = meta.Annotation
	book.Lang = htmlutil.Truncate(meta.Lang, models.BookLangMaxLen)
	book.ISBN = htmlutil.Truncate(meta.ISBN, models.BookISBNMaxLen)
	book.PublishDate = ParseDate(meta.Date)
	return book, true
}

func (r *Reconciler) attachAuthors(ctx context.Context, repo Repository, book *models.Book, parsed []fb2.Author) error {
	for _, a := range parsed {
		fullName := a.FullName()
		author, err := repo.FindAuthorByFullName(ctx, fullName)
		if err != nil {
			return errors.WithStack(err)
		}
		if author == nil {
			author = &models.Author{
				FullName:     fullName,
				FirstName:    a.FirstName,
				MiddleName:   a.MiddleName,
				LastName:     a.LastName,
				FullNameSort: fullName,
			}
			if err := repo.SaveAuthor(ctx, author); err != nil {
				return errors.Wrapf(err, "save author %q", fullName)
			}
		}
		book.AddAuthor(author)
	}
	return nil
}

// attachGenres links known genre codes. Unknown codes are dropped. Genres
// are seeded and immutable, so lookups (including misses) are remembered.
func (r *Reconciler) attachGenres(ctx context.Context, repo Repository, book *models.Book, codes []string) error {
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		genre, ok := r.genres[code]
		if !ok {
			var err error
			genre, err = repo.FindGenreByCode(ctx, code)
			if err != nil {
				return errors.WithStack(err)
			}
			r.genres[code] = genre
		}
		if genre == nil {
			logger.FromContext(ctx).Debug("unknown genre", logger.Data{"code": code})
			continue
		}
		book.AddGenre(genre)
	}
	return nil
}

func (r *Reconciler) attachSeries(ctx context.Context, repo Repository, book *models.Book, name string, number *int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	s, err := repo.FindSeriesByName(ctx, name)
	if err != nil {
		return errors.WithStack(err)
	}
	if s == nil {
		s = &models.Series{Name: name, NameSort: name}
		if err := repo.SaveSeries(ctx, s); err != nil {
			return errors.Wrapf(err, "save series %q", name)
		}
	}
	book.SetSeries(s, number)
	return nil
}
