package genres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"github.com/sopds/catalog/pkg/errcodes"
	"github.com/sopds/catalog/pkg/models"
	"github.com/uptrace/bun"
)

type RetrieveGenreOptions struct {
	ID   *int
	Code *string
}

type ListGenresOptions struct {
	Limit    *int
	Offset   *int
	Search   *string
	NonEmpty bool

	includeTotal bool
}

// Service reads the genre taxonomy. Genres are seeded by migrations, so
// there's deliberately no create path here.
type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) RetrieveGenre(ctx context.Context, opts RetrieveGenreOptions) (*models.Genre, error) {
	genre := &models.Genre{}

	q := svc.db.
		NewSelect().
		Model(genre)

	if opts.ID != nil {
		q = q.Where("g.id = ?", *opts.ID)
	}
	if opts.Code != nil {
		q = q.Where("g.code = ?", *opts.Code)
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Genre")
		}
		return nil, errors.WithStack(err)
	}

	return genre, nil
}

func (svc *Service) ListGenres(ctx context.Context, opts ListGenresOptions) ([]*models.Genre, error) {
	g, _, err := svc.listGenresWithTotal(ctx, opts)
	return g, errors.WithStack(err)
}

func (svc *Service) ListGenresWithTotal(ctx context.Context, opts ListGenresOptions) ([]*models.Genre, int, error) {
	opts.includeTotal = true
	return svc.listGenresWithTotal(ctx, opts)
}

func (svc *Service) listGenresWithTotal(ctx context.Context, opts ListGenresOptions) ([]*models.Genre, int, error) {
	var genres []*models.Genre
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&genres).
		ColumnExpr("g.*").
		ColumnExpr("(SELECT COUNT(*) FROM book_genres WHERE book_genres.genre_id = g.id) AS book_count").
		Order("g.code ASC")

	if opts.Search != nil && strings.TrimSpace(*opts.Search) != "" {
		term := "%" + strings.TrimSpace(*opts.Search) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("g.code LIKE ?", term).
				WhereOr("g.name_ru LIKE ?", term).
				WhereOr("g.name_en LIKE ?", term)
		})
	}
	if opts.NonEmpty {
		q = q.Where("EXISTS (SELECT 1 FROM book_genres WHERE book_genres.genre_id = g.id)")
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

	return genres, total, nil
}
