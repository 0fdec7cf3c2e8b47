package series

import (
	"context"
	"testing"

	"github.com/sopds/catalog/pkg/errcodes"
	"github.com/sopds/catalog/pkg/models"
	"github.com/sopds/catalog/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func insertBook(t *testing.T, db bun.IDB, path string, seriesID int, number *int) {
	t.Helper()
	book := &models.Book{
		Title:        path,
		TitleSort:    path,
		Path:         path,
		Filename:     path,
		Format:       "FB2",
		SeriesID:     &seriesID,
		SeriesNumber: number,
	}
	_, err := db.NewInsert().Model(book).Exec(context.Background())
	require.NoError(t, err)
}

func TestRetrieveSeries_ByExactName(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	ctx := context.Background()
	svc := NewService(db)

	s := &models.Series{Name: "Полдень, XXII век"}
	require.NoError(t, svc.CreateSeries(ctx, s))
	assert.Equal(t, s.Name, s.NameSort)

	found, err := svc.RetrieveSeries(ctx, RetrieveSeriesOptions{Name: &s.Name})
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)

	other := "полдень, xxii век"
	_, err = svc.RetrieveSeries(ctx, RetrieveSeriesOptions{Name: &other})
	assert.ErrorIs(t, err, errcodes.NotFound("Series"))
}

func TestListSeriesWithTotal_BookCount(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	ctx := context.Background()
	svc := NewService(db)

	alpha := &models.Series{Name: "Alpha"}
	beta := &models.Series{Name: "Beta"}
	require.NoError(t, svc.CreateSeries(ctx, alpha))
	require.NoError(t, svc.CreateSeries(ctx, beta))

	insertBook(t, db, "1.fb2", alpha.ID, nil)
	insertBook(t, db, "2.fb2", alpha.ID, nil)

	list, total, err := svc.ListSeriesWithTotal(ctx, ListSeriesOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, 2, list[0].BookCount)
	assert.Equal(t, 0, list[1].BookCount)

	search := "bet"
	list, total, err = svc.ListSeriesWithTotal(ctx, ListSeriesOptions{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Beta", list[0].Name)
}

func TestListSeriesBooks_OrderedByNumber(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	ctx := context.Background()
	svc := NewService(db)

	s := &models.Series{Name: "Cycle"}
	require.NoError(t, svc.CreateSeries(ctx, s))

	two, one := 2, 1
	insertBook(t, db, "c.fb2", s.ID, nil)
	insertBook(t, db, "b.fb2", s.ID, &two)
	insertBook(t, db, "a.fb2", s.ID, &one)

	books, err := svc.ListSeriesBooks(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "a.fb2", books[0].Path)
	assert.Equal(t, "b.fb2", books[1].Path)
	assert.Equal(t, "c.fb2", books[2].Path)
}
