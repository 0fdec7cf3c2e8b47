package authors

import (
	"context"
	"testing"

	"github.com/sopds/catalog/pkg/errcodes"
	"github.com/sopds/catalog/pkg/models"
	"github.com/sopds/catalog/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAuthor_DefaultsSortName(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	ctx := context.Background()
	svc := NewService(db)

	author := &models.Author{FullName: "Ivanov Ivan", FirstName: "Ivan", LastName: "Ivanov"}
	require.NoError(t, svc.CreateAuthor(ctx, author))
	assert.NotZero(t, author.ID)
	assert.Equal(t, "Ivanov Ivan", author.FullNameSort)

	name := "Ivanov Ivan"
	found, err := svc.RetrieveAuthor(ctx, RetrieveAuthorOptions{FullName: &name})
	require.NoError(t, err)
	assert.Equal(t, author.ID, found.ID)
	assert.Equal(t, "Ivan", found.FirstName)
}

func TestCreateAuthor_UniqueFullName(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	ctx := context.Background()
	svc := NewService(db)

	require.NoError(t, svc.CreateAuthor(ctx, &models.Author{FullName: "Same"}))
	assert.Error(t, svc.CreateAuthor(ctx, &models.Author{FullName: "Same"}))
}

func TestRetrieveAuthor_NotFound(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	name := "Nobody"

	_, err := NewService(db).RetrieveAuthor(context.Background(), RetrieveAuthorOptions{FullName: &name})
	assert.ErrorIs(t, err, errcodes.NotFound("Author"))
}

func TestListAuthorsWithTotal(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	ctx := context.Background()
	svc := NewService(db)

	for _, a := range []*models.Author{
		{FullName: "Strugatsky Arkady", FullNameSort: "Strugatsky, Arkady"},
		{FullName: "Bulgakov Mikhail", FullNameSort: "Bulgakov, Mikhail"},
		{FullName: "Strugatsky Boris", FullNameSort: "Strugatsky, Boris"},
	} {
		require.NoError(t, svc.CreateAuthor(ctx, a))
	}

	all, total, err := svc.ListAuthorsWithTotal(ctx, ListAuthorsOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "Bulgakov Mikhail", all[0].FullName)

	search := "strugatsky"
	found, total, err := svc.ListAuthorsWithTotal(ctx, ListAuthorsOptions{Search: &search})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Strugatsky Arkady", found[0].FullName)
	assert.Equal(t, "Strugatsky Boris", found[1].FullName)
}

func TestGetBookCount(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	ctx := context.Background()
	svc := NewService(db)

	author := &models.Author{FullName: "Ivanov Ivan"}
	require.NoError(t, svc.CreateAuthor(ctx, author))

	for _, path := range []string{"a.fb2", "b.fb2"} {
		book := &models.Book{Title: path, TitleSort: path, Path: path, Filename: path, Format: "FB2"}
		_, err := db.NewInsert().Model(book).Returning("*").Exec(ctx)
		require.NoError(t, err)
		_, err = db.NewInsert().Model(&models.BookAuthor{BookID: book.ID, AuthorID: author.ID}).Exec(ctx)
		require.NoError(t, err)
	}

	count, err := svc.GetBookCount(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
