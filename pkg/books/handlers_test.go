package books

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/segmentio/encoding/json"
	"github.com/sopds/catalog/pkg/binder"
	"github.com/sopds/catalog/pkg/errcodes"
	"github.com/sopds/catalog/pkg/models"
	"github.com/sopds/catalog/pkg/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func setupTestServer(t *testing.T, db *bun.DB) *echo.Echo {
	t.Helper()

	e := echo.New()
	b, err := binder.New()
	require.NoError(t, err)
	e.Binder = b
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	RegisterRoutes(e, db)
	return e
}

func doRequest(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestHandlers_List(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	e := setupTestServer(t, db)
	svc := NewService(db)

	require.NoError(t, svc.CreateBook(context.Background(), newBook("a.fb2", "A")))
	pdf := newBook("b.pdf", "B")
	pdf.Format = "PDF"
	require.NoError(t, svc.CreateBook(context.Background(), pdf))

	rr := doRequest(e, "/books?format=pdf")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Books []*models.Book `json:"books"`
		Total int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Books, 1)
	assert.Equal(t, "b.pdf", resp.Books[0].Path)
}

func TestHandlers_ListValidation(t *testing.T) {
	t.Parallel()
	e := setupTestServer(t, testutils.NewDB(t))

	rr := doRequest(e, "/books?limit=1000")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "validation_error")
}

func TestHandlers_Retrieve(t *testing.T) {
	t.Parallel()
	db := testutils.NewDB(t)
	e := setupTestServer(t, db)

	book := newBook("a.fb2", "A")
	require.NoError(t, NewService(db).CreateBook(context.Background(), book))

	rr := doRequest(e, "/books/"+strconv.Itoa(book.ID))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"A"`)

	rr = doRequest(e, "/books/12345")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Book not found.")

	rr = doRequest(e, "/books/abc")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
