package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog_api/internal/db"
	"github.com/Skotchmaster/catalog_api/internal/hash"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/repo"
	"github.com/Skotchmaster/catalog_api/internal/service"
	"github.com/Skotchmaster/catalog_api/internal/tokens"
	httpserver "github.com/Skotchmaster/catalog_api/internal/transport/http"
	"github.com/Skotchmaster/catalog_api/internal/validation"
)

func newCatalogServer(t *testing.T) (*httptest.Server, *models.Category) {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	pw, err := hash.HashPassword("secret1")
	require.NoError(t, err)
	require.NoError(t, r.CreateUserIfNotExists(ctx, &models.User{Email: "admin@example.com", PasswordHash: pw}))
	cat := &models.Category{Name: "Stationery"}
	require.NoError(t, r.CreateCategory(ctx, cat))

	v := validation.New()
	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		DB:      gdb,
		Auth:    &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: r, Tokens: tokens.NewIssuer([]byte("secret"), 0), Validator: v}},
		Catalog: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Validator: v}},
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv, cat
}

func ptr[T any](v T) *T { return &v }

func TestClient_CatalogFlow(t *testing.T) {
	srv, cat := newCatalogServer(t)
	ctx := context.Background()
	store := FileTokenStore{Path: filepath.Join(t.TempDir(), "token")}

	c, err := New(srv.URL, WithTokenStore(store))
	require.NoError(t, err)
	assert.Empty(t, c.Token())

	_, err = c.CreateProduct(ctx, ProductInput{Name: ptr("Pen")})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Unauthenticated.", c.LastError())

	require.NoError(t, c.Login(ctx, "admin@example.com", "secret1"))
	assert.Empty(t, c.LastError())
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, c.Token(), saved)

	p, err := c.CreateProduct(ctx, ProductInput{
		Name: ptr("Pen"), Description: ptr("Blue ink"), Price: ptr(int64(150)), CategoryID: ptr(cat.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "Pen", p.Name)

	_, err = c.UpdateProduct(ctx, p.ID, ProductInput{Price: ptr(int64(0))})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
	assert.Equal(t, []string{"The price field must be at least 1."}, apiErr.Errors["price"])

	updated, err := c.UpdateProduct(ctx, p.ID, ProductInput{Price: ptr(int64(175))})
	require.NoError(t, err)
	assert.EqualValues(t, 175, updated.Price)

	page, err := c.ListProducts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.EqualValues(t, 1, page.Meta.Total)

	cats, err := c.ListCategories(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "Stationery", cats.Data[0].Name)

	msg, err := c.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Product deleted successfully", msg)

	_, err = c.GetProduct(ctx, p.ID)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)

	// a second client picks the token up from the store
	again, err := New(srv.URL, WithTokenStore(store))
	require.NoError(t, err)
	assert.Equal(t, c.Token(), again.Token())

	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, c.Token())
	saved, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, saved)

	err = again.Logout(ctx)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestClient_LoadingAndTransportErrors(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c, err := New(srv.URL)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- c.Request(context.Background(), http.MethodGet, "/slow", nil, nil) }()

	require.Eventually(t, c.Loading, time.Second, 5*time.Millisecond)
	close(release)
	err = <-done

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.False(t, c.Loading())
	assert.Equal(t, defaultErrorMessage, c.LastError())
}

func TestFileTokenStore(t *testing.T) {
	s := FileTokenStore{Path: filepath.Join(t.TempDir(), "nested", "token")}

	tok, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.Save("abc"))
	tok, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
}
