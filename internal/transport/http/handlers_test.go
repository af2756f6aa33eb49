package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog_api/internal/db"
	"github.com/Skotchmaster/catalog_api/internal/events"
	"github.com/Skotchmaster/catalog_api/internal/hash"
	"github.com/Skotchmaster/catalog_api/internal/models"
	"github.com/Skotchmaster/catalog_api/internal/repo"
	"github.com/Skotchmaster/catalog_api/internal/search"
	"github.com/Skotchmaster/catalog_api/internal/service"
	"github.com/Skotchmaster/catalog_api/internal/tokens"
	"github.com/Skotchmaster/catalog_api/internal/validation"
)

type testEnv struct {
	T      *testing.T
	E      *echo.Echo
	Repo   *repo.GormRepo
	Events *events.Recorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	v := validation.New()
	rec := &events.Recorder{}

	e := echo.New()
	e.Validator = v
	Register(e, &Deps{
		DB: gdb,
		Auth: &AuthHTTP{Svc: &service.AuthService{
			Repo: r, Tokens: tokens.NewIssuer([]byte("test-secret"), 0), Validator: v, Events: rec,
		}},
		Catalog: &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Validator: v, Events: rec}},
	})

	return &testEnv{T: t, E: e, Repo: r, Events: rec}
}

func (env *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	env.T.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) decode(rec *httptest.ResponseRecorder) map[string]any {
	env.T.Helper()
	var m map[string]any
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func (env *testEnv) seedUser(email, password string) *models.User {
	env.T.Helper()
	pw, err := hash.HashPassword(password)
	require.NoError(env.T, err)
	u := &models.User{Name: "Admin", Email: email, PasswordHash: pw}
	require.NoError(env.T, env.Repo.CreateUserIfNotExists(context.Background(), u))
	return u
}

func (env *testEnv) seedCategory(name string) *models.Category {
	env.T.Helper()
	c := &models.Category{Name: name}
	require.NoError(env.T, env.Repo.CreateCategory(context.Background(), c))
	return c
}

func (env *testEnv) login() string {
	env.T.Helper()
	env.seedUser("admin@example.com", "secret1")
	rec := env.do(http.MethodPost, "/v1/auth/login", `{"email":"admin@example.com","password":"secret1"}`, "")
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := env.decode(rec)["token"].(string)
	require.NotEmpty(env.T, token)
	return token
}

func TestLoginLogoutLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.login()
	c := env.seedCategory("Stationery")
	body := fmt.Sprintf(`{"name":"Pen","description":"Blue","price":150,"category_id":%d}`, c.ID)

	rec := env.do(http.MethodPost, "/v1/products", body, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/v1/auth/logout", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Logged out successfully"}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/v1/products", body, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthenticated."}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/v1/auth/logout", "", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	assert.Equal(t, []string{events.UserLoggedIn, events.ProductCreated, events.UserLoggedOut}, env.Events.Types())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("admin@example.com", "secret1")

	unknown := env.do(http.MethodPost, "/v1/auth/login", `{"email":"ghost@example.com","password":"secret1"}`, "")
	wrong := env.do(http.MethodPost, "/v1/auth/login", `{"email":"admin@example.com","password":"secret2"}`, "")

	require.Equal(t, http.StatusUnprocessableEntity, unknown.Code)
	require.Equal(t, http.StatusUnprocessableEntity, wrong.Code)
	assert.JSONEq(t, unknown.Body.String(), wrong.Body.String())
	assert.JSONEq(t, `{"message":"Invalid credentials.","errors":{"email":["Invalid credentials."]}}`, wrong.Body.String())
}

func TestLogin_Validation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/v1/auth/login", `{"email":"admin@example.com","password":"123"}`, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"message":"The password field must be at least 6 characters.","errors":{"password":["The password field must be at least 6 characters."]}}`, rec.Body.String())

	rec = env.do(http.MethodPost, "/v1/auth/login", `{"email":`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProduct_PenScenario(t *testing.T) {
	env := newTestEnv(t)
	token := env.login()
	c := env.seedCategory("Stationery")

	rec := env.do(http.MethodPost, "/v1/products",
		fmt.Sprintf(`{"name":"Pen","description":"Blue ink","price":150,"category_id":%d}`, c.ID), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := env.decode(rec)["data"].(map[string]any)
	assert.Equal(t, "Pen", data["name"])
	assert.Equal(t, "Blue ink", data["description"])
	assert.EqualValues(t, 150, data["price"])
	assert.EqualValues(t, c.ID, data["category_id"])
	id := data["id"]

	rec = env.do(http.MethodGet, fmt.Sprintf("/v1/products/%v", id), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, data, env.decode(rec)["data"])
}

func TestCreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.login()
	c := env.seedCategory("Stationery")

	rec := env.do(http.MethodPost, "/v1/products",
		fmt.Sprintf(`{"name":"Pen","description":"Blue ink","price":0,"category_id":%d}`, c.ID), token)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := env.decode(rec)
	assert.Equal(t, "The price field must be at least 1.", body["message"])
	assert.Equal(t, map[string]any{"price": []any{"The price field must be at least 1."}}, body["errors"])

	rec = env.do(http.MethodPost, "/v1/products", `{"price":"cheap"}`, token)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body = env.decode(rec)
	assert.Equal(t, "The name field is required. (and 3 more errors)", body["message"])
	errs := body["errors"].(map[string]any)
	assert.Equal(t, []any{"The price field must be an integer."}, errs["price"])
	assert.Len(t, errs, 4)

	rec = env.do(http.MethodPost, "/v1/products", `not json`, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/v1/products", `{"name":"Pen"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(t)
	token := env.login()
	c := env.seedCategory("Stationery")

	rec := env.do(http.MethodPost, "/v1/products",
		fmt.Sprintf(`{"name":"Pen","description":"Blue ink","price":150,"category_id":%d}`, c.ID), token)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := env.decode(rec)["data"].(map[string]any)
	path := fmt.Sprintf("/v1/products/%v", created["id"])

	rec = env.do(http.MethodPatch, path, `{"price":200}`, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := env.decode(rec)["data"].(map[string]any)
	assert.EqualValues(t, 200, updated["price"])
	assert.Equal(t, "Pen", updated["name"])

	rec = env.do(http.MethodPatch, path, `{}`, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, updated, env.decode(rec)["data"])

	rec = env.do(http.MethodPatch, path, `{"name":""}`, token)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(http.MethodPatch, "/v1/products/9999", `{"price":0}`, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodPatch, path, `{"price":1}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	token := env.login()
	c := env.seedCategory("Stationery")

	rec := env.do(http.MethodPost, "/v1/products",
		fmt.Sprintf(`{"name":"Pen","description":"Blue ink","price":150,"category_id":%d}`, c.ID), token)
	require.Equal(t, http.StatusCreated, rec.Code)
	path := fmt.Sprintf("/v1/products/%v", env.decode(rec)["data"].(map[string]any)["id"])

	rec = env.do(http.MethodDelete, path, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodDelete, path, "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Product deleted successfully"}`, rec.Body.String())

	rec = env.do(http.MethodGet, path, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodDelete, path, "", token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodGet, "/v1/products/abc", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListProducts_Paginates(t *testing.T) {
	env := newTestEnv(t)
	c := env.seedCategory("Stationery")
	for i := 1; i <= 12; i++ {
		p := &models.Product{Name: fmt.Sprintf("Item %d", i), Description: "d", Price: int64(i), CategoryID: c.ID}
		require.NoError(t, env.Repo.CreateProduct(context.Background(), p))
	}

	rec := env.do(http.MethodGet, "/v1/products", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := env.decode(rec)
	data := body["data"].([]any)
	require.Len(t, data, 10)
	assert.Equal(t, "Item 1", data[0].(map[string]any)["name"])

	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 12, meta["total"])
	assert.EqualValues(t, 2, meta["last_page"])
	assert.EqualValues(t, 10, meta["per_page"])
	assert.Equal(t, "http://example.com/v1/products", meta["path"])

	links := body["links"].(map[string]any)
	assert.Equal(t, "http://example.com/v1/products?page=2", links["next"])
	assert.Nil(t, links["prev"])

	rec = env.do(http.MethodGet, "/v1/products?page=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = env.decode(rec)
	assert.Len(t, body["data"].([]any), 2)
	assert.EqualValues(t, 11, body["meta"].(map[string]any)["from"])
}

func TestListCategories(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategory("Stationery")
	env.seedCategory("Office")

	rec := env.do(http.MethodGet, "/v1/categories", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := env.decode(rec)
	data := body["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, map[string]any{"id": float64(1), "name": "Stationery"}, data[0])
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSearchRouteAbsentWithoutIndex(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/v1/products/search?q=pen", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type stubIndex struct{ docs []search.Document }

func (s *stubIndex) Put(_ context.Context, d search.Document) error {
	s.docs = append(s.docs, d)
	return nil
}

func (s *stubIndex) Delete(context.Context, uint) error { return nil }

func (s *stubIndex) Search(_ context.Context, q string, _, _ int) (int64, []search.Document, error) {
	var out []search.Document
	for _, d := range s.docs {
		if strings.Contains(strings.ToLower(d.Name), strings.ToLower(q)) {
			out = append(out, d)
		}
	}
	return int64(len(out)), out, nil
}

func TestSearchProducts(t *testing.T) {
	ctx := context.Background()
	gdb, err := db.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx, gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.New(gdb)
	v := validation.New()
	idx := &stubIndex{docs: []search.Document{
		{ID: 1, Name: "Pen", Description: "Blue ink", Price: 150, CategoryID: 1},
		{ID: 2, Name: "Notebook", Description: "A5", Price: 300, CategoryID: 1},
	}}

	e := echo.New()
	Register(e, &Deps{
		DB:      gdb,
		Auth:    &AuthHTTP{Svc: &service.AuthService{Repo: r, Tokens: tokens.NewIssuer([]byte("s"), 0), Validator: v}},
		Catalog: &CatalogHTTP{Svc: &service.CatalogService{Repo: r, Validator: v, Search: idx}},
	})
	env := &testEnv{T: t, E: e, Repo: r}

	rec := env.do(http.MethodGet, "/v1/products/search?q=pen", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := env.decode(rec)
	data := body["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Pen", data[0].(map[string]any)["name"])
	assert.EqualValues(t, 1, body["meta"].(map[string]any)["total"])

	rec = env.do(http.MethodGet, "/v1/products/search", "", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"message":"The q field is required.","errors":{"q":["The q field is required."]}}`, rec.Body.String())
}
