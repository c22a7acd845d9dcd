package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"postadmin/app/models"
	"postadmin/app/repositories"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupTestDB(t *testing.T) *repositories.DB {
	t.Helper()
	db, err := repositories.OpenDB("", true)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestData(t *testing.T, db *repositories.DB) {
	t.Helper()
	repo := repositories.NewBadgerPostRepository(db.DB)
	require.NoError(t, repo.Create(context.Background(), &models.Post{
		Title:    "Test Post",
		Slug:     "test-post",
		Markdown: "Some *markdown* here.",
	}))
}

func TestRouteNames(t *testing.T) {
	db := setupTestDB(t)
	router := SetupRoutes(db.DB, Options{})

	for caseName, route := range map[string]struct {
		name   string
		path   string
		method string
	}{
		"healthz":          {name: "healthz", path: "/healthz", method: "GET"},
		"admin index":      {name: "admin-index", path: "/posts/admin", method: "GET"},
		"edit form":        {name: "edit-post", path: "/posts/admin/some-slug", method: "GET"},
		"update post":      {name: "update-post", path: "/posts/admin/some-slug", method: "POST"},
		"update put":       {name: "update-post", path: "/posts/admin/some-slug", method: "PUT"},
		"api edit":         {name: "api-edit-post", path: "/api/posts/admin/some-slug", method: "GET"},
		"api update put":   {name: "api-update-post", path: "/api/posts/admin/some-slug", method: "PUT"},
		"api admin index":  {name: "api-admin-index", path: "/api/posts/admin", method: "GET"},
		"home redirection": {name: "home", path: "/", method: "GET"},
	} {
		t.Run(caseName, func(t *testing.T) {
			req, err := http.NewRequest(route.method, route.path, nil)
			require.NoError(t, err)

			r := router.Get(route.name)
			require.NotNil(t, r)
			assert.True(t, r.Match(req, &mux.RouteMatch{}), caseName)
		})
	}
}

func TestWebAdminRoutes(t *testing.T) {
	db := setupTestDB(t)
	setupTestData(t, db)
	router := SetupRoutes(db.DB, Options{})

	t.Run("GET /healthz", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/healthz", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("GET /posts/admin/{slug} renders the form", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/posts/admin/test-post", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "<form")
		assert.Contains(t, body, `value="Test Post"`)
		assert.Contains(t, body, "<em>markdown</em>")
	})

	t.Run("GET unknown slug is 404", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/posts/admin/missing", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("POST with missing fields re-renders", func(t *testing.T) {
		form := url.Values{"title": {"Test Post"}, "slug": {""}, "markdown": {""}}
		req := httptest.NewRequest("POST", "/posts/admin/test-post", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Slug is required")
		assert.Contains(t, w.Body.String(), "Markdown is required")
		assert.NotContains(t, w.Body.String(), "Title is required")
	})

	t.Run("POST updates, renames and redirects", func(t *testing.T) {
		form := url.Values{
			"title":    {"Renamed Post"},
			"slug":     {"renamed-post"},
			"markdown": {"New content"},
		}
		req := httptest.NewRequest("POST", "/posts/admin/test-post", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		redirectURL, err := w.Result().Location()
		require.NoError(t, err)
		assert.Equal(t, "/posts/admin/renamed-post", redirectURL.Path)

		// Follow the redirect through the JSON API
		req = httptest.NewRequest("GET", "/api"+redirectURL.Path, nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		var post models.Post
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &post))
		assert.Equal(t, "Renamed Post", post.Title)
		assert.Equal(t, "renamed-post", post.Slug)
		assert.Equal(t, "New content", post.Markdown)
	})

	t.Run("GET /posts/admin lists posts", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/posts/admin", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Renamed Post")
	})

	t.Run("rename to a slug with a slash and follow the redirect", func(t *testing.T) {
		form := url.Values{
			"title":    {"Nested Post"},
			"slug":     {"a/b"},
			"markdown": {"Nested content"},
		}
		req := httptest.NewRequest("POST", "/posts/admin/renamed-post", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusSeeOther, w.Code)
		location := w.Header().Get("Location")
		assert.Equal(t, "/posts/admin/a%2Fb", location)

		req = httptest.NewRequest("GET", location, nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `value="Nested Post"`)

		req = httptest.NewRequest("GET", "/posts/admin", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `href="/posts/admin/a%2Fb"`)
	})
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	db := setupTestDB(t)
	setupTestData(t, db)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	router := SetupRoutes(db.DB, Options{
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
	})

	for _, path := range []string{"/posts/admin", "/posts/admin/test-post", "/api/posts/admin/test-post"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest("GET", path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			req = httptest.NewRequest("GET", path, nil)
			req.SetBasicAuth("admin", "hunter2")
			w = httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}

	t.Run("healthz stays open", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/healthz", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
