package user

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"booktracker/internal/httpx"
	"booktracker/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestHandler() *HTTPHandler {
	return NewHTTPHandler(NewService(newFakeRepo()), testSecret)
}

func TestHTTPHandler_Register(t *testing.T) {
	handler := newTestHandler()

	t.Run("created with token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/auth/register", map[string]string{
			"name":     "Alice",
			"email":    "alice@example.com",
			"password": "secret-password",
		})

		handler.Register(w, r)

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusCreated, resp.Code)
		data := resp.Body["data"].(map[string]interface{})
		assert.NotEmpty(t, data["token"])
		u := data["user"].(map[string]interface{})
		assert.Equal(t, "alice@example.com", u["email"])
		assert.NotContains(t, u, "password")
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/auth/register", map[string]string{
			"name":     "Alice Again",
			"email":    "alice@example.com",
			"password": "secret-password",
		})

		handler.Register(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/auth/register", map[string]string{
			"name":     "Bob",
			"email":    "not-an-email",
			"password": "123",
		})

		handler.Register(w, r)

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		errBody := resp.Body["error"].(map[string]interface{})
		assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
		assert.Len(t, errBody["details"], 2)
	})
}

func TestHTTPHandler_Login(t *testing.T) {
	handler := newTestHandler()

	register := testutil.NewRequest(http.MethodPost, "/auth/register", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "secret-password",
	})
	handler.Register(httptest.NewRecorder(), register)

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "secret-password",
		})

		handler.Login(w, r)

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, resp.Code)
		data := resp.Body["data"].(map[string]interface{})
		assert.NotEmpty(t, data["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/auth/login", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		})

		handler.Login(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/auth/login", map[string]string{
			"email":    "nobody@example.com",
			"password": "whatever",
		})

		handler.Login(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHTTPHandler_Me(t *testing.T) {
	repo := newFakeRepo()
	handler := NewHTTPHandler(NewService(repo), testSecret)

	u := &User{Email: "alice@example.com", Name: "Alice", Password: "hash"}
	require.NoError(t, repo.Create(nil, u))

	t.Run("authenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/me", nil)
		r = r.WithContext(httpx.ContextWithUser(r.Context(), u.ID))

		handler.Me(w, r)

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, resp.Code)
		data := resp.Body["data"].(map[string]interface{})
		assert.Equal(t, "Alice", data["name"])
	})

	t.Run("missing identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/me", nil)

		handler.Me(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
