package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"todo-auth/backend/testutil"
)

func TestRouter_Status(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t)

	w := testutil.DoJSON(t, r, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Database connection is healthy"}`, w.Body.String())
}

func TestRouter_StatusWithClosedDB(t *testing.T) {
	r, db := testutil.SetupTestRouter(t)
	db.Close()

	w := testutil.DoJSON(t, r, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouter_UnknownPath(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t)

	w := testutil.DoJSON(t, r, http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := testutil.SignupAndLogin(t, r, "a@x.com", "pw1")
	w = testutil.DoJSON(t, r, http.MethodGet, "/api/unknown", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutil.DoJSON(t, r, http.MethodGet, "/api/unknown", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r, _ := testutil.SetupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/todo", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
