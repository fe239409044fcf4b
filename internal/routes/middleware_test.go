package routes_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"todo-auth/backend/internal/auth"
	"todo-auth/backend/internal/routes"
)

// stubValidator は "good-<subject>" 形式のトークンだけを受け付けます。
type stubValidator struct {
	calls int
}

func (s *stubValidator) ValidateToken(token string) (string, error) {
	s.calls++
	if len(token) > 5 && token[:5] == "good-" {
		return token[5:], nil
	}
	return "", errors.New("invalid token")
}

func newMiddlewareRouter(v routes.TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(routes.AuthMiddleware(v))
	r.GET("/whoami", func(c *gin.Context) {
		userID, ok := auth.UserIDFromContext(c.Request.Context())
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, strconv.FormatInt(userID, 10))
	})
	r.GET("/private", routes.RequireAuth(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func whoami(r http.Handler, header string) string {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Body.String()
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	v := &stubValidator{}
	r := newMiddlewareRouter(v)

	assert.Equal(t, "42", whoami(r, "Bearer good-42"))
	assert.Equal(t, 1, v.calls)
}

func TestAuthMiddleware_PassesThroughAnonymous(t *testing.T) {
	cases := map[string]string{
		"no header":        "",
		"lowercase scheme": "bearer good-42",
		"missing space":    "Bearergood-42",
		"basic scheme":     "Basic dXNlcjpwYXNz",
		"invalid token":    "Bearer invalid.jwt.token",
		"non numeric sub":  "Bearer good-alice",
		"non positive sub": "Bearer good-0",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			r := newMiddlewareRouter(&stubValidator{})
			assert.Equal(t, "anonymous", whoami(r, header))
		})
	}
}

func TestAuthMiddleware_SkipsValidationWithoutBearer(t *testing.T) {
	v := &stubValidator{}
	r := newMiddlewareRouter(v)

	whoami(r, "")
	whoami(r, "Token good-1")
	assert.Zero(t, v.calls)
}

func TestRequireAuth(t *testing.T) {
	r := newMiddlewareRouter(&stubValidator{})

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Authentication required"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer good-3")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(routes.RequestLogger())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}
