// file: controllers/test_helpers_test.go
package controllers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-facilities-admin/middleware"
)

// setupTestRouter creates a new Gin engine with session middleware.
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("testsession", store))
	return router
}

// SetSession sets the given key/value pairs in the session using a helper route
// and returns the session cookie that can be attached to subsequent test requests.
func SetSession(router *gin.Engine, route string, data map[string]interface{}) *http.Cookie {
	router.GET(route, func(c *gin.Context) {
		session := sessions.Default(c)
		for key, value := range data {
			session.Set(key, value)
		}
		if err := session.Save(); err != nil {
			c.String(http.StatusInternalServerError, "session save failed")
			return
		}
		c.String(http.StatusOK, "session set")
	})

	req, _ := http.NewRequest("GET", route, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.Name == "testsession" {
			return ck
		}
	}
	return nil
}

// operatorSession logs in operator "desk" against backend.test.
func operatorSession(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()
	ck := SetSession(router, "/set-session", map[string]interface{}{
		middleware.SessionUser:    "desk",
		middleware.SessionToken:   "tok",
		middleware.SessionHost:    "backend.test",
		middleware.SessionIsAdmin: false,
	})
	require.NotNil(t, ck, "Session cookie should not be nil")
	return ck
}

// perform sends a request with an optional JSON body and session cookie.
func perform(router *gin.Engine, method, path string, body interface{}, ck *http.Cookie) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		r = strings.NewReader(string(raw))
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ck != nil {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decode unmarshals a recorder body into v.
func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// hashPassword hashes the given password using bcrypt.
func hashPassword(password string) string {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic("failed to hash password: " + err.Error())
	}
	return string(hashed)
}
