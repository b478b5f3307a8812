// file: middleware/admin_required_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func adminRoute(router *gin.Engine) {
	router.GET("/admin-only", AuthRequired, AdminRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"operator": c.GetString(ContextUser)})
	})
}

func operatorValues(isAdmin bool) map[string]interface{} {
	return map[string]interface{}{
		SessionUser:    "desk",
		SessionHost:    "backend.test",
		SessionIsAdmin: isAdmin,
	}
}

// Test: an admin operator reaches the handler
func TestAdminRequired_Admin(t *testing.T) {
	router := setupSessionRouter(operatorValues(true))
	adminRoute(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, seededRequest(t, router, "/admin-only"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"operator": "desk"}`, w.Body.String())
}

// Test: a logged-in operator without the admin flag is forbidden, not unauthenticated
func TestAdminRequired_NonAdminForbidden(t *testing.T) {
	router := setupSessionRouter(operatorValues(false))
	adminRoute(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, seededRequest(t, router, "/admin-only"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error": "Admin access required"}`, w.Body.String())
}

// Test: an admin flag without a logged-in operator is not enough
func TestAdminRequired_WithoutOperator(t *testing.T) {
	router := setupSessionRouter(map[string]interface{}{SessionIsAdmin: true})
	router.GET("/admin-only", AdminRequired(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, seededRequest(t, router, "/admin-only"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error": "Not logged in"}`, w.Body.String())
}

// Test: requests without a session are blocked
func TestAdminRequired_NoSession(t *testing.T) {
	router := setupSessionRouter(nil)
	adminRoute(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
