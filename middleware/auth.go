// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-facilities-admin/logger"
)

// Session keys written at login.
const (
	SessionUser    = "user"
	SessionToken   = "token"
	SessionHost    = "host"
	SessionIsAdmin = "isAdmin"
)

// ContextUser is the gin context key holding the authenticated operator.
const ContextUser = "operator"

// -------------- authentication middleware --------------

// AuthRequired is a middleware that ensures the operator is logged in.
// How it works:
// - Retrieves the session from the request context.
// - Checks that the "user" and "host" session variables are set.
// - If either is missing, answers 401 and aborts execution.
// - Otherwise, stores the operator name under ContextUser and proceeds.
// Usage:
//
//	router.Use(AuthRequired)
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	user, _ := session.Get(SessionUser).(string)
	host, _ := session.Get(SessionHost).(string)

	// block request if session is incomplete
	if user == "" || host == "" {
		logger.Warn.Printf("AuthRequired: No operator in session for %s %s", c.Request.Method, c.Request.URL.Path)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
		c.Abort()
		return
	}

	logger.Debug.Printf("[AuthRequired] Operator %s authenticated - proceeding with request", user)
	c.Set(ContextUser, user)
	c.Next()
}
