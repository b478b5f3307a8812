// Package controllers holds the Gin handlers of the admin console.
// File: controllers/auth_controller.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"go-facilities-admin/logger"
	"go-facilities-admin/middleware"
	"go-facilities-admin/models"
	"go-facilities-admin/services"
)

// ComparePasswords checks if the given password matches the hashed password
func ComparePasswords(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

// LoadOperatorCreds loads operator credentials from a JSON file.
// "isadmin" may be a boolean or the strings "true"/"True".
func LoadOperatorCreds(credPath string) (*models.OperatorCreds, error) {
	data, err := os.ReadFile(credPath) // #nosec G304
	if err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", credPath, err)
	}
	operators, _ := raw["operators"].([]interface{})
	for _, op := range operators {
		opMap, ok := op.(map[string]interface{})
		if !ok {
			continue
		}
		if isAdminStr, ok := opMap["isadmin"].(string); ok {
			opMap["isadmin"] = isAdminStr == "True" || isAdminStr == "true"
		}
	}

	parsedData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode JSON: %w", err)
	}
	var creds models.OperatorCreds
	if err := json.Unmarshal(parsedData, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse corrected JSON: %w", err)
	}
	logger.Debug.Printf("LoadOperatorCreds: %d operators loaded from %s", len(creds.Operators), credPath)
	return &creds, nil
}

// ------------------ login handling ------------------

// AuthController logs operators in and out.
type AuthController struct {
	LoadCreds func() (*models.OperatorCreds, error)
}

// NewAuthController reads credentials from credPath on every login.
func NewAuthController(credPath string) *AuthController {
	return &AuthController{LoadCreds: func() (*models.OperatorCreds, error) {
		return LoadOperatorCreds(credPath)
	}}
}

type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// LoginHandler authenticates the operator and stores the backend token and
// host in the session. Accepts a form or JSON body.
func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn.Println("LoginHandler: Missing username or password")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all fields."})
		return
	}

	creds, err := ac.LoadCreds()
	if err != nil {
		logger.Error.Println("LoginHandler: Failed to load operator credentials:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please try again later."})
		return
	}

	var op *models.Operator
	for i := range creds.Operators {
		candidate := &creds.Operators[i]
		if candidate.Username == req.Username && ComparePasswords(candidate.Password, req.Password) {
			op = candidate
			break
		}
	}
	if op == nil {
		logger.Warn.Printf("LoginHandler: Invalid login attempt for user %s", req.Username)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password."})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUser, op.Username)
	session.Set(middleware.SessionToken, op.Token)
	session.Set(middleware.SessionHost, op.BackendHost)
	session.Set(middleware.SessionIsAdmin, op.IsAdmin)
	if err := session.Save(); err != nil {
		logger.Error.Println("LoginHandler: Failed to save session:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error, please try again."})
		return
	}

	logger.Info.Printf("LoginHandler: Operator %s authenticated (isAdmin=%v)", op.Username, op.IsAdmin)
	c.JSON(http.StatusOK, gin.H{"user": op.Username, "isAdmin": op.IsAdmin})
}

// Logout clears the session.
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	if user := session.Get(middleware.SessionUser); user != nil {
		logger.Info.Printf("Logout: Logging out operator %s", user)
	}
	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Printf("Logout: Error saving session during logout: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// ------------------ session helpers ------------------

// SessionFromContext returns the backend session of the logged-in operator.
func SessionFromContext(c *gin.Context) services.Session {
	session := sessions.Default(c)
	user, _ := session.Get(middleware.SessionUser).(string)
	token, _ := session.Get(middleware.SessionToken).(string)
	host, _ := session.Get(middleware.SessionHost).(string)
	return services.Session{User: user, Token: token, Host: host}
}

// abortWithError answers {"error": msg} with status.
func abortWithError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

var errNoOperator = errors.New("not logged in")
