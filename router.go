// file: router.go
package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-facilities-admin/config"
	"go-facilities-admin/controllers"
	"go-facilities-admin/forms"
	"go-facilities-admin/middleware"
)

// sessionName is the cookie holding the operator session.
const sessionName = "facilities-session"

// setupRouter registers every route of the console.
func setupRouter(cfg config.Config, a *app) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Frame-Options", "SAMEORIGIN")
		if c.GetHeader("X-Request-ID") == "" {
			c.Request.Header.Set("X-Request-ID", uuid.NewString())
		}
		c.Writer.Header().Set("X-Request-ID", c.GetHeader("X-Request-ID"))
		c.Next()
	})

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionName, store))

	// Public routes
	router.GET("/health", controllers.Health)
	router.POST("/login", a.auth.LoginHandler)
	router.POST("/logout", controllers.Logout)

	// Protected routes
	protected := router.Group("/", middleware.AuthRequired)
	{
		rc := controllers.NewResourceController(a.stores)
		protected.GET("/api/resources", rc.List)
		protected.GET("/api/resources/:name", rc.Get)
		protected.POST("/api/resources/:name/dispatch", rc.Dispatch)

		dc := controllers.NewDraftController(a.drafts, a.stores)
		protected.POST("/drafts/meeting", dc.Create(forms.KindMeeting))
		protected.POST("/drafts/mail-inbound", dc.Create(forms.KindMailInbound))
		protected.GET("/drafts/:id", dc.Show)
		protected.DELETE("/drafts/:id", dc.Discard)
		protected.POST("/drafts/:id/rows/:collection", dc.AddRow)
		protected.DELETE("/drafts/:id/rows/:collection/:index", dc.RemoveRow)
		protected.PATCH("/drafts/:id/fields", dc.SetField)
		protected.POST("/drafts/:id/attachments", dc.Attach)
		protected.POST("/drafts/:id/submit", dc.Submit)

		protected.GET("/mail-inbound/label", controllers.PackageLabel)
		protected.GET("/resource-updates", controllers.ResourceUpdates(a.hub))
	}

	// Admin routes
	admin := router.Group("/admin", middleware.AuthRequired, middleware.AdminRequired())
	{
		ac := controllers.NewAdminController(a.table, a.hub)
		admin.GET("/endpoints", ac.ListEndpoints)
		admin.GET("/connections", ac.Connections)
	}

	return router
}
