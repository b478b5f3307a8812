// Package controllers file: controllers/page_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-facilities-admin/logger"
	"go-facilities-admin/services"
	"go-facilities-admin/websocket"
)

// defaultLabelSize is the label edge in pixels.
const defaultLabelSize = 300

// labelEncoder renders package labels; tests replace it.
var labelEncoder = services.DefaultQRCodeEncoder

// Health answers load balancer checks.
func Health(c *gin.Context) {
	logger.Debug.Println("Health: Health check requested")
	c.String(http.StatusOK, "OK")
}

// PackageLabel returns a PNG QR code for the AWB number in ?awb=.
func PackageLabel(c *gin.Context) {
	size := defaultLabelSize
	if raw := c.Query("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size must be a number"})
			return
		}
		size = n
	}

	png, err := services.GeneratePackageLabel(c.Query("awb"), size, labelEncoder)
	if err != nil {
		logger.Warn.Printf("PackageLabel: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "inline; filename=\"package-label.png\"")
	c.Data(http.StatusOK, "image/png", png)
}

// ResourceUpdates upgrades to a websocket that streams the operator's
// resource transitions.
func ResourceUpdates(hub *websocket.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := SessionFromContext(c).User
		if owner == "" {
			abortWithError(c, http.StatusUnauthorized, errNoOperator)
			return
		}
		hub.ServeWs(c.Writer, c.Request, owner)
	}
}
