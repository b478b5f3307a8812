// Package controllers provides HTTP handlers for various admin operations.
// File: controllers/admin_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-facilities-admin/logger"
	"go-facilities-admin/services"
	"go-facilities-admin/websocket"
)

// ---------------- Admin Controller ----------------

// AdminController reports how the console is wired.
type AdminController struct {
	Table *services.EndpointTable
	Hub   *websocket.Hub
}

// NewAdminController initializes a new instance of AdminController
func NewAdminController(table *services.EndpointTable, hub *websocket.Hub) *AdminController {
	return &AdminController{Table: table, Hub: hub}
}

// ListEndpoints returns the binding table.
func (ac *AdminController) ListEndpoints(c *gin.Context) {
	logger.Debug.Printf("ListEndpoints: %d endpoints", len(ac.Table.Endpoints))
	c.JSON(http.StatusOK, gin.H{"endpoints": ac.Table.All()})
}

// Connections returns the number of open update streams of ?operator=.
func (ac *AdminController) Connections(c *gin.Context) {
	operator := c.Query("operator")
	if operator == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "operator is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"operator": operator, "connections": ac.Hub.ConnectionCount(operator)})
}
