// File: controllers/resource_controller.go
package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-facilities-admin/logger"
	"go-facilities-admin/resource"
	"go-facilities-admin/services"
)

// ResourceController exposes the operator's resource store.
type ResourceController struct {
	Stores resource.StoreProvider
}

// NewResourceController initializes a new instance of ResourceController
func NewResourceController(stores resource.StoreProvider) *ResourceController {
	return &ResourceController{Stores: stores}
}

func (rc *ResourceController) store(c *gin.Context) *resource.Store {
	return rc.Stores.GetStore(SessionFromContext(c).User)
}

// List returns every snapshot in registration order.
func (rc *ResourceController) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"resources": rc.store(c).Snapshots()})
}

// Get returns one snapshot.
func (rc *ResourceController) Get(c *gin.Context) {
	r, ok := rc.store(c).Get(c.Param("name"))
	if !ok {
		abortWithError(c, http.StatusNotFound, fmt.Errorf("unknown resource %q", c.Param("name")))
		return
	}
	c.JSON(http.StatusOK, r.Snapshot())
}

// Dispatch runs the named operation once. The query string is forwarded
// except "id", which fills the {id} path placeholder; a JSON body is sent
// as-is to JSON endpoints.
func (rc *ResourceController) Dispatch(c *gin.Context) {
	name := c.Param("name")
	if submittedThroughDrafts(name) {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("resource %q is submitted through drafts", name))
		return
	}
	r, ok := rc.store(c).Get(name)
	if !ok {
		abortWithError(c, http.StatusNotFound, fmt.Errorf("unknown resource %q", name))
		return
	}
	runner, ok := r.(resource.Runner)
	if !ok {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("resource %q cannot be dispatched", name))
		return
	}

	query := c.Request.URL.Query()
	req := services.Request{Query: query}
	if id := query.Get("id"); id != "" {
		req.PathParams = map[string]string{"id": id}
		query.Del("id")
	}
	if c.Request.ContentLength > 0 {
		var body any
		if err := c.ShouldBindJSON(&body); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
			return
		}
		req.JSON = body
	}

	snap, err := runner.Run(c.Request.Context(), services.Call{Session: SessionFromContext(c), Request: req})
	if errors.Is(err, resource.ErrInputType) {
		logger.Error.Printf("Dispatch: %v", err)
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	if snap.Error != nil {
		c.JSON(http.StatusBadGateway, snap)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// submittedThroughDrafts reports whether name only accepts validated draft submissions.
func submittedThroughDrafts(name string) bool {
	for _, binding := range submitBindings {
		if binding == name {
			return true
		}
	}
	return false
}
