// File: controllers/draft_controller.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-facilities-admin/forms"
	"go-facilities-admin/logger"
	"go-facilities-admin/models"
	"go-facilities-admin/payload"
	"go-facilities-admin/resource"
	"go-facilities-admin/services"
)

// maxAttachmentBytes caps one uploaded file.
const maxAttachmentBytes = 10 << 20

// submitBindings maps draft kinds to the binding that receives them.
var submitBindings = map[string]string{
	forms.KindMeeting:     services.CreateMeeting,
	forms.KindMailInbound: services.CreateMailInbound,
}

// DraftController edits and submits server-side form drafts.
type DraftController struct {
	Drafts services.DraftServiceInterface
	Stores resource.StoreProvider
	Scheme payload.KeyScheme
}

// NewDraftController initializes a new instance of DraftController
func NewDraftController(drafts services.DraftServiceInterface, stores resource.StoreProvider) *DraftController {
	return &DraftController{Drafts: drafts, Stores: stores, Scheme: payload.Bracket{}}
}

// draftStatus maps form and draft errors to HTTP status codes.
func draftStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrDraftNotFound):
		return http.StatusNotFound
	case errors.Is(err, forms.ErrValidation), errors.Is(err, forms.ErrMinimumRows):
		return http.StatusUnprocessableEntity
	case errors.Is(err, forms.ErrSubmitFailed):
		return http.StatusBadGateway
	case errors.Is(err, forms.ErrNotEditable):
		return http.StatusConflict
	case errors.Is(err, forms.ErrUnknownCollection), errors.Is(err, forms.ErrUnknownField),
		errors.Is(err, forms.ErrRowOutOfRange), errors.Is(err, services.ErrUnknownDraftKind):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// edit runs fn on the draft and answers with its view, or with the error
// and the view when fn fails.
func (dc *DraftController) edit(c *gin.Context, fn func(forms.Draft) error) {
	owner := SessionFromContext(c).User
	var view any
	err := dc.Drafts.With(owner, c.Param("id"), func(d forms.Draft) error {
		err := fn(d)
		view = d.View()
		return err
	})
	switch {
	case err == nil:
		c.JSON(http.StatusOK, view)
	case view == nil:
		abortWithError(c, draftStatus(err), err)
	default:
		c.JSON(draftStatus(err), gin.H{"error": err.Error(), "draft": view})
	}
}

// ------------------ lifecycle ------------------

// Create returns a handler that starts a draft of kind.
func (dc *DraftController) Create(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := SessionFromContext(c).User
		id, err := dc.Drafts.Create(owner, kind)
		if err != nil {
			abortWithError(c, draftStatus(err), err)
			return
		}
		var view any
		if err := dc.Drafts.With(owner, id, func(d forms.Draft) error {
			view = d.View()
			return nil
		}); err != nil {
			abortWithError(c, draftStatus(err), err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": id, "draft": view})
	}
}

// Show returns the draft view. Pending notifications are drained.
func (dc *DraftController) Show(c *gin.Context) {
	dc.edit(c, func(forms.Draft) error { return nil })
}

// Discard drops the draft.
func (dc *DraftController) Discard(c *gin.Context) {
	if !dc.Drafts.Discard(SessionFromContext(c).User, c.Param("id")) {
		abortWithError(c, http.StatusNotFound, services.ErrDraftNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// ------------------ editing ------------------

// AddRow appends a row to a collection.
func (dc *DraftController) AddRow(c *gin.Context) {
	dc.edit(c, func(d forms.Draft) error { return d.AddRow(c.Param("collection")) })
}

// RemoveRow deletes the row at :index.
func (dc *DraftController) RemoveRow(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("invalid index %q", c.Param("index")))
		return
	}
	dc.edit(c, func(d forms.Draft) error { return d.RemoveRow(c.Param("collection"), index) })
}

type fieldUpdate struct {
	Collection string `json:"collection"`
	Index      *int   `json:"index"`
	Field      string `json:"field" binding:"required"`
	Value      string `json:"value"`
}

// SetField changes one field. Top-level fields omit collection and index.
func (dc *DraftController) SetField(c *gin.Context) {
	var req fieldUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Errorf("invalid field update: %w", err))
		return
	}
	index := forms.TopLevel
	if req.Index != nil {
		index = *req.Index
	}
	dc.edit(c, func(d forms.Draft) error { return d.SetField(req.Collection, index, req.Field, req.Value) })
}

// Attach stores the uploaded "file" on the draft, optionally on the row
// given by the collection and index form values.
func (dc *DraftController) Attach(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, errors.New("file is required"))
		return
	}
	if header.Size > maxAttachmentBytes {
		abortWithError(c, http.StatusRequestEntityTooLarge, fmt.Errorf("%s exceeds %d bytes", header.Filename, maxAttachmentBytes))
		return
	}
	index := forms.TopLevel
	if raw := c.PostForm("index"); raw != "" {
		if index, err = strconv.Atoi(raw); err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Errorf("invalid index %q", raw))
			return
		}
	}

	f, err := header.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, maxAttachmentBytes))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}

	a := payload.Attachment{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     content,
	}
	dc.edit(c, func(d forms.Draft) error { return d.Attach(c.PostForm("collection"), index, a) })
}

// ------------------ submission ------------------

// Submit validates the draft and sends it to its create binding. A submitted
// draft is discarded.
func (dc *DraftController) Submit(c *gin.Context) {
	sess := SessionFromContext(c)
	id := c.Param("id")
	var (
		view   any
		st     resource.State[models.CreatedRecord]
		errs   forms.Errors
		status = http.StatusCreated
	)

	err := dc.Drafts.With(sess.User, id, func(d forms.Draft) error {
		defer func() { view = d.View() }()
		binding, ok := submitBindings[d.Kind()]
		if !ok {
			return fmt.Errorf("%w: %s", services.ErrUnknownDraftKind, d.Kind())
		}
		slice, ok := resource.Lookup[services.Call, models.CreatedRecord](dc.Stores.GetStore(sess.User), binding)
		if !ok {
			return fmt.Errorf("%w: %s", services.ErrEndpointNotFound, binding)
		}
		dispatch := func(ctx context.Context, p *payload.Payload) resource.State[models.CreatedRecord] {
			return slice.Dispatch(ctx, services.Call{Session: sess, Request: services.Request{Payload: p}})
		}
		var err error
		st, errs, err = forms.Submit[models.CreatedRecord](c.Request.Context(), d, dc.Scheme, dispatch)
		return err
	})
	if err != nil {
		status = draftStatus(err)
		if errors.Is(err, services.ErrEndpointNotFound) {
			status = http.StatusInternalServerError
		}
		if view == nil {
			abortWithError(c, status, err)
			return
		}
		c.JSON(status, gin.H{"error": err.Error(), "errors": errs.List(), "draft": view})
		return
	}

	dc.Drafts.Discard(sess.User, id)
	logger.Info.Printf("Submit: draft %s of %s created record %d", id, sess.User, st.Data.ID)
	c.JSON(status, gin.H{"record": st.Data, "draft": view})
}
