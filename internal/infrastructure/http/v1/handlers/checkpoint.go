package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/checkpoint"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// CheckpointHandler manages operator-configured stock baselines.
type CheckpointHandler struct {
	*BaseHandler
	checkpoints *checkpoint.Service
}

// NewCheckpointHandler creates a new checkpoint handler.
func NewCheckpointHandler(base *BaseHandler, checkpoints *checkpoint.Service) *CheckpointHandler {
	return &CheckpointHandler{BaseHandler: base, checkpoints: checkpoints}
}

// Get returns a product's stored checkpoint.
// GET /api/v1/checkpoints?product=&category=
func (h *CheckpointHandler) Get(c *gin.Context) {
	key, ok := h.ProductKeyQuery(c)
	if !ok {
		return
	}

	cp, err := h.checkpoints.Get(c.Request.Context(), key)
	if err != nil {
		h.Error(c, err)
		return
	}
	if cp == nil {
		h.Error(c, apperror.NewNotFound("checkpoint", key.String()))
		return
	}
	h.OK(c, dto.FromCheckpoint(*cp))
}

// Preview validates a candidate checkpoint without saving it.
// POST /api/v1/checkpoints/preview?product=&category=
func (h *CheckpointHandler) Preview(c *gin.Context) {
	key, ok := h.ProductKeyQuery(c)
	if !ok {
		return
	}

	var req dto.CheckpointRequest
	if !h.BindJSON(c, &req) {
		return
	}

	warnings, err := h.checkpoints.Preview(c.Request.Context(), key, req.ToCheckpoint())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.CheckpointSaveResponse{Saved: false, Warnings: dto.FromWarnings(warnings)})
}

// Put validates and saves a checkpoint. A blocking validation finding comes
// back as 422 with the full finding list; non-blocking findings accompany the
// successful save.
// PUT /api/v1/checkpoints?product=&category=
func (h *CheckpointHandler) Put(c *gin.Context) {
	key, ok := h.ProductKeyQuery(c)
	if !ok {
		return
	}

	var req dto.CheckpointRequest
	if !h.BindJSON(c, &req) {
		return
	}

	warnings, err := h.checkpoints.Save(c.Request.Context(), key, req.ToCheckpoint())
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeCheckpointInvalid {
			// The finding list is the useful part of the rejection, so the
			// handler writes this response itself instead of deferring to
			// the error middleware.
			c.JSON(http.StatusUnprocessableEntity, dto.CheckpointSaveResponse{
				Saved:    false,
				Warnings: dto.FromWarnings(warnings),
			})
			return
		}
		h.Error(c, err)
		return
	}

	h.OK(c, dto.CheckpointSaveResponse{Saved: true, Warnings: dto.FromWarnings(warnings)})
}
