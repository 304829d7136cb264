package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-viewer/internal/dto"
	"github.com/noah-isme/sma-timetable-viewer/internal/middleware"
	appErrors "github.com/noah-isme/sma-timetable-viewer/pkg/errors"
	"github.com/noah-isme/sma-timetable-viewer/pkg/response"
)

type viewService interface {
	Open(ctx context.Context, req dto.OpenViewRequest) (*dto.ViewResponse, error)
	Get(ctx context.Context, id string) (*dto.ViewResponse, error)
	SwitchView(ctx context.Context, id string, req dto.SwitchViewRequest) (*dto.ViewResponse, error)
	Select(ctx context.Context, id string, req dto.SelectItemRequest) (*dto.ViewResponse, error)
	Close(ctx context.Context, id string) error
}

// ViewHandler exposes the timetable view lifecycle.
type ViewHandler struct {
	service         viewService
	maxPayloadBytes int64
}

// NewViewHandler constructs the handler. maxPayloadBytes caps the open view
// body, which may carry a whole timetable.
func NewViewHandler(service viewService, maxPayloadBytes int64) *ViewHandler {
	return &ViewHandler{service: service, maxPayloadBytes: maxPayloadBytes}
}

// Open godoc
// @Summary Open a timetable view
// @Description Opens a view over an inline timetable or a stored timetable id. The first class (or faculty member) is selected.
// @Tags Views
// @Accept json
// @Produce json
// @Param payload body dto.OpenViewRequest true "Timetable or timetable id"
// @Param refresh query bool false "Reload a stored timetable instead of using the cached copy"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /views [post]
func (h *ViewHandler) Open(c *gin.Context) {
	if h.maxPayloadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxPayloadBytes)
	}
	var req dto.OpenViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrPayloadTooLarge.Code, appErrors.ErrPayloadTooLarge.Status, appErrors.ErrPayloadTooLarge.Message))
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.ViewType = normalise(req.ViewType)
	req.TimetableID = strings.TrimSpace(req.TimetableID)
	if raw := c.Query("refresh"); raw != "" {
		refresh, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "refresh must be a boolean"))
			return
		}
		req.Refresh = refresh
	}
	if claims := middleware.Claims(c); claims != nil {
		req.OpenedBy = claims.UserID
		if req.OpenedBy == "" {
			req.OpenedBy = claims.Subject
		}
	}

	view, err := h.service.Open(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Location", view.Links.Self)
	response.Created(c, view)
}

// Get godoc
// @Summary Render a timetable view
// @Tags Views
// @Produce json
// @Param id path string true "View ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /views/{id} [get]
func (h *ViewHandler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// SwitchView godoc
// @Summary Switch between class and faculty timetables
// @Tags Views
// @Accept json
// @Produce json
// @Param id path string true "View ID"
// @Param payload body dto.SwitchViewRequest true "View type"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /views/{id}/view-type [put]
func (h *ViewHandler) SwitchView(c *gin.Context) {
	var req dto.SwitchViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	req.ViewType = normalise(req.ViewType)

	view, err := h.service.SwitchView(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Select godoc
// @Summary Select a class or faculty member
// @Description Unknown ids are accepted and render without a grid.
// @Tags Views
// @Accept json
// @Produce json
// @Param id path string true "View ID"
// @Param payload body dto.SelectItemRequest true "Entity id"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /views/{id}/selection [put]
func (h *ViewHandler) Select(c *gin.Context) {
	var req dto.SelectItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	view, err := h.service.Select(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// Close godoc
// @Summary Close a timetable view
// @Tags Views
// @Param id path string true "View ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /views/{id} [delete]
func (h *ViewHandler) Close(c *gin.Context) {
	if err := h.service.Close(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func normalise(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
