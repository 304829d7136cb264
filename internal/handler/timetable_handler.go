package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-viewer/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-viewer/pkg/errors"
	"github.com/noah-isme/sma-timetable-viewer/pkg/response"
)

type timetableLister interface {
	List(ctx context.Context, limit int) ([]models.TimetableSummary, error)
}

// TimetableHandler lists stored timetables that views can be opened on.
type TimetableHandler struct {
	service timetableLister
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(service timetableLister) *TimetableHandler {
	return &TimetableHandler{service: service}
}

// List godoc
// @Summary List stored timetables
// @Tags Timetables
// @Produce json
// @Param limit query int false "Maximum number of timetables (default 20, max 100)"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	items, err := h.service.List(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"count": len(items)})
}
