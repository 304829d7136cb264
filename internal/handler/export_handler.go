package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-viewer/internal/dto"
	"github.com/noah-isme/sma-timetable-viewer/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-viewer/pkg/errors"
	"github.com/noah-isme/sma-timetable-viewer/pkg/response"
)

type exportService interface {
	Print(ctx context.Context, viewID string) (*service.RenderedFile, error)
	Export(ctx context.Context, viewID string, req dto.ExportRequest) (*dto.ExportResponse, error)
	Open(token string) (*service.Download, error)
}

// ExportHandler serves prints, exports and export downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Print godoc
// @Summary Print the current view
// @Description Returns the displayed timetable as an inline PDF. The view is not modified.
// @Tags Exports
// @Produce application/pdf
// @Param id path string true "View ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /views/{id}/print [get]
func (h *ExportHandler) Print(c *gin.Context) {
	file, err := h.service.Print(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Binary(c, file.ContentType, file.Filename, file.Data, true)
}

// Export godoc
// @Summary Export a view
// @Description Renders every entity of the active view type (scope=all) or only the displayed one (scope=current) and returns a signed download link.
// @Tags Exports
// @Accept json
// @Produce json
// @Param id path string true "View ID"
// @Param payload body dto.ExportRequest false "Format and scope"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /views/{id}/exports [post]
func (h *ExportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.Format == "" {
		req.Format = c.Query("format")
	}
	if req.Scope == "" {
		req.Scope = c.Query("scope")
	}
	req.Format = normalise(req.Format)
	req.Scope = normalise(req.Scope)

	result, err := h.service.Export(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download an export
// @Tags Exports
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Failure 410 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	download, err := h.service.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), download.ContentType, download.File, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", download.Filename),
	})
}
