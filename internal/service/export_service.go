package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-viewer/internal/dto"
	"github.com/noah-isme/sma-timetable-viewer/internal/models"
	"github.com/noah-isme/sma-timetable-viewer/internal/viewer"
	appErrors "github.com/noah-isme/sma-timetable-viewer/pkg/errors"
	"github.com/noah-isme/sma-timetable-viewer/pkg/export"
	"github.com/noah-isme/sma-timetable-viewer/pkg/storage"
)

// Export formats and scopes.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"

	ScopeAll     = "all"
	ScopeCurrent = "current"
)

var contentTypes = map[string]string{
	FormatCSV:  "text/csv",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
}

type viewReader interface {
	Get(ctx context.Context, id string) (*models.ViewSession, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix     string
	DefaultFormat string
	FileTTL       time.Duration
}

// RenderedFile is an in-memory print or export.
type RenderedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Download is an opened stored export. Callers close File.
type Download struct {
	File        *os.File
	Filename    string
	ContentType string
}

// ExportService renders views for printing and download. It only reads view
// sessions.
type ExportService struct {
	views     viewReader
	storage   fileStorage
	signer    *storage.SignedURLSigner
	renderers map[string]documentRenderer
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// default exporters.
func NewExportService(views viewReader, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, metrics *MetricsService, logger *zap.Logger, csv, xlsx, pdf documentRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FileTTL <= 0 {
		cfg.FileTTL = 24 * time.Hour
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/v1"
	}
	if _, ok := contentTypes[cfg.DefaultFormat]; !ok {
		cfg.DefaultFormat = FormatCSV
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		views:   views,
		storage: files,
		signer:  signer,
		renderers: map[string]documentRenderer{
			FormatCSV:  csv,
			FormatXLSX: xlsx,
			FormatPDF:  pdf,
		},
		validator: validator.New(),
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
	}
}

// Print renders the currently displayed view as a PDF.
func (s *ExportService) Print(ctx context.Context, viewID string) (*RenderedFile, error) {
	session, err := s.views.Get(ctx, viewID)
	if err != nil {
		return nil, err
	}
	state := stateOf(session)

	start := time.Now()
	payload, err := s.renderers[FormatPDF].Render(buildDocument(session, state, ScopeCurrent))
	s.metrics.RecordExport("print", err, time.Since(start))
	if err != nil {
		s.logger.Error("print failed", zap.String("view_id", viewID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrExportFailed.Code, appErrors.ErrExportFailed.Status, "print failed")
	}

	return &RenderedFile{
		Filename:    downloadName(state, ScopeCurrent, FormatPDF),
		ContentType: contentTypes[FormatPDF],
		Data:        payload,
	}, nil
}

// Export renders the view, stores the file and returns a signed download link.
func (s *ExportService) Export(ctx context.Context, viewID string, req dto.ExportRequest) (*dto.ExportResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	format := req.Format
	if format == "" {
		format = s.cfg.DefaultFormat
	}
	scope := req.Scope
	if scope == "" {
		scope = ScopeAll
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.ErrUnsupportedFormat
	}

	session, err := s.views.Get(ctx, viewID)
	if err != nil {
		return nil, err
	}
	state := stateOf(session)

	doc := buildDocument(session, state, scope)
	if len(doc.Tables) == 0 && format != FormatPDF {
		return nil, appErrors.ErrNothingToExport
	}

	start := time.Now()
	payload, err := renderer.Render(doc)
	s.metrics.RecordExport(format, err, time.Since(start))
	if err != nil {
		s.logger.Error("export render failed", zap.String("view_id", viewID), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrExportFailed.Code, appErrors.ErrExportFailed.Status, "export failed")
	}

	exportID := uuid.NewString()
	relPath, err := s.storage.Save(path.Join("views", viewID, exportID+"."+format), payload)
	if err != nil {
		s.logger.Error("export store failed", zap.String("view_id", viewID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrExportFailed.Code, appErrors.ErrExportFailed.Status, "export failed")
	}

	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrExportFailed.Code, appErrors.ErrExportFailed.Status, "export failed")
	}

	s.logger.Info("export created",
		zap.String("view_id", viewID),
		zap.String("export_id", exportID),
		zap.String("format", format),
		zap.String("scope", scope),
		zap.Int("tables", len(doc.Tables)),
	)

	return &dto.ExportResponse{
		ExportID:  exportID,
		Format:    format,
		Scope:     scope,
		Filename:  downloadName(state, scope, format),
		URL:       fmt.Sprintf("%s/exports/%s", strings.TrimRight(s.cfg.APIPrefix, "/"), token),
		ExpiresAt: expiresAt,
	}, nil
}

// Open validates a download token and opens the stored file.
func (s *ExportService) Open(token string) (*Download, error) {
	grant, err := s.signer.Parse(token, false)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Wrap(err, appErrors.ErrExportExpired.Code, appErrors.ErrExportExpired.Status, appErrors.ErrExportExpired.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrExportNotFound.Code, appErrors.ErrExportNotFound.Status, appErrors.ErrExportNotFound.Message)
	}
	file, err := s.storage.Open(grant.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, appErrors.Wrap(err, appErrors.ErrExportExpired.Code, appErrors.ErrExportExpired.Status, "export file no longer available")
		}
		return nil, err
	}

	ext := strings.TrimPrefix(path.Ext(grant.Path), ".")
	contentType, ok := contentTypes[ext]
	if !ok {
		contentType = "application/octet-stream"
	}
	return &Download{File: file, Filename: "timetable-" + path.Base(grant.Path), ContentType: contentType}, nil
}

// StartCleanup removes expired export files every interval until ctx is done.
func (s *ExportService) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// Cleanup removes export files older than the file TTL.
func (s *ExportService) Cleanup() int {
	removed, err := s.storage.CleanupOlderThan(s.cfg.FileTTL)
	if err != nil {
		s.logger.Warn("export cleanup failed", zap.Error(err))
		return 0
	}
	if len(removed) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
	}
	return len(removed)
}

// buildDocument converts the view into exporter tables. ScopeCurrent renders
// only the displayed grid, ScopeAll every entity of the active view type.
func buildDocument(session *models.ViewSession, state viewer.State, scope string) export.Document {
	tt := session.Timetable
	doc := export.Document{
		Title:   viewer.ViewTypeLabel(state.ViewType),
		Heading: viewer.Describe(tt).Line,
	}

	var grids []*viewer.Grid
	if scope == ScopeCurrent {
		if grid, ok := viewer.Resolve(state, tt); ok {
			grids = append(grids, grid)
		}
	} else {
		grids = viewer.ResolveAll(state, tt)
	}
	for _, grid := range grids {
		doc.Tables = append(doc.Tables, tableOf(grid))
	}

	summary := viewer.Summarize(tt)
	doc.Summary = []export.SummaryItem{
		{Label: "Total Classes", Value: fmt.Sprintf("%d", summary.TotalClasses)},
		{Label: "Total Subjects", Value: fmt.Sprintf("%d", summary.TotalSubjects)},
		{Label: "Faculty Members", Value: fmt.Sprintf("%d", summary.TotalFaculty)},
		{Label: "Room Utilization", Value: summary.RoomUtilizationLabel},
	}
	return doc
}

func tableOf(grid *viewer.Grid) export.Table {
	table := export.Table{
		Title:   grid.Title,
		Badge:   grid.Badge,
		Headers: append([]string{"Time"}, grid.Days...),
		Rows:    make([]export.Row, 0, len(grid.Rows)),
	}
	for _, row := range grid.Rows {
		r := export.Row{Label: row.Label, Cells: make([]export.Cell, 0, len(row.Cells))}
		for _, cell := range row.Cells {
			r.Cells = append(r.Cells, export.Cell{Lines: cell.Lines()})
		}
		table.Rows = append(table.Rows, r)
	}
	return table
}

func downloadName(state viewer.State, scope, format string) string {
	name := "timetable-" + string(state.ViewType)
	if scope == ScopeCurrent && state.SelectedID != "" {
		name += "-" + strings.Map(func(r rune) rune {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
				return r
			}
			return '_'
		}, state.SelectedID)
	}
	return name + "." + format
}
