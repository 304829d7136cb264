package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-viewer/internal/dto"
	"github.com/noah-isme/sma-timetable-viewer/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-viewer/pkg/errors"
	"github.com/noah-isme/sma-timetable-viewer/pkg/export"
	"github.com/noah-isme/sma-timetable-viewer/pkg/storage"
)

type failingRenderer struct{}

func (failingRenderer) Render(doc export.Document) ([]byte, error) {
	return nil, errors.New("renderer exploded")
}

type exportFixture struct {
	views   *ViewService
	exports *ExportService
	store   *sessionStoreStub
	files   *storage.LocalStorage
	viewID  string
}

func newExportFixture(t *testing.T, pdf documentRenderer) exportFixture {
	t.Helper()
	store := newSessionStoreStub()
	views := NewViewService(store, nil, nil, nil, ViewConfig{APIPrefix: "/api/v1"}, zap.NewNop())
	view, err := views.Open(context.Background(), dto.OpenViewRequest{Timetable: sampleTimetable()})
	require.NoError(t, err)

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	exports := NewExportService(store, files, signer, ExportConfig{APIPrefix: "/api/v1"}, NewMetricsService(), zap.NewNop(), nil, nil, pdf)

	return exportFixture{views: views, exports: exports, store: store, files: files, viewID: view.ID}
}

func TestExportServiceExportCSVAllEntities(t *testing.T) {
	fx := newExportFixture(t, nil)
	savesBefore := fx.store.saveCount()

	result, err := fx.exports.Export(context.Background(), fx.viewID, dto.ExportRequest{})
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, result.Format)
	assert.Equal(t, ScopeAll, result.Scope)
	assert.Equal(t, "timetable-classes.csv", result.Filename)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/exports/"))
	assert.Equal(t, savesBefore, fx.store.saveCount())

	token := strings.TrimPrefix(result.URL, "/api/v1/exports/")
	download, err := fx.exports.Open(token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, "text/csv", download.ContentType)

	payload, err := io.ReadAll(download.File)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"Timetable", "Time", "Mon", "Tue"}, records[0])
	assert.Equal(t, []string{"CS101 (A)", "09:00 - 10:00", "DS/Dr.X/101/Lecture", "Free Period"}, records[1])
	assert.Equal(t, "CS102 (B)", records[3][0])
}

func TestExportServiceExportCurrentXLSX(t *testing.T) {
	fx := newExportFixture(t, nil)

	result, err := fx.exports.Export(context.Background(), fx.viewID, dto.ExportRequest{Format: FormatXLSX, Scope: ScopeCurrent})
	require.NoError(t, err)
	assert.Equal(t, "timetable-classes-c1.xlsx", result.Filename)

	download, err := fx.exports.Open(strings.TrimPrefix(result.URL, "/api/v1/exports/"))
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, contentTypes[FormatXLSX], download.ContentType)
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	fx := newExportFixture(t, nil)

	_, err := fx.exports.Export(context.Background(), fx.viewID, dto.ExportRequest{Format: "docx"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestExportServiceNothingToExport(t *testing.T) {
	fx := newExportFixture(t, nil)
	ctx := context.Background()

	_, err := fx.views.Select(ctx, fx.viewID, dto.SelectItemRequest{ID: "ghost"})
	require.NoError(t, err)

	_, err = fx.exports.Export(ctx, fx.viewID, dto.ExportRequest{Format: FormatCSV, Scope: ScopeCurrent})
	assert.ErrorIs(t, err, appErrors.ErrNothingToExport)

	result, err := fx.exports.Export(ctx, fx.viewID, dto.ExportRequest{Format: FormatPDF, Scope: ScopeCurrent})
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, result.Format)
}

func TestExportServiceFailureLeavesViewUntouched(t *testing.T) {
	fx := newExportFixture(t, failingRenderer{})
	ctx := context.Background()

	before, err := fx.views.Get(ctx, fx.viewID)
	require.NoError(t, err)
	savesBefore := fx.store.saveCount()

	_, err = fx.exports.Export(ctx, fx.viewID, dto.ExportRequest{Format: FormatPDF})
	assert.ErrorIs(t, err, appErrors.ErrExportFailed)
	_, err = fx.exports.Print(ctx, fx.viewID)
	assert.ErrorIs(t, err, appErrors.ErrExportFailed)

	after, err := fx.views.Get(ctx, fx.viewID)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, savesBefore, fx.store.saveCount())
}

func TestExportServicePrintDoesNotModifyState(t *testing.T) {
	fx := newExportFixture(t, nil)
	ctx := context.Background()
	savesBefore := fx.store.saveCount()

	file, err := fx.exports.Print(ctx, fx.viewID)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "timetable-classes-c1.pdf", file.Filename)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
	assert.Equal(t, savesBefore, fx.store.saveCount())

	view, err := fx.views.Get(ctx, fx.viewID)
	require.NoError(t, err)
	assert.Equal(t, "c1", view.SelectedID)
}

func TestExportServiceUnknownView(t *testing.T) {
	fx := newExportFixture(t, nil)

	_, err := fx.exports.Print(context.Background(), "missing")
	assert.ErrorIs(t, err, appErrors.ErrViewNotFound)
	_, err = fx.exports.Export(context.Background(), "missing", dto.ExportRequest{})
	assert.ErrorIs(t, err, appErrors.ErrViewNotFound)
}

func TestExportServiceOpenRejectsBadTokens(t *testing.T) {
	fx := newExportFixture(t, nil)

	_, err := fx.exports.Open("not-a-token")
	assert.ErrorIs(t, err, appErrors.ErrExportNotFound)

	result, err := fx.exports.Export(context.Background(), fx.viewID, dto.ExportRequest{})
	require.NoError(t, err)
	token := strings.TrimPrefix(result.URL, "/api/v1/exports/")

	forged, _, err := storage.NewSignedURLSigner("other-secret", time.Hour).Generate("exp-1", "views/"+fx.viewID+"/exp-1.csv")
	require.NoError(t, err)
	_, err = fx.exports.Open(forged)
	assert.ErrorIs(t, err, appErrors.ErrExportNotFound)

	assert.Equal(t, 1, cleanupAll(t, fx))
	_, err = fx.exports.Open(token)
	assert.ErrorIs(t, err, appErrors.ErrExportExpired)
}

func TestExportServiceOpenExpiredToken(t *testing.T) {
	fx := newExportFixture(t, nil)

	expired, _, err := storage.NewSignedURLSigner("secret", time.Nanosecond).Generate("exp-1", "views/"+fx.viewID+"/exp-1.csv")
	require.NoError(t, err)

	_, err = fx.exports.Open(expired)
	assert.ErrorIs(t, err, appErrors.ErrExportExpired)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusGone, appErr.Status)
}

// cleanupAll removes every stored export regardless of age.
func cleanupAll(t *testing.T, fx exportFixture) int {
	t.Helper()
	removed, err := fx.files.CleanupOlderThan(-time.Minute)
	require.NoError(t, err)
	return len(removed)
}

func TestBuildDocumentScopes(t *testing.T) {
	session := &models.ViewSession{ID: "v", Timetable: sampleTimetable(), ViewType: models.ViewTypeClasses, SelectedID: "c2"}
	state := stateOf(session)

	all := buildDocument(session, state, ScopeAll)
	require.Len(t, all.Tables, 2)
	assert.Equal(t, "Class Timetables", all.Title)
	assert.Equal(t, []string{"Time", "Mon", "Tue"}, all.Tables[0].Headers)

	current := buildDocument(session, state, ScopeCurrent)
	require.Len(t, current.Tables, 1)
	assert.Equal(t, "CS102", current.Tables[0].Title)
	assert.Equal(t, []string{"Free Period"}, current.Tables[0].Rows[0].Cells[0].Lines)
	assert.Equal(t, "72.5%", current.Summary[3].Value)
}

func TestDownloadNameSanitisesSelection(t *testing.T) {
	name := downloadName(stateOf(&models.ViewSession{ViewType: models.ViewTypeFaculty, SelectedID: "dr x/1", Timetable: &models.Timetable{}}), ScopeCurrent, FormatPDF)
	assert.Equal(t, "timetable-faculty-dr_x_1.pdf", name)
}

func TestExportServiceCleanupKeepsFreshFiles(t *testing.T) {
	fx := newExportFixture(t, nil)
	_, err := fx.exports.Export(context.Background(), fx.viewID, dto.ExportRequest{})
	require.NoError(t, err)
	assert.Equal(t, 0, fx.exports.Cleanup())

	entries, err := os.ReadDir(fx.files.Path("views"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
