package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/sma-timetable-viewer/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-viewer/pkg/errors"
)

const (
	timetableColumns = "id, semester, payload, created_at"
	defaultListLimit = 20
	maxListLimit     = 100
)

type timetableRow struct {
	ID        string         `db:"id"`
	Semester  sql.NullString `db:"semester"`
	Payload   types.JSONText `db:"payload"`
	CreatedAt time.Time      `db:"created_at"`
}

// TimetableRepository reads timetables written by the generator into
// generated_timetables.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// FindByID loads and decodes one generated timetable.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.StoredTimetable, error) {
	var row timetableRow
	query := fmt.Sprintf("SELECT %s FROM generated_timetables WHERE id = $1", timetableColumns)
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrTimetableNotFound
		}
		return nil, fmt.Errorf("find timetable %s: %w", id, err)
	}

	var payload models.Timetable
	if err := row.Payload.Unmarshal(&payload); err != nil {
		return nil, fmt.Errorf("decode timetable %s: %w", id, err)
	}
	if payload.Semester == "" && row.Semester.Valid {
		payload.Semester = row.Semester.String
	}

	return &models.StoredTimetable{
		ID:        row.ID,
		Semester:  payload.Semester,
		Payload:   payload,
		CreatedAt: row.CreatedAt,
	}, nil
}

// ListRecent returns the newest timetables without their payloads.
func (r *TimetableRepository) ListRecent(ctx context.Context, limit int) ([]models.TimetableSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	rows := make([]timetableRow, 0)
	query := "SELECT id, semester, created_at FROM generated_timetables ORDER BY created_at DESC LIMIT $1"
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list timetables: %w", err)
	}

	result := make([]models.TimetableSummary, 0, len(rows))
	for _, row := range rows {
		result = append(result, models.TimetableSummary{
			ID:        row.ID,
			Semester:  row.Semester.String,
			CreatedAt: row.CreatedAt,
		})
	}
	return result, nil
}
