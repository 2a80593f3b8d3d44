// Package repository holds the data access layer for locally persisted
// portal records.
package repository

import (
	"time"

	"github.com/google/uuid"

	"speakwise/internal/database"
	"speakwise/internal/models"
)

// ExportRepository records generated report documents for the audit trail.
type ExportRepository struct {
	db *database.DB
}

// NewExportRepository creates a new export repository.
func NewExportRepository(db *database.DB) *ExportRepository {
	return &ExportRepository{db: db}
}

// Record inserts one audit row for a successfully generated report.
func (r *ExportRepository) Record(childID, requestedBy string, bytes int64) (*models.ReportExport, error) {
	export := &models.ReportExport{
		ID:          uuid.NewString(),
		ChildID:     childID,
		RequestedBy: requestedBy,
		Bytes:       bytes,
		CreatedAt:   time.Now().UTC(),
	}

	query := `
		INSERT INTO report_exports (id, child_id, requested_by, bytes, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, export.ID, export.ChildID, export.RequestedBy, export.Bytes, export.CreatedAt)
	if err != nil {
		return nil, err
	}
	return export, nil
}

// Recent returns the latest export rows, newest first.
func (r *ExportRepository) Recent(limit int) ([]models.ReportExport, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT id, child_id, requested_by, bytes, created_at
		FROM report_exports
		ORDER BY created_at DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exports []models.ReportExport
	for rows.Next() {
		var e models.ReportExport
		if err := rows.Scan(&e.ID, &e.ChildID, &e.RequestedBy, &e.Bytes, &e.CreatedAt); err != nil {
			return nil, err
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}
