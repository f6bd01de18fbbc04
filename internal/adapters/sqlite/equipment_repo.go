package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/upkeep/internal/models"
	"github.com/example/upkeep/internal/ports/secondary"
)

// EquipmentRepository implements secondary.EquipmentDirectory with SQLite.
// Task scheduling only ever calls Lookup; the write methods exist so the
// CLI can maintain the directory.
type EquipmentRepository struct {
	db *sql.DB
}

// NewEquipmentRepository creates a new SQLite equipment repository.
func NewEquipmentRepository(db *sql.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

// Lookup resolves an equipment ID.
func (r *EquipmentRepository) Lookup(ctx context.Context, equipmentID string) (*secondary.EquipmentRecord, error) {
	var (
		record       secondary.EquipmentRecord
		departmentID sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, department_id FROM equipment WHERE id = ?",
		equipmentID,
	).Scan(&record.ID, &record.Name, &departmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("equipment %s: %w", equipmentID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up equipment: %w", err)
	}

	record.DepartmentID = departmentID.String
	return &record, nil
}

// Upsert creates or renames an equipment entry.
func (r *EquipmentRepository) Upsert(ctx context.Context, record *secondary.EquipmentRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO equipment (id, name, department_id) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, department_id = excluded.department_id, updated_at = CURRENT_TIMESTAMP`,
		record.ID, record.Name, nullString(record.DepartmentID),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert equipment: %w", err)
	}

	return nil
}

// List returns all equipment entries ordered by ID.
func (r *EquipmentRepository) List(ctx context.Context) ([]*secondary.EquipmentRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, department_id FROM equipment ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	defer rows.Close()

	var records []*secondary.EquipmentRecord
	for rows.Next() {
		var (
			record       secondary.EquipmentRecord
			departmentID sql.NullString
		)
		if err := rows.Scan(&record.ID, &record.Name, &departmentID); err != nil {
			return nil, fmt.Errorf("failed to scan equipment: %w", err)
		}
		record.DepartmentID = departmentID.String
		records = append(records, &record)
	}

	return records, rows.Err()
}
