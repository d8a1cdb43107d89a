package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rfarias/obras-backoffice/internal/model"
)

type ToolRepository struct {
	db *gorm.DB
}

func NewToolRepository(db *gorm.DB) *ToolRepository {
	return &ToolRepository{db: db}
}

func (r *ToolRepository) GetTool(ctx context.Context, id uuid.UUID) (*model.Tool, error) {
	var tool model.Tool
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, code, name, brand, category, description, location_note, location,
			current_employee_id, current_site, current_condominium_id, created_at
		FROM tools
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&tool).Error; err != nil {
		return nil, err
	}
	if tool.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}

	history, err := r.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	tool.History = history
	return &tool, nil
}

func (r *ToolRepository) ListTools(ctx context.Context) ([]model.Tool, error) {
	var rows []model.Tool
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, code, name, brand, category, description, location_note, location,
			current_employee_id, current_site, current_condominium_id, created_at
		FROM tools
		ORDER BY code ASC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ToolRepository) ListHistory(ctx context.Context, toolID uuid.UUID) ([]model.ToolHistoryEntry, error) {
	var rows []model.ToolHistoryEntry
	if err := r.db.WithContext(ctx).Raw(`
		SELECT id, tool_id, type, detail, employee_id, condominium_id, site, occurred_at
		FROM tool_history
		WHERE tool_id = ?
		ORDER BY occurred_at ASC, id ASC
	`, toolID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SaveCustody persists a custody transition: the updated tool row and the
// new history entry go in one transaction, which is where concurrent
// transitions against the same tool are serialized.
func (r *ToolRepository) SaveCustody(ctx context.Context, tool model.Tool, entry model.ToolHistoryEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`
			UPDATE tools
			SET location = ?, current_employee_id = ?, current_site = ?, current_condominium_id = ?
			WHERE id = ?
		`, tool.Location, tool.CurrentEmployeeID, tool.CurrentSite, tool.CurrentCondominiumID, tool.ID).Error; err != nil {
			return err
		}
		return tx.Exec(`
			INSERT INTO tool_history (id, tool_id, type, detail, employee_id, condominium_id, site, occurred_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, entry.ID, entry.ToolID, entry.Type, entry.Detail, entry.EmployeeID, entry.CondominiumID, entry.Site, entry.OccurredAt).Error
	})
}

// SaveDescriptive persists a generic edit; custody columns are not touched.
func (r *ToolRepository) SaveDescriptive(ctx context.Context, tool model.Tool) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE tools
		SET name = ?, brand = ?, category = ?, description = ?, location_note = ?
		WHERE id = ?
	`, tool.Name, tool.Brand, tool.Category, tool.Description, tool.LocationNote, tool.ID).Error
}
