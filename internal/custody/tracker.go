// Package custody governs a tool's current holder and the history entries
// produced by custody transitions. Operations return updated snapshots and
// never mutate their inputs; persisting the result atomically is the
// caller's job.
package custody

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rfarias/obras-backoffice/internal/model"
)

var ErrInvalidState = errors.New("invalid custody state")

// Checkout hands the tool to an employee, optionally bound to a site and a
// condominium, and appends a loan history entry.
func Checkout(
	tool model.Tool,
	employeeID uuid.UUID,
	site *string,
	condominiumID *uuid.UUID,
	at time.Time,
) (model.Tool, model.ToolHistoryEntry, error) {
	if employeeID == uuid.Nil {
		return model.Tool{}, model.ToolHistoryEntry{}, fmt.Errorf(
			"%w: checkout of tool %s requires an employee", ErrInvalidState, tool.ID)
	}

	updated := tool
	updated.Location = model.ToolLocationWithEmployee
	updated.CurrentEmployeeID = &employeeID
	updated.CurrentSite = site
	updated.CurrentCondominiumID = condominiumID

	entry := model.ToolHistoryEntry{
		ID:            uuid.New(),
		ToolID:        tool.ID,
		Type:          model.HistoryTypeLoan,
		Detail:        loanDetail(tool, employeeID, site),
		EmployeeID:    &employeeID,
		CondominiumID: condominiumID,
		Site:          site,
		OccurredAt:    at,
	}
	updated.History = append(updated.History, entry)
	return updated, entry, nil
}

// Checkin returns the tool to the depot and clears all custody references.
func Checkin(tool model.Tool, note *string, at time.Time) (model.Tool, model.ToolHistoryEntry, error) {
	updated := tool
	updated.Location = model.ToolLocationDepot
	updated.CurrentEmployeeID = nil
	updated.CurrentSite = nil
	updated.CurrentCondominiumID = nil

	entry := model.ToolHistoryEntry{
		ID:         uuid.New(),
		ToolID:     tool.ID,
		Type:       model.HistoryTypeReturn,
		Detail:     noteOr(note, fmt.Sprintf("tool %s returned to depot", tool.Code)),
		OccurredAt: at,
	}
	updated.History = append(updated.History, entry)
	return updated, entry, nil
}

// SendToMaintenance moves the tool to maintenance, clearing custody
// references like a checkin does.
func SendToMaintenance(tool model.Tool, note *string, at time.Time) (model.Tool, model.ToolHistoryEntry, error) {
	updated := tool
	updated.Location = model.ToolLocationMaintenance
	updated.CurrentEmployeeID = nil
	updated.CurrentSite = nil
	updated.CurrentCondominiumID = nil

	entry := model.ToolHistoryEntry{
		ID:         uuid.New(),
		ToolID:     tool.ID,
		Type:       model.HistoryTypeMaintenance,
		Detail:     noteOr(note, fmt.Sprintf("tool %s sent to maintenance", tool.Code)),
		OccurredAt: at,
	}
	updated.History = append(updated.History, entry)
	return updated, entry, nil
}

// Update carries the descriptive fields a generic edit may touch. Nil means
// leave unchanged.
type Update struct {
	Name         *string
	Brand        *string
	Category     *string
	Description  *string
	LocationNote *string
}

// ApplyUpdate edits descriptive fields only. Custody bindings are untouched
// and no history is emitted.
func ApplyUpdate(tool model.Tool, fields Update) model.Tool {
	updated := tool
	if fields.Name != nil {
		updated.Name = *fields.Name
	}
	if fields.Brand != nil {
		updated.Brand = *fields.Brand
	}
	if fields.Category != nil {
		updated.Category = *fields.Category
	}
	if fields.Description != nil {
		updated.Description = *fields.Description
	}
	if fields.LocationNote != nil {
		updated.LocationNote = *fields.LocationNote
	}
	return updated
}

func loanDetail(tool model.Tool, employeeID uuid.UUID, site *string) string {
	detail := fmt.Sprintf("tool %s loaned to employee %s", tool.Code, employeeID)
	if site != nil && strings.TrimSpace(*site) != "" {
		detail += " at " + strings.TrimSpace(*site)
	}
	return detail
}

func noteOr(note *string, fallback string) string {
	if note != nil && strings.TrimSpace(*note) != "" {
		return strings.TrimSpace(*note)
	}
	return fallback
}
