package model

import (
	"time"

	"github.com/google/uuid"
)

type ToolLocation string

const (
	ToolLocationDepot        ToolLocation = "DEPOT"
	ToolLocationWithEmployee ToolLocation = "WITH_EMPLOYEE"
	ToolLocationMaintenance  ToolLocation = "MAINTENANCE"
)

type HistoryType string

const (
	HistoryTypeLoan        HistoryType = "LOAN"
	HistoryTypeReturn      HistoryType = "RETURN"
	HistoryTypeMaintenance HistoryType = "MAINTENANCE"
)

// Tool custody invariant: Location == WITH_EMPLOYEE iff CurrentEmployeeID is
// set; any other location implies all three custody references are absent.
type Tool struct {
	ID                   uuid.UUID
	Code                 string
	Name                 string
	Brand                string
	Category             string
	Description          string
	LocationNote         string
	Location             ToolLocation
	CurrentEmployeeID    *uuid.UUID
	CurrentSite          *string
	CurrentCondominiumID *uuid.UUID
	History              []ToolHistoryEntry `gorm:"-"`
	CreatedAt            time.Time
}

// ToolHistoryEntry records one custody transition. Entries are append-only.
type ToolHistoryEntry struct {
	ID            uuid.UUID
	ToolID        uuid.UUID
	Type          HistoryType
	Detail        string
	EmployeeID    *uuid.UUID
	CondominiumID *uuid.UUID
	Site          *string
	OccurredAt    time.Time
}
