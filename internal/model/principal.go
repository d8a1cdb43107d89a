package model

import "github.com/google/uuid"

type Principal struct {
	UserID uuid.UUID
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == "ADMIN"
}

func (p Principal) IsManager() bool {
	return p.Role == "MANAGER"
}

func (p Principal) IsField() bool {
	return p.Role == "FIELD"
}
