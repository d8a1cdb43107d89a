package model

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID        uuid.UUID
	Name      string
	Document  string
	Phone     string
	Email     string
	Role      string
	CreatedAt time.Time
}

type Condominium struct {
	ID      uuid.UUID
	Name    string
	CNPJ    string
	Address string
	Phone   string
}
