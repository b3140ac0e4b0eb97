package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Operator Management ---

type CreateOperatorRequest struct {
	Name     string `json:"name" validate:"required"`
	Prodi    string `json:"prodi" validate:"required"`
	Angkatan string `json:"angkatan" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type CreateOperatorResponse struct {
	Id         uuid.UUID `json:"id"`
	Identifier string    `json:"identifier"`
	Name       string    `json:"name"`
	Prodi      string    `json:"prodi"`
	Angkatan   string    `json:"angkatan"`
}

type OperatorListResponse struct {
	Id         uuid.UUID `json:"id"`
	Identifier string    `json:"identifier"`
	Name       string    `json:"name"`
	Prodi      *string   `json:"prodi"`
	Angkatan   *string   `json:"angkatan"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// --- Scopes ---

type ScopeDTO struct {
	Prodi    string `json:"prodi"`
	Angkatan string `json:"angkatan"`
}

type AvailableScopesResponse struct {
	ProdiList       []string            `json:"prodiList"`
	AngkatanByProdi map[string][]string `json:"angkatanByProdi"`
	Scopes          []ScopeDTO          `json:"scopes"`
}
