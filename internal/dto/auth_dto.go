package dto

import (
	"time"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken        string    `json:"accessToken"`
	ExpiresAt          time.Time `json:"expiresAt"`
	MustChangePassword bool      `json:"mustChangePassword"`
	User               UserDTO   `json:"user"`
}

type UserDTO struct {
	Id         uuid.UUID `json:"id"`
	Identifier string    `json:"identifier"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Prodi      *string   `json:"prodi"`
	Angkatan   *string   `json:"angkatan"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}
