package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Tagihan ---

type TagihanListRequest struct {
	Page  int `query:"page" validate:"min=1"`
	Limit int `query:"limit" validate:"min=1,max=100"`
}

type CreateTagihanRequest struct {
	Title          string `json:"title" validate:"required"`
	Description    string `json:"description"`
	Jenis          string `json:"jenis" validate:"required"`
	Nominal        int64  `json:"nominal" validate:"required,gt=0"`
	Deadline       string `json:"deadline" validate:"required,deadline"`
	ProdiTarget    string `json:"prodiTarget"`
	AngkatanTarget string `json:"angkatanTarget"`
}

type TagihanResponse struct {
	Id                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Jenis               string    `json:"jenis"`
	ProdiTarget         string    `json:"prodiTarget"`
	AngkatanTarget      string    `json:"angkatanTarget"`
	Nominal             int64     `json:"nominal"`
	Deadline            time.Time `json:"deadline"`
	IsActive            bool      `json:"isActive"`
	CreatedByOperatorId uuid.UUID `json:"createdByOperatorId"`
	CreatedAt           time.Time `json:"createdAt"`
}

type TagihanListItem struct {
	TagihanResponse
	CreatedByName   string `json:"createdByName"`
	TotalPembayaran int64  `json:"totalPembayaran"`
	PaidCount       int64  `json:"paidCount"`
}

type TagihanPage struct {
	Items      []TagihanListItem
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// --- Mahasiswa ---

type MahasiswaResponse struct {
	Id              uuid.UUID `json:"id"`
	Identifier      string    `json:"identifier"`
	Name            string    `json:"name"`
	Prodi           *string   `json:"prodi"`
	Angkatan        *string   `json:"angkatan"`
	IsActive        bool      `json:"isActive"`
	Balance         int64     `json:"balance"`
	HasPaidThisWeek bool      `json:"hasPaidThisWeek"`
}
