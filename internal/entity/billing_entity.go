package entity

import (
	"time"

	"github.com/google/uuid"
)

type PembayaranStatus string

const (
	PembayaranSuccess PembayaranStatus = "SUCCESS"
	PembayaranPending PembayaranStatus = "PENDING"
	PembayaranFailed  PembayaranStatus = "FAILED"
)

type Balance struct {
	UserId    uuid.UUID
	Amount    int64
	UpdatedAt time.Time
}

type Tagihan struct {
	Id                  uuid.UUID
	Title               string
	Description         string
	Jenis               string
	ProdiTarget         string
	AngkatanTarget      string
	Nominal             int64
	Deadline            time.Time
	IsActive            bool
	CreatedByOperatorId uuid.UUID
	CreatedAt           time.Time
}

// TagihanListItem is a tagihan joined with its creator and payment counters.
type TagihanListItem struct {
	Tagihan         *Tagihan
	CreatedByName   string
	TotalPembayaran int64
	PaidCount       int64
}

type Pembayaran struct {
	Id        uuid.UUID
	TagihanId uuid.UUID
	UserId    uuid.UUID
	Amount    int64
	Status    PembayaranStatus
	CreatedAt time.Time
}

// PaymentCounts is the grouped aggregate per tagihan.
type PaymentCounts struct {
	Total int64
	Paid  int64
}

// DailyAmount is one point of a per-day payment series; Date is YYYY-MM-DD.
type DailyAmount struct {
	Date   string
	Amount int64
}
