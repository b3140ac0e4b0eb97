package contract

import (
	"context"
	"time"

	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TagihanRepository interface {
	Create(ctx context.Context, tagihan *entity.Tagihan) error
	// FindPage returns tagihan newest first, joined with the creator's name.
	FindPage(ctx context.Context, offset, limit int, specs ...specification.Specification) ([]*entity.TagihanListItem, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type PembayaranRepository interface {
	// CountsByTagihan aggregates payments per tagihan in one grouped query.
	CountsByTagihan(ctx context.Context, tagihanIds []uuid.UUID) (map[uuid.UUID]entity.PaymentCounts, error)
	// PayersSince returns the subset of userIds with a SUCCESS payment at or after since.
	PayersSince(ctx context.Context, userIds []uuid.UUID, since time.Time) (map[uuid.UUID]bool, error)
	// DailySuccessTotals sums SUCCESS payment amounts per day in [from, to) for the payers matched by filter.
	DailySuccessTotals(ctx context.Context, filter PaymentFilter, from, to time.Time) ([]entity.DailyAmount, error)
}

// PaymentFilter narrows DailySuccessTotals to one user or one prodi.
type PaymentFilter struct {
	UserId *uuid.UUID
	Prodi  string
}

type BalanceRepository interface {
	FindByUserId(ctx context.Context, userId uuid.UUID) (int64, error)
	// SumByProdi totals balances of active, non-deleted users in a prodi.
	SumByProdi(ctx context.Context, prodi string) (int64, error)
}

type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.AuditLog) error
}
