package unitofwork

import (
	"context"

	"campus-finance-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	TagihanRepository() contract.TagihanRepository
	PembayaranRepository() contract.PembayaranRepository
	BalanceRepository() contract.BalanceRepository
	AuditLogRepository() contract.AuditLogRepository
}
