package contract

import (
	"context"

	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	UpdatePassword(ctx context.Context, userId uuid.UUID, hash string, mustChange bool) error

	// Students returns role USER rows in the given scope with their balance, ordered by name.
	Students(ctx context.Context, scope entity.Scope) ([]*entity.StudentSummary, error)
	// OperatorScopes returns the scopes of active operators, ordered prodi ASC, angkatan DESC.
	OperatorScopes(ctx context.Context) ([]entity.Scope, error)
}
