package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"campus-finance-be/internal/dto"
	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/model"
	"campus-finance-be/internal/pkg/apperror"
	"campus-finance-be/internal/pkg/logger"
	"campus-finance-be/internal/repository/contract"
	"campus-finance-be/internal/repository/specification"
	"campus-finance-be/internal/repository/unitofwork"
	adminEvents "campus-finance-be/pkg/admin/events"
	"campus-finance-be/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 6
	// bcrypt ignores input past 72 bytes and x/crypto rejects it outright
	maxPasswordLength = 72
)

// Manager provisions operator accounts.
type Manager struct {
	logger     logger.ILogger
	publisher  adminEvents.Publisher
	bcryptCost int
	codeGen    func(prodi string) (string, error)
}

func NewManager(logger logger.ILogger, publisher adminEvents.Publisher, bcryptCost int) *Manager {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &Manager{
		logger:     logger,
		publisher:  publisher,
		bcryptCost: bcryptCost,
		codeGen:    utils.GenerateOperatorCode,
	}
}

// CreateOperator creates one operator for a (prodi, angkatan) scope. The
// duplicate check, insert and audit row share one transaction; the partial
// unique index on users catches a concurrent insert that slips past the check.
func (m *Manager) CreateOperator(ctx context.Context, uow unitofwork.UnitOfWork, actor *entity.User, req dto.CreateOperatorRequest) (*entity.User, error) {
	name := strings.TrimSpace(req.Name)
	prodi := strings.ToUpper(strings.TrimSpace(req.Prodi))
	angkatan := strings.TrimSpace(req.Angkatan)

	if name == "" || prodi == "" || angkatan == "" || req.Password == "" {
		return nil, apperror.Validation("Semua field wajib diisi")
	}
	if len(req.Password) < minPasswordLength {
		return nil, apperror.Validation("Password minimal 6 karakter")
	}
	if len(req.Password) > maxPasswordLength {
		return nil, apperror.Validation("Password maksimal 72 karakter")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), m.bcryptCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	scope := entity.Scope{Prodi: prodi, Angkatan: angkatan}
	existing, err := uow.UserRepository().FindOne(ctx,
		specification.ByRole{Role: entity.UserRoleOperator},
		specification.UserInScope{Scope: scope},
		specification.ActiveUsers{},
	)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.DuplicateScope(prodi, angkatan)
	}

	identifier, err := m.codeGen(prodi)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	taken, err := uow.UserRepository().FindOne(ctx, specification.ByIdentifier{Identifier: identifier})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if taken != nil {
		return nil, apperror.CodeCollision()
	}

	now := time.Now()
	operator := &entity.User{
		Id:                 uuid.New(),
		Identifier:         identifier,
		Name:               name,
		Role:               entity.UserRoleOperator,
		Prodi:              &prodi,
		Angkatan:           &angkatan,
		PasswordHash:       string(hash),
		IsActive:           true,
		MustChangePassword: true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uow.UserRepository().Create(ctx, operator); err != nil {
		return nil, mapUniqueViolation(err, scope)
	}

	audit := &entity.AuditLog{
		Id:     uuid.New(),
		UserId: actor.Id,
		Action: entity.AuditOperatorCreated,
		Payload: map[string]interface{}{
			"targetUserId":         operator.Id.String(),
			"targetUserIdentifier": operator.Identifier,
			"prodi":                prodi,
			"angkatan":             angkatan,
		},
		CreatedAt: now,
	}
	if err := uow.AuditLogRepository().Create(ctx, audit); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, mapUniqueViolation(err, scope)
	}

	m.logger.Info("ADMIN", "Operator created", map[string]interface{}{
		"operatorId": operator.Id.String(),
		"identifier": operator.Identifier,
		"prodi":      prodi,
		"angkatan":   angkatan,
		"actorId":    actor.Id.String(),
	})
	m.publisher.PublishAudit(ctx, audit)

	return operator, nil
}

// ListOperators returns non-deleted operators, newest first.
func (m *Manager) ListOperators(ctx context.Context, uow unitofwork.UnitOfWork) ([]*entity.User, error) {
	return uow.UserRepository().FindAll(ctx,
		specification.ByRole{Role: entity.UserRoleOperator},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func mapUniqueViolation(err error, scope entity.Scope) error {
	var uv *contract.UniqueViolationError
	if !errors.As(err, &uv) {
		return apperror.Internal(err)
	}
	switch uv.Constraint {
	case model.OperatorScopeIndexName:
		return apperror.DuplicateScope(scope.Prodi, scope.Angkatan)
	case model.IdentifierIndexName:
		return apperror.CodeCollision()
	default:
		return apperror.Internal(err)
	}
}
