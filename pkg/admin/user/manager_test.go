package user

import (
	"context"
	"errors"
	"testing"

	"campus-finance-be/internal/dto"
	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/pkg/apperror"
	"campus-finance-be/internal/model"
	"campus-finance-be/internal/pkg/logger"
	"campus-finance-be/internal/repository/contract"
	"campus-finance-be/internal/repository/unitofwork/unitofworktest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingPublisher struct {
	logs []*entity.AuditLog
}

func (p *recordingPublisher) PublishAudit(ctx context.Context, log *entity.AuditLog) {
	p.logs = append(p.logs, log)
}

func newTestManager() (*Manager, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewManager(logger.NewNopLogger(), pub, bcrypt.MinCost), pub
}

func strPtr(s string) *string { return &s }

func validRequest() dto.CreateOperatorRequest {
	return dto.CreateOperatorRequest{Name: "Budi", Prodi: "ti", Angkatan: "2023", Password: "rahasia123"}
}

func TestCreateOperator_Success(t *testing.T) {
	ctx := context.Background()
	store := unitofworktest.NewStore()
	admin := store.AddUser(&entity.User{Role: entity.UserRoleAdmin, Identifier: "admin", IsActive: true})
	m, pub := newTestManager()

	op, err := m.CreateOperator(ctx, store.Factory().NewUnitOfWork(ctx), admin, validRequest())
	require.NoError(t, err)

	assert.Regexp(t, `^OPTI\d{4}$`, op.Identifier)
	assert.Equal(t, "TI", *op.Prodi)
	assert.Equal(t, "2023", *op.Angkatan)
	assert.True(t, op.MustChangePassword)
	assert.Equal(t, entity.UserRoleOperator, op.Role)

	stored := store.FindUser(op.Id)
	require.NotNil(t, stored)
	assert.NotEqual(t, "rahasia123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("rahasia123")))

	require.Len(t, store.AuditLogs, 1)
	audit := store.AuditLogs[0]
	assert.Equal(t, entity.AuditOperatorCreated, audit.Action)
	assert.Equal(t, admin.Id, audit.UserId)
	assert.Equal(t, op.Identifier, audit.Payload["targetUserIdentifier"])
	assert.NotContains(t, audit.Payload, "password")
	assert.Len(t, pub.logs, 1)
}

func TestCreateOperator_DuplicateScope(t *testing.T) {
	ctx := context.Background()
	store := unitofworktest.NewStore()
	admin := store.AddUser(&entity.User{Role: entity.UserRoleAdmin, IsActive: true})
	store.AddUser(&entity.User{Role: entity.UserRoleOperator, Identifier: "OPTI0001", Prodi: strPtr("TI"), Angkatan: strPtr("2023"), IsActive: true})
	m, pub := newTestManager()

	_, err := m.CreateOperator(ctx, store.Factory().NewUnitOfWork(ctx), admin, validRequest())
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindDuplicateScope))
	assert.Contains(t, err.Error(), "Operator untuk TI angkatan 2023 sudah ada")
	assert.Empty(t, store.AuditLogs)
	assert.Empty(t, pub.logs)
}

func TestCreateOperator_InactiveOperatorDoesNotBlockScope(t *testing.T) {
	ctx := context.Background()
	store := unitofworktest.NewStore()
	admin := store.AddUser(&entity.User{Role: entity.UserRoleAdmin, IsActive: true})
	store.AddUser(&entity.User{Role: entity.UserRoleOperator, Identifier: "OPTI0001", Prodi: strPtr("TI"), Angkatan: strPtr("2023"), IsActive: false})
	m, _ := newTestManager()

	_, err := m.CreateOperator(ctx, store.Factory().NewUnitOfWork(ctx), admin, validRequest())
	assert.NoError(t, err)
}

func TestCreateOperator_CodeCollision(t *testing.T) {
	ctx := context.Background()
	store := unitofworktest.NewStore()
	admin := store.AddUser(&entity.User{Role: entity.UserRoleAdmin, IsActive: true})
	store.AddUser(&entity.User{Role: entity.UserRoleOperator, Identifier: "OPTI4242", Prodi: strPtr("TI"), Angkatan: strPtr("2020"), IsActive: true})
	m, _ := newTestManager()
	m.codeGen = func(string) (string, error) { return "OPTI4242", nil }

	_, err := m.CreateOperator(ctx, store.Factory().NewUnitOfWork(ctx), admin, validRequest())
	assert.True(t, apperror.Is(err, apperror.KindCodeCollision))
	assert.Len(t, store.Users, 2)
}

func TestCreateOperator_Validation(t *testing.T) {
	ctx := context.Background()
	store := unitofworktest.NewStore()
	admin := store.AddUser(&entity.User{Role: entity.UserRoleAdmin, IsActive: true})
	m, _ := newTestManager()

	cases := map[string]dto.CreateOperatorRequest{
		"missing name":   {Prodi: "TI", Angkatan: "2023", Password: "rahasia123"},
		"blank prodi":    {Name: "Budi", Prodi: "  ", Angkatan: "2023", Password: "rahasia123"},
		"short password": {Name: "Budi", Prodi: "TI", Angkatan: "2023", Password: "12345"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := m.CreateOperator(ctx, store.Factory().NewUnitOfWork(ctx), admin, req)
			assert.True(t, apperror.Is(err, apperror.KindValidationFailed))
		})
	}
}

func TestCreateOperator_CommitFailureIsServerError(t *testing.T) {
	ctx := context.Background()
	store := unitofworktest.NewStore()
	admin := store.AddUser(&entity.User{Role: entity.UserRoleAdmin, IsActive: true})
	store.CommitErr = errors.New("connection reset")
	m, pub := newTestManager()

	_, err := m.CreateOperator(ctx, store.Factory().NewUnitOfWork(ctx), admin, validRequest())
	assert.True(t, apperror.Is(err, apperror.KindServerError))
	assert.Len(t, store.Users, 1)
	assert.Empty(t, store.AuditLogs)
	assert.Empty(t, pub.logs)
}

// A concurrent insert that lands after the lookups must still surface as the
// domain error, via the unique index.
func TestCreateOperator_ConcurrentInsertHitsUniqueIndex(t *testing.T) {
	tests := []struct {
		name     string
		racer    *entity.User
		wantKind apperror.Kind
	}{
		{
			name:     "same scope",
			racer:    &entity.User{Role: entity.UserRoleOperator, Identifier: "OPTI9999", Prodi: strPtr("TI"), Angkatan: strPtr("2023"), IsActive: true},
			wantKind: apperror.KindDuplicateScope,
		},
		{
			name:     "same identifier",
			racer:    &entity.User{Role: entity.UserRoleOperator, Identifier: "OPTI0007", Prodi: strPtr("SI"), Angkatan: strPtr("2021"), IsActive: true},
			wantKind: apperror.KindCodeCollision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := unitofworktest.NewStore()
			admin := store.AddUser(&entity.User{Role: entity.UserRoleAdmin, IsActive: true})
			store.BeforeUserCreate = func(s *unitofworktest.Store) {
				s.BeforeUserCreate = nil
				s.AddUser(tt.racer)
			}
			m, pub := newTestManager()
			m.codeGen = func(string) (string, error) { return "OPTI0007", nil }

			_, err := m.CreateOperator(ctx, store.Factory().NewUnitOfWork(ctx), admin, validRequest())
			require.Error(t, err)
			assert.True(t, apperror.Is(err, tt.wantKind), "got %v", err)
			assert.Empty(t, store.AuditLogs)
			assert.Empty(t, pub.logs)
		})
	}
}

func TestCreateOperator_UniqueViolationOnCommit(t *testing.T) {
	tests := []struct {
		constraint string
		wantKind   apperror.Kind
	}{
		{model.OperatorScopeIndexName, apperror.KindDuplicateScope},
		{model.IdentifierIndexName, apperror.KindCodeCollision},
		{"ux_something_else", apperror.KindServerError},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			ctx := context.Background()
			store := unitofworktest.NewStore()
			admin := store.AddUser(&entity.User{Role: entity.UserRoleAdmin, IsActive: true})
			store.CommitErr = &contract.UniqueViolationError{Constraint: tt.constraint, Err: errors.New("23505")}
			m, pub := newTestManager()

			_, err := m.CreateOperator(ctx, store.Factory().NewUnitOfWork(ctx), admin, validRequest())
			require.Error(t, err)
			assert.True(t, apperror.Is(err, tt.wantKind), "got %v", err)
			assert.Empty(t, pub.logs)
		})
	}
}

func TestListOperators(t *testing.T) {
	ctx := context.Background()
	store := unitofworktest.NewStore()
	store.AddUser(&entity.User{Role: entity.UserRoleAdmin, IsActive: true})
	store.AddUser(&entity.User{Role: entity.UserRoleOperator, Identifier: "OPTI0001", Name: "A", IsActive: true})
	store.AddUser(&entity.User{Role: entity.UserRoleUser, Identifier: "2023001", IsActive: true})
	m, _ := newTestManager()

	ops, err := m.ListOperators(ctx, store.Factory().NewUnitOfWork(ctx))
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "OPTI0001", ops[0].Identifier)
}
