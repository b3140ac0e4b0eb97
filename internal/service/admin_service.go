package service

import (
	"context"

	"campus-finance-be/internal/dto"
	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/pkg/apperror"
	"campus-finance-be/internal/pkg/logger"
	"campus-finance-be/internal/repository/unitofwork"
	"campus-finance-be/pkg/admin/mapper"
	"campus-finance-be/pkg/admin/user"
)

type IAdminService interface {
	// Operator Management
	ListOperators(ctx context.Context) ([]dto.OperatorListResponse, error)
	CreateOperator(ctx context.Context, actor *entity.User, req dto.CreateOperatorRequest) (*dto.CreateOperatorResponse, error)

	// Scopes
	AvailableScopes(ctx context.Context) (*dto.AvailableScopesResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger

	userManager *user.Manager
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
	userManager *user.Manager,
) IAdminService {
	return &adminService{
		uowFactory:  uowFactory,
		logger:      logger,
		userManager: userManager,
	}
}

// ============================================================================
// Operator Management
// ============================================================================

func (s *adminService) ListOperators(ctx context.Context) ([]dto.OperatorListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	ops, err := s.userManager.ListOperators(ctx, uow)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return mapper.OperatorsToListResponse(ops), nil
}

func (s *adminService) CreateOperator(ctx context.Context, actor *entity.User, req dto.CreateOperatorRequest) (*dto.CreateOperatorResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	op, err := s.userManager.CreateOperator(ctx, uow, actor, req)
	if err != nil {
		return nil, err
	}
	return mapper.OperatorToCreateResponse(op), nil
}

// ============================================================================
// Scopes
// ============================================================================

func (s *adminService) AvailableScopes(ctx context.Context) (*dto.AvailableScopesResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	scopes, err := uow.UserRepository().OperatorScopes(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return mapper.ScopesToAvailable(scopes), nil
}
