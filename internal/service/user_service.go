package service

import (
	"context"
	"time"

	"campus-finance-be/internal/dto"
	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/pkg/apperror"
	"campus-finance-be/internal/repository/unitofwork"
	"campus-finance-be/pkg/admin/dashboard"
)

type IUserService interface {
	Dashboard(ctx context.Context, actor *entity.User) (*dto.UserDashboardResponse, error)
}

type userService struct {
	uowFactory          unitofwork.RepositoryFactory
	dashboardAggregator *dashboard.Aggregator
	now                 func() time.Time
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, dashboardAggregator *dashboard.Aggregator) IUserService {
	return &userService{
		uowFactory:          uowFactory,
		dashboardAggregator: dashboardAggregator,
		now:                 time.Now,
	}
}

func (s *userService) Dashboard(ctx context.Context, actor *entity.User) (*dto.UserDashboardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	res, err := s.dashboardAggregator.UserDashboard(ctx, uow, actor, s.now())
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return res, nil
}
