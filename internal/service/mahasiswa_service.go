package service

import (
	"context"
	"time"

	"campus-finance-be/internal/dto"
	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/pkg/apperror"
	"campus-finance-be/internal/policy"
	"campus-finance-be/internal/repository/unitofwork"
	"campus-finance-be/pkg/admin/mapper"
	"campus-finance-be/pkg/utils"

	"github.com/google/uuid"
)

type IMahasiswaService interface {
	List(ctx context.Context, actor *entity.User) ([]dto.MahasiswaResponse, error)
}

type mahasiswaService struct {
	uowFactory unitofwork.RepositoryFactory
	policy     *policy.AccessPolicy
	loc        *time.Location
	now        func() time.Time
}

func NewMahasiswaService(uowFactory unitofwork.RepositoryFactory, policy *policy.AccessPolicy, loc *time.Location) IMahasiswaService {
	return &mahasiswaService{
		uowFactory: uowFactory,
		policy:     policy,
		loc:        loc,
		now:        time.Now,
	}
}

// List returns the students in the actor's scope ordered by name, each with
// its balance and whether a SUCCESS payment landed since Monday 00:00.
func (s *mahasiswaService) List(ctx context.Context, actor *entity.User) ([]dto.MahasiswaResponse, error) {
	scope, err := s.policy.ResolveScope(actor)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	students, err := uow.UserRepository().Students(ctx, scope)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	ids := make([]uuid.UUID, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.User.Id)
	}
	payers, err := uow.PembayaranRepository().PayersSince(ctx, ids, utils.StartOfWeek(s.now(), s.loc))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	res := make([]dto.MahasiswaResponse, 0, len(students))
	for _, st := range students {
		res = append(res, mapper.StudentToResponse(st, payers[st.User.Id]))
	}
	return res, nil
}
