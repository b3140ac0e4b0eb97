package service

import (
	"context"
	"strings"
	"time"

	"campus-finance-be/internal/dto"
	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/pkg/apperror"
	"campus-finance-be/internal/pkg/logger"
	"campus-finance-be/internal/policy"
	"campus-finance-be/internal/repository/specification"
	"campus-finance-be/internal/repository/unitofwork"
	adminEvents "campus-finance-be/pkg/admin/events"
	"campus-finance-be/pkg/admin/mapper"
	"campus-finance-be/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

type ITagihanService interface {
	List(ctx context.Context, actor *entity.User, page, limit int) (*dto.TagihanPage, error)
	Create(ctx context.Context, actor *entity.User, req *dto.CreateTagihanRequest) (*dto.TagihanResponse, error)
}

type tagihanService struct {
	uowFactory unitofwork.RepositoryFactory
	policy     *policy.AccessPolicy
	publisher  adminEvents.Publisher
	logger     logger.ILogger
	loc        *time.Location
	now        func() time.Time
}

func NewTagihanService(
	uowFactory unitofwork.RepositoryFactory,
	policy *policy.AccessPolicy,
	publisher adminEvents.Publisher,
	logger logger.ILogger,
	loc *time.Location,
) ITagihanService {
	return &tagihanService{
		uowFactory: uowFactory,
		policy:     policy,
		publisher:  publisher,
		logger:     logger,
		loc:        loc,
		now:        time.Now,
	}
}

// List pages tagihan in the actor's scope, newest first. The page and the
// total are fetched concurrently and payment counters come from one grouped
// query for the whole page.
func (s *tagihanService) List(ctx context.Context, actor *entity.User, page, limit int) (*dto.TagihanPage, error) {
	if page < 1 {
		return nil, apperror.Validation("Halaman minimal 1")
	}
	if limit < 1 || limit > MaxLimit {
		return nil, apperror.Validation("Limit harus antara 1 dan 100")
	}

	scope, err := s.policy.ResolveScope(actor)
	if err != nil {
		return nil, err
	}
	inScope := specification.TagihanInScope{Scope: scope}
	offset := (page - 1) * limit

	uow := s.uowFactory.NewUnitOfWork(ctx)

	var (
		items []*entity.TagihanListItem
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = uow.TagihanRepository().FindPage(gctx, offset, limit, inScope)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = uow.TagihanRepository().Count(gctx, inScope)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.Internal(err)
	}

	if len(items) > 0 {
		ids := make([]uuid.UUID, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.Tagihan.Id)
		}
		counts, err := uow.PembayaranRepository().CountsByTagihan(ctx, ids)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		for _, it := range items {
			c := counts[it.Tagihan.Id]
			it.TotalPembayaran = c.Total
			it.PaidCount = c.Paid
		}
	}

	return &dto.TagihanPage{
		Items:      mapper.TagihanItemsToResponse(items),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Create stores a tagihan. The target scope comes from the access policy, so
// an operator's prodiTarget/angkatanTarget are ignored.
func (s *tagihanService) Create(ctx context.Context, actor *entity.User, req *dto.CreateTagihanRequest) (*dto.TagihanResponse, error) {
	title := strings.TrimSpace(req.Title)
	jenis := strings.TrimSpace(req.Jenis)
	if title == "" {
		return nil, apperror.Validation("Judul wajib diisi")
	}
	if jenis == "" {
		return nil, apperror.Validation("Jenis wajib diisi")
	}
	if req.Nominal <= 0 {
		return nil, apperror.Validation("Nominal harus lebih dari 0")
	}
	deadline, err := utils.ParseDeadline(strings.TrimSpace(req.Deadline), s.loc)
	if err != nil {
		return nil, apperror.Validation("Format deadline tidak valid")
	}

	target, err := s.policy.ResolveTarget(actor, entity.Scope{Prodi: req.ProdiTarget, Angkatan: req.AngkatanTarget})
	if err != nil {
		return nil, err
	}

	now := s.now()
	tagihan := &entity.Tagihan{
		Id:                  uuid.New(),
		Title:               title,
		Description:         req.Description,
		Jenis:               jenis,
		ProdiTarget:         target.Prodi,
		AngkatanTarget:      target.Angkatan,
		Nominal:             req.Nominal,
		Deadline:            deadline,
		IsActive:            true,
		CreatedByOperatorId: actor.Id,
		CreatedAt:           now,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Internal(err)
	}
	defer uow.Rollback()

	if err := uow.TagihanRepository().Create(ctx, tagihan); err != nil {
		return nil, apperror.Internal(err)
	}

	audit := &entity.AuditLog{
		Id:     uuid.New(),
		UserId: actor.Id,
		Action: entity.AuditTagihanCreated,
		Payload: map[string]interface{}{
			"tagihanId":      tagihan.Id.String(),
			"tagihanTitle":   tagihan.Title,
			"amount":         tagihan.Nominal,
			"prodiTarget":    tagihan.ProdiTarget,
			"angkatanTarget": tagihan.AngkatanTarget,
		},
		CreatedAt: now,
	}
	if err := uow.AuditLogRepository().Create(ctx, audit); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Internal(err)
	}

	s.logger.Info("TAGIHAN", "Tagihan created", map[string]interface{}{
		"tagihanId":      tagihan.Id.String(),
		"prodiTarget":    tagihan.ProdiTarget,
		"angkatanTarget": tagihan.AngkatanTarget,
		"actorId":        actor.Id.String(),
	})
	s.publisher.PublishAudit(ctx, audit)

	res := mapper.TagihanToResponse(tagihan)
	return &res, nil
}
