package implementation

import (
	"context"
	"errors"
	"time"

	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/mapper"
	"campus-finance-be/internal/model"
	"campus-finance-be/internal/repository/contract"
	"campus-finance-be/internal/repository/scope"
	"campus-finance-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TagihanRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BillingMapper
}

func NewTagihanRepository(db *gorm.DB) contract.TagihanRepository {
	return &TagihanRepositoryImpl{
		db:     db,
		mapper: mapper.NewBillingMapper(),
	}
}

func (r *TagihanRepositoryImpl) Create(ctx context.Context, tagihan *entity.Tagihan) error {
	m := r.mapper.TagihanToModel(tagihan)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	*tagihan = *r.mapper.TagihanToEntity(m)
	return nil
}

func (r *TagihanRepositoryImpl) FindPage(ctx context.Context, offset, limit int, specs ...specification.Specification) ([]*entity.TagihanListItem, error) {
	var rows []*model.Tagihan
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.
		// creator may have been soft-deleted since
		Preload("CreatedBy", func(db *gorm.DB) *gorm.DB {
			return db.Unscoped().Select("id", "name")
		}).
		Scopes(scope.OrderByCreatedDesc).
		Scopes(specification.Pagination{Limit: limit, Offset: offset}.Apply).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]*entity.TagihanListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, r.mapper.TagihanToListItem(row))
	}
	return items, nil
}

func (r *TagihanRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Tagihan{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type PembayaranRepositoryImpl struct {
	db *gorm.DB
}

func NewPembayaranRepository(db *gorm.DB) contract.PembayaranRepository {
	return &PembayaranRepositoryImpl{db: db}
}

func (r *PembayaranRepositoryImpl) CountsByTagihan(ctx context.Context, tagihanIds []uuid.UUID) (map[uuid.UUID]entity.PaymentCounts, error) {
	counts := make(map[uuid.UUID]entity.PaymentCounts, len(tagihanIds))
	if len(tagihanIds) == 0 {
		return counts, nil
	}

	var rows []struct {
		TagihanId uuid.UUID
		Total     int64
		Paid      int64
	}
	err := r.db.WithContext(ctx).Model(&model.Pembayaran{}).
		Select("tagihan_id, COUNT(*) AS total, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS paid", string(entity.PembayaranSuccess)).
		Where("tagihan_id IN ?", tagihanIds).
		Group("tagihan_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.TagihanId] = entity.PaymentCounts{Total: row.Total, Paid: row.Paid}
	}
	return counts, nil
}

func (r *PembayaranRepositoryImpl) PayersSince(ctx context.Context, userIds []uuid.UUID, since time.Time) (map[uuid.UUID]bool, error) {
	payers := make(map[uuid.UUID]bool)
	if len(userIds) == 0 {
		return payers, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Pembayaran{}).
		Distinct("user_id").
		Where("user_id IN ?", userIds).
		Where("status = ?", string(entity.PembayaranSuccess)).
		Where("created_at >= ?", since).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		payers[id] = true
	}
	return payers, nil
}

func (r *PembayaranRepositoryImpl) DailySuccessTotals(ctx context.Context, filter contract.PaymentFilter, from, to time.Time) ([]entity.DailyAmount, error) {
	var rows []struct {
		Date   string
		Amount int64
	}

	query := r.db.WithContext(ctx).Table("pembayaran").
		Select("to_char(pembayaran.created_at AT TIME ZONE ?, 'YYYY-MM-DD') AS date, COALESCE(SUM(pembayaran.amount), 0) AS amount", from.Location().String()).
		Where("pembayaran.status = ?", string(entity.PembayaranSuccess)).
		Where("pembayaran.created_at >= ? AND pembayaran.created_at < ?", from, to)

	if filter.UserId != nil {
		query = query.Where("pembayaran.user_id = ?", *filter.UserId)
	}
	if filter.Prodi != "" {
		query = query.Joins("JOIN users ON users.id = pembayaran.user_id").
			Where("users.prodi = ?", filter.Prodi)
	}

	if err := query.Group("date").Order("date ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	res := make([]entity.DailyAmount, 0, len(rows))
	for _, row := range rows {
		res = append(res, entity.DailyAmount{Date: row.Date, Amount: row.Amount})
	}
	return res, nil
}

type BalanceRepositoryImpl struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) contract.BalanceRepository {
	return &BalanceRepositoryImpl{db: db}
}

func (r *BalanceRepositoryImpl) FindByUserId(ctx context.Context, userId uuid.UUID) (int64, error) {
	var b model.Balance
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return b.Amount, nil
}

func (r *BalanceRepositoryImpl) SumByProdi(ctx context.Context, prodi string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Table("balances").
		Select("COALESCE(SUM(balances.amount), 0)").
		Joins("JOIN users ON users.id = balances.user_id").
		Scopes(scope.ExcludeSoftDelete("users")).
		Where("users.prodi = ? AND users.is_active = ?", prodi, true).
		Scan(&total).Error
	return total, err
}

type AuditLogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BillingMapper
}

func NewAuditLogRepository(db *gorm.DB) contract.AuditLogRepository {
	return &AuditLogRepositoryImpl{
		db:     db,
		mapper: mapper.NewBillingMapper(),
	}
}

func (r *AuditLogRepositoryImpl) Create(ctx context.Context, log *entity.AuditLog) error {
	m, err := r.mapper.AuditLogToModel(log)
	if err != nil {
		return err
	}
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	log.Id = m.Id
	log.CreatedAt = m.CreatedAt
	return nil
}
