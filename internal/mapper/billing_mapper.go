package mapper

import (
	"encoding/json"

	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/model"

	"gorm.io/datatypes"
)

type BillingMapper struct{}

func NewBillingMapper() *BillingMapper {
	return &BillingMapper{}
}

func (m *BillingMapper) TagihanToEntity(t *model.Tagihan) *entity.Tagihan {
	if t == nil {
		return nil
	}
	return &entity.Tagihan{
		Id:                  t.Id,
		Title:               t.Title,
		Description:         t.Description,
		Jenis:               t.Jenis,
		ProdiTarget:         t.ProdiTarget,
		AngkatanTarget:      t.AngkatanTarget,
		Nominal:             t.Nominal,
		Deadline:            t.Deadline,
		IsActive:            t.IsActive,
		CreatedByOperatorId: t.CreatedByOperatorId,
		CreatedAt:           t.CreatedAt,
	}
}

func (m *BillingMapper) TagihanToModel(t *entity.Tagihan) *model.Tagihan {
	if t == nil {
		return nil
	}
	return &model.Tagihan{
		Id:                  t.Id,
		Title:               t.Title,
		Description:         t.Description,
		Jenis:               t.Jenis,
		ProdiTarget:         t.ProdiTarget,
		AngkatanTarget:      t.AngkatanTarget,
		Nominal:             t.Nominal,
		Deadline:            t.Deadline,
		IsActive:            t.IsActive,
		CreatedByOperatorId: t.CreatedByOperatorId,
		CreatedAt:           t.CreatedAt,
	}
}

// TagihanToListItem maps a tagihan row preloaded with its creator.
func (m *BillingMapper) TagihanToListItem(t *model.Tagihan) *entity.TagihanListItem {
	item := &entity.TagihanListItem{Tagihan: m.TagihanToEntity(t)}
	if t.CreatedBy != nil {
		item.CreatedByName = t.CreatedBy.Name
	}
	return item
}

func (m *BillingMapper) AuditLogToModel(a *entity.AuditLog) (*model.AuditLog, error) {
	payload, err := json.Marshal(a.Payload)
	if err != nil {
		return nil, err
	}
	return &model.AuditLog{
		Id:        a.Id,
		UserId:    a.UserId,
		Action:    string(a.Action),
		Payload:   datatypes.JSON(payload),
		CreatedAt: a.CreatedAt,
	}, nil
}
