package mapper

import (
	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/model"

	"gorm.io/gorm"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	e := &entity.User{
		Id:                 u.Id,
		Identifier:         u.Identifier,
		Name:               u.Name,
		Role:               entity.UserRole(u.Role),
		Prodi:              u.Prodi,
		Angkatan:           u.Angkatan,
		PasswordHash:       u.PasswordHash,
		IsActive:           u.IsActive,
		MustChangePassword: u.MustChangePassword,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
	if u.DeletedAt.Valid {
		deletedAt := u.DeletedAt.Time
		e.DeletedAt = &deletedAt
	}
	return e
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	mdl := &model.User{
		Id:                 u.Id,
		Identifier:         u.Identifier,
		Name:               u.Name,
		Role:               string(u.Role),
		Prodi:              u.Prodi,
		Angkatan:           u.Angkatan,
		PasswordHash:       u.PasswordHash,
		IsActive:           u.IsActive,
		MustChangePassword: u.MustChangePassword,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
	if u.DeletedAt != nil {
		mdl.DeletedAt = gorm.DeletedAt{Time: *u.DeletedAt, Valid: true}
	}
	return mdl
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	res := make([]*entity.User, 0, len(users))
	for _, u := range users {
		res = append(res, m.ToEntity(u))
	}
	return res
}

// ToStudentSummary maps a user row preloaded with its balance.
func (m *UserMapper) ToStudentSummary(u *model.User) *entity.StudentSummary {
	summary := &entity.StudentSummary{User: m.ToEntity(u)}
	if u.Balance != nil {
		summary.Balance = u.Balance.Amount
	}
	return summary
}
