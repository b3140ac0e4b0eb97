package implementation

import (
	"context"
	"errors"

	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/mapper"
	"campus-finance-be/internal/model"
	"campus-finance-be/internal/repository/contract"
	"campus-finance-be/internal/repository/scope"
	"campus-finance-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *entity.User) error {
	modelUser := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(modelUser).Error; err != nil {
		return translateError(err)
	}
	*user = *r.mapper.ToEntity(modelUser)
	return nil
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var modelUser model.User
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelUser), nil
}

func (r *UserRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var modelUsers []*model.User
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelUsers).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelUsers), nil
}

func (r *UserRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.User{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepositoryImpl) UpdatePassword(ctx context.Context, userId uuid.UUID, hash string, mustChange bool) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userId).
		Updates(map[string]interface{}{
			"password_hash":        hash,
			"must_change_password": mustChange,
		}).Error
}

func (r *UserRepositoryImpl) Students(ctx context.Context, sc entity.Scope) ([]*entity.StudentSummary, error) {
	var rows []*model.User
	err := r.db.WithContext(ctx).
		Preload("Balance").
		Scopes(
			specification.ByRole{Role: entity.UserRoleUser}.Apply,
			specification.UserInScope{Scope: sc}.Apply,
			scope.OrderByNameAsc,
		).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	res := make([]*entity.StudentSummary, 0, len(rows))
	for _, row := range rows {
		res = append(res, r.mapper.ToStudentSummary(row))
	}
	return res, nil
}

func (r *UserRepositoryImpl) OperatorScopes(ctx context.Context) ([]entity.Scope, error) {
	var rows []struct {
		Prodi    string
		Angkatan string
	}
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Select("prodi, angkatan").
		Scopes(
			specification.ByRole{Role: entity.UserRoleOperator}.Apply,
			specification.ActiveUsers{}.Apply,
			specification.HasScope{}.Apply,
		).
		Order("prodi ASC").
		Order("angkatan DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	scopes := make([]entity.Scope, 0, len(rows))
	for _, row := range rows {
		scopes = append(scopes, entity.Scope{Prodi: row.Prodi, Angkatan: row.Angkatan})
	}
	return scopes, nil
}
