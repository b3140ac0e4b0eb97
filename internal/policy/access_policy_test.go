package policy

import (
	"testing"

	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func operator(prodi, angkatan *string) *entity.User {
	return &entity.User{Id: uuid.New(), Role: entity.UserRoleOperator, Prodi: prodi, Angkatan: angkatan, IsActive: true}
}

func TestResolveScope(t *testing.T) {
	p := NewAccessPolicy()

	t.Run("admin is unscoped", func(t *testing.T) {
		sc, err := p.ResolveScope(&entity.User{Role: entity.UserRoleAdmin})
		require.NoError(t, err)
		assert.True(t, sc.IsAll())
	})

	t.Run("operator gets own scope", func(t *testing.T) {
		sc, err := p.ResolveScope(operator(strPtr("TI"), strPtr("2023")))
		require.NoError(t, err)
		assert.Equal(t, entity.Scope{Prodi: "TI", Angkatan: "2023"}, sc)
	})

	t.Run("operator missing angkatan", func(t *testing.T) {
		_, err := p.ResolveScope(operator(strPtr("TI"), nil))
		assert.True(t, apperror.Is(err, apperror.KindScopeMissing))
	})

	t.Run("operator with blank prodi", func(t *testing.T) {
		_, err := p.ResolveScope(operator(strPtr("  "), strPtr("2023")))
		assert.True(t, apperror.Is(err, apperror.KindScopeMissing))
	})

	t.Run("user is forbidden", func(t *testing.T) {
		_, err := p.ResolveScope(&entity.User{Role: entity.UserRoleUser})
		assert.True(t, apperror.Is(err, apperror.KindForbidden))
	})

	t.Run("no actor", func(t *testing.T) {
		_, err := p.ResolveScope(nil)
		assert.True(t, apperror.Is(err, apperror.KindUnauthenticated))
	})
}

func TestResolveTarget(t *testing.T) {
	p := NewAccessPolicy()

	t.Run("operator target is overridden", func(t *testing.T) {
		target, err := p.ResolveTarget(operator(strPtr("TI"), strPtr("2023")), entity.Scope{Prodi: "SI", Angkatan: "2020"})
		require.NoError(t, err)
		assert.Equal(t, entity.Scope{Prodi: "TI", Angkatan: "2023"}, target)
	})

	t.Run("operator without scope", func(t *testing.T) {
		_, err := p.ResolveTarget(operator(nil, nil), entity.Scope{Prodi: "SI", Angkatan: "2020"})
		assert.True(t, apperror.Is(err, apperror.KindScopeMissing))
	})

	t.Run("admin target verbatim", func(t *testing.T) {
		target, err := p.ResolveTarget(&entity.User{Role: entity.UserRoleAdmin}, entity.Scope{Prodi: "SI", Angkatan: " 2020 "})
		require.NoError(t, err)
		assert.Equal(t, entity.Scope{Prodi: "SI", Angkatan: "2020"}, target)
	})

	t.Run("admin must name a target", func(t *testing.T) {
		_, err := p.ResolveTarget(&entity.User{Role: entity.UserRoleAdmin}, entity.Scope{Prodi: "SI"})
		assert.True(t, apperror.Is(err, apperror.KindValidationFailed))
	})
}

func TestCanSetTarget(t *testing.T) {
	p := NewAccessPolicy()
	op := operator(strPtr("TI"), strPtr("2023"))

	assert.True(t, p.CanSetTarget(op, entity.Scope{Prodi: "TI", Angkatan: "2023"}))
	assert.False(t, p.CanSetTarget(op, entity.Scope{Prodi: "SI", Angkatan: "2023"}))
	assert.True(t, p.CanSetTarget(&entity.User{Role: entity.UserRoleAdmin}, entity.Scope{Prodi: "SI", Angkatan: "2023"}))
	assert.False(t, p.CanSetTarget(&entity.User{Role: entity.UserRoleUser}, entity.Scope{Prodi: "TI", Angkatan: "2023"}))
}
