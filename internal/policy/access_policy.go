package policy

import (
	"strings"

	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/pkg/apperror"
)

// AccessPolicy decides which (prodi, angkatan) rows an actor may read and
// which target a new tagihan gets. Both the list and create paths go through it.
type AccessPolicy struct{}

func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{}
}

// ResolveScope returns the filter for reads. ADMIN gets the zero scope (all
// rows); an OPERATOR without a complete scope gets SCOPE_MISSING rather than an
// empty result.
func (p *AccessPolicy) ResolveScope(actor *entity.User) (entity.Scope, error) {
	if actor == nil {
		return entity.Scope{}, apperror.Unauthenticated("Unauthorized")
	}

	switch actor.Role {
	case entity.UserRoleAdmin:
		return entity.Scope{}, nil
	case entity.UserRoleOperator:
		sc := actor.Scope()
		if !sc.Complete() {
			return entity.Scope{}, apperror.ScopeMissing()
		}
		return sc, nil
	default:
		return entity.Scope{}, apperror.Forbidden("Forbidden")
	}
}

// CanSetTarget reports whether actor may create rows for target.
func (p *AccessPolicy) CanSetTarget(actor *entity.User, target entity.Scope) bool {
	if actor == nil || !target.Complete() {
		return false
	}
	switch actor.Role {
	case entity.UserRoleAdmin:
		return true
	case entity.UserRoleOperator:
		return actor.Scope() == target
	default:
		return false
	}
}

// ResolveTarget returns the scope a new tagihan is written with. Operators
// always get their own scope whatever the client sent; admins must name one.
func (p *AccessPolicy) ResolveTarget(actor *entity.User, requested entity.Scope) (entity.Scope, error) {
	if actor != nil && actor.Role == entity.UserRoleOperator {
		return p.ResolveScope(actor)
	}
	if _, err := p.ResolveScope(actor); err != nil {
		return entity.Scope{}, err
	}

	target := entity.Scope{
		Prodi:    strings.TrimSpace(requested.Prodi),
		Angkatan: strings.TrimSpace(requested.Angkatan),
	}
	if !p.CanSetTarget(actor, target) {
		return entity.Scope{}, apperror.Validation("Prodi dan angkatan target wajib diisi")
	}
	return target, nil
}
