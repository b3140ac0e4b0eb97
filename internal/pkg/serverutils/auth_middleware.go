package serverutils

import (
	"context"
	"strings"

	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/pkg/apperror"
	"campus-finance-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

const (
	localsUser    = "user"
	localsSession = "session"
)

// SessionResolver turns a bearer token into the acting user.
type SessionResolver interface {
	Authenticate(ctx context.Context, rawToken string) (*entity.User, *entity.Session, error)
}

// AuthGate rejects requests before the handler runs: no valid session is 401,
// a role outside the allow-list is 403.
type AuthGate struct {
	resolver SessionResolver
	logger   logger.ILogger
}

func NewAuthGate(resolver SessionResolver, logger logger.ILogger) *AuthGate {
	return &AuthGate{resolver: resolver, logger: logger}
}

// Require allows any authenticated user when roles is empty.
func (g *AuthGate) Require(roles ...entity.UserRole) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
			return HandleError(ctx, g.logger, apperror.Unauthenticated("Unauthorized"))
		}

		user, session, err := g.resolver.Authenticate(ctx.UserContext(), strings.TrimSpace(authHeader[7:]))
		if err != nil {
			return HandleError(ctx, g.logger, err)
		}

		if len(roles) > 0 && !hasRole(user.Role, roles) {
			return HandleError(ctx, g.logger, apperror.Forbidden("Forbidden"))
		}

		ctx.Locals(localsUser, user)
		ctx.Locals(localsSession, session)
		return ctx.Next()
	}
}

func hasRole(role entity.UserRole, allowed []entity.UserRole) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// CurrentUser returns the user stored by Require, or nil on public routes.
func CurrentUser(ctx *fiber.Ctx) *entity.User {
	user, _ := ctx.Locals(localsUser).(*entity.User)
	return user
}

func CurrentSession(ctx *fiber.Ctx) *entity.Session {
	session, _ := ctx.Locals(localsSession).(*entity.Session)
	return session
}
