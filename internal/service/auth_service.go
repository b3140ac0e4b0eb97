package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus-finance-be/internal/config"
	"campus-finance-be/internal/dto"
	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/pkg/apperror"
	"campus-finance-be/internal/pkg/logger"
	"campus-finance-be/internal/repository/specification"
	"campus-finance-be/internal/repository/unitofwork"
	adminEvents "campus-finance-be/pkg/admin/events"
	"campus-finance-be/pkg/admin/mapper"
	"campus-finance-be/pkg/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgInvalidCredentials = "Identifier atau password salah"
	msgUnauthorized       = "Unauthorized"
	minPasswordLength     = 6
	maxPasswordLength     = 72
)

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, session *entity.Session) error
	ChangePassword(ctx context.Context, actor *entity.User, req *dto.ChangePasswordRequest) error
	// Authenticate verifies a bearer token and loads its user. Any failure is
	// UNAUTHENTICATED.
	Authenticate(ctx context.Context, rawToken string) (*entity.User, *entity.Session, error)
}

type authService struct {
	uowFactory  unitofwork.RepositoryFactory
	revocations store.RevocationStore
	publisher   adminEvents.Publisher
	logger      logger.ILogger

	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	revocations store.RevocationStore,
	publisher adminEvents.Publisher,
	logger logger.ILogger,
	cfg config.AuthConfig,
) IAuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = 12
	}
	return &authService{
		uowFactory:  uowFactory,
		revocations: revocations,
		publisher:   publisher,
		logger:      logger,
		secret:      []byte(cfg.JwtSecret),
		tokenTTL:    ttl,
		bcryptCost:  cost,
		now:         time.Now,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByIdentifier{Identifier: req.Identifier})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.Unauthenticated(msgInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthenticated(msgInvalidCredentials)
	}

	if !user.Usable() {
		return nil, apperror.Forbidden("Akun tidak aktif")
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
		"jti":     uuid.New().String(),
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.logger.Info("AUTH", "User logged in", map[string]interface{}{
		"userId": user.Id.String(),
		"role":   string(user.Role),
	})

	return &dto.LoginResponse{
		AccessToken:        signed,
		ExpiresAt:          time.Unix(expiresAt.Unix(), 0).UTC(),
		MustChangePassword: user.MustChangePassword,
		User:               mapper.UserToDTO(user),
	}, nil
}

func (s *authService) Authenticate(ctx context.Context, rawToken string) (*entity.User, *entity.Session, error) {
	session, err := s.parseToken(rawToken)
	if err != nil {
		return nil, nil, apperror.Unauthenticated(msgUnauthorized)
	}

	revoked, err := s.revocations.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	if revoked {
		return nil, nil, apperror.Unauthenticated(msgUnauthorized)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: session.UserId})
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}
	if user == nil || !user.Usable() {
		return nil, nil, apperror.Unauthenticated(msgUnauthorized)
	}

	// the stored role wins over the one baked into the token
	session.Role = user.Role
	return user, session, nil
}

func (s *authService) parseToken(rawToken string) (*entity.Session, error) {
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	rawID, _ := claims["user_id"].(string)
	userId, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id claim: %w", err)
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, errors.New("missing jti claim")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, errors.New("missing exp claim")
	}
	role, _ := claims["role"].(string)

	return &entity.Session{
		TokenID:   jti,
		UserId:    userId,
		Role:      entity.UserRole(role),
		ExpiresAt: exp.Time,
	}, nil
}

func (s *authService) Logout(ctx context.Context, session *entity.Session) error {
	if session == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, session.TokenID, session.ExpiresAt.Sub(s.now())); err != nil {
		return apperror.Internal(err)
	}
	s.logger.Info("AUTH", "User logged out", map[string]interface{}{
		"userId": session.UserId.String(),
	})
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, actor *entity.User, req *dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLength {
		return apperror.Validation("Password baru minimal 6 karakter")
	}
	if len(req.NewPassword) > maxPasswordLength {
		return apperror.Validation("Password baru maksimal 72 karakter")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(req.OldPassword)); err != nil {
		return apperror.Validation("Password lama salah")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return apperror.Internal(err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return apperror.Internal(err)
	}
	defer uow.Rollback()

	if err := uow.UserRepository().UpdatePassword(ctx, actor.Id, string(hash), false); err != nil {
		return apperror.Internal(err)
	}

	audit := &entity.AuditLog{
		Id:        uuid.New(),
		UserId:    actor.Id,
		Action:    entity.AuditPasswordChanged,
		Payload:   map[string]interface{}{"targetUserId": actor.Id.String()},
		CreatedAt: s.now(),
	}
	if err := uow.AuditLogRepository().Create(ctx, audit); err != nil {
		return apperror.Internal(err)
	}

	if err := uow.Commit(); err != nil {
		return apperror.Internal(err)
	}

	s.publisher.PublishAudit(ctx, audit)
	return nil
}
