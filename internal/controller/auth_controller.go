package controller

import (
	"campus-finance-be/internal/dto"
	"campus-finance-be/internal/pkg/apperror"
	"campus-finance-be/internal/pkg/logger"
	"campus-finance-be/internal/pkg/serverutils"
	"campus-finance-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	ChangePassword(ctx *fiber.Ctx) error
}

type authController struct {
	authService service.IAuthService
	gate        *serverutils.AuthGate
	logger      logger.ILogger
}

func NewAuthController(authService service.IAuthService, gate *serverutils.AuthGate, logger logger.ILogger) IAuthController {
	return &authController{
		authService: authService,
		gate:        gate,
		logger:      logger,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/login", c.Login)
	h.Post("/logout", c.gate.Require(), c.Logout)
	h.Post("/change-password", c.gate.Require(), c.ChangePassword)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, apperror.Validation("Body request tidak valid"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}

	res, err := c.authService.Login(ctx.UserContext(), &req)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Login berhasil", res))
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	if err := c.authService.Logout(ctx.UserContext(), serverutils.CurrentSession(ctx)); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Logout berhasil", nil))
}

func (c *authController) ChangePassword(ctx *fiber.Ctx) error {
	var req dto.ChangePasswordRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, apperror.Validation("Body request tidak valid"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}

	if err := c.authService.ChangePassword(ctx.UserContext(), serverutils.CurrentUser(ctx), &req); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Password berhasil diubah", nil))
}
