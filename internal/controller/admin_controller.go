package controller

import (
	"fmt"

	"campus-finance-be/internal/dto"
	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/pkg/apperror"
	"campus-finance-be/internal/pkg/logger"
	"campus-finance-be/internal/pkg/serverutils"
	"campus-finance-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetAvailableScopes(ctx *fiber.Ctx) error
	GetOperators(ctx *fiber.Ctx) error
	CreateOperator(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService service.IAdminService
	gate         *serverutils.AuthGate
	logger       logger.ILogger
}

func NewAdminController(adminService service.IAdminService, gate *serverutils.AuthGate, logger logger.ILogger) IAdminController {
	return &adminController{
		adminService: adminService,
		gate:         gate,
		logger:       logger,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(c.gate.Require(entity.UserRoleAdmin))

	h.Get("/available-scopes", c.GetAvailableScopes)
	h.Get("/operators", c.GetOperators)
	h.Post("/operators", c.CreateOperator)
}

func (c *adminController) GetAvailableScopes(ctx *fiber.Ctx) error {
	res, err := c.adminService.AvailableScopes(ctx.UserContext())
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Available scopes", res))
}

func (c *adminController) GetOperators(ctx *fiber.Ctx) error {
	res, err := c.adminService.ListOperators(ctx.UserContext())
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.ListResponse("Operators", res))
}

func (c *adminController) CreateOperator(ctx *fiber.Ctx) error {
	var req dto.CreateOperatorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, apperror.Validation("Body request tidak valid"))
	}

	res, err := c.adminService.CreateOperator(ctx.UserContext(), serverutils.CurrentUser(ctx), req)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	msg := fmt.Sprintf("Operator %s %s berhasil dibuat", res.Prodi, res.Angkatan)
	return ctx.JSON(serverutils.SuccessResponse(msg, res))
}
