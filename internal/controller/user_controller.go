package controller

import (
	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/pkg/logger"
	"campus-finance-be/internal/pkg/serverutils"
	"campus-finance-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	GetDashboard(ctx *fiber.Ctx) error
}

type userController struct {
	userService service.IUserService
	gate        *serverutils.AuthGate
	logger      logger.ILogger
}

func NewUserController(userService service.IUserService, gate *serverutils.AuthGate, logger logger.ILogger) IUserController {
	return &userController{
		userService: userService,
		gate:        gate,
		logger:      logger,
	}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/user")
	h.Use(c.gate.Require(entity.UserRoleUser))
	h.Get("/dashboard", c.GetDashboard)
}

func (c *userController) GetDashboard(ctx *fiber.Ctx) error {
	res, err := c.userService.Dashboard(ctx.UserContext(), serverutils.CurrentUser(ctx))
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard", res))
}
