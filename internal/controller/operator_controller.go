package controller

import (
	"fmt"
	"strconv"
	"strings"

	"campus-finance-be/internal/dto"
	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/pkg/apperror"
	"campus-finance-be/internal/pkg/logger"
	"campus-finance-be/internal/pkg/serverutils"
	"campus-finance-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOperatorController interface {
	RegisterRoutes(r fiber.Router)
	GetMahasiswa(ctx *fiber.Ctx) error
	GetTagihan(ctx *fiber.Ctx) error
	CreateTagihan(ctx *fiber.Ctx) error
}

type operatorController struct {
	mahasiswaService service.IMahasiswaService
	tagihanService   service.ITagihanService
	gate             *serverutils.AuthGate
	logger           logger.ILogger
}

func NewOperatorController(
	mahasiswaService service.IMahasiswaService,
	tagihanService service.ITagihanService,
	gate *serverutils.AuthGate,
	logger logger.ILogger,
) IOperatorController {
	return &operatorController{
		mahasiswaService: mahasiswaService,
		tagihanService:   tagihanService,
		gate:             gate,
		logger:           logger,
	}
}

func (c *operatorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/operator")

	h.Get("/mahasiswa", c.gate.Require(entity.UserRoleOperator), c.GetMahasiswa)

	// admins manage tagihan for any scope through the same endpoints
	tagihan := c.gate.Require(entity.UserRoleOperator, entity.UserRoleAdmin)
	h.Get("/tagihan", tagihan, c.GetTagihan)
	h.Post("/tagihan", tagihan, c.CreateTagihan)
}

func (c *operatorController) GetMahasiswa(ctx *fiber.Ctx) error {
	res, err := c.mahasiswaService.List(ctx.UserContext(), serverutils.CurrentUser(ctx))
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.ListResponse("Daftar mahasiswa", res))
}

func (c *operatorController) GetTagihan(ctx *fiber.Ctx) error {
	pageNum, err := queryInt(ctx, "page", service.DefaultPage)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	limit, err := queryInt(ctx, "limit", service.DefaultLimit)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	req := dto.TagihanListRequest{Page: pageNum, Limit: limit}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}

	page, err := c.tagihanService.List(ctx.UserContext(), serverutils.CurrentUser(ctx), req.Page, req.Limit)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	return ctx.JSON(serverutils.PagedSuccessResponse(page.Items, page.Total, page.Page, page.Limit, page.TotalPages))
}

func (c *operatorController) CreateTagihan(ctx *fiber.Ctx) error {
	var req dto.CreateTagihanRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, apperror.Validation("Body request tidak valid"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}

	res, err := c.tagihanService.Create(ctx.UserContext(), serverutils.CurrentUser(ctx), &req)
	if err != nil {
		return serverutils.HandleError(ctx, c.logger, err)
	}
	msg := fmt.Sprintf("Tagihan berhasil dibuat untuk %s %s", res.ProdiTarget, res.AngkatanTarget)
	return ctx.JSON(serverutils.SuccessResponse(msg, res))
}

// queryInt reads an integer query param; absent or blank values use def.
func queryInt(ctx *fiber.Ctx, key string, def int) (int, error) {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.Validation("Parameter halaman tidak valid")
	}
	return n, nil
}
