package controller

import (
	"sheets-editor-be/internal/dto"
	"sheets-editor-be/internal/pkg/serverutils"
	"sheets-editor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISheetController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type sheetController struct {
	sheetService service.ISheetService
}

func NewSheetController(sheetService service.ISheetService) ISheetController {
	return &sheetController{
		sheetService: sheetService,
	}
}

// RegisterRoutes expects r to be the authenticated /sheet/v1 group. It must
// be registered after the session and websocket routes so ":id" does not
// shadow them.
func (c *sheetController) RegisterRoutes(r fiber.Router) {
	r.Post("", c.Create)
	r.Get("", c.List)
	r.Get(":id", c.Show)
	r.Delete(":id", c.Delete)
}

func (c *sheetController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateSheetRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.sheetService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create sheet", res))
}

func (c *sheetController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.ListSheetsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sheetService.List(ctx.Context(), userId, &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sheets", res))
}

func (c *sheetController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.sheetService.Show(ctx.Context(), userId, id)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show sheet", res))
}

func (c *sheetController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.sheetService.Delete(ctx.Context(), userId, id); err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete sheet", nil))
}
