package controller

import (
	"sheets-editor-be/internal/dto"
	"sheets-editor-be/internal/pkg/serverutils"
	"sheets-editor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICitationController interface {
	RegisterRoutes(r fiber.Router)
	Resolve(ctx *fiber.Ctx) error
}

type citationController struct {
	citationService service.ICitationService
}

func NewCitationController(citationService service.ICitationService) ICitationController {
	return &citationController{
		citationService: citationService,
	}
}

func (c *citationController) RegisterRoutes(r fiber.Router) {
	r.Post("citations/resolve", c.Resolve)
}

func (c *citationController) Resolve(ctx *fiber.Ctx) error {
	var req dto.ResolveCitationsRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.citationService.Resolve(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resolve citations", res))
}
