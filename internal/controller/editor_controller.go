package controller

import (
	"sheets-editor-be/internal/dto"
	"sheets-editor-be/internal/pkg/serverutils"
	"sheets-editor-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IEditorController interface {
	RegisterRoutes(r fiber.Router)
	Open(ctx *fiber.Ctx) error
	State(ctx *fiber.Ctx) error
	Select(ctx *fiber.Ctx) error
	Command(ctx *fiber.Ctx) error
	ToggleMark(ctx *fiber.Ctx) error
	ToggleBlock(ctx *fiber.Ctx) error
	ToggleCode(ctx *fiber.Ctx) error
	Key(ctx *fiber.Ctx) error
	Text(ctx *fiber.Ctx) error
	Paste(ctx *fiber.Ctx) error
	HTML(ctx *fiber.Ctx) error
	Payload(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
}

type editorController struct {
	editorService service.IEditorService
}

func NewEditorController(editorService service.IEditorService) IEditorController {
	return &editorController{
		editorService: editorService,
	}
}

func (c *editorController) RegisterRoutes(r fiber.Router) {
	r.Post(":id/sessions", c.Open)

	h := r.Group("/sessions")
	h.Get(":sid", c.State)
	h.Put(":sid/selection", c.Select)
	h.Post(":sid/commands", c.Command)
	h.Post(":sid/marks", c.ToggleMark)
	h.Post(":sid/blocks", c.ToggleBlock)
	h.Post(":sid/code", c.ToggleCode)
	h.Post(":sid/keys", c.Key)
	h.Post(":sid/text", c.Text)
	h.Post(":sid/paste", c.Paste)
	h.Get(":sid/html", c.HTML)
	h.Get(":sid/payload", c.Payload)
	h.Post(":sid/save", c.Save)
	h.Delete(":sid", c.Close)
}

func caller(ctx *fiber.Ctx) (uuid.UUID, string, error) {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return uuid.Nil, "", err
	}
	return userId, ctx.Params("sid"), nil
}

func (c *editorController) Open(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	sheetId, err := paramUUID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.editorService.Open(ctx.Context(), userId, sheetId)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success open session", res))
}

func (c *editorController) State(ctx *fiber.Ctx) error {
	userId, sid, err := caller(ctx)
	if err != nil {
		return err
	}

	res, err := c.editorService.Get(ctx.Context(), userId, sid)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *editorController) Select(ctx *fiber.Ctx) error {
	userId, sid, err := caller(ctx)
	if err != nil {
		return err
	}

	var req dto.SelectRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.editorService.Select(ctx.Context(), userId, sid, &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success select", res))
}

func (c *editorController) Command(ctx *fiber.Ctx) error {
	userId, sid, err := caller(ctx)
	if err != nil {
		return err
	}

	var req dto.CommandRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.editorService.Command(ctx.Context(), userId, sid, &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run "+req.Op, res))
}

func (c *editorController) ToggleMark(ctx *fiber.Ctx) error {
	userId, sid, err := caller(ctx)
	if err != nil {
		return err
	}

	var req dto.MarkRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.editorService.ToggleMark(ctx.Context(), userId, sid, &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle mark", res))
}

func (c *editorController) ToggleBlock(ctx *fiber.Ctx) error {
	userId, sid, err := caller(ctx)
	if err != nil {
		return err
	}

	var req dto.BlockRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.editorService.ToggleBlock(ctx.Context(), userId, sid, &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle block", res))
}

func (c *editorController) ToggleCode(ctx *fiber.Ctx) error {
	userId, sid, err := caller(ctx)
	if err != nil {
		return err
	}

	res, err := c.editorService.ToggleCode(ctx.Context(), userId, sid)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle code block", res))
}

func (c *editorController) Key(ctx *fiber.Ctx) error {
	userId, sid, err := caller(ctx)
	if err != nil {
		return err
	}

	var req dto.KeyRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.editorService.Key(ctx.Context(), userId, sid, &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success handle key", res))
}

func (c *editorController) Text(ctx *fiber.Ctx) error {
	userId, sid, err := caller(ctx)
	if err != nil {
		return err
	}

	var req dto.TextRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.editorService.Text(ctx.Context(), userId, sid, &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success insert text", res))
}

// Paste answers 202 while a short link is resolved in the background; the
// resulting document is pushed over the session websocket.
func (c *editorController) Paste(ctx *fiber.Ctx) error {
	userId, sid, err := caller(ctx)
	if err != nil {
		return err
	}

	var req dto.PasteRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.editorService.Paste(ctx.Context(), userId, sid, &req)
	if err != nil {
		return toHTTPError(err)
	}

	if res.Pending {
		return ctx.Status(fiber.StatusAccepted).JSON(serverutils.AcceptedResponse("Paste is being resolved", res))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success paste", res))
}

func (c *editorController) HTML(ctx *fiber.Ctx) error {
	userId, sid, err := caller(ctx)
	if err != nil {
		return err
	}

	res, err := c.editorService.HTML(ctx.Context(), userId, sid)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success serialize", res))
}

func (c *editorController) Payload(ctx *fiber.Ctx) error {
	userId, sid, err := caller(ctx)
	if err != nil {
		return err
	}

	res, err := c.editorService.Payload(ctx.Context(), userId, sid)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success build payload", res))
}

func (c *editorController) Save(ctx *fiber.Ctx) error {
	userId, sid, err := caller(ctx)
	if err != nil {
		return err
	}

	var req dto.SaveSessionRequest
	if len(ctx.Body()) > 0 {
		if err := parseBody(ctx, &req); err != nil {
			return err
		}
	}

	res, err := c.editorService.Save(ctx.Context(), userId, sid, &req)
	if err != nil {
		return toHTTPError(err)
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.AcceptedResponse("Save queued", res))
}

func (c *editorController) Close(ctx *fiber.Ctx) error {
	userId, sid, err := caller(ctx)
	if err != nil {
		return err
	}

	if err := c.editorService.Close(ctx.Context(), userId, sid); err != nil {
		return toHTTPError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success close session", nil))
}
