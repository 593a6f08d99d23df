package controller

import (
	"errors"

	"sheets-editor-be/internal/pkg/serverutils"
	"sheets-editor-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// toHTTPError maps service sentinels onto status codes; anything else is left
// for the error handler to report as 500.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, service.ErrSheetNotFound), errors.Is(err, service.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCommand):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(req)
}

func paramUUID(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return id, nil
}
