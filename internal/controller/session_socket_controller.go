package controller

import (
	"sheets-editor-be/internal/pkg/logger"
	"sheets-editor-be/internal/pkg/serverutils"
	"sheets-editor-be/internal/service"
	internalWS "sheets-editor-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type ISessionSocketController interface {
	RegisterRoutes(r fiber.Router)
	ServeWs(ctx *fiber.Ctx) error
}

type sessionSocketController struct {
	editorService service.IEditorService
	hub           *internalWS.Hub
	logger        logger.ILogger
}

func NewSessionSocketController(editorService service.IEditorService, hub *internalWS.Hub, log logger.ILogger) ISessionSocketController {
	return &sessionSocketController{
		editorService: editorService,
		hub:           hub,
		logger:        log,
	}
}

func (c *sessionSocketController) RegisterRoutes(r fiber.Router) {
	r.Get("ws", c.ServeWs)
}

// ServeWs upgrades GET /ws?session_id=...&token=... once the caller is known
// to own the session.
func (c *sessionSocketController) ServeWs(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}
	sessionId := ctx.Query("session_id")
	if sessionId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing session_id")
	}
	if _, err := c.editorService.Get(ctx.Context(), userId, sessionId); err != nil {
		return toHTTPError(err)
	}

	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		c.logger.Info("SessionSocket", "Starting WebSocket session", map[string]interface{}{"session_id": sessionId, "user_id": userId})
		internalWS.ServeWs(c.hub, conn, sessionId, userId)
		c.logger.Info("SessionSocket", "WebSocket session ended", map[string]interface{}{"session_id": sessionId})
	})(ctx)
}
