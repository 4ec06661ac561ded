package handler

import (
	"clinic-voice-be/internal/pkg/logger"
	"clinic-voice-be/internal/pkg/serverutils"
	internalWS "clinic-voice-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// QueueMonitorHandler serves the live queue/transfer event feed to ops
// dashboards over websocket.
type QueueMonitorHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewQueueMonitorHandler(hub *internalWS.Hub, log logger.ILogger) *QueueMonitorHandler {
	return &QueueMonitorHandler{
		hub:    hub,
		logger: log,
	}
}

func (h *QueueMonitorHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/ws/queue", h.ServeWs)
}

// ServeWs authenticates the dashboard and upgrades the connection.
func (h *QueueMonitorHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers can't set headers on websocket handshakes, so accept the
	// token from the query string as well.
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return serverutils.JwtSecret(), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("QueueMonitorHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admins only"})
	}

	monitorID := c.Query("monitor_id")
	if monitorID == "" {
		monitorID = uuid.NewString()
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("QueueMonitorHandler", "Monitor feed started", map[string]interface{}{"monitor_id": monitorID})
			internalWS.ServeWs(h.hub, conn, monitorID)
			h.logger.Info("QueueMonitorHandler", "Monitor feed ended", map[string]interface{}{"monitor_id": monitorID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
