package handler

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"munch/internal/delivery/ws"
	"munch/internal/domain/entity"
	"munch/internal/domain/service"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WSHandler upgrades order-stream requests to WebSocket connections.
type WSHandler struct {
	hub      *ws.Hub
	tokenSvc service.TokenService
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler is the constructor for WSHandler, injected by Fx.
func NewWSHandler(hub *ws.Hub, tokenSvc service.TokenService, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hub:      hub,
		tokenSvc: tokenSvc,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Orders handles GET /ws/orders. Browsers cannot set custom headers on
// WebSocket requests, so the access token is also accepted as a query
// parameter.
func (h *WSHandler) Orders(c echo.Context) error {
	tokenString := c.QueryParam("token")
	if tokenString == "" {
		authHeader := c.Request().Header.Get("Authorization")
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			tokenString = ""
		}
	}
	if tokenString == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Access token is missing"})
	}

	claims, err := h.tokenSvc.ValidateAccessToken(tokenString)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", slog.Any("error", err))

		return nil
	}

	admin := slices.Contains(claims.Roles, entity.RoleAdmin.String())
	h.hub.Register(conn, claims.UserID, admin)

	return nil
}
