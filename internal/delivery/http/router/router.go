// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"munch/internal/delivery/http/middleware"
	"munch/internal/delivery/http/router/handler"
	"munch/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ProfileHandler *handler.ProfileHandler
	ProductHandler *handler.ProductHandler
	CartHandler    *handler.CartHandler
	OrderHandler   *handler.OrderHandler
	WSHandler      *handler.WSHandler
	PushHandler    *handler.PushHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	profileHandler *handler.ProfileHandler
	productHandler *handler.ProductHandler
	cartHandler    *handler.CartHandler
	orderHandler   *handler.OrderHandler
	wsHandler      *handler.WSHandler
	pushHandler    *handler.PushHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		profileHandler: params.ProfileHandler,
		productHandler: params.ProductHandler,
		cartHandler:    params.CartHandler,
		orderHandler:   params.OrderHandler,
		wsHandler:      params.WSHandler,
		pushHandler:    params.PushHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Pub/Sub push endpoint for order-event fan-out
	e.POST("/internal/push", r.pushHandler.HandlePush)

	// Realtime order stream; the handler validates the token itself
	e.GET("/ws/orders", r.wsHandler.Orders)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.POST("/logout-all", r.authHandler.LogoutAll, r.authMiddleware.Authenticate)
	}

	// Public menu routes
	productGroup := e.Group("/products")
	{
		productGroup.GET("", r.productHandler.List)
		productGroup.GET("/:id", r.productHandler.Get)
	}

	// User routes that require authentication
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/profile", r.profileHandler.GetProfile)
		userGroup.PUT("/profile", r.profileHandler.UpdateProfile)
		userGroup.POST("/profile/avatar", r.profileHandler.UploadAvatar)
		userGroup.GET("/roles", r.profileHandler.GetRoles)
	}

	// Cart routes that require authentication
	cartGroup := e.Group("/cart")
	cartGroup.Use(r.authMiddleware.Authenticate)
	{
		cartGroup.GET("", r.cartHandler.Get)
		cartGroup.POST("/items", r.cartHandler.AddItem)
		cartGroup.PUT("/items/:id", r.cartHandler.UpdateItem)
		cartGroup.DELETE("/items/:id", r.cartHandler.RemoveItem)
		cartGroup.DELETE("", r.cartHandler.Clear)
	}

	// Order routes that require authentication
	orderGroup := e.Group("/orders")
	orderGroup.Use(r.authMiddleware.Authenticate)
	{
		orderGroup.POST("", r.orderHandler.Checkout)
		orderGroup.GET("", r.orderHandler.ListMine)
		orderGroup.GET("/:id", r.orderHandler.Get)
		orderGroup.GET("/:id/qr", r.orderHandler.GetQR)
		orderGroup.POST("/:id/payment", r.orderHandler.ResolvePayment)
	}

	// Admin routes that require authentication and the "admin" role
	adminGroup := e.Group("/admin")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireRole(entity.RoleAdmin.String()))
	{
		adminGroup.GET("/orders", r.orderHandler.ListAll)
		adminGroup.PATCH("/orders/:id/status", r.orderHandler.UpdateStatus)
		adminGroup.GET("/statistics", r.orderHandler.Statistics)

		adminGroup.POST("/products", r.productHandler.Create)
		adminGroup.PUT("/products/:id", r.productHandler.Update)
		adminGroup.DELETE("/products/:id", r.productHandler.Delete)
		adminGroup.POST("/products/image", r.productHandler.UploadImage)
	}
}
