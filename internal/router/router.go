package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/common-repository/notch-pay-for-give/internal/handler"
	"github.com/common-repository/notch-pay-for-give/internal/handler/api"
	"github.com/common-repository/notch-pay-for-give/internal/middleware"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	checkout *handler.CheckoutHandler,
	callback *handler.CallbackHandler,
	paymentAPI *api.PaymentHandler,
	apiKey string,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	// Donation checkout flow
	e.POST("/give/donate", checkout.Donate)

	// Checkout-return endpoint; the verify marker is checked in the
	// handler so unrelated hits on the path get a 404.
	e.GET("/give/checkout", callback.Verify)

	// Admin API
	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.APIAuth(apiKey))
	apiGroup.GET("/payments", paymentAPI.List)
	apiGroup.GET("/payments/:key", paymentAPI.Get)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}
