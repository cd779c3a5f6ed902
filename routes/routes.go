package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Phaham/BoogieBites/controllers"
	"github.com/Phaham/BoogieBites/middleware"
)

func RegisterRoutes(r *gin.Engine, cc *controllers.CheckoutController, oc *controllers.OrderController, wc *controllers.WebhookController) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	checkout := r.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware())
	checkout.POST("/session", cc.InitiateCheckout)

	orders := r.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	orders.GET("", oc.GetMyOrder)

	// Stripe webhook (no auth; signature-verified)
	r.POST("/stripe/webhook", wc.HandleStripeWebhook)
}
