package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	apperrors "github.com/Phaham/BoogieBites/errors"
	"github.com/Phaham/BoogieBites/middleware"
	"github.com/Phaham/BoogieBites/models"
	"github.com/Phaham/BoogieBites/services"
)

// SessionCreator is the slice of the gateway the checkout endpoint needs.
type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, lines []models.CheckoutLine, customerEmail, successURL, cancelURL string) (*stripe.CheckoutSession, error)
}

type CheckoutController struct {
	Stripe      SessionCreator
	Logger      *zap.Logger
	FrontendURL string
}

// InitiateCheckout validates the cart and opens a gateway checkout session.
// Nothing is persisted here; the webhook drives fulfillment later.
func (cc *CheckoutController) InitiateCheckout(c *gin.Context) {
	var req struct {
		Items []models.CartItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		cc.respondError(c, apperrors.Validation("invalid request body", err))
		return
	}

	email := middleware.GetUserEmail(c)

	lines, err := services.NormalizeCart(req.Items)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	successURL := fmt.Sprintf("%s/paymentSuccess?session_id={CHECKOUT_SESSION_ID}", cc.FrontendURL)
	cancelURL := fmt.Sprintf("%s/paymentFailed?session_id={CHECKOUT_SESSION_ID}", cc.FrontendURL)

	sess, err := cc.Stripe.CreateCheckoutSession(c.Request.Context(), lines, email, successURL, cancelURL)
	if err != nil {
		cc.respondError(c, err)
		return
	}

	cc.Logger.Info("Checkout session created",
		zap.String("session_id", sess.ID),
		zap.String("customer_email", email),
		zap.Int("line_count", len(lines)),
	)

	c.JSON(http.StatusOK, gin.H{"id": sess.ID})
}

func (cc *CheckoutController) respondError(c *gin.Context, err error) {
	cc.Logger.Warn("Checkout initiation failed", zap.Error(err))
	c.JSON(apperrors.StatusCode(err), gin.H{"error": errMessage(err)})
}

func errMessage(err error) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
