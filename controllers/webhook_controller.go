package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	apperrors "github.com/Phaham/BoogieBites/errors"
	"github.com/Phaham/BoogieBites/services"
)

const maxWebhookBody = 1 << 16

// FulfillmentHandler processes a completed checkout session.
type FulfillmentHandler interface {
	FulfillCheckout(ctx context.Context, sessionID string) error
}

type WebhookController struct {
	Stripe      *services.StripeService
	Fulfillment FulfillmentHandler
	Logger      *zap.Logger
}

// HandleStripeWebhook authenticates and dispatches Stripe webhook events.
// A non-2xx response tells Stripe to redeliver later, so every retryable
// fulfillment failure propagates into the status code.
func (wc *WebhookController) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		wc.Logger.Warn("Failed to read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	// Verification runs on the raw bytes, before any JSON parsing.
	event, err := wc.Stripe.VerifyWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		wc.Logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook"})
		return
	}

	wc.Logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	switch event.Type {
	case "checkout.session.completed":
		wc.handleCheckoutCompleted(c, event)
	default:
		// Acknowledge unknown kinds so Stripe stops retrying them.
		wc.Logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{"status": "received"})
	}
}

func (wc *WebhookController) handleCheckoutCompleted(c *gin.Context, event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		wc.Logger.Error("Failed to unmarshal checkout session", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
		return
	}

	// Money has moved; once authenticated the fulfillment must not be cut
	// short by the caller hanging up. The engine carries its own timeout.
	ctx := context.WithoutCancel(c.Request.Context())
	if err := wc.Fulfillment.FulfillCheckout(ctx, sess.ID); err != nil {
		wc.Logger.Error("Checkout fulfillment failed",
			zap.String("session_id", sess.ID),
			zap.String("error_kind", string(apperrors.KindOf(err))),
			zap.Error(err),
		)
		c.JSON(apperrors.StatusCode(err), gin.H{"error": "fulfillment failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
