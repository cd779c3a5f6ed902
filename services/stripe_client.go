package services

import (
	"context"
	"errors"
	"time"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"
	"github.com/stripe/stripe-go/v80/webhook"

	apperrors "github.com/Phaham/BoogieBites/errors"
	"github.com/Phaham/BoogieBites/models"
)

// webhookTolerance is the allowed signature timestamp skew. Signed payloads
// older than this are rejected even with a valid hash.
const webhookTolerance = 5 * time.Minute

type StripeService struct {
	api        *client.API
	webhookKey string
	currency   string
}

func NewStripeService(secretKey, webhookKey string) *StripeService {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeService{api: api, webhookKey: webhookKey, currency: "usd"}
}

// CreateCheckoutSession opens a card-only, single-payment checkout session
// for the normalized lines. The redirect URLs carry the
// {CHECKOUT_SESSION_ID} placeholder Stripe substitutes.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, lines []models.CheckoutLine, customerEmail, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines))
	for _, line := range lines {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(s.currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:   stripe.String(line.Name),
					Images: stripe.StringSlice([]string{line.Image}),
				},
				UnitAmount: stripe.Int64(line.UnitAmount),
			},
			Quantity: stripe.Int64(line.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:      stripe.String(customerEmail),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(cancelURL),
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, wrapStripeErr("failed to create checkout session", err)
	}
	return sess, nil
}

// RetrieveSession re-fetches the full session with line items expanded.
// Fulfillment always reads amounts from here, never from the event payload.
func (s *StripeService) RetrieveSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{Params: stripe.Params{Context: ctx}}
	params.AddExpand("line_items")

	sess, err := s.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, wrapStripeErr("failed to retrieve checkout session", err)
	}
	return sess, nil
}

func (s *StripeService) RetrieveProduct(ctx context.Context, productID string) (*stripe.Product, error) {
	params := &stripe.ProductParams{Params: stripe.Params{Context: ctx}}
	prod, err := s.api.Products.Get(productID, params)
	if err != nil {
		return nil, wrapStripeErr("failed to retrieve product", err)
	}
	return prod, nil
}

// VerifyWebhook authenticates a raw webhook payload against its signature
// header. It must run on the exact bytes received, before any JSON parsing.
func (s *StripeService) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEventWithTolerance(payload, sigHeader, s.webhookKey, webhookTolerance)
	if err != nil {
		return stripe.Event{}, apperrors.Authentication("webhook signature verification failed", err)
	}
	return event, nil
}

func wrapStripeErr(message string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeInvalidRequest {
		return apperrors.GatewayRejected(message, err)
	}
	return apperrors.GatewayUnavailable(message, err)
}
