package services

import (
	"context"
	"errors"
	"time"

	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	apperrors "github.com/Phaham/BoogieBites/errors"
	"github.com/Phaham/BoogieBites/kafka"
	"github.com/Phaham/BoogieBites/models"
	"github.com/Phaham/BoogieBites/repository"
)

const fulfillmentTimeout = 30 * time.Second

// CheckoutGateway is the slice of the payment gateway the fulfillment
// engine needs. The gateway is authoritative for every amount.
type CheckoutGateway interface {
	RetrieveSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
	RetrieveProduct(ctx context.Context, productID string) (*stripe.Product, error)
}

type FulfillmentService struct {
	gateway CheckoutGateway
	orders  repository.OrderRepository
	users   repository.UserRepository
	events  kafka.OrderEventPublisher // optional
	logger  *zap.Logger
}

func NewFulfillmentService(gateway CheckoutGateway, orders repository.OrderRepository, users repository.UserRepository, events kafka.OrderEventPublisher, logger *zap.Logger) *FulfillmentService {
	return &FulfillmentService{
		gateway: gateway,
		orders:  orders,
		users:   users,
		events:  events,
		logger:  logger,
	}
}

// FulfillCheckout commits the line items of a completed checkout session to
// the purchaser's order. The completed event is only a trigger: session,
// line items and purchaser email are all re-fetched from the gateway.
// Processing the same session twice leaves the order unchanged.
func (s *FulfillmentService) FulfillCheckout(ctx context.Context, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, fulfillmentTimeout)
	defer cancel()

	sess, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		return err
	}

	if sess.LineItems == nil || len(sess.LineItems.Data) == 0 {
		return apperrors.Reconciliation("completed checkout session has no line items", nil)
	}

	lines := make([]models.OrderLine, 0, len(sess.LineItems.Data))
	var total int64
	for _, item := range sess.LineItems.Data {
		if item.Price == nil || item.Price.Product == nil {
			return apperrors.Reconciliation("checkout line item has no product reference", nil)
		}
		prod, err := s.gateway.RetrieveProduct(ctx, item.Price.Product.ID)
		if err != nil {
			return err
		}
		image := ""
		if len(prod.Images) > 0 {
			image = prod.Images[0]
		}
		lines = append(lines, models.OrderLine{
			Name:     item.Description,
			Image:    image,
			Price:    item.AmountTotal,
			Quantity: item.Quantity,
		})
		total += item.AmountTotal
	}

	email := purchaserEmail(sess)
	if email == "" {
		return apperrors.Reconciliation("checkout session has no purchaser email", nil)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return apperrors.Reconciliation("no account matches the purchaser email", err)
	}
	if err != nil {
		return apperrors.Persistence("failed to resolve purchaser", err)
	}

	orderID, err := s.orders.AppendFulfillment(ctx, user.ID, sess.ID, lines)
	if errors.Is(err, repository.ErrSessionAlreadyFulfilled) {
		s.logger.Info("Skipping redelivered checkout session",
			zap.String("session_id", sess.ID),
			zap.String("user_id", user.ID.String()),
		)
		return nil
	}
	if err != nil {
		return apperrors.Persistence("failed to commit order lines", err)
	}

	s.logger.Info("Checkout session fulfilled",
		zap.String("session_id", sess.ID),
		zap.String("order_id", orderID.String()),
		zap.Int("line_count", len(lines)),
		zap.Int64("amount", total),
	)

	if s.events != nil {
		event := models.OrderFulfilledEvent{
			Type:      "order_fulfilled",
			OrderID:   orderID.String(),
			UserID:    user.ID.String(),
			SessionID: sess.ID,
			Amount:    total,
			LineCount: len(lines),
			Timestamp: time.Now().UTC(),
		}
		if err := s.events.PublishOrderFulfilled(event); err != nil {
			// best-effort; never fail the webhook over a publish error
			s.logger.Warn("Failed to publish order fulfilled event",
				zap.String("session_id", sess.ID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// purchaserEmail returns the gateway-confirmed purchaser email. Customer
// details are preferred over the email submitted at session creation.
func purchaserEmail(sess *stripe.CheckoutSession) string {
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		return sess.CustomerDetails.Email
	}
	return sess.CustomerEmail
}
