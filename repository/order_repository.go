package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Phaham/BoogieBites/models"
)

// ErrSessionAlreadyFulfilled signals that the checkout session was applied
// to an order by an earlier delivery. Callers treat it as success.
var ErrSessionAlreadyFulfilled = errors.New("checkout session already fulfilled")

// ErrOrderNotFound signals that the user has no order aggregate yet.
var ErrOrderNotFound = errors.New("order not found")

type OrderRepository interface {
	// AppendFulfillment atomically finds or creates the user's order,
	// records the session as fulfilled and appends the lines. Returns the
	// order id, or ErrSessionAlreadyFulfilled for a duplicate session.
	AppendFulfillment(ctx context.Context, userID uuid.UUID, sessionID string, lines []models.OrderLine) (uuid.UUID, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Order, error)
}

type gormOrderRepo struct {
	db *gorm.DB
}

func NewGormOrderRepo(db *gorm.DB) OrderRepository {
	return &gormOrderRepo{db: db}
}

func (r *gormOrderRepo) AppendFulfillment(ctx context.Context, userID uuid.UUID, sessionID string, lines []models.OrderLine) (uuid.UUID, error) {
	var orderID uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Create the order if the user has none. On conflict the existing
		// row wins and is re-read under a row lock, which serializes
		// concurrent fulfillments for the same user.
		candidate := models.Order{ID: uuid.New(), UserID: userID, Paid: true}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).Create(&candidate).Error; err != nil {
			return err
		}

		// Re-read into a fresh value so the lookup is keyed by user alone,
		// not by the candidate id a lost conflict leaves behind.
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&order).Error; err != nil {
			return err
		}

		// The unique session id is the idempotency guard. Inserting it
		// inside the same transaction means lines can never be appended
		// twice for one session.
		record := models.FulfilledSession{SessionID: sessionID, OrderID: order.ID, UserID: userID}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSessionAlreadyFulfilled
			}
			return err
		}

		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return orderID, nil
}

func (r *gormOrderRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}
