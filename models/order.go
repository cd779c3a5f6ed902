package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is the per-user aggregate accumulating every fulfilled purchase.
// There is exactly one order row per user; fulfillments append lines to it.
type Order struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Paid      bool        `gorm:"not null;default:true" json:"paid"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"-"`
	Items     []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderLine is immutable once appended. Price is the line total in the
// smallest currency unit, as reported by the payment gateway.
type OrderLine struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	Name      string    `gorm:"not null" json:"name"`
	Image     string    `json:"image"`
	Price     int64     `gorm:"not null" json:"price"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

// FulfilledSession records a checkout session that has already been applied
// to an order. The unique session id is what makes fulfillment idempotent
// under redelivered webhooks.
type FulfilledSession struct {
	SessionID string    `gorm:"primaryKey;size:255"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// User is owned by the user service; this service only reads it to resolve
// a purchaser by their account email.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

// Migrate function for auto migration
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Order{}, &OrderLine{}, &FulfilledSession{})
}
