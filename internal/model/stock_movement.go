package model

import (
	"time"

	"github.com/google/uuid"
)

// Stock movement types.
const (
	MovementPurchase   = "purchase"
	MovementSale       = "sale"
	MovementAdjustment = "adjustment"
	MovementReturn     = "return"
)

// StockMovement is an append-only ledger row recording every change to a
// product's stock quantity. Invariant: the sum of all movements for a
// product, applied to its initial stock, equals its current stock_quantity.
type StockMovement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index"`
	QuantityChange int       `gorm:"not null"` // positive = in, negative = out
	MovementType   string    `gorm:"not null;index"`
	ReferenceID    *uuid.UUID `gorm:"type:uuid"` // sale id when MovementType == "sale"
	CreatedBy      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
