package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleCompleted is the only status written today; the column exists so a
// future void/refund flow does not need a migration.
const SaleCompleted = "completed"

// Sale is an append-only ledger row: created atomically with its items and
// never updated or deleted through any exposed operation.
type Sale struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber  string     `gorm:"uniqueIndex;not null"`
	CustomerID     *uuid.UUID `gorm:"type:uuid;index"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod  string          `gorm:"not null;default:'cash'"`
	Status         string          `gorm:"not null;default:'completed'"`
	CreatedAt      time.Time       `gorm:"index"`

	Items    []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Customer *Customer  `gorm:"foreignKey:CustomerID"`
	User     *User      `gorm:"foreignKey:UserID"`
}

// IsWalkIn reports whether the sale has no associated customer.
func (s *Sale) IsWalkIn() bool { return s.CustomerID == nil }

// SaleItem snapshots the product name at time of sale; renaming the product
// later does not rewrite history.
type SaleItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductName string    `gorm:"not null"`
	Quantity    int       `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
}
