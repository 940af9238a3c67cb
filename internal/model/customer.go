package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer aggregates (TotalPurchases, VisitCount) are derived from the sale
// ledger and only written inside the sale-creation transaction — never
// through the customer-update endpoint.
type Customer struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name           string    `gorm:"index;not null"`
	Email          *string
	Phone          *string
	Address        *string
	TotalPurchases decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	VisitCount     int             `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LoyaltyTier derives the loyalty label from the cumulative visit count.
// Boundaries: 0 → New, 1-2 → Regular, 3-9 → Loyal, 10+ → VIP.
func (c *Customer) LoyaltyTier() string {
	switch {
	case c.VisitCount == 0:
		return "New"
	case c.VisitCount < 3:
		return "Regular"
	case c.VisitCount < 10:
		return "Loyal"
	default:
		return "VIP"
	}
}

func (c *Customer) AveragePurchaseValue() decimal.Decimal {
	if c.VisitCount == 0 {
		return decimal.Zero
	}
	return c.TotalPurchases.Div(decimal.NewFromInt(int64(c.VisitCount)))
}

func (c *Customer) IsFrequent() bool { return c.VisitCount > 5 }

func (c *Customer) HasContactInfo() bool { return c.Email != nil || c.Phone != nil }
