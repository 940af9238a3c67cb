package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents an inventory item. StockQuantity is only ever mutated
// through sale creation and stock adjustments, both of which append a
// StockMovement row in the same transaction.
type Product struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name              string    `gorm:"index;not null"`
	Description       *string
	Category          string          `gorm:"index;not null"`
	Price             decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Cost              decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	StockQuantity     int             `gorm:"not null;default:0"`
	LowStockThreshold int             `gorm:"not null;default:10"`
	ImagePath         *string
	SKU               *string `gorm:"column:sku;uniqueIndex"`
	Active            bool    `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (p *Product) IsInStock() bool { return p.StockQuantity > 0 }

func (p *Product) IsLowStock() bool { return p.StockQuantity <= p.LowStockThreshold }

func (p *Product) HasEnoughStock(quantity int) bool { return p.StockQuantity >= quantity }

// ProfitMargin returns (price-cost)/cost*100, or 0 when cost is zero.
func (p *Product) ProfitMargin() decimal.Decimal {
	if p.Cost.IsZero() {
		return decimal.Zero
	}
	return p.Price.Sub(p.Cost).Div(p.Cost).Mul(decimal.NewFromInt(100))
}

func (p *Product) StockStatus() string {
	switch {
	case !p.IsInStock():
		return "Out of stock"
	case p.IsLowStock():
		return "Low stock"
	default:
		return "In stock"
	}
}
