package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestProductStockStatus(t *testing.T) {
	cases := []struct {
		stock     int
		threshold int
		status    string
	}{
		{0, 10, "Out of stock"},
		{5, 10, "Low stock"},
		{10, 10, "Low stock"},
		{11, 10, "In stock"},
	}
	for _, tc := range cases {
		p := Product{StockQuantity: tc.stock, LowStockThreshold: tc.threshold}
		assert.Equal(t, tc.status, p.StockStatus(), "stock=%d threshold=%d", tc.stock, tc.threshold)
	}
}

func TestProductProfitMargin(t *testing.T) {
	p := Product{Price: d("6.00"), Cost: d("4.00")}
	assert.True(t, p.ProfitMargin().Equal(d("50")))

	// Zero cost must not divide by zero.
	free := Product{Price: d("6.00"), Cost: decimal.Zero}
	assert.True(t, free.ProfitMargin().IsZero())
}

func TestProductHasEnoughStock(t *testing.T) {
	p := Product{StockQuantity: 3}
	assert.True(t, p.HasEnoughStock(3))
	assert.False(t, p.HasEnoughStock(4))
}

func TestCustomerAveragePurchaseValue(t *testing.T) {
	c := Customer{TotalPurchases: d("90.00"), VisitCount: 3}
	assert.True(t, c.AveragePurchaseValue().Equal(d("30")))

	fresh := Customer{}
	assert.True(t, fresh.AveragePurchaseValue().IsZero())
}

func TestSaleIsWalkIn(t *testing.T) {
	assert.True(t, (&Sale{}).IsWalkIn())
}
