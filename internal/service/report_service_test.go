package service

import (
	"context"
	"testing"
	"time"

	"retailpos/internal/apperr"
	"retailpos/internal/dto"
	"retailpos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportFixture struct {
	svc       ReportService
	sales     *stubSaleRepo
	products  *stubProductRepo
	customers *stubCustomerRepo
}

func newReportFixture() *reportFixture {
	f := &reportFixture{
		sales:     newStubSaleRepo(),
		products:  newStubProductRepo(),
		customers: newStubCustomerRepo(),
	}
	f.svc = NewReportService(f.sales, f.products, f.customers, nil)
	return f
}

func TestSalesSummaryUsesAggregates(t *testing.T) {
	f := newReportFixture()
	f.sales.count = 3
	f.sales.total = dec("45.00")
	f.sales.tax = dec("4.50")
	f.sales.average = dec("15.00")

	resp, err := f.svc.SalesSummary(context.Background(), dto.ReportFilter{
		StartDate: "2026-08-01", EndDate: "2026-08-28",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.TotalSales)
	assert.True(t, resp.TotalRevenue.Equal(dec("45.00")))
	assert.True(t, resp.TotalTax.Equal(dec("4.50")))
	assert.True(t, resp.AvgSaleAmount.Equal(dec("15.00")))
}

func TestSalesSummaryRejectsBadDates(t *testing.T) {
	f := newReportFixture()
	_, err := f.svc.SalesSummary(context.Background(), dto.ReportFilter{StartDate: "28-08-2026"})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestTopProductsRanksByQuantity(t *testing.T) {
	f := newReportFixture()
	espressoID, muffinID := uuid.New(), uuid.New()

	require.NoError(t, f.sales.CreateTx(context.Background(), nil, &model.Sale{
		Status:    model.SaleCompleted,
		CreatedAt: time.Now(),
		Items: []model.SaleItem{
			{ProductID: espressoID, ProductName: "Espresso", Quantity: 5, TotalPrice: dec("17.50")},
			{ProductID: muffinID, ProductName: "Muffin", Quantity: 2, TotalPrice: dec("4.00")},
		},
	}))
	require.NoError(t, f.sales.CreateTx(context.Background(), nil, &model.Sale{
		Status:    model.SaleCompleted,
		CreatedAt: time.Now(),
		Items: []model.SaleItem{
			{ProductID: espressoID, ProductName: "Espresso", Quantity: 3, TotalPrice: dec("10.50")},
		},
	}))

	resp, err := f.svc.TopProducts(context.Background(), dto.ReportFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, resp, 2)
	assert.Equal(t, "Espresso", resp[0].ProductName)
	assert.Equal(t, 8, resp[0].TotalQuantity)
	assert.True(t, resp[0].TotalRevenue.Equal(dec("28.00")))
	assert.Equal(t, 2, resp[0].TimesSold)
	assert.Equal(t, "Muffin", resp[1].ProductName)
}

func TestSalesByPeriodFillsEmptyDays(t *testing.T) {
	f := newReportFixture()
	today := time.Now()
	require.NoError(t, f.sales.CreateTx(context.Background(), nil, &model.Sale{
		Status:      model.SaleCompleted,
		CreatedAt:   today,
		TotalAmount: dec("12.00"),
		TaxAmount:   dec("1.20"),
	}))

	start := today.AddDate(0, 0, -2).Format("2006-01-02")
	end := today.Format("2006-01-02")
	resp, err := f.svc.SalesByPeriod(context.Background(), dto.ReportFilter{StartDate: start, EndDate: end})
	require.NoError(t, err)
	require.Len(t, resp, 3)

	assert.Equal(t, 0, resp[0].Count)
	assert.True(t, resp[0].Revenue.IsZero())
	assert.Equal(t, 1, resp[2].Count)
	assert.True(t, resp[2].Revenue.Equal(dec("12.00")))
}

func TestSalesByPeriodRejectsReversedRange(t *testing.T) {
	f := newReportFixture()
	_, err := f.svc.SalesByPeriod(context.Background(), dto.ReportFilter{
		StartDate: "2026-08-28", EndDate: "2026-08-01",
	})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestDashboardCounts(t *testing.T) {
	f := newReportFixture()
	f.sales.count = 2
	f.sales.total = dec("30.00")

	require.NoError(t, f.products.Create(context.Background(), &model.Product{
		Name: "Low", Category: "Food", Price: dec("1.00"), StockQuantity: 1, LowStockThreshold: 5,
	}))
	require.NoError(t, f.customers.Create(context.Background(), &model.Customer{Name: "Dana"}))

	resp, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Today.Sales)
	assert.True(t, resp.Today.Revenue.Equal(dec("30.00")))
	assert.Equal(t, 1, resp.LowStockCount)
	assert.Equal(t, int64(1), resp.TotalProducts)
	assert.Equal(t, int64(1), resp.TotalCustomers)
}
