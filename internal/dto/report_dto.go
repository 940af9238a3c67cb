package dto

import "github.com/shopspring/decimal"

// ReportFilter is bound from the query string of the report endpoints.
// Dates are YYYY-MM-DD; both default to today when absent.
type ReportFilter struct {
	StartDate string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date"   validate:"omitempty,datetime=2006-01-02"`
	Limit     int    `form:"limit,default=10" validate:"min=1,max=100"`
}

type SalesSummaryResponse struct {
	TotalSales    int64           `json:"total_sales"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalTax      decimal.Decimal `json:"total_tax"`
	AvgSaleAmount decimal.Decimal `json:"avg_sale_amount"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
}

type TopProductResponse struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int             `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TimesSold     int             `json:"times_sold"`
}

type PeriodBucketResponse struct {
	Date    string          `json:"date"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
	Tax     decimal.Decimal `json:"tax"`
}

type DashboardResponse struct {
	Today struct {
		Sales   int64           `json:"sales"`
		Revenue decimal.Decimal `json:"revenue"`
	} `json:"today"`
	Month struct {
		Revenue decimal.Decimal `json:"revenue"`
	} `json:"month"`
	LowStockCount  int            `json:"low_stock_count"`
	TotalCustomers int64          `json:"total_customers"`
	TotalProducts  int64          `json:"total_products"`
	RecentSales    []SaleResponse `json:"recent_sales"`
	Timestamp      string         `json:"timestamp"`
}
