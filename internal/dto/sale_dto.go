package dto

import "github.com/shopspring/decimal"

type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity"   validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"min=0"`
}

// CreateSaleRequest is the sale-creation payload. TaxRate is supplied by the
// caller (sourced from settings at the edge), not re-fetched by the service.
type CreateSaleRequest struct {
	CustomerID     *string           `json:"customer_id"     validate:"omitempty,uuid"`
	Items          []SaleItemRequest `json:"items"           validate:"required,min=1,dive"`
	TaxRate        decimal.Decimal   `json:"tax_rate"        validate:"min=0,max=100"`
	DiscountAmount decimal.Decimal   `json:"discount_amount" validate:"min=0"`
	PaymentMethod  string            `json:"payment_method"  validate:"omitempty,oneof=cash card transfer other"`
}

// SaleFilter is bound from the query string of GET /api/sales.
type SaleFilter struct {
	StartDate  string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `form:"end_date"   validate:"omitempty,datetime=2006-01-02"`
	CustomerID string `form:"customer_id" validate:"omitempty,uuid"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type SaleResponse struct {
	ID             string             `json:"id"`
	InvoiceNumber  string             `json:"invoice_number"`
	CustomerID     *string            `json:"customer_id"`
	UserID         string             `json:"user_id"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	TaxAmount      decimal.Decimal    `json:"tax_amount"`
	DiscountAmount decimal.Decimal    `json:"discount_amount"`
	TotalAmount    decimal.Decimal    `json:"total_amount"`
	PaymentMethod  string             `json:"payment_method"`
	Status         string             `json:"status"`
	Items          []SaleItemResponse `json:"items"`
	CreatedAt      string             `json:"created_at"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
