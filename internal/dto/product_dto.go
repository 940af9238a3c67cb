package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /api/products.
type ProductFilter struct {
	Category string `form:"category"`
	Search   string `form:"search"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// CreateProductRequest carries both JSON and multipart form bindings: the
// create endpoint accepts multipart when an image accompanies the product.
type CreateProductRequest struct {
	Name              string           `json:"name"                form:"name"                validate:"required"`
	Description       *string          `json:"description"         form:"description"`
	Category          string           `json:"category"            form:"category"            validate:"required"`
	Price             decimal.Decimal  `json:"price"               form:"price"               validate:"min=0"`
	Cost              *decimal.Decimal `json:"cost"                form:"cost"`
	StockQuantity     *int             `json:"stock_quantity"      form:"stock_quantity"      validate:"omitempty,min=0"`
	LowStockThreshold *int             `json:"low_stock_threshold" form:"low_stock_threshold" validate:"omitempty,min=0"`
	SKU               *string          `json:"sku"                 form:"sku"`
}

// UpdateProductRequest is a partial merge: nil fields are left untouched.
type UpdateProductRequest struct {
	Name              *string          `json:"name"                form:"name"`
	Description       *string          `json:"description"         form:"description"`
	Category          *string          `json:"category"            form:"category"`
	Price             *decimal.Decimal `json:"price"               form:"price"`
	Cost              *decimal.Decimal `json:"cost"                form:"cost"`
	LowStockThreshold *int             `json:"low_stock_threshold" form:"low_stock_threshold" validate:"omitempty,min=0"`
	SKU               *string          `json:"sku"                 form:"sku"`
}

type AdjustStockRequest struct {
	Quantity int    `json:"quantity" validate:"required"`
	Reason   string `json:"reason"   validate:"omitempty,oneof=purchase adjustment return"`
}

type ProductResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Description       *string         `json:"description"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	Cost              decimal.Decimal `json:"cost"`
	StockQuantity     int             `json:"stock_quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	ImagePath         *string         `json:"image_path"`
	SKU               *string         `json:"sku"`
	Active            bool            `json:"is_active"`
	StockStatus       string          `json:"stock_status"`
	CreatedAt         string          `json:"created_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type StockMovementResponse struct {
	ID             string  `json:"id"`
	ProductID      string  `json:"product_id"`
	QuantityChange int     `json:"quantity_change"`
	MovementType   string  `json:"movement_type"`
	ReferenceID    *string `json:"reference_id"`
	CreatedBy      *string `json:"created_by"`
	CreatedAt      string  `json:"created_at"`
}

// ProductDetailsResponse bundles a product with its movement history and
// derived figures for the product detail page.
type ProductDetailsResponse struct {
	Product        ProductResponse         `json:"product"`
	StockMovements []StockMovementResponse `json:"stock_movements"`
	ProfitMargin   decimal.Decimal         `json:"profit_margin"`
	StockStatus    string                  `json:"stock_status"`
}
