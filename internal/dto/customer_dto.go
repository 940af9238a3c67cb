package dto

import "github.com/shopspring/decimal"

type CreateCustomerRequest struct {
	Name    string  `json:"name" validate:"required"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateCustomerRequest deliberately has no aggregate fields: total_purchases
// and visit_count are only mutated by the sale-creation transaction.
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type CustomerResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          *string         `json:"email"`
	Phone          *string         `json:"phone"`
	Address        *string         `json:"address"`
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	VisitCount     int             `json:"visit_count"`
	LoyaltyTier    string          `json:"loyalty_tier"`
	CreatedAt      string          `json:"created_at"`
}

type CustomerHistoryResponse struct {
	Customer       CustomerResponse `json:"customer"`
	Sales          []SaleResponse   `json:"sales"`
	TotalPurchases decimal.Decimal  `json:"total_purchases"`
	VisitCount     int              `json:"visit_count"`
	LoyaltyTier    string           `json:"loyalty_tier"`
}
