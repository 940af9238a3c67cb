package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"retailpos/internal/apperr"
	"retailpos/internal/dto"
	"retailpos/internal/model"
	"retailpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReceiptStore renders a sale to a printable file and returns its path.
type ReceiptStore interface {
	Generate(sale *model.Sale) (string, error)
}

type SalesService interface {
	CreateSale(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	GetTodaySales(ctx context.Context) ([]dto.SaleResponse, error)
	GetCustomerSales(ctx context.Context, customerID uuid.UUID) ([]dto.SaleResponse, error)
	GetReceipt(ctx context.Context, id uuid.UUID) (string, error)
}

type salesService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	movementRepo repository.StockMovementRepository
	receipts     ReceiptStore
}

func NewSalesService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	movementRepo repository.StockMovementRepository,
	receipts ReceiptStore,
) SalesService {
	return &salesService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		movementRepo: movementRepo,
		receipts:     receipts,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// CreateSale records a sale as one atomic unit:
//
//  1. Structural validation of the whole cart before touching storage.
//  2. Inside a transaction: each product is re-read with a row lock and its
//     stock checked; the first insufficiency aborts with nothing written.
//  3. Totals: subtotal = Σ(qty × unit_price), tax = subtotal × rate/100,
//     total = subtotal + tax − discount (discount capped at subtotal + tax).
//  4. Invoice number from the sales_invoice_seq sequence, INV-prefixed.
//  5. Sale + items inserted, stock decremented (guarded ≥ 0), one movement
//     ledger row per item referencing the sale.
//  6. Customer aggregates incremented in the same transaction when present.
//
// Two concurrent sales against the same product serialize on the row lock:
// either both succeed against sufficient combined stock, or the later one
// fails with an insufficient-stock error and rolls back entirely.
func (s *salesService) CreateSale(ctx context.Context, userID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if userID == uuid.Nil {
		return nil, apperr.Validationf("user ID is required")
	}
	if len(req.Items) == 0 {
		return nil, apperr.Validationf("sale must contain at least one item")
	}
	if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return nil, apperr.Validationf("tax rate must be between 0 and 100")
	}
	if req.DiscountAmount.IsNegative() {
		return nil, apperr.Validationf("discount amount cannot be negative")
	}

	type cartLine struct {
		productID uuid.UUID
		quantity  int
		unitPrice decimal.Decimal
	}
	lines := make([]cartLine, 0, len(req.Items))
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apperr.Validationf("invalid product_id %q", item.ProductID)
		}
		if item.Quantity <= 0 {
			return nil, apperr.Validationf("item quantity must be greater than 0")
		}
		if item.UnitPrice.IsNegative() {
			return nil, apperr.Validationf("item unit price cannot be negative")
		}
		lines = append(lines, cartLine{productID: pid, quantity: item.Quantity, unitPrice: item.UnitPrice})
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil && *req.CustomerID != "" {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, apperr.Validationf("invalid customer_id %q", *req.CustomerID)
		}
		customerID = &cid
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	var sale model.Sale
	txErr := runTx(ctx, s.saleRepo.DB(), func(tx *gorm.DB) error {
		if customerID != nil {
			if _, err := s.customerRepo.FindByID(ctx, *customerID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFoundf("customer %s not found", customerID)
				}
				return err
			}
		}

		// Fresh locked read per line item; abort on the first insufficiency
		// before any row is written.
		type resolvedLine struct {
			cartLine
			productName string
			lineTotal   decimal.Decimal
		}
		resolved := make([]resolvedLine, 0, len(lines))
		subtotal := decimal.Zero
		for _, line := range lines {
			p, err := s.productRepo.FindByIDForUpdateTx(tx, line.productID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFoundf("product %s not found", line.productID)
				}
				return err
			}
			if !p.HasEnoughStock(line.quantity) {
				return apperr.InsufficientStockErr(p.Name, p.StockQuantity)
			}
			lineTotal := line.unitPrice.Mul(decimal.NewFromInt(int64(line.quantity)))
			subtotal = subtotal.Add(lineTotal)
			resolved = append(resolved, resolvedLine{cartLine: line, productName: p.Name, lineTotal: lineTotal})
		}

		taxAmount := subtotal.Mul(req.TaxRate).Div(decimal.NewFromInt(100)).Round(2)

		// Discount is capped at subtotal+tax so total_amount never goes negative.
		discount := req.DiscountAmount
		if gross := subtotal.Add(taxAmount); discount.GreaterThan(gross) {
			discount = gross
		}
		totalAmount := subtotal.Add(taxAmount).Sub(discount)

		invoiceSeq, err := s.saleRepo.NextInvoiceNumber(ctx, tx)
		if err != nil {
			return err
		}

		sale = model.Sale{
			InvoiceNumber:  fmt.Sprintf("INV-%06d", invoiceSeq),
			CustomerID:     customerID,
			UserID:         userID,
			Subtotal:       subtotal,
			TaxAmount:      taxAmount,
			DiscountAmount: discount,
			TotalAmount:    totalAmount,
			PaymentMethod:  paymentMethod,
			Status:         model.SaleCompleted,
		}
		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID:   r.productID,
				ProductName: r.productName,
				Quantity:    r.quantity,
				UnitPrice:   r.unitPrice,
				TotalPrice:  r.lineTotal,
			})
		}

		if err := s.saleRepo.CreateTx(ctx, tx, &sale); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflictf("invoice number %s already exists", sale.InvoiceNumber)
			}
			return err
		}

		for _, r := range resolved {
			// Guarded decrement: the row lock above already serializes
			// concurrent sales, the stock_quantity >= 0 guard is the
			// last-resort backstop.
			if err := s.productRepo.AdjustStockTx(tx, r.productID, -r.quantity); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Duplicate lines for one product can exhaust stock after
					// the locked reads passed; re-read under the same lock so
					// the error carries what is actually left.
					available := 0
					if p, rerr := s.productRepo.FindByIDForUpdateTx(tx, r.productID); rerr == nil {
						available = p.StockQuantity
					}
					return apperr.InsufficientStockErr(r.productName, available)
				}
				return fmt.Errorf("decrement stock for %s: %w", r.productName, err)
			}

			saleRef := sale.ID
			createdBy := userID
			mov := &model.StockMovement{
				ProductID:      r.productID,
				QuantityChange: -r.quantity,
				MovementType:   model.MovementSale,
				ReferenceID:    &saleRef,
				CreatedBy:      &createdBy,
			}
			if err := s.movementRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		if customerID != nil {
			if err := s.customerRepo.RecordPurchaseTx(tx, *customerID, totalAmount); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return saleToResponse(&sale), nil
}

func (s *salesService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("sale %s not found", id)
		}
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *salesService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	sales, total, err := s.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *salesService) GetTodaySales(ctx context.Context) ([]dto.SaleResponse, error) {
	today := time.Now().Format("2006-01-02")
	sales, err := s.saleRepo.FindByDateRange(ctx, today, today)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, *saleToResponse(&sales[i]))
	}
	return out, nil
}

func (s *salesService) GetCustomerSales(ctx context.Context, customerID uuid.UUID) ([]dto.SaleResponse, error) {
	sales, err := s.saleRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, *saleToResponse(&sales[i]))
	}
	return out, nil
}

// GetReceipt renders the sale as a PDF and returns the file path.
func (s *salesService) GetReceipt(ctx context.Context, id uuid.UUID) (string, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperr.NotFoundf("sale %s not found", id)
		}
		return "", err
	}
	return s.receipts.Generate(sale)
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}
	var customerID *string
	if s.CustomerID != nil {
		cid := s.CustomerID.String()
		customerID = &cid
	}
	return &dto.SaleResponse{
		ID:             s.ID.String(),
		InvoiceNumber:  s.InvoiceNumber,
		CustomerID:     customerID,
		UserID:         s.UserID.String(),
		Subtotal:       s.Subtotal,
		TaxAmount:      s.TaxAmount,
		DiscountAmount: s.DiscountAmount,
		TotalAmount:    s.TotalAmount,
		PaymentMethod:  s.PaymentMethod,
		Status:         s.Status,
		Items:          items,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
}
