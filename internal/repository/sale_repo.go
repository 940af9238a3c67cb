package repository

import (
	"context"

	"retailpos/internal/dto"
	"retailpos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepository interface {
	// CreateTx inserts the sale and its items in one statement batch.
	// Callers must pass the live transaction.
	CreateTx(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	// NextInvoiceNumber draws from a Postgres sequence: collision-free by
	// construction, unlike timestamp+random schemes.
	NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int64, error)

	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Sale, error)
	FindByDateRange(ctx context.Context, startDate, endDate string) ([]model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	Recent(ctx context.Context, limit int) ([]model.Sale, error)
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)

	// Read-side aggregates over completed sales in a YYYY-MM-DD date range.
	SalesCount(ctx context.Context, startDate, endDate string) (int64, error)
	SalesTotal(ctx context.Context, startDate, endDate string) (decimal.Decimal, error)
	TaxTotal(ctx context.Context, startDate, endDate string) (decimal.Decimal, error)
	AverageSale(ctx context.Context, startDate, endDate string) (decimal.Decimal, error)

	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) CreateTx(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) NextInvoiceNumber(ctx context.Context, tx *gorm.DB) (int64, error) {
	var num int64
	err := tx.WithContext(ctx).Raw("SELECT nextval('sales_invoice_seq')").Scan(&num).Error
	return num, err
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByDateRange(ctx context.Context, startDate, endDate string) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("DATE(created_at) BETWEEN ? AND ?", startDate, endDate).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if filter.StartDate != "" && filter.EndDate != "" {
		q = q.Where("DATE(created_at) BETWEEN ? AND ?", filter.StartDate, filter.EndDate)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error
	return sales, total, err
}

func (r *saleRepo) Recent(ctx context.Context, limit int) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("customer_id = ?", customerID).
		Count(&total).Error
	return total, err
}

func (r *saleRepo) SalesCount(ctx context.Context, startDate, endDate string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("status = 'completed' AND DATE(created_at) BETWEEN ? AND ?", startDate, endDate).
		Count(&total).Error
	return total, err
}

func (r *saleRepo) SalesTotal(ctx context.Context, startDate, endDate string) (decimal.Decimal, error) {
	return r.sum(ctx, "COALESCE(SUM(total_amount), 0)", startDate, endDate)
}

func (r *saleRepo) TaxTotal(ctx context.Context, startDate, endDate string) (decimal.Decimal, error) {
	return r.sum(ctx, "COALESCE(SUM(tax_amount), 0)", startDate, endDate)
}

func (r *saleRepo) AverageSale(ctx context.Context, startDate, endDate string) (decimal.Decimal, error) {
	return r.sum(ctx, "COALESCE(AVG(total_amount), 0)", startDate, endDate)
}

func (r *saleRepo) sum(ctx context.Context, expr, startDate, endDate string) (decimal.Decimal, error) {
	var out decimal.Decimal
	row := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(expr).
		Where("status = 'completed' AND DATE(created_at) BETWEEN ? AND ?", startDate, endDate).
		Row()
	if err := row.Scan(&out); err != nil {
		return decimal.Zero, err
	}
	return out, nil
}
