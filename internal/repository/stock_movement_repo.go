package repository

import (
	"context"

	"retailpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockMovementRepository interface {
	Create(ctx context.Context, m *model.StockMovement) error
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error)
	// HasSaleMovement reports whether the product ever appeared in a sale —
	// such products must not be deleted.
	HasSaleMovement(ctx context.Context, productID uuid.UUID) (bool, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) Create(ctx context.Context, m *model.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockMovementRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) HasSaleMovement(ctx context.Context, productID uuid.UUID) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Where("product_id = ? AND movement_type = ?", productID, model.MovementSale).
		Count(&total).Error
	return total > 0, err
}
