package service

import (
	"context"
	"testing"

	"retailpos/internal/apperr"
	"retailpos/internal/dto"
	"retailpos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	svc       ProductService
	products  *stubProductRepo
	movements *stubMovementRepo
	images    *stubImageStore
}

func newProductFixture(products ...*model.Product) *productFixture {
	f := &productFixture{
		products:  newStubProductRepo(products...),
		movements: &stubMovementRepo{},
		images:    &stubImageStore{},
	}
	f.svc = NewProductService(f.products, f.movements, f.images)
	return f
}

func TestCreateProductDefaults(t *testing.T) {
	f := newProductFixture()

	resp, err := f.svc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Latte",
		Category: "Beverages",
		Price:    dec("4.50"),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, resp.StockQuantity)
	assert.Equal(t, 10, resp.LowStockThreshold)
	assert.True(t, resp.Active)
	assert.Equal(t, "Out of stock", resp.StockStatus)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	f := newProductFixture()
	_, err := f.svc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Bad",
		Category: "Food",
		Price:    dec("-1"),
	}, nil)
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestDeleteProductWithSalesRejected(t *testing.T) {
	p := &model.Product{Name: "Scone", Category: "Desserts", Price: dec("3.00"), StockQuantity: 5}
	f := newProductFixture(p)
	f.movements.movements = append(f.movements.movements, model.StockMovement{
		ProductID:      p.ID,
		QuantityChange: -1,
		MovementType:   model.MovementSale,
	})

	err := f.svc.Delete(context.Background(), p.ID)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))

	_, err = f.products.FindByID(context.Background(), p.ID)
	assert.NoError(t, err, "product must survive the rejected delete")
}

func TestDeleteProductRemovesImage(t *testing.T) {
	img := "/uploads/scone.png"
	p := &model.Product{Name: "Scone", Category: "Desserts", Price: dec("3.00"), ImagePath: &img}
	f := newProductFixture(p)

	require.NoError(t, f.svc.Delete(context.Background(), p.ID))
	assert.Equal(t, []string{img}, f.images.deleted)
}

func TestAdjustStockAppendsMovement(t *testing.T) {
	p := &model.Product{Name: "Beans", Category: "Food", Price: dec("8.00"), StockQuantity: 4, LowStockThreshold: 2}
	f := newProductFixture(p)
	userID := uuid.New()

	resp, err := f.svc.AdjustStock(context.Background(), p.ID, userID, dto.AdjustStockRequest{
		Quantity: 20,
		Reason:   model.MovementPurchase,
	})
	require.NoError(t, err)
	assert.Equal(t, 24, resp.StockQuantity)

	require.Len(t, f.movements.movements, 1)
	mov := f.movements.movements[0]
	assert.Equal(t, 20, mov.QuantityChange)
	assert.Equal(t, model.MovementPurchase, mov.MovementType)
	require.NotNil(t, mov.CreatedBy)
	assert.Equal(t, userID, *mov.CreatedBy)
}

func TestAdjustStockBelowZeroRejected(t *testing.T) {
	p := &model.Product{Name: "Beans", Category: "Food", Price: dec("8.00"), StockQuantity: 4}
	f := newProductFixture(p)

	_, err := f.svc.AdjustStock(context.Background(), p.ID, uuid.New(), dto.AdjustStockRequest{Quantity: -5})
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
	assert.Equal(t, 4, p.StockQuantity)
	assert.Empty(t, f.movements.movements)
}

func TestAdjustStockZeroRejected(t *testing.T) {
	p := &model.Product{Name: "Beans", Category: "Food", Price: dec("8.00"), StockQuantity: 4}
	f := newProductFixture(p)

	_, err := f.svc.AdjustStock(context.Background(), p.ID, uuid.New(), dto.AdjustStockRequest{Quantity: 0})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestGetProductDetailsIncludesMargin(t *testing.T) {
	p := &model.Product{Name: "Wrap", Category: "Food", Price: dec("6.00"), Cost: dec("4.00"), StockQuantity: 3, LowStockThreshold: 5}
	f := newProductFixture(p)

	resp, err := f.svc.GetDetails(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, resp.ProfitMargin.Equal(dec("50")), "margin = %s", resp.ProfitMargin)
	assert.Equal(t, "Low stock", resp.StockStatus)
}

func TestGetProductNotFound(t *testing.T) {
	f := newProductFixture()
	_, err := f.svc.Get(context.Background(), uuid.New())
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}
