package service

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"retailpos/internal/apperr"
	"retailpos/internal/dto"
	"retailpos/internal/model"
	"retailpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ImageStore abstracts product image persistence so the service can be unit
// tested without a filesystem.
type ImageStore interface {
	Save(file *multipart.FileHeader) (string, error)
	Delete(relPath string) bool
}

type ProductService interface {
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	GetDetails(ctx context.Context, id uuid.UUID) (*dto.ProductDetailsResponse, error)
	Create(ctx context.Context, req dto.CreateProductRequest, image *multipart.FileHeader) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest, image *multipart.FileHeader) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	LowStock(ctx context.Context) ([]dto.ProductResponse, error)
	AdjustStock(ctx context.Context, id uuid.UUID, userID uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
	Search(ctx context.Context, query string) ([]dto.ProductResponse, error)
	Categories(ctx context.Context) ([]string, error)
}

type productService struct {
	repo         repository.ProductRepository
	movementRepo repository.StockMovementRepository
	images       ImageStore
}

func NewProductService(repo repository.ProductRepository, movementRepo repository.StockMovementRepository, images ImageStore) ProductService {
	return &productService{repo: repo, movementRepo: movementRepo, images: images}
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) GetDetails(ctx context.Context, id uuid.UUID) (*dto.ProductDetailsResponse, error) {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	movs := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		movs = append(movs, movementToResponse(&m))
	}
	return &dto.ProductDetailsResponse{
		Product:        *productToResponse(p),
		StockMovements: movs,
		ProfitMargin:   p.ProfitMargin().Round(2),
		StockStatus:    p.StockStatus(),
	}, nil
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest, image *multipart.FileHeader) (*dto.ProductResponse, error) {
	if req.Name == "" || req.Category == "" {
		return nil, apperr.Validationf("name and category are required")
	}
	if req.Price.IsNegative() {
		return nil, apperr.Validationf("price cannot be negative")
	}
	cost := decimal.Zero
	if req.Cost != nil {
		if req.Cost.IsNegative() {
			return nil, apperr.Validationf("cost cannot be negative")
		}
		cost = *req.Cost
	}

	var imagePath *string
	if image != nil {
		path, err := s.images.Save(image)
		if err != nil {
			return nil, apperr.Wrap(apperr.Validation, "invalid image", err)
		}
		imagePath = &path
	}

	p := &model.Product{
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		Price:             req.Price,
		Cost:              cost,
		StockQuantity:     0,
		LowStockThreshold: 10,
		ImagePath:         imagePath,
		SKU:               req.SKU,
		Active:            true,
	}
	if req.StockQuantity != nil {
		p.StockQuantity = *req.StockQuantity
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = *req.LowStockThreshold
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflictf("a product with this SKU already exists")
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest, image *multipart.FileHeader) (*dto.ProductResponse, error) {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperr.Validationf("price cannot be negative")
		}
		p.Price = *req.Price
	}
	if req.Cost != nil {
		if req.Cost.IsNegative() {
			return nil, apperr.Validationf("cost cannot be negative")
		}
		p.Cost = *req.Cost
	}
	if req.LowStockThreshold != nil {
		p.LowStockThreshold = *req.LowStockThreshold
	}
	if req.SKU != nil {
		p.SKU = req.SKU
	}

	// Image replace order: store new file, persist the row, then delete the
	// old file. A crash mid-way leaves an orphan file on disk, never a row
	// pointing at a missing file.
	var oldImage *string
	if image != nil {
		path, err := s.images.Save(image)
		if err != nil {
			return nil, apperr.Wrap(apperr.Validation, "invalid image", err)
		}
		oldImage = p.ImagePath
		p.ImagePath = &path
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflictf("a product with this SKU already exists")
		}
		return nil, err
	}

	if oldImage != nil {
		if !s.images.Delete(*oldImage) {
			log.Warn().Str("path", *oldImage).Msg("failed to delete replaced product image")
		}
	}
	return productToResponse(p), nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}

	sold, err := s.movementRepo.HasSaleMovement(ctx, id)
	if err != nil {
		return err
	}
	if sold {
		return apperr.Conflictf("cannot delete product %s: it has recorded sales", p.Name)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if p.ImagePath != nil {
		if !s.images.Delete(*p.ImagePath) {
			log.Warn().Str("path", *p.ImagePath).Msg("failed to delete product image")
		}
	}
	return nil
}

func (s *productService) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.repo.FindLowStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

// AdjustStock applies a signed stock delta and appends the audit movement row
// in one transaction. Going below zero is rejected.
func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, userID uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	if req.Quantity == 0 {
		return nil, apperr.Validationf("quantity must be non-zero")
	}
	reason := req.Reason
	if reason == "" {
		reason = model.MovementAdjustment
	}

	p, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.AdjustStockTx(tx, id, req.Quantity); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Conflictf("adjustment would take %s below zero stock", p.Name)
			}
			return err
		}
		createdBy := userID
		return s.movementRepo.CreateTx(tx, &model.StockMovement{
			ProductID:      id,
			QuantityChange: req.Quantity,
			MovementType:   reason,
			CreatedBy:      &createdBy,
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	p, err = s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Search(ctx context.Context, query string) ([]dto.ProductResponse, error) {
	if query == "" {
		return []dto.ProductResponse{}, nil
	}
	products, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func (s *productService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}

func (s *productService) findProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("product %s not found", id)
		}
		return nil, err
	}
	return p, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		Description:       p.Description,
		Category:          p.Category,
		Price:             p.Price,
		Cost:              p.Cost,
		StockQuantity:     p.StockQuantity,
		LowStockThreshold: p.LowStockThreshold,
		ImagePath:         p.ImagePath,
		SKU:               p.SKU,
		Active:            p.Active,
		StockStatus:       p.StockStatus(),
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
}

func movementToResponse(m *model.StockMovement) dto.StockMovementResponse {
	var refID, createdBy *string
	if m.ReferenceID != nil {
		v := m.ReferenceID.String()
		refID = &v
	}
	if m.CreatedBy != nil {
		v := m.CreatedBy.String()
		createdBy = &v
	}
	return dto.StockMovementResponse{
		ID:             m.ID.String(),
		ProductID:      m.ProductID.String(),
		QuantityChange: m.QuantityChange,
		MovementType:   m.MovementType,
		ReferenceID:    refID,
		CreatedBy:      createdBy,
		CreatedAt:      m.CreatedAt.Format(time.RFC3339),
	}
}
