package service

import (
	"context"
	"errors"
	"time"

	"retailpos/internal/apperr"
	"retailpos/internal/dto"
	"retailpos/internal/model"
	"retailpos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerService interface {
	GetAll(ctx context.Context, search string) ([]dto.CustomerResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	History(ctx context.Context, id uuid.UUID) (*dto.CustomerHistoryResponse, error)
	Frequent(ctx context.Context) ([]dto.CustomerResponse, error)
}

type customerService struct {
	repo     repository.CustomerRepository
	saleRepo repository.SaleRepository
}

func NewCustomerService(repo repository.CustomerRepository, saleRepo repository.SaleRepository) CustomerService {
	return &customerService{repo: repo, saleRepo: saleRepo}
}

func (s *customerService) GetAll(ctx context.Context, search string) ([]dto.CustomerResponse, error) {
	var customers []model.Customer
	var err error
	if search != "" {
		customers, err = s.repo.Search(ctx, search)
	} else {
		customers, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, *customerToResponse(&customers[i]))
	}
	return out, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if req.Name == "" {
		return nil, apperr.Validationf("customer name is required")
	}
	c := &model.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

// Update merges contact fields only. Purchase aggregates are not reachable
// from here: they belong to the sale-creation transaction.
func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Phone != nil {
		c.Phone = req.Phone
	}
	if req.Address != nil {
		c.Address = req.Address
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findCustomer(ctx, id); err != nil {
		return err
	}
	count, err := s.saleRepo.CountByCustomer(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflictf("cannot delete customer with existing sales")
	}
	return s.repo.Delete(ctx, id)
}

func (s *customerService) History(ctx context.Context, id uuid.UUID) (*dto.CustomerHistoryResponse, error) {
	c, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.FindByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	saleResponses := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		saleResponses = append(saleResponses, *saleToResponse(&sales[i]))
	}
	return &dto.CustomerHistoryResponse{
		Customer:       *customerToResponse(c),
		Sales:          saleResponses,
		TotalPurchases: c.TotalPurchases,
		VisitCount:     c.VisitCount,
		LoyaltyTier:    c.LoyaltyTier(),
	}, nil
}

func (s *customerService) Frequent(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := s.repo.FindFrequent(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, *customerToResponse(&customers[i]))
	}
	return out, nil
}

func (s *customerService) findCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("customer %s not found", id)
		}
		return nil, err
	}
	return c, nil
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:             c.ID.String(),
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		TotalPurchases: c.TotalPurchases,
		VisitCount:     c.VisitCount,
		LoyaltyTier:    c.LoyaltyTier(),
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
	}
}
