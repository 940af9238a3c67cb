package service

import (
	"context"
	"mime/multipart"
	"sort"

	"retailpos/internal/dto"
	"retailpos/internal/model"
	"retailpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. All DB() methods return nil so runTx executes
// the callback directly without a live transaction.

// ── Product repository ───────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo(products ...*model.Product) *stubProductRepo {
	r := &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := r.all()
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Search(_ context.Context, _ string) ([]model.Product, error) {
	return r.all(), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) FindLowStock(_ context.Context) ([]model.Product, error) {
	var out []model.Product
	for _, p := range r.products {
		if p.IsLowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductRepo) Categories(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range r.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *stubProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *stubProductRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) AdjustStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.products[id]
	if !ok || p.StockQuantity+delta < 0 {
		return gorm.ErrRecordNotFound
	}
	p.StockQuantity += delta
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

func (r *stubProductRepo) all() []model.Product {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Sale repository ──────────────────────────────────────────────────────────

type stubSaleRepo struct {
	sales      map[uuid.UUID]*model.Sale
	invoiceSeq int64

	// Canned aggregate answers for report tests.
	count   int64
	total   decimal.Decimal
	tax     decimal.Decimal
	average decimal.Decimal
}

func newStubSaleRepo() *stubSaleRepo {
	return &stubSaleRepo{sales: make(map[uuid.UUID]*model.Sale)}
}

func (r *stubSaleRepo) CreateTx(_ context.Context, _ *gorm.DB, s *model.Sale) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sales[s.ID] = s
	return nil
}

func (r *stubSaleRepo) NextInvoiceNumber(_ context.Context, _ *gorm.DB) (int64, error) {
	r.invoiceSeq++
	return r.invoiceSeq, nil
}

func (r *stubSaleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSaleRepo) FindByCustomer(_ context.Context, customerID uuid.UUID) ([]model.Sale, error) {
	var out []model.Sale
	for _, s := range r.sales {
		if s.CustomerID != nil && *s.CustomerID == customerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubSaleRepo) FindByDateRange(_ context.Context, _, _ string) ([]model.Sale, error) {
	return r.all(), nil
}

func (r *stubSaleRepo) List(_ context.Context, _ dto.SaleFilter) ([]model.Sale, int64, error) {
	out := r.all()
	return out, int64(len(out)), nil
}

func (r *stubSaleRepo) Recent(_ context.Context, limit int) ([]model.Sale, error) {
	out := r.all()
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubSaleRepo) CountByCustomer(_ context.Context, customerID uuid.UUID) (int64, error) {
	var n int64
	for _, s := range r.sales {
		if s.CustomerID != nil && *s.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

func (r *stubSaleRepo) SalesCount(_ context.Context, _, _ string) (int64, error) { return r.count, nil }
func (r *stubSaleRepo) SalesTotal(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return r.total, nil
}
func (r *stubSaleRepo) TaxTotal(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return r.tax, nil
}
func (r *stubSaleRepo) AverageSale(_ context.Context, _, _ string) (decimal.Decimal, error) {
	return r.average, nil
}

func (r *stubSaleRepo) DB() *gorm.DB { return nil }

func (r *stubSaleRepo) all() []model.Sale {
	out := make([]model.Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, *s)
	}
	return out
}

var _ repository.SaleRepository = (*stubSaleRepo)(nil)

// ── Customer repository ──────────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo(customers ...*model.Customer) *stubCustomerRepo {
	r := &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
	for _, c := range customers {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		r.customers[c.ID] = c
	}
	return r
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) {
	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) Search(_ context.Context, _ string) ([]model.Customer, error) {
	return r.List(context.Background())
}

func (r *stubCustomerRepo) Update(_ context.Context, c *model.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.customers, id)
	return nil
}

func (r *stubCustomerRepo) FindFrequent(_ context.Context) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		if c.IsFrequent() {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubCustomerRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.customers)), nil
}

func (r *stubCustomerRepo) RecordPurchaseTx(_ *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	c, ok := r.customers[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.TotalPurchases = c.TotalPurchases.Add(amount)
	c.VisitCount++
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Stock movement repository ────────────────────────────────────────────────

type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) Create(_ context.Context, m *model.StockMovement) error {
	return r.CreateTx(nil, m)
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) FindByProduct(_ context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMovementRepo) HasSaleMovement(_ context.Context, productID uuid.UUID) (bool, error) {
	for _, m := range r.movements {
		if m.ProductID == productID && m.MovementType == model.MovementSale {
			return true, nil
		}
	}
	return false, nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── User repository ──────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo(users ...*model.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) CountActiveAdmins(_ context.Context) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.IsAdmin() && u.Active {
			n++
		}
	}
	return n, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Setting repository ───────────────────────────────────────────────────────

type stubSettingRepo struct {
	settings map[string]*model.Setting
}

func newStubSettingRepo() *stubSettingRepo {
	return &stubSettingRepo{settings: make(map[string]*model.Setting)}
}

func (r *stubSettingRepo) FindByKey(_ context.Context, key string) (*model.Setting, error) {
	s, ok := r.settings[key]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSettingRepo) GetAll(_ context.Context) ([]model.Setting, error) {
	out := make([]model.Setting, 0, len(r.settings))
	for _, s := range r.settings {
		out = append(out, *s)
	}
	return out, nil
}

func (r *stubSettingRepo) Upsert(_ context.Context, s *model.Setting) error {
	r.settings[s.SettingKey] = s
	return nil
}

var _ repository.SettingRepository = (*stubSettingRepo)(nil)

// ── Image and receipt stores ─────────────────────────────────────────────────

type stubImageStore struct {
	deleted []string
}

func (s *stubImageStore) Save(_ *multipart.FileHeader) (string, error) { return "/uploads/x.png", nil }

func (s *stubImageStore) Delete(relPath string) bool {
	s.deleted = append(s.deleted, relPath)
	return true
}

var _ ImageStore = (*stubImageStore)(nil)

type stubReceiptStore struct{ path string }

func (s *stubReceiptStore) Generate(_ *model.Sale) (string, error) { return s.path, nil }

var _ ReceiptStore = (*stubReceiptStore)(nil)
