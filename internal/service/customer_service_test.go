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

type customerFixture struct {
	svc       CustomerService
	customers *stubCustomerRepo
	sales     *stubSaleRepo
}

func newCustomerFixture(customers ...*model.Customer) *customerFixture {
	f := &customerFixture{
		customers: newStubCustomerRepo(customers...),
		sales:     newStubSaleRepo(),
	}
	f.svc = NewCustomerService(f.customers, f.sales)
	return f
}

func TestCreateCustomerRequiresName(t *testing.T) {
	f := newCustomerFixture()
	_, err := f.svc.Create(context.Background(), dto.CreateCustomerRequest{})
	assert.True(t, apperr.IsKind(err, apperr.Validation))
}

func TestDeleteCustomerWithSalesRejected(t *testing.T) {
	c := &model.Customer{Name: "Ari"}
	f := newCustomerFixture(c)
	require.NoError(t, f.sales.CreateTx(context.Background(), nil, &model.Sale{CustomerID: &c.ID}))

	err := f.svc.Delete(context.Background(), c.ID)
	assert.True(t, apperr.IsKind(err, apperr.Conflict))

	_, err = f.customers.FindByID(context.Background(), c.ID)
	assert.NoError(t, err)
}

func TestDeleteCustomerWithoutSales(t *testing.T) {
	c := &model.Customer{Name: "Ari"}
	f := newCustomerFixture(c)

	require.NoError(t, f.svc.Delete(context.Background(), c.ID))
	_, err := f.customers.FindByID(context.Background(), c.ID)
	assert.Error(t, err)
}

func TestCustomerHistoryIncludesTier(t *testing.T) {
	c := &model.Customer{Name: "Ari", VisitCount: 4, TotalPurchases: dec("120.00")}
	f := newCustomerFixture(c)
	require.NoError(t, f.sales.CreateTx(context.Background(), nil, &model.Sale{CustomerID: &c.ID, TotalAmount: dec("30.00")}))

	resp, err := f.svc.History(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Loyal", resp.LoyaltyTier)
	assert.Equal(t, 4, resp.VisitCount)
	assert.Len(t, resp.Sales, 1)
}

func TestUpdateCustomerNotFound(t *testing.T) {
	f := newCustomerFixture()
	name := "New"
	_, err := f.svc.Update(context.Background(), uuid.New(), dto.UpdateCustomerRequest{Name: &name})
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestLoyaltyTierBoundaries(t *testing.T) {
	cases := []struct {
		visits int
		tier   string
	}{
		{0, "New"},
		{1, "Regular"},
		{2, "Regular"},
		{3, "Loyal"},
		{9, "Loyal"},
		{10, "VIP"},
		{25, "VIP"},
	}
	for _, tc := range cases {
		c := &model.Customer{VisitCount: tc.visits}
		assert.Equal(t, tc.tier, c.LoyaltyTier(), "visits=%d", tc.visits)
	}
}
