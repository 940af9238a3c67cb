package service

import (
	"context"
	"testing"

	"retailpos/internal/apperr"
	"retailpos/internal/dto"
	"retailpos/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingDefaults(t *testing.T) {
	svc := NewSettingService(newStubSettingRepo(), nil)

	rate := svc.GetTaxRate(context.Background())
	assert.True(t, rate.Equal(dec("10")), "rate = %s", rate)

	categories := svc.GetProductCategories(context.Background())
	assert.Equal(t, []string{"Beverages", "Food", "Desserts", "Snacks"}, categories)
}

func TestUpdateTaxRateValidation(t *testing.T) {
	svc := NewSettingService(newStubSettingRepo(), nil)

	for _, bad := range []string{"150", "-1", "abc"} {
		_, err := svc.Update(context.Background(), model.SettingTaxRate, dto.UpdateSettingRequest{Value: bad})
		assert.True(t, apperr.IsKind(err, apperr.Validation), "value %q", bad)
	}

	resp, err := svc.Update(context.Background(), model.SettingTaxRate, dto.UpdateSettingRequest{Value: "21"})
	require.NoError(t, err)
	assert.Equal(t, "21", resp.Value)

	rate := svc.GetTaxRate(context.Background())
	assert.True(t, rate.Equal(dec("21")))
}

func TestUpdateCategoriesValidation(t *testing.T) {
	svc := NewSettingService(newStubSettingRepo(), nil)

	for _, bad := range []string{"not json", "[]", `{"a":1}`} {
		_, err := svc.Update(context.Background(), model.SettingProductCategories, dto.UpdateSettingRequest{Value: bad})
		assert.True(t, apperr.IsKind(err, apperr.Validation), "value %q", bad)
	}

	_, err := svc.Update(context.Background(), model.SettingProductCategories, dto.UpdateSettingRequest{Value: `["Coffee","Pastry"]`})
	require.NoError(t, err)
	assert.Equal(t, []string{"Coffee", "Pastry"}, svc.GetProductCategories(context.Background()))
}

// Unrecognized keys pass through as opaque strings.
func TestUpdateOpaqueSetting(t *testing.T) {
	svc := NewSettingService(newStubSettingRepo(), nil)

	resp, err := svc.Update(context.Background(), "store_name", dto.UpdateSettingRequest{Value: "Corner Shop"})
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", resp.Value)

	value, err := svc.Get(context.Background(), "store_name")
	require.NoError(t, err)
	assert.Equal(t, "Corner Shop", value)
}

func TestGetUnknownSettingNotFound(t *testing.T) {
	svc := NewSettingService(newStubSettingRepo(), nil)
	_, err := svc.Get(context.Background(), "does_not_exist")
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}
