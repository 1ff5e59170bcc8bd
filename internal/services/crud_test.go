package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/models"
)

func TestCRUDService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	res := NewResources(f.store, logger.Nop())
	well := f.well("K", nil)

	created, err := res.Fields.Create(f.ctx, &models.Field{Name: "Dere", Area: 12.5, WellID: &well.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.FieldActive, created.Status, "status defaults to aktif")
	require.NotNil(t, created.Well, "reads preload the well")
	assert.Equal(t, "K", created.Well.Name)

	created.Crop = "Buğday"
	updated, err := res.Fields.Update(f.ctx, created.ID, created)
	require.NoError(t, err)
	assert.Equal(t, "Buğday", updated.Crop)
	assert.False(t, updated.CreatedAt.IsZero())

	list, err := res.Fields.List(f.ctx, map[string]interface{}{"well_id": well.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, res.Fields.Delete(f.ctx, created.ID))
	_, err = res.Fields.Get(f.ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, res.Fields.Delete(f.ctx, created.ID), ErrNotFound)
}

func TestCRUDService_ValidationAndReferences(t *testing.T) {
	f := newFixture(t)
	res := NewResources(f.store, logger.Nop())

	_, err := res.Fields.Create(f.ctx, &models.Field{Name: "", Area: 0})
	ve, ok := models.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "ad")
	assert.Contains(t, ve.Fields, "alan")

	missing := "00000000-0000-0000-0000-000000000000"
	_, err = res.Fields.Create(f.ctx, &models.Field{Name: "X", Area: 1, WellID: &missing})
	ve, ok = models.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "kuyu_id")

	_, err = res.Invoices.Create(f.ctx, &models.WellInvoice{
		WellID:    missing,
		StartDate: day(2024, 1, 1),
		EndDate:   day(2024, 1, 31),
		Amount:    decimal.NewFromInt(10),
	})
	_, ok = models.AsValidationError(err)
	assert.True(t, ok)

	_, err = res.Owners.Update(f.ctx, missing, &models.Owner{Name: "Yok"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCRUDService_Defaults(t *testing.T) {
	f := newFixture(t)
	res := NewResources(f.store, logger.Nop())

	owner, err := res.Owners.Create(f.ctx, &models.Owner{Name: "Kooperatif"})
	require.NoError(t, err)
	assert.Equal(t, models.OwnerIndividual, owner.Type)

	fert, err := res.Fertilizers.Create(f.ctx, &models.Fertilizer{Name: "Üre", Quantity: 50})
	require.NoError(t, err)
	assert.Equal(t, "kg", fert.Unit)

	item, err := res.Inventory.Create(f.ctx, &models.InventoryItem{Name: "Kürek", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, "adet", item.Unit)
}
