package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/models"
)

func TestIrrigationCreate_CopiesSeasonAndDerivesEnd(t *testing.T) {
	f := newFixture(t)
	svc := NewIrrigationService(f.store, logger.Nop())
	season := f.season("2024")
	well := f.well("K", season)
	field := f.field("X", well)
	user := f.user("sulayan@example.com", models.RoleUser)

	rec, err := svc.Create(f.ctx, principal(user), &models.IrrigationRecord{
		FieldID:   field.ID,
		WellID:    well.ID,
		StartTime: time.Date(2024, 5, 3, 6, 0, 0, 0, time.UTC),
		Duration:  90,
		EndTime:   time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.True(t, rec.EndTime.Equal(time.Date(2024, 5, 3, 7, 30, 0, 0, time.UTC)), "client end time is ignored")
	assert.Equal(t, season.ID, models.Deref(rec.SeasonID))
	assert.Equal(t, user.ID, models.Deref(rec.CreatedBy))
	require.NotNil(t, rec.Field)
	assert.Equal(t, "X", rec.Field.Name)

	rec.Duration = 30
	updated, err := svc.Update(f.ctx, rec.ID, rec)
	require.NoError(t, err)
	assert.True(t, updated.EndTime.Equal(time.Date(2024, 5, 3, 6, 30, 0, 0, time.UTC)))
	assert.Equal(t, season.ID, models.Deref(updated.SeasonID))
	assert.Equal(t, user.ID, models.Deref(updated.CreatedBy))

	list, err := svc.List(f.ctx, map[string]interface{}{"field_id": field.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(f.ctx, rec.ID))
	assert.ErrorIs(t, svc.Delete(f.ctx, rec.ID), ErrNotFound)
}

func TestIrrigationCreate_Rejects(t *testing.T) {
	f := newFixture(t)
	svc := NewIrrigationService(f.store, logger.Nop())
	well := f.well("K", nil)
	field := f.field("X", well)

	_, err := svc.Create(f.ctx, nil, &models.IrrigationRecord{FieldID: field.ID, WellID: well.ID, StartTime: time.Now()})
	ve, ok := models.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "sure")

	_, err = svc.Create(f.ctx, nil, &models.IrrigationRecord{
		FieldID:   field.ID,
		WellID:    "00000000-0000-0000-0000-000000000000",
		StartTime: time.Now(),
		Duration:  10,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}
