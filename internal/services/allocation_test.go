package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stwalsh4118/ciftlik/internal/models"
)

func ownershipOf(fieldID string, shares map[string]string) *models.FieldOwnership {
	o := &models.FieldOwnership{FieldID: fieldID}
	for id, pct := range shares {
		o.Shares = append(o.Shares, models.OwnershipShare{
			OwnerID:    id,
			Owner:      &models.Owner{Base: models.Base{ID: id}, Name: id},
			Percentage: dec(pct),
		})
	}
	return o
}

func TestAttributeMinutes_SplitsByShare(t *testing.T) {
	record := models.IrrigationRecord{FieldID: "x", Duration: 100}
	got := AttributeMinutes(record, ownershipOf("x", map[string]string{"A": "60", "B": "40"}))

	require.Len(t, got, 2)
	assert.True(t, got["A"].Equal(decimal.NewFromInt(60)), "A got %s", got["A"])
	assert.True(t, got["B"].Equal(decimal.NewFromInt(40)), "B got %s", got["B"])
}

func TestAttributeMinutes_SumsToDuration(t *testing.T) {
	shareSets := []map[string]string{
		{"A": "100"},
		{"A": "50", "B": "50"},
		{"A": "33.3333", "B": "33.3333", "C": "33.3334"},
		{"A": "12.5", "B": "37.5", "C": "25", "D": "25"},
		{"A": "99.99", "B": "0.01"},
	}
	durations := []int{1, 7, 45, 100, 1439}

	for _, shares := range shareSets {
		for _, d := range durations {
			record := models.IrrigationRecord{FieldID: "x", Duration: d}
			sum := decimal.Zero
			for _, m := range AttributeMinutes(record, ownershipOf("x", shares)) {
				sum = sum.Add(m)
			}
			diff := sum.Sub(decimal.NewFromInt(int64(d))).Abs()
			assert.True(t, diff.LessThan(dec("0.000001")), "shares %v duration %d summed to %s", shares, d, sum)
		}
	}
}

func TestAttributeMinutes_NoOwnership(t *testing.T) {
	assert.Empty(t, AttributeMinutes(models.IrrigationRecord{Duration: 10}, nil))
}

func TestAllocate_UnitCostAndOwnerCost(t *testing.T) {
	records := []models.IrrigationRecord{
		{FieldID: "x", Duration: 100, Field: &models.Field{Name: "Field X"}},
		{FieldID: "y", Duration: 400, Field: &models.Field{Name: "Field Y"}},
	}
	ownerships := map[string]*models.FieldOwnership{
		"x": ownershipOf("x", map[string]string{"A": "60", "B": "40"}),
		"y": ownershipOf("y", map[string]string{"B": "100"}),
	}

	alloc := Allocate(records, ownerships, decimal.NewFromInt(1000))

	assert.Equal(t, 500, alloc.TotalMinutes)
	require.NotNil(t, alloc.UnitCost)
	assert.True(t, alloc.UnitCost.Equal(decimal.NewFromInt(2)))

	require.Len(t, alloc.Owners, 2)
	a, b := alloc.Owners[0], alloc.Owners[1]
	assert.Equal(t, "A", a.OwnerID)
	assert.True(t, a.Minutes.Equal(decimal.NewFromInt(60)))
	assert.True(t, a.Cost.Equal(decimal.NewFromInt(120)), "A cost %s", a.Cost)
	assert.Equal(t, []string{"Field X"}, a.FieldNames)

	assert.True(t, b.Minutes.Equal(decimal.NewFromInt(440)))
	assert.True(t, b.Cost.Equal(decimal.NewFromInt(880)))
	assert.Equal(t, []string{"Field X", "Field Y"}, b.FieldNames)
}

func TestAllocate_ZeroMinutesLeavesUnitCostUndefined(t *testing.T) {
	alloc := Allocate(nil, nil, decimal.NewFromInt(1000))

	assert.Zero(t, alloc.TotalMinutes)
	assert.Nil(t, alloc.UnitCost)
	assert.NotNil(t, alloc.Owners)
	assert.Empty(t, alloc.Owners)
}

func TestAllocate_FieldWithoutOwnership(t *testing.T) {
	records := []models.IrrigationRecord{{FieldID: "orphan", Duration: 30}}

	alloc := Allocate(records, map[string]*models.FieldOwnership{}, decimal.NewFromInt(90))

	assert.Equal(t, 30, alloc.TotalMinutes)
	assert.True(t, alloc.UnitCost.Equal(decimal.NewFromInt(3)))
	assert.Empty(t, alloc.Owners)
}
