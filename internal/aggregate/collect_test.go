package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantryplan/pantryplan-backend/internal/models"
)

func TestCollectScalesByServingMultiplier(t *testing.T) {
	demands := Collect([]Assignment{
		{
			Multiplier: decimal.RequireFromString("1.5"),
			Lines: []Line{
				{Name: "flour", Category: models.CategoryPantry, Quantity: qty("2"), Unit: unitOf(models.UnitCup)},
			},
		},
	})

	require.Len(t, demands, 1)
	assert.Equal(t, "flour", demands[0].Name)
	assert.True(t, demands[0].Quantity.Decimal.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, models.UnitCup, *demands[0].Unit)
}

func TestCollectAggregatesSameUnit(t *testing.T) {
	one := decimal.NewFromInt(1)
	demands := Collect([]Assignment{
		{Multiplier: one, Lines: []Line{{Name: "Milk", Category: models.CategoryDairy, Quantity: qty("2"), Unit: unitOf(models.UnitCup)}}},
		{Multiplier: one, Lines: []Line{{Name: "milk", Category: models.CategoryDairy, Quantity: qty("1"), Unit: unitOf(models.UnitCup)}}},
	})

	require.Len(t, demands, 1)
	assert.Equal(t, "milk", demands[0].Name)
	assert.True(t, demands[0].Quantity.Decimal.Equal(decimal.NewFromInt(3)))
}

func TestCollectAggregatesCompatibleUnits(t *testing.T) {
	one := decimal.NewFromInt(1)
	demands := Collect([]Assignment{
		{Multiplier: one, Lines: []Line{{Name: "milk", Category: models.CategoryDairy, Quantity: qty("2"), Unit: unitOf(models.UnitCup)}}},
		{Multiplier: one, Lines: []Line{{Name: "milk", Category: models.CategoryDairy, Quantity: qty("1"), Unit: unitOf(models.UnitPint)}}},
	})

	require.Len(t, demands, 1)
	// First-seen unit wins; 2 cups + 1 pint = 4 cups.
	assert.Equal(t, models.UnitCup, *demands[0].Unit)
	assert.True(t, demands[0].Quantity.Decimal.Equal(decimal.NewFromInt(4)))
}

func TestCollectKeepsIncompatibleUnitsSeparate(t *testing.T) {
	one := decimal.NewFromInt(1)
	demands := Collect([]Assignment{
		{Multiplier: one, Lines: []Line{
			{Name: "butter", Category: models.CategoryDairy, Quantity: qty("2"), Unit: unitOf(models.UnitTablespoon)},
			{Name: "butter", Category: models.CategoryDairy, Quantity: qty("100"), Unit: unitOf(models.UnitGram)},
		}},
	})

	require.Len(t, demands, 2)
	assert.Equal(t, demands[0].Name, demands[1].Name)
}

func TestCollectQuantitylessLinesPassThrough(t *testing.T) {
	one := decimal.NewFromInt(1)
	demands := Collect([]Assignment{
		{Multiplier: one, Lines: []Line{{Name: "salt", Category: models.CategorySpices}}},
		{Multiplier: decimal.NewFromInt(3), Lines: []Line{{Name: "salt", Category: models.CategorySpices}}},
	})

	require.Len(t, demands, 1)
	assert.False(t, demands[0].Quantity.Valid)
	assert.Nil(t, demands[0].Unit)
}

func TestCollectOrdersByCategoryThenName(t *testing.T) {
	one := decimal.NewFromInt(1)
	demands := Collect([]Assignment{
		{Multiplier: one, Lines: []Line{
			{Name: "yeast", Category: models.CategoryPantry, Quantity: qty("1"), Unit: unitOf(models.UnitTeaspoon)},
			{Name: "milk", Category: models.CategoryDairy, Quantity: qty("1"), Unit: unitOf(models.UnitCup)},
			{Name: "apple", Category: models.CategoryProduce, Quantity: qty("2"), Unit: unitOf(models.UnitWhole)},
			{Name: "butter", Category: models.CategoryDairy, Quantity: qty("2"), Unit: unitOf(models.UnitTablespoon)},
		}},
	})

	require.Len(t, demands, 4)
	assert.Equal(t, "apple", demands[0].Name)
	assert.Equal(t, "butter", demands[1].Name)
	assert.Equal(t, "milk", demands[2].Name)
	assert.Equal(t, "yeast", demands[3].Name)
}

func TestCollectEmptyPlan(t *testing.T) {
	assert.Empty(t, Collect(nil))
	assert.Empty(t, Collect([]Assignment{{Multiplier: decimal.NewFromInt(1)}}))
}

func TestCollectIsDeterministic(t *testing.T) {
	input := []Assignment{
		{Multiplier: decimal.RequireFromString("2.5"), Lines: []Line{
			{Name: "chicken", Category: models.CategoryMeat, Quantity: qty("1.5"), Unit: unitOf(models.UnitPound)},
			{Name: "rice", Category: models.CategoryPantry, Quantity: qty("2"), Unit: unitOf(models.UnitCup)},
		}},
		{Multiplier: decimal.NewFromInt(1), Lines: []Line{
			{Name: "chicken", Category: models.CategoryMeat, Quantity: qty("8"), Unit: unitOf(models.UnitOunce)},
		}},
	}

	first := Collect(input)
	second := Collect(input)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].Category, second[i].Category)
		assert.Equal(t, first[i].Quantity.Valid, second[i].Quantity.Valid)
		if first[i].Quantity.Valid {
			assert.True(t, first[i].Quantity.Decimal.Equal(second[i].Quantity.Decimal))
		}
	}
}
