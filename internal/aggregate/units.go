// Package aggregate computes unit-aggregated ingredient demands from meal
// plan assignments and reconciles them against a persisted grocery list.
// It is pure: persistence is the caller's concern.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/pantryplan/pantryplan-backend/internal/models"
)

// Dimension classifies measurement units. Units convert within a dimension
// and never across dimensions.
type Dimension int

const (
	DimensionNone Dimension = iota
	DimensionVolume
	DimensionWeight
	DimensionCount
)

// quantityScale is the stored precision of quantities (decimal(10,3)).
const quantityScale = 3

// Volume factors are expressed in teaspoons so the US chain stays exact.
// Metric volumes cross over at 1 ml = 0.202884 tsp; the liter factor is
// derived from it so liter<->ml stays an exact 1000:1 inside the table.
var teaspoonsPerMilliliter = decimal.RequireFromString("0.202884")

var volumeInTeaspoons = map[models.MeasurementUnit]decimal.Decimal{
	models.UnitTeaspoon:   decimal.NewFromInt(1),
	models.UnitTablespoon: decimal.NewFromInt(3),
	models.UnitFluidOunce: decimal.NewFromInt(6),
	models.UnitCup:        decimal.NewFromInt(48),
	models.UnitPint:       decimal.NewFromInt(96),
	models.UnitQuart:      decimal.NewFromInt(192),
	models.UnitGallon:     decimal.NewFromInt(768),
	models.UnitMilliliter: teaspoonsPerMilliliter,
	models.UnitLiter:      teaspoonsPerMilliliter.Mul(decimal.NewFromInt(1000)),
}

var weightInGrams = map[models.MeasurementUnit]decimal.Decimal{
	models.UnitGram:     decimal.NewFromInt(1),
	models.UnitKilogram: decimal.NewFromInt(1000),
	models.UnitOunce:    decimal.RequireFromString("28.3495"),
	models.UnitPound:    decimal.RequireFromString("453.592"),
}

// UnitDimension returns the measurement dimension of a unit.
func UnitDimension(u models.MeasurementUnit) Dimension {
	if _, ok := volumeInTeaspoons[u]; ok {
		return DimensionVolume
	}
	if _, ok := weightInGrams[u]; ok {
		return DimensionWeight
	}
	switch u {
	case models.UnitWhole, models.UnitClove, models.UnitSlice, models.UnitPiece:
		return DimensionCount
	}
	return DimensionNone
}

// Convertible reports whether a quantity in from can be expressed in to.
// Count units share a dimension but have no meaningful ratios between each
// other, so they only ever match themselves.
func Convertible(from, to models.MeasurementUnit) bool {
	if from == to {
		return UnitDimension(from) != DimensionNone
	}
	d := UnitDimension(from)
	if d != DimensionVolume && d != DimensionWeight {
		return false
	}
	return d == UnitDimension(to)
}

// Convert expresses amount (given in from units) in to units, rounded to
// the stored quantity precision.
func Convert(amount decimal.Decimal, from, to models.MeasurementUnit) (decimal.Decimal, bool) {
	if from == to {
		return amount, UnitDimension(from) != DimensionNone
	}
	if !Convertible(from, to) {
		return decimal.Zero, false
	}
	factors := volumeInTeaspoons
	if UnitDimension(from) == DimensionWeight {
		factors = weightInGrams
	}
	base := amount.Mul(factors[from])
	return base.Div(factors[to]).Round(quantityScale), true
}

// Combine merges two (quantity, unit) pairs for the same ingredient. The
// accumulator's unit wins: b is converted into a's unit before summing, so
// repeated regeneration does not churn a list's units. The second return
// is false when the pair cannot be merged (different dimensions, count
// units that differ, or exactly one side missing its quantity) and the
// caller should keep the operands as separate line items.
func Combine(a decimal.NullDecimal, aUnit *models.MeasurementUnit, b decimal.NullDecimal, bUnit *models.MeasurementUnit) (decimal.NullDecimal, *models.MeasurementUnit, bool) {
	// Two quantity-less lines of the same ingredient collapse to one.
	if !a.Valid && !b.Valid {
		return decimal.NullDecimal{}, nil, true
	}
	if a.Valid != b.Valid {
		return decimal.NullDecimal{}, nil, false
	}

	// Quantities without units only sum with each other.
	if aUnit == nil || bUnit == nil {
		if aUnit == nil && bUnit == nil {
			sum := a.Decimal.Add(b.Decimal).Round(quantityScale)
			return decimal.NullDecimal{Decimal: sum, Valid: true}, nil, true
		}
		return decimal.NullDecimal{}, nil, false
	}

	converted, ok := Convert(b.Decimal, *bUnit, *aUnit)
	if !ok {
		return decimal.NullDecimal{}, nil, false
	}
	sum := a.Decimal.Add(converted).Round(quantityScale)
	unit := *aUnit
	return decimal.NullDecimal{Decimal: sum, Valid: true}, &unit, true
}
