package aggregate

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pantryplan/pantryplan-backend/internal/models"
)

// ItemUpdate carries freshly computed values for an unedited generated item.
type ItemUpdate struct {
	ItemID   uuid.UUID
	Quantity decimal.NullDecimal
	Unit     *models.MeasurementUnit
	Category models.IngredientCategory
}

// Plan is the outcome of reconciliation: the persistence instructions the
// caller must apply in one transaction. Manual items never appear in a Plan.
type Plan struct {
	Create     []Demand
	Update     []ItemUpdate
	SoftDelete []uuid.UUID
	Keep       []uuid.UUID
}

// Reconcile computes a three-way diff between freshly collected demands and
// the existing item set of a list, soft-deleted rows included. The rules:
//
//   - manual items are not part of reconciliation at all;
//   - a soft-deleted generated item claims its demand but stays deleted,
//     so an explicit removal survives any number of regenerations;
//   - an edited item (original-values snapshot present) claims its demand
//     by its pre-edit name and keeps the user's values;
//   - an unedited generated item is updated to the fresh values, or
//     soft-deleted when its ingredient left the plan;
//   - demands claimed by nobody become new items.
//
// The match key is the normalized ingredient name; unit compatibility only
// breaks ties between same-name demands.
func Reconcile(demands []Demand, existing []models.GroceryItem) Plan {
	consumed := make([]bool, len(demands))

	claim := func(name string, unit *models.MeasurementUnit) int {
		fallback := -1
		for i, d := range demands {
			if consumed[i] || d.Name != name {
				continue
			}
			if unitsCompatible(d.Unit, unit) {
				return i
			}
			if fallback < 0 {
				fallback = i
			}
		}
		return fallback
	}

	var plan Plan
	for i := range existing {
		item := &existing[i]
		if item.SourceType == models.SourceManual {
			continue
		}
		name := item.MatchName()

		if item.DeletedAt.Valid {
			if idx := claim(name, item.Unit); idx >= 0 {
				consumed[idx] = true
			}
			continue
		}

		if item.Edited() {
			if idx := claim(name, item.Unit); idx >= 0 {
				consumed[idx] = true
			}
			plan.Keep = append(plan.Keep, item.ID)
			continue
		}

		idx := claim(name, item.Unit)
		if idx < 0 {
			plan.SoftDelete = append(plan.SoftDelete, item.ID)
			continue
		}
		consumed[idx] = true

		qty, unit := converge(demands[idx], item)
		if unchanged(item, qty, unit, demands[idx].Category) {
			plan.Keep = append(plan.Keep, item.ID)
			continue
		}
		plan.Update = append(plan.Update, ItemUpdate{
			ItemID:   item.ID,
			Quantity: qty,
			Unit:     unit,
			Category: demands[idx].Category,
		})
	}

	for i, d := range demands {
		if !consumed[i] {
			plan.Create = append(plan.Create, d)
		}
	}
	return plan
}

// converge expresses a demand in the existing item's unit when the two are
// convertible, so a matched item keeps its unit across regenerations.
func converge(d Demand, item *models.GroceryItem) (decimal.NullDecimal, *models.MeasurementUnit) {
	if d.Quantity.Valid && d.Unit != nil && item.Unit != nil && *d.Unit != *item.Unit {
		if amount, ok := Convert(d.Quantity.Decimal, *d.Unit, *item.Unit); ok {
			unit := *item.Unit
			return decimal.NullDecimal{Decimal: amount, Valid: true}, &unit
		}
	}
	return d.Quantity, d.Unit
}

func unchanged(item *models.GroceryItem, qty decimal.NullDecimal, unit *models.MeasurementUnit, category models.IngredientCategory) bool {
	if item.Category != category {
		return false
	}
	if (item.Unit == nil) != (unit == nil) {
		return false
	}
	if item.Unit != nil && *item.Unit != *unit {
		return false
	}
	if item.Quantity.Valid != qty.Valid {
		return false
	}
	if item.Quantity.Valid && !item.Quantity.Decimal.Equal(qty.Decimal) {
		return false
	}
	return true
}

func unitsCompatible(a, b *models.MeasurementUnit) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Convertible(*a, *b)
}
