package aggregate

import (
	"log"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/pantryplan/pantryplan-backend/internal/models"
)

// Line is one unscaled ingredient requirement of a recipe.
type Line struct {
	Name     string
	Category models.IngredientCategory
	Quantity decimal.NullDecimal
	Unit     *models.MeasurementUnit
}

// Assignment pairs a recipe's ingredient lines with the serving multiplier
// of the meal assignment that references it.
type Assignment struct {
	Multiplier decimal.Decimal
	Lines      []Line
}

// Demand is the aggregated requirement for one grocery item: a normalized
// ingredient name, its category, and a combined quantity. An ingredient
// whose occurrences carry incompatible units produces several demands under
// the same name.
type Demand struct {
	Name     string
	Category models.IngredientCategory
	Quantity decimal.NullDecimal
	Unit     *models.MeasurementUnit
}

// Collect scales every line by its assignment's serving multiplier (absent
// quantities pass through unscaled), groups by normalized name and
// category, merges compatible quantities, and returns demands in a stable
// category-then-name order. It is a pure function of its input: an
// unchanged plan always collects to an equal demand set.
func Collect(assignments []Assignment) []Demand {
	var demands []Demand
	for _, a := range assignments {
		for _, line := range a.Lines {
			d := Demand{
				Name:     models.NormalizeName(line.Name),
				Category: line.Category,
				Quantity: line.Quantity,
				Unit:     line.Unit,
			}
			if line.Quantity.Valid {
				d.Quantity = decimal.NullDecimal{
					Decimal: line.Quantity.Decimal.Mul(a.Multiplier).Round(quantityScale),
					Valid:   true,
				}
			}
			demands = fold(demands, d)
		}
	}

	sort.SliceStable(demands, func(i, j int) bool {
		ri, rj := models.CategoryRank(demands[i].Category), models.CategoryRank(demands[j].Category)
		if ri != rj {
			return ri < rj
		}
		return demands[i].Name < demands[j].Name
	})
	return demands
}

// fold merges d into the first compatible demand with the same identity,
// or appends it as a separate line.
func fold(demands []Demand, d Demand) []Demand {
	for i := range demands {
		e := &demands[i]
		if e.Name != d.Name || e.Category != d.Category {
			continue
		}
		qty, unit, ok := Combine(e.Quantity, e.Unit, d.Quantity, d.Unit)
		if !ok {
			// Degraded but safe: the occurrences stay as distinct items.
			log.Printf("aggregate: incompatible units for %q (%s vs %s), keeping separate lines",
				d.Name, unitLabel(e.Unit), unitLabel(d.Unit))
			continue
		}
		e.Quantity = qty
		e.Unit = unit
		return demands
	}
	return append(demands, d)
}

func unitLabel(u *models.MeasurementUnit) string {
	if u == nil {
		return "none"
	}
	return string(*u)
}
