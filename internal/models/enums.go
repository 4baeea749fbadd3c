package models

// MeasurementUnit is one of a fixed set of volume, weight, or count units.
// Units within a dimension are convertible; across dimensions they are not.
type MeasurementUnit string

const (
	UnitTeaspoon   MeasurementUnit = "tsp"
	UnitTablespoon MeasurementUnit = "tbsp"
	UnitFluidOunce MeasurementUnit = "fl_oz"
	UnitCup        MeasurementUnit = "cup"
	UnitPint       MeasurementUnit = "pint"
	UnitQuart      MeasurementUnit = "quart"
	UnitGallon     MeasurementUnit = "gallon"
	UnitMilliliter MeasurementUnit = "ml"
	UnitLiter      MeasurementUnit = "liter"

	UnitOunce    MeasurementUnit = "oz"
	UnitPound    MeasurementUnit = "lb"
	UnitGram     MeasurementUnit = "gram"
	UnitKilogram MeasurementUnit = "kg"

	UnitWhole MeasurementUnit = "whole"
	UnitClove MeasurementUnit = "clove"
	UnitSlice MeasurementUnit = "slice"
	UnitPiece MeasurementUnit = "piece"
)

// Valid reports whether u is one of the known units.
func (u MeasurementUnit) Valid() bool {
	switch u {
	case UnitTeaspoon, UnitTablespoon, UnitFluidOunce, UnitCup, UnitPint,
		UnitQuart, UnitGallon, UnitMilliliter, UnitLiter,
		UnitOunce, UnitPound, UnitGram, UnitKilogram,
		UnitWhole, UnitClove, UnitSlice, UnitPiece:
		return true
	}
	return false
}

// IngredientCategory groups ingredients for display and aggregation.
type IngredientCategory string

const (
	CategoryProduce   IngredientCategory = "produce"
	CategoryDairy     IngredientCategory = "dairy"
	CategoryMeat      IngredientCategory = "meat"
	CategorySeafood   IngredientCategory = "seafood"
	CategoryBakery    IngredientCategory = "bakery"
	CategoryFrozen    IngredientCategory = "frozen"
	CategoryPantry    IngredientCategory = "pantry"
	CategorySpices    IngredientCategory = "spices"
	CategoryBeverages IngredientCategory = "beverages"
	CategoryOther     IngredientCategory = "other"
)

// CategoryOrder is the display order of categories on a grocery list.
var CategoryOrder = []IngredientCategory{
	CategoryProduce,
	CategoryDairy,
	CategoryMeat,
	CategorySeafood,
	CategoryBakery,
	CategoryFrozen,
	CategoryPantry,
	CategorySpices,
	CategoryBeverages,
	CategoryOther,
}

// CategoryRank returns the sort rank of a category. Unknown categories sort last.
func CategoryRank(c IngredientCategory) int {
	for i, known := range CategoryOrder {
		if c == known {
			return i
		}
	}
	return len(CategoryOrder)
}

// MealType identifies the slot an assignment occupies on a plan day.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// ItemSource records how a grocery item came to exist.
type ItemSource string

const (
	// SourceGenerated items were produced by list generation from a meal plan.
	SourceGenerated ItemSource = "generated"
	// SourceManual items were added directly by the user.
	SourceManual ItemSource = "manual"
)
