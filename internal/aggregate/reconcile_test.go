package aggregate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pantryplan/pantryplan-backend/internal/models"
)

func generatedItem(name string, quantity string, unit models.MeasurementUnit, category models.IngredientCategory) models.GroceryItem {
	return models.GroceryItem{
		ID:         uuid.New(),
		Name:       name,
		Quantity:   qty(quantity),
		Unit:       unitOf(unit),
		Category:   category,
		SourceType: models.SourceGenerated,
	}
}

func deleted(item models.GroceryItem) models.GroceryItem {
	item.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return item
}

func milkDemand(amount string) Demand {
	return Demand{Name: "milk", Category: models.CategoryDairy, Quantity: qty(amount), Unit: unitOf(models.UnitCup)}
}

func TestReconcileIgnoresManualItems(t *testing.T) {
	manual := models.GroceryItem{ID: uuid.New(), Name: "paper towels", SourceType: models.SourceManual}

	plan := Reconcile([]Demand{milkDemand("3")}, []models.GroceryItem{manual})

	require.Len(t, plan.Create, 1)
	assert.Empty(t, plan.Update)
	assert.Empty(t, plan.SoftDelete)
	assert.Empty(t, plan.Keep)
}

func TestReconcileDoesNotResurrectDeletedItems(t *testing.T) {
	removed := deleted(generatedItem("milk", "3", models.UnitCup, models.CategoryDairy))

	plan := Reconcile([]Demand{milkDemand("3")}, []models.GroceryItem{removed})

	assert.Empty(t, plan.Create, "an explicitly removed item must stay removed")
	assert.Empty(t, plan.Update)
	assert.Empty(t, plan.SoftDelete)
}

func TestReconcileEditStickiness(t *testing.T) {
	edited := generatedItem("oat milk", "1", models.UnitCup, models.CategoryBeverages)
	edited.OriginalValues = &models.OriginalValues{
		Name:     "milk",
		Quantity: qty("3"),
		Unit:     unitOf(models.UnitCup),
		Category: models.CategoryDairy,
	}

	plan := Reconcile([]Demand{milkDemand("5")}, []models.GroceryItem{edited})

	assert.Empty(t, plan.Create, "the edited item still claims its recomputed demand")
	assert.Empty(t, plan.Update)
	assert.Empty(t, plan.SoftDelete)
	require.Len(t, plan.Keep, 1)
	assert.Equal(t, edited.ID, plan.Keep[0])
}

func TestReconcileUpdatesUneditedItems(t *testing.T) {
	item := generatedItem("milk", "2", models.UnitCup, models.CategoryDairy)

	plan := Reconcile([]Demand{milkDemand("3")}, []models.GroceryItem{item})

	require.Len(t, plan.Update, 1)
	assert.Equal(t, item.ID, plan.Update[0].ItemID)
	assert.True(t, plan.Update[0].Quantity.Decimal.Equal(decimal.NewFromInt(3)))
	assert.Empty(t, plan.Create)
	assert.Empty(t, plan.SoftDelete)
}

func TestReconcileConvertsIntoExistingUnit(t *testing.T) {
	item := generatedItem("milk", "2", models.UnitCup, models.CategoryDairy)
	fresh := Demand{Name: "milk", Category: models.CategoryDairy, Quantity: qty("1"), Unit: unitOf(models.UnitPint)}

	plan := Reconcile([]Demand{fresh}, []models.GroceryItem{item})

	require.Len(t, plan.Update, 1)
	assert.Equal(t, models.UnitCup, *plan.Update[0].Unit)
	assert.True(t, plan.Update[0].Quantity.Decimal.Equal(decimal.NewFromInt(2)))
}

func TestReconcileSoftDeletesDeparted(t *testing.T) {
	item := generatedItem("milk", "3", models.UnitCup, models.CategoryDairy)

	plan := Reconcile(nil, []models.GroceryItem{item})

	require.Len(t, plan.SoftDelete, 1)
	assert.Equal(t, item.ID, plan.SoftDelete[0])
	assert.Empty(t, plan.Create)
}

func TestReconcileCreatesNewDemands(t *testing.T) {
	plan := Reconcile([]Demand{milkDemand("3")}, nil)

	require.Len(t, plan.Create, 1)
	assert.Equal(t, "milk", plan.Create[0].Name)
}

func TestReconcileIsIdempotent(t *testing.T) {
	items := []models.GroceryItem{
		generatedItem("milk", "2", models.UnitCup, models.CategoryDairy),
		generatedItem("bread", "1", models.UnitWhole, models.CategoryBakery),
		{ID: uuid.New(), Name: "batteries", SourceType: models.SourceManual},
		deleted(generatedItem("eggs", "12", models.UnitWhole, models.CategoryDairy)),
	}
	demands := []Demand{
		milkDemand("3"),
		{Name: "eggs", Category: models.CategoryDairy, Quantity: qty("12"), Unit: unitOf(models.UnitWhole)},
		{Name: "flour", Category: models.CategoryPantry, Quantity: qty("2"), Unit: unitOf(models.UnitCup)},
	}

	first := Reconcile(demands, items)
	require.Len(t, first.Update, 1)     // milk quantity changed
	require.Len(t, first.SoftDelete, 1) // bread left the plan
	require.Len(t, first.Create, 1)     // flour is new

	// Apply the plan in memory and reconcile again: nothing should change.
	next := applyPlan(items, first)
	second := Reconcile(demands, next)

	assert.Empty(t, second.Create)
	assert.Empty(t, second.Update)
	assert.Empty(t, second.SoftDelete)
}

func applyPlan(items []models.GroceryItem, plan Plan) []models.GroceryItem {
	out := make([]models.GroceryItem, 0, len(items)+len(plan.Create))
	for _, item := range items {
		for _, u := range plan.Update {
			if u.ItemID == item.ID {
				item.Quantity = u.Quantity
				item.Unit = u.Unit
				item.Category = u.Category
			}
		}
		for _, id := range plan.SoftDelete {
			if id == item.ID {
				item = deleted(item)
			}
		}
		out = append(out, item)
	}
	for _, d := range plan.Create {
		out = append(out, models.GroceryItem{
			ID:         uuid.New(),
			Name:       d.Name,
			Quantity:   d.Quantity,
			Unit:       d.Unit,
			Category:   d.Category,
			SourceType: models.SourceGenerated,
		})
	}
	return out
}
