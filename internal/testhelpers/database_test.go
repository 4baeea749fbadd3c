package testhelpers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantryplan/pantryplan-backend/internal/models"
)

func TestPostgresJSONBRoundTrip(t *testing.T) {
	db := SetupPostgres(t)

	user := models.User{Name: "Tester", Email: "tester@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)

	list := models.GroceryList{UserID: user.ID, Name: "Week"}
	require.NoError(t, db.Create(&list).Error)

	unit := models.UnitCup
	item := models.GroceryItem{
		ListID:     list.ID,
		Name:       "milk",
		Quantity:   decimal.NewNullDecimal(decimal.RequireFromString("2.5")),
		Unit:       &unit,
		Category:   models.CategoryDairy,
		SourceType: models.SourceGenerated,
		OriginalValues: &models.OriginalValues{
			Name:     "milk",
			Quantity: decimal.NewNullDecimal(decimal.RequireFromString("2")),
			Unit:     &unit,
			Category: models.CategoryDairy,
		},
	}
	require.NoError(t, db.Create(&item).Error)

	var got models.GroceryItem
	require.NoError(t, db.First(&got, "id = ?", item.ID).Error)
	require.NotNil(t, got.OriginalValues)
	assert.Equal(t, "milk", got.OriginalValues.Name)
	assert.True(t, got.OriginalValues.Quantity.Decimal.Equal(decimal.RequireFromString("2")))
	assert.Equal(t, models.CategoryDairy, got.OriginalValues.Category)
}
