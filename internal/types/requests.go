package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterRequest is the request body for user registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RecipeIngredientRequest is one ingredient line of a recipe payload.
// Quantity and unit must either both be present or both absent.
type RecipeIngredientRequest struct {
	Name     string           `json:"name" binding:"required"`
	Category string           `json:"category"`
	Quantity *decimal.Decimal `json:"quantity"`
	Unit     *string          `json:"unit"`
	Notes    string           `json:"notes"`
}

// CreateRecipeRequest is the request body for creating a recipe
type CreateRecipeRequest struct {
	Name        string                    `json:"name" binding:"required"`
	Description string                    `json:"description"`
	Servings    int                       `json:"servings" binding:"required,min=1"`
	Ingredients []RecipeIngredientRequest `json:"ingredients" binding:"required"`
}

// UpdateRecipeRequest is the request body for updating a recipe
type UpdateRecipeRequest struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Servings    int                       `json:"servings"`
	Ingredients []RecipeIngredientRequest `json:"ingredients"`
}

// CreateMealPlanRequest is the request body for creating a meal plan
type CreateMealPlanRequest struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

// AssignMealRequest places a recipe on a plan day
type AssignMealRequest struct {
	RecipeID          string           `json:"recipe_id" binding:"required,uuid"`
	Date              time.Time        `json:"date" binding:"required"`
	MealType          string           `json:"meal_type" binding:"required,oneof=breakfast lunch dinner snack"`
	ServingMultiplier *decimal.Decimal `json:"serving_multiplier"`
	Notes             string           `json:"notes"`
}

// CreateListRequest creates a standalone grocery list
type CreateListRequest struct {
	Name string `json:"name" binding:"required"`
}

// AddItemRequest adds a manual item to a grocery list
type AddItemRequest struct {
	Name     string           `json:"name" binding:"required"`
	Quantity *decimal.Decimal `json:"quantity"`
	Unit     *string          `json:"unit"`
	Category string           `json:"category"`
	Notes    string           `json:"notes"`
}

// UpdateItemRequest edits an item's values. Nil fields are left unchanged.
type UpdateItemRequest struct {
	Name     *string          `json:"name"`
	Quantity *decimal.Decimal `json:"quantity"`
	Unit     *string          `json:"unit"`
	Category *string          `json:"category"`
	Notes    *string          `json:"notes"`
}

// ShareRequest issues a read-only share link for a list
type ShareRequest struct {
	ExpiresInHours int `json:"expires_in_hours" binding:"omitempty,min=1,max=720"`
}
