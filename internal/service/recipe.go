package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pantryplan/pantryplan-backend/internal/models"
	"github.com/pantryplan/pantryplan-backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CreateRecipe creates a recipe and its ingredient lines, resolving each
// line's ingredient against the reference table (creating it on first use).
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	if err := validateIngredientLines(req.Ingredients); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Servings:    req.Servings,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return s.replaceIngredients(tx, &recipe, req.Ingredients)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipe.ID)
}

// GetRecipe retrieves a recipe with its ordered ingredient lines
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Ingredients.Ingredient").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe updates a recipe's fields and, when ingredient lines are
// supplied, replaces the whole line set.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, userID uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, ErrForbidden
	}
	if req.Ingredients != nil {
		if err := validateIngredientLines(req.Ingredients); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if req.Name != "" {
			updates["name"] = req.Name
		}
		if req.Description != "" {
			updates["description"] = req.Description
		}
		if req.Servings > 0 {
			updates["servings"] = req.Servings
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Recipe{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			return s.replaceIngredients(tx, recipe, req.Ingredients)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, id)
}

// DeleteRecipe deletes a recipe
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, userID uuid.UUID) error {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return err
	}
	if recipe.UserID != userID {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id).Error
}

// ListRecipes lists recipes for a user, optionally filtered by a keyword
func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, query string) ([]*models.Recipe, error) {
	var recipes []models.Recipe

	dbQuery := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		dbQuery = dbQuery.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if err := dbQuery.Order("name").Find(&recipes).Error; err != nil {
		return nil, err
	}

	result := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		result[i] = &recipes[i]
	}
	return result, nil
}

func (s *RecipeService) replaceIngredients(tx *gorm.DB, recipe *models.Recipe, lines []types.RecipeIngredientRequest) error {
	for i, line := range lines {
		ingredient, err := findOrCreateIngredient(tx, line.Name, models.IngredientCategory(line.Category))
		if err != nil {
			return err
		}
		entry := models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredient.ID,
			Notes:        line.Notes,
			Position:     i,
		}
		if line.Quantity != nil {
			entry.Quantity = decimal.NullDecimal{Decimal: line.Quantity.Round(3), Valid: true}
			unit := models.MeasurementUnit(*line.Unit)
			entry.Unit = &unit
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}

// validateIngredientLines enforces the quantity/unit pairing invariant:
// either both present (quantity > 0, unit known) or the quantity is absent.
func validateIngredientLines(lines []types.RecipeIngredientRequest) error {
	for _, line := range lines {
		if strings.TrimSpace(line.Name) == "" {
			return &ValidationError{Field: "name", Message: "ingredient name is required"}
		}
		if line.Quantity == nil {
			if line.Unit != nil {
				return &ValidationError{Field: "unit", Message: "unit requires a quantity"}
			}
			continue
		}
		if line.Quantity.Sign() <= 0 {
			return &ValidationError{Field: "quantity", Message: "quantity must be positive"}
		}
		if line.Unit == nil {
			return &ValidationError{Field: "unit", Message: "quantity requires a unit"}
		}
		if !models.MeasurementUnit(*line.Unit).Valid() {
			return &ValidationError{Field: "unit", Message: "unknown unit " + *line.Unit}
		}
	}
	return nil
}

// findOrCreateIngredient resolves a free-text name against the reference
// table, normalizing to the canonical lowercase form.
func findOrCreateIngredient(tx *gorm.DB, name string, category models.IngredientCategory) (*models.Ingredient, error) {
	normalized := models.NormalizeName(name)
	var ingredient models.Ingredient
	err := tx.Where("name = ?", normalized).First(&ingredient).Error
	if err == nil {
		return &ingredient, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if category == "" {
		category = models.CategoryOther
	}
	ingredient = models.Ingredient{Name: normalized, Category: category}
	if err := tx.Create(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}
