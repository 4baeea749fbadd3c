package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	DeletedAt   gorm.DeletedAt     `gorm:"index" json:"-"`
	UserID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string             `gorm:"size:255;not null" json:"name"`
	Description string             `gorm:"type:text" json:"description"`
	Servings    int                `gorm:"not null;default:4" json:"servings"`
	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient is one line of a recipe. Quantity and Unit are either
// both present or the quantity is absent ("to taste" lines).
type RecipeIngredient struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"recipe_id"`
	IngredientID uuid.UUID           `gorm:"type:uuid;not null" json:"ingredient_id"`
	Ingredient   Ingredient          `json:"ingredient"`
	Quantity     decimal.NullDecimal `gorm:"type:decimal(10,3)" json:"quantity"`
	Unit         *MeasurementUnit    `gorm:"size:10" json:"unit"`
	Notes        string              `gorm:"size:255" json:"notes"`
	Position     int                 `gorm:"not null;default:0" json:"position"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}
