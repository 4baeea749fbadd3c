package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is reference data: a canonical lowercased name plus its
// store category. Recipes point at ingredients rather than carrying
// free-text names so that aggregation keys stay stable.
type Ingredient struct {
	ID        uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Name      string             `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Category  IngredientCategory `gorm:"size:20;not null;default:'other'" json:"category"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	i.Name = NormalizeName(i.Name)
	return nil
}

// NormalizeName lowercases and trims an ingredient name. The normalized
// form is the canonical identity used for aggregation and reconciliation.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
