package models

import (
	"database/sql/driver"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OriginalValues is the snapshot of a generated item's pre-edit state,
// stored as JSONB. Its presence is what marks the item as edited.
type OriginalValues struct {
	Name     string              `json:"name"`
	Quantity decimal.NullDecimal `json:"quantity"`
	Unit     *MeasurementUnit    `json:"unit"`
	Category IngredientCategory  `json:"category"`
}

// Value implements the driver.Valuer interface
func (v *OriginalValues) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// Scan implements the sql.Scanner interface
func (v *OriginalValues) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch raw := value.(type) {
	case []byte:
		bytes = raw
	case string:
		bytes = []byte(raw)
	default:
		return nil
	}

	return json.Unmarshal(bytes, v)
}

type GroceryList struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name           string         `gorm:"size:255;not null" json:"name"`
	MealPlanID     *uuid.UUID     `gorm:"type:uuid;index" json:"meal_plan_id"`
	GeneratedAt    *time.Time     `json:"generated_at"`
	RegeneratedAt  *time.Time     `json:"regenerated_at"`
	ShareToken     *string        `gorm:"size:36;uniqueIndex" json:"-"`
	ShareExpiresAt *time.Time     `json:"-"`
	Items          []GroceryItem  `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" json:"items"`
}

func (l *GroceryList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// Standalone reports whether the list was created directly by the user
// rather than generated from a meal plan. Standalone lists cannot be
// regenerated.
func (l *GroceryList) Standalone() bool {
	return l.MealPlanID == nil
}

// CompletionPercentage is the rounded share of live items that have been
// purchased. An empty list is 0, not a division by zero.
func (l *GroceryList) CompletionPercentage() int {
	total := 0
	purchased := 0
	for _, item := range l.Items {
		if item.DeletedAt.Valid {
			continue
		}
		total++
		if item.Purchased {
			purchased++
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(purchased) / float64(total)))
}

type GroceryItem struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	DeletedAt   gorm.DeletedAt      `gorm:"index" json:"-"`
	ListID      uuid.UUID           `gorm:"type:uuid;not null;index" json:"list_id"`
	Name        string              `gorm:"size:100;not null" json:"name"`
	Quantity    decimal.NullDecimal `gorm:"type:decimal(10,3)" json:"quantity"`
	Unit        *MeasurementUnit    `gorm:"size:10" json:"unit"`
	Category    IngredientCategory  `gorm:"size:20;not null;default:'other'" json:"category"`
	Notes       string              `gorm:"size:255" json:"notes"`
	Purchased   bool                `gorm:"not null;default:false" json:"purchased"`
	PurchasedAt *time.Time          `json:"purchased_at"`
	SourceType  ItemSource          `gorm:"size:10;not null;default:'manual'" json:"source_type"`

	// OriginalValues is non-nil iff a generated item has been hand-edited.
	OriginalValues *OriginalValues `gorm:"type:jsonb" json:"original_values"`

	SortOrder int `gorm:"not null;default:0" json:"sort_order"`
}

func (i *GroceryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Edited reports whether the user has overridden a generated item's values.
func (i *GroceryItem) Edited() bool {
	return i.SourceType == SourceGenerated && i.OriginalValues != nil
}

// MatchName is the reconciliation identity of the item: the original
// (pre-edit) ingredient name when a snapshot exists, the current name
// otherwise, normalized either way.
func (i *GroceryItem) MatchName() string {
	if i.OriginalValues != nil && i.OriginalValues.Name != "" {
		return NormalizeName(i.OriginalValues.Name)
	}
	return NormalizeName(i.Name)
}
