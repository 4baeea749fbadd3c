package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MealPlan struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	UserID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string           `gorm:"size:255;not null" json:"name"`
	StartDate   time.Time        `gorm:"not null" json:"start_date"`
	EndDate     time.Time        `gorm:"not null" json:"end_date"`
	Assignments []MealAssignment `gorm:"constraint:OnDelete:CASCADE" json:"assignments"`
}

func (p *MealPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// MealAssignment places a recipe on a plan day. One assignment per
// date+meal type is the natural key but is not enforced by the schema.
type MealAssignment struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	MealPlanID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"meal_plan_id"`
	RecipeID          uuid.UUID       `gorm:"type:uuid;not null" json:"recipe_id"`
	Recipe            Recipe          `json:"recipe"`
	Date              time.Time       `gorm:"not null" json:"date"`
	MealType          MealType        `gorm:"size:10;not null" json:"meal_type"`
	ServingMultiplier decimal.Decimal `gorm:"type:decimal(10,3);not null;default:1.0" json:"serving_multiplier"`
	Notes             string          `gorm:"size:255" json:"notes"`
}

func (a *MealAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
