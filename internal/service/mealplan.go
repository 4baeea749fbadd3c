package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pantryplan/pantryplan-backend/internal/models"
	"github.com/pantryplan/pantryplan-backend/internal/types"
)

// MealPlanService handles meal plan and assignment operations
type MealPlanService struct {
	db *gorm.DB
}

func NewMealPlanService(db *gorm.DB) *MealPlanService {
	return &MealPlanService{db: db}
}

func (s *MealPlanService) CreatePlan(ctx context.Context, userID uuid.UUID, req *types.CreateMealPlanRequest) (*models.MealPlan, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, &ValidationError{Field: "end_date", Message: "end date precedes start date"}
	}

	plan := models.MealPlan{
		UserID:    userID,
		Name:      req.Name,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	if err := s.db.WithContext(ctx).Create(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetPlan loads a plan with its assignments and the recipes they reference.
func (s *MealPlanService) GetPlan(ctx context.Context, id uuid.UUID) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("date, meal_type") }).
		Preload("Assignments.Recipe").
		First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

func (s *MealPlanService) ListPlans(ctx context.Context, userID uuid.UUID) ([]*models.MealPlan, error) {
	var plans []models.MealPlan
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("start_date DESC").Find(&plans).Error; err != nil {
		return nil, err
	}
	result := make([]*models.MealPlan, len(plans))
	for i := range plans {
		result[i] = &plans[i]
	}
	return result, nil
}

func (s *MealPlanService) DeletePlan(ctx context.Context, id, userID uuid.UUID) error {
	plan, err := s.GetPlan(ctx, id)
	if err != nil {
		return err
	}
	if plan.UserID != userID {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(&models.MealPlan{}, "id = ?", id).Error
}

// AssignMeal places a recipe on a plan day. The serving multiplier must be
// positive; the UI clamps it to a narrower range but the service tolerates
// any positive value.
func (s *MealPlanService) AssignMeal(ctx context.Context, planID, userID uuid.UUID, req *types.AssignMealRequest) (*models.MealAssignment, error) {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrForbidden
	}

	multiplier := decimal.NewFromInt(1)
	if req.ServingMultiplier != nil {
		if req.ServingMultiplier.Sign() <= 0 {
			return nil, &ValidationError{Field: "serving_multiplier", Message: "serving multiplier must be positive"}
		}
		multiplier = req.ServingMultiplier.Round(3)
	}

	recipeID, err := uuid.Parse(req.RecipeID)
	if err != nil {
		return nil, &ValidationError{Field: "recipe_id", Message: "invalid recipe id"}
	}
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	assignment := models.MealAssignment{
		MealPlanID:        planID,
		RecipeID:          recipeID,
		Date:              req.Date,
		MealType:          models.MealType(req.MealType),
		ServingMultiplier: multiplier,
		Notes:             req.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (s *MealPlanService) RemoveAssignment(ctx context.Context, planID, assignmentID, userID uuid.UUID) error {
	plan, err := s.GetPlan(ctx, planID)
	if err != nil {
		return err
	}
	if plan.UserID != userID {
		return ErrForbidden
	}
	result := s.db.WithContext(ctx).
		Where("id = ? AND meal_plan_id = ?", assignmentID, planID).
		Delete(&models.MealAssignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
