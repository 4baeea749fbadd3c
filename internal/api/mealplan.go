package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pantryplan/pantryplan-backend/internal/service"
	"github.com/pantryplan/pantryplan-backend/internal/types"
)

type MealPlanHandler struct {
	planService    *service.MealPlanService
	groceryService *service.GroceryService
}

func NewMealPlanHandler(planService *service.MealPlanService, groceryService *service.GroceryService) *MealPlanHandler {
	return &MealPlanHandler{planService: planService, groceryService: groceryService}
}

func (h *MealPlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/meal-plans")
	{
		plans.GET("", h.ListPlans)
		plans.GET("/:id", h.GetPlan)
		plans.POST("", h.CreatePlan)
		plans.DELETE("/:id", h.DeletePlan)
		plans.POST("/:id/assignments", h.AssignMeal)
		plans.DELETE("/:id/assignments/:assignmentID", h.RemoveAssignment)
		plans.POST("/:id/grocery-list", h.GenerateGroceryList)
	}
}

func (h *MealPlanHandler) ListPlans(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch meal plans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal_plans": plans})
}

func (h *MealPlanHandler) GetPlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if plan.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *MealPlanHandler) CreatePlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

func (h *MealPlanHandler) DeletePlan(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), id, userID); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *MealPlanHandler) AssignMeal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req types.AssignMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assignment, err := h.planService.AssignMeal(c.Request.Context(), id, userID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

func (h *MealPlanHandler) RemoveAssignment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	assignmentID, ok := parseIDParam(c, "assignmentID")
	if !ok {
		return
	}

	if err := h.planService.RemoveAssignment(c.Request.Context(), id, assignmentID, userID); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GenerateGroceryList computes a fresh grocery list from the plan.
func (h *MealPlanHandler) GenerateGroceryList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.groceryService.Generate(c.Request.Context(), id, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, listResponse(list))
}
