package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pantryplan/pantryplan-backend/internal/api"
	"github.com/pantryplan/pantryplan-backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	mealPlanHandler *api.MealPlanHandler,
	groceryHandler *api.GroceryHandler,
	validator middleware.TokenValidator,
	allowedOrigins []string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(v1)
	groceryHandler.RegisterSharedRoutes(v1)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(validator))
	{
		recipeHandler.RegisterRoutes(protected)
		mealPlanHandler.RegisterRoutes(protected)
		groceryHandler.RegisterRoutes(protected)
	}

	return router
}
