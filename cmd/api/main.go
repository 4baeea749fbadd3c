package main

import (
	"log"

	"github.com/pantryplan/pantryplan-backend/config"
	"github.com/pantryplan/pantryplan-backend/internal/api"
	"github.com/pantryplan/pantryplan-backend/internal/database"
	"github.com/pantryplan/pantryplan-backend/internal/router"
	"github.com/pantryplan/pantryplan-backend/internal/server"
	"github.com/pantryplan/pantryplan-backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Share links degrade to DB-only lookups without redis.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: redis unavailable: %v", err)
		redisClient = nil
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	mealPlanService := service.NewMealPlanService(db)
	groceryService := service.NewGroceryService(db, redisClient)

	engine := router.SetupRouter(
		api.NewAuthHandler(authService),
		api.NewRecipeHandler(recipeService),
		api.NewMealPlanHandler(mealPlanService, groceryService),
		api.NewGroceryHandler(groceryService),
		authService,
		cfg.AllowedOrigins,
	)

	srv := server.New(engine, cfg.ServerHost+":"+cfg.ServerPort)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
