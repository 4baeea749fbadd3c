package main

import (
	"fmt"
	"log"

	"gorm.io/gorm/clause"

	"github.com/pantryplan/pantryplan-backend/config"
	"github.com/pantryplan/pantryplan-backend/internal/database"
	"github.com/pantryplan/pantryplan-backend/internal/models"
)

// Reference ingredients with their store categories. Recipes can still
// create ingredients on the fly; seeding just gives new installs sensible
// category defaults instead of everything landing in "other".
var seedIngredients = map[models.IngredientCategory][]string{
	models.CategoryProduce: {
		"onion", "garlic", "carrot", "celery", "potato", "tomato",
		"bell pepper", "spinach", "lettuce", "cucumber", "lemon", "lime",
		"apple", "banana", "mushroom", "zucchini", "broccoli", "cilantro",
		"parsley", "basil", "ginger", "scallion", "avocado",
	},
	models.CategoryDairy: {
		"milk", "butter", "heavy cream", "sour cream", "cream cheese",
		"cheddar cheese", "mozzarella", "parmesan", "yogurt", "eggs",
	},
	models.CategoryMeat: {
		"chicken breast", "chicken thighs", "ground beef", "bacon",
		"pork chops", "ham", "sausage", "ground turkey",
	},
	models.CategorySeafood: {
		"salmon", "shrimp", "tuna", "cod", "tilapia",
	},
	models.CategoryBakery: {
		"bread", "tortillas", "hamburger buns", "baguette", "pita",
	},
	models.CategoryFrozen: {
		"frozen peas", "frozen corn", "frozen spinach", "ice cream",
	},
	models.CategoryPantry: {
		"olive oil", "vegetable oil", "flour", "sugar", "brown sugar",
		"rice", "pasta", "canned tomatoes", "tomato paste", "chicken broth",
		"soy sauce", "vinegar", "honey", "peanut butter", "oats",
		"black beans", "chickpeas", "baking powder", "baking soda",
	},
	models.CategorySpices: {
		"salt", "black pepper", "cumin", "paprika", "chili powder",
		"oregano", "thyme", "cinnamon", "garlic powder", "onion powder",
		"red pepper flakes", "bay leaves", "curry powder",
	},
	models.CategoryBeverages: {
		"coffee", "orange juice", "sparkling water",
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var total int
	for category, names := range seedIngredients {
		for _, name := range names {
			ingredient := models.Ingredient{Name: name, Category: category}
			err := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&ingredient).Error
			if err != nil {
				log.Fatalf("Failed to seed ingredient %q: %v", name, err)
			}
			total++
		}
	}

	fmt.Printf("Seeded %d reference ingredients\n", total)
}
