package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pantryplan/pantryplan-backend/internal/middleware"
	"github.com/pantryplan/pantryplan-backend/internal/models"
	"github.com/pantryplan/pantryplan-backend/internal/service"
)

func setupGroceryAPI(t *testing.T) (*gin.Engine, string) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.MealPlan{},
		&models.MealAssignment{},
		&models.GroceryList{},
		&models.GroceryItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	authService := service.NewAuthService(db, "secret")
	groceryService := service.NewGroceryService(db, nil)
	handler := NewGroceryHandler(groceryService)

	router := gin.New()
	v1 := router.Group("/api/v1")
	handler.RegisterSharedRoutes(v1)
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	handler.RegisterRoutes(protected)

	token, err := authService.Register("Tester", "tester@example.com", "hunter2hunter2")
	require.NoError(t, err)
	return router, token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateListAndAddItem(t *testing.T) {
	router, token := setupGroceryAPI(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/grocery-lists", token, `{"name":"Errands"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		List models.GroceryList `json:"list"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodPost, "/api/v1/grocery-lists/"+created.List.ID.String()+"/items", token,
		`{"name":"milk","quantity":"2","unit":"cup","category":"dairy"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var item models.GroceryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))
	assert.Equal(t, models.SourceManual, item.SourceType)

	w = doJSON(t, router, http.MethodGet, "/api/v1/grocery-lists/"+created.List.ID.String(), token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		List                 models.GroceryList `json:"list"`
		CompletionPercentage int                `json:"completion_percentage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.List.Items, 1)
	assert.Equal(t, 0, got.CompletionPercentage)
}

func TestTogglePurchasedUpdatesCompletion(t *testing.T) {
	router, token := setupGroceryAPI(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/grocery-lists", token, `{"name":"Errands"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		List models.GroceryList `json:"list"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	listID := created.List.ID.String()

	w = doJSON(t, router, http.MethodPost, "/api/v1/grocery-lists/"+listID+"/items", token, `{"name":"milk"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var item models.GroceryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &item))

	w = doJSON(t, router, http.MethodPost, "/api/v1/grocery-items/"+item.ID.String()+"/purchase", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/grocery-lists/"+listID, token, "")
	var got struct {
		CompletionPercentage int `json:"completion_percentage"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 100, got.CompletionPercentage)
}

func TestRegenerateStandaloneConflict(t *testing.T) {
	router, token := setupGroceryAPI(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/grocery-lists", token, `{"name":"Errands"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		List models.GroceryList `json:"list"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodPost, "/api/v1/grocery-lists/"+created.List.ID.String()+"/regenerate", token, "")
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestSharedListIsPublic(t *testing.T) {
	router, token := setupGroceryAPI(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/grocery-lists", token, `{"name":"Party"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		List models.GroceryList `json:"list"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodPost, "/api/v1/grocery-lists/"+created.List.ID.String()+"/share", token, `{}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var share struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &share))
	require.NotEmpty(t, share.Token)

	// No Authorization header: the share link is a public read.
	w = doJSON(t, router, http.MethodGet, "/api/v1/shared/"+share.Token, "", "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRoutesRequireAuth(t *testing.T) {
	router, _ := setupGroceryAPI(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/grocery-lists", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
