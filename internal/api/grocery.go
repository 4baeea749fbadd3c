package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pantryplan/pantryplan-backend/internal/service"
	"github.com/pantryplan/pantryplan-backend/internal/types"
)

type GroceryHandler struct {
	groceryService *service.GroceryService
}

func NewGroceryHandler(groceryService *service.GroceryService) *GroceryHandler {
	return &GroceryHandler{groceryService: groceryService}
}

func (h *GroceryHandler) RegisterRoutes(router *gin.RouterGroup) {
	lists := router.Group("/grocery-lists")
	{
		lists.GET("", h.ListLists)
		lists.GET("/:id", h.GetList)
		lists.POST("", h.CreateList)
		lists.DELETE("/:id", h.DeleteList)
		lists.POST("/:id/regenerate", h.RegenerateList)
		lists.POST("/:id/items", h.AddItem)
		lists.POST("/:id/share", h.ShareList)
		lists.GET("/:id/export", h.ExportList)
	}
	items := router.Group("/grocery-items")
	{
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)
		items.POST("/:id/purchase", h.TogglePurchased)
	}
}

// RegisterSharedRoutes exposes the unauthenticated share-link read.
func (h *GroceryHandler) RegisterSharedRoutes(router *gin.RouterGroup) {
	router.GET("/shared/:token", h.GetSharedList)
}

func (h *GroceryHandler) ListLists(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	lists, err := h.groceryService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch grocery lists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"grocery_lists": lists})
}

func (h *GroceryHandler) GetList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.groceryService.Get(c.Request.Context(), id, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(list))
}

// CreateList creates a standalone list; generated lists come from the
// meal-plan routes.
func (h *GroceryHandler) CreateList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.groceryService.CreateStandalone(c.Request.Context(), userID, req.Name)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, listResponse(list))
}

func (h *GroceryHandler) DeleteList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.groceryService.DeleteList(c.Request.Context(), id, userID); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *GroceryHandler) RegenerateList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.groceryService.Regenerate(c.Request.Context(), id, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(list))
}

func (h *GroceryHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req types.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.groceryService.AddItem(c.Request.Context(), id, userID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *GroceryHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req types.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.groceryService.UpdateItem(c.Request.Context(), id, userID, &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *GroceryHandler) DeleteItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.groceryService.DeleteItem(c.Request.Context(), id, userID); err != nil {
		writeServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *GroceryHandler) TogglePurchased(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.groceryService.TogglePurchased(c.Request.Context(), id, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *GroceryHandler) ShareList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req types.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ttl := time.Duration(req.ExpiresInHours) * time.Hour
	token, expires, err := h.groceryService.Share(c.Request.Context(), id, userID, ttl)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "expires_at": expires})
}

func (h *GroceryHandler) GetSharedList(c *gin.Context) {
	list, err := h.groceryService.ResolveShare(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(list))
}

func (h *GroceryHandler) ExportList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.groceryService.Get(c.Request.Context(), id, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.String(http.StatusOK, h.groceryService.ExportText(list))
}
