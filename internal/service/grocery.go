package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pantryplan/pantryplan-backend/internal/aggregate"
	"github.com/pantryplan/pantryplan-backend/internal/models"
	"github.com/pantryplan/pantryplan-backend/internal/types"
)

const (
	defaultShareTTL  = 7 * 24 * time.Hour
	shareKeyPrefix   = "share:"
	sortOrderSpacing = 10
)

// GroceryService owns grocery list generation, reconciliation, and item
// mutations. The redis client caches share-token lookups and may be nil.
type GroceryService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewGroceryService(db *gorm.DB, rdb *redis.Client) *GroceryService {
	return &GroceryService{db: db, redis: rdb}
}

// CreateStandalone creates an empty user-managed list. Standalone lists
// hold manual items only and can never be regenerated.
func (s *GroceryService) CreateStandalone(ctx context.Context, userID uuid.UUID, name string) (*models.GroceryList, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Field: "name", Message: "list name is required"}
	}
	list := models.GroceryList{UserID: userID, Name: name}
	if err := s.db.WithContext(ctx).Create(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// Generate computes a fresh grocery list from a meal plan's assignments.
// It is a pure function of the plan, its assignments, and their recipes:
// generating twice from an unchanged plan yields equal item sets.
func (s *GroceryService) Generate(ctx context.Context, planID, userID uuid.UUID) (*models.GroceryList, error) {
	plan, err := s.loadPlanForAggregation(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrForbidden
	}

	demands := aggregate.Collect(planAssignments(plan))
	now := time.Now()
	list := models.GroceryList{
		UserID:      userID,
		Name:        plan.Name,
		MealPlanID:  &plan.ID,
		GeneratedAt: &now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&list).Error; err != nil {
			return err
		}
		for i, d := range demands {
			item := itemFromDemand(list.ID, d, i*sortOrderSpacing)
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, list.ID, userID)
}

// Regenerate recomputes the generated portion of an existing list without
// disturbing manual items, user edits, or explicit removals. The whole
// reconciliation is applied in one transaction: it either fully applies or
// leaves the list untouched.
func (s *GroceryService) Regenerate(ctx context.Context, listID, userID uuid.UUID) (*models.GroceryList, error) {
	var list models.GroceryList
	if err := s.db.WithContext(ctx).First(&list, "id = ?", listID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if list.UserID != userID {
		return nil, ErrForbidden
	}
	if list.Standalone() {
		return nil, ErrStandaloneList
	}

	plan, err := s.loadPlanForAggregation(ctx, *list.MealPlanID)
	if err != nil {
		return nil, err
	}
	demands := aggregate.Collect(planAssignments(plan))

	// Soft-deleted rows are part of reconciliation: they record removals
	// that must survive.
	var existing []models.GroceryItem
	if err := s.db.WithContext(ctx).Unscoped().
		Where("list_id = ?", listID).
		Order("sort_order").
		Find(&existing).Error; err != nil {
		return nil, err
	}

	recPlan := aggregate.Reconcile(demands, existing)

	nextSort := 0
	for _, item := range existing {
		if item.SortOrder >= nextSort {
			nextSort = item.SortOrder + sortOrderSpacing
		}
	}

	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range recPlan.Update {
			updates := map[string]interface{}{
				"quantity": u.Quantity,
				"unit":     u.Unit,
				"category": u.Category,
			}
			if err := tx.Model(&models.GroceryItem{}).Where("id = ?", u.ItemID).Updates(updates).Error; err != nil {
				return err
			}
		}
		for _, id := range recPlan.SoftDelete {
			if err := tx.Delete(&models.GroceryItem{}, "id = ?", id).Error; err != nil {
				return err
			}
		}
		for i, d := range recPlan.Create {
			item := itemFromDemand(listID, d, nextSort+i*sortOrderSpacing)
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.GroceryList{}).Where("id = ?", listID).
			Update("regenerated_at", now).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, listID, userID)
}

// Get loads a list with its live items in display order.
func (s *GroceryService) Get(ctx context.Context, listID, userID uuid.UUID) (*models.GroceryList, error) {
	list, err := s.loadList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.UserID != userID {
		return nil, ErrForbidden
	}
	return list, nil
}

func (s *GroceryService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.GroceryList, error) {
	var lists []models.GroceryList
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&lists).Error; err != nil {
		return nil, err
	}
	result := make([]*models.GroceryList, len(lists))
	for i := range lists {
		result[i] = &lists[i]
	}
	return result, nil
}

func (s *GroceryService) DeleteList(ctx context.Context, listID, userID uuid.UUID) error {
	list, err := s.Get(ctx, listID, userID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.GroceryList{}, "id = ?", list.ID).Error
}

// AddItem appends a manual item to a list.
func (s *GroceryService) AddItem(ctx context.Context, listID, userID uuid.UUID, req *types.AddItemRequest) (*models.GroceryItem, error) {
	list, err := s.Get(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "item name is required"}
	}
	if req.Quantity != nil && req.Quantity.Sign() <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "quantity must be positive"}
	}
	unit, err := parseUnit(req.Unit)
	if err != nil {
		return nil, err
	}

	category := models.IngredientCategory(req.Category)
	if category == "" {
		category = models.CategoryOther
	}

	nextSort := 0
	for _, item := range list.Items {
		if item.SortOrder >= nextSort {
			nextSort = item.SortOrder + sortOrderSpacing
		}
	}

	item := models.GroceryItem{
		ListID:     list.ID,
		Name:       req.Name,
		Unit:       unit,
		Category:   category,
		Notes:      req.Notes,
		SourceType: models.SourceManual,
		SortOrder:  nextSort,
	}
	if req.Quantity != nil {
		item.Quantity = decimal.NullDecimal{Decimal: req.Quantity.Round(3), Valid: true}
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem applies user edits. The first edit of a generated item
// snapshots its pre-edit values; that snapshot is what makes the edit
// sticky across regenerations.
func (s *GroceryService) UpdateItem(ctx context.Context, itemID, userID uuid.UUID, req *types.UpdateItemRequest) (*models.GroceryItem, error) {
	item, err := s.loadItem(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "item name is required"}
	}
	if req.Quantity != nil && req.Quantity.Sign() <= 0 {
		return nil, &ValidationError{Field: "quantity", Message: "quantity must be positive"}
	}
	unit, err := parseUnit(req.Unit)
	if err != nil {
		return nil, err
	}

	// Only edits to the generated fields freeze the item against
	// regeneration; a notes-only or no-op update must not snapshot.
	if item.SourceType == models.SourceGenerated && item.OriginalValues == nil && changesGeneratedFields(item, req, unit) {
		item.OriginalValues = &models.OriginalValues{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Category: item.Category,
		}
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Quantity != nil {
		item.Quantity = decimal.NullDecimal{Decimal: req.Quantity.Round(3), Valid: true}
	}
	if req.Unit != nil {
		item.Unit = unit
	}
	if req.Category != nil {
		item.Category = models.IngredientCategory(*req.Category)
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}

	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item. Manual items are hard-deleted; generated
// items are soft-deleted so regeneration can see the removal and honor it.
func (s *GroceryService) DeleteItem(ctx context.Context, itemID, userID uuid.UUID) error {
	item, err := s.loadItem(ctx, itemID, userID)
	if err != nil {
		return err
	}
	if item.SourceType == models.SourceManual {
		return s.db.WithContext(ctx).Unscoped().Delete(&models.GroceryItem{}, "id = ?", item.ID).Error
	}
	return s.db.WithContext(ctx).Delete(&models.GroceryItem{}, "id = ?", item.ID).Error
}

// TogglePurchased flips an item's purchased flag and stamps purchased_at.
func (s *GroceryService) TogglePurchased(ctx context.Context, itemID, userID uuid.UUID) (*models.GroceryItem, error) {
	item, err := s.loadItem(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}

	item.Purchased = !item.Purchased
	if item.Purchased {
		now := time.Now()
		item.PurchasedAt = &now
	} else {
		item.PurchasedAt = nil
	}

	updates := map[string]interface{}{
		"purchased":    item.Purchased,
		"purchased_at": item.PurchasedAt,
	}
	if err := s.db.WithContext(ctx).Model(&models.GroceryItem{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Share issues a read-only link token for a list. The token is cached in
// redis with the same TTL so shared reads skip the token index.
func (s *GroceryService) Share(ctx context.Context, listID, userID uuid.UUID, ttl time.Duration) (string, time.Time, error) {
	list, err := s.Get(ctx, listID, userID)
	if err != nil {
		return "", time.Time{}, err
	}
	if ttl <= 0 {
		ttl = defaultShareTTL
	}

	token := uuid.NewString()
	expires := time.Now().Add(ttl)
	updates := map[string]interface{}{
		"share_token":      token,
		"share_expires_at": expires,
	}
	if err := s.db.WithContext(ctx).Model(&models.GroceryList{}).Where("id = ?", list.ID).Updates(updates).Error; err != nil {
		return "", time.Time{}, err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, shareKeyPrefix+token, list.ID.String(), ttl).Err(); err != nil {
			// Cache miss only; the DB token index still resolves the link.
			log.Printf("failed to cache share token: %v", err)
		}
	}
	return token, expires, nil
}

// ResolveShare returns the list behind a share token, for unauthenticated
// read access.
func (s *GroceryService) ResolveShare(ctx context.Context, token string) (*models.GroceryList, error) {
	if s.redis != nil {
		if idStr, err := s.redis.Get(ctx, shareKeyPrefix+token).Result(); err == nil {
			if listID, err := uuid.Parse(idStr); err == nil {
				list, err := s.loadList(ctx, listID)
				if err == nil && shareValid(list, token) {
					return list, nil
				}
			}
		}
	}

	var list models.GroceryList
	if err := s.db.WithContext(ctx).First(&list, "share_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !shareValid(&list, token) {
		return nil, ErrShareExpired
	}
	return s.loadList(ctx, list.ID)
}

// ExportText renders a list as plain text with markdown-style checkboxes,
// grouped by category in display order.
func (s *GroceryService) ExportText(list *models.GroceryList) string {
	byCategory := make(map[models.IngredientCategory][]models.GroceryItem)
	for _, item := range list.Items {
		if item.DeletedAt.Valid {
			continue
		}
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	var categories []models.IngredientCategory
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool {
		return models.CategoryRank(categories[i]) < models.CategoryRank(categories[j])
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", list.Name)
	for _, c := range categories {
		fmt.Fprintf(&b, "\n## %s\n", categoryHeading(c))
		for _, item := range byCategory[c] {
			box := "[ ]"
			if item.Purchased {
				box = "[x]"
			}
			fmt.Fprintf(&b, "- %s %s\n", box, itemLabel(item))
		}
	}
	return b.String()
}

func itemLabel(item models.GroceryItem) string {
	parts := []string{}
	if item.Quantity.Valid {
		parts = append(parts, trimZeros(item.Quantity.Decimal))
	}
	if item.Unit != nil {
		parts = append(parts, string(*item.Unit))
	}
	parts = append(parts, item.Name)
	label := strings.Join(parts, " ")
	if item.Notes != "" {
		label += " (" + item.Notes + ")"
	}
	return label
}

func categoryHeading(c models.IngredientCategory) string {
	s := string(c)
	if s == "" {
		return "Other"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func trimZeros(d decimal.Decimal) string {
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

func shareValid(list *models.GroceryList, token string) bool {
	if list.ShareToken == nil || *list.ShareToken != token {
		return false
	}
	return list.ShareExpiresAt == nil || list.ShareExpiresAt.After(time.Now())
}

func (s *GroceryService) loadList(ctx context.Context, listID uuid.UUID) (*models.GroceryList, error) {
	var list models.GroceryList
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		First(&list, "id = ?", listID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &list, nil
}

func (s *GroceryService) loadItem(ctx context.Context, itemID, userID uuid.UUID) (*models.GroceryItem, error) {
	var item models.GroceryItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var list models.GroceryList
	if err := s.db.WithContext(ctx).First(&list, "id = ?", item.ListID).Error; err != nil {
		return nil, err
	}
	if list.UserID != userID {
		return nil, ErrForbidden
	}
	return &item, nil
}

func (s *GroceryService) loadPlanForAggregation(ctx context.Context, planID uuid.UUID) (*models.MealPlan, error) {
	var plan models.MealPlan
	err := s.db.WithContext(ctx).
		Preload("Assignments").
		Preload("Assignments.Recipe.Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Assignments.Recipe.Ingredients.Ingredient").
		First(&plan, "id = ?", planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// planAssignments adapts a loaded plan into the aggregation core's input.
func planAssignments(plan *models.MealPlan) []aggregate.Assignment {
	assignments := make([]aggregate.Assignment, 0, len(plan.Assignments))
	for _, a := range plan.Assignments {
		in := aggregate.Assignment{Multiplier: a.ServingMultiplier}
		for _, line := range a.Recipe.Ingredients {
			in.Lines = append(in.Lines, aggregate.Line{
				Name:     line.Ingredient.Name,
				Category: line.Ingredient.Category,
				Quantity: line.Quantity,
				Unit:     line.Unit,
			})
		}
		assignments = append(assignments, in)
	}
	return assignments
}

func itemFromDemand(listID uuid.UUID, d aggregate.Demand, sortOrder int) models.GroceryItem {
	return models.GroceryItem{
		ListID:     listID,
		Name:       d.Name,
		Quantity:   d.Quantity,
		Unit:       d.Unit,
		Category:   d.Category,
		SourceType: models.SourceGenerated,
		SortOrder:  sortOrder,
	}
}

// changesGeneratedFields reports whether the update would alter any of the
// fields regeneration recomputes (name, quantity, unit, category).
func changesGeneratedFields(item *models.GroceryItem, req *types.UpdateItemRequest, unit *models.MeasurementUnit) bool {
	if req.Name != nil && *req.Name != item.Name {
		return true
	}
	if req.Quantity != nil && (!item.Quantity.Valid || !item.Quantity.Decimal.Equal(req.Quantity.Round(3))) {
		return true
	}
	if req.Unit != nil {
		switch {
		case item.Unit == nil && unit != nil, item.Unit != nil && unit == nil:
			return true
		case item.Unit != nil && unit != nil && *item.Unit != *unit:
			return true
		}
	}
	if req.Category != nil && models.IngredientCategory(*req.Category) != item.Category {
		return true
	}
	return false
}

func parseUnit(raw *string) (*models.MeasurementUnit, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	unit := models.MeasurementUnit(*raw)
	if !unit.Valid() {
		return nil, &ValidationError{Field: "unit", Message: "unknown unit " + *raw}
	}
	return &unit, nil
}
