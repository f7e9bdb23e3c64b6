// Package planservice coordinates the store, the search collaborator, and
// the in-progress schedule for one interactive session. It replaces the
// process-wide session state of earlier tooling with an explicit struct
// whose lifetime is the session's.
package planservice

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ravlik/mealdeck/internal/apperr"
	"github.com/ravlik/mealdeck/internal/goals"
	"github.com/ravlik/mealdeck/internal/models"
	"github.com/ravlik/mealdeck/internal/pantry"
	"github.com/ravlik/mealdeck/internal/planner"
	"github.com/ravlik/mealdeck/internal/search"
	"github.com/ravlik/mealdeck/internal/sse"
	"github.com/ravlik/mealdeck/internal/store"
)

const dateLayout = "2006-01-02"

// Searcher is the recipe-search collaborator.
type Searcher interface {
	Search(ctx context.Context, p search.Params) (models.SearchTables, error)
}

// InventoryItem is an ingredient enriched with freshness for display.
type InventoryItem struct {
	models.Ingredient
	DaysUntilExpiry *int `json:"days_until_expiry,omitempty"`
}

// Service owns the session state: the flat working schedule and the result
// tables of the most recent search, which saving a plan draws from.
type Service struct {
	db       *store.DB
	searcher Searcher
	goals    *goals.Provider
	broker   *sse.Broker // optional

	mu     sync.Mutex
	rows   []planner.Row
	tables models.SearchTables
}

// NewService creates a session-scoped planner service. broker may be nil.
func NewService(db *store.DB, searcher Searcher, gp *goals.Provider, broker *sse.Broker) *Service {
	return &Service{
		db:       db,
		searcher: searcher,
		goals:    gp,
		broker:   broker,
		tables:   models.EmptyTables(),
	}
}

// AddIngredient stores a freestanding inventory ingredient.
func (s *Service) AddIngredient(ctx context.Context, ing models.Ingredient) (models.Ingredient, error) {
	ing.RecipeID = nil // inventory items never belong to a recipe
	id, err := s.db.InsertIngredient(ctx, ing)
	if err != nil {
		return models.Ingredient{}, err
	}
	ing.ID = id
	s.publish(sse.Event{Type: sse.EventInventoryAdded, Data: map[string]string{"name": ing.Name}})
	return ing, nil
}

// Inventory lists all ingredients with freshness attached where known.
func (s *Service) Inventory(ctx context.Context) ([]InventoryItem, error) {
	ings, err := pantry.Load(ctx, s.db)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	items := make([]InventoryItem, len(ings))
	for i, ing := range ings {
		items[i] = InventoryItem{Ingredient: ing}
		if ing.ExpiryDate != nil {
			days, err := pantry.DaysUntilExpiry(ing, now)
			if err == nil {
				items[i].DaysUntilExpiry = &days
			}
		}
	}
	return items, nil
}

// InventoryNames returns the sorted, case-folded distinct ingredient names.
func (s *Service) InventoryNames(ctx context.Context) ([]string, error) {
	return pantry.Names(ctx, s.db)
}

// SearchRecipes runs a recipe search biased toward on-hand ingredients and
// retains the result tables for the rest of the session. Goal ranges default
// to the active provider ranges; override may replace them per call. Search
// failures degrade to empty tables, which are retained too, so a failed
// search cannot leave stale results behind.
func (s *Service) SearchRecipes(ctx context.Context, query string, override *goals.Ranges, maxReadyTime int, sort string) (models.SearchTables, error) {
	names, err := s.InventoryNames(ctx)
	if err != nil {
		return models.EmptyTables(), err
	}

	ranges := s.goals.Current()
	if override != nil {
		ranges = *override
	}

	tables, searchErr := s.searcher.Search(ctx, search.Params{
		Query:        query,
		Ingredients:  names,
		Goals:        ranges,
		MaxReadyTime: maxReadyTime,
		Sort:         sort,
	})

	s.mu.Lock()
	s.tables = tables
	s.mu.Unlock()

	return tables, searchErr
}

// Rows returns a copy of the current flat working schedule.
func (s *Service) Rows() []planner.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]planner.Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// AddRows schedules one recipe from the session's search results into a slot
// for every date of the period, appending one flat row per date.
func (s *Service) AddRows(recipeID int64, mealType models.MealType, startDate string, numDays int) ([]planner.Row, error) {
	if !mealType.Valid() {
		return nil, fmt.Errorf("unknown meal type %q: %w", mealType, apperr.ErrNotFound)
	}
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("start date %q: %w", startDate, err)
	}
	if numDays < 1 {
		return nil, fmt.Errorf("num_days must be positive, got %d", numDays)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recipe, ok := s.tables.Recipes[recipeID]
	if !ok {
		return nil, fmt.Errorf("recipe %d not in current search results: %w", recipeID, apperr.ErrNotFound)
	}

	for i := 0; i < numDays; i++ {
		s.rows = append(s.rows, planner.Row{
			Date:       start.AddDate(0, 0, i).Format(dateLayout),
			NumDays:    numDays,
			MealType:   mealType,
			RecipeID:   recipeID,
			RecipeName: recipe.Name,
		})
	}

	out := make([]planner.Row, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

// RemoveRow deletes one working row by position.
func (s *Service) RemoveRow(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.rows) {
		return fmt.Errorf("row %d: %w", index, apperr.ErrNotFound)
	}
	s.rows = append(s.rows[:index], s.rows[index+1:]...)
	return nil
}

// SavePlan assembles the working rows into a structured plan and persists it
// together with the session's result tables, in one transaction.
func (s *Service) SavePlan(ctx context.Context) (*models.MealPlan, error) {
	s.mu.Lock()
	rows := make([]planner.Row, len(s.rows))
	copy(rows, s.rows)
	tables := s.tables
	s.mu.Unlock()

	plan, err := planner.FromRows(rows)
	if err != nil {
		return nil, err
	}
	id, err := s.db.SavePlan(ctx, plan, tables)
	if err != nil {
		return nil, err
	}
	plan.ID = id
	s.publish(sse.Event{Type: sse.EventPlanSaved, Data: map[string]int64{"id": id}})
	return plan, nil
}

// MealPlans lists persisted meal-plan headers, newest first.
func (s *Service) MealPlans(ctx context.Context) ([]models.MealPlan, error) {
	return s.db.ListMealPlans(ctx)
}

// PlanRows expands one persisted plan back to flat rows with the stored
// recipe attributes attached.
func (s *Service) PlanRows(ctx context.Context, planID int64) ([]planner.ExpandedRow, error) {
	plans, err := s.db.ListMealPlans(ctx)
	if err != nil {
		return nil, err
	}
	var plan *models.MealPlan
	for i := range plans {
		if plans[i].ID == planID {
			plan = &plans[i]
			break
		}
	}
	if plan == nil {
		return nil, fmt.Errorf("meal plan %d: %w", planID, apperr.ErrNotFound)
	}

	recipes, err := s.db.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	lookup := make(map[int64]models.Recipe, len(recipes))
	for _, r := range recipes {
		lookup[r.RecipeID] = r
	}
	return planner.ToRows(plan, lookup)
}

// GoalRanges returns the active nutrition goal ranges.
func (s *Service) GoalRanges() goals.Ranges {
	return s.goals.Current()
}

// ClearStore wipes all persisted rows, resets id counters, and discards the
// session's working schedule and search results.
func (s *Service) ClearStore(ctx context.Context) error {
	if err := s.db.Clear(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.rows = nil
	s.tables = models.EmptyTables()
	s.mu.Unlock()
	s.publish(sse.Event{Type: sse.EventStoreCleared, Data: map[string]string{}})
	return nil
}

func (s *Service) publish(ev sse.Event) {
	if s.broker != nil {
		s.broker.Publish(ev)
	}
}
