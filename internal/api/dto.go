package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ravlik/mealdeck/internal/goals"
	"github.com/ravlik/mealdeck/internal/models"
	"github.com/ravlik/mealdeck/internal/planner"
	"github.com/ravlik/mealdeck/internal/planservice"
	"github.com/ravlik/mealdeck/internal/search"
)

// AddIngredientRequest is the request body for adding an inventory item.
type AddIngredientRequest struct {
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"`
	ExpiryDate string  `json:"expiry_date,omitempty"` // YYYY-MM-DD, optional
}

// Validate validates the add-ingredient request.
func (r *AddIngredientRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Amount, validation.Min(0.0)),
		validation.Field(&r.Unit, validation.Required),
		validation.Field(&r.ExpiryDate, validation.Date("2006-01-02")),
	)
}

// SearchRequest is the request body for running a recipe search. Goals, when
// present, override the active goal ranges for this call only.
type SearchRequest struct {
	Query        string        `json:"query"`
	Goals        *goals.Ranges `json:"goals,omitempty"`
	MaxReadyTime int           `json:"max_ready_time,omitempty"`
	Sort         string        `json:"sort,omitempty"`
}

// Validate validates the search request.
func (r *SearchRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.MaxReadyTime, validation.Min(0)),
		validation.Field(&r.Sort, validation.In(
			search.SortMaxUsedIngredients,
			search.SortMinMissingIngredients,
			search.SortTime,
		)),
	)
}

// AddPlanRowsRequest schedules one recipe into a slot across the period.
type AddPlanRowsRequest struct {
	RecipeID  int64           `json:"recipe_id"`
	MealType  models.MealType `json:"meal_type"`
	StartDate string          `json:"start_date"`
	NumDays   int             `json:"num_days"`
}

// Validate validates the add-plan-rows request.
func (r *AddPlanRowsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RecipeID, validation.Required),
		validation.Field(&r.MealType, validation.Required, validation.In(
			models.MealBreakfast, models.MealLunch, models.MealDinner,
		)),
		validation.Field(&r.StartDate, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&r.NumDays, validation.Required, validation.Min(1)),
	)
}

// InventoryResponse wraps inventory listings.
type InventoryResponse struct {
	Ingredients []planservice.InventoryItem `json:"ingredients"`
}

// NamesResponse wraps the distinct inventory name set.
type NamesResponse struct {
	Names []string `json:"names"`
}

// PlanRowsResponse wraps the flat working schedule.
type PlanRowsResponse struct {
	Rows []planner.Row `json:"rows"`
}

// MealPlansResponse wraps persisted meal-plan headers.
type MealPlansResponse struct {
	MealPlans []models.MealPlan `json:"meal_plans"`
}

// SearchResponse wraps the three result tables plus an optional degradation
// notice when the collaborator failed and empty tables were substituted.
type SearchResponse struct {
	Tables  models.SearchTables `json:"tables"`
	Warning string              `json:"warning,omitempty"`
}
