// Package models defines the domain types for mealdeck.
package models

import "time"

// MealType identifies one of the three daily meal slots.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// MealTypes lists the slots in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner}

// Valid reports whether m is one of the three known slots.
func (m MealType) Valid() bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner:
		return true
	}
	return false
}

// Ingredient is either a freestanding inventory item (RecipeID nil) or a
// component line of a stored recipe (RecipeID set). Never both.
type Ingredient struct {
	ID             int64      `json:"id"`
	IngredientID   int64      `json:"ingredient_id"`
	Name           string     `json:"name"`
	Amount         float64    `json:"amount"`
	Unit           string     `json:"unit"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
	OriginalString string     `json:"original_string,omitempty"`
	Aisle          string     `json:"aisle,omitempty"`
	RecipeID       *int64     `json:"recipe_id,omitempty"`
}

// Recipe holds the attributes of an external search result. RecipeID is the
// identifier assigned by the search provider, never generated locally.
type Recipe struct {
	RecipeID  int64   `json:"recipe_id"`
	Name      string  `json:"name"`
	SourceURL string  `json:"source_url"`
	TotalCost float64 `json:"total_cost"`
	PrepTime  int     `json:"prep_time"`
	ImageURL  string  `json:"image_url"`
	Servings  int     `json:"servings"`
}

// Nutrition holds per-serving nutrition facts, 1:1 with a recipe.
// Sugar is reported by the search provider but not persisted.
type Nutrition struct {
	RecipeID    int64   `json:"recipe_id"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	Fiber       float64 `json:"fiber"`
	Sugar       float64 `json:"sugar,omitempty"`
	Sodium      float64 `json:"sodium"`
	Cholesterol float64 `json:"cholesterol"`
}

// MealPlan is the structured, persisted form of a schedule: a start date,
// a day count, and one ordered recipe-id sequence per slot.
type MealPlan struct {
	ID        int64   `json:"id"`
	StartDate string  `json:"start_date"` // YYYY-MM-DD
	NumDays   int     `json:"num_days"`
	Breakfast []int64 `json:"breakfast"`
	Lunch     []int64 `json:"lunch"`
	Dinner    []int64 `json:"dinner"`
}

// SlotIDs returns the identifier list for the given slot.
func (p *MealPlan) SlotIDs(m MealType) []int64 {
	switch m {
	case MealBreakfast:
		return p.Breakfast
	case MealLunch:
		return p.Lunch
	case MealDinner:
		return p.Dinner
	}
	return nil
}

// AllRecipeIDs returns the union of the three slot lists in slot order,
// preserving duplicates.
func (p *MealPlan) AllRecipeIDs() []int64 {
	out := make([]int64, 0, len(p.Breakfast)+len(p.Lunch)+len(p.Dinner))
	out = append(out, p.Breakfast...)
	out = append(out, p.Lunch...)
	out = append(out, p.Dinner...)
	return out
}

// SearchTables is the parsed output of one recipe search: three tables keyed
// by recipe identifier, consumed by the persistence gateway.
type SearchTables struct {
	Recipes     map[int64]Recipe    `json:"recipes"`
	Ingredients []Ingredient        `json:"ingredients"`
	Nutrition   map[int64]Nutrition `json:"nutrition"`
}

// EmptyTables returns an all-empty result set, the degraded output used when
// the search collaborator fails.
func EmptyTables() SearchTables {
	return SearchTables{
		Recipes:     map[int64]Recipe{},
		Ingredients: []Ingredient{},
		Nutrition:   map[int64]Nutrition{},
	}
}
