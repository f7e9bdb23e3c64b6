// Package planner converts between the two representations of a meal
// schedule: the flat working table the presentation layer builds row by row,
// and the structured plan that gets persisted.
package planner

import (
	"fmt"
	"sort"
	"time"

	"github.com/ravlik/mealdeck/internal/apperr"
	"github.com/ravlik/mealdeck/internal/models"
)

const dateLayout = "2006-01-02"

// Row is one entry of the flat working table: a recipe scheduled into one
// slot on one date. RecipeName is carried for display only.
type Row struct {
	Date       string          `json:"date"` // YYYY-MM-DD
	NumDays    int             `json:"num_days"`
	MealType   models.MealType `json:"meal_type"`
	RecipeID   int64           `json:"recipe_id"`
	RecipeName string          `json:"recipe_name,omitempty"`
}

// ExpandedRow is one entry of the full-fidelity export: the scheduled date
// and slot plus every attribute of the referenced recipe.
type ExpandedRow struct {
	Date     string          `json:"date"`
	MealType models.MealType `json:"meal_type"`
	Recipe   models.Recipe   `json:"recipe"`
}

// FromRows assembles a structured plan from flat schedule rows.
//
// The earliest calendar date present becomes the start date and the count of
// distinct dates the day count. Rows are ordered by date (stable, so input
// order among equal dates survives) before the per-slot id lists are
// collected, which makes round-trips deterministic regardless of the order
// the presentation layer appended rows in. Rows with an unknown meal type
// are dropped.
func FromRows(rows []Row) (*models.MealPlan, error) {
	if len(rows) == 0 {
		return nil, apperr.ErrEmptyPlan
	}

	distinct := make(map[string]struct{})
	for _, r := range rows {
		if _, err := time.Parse(dateLayout, r.Date); err != nil {
			return nil, fmt.Errorf("planner: row date %q: %w", r.Date, err)
		}
		distinct[r.Date] = struct{}{}
	}

	start := rows[0].Date
	for d := range distinct {
		if d < start {
			start = d
		}
	}

	ordered := make([]Row, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date < ordered[j].Date
	})

	plan := &models.MealPlan{
		StartDate: start,
		NumDays:   len(distinct),
		Breakfast: []int64{},
		Lunch:     []int64{},
		Dinner:    []int64{},
	}
	for _, r := range ordered {
		switch r.MealType {
		case models.MealBreakfast:
			plan.Breakfast = append(plan.Breakfast, r.RecipeID)
		case models.MealLunch:
			plan.Lunch = append(plan.Lunch, r.RecipeID)
		case models.MealDinner:
			plan.Dinner = append(plan.Dinner, r.RecipeID)
		}
	}
	return plan, nil
}

// ToRows expands a structured plan back into flat rows, one per date and
// slot, attaching the full attributes of each referenced recipe from the
// lookup table. Every slot list must carry exactly NumDays entries; a
// shorter list fails with ErrIncompletePlan. Recipes absent from the lookup
// are emitted with only their identifier set, mirroring the save-time
// tolerance for partially-loaded result sets.
func ToRows(plan *models.MealPlan, recipes map[int64]models.Recipe) ([]ExpandedRow, error) {
	start, err := time.Parse(dateLayout, plan.StartDate)
	if err != nil {
		return nil, fmt.Errorf("planner: start date %q: %w", plan.StartDate, err)
	}

	var out []ExpandedRow
	for day := 0; day < plan.NumDays; day++ {
		date := start.AddDate(0, 0, day).Format(dateLayout)
		for _, slot := range models.MealTypes {
			ids := plan.SlotIDs(slot)
			if day >= len(ids) {
				return nil, fmt.Errorf("planner: %s list has %d entries, need %d: %w",
					slot, len(ids), plan.NumDays, apperr.ErrIncompletePlan)
			}
			recipe, ok := recipes[ids[day]]
			if !ok {
				recipe = models.Recipe{RecipeID: ids[day]}
			}
			out = append(out, ExpandedRow{Date: date, MealType: slot, Recipe: recipe})
		}
	}
	return out, nil
}
