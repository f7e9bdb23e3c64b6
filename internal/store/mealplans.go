package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ravlik/mealdeck/internal/apperr"
	"github.com/ravlik/mealdeck/internal/models"
)

// SavePlan persists a meal plan together with the recipe, ingredient, and
// nutrition rows it was assembled from, in one transaction.
//
// For every distinct recipe identifier in the plan's three slot lists:
//   - identifiers absent from t.Recipes are skipped silently (tolerance for
//     partially-loaded result sets; the header still records them),
//   - identifiers already persisted by an earlier save are left untouched
//     (recipes are immutable),
//   - otherwise the recipe row, its component ingredient lines (expiry
//     forced absent), and its nutrition row are inserted. A missing
//     nutrition entry aborts the whole save with ErrMissingNutrition,
//     leaving zero rows written.
//
// Returns the id assigned to the meal-plan header row.
func (db *DB) SavePlan(ctx context.Context, plan *models.MealPlan, t models.SearchTables) (int64, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	seen := make(map[int64]struct{})
	for _, recipeID := range plan.AllRecipeIDs() {
		if _, dup := seen[recipeID]; dup {
			continue
		}
		seen[recipeID] = struct{}{}

		recipe, ok := t.Recipes[recipeID]
		if !ok {
			continue
		}

		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM recipes WHERE recipe_id = ?`, recipeID).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("store: check recipe %d: %w", recipeID, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO recipes (recipe_id, recipe_name, source_url, total_cost, prep_time, image_url, servings)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			recipe.RecipeID, recipe.Name, recipe.SourceURL, recipe.TotalCost,
			recipe.PrepTime, recipe.ImageURL, recipe.Servings); err != nil {
			return 0, fmt.Errorf("store: insert recipe %d: %w", recipeID, err)
		}

		for _, ing := range t.Ingredients {
			if ing.RecipeID == nil || *ing.RecipeID != recipeID {
				continue
			}
			// Recipe components never carry freshness tracking.
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO ingredients (ingredient_id, name, amount, unit, expiry_date, original_string, aisle, recipe_id)
				VALUES (?, ?, ?, ?, NULL, ?, ?, ?)`,
				ing.IngredientID, ing.Name, ing.Amount, ing.Unit,
				ing.OriginalString, ing.Aisle, recipeID); err != nil {
				return 0, fmt.Errorf("store: insert ingredient for recipe %d: %w", recipeID, err)
			}
		}

		nutrition, ok := t.Nutrition[recipeID]
		if !ok {
			return 0, fmt.Errorf("store: recipe %d: %w", recipeID, apperr.ErrMissingNutrition)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO nutrition (recipe_id, calories, protein, carbs, fat, fiber, cholesterol, sodium)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			recipeID, nutrition.Calories, nutrition.Protein, nutrition.Carbs,
			nutrition.Fat, nutrition.Fiber, nutrition.Cholesterol, nutrition.Sodium); err != nil {
			return 0, fmt.Errorf("store: insert nutrition %d: %w", recipeID, err)
		}
	}

	id, err := insertPlanHeader(ctx, tx, plan)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit save: %w", err)
	}
	return id, nil
}

func insertPlanHeader(ctx context.Context, tx *sql.Tx, plan *models.MealPlan) (int64, error) {
	breakfast, _ := json.Marshal(idsOrEmpty(plan.Breakfast))
	lunch, _ := json.Marshal(idsOrEmpty(plan.Lunch))
	dinner, _ := json.Marshal(idsOrEmpty(plan.Dinner))

	res, err := tx.ExecContext(ctx, `
		INSERT INTO meal_plans (start_date, num_days, breakfast, lunch, dinner)
		VALUES (?, ?, ?, ?, ?)`,
		plan.StartDate, plan.NumDays, string(breakfast), string(lunch), string(dinner))
	if err != nil {
		return 0, fmt.Errorf("store: insert meal plan: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: meal plan row id: %w", err)
	}
	return id, nil
}

// ListMealPlans reads every persisted meal-plan header, newest first.
func (db *DB) ListMealPlans(ctx context.Context) ([]models.MealPlan, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, start_date, num_days, breakfast, lunch, dinner
		FROM meal_plans ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list meal plans: %w", err)
	}
	defer rows.Close()

	var out []models.MealPlan
	for rows.Next() {
		var (
			p                        models.MealPlan
			breakfast, lunch, dinner string
		)
		if err := rows.Scan(&p.ID, &p.StartDate, &p.NumDays, &breakfast, &lunch, &dinner); err != nil {
			return nil, fmt.Errorf("store: scan meal plan: %w", err)
		}
		if err := json.Unmarshal([]byte(breakfast), &p.Breakfast); err != nil {
			return nil, fmt.Errorf("store: decode breakfast list: %w", err)
		}
		if err := json.Unmarshal([]byte(lunch), &p.Lunch); err != nil {
			return nil, fmt.Errorf("store: decode lunch list: %w", err)
		}
		if err := json.Unmarshal([]byte(dinner), &p.Dinner); err != nil {
			return nil, fmt.Errorf("store: decode dinner list: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func idsOrEmpty(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
