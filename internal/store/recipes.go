package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ravlik/mealdeck/internal/apperr"
	"github.com/ravlik/mealdeck/internal/models"
)

// InsertRecipe writes one recipe row.
func (db *DB) InsertRecipe(ctx context.Context, r models.Recipe) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO recipes (recipe_id, recipe_name, source_url, total_cost, prep_time, image_url, servings)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RecipeID, r.Name, r.SourceURL, r.TotalCost, r.PrepTime, r.ImageURL, r.Servings)
	if err != nil {
		return fmt.Errorf("store: insert recipe: %w", err)
	}
	return nil
}

// ListRecipes reads every stored recipe.
func (db *DB) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT recipe_id, recipe_name, source_url, total_cost, prep_time, image_url, servings
		FROM recipes ORDER BY recipe_id`)
	if err != nil {
		return nil, fmt.Errorf("store: list recipes: %w", err)
	}
	defer rows.Close()

	var out []models.Recipe
	for rows.Next() {
		var (
			r         models.Recipe
			sourceURL sql.NullString
			imageURL  sql.NullString
		)
		if err := rows.Scan(&r.RecipeID, &r.Name, &sourceURL, &r.TotalCost,
			&r.PrepTime, &imageURL, &r.Servings); err != nil {
			return nil, fmt.Errorf("store: scan recipe: %w", err)
		}
		r.SourceURL = sourceURL.String
		r.ImageURL = imageURL.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRecipe reads one recipe by id.
func (db *DB) GetRecipe(ctx context.Context, recipeID int64) (*models.Recipe, error) {
	var (
		r         models.Recipe
		sourceURL sql.NullString
		imageURL  sql.NullString
	)
	err := db.conn.QueryRowContext(ctx, `
		SELECT recipe_id, recipe_name, source_url, total_cost, prep_time, image_url, servings
		FROM recipes WHERE recipe_id = ?`, recipeID).
		Scan(&r.RecipeID, &r.Name, &sourceURL, &r.TotalCost, &r.PrepTime, &imageURL, &r.Servings)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get recipe: %w", err)
	}
	r.SourceURL = sourceURL.String
	r.ImageURL = imageURL.String
	return &r, nil
}

// InsertNutrition writes one nutrition row. Sugar is not persisted; the
// nutrition table tracks the seven columns the dashboard charts use.
func (db *DB) InsertNutrition(ctx context.Context, n models.Nutrition) error {
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO nutrition (recipe_id, calories, protein, carbs, fat, fiber, cholesterol, sodium)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.RecipeID, n.Calories, n.Protein, n.Carbs, n.Fat, n.Fiber, n.Cholesterol, n.Sodium)
	if err != nil {
		return fmt.Errorf("store: insert nutrition: %w", err)
	}
	return nil
}

// GetNutrition reads the nutrition facts for one recipe.
func (db *DB) GetNutrition(ctx context.Context, recipeID int64) (*models.Nutrition, error) {
	var n models.Nutrition
	err := db.conn.QueryRowContext(ctx, `
		SELECT recipe_id, calories, protein, carbs, fat, fiber, cholesterol, sodium
		FROM nutrition WHERE recipe_id = ?`, recipeID).
		Scan(&n.RecipeID, &n.Calories, &n.Protein, &n.Carbs, &n.Fat, &n.Fiber, &n.Cholesterol, &n.Sodium)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get nutrition: %w", err)
	}
	return &n, nil
}
