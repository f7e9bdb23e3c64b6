package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ravlik/mealdeck/internal/models"
)

// InsertIngredient writes one ingredient row and returns its row id.
func (db *DB) InsertIngredient(ctx context.Context, ing models.Ingredient) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO ingredients (ingredient_id, name, amount, unit, expiry_date, original_string, aisle, recipe_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ing.IngredientID, ing.Name, ing.Amount, ing.Unit,
		models.FormatTimestamp(ing.ExpiryDate), ing.OriginalString, ing.Aisle, ing.RecipeID)
	if err != nil {
		return 0, fmt.Errorf("store: insert ingredient: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: ingredient row id: %w", err)
	}
	return id, nil
}

// ListIngredients reads every ingredient row, reconstructing expiry
// timestamps from their stored text form.
func (db *DB) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, ingredient_id, name, amount, unit, expiry_date, original_string, aisle, recipe_id
		FROM ingredients ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: list ingredients: %w", err)
	}
	defer rows.Close()

	var out []models.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

// ListRecipeIngredients reads the component lines of one stored recipe.
func (db *DB) ListRecipeIngredients(ctx context.Context, recipeID int64) ([]models.Ingredient, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, ingredient_id, name, amount, unit, expiry_date, original_string, aisle, recipe_id
		FROM ingredients WHERE recipe_id = ? ORDER BY id`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("store: list recipe ingredients: %w", err)
	}
	defer rows.Close()

	var out []models.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

func scanIngredient(rows *sql.Rows) (models.Ingredient, error) {
	var (
		ing          models.Ingredient
		ingredientID sql.NullInt64
		expiryRaw    any
		original     sql.NullString
		aisle        sql.NullString
		recipeID     sql.NullInt64
	)
	if err := rows.Scan(&ing.ID, &ingredientID, &ing.Name, &ing.Amount, &ing.Unit,
		&expiryRaw, &original, &aisle, &recipeID); err != nil {
		return models.Ingredient{}, fmt.Errorf("store: scan ingredient: %w", err)
	}

	expiry, err := models.ParseTimestamp(expiryRaw)
	if err != nil {
		return models.Ingredient{}, fmt.Errorf("store: ingredient %d expiry: %w", ing.ID, err)
	}
	ing.ExpiryDate = expiry
	ing.IngredientID = ingredientID.Int64
	ing.OriginalString = original.String
	ing.Aisle = aisle.String
	if recipeID.Valid {
		id := recipeID.Int64
		ing.RecipeID = &id
	}
	return ing, nil
}
