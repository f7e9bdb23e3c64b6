package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/ravlik/mealdeck/internal/apperr"
	"github.com/ravlik/mealdeck/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "mealdeck-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func sampleTables() models.SearchTables {
	rid7 := int64(7)
	rid9 := int64(9)
	return models.SearchTables{
		Recipes: map[int64]models.Recipe{
			7: {RecipeID: 7, Name: "Shakshuka", SourceURL: "https://example.org/7", TotalCost: 8.4, PrepTime: 25, Servings: 2},
			9: {RecipeID: 9, Name: "Dal", SourceURL: "https://example.org/9", TotalCost: 5.1, PrepTime: 40, Servings: 4},
		},
		Ingredients: []models.Ingredient{
			{IngredientID: 101, Name: "egg", Amount: 4, Unit: "", RecipeID: &rid7},
			{IngredientID: 102, Name: "tomato", Amount: 3, Unit: "", RecipeID: &rid7},
			{IngredientID: 201, Name: "red lentils", Amount: 250, Unit: "g", RecipeID: &rid9},
		},
		Nutrition: map[int64]models.Nutrition{
			7: {RecipeID: 7, Calories: 320, Protein: 18, Carbs: 14, Fat: 21, Fiber: 4, Sodium: 480, Cholesterol: 370},
			9: {RecipeID: 9, Calories: 410, Protein: 22, Carbs: 60, Fat: 8, Fiber: 12, Sodium: 300, Cholesterol: 0},
		},
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"ingredients", "recipes", "nutrition", "meal_plans"} {
		if n := countRows(t, db, table); n != 0 {
			t.Errorf("%s: %d rows in fresh store", table, n)
		}
	}
}

func TestSavePlanHappyPath(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	plan := &models.MealPlan{
		StartDate: "2025-06-02",
		NumDays:   2,
		Breakfast: []int64{7, 7},
		Lunch:     []int64{9, 9},
		Dinner:    []int64{9, 7},
	}
	id, err := db.SavePlan(ctx, plan, sampleTables())
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	if id == 0 {
		t.Error("plan id = 0")
	}

	// Each distinct recipe persisted once despite repeats across slots.
	if n := countRows(t, db, "recipes"); n != 2 {
		t.Errorf("recipes = %d, want 2", n)
	}
	if n := countRows(t, db, "nutrition"); n != 2 {
		t.Errorf("nutrition = %d, want 2", n)
	}
	if n := countRows(t, db, "ingredients"); n != 3 {
		t.Errorf("ingredients = %d, want 3", n)
	}

	// Component lines never carry an expiry.
	comps, err := db.ListRecipeIngredients(ctx, 7)
	if err != nil {
		t.Fatalf("ListRecipeIngredients: %v", err)
	}
	if len(comps) != 2 {
		t.Fatalf("components = %d, want 2", len(comps))
	}
	for _, c := range comps {
		if c.ExpiryDate != nil {
			t.Errorf("component %q has expiry %v", c.Name, c.ExpiryDate)
		}
		if c.RecipeID == nil || *c.RecipeID != 7 {
			t.Errorf("component %q recipe_id = %v", c.Name, c.RecipeID)
		}
	}

	plans, err := db.ListMealPlans(ctx)
	if err != nil {
		t.Fatalf("ListMealPlans: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("plans = %d, want 1", len(plans))
	}
	got := plans[0]
	if got.StartDate != "2025-06-02" || got.NumDays != 2 {
		t.Errorf("header = %+v", got)
	}
	if len(got.Breakfast) != 2 || got.Breakfast[0] != 7 {
		t.Errorf("breakfast = %v", got.Breakfast)
	}
	if len(got.Dinner) != 2 || got.Dinner[0] != 9 || got.Dinner[1] != 7 {
		t.Errorf("dinner = %v", got.Dinner)
	}
}

func TestSavePlanSkipsRecipesAbsentFromResults(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	tables := sampleTables()
	delete(tables.Recipes, 7)

	plan := &models.MealPlan{
		StartDate: "2025-06-02",
		NumDays:   1,
		Breakfast: []int64{7},
		Lunch:     []int64{9},
		Dinner:    []int64{9},
	}
	if _, err := db.SavePlan(ctx, plan, tables); err != nil {
		t.Fatalf("SavePlan: %v", err)
	}

	// No row for the skipped id, but the header still references it.
	if _, err := db.GetRecipe(ctx, 7); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetRecipe(7) err = %v, want ErrNotFound", err)
	}
	plans, err := db.ListMealPlans(ctx)
	if err != nil {
		t.Fatalf("ListMealPlans: %v", err)
	}
	if len(plans) != 1 || len(plans[0].Breakfast) != 1 || plans[0].Breakfast[0] != 7 {
		t.Errorf("header should keep the orphan reference: %+v", plans)
	}
}

func TestSavePlanMissingNutritionLeavesNothing(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	tables := sampleTables()
	delete(tables.Nutrition, 9)

	plan := &models.MealPlan{
		StartDate: "2025-06-02",
		NumDays:   1,
		Breakfast: []int64{7},
		Lunch:     []int64{9},
		Dinner:    []int64{7},
	}
	_, err := db.SavePlan(ctx, plan, tables)
	if !errors.Is(err, apperr.ErrMissingNutrition) {
		t.Fatalf("err = %v, want ErrMissingNutrition", err)
	}

	// The save is one transaction: the earlier recipe 7 rows must be gone
	// too, unlike the non-transactional behavior this replaces.
	for _, table := range []string{"recipes", "ingredients", "nutrition", "meal_plans"} {
		if n := countRows(t, db, table); n != 0 {
			t.Errorf("%s = %d rows after failed save, want 0", table, n)
		}
	}
}

func TestSavePlanTwiceSharedRecipe(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	plan := &models.MealPlan{StartDate: "2025-06-02", NumDays: 1,
		Breakfast: []int64{7}, Lunch: []int64{7}, Dinner: []int64{7}}
	if _, err := db.SavePlan(ctx, plan, sampleTables()); err != nil {
		t.Fatalf("first SavePlan: %v", err)
	}
	plan2 := &models.MealPlan{StartDate: "2025-06-09", NumDays: 1,
		Breakfast: []int64{7}, Lunch: []int64{9}, Dinner: []int64{9}}
	if _, err := db.SavePlan(ctx, plan2, sampleTables()); err != nil {
		t.Fatalf("second SavePlan: %v", err)
	}

	// Recipe 7 stays single; only recipe 9 is added.
	if n := countRows(t, db, "recipes"); n != 2 {
		t.Errorf("recipes = %d, want 2", n)
	}
	plans, _ := db.ListMealPlans(ctx)
	if len(plans) != 2 {
		t.Errorf("plans = %d, want 2", len(plans))
	}
}

func TestClearResetsAutoIncrement(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first, err := db.InsertIngredient(ctx, models.Ingredient{Name: "milk", Amount: 1, Unit: "l"})
	if err != nil {
		t.Fatalf("InsertIngredient: %v", err)
	}
	if _, err := db.InsertIngredient(ctx, models.Ingredient{Name: "flour", Amount: 2, Unit: "kg"}); err != nil {
		t.Fatalf("InsertIngredient: %v", err)
	}

	if err := db.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	for _, table := range []string{"ingredients", "recipes", "nutrition", "meal_plans"} {
		if n := countRows(t, db, table); n != 0 {
			t.Errorf("%s = %d rows after clear", table, n)
		}
	}

	again, err := db.InsertIngredient(ctx, models.Ingredient{Name: "milk", Amount: 1, Unit: "l"})
	if err != nil {
		t.Fatalf("InsertIngredient after clear: %v", err)
	}
	if again != first {
		t.Errorf("row id after clear = %d, want %d (counter reset)", again, first)
	}
}

func TestListIngredientsMalformedExpiry(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO ingredients (ingredient_id, name, amount, unit, expiry_date)
		VALUES (0, 'mystery', 1, 'pieces', 'soonish')`)
	if err != nil {
		t.Fatalf("raw insert: %v", err)
	}

	_, err = db.ListIngredients(ctx)
	if !errors.Is(err, apperr.ErrMalformedTimestamp) {
		t.Errorf("err = %v, want ErrMalformedTimestamp", err)
	}
}

func TestInsertIngredientStoresISOExpiry(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	expiry := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	if _, err := db.InsertIngredient(ctx, models.Ingredient{
		Name: "cream", Amount: 200, Unit: "ml", ExpiryDate: &expiry,
	}); err != nil {
		t.Fatalf("InsertIngredient: %v", err)
	}

	var raw string
	if err := db.conn.QueryRow(`SELECT expiry_date FROM ingredients WHERE name = 'cream'`).Scan(&raw); err != nil {
		t.Fatalf("select raw expiry: %v", err)
	}
	if raw != "2025-08-01T00:00:00Z" {
		t.Errorf("stored expiry = %q", raw)
	}
}

func TestGetNutritionNotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetNutrition(context.Background(), 42)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
