package planner

import (
	"errors"
	"testing"

	"github.com/ravlik/mealdeck/internal/apperr"
	"github.com/ravlik/mealdeck/internal/models"
)

func threeSlotRows(dates []string, breakfast, lunch, dinner []int64) []Row {
	var rows []Row
	for i, d := range dates {
		rows = append(rows,
			Row{Date: d, NumDays: len(dates), MealType: models.MealBreakfast, RecipeID: breakfast[i]},
			Row{Date: d, NumDays: len(dates), MealType: models.MealLunch, RecipeID: lunch[i]},
			Row{Date: d, NumDays: len(dates), MealType: models.MealDinner, RecipeID: dinner[i]},
		)
	}
	return rows
}

func TestFromRowsEmpty(t *testing.T) {
	_, err := FromRows(nil)
	if !errors.Is(err, apperr.ErrEmptyPlan) {
		t.Errorf("err = %v, want ErrEmptyPlan", err)
	}
}

func TestFromRowsBasic(t *testing.T) {
	rows := threeSlotRows(
		[]string{"2025-06-02", "2025-06-03", "2025-06-04"},
		[]int64{1, 2, 3}, []int64{4, 5, 6}, []int64{7, 8, 9},
	)
	plan, err := FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if plan.StartDate != "2025-06-02" {
		t.Errorf("start = %q", plan.StartDate)
	}
	if plan.NumDays != 3 {
		t.Errorf("num_days = %d", plan.NumDays)
	}
	wantB := []int64{1, 2, 3}
	for i, id := range plan.Breakfast {
		if id != wantB[i] {
			t.Errorf("breakfast[%d] = %d, want %d", i, id, wantB[i])
		}
	}
	if len(plan.Dinner) != 3 || plan.Dinner[2] != 9 {
		t.Errorf("dinner = %v", plan.Dinner)
	}
}

func TestFromRowsSortsByDate(t *testing.T) {
	// Rows appended out of date order, as the working table allows.
	rows := []Row{
		{Date: "2025-06-04", MealType: models.MealLunch, RecipeID: 30},
		{Date: "2025-06-02", MealType: models.MealLunch, RecipeID: 10},
		{Date: "2025-06-03", MealType: models.MealLunch, RecipeID: 20},
	}
	plan, err := FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	if plan.StartDate != "2025-06-02" {
		t.Errorf("start = %q, want earliest date", plan.StartDate)
	}
	want := []int64{10, 20, 30}
	for i, id := range plan.Lunch {
		if id != want[i] {
			t.Errorf("lunch[%d] = %d, want %d", i, id, want[i])
		}
	}
	if len(plan.Breakfast) != 0 || len(plan.Dinner) != 0 {
		t.Errorf("unexpected slot entries: %v %v", plan.Breakfast, plan.Dinner)
	}
}

func TestFromRowsBadDate(t *testing.T) {
	_, err := FromRows([]Row{{Date: "junk", MealType: models.MealLunch, RecipeID: 1}})
	if err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestToRowsIncompletePlan(t *testing.T) {
	plan := &models.MealPlan{
		StartDate: "2025-06-02",
		NumDays:   3,
		Breakfast: []int64{1, 2, 3},
		Lunch:     []int64{4, 5}, // one short
		Dinner:    []int64{7, 8, 9},
	}
	_, err := ToRows(plan, map[int64]models.Recipe{})
	if !errors.Is(err, apperr.ErrIncompletePlan) {
		t.Errorf("err = %v, want ErrIncompletePlan", err)
	}
}

func TestToRowsAttachesRecipeAttributes(t *testing.T) {
	plan := &models.MealPlan{
		StartDate: "2025-06-02",
		NumDays:   1,
		Breakfast: []int64{1},
		Lunch:     []int64{2},
		Dinner:    []int64{3},
	}
	recipes := map[int64]models.Recipe{
		1: {RecipeID: 1, Name: "Oats", PrepTime: 10, Servings: 2, TotalCost: 3.5},
		3: {RecipeID: 3, Name: "Stew", PrepTime: 45, Servings: 4, TotalCost: 12},
	}
	rows, err := ToRows(plan, recipes)
	if err != nil {
		t.Fatalf("ToRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len = %d, want 3", len(rows))
	}
	if rows[0].Recipe.Name != "Oats" || rows[0].MealType != models.MealBreakfast {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	// Recipe 2 missing from lookup: only the id survives.
	if rows[1].Recipe.RecipeID != 2 || rows[1].Recipe.Name != "" {
		t.Errorf("rows[1] = %+v", rows[1])
	}
	if rows[2].Recipe.TotalCost != 12 {
		t.Errorf("rows[2] cost = %v", rows[2].Recipe.TotalCost)
	}
}

func TestRoundTripPreservesTriples(t *testing.T) {
	dates := []string{"2025-06-02", "2025-06-03"}
	rows := threeSlotRows(dates, []int64{1, 2}, []int64{3, 4}, []int64{5, 6})

	plan, err := FromRows(rows)
	if err != nil {
		t.Fatalf("FromRows: %v", err)
	}
	expanded, err := ToRows(plan, map[int64]models.Recipe{})
	if err != nil {
		t.Fatalf("ToRows: %v", err)
	}

	type triple struct {
		date string
		meal models.MealType
		id   int64
	}
	want := make(map[triple]int)
	for _, r := range rows {
		want[triple{r.Date, r.MealType, r.RecipeID}]++
	}
	got := make(map[triple]int)
	for _, r := range expanded {
		got[triple{r.Date, r.MealType, r.Recipe.RecipeID}]++
	}
	if len(got) != len(want) {
		t.Fatalf("triple sets differ: got %d, want %d", len(got), len(want))
	}
	for k, n := range want {
		if got[k] != n {
			t.Errorf("triple %+v: got %d, want %d", k, got[k], n)
		}
	}
}
