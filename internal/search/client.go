// Package search implements the recipe-search collaborator: a Spoonacular
// complexSearch client whose results are parsed into the three tables the
// persistence gateway consumes.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ravlik/mealdeck/internal/goals"
	"github.com/ravlik/mealdeck/internal/models"
)

const (
	defaultBaseURL = "https://api.spoonacular.com"

	// resultCount keeps responses small enough for the tile grid.
	resultCount = 5
)

// Sort keys the provider understands.
const (
	SortMaxUsedIngredients    = "max-used-ingredients"
	SortMinMissingIngredients = "min-missing-ingredients"
	SortTime                  = "time"
)

// Params describes one search request.
type Params struct {
	Query        string
	Ingredients  []string // on-hand ingredient names used to bias results
	Goals        goals.Ranges
	MaxReadyTime int // minutes
	Sort         string
}

// Client talks to the recipe-search API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a search client with the default endpoint.
func NewClient(apiKey string) *Client {
	return &Client{APIKey: apiKey}
}

// Search runs a complex recipe search and parses the response into the three
// result tables. Transport failures and non-success responses return the
// all-empty tables alongside the error, so callers can degrade gracefully.
func (c *Client) Search(ctx context.Context, p Params) (models.SearchTables, error) {
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	q := url.Values{}
	q.Set("query", p.Query)
	q.Set("ingredients", strings.Join(p.Ingredients, ","))
	q.Set("fillIngredients", "true")
	q.Set("minCalories", formatBound(p.Goals.Calories.Min))
	q.Set("maxCalories", formatBound(p.Goals.Calories.Max))
	q.Set("minCarbs", formatBound(p.Goals.Carbs.Min))
	q.Set("maxCarbs", formatBound(p.Goals.Carbs.Max))
	q.Set("minProtein", formatBound(p.Goals.Protein.Min))
	q.Set("maxProtein", formatBound(p.Goals.Protein.Max))
	q.Set("minFat", formatBound(p.Goals.Fat.Min))
	q.Set("maxFat", formatBound(p.Goals.Fat.Max))
	q.Set("minFiber", formatBound(p.Goals.Fiber.Min))
	q.Set("maxFiber", formatBound(p.Goals.Fiber.Max))
	q.Set("minSugar", formatBound(p.Goals.Sugar.Min))
	q.Set("maxSugar", formatBound(p.Goals.Sugar.Max))
	if p.MaxReadyTime > 0 {
		q.Set("maxReadyTime", strconv.Itoa(p.MaxReadyTime))
	}
	q.Set("number", strconv.Itoa(resultCount))
	q.Set("addRecipeInformation", "true")
	q.Set("addRecipeNutrition", "true")
	q.Set("instructionsRequired", "true")
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	q.Set("apiKey", c.APIKey)

	endpoint := base + "/recipes/complexSearch?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.EmptyTables(), fmt.Errorf("search: build request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return models.EmptyTables(), fmt.Errorf("search: execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.EmptyTables(), fmt.Errorf("search: status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return models.EmptyTables(), fmt.Errorf("search: decode response: %w", err)
	}
	return parseResults(parsed.Results), nil
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type searchResponse struct {
	Results []recipeResult `json:"results"`
}

type recipeResult struct {
	ID                  int64              `json:"id"`
	Title               string             `json:"title"`
	Servings            int                `json:"servings"`
	ReadyInMinutes      int                `json:"readyInMinutes"`
	PricePerServing     float64            `json:"pricePerServing"`
	SourceURL           string             `json:"sourceUrl"`
	Image               string             `json:"image"`
	ExtendedIngredients []ingredientResult `json:"extendedIngredients"`
	Nutrition           *nutritionResult   `json:"nutrition"`
}

type ingredientResult struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Original string  `json:"original"`
	Aisle    string  `json:"aisle"`
}

type nutritionResult struct {
	Nutrients []nutrientResult `json:"nutrients"`
}

type nutrientResult struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// parseResults flattens the raw API payload into the three tables keyed by
// recipe identifier.
func parseResults(results []recipeResult) models.SearchTables {
	t := models.EmptyTables()
	for _, r := range results {
		t.Recipes[r.ID] = models.Recipe{
			RecipeID:  r.ID,
			Name:      r.Title,
			SourceURL: r.SourceURL,
			TotalCost: r.PricePerServing * float64(r.Servings),
			PrepTime:  r.ReadyInMinutes,
			ImageURL:  r.Image,
			Servings:  r.Servings,
		}

		for _, ing := range r.ExtendedIngredients {
			recipeID := r.ID
			t.Ingredients = append(t.Ingredients, models.Ingredient{
				IngredientID:   ing.ID,
				Name:           ing.Name,
				Amount:         ing.Amount,
				Unit:           ing.Unit,
				OriginalString: ing.Original,
				Aisle:          ing.Aisle,
				RecipeID:       &recipeID,
			})
		}

		if r.Nutrition != nil {
			t.Nutrition[r.ID] = models.Nutrition{
				RecipeID:    r.ID,
				Calories:    findNutrient(r.Nutrition.Nutrients, "Calories"),
				Protein:     findNutrient(r.Nutrition.Nutrients, "Protein"),
				Carbs:       findNutrient(r.Nutrition.Nutrients, "Carbohydrates"),
				Fat:         findNutrient(r.Nutrition.Nutrients, "Fat"),
				Fiber:       findNutrient(r.Nutrition.Nutrients, "Fiber"),
				Sugar:       findNutrient(r.Nutrition.Nutrients, "Sugar"),
				Sodium:      findNutrient(r.Nutrition.Nutrients, "Sodium"),
				Cholesterol: findNutrient(r.Nutrition.Nutrients, "Cholesterol"),
			}
		}
	}
	return t
}

func findNutrient(nutrients []nutrientResult, name string) float64 {
	for _, n := range nutrients {
		if strings.EqualFold(n.Name, name) {
			return n.Amount
		}
	}
	return 0
}
