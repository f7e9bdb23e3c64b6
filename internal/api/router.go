package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ravlik/mealdeck/internal/planservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *planservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Ingredient inventory.
	r.Get("/inventory", h.ListInventory)
	r.Post("/inventory", h.AddIngredient)
	r.Get("/inventory/names", h.InventoryNames)

	// Recipe search.
	r.Post("/search", h.Search)

	// Working schedule.
	r.Get("/plan", h.GetPlan)
	r.Post("/plan/rows", h.AddPlanRows)
	r.Delete("/plan/rows/{index}", h.RemovePlanRow)
	r.Post("/plan/save", h.SavePlan)

	// Persisted plans.
	r.Get("/mealplans", h.ListMealPlans)
	r.Get("/mealplans/{id}/rows", h.MealPlanRows)

	// Nutrition goals.
	r.Get("/goals", h.GetGoals)

	// Store maintenance.
	r.Post("/store/clear", h.ClearStore)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
