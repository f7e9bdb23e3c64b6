package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ravlik/mealdeck/internal/apperr"
	"github.com/ravlik/mealdeck/internal/models"
	"github.com/ravlik/mealdeck/internal/planservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *planservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *planservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListInventory handles GET /api/inventory.
func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Inventory(r.Context())
	if err != nil {
		slog.Error("list inventory failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if items == nil {
		items = []planservice.InventoryItem{}
	}
	writeJSON(w, http.StatusOK, InventoryResponse{Ingredients: items})
}

// AddIngredient handles POST /api/inventory.
func (h *Handler) AddIngredient(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AddIngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	ing := models.Ingredient{Name: req.Name, Amount: req.Amount, Unit: req.Unit}
	if req.ExpiryDate != "" {
		expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("expiry_date must be YYYY-MM-DD"))
			return
		}
		ing.ExpiryDate = &expiry
	}

	created, err := h.svc.AddIngredient(r.Context(), ing)
	if err != nil {
		slog.Error("add ingredient failed", slog.String("name", req.Name), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// InventoryNames handles GET /api/inventory/names.
func (h *Handler) InventoryNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.InventoryNames(r.Context())
	if err != nil {
		slog.Error("inventory names failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, NamesResponse{Names: names})
}

// Search handles POST /api/search. A collaborator failure is not an API
// failure: the response degrades to empty tables with a warning message.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	tables, err := h.svc.SearchRecipes(r.Context(), req.Query, req.Goals, req.MaxReadyTime, req.Sort)
	resp := SearchResponse{Tables: tables}
	if err != nil {
		slog.Warn("recipe search degraded", slog.String("error", err.Error()))
		resp.Warning = "recipe search unavailable, showing no results"
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPlan handles GET /api/plan.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PlanRowsResponse{Rows: h.svc.Rows()})
}

// AddPlanRows handles POST /api/plan/rows.
func (h *Handler) AddPlanRows(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req AddPlanRowsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	rows, err := h.svc.AddRows(req.RecipeID, req.MealType, req.StartDate, req.NumDays)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("recipe not in current search results"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, PlanRowsResponse{Rows: rows})
}

// RemovePlanRow handles DELETE /api/plan/rows/{index}.
func (h *Handler) RemovePlanRow(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("index must be an integer"))
		return
	}
	if err := h.svc.RemoveRow(index); err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("no such row"))
		return
	}
	writeJSON(w, http.StatusOK, PlanRowsResponse{Rows: h.svc.Rows()})
}

// SavePlan handles POST /api/plan/save.
func (h *Handler) SavePlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.svc.SavePlan(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrEmptyPlan):
			writeJSON(w, http.StatusUnprocessableEntity, errorBody("plan is empty"))
		case errors.Is(err, apperr.ErrIncompletePlan):
			writeJSON(w, http.StatusUnprocessableEntity, errorBody("plan has gaps"))
		case errors.Is(err, apperr.ErrMissingNutrition):
			writeJSON(w, http.StatusConflict, errorBody("a planned recipe has no nutrition facts"))
		default:
			slog.Error("save plan failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// ListMealPlans handles GET /api/mealplans.
func (h *Handler) ListMealPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.svc.MealPlans(r.Context())
	if err != nil {
		slog.Error("list meal plans failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if plans == nil {
		plans = []models.MealPlan{}
	}
	writeJSON(w, http.StatusOK, MealPlansResponse{MealPlans: plans})
}

// MealPlanRows handles GET /api/mealplans/{id}/rows.
func (h *Handler) MealPlanRows(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("id must be an integer"))
		return
	}
	rows, err := h.svc.PlanRows(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		case errors.Is(err, apperr.ErrIncompletePlan):
			writeJSON(w, http.StatusUnprocessableEntity, errorBody("plan has gaps"))
		default:
			slog.Error("expand meal plan failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

// GetGoals handles GET /api/goals.
func (h *Handler) GetGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.GoalRanges())
}

// ClearStore handles POST /api/store/clear.
func (h *Handler) ClearStore(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearStore(r.Context()); err != nil {
		slog.Error("clear store failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
