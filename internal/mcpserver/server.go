// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes meal-planning tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ravlik/mealdeck/internal/models"
	"github.com/ravlik/mealdeck/internal/planservice"
)

// Server wraps the MCP server with mealdeck tools.
type Server struct {
	mcp *server.MCPServer
	svc *planservice.Service
}

// New creates a new MCP server with all mealdeck tools registered.
func New(svc *planservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Mealdeck",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_inventory",
		mcp.WithDescription("List the ingredient inventory with days until expiry per item."),
	), s.listInventory)

	s.mcp.AddTool(mcp.NewTool("add_ingredient",
		mcp.WithDescription("Add an ingredient to the inventory."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Ingredient name, e.g. milk")),
		mcp.WithNumber("amount", mcp.Required(), mcp.Description("Quantity on hand")),
		mcp.WithString("unit", mcp.Required(), mcp.Description("Unit for the quantity, e.g. g, ml, pcs")),
		mcp.WithString("expiry_date", mcp.Description("Optional expiry date, YYYY-MM-DD")),
	), s.addIngredient)

	s.mcp.AddTool(mcp.NewTool("search_recipes",
		mcp.WithDescription("Search recipes biased toward the current inventory and the active "+
			"nutrition goal ranges. Results stay in the working session and can be scheduled "+
			"with add_plan_rows."),
		mcp.WithString("query", mcp.Description("Free-text query, e.g. pasta")),
		mcp.WithNumber("max_ready_time", mcp.Description("Maximum total prep time in minutes (0 for no cap)")),
		mcp.WithString("sort", mcp.Description("Result ordering: max-used-ingredients, min-missing-ingredients, or time")),
	), s.searchRecipes)

	s.mcp.AddTool(mcp.NewTool("add_plan_rows",
		mcp.WithDescription("Schedule a recipe from the current search results into one meal slot "+
			"for each day of the planning period. Read the planner guide first via the "+
			"get_planner_guide tool or the mealdeck://planner-guide resource."),
		mcp.WithNumber("recipe_id", mcp.Required(), mcp.Description("Recipe id from search_recipes results")),
		mcp.WithString("meal_type", mcp.Required(), mcp.Description("One of breakfast, lunch, dinner")),
		mcp.WithString("start_date", mcp.Required(), mcp.Description("First day of the period, YYYY-MM-DD")),
		mcp.WithNumber("num_days", mcp.Required(), mcp.Description("Number of consecutive days")),
	), s.addPlanRows)

	s.mcp.AddTool(mcp.NewTool("save_plan",
		mcp.WithDescription("Assemble the working schedule into a meal plan and persist it "+
			"together with its recipes, ingredients, and nutrition facts."),
	), s.savePlan)

	s.mcp.AddTool(mcp.NewTool("list_meal_plans",
		mcp.WithDescription("List persisted meal plans, newest first."),
	), s.listMealPlans)

	s.mcp.AddTool(mcp.NewTool("get_meal_plan_rows",
		mcp.WithDescription("Expand a persisted meal plan into dated rows with recipe details."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Meal plan id from list_meal_plans")),
	), s.getMealPlanRows)

	s.mcp.AddTool(mcp.NewTool("get_goal_ranges",
		mcp.WithDescription("Return the active nutrition goal ranges applied to recipe searches."),
	), s.getGoalRanges)

	s.mcp.AddTool(mcp.NewTool("get_planner_guide",
		mcp.WithDescription("Returns the planner workflow guide. Call this before building a plan."),
	), s.getPlannerGuide)

	// Resource: planner workflow guide.
	s.mcp.AddResource(
		mcp.NewResource("mealdeck://planner-guide", "Planner Workflow Guide",
			mcp.WithResourceDescription("How to build and persist a meal plan with the mealdeck tools."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPlannerGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listInventory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.Inventory(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addIngredient(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	amount, err := req.RequireFloat("amount")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	unit, err := req.RequireString("unit")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ing := models.Ingredient{Name: name, Amount: amount, Unit: unit}
	if raw, rErr := req.RequireString("expiry_date"); rErr == nil && raw != "" {
		expiry, pErr := time.Parse("2006-01-02", raw)
		if pErr != nil {
			return mcp.NewToolResultError("expiry_date must be YYYY-MM-DD"), nil
		}
		ing.ExpiryDate = &expiry
	}

	created, err := s.svc.AddIngredient(ctx, ing)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("added: %s (id %d)", created.Name, created.ID)), nil
}

func (s *Server) searchRecipes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := ""
	if q, err := req.RequireString("query"); err == nil {
		query = q
	}
	maxReadyTime := 0
	if n, err := req.RequireFloat("max_ready_time"); err == nil {
		maxReadyTime = int(n)
	}
	sortKey := ""
	if k, err := req.RequireString("sort"); err == nil {
		sortKey = k
	}

	tables, err := s.svc.SearchRecipes(ctx, query, nil, maxReadyTime, sortKey)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(tables, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addPlanRows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recipeID, err := req.RequireFloat("recipe_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	mealType, err := req.RequireString("meal_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	startDate, err := req.RequireString("start_date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	numDays, err := req.RequireFloat("num_days")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rows, err := s.svc.AddRows(int64(recipeID), models.MealType(mealType), startDate, int(numDays))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("schedule now has %d rows", len(rows))), nil
}

func (s *Server) savePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, err := s.svc.SavePlan(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved meal plan %d: %s, %d days", plan.ID, plan.StartDate, plan.NumDays)), nil
}

func (s *Server) listMealPlans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plans, err := s.svc.MealPlans(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(plans) == 0 {
		return mcp.NewToolResultText("no meal plans saved"), nil
	}
	out, _ := json.MarshalIndent(plans, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getMealPlanRows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireFloat("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rows, err := s.svc.PlanRows(ctx, int64(id))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getGoalRanges(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.svc.GoalRanges(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getPlannerGuide(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PlannerGuide), nil
}

func (s *Server) readPlannerGuideResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "mealdeck://planner-guide",
			MIMEType: "text/markdown",
			Text:     PlannerGuide,
		},
	}, nil
}
