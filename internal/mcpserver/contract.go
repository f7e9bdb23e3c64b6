package mcpserver

// PlannerGuide describes the planning workflow that LLM consumers should
// follow when building a meal plan through the tools.
const PlannerGuide = `# Mealdeck Planner Guide

Meal plans are built from a working schedule of flat rows, one row per
(date, meal slot) pair, then persisted in a single step.

## Workflow

1. **Stock the inventory.** Use ` + "`add_ingredient`" + ` for everything on hand.
   Include ` + "`expiry_date`" + ` where known so searches can prefer ingredients
   that expire soon.
2. **Search recipes.** Call ` + "`search_recipes`" + `. The search automatically
   includes the distinct inventory ingredient names and the active goal
   ranges (see ` + "`get_goal_ranges`" + `); a free-text ` + "`query`" + ` narrows it further.
   Only recipes from the most recent search can be scheduled.
3. **Build the schedule.** Call ` + "`add_plan_rows`" + ` once per recipe and slot.
   A single call covers one ` + "`meal_type`" + ` across ` + "`num_days`" + ` consecutive days
   starting at ` + "`start_date`" + `.
4. **Persist.** Call ` + "`save_plan`" + `. The schedule is assembled into a plan
   with one breakfast, lunch, and dinner entry per day.

## Rules

1. **Meal types** are exactly ` + "`breakfast`" + `, ` + "`lunch`" + `, ` + "`dinner`" + `.
2. **Dates** use ` + "`YYYY-MM-DD`" + `. All rows must fall inside one contiguous
   period; the earliest date becomes the plan's start date.
3. **Every slot of every day must be filled** before ` + "`save_plan`" + ` succeeds.
   A recipe may appear in several slots.
4. **Recipes must carry nutrition facts.** Saving fails when a scheduled
   recipe has none, and nothing is persisted in that case.
5. **Saved plans are immutable.** Inspect them with ` + "`list_meal_plans`" + ` and
   ` + "`get_meal_plan_rows`" + `; build a new plan rather than editing an old one.
`
