// Package pantry provides read access to the ingredient inventory: what is
// on hand, how fresh it is, and the name set used to bias recipe search.
package pantry

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ravlik/mealdeck/internal/models"
	"github.com/ravlik/mealdeck/internal/store"
)

// Load reads every ingredient row from the store. Rows with a stored but
// unparseable expiry fail the whole load.
func Load(ctx context.Context, db *store.DB) ([]models.Ingredient, error) {
	return db.ListIngredients(ctx)
}

// Names returns the case-folded, de-duplicated, lexicographically sorted
// ingredient names currently on file.
func Names(ctx context.Context, db *store.DB) ([]string, error) {
	ings, err := db.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ings))
	for _, ing := range ings {
		set[strings.ToLower(ing.Name)] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// DaysUntilExpiry returns the signed whole-day difference between the
// ingredient's expiry and now; negative means already expired. An
// ingredient without an expiry date has no freshness to report.
func DaysUntilExpiry(ing models.Ingredient, now time.Time) (int, error) {
	if ing.ExpiryDate == nil {
		return 0, fmt.Errorf("ingredient %q has no expiry date", ing.Name)
	}
	days := math.Floor(ing.ExpiryDate.Sub(now).Hours() / 24)
	return int(days), nil
}
