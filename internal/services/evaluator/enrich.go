package evaluator

import "github.com/solofarma/alerts/internal/models"

// collectIDs returns the distinct ids referenced by the given alerts, in
// first-seen order.
func collectIDs(alerts []models.Alert, key func(models.Alert) int64) []int64 {
	seen := make(map[int64]struct{}, len(alerts))
	ids := make([]int64, 0, len(alerts))
	for _, a := range alerts {
		id := key(a)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// buildLookup indexes a batch-read result by its own id field.
func buildLookup[T any](items []T, key func(T) int64) map[int64]T {
	lookup := make(map[int64]T, len(items))
	for _, item := range items {
		lookup[key(item)] = item
	}
	return lookup
}

// resolveAlerts attaches each alert's product and user by lookup. A missing
// entry yields a nil reference, which the evaluation loop reports as an
// incomplete alert rather than a join failure.
func resolveAlerts(
	alerts []models.Alert,
	products map[int64]models.Product,
	users map[int64]models.User,
) []models.EnrichedAlert {
	enriched := make([]models.EnrichedAlert, 0, len(alerts))
	for _, a := range alerts {
		ea := models.EnrichedAlert{Alert: a}
		if p, ok := products[a.ProductID]; ok {
			ea.Product = &p
		}
		if u, ok := users[a.UserID]; ok {
			ea.User = &u
		}
		enriched = append(enriched, ea)
	}
	return enriched
}
