package engine

import "github.com/danieljhkim/stripdb/internal/planner"

// Partition splits inventory into tables kept with data and tables exported
// as structure only. Planned tables absent from the inventory are returned
// as missing. keep and redact follow inventory order; missing follows plan
// order.
func Partition(inventory []string, plan *planner.RedactionPlan) (keep, redact, missing []string) {
	present := make(map[string]bool, len(inventory))
	for _, table := range inventory {
		if present[table] {
			continue
		}
		present[table] = true

		if plan.Contains(table) {
			redact = append(redact, table)
		} else {
			keep = append(keep, table)
		}
	}

	for _, table := range plan.Tables {
		if !present[table] {
			missing = append(missing, table)
		}
	}
	return keep, redact, missing
}
