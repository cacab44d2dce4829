package planner

import (
	"context"
	"fmt"
	"sort"

	"github.com/danieljhkim/stripdb/internal/compat"
)

// RedactionPlan is the set of physical tables whose rows are stripped.
type RedactionPlan struct {
	// Categories is the requested categories, in compat.AllCategories order.
	Categories []compat.Category `json:"categories"`

	// Prefix is the table prefix applied to every table.
	Prefix string `json:"prefix"`

	// Tables is the sorted, de-duplicated list of prefixed table names.
	Tables []string `json:"tables"`

	// Providers names the providers that contributed tables.
	Providers []string `json:"providers"`

	// Inactive names the optional subsystems that were skipped.
	Inactive []string `json:"inactive,omitempty"`
}

// Contains reports whether table (prefixed) is redacted by the plan.
func (p *RedactionPlan) Contains(table string) bool {
	i := sort.SearchStrings(p.Tables, table)
	return i < len(p.Tables) && p.Tables[i] == table
}

// HasCategory reports whether c was requested.
func (p *RedactionPlan) HasCategory(c compat.Category) bool {
	for _, pc := range p.Categories {
		if pc == c {
			return true
		}
	}
	return false
}

// IsEmpty returns true if the plan redacts no tables.
func (p *RedactionPlan) IsEmpty() bool {
	return len(p.Tables) == 0
}

// Planner builds redaction plans from a provider registry.
type Planner struct {
	registry *compat.Registry
}

// New creates a Planner backed by registry.
func New(registry *compat.Registry) *Planner {
	return &Planner{registry: registry}
}

// Plan resolves the requested categories into a RedactionPlan.
//
// Optional providers are only consulted when probe reports their subsystem
// active. A probe failure aborts planning rather than being read as
// "inactive", since that would silently leave sensitive rows in the dump.
// An empty result, including an empty request, returns ErrNoTablesSelected
// together with the (empty) plan so callers can report what was skipped.
func (pl *Planner) Plan(ctx context.Context, requested []compat.Category, probe Probe, prefix string) (*RedactionPlan, error) {
	plan := &RedactionPlan{
		Prefix:    prefix,
		Tables:    []string{},
		Providers: []string{},
	}

	wanted := make(map[compat.Category]bool, len(requested))
	for _, c := range requested {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: %q", compat.ErrInvalidCategory, string(c))
		}
		wanted[c] = true
	}
	for _, c := range compat.AllCategories {
		if wanted[c] {
			plan.Categories = append(plan.Categories, c)
		}
	}

	cached := newCachedProbe(probe)
	names := make(map[string]bool)
	contributed := make(map[string]bool)
	skipped := make(map[string]bool)

	for _, c := range plan.Categories {
		providers, err := pl.registry.ProvidersFor(c)
		if err != nil {
			return nil, err
		}

		for _, p := range providers {
			active, err := cached.IsActive(ctx, p.Subsystem())
			if err != nil {
				return nil, fmt.Errorf("failed to detect %s: %w", p.Subsystem(), err)
			}
			if !active {
				if !skipped[p.Subsystem().String()] {
					skipped[p.Subsystem().String()] = true
					plan.Inactive = append(plan.Inactive, p.Subsystem().String())
				}
				continue
			}

			for _, table := range p.Tables(c) {
				names[table] = true
			}
			if !contributed[p.Name()] {
				contributed[p.Name()] = true
				plan.Providers = append(plan.Providers, p.Name())
			}
		}
	}

	for table := range names {
		plan.Tables = append(plan.Tables, prefix+table)
	}
	sort.Strings(plan.Tables)

	if plan.IsEmpty() {
		return plan, ErrNoTablesSelected
	}
	return plan, nil
}
