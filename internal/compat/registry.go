package compat

import (
	"fmt"
	"sort"
)

// Registry maps categories to the providers that contribute tables to them.
type Registry struct {
	providers []TableProvider
}

// NewRegistry creates a registry consulting providers in the given order.
func NewRegistry(providers ...TableProvider) *Registry {
	return &Registry{providers: providers}
}

// DefaultRegistry returns a registry with every built-in provider.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewCore(),
		NewAffiliateWP(),
		NewEasyDigitalDownloads(),
		NewWooCommerce(),
		NewWPForms(),
	)
}

// Providers returns all registered providers in registration order.
func (r *Registry) Providers() []TableProvider {
	out := make([]TableProvider, len(r.providers))
	copy(out, r.providers)
	return out
}

// ProvidersFor returns the providers declaring at least one table for c,
// in registration order.
func (r *Registry) ProvidersFor(c Category) ([]TableProvider, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, string(c))
	}

	var result []TableProvider
	for _, p := range r.providers {
		if len(p.Tables(c)) > 0 {
			result = append(result, p)
		}
	}
	return result, nil
}

// Overlap is a table one provider declares under more than one category.
type Overlap struct {
	Provider   string
	Table      string
	Categories []Category
}

// Overlaps reports tables declared under several categories by the same
// provider. Planning de-duplicates them, so an overlap is harmless at run
// time but usually points at a mistake in a provider's table lists.
func (r *Registry) Overlaps() []Overlap {
	var overlaps []Overlap
	for _, p := range r.providers {
		byTable := make(map[string][]Category)
		for _, c := range AllCategories {
			for _, t := range p.Tables(c) {
				byTable[t] = append(byTable[t], c)
			}
		}

		tables := make([]string, 0, len(byTable))
		for t, cats := range byTable {
			if len(cats) > 1 {
				tables = append(tables, t)
			}
		}
		sort.Strings(tables)

		for _, t := range tables {
			overlaps = append(overlaps, Overlap{
				Provider:   p.Name(),
				Table:      t,
				Categories: byTable[t],
			})
		}
	}
	return overlaps
}
