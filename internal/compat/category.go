package compat

import (
	"fmt"
	"strings"
)

// Category is a logical group of sensitive data that can be stripped from a dump.
type Category string

const (
	// Users covers WordPress accounts and their metadata.
	Users Category = "users"

	// Customers covers customer records kept by commerce and form plugins.
	Customers Category = "customers"

	// Orders covers orders, payments and other transaction records.
	Orders Category = "orders"
)

// AllCategories lists every category in a stable order.
var AllCategories = []Category{Users, Customers, Orders}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case Users, Customers, Orders:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory converts a user supplied name into a Category.
// The special name "all" is rejected here; use ExpandCategories for it.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// ExpandCategories parses names into a de-duplicated category list.
// "all" expands to AllCategories. Order follows AllCategories.
func ExpandCategories(names []string) ([]Category, error) {
	seen := make(map[Category]bool, len(AllCategories))
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), "all") {
			for _, c := range AllCategories {
				seen[c] = true
			}
			continue
		}
		c, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		seen[c] = true
	}

	result := make([]Category, 0, len(seen))
	for _, c := range AllCategories {
		if seen[c] {
			result = append(result, c)
		}
	}
	return result, nil
}
