package compat

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ProvidersFor(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		name     string
		category Category
		want     []string
	}{
		{
			name:     "users only come from core",
			category: Users,
			want:     []string{"Core"},
		},
		{
			name:     "customers from every plugin",
			category: Customers,
			want:     []string{"AffiliateWP", "Easy Digital Downloads", "WooCommerce", "WPForms"},
		},
		{
			name:     "orders from every plugin",
			category: Orders,
			want:     []string{"AffiliateWP", "Easy Digital Downloads", "WooCommerce", "WPForms"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := reg.ProvidersFor(tt.category)
			require.NoError(t, err)

			names := make([]string, 0, len(providers))
			for _, p := range providers {
				names = append(names, p.Name())
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestRegistry_ProvidersFor_InvalidCategory(t *testing.T) {
	reg := DefaultRegistry()

	_, err := reg.ProvidersFor(Category("payments"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCategory))
}

func TestRegistry_CoreIsAlwaysActive(t *testing.T) {
	providers, err := DefaultRegistry().ProvidersFor(Users)
	require.NoError(t, err)
	require.Len(t, providers, 1)

	core := providers[0]
	assert.False(t, core.Subsystem().Optional())
	assert.Equal(t, []string{"users", "usermeta"}, core.Tables(Users))
	assert.Empty(t, core.Tables(Orders))
}

func TestRegistry_OptionalProvidersHavePlugins(t *testing.T) {
	for _, p := range DefaultRegistry().Providers() {
		if !p.Subsystem().Optional() {
			continue
		}
		assert.NotEmpty(t, p.Subsystem().Plugins(), "provider %s has no plugin files", p.Name())
		assert.Empty(t, p.Tables(Users), "provider %s must not own user tables", p.Name())
	}
}

func TestRegistry_TablesAreUnprefixed(t *testing.T) {
	for _, p := range DefaultRegistry().Providers() {
		for _, c := range AllCategories {
			for _, table := range p.Tables(c) {
				assert.False(t, strings.HasPrefix(table, "wp_"), "%s declares prefixed table %q", p.Name(), table)
			}
		}
	}
}

func TestWooCommerce_OrderAddressesSpelling(t *testing.T) {
	orders := NewWooCommerce().Tables(Orders)
	assert.Contains(t, orders, "wc_order_addresses")
	assert.NotContains(t, orders, "wc_order_adresses")
}

func TestStaticProvider_TablesReturnsCopy(t *testing.T) {
	p := NewWooCommerce()
	tables := p.Tables(Customers)
	tables[0] = "mutated"

	assert.Equal(t, "wc_customer_lookup", p.Tables(Customers)[0])
}

func TestRegistry_Overlaps(t *testing.T) {
	t.Run("built-in providers have no overlaps", func(t *testing.T) {
		assert.Empty(t, DefaultRegistry().Overlaps())
	})

	t.Run("reports tables declared twice", func(t *testing.T) {
		reg := NewRegistry(NewStaticProvider("Shop", WooCommerce, map[Category][]string{
			Customers: {"shop_customers", "shop_addresses"},
			Orders:    {"shop_orders", "shop_addresses"},
		}))

		overlaps := reg.Overlaps()
		require.Len(t, overlaps, 1)
		assert.Equal(t, "Shop", overlaps[0].Provider)
		assert.Equal(t, "shop_addresses", overlaps[0].Table)
		assert.Equal(t, []Category{Customers, Orders}, overlaps[0].Categories)
	})
}
