package compat

// NewWooCommerce returns the provider for WooCommerce.
func NewWooCommerce() *StaticProvider {
	return NewStaticProvider("WooCommerce", WooCommerce, map[Category][]string{
		Customers: {
			"wc_customer_lookup",
		},
		Orders: {
			"wc_orders_meta",
			"wc_orders",
			"wc_order_tax_lookup",
			"wc_order_stats",
			"wc_order_product_lookup",
			"wc_order_operational_data",
			"wc_order_coupon_lookup",
			"wc_order_addresses",
			"wc_order_items",
			"wc_order_itemmeta",
		},
	})
}
