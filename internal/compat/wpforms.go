package compat

// NewWPForms returns the provider for WPForms. Form entries are customer data.
func NewWPForms() *StaticProvider {
	return NewStaticProvider("WPForms", WPForms, map[Category][]string{
		Customers: {
			"wpforms_entries",
			"wpforms_entry_fields",
			"wpforms_entry_meta",
		},
		Orders: {
			"wpforms_payments",
			"wpforms_payment_meta",
		},
	})
}
