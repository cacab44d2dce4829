package compat

// NewEasyDigitalDownloads returns the provider for Easy Digital Downloads.
// Logs and notes are treated as customer data since they record customer
// activity and email traffic.
func NewEasyDigitalDownloads() *StaticProvider {
	return NewStaticProvider("Easy Digital Downloads", EasyDigitalDownloads, map[Category][]string{
		Customers: {
			"edd_customers",
			"edd_customermeta",
			"edd_customer_email_addresses",
			"edd_customer_addresses",
			"edd_logs",
			"edd_logs_api_requestmeta",
			"edd_logs_api_requests",
			"edd_logs_emailmeta",
			"edd_logs_emails",
			"edd_logs_file_downloadmeta",
			"edd_logs_file_downloads",
			"edd_notemeta",
			"edd_notes",
		},
		Orders: {
			"edd_orders",
			"edd_ordermeta",
			"edd_order_transactions",
			"edd_order_items",
			"edd_order_itemmeta",
			"edd_order_adjustments",
			"edd_order_adjustmentmeta",
			"edd_order_addresses",
			"edd_subscriptions",
		},
	})
}
