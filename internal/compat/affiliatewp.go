package compat

// NewAffiliateWP returns the provider for AffiliateWP.
func NewAffiliateWP() *StaticProvider {
	return NewStaticProvider("AffiliateWP", AffiliateWP, map[Category][]string{
		Customers: {
			"affiliate_wp_affiliates",
			"affiliate_wp_affiliatemeta",
			"affiliate_wp_customers",
			"affiliate_wp_customermeta",
			"affiliate_wp_lifetime_customers",
			"affiliate_wp_payouts",
			"affiliate_wp_visits",
		},
		Orders: {
			"affiliate_wp_referrals",
			"affiliate_wp_referralmeta",
			"affiliate_wp_sales",
		},
	})
}
