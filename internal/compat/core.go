package compat

// NewCore returns the provider for WordPress core. It only owns user data and
// is always active.
func NewCore() *StaticProvider {
	return NewStaticProvider("Core", AlwaysActive, map[Category][]string{
		Users: {
			"users",
			"usermeta",
		},
	})
}
