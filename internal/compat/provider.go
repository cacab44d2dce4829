package compat

// TableProvider declares the tables one subsystem owns per category.
type TableProvider interface {
	// Name is a human readable provider name.
	Name() string

	// Subsystem is the subsystem that must be active for the tables to be
	// considered. AlwaysActive for WordPress core.
	Subsystem() Subsystem

	// Tables returns the unprefixed table names for c, or nil when the
	// provider does not participate in c.
	Tables(c Category) []string
}

// StaticProvider is a TableProvider backed by fixed table lists.
type StaticProvider struct {
	name      string
	subsystem Subsystem
	tables    map[Category][]string
}

// NewStaticProvider creates a provider for subsystem with the given tables.
func NewStaticProvider(name string, subsystem Subsystem, tables map[Category][]string) *StaticProvider {
	return &StaticProvider{
		name:      name,
		subsystem: subsystem,
		tables:    tables,
	}
}

// Name returns the provider name.
func (p *StaticProvider) Name() string {
	return p.name
}

// Subsystem returns the subsystem gating this provider.
func (p *StaticProvider) Subsystem() Subsystem {
	return p.subsystem
}

// Tables returns a copy of the table list for c.
func (p *StaticProvider) Tables(c Category) []string {
	tables := p.tables[c]
	if len(tables) == 0 {
		return nil
	}
	out := make([]string, len(tables))
	copy(out, tables)
	return out
}
