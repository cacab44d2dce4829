package wpdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/danieljhkim/stripdb/internal/compat"
	"github.com/danieljhkim/stripdb/internal/logger"
)

// PluginProbe detects active plugins from the active_plugins option and,
// on multisite networks, the active_sitewide_plugins site option.
//
// Both options are PHP-serialized arrays. Plugin basenames always appear
// as quoted strings in them, so a plugin is active when its quoted
// basename occurs in either value.
type PluginProbe struct {
	db     *sql.DB
	prefix string

	loaded bool
	values []string
}

// NewPluginProbe creates a probe for the installation using prefix.
func NewPluginProbe(db *sql.DB, prefix string) *PluginProbe {
	return &PluginProbe{db: db, prefix: prefix}
}

// IsActive reports whether any plugin distribution of s is active.
func (p *PluginProbe) IsActive(ctx context.Context, s compat.Subsystem) (bool, error) {
	if !s.Optional() {
		return true, nil
	}
	if err := p.load(ctx); err != nil {
		return false, err
	}

	for _, plugin := range s.Plugins() {
		needle := `"` + plugin.File + `"`
		for _, v := range p.values {
			if strings.Contains(v, needle) {
				logger.Debug("plugin active", "subsystem", s, "plugin", plugin.File)
				return true, nil
			}
		}
	}
	return false, nil
}

func (p *PluginProbe) load(ctx context.Context) error {
	if p.loaded {
		return nil
	}

	site, err := p.queryValue(ctx,
		"SELECT option_value FROM `"+p.prefix+"options` WHERE option_name = ?", "active_plugins")
	if err != nil {
		return fmt.Errorf("failed to read active plugins: %w", err)
	}

	p.values = []string{site}
	for _, table := range sitemetaTables(p.prefix) {
		network, err := p.queryValue(ctx,
			"SELECT meta_value FROM `"+table+"` WHERE meta_key = ? LIMIT 1", "active_sitewide_plugins")
		if err != nil && !isNoSuchTable(err) {
			return fmt.Errorf("failed to read network plugins: %w", err)
		}
		p.values = append(p.values, network)
	}
	p.loaded = true
	return nil
}

// subsitePrefix matches the prefix of a multisite sub-site, "wp_2_" for
// base prefix "wp_".
var subsitePrefix = regexp.MustCompile(`^(.*_)[0-9]+_$`)

// sitemetaTables returns the tables that may hold the network options.
// Sub-sites share the network's sitemeta table under the base prefix.
func sitemetaTables(prefix string) []string {
	tables := []string{prefix + "sitemeta"}
	if m := subsitePrefix.FindStringSubmatch(prefix); m != nil {
		tables = append(tables, m[1]+"sitemeta")
	}
	return tables
}

// queryValue returns the single string column of the first row, or "" when
// there is no row.
func (p *PluginProbe) queryValue(ctx context.Context, query string, args ...any) (string, error) {
	var value sql.NullString
	err := p.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value.String, nil
}
