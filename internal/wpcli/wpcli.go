// Package wpcli answers inventory, plugin and prefix questions through
// WP-CLI, for installs where stripdb has no direct database credentials.
package wpcli

import (
	"context"
	"fmt"
	"strings"

	"github.com/danieljhkim/stripdb/internal/compat"
	"github.com/danieljhkim/stripdb/internal/execx"
	"github.com/danieljhkim/stripdb/internal/logger"
)

// Client runs wp commands against one WordPress install.
type Client struct {
	runner execx.Runner
	bin    string
	path   string
}

// New creates a Client running bin (default "wp") against the install at
// path (empty for WP-CLI's own discovery).
func New(runner execx.Runner, bin, path string) *Client {
	if bin == "" {
		bin = "wp"
	}
	return &Client{runner: runner, bin: bin, path: path}
}

func (c *Client) cmd(args ...string) execx.Cmd {
	if c.path != "" {
		args = append(args, "--path="+c.path)
	}
	return execx.Cmd{Name: c.bin, Args: args}
}

func (c *Client) output(ctx context.Context, args ...string) (string, error) {
	cmd := c.cmd(args...)
	logger.Debug("running wp", "cmd", cmd.String())
	out, err := execx.Output(ctx, c.runner, cmd)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Prefix returns the table prefix configured in wp-config.php.
func (c *Client) Prefix(ctx context.Context) (string, error) {
	prefix, err := c.output(ctx, "db", "prefix")
	if err != nil {
		return "", fmt.Errorf("failed to read table prefix: %w", err)
	}
	return prefix, nil
}

// ListTables returns every table in the database, including tables that do
// not carry the WordPress prefix.
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	out, err := c.output(ctx, "db", "tables", "--all-tables", "--format=csv")
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	if out == "" {
		return nil, nil
	}

	var tables []string
	for _, name := range strings.Split(out, ",") {
		if name = strings.TrimSpace(name); name != "" {
			tables = append(tables, name)
		}
	}
	return tables, nil
}

// IsActive reports whether any plugin distribution of s is active.
// `wp plugin is-active` exits 1 for inactive or missing plugins; any other
// failure is returned as an error.
func (c *Client) IsActive(ctx context.Context, s compat.Subsystem) (bool, error) {
	if !s.Optional() {
		return true, nil
	}

	for _, plugin := range s.Plugins() {
		_, err := c.output(ctx, "plugin", "is-active", plugin.Slug)
		if err == nil {
			logger.Debug("plugin active", "subsystem", s, "plugin", plugin.Slug)
			return true, nil
		}
		if execx.ExitCode(err) != 1 {
			return false, fmt.Errorf("failed to check plugin %s: %w", plugin.Slug, err)
		}
	}
	return false, nil
}
