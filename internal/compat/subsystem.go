package compat

import (
	"fmt"
	"strings"
)

// Subsystem identifies an optional plugin whose tables are only redacted
// when it is active. The zero value means "always active".
type Subsystem string

// Known subsystems. Values match the plugins' main PHP class names.
const (
	AlwaysActive         Subsystem = ""
	WooCommerce          Subsystem = "WooCommerce"
	EasyDigitalDownloads Subsystem = "Easy_Digital_Downloads"
	AffiliateWP          Subsystem = "Affiliate_WP"
	WPForms              Subsystem = "WPForms"
)

// Plugin is one installable distribution of a subsystem.
type Plugin struct {
	// Slug is the plugin directory name, as used by `wp plugin`.
	Slug string

	// File is the plugin basename stored in the active_plugins option.
	File string
}

var subsystemPlugins = map[Subsystem][]Plugin{
	WooCommerce: {
		{Slug: "woocommerce", File: "woocommerce/woocommerce.php"},
	},
	EasyDigitalDownloads: {
		{Slug: "easy-digital-downloads", File: "easy-digital-downloads/easy-digital-downloads.php"},
		{Slug: "easy-digital-downloads-pro", File: "easy-digital-downloads-pro/easy-digital-downloads.php"},
	},
	AffiliateWP: {
		{Slug: "affiliate-wp", File: "affiliate-wp/affiliate-wp.php"},
	},
	WPForms: {
		{Slug: "wpforms-lite", File: "wpforms-lite/wpforms.php"},
		{Slug: "wpforms", File: "wpforms/wpforms.php"},
	},
}

// Plugins returns the plugin distributions that provide s.
func (s Subsystem) Plugins() []Plugin {
	plugins := subsystemPlugins[s]
	out := make([]Plugin, len(plugins))
	copy(out, plugins)
	return out
}

// Optional reports whether s must be probed before its tables are used.
func (s Subsystem) Optional() bool {
	return s != AlwaysActive
}

func (s Subsystem) String() string {
	if s == AlwaysActive {
		return "core"
	}
	return string(s)
}

// ParseSubsystem resolves a subsystem by identifier or plugin slug,
// case-insensitively. "woocommerce", "WooCommerce" and "edd" all resolve.
func ParseSubsystem(s string) (Subsystem, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle == "edd" {
		return EasyDigitalDownloads, nil
	}
	for sub, plugins := range subsystemPlugins {
		if strings.ToLower(string(sub)) == needle {
			return sub, nil
		}
		for _, p := range plugins {
			if p.Slug == needle {
				return sub, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSubsystem, s)
}
