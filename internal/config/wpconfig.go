package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// WPConfig holds the database settings found in wp-config.php.
type WPConfig struct {
	Name      string
	User      string
	Password  string
	Host      string
	Charset   string
	HasPrefix bool

	TablePrefix string
}

var (
	definePattern = regexp.MustCompile(`define\(\s*['"](DB_NAME|DB_USER|DB_PASSWORD|DB_HOST|DB_CHARSET)['"]\s*,\s*(?:'([^']*)'|"([^"]*)")\s*\)`)
	prefixAssign  = regexp.MustCompile(`\$table_prefix\s*=\s*(?:'([^']*)'|"([^"]*)")\s*;`)
	lineComment   = regexp.MustCompile(`(?m)^\s*(?://|#).*$`)
	blockComment  = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// ParseWPConfig extracts database settings from the contents of a
// wp-config.php file. Only literal string values are understood; settings
// computed at runtime (getenv, constants) are left empty.
func ParseWPConfig(data []byte) *WPConfig {
	src := blockComment.ReplaceAll(data, nil)
	src = lineComment.ReplaceAll(src, nil)

	cfg := &WPConfig{}
	for _, m := range definePattern.FindAllSubmatch(src, -1) {
		value := string(m[2]) + string(m[3])
		switch string(m[1]) {
		case "DB_NAME":
			cfg.Name = value
		case "DB_USER":
			cfg.User = value
		case "DB_PASSWORD":
			cfg.Password = value
		case "DB_HOST":
			cfg.Host = value
		case "DB_CHARSET":
			cfg.Charset = value
		}
	}

	if m := prefixAssign.FindSubmatch(src); m != nil {
		cfg.TablePrefix = string(m[1]) + string(m[2])
		cfg.HasPrefix = true
	}
	return cfg
}

// wpConfigCandidates lists where WordPress itself looks for wp-config.php:
// the install root and the directory above it.
func wpConfigCandidates(wpPath string) []string {
	if wpPath == "" {
		wpPath = "."
	}
	return []string{
		filepath.Join(wpPath, "wp-config.php"),
		filepath.Join(wpPath, "..", "wp-config.php"),
	}
}

// loadWPConfig reads explicit, or the first wp-config.php found around
// wpPath. An explicit path must exist; discovery failing is not an error.
func loadWPConfig(explicit, wpPath string) (*WPConfig, string, error) {
	if explicit != "" {
		data, err := os.ReadFile(explicit)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read wp-config: %w", err)
		}
		return ParseWPConfig(data), explicit, nil
	}

	for _, candidate := range wpConfigCandidates(wpPath) {
		data, err := os.ReadFile(candidate)
		if err != nil {
			continue
		}
		return ParseWPConfig(data), candidate, nil
	}
	return nil, "", nil
}
