// Package config resolves how stripdb reaches the WordPress database.
//
// Settings are merged from, highest precedence first: command line flags,
// STRIPDB_* environment variables, a .env file, and the install's
// wp-config.php. A DSN, when given, replaces the wp-config.php connection
// as a whole; individual host/port/user/password/database settings are
// then applied on top of it.
package config

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/shlex"

	"github.com/danieljhkim/stripdb/internal/compat"
	"github.com/danieljhkim/stripdb/internal/logger"
)

// Backends.
const (
	BackendAuto  = "auto"
	BackendMySQL = "mysql"
	BackendWP    = "wp"
)

// DefaultPrefix is WordPress' default table prefix.
const DefaultPrefix = "wp_"

var (
	// ErrNoDatabase indicates the mysql backend has no database name.
	ErrNoDatabase = errors.New("no database configured")

	// ErrInvalidPrefix indicates a table prefix WordPress would not accept.
	ErrInvalidPrefix = errors.New("invalid table prefix")

	// ErrInvalidBackend indicates an unknown backend name.
	ErrInvalidBackend = errors.New("invalid backend")
)

var prefixPattern = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

// ValidatePrefix rejects prefixes with characters WordPress does not allow.
// The prefix ends up in SQL identifiers and dump tool arguments.
func ValidatePrefix(prefix string) error {
	if !prefixPattern.MatchString(prefix) {
		return fmt.Errorf("%w: %q", ErrInvalidPrefix, prefix)
	}
	return nil
}

// Options holds raw values from command line flags. Empty fields fall back
// to the environment and wp-config.php.
type Options struct {
	Backend      string
	DSN          string
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	Prefix       string
	WPConfig     string
	WPPath       string
	MysqldumpBin string
	WPBin        string
	Plugins      []string
}

// Config is the resolved configuration.
type Config struct {
	// Backend is BackendMySQL or BackendWP.
	Backend string

	// MySQL is the connection for the mysql backend, nil for the wp backend.
	MySQL *mysql.Config

	// Prefix is the table prefix. Empty with the wp backend means "ask WP-CLI".
	Prefix string

	// WPPath is the WordPress root passed to WP-CLI.
	WPPath string

	// WPConfigPath is the wp-config.php that was read, if any.
	WPConfigPath string

	MysqldumpBin string
	WPBin        string

	// Plugins, when non-nil, replaces plugin detection.
	Plugins []compat.Subsystem

	// ExportArgs are extra dump tool arguments from STRIPDB_EXPORT_ARGS.
	ExportArgs []string
}

// Resolve merges opts with env and wp-config.php.
func Resolve(opts Options, env *Env) (*Config, error) {
	pick := func(flag, key string) string {
		if flag != "" {
			return flag
		}
		return env.Get(key)
	}

	cfg := &Config{
		WPPath:       pick(opts.WPPath, "STRIPDB_WP_PATH"),
		MysqldumpBin: pick(opts.MysqldumpBin, "STRIPDB_MYSQLDUMP"),
		WPBin:        pick(opts.WPBin, "STRIPDB_WP_BIN"),
	}

	wp, wpPath, err := loadWPConfig(pick(opts.WPConfig, "STRIPDB_WP_CONFIG"), cfg.WPPath)
	if err != nil {
		return nil, err
	}
	cfg.WPConfigPath = wpPath

	conn, err := resolveConn(opts, env, wp, pick)
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(pick(opts.Backend, "STRIPDB_BACKEND"))
	switch backend {
	case "", BackendAuto:
		backend = BackendWP
		if conn.DBName != "" {
			backend = BackendMySQL
		}
	case BackendMySQL, BackendWP:
	default:
		return nil, fmt.Errorf("%w: %q (want mysql, wp or auto)", ErrInvalidBackend, backend)
	}
	cfg.Backend = backend

	if backend == BackendMySQL {
		if conn.DBName == "" {
			return nil, fmt.Errorf("%w: use --database, --dsn, STRIPDB_DATABASE or point --wp-config at wp-config.php", ErrNoDatabase)
		}
		cfg.MySQL = conn
	}

	cfg.Prefix = pick(opts.Prefix, "STRIPDB_PREFIX")
	if cfg.Prefix == "" && wp != nil && wp.HasPrefix {
		cfg.Prefix = wp.TablePrefix
	}
	if cfg.Prefix == "" && backend == BackendMySQL {
		cfg.Prefix = DefaultPrefix
	}
	if err := ValidatePrefix(cfg.Prefix); err != nil {
		return nil, err
	}

	if plugins := opts.Plugins; len(plugins) > 0 || env.Get("STRIPDB_PLUGINS") != "" {
		if len(plugins) == 0 {
			plugins = strings.Split(env.Get("STRIPDB_PLUGINS"), ",")
		}
		cfg.Plugins, err = parsePlugins(plugins)
		if err != nil {
			return nil, err
		}
	}

	if raw := env.Get("STRIPDB_EXPORT_ARGS"); raw != "" {
		cfg.ExportArgs, err = shlex.Split(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse STRIPDB_EXPORT_ARGS: %w", err)
		}
	}

	logger.Debug("resolved config", "backend", cfg.Backend, "prefix", cfg.Prefix, "wp_config", cfg.WPConfigPath)
	return cfg, nil
}

func resolveConn(opts Options, env *Env, wp *WPConfig, pick func(string, string) string) (*mysql.Config, error) {
	conn := mysql.NewConfig()
	conn.Net = "tcp"

	if wp != nil {
		conn.User = wp.User
		conn.Passwd = wp.Password
		conn.DBName = wp.Name
		conn.Net, conn.Addr = splitHost(wp.Host, "")
		if wp.Charset != "" {
			conn.Params = map[string]string{"charset": wp.Charset}
		}
	}

	if dsn := pick(opts.DSN, "STRIPDB_DSN"); dsn != "" {
		parsed, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to parse DSN: %w", err)
		}
		conn = parsed
	}

	var port string
	if opts.Port > 0 {
		port = strconv.Itoa(opts.Port)
	} else {
		port = env.Get("STRIPDB_PORT")
	}
	if host := pick(opts.Host, "STRIPDB_HOST"); host != "" || port != "" {
		if host == "" {
			host, _ = hostOnly(conn.Addr)
		}
		conn.Net, conn.Addr = splitHost(host, port)
	}

	if v := pick(opts.User, "STRIPDB_USER"); v != "" {
		conn.User = v
	}
	if v := pick(opts.Password, "STRIPDB_PASSWORD"); v != "" {
		conn.Passwd = v
	}
	if v := pick(opts.Database, "STRIPDB_DATABASE"); v != "" {
		conn.DBName = v
	}

	if conn.Addr == "" {
		conn.Addr = "127.0.0.1:3306"
	}
	return conn, nil
}

// splitHost converts a WordPress style host ("db", "db:3307",
// "localhost:/tmp/mysql.sock", "/tmp/mysql.sock") into a driver network
// and address. port, when set, overrides a port in host.
func splitHost(host, port string) (network, addr string) {
	if host == "" {
		host = "127.0.0.1"
	}
	if strings.HasPrefix(host, "/") {
		return "unix", host
	}
	if i := strings.Index(host, ":/"); i >= 0 {
		return "unix", host[i+1:]
	}

	h, p := hostOnly(host)
	if port != "" {
		p = port
	}
	if p == "" {
		p = "3306"
	}
	return "tcp", net.JoinHostPort(h, p)
}

func hostOnly(addr string) (host, port string) {
	if h, p, err := net.SplitHostPort(addr); err == nil {
		return h, p
	}
	return strings.Trim(addr, "[]"), ""
}

func parsePlugins(names []string) ([]compat.Subsystem, error) {
	plugins := []compat.Subsystem{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || strings.EqualFold(name, "none") {
			continue
		}
		s, err := compat.ParseSubsystem(name)
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, s)
	}
	return plugins, nil
}
