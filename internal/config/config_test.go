package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/stripdb/internal/compat"
)

const sampleWPConfig = `<?php
/**
 * The base configuration for WordPress
 * define( 'DB_NAME', 'commented_out' );
 */

// ** Database settings ** //
define( 'DB_NAME', 'shop' );
define( 'DB_USER', "shop_user" );
define('DB_PASSWORD','p@ss;word');
define( 'DB_HOST', 'db.internal:3307' );
define( 'DB_CHARSET', 'utf8mb4' );
// define( 'DB_USER', 'old_user' );

$table_prefix = 'shop_';

require_once ABSPATH . 'wp-settings.php';
`

func writeWPConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "wp-config.php")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func emptyEnv() *Env {
	return NewEnv(nil, nil)
}

func TestParseWPConfig(t *testing.T) {
	cfg := ParseWPConfig([]byte(sampleWPConfig))

	assert.Equal(t, "shop", cfg.Name)
	assert.Equal(t, "shop_user", cfg.User)
	assert.Equal(t, "p@ss;word", cfg.Password)
	assert.Equal(t, "db.internal:3307", cfg.Host)
	assert.Equal(t, "utf8mb4", cfg.Charset)
	assert.True(t, cfg.HasPrefix)
	assert.Equal(t, "shop_", cfg.TablePrefix)
}

func TestParseWPConfig_Empty(t *testing.T) {
	cfg := ParseWPConfig([]byte("<?php\n"))
	assert.Empty(t, cfg.Name)
	assert.False(t, cfg.HasPrefix)
}

func TestResolve_FromWPConfig(t *testing.T) {
	dir := t.TempDir()
	writeWPConfig(t, dir, sampleWPConfig)

	cfg, err := Resolve(Options{WPPath: dir}, emptyEnv())
	require.NoError(t, err)

	assert.Equal(t, BackendMySQL, cfg.Backend)
	assert.Equal(t, "shop_", cfg.Prefix)
	assert.Equal(t, filepath.Join(dir, "wp-config.php"), cfg.WPConfigPath)
	require.NotNil(t, cfg.MySQL)
	assert.Equal(t, "tcp", cfg.MySQL.Net)
	assert.Equal(t, "db.internal:3307", cfg.MySQL.Addr)
	assert.Equal(t, "shop_user", cfg.MySQL.User)
	assert.Equal(t, "p@ss;word", cfg.MySQL.Passwd)
	assert.Equal(t, "shop", cfg.MySQL.DBName)
	assert.Equal(t, "utf8mb4", cfg.MySQL.Params["charset"])
}

func TestResolve_WPConfigOneLevelUp(t *testing.T) {
	root := t.TempDir()
	writeWPConfig(t, root, sampleWPConfig)
	wpDir := filepath.Join(root, "public")
	require.NoError(t, os.MkdirAll(wpDir, 0755))

	cfg, err := Resolve(Options{WPPath: wpDir}, emptyEnv())
	require.NoError(t, err)
	assert.Equal(t, "shop", cfg.MySQL.DBName)
}

func TestResolve_Precedence(t *testing.T) {
	dir := t.TempDir()
	wpConfig := writeWPConfig(t, dir, sampleWPConfig)

	env := NewEnv(func(key string) (string, bool) {
		switch key {
		case "STRIPDB_USER":
			return "env_user", true
		case "STRIPDB_PREFIX":
			return "env_", true
		}
		return "", false
	}, map[string]string{
		"STRIPDB_USER":     "dotenv_user",
		"STRIPDB_PASSWORD": "dotenv_pass",
	})

	cfg, err := Resolve(Options{
		WPConfig: wpConfig,
		Prefix:   "flag_",
		Port:     3310,
	}, env)
	require.NoError(t, err)

	assert.Equal(t, "flag_", cfg.Prefix, "flag beats env")
	assert.Equal(t, "env_user", cfg.MySQL.User, "env beats .env and wp-config")
	assert.Equal(t, "dotenv_pass", cfg.MySQL.Passwd, ".env beats wp-config")
	assert.Equal(t, "db.internal:3310", cfg.MySQL.Addr, "port flag keeps wp-config host")
	assert.Equal(t, "shop", cfg.MySQL.DBName)
}

func TestResolve_DSN(t *testing.T) {
	cfg, err := Resolve(Options{
		DSN:      "root:secret@tcp(10.0.0.5:3306)/blog",
		Database: "blog_staging",
	}, emptyEnv())
	require.NoError(t, err)

	assert.Equal(t, BackendMySQL, cfg.Backend)
	assert.Equal(t, "root", cfg.MySQL.User)
	assert.Equal(t, "secret", cfg.MySQL.Passwd)
	assert.Equal(t, "10.0.0.5:3306", cfg.MySQL.Addr)
	assert.Equal(t, "blog_staging", cfg.MySQL.DBName)
	assert.Equal(t, DefaultPrefix, cfg.Prefix)
}

func TestResolve_InvalidDSN(t *testing.T) {
	_, err := Resolve(Options{DSN: "not a dsn"}, emptyEnv())
	assert.Error(t, err)
}

func TestResolve_Socket(t *testing.T) {
	cfg, err := Resolve(Options{Host: "localhost:/run/mysqld/mysqld.sock", Database: "wp"}, emptyEnv())
	require.NoError(t, err)
	assert.Equal(t, "unix", cfg.MySQL.Net)
	assert.Equal(t, "/run/mysqld/mysqld.sock", cfg.MySQL.Addr)
}

func TestResolve_Backend(t *testing.T) {
	t.Run("auto falls back to wp without a database", func(t *testing.T) {
		cfg, err := Resolve(Options{WPPath: t.TempDir()}, emptyEnv())
		require.NoError(t, err)
		assert.Equal(t, BackendWP, cfg.Backend)
		assert.Nil(t, cfg.MySQL)
		assert.Empty(t, cfg.Prefix, "wp backend asks WP-CLI for the prefix")
	})

	t.Run("mysql requires a database", func(t *testing.T) {
		_, err := Resolve(Options{Backend: "mysql", WPPath: t.TempDir()}, emptyEnv())
		assert.True(t, errors.Is(err, ErrNoDatabase))
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := Resolve(Options{Backend: "postgres"}, emptyEnv())
		assert.True(t, errors.Is(err, ErrInvalidBackend))
	})
}

func TestResolve_InvalidPrefix(t *testing.T) {
	_, err := Resolve(Options{Database: "wp", Prefix: "wp`; DROP"}, emptyEnv())
	assert.True(t, errors.Is(err, ErrInvalidPrefix))
}

func TestResolve_MissingExplicitWPConfig(t *testing.T) {
	_, err := Resolve(Options{WPConfig: filepath.Join(t.TempDir(), "nope.php")}, emptyEnv())
	assert.Error(t, err)
}

func TestResolve_Plugins(t *testing.T) {
	cfg, err := Resolve(Options{Database: "wp", Plugins: []string{"woocommerce", "edd"}}, emptyEnv())
	require.NoError(t, err)
	assert.Equal(t, []compat.Subsystem{compat.WooCommerce, compat.EasyDigitalDownloads}, cfg.Plugins)

	cfg, err = Resolve(Options{Database: "wp"}, NewEnv(nil, map[string]string{"STRIPDB_PLUGINS": "none"}))
	require.NoError(t, err)
	assert.NotNil(t, cfg.Plugins)
	assert.Empty(t, cfg.Plugins)

	cfg, err = Resolve(Options{Database: "wp"}, emptyEnv())
	require.NoError(t, err)
	assert.Nil(t, cfg.Plugins, "nil means detect")

	_, err = Resolve(Options{Database: "wp", Plugins: []string{"jetpack"}}, emptyEnv())
	assert.True(t, errors.Is(err, compat.ErrUnknownSubsystem))
}

func TestResolve_ExportArgs(t *testing.T) {
	env := NewEnv(nil, map[string]string{
		"STRIPDB_EXPORT_ARGS": `--skip-comments --default-character-set="utf8mb4"`,
	})
	cfg, err := Resolve(Options{Database: "wp"}, env)
	require.NoError(t, err)
	assert.Equal(t, []string{"--skip-comments", "--default-character-set=utf8mb4"}, cfg.ExportArgs)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("STRIPDB_TEST_ONLY_KEY=from-dotenv\n"), 0644))

	env, err := LoadEnv(path, true)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", env.Get("STRIPDB_TEST_ONLY_KEY"))
	assert.Equal(t, path, env.EnvFile)

	t.Setenv("STRIPDB_TEST_ONLY_KEY", "from-env")
	assert.Equal(t, "from-env", env.Get("STRIPDB_TEST_ONLY_KEY"))

	_, err = LoadEnv(filepath.Join(dir, "missing.env"), false)
	assert.NoError(t, err)

	_, err = LoadEnv(filepath.Join(dir, "missing.env"), true)
	assert.Error(t, err)
}
