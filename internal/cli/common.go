package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/danieljhkim/stripdb/internal/clock"
	"github.com/danieljhkim/stripdb/internal/compat"
	"github.com/danieljhkim/stripdb/internal/config"
	"github.com/danieljhkim/stripdb/internal/dumper"
	"github.com/danieljhkim/stripdb/internal/engine"
	"github.com/danieljhkim/stripdb/internal/execx"
	"github.com/danieljhkim/stripdb/internal/fsops"
	"github.com/danieljhkim/stripdb/internal/hash"
	"github.com/danieljhkim/stripdb/internal/planner"
	"github.com/danieljhkim/stripdb/internal/wpcli"
	"github.com/danieljhkim/stripdb/internal/wpdb"
)

// session is an engine bound to one database, plus what is needed to
// release it.
type session struct {
	engine *engine.Engine
	prefix string
	close  func()
}

// newSession creates an engine with real implementations of all
// dependencies. It is a variable so tests can substitute fakes.
var newSession = func(ctx context.Context, cfg *config.Config) (*session, error) {
	return openSession(ctx, cfg, execx.NewRealRunner())
}

// openSession wires the engine for cfg's backend, running external tools
// through runner.
func openSession(ctx context.Context, cfg *config.Config, runner execx.Runner) (*session, error) {
	registry := compat.DefaultRegistry()

	var (
		probe     planner.Probe
		inventory engine.Inventory
		exporter  dumper.Exporter
		prefix    = cfg.Prefix
		closeFn   = func() {}
	)

	switch cfg.Backend {
	case config.BackendMySQL:
		db, err := wpdb.Open(ctx, cfg.MySQL)
		if err != nil {
			return nil, err
		}
		closeFn = func() { closeDB(db) }
		probe = wpdb.NewPluginProbe(db, prefix)
		inventory = wpdb.NewInventory(db)
		exporter = dumper.NewMysqldumpExporter(runner, cfg.MysqldumpBin, cfg.MySQL)

	case config.BackendWP:
		client := wpcli.New(runner, cfg.WPBin, cfg.WPPath)
		if prefix == "" {
			detected, err := client.Prefix(ctx)
			if err != nil {
				return nil, err
			}
			if err := config.ValidatePrefix(detected); err != nil {
				return nil, fmt.Errorf("wp db prefix: %w", err)
			}
			prefix = detected
		}
		probe = client
		inventory = client
		exporter = dumper.NewWPExporter(runner, cfg.WPBin, cfg.WPPath)

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidBackend, cfg.Backend)
	}

	if cfg.Plugins != nil {
		probe = planner.NewStaticProbe(cfg.Plugins...)
	}

	eng := engine.New(
		planner.New(registry),
		probe,
		inventory,
		exporter,
		fsops.NewRealFS(),
		hash.NewSHA256Hasher(),
		&clock.RealClock{},
		engine.RandomID,
	)
	return &session{engine: eng, prefix: prefix, close: closeFn}, nil
}

func closeDB(db *sql.DB) {
	_ = db.Close()
}

// outputJSON writes a value as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatError formats an error for display.
func formatError(err error) string {
	return errorColor.Sprintf("Error: %v", err)
}
