package integration

import (
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/danieljhkim/stripdb/internal/clock"
	"github.com/danieljhkim/stripdb/internal/compat"
	"github.com/danieljhkim/stripdb/internal/dumper"
	"github.com/danieljhkim/stripdb/internal/engine"
	"github.com/danieljhkim/stripdb/internal/execx"
	"github.com/danieljhkim/stripdb/internal/fsops"
	"github.com/danieljhkim/stripdb/internal/hash"
	"github.com/danieljhkim/stripdb/internal/planner"
	"github.com/danieljhkim/stripdb/internal/wpdb"
)

// fakeMysqldump echoes its arguments as SQL comments, one per line, and
// fails when FAIL_ON_WHERE is set and a row filter is given.
const fakeMysqldump = `#!/bin/sh
for arg in "$@"; do
	echo "-- arg: $arg"
	case "$arg" in
	--where=*)
		if [ -n "$FAIL_ON_WHERE" ]; then
			echo "mysqldump: Couldn't execute 'SHOW CREATE TABLE': access denied" >&2
			exit 2
		fi
		;;
	esac
done
if [ -n "$MYSQL_PWD" ]; then
	echo "-- password via environment"
fi
echo "-- Dump completed"
`

var (
	optionsQuery  = regexp.QuoteMeta("SELECT option_value FROM `wp_options` WHERE option_name = ?")
	sitemetaQuery = regexp.QuoteMeta("SELECT meta_value FROM `wp_sitemeta` WHERE meta_key = ? LIMIT 1")
)

// setup wires an engine with real adapters around a mocked database and a
// scripted mysqldump. It returns the engine and the output directory.
// Requests must include a category with plugin tables, otherwise the
// plugin queries expected here are never made.
func setup(t *testing.T, tables []string, activePlugins string) (*engine.Engine, sqlmock.Sqlmock, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	dir := t.TempDir()
	bin := filepath.Join(dir, "mysqldump")
	if err := os.WriteFile(bin, []byte(fakeMysqldump), 0755); err != nil {
		t.Fatalf("failed to write fake mysqldump: %v", err)
	}

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	expectPluginQueries(mock, activePlugins)
	expectTables(mock, tables)

	conn := mysql.NewConfig()
	conn.Net = "tcp"
	conn.Addr = "db.internal:3306"
	conn.User = "wp"
	conn.Passwd = "secret"
	conn.DBName = "wordpress"

	eng := newEngine(db, dumper.NewMysqldumpExporter(execx.NewRealRunner(), bin, conn))
	return eng, mock, dir
}

func newEngine(db *sql.DB, exporter dumper.Exporter) *engine.Engine {
	return engine.New(
		planner.New(compat.DefaultRegistry()),
		wpdb.NewPluginProbe(db, "wp_"),
		wpdb.NewInventory(db),
		exporter,
		fsops.NewRealFS(),
		hash.NewSHA256Hasher(),
		clock.NewFakeClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), time.Second),
		func() string { return "0f1e2d" },
	)
}

func expectPluginQueries(mock sqlmock.Sqlmock, activePlugins string) {
	mock.ExpectQuery(optionsQuery).
		WithArgs("active_plugins").
		WillReturnRows(sqlmock.NewRows([]string{"option_value"}).AddRow(activePlugins))
	mock.ExpectQuery(sitemetaQuery).
		WithArgs("active_sitewide_plugins").
		WillReturnError(&mysql.MySQLError{Number: 1146, Message: "Table 'wordpress.wp_sitemeta' doesn't exist"})
}

func expectTables(mock sqlmock.Sqlmock, tables []string) {
	rows := sqlmock.NewRows([]string{"Tables_in_wordpress"})
	for _, table := range tables {
		rows.AddRow(table)
	}
	mock.ExpectQuery("SHOW TABLES").WillReturnRows(rows)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
