package dumper

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/go-sql-driver/mysql"

	"github.com/danieljhkim/stripdb/internal/execx"
	"github.com/danieljhkim/stripdb/internal/logger"
)

// MysqldumpExporter runs mysqldump against the database described by a
// go-sql-driver/mysql Config.
type MysqldumpExporter struct {
	runner execx.Runner
	bin    string
	conn   *mysql.Config
}

// NewMysqldumpExporter creates an exporter running bin (default "mysqldump").
func NewMysqldumpExporter(runner execx.Runner, bin string, conn *mysql.Config) *MysqldumpExporter {
	if bin == "" {
		bin = "mysqldump"
	}
	return &MysqldumpExporter{runner: runner, bin: bin, conn: conn}
}

// Export dumps req.Tables to w.
func (e *MysqldumpExporter) Export(ctx context.Context, w io.Writer, req Request) error {
	if len(req.Tables) == 0 {
		return ErrNoTables
	}
	if err := CheckFlags(req.Extra); err != nil {
		return err
	}

	cmd := execx.Cmd{
		Name:   e.bin,
		Args:   e.args(req),
		Stdout: w,
	}
	// The password goes through the environment so it never shows up in
	// the process list.
	if e.conn.Passwd != "" {
		cmd.Env = []string{"MYSQL_PWD=" + e.conn.Passwd}
	}

	logger.Debug("running export", "cmd", cmd.String())
	if err := e.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("mysqldump failed: %w", err)
	}
	return nil
}

func (e *MysqldumpExporter) args(req Request) []string {
	args := make([]string, 0, 8+len(req.Extra)+len(req.Tables))
	args = append(args, connArgs(e.conn)...)
	args = append(args, "--single-transaction", "--no-tablespaces")
	args = append(args, flagArgs(req.Extra)...)

	// mysqldump keeps the last occurrence of an option, so the row filter
	// goes after anything forwarded.
	if req.Where != "" {
		args = append(args, "--where="+req.Where)
	}

	// Everything after the database name is a table name.
	args = append(args, e.conn.DBName)
	args = append(args, req.Tables...)
	return args
}

func connArgs(conn *mysql.Config) []string {
	var args []string
	switch conn.Net {
	case "unix":
		args = append(args, "--socket="+conn.Addr)
	default:
		host, port, err := net.SplitHostPort(conn.Addr)
		if err != nil {
			host = conn.Addr
		}
		if host != "" {
			args = append(args, "--host="+host)
		}
		if port != "" {
			args = append(args, "--port="+port)
		}
	}
	if conn.User != "" {
		args = append(args, "--user="+conn.User)
	}
	return args
}
