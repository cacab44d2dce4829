package dumper

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/danieljhkim/stripdb/internal/execx"
	"github.com/danieljhkim/stripdb/internal/logger"
)

// WPExporter runs `wp db export`, letting WP-CLI read the connection
// settings from wp-config.php.
type WPExporter struct {
	runner execx.Runner
	bin    string
	path   string
}

// NewWPExporter creates an exporter running bin (default "wp") against the
// WordPress install at path (empty for WP-CLI's own discovery).
func NewWPExporter(runner execx.Runner, bin, path string) *WPExporter {
	if bin == "" {
		bin = "wp"
	}
	return &WPExporter{runner: runner, bin: bin, path: path}
}

// Export dumps req.Tables to w.
func (e *WPExporter) Export(ctx context.Context, w io.Writer, req Request) error {
	if len(req.Tables) == 0 {
		return ErrNoTables
	}
	if err := CheckFlags(req.Extra); err != nil {
		return err
	}

	// "-" makes wp db export write to stdout. Table selection and the row
	// filter come last so they win over anything forwarded.
	args := []string{"db", "export", "-"}
	if e.path != "" {
		args = append(args, "--path="+e.path)
	}
	args = append(args, flagArgs(req.Extra)...)
	args = append(args, "--tables="+strings.Join(req.Tables, ","))
	if req.Where != "" {
		args = append(args, "--where="+req.Where)
	}

	cmd := execx.Cmd{Name: e.bin, Args: args, Stdout: w}
	logger.Debug("running export", "cmd", cmd.String())
	if err := e.runner.Run(ctx, cmd); err != nil {
		return fmt.Errorf("wp db export failed: %w", err)
	}
	return nil
}
