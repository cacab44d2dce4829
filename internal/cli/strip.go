package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/danieljhkim/stripdb/internal/compat"
	"github.com/danieljhkim/stripdb/internal/config"
	"github.com/danieljhkim/stripdb/internal/engine"
	"github.com/danieljhkim/stripdb/internal/logger"
	"github.com/danieljhkim/stripdb/internal/planner"
)

// stripOptions holds the flags of one strip-db invocation.
type stripOptions struct {
	users     bool
	customers bool
	orders    bool
	all       bool

	dryRun  bool
	force   bool
	json    bool
	verbose bool
	askPass bool
	help    bool
	envFile string

	config config.Options
}

// categories returns the category names selected by flags.
func (o *stripOptions) categories() []string {
	var names []string
	if o.all {
		names = append(names, "all")
	}
	if o.users {
		names = append(names, compat.Users.String())
	}
	if o.customers {
		names = append(names, compat.Customers.String())
	}
	if o.orders {
		names = append(names, compat.Orders.String())
	}
	return names
}

// readPassword prompts for the database password without echo.
var readPassword = func(prompt io.Writer) (string, error) {
	_, _ = fmt.Fprint(prompt, "Database password: ")
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pass), nil
}

func newStripCmd() *cobra.Command {
	opts := &stripOptions{}

	cmd := &cobra.Command{
		Use:   "strip-db [<file>] [--users] [--customers] [--orders] [--<export-option>...]",
		Short: "Export the database without users, customers or orders",
		Long: `Export the WordPress database in two files, leaving out the rows of tables
that hold the selected kinds of data.

The first file (<file>-1.sql) holds every other table with its rows. The second
file (<file>-2.sql) holds the structure of the stripped tables. Import the first
file, then the second.

Tables are picked per data category from WordPress core and the plugins that
are active on the site (WooCommerce, Easy Digital Downloads, AffiliateWP,
WPForms). A file name ending in .sql.gz writes gzip-compressed files. Without a
file name a random one is chosen.
`,
		Example: `  stripdb strip-db backup.sql --users --orders
  stripdb strip-db --all --dry-run
  stripdb strip-db site.sql.gz --customers --backend=wp --path=/var/www/html
  stripdb strip-db backup.sql --orders -- --skip-lock-tables`,
		DisableFlagParsing: true,
		Annotations:        map[string]string{passThroughAnnotation: "mysqldump or wp db export"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStrip(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.users, "users", false, "Strip users and their meta")
	flags.BoolVar(&opts.customers, "customers", false, "Strip customer records")
	flags.BoolVar(&opts.orders, "orders", false, "Strip orders, payments and related records")
	flags.BoolVar(&opts.all, "all", false, "Strip users, customers and orders")

	flags.BoolVar(&opts.dryRun, "dry-run", false, "Show the plan without writing any files")
	flags.BoolVar(&opts.force, "force", false, "Overwrite existing output files")
	flags.BoolVar(&opts.json, "json", false, "Output in JSON format")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress to stderr")
	flags.BoolVarP(&opts.help, "help", "h", false, "Help for strip-db")
	flags.StringVar(&opts.envFile, "env-file", "", "Read settings from this .env file (default ./.env if present)")

	flags.StringVar(&opts.config.Backend, "backend", "", "Export through mysql (mysqldump), wp (WP-CLI) or auto")
	flags.StringVar(&opts.config.DSN, "dsn", "", "MySQL DSN, e.g. user:pass@tcp(host:3306)/db")
	flags.StringVar(&opts.config.Host, "host", "", "Database host, host:port or socket path")
	flags.IntVar(&opts.config.Port, "port", 0, "Database port")
	flags.StringVar(&opts.config.User, "user", "", "Database user")
	flags.StringVar(&opts.config.Password, "password", "", "Database password")
	flags.BoolVar(&opts.askPass, "ask-pass", false, "Prompt for the database password")
	flags.StringVar(&opts.config.Database, "database", "", "Database name")
	flags.StringVar(&opts.config.Prefix, "prefix", "", "Table prefix (default from wp-config.php, else wp_)")
	flags.StringVar(&opts.config.WPConfig, "wp-config", "", "Path to wp-config.php")
	flags.StringVar(&opts.config.WPPath, "path", "", "WordPress root directory")
	flags.StringVar(&opts.config.MysqldumpBin, "mysqldump", "", "mysqldump binary")
	flags.StringVar(&opts.config.WPBin, "wp-bin", "", "WP-CLI binary")
	flags.StringSliceVar(&opts.config.Plugins, "plugins", nil, "Treat only these plugins as active (skips detection)")

	return cmd
}

func runStrip(cmd *cobra.Command, opts *stripOptions, args []string) error {
	known, positional, extra, err := splitArgs(cmd.Flags(), args)
	if err != nil {
		return err
	}
	if err := cmd.Flags().Parse(known); err != nil {
		return err
	}
	if opts.help {
		return cmd.Help()
	}
	if len(positional) > 1 {
		return fmt.Errorf("expected at most one output file, got %d: %s", len(positional), strings.Join(positional, " "))
	}

	if opts.verbose {
		cfg := logger.DefaultConfig()
		cfg.Level = charmlog.DebugLevel
		cfg.Output = cmd.ErrOrStderr()
		logger.Init(cfg)
	}

	categories, err := compat.ExpandCategories(opts.categories())
	if err != nil {
		return err
	}
	// Refuse before touching the database or WP-CLI.
	if len(categories) == 0 {
		return explainStripError(planner.ErrNoTablesSelected, nil)
	}

	envFile, required := opts.envFile, true
	if envFile == "" {
		envFile, required = config.DefaultEnvFile, false
	}
	env, err := config.LoadEnv(envFile, required)
	if err != nil {
		return err
	}

	if opts.askPass {
		opts.config.Password, err = readPassword(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}

	cfg, err := config.Resolve(opts.config, env)
	if err != nil {
		return err
	}

	configured, err := parseExtraArgs(cfg.ExportArgs)
	if err != nil {
		return err
	}
	extra = append(configured, extra...)

	s, err := newSession(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer s.close()

	var basename string
	if len(positional) == 1 {
		basename = positional[0]
	}

	result, err := s.engine.Strip(cmd.Context(), &engine.StripRequest{
		Basename:   basename,
		Categories: categories,
		Prefix:     s.prefix,
		Extra:      extra,
		DryRun:     opts.dryRun,
		Force:      opts.force,
	})
	if err != nil {
		return explainStripError(err, result)
	}

	out := cmd.OutOrStdout()
	if opts.json {
		return outputJSON(out, newStripOutput(cfg, result))
	}

	if result.DryRun {
		printPlan(out, cfg, result)
		return nil
	}

	printSuccess(out, fmt.Sprintf(
		"Database exports were successfully created without the selected data. First import %s, followed by %s.",
		result.DataFile, result.StructureFile,
	))
	printChecksum(out, result.DataFile, result.DataChecksum)
	printChecksum(out, result.StructureFile, result.StructureChecksum)
	printLabelValue(out, "Elapsed", result.Elapsed.Round(time.Millisecond).String())
	printMissing(out, result.Missing)
	if result.UsersStripped() {
		printUsersWarning(out)
	}
	return nil
}

// explainStripError adds guidance to errors the operator can act on.
func explainStripError(err error, result *engine.StripResult) error {
	switch {
	case errors.Is(err, planner.ErrNoTablesSelected):
		msg := "Use --users, --customers and/or --orders to choose the data to strip, otherwise just use wp db export to make a full database export."
		if result != nil && result.Plan != nil && len(result.Plan.Inactive) > 0 {
			msg = fmt.Sprintf("Plugins that are not active were skipped: %s. %s", strings.Join(result.Plan.Inactive, ", "), msg)
		}
		return fmt.Errorf("%w. %s", err, msg)

	case errors.Is(err, engine.ErrOutputExists):
		return fmt.Errorf("%w. Choose another file name or pass --force to overwrite it", err)

	case errors.Is(err, engine.ErrEmptyKeepSet):
		return fmt.Errorf("%w: every table in the database would be stripped, use wp db export --no-data instead", err)
	}
	return err
}

// stripOutput is the JSON shape of a strip-db run.
type stripOutput struct {
	Backend string `json:"backend"`
	*engine.StripResult
	UsersStripped bool `json:"users_stripped"`
}

func newStripOutput(cfg *config.Config, result *engine.StripResult) *stripOutput {
	return &stripOutput{
		Backend:       cfg.Backend,
		StripResult:   result,
		UsersStripped: result.UsersStripped(),
	}
}

func printPlan(w io.Writer, cfg *config.Config, result *engine.StripResult) {
	plan := result.Plan

	printSection(w, "Redaction Plan")
	printLabelValue(w, "Backend", cfg.Backend)
	printLabelValue(w, "Prefix", plan.Prefix)
	printLabelValue(w, "Categories", joinCategories(plan.Categories))
	printLabelValue(w, "Providers", strings.Join(plan.Providers, ", "))
	if len(plan.Inactive) > 0 {
		printLabelValue(w, "Inactive", strings.Join(plan.Inactive, ", "))
	}
	_, _ = fmt.Fprintln(w)

	printSubsection(w, fmt.Sprintf("Structure only (%s):", pluralize(len(result.Redact), "table", "tables")))
	printList(w, result.Redact, 2)
	_, _ = fmt.Fprintln(w)

	printSubsection(w, fmt.Sprintf("With data: %s", pluralize(len(result.Keep), "table", "tables")))
	printLabelValue(w, "Output", result.DataFile+", "+result.StructureFile)

	printMissing(w, result.Missing)
	_, _ = fmt.Fprintln(w)
	printWarning(w, "Dry run: no files were written.")
}

func printChecksum(w io.Writer, file, sum string) {
	if sum == "" {
		return
	}
	printLabelValue(w, file, sum)
}

func printMissing(w io.Writer, missing []string) {
	if len(missing) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	printWarning(w, fmt.Sprintf("%s not found in the database:", pluralize(len(missing), "table was", "tables were")))
	printList(w, missing, 1)
}

func printUsersWarning(w io.Writer) {
	printWarning(w, "All users were stripped from the database, because the --users argument was used. "+
		"Make sure you run `wp user create <username> <user-email> --role=administrator` after importing.")
}

func joinCategories(categories []compat.Category) string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
