package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/danieljhkim/stripdb/internal/dumper"
)

var (
	// Global flags
	jsonOutput bool

	// Colors for help output sections
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// rootCmd is the root command for stripdb.
var rootCmd = &cobra.Command{
	Use:     "stripdb",
	Version: "dev",
	Short:   "Sanitized WordPress database exports",
	Long: `stripdb exports a WordPress database without personal data.

It writes two SQL files: the first holds every table with its rows, the second
holds only the structure of tables that store users, customers or orders.
Importing both, in order, gives a working site with those tables empty.
strip-db passes options it does not know on to mysqldump or wp db export.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// passThroughAnnotation marks commands that forward unknown options to an
// export tool. The value names the tool.
const passThroughAnnotation = "stripdb/pass-through"

// customHelpFunc renders help with colored section titles, commands listed
// by group and, for commands that forward options, the pass-through rules.
func customHelpFunc(cmd *cobra.Command, _ []string) {
	var help strings.Builder

	if cmd.Long != "" {
		help.WriteString(cmd.Long)
		help.WriteString("\n\n")
	}

	writeHelpSection(&help, "Usage:", "  "+cmd.UseLine()+"\n")

	for _, group := range cmd.Groups() {
		writeCommandList(&help, groupTitleColor.Sprint(group.Title), cmd, group.ID)
	}
	writeCommandList(&help, sectionTitleColor.Sprint("Additional Commands:"), cmd, "")

	if cmd.Example != "" {
		writeHelpSection(&help, "Examples:", cmd.Example+"\n")
	}

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailablePersistentFlags() {
		writeHelpSection(&help, "Flags:", cmd.LocalFlags().FlagUsages()+cmd.InheritedFlags().FlagUsages())
	}

	if tool, ok := cmd.Annotations[passThroughAnnotation]; ok {
		writeHelpSection(&help, "Export Options:", passThroughHelp(tool))
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&help, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), help.String())
}

func writeHelpSection(help *strings.Builder, title, body string) {
	help.WriteString(sectionTitleColor.Sprint(title))
	help.WriteString("\n")
	help.WriteString(body)
	help.WriteString("\n")
}

// writeCommandList lists the visible subcommands of cmd in group groupID.
// Nothing is written when the group is empty.
func writeCommandList(help *strings.Builder, title string, cmd *cobra.Command, groupID string) {
	var lines []string
	for _, c := range cmd.Commands() {
		if c.GroupID == groupID && !c.Hidden {
			lines = append(lines, fmt.Sprintf("  %-11s %s\n", c.Name(), c.Short))
		}
	}
	if len(lines) == 0 {
		return
	}
	help.WriteString(title)
	help.WriteString("\n")
	help.WriteString(strings.Join(lines, ""))
	help.WriteString("\n")
}

func passThroughHelp(tool string) string {
	reserved := make([]string, len(dumper.ReservedFlags()))
	for i, name := range dumper.ReservedFlags() {
		reserved[i] = "--" + name
	}
	return fmt.Sprintf(`  Options not listed above, and everything after "--", are passed to
  %s unchanged. %s are set by stripdb and
  cannot be passed on.
`, tool, strings.Join(reserved, ", "))
}

// completionShells maps each supported shell to its script generator.
var completionShells = map[string]func(cmd *cobra.Command, w io.Writer) error{
	"bash":       func(c *cobra.Command, w io.Writer) error { return c.GenBashCompletionV2(w, true) },
	"zsh":        func(c *cobra.Command, w io.Writer) error { return c.GenZshCompletion(w) },
	"fish":       func(c *cobra.Command, w io.Writer) error { return c.GenFishCompletion(w, true) },
	"powershell": func(c *cobra.Command, w io.Writer) error { return c.GenPowerShellCompletionWithDesc(w) },
}

func newCompletionCmd() *cobra.Command {
	shells := make([]string, 0, len(completionShells))
	for name := range completionShells {
		shells = append(shells, name)
	}
	sort.Strings(shells)

	return &cobra.Command{
		Use:       "completion <" + strings.Join(shells, "|") + ">",
		Short:     "Generate a shell completion script",
		Long:      "Generate a completion script for stripdb. Source its output from your shell profile.",
		Example:   "  source <(stripdb completion bash)\n  stripdb completion zsh > \"${fpath[1]}/_stripdb\"",
		ValidArgs: shells,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}

func init() {
	// Set custom help function to color group titles
	rootCmd.SetHelpFunc(customHelpFunc)

	// Global flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "database-export",
		Title: "Database Export:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "cli-tooling",
		Title: "CLI & Tooling:",
	})

	// CLI & Tooling commands
	versionCmd := &cobra.Command{
		Use:     "version",
		Short:   "Print the stripdb CLI version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	// Add help command to CLI & Tooling group
	helpCmd := &cobra.Command{
		Use:     "help [command]",
		Short:   "Help about any command",
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			target, _, err := cmd.Root().Find(args)
			if err != nil || target == nil {
				_ = cmd.Root().Help()
				return
			}
			target.InitDefaultHelpFlag()
			_ = target.Help()
		},
	}
	rootCmd.SetHelpCommand(helpCmd)

	completionCmd := newCompletionCmd()
	completionCmd.GroupID = "cli-tooling"
	rootCmd.AddCommand(completionCmd)

	// Database Export commands
	stripCmd := newStripCmd()
	stripCmd.GroupID = "database-export"
	providersCmd := newProvidersCmd()
	providersCmd.GroupID = "database-export"
	rootCmd.AddCommand(stripCmd)
	rootCmd.AddCommand(providersCmd)
}

// Execute executes the root command. Errors are printed here because
// cobra's own error output is silenced.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		_, _ = fmt.Fprintln(rootCmd.ErrOrStderr(), formatError(err))
	}
	return err
}
