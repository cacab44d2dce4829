package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/stripdb/internal/compat"
)

// providerInfo is the JSON shape of one provider.
type providerInfo struct {
	Name      string                       `json:"name"`
	Subsystem string                       `json:"subsystem"`
	Plugins   []string                     `json:"plugins,omitempty"`
	Tables    map[compat.Category][]string `json:"tables"`
}

type providersOutput struct {
	Providers []providerInfo `json:"providers"`
	Overlaps  []string       `json:"overlaps,omitempty"`
}

func newProvidersCmd() *cobra.Command {
	var (
		showTables bool
		category   string
	)

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List the tables stripped per plugin and data category",
		Long: `List the table providers stripdb knows about, the plugin that has to be
active for each of them, and how many tables they strip per data category.

Table names are shown without the site's table prefix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter []compat.Category
			if category != "" {
				c, err := compat.ParseCategory(category)
				if err != nil {
					return err
				}
				filter = []compat.Category{c}
			}
			return runProviders(cmd.OutOrStdout(), compat.DefaultRegistry(), filter, showTables, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&showTables, "tables", false, "List table names")
	cmd.Flags().StringVar(&category, "category", "", "Only show one category (users, customers or orders)")
	return cmd
}

func runProviders(w io.Writer, registry *compat.Registry, filter []compat.Category, showTables, asJSON bool) error {
	categories := compat.AllCategories
	if len(filter) > 0 {
		categories = filter
	}

	var out providersOutput
	for _, p := range registry.Providers() {
		info := providerInfo{
			Name:      p.Name(),
			Subsystem: p.Subsystem().String(),
			Tables:    make(map[compat.Category][]string),
		}
		for _, plugin := range p.Subsystem().Plugins() {
			info.Plugins = append(info.Plugins, plugin.Slug)
		}
		for _, c := range categories {
			if tables := p.Tables(c); len(tables) > 0 {
				info.Tables[c] = tables
			}
		}
		out.Providers = append(out.Providers, info)
	}
	for _, o := range registry.Overlaps() {
		out.Overlaps = append(out.Overlaps, fmt.Sprintf("%s declares %s under %s", o.Provider, o.Table, joinCategories(o.Categories)))
	}

	if asJSON {
		return outputJSON(w, out)
	}

	printSection(w, "Providers")
	if len(out.Providers) == 0 {
		printEmptyState(w, "No providers registered")
		return nil
	}
	headers := []string{"PROVIDER", "REQUIRES"}
	for _, c := range categories {
		headers = append(headers, strings.ToUpper(c.String()))
	}
	rows := make([][]string, 0, len(out.Providers))
	for _, info := range out.Providers {
		requires := "always"
		if len(info.Plugins) > 0 {
			requires = strings.Join(info.Plugins, ", ")
		}
		row := []string{info.Name, requires}
		for _, c := range categories {
			row = append(row, strconv.Itoa(len(info.Tables[c])))
		}
		rows = append(rows, row)
	}
	printTable(w, headers, rows)

	if showTables {
		for _, info := range out.Providers {
			if len(info.Tables) == 0 {
				continue
			}
			_, _ = fmt.Fprintln(w)
			printSubsection(w, info.Name)
			for _, c := range categories {
				if tables := info.Tables[c]; len(tables) > 0 {
					printLabelValue(w, c.String(), strings.Join(tables, ", "))
				}
			}
		}
	}

	if len(out.Overlaps) > 0 {
		_, _ = fmt.Fprintln(w)
		for _, o := range out.Overlaps {
			printWarning(w, o)
		}
	}
	return nil
}
