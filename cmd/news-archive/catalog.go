// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-archive/internal/catalog"
	"github.com/pdiddy/news-archive/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the article catalog (store, retrieve, export)",
	Long: `Catalog manages a local SQLite index built from article archives. Use
subcommands to index archives, query articles, or export them.

Full-text search needs SQLite's FTS5 module: build with -tags sqlite_fts5
(mage build does this).`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Index article archives into the catalog",
	Long: `Store parses every archive in the archive directory and loads its
articles into a SQLite database with FTS5 indexing. Unchanged archives are
skipped on subsequent runs.`,
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(cmd.Context(), os.Stdout)
	if err != nil {
		return err
	}
	log.Info("catalog updated", "articles", summary.Articles, "archives", summary.Total())
	if summary.Failed > 0 {
		return fmt.Errorf("%d archive(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var catalogRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Query the catalog with full-text search and filters",
	Long: `Retrieve searches catalogued articles using FTS5 full-text search,
metadata filters (newspaper, edition, date, source), or both.`,
	RunE: runCatalogRetrieve,
}

func runCatalogRetrieve(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --newspaper, --edition, --date, or --source")
	}

	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(results, jsonOutput)
}

func formatRetrieveOutput(results []catalog.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %s  %s  %s  %s  %s\n",
		"Rank", cell("Headline", 50), cell("Newspaper", 12), cell("Edition", 12), cell("Date", 12), "Page")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 104))

	for i, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %s  %s  %s  %s  %d\n",
			i+1, cell(r.Headline, 50), cell(r.Newspaper, 12),
			cell(r.Edition, 12), cell(r.Date, 12), r.Page)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

// cell truncates and pads s to width terminal cells.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export catalogued articles to YAML or JSON",
	Long: `Export writes the whole catalog (or a filtered subset) to export.yaml
or export.json in the catalog directory. Supports the same filter flags as
retrieve for partial exports.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

// --- shared helpers ---

func catalogConfig() types.CatalogConfig {
	return types.CatalogConfig{
		ArchiveDir: viper.GetString("catalog.archive_dir"),
		DBDir:      viper.GetString("catalog.db_dir"),
		MaxResults: viper.GetInt("catalog.max_results"),
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) catalog.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	newspaper, _ := cmd.Flags().GetString("newspaper")
	edition, _ := cmd.Flags().GetString("edition")
	date, _ := cmd.Flags().GetString("date")
	source, _ := cmd.Flags().GetString("source")
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.QueryOptions{
		Query:      queryText,
		Newspaper:  newspaper,
		Edition:    edition,
		Date:       date,
		Source:     source,
		MaxResults: limit,
	}
}

func addFilterFlags(cmd *cobra.Command, usage string) {
	cmd.Flags().String("query", "", "full-text search query"+usage)
	cmd.Flags().String("newspaper", "", "filter by newspaper name"+usage)
	cmd.Flags().String("edition", "", "filter by edition"+usage)
	cmd.Flags().String("date", "", "filter by date as written in the archive"+usage)
	cmd.Flags().String("source", "", "filter by source PDF file name"+usage)
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	pf := catalogCmd.PersistentFlags()
	pf.String("archive-dir", "archive", "directory of article archives to index")
	pf.String("db-dir", "catalog", "directory for the catalog database and exports")
	pf.Int("max-results", 20, "maximum number of query results")
	viper.BindPFlag("catalog.archive_dir", pf.Lookup("archive-dir"))
	viper.BindPFlag("catalog.db_dir", pf.Lookup("db-dir"))
	viper.BindPFlag("catalog.max_results", pf.Lookup("max-results"))

	// Retrieve flags.
	addFilterFlags(catalogRetrieveCmd, "")
	catalogRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	addFilterFlags(catalogExportCmd, " for partial export")
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().Int("limit", 0, "maximum articles to export (0 = all)")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogRetrieveCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
