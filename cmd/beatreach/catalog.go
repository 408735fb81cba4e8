package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/beatreach/beatreach/internal/catalog"
	"github.com/beatreach/beatreach/internal/config"
	"github.com/beatreach/beatreach/internal/store"
)

var (
	dbPathOverride string
	jsonOutput     bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the influencer candidate catalog",
	Long:  "Seed and inspect the candidate catalog without running the server.",
}

func init() {
	catalogCmd.PersistentFlags().StringVar(&dbPathOverride, "db", "",
		"Database path (overrides config and BEATREACH_DB_PATH)")
	catalogCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output in JSON format")

	catalogCmd.AddCommand(catalogSeedCmd)
	catalogCmd.AddCommand(catalogListCmd)
}

var catalogSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in candidate set into the catalog",
	Args:  cobra.NoArgs,
	RunE:  runCatalogSeed,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog entries",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

// resolveStore opens the SQLite store honoring the --db override.
func resolveStore() (*store.SQLiteStore, error) {
	path := dbPathOverride
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		path = cfg.Database.Path
	}
	return store.NewSQLiteStore(path)
}

func runCatalogSeed(cmd *cobra.Command, args []string) error {
	db, err := resolveStore()
	if err != nil {
		return err
	}
	defer db.Close()

	inserted, err := db.SeedInfluencers(cmd.Context(), catalog.Seed())
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{"inserted": inserted})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d influencer(s)\n", inserted)
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	db, err := resolveStore()
	if err != nil {
		return err
	}
	defer db.Close()

	influencers, err := db.ListInfluencers(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), influencers)
	}

	tw := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(tw, "ID\tNAME\tNICHE\tLOCATION\tFOLLOWERS\tPRICE")
	for _, inf := range influencers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t$%.0f\n",
			inf.ID, inf.Name, inf.Niche, inf.Location, inf.Followers, inf.Price)
	}
	return tw.Flush()
}

// printJSON marshals v to JSON and writes to the given writer.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newTabWriter returns a configured tabwriter for aligned columns.
func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}
