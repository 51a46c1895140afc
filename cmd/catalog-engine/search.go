// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/IT2357/catalog-engine/internal/aggregate"
	"github.com/IT2357/catalog-engine/internal/catalog"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search every configured source for matching records",
	Long: `Search sends one query to every configured source at once and prints the
merged results in source order. Sources that fail are reported and skipped;
the rest still answer.

Use --save to keep the results in a YAML file and --load to print a saved
file without querying any source.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("save", "", "write results to a YAML file")
	searchCmd.Flags().String("load", "", "print results from a saved YAML file instead of searching")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	savePath, _ := cmd.Flags().GetString("save")
	loadPath, _ := cmd.Flags().GetString("load")

	if loadPath != "" {
		rf, err := aggregate.ReadResultFile(loadPath)
		if err != nil {
			return err
		}
		return printPublication(rf.Publication(), jsonOutput)
	}

	if len(args) == 0 {
		return fmt.Errorf("provide a search query")
	}

	cfg, err := engineConfig()
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	agg, err := newAggregator(ctx, cfg, store)
	if err != nil {
		return err
	}
	defer agg.Close()

	pub, err := agg.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	if savePath != "" {
		if err := aggregate.WriteResultFile(savePath, pub); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved %d results to %s\n", len(pub.Records), savePath)
	}

	if err := printPublication(pub, jsonOutput); err != nil {
		return err
	}
	if pub.Degraded {
		return fmt.Errorf("all sources failed for %q", pub.Query)
	}
	return nil
}

func printPublication(pub aggregate.Publication, jsonOutput bool) error {
	if jsonOutput {
		return aggregate.FormatJSON(pub, os.Stdout)
	}
	aggregate.FormatTable(pub, os.Stdout)
	return nil
}
