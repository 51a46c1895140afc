// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IT2357/catalog-engine/internal/catalog"
	"github.com/IT2357/catalog-engine/internal/selection"
	"github.com/IT2357/catalog-engine/pkg/types"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Browse the menu under a board plan and price a selection",
	Long: `Select loads the menu catalog, lists the items eligible under the chosen
board plan (narrowed by --category and --term), and prices the items added
with --add for a stay of --nights and --guests.

An item may be repeated in --add to select more than one unit. Items that
are unavailable or not covered by the plan are rejected.`,
	RunE: runSelect,
}

func init() {
	selectCmd.Flags().String("plan", "", "board plan ID (default: selection.default_plan)")
	selectCmd.Flags().String("category", types.AllCategories, "category ID to list")
	selectCmd.Flags().String("term", "", "text filter on item name and description")
	selectCmd.Flags().StringSlice("add", nil, "item IDs to add, repeat an ID for more units")
	selectCmd.Flags().Int("nights", 1, "nights in the stay")
	selectCmd.Flags().Int("guests", 1, "guests in the stay")
	selectCmd.Flags().Bool("confirm", false, "confirm the selection; fails when it is empty")
	selectCmd.Flags().Bool("json", false, "output the summary as JSON")

	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	planID, _ := cmd.Flags().GetString("plan")
	category, _ := cmd.Flags().GetString("category")
	term, _ := cmd.Flags().GetString("term")
	add, _ := cmd.Flags().GetStringSlice("add")
	nights, _ := cmd.Flags().GetInt("nights")
	guests, _ := cmd.Flags().GetInt("guests")
	confirm, _ := cmd.Flags().GetBool("confirm")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := engineConfig()
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	engine, err := selection.NewEngine(context.Background(), store, cfg.Selection, selection.WithLogger(log))
	if err != nil {
		return err
	}
	if planID != "" {
		if err := engine.SetPlan(planID); err != nil {
			return err
		}
	}
	for _, id := range add {
		if err := engine.Increment(id); err != nil {
			return err
		}
	}

	summary, err := engine.Summary(nights, guests)
	if err != nil {
		return err
	}

	if jsonOutput {
		if err := selection.FormatJSON(summary, os.Stdout); err != nil {
			return err
		}
	} else {
		items, err := engine.Filtered(selection.Filter{Term: term, CategoryID: category})
		if err != nil {
			return err
		}
		categories, err := engine.AvailableCategories("")
		if err != nil {
			return err
		}
		selection.FormatCategories(categories, os.Stdout)
		fmt.Fprintln(os.Stdout)
		selection.FormatItems(items, os.Stdout)
		fmt.Fprintln(os.Stdout)
		selection.FormatSummary(summary, os.Stdout)
	}

	if confirm {
		lines, err := engine.Confirm()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Confirmed %d line(s) in session %s\n", len(lines), engine.Session())
	}
	return nil
}
