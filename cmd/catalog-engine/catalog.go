// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/IT2357/catalog-engine/internal/catalog"
	"github.com/IT2357/catalog-engine/internal/selection"
	"github.com/IT2357/catalog-engine/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the local catalog store (import, categories, kinds)",
	Long: `Catalog manages the SQLite store holding the menu catalog and the
searchable hotel records. Use subcommands to import a catalog file or list
what the store holds.`,
}

// --- import subcommand ---

var catalogImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import categories, menu items, and records from a YAML file",
	Long: `Import validates a catalog YAML file and upserts every category, item,
and record it holds in one transaction. Re-importing a file is safe; item
flags are replaced by the file's flags.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	file, err := catalog.LoadCatalogFile(args[0])
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Import(context.Background(), file, os.Stdout)
	return err
}

// --- categories subcommand ---

var catalogCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories with at least one item under a plan",
	RunE:  runCatalogCategories,
}

func runCatalogCategories(cmd *cobra.Command, args []string) error {
	planID, _ := cmd.Flags().GetString("plan")

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
	categories, err := engine.AvailableCategories(planID)
	if err != nil {
		return err
	}
	selection.FormatCategories(categories, os.Stdout)
	return nil
}

// --- kinds subcommand ---

var catalogKindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the record kinds in the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		kinds, err := store.Kinds(context.Background())
		if err != nil {
			return err
		}
		for _, k := range kinds {
			fmt.Println(k)
		}
		return nil
	},
}

// openStore opens the store from the store settings alone.
func openStore() (*catalog.Store, error) {
	return catalog.NewStore(types.StoreConfig{
		Dir:         viper.GetString("store.dir"),
		SearchLimit: viper.GetInt("store.search_limit"),
	})
}

func init() {
	catalogCategoriesCmd.Flags().String("plan", "", "board plan ID (default: selection.default_plan)")

	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogCategoriesCmd)
	catalogCmd.AddCommand(catalogKindsCmd)

	rootCmd.AddCommand(catalogCmd)
}
