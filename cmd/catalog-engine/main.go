// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the catalog-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/IT2357/catalog-engine/internal/logger"
	"github.com/IT2357/catalog-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API tokens loaded from the secrets directory at startup.
	loadedSecrets secrets.Secrets

	// log is the process logger, built from configuration before any command runs.
	log = zap.NewNop()
)

// rootCmd is the base command for the catalog-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "catalog-engine",
	Short: "Federated record search and menu selection for hotel front desks",
	Long: `catalog-engine searches rooms, guests, bookings, and menu items across
local and remote sources as a single merged list, and builds board-plan
constrained menu selections with stay totals.

The catalog lives in a local SQLite store populated with "catalog import".
Remote sources are declared under "sources" in the config file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.NewLogger(viper.GetString("logging.env"), viper.GetString("logging.level"))
		if err != nil {
			return err
		}
		log = l

		s, err := secrets.Load(viper.GetString("secrets_dir"), log)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.Debug("loaded secrets", zap.Strings("keys", keys))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = log.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./catalog-engine.yaml or ~/.config/catalog-engine/config.yaml)")
	flags.String("store-dir", "data", "directory holding the catalog database")
	flags.String("secrets-dir", ".secrets/", "directory of API token files")
	flags.String("log-env", "local", "logger preset: local, dev, or prod")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")

	viper.BindPFlag("store.dir", flags.Lookup("store-dir"))
	viper.BindPFlag("secrets_dir", flags.Lookup("secrets-dir"))
	viper.BindPFlag("logging.env", flags.Lookup("log-env"))
	viper.BindPFlag("logging.level", flags.Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("catalog-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "catalog-engine"))
		}
	}

	viper.SetEnvPrefix("CATALOG_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
