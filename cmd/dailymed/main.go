// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the dailymed CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command. Running it with no subcommand executes a
// batch download.
var rootCmd = &cobra.Command{
	Use:   "dailymed",
	Short: "Download drug label XML from DailyMed",
	Long: `dailymed searches the DailyMed web service for drug names and downloads the
matching Structured Product Labeling (SPL) documents as XML files, one file
per document setid.

Run without arguments to fetch a built-in list of common drugs, or name the
drugs to fetch with --drugs. Re-running against the same directory refreshes
the files in place; pass --skip-existing to leave present files alone.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runDownload,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./dailymed.yaml or ~/.config/dailymed/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dailymed")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dailymed"))
		}
	}

	viper.SetEnvPrefix("DAILYMED")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// Setting helpers. An explicit flag wins, then a config file or environment
// value, then the built-in default.

func durationSetting(cmd *cobra.Command, key string, fallback time.Duration) time.Duration {
	if cmd.Flags().Changed(key) {
		v, _ := cmd.Flags().GetDuration(key)
		return v
	}
	if v := viper.GetDuration(key); v != 0 {
		return v
	}
	return fallback
}

func intSetting(cmd *cobra.Command, key string, fallback int) int {
	if cmd.Flags().Changed(key) {
		v, _ := cmd.Flags().GetInt(key)
		return v
	}
	if v := viper.GetInt(key); v != 0 {
		return v
	}
	return fallback
}

func stringSetting(cmd *cobra.Command, key string, fallback string) string {
	if cmd.Flags().Changed(key) {
		v, _ := cmd.Flags().GetString(key)
		return v
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return fallback
}

func boolSetting(cmd *cobra.Command, key string) bool {
	if cmd.Flags().Changed(key) {
		v, _ := cmd.Flags().GetBool(key)
		return v
	}
	return viper.GetBool(key)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
