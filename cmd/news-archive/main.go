// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the news-archive CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-archive/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// log is the diagnostic logger, configured from log_level before any
// subcommand runs.
var log = logger.Discard()

// rootCmd is the base command for the news-archive CLI.
var rootCmd = &cobra.Command{
	Use:   "news-archive",
	Short: "Turn newspaper PDFs into searchable article archives",
	Long: `news-archive converts newspaper PDF editions into plain-text archives of
numbered articles. Page furniture (datelines, page numbers, section tags,
social handles) is filtered out, and each archive carries the newspaper,
edition and date derived from the file name or the front page.

Archives can be indexed into a local SQLite catalog with the catalog
subcommands for full-text search and export.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.New(viper.GetString("log_level"))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./news-archive.yaml or ~/.config/news-archive/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "diagnostic log level: debug, info, warn, or error")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("news-archive")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "news-archive"))
		}
	}

	viper.SetEnvPrefix("NEWS_ARCHIVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
