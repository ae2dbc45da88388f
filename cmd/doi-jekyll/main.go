// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the doi-jekyll CLI, which mints
// DataCite DOIs for Jekyll blog posts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doi-jekyll/internal/logging"
	"github.com/pdiddy/doi-jekyll/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from the secrets directory at startup.
var loadedSecrets map[string]string

// logger is configured from the -v count before any subcommand runs.
var logger = logging.NoOp()

// rootCmd is the base command for the doi-jekyll CLI.
var rootCmd = &cobra.Command{
	Use:   "doi-jekyll",
	Short: "Register DataCite DOIs for Jekyll blog posts",
	Long: `doi-jekyll reads a Jekyll post's front matter together with the blog's
_config.yml and the author's file, builds a DataCite kernel-4 metadata
document, registers it with the DataCite Metadata Store and writes the new
DOI back into the post.

Run it from the root of the blog. Credentials come from --user/--password,
DJ_DATACITE_USER/DJ_DATACITE_PASSWORD (or DATACITE_USER/DATACITE_PASSWORD),
a .env file, or .secrets/datacite-user and .secrets/datacite-password.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		logger = logging.New("doi-jekyll", logging.LevelForVerbosity(verbosity))

		s, err := secrets.Load(viper.GetString("secrets_dir"), logger)
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
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./doi-jekyll.yaml or ~/.config/doi-jekyll/doi-jekyll.yaml)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity (-v warn, -vv info, -vvv debug)")

	viper.SetDefault("secrets_dir", secrets.DefaultDir)
}

func initConfig() {
	// Values in .env become ordinary environment variables.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("doi-jekyll")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "doi-jekyll"))
		}
	}

	viper.SetEnvPrefix("DJ")
	viper.AutomaticEnv()
	_ = viper.BindEnv(userKey, "DJ_DATACITE_USER", "DATACITE_USER")
	_ = viper.BindEnv(passwordKey, "DJ_DATACITE_PASSWORD", "DATACITE_PASSWORD")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
