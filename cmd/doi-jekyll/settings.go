// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doi-jekyll/internal/ledger"
	"github.com/pdiddy/doi-jekyll/internal/secrets"
	"github.com/pdiddy/doi-jekyll/pkg/types"
)

// Settings keys shared by the config file and DJ_* environment variables.
const (
	userKey       = "datacite_user"
	passwordKey   = "datacite_password"
	jekyllKey     = "jekyll_config"
	authorsKey    = "authors_dir"
	ledgerKey     = "ledger_path"
	timeoutKey    = "timeout"
	maxRetriesKey = "max_retries"
)

const (
	defaultJekyllConfig = "_config.yml"
	defaultAuthorsDir   = "_authors"
	defaultTimeout      = 30 * time.Second
	defaultMaxRetries   = 3
)

// addSourceFlags registers the flags that locate metadata sources.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("jekyll-config", "c", defaultJekyllConfig, "Jekyll site configuration")
	cmd.Flags().String("authors-dir", defaultAuthorsDir, "directory of author files named <author>.md")
	cmd.Flags().String("author-file", "", "author file to use instead of the authors-dir lookup")
	cmd.Flags().StringP("additional-metadata", "a", "", "YAML or JSON file merged into the metadata")
}

// stringSetting resolves a string option: an explicit flag wins, then the
// environment or config file under key, then the flag default.
func stringSetting(cmd *cobra.Command, flag, key string) string {
	v, _ := cmd.Flags().GetString(flag)
	if cmd.Flags().Changed(flag) || key == "" || !viper.IsSet(key) {
		return v
	}
	return viper.GetString(key)
}

// registrationConfig gathers the options of a register or metadata run.
func registrationConfig(cmd *cobra.Command) types.RegistrationConfig {
	force, _ := cmd.Flags().GetBool("force")
	skipURL, _ := cmd.Flags().GetBool("skip-url")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	cfg := types.RegistrationConfig{
		HTTPConfig:         httpConfig(cmd),
		JekyllConfig:       stringSetting(cmd, "jekyll-config", jekyllKey),
		AuthorsDir:         stringSetting(cmd, "authors-dir", authorsKey),
		AuthorFile:         stringSetting(cmd, "author-file", ""),
		AdditionalMetadata: stringSetting(cmd, "additional-metadata", ""),
		Force:              force,
		SkipURL:            skipURL,
		DryRun:             dryRun,
		LedgerPath:         ledger.DefaultPath,
		Credentials:        resolveCredentials(cmd),
	}
	if viper.IsSet(ledgerKey) {
		cfg.LedgerPath = viper.GetString(ledgerKey)
	}
	return cfg
}

func httpConfig(cmd *cobra.Command) types.HTTPConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 && viper.IsSet(timeoutKey) {
		timeout = viper.GetDuration(timeoutKey)
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}

	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	if !cmd.Flags().Changed("max-retries") && viper.IsSet(maxRetriesKey) {
		maxRetries = viper.GetInt(maxRetriesKey)
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return types.HTTPConfig{
		Timeout:    timeout,
		UserAgent:  userAgent(),
		MaxRetries: maxRetries,
	}
}

// resolveCredentials applies flag > environment > config file > secrets.
func resolveCredentials(cmd *cobra.Command) types.Credentials {
	fromSecrets := secrets.Credentials(loadedSecrets)
	user, _ := cmd.Flags().GetString("user")
	password, _ := cmd.Flags().GetString("password")
	return types.Credentials{
		User:     firstNonEmpty(user, viper.GetString(userKey), fromSecrets.User),
		Password: firstNonEmpty(password, viper.GetString(passwordKey), fromSecrets.Password),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
