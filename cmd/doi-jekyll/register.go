// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doi-jekyll/internal/datacite"
	"github.com/pdiddy/doi-jekyll/internal/errs"
	"github.com/pdiddy/doi-jekyll/internal/ledger"
	"github.com/pdiddy/doi-jekyll/internal/logging"
	"github.com/pdiddy/doi-jekyll/pkg/types"
)

var registerCmd = &cobra.Command{
	Use:   "register POST",
	Short: "Register a DOI for a blog post with DataCite",
	Long: `Register builds DataCite metadata for the post, stores it with the
DataCite Metadata Store, binds the DOI to the post's URL and writes
"doi: https://doi.org/<doi>" into the post's front matter.

A post that already has a doi is refused unless --force is given.
--dry-run prints the metadata and contacts nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

func init() {
	addSourceFlags(registerCmd)
	registerCmd.Flags().BoolP("force", "f", false, "register even if the post already has a DOI")
	registerCmd.Flags().StringP("user", "u", "", "DataCite repository user")
	registerCmd.Flags().StringP("password", "p", "", "DataCite repository password")
	registerCmd.Flags().Bool("skip-url", false, "register metadata only, not the DOI URL")
	registerCmd.Flags().BoolP("dry-run", "d", false, "assemble metadata without contacting DataCite")
	registerCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	registerCmd.Flags().Int("max-retries", 0, "retries on HTTP 429 (default 3)")

	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	cfg := registrationConfig(cmd)
	return registerPost(cmd.Context(), cfg, args[0], nil, cmd.OutOrStdout(), logger)
}

// registerPost runs the full workflow for one post. A nil httpClient gets
// one built from cfg.
func registerPost(ctx context.Context, cfg types.RegistrationConfig, postPath string, httpClient *http.Client, out io.Writer, log logging.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if log == nil {
		log = logging.NoOp()
	}
	if !cfg.DryRun && !cfg.Credentials.Complete() {
		return errs.Configurationf("DataCite credentials missing: use --user and --password, " +
			"DJ_DATACITE_USER and DJ_DATACITE_PASSWORD, or .secrets/datacite-user and .secrets/datacite-password")
	}

	in, err := loadInputs(cfg, postPath, log)
	if err != nil {
		return err
	}
	if in.post.Front.Has("doi") {
		existing := in.post.Meta.DOI
		if !cfg.Force {
			return errs.DOIExists(existing)
		}
		log.Warn("post already has a DOI, registering again", "doi", existing)
	}

	doc, err := assembleDocument(in, !cfg.DryRun && !cfg.SkipURL, log)
	if err != nil {
		return err
	}
	if cfg.Force {
		warnPriorRegistration(ctx, cfg, doc.doi, log)
	}
	log.Info("assembled metadata", "doi", doc.doi, "url", doc.url)
	log.Debug("metadata document", "xml", string(doc.pretty))

	if cfg.DryRun {
		fmt.Fprintf(out, "%s\n", doc.pretty)
		if doc.url == "" {
			fmt.Fprintf(out, "Dry run: %s has no URL to register\n", doc.doi)
		} else {
			fmt.Fprintf(out, "Dry run: %s would point to %s\n", doc.doi, doc.url)
		}
		return nil
	}

	client := datacite.NewClient(in.blog.Settings.ProviderURL, cfg.Credentials, cfg.HTTPConfig, httpClient, log)
	if err := client.RegisterMetadata(ctx, doc.doi, doc.compact); err != nil {
		return err
	}
	if cfg.SkipURL {
		log.Warn("skipping URL registration", "doi", doc.doi)
	} else if err := client.RegisterURL(ctx, doc.doi, doc.url); err != nil {
		return err
	}

	if err := in.post.SetDOI(doc.doi); err != nil {
		return err
	}
	recordRegistration(ctx, cfg, types.Registration{
		DOI:                doc.doi,
		PostPath:           postPath,
		URL:                doc.url,
		MetadataRegistered: true,
		URLRegistered:      !cfg.SkipURL,
	}, log)

	fmt.Fprintf(out, "Successfully created %s at DataCite!\n", doc.doi)
	return nil
}

// warnPriorRegistration reports a forced run over a DOI the ledger has
// already seen.
func warnPriorRegistration(ctx context.Context, cfg types.RegistrationConfig, doi string, log logging.Logger) {
	if cfg.LedgerPath == "" {
		return
	}
	if _, err := os.Stat(cfg.LedgerPath); err != nil {
		return
	}
	store, err := ledger.NewStore(cfg.LedgerPath)
	if err != nil {
		log.Error("opening ledger", "path", cfg.LedgerPath, "error", err.Error())
		return
	}
	defer store.Close()

	prev, found, err := store.LastFor(ctx, doi)
	if err != nil {
		log.Error("reading ledger", "path", cfg.LedgerPath, "error", err.Error())
		return
	}
	if found {
		log.Warn("DOI was registered before, overwriting its metadata",
			"doi", doi, "registered_at", prev.RegisteredAt.Format(time.RFC3339), "post", prev.PostPath)
	}
}

// recordRegistration appends to the ledger. The DOI already exists at this
// point, so ledger failures are logged rather than returned.
func recordRegistration(ctx context.Context, cfg types.RegistrationConfig, reg types.Registration, log logging.Logger) {
	if cfg.LedgerPath == "" {
		return
	}
	store, err := ledger.NewStore(cfg.LedgerPath)
	if err != nil {
		log.Error("opening ledger", "path", cfg.LedgerPath, "error", err.Error())
		return
	}
	defer store.Close()

	if _, err := store.Record(ctx, reg); err != nil {
		log.Error("writing ledger", "path", cfg.LedgerPath, "error", err.Error())
	}
}
