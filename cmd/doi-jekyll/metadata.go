// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doi-jekyll/internal/logging"
	"github.com/pdiddy/doi-jekyll/pkg/types"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata POST",
	Short: "Print the DataCite metadata a post would be registered with",
	Long: `Metadata assembles the same document register would submit and prints
it as indented XML, or as JSON with --json. It needs no credentials and
makes no network calls.`,
	Args: cobra.ExactArgs(1),
	RunE: runMetadata,
}

func init() {
	addSourceFlags(metadataCmd)
	metadataCmd.Flags().Bool("json", false, "print the merged record as JSON")

	rootCmd.AddCommand(metadataCmd)
}

func runMetadata(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return previewPost(registrationConfig(cmd), args[0], jsonOutput, cmd.OutOrStdout(), logger)
}

func previewPost(cfg types.RegistrationConfig, postPath string, jsonOutput bool, out io.Writer, log logging.Logger) error {
	in, err := loadInputs(cfg, postPath, log)
	if err != nil {
		return err
	}
	doc, err := assembleDocument(in, false, log)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc.record)
	}
	_, err = fmt.Fprintf(out, "%s\n", doc.pretty)
	return err
}
