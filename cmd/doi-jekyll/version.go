package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of doi-jekyll",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "doi-jekyll %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// userAgent identifies the tool to DataCite.
func userAgent() string {
	return "doi-jekyll/" + version
}
