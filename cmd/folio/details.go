package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-cv/folio/internal/citation"
)

func init() {
	rootCmd.AddCommand(detailsCmd)
}

var detailsCmd = &cobra.Command{
	Use:   "details <text>",
	Short: "Split a journal details string into volume, issue and pages",
	Long: `Split a free-text journal details string into volume, issue and pages,
the way the citation styles read it.

Examples:
  folio details "51(10), 1314-1335"
  folio details "Vol. 12, pp. 45-67 [Scopus indexed]"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDetails,
}

func runDetails(cmd *cobra.Command, args []string) error {
	parts := citation.DecomposeDetails(strings.Join(args, " "))

	if humanOutput {
		fmt.Printf("Volume:   %s\n", orDash(parts.Volume))
		fmt.Printf("Issue:    %s\n", orDash(parts.Issue))
		fmt.Printf("Pages:    %s\n", orDash(parts.Pages))
		fmt.Printf("Details:  %s\n", orDash(parts.FullDetails))
		return nil
	}
	outputJSON(parts)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
