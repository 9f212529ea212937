package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/folio-cv/folio/internal/export"
	"github.com/folio-cv/folio/internal/publication"
	"github.com/folio-cv/folio/internal/storage"
)

var (
	exportBibtex bool
	exportRIS    bool
	exportCSL    bool
	exportXLSX   string
	exportIDs    string
	exportAppend string
)

func init() {
	exportCmd.Flags().BoolVar(&exportBibtex, "bibtex", false, "Export to BibTeX format")
	exportCmd.Flags().BoolVar(&exportRIS, "ris", false, "Export to RIS format")
	exportCmd.Flags().BoolVar(&exportCSL, "csl", false, "Export to CSL-YAML format")
	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "Write a spreadsheet with every citation style to this file")
	exportCmd.Flags().StringVar(&exportIDs, "ids", "", "Export only specified IDs (comma-separated)")
	exportCmd.Flags().StringVar(&exportAppend, "append", "", "Append BibTeX to this .bib file, skipping entries it already has")
	exportCmd.MarkFlagsMutuallyExclusive("bibtex", "ris", "csl", "xlsx")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export publications to BibTeX, RIS, CSL-YAML or a spreadsheet",
	Long: `Export publications to a bibliography format.

BibTeX, RIS and CSL-YAML are written to stdout. With --append, BibTeX
entries are appended to an existing .bib file; entries whose key or DOI
is already present are skipped.

Examples:
  folio export --bibtex > publications.bib
  folio export --bibtex --ids prja2,bc1
  folio export --bibtex --append ~/thesis/refs.bib
  folio export --ris > publications.ris
  folio export --csl > publications.yaml
  folio export --xlsx publications.xlsx`,
	RunE: runExport,
}

// ExportResult is the response for exports written to a file.
type ExportResult struct {
	Status  string `json:"status"`
	Path    string `json:"path"`
	Added   int    `json:"added"`
	Skipped int    `json:"skipped,omitempty"`
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportAppend != "" {
		exportBibtex = true
	}
	if !exportBibtex && !exportRIS && !exportCSL && exportXLSX == "" {
		exitWithError(ExitError, "one of --bibtex, --ris, --csl or --xlsx is required")
	}

	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	pubs := mustSelectPublications(db, splitIDs(exportIDs))

	switch {
	case exportAppend != "":
		added, skipped, err := export.AppendBibTeX(exportAppend, pubs)
		if err != nil {
			exitWithError(ExitError, "appending to %s: %v", exportAppend, err)
		}
		reportFileExport(ExportResult{Status: "appended", Path: exportAppend, Added: added, Skipped: skipped})

	case exportXLSX != "":
		if err := export.WriteXLSX(exportXLSX, pubs); err != nil {
			exitWithError(ExitError, "writing spreadsheet: %v", err)
		}
		reportFileExport(ExportResult{Status: "written", Path: exportXLSX, Added: len(pubs)})

	case exportCSL:
		// Export formats are always text output, never JSON
		if err := export.WriteCSL(os.Stdout, pubs); err != nil {
			exitWithError(ExitError, "writing CSL: %v", err)
		}

	case exportRIS:
		fmt.Print(export.ToRISList(pubs))

	default:
		fmt.Print(export.ToBibTeXList(pubs))
	}

	logger.Debug().Int("publications", len(pubs)).Msg("exported")
	return nil
}

// mustSelectPublications returns the publications named by ids, or all of
// them when ids is empty.
func mustSelectPublications(db *storage.DB, ids []string) []publication.Publication {
	if len(ids) == 0 {
		pubs, err := db.ListAll(0)
		if err != nil {
			exitWithError(ExitError, "listing publications: %v", err)
		}
		return pubs
	}

	pubs := make([]publication.Publication, 0, len(ids))
	for _, id := range ids {
		p, err := db.GetByID(id)
		if err != nil {
			exitWithError(ExitError, "getting publication %s: %v", id, err)
		}
		if p == nil {
			exitWithError(ExitError, "unknown id: %s", id)
		}
		pubs = append(pubs, *p)
	}
	return pubs
}

func reportFileExport(r ExportResult) {
	if !humanOutput {
		outputJSON(r)
		return
	}
	if r.Skipped > 0 {
		fmt.Printf("Wrote %d publications to %s (%d already present)\n", r.Added, r.Path, r.Skipped)
	} else {
		fmt.Printf("Wrote %d publications to %s\n", r.Added, r.Path)
	}
}
