package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-cv/folio/internal/config"
	"github.com/folio-cv/folio/internal/importer"
	"github.com/folio-cv/folio/internal/publication"
	"github.com/folio-cv/folio/internal/storage"
)

var importDryRun bool

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would be imported without writing")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <catalog>",
	Short: "Import publications from a YAML or JSON catalog",
	Long: `Import publications from a YAML (.yaml, .yml) or JSON (.json) catalog.

The catalog is either a list of publications or an object with a
"publications" list. Records with an existing ID replace the stored entry;
records whose DOI link is already stored under another ID are skipped.

Examples:
  folio import publications.yml
  folio import publications.json --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResult represents the result of an import operation.
type ImportResult struct {
	DryRun   bool           `json:"dry_run,omitempty"`
	Imported int            `json:"imported"`
	Updated  int            `json:"updated"`
	Skipped  int            `json:"skipped"`
	Errors   []string       `json:"errors"`
	Details  []ImportDetail `json:"details,omitempty"`
}

// ImportDetail describes a single import action.
type ImportDetail struct {
	ID     string `json:"id"`
	Action string `json:"action"` // new, update, skip
	Title  string `json:"title"`
	Reason string `json:"reason,omitempty"`
}

func runImport(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	incoming, parseErrors := importer.LoadCatalog(args[0])
	if len(parseErrors) > 0 && len(incoming) == 0 {
		for _, e := range parseErrors {
			logger.Error().Err(e).Msg("catalog record rejected")
		}
		exitWithError(ExitDataError, "failed to load any publications from %s: %v", args[0], parseErrors[0])
	}

	pubsPath := config.PublicationsPath(repoRoot)
	existing, err := storage.ReadAll(pubsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading existing publications: %v", err)
	}

	incoming = importer.ResolveIDClashes(existing, incoming)
	plan := storage.PlanMerge(existing, incoming)
	result := summarizePlan(plan, parseErrors)
	result.DryRun = importDryRun

	if !importDryRun {
		if err := writePlan(pubsPath, existing, plan, result.Updated > 0); err != nil {
			exitWithError(ExitError, "writing publications: %v", err)
		}
		rebuildCache(repoRoot)
	}

	logger.Info().
		Int("imported", result.Imported).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Bool("dry_run", importDryRun).
		Msg("import finished")

	if humanOutput {
		printImportHuman(result)
	} else {
		outputJSON(result)
	}
	return nil
}

// writePlan appends new records when nothing existing changes, and rewrites
// the whole file otherwise.
func writePlan(path string, existing []publication.Publication, plan []storage.PubWithAction, rewrite bool) error {
	if rewrite {
		return storage.WriteAll(path, storage.ApplyMerge(existing, plan))
	}
	for _, a := range plan {
		if a.Action != storage.ActionNew {
			continue
		}
		if err := storage.Append(path, a.Pub); err != nil {
			return err
		}
	}
	return nil
}

// summarizePlan counts plan actions. Rejected catalog records count as skipped.
func summarizePlan(plan []storage.PubWithAction, parseErrors []error) ImportResult {
	result := ImportResult{Errors: []string{}}
	for _, a := range plan {
		switch a.Action {
		case storage.ActionNew:
			result.Imported++
		case storage.ActionUpdate:
			result.Updated++
		case storage.ActionSkip:
			result.Skipped++
		}
		result.Details = append(result.Details, ImportDetail{
			ID:     a.Pub.ID,
			Action: a.Action,
			Title:  truncateString(a.Pub.Title, ImportTitleMaxLen),
			Reason: a.Reason,
		})
	}
	for _, e := range parseErrors {
		result.Errors = append(result.Errors, e.Error())
	}
	result.Skipped += len(parseErrors)
	return result
}

// rebuildCache refreshes the SQLite cache after the JSONL changed. Failure
// is logged, not fatal: the JSONL is already written.
func rebuildCache(repoRoot string) {
	db := mustOpenDatabase(repoRoot)
	defer db.Close()
	if _, err := db.RebuildFromJSONL(config.PublicationsPath(repoRoot)); err != nil {
		logger.Warn().Err(err).Msg("rebuilding query database; run 'folio rebuild'")
	}
}

func printImportHuman(r ImportResult) {
	verb := "Imported"
	if r.DryRun {
		verb = "Would import"
		fmt.Println("Dry run - nothing written")
	}
	fmt.Printf("  %s: %d new\n", verb, r.Imported)
	fmt.Printf("  Updated:  %d (matched by ID)\n", r.Updated)
	fmt.Printf("  Skipped:  %d (invalid or duplicate)\n", r.Skipped)

	for _, d := range r.Details {
		if d.Action == storage.ActionSkip {
			fmt.Printf("    skip %s: %s\n", d.ID, d.Reason)
		}
	}
	if len(r.Errors) > 0 {
		fmt.Println("\nInvalid records:")
		for _, e := range r.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
}
