package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-cv/folio/internal/citation"
	"github.com/folio-cv/folio/internal/clipboard"
	"github.com/folio-cv/folio/internal/config"
	"github.com/folio-cv/folio/internal/publication"
)

var (
	citeStyle     string
	citeAll       bool
	citeType      string
	citeAllStyles bool
	citeCopy      bool
)

func init() {
	citeCmd.Flags().StringVar(&citeStyle, "style", "", "Citation style (APA, Chicago, Harvard, Vancouver, MLA); default from config")
	citeCmd.Flags().BoolVar(&citeAll, "all", false, "Cite every publication in the repository")
	citeCmd.Flags().StringVar(&citeType, "type", "", "With --all, only cite one publication type")
	citeCmd.Flags().BoolVar(&citeAllStyles, "all-styles", false, "Render each publication in every style")
	citeCmd.Flags().BoolVar(&citeCopy, "copy", false, "Copy the rendered citations to the clipboard")
	rootCmd.AddCommand(citeCmd)
}

var citeCmd = &cobra.Command{
	Use:   "cite [id...]",
	Short: "Format publications as citations",
	Long: `Format publications as citations.

Publications are grouped by type and listed newest first, as on the
citations page. Italics are marked with *asterisks*.

Examples:
  folio cite prja2
  folio cite prja2 bc1 --style Harvard --copy
  folio cite --all --type journal --style MLA --human
  folio cite prja2 --all-styles`,
	RunE: runCite,
}

// CitationEntry is one rendered citation.
type CitationEntry struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Style    string `json:"style"`
	Citation string `json:"citation"`
}

// CiteResult is the response for the cite command.
type CiteResult struct {
	Citations []CitationEntry `json:"citations"`
	Copied    bool            `json:"copied,omitempty"`
}

func runCite(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !citeAll {
		exitWithError(ExitError, "give publication IDs or --all")
	}
	t := publication.Type(citeType)
	if t != "" && !t.Valid() {
		exitWithError(ExitError, "unknown publication type: %s", citeType)
	}

	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	styles := citeStyles(config.ResolveStyle(cfg, mustLoadGlobalConfig()))

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	var pubs []publication.Publication
	if citeAll {
		all, err := db.ListAll(0)
		if err != nil {
			exitWithError(ExitError, "listing publications: %v", err)
		}
		pubs = filterType(all, t)
	} else {
		for _, id := range args {
			pubs = append(pubs, *mustGetPublication(db, id))
		}
	}

	if citeCopy && !clipboard.IsAvailable() {
		exitWithError(ExitClipboardError, "clipboard unavailable: install pbcopy, wl-copy, xclip or xsel")
	}

	groups := publication.GroupByType(pubs)
	result := CiteResult{Citations: renderCitations(groups, styles)}

	if citeCopy {
		if err := clipboard.Copy(plainCitations(result.Citations)); err != nil {
			exitWithError(ExitClipboardError, "copying to clipboard: %v", err)
		}
		result.Copied = true
	}
	logger.Debug().Int("citations", len(result.Citations)).Strs("styles", styleNames(styles)).Msg("rendered citations")

	if humanOutput {
		printCitationsHuman(groups, result, len(styles) > 1)
		return nil
	}
	outputJSON(result)
	return nil
}

// citeStyles resolves the styles to render, exiting on an unknown name.
func citeStyles(fallback citation.Style) []citation.Style {
	if citeAllStyles {
		return citation.Styles()
	}
	if citeStyle == "" {
		return []citation.Style{fallback}
	}
	style, ok := citation.ParseStyle(citeStyle)
	if !ok {
		exitWithError(ExitError, "unknown citation style: %s (valid: %s)", citeStyle, strings.Join(styleNames(citation.Styles()), ", "))
	}
	return []citation.Style{style}
}

// renderCitations renders every publication of every group in each style,
// keeping group order.
func renderCitations(groups []publication.Group, styles []citation.Style) []CitationEntry {
	entries := []CitationEntry{}
	for _, g := range groups {
		for _, p := range g.Publications {
			for _, style := range styles {
				entries = append(entries, CitationEntry{
					ID:       p.ID,
					Type:     string(p.Type),
					Style:    string(style),
					Citation: citation.Generate(p, style),
				})
			}
		}
	}
	return entries
}

// plainCitations joins citations for the clipboard, one per paragraph.
func plainCitations(entries []CitationEntry) string {
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Citation
	}
	return strings.Join(texts, "\n\n")
}

func filterType(pubs []publication.Publication, t publication.Type) []publication.Publication {
	if t == "" {
		return pubs
	}
	var kept []publication.Publication
	for _, p := range pubs {
		if p.Type == t {
			kept = append(kept, p)
		}
	}
	return kept
}

func styleNames(styles []citation.Style) []string {
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = string(s)
	}
	return names
}

func printCitationsHuman(groups []publication.Group, result CiteResult, labelStyles bool) {
	byID := make(map[string][]CitationEntry)
	for _, e := range result.Citations {
		byID[e.ID] = append(byID[e.ID], e)
	}

	for gi, g := range groups {
		if gi > 0 {
			fmt.Println()
		}
		fmt.Println(g.Title)
		fmt.Println(strings.Repeat("─", len([]rune(g.Title))))
		for i, p := range g.Publications {
			for _, e := range byID[p.ID] {
				if labelStyles {
					fmt.Printf("%2d. [%s] %s\n", i+1, e.Style, e.Citation)
				} else {
					fmt.Printf("%2d. %s\n", i+1, e.Citation)
				}
			}
		}
	}
	if result.Copied {
		fmt.Println("\nCopied to clipboard.")
	}
}
