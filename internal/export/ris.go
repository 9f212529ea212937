package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/folio-cv/folio/internal/citation"
	"github.com/folio-cv/folio/internal/publication"
)

var pageRangeRegex = regexp.MustCompile(`^\s*([\w]+)\s*(?:--|–|-)\s*([\w]+)\s*$`)

// risTypes maps publication types to RIS reference types.
var risTypes = map[publication.Type]string{
	publication.Journal:      "JOUR",
	publication.BookChapter:  "CHAP",
	publication.Conference:   "CONF",
	publication.InProgress:   "UNPB",
	publication.WorkingPaper: "UNPB",
	publication.Report:       "RPRT",
}

// ToRIS converts a publication to an RIS record for EndNote, Zotero and
// similar reference managers.
func ToRIS(p publication.Publication) string {
	ty, ok := risTypes[p.Type]
	if !ok {
		ty = "GEN"
	}

	var lines []string
	tag := func(name, value string) {
		if value = strings.TrimSpace(value); value != "" {
			lines = append(lines, fmt.Sprintf("%s  - %s", name, value))
		}
	}

	tag("TY", ty)
	for _, name := range citation.SplitAuthors(p.Authors) {
		tag("AU", citation.InvertedName(name))
	}
	tag("TI", p.Title)

	switch p.Type {
	case publication.Journal:
		parts := citation.DecomposeDetails(p.Details)
		tag("JO", trimDot(p.Source))
		tag("VL", parts.Volume)
		tag("IS", parts.Issue)
		tagPages(tag, parts.Pages)
	case publication.BookChapter:
		tag("T2", citation.BookTitle(p.Source))
		tag("PB", citation.ChapterPublisher(p.Details))
		tagPages(tag, citation.ChapterPages(p.Details))
	case publication.Conference:
		tag("T2", trimDot(p.Source))
		tag("CY", citation.ConferenceDetails(p.Details))
	case publication.Report:
		tag("PB", trimDot(p.Source))
	default:
		tag("T2", trimDot(p.Source))
		tag("N1", p.Details)
	}

	tag("PY", p.Year.Digits())
	tag("N1", p.Status)
	tag("DO", strings.TrimPrefix(p.DOILink, "https://doi.org/"))
	tag("UR", p.URL())
	for _, kw := range p.Tags {
		tag("KW", kw)
	}
	lines = append(lines, "ER  - ")

	return strings.Join(lines, "\n") + "\n"
}

// tagPages writes SP/EP for a range, or SP alone for a single page or article number.
func tagPages(tag func(name, value string), pages string) {
	if m := pageRangeRegex.FindStringSubmatch(pages); m != nil {
		tag("SP", m[1])
		tag("EP", m[2])
		return
	}
	tag("SP", pages)
}

// ToRISList converts multiple publications to RIS.
func ToRISList(pubs []publication.Publication) string {
	records := make([]string, 0, len(pubs))
	for _, p := range pubs {
		records = append(records, ToRIS(p))
	}
	return strings.Join(records, "\n")
}
