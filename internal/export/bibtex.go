// Package export renders publications into bibliography interchange formats.
package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/folio-cv/folio/internal/citation"
	"github.com/folio-cv/folio/internal/publication"
)

var (
	nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]`)
	addressRegex  = regexp.MustCompile(`,\s*([^,]+,\s*[^,]+)$`)
	pageDashRegex = regexp.MustCompile(`\s*(?:--|–|-)\s*`)
)

// bibEscaper prefixes each BibTeX special character with a backslash.
var bibEscaper = strings.NewReplacer(
	"{", `\{`,
	"}", `\}`,
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
)

// escapeBib escapes BibTeX special characters in free-text values.
func escapeBib(s string) string {
	return bibEscaper.Replace(s)
}

// bibField is one key = {value} line of an entry.
type bibField struct {
	name  string
	value string
}

type bibFields []bibField

// add appends a field, skipping empty values.
func (f *bibFields) add(name, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	*f = append(*f, bibField{name: name, value: value})
}

// CitationKey builds the entry key: first author's last name, numeric year,
// then the first two title words, all lowercased alphanumerics.
// "Singh, J., & Singh, M." / 2024 / "Addressing unproductive credit" yields
// "singh2024addressingunproductive".
func CitationKey(p publication.Publication) string {
	author := "unknown"
	if names := citation.SplitAuthors(p.Authors); len(names) > 0 {
		if last := keyPart(citation.LastName(names[0])); last != "" {
			author = last
		}
	}

	words := strings.Fields(p.Title)
	if len(words) > 2 {
		words = words[:2]
	}
	return author + p.Year.Digits() + keyPart(strings.Join(words, ""))
}

func keyPart(s string) string {
	return nonAlnumRegex.ReplaceAllString(strings.ToLower(s), "")
}

// EntryType returns the BibTeX entry type for a publication type.
func EntryType(t publication.Type) string {
	switch t {
	case publication.Journal:
		return "article"
	case publication.BookChapter:
		return "incollection"
	case publication.Conference:
		return "inproceedings"
	case publication.Report:
		return "techreport"
	case publication.InProgress, publication.WorkingPaper:
		return "unpublished"
	default:
		return "misc"
	}
}

// ToBibTeX converts a publication to a BibTeX entry keyed by CitationKey.
func ToBibTeX(p publication.Publication) string {
	return toBibTeX(p, CitationKey(p))
}

func toBibTeX(p publication.Publication, key string) string {
	year := p.Year.Digits()
	var fields bibFields
	fields.add("author", formatBibAuthors(p.Authors))
	fields.add("title", escapeBib(p.Title))

	switch p.Type {
	case publication.Journal:
		parts := citation.DecomposeDetails(p.Details)
		fields.add("journal", escapeBib(trimDot(p.Source)))
		fields.add("year", year)
		fields.add("volume", escapeBib(parts.Volume))
		fields.add("number", escapeBib(parts.Issue))
		fields.add("pages", escapeBib(bibPages(parts.Pages)))

	case publication.BookChapter:
		fields.add("booktitle", escapeBib(citation.BookTitle(p.Source)))
		fields.add("publisher", escapeBib(citation.ChapterPublisher(p.Details)))
		fields.add("pages", escapeBib(bibPages(citation.ChapterPages(p.Details))))
		fields.add("year", year)

	case publication.Conference:
		fields.add("booktitle", "Proceedings of the "+escapeBib(trimDot(p.Source)))
		fields.add("year", year)
		details := citation.ConferenceDetails(p.Details)
		if m := addressRegex.FindStringSubmatch(details); m != nil {
			fields.add("address", escapeBib(strings.TrimSpace(m[1])))
		} else if strings.Contains(details, ",") {
			fields.add("note", escapeBib(details))
		}

	case publication.Report:
		fields.add("institution", escapeBib(trimDot(p.Source)))
		fields.add("year", year)

	case publication.InProgress, publication.WorkingPaper:
		fields.add("note", joinNote(escapeBib(trimDot(p.Source)), statusPart(p.Status)))
		fields.add("year", year)

	default:
		fields.add("year", year)
		fields.add("howpublished", joinNote(escapeBib(trimDot(p.Source)), escapeBib(p.Details), statusPart(p.Status)))
	}

	fields.add("url", p.Link)
	fields.add("doi", strings.TrimPrefix(p.DOILink, "https://doi.org/"))

	lines := make([]string, len(fields))
	for i, f := range fields {
		lines[i] = fmt.Sprintf("  %-9s = {%s}", f.name, f.value)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@%s{%s,\n", EntryType(p.Type), key)
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n}\n")
	return b.String()
}

// ToBibTeXList converts multiple publications to BibTeX format. Publications
// sharing a citation key get letter suffixes so every key is unique.
func ToBibTeXList(pubs []publication.Publication) string {
	idx := NewBibIndex()
	entries := make([]string, 0, len(pubs))
	for _, p := range pubs {
		entries = append(entries, toBibTeX(p, idx.Add(p)))
	}
	return strings.Join(entries, "\n")
}

// formatBibAuthors renders "Last, Given and Last, Given".
func formatBibAuthors(authors string) string {
	names := citation.SplitAuthors(authors)
	for i, n := range names {
		names[i] = escapeBib(citation.InvertedName(n))
	}
	return strings.Join(names, " and ")
}

func bibPages(pages string) string {
	return pageDashRegex.ReplaceAllString(pages, "--")
}

func trimDot(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), ".")
}

func statusPart(status string) string {
	if status == "" {
		return ""
	}
	return "Status: " + escapeBib(status)
}

// joinNote joins the non-empty parts with ". ".
func joinNote(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ". ")
}
