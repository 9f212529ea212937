package citation

import (
	"strings"

	"github.com/folio-cv/folio/internal/publication"
)

// Chicago formats a publication as a Chicago bibliography entry.
func Chicago(p publication.Publication) string {
	authors := chicagoAuthors(SplitAuthors(p.Authors))
	year := p.Year.Leading()
	c := authors + " " + doubleQuoted(p.Title) + " "

	switch p.Type {
	case publication.Journal:
		parts := DecomposeDetails(p.Details)
		c += "*" + strings.TrimSpace(p.Source) + "* " + parts.Volume
		if parts.Issue != "" {
			c += ", no. " + parts.Issue
		}
		c += " (" + year + ")"
		if parts.Pages != "" {
			c += ": " + enDash(parts.Pages)
		}
		c += "."

	case publication.BookChapter:
		c += "In *" + BookTitle(p.Source) + "*"
		if pages := ChapterPages(p.Details); pages != "" {
			c += ", " + enDash(pages)
		}
		c += ". " + orDefault(ChapterPublisher(p.Details), "Publisher") + ", " + year + "."

	case publication.Conference:
		c += "Paper presented at the " + trimPeriod(p.Source) + ", " + orDefault(ConferenceDetails(p.Details), year) + "."

	default:
		c += trimPeriod(p.Source) + ", " + year + "."
		if note := statusNote(p.Status); note != "" {
			c += " (" + note + ")."
		}
	}

	if u := p.URL(); u != "" {
		c += " " + u + "."
	}
	return collapseSpaces(c)
}

// chicagoAuthors inverts the first author only. Lists over ten keep the
// first seven followed by "et al."
func chicagoAuthors(names []string) string {
	n := len(names)
	switch {
	case n == 0:
		return ""
	case n == 1:
		return terminate(InvertedName(names[0]))
	case n <= 10:
		parts := chicagoNames(names[:n-1])
		return terminate(strings.Join(parts, ", ") + ", and " + NaturalName(names[n-1]))
	default:
		return strings.Join(chicagoNames(names[:7]), ", ") + ", et al."
	}
}

func chicagoNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		if i == 0 {
			out[i] = InvertedName(n)
			continue
		}
		out[i] = NaturalName(n)
	}
	return out
}
