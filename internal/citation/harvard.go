package citation

import (
	"strings"

	"github.com/folio-cv/folio/internal/publication"
)

// Harvard formats a publication in Harvard style.
func Harvard(p publication.Publication) string {
	authors := harvardAuthors(SplitAuthors(p.Authors))
	year := p.Year.Leading()
	c := authors + " (" + year + ") " + singleQuoted(p.Title) + " "

	switch p.Type {
	case publication.Journal:
		parts := DecomposeDetails(p.Details)
		c += "*" + strings.TrimSpace(p.Source) + "*"
		if parts.Volume != "" {
			c += ", " + parts.Volume
		}
		if parts.Issue != "" {
			c += "(" + parts.Issue + ")"
		}
		if parts.Pages != "" {
			c += ", pp. " + hyphen(parts.Pages)
		}
		c += "."

	case publication.BookChapter:
		c += "In: *" + BookTitle(p.Source) + "*. "
		if p.Details != "" {
			c += orDefault(ChapterPublisher(p.Details), "Publisher") + ", pp. " + orDefault(ChapterPages(p.Details), "N/A") + "."
		} else {
			c += "Place of publication: Publisher, pp. Pages."
		}

	case publication.Conference:
		c += "In: *Proceedings of the " + trimPeriod(p.Source) + "*. " + orDefault(ConferenceDetails(p.Details), "Location, Date") + "."

	default:
		c += "*" + trimPeriod(p.Source) + "*."
		if note := statusNote(p.Status); note != "" {
			c += " (" + note + ")."
		}
	}

	if u := p.URL(); u != "" {
		c += " Available at: " + u
	}
	return collapseSpaces(c)
}

func harvardAuthors(names []string) string {
	sep := " and "
	if len(names) > 2 {
		sep = ", "
	}
	return strings.Join(mapNames(names, abbreviatedName), sep)
}
