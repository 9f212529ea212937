package citation

import (
	"strings"

	"github.com/folio-cv/folio/internal/publication"
)

// MLA formats a publication in MLA 9th edition style.
func MLA(p publication.Publication) string {
	authors := mlaAuthors(SplitAuthors(p.Authors))
	year := p.Year.Leading()
	c := authors + " " + doubleQuoted(p.Title) + " "

	switch p.Type {
	case publication.Journal:
		parts := DecomposeDetails(p.Details)
		c += "*" + strings.TrimSpace(p.Source) + "*"
		if parts.Volume != "" {
			c += ", vol. " + parts.Volume
		}
		if parts.Issue != "" {
			c += ", no. " + parts.Issue
		}
		c += ", " + year
		if parts.Pages != "" {
			c += ", pp. " + hyphen(parts.Pages)
		}
		c += "."

	case publication.BookChapter:
		if p.Details != "" {
			c += "*" + BookTitle(p.Source) + "*, " + orDefault(ChapterPublisher(p.Details), "Publisher") + ", " + year +
				", pp. " + orDefault(ChapterPages(p.Details), "N/A") + "."
		} else {
			c += "*" + BookTitle(p.Source) + "*, edited by Editors, Publisher, " + year + ", pp. Pages."
		}

	case publication.Conference:
		c += "*" + trimPeriod(p.Source) + "*, " + orDefault(ConferenceDetails(p.Details), "Date, Location") + ", " + year + "."

	default:
		c += "*" + trimPeriod(p.Source) + "*, " + year + "."
		if note := statusNote(p.Status); note != "" {
			c += " (" + note + ")."
		}
	}

	switch {
	case p.DOILink != "":
		c += " *DOI.org*, " + p.DOILink + "."
	case p.Link != "":
		c += " *Web*, " + p.Link + "."
	}
	return collapseSpaces(c)
}

func mlaAuthors(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return terminate(InvertedName(names[0]))
	case 2:
		return InvertedName(names[0]) + ", and " + terminate(NaturalName(names[1]))
	default:
		return InvertedName(names[0]) + ", et al."
	}
}
