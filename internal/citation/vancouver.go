package citation

import (
	"strings"

	"github.com/folio-cv/folio/internal/publication"
)

const vancouverLimit = 6

// Vancouver formats a publication in Vancouver (ICMJE) style.
func Vancouver(p publication.Publication) string {
	authors := terminate(vancouverAuthors(SplitAuthors(p.Authors)))
	year := p.Year.Leading()
	c := authors + " " + terminate(p.Title) + " "

	switch p.Type {
	case publication.Journal:
		parts := DecomposeDetails(p.Details)
		c += trimPeriod(p.Source) + ". " + year
		if parts.Volume != "" {
			c += ";" + parts.Volume
		}
		if parts.Issue != "" {
			c += "(" + parts.Issue + ")"
		}
		if parts.Pages != "" {
			c += ":" + hyphen(parts.Pages)
		}
		c += "."

	case publication.BookChapter:
		if p.Details != "" {
			c += "In: *" + BookTitle(p.Source) + "*. " + orDefault(ChapterPublisher(p.Details), "Publisher") + "; " + year +
				". p. " + orDefault(ChapterPages(p.Details), "N/A") + "."
		} else {
			c += "In: Editors. *" + BookTitle(p.Source) + "*. Place: Publisher; " + year + ". p. Pages."
		}

	case publication.Conference:
		c += "In: Proceedings of the " + trimPeriod(p.Source) + "; " + orDefault(ConferenceDetails(p.Details), "Date; Location") +
			". Place: Publisher; " + year + ". p. Pages."

	default:
		c += trimPeriod(p.Source) + "; " + year + "."
		if note := statusNote(p.Status); note != "" {
			c += " (" + note + ")."
		}
	}

	switch {
	case p.DOILink != "":
		c += " DOI: " + bareDOI(p.DOILink) + "."
	case p.Link != "":
		c += " Available from: " + p.Link + "."
	}
	return collapseSpaces(c)
}

// vancouverName renders "Last FI" with undotted initials.
func vancouverName(name string) string {
	initials := strings.ReplaceAll(Initials(name), ".", "")
	if initials == "" {
		return LastName(name)
	}
	return LastName(name) + " " + initials
}

func vancouverAuthors(names []string) string {
	if len(names) > vancouverLimit {
		return strings.Join(mapNames(names[:vancouverLimit], vancouverName), ", ") + ", et al."
	}
	return strings.Join(mapNames(names, vancouverName), ", ")
}
