package citation

import (
	"regexp"
	"strings"

	"github.com/folio-cv/folio/internal/publication"
)

var (
	apaDoublePeriodRegex = regexp.MustCompile(`\.\.$`)
	apaSpacePeriodRegex  = regexp.MustCompile(`\s\.`)
)

var apaQualifiers = map[StatusKind]string{
	Submitted:      "[Manuscript submitted for publication].",
	InPress:        "[Manuscript in press].",
	Preprint:       "[Preprint].",
	WorkInProgress: "[Work in progress].",
}

// APA formats a publication in APA 7th edition style.
func APA(p publication.Publication) string {
	authors := apaAuthors(SplitAuthors(p.Authors))
	year := p.Year.Leading()
	title := terminate(p.Title)
	var qualifier, source string

	switch p.Type {
	case publication.Journal:
		parts := DecomposeDetails(p.Details)
		source = "*" + strings.TrimSpace(p.Source) + "*"
		if parts.Volume != "" {
			source += ", *" + parts.Volume + "*"
		}
		if parts.Issue != "" {
			source += "(" + parts.Issue + ")"
		}
		if parts.Pages != "" {
			source += ", " + parts.Pages
		}
		source = terminate(source)

	case publication.BookChapter:
		source = "In *" + BookTitle(p.Source) + "*"
		if pages := ChapterPages(p.Details); pages != "" {
			source += " (pp. " + pages + ")"
		}
		if publisher := ChapterPublisher(p.Details); publisher != "" {
			source += ". " + publisher
		}
		source = terminate(source)

	case publication.Conference:
		title = "*" + stripTerminal(p.Title) + "*."
		source = "[Paper presentation]. " + trimPeriod(p.Source)
		if d := ConferenceDetails(p.Details); d != "" {
			source += ", " + d
		}
		source += "."

	case publication.InProgress, publication.WorkingPaper:
		title = "*" + stripTerminal(p.Title) + "*."
		qualifier = apaQualifiers[ClassifyStatus(p.Status)]
		source = trimPeriod(p.Source) + "."

	default:
		source = trimPeriod(p.Source) + "."
	}

	c := authors + " (" + year + "). " + title + " " + qualifier + " " + source
	switch {
	case p.DOILink != "":
		c += " " + p.DOILink
	case p.Link != "":
		c += " Retrieved from " + p.Link
	}

	c = collapseSpaces(c)
	c = apaDoublePeriodRegex.ReplaceAllString(c, ".")
	c = apaSpacePeriodRegex.ReplaceAllString(c, ".")
	if p.URL() == "" {
		c = terminate(c)
	}
	return c
}

// apaAuthors joins up to 20 authors with "&" before the last; longer lists
// keep the first 19, an ellipsis, and the final author.
func apaAuthors(names []string) string {
	n := len(names)
	if n == 0 {
		return ""
	}
	formatted := mapNames(names, abbreviatedName)

	var s string
	switch {
	case n == 1:
		s = formatted[0]
	case n <= 20:
		s = strings.Join(formatted[:n-1], ", ") + ", & " + formatted[n-1]
	default:
		s = strings.Join(formatted[:19], ", ") + ", … " + formatted[n-1]
	}
	return terminate(s)
}
