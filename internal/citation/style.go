// Package citation renders publications as formatted citations.
//
// Every formatter is a pure function of a publication.Publication. Authors,
// source and details are free text, so each parsing heuristic lives in its
// own small function (SplitAuthors, DecomposeDetails, BookTitle, ...) and the
// formatters only assemble the pieces.
package citation

import (
	"strings"

	"github.com/folio-cv/folio/internal/publication"
)

// Style names a citation style.
type Style string

const (
	StyleAPA       Style = "APA"
	StyleChicago   Style = "Chicago"
	StyleHarvard   Style = "Harvard"
	StyleVancouver Style = "Vancouver"
	StyleMLA       Style = "MLA"
)

// Formatter renders one publication.
type Formatter func(publication.Publication) string

var formatters = map[Style]Formatter{
	StyleAPA:       APA,
	StyleChicago:   Chicago,
	StyleHarvard:   Harvard,
	StyleVancouver: Vancouver,
	StyleMLA:       MLA,
}

// Styles returns the supported styles in display order.
func Styles() []Style {
	return []Style{StyleAPA, StyleChicago, StyleHarvard, StyleVancouver, StyleMLA}
}

// ParseStyle resolves a style name case-insensitively.
func ParseStyle(s string) (Style, bool) {
	s = strings.TrimSpace(s)
	for _, style := range Styles() {
		if strings.EqualFold(s, string(style)) {
			return style, true
		}
	}
	return "", false
}

// Generate renders p in the given style. Unknown styles fall back to APA.
func Generate(p publication.Publication, style Style) string {
	f, ok := formatters[style]
	if !ok {
		f = APA
	}
	return f(p)
}
