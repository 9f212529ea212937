package citation

import (
	"regexp"
	"strings"
)

var multiSpaceRegex = regexp.MustCompile(`\s{2,}`)

const doiPrefix = "https://doi.org/"

// terminate ensures s ends with sentence punctuation.
func terminate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || endsSentence(s) {
		return s
	}
	return s + "."
}

func endsSentence(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "?") || strings.HasSuffix(s, "!")
}

// trimPeriod drops one trailing period.
func trimPeriod(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), ".")
}

// stripTerminal drops one trailing "." or "?", used before wrapping in emphasis.
func stripTerminal(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, "?") {
		return s[:len(s)-1]
	}
	return s
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(multiSpaceRegex.ReplaceAllString(s, " "))
}

// doubleQuoted renders `"Title."`, punctuation inside the quotes.
func doubleQuoted(title string) string {
	return `"` + terminate(title) + `"`
}

// singleQuoted renders `'Title'.`, punctuation outside unless the title
// already ends in ? or !.
func singleQuoted(title string) string {
	t := trimPeriod(title)
	if endsSentence(t) {
		return "'" + t + "'"
	}
	return "'" + t + "'."
}

func enDash(pages string) string {
	return strings.ReplaceAll(pages, "-", "–")
}

func hyphen(pages string) string {
	return strings.ReplaceAll(pages, "–", "-")
}

// statusNote strips surrounding brackets from a status like "[Under Review]".
func statusNote(status string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(status), "[]"))
}

// bareDOI strips the resolver prefix from a DOI link.
func bareDOI(link string) string {
	return strings.TrimPrefix(strings.TrimSpace(link), doiPrefix)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
