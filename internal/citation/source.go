package citation

import (
	"regexp"
	"strings"
)

var (
	bookTitleRegex      = regexp.MustCompile(`(?i)^(?:In\s+)?(?:Chapter\s+\d+\s+in\s+)?(.*?)(?:\s+\(pp\. .*?\))?\.$`)
	bookPrefixRegex     = regexp.MustCompile(`(?i)^(?:In\s+)?(?:Chapter\s+\d+\s+in\s+)?`)
	chapterPagesRegex   = regexp.MustCompile(`pp\.\s*([\w–-]+)`)
	publisherRegex      = regexp.MustCompile(`^([^\[(.,]+)`)
	conferenceNoteRegex = regexp.MustCompile(`(?i)^(?:poster|paper|abstract)\s+accepted\.\s*(?:presentation:\s*)?`)
	statusSubmitted     = regexp.MustCompile(`(?i)submitted|communicated|under review`)
	statusInPress       = regexp.MustCompile(`(?i)in press`)
	statusPreprint      = regexp.MustCompile(`(?i)preprint`)
)

// BookTitle extracts the edited book's title from a chapter source such as
// "Chapter 9 in Interdisciplinary Approaches in Management Education."
func BookTitle(source string) string {
	source = strings.TrimSpace(source)
	if m := bookTitleRegex.FindStringSubmatch(source); m != nil && m[1] != "" {
		return strings.TrimSpace(m[1])
	}
	title := bookPrefixRegex.ReplaceAllString(source, "")
	return strings.TrimSpace(strings.TrimSuffix(title, "."))
}

// ChapterPages returns the page span following "pp." in a chapter's details.
func ChapterPages(details string) string {
	if m := chapterPagesRegex.FindStringSubmatch(details); m != nil {
		return m[1]
	}
	return ""
}

// ChapterPublisher returns the leading publisher name of a chapter's details,
// the text before the first bracket, parenthesis, period or comma. Fragments
// of one character or ISBN lines are rejected.
func ChapterPublisher(details string) string {
	m := publisherRegex.FindStringSubmatch(details)
	if m == nil {
		return ""
	}
	publisher := strings.TrimSpace(m[1])
	if len(publisher) <= 1 || strings.Contains(strings.ToLower(publisher), "isbn") {
		return ""
	}
	return publisher
}

// ConferenceDetails strips an "Abstract accepted. Presentation:" style
// acceptance note and the trailing period.
func ConferenceDetails(details string) string {
	d := conferenceNoteRegex.ReplaceAllString(strings.TrimSpace(details), "")
	return strings.TrimSpace(strings.TrimSuffix(d, "."))
}

// StatusKind classifies the manuscript status of unpublished work.
type StatusKind int

const (
	WorkInProgress StatusKind = iota
	Submitted
	InPress
	Preprint
)

// ClassifyStatus maps a free-text status to a StatusKind. Anything
// unrecognised, including an empty status, is work in progress.
func ClassifyStatus(status string) StatusKind {
	switch {
	case statusSubmitted.MatchString(status):
		return Submitted
	case statusInPress.MatchString(status):
		return InPress
	case statusPreprint.MatchString(status):
		return Preprint
	default:
		return WorkInProgress
	}
}
