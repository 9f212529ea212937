package citation

import (
	"regexp"
	"strings"
)

// JournalParts holds the structured fields recognised in a details string.
// Empty fields were not recognised.
type JournalParts struct {
	Volume      string `json:"volume,omitempty"`
	Issue       string `json:"issue,omitempty"`
	Pages       string `json:"pages,omitempty"`
	FullDetails string `json:"full_details"`
}

// pagesPattern accepts a range joined by "-" or "–", or one alphanumeric token
// (article numbers, e-locators).
const pagesPattern = `([\w-]+(?:–|-)[\w-]+|[a-zA-Z0-9]+)`

var (
	annotationRegex    = regexp.MustCompile(`\[[^\]]+\]`)
	trailingPunctRegex = regexp.MustCompile(`[.,\s]+$`)

	volumeIssuePagesRegex = regexp.MustCompile(`^([\w-]+)\s*\(([\w-]+)\)\s*,\s*` + pagesPattern + `$`)
	volumePagesRegex      = regexp.MustCompile(`^([\w-]+)\s*,\s*` + pagesPattern + `$`)
	volumeIssueRegex      = regexp.MustCompile(`^([\w-]+)\s*\(([\w-]+)\)$`)
	pagesOnlyRegex        = regexp.MustCompile(`^` + pagesPattern + `$`)
)

// detailMatcher tries one shape against cleaned details.
type detailMatcher func(clean string) (JournalParts, bool)

// detailCascade is tried in order; the first match wins.
var detailCascade = []detailMatcher{
	matchVolumeIssuePages,
	matchVolumePages,
	matchVolumeIssue,
	matchPagesOnly,
}

// DecomposeDetails parses a free-text details field such as "51(10), 1314-1335"
// into volume, issue and pages. Bracketed annotations like "[IF: 6.7]" are
// dropped first. When no shape matches only FullDetails is set.
func DecomposeDetails(details string) JournalParts {
	if details == "" {
		return JournalParts{}
	}

	clean := cleanDetails(details)
	for _, match := range detailCascade {
		if parts, ok := match(clean); ok {
			parts.FullDetails = clean
			return parts
		}
	}
	return JournalParts{FullDetails: clean}
}

func cleanDetails(details string) string {
	clean := annotationRegex.ReplaceAllString(details, "")
	clean = strings.TrimSpace(clean)
	return trailingPunctRegex.ReplaceAllString(clean, "")
}

func matchVolumeIssuePages(clean string) (JournalParts, bool) {
	m := volumeIssuePagesRegex.FindStringSubmatch(clean)
	if m == nil {
		return JournalParts{}, false
	}
	return JournalParts{Volume: m[1], Issue: m[2], Pages: m[3]}, true
}

func matchVolumePages(clean string) (JournalParts, bool) {
	m := volumePagesRegex.FindStringSubmatch(clean)
	if m == nil {
		return JournalParts{}, false
	}
	return JournalParts{Volume: m[1], Pages: m[2]}, true
}

func matchVolumeIssue(clean string) (JournalParts, bool) {
	m := volumeIssueRegex.FindStringSubmatch(clean)
	if m == nil {
		return JournalParts{}, false
	}
	return JournalParts{Volume: m[1], Issue: m[2]}, true
}

func matchPagesOnly(clean string) (JournalParts, bool) {
	if !pagesOnlyRegex.MatchString(clean) {
		return JournalParts{}, false
	}
	return JournalParts{Pages: clean}, true
}
