// Package pdf extracts DOIs and title guesses from publication PDFs so they
// can be linked to catalog entries.
package pdf

import (
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ScanPages is how many leading pages are searched for a DOI.
const ScanPages = 3

// 10.<registrant>/<suffix>, registrant 4-9 digits.
var doiPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)

// ExtractDOI returns the first DOI found in the leading pages of the PDF at
// filePath. A PDF without a DOI yields "" and no error.
func ExtractDOI(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return scanDOI(r), nil
}

// ExtractDOIReader is ExtractDOI for an in-memory or uploaded PDF.
func ExtractDOIReader(ra io.ReaderAt, size int64) (string, error) {
	r, err := pdf.NewReader(ra, size)
	if err != nil {
		return "", err
	}
	return scanDOI(r), nil
}

func scanDOI(r *pdf.Reader) string {
	for _, text := range pageTexts(r, ScanPages) {
		if doi := findDOI(text); doi != "" {
			return doi
		}
	}
	return ""
}

// GuessTitle returns the first substantial line of the first page, which is
// usually the article title. Returns "" when nothing plausible is found.
func GuessTitle(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	texts := pageTexts(r, 1)
	if len(texts) == 0 {
		return "", nil
	}
	for _, line := range strings.Split(texts[0], "\n") {
		line = strings.TrimSpace(line)
		if len(line) > 20 && !isHeaderLine(line) {
			return line, nil
		}
	}
	return "", nil
}

// pageTexts returns the plain text of up to maxPages pages, skipping pages
// that fail to decode.
func pageTexts(r *pdf.Reader, maxPages int) []string {
	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var texts []string
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		texts = append(texts, text)
	}
	return texts
}

// findDOI returns the first valid DOI in text, without trailing punctuation.
func findDOI(text string) string {
	for _, match := range doiPattern.FindAllString(text, -1) {
		match = strings.TrimRight(match, ".,;:)")
		if isValidDOI(match) {
			return match
		}
	}
	return ""
}

func isValidDOI(doi string) bool {
	if len(doi) < 10 || !strings.HasPrefix(doi, "10.") {
		return false
	}
	slash := strings.Index(doi, "/")
	return slash != -1 && slash < len(doi)-1
}

func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "journal"),
		strings.Contains(lower, "copyright"),
		strings.Contains(lower, "volume") && strings.Contains(lower, "issue"),
		strings.Contains(lower, "article") && strings.Contains(lower, "published"):
		return true
	}
	return false
}
