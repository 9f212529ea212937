package export

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/folio-cv/folio/internal/publication"
)

var (
	entryStartRegex = regexp.MustCompile(`^\s*@\w+\s*\{\s*([^,\s]+)\s*,`)
	doiFieldRegex   = regexp.MustCompile(`(?i)^\s*doi\s*=\s*[\{"]([^\}"]+)[\}"]`)
)

// BibIndex records the keys and DOIs already present in a .bib file.
type BibIndex struct {
	// Keys maps an entry key to the normalized DOI it carries, "" if none.
	Keys map[string]string
	// DOIs maps a normalized DOI to the key of the entry carrying it.
	DOIs map[string]string
}

// NewBibIndex creates an empty index.
func NewBibIndex() *BibIndex {
	return &BibIndex{
		Keys: make(map[string]string),
		DOIs: make(map[string]string),
	}
}

// Contains reports whether p is already present. A DOI match wins. Otherwise
// an entry under p's citation key counts only when the two DOIs don't
// conflict, so distinct works that share a key are both kept.
func (idx *BibIndex) Contains(p publication.Publication) bool {
	doi := NormalizeDOI(p.DOILink)
	if doi != "" {
		if _, ok := idx.DOIs[doi]; ok {
			return true
		}
	}
	keyDOI, ok := idx.Keys[CitationKey(p)]
	if !ok {
		return false
	}
	return keyDOI == "" || doi == "" || keyDOI == doi
}

// Add records p in the index and returns the key it was filed under: its
// citation key, or that key with a letter suffix ("a", "b", ...) when the key
// is taken.
func (idx *BibIndex) Add(p publication.Publication) string {
	key := idx.uniqueKey(CitationKey(p))
	doi := NormalizeDOI(p.DOILink)
	idx.Keys[key] = doi
	if doi != "" {
		idx.DOIs[doi] = key
	}
	return key
}

func (idx *BibIndex) uniqueKey(base string) string {
	if _, taken := idx.Keys[base]; !taken {
		return base
	}
	for n := 0; ; n++ {
		candidate := base + keySuffix(n)
		if _, taken := idx.Keys[candidate]; !taken {
			return candidate
		}
	}
}

// keySuffix maps 0, 1, ..., 25, 26, ... to "a", "b", ..., "z", "aa", ...
func keySuffix(n int) string {
	var s string
	for n++; n > 0; n = (n - 1) / 26 {
		s = string(rune('a'+(n-1)%26)) + s
	}
	return s
}

// ReadBibIndex indexes an existing .bib file. A missing file yields an empty index.
func ReadBibIndex(path string) (*BibIndex, error) {
	idx := NewBibIndex()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return idx, nil
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var key string
	for scanner.Scan() {
		line := scanner.Text()
		if m := entryStartRegex.FindStringSubmatch(line); m != nil {
			key = m[1]
			idx.Keys[key] = ""
		}
		if m := doiFieldRegex.FindStringSubmatch(line); m != nil && key != "" {
			if doi := NormalizeDOI(m[1]); doi != "" {
				idx.Keys[key] = doi
				idx.DOIs[doi] = key
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return idx, nil
}

// NormalizeDOI strips resolver prefixes and lowercases a DOI for comparison.
func NormalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "doi.org/", "doi:", "DOI:"} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return strings.ToLower(strings.TrimSpace(doi))
}

// AppendBibTeX appends the publications not yet present in the .bib file at
// path. It returns the number written and the number skipped as duplicates.
func AppendBibTeX(path string, pubs []publication.Publication) (added, skipped int, err error) {
	idx, err := ReadBibIndex(path)
	if err != nil {
		return 0, 0, err
	}

	var entries []string
	for _, p := range pubs {
		if idx.Contains(p) {
			skipped++
			continue
		}
		entries = append(entries, toBibTeX(p, idx.Add(p)))
	}
	if len(entries) == 0 {
		return 0, skipped, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return 0, skipped, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.WriteString("\n" + strings.Join(entries, "\n")); err != nil {
		return 0, skipped, fmt.Errorf("writing %s: %w", path, err)
	}
	return len(entries), skipped, nil
}
