// Package storage persists publications as JSONL (source of truth) and
// mirrors them into an ephemeral SQLite query cache.
package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/folio-cv/folio/internal/publication"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// Import actions.
const (
	ActionNew    = "new"
	ActionUpdate = "update"
	ActionSkip   = "skip"
)

// PubWithAction pairs a publication with the import action chosen for it.
type PubWithAction struct {
	Pub         publication.Publication
	Action      string
	ExistingIdx int // index in the existing slice, for updates
	Reason      string
}

// ReadAll reads all publications from a JSONL file. A missing file is empty.
func ReadAll(path string) ([]publication.Publication, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening publications file: %w", err)
	}
	defer f.Close()

	var pubs []publication.Publication
	scanner := bufio.NewScanner(f)
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var p publication.Publication
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		pubs = append(pubs, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading publications file: %w", err)
	}
	return pubs, nil
}

// Append adds a publication to the end of a JSONL file.
func Append(path string, p publication.Publication) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening publications file for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding publication: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing publication: %w", err)
	}
	return nil
}

// WriteAll writes all publications to a JSONL file, replacing existing content.
func WriteAll(path string, pubs []publication.Publication) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating publications file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, p := range pubs {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding publication %d: %w", i, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("writing publication %d: %w", i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing publications file: %w", err)
	}
	return nil
}

// FindByID searches for a publication by ID.
func FindByID(pubs []publication.Publication, id string) (int, bool) {
	for i, p := range pubs {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

// FindByDOI searches for a publication by DOI link, ignoring the resolver
// prefix and case.
func FindByDOI(pubs []publication.Publication, doiLink string) (int, bool) {
	want := normalizeDOI(doiLink)
	if want == "" {
		return -1, false
	}
	for i, p := range pubs {
		if normalizeDOI(p.DOILink) == want {
			return i, true
		}
	}
	return -1, false
}

func normalizeDOI(link string) string {
	link = strings.TrimSpace(link)
	link = strings.TrimPrefix(link, "https://doi.org/")
	link = strings.TrimPrefix(link, "http://doi.org/")
	return strings.ToLower(link)
}

// GenerateUniqueID returns an ID that doesn't conflict with existing
// publications. If the base ID exists, appends -2, -3, etc.
func GenerateUniqueID(pubs []publication.Publication, baseID string) string {
	if _, found := FindByID(pubs, baseID); !found {
		return baseID
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", baseID, i)
		if _, found := FindByID(pubs, candidate); !found {
			return candidate
		}
	}
}

// PlanMerge decides, for each incoming publication, whether it is new,
// replaces an existing one with the same ID, or duplicates an existing DOI
// (or an ID or DOI earlier in the same batch) and is skipped.
func PlanMerge(existing, incoming []publication.Publication) []PubWithAction {
	plan := make([]PubWithAction, 0, len(incoming))
	seenDOI := make(map[string]bool)
	seenID := make(map[string]bool)

	for _, p := range incoming {
		if seenID[p.ID] {
			plan = append(plan, PubWithAction{Pub: p, Action: ActionSkip, ExistingIdx: -1, Reason: "duplicate ID in batch"})
			continue
		}
		seenID[p.ID] = true

		doi := normalizeDOI(p.DOILink)
		if doi != "" && seenDOI[doi] {
			plan = append(plan, PubWithAction{Pub: p, Action: ActionSkip, ExistingIdx: -1, Reason: "duplicate DOI in batch"})
			continue
		}
		if doi != "" {
			seenDOI[doi] = true
		}

		if idx, ok := FindByID(existing, p.ID); ok {
			plan = append(plan, PubWithAction{Pub: p, Action: ActionUpdate, ExistingIdx: idx})
			continue
		}
		if idx, ok := FindByDOI(existing, p.DOILink); ok {
			plan = append(plan, PubWithAction{Pub: p, Action: ActionSkip, ExistingIdx: idx, Reason: "DOI already stored as " + existing[idx].ID})
			continue
		}
		plan = append(plan, PubWithAction{Pub: p, Action: ActionNew, ExistingIdx: -1})
	}
	return plan
}

// ApplyMerge applies a plan to existing and returns the merged slice.
func ApplyMerge(existing []publication.Publication, plan []PubWithAction) []publication.Publication {
	merged := append([]publication.Publication(nil), existing...)
	for _, a := range plan {
		switch a.Action {
		case ActionUpdate:
			merged[a.ExistingIdx] = a.Pub
		case ActionNew:
			merged = append(merged, a.Pub)
		}
	}
	return merged
}
