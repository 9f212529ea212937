// Package publication defines the core domain types for portfolio publications.
package publication

// Type is the category of a publication. It drives which formatting branch
// every citation style uses.
type Type string

const (
	Journal      Type = "journal"
	BookChapter  Type = "book_chapter"
	Conference   Type = "conference"
	InProgress   Type = "in_progress"
	WorkingPaper Type = "working_paper"
	BookProposal Type = "book_proposal"
	Report       Type = "report"
)

// Types lists every publication type in display order.
var Types = []Type{Journal, BookChapter, Conference, InProgress, WorkingPaper, BookProposal, Report}

var typeNames = map[Type]string{
	Journal:      "Peer-Reviewed Journal Articles",
	BookChapter:  "Book Chapters",
	Conference:   "Conference Presentations",
	InProgress:   "Work in Progress",
	WorkingPaper: "Working Papers",
	BookProposal: "Book Proposals",
	Report:       "Reports",
}

// Valid reports whether t is one of the known publication types.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// DisplayName returns the section heading used for t.
func (t Type) DisplayName() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return string(t)
}

// order returns the position of t in Types, or len(Types) for unknown values.
func (t Type) order() int {
	for i, known := range Types {
		if known == t {
			return i
		}
	}
	return len(Types)
}

// Publication is a single entry of the portfolio's publication list.
// Formatters receive it by value and never modify it.
type Publication struct {
	// Identity
	ID   string `json:"id" yaml:"id"`
	Type Type   `json:"type" yaml:"type" validate:"required,pubtype"`

	// Free-text metadata, parsed by pattern where needed
	Authors string `json:"authors" yaml:"authors" validate:"required"`
	Title   string `json:"title" yaml:"title" validate:"required"`
	Source  string `json:"source" yaml:"source"` // Journal, book phrase, conference or target venue
	Year    Year   `json:"year" yaml:"year" validate:"required"`
	Details string `json:"details,omitempty" yaml:"details,omitempty"` // Volume/issue/pages and [annotations]
	Status  string `json:"status,omitempty" yaml:"status,omitempty"`

	// Links (DOILink wins over Link when both are set)
	DOILink string `json:"doi_link,omitempty" yaml:"doi_link,omitempty" validate:"omitempty,url"`
	Link    string `json:"link,omitempty" yaml:"link,omitempty" validate:"omitempty,url"`

	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// URL returns the DOI link if present, otherwise the plain link.
func (p Publication) URL() string {
	if p.DOILink != "" {
		return p.DOILink
	}
	return p.Link
}
