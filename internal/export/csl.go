package export

import (
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/folio-cv/folio/internal/citation"
	"github.com/folio-cv/folio/internal/publication"
)

// CSLItem is a bibliographic entry in CSL-YAML form, consumable by Pandoc
// and citeproc-based reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	Editor         []CSLName `yaml:"editor,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	DOI            string    `yaml:"DOI,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
	Status         string    `yaml:"status,omitempty"`
	Keyword        string    `yaml:"keyword,omitempty"`
}

// CSLName is a person's name split into family and given parts. Single-token
// names use Literal.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate holds date-parts, here only the year.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

var cslTypes = map[publication.Type]string{
	publication.Journal:      "article-journal",
	publication.BookChapter:  "chapter",
	publication.Conference:   "paper-conference",
	publication.InProgress:   "manuscript",
	publication.WorkingPaper: "manuscript",
	publication.Report:       "report",
}

// WriteCSL writes publications as a CSL-YAML list to w.
func WriteCSL(w io.Writer, pubs []publication.Publication) error {
	items := make([]CSLItem, len(pubs))
	for i, p := range pubs {
		items[i] = ToCSLItem(p)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(items)
}

// ToCSLItem converts a publication to a CSL item keyed by its citation key.
func ToCSLItem(p publication.Publication) CSLItem {
	typ, ok := cslTypes[p.Type]
	if !ok {
		typ = "document"
	}

	item := CSLItem{
		ID:     CitationKey(p),
		Type:   typ,
		Title:  p.Title,
		DOI:    strings.TrimPrefix(p.DOILink, "https://doi.org/"),
		URL:    p.URL(),
		Status: p.Status,
	}
	var names []CSLName
	for _, name := range citation.SplitAuthors(p.Authors) {
		names = append(names, cslName(name))
	}
	if citation.IsEditorList(p.Authors) {
		item.Editor = names
	} else {
		item.Author = names
	}
	if year, err := strconv.Atoi(p.Year.Digits()); err == nil {
		item.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}
	if len(p.Tags) > 0 {
		item.Keyword = strings.Join(p.Tags, ", ")
	}

	switch p.Type {
	case publication.Journal:
		parts := citation.DecomposeDetails(p.Details)
		item.ContainerTitle = trimDot(p.Source)
		item.Volume = parts.Volume
		item.Issue = parts.Issue
		item.Page = parts.Pages
	case publication.BookChapter:
		item.ContainerTitle = citation.BookTitle(p.Source)
		item.Publisher = citation.ChapterPublisher(p.Details)
		item.Page = citation.ChapterPages(p.Details)
	case publication.Report:
		item.Publisher = trimDot(p.Source)
	default:
		item.ContainerTitle = trimDot(p.Source)
	}
	return item
}

func cslName(name string) CSLName {
	given := citation.GivenNames(name)
	if given == "" {
		return CSLName{Literal: citation.LastName(name)}
	}
	return CSLName{Family: citation.LastName(name), Given: given}
}
