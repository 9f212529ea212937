// Package importer loads publication catalogs from YAML or JSON files.
package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/folio-cv/folio/internal/publication"
	"github.com/folio-cv/folio/internal/storage"
)

// Format is a catalog file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for catalog files with an unrecognised extension.
var ErrUnknownFormat = errors.New("unknown catalog format")

// catalogFile is the object form of a catalog: {publications: [...]}.
type catalogFile struct {
	Publications []publication.Publication `json:"publications" yaml:"publications"`
}

// idNamespace seeds deterministic IDs for records that carry none.
var idNamespace = uuid.MustParse("6f1c4a52-2d0e-4b8e-9a5e-8d4f1f0c7b31")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("pubtype", func(fl validator.FieldLevel) bool {
		return publication.Type(fl.Field().String()).Valid()
	})
	return v
}

// DetectFormat picks the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadCatalog reads and parses the catalog at path.
func LoadCatalog(path string) ([]publication.Publication, []error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, []error{err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{fmt.Errorf("reading catalog: %w", err)}
	}
	return ParseCatalog(data, format)
}

// ParseCatalog parses a catalog given either as a list of publications or as
// an object with a "publications" list. Invalid records are reported and
// left out; valid ones are normalized and returned.
func ParseCatalog(data []byte, format Format) ([]publication.Publication, []error) {
	var records []publication.Publication
	var err error
	switch format {
	case FormatJSON:
		records, err = decodeJSON(data)
	case FormatYAML:
		records, err = decodeYAML(data)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, []error{err}
	}

	var pubs []publication.Publication
	var errs []error
	for i, p := range records {
		p = normalize(p)
		if err := validate.Struct(p); err != nil {
			errs = append(errs, recordError(i, p, err))
			continue
		}
		pubs = append(pubs, p)
	}
	return pubs, errs
}

func decodeJSON(data []byte) ([]publication.Publication, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []publication.Publication
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("parsing catalog JSON: %w", err)
		}
		return list, nil
	}

	var file catalogFile
	if err := json.Unmarshal(trimmed, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog JSON: %w", err)
	}
	return file.Publications, nil
}

func decodeYAML(data []byte) ([]publication.Publication, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.SequenceNode {
		var list []publication.Publication
		if err := root.Decode(&list); err != nil {
			return nil, fmt.Errorf("parsing catalog YAML: %w", err)
		}
		return list, nil
	}

	var file catalogFile
	if err := root.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	return file.Publications, nil
}

// normalize trims fields, expands bare DOIs to resolver links and assigns an
// ID to records without one.
func normalize(p publication.Publication) publication.Publication {
	p.ID = strings.TrimSpace(p.ID)
	p.Type = publication.Type(strings.TrimSpace(string(p.Type)))
	p.Authors = strings.TrimSpace(p.Authors)
	p.Title = strings.TrimSpace(p.Title)
	p.Source = strings.TrimSpace(p.Source)
	p.Year = publication.Year(strings.TrimSpace(string(p.Year)))
	p.Details = strings.TrimSpace(p.Details)
	p.Status = strings.TrimSpace(p.Status)
	p.Link = strings.TrimSpace(p.Link)
	p.DOILink = expandDOI(strings.TrimSpace(p.DOILink))

	if p.ID == "" {
		p.ID = DeriveID(p)
	}
	return p
}

func expandDOI(doi string) string {
	lower := strings.ToLower(doi)
	switch {
	case strings.HasPrefix(lower, "doi:"):
		return "https://doi.org/" + strings.TrimSpace(doi[4:])
	case strings.HasPrefix(lower, "10."):
		return "https://doi.org/" + doi
	default:
		return doi
	}
}

// DeriveID returns a stable ID computed from title, year and authors, so that
// re-importing an unchanged catalog updates rather than duplicates records.
func DeriveID(p publication.Publication) string {
	name := strings.ToLower(p.Title + "|" + string(p.Year) + "|" + p.Authors)
	return "pub-" + uuid.NewSHA1(idNamespace, []byte(name)).String()[:8]
}

// ResolveIDClashes renames records whose derived ID is already held by a
// different publication, stored or earlier in the batch, so that a clash of
// the short hash never turns into an update of an unrelated record.
func ResolveIDClashes(existing, incoming []publication.Publication) []publication.Publication {
	taken := append([]publication.Publication(nil), existing...)
	out := make([]publication.Publication, 0, len(incoming))
	for _, p := range incoming {
		if p.ID == DeriveID(p) {
			if i, found := storage.FindByID(taken, p.ID); found && DeriveID(taken[i]) != p.ID {
				p.ID = storage.GenerateUniqueID(taken, p.ID)
			}
		}
		taken = append(taken, p)
		out = append(out, p)
	}
	return out
}

func recordError(i int, p publication.Publication, err error) error {
	label := p.Title
	if label == "" {
		label = p.ID
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("entry %d (%s): %w", i+1, label, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "pubtype":
			msgs = append(msgs, fmt.Sprintf("type %q is not a known publication type", fe.Value()))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s %q is not a URL", fe.Field(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("entry %d (%s): %s", i+1, label, strings.Join(msgs, "; "))
}
