package site

import (
	"html"
	"html/template"
	"net/http"
	"regexp"

	"github.com/folio-cv/folio/internal/citation"
	"github.com/folio-cv/folio/internal/publication"
)

// emphasisRegex matches the *italic* markers the formatters emit.
var emphasisRegex = regexp.MustCompile(`\*([^*]+)\*`)

// renderCitation escapes a citation and turns *x* into <em>x</em>.
func renderCitation(s string) template.HTML {
	escaped := html.EscapeString(s)
	return template.HTML(emphasisRegex.ReplaceAllString(escaped, "<em>$1</em>"))
}

type pageEntry struct {
	ID       string
	Citation template.HTML
	URL      string
}

type pageGroup struct {
	Type    string
	Title   string
	Entries []pageEntry
}

type pageData struct {
	Title  string
	Owner  string
	Style  citation.Style
	Styles []citation.Style
	Groups []pageGroup
	Total  int
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<header>
<h1>{{.Title}}</h1>
{{if .Owner}}<p class="owner">{{.Owner}}</p>{{end}}
<nav class="styles">
{{range .Styles}}<a class="style{{if eq . $.Style}} active{{end}}" href="?style={{.}}">{{.}}</a>
{{end}}</nav>
</header>
<main>
{{range .Groups}}<section class="group" id="{{.Type}}">
<h2>{{.Title}}</h2>
<ol>
{{range .Entries}}<li class="citation" id="{{.ID}}">{{.Citation}}
<a class="bibtex" href="/api/publications/{{.ID}}/bibtex">BibTeX</a>{{if .URL}}
<a class="link" href="{{.URL}}">Link</a>{{end}}</li>
{{end}}</ol>
</section>
{{else}}<p class="empty">No publications yet.</p>
{{end}}</main>
<footer><p>{{.Total}} publications</p></footer>
</body>
</html>
`))

func (s *Server) pageHandler(w http.ResponseWriter, r *http.Request) {
	style, ok := s.requestStyle(r)
	if !ok {
		style = s.cfg.DefaultStyle
	}

	pubs, err := s.catalog.ListAll(0)
	if err != nil {
		s.logger.Error().Err(err).Msg("listing publications")
		http.Error(w, "failed to list publications", http.StatusInternalServerError)
		return
	}

	data := pageData{
		Title:  s.cfg.Title,
		Owner:  s.cfg.Owner,
		Style:  style,
		Styles: citation.Styles(),
		Total:  len(pubs),
	}
	for _, g := range publication.GroupByType(pubs) {
		pg := pageGroup{Type: string(g.Type), Title: g.Title}
		for _, p := range g.Publications {
			pg.Entries = append(pg.Entries, pageEntry{
				ID:       p.ID,
				Citation: renderCitation(citation.Generate(p, style)),
				URL:      p.URL(),
			})
			s.metrics.RecordCitation(string(style))
		}
		data.Groups = append(data.Groups, pg)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Msg("rendering page")
	}
}
