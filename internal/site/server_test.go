package site

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-cv/folio/internal/citation"
	"github.com/folio-cv/folio/internal/export"
	"github.com/folio-cv/folio/internal/publication"
)

var testCatalog = SliceCatalog{
	{
		ID:      "prja2",
		Type:    publication.Journal,
		Authors: "Singh, J., & Singh, M.",
		Title:   "Alleviating urban poverty in India",
		Source:  "International Journal of Social Economics",
		Year:    "2024",
		Details: "51(10), 1314-1335",
		DOILink: "https://doi.org/10.1108/IJSE-07-2023-0514",
	},
	{
		ID:      "prja1",
		Type:    publication.Journal,
		Authors: "Singh, J.",
		Title:   "Microfinance & women",
		Source:  "Journal of Rural Studies",
		Year:    "2021",
		Details: "12(2), 10-20",
	},
	{
		ID:      "conf1",
		Type:    publication.Conference,
		Authors: "Jaskirat Singh",
		Title:   "Green finance and MSMEs",
		Source:  "International Conference on Sustainability.",
		Year:    "2025",
		Details: "Presentation: 13-15 May 2025, Canberra, Australia.",
	},
}

func newTestServer(t *testing.T, catalog Catalog, cfg Config) *Server {
	t.Helper()
	cfg.Title = "Research Output"
	cfg.Owner = "Jaskirat Singh"
	return NewServer(cfg, catalog, zerolog.New(io.Discard))
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testCatalog, Config{})
	rec := doGet(t, s.Handler(), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

type failingCatalog struct{}

func (failingCatalog) ListAll(int) ([]publication.Publication, error) {
	return nil, errors.New("database is locked")
}

func (failingCatalog) GetByID(string) (*publication.Publication, error) {
	return nil, errors.New("database is locked")
}

func TestHealth_CatalogError(t *testing.T) {
	s := newTestServer(t, failingCatalog{}, Config{})

	rec := doGet(t, s.Handler(), "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doGet(t, s.Handler(), "/api/publications/prja2")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestListPublications(t *testing.T) {
	s := newTestServer(t, testCatalog, Config{})

	tests := []struct {
		name      string
		target    string
		wantCode  int
		wantCount int
	}{
		{"all", "/api/publications", http.StatusOK, 3},
		{"by type", "/api/publications?type=journal", http.StatusOK, 2},
		{"empty type", "/api/publications?type=report", http.StatusOK, 0},
		{"unknown type", "/api/publications?type=poster", http.StatusBadRequest, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(t, s.Handler(), tt.target)
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCount < 0 {
				return
			}
			var pubs []publication.Publication
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pubs))
			assert.Len(t, pubs, tt.wantCount)
		})
	}
}

func TestListPublications_Grouped(t *testing.T) {
	s := newTestServer(t, testCatalog, Config{})
	rec := doGet(t, s.Handler(), "/api/publications?group=true")
	require.Equal(t, http.StatusOK, rec.Code)

	var groups []publication.Group
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &groups))
	require.Len(t, groups, 2)
	assert.Equal(t, publication.Journal, groups[0].Type)
	assert.Equal(t, "prja2", groups[0].Publications[0].ID)
	assert.Equal(t, publication.Conference, groups[1].Type)
}

func TestGetPublication(t *testing.T) {
	s := newTestServer(t, testCatalog, Config{})

	rec := doGet(t, s.Handler(), "/api/publications/prja2")
	require.Equal(t, http.StatusOK, rec.Code)
	var p publication.Publication
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, "Alleviating urban poverty in India", p.Title)

	rec = doGet(t, s.Handler(), "/api/publications/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"publication not found: missing"}`, rec.Body.String())
}

func TestGetCitation(t *testing.T) {
	s := newTestServer(t, testCatalog, Config{DefaultStyle: citation.StyleHarvard})

	tests := []struct {
		name      string
		target    string
		wantCode  int
		wantStyle citation.Style
	}{
		{"default style", "/api/publications/prja2/citation", http.StatusOK, citation.StyleHarvard},
		{"explicit style", "/api/publications/prja2/citation?style=vancouver", http.StatusOK, citation.StyleVancouver},
		{"unknown style", "/api/publications/prja2/citation?style=ieee", http.StatusBadRequest, ""},
		{"unknown id", "/api/publications/nope/citation?style=APA", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(t, s.Handler(), tt.target)
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode != http.StatusOK {
				return
			}
			var resp CitationResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, string(tt.wantStyle), resp.Style)
			assert.Equal(t, citation.Generate(testCatalog[0], tt.wantStyle), resp.Citation)
		})
	}
}

func TestGetAllCitations(t *testing.T) {
	s := newTestServer(t, testCatalog, Config{})
	rec := doGet(t, s.Handler(), "/api/publications/conf1/citations")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AllCitationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Citations, len(citation.Styles()))
	assert.Equal(t, citation.MLA(testCatalog[2]), resp.Citations["MLA"])
	assert.Equal(t, export.ToBibTeX(testCatalog[2]), resp.BibTeX)
}

func TestGetBibTeX(t *testing.T) {
	s := newTestServer(t, testCatalog, Config{})
	rec := doGet(t, s.Handler(), "/api/publications/prja2/bibtex")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-bibtex; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), export.CitationKey(testCatalog[0]))
	assert.Equal(t, export.ToBibTeX(testCatalog[0])+"\n", rec.Body.String())
}

func TestDecomposeDetails(t *testing.T) {
	s := newTestServer(t, testCatalog, Config{})

	rec := doGet(t, s.Handler(), "/api/details?q=51(10),%201314-1335")
	require.Equal(t, http.StatusOK, rec.Code)
	var parts citation.JournalParts
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parts))
	assert.Equal(t, citation.JournalParts{Volume: "51", Issue: "10", Pages: "1314-1335", FullDetails: "51(10), 1314-1335"}, parts)

	rec = doGet(t, s.Handler(), "/api/details")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListStyles(t *testing.T) {
	s := newTestServer(t, testCatalog, Config{})
	rec := doGet(t, s.Handler(), "/api/styles")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"styles":["APA","Chicago","Harvard","Vancouver","MLA"],"default":"APA"}`, rec.Body.String())
}

func TestPage(t *testing.T) {
	s := newTestServer(t, testCatalog, Config{})
	rec := doGet(t, s.Handler(), "/?style=MLA")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	assert.Equal(t, "Research Output", doc.Find("h1").Text())
	assert.Equal(t, "Jaskirat Singh", doc.Find("p.owner").Text())
	assert.Equal(t, "MLA", doc.Find("nav a.active").Text())

	var headings []string
	doc.Find("section.group h2").Each(func(_ int, sel *goquery.Selection) {
		headings = append(headings, sel.Text())
	})
	assert.Equal(t, []string{"Peer-Reviewed Journal Articles", "Conference Presentations"}, headings)

	var ids []string
	doc.Find("section#journal li.citation").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		ids = append(ids, id)
	})
	assert.Equal(t, []string{"prja2", "prja1"}, ids, "newest first within a group")

	entry := doc.Find("li#prja2")
	assert.Equal(t, "International Journal of Social Economics", entry.Find("em").First().Text())
	href, _ := entry.Find("a.link").Attr("href")
	assert.Equal(t, "https://doi.org/10.1108/IJSE-07-2023-0514", href)
	assert.Equal(t, 0, doc.Find("li#prja1 a.link").Length())

	assert.Contains(t, doc.Find("li#prja1").Text(), "Microfinance & women")
	assert.Equal(t, "3 publications", doc.Find("footer p").Text())
}

func TestPage_Empty(t *testing.T) {
	s := newTestServer(t, SliceCatalog{}, Config{})
	rec := doGet(t, s.Handler(), "/")

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "No publications yet.", doc.Find("p.empty").Text())
}

func TestRenderCitation(t *testing.T) {
	got := renderCitation(`Singh, J. <b>"Title"</b>. *Journal*, *51*(10).`)
	assert.Equal(t, `Singh, J. &lt;b&gt;&#34;Title&#34;&lt;/b&gt;. <em>Journal</em>, <em>51</em>(10).`, string(got))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, testCatalog, Config{RateLimit: 0.001, Burst: 2})

	assert.Equal(t, http.StatusOK, doGet(t, s.Handler(), "/api/styles").Code)
	assert.Equal(t, http.StatusOK, doGet(t, s.Handler(), "/api/styles").Code)

	rec := doGet(t, s.Handler(), "/api/styles")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// health and metrics are not limited
	assert.Equal(t, http.StatusOK, doGet(t, s.Handler(), "/healthz").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, testCatalog, Config{})
	doGet(t, s.Handler(), "/api/publications/prja2/citation?style=APA")
	doGet(t, s.Handler(), "/api/publications/missing")

	rec := doGet(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `folio_citations_rendered_total{style="APA"} 1`)
	assert.Contains(t, body, `folio_http_requests_total{code="200",route="/api/publications/{id}/citation"} 1`)
	assert.Contains(t, body, `folio_http_requests_total{code="404"`)
}

func TestServe_Shutdown(t *testing.T) {
	s := newTestServer(t, testCatalog, Config{ShutdownTimeout: time.Second})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.True(t, strings.Contains(string(body), "ok"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
