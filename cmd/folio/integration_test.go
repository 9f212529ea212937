package main

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/folio-cv/folio/internal/citation"
	"github.com/folio-cv/folio/internal/publication"
)

var (
	folioBinary     string
	folioBinaryOnce sync.Once
	folioBinaryErr  error
)

// getFolioBinary builds the folio binary once and returns its path.
func getFolioBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping CLI integration test in short mode")
	}
	folioBinaryOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "folio-test-*")
		if err != nil {
			folioBinaryErr = err
			return
		}
		folioBinary = filepath.Join(tmpDir, "folio")

		cmd := exec.Command("go", "build", "-o", folioBinary, ".")
		if output, err := cmd.CombinedOutput(); err != nil {
			folioBinaryErr = &buildError{output: string(output), err: err}
		}
	})
	if folioBinaryErr != nil {
		t.Fatalf("failed to build folio: %v", folioBinaryErr)
	}
	return folioBinary
}

type buildError struct {
	output string
	err    error
}

func (e *buildError) Error() string {
	return e.err.Error() + ": " + e.output
}

const testCatalogYAML = `publications:
  - id: prja2
    type: journal
    authors: Singh, J., & Singh, M.
    title: "Alleviating urban poverty in India: The role of capabilities and entrepreneurship development"
    source: International Journal of Social Economics
    year: 2024
    details: 51(10), 1314-1335
    doi_link: https://doi.org/10.1108/IJSE-07-2023-0514
  - id: conf1
    type: conference
    authors: Jaskirat Singh
    title: Green finance and MSMEs
    source: International Conference on Sustainability.
    year: 2025
    details: "Presentation: 13-15 May 2025, Canberra, Australia."
  - type: poster
    authors: Nobody
    title: Rejected record
    year: 2020
`

// setupTestRepo initializes a repository in a temp dir and imports the test
// catalog. XDG_CONFIG_HOME points inside the temp dir.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	if out, err := runFolio(t, dir, "init"); err != nil {
		t.Fatalf("init failed: %v\nOutput: %s", err, out)
	}
	catalog := filepath.Join(dir, "publications.yml")
	if err := os.WriteFile(catalog, []byte(testCatalogYAML), 0644); err != nil {
		t.Fatal(err)
	}
	if out, err := runFolio(t, dir, "import", catalog); err != nil {
		t.Fatalf("import failed: %v\nOutput: %s", err, out)
	}
	return dir
}

// runFolio executes folio in dir and returns stdout.
func runFolio(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getFolioBinary(t), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(dir, "config"),
		"FOLIO_ROOT=",
	)
	out, err := cmd.Output()
	return string(out), err
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func TestCLI_Init(t *testing.T) {
	dir := t.TempDir()
	out, err := runFolio(t, dir, "init", "--style", "MLA")
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}

	var status StatusResponse
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, out)
	}
	if status.Status != "initialized" {
		t.Errorf("status = %q", status.Status)
	}
	if _, err := os.Stat(filepath.Join(dir, ".folio", "publications.jsonl")); err != nil {
		t.Errorf("publications.jsonl not created: %v", err)
	}

	_, err = runFolio(t, dir, "init")
	if exitCode(err) != ExitError {
		t.Errorf("second init exit code = %d, want %d", exitCode(err), ExitError)
	}
}

func TestCLI_Import(t *testing.T) {
	dir := t.TempDir()
	if _, err := runFolio(t, dir, "init"); err != nil {
		t.Fatal(err)
	}
	catalog := filepath.Join(dir, "publications.yml")
	if err := os.WriteFile(catalog, []byte(testCatalogYAML), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runFolio(t, dir, "import", catalog, "--dry-run")
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	var result ImportResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, out)
	}
	if !result.DryRun || result.Imported != 2 || result.Skipped != 1 || len(result.Errors) != 1 {
		t.Errorf("dry run result = %+v", result)
	}
	data, _ := os.ReadFile(filepath.Join(dir, ".folio", "publications.jsonl"))
	if len(data) != 0 {
		t.Error("dry run wrote publications.jsonl")
	}

	if _, err := runFolio(t, dir, "import", catalog); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	out, err = runFolio(t, dir, "import", catalog)
	if err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	result = ImportResult{}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatal(err)
	}
	if result.Imported != 0 || result.Updated != 2 {
		t.Errorf("re-import result = %+v, want 2 updates", result)
	}
}

func TestCLI_ListAndGet(t *testing.T) {
	dir := setupTestRepo(t)

	out, err := runFolio(t, dir, "list", "--type", "journal")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var pubs []publication.Publication
	if err := json.Unmarshal([]byte(out), &pubs); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, out)
	}
	if len(pubs) != 1 || pubs[0].ID != "prja2" {
		t.Errorf("list --type journal = %+v", pubs)
	}

	out, err = runFolio(t, dir, "get", "conf1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	var p publication.Publication
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatal(err)
	}
	if p.Title != "Green finance and MSMEs" {
		t.Errorf("get conf1 title = %q", p.Title)
	}

	out, err = runFolio(t, dir, "get", "missing")
	if exitCode(err) != ExitError {
		t.Errorf("get missing exit code = %d", exitCode(err))
	}
	var resp ErrorResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil || !strings.Contains(resp.Error, "not found") {
		t.Errorf("get missing output = %q", out)
	}
}

func TestCLI_Search(t *testing.T) {
	dir := setupTestRepo(t)

	out, err := runFolio(t, dir, "search", "poverty")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	var pubs []publication.Publication
	if err := json.Unmarshal([]byte(out), &pubs); err != nil {
		t.Fatal(err)
	}
	if len(pubs) != 1 || pubs[0].ID != "prja2" {
		t.Errorf("search poverty = %+v", pubs)
	}
}

func TestCLI_Cite(t *testing.T) {
	dir := setupTestRepo(t)

	out, err := runFolio(t, dir, "cite", "prja2", "--style", "harvard")
	if err != nil {
		t.Fatalf("cite failed: %v", err)
	}
	var result CiteResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, out)
	}
	if len(result.Citations) != 1 || result.Citations[0].Style != "Harvard" {
		t.Fatalf("cite result = %+v", result)
	}
	if c := result.Citations[0].Citation; !strings.Contains(c, "(2024)") || !strings.Contains(c, "Alleviating urban poverty") {
		t.Errorf("citation = %q", result.Citations[0].Citation)
	}

	out, err = runFolio(t, dir, "cite", "--all", "--all-styles")
	if err != nil {
		t.Fatalf("cite --all failed: %v", err)
	}
	result = CiteResult{}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Citations) != 2*len(citation.Styles()) {
		t.Errorf("cite --all --all-styles returned %d citations", len(result.Citations))
	}
	if result.Citations[0].ID != "prja2" {
		t.Errorf("journals should come first, got %s", result.Citations[0].ID)
	}

	if _, err := runFolio(t, dir, "cite", "prja2", "--style", "ieee"); exitCode(err) != ExitError {
		t.Errorf("unknown style exit code = %d", exitCode(err))
	}
	if _, err := runFolio(t, dir, "cite"); exitCode(err) != ExitError {
		t.Errorf("cite without ids exit code = %d", exitCode(err))
	}
}

func TestCLI_CiteGlobalDefaultStyle(t *testing.T) {
	dir := setupTestRepo(t)

	globalDir := filepath.Join(dir, "config", "folio")
	if err := os.MkdirAll(globalDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(globalDir, "config.yml"), []byte("default_style: Harvard\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cite := func() string {
		t.Helper()
		out, err := runFolio(t, dir, "cite", "prja2")
		if err != nil {
			t.Fatalf("cite failed: %v", err)
		}
		var result CiteResult
		if err := json.Unmarshal([]byte(out), &result); err != nil {
			t.Fatalf("parsing output: %v\n%s", err, out)
		}
		if len(result.Citations) != 1 {
			t.Fatalf("cite result = %+v", result)
		}
		return result.Citations[0].Style
	}

	if got := cite(); got != "Harvard" {
		t.Errorf("style with global default = %q, want Harvard", got)
	}

	if _, err := runFolio(t, dir, "config", "default_style", "Chicago"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	if got := cite(); got != "Chicago" {
		t.Errorf("style with repository default = %q, want Chicago", got)
	}
}

func TestCLI_Details(t *testing.T) {
	dir := t.TempDir()
	out, err := runFolio(t, dir, "details", "145, 104729")
	if err != nil {
		t.Fatalf("details failed: %v", err)
	}
	var parts citation.JournalParts
	if err := json.Unmarshal([]byte(out), &parts); err != nil {
		t.Fatal(err)
	}
	want := citation.JournalParts{Volume: "145", Pages: "104729", FullDetails: "145, 104729"}
	if parts != want {
		t.Errorf("details = %+v, want %+v", parts, want)
	}
}

func TestCLI_Export(t *testing.T) {
	dir := setupTestRepo(t)

	out, err := runFolio(t, dir, "export", "--bibtex", "--ids", "prja2")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.HasPrefix(out, "@article{") || !strings.Contains(out, "doi       = {10.1108/IJSE-07-2023-0514}") {
		t.Errorf("bibtex output = %s", out)
	}

	bib := filepath.Join(dir, "refs.bib")
	if _, err := runFolio(t, dir, "export", "--append", bib); err != nil {
		t.Fatalf("export --append failed: %v", err)
	}
	out, err = runFolio(t, dir, "export", "--append", bib)
	if err != nil {
		t.Fatalf("second export --append failed: %v", err)
	}
	var result ExportResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatal(err)
	}
	if result.Added != 0 || result.Skipped != 2 {
		t.Errorf("second append = %+v, want everything skipped", result)
	}

	out, err = runFolio(t, dir, "export", "--ris")
	if err != nil || strings.Count(out, "ER  - ") != 2 {
		t.Errorf("ris export err=%v output=%s", err, out)
	}

	if _, err := runFolio(t, dir, "export"); exitCode(err) != ExitError {
		t.Errorf("export without format exit code = %d", exitCode(err))
	}
}

func TestCLI_Config(t *testing.T) {
	dir := setupTestRepo(t)

	if _, err := runFolio(t, dir, "config", "default-style", "chicago"); err != nil {
		t.Fatalf("config set failed: %v", err)
	}
	out, err := runFolio(t, dir, "config", "default_style")
	if err != nil {
		t.Fatalf("config get failed: %v", err)
	}
	if !strings.Contains(out, `"default_style": "Chicago"`) {
		t.Errorf("config get = %s", out)
	}

	if _, err := runFolio(t, dir, "config", "default-style", "ieee"); exitCode(err) != ExitConfigError {
		t.Errorf("invalid style exit code = %d", exitCode(err))
	}
}

func TestCLI_NoRepository(t *testing.T) {
	_, err := runFolio(t, t.TempDir(), "list")
	if exitCode(err) != ExitConfigError {
		t.Errorf("list outside repository exit code = %d, want %d", exitCode(err), ExitConfigError)
	}
}
