package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/folio-cv/folio/internal/publication"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// selectPubFields contains the standard field list for SELECT queries.
const selectPubFields = `id, type, authors, title, source, year,
	details, status, doi_link, link, tags_json`

// defaultOrder lists newest first, then by id for a stable order.
const defaultOrder = ` ORDER BY year_sort DESC, id`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS pubs (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			authors TEXT NOT NULL,
			title TEXT NOT NULL,
			source TEXT,
			year TEXT NOT NULL,
			year_sort INTEGER NOT NULL,
			details TEXT,
			status TEXT,
			doi_link TEXT,
			link TEXT,
			tags_json TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_pubs_type ON pubs(type);

		-- Standalone full-text index
		CREATE VIRTUAL TABLE IF NOT EXISTS pubs_fts USING fts5(
			id,
			title,
			authors,
			source,
			tags
		);
	`
	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	pubs, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM pubs"); err != nil {
		return 0, fmt.Errorf("clearing pubs table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM pubs_fts"); err != nil {
		return 0, fmt.Errorf("clearing pubs_fts table: %w", err)
	}

	pubStmt, err := tx.Prepare(`
		INSERT INTO pubs (
			id, type, authors, title, source, year, year_sort,
			details, status, doi_link, link, tags_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing pubs insert: %w", err)
	}
	defer pubStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO pubs_fts (id, title, authors, source, tags)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, p := range pubs {
		var tagsJSON []byte
		if len(p.Tags) > 0 {
			tagsJSON, err = json.Marshal(p.Tags)
			if err != nil {
				return 0, fmt.Errorf("marshaling tags for %s: %w", p.ID, err)
			}
		}

		_, err = pubStmt.Exec(
			p.ID, string(p.Type), p.Authors, p.Title, p.Source,
			p.Year.String(), p.Year.Sortable(),
			nullableStringValue(p.Details), nullableStringValue(p.Status),
			nullableStringValue(p.DOILink), nullableStringValue(p.Link),
			nullableString(tagsJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting publication %s: %w", p.ID, err)
		}

		if _, err := ftsStmt.Exec(p.ID, p.Title, p.Authors, p.Source, strings.Join(p.Tags, " ")); err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(pubs), nil
}

// GetByID retrieves a publication by its ID. It returns nil, nil when absent.
func (d *DB) GetByID(id string) (*publication.Publication, error) {
	row := d.db.QueryRow(`SELECT `+selectPubFields+` FROM pubs WHERE id = ?`, id)
	return scanPublication(row)
}

// ListAll returns all publications newest first, optionally limited.
func (d *DB) ListAll(limit int) ([]publication.Publication, error) {
	query := `SELECT ` + selectPubFields + ` FROM pubs` + defaultOrder
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return d.queryPublications(query, args...)
}

// ListByType returns the publications of one type, newest first.
func (d *DB) ListByType(t publication.Type) ([]publication.Publication, error) {
	return d.queryPublications(`SELECT `+selectPubFields+` FROM pubs WHERE type = ?`+defaultOrder, string(t))
}

// Search performs a full-text search over title, authors, source and tags.
func (d *DB) Search(query string, limit int) ([]publication.Publication, error) {
	ftsQuery := prepareFTSQuery(query)
	if ftsQuery == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = -1
	}
	pubs, err := d.queryPublications(`
		SELECT `+selectPubFields+`
		FROM pubs
		WHERE id IN (SELECT id FROM pubs_fts WHERE pubs_fts MATCH ?)`+defaultOrder+`
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	return pubs, nil
}

// Count returns the total number of publications.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM pubs").Scan(&count)
	return count, err
}

// CountByType returns the number of publications per type.
func (d *DB) CountByType() (map[publication.Type]int, error) {
	rows, err := d.db.Query("SELECT type, COUNT(*) FROM pubs GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("counting by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[publication.Type]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[publication.Type(t)] = n
	}
	return counts, rows.Err()
}

func (d *DB) queryPublications(query string, args ...any) ([]publication.Publication, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying publications: %w", err)
	}
	defer rows.Close()
	return scanPublications(rows)
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPublication(s scanner) (*publication.Publication, error) {
	var p publication.Publication
	var typ, year string
	var source, details, status, doiLink, link, tagsJSON sql.NullString

	err := s.Scan(
		&p.ID, &typ, &p.Authors, &p.Title, &source, &year,
		&details, &status, &doiLink, &link, &tagsJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	p.Type = publication.Type(typ)
	p.Year = publication.Year(year)
	p.Source = source.String
	p.Details = details.String
	p.Status = status.String
	p.DOILink = doiLink.String
	p.Link = link.String

	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &p.Tags); err != nil {
			return nil, fmt.Errorf("parsing tags JSON for %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

func scanPublications(rows *sql.Rows) ([]publication.Publication, error) {
	var pubs []publication.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		if p != nil {
			pubs = append(pubs, *p)
		}
	}
	return pubs, rows.Err()
}

func nullableString(b []byte) sql.NullString {
	if len(b) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery quotes queries containing FTS5 operator characters so
// they are matched as a phrase.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}
	if strings.ContainsAny(query, "\"*+-:(){}[]^~&.,") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}
	return query
}
