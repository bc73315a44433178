package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"github.com/thithuypham/folio/internal/catalog"
	"github.com/thithuypham/folio/internal/publication"
)

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// pubColumns is the standard column list for SELECT queries.
var pubColumns = []string{
	"id", "title", "authors_json", "venue", "venue_short",
	"year", "type", "pages", "volume", "publisher", "organization",
	"month", "status", "doi", "links_json",
}

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

// createSchema creates the database schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- position keeps the catalog's original order
		CREATE TABLE IF NOT EXISTS publications (
			position INTEGER NOT NULL,
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			authors_json TEXT NOT NULL,
			venue TEXT NOT NULL,
			venue_short TEXT,
			year TEXT NOT NULL,
			year_num INTEGER NOT NULL,
			type TEXT NOT NULL,
			pages TEXT,
			volume TEXT,
			publisher TEXT,
			organization TEXT,
			month TEXT,
			status TEXT,
			doi TEXT,
			links_json TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_publications_year ON publications(year);
		CREATE INDEX IF NOT EXISTS idx_publications_type ON publications(type);
		CREATE INDEX IF NOT EXISTS idx_publications_doi ON publications(doi) WHERE doi IS NOT NULL AND doi != '';

		-- Full-text search virtual table (standalone, not external content)
		CREATE VIRTUAL TABLE IF NOT EXISTS publications_fts USING fts5(
			id,
			title,
			authors_text,
			venue,
			year
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL file.
// The catalog is validated first, so the query layer never holds records
// that would fail to load.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	coll, err := LoadCollection(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("loading catalog: %w", err)
	}
	pubs := coll.All()

	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM publications"); err != nil {
		return 0, fmt.Errorf("clearing publications table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM publications_fts"); err != nil {
		return 0, fmt.Errorf("clearing publications_fts table: %w", err)
	}

	pubStmt, err := tx.Prepare(`
		INSERT INTO publications (
			position, id, title, authors_json, venue, venue_short,
			year, year_num, type, pages, volume, publisher, organization,
			month, status, doi, links_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing publications insert: %w", err)
	}
	defer pubStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO publications_fts (id, title, authors_text, venue, year)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for i, p := range pubs {
		authorsJSON, err := json.Marshal(p.Authors)
		if err != nil {
			return 0, fmt.Errorf("marshaling authors for %s: %w", p.ID, err)
		}
		var linksJSON []byte
		if len(p.Links) > 0 {
			linksJSON, err = json.Marshal(p.Links)
			if err != nil {
				return 0, fmt.Errorf("marshaling links for %s: %w", p.ID, err)
			}
		}

		_, err = pubStmt.Exec(
			i, p.ID, p.Title, string(authorsJSON), p.Venue, nullableStringValue(p.VenueShort),
			p.Year, p.YearNumber(), p.Type,
			nullableStringValue(p.Pages), nullableStringValue(p.Volume),
			nullableStringValue(p.Publisher), nullableStringValue(p.Organization),
			nullableStringValue(p.Month), nullableStringValue(p.Status),
			nullableStringValue(p.DOI), nullableString(linksJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting publication %s: %w", p.ID, err)
		}

		venues := strings.TrimSpace(p.Venue + " " + p.VenueShort)
		if _, err := ftsStmt.Exec(p.ID, p.Title, strings.Join(p.Authors, ", "), venues, p.Year); err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(pubs), nil
}

// GetByID retrieves a publication by its ID.
// Returns nil, nil when no publication has that ID.
func (d *DB) GetByID(id string) (*publication.Publication, error) {
	query, args, err := sq.Select(pubColumns...).
		From("publications").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	return scanPublication(d.db.QueryRow(query, args...))
}

// QueryFilters contains optional filters for Query.
// Year and Type take the same values as the catalog filter, including
// catalog.All; empty means unfiltered too.
type QueryFilters struct {
	Keyword string // FTS5 search across id, title, authors, venue, year
	Author  string // Prefix match on author names (FTS)
	Year    string // Exact year
	Type    string // Exact type
	Venue   string // Substring of venue or short venue (SQL LIKE, case-insensitive)
	DOI     string // Exact DOI match
	Limit   int    // 0 means no limit
}

// Query returns publications matching ALL specified criteria, newest year
// first and in catalog order within a year, the same order a grouped view
// shows them in.
func (d *DB) Query(f QueryFilters) ([]publication.Publication, error) {
	var ftsTerms []string
	if kw := prepareFTSQuery(f.Keyword); kw != "" {
		ftsTerms = append(ftsTerms, kw)
	}
	if author := prepareAuthorQuery(f.Author); author != "" {
		ftsTerms = append(ftsTerms, "authors_text:"+author)
	}

	q := sq.Select(pubColumns...).
		From("publications").
		OrderBy("year_num DESC", "position")

	if len(ftsTerms) > 0 {
		q = q.Where("id IN (SELECT id FROM publications_fts WHERE publications_fts MATCH ?)",
			strings.Join(ftsTerms, " AND "))
	}
	if f.Year != "" && f.Year != catalog.All {
		q = q.Where(sq.Eq{"year": f.Year})
	}
	if f.Type != "" && f.Type != catalog.All {
		q = q.Where(sq.Eq{"type": f.Type})
	}
	if venue := strings.TrimSpace(f.Venue); venue != "" {
		pattern := "%" + escapeLike(venue) + "%"
		q = q.Where(sq.Or{
			sq.Expr(`venue LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`venue_short LIKE ? ESCAPE '\'`, pattern),
		})
	}
	if f.DOI != "" {
		q = q.Where("doi = ? COLLATE NOCASE", f.DOI)
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying publications: %w", err)
	}
	defer rows.Close()

	return scanPublications(rows)
}

// ListAll returns all publications in catalog order, optionally limited.
func (d *DB) ListAll(limit int) ([]publication.Publication, error) {
	q := sq.Select(pubColumns...).From("publications").OrderBy("position")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing publications: %w", err)
	}
	defer rows.Close()

	return scanPublications(rows)
}

// Count returns the total number of publications.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM publications").Scan(&count)
	return count, err
}

// CountByType returns publication counts keyed by type.
func (d *DB) CountByType() (map[string]int, error) {
	query, args, err := sq.Select("type", "COUNT(*)").
		From("publications").
		GroupBy("type").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("counting by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		counts[typ] = n
	}
	return counts, rows.Err()
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPublication(s scanner) (*publication.Publication, error) {
	var p publication.Publication
	var authorsJSON string
	var venueShort, pages, volume, publisher, organization sql.NullString
	var month, status, doi, linksJSON sql.NullString

	err := s.Scan(
		&p.ID, &p.Title, &authorsJSON, &p.Venue, &venueShort,
		&p.Year, &p.Type, &pages, &volume, &publisher, &organization,
		&month, &status, &doi, &linksJSON,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	p.VenueShort = venueShort.String
	p.Pages = pages.String
	p.Volume = volume.String
	p.Publisher = publisher.String
	p.Organization = organization.String
	p.Month = month.String
	p.Status = status.String
	p.DOI = doi.String

	if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors JSON for %s: %w", p.ID, err)
	}
	if linksJSON.Valid && linksJSON.String != "" {
		if err := json.Unmarshal([]byte(linksJSON.String), &p.Links); err != nil {
			return nil, fmt.Errorf("parsing links JSON for %s: %w", p.ID, err)
		}
	}

	return &p, nil
}

func scanPublications(rows *sql.Rows) ([]publication.Publication, error) {
	pubs := []publication.Publication{}
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

// prepareFTSQuery quotes each term for FTS5, so punctuation in a term is
// matched literally instead of parsed as query syntax. Terms are ANDed.
func prepareFTSQuery(query string) string {
	parts := strings.Fields(query)
	if len(parts) == 0 {
		return ""
	}

	terms := make([]string, len(parts))
	for i, part := range parts {
		terms[i] = "\"" + strings.ReplaceAll(part, "\"", "\"\"") + "\""
	}
	return strings.Join(terms, " ")
}

// escapeLike makes % and _ match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// prepareAuthorQuery prepares an author name for FTS5 search with prefix matching,
// so "Thu" matches "Thuy".
func prepareAuthorQuery(author string) string {
	parts := strings.Fields(author)
	if len(parts) == 0 {
		return ""
	}

	var terms []string
	for _, part := range parts {
		escaped := strings.ReplaceAll(part, "\"", "\"\"")
		terms = append(terms, "\""+escaped+"\"*")
	}

	// All parts must match
	return "(" + strings.Join(terms, " AND ") + ")"
}
