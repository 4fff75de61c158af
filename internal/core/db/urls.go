package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrInvalidURL is returned when a URL fails validation.
var ErrInvalidURL = errors.New("invalid URL")

// ErrInvalidWeight is returned when a weight update is not a positive integer.
var ErrInvalidWeight = errors.New("invalid weight")

// ValidateURL validates that a URL is acceptable for storing.
// It requires the URL to have http or https scheme and a non-empty host.
func ValidateURL(urlStr string) error {
	if urlStr == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidURL, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	return nil
}

// ------------------------------
// URL methods
// ------------------------------

const urlColumns = "id, url, domain, weight, page, created_at"

func scanURL(row interface{ Scan(...any) error }) (URLRecord, error) {
	var u URLRecord
	err := row.Scan(&u.ID, &u.URL, &u.Domain, &u.Weight, &u.Page, &u.CreatedAt)
	return u, err
}

func (db *DB) GetURL(id int64) (URLRecord, error) {
	u, err := scanURL(db.db.QueryRow("SELECT "+urlColumns+" FROM urls WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return URLRecord{}, fmt.Errorf("%w: url %d", ErrNotFound, id)
		}
		return URLRecord{}, storeErr("failed to get url", err)
	}
	return u, nil
}

// AddURL stores a URL under a domain and returns its ID.
//
// It validates the URL before inserting and returns ErrInvalidURL if validation fails.
// A weight <= 0 stores DefaultWeight. Adding a URL that already exists is not an
// error: the existing ID is returned with created == false and nothing changes.
// Emits a URLAddedEvent when a row is inserted.
func (db *DB) AddURL(rawURL, domain string, weight int) (id int64, created bool, err error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := ValidateURL(rawURL); err != nil {
		return 0, false, err
	}
	if weight <= 0 {
		weight = DefaultWeight
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	res, err := db.db.Exec(
		"INSERT INTO urls (url, domain, weight, created_at) VALUES (?, ?, ?, ?) ON CONFLICT(url) DO NOTHING",
		rawURL, domain, weight, createdAt,
	)
	if err != nil {
		return 0, false, storeErr("failed to add url", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, false, storeErr("failed to determine rows affected", err)
	}

	if affected == 0 {
		if err := db.db.QueryRow("SELECT id FROM urls WHERE url = ?", rawURL).Scan(&id); err != nil {
			return 0, false, storeErr("failed to look up existing url", err)
		}
		return id, false, nil
	}

	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, storeErr("failed to get last insert ID", err)
	}

	db.emit(URLAddedEvent{URL: URLRecord{
		ID:        id,
		URL:       rawURL,
		Domain:    domain,
		Weight:    weight,
		CreatedAt: createdAt,
	}})

	return id, true, nil
}

// ImportURLs inserts many URLs under one domain in a single transaction.
// Invalid URLs are skipped and reported; duplicates are counted, not errors.
func (db *DB) ImportURLs(urls []string, domain string, weight int) (ImportResult, error) {
	var res ImportResult
	if weight <= 0 {
		weight = DefaultWeight
	}

	tx, err := db.db.Begin()
	if err != nil {
		return res, storeErr("failed to begin transaction", err)
	}

	stmt, err := tx.Prepare("INSERT INTO urls (url, domain, weight, created_at) VALUES (?, ?, ?, ?) ON CONFLICT(url) DO NOTHING")
	if err != nil {
		_ = tx.Rollback()
		return res, storeErr("failed to prepare insert", err)
	}
	defer stmt.Close()

	createdAt := time.Now().UTC().Format(time.RFC3339)
	var added []URLRecord
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if err := ValidateURL(raw); err != nil {
			res.Invalid = append(res.Invalid, raw)
			continue
		}

		r, err := stmt.Exec(raw, domain, weight, createdAt)
		if err != nil {
			_ = tx.Rollback()
			return ImportResult{}, storeErr("failed to import url", err)
		}
		affected, err := r.RowsAffected()
		if err != nil {
			_ = tx.Rollback()
			return ImportResult{}, storeErr("failed to determine rows affected", err)
		}
		if affected == 0 {
			res.Duplicates++
			continue
		}
		id, err := r.LastInsertId()
		if err != nil {
			_ = tx.Rollback()
			return ImportResult{}, storeErr("failed to get last insert ID", err)
		}
		res.Inserted++
		added = append(added, URLRecord{ID: id, URL: raw, Domain: domain, Weight: weight, CreatedAt: createdAt})
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, storeErr("failed to commit import", err)
	}

	for _, u := range added {
		db.emit(URLAddedEvent{URL: u})
	}

	return res, nil
}

// ListCandidates returns every URL filed under domain, ordered by id.
// An empty domain returns all URLs.
func (db *DB) ListCandidates(domain string) ([]URLRecord, error) {
	query := "SELECT " + urlColumns + " FROM urls"
	args := []any{}
	if domain != "" {
		query += " WHERE domain = ?"
		args = append(args, domain)
	}
	query += " ORDER BY id ASC"

	rows, err := db.db.Query(query, args...)
	if err != nil {
		return nil, storeErr("failed to list urls", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			db.log.Warnf("failed to close rows: %v", err)
		}
	}()

	var out []URLRecord
	for rows.Next() {
		u, err := scanURL(rows)
		if err != nil {
			return nil, storeErr("failed to scan url", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to iterate urls", err)
	}
	return out, nil
}

// SetWeight changes the sampling weight of a URL. Weights must be positive.
func (db *DB) SetWeight(id int64, weight int) error {
	if weight <= 0 {
		return fmt.Errorf("%w: must be positive, got %d", ErrInvalidWeight, weight)
	}
	return db.updateURL("weight", id, weight)
}

// SetPage changes the grouping key used by the history report.
func (db *DB) SetPage(id int64, page int) error {
	return db.updateURL("page", id, page)
}

func (db *DB) updateURL(column string, id int64, value int) error {
	res, err := db.db.Exec("UPDATE urls SET "+column+" = ? WHERE id = ?", value, id)
	if err != nil {
		return storeErr("failed to update url "+column, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("failed to determine rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: url %d", ErrNotFound, id)
	}
	return nil
}

// DeleteURL removes a single URL. Its open history is kept.
// Emits a URLDeletedEvent after successful deletion.
func (db *DB) DeleteURL(id int64) error {
	res, err := db.db.Exec("DELETE FROM urls WHERE id = ?", id)
	if err != nil {
		return storeErr("failed to delete url", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("failed to determine rows affected", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: url %d", ErrNotFound, id)
	}

	db.emit(URLDeletedEvent{ID: id})
	return nil
}

// ClearURLs deletes every stored URL and returns how many were removed.
// Emits a URLsClearedEvent.
func (db *DB) ClearURLs() (int64, error) {
	res, err := db.db.Exec("DELETE FROM urls")
	if err != nil {
		return 0, storeErr("failed to clear urls", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("failed to determine rows affected", err)
	}

	db.emit(URLsClearedEvent{Count: n})
	return n, nil
}
