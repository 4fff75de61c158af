package db

import (
	"fmt"
	"strings"
)

// ListDomains returns the known domain names and the default one ("" when none
// is flagged). Domains only referenced by stored URLs are included too.
func (db *DB) ListDomains() ([]string, string, error) {
	rows, err := db.db.Query(`
		SELECT name, is_default FROM domains
		UNION
		SELECT DISTINCT domain, 0 FROM urls
		WHERE domain != '' AND domain NOT IN (SELECT name FROM domains)
		ORDER BY 1
	`)
	if err != nil {
		return nil, "", storeErr("failed to list domains", err)
	}
	defer rows.Close()

	var (
		names      []string
		defaultDom string
	)
	for rows.Next() {
		var d Domain
		if err := rows.Scan(&d.Name, &d.IsDefault); err != nil {
			return nil, "", storeErr("failed to scan domain", err)
		}
		names = append(names, d.Name)
		if d.IsDefault {
			defaultDom = d.Name
		}
	}
	if err := rows.Err(); err != nil {
		return nil, "", storeErr("failed to iterate domains", err)
	}
	return names, defaultDom, nil
}

// AddDomain registers a domain. Marking it default clears any previous
// default; re-adding an existing domain never removes its default flag.
func (db *DB) AddDomain(name string, isDefault bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("domain name must not be empty")
	}

	tx, err := db.db.Begin()
	if err != nil {
		return storeErr("failed to begin transaction", err)
	}

	if isDefault {
		if _, err := tx.Exec("UPDATE domains SET is_default = 0 WHERE name != ?", name); err != nil {
			_ = tx.Rollback()
			return storeErr("failed to reset default domain", err)
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO domains (name, is_default) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET
			is_default = CASE WHEN excluded.is_default = 1 THEN 1 ELSE domains.is_default END
	`, name, isDefault); err != nil {
		_ = tx.Rollback()
		return storeErr("failed to add domain", err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("failed to commit domain", err)
	}
	return nil
}
