package db

import (
	"time"
)

// InsertHistory records that urlID was opened with browserID at ts.
// Emits a HistoryRecordedEvent.
func (db *DB) InsertHistory(urlID, browserID int64, ts time.Time) error {
	openedAt := ts.UTC().Format(time.RFC3339)
	res, err := db.db.Exec(
		"INSERT INTO url_open_history (url_id, browser_id, opened_at) VALUES (?, ?, ?)",
		urlID, browserID, openedAt,
	)
	if err != nil {
		return storeErr("failed to insert open history", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storeErr("failed to get last insert ID", err)
	}

	db.emit(HistoryRecordedEvent{Entry: HistoryEntry{
		ID:        id,
		URLID:     urlID,
		BrowserID: browserID,
		OpenedAt:  openedAt,
	}})
	return nil
}

// ListHistory returns every open of urlID, oldest first.
func (db *DB) ListHistory(urlID int64) ([]HistoryEntry, error) {
	rows, err := db.db.Query(`
		SELECT id, url_id, browser_id, opened_at
		FROM url_open_history
		WHERE url_id = ?
		ORDER BY opened_at ASC, id ASC
	`, urlID)
	if err != nil {
		return nil, storeErr("failed to list open history", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.ID, &h.URLID, &h.BrowserID, &h.OpenedAt); err != nil {
			return nil, storeErr("failed to scan open history", err)
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to iterate open history", err)
	}
	return out, nil
}

// OpenHistorySummary aggregates opens per URL since the given time.
//
// Only URLs opened at least minOpens times are returned. Rows are ordered by
// the URL's page ascending, then by open count descending. An empty domain
// covers all domains; limit <= 0 means no limit.
func (db *DB) OpenHistorySummary(domain string, since time.Time, limit, minOpens int) ([]OpenCount, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.db.Query(`
		SELECT u.url, u.page, COUNT(h.id) AS opens
		FROM url_open_history h
		JOIN urls u ON h.url_id = u.id
		WHERE (? = '' OR u.domain = ?) AND h.opened_at >= ?
		GROUP BY u.id, u.url, u.page
		HAVING COUNT(h.id) >= ?
		ORDER BY u.page ASC, opens DESC, u.url ASC
		LIMIT ?
	`, domain, domain, since.UTC().Format(time.RFC3339), minOpens, limit)
	if err != nil {
		return nil, storeErr("failed to summarize open history", err)
	}
	defer rows.Close()

	var out []OpenCount
	for rows.Next() {
		var c OpenCount
		if err := rows.Scan(&c.URL, &c.Page, &c.Opens); err != nil {
			return nil, storeErr("failed to scan open history summary", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to iterate open history summary", err)
	}
	return out, nil
}
