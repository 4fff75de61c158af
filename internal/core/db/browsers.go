package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const browserColumns = "id, name, vpn_code, command, launcher"

func (db *DB) ListBrowsers() ([]Browser, error) {
	rows, err := db.db.Query("SELECT " + browserColumns + " FROM browsers ORDER BY name")
	if err != nil {
		return nil, storeErr("failed to list browsers", err)
	}
	defer rows.Close()

	var out []Browser
	for rows.Next() {
		var b Browser
		if err := rows.Scan(&b.ID, &b.Name, &b.VPNCode, &b.Command, &b.Launcher); err != nil {
			return nil, storeErr("failed to scan browser", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to iterate browsers", err)
	}
	return out, nil
}

func (db *DB) GetBrowserByName(name string) (Browser, error) {
	var b Browser
	err := db.db.QueryRow("SELECT "+browserColumns+" FROM browsers WHERE name = ?", name).
		Scan(&b.ID, &b.Name, &b.VPNCode, &b.Command, &b.Launcher)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Browser{}, fmt.Errorf("%w: browser %q", ErrNotFound, name)
		}
		return Browser{}, storeErr("failed to get browser", err)
	}
	return b, nil
}

// UpsertBrowser creates or replaces the profile with the same name and
// returns its ID. An empty Launcher means LauncherExec.
func (db *DB) UpsertBrowser(b Browser) (int64, error) {
	b.Name = strings.TrimSpace(b.Name)
	if b.Name == "" {
		return 0, fmt.Errorf("browser name must not be empty")
	}
	if b.Launcher == "" {
		b.Launcher = LauncherExec
	}
	switch b.Launcher {
	case LauncherExec:
		if b.Command == "" {
			return 0, fmt.Errorf("browser %q: command is required for the %s launcher", b.Name, LauncherExec)
		}
	case LauncherChromedp:
	default:
		return 0, fmt.Errorf("browser %q: unknown launcher %q", b.Name, b.Launcher)
	}

	if _, err := db.db.Exec(`
		INSERT INTO browsers (name, vpn_code, command, launcher) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			vpn_code = excluded.vpn_code,
			command = excluded.command,
			launcher = excluded.launcher
	`, b.Name, b.VPNCode, b.Command, b.Launcher); err != nil {
		return 0, storeErr("failed to save browser", err)
	}

	var id int64
	if err := db.db.QueryRow("SELECT id FROM browsers WHERE name = ?", b.Name).Scan(&id); err != nil {
		return 0, storeErr("failed to read browser id", err)
	}
	return id, nil
}
