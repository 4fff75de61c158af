package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/seckatie/urlrota/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrStoreUnavailable wraps every failure to reach or query the database.
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrNotFound is returned when a lookup by id or name matches no row.
var ErrNotFound = errors.New("not found")

type DB struct {
	db             *sql.DB
	log            logger.Logger
	eventListeners map[EventKind][]EventListener
}

func NewSQLiteDB(path string, log logger.Logger) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, storeErr("failed to open database", err)
	}
	// One connection: keeps ":memory:" databases coherent and serializes
	// writes coming from the batch runner goroutine.
	db.SetMaxOpenConns(1)

	if log == nil {
		log = logger.Nop()
	}
	return &DB{
		db:             db,
		log:            log,
		eventListeners: make(map[EventKind][]EventListener),
	}, nil
}

func (db *DB) Migrate() error {
	_, err := db.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return storeErr("failed to create schema migrations table", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		migrations = append(migrations, entry.Name())
	}

	sort.Strings(migrations)

	for _, migration := range migrations {
		version := strings.TrimSuffix(migration, ".sql")

		var exists bool
		if err := db.db.QueryRow(`
		    SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = ?)
		`, version).Scan(&exists); err != nil {
			return storeErr("failed to check if migration has been applied", err)
		}
		if exists {
			db.log.Debug("migration already applied", logger.String("version", version))
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + migration)
		if err != nil {
			return fmt.Errorf("failed to read migration file: %w", err)
		}

		tx, err := db.db.Begin()
		if err != nil {
			return storeErr("failed to begin transaction", err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return storeErr("failed to apply migration "+version, err)
		}

		if _, err := tx.Exec(`
		    INSERT INTO schema_migrations (version) VALUES (?)
		`, version); err != nil {
			_ = tx.Rollback()
			return storeErr("failed to mark migration as applied", err)
		}

		if err := tx.Commit(); err != nil {
			return storeErr("failed to commit transaction", err)
		}

		db.log.Info("migration applied", logger.String("version", version))
	}

	return nil
}

func (db *DB) Close() error {
	return db.db.Close()
}

// storeErr tags err as a store failure while keeping it inspectable.
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}
