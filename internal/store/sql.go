package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SAMeh-ZAGhloul/task-mgr/internal/models"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// documentID is the primary key of the only row in task_documents.
const documentID = 1

// SQLStore keeps the collection as a single JSON text row. It is shared by
// the SQLite and Postgres backends; only the placeholder syntax differs.
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// NewSQLite opens (or creates) a SQLite database at dbPath.
func NewSQLite(dbPath string) (*SQLStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite store: path required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return newSQLStore(db, "sqlite")
}

// NewPostgres connects to Postgres through the pgx stdlib driver.
func NewPostgres(dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres store: dsn required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return newSQLStore(db, "postgres")
}

func newSQLStore(db *sql.DB, dialect string) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: dialect}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// migrate runs idempotent schema migrations.
func (s *SQLStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS task_documents (
		id INTEGER PRIMARY KEY,
		body TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`
	_, err := s.db.Exec(schema)
	return err
}

// bind rewrites ? placeholders for dialects that number them.
func (s *SQLStore) bind(query string) string {
	if s.dialect != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ReadAll reads the document row; no row means an empty collection.
func (s *SQLStore) ReadAll(ctx context.Context) (models.Collection, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		s.bind(`SELECT body FROM task_documents WHERE id = ?`), documentID,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Collection{}, nil
	}
	if err != nil {
		return nil, ioErr("query document", err)
	}

	var tasks models.Collection
	if err := json.Unmarshal([]byte(body), &tasks); err != nil {
		return nil, ioErr("decode", err)
	}
	return normalize(tasks), nil
}

// WriteAll replaces the document row inside one transaction.
func (s *SQLStore) WriteAll(ctx context.Context, tasks models.Collection) error {
	b, err := json.Marshal(normalize(tasks))
	if err != nil {
		return ioErr("encode", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ioErr("begin", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.bind(`
		INSERT INTO task_documents (id, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`),
		documentID, string(b), time.Now().UTC(),
	)
	if err != nil {
		return ioErr("upsert document", err)
	}
	if err := tx.Commit(); err != nil {
		return ioErr("commit", err)
	}
	return nil
}

// Ping checks the database connection is alive.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
