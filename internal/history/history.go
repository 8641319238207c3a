// Package history persists audit results in SQLite or Postgres.
package history

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"  // Postgres driver
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/auriti-labs/geo-optimizer/internal/audit"
	"github.com/auriti-labs/geo-optimizer/internal/logging"
)

//go:embed schema.sql
var schemaFS embed.FS

var ErrAuditNotFound = errors.New("audit not found")

// DefaultListLimit applies when List gets a non-positive limit.
const DefaultListLimit = 20

const (
	driverSQLite   = "sqlite"
	driverPostgres = "postgres"
)

// Store is an audit history backed by database/sql.
type Store struct {
	db     *sql.DB
	driver string
	logger logging.Logger
}

// Driver picks the database driver for dsn: postgres:// and postgresql://
// URLs use Postgres, anything else is a SQLite path or file: URI.
func Driver(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return driverPostgres
	}
	return driverSQLite
}

// Open connects to dsn and applies the schema. For SQLite paths the parent
// directory is created.
func Open(dsn string, logger logging.Logger) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("history: empty dsn")
	}
	if logger == nil {
		logger = logging.Nop()
	}
	driver := Driver(dsn)
	if driver == driverSQLite {
		dsn = strings.TrimPrefix(dsn, "sqlite://")
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == driverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}
	if err := applySchema(db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	logger = logger.With(logging.Field{Key: "component", Value: "history"})
	logger.Debug("history store opened", logging.Field{Key: "driver", Value: driver})
	return &Store{db: db, driver: driver, logger: logger}, nil
}

func applySchema(db *sql.DB, driver string) error {
	if driver == driverSQLite {
		pragmas := []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA synchronous=NORMAL",
			"PRAGMA busy_timeout=5000",
		}
		for _, pragma := range pragmas {
			if _, err := db.Exec(pragma); err != nil {
				return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
			}
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders as $1, $2... for Postgres.
func (s *Store) rebind(query string) string {
	if s.driver != driverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Save stores r, replacing any audit with the same ID. An empty ID is set
// to a new UUID and a zero Timestamp to now.
func (s *Store) Save(ctx context.Context, r *audit.AuditResult) error {
	if r == nil {
		return errors.New("history: nil audit result")
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode audit: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO audits (id, url, score, band, created_at, result)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			url = excluded.url,
			score = excluded.score,
			band = excluded.band,
			created_at = excluded.created_at,
			result = excluded.result
	`), r.ID, r.URL, r.Score, string(r.Band), r.Timestamp.UnixNano(), string(data))
	if err != nil {
		return fmt.Errorf("failed to insert audit: %w", err)
	}
	s.logger.Debug("audit saved",
		logging.Field{Key: "id", Value: r.ID},
		logging.Field{Key: "url", Value: r.URL},
		logging.Field{Key: "score", Value: r.Score})
	return nil
}

// Get returns the audit with id, or ErrAuditNotFound.
func (s *Store) Get(ctx context.Context, id string) (*audit.AuditResult, error) {
	var data string
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT result FROM audits WHERE id = ?`), id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrAuditNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query audit: %w", err)
	}
	return decode(data)
}

// List returns up to limit audits of url, newest first. An empty url lists
// every site.
func (s *Store) List(ctx context.Context, url string, limit int) ([]*audit.AuditResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT result FROM audits ORDER BY created_at DESC, id DESC LIMIT ?`
	args := []any{limit}
	if url != "" {
		query = `SELECT result FROM audits WHERE url = ? ORDER BY created_at DESC, id DESC LIMIT ?`
		args = []any{url, limit}
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audits: %w", err)
	}
	defer rows.Close()

	out := []*audit.AuditResult{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan audit: %w", err)
		}
		r, err := decode(data)
		if err != nil {
			s.logger.Warn("skipping undecodable audit", logging.Field{Key: "error", Value: err.Error()})
			continue
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audits: %w", err)
	}
	return out, nil
}

// Latest returns the newest audit of url, or ErrAuditNotFound.
func (s *Store) Latest(ctx context.Context, url string) (*audit.AuditResult, error) {
	list, err := s.List(ctx, url, 1)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: no audit for %s", ErrAuditNotFound, url)
	}
	return list[0], nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func decode(data string) (*audit.AuditResult, error) {
	var r audit.AuditResult
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("failed to decode audit: %w", err)
	}
	return &r, nil
}
