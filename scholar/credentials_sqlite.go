package scholar

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const (
	credentialTable = "credentials"
	// credentialRowID pins the table to a single row.
	credentialRowID = 1
)

// SQLiteCredentialStore persists the credential in a SQLite database,
// the way a browser keeps it in local storage across sessions.
type SQLiteCredentialStore struct {
	conn   *sql.DB
	notify Notifier
	log    zerolog.Logger
}

// NewSQLiteCredentialStore opens (and creates if needed) the database at path.
func NewSQLiteCredentialStore(path string, notify Notifier) (*SQLiteCredentialStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("scholar: create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("scholar: open database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("scholar: execute %s: %w", pragma, err)
		}
	}

	_, err = conn.Exec(`CREATE TABLE IF NOT EXISTS ` + credentialTable + ` (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("scholar: create credential table: %w", err)
	}

	return &SQLiteCredentialStore{conn: conn, notify: notify, log: zerolog.Nop()}, nil
}

// setLogger is called by New so read failures land in the client's log.
func (s *SQLiteCredentialStore) setLogger(log zerolog.Logger) {
	s.log = log.With().Str("store", "sqlite").Logger()
}

// Close releases the database handle.
func (s *SQLiteCredentialStore) Close() error {
	return s.conn.Close()
}

func (s *SQLiteCredentialStore) HasCredential() bool {
	return s.GetCredential() != ""
}

func (s *SQLiteCredentialStore) GetCredential() string {
	token, err := s.load(context.Background())
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read credential")
		return ""
	}
	return token
}

func (s *SQLiteCredentialStore) load(ctx context.Context) (string, error) {
	query, args, err := sq.Select("token").
		From(credentialTable).
		Where(sq.Eq{"id": credentialRowID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build select: %w", err)
	}

	var token string
	err = s.conn.QueryRowContext(ctx, query, args...).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query credential: %w", err)
	}
	return token, nil
}

func (s *SQLiteCredentialStore) SetCredential(token string) error {
	token, err := normalizeCredential(token)
	if err != nil {
		return err
	}

	query, args, err := sq.Insert(credentialTable).
		Columns("id", "token", "updated_at").
		Values(credentialRowID, token, time.Now().UTC().Format(time.RFC3339)).
		Suffix("ON CONFLICT(id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("scholar: build upsert: %w", err)
	}
	if _, err := s.conn.ExecContext(context.Background(), query, args...); err != nil {
		return fmt.Errorf("scholar: upsert credential: %w", err)
	}

	s.notify.emit(Event{Type: EventCredentialSaved, Message: credentialSavedMessage})
	return nil
}
