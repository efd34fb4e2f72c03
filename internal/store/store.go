package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const maxErrorMessageLen = 500

// Run-log statuses.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Store handles SQLite persistence of users and briefing run logs.
type Store struct {
	db *sql.DB
}

// User is a subscribed recipient of daily briefs. Created by seeding, read
// once per batch tick; only the credential columns are mutated by the batch.
type User struct {
	ID           string
	Email        string
	Timezone     string
	SendTime     string // "HH:MM:SS"
	IsActive     bool
	CalendarID   string
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
	CreatedAt    time.Time
}

// RunLogEntry records one batch run attempt for one user. Exactly one entry
// is appended per user per run attempt that reaches the logging point.
type RunLogEntry struct {
	ID           string
	UserID       string
	MeetingCount int
	Status       string
	ErrorMessage string
	SentAt       time.Time
}

// Open opens (creating if needed) the store at dbPath.
func Open(dbPath string) (*Store, error) {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrate creates the necessary tables
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			timezone TEXT NOT NULL DEFAULT 'Asia/Dubai',
			send_time TEXT NOT NULL DEFAULT '07:00:00',
			is_active INTEGER NOT NULL DEFAULT 1,
			calendar_id TEXT NOT NULL DEFAULT 'primary',
			google_access_token TEXT,
			google_refresh_token TEXT,
			google_token_expiry DATETIME,
			created_at DATETIME NOT NULL
		);

		CREATE TABLE IF NOT EXISTS briefing_logs (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			meeting_count INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error_message TEXT,
			sent_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id)
		);

		CREATE INDEX IF NOT EXISTS idx_briefing_logs_user ON briefing_logs(user_id, sent_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListActiveUsers returns all users with the active flag set.
func (s *Store) ListActiveUsers() ([]User, error) {
	rows, err := s.db.Query(`
		SELECT id, email, timezone, send_time, is_active, calendar_id,
		       COALESCE(google_access_token, ''), COALESCE(google_refresh_token, ''),
		       google_token_expiry, created_at
		FROM users WHERE is_active = 1 ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUser fetches one user by ID.
func (s *Store) GetUser(id string) (User, error) {
	row := s.db.QueryRow(`
		SELECT id, email, timezone, send_time, is_active, calendar_id,
		       COALESCE(google_access_token, ''), COALESCE(google_refresh_token, ''),
		       google_token_expiry, created_at
		FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return User{}, fmt.Errorf("user %s not found", id)
	}
	return u, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var (
		u       User
		active  int
		expiry  sql.NullTime
		created time.Time
	)
	err := row.Scan(&u.ID, &u.Email, &u.Timezone, &u.SendTime, &active,
		&u.CalendarID, &u.AccessToken, &u.RefreshToken, &expiry, &created)
	if err != nil {
		return User{}, err
	}
	u.IsActive = active != 0
	if expiry.Valid {
		u.TokenExpiry = expiry.Time
	}
	u.CreatedAt = created
	return u, nil
}

// UpsertUser inserts a user, or updates the mutable fields of an existing one
// matched by email. A missing ID is generated.
func (s *Store) UpsertUser(u User) (string, error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.CalendarID == "" {
		u.CalendarID = "primary"
	}
	_, err := s.db.Exec(`
		INSERT INTO users (id, email, timezone, send_time, is_active, calendar_id,
		                   google_access_token, google_refresh_token, google_token_expiry, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			timezone = excluded.timezone,
			send_time = excluded.send_time,
			is_active = excluded.is_active,
			calendar_id = excluded.calendar_id,
			google_refresh_token = excluded.google_refresh_token`,
		u.ID, u.Email, u.Timezone, u.SendTime, boolToInt(u.IsActive), u.CalendarID,
		nullString(u.AccessToken), nullString(u.RefreshToken), nullTime(u.TokenExpiry),
		time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("upsert user %s: %w", u.Email, err)
	}

	var id string
	if err := s.db.QueryRow(`SELECT id FROM users WHERE email = ?`, u.Email).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// UpdateUserCredentials persists a refreshed access token and its expiry.
func (s *Store) UpdateUserCredentials(id, accessToken string, expiry time.Time) error {
	res, err := s.db.Exec(`
		UPDATE users SET google_access_token = ?, google_token_expiry = ? WHERE id = ?`,
		accessToken, nullTime(expiry), id)
	if err != nil {
		return fmt.Errorf("update credentials for %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s not found", id)
	}
	return nil
}

// AppendRunLog inserts one run-log entry. The error message is truncated to
// 500 characters; a missing ID or timestamp is filled in.
func (s *Store) AppendRunLog(e RunLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.SentAt.IsZero() {
		e.SentAt = time.Now().UTC()
	}
	if len(e.ErrorMessage) > maxErrorMessageLen {
		e.ErrorMessage = e.ErrorMessage[:maxErrorMessageLen]
	}
	_, err := s.db.Exec(`
		INSERT INTO briefing_logs (id, user_id, meeting_count, status, error_message, sent_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.MeetingCount, e.Status, nullString(e.ErrorMessage), e.SentAt)
	if err != nil {
		return fmt.Errorf("append run log for %s: %w", e.UserID, err)
	}
	return nil
}

// RecentRunLogs returns the most recent run-log entries, newest first.
func (s *Store) RecentRunLogs(limit int) ([]RunLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, user_id, meeting_count, status, COALESCE(error_message, ''), sent_at
		FROM briefing_logs ORDER BY sent_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list run logs: %w", err)
	}
	defer rows.Close()

	var entries []RunLogEntry
	for rows.Next() {
		var e RunLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.MeetingCount, &e.Status, &e.ErrorMessage, &e.SentAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
