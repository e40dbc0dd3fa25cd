// Package store provides a SQLite-backed cache for dashboards and pending
// captcha logins.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

var ErrNotFound = errors.New("not found")

// Cache provides SQLite-backed caching keyed by session and login id.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db, now: time.Now}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SaveDashboard stores the encoded dashboard of a session.
func (c *Cache) SaveDashboard(sessionID string, payload []byte) error {
	_, err := c.db.Exec(`INSERT OR REPLACE INTO dashboards (session_id, payload, fetched_at) VALUES (?, ?, ?)`,
		sessionID, string(payload), c.now().UnixNano())
	if err != nil {
		return fmt.Errorf("saving dashboard: %w", err)
	}
	return nil
}

// Dashboard returns a cached dashboard no older than maxAge.
func (c *Cache) Dashboard(sessionID string, maxAge time.Duration) ([]byte, error) {
	var payload string
	var fetchedAt int64
	err := c.db.QueryRow(`SELECT payload, fetched_at FROM dashboards WHERE session_id = ?`, sessionID).
		Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading dashboard: %w", err)
	}
	if c.now().Sub(time.Unix(0, fetchedAt)) > maxAge {
		return nil, ErrNotFound
	}
	return []byte(payload), nil
}

// DeleteDashboard forgets a session's dashboard.
func (c *Cache) DeleteDashboard(sessionID string) error {
	if _, err := c.db.Exec(`DELETE FROM dashboards WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("deleting dashboard: %w", err)
	}
	return nil
}

// LoginAttempt is the server side half of a captcha login.
type LoginAttempt struct {
	ID     string
	Cookie string
	Action string
	Fields map[string]string
}

func (c *Cache) SaveLoginAttempt(a LoginAttempt) error {
	fields, err := json.Marshal(a.Fields)
	if err != nil {
		return fmt.Errorf("encoding login fields: %w", err)
	}
	_, err = c.db.Exec(`INSERT OR REPLACE INTO login_attempts (login_id, cookie, action, fields, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.ID, a.Cookie, a.Action, string(fields), c.now().UnixNano())
	if err != nil {
		return fmt.Errorf("saving login attempt: %w", err)
	}
	return nil
}

// TakeLoginAttempt returns and removes a login attempt. Attempts older than
// maxAge are reported as missing.
func (c *Cache) TakeLoginAttempt(id string, maxAge time.Duration) (LoginAttempt, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return LoginAttempt{}, err
	}
	defer func() { _ = tx.Rollback() }()

	a := LoginAttempt{ID: id}
	var fields string
	var createdAt int64
	err = tx.QueryRow(`SELECT cookie, action, fields, created_at FROM login_attempts WHERE login_id = ?`, id).
		Scan(&a.Cookie, &a.Action, &fields, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return LoginAttempt{}, ErrNotFound
	}
	if err != nil {
		return LoginAttempt{}, fmt.Errorf("reading login attempt: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM login_attempts WHERE login_id = ?`, id); err != nil {
		return LoginAttempt{}, fmt.Errorf("deleting login attempt: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return LoginAttempt{}, err
	}

	if c.now().Sub(time.Unix(0, createdAt)) > maxAge {
		return LoginAttempt{}, ErrNotFound
	}
	if err := json.Unmarshal([]byte(fields), &a.Fields); err != nil {
		return LoginAttempt{}, fmt.Errorf("decoding login fields: %w", err)
	}
	return a, nil
}

// Purge drops dashboards and login attempts older than their TTLs and
// returns how many rows were removed.
func (c *Cache) Purge(dashboardTTL, loginTTL time.Duration) (int64, error) {
	now := c.now()
	var total int64

	res, err := c.db.Exec(`DELETE FROM dashboards WHERE fetched_at < ?`, now.Add(-dashboardTTL).UnixNano())
	if err != nil {
		return 0, fmt.Errorf("purging dashboards: %w", err)
	}
	n, _ := res.RowsAffected()
	total += n

	res, err = c.db.Exec(`DELETE FROM login_attempts WHERE created_at < ?`, now.Add(-loginTTL).UnixNano())
	if err != nil {
		return total, fmt.Errorf("purging login attempts: %w", err)
	}
	n, _ = res.RowsAffected()
	return total + n, nil
}
