package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/flowdeck-labs/flowdeck/pkg/core"
)

// SaveTap registers a tap or updates its URL.
func (s *SQLiteStore) SaveTap(tap *core.Tap) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if tap.Name == "" {
		return fmt.Errorf("tap name is required")
	}

	addedAt := tap.AddedAt
	if addedAt.IsZero() {
		addedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(
		`INSERT INTO taps (name, url, added_at) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET url = excluded.url`,
		tap.Name, tap.URL, addedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save tap: %w", err)
	}
	return nil
}

// GetTap retrieves a tap by name. Returns nil, nil when not registered.
func (s *SQLiteStore) GetTap(name string) (*core.Tap, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	tap := &core.Tap{}
	err := s.db.QueryRow(
		`SELECT name, url, added_at FROM taps WHERE name = ?`, name,
	).Scan(&tap.Name, &tap.URL, &tap.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tap: %w", err)
	}
	return tap, nil
}

// ListTaps returns all registered taps ordered by name.
func (s *SQLiteStore) ListTaps() ([]*core.Tap, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(`SELECT name, url, added_at FROM taps ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list taps: %w", err)
	}
	defer rows.Close()

	var taps []*core.Tap
	for rows.Next() {
		tap := &core.Tap{}
		if err := rows.Scan(&tap.Name, &tap.URL, &tap.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tap: %w", err)
		}
		taps = append(taps, tap)
	}
	return taps, rows.Err()
}

// DeleteTap removes a tap registration.
func (s *SQLiteStore) DeleteTap(name string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	result, err := s.db.Exec(`DELETE FROM taps WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete tap: %w", err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("tap not found: %s", name)
	}
	return nil
}
