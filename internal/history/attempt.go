package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// OutcomeOK marks an attempt that ended with a verified wireless connection.
const OutcomeOK = "ok"

// Attempt is one run of the wireless setup.
type Attempt struct {
	ID        int64
	Serial    string
	IP        string
	Outcome   string
	Detail    string
	CreatedAt time.Time
}

// Record stores an attempt. A zero CreatedAt is set to now.
func (h *DB) Record(a Attempt) (int64, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	res, err := h.db.Exec(
		`INSERT INTO attempts (serial, ip, outcome, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		a.Serial, a.IP, a.Outcome, a.Detail, a.CreatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("record attempt: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit attempts, newest first.
func (h *DB) Recent(limit int) ([]Attempt, error) {
	rows, err := h.db.Query(
		`SELECT id, serial, ip, outcome, detail, created_at
		 FROM attempts ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get recent: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.Serial, &a.IP, &a.Outcome, &a.Detail, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// LastIP returns the address of the most recent successful attempt for serial.
func (h *DB) LastIP(serial string) (string, bool, error) {
	var ip string
	err := h.db.QueryRow(
		`SELECT ip FROM attempts
		 WHERE serial = ? AND outcome = ? AND ip != ''
		 ORDER BY created_at DESC, id DESC LIMIT 1`,
		serial, OutcomeOK,
	).Scan(&ip)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("last ip: %w", err)
	}
	return ip, true, nil
}
