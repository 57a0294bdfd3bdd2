// Package metrics records privacy-conscious visitor metrics in SQLite.
// Raw IP addresses never touch disk: each is hashed with a per-process salt
// before storage, and old rows are purged on a retention schedule.
package metrics

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS visits (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// Visit is one recorded page view.
type Visit struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats is the aggregate view over recorded visits.
type Stats struct {
	TotalVisits    int64   `json:"total_visits"`
	UniqueVisitors int64   `json:"unique_visitors"`
	VisitsToday    int64   `json:"visits_today"`
	VisitsThisWeek int64   `json:"visits_this_week"`
	Recent         []Visit `json:"recent"`
}

// Store wraps the visits database. Safe for concurrent use.
type Store struct {
	db   *sql.DB
	salt string
}

// Open opens (or creates) the visits database at dsn. Use ":memory:" in
// tests.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open metrics db: %w", err)
	}
	// A single writer keeps SQLite happy and makes ":memory:" share one
	// database across the pool.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create visits table: %w", err)
	}
	return &Store{db: db, salt: newSalt()}, nil
}

func newSalt() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatal("metrics: failed to generate hashing salt:", err)
	}
	return hex.EncodeToString(buf)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// HashIP hashes an IP with the per-process salt. Consistent within a process
// so unique-visitor counts work, useless for recovering the address.
func (s *Store) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// sqliteTime formats t the way SQLite's date functions expect. Binding a
// time.Time directly would store Go's String() form, which DATE() cannot
// parse and which leaks the monotonic clock reading to disk.
func sqliteTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// Record stores one visit.
func (s *Store) Record(ip, userAgent, path string) error {
	_, err := s.db.Exec(
		`INSERT INTO visits (hashed_ip, user_agent, path, timestamp) VALUES (?, ?, ?, ?)`,
		s.HashIP(ip), userAgent, path, sqliteTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// Stats aggregates the recorded visits.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM visits`).Scan(&stats.TotalVisits); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow(`SELECT COUNT(DISTINCT hashed_ip) FROM visits`).Scan(&stats.UniqueVisitors); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM visits WHERE DATE(timestamp) = DATE('now')`,
	).Scan(&stats.VisitsToday); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM visits WHERE timestamp >= datetime('now', '-7 days')`,
	).Scan(&stats.VisitsThisWeek); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, hashed_ip, user_agent, path, timestamp
		FROM visits ORDER BY timestamp DESC LIMIT 50`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &v.Timestamp); err != nil {
			log.Printf("error scanning visit row: %v", err)
			continue
		}
		stats.Recent = append(stats.Recent, v)
	}
	return stats, rows.Err()
}

// CleanupOld deletes visits older than the 12-month retention window and
// reports how many rows went away.
func (s *Store) CleanupOld() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM visits WHERE timestamp < datetime('now', '-12 months')`)
	if err != nil {
		return 0, fmt.Errorf("cleanup old visits: %w", err)
	}
	return res.RowsAffected()
}
