// Package storage provides SQLite-based persistence for simulation
// session records. Uses the pure-Go modernc.org/sqlite driver to avoid
// CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for session persistence.
type Store struct {
	db *sql.DB
}

// SessionRecord is one recorded simulation run.
type SessionRecord struct {
	ID            int64
	Density       string
	Seed          int64
	Ticks         int64
	SimSeconds    float64
	Spawned       int64
	Exited        int64
	CapacitySkips int64
	AvgSpeed      float64
	CreatedAt     time.Time

	// VehicleCounts maps vehicle type name to its live count at the end
	// of the run.
	VehicleCounts map[string]int
}

// DensityStats contains aggregated statistics for one density level.
type DensityStats struct {
	Density      string
	SessionCount int
	TotalSpawned int64
	AvgSpeed     float64
	LastRun      time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			density TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			ticks INTEGER NOT NULL,
			sim_seconds REAL NOT NULL,
			spawned INTEGER NOT NULL DEFAULT 0,
			exited INTEGER NOT NULL DEFAULT 0,
			capacity_skips INTEGER NOT NULL DEFAULT 0,
			avg_speed REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_density ON sessions(density);
		CREATE INDEX IF NOT EXISTS idx_sessions_recent ON sessions(created_at DESC);

		CREATE TABLE IF NOT EXISTS session_counts (
			session_id INTEGER NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			vehicle_type TEXT NOT NULL,
			count INTEGER NOT NULL,
			PRIMARY KEY (session_id, vehicle_type)
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records a completed run together with its per-type counts.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO sessions
		 (density, seed, ticks, sim_seconds, spawned, exited, capacity_skips, avg_speed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Density,
		rec.Seed,
		rec.Ticks,
		rec.SimSeconds,
		rec.Spawned,
		rec.Exited,
		rec.CapacitySkips,
		rec.AvgSpeed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	for vt, count := range rec.VehicleCounts {
		if count == 0 {
			continue
		}
		if _, err := tx.Exec(
			"INSERT INTO session_counts (session_id, vehicle_type, count) VALUES (?, ?, ?)",
			id, vt, count,
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save vehicle count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit session: %w", err)
	}

	return id, nil
}

// RecentSessions retrieves the most recent session records, newest first.
func (s *Store) RecentSessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, density, seed, ticks, sim_seconds, spawned, exited, capacity_skips, avg_speed, created_at
		 FROM sessions
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	for i := range records {
		counts, err := s.vehicleCounts(records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].VehicleCounts = counts
	}

	return records, nil
}

// SessionByID retrieves a single session record, or nil if absent.
func (s *Store) SessionByID(id int64) (*SessionRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, density, seed, ticks, sim_seconds, spawned, exited, capacity_skips, avg_speed, created_at
		 FROM sessions
		 WHERE id = ?`,
		id,
	)

	rec, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	counts, err := s.vehicleCounts(rec.ID)
	if err != nil {
		return nil, err
	}
	rec.VehicleCounts = counts
	return &rec, nil
}

// ClearSessions deletes every recorded session.
func (s *Store) ClearSessions() error {
	if _, err := s.db.Exec("DELETE FROM session_counts"); err != nil {
		return fmt.Errorf("storage: cannot clear vehicle counts: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// StatsByDensity retrieves aggregated statistics grouped by density level.
func (s *Store) StatsByDensity() (map[string]*DensityStats, error) {
	rows, err := s.db.Query(
		`SELECT density, COUNT(*), COALESCE(SUM(spawned), 0), COALESCE(AVG(avg_speed), 0), MAX(created_at)
		 FROM sessions
		 GROUP BY density`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get density stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*DensityStats)
	for rows.Next() {
		var d DensityStats
		var lastRun any
		if err := rows.Scan(&d.Density, &d.SessionCount, &d.TotalSpawned, &d.AvgSpeed, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		d.LastRun = parseTimestamp(lastRun)
		stats[d.Density] = &d
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// vehicleCounts loads the per-type counts of one session.
func (s *Store) vehicleCounts(sessionID int64) (map[string]int, error) {
	rows, err := s.db.Query(
		"SELECT vehicle_type, count FROM session_counts WHERE session_id = ?",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query vehicle counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var vt string
		var count int
		if err := rows.Scan(&vt, &count); err != nil {
			return nil, fmt.Errorf("storage: cannot scan count row: %w", err)
		}
		counts[vt] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return counts, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (SessionRecord, error) {
	var rec SessionRecord
	var createdAt any
	if err := row.Scan(
		&rec.ID,
		&rec.Density,
		&rec.Seed,
		&rec.Ticks,
		&rec.SimSeconds,
		&rec.Spawned,
		&rec.Exited,
		&rec.CapacitySkips,
		&rec.AvgSpeed,
		&createdAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return rec, err
		}
		return rec, fmt.Errorf("storage: cannot scan session row: %w", err)
	}
	rec.CreatedAt = parseTimestamp(createdAt)
	return rec, nil
}

// parseTimestamp handles both time.Time and string values from the driver.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
