// Package ledger records reputation events and the population manifest of
// each run in SQLite. It is a read model; nothing is loaded back into a
// running game.
package ledger

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/Du4lity5151/DestinationSol/engine/populate"
	"github.com/Du4lity5151/DestinationSol/engine/reputation"
)

// Ledger wraps a SQLite connection.
type Ledger struct {
	conn   *sqlx.DB
	logger *slog.Logger
}

// Open opens or creates a ledger at the given path.
func Open(path string, logger *slog.Logger) (*Ledger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	l := &Ledger{conn: conn, logger: logger.With("component", "ledger")}
	if err := l.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate ledger: %w", err)
	}
	return l, nil
}

// Close closes the database connection.
func (l *Ledger) Close() error {
	return l.conn.Close()
}

func (l *Ledger) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		seed INTEGER NOT NULL,
		module TEXT NOT NULL,
		started_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS reputation_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		instigator TEXT NOT NULL,
		target TEXT NOT NULL,
		event TEXT NOT NULL,
		delta INTEGER NOT NULL,
		relation INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS spawns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		ship_id INTEGER NOT NULL,
		role TEXT NOT NULL,
		faction TEXT NOT NULL,
		hull TEXT NOT NULL,
		system TEXT NOT NULL,
		x REAL NOT NULL,
		y REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_reputation_run ON reputation_events(run_id);
	CREATE INDEX IF NOT EXISTS idx_spawns_run ON spawns(run_id);
	`
	_, err := l.conn.Exec(schema)
	return err
}

// StartRun registers a run and returns its recorder.
func (l *Ledger) StartRun(id string, seed int64, module string) (*Run, error) {
	_, err := l.conn.Exec(
		"INSERT INTO runs (id, seed, module, started_at) VALUES (?, ?, ?, ?)",
		id, seed, module, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("start run %s: %w", id, err)
	}
	l.logger.Info("run started", "run", id, "seed", seed, "module", module)
	return &Run{l: l, id: id}, nil
}

// Run records one run's rows.
type Run struct {
	l  *Ledger
	id string
}

// ID returns the run id.
func (r *Run) ID() string {
	return r.id
}

// RecordReputation appends an applied reputation report.
func (r *Run) RecordReputation(rep reputation.Report) error {
	_, err := r.l.conn.Exec(`INSERT INTO reputation_events
		(run_id, tick, instigator, target, event, delta, relation)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.id, rep.Tick, string(rep.Instigator), string(rep.Target), rep.Event, rep.Delta, rep.Relation,
	)
	if err != nil {
		return fmt.Errorf("insert reputation event: %w", err)
	}
	return nil
}

// RecordSpawn appends a spawned ship to the manifest.
func (r *Run) RecordSpawn(s populate.SpawnRecord) error {
	_, err := r.l.conn.Exec(`INSERT INTO spawns
		(run_id, ship_id, role, faction, hull, system, x, y)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.id, int(s.Ship), string(s.Role), string(s.Faction), string(s.Hull), s.System, s.Pos.X(), s.Pos.Y(),
	)
	if err != nil {
		return fmt.Errorf("insert spawn %d: %w", s.Ship, err)
	}
	return nil
}

// Entry is one reputation row.
type Entry struct {
	Tick       int64  `db:"tick"`
	Instigator string `db:"instigator"`
	Target     string `db:"target"`
	Event      string `db:"event"`
	Delta      int    `db:"delta"`
	Relation   int    `db:"relation"`
}

// History returns the most recent limit reputation rows of the run,
// newest first.
func (r *Run) History(limit int) ([]Entry, error) {
	var entries []Entry
	err := r.l.conn.Select(&entries,
		`SELECT tick, instigator, target, event, delta, relation
		FROM reputation_events WHERE run_id = ? ORDER BY id DESC LIMIT ?`,
		r.id, limit,
	)
	return entries, err
}

// RoleCount is a manifest tally.
type RoleCount struct {
	Role  string `db:"role"`
	Count int    `db:"n"`
}

// SpawnCounts tallies the run's manifest by role.
func (r *Run) SpawnCounts() ([]RoleCount, error) {
	var counts []RoleCount
	err := r.l.conn.Select(&counts,
		"SELECT role, COUNT(*) AS n FROM spawns WHERE run_id = ? GROUP BY role ORDER BY role",
		r.id,
	)
	return counts, err
}
