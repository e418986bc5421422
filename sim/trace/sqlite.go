package trace

import (
	"database/sql"
	"fmt"

	// Pure-Go SQLite driver, registered as "sqlite".
	_ "github.com/glebarez/go-sqlite"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS placements (
	run_id TEXT, process TEXT, clock INTEGER, size INTEGER,
	first_cell INTEGER, spans INTEGER, after_defrag INTEGER)`,
	`CREATE TABLE IF NOT EXISTS evictions (
	run_id TEXT, process TEXT, clock INTEGER, size INTEGER, final INTEGER)`,
	`CREATE TABLE IF NOT EXISTS defrags (
	run_id TEXT, clock INTEGER, trigger_process TEXT, moved INTEGER,
	free_cells INTEGER, free_percent REAL)`,
	`CREATE TABLE IF NOT EXISTS halts (
	run_id TEXT, clock INTEGER, process TEXT, size INTEGER,
	free_cells INTEGER, reason TEXT)`,
	`CREATE TABLE IF NOT EXISTS runs (run_id TEXT PRIMARY KEY, strategy TEXT)`,
}

// SQLiteRecorder writes finished traces into a SQLite database, one row per
// record, keyed by the trace's run id. Several runs may share one file.
type SQLiteRecorder struct {
	*sql.DB
	path string
}

// OpenSQLiteRecorder opens (or creates) the database at path. An empty path
// picks a fresh "memsim_trace_<xid>.sqlite3" file in the working directory.
func OpenSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	if path == "" {
		path = "memsim_trace_" + xid.New().String() + ".sqlite3"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening trace database %s: %w", path, err)
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("creating trace schema in %s: %w", path, err)
		}
	}
	logrus.Infof("recording trace to %s", path)
	return &SQLiteRecorder{DB: db, path: path}, nil
}

// Path returns the database file name.
func (r *SQLiteRecorder) Path() string { return r.path }

// Write stores every record of st in a single transaction.
func (r *SQLiteRecorder) Write(st *SimulationTrace) (err error) {
	if st == nil {
		return nil
	}
	tx, err := r.Begin()
	if err != nil {
		return fmt.Errorf("beginning trace transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	if _, err = tx.Exec(`INSERT INTO runs (run_id, strategy) VALUES (?, ?)`, st.RunID, st.Config.Strategy); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	for _, p := range st.Placements {
		if _, err = tx.Exec(`INSERT INTO placements VALUES (?, ?, ?, ?, ?, ?, ?)`,
			st.RunID, p.Process, p.Clock, p.Size, p.Offset, p.Spans, p.AfterDefrag); err != nil {
			return fmt.Errorf("inserting placement: %w", err)
		}
	}
	for _, e := range st.Evictions {
		if _, err = tx.Exec(`INSERT INTO evictions VALUES (?, ?, ?, ?, ?)`,
			st.RunID, e.Process, e.Clock, e.Size, e.Final); err != nil {
			return fmt.Errorf("inserting eviction: %w", err)
		}
	}
	for _, d := range st.Defrags {
		if _, err = tx.Exec(`INSERT INTO defrags VALUES (?, ?, ?, ?, ?, ?)`,
			st.RunID, d.Clock, d.Trigger, d.Moved, d.FreeCells, d.FreePercent); err != nil {
			return fmt.Errorf("inserting defrag: %w", err)
		}
	}
	for _, h := range st.Halts {
		if _, err = tx.Exec(`INSERT INTO halts VALUES (?, ?, ?, ?, ?, ?)`,
			st.RunID, h.Clock, h.Process, h.Size, h.FreeCells, h.Reason); err != nil {
			return fmt.Errorf("inserting halt: %w", err)
		}
	}
	return nil
}
