// Package journal provides a SQLite-backed query journal.
//
// Entries are recorded from the serving hot path, so Record never
// blocks: entries go through a buffered channel to a single writer
// goroutine, and are dropped when the buffer is full. Reads (Recent)
// query the database directly.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed schema.sql
var schemaSQL string

// defaultQueueSize bounds the number of entries waiting for the writer
// goroutine before Record starts dropping.
const defaultQueueSize = 1024

// Entry is one journaled query.
type Entry struct {
	Time       time.Time `json:"time"`
	QName      string    `json:"qname"`
	QType      uint16    `json:"qtype"`
	RCode      uint8     `json:"rcode"`
	Source     string    `json:"source"`
	Client     string    `json:"client"`
	DurationMs int64     `json:"duration_ms"`
}

// Journal is a SQLite-backed query log.
type Journal struct {
	conn   *sql.DB
	logger *slog.Logger

	ch   chan Entry
	wg   sync.WaitGroup
	once sync.Once
}

// Open opens or creates the journal database at the given path and
// starts the background writer. The caller must Close it.
func Open(path string, logger *slog.Logger) (*Journal, error) {
	// WAL keeps journal writes from stalling Recent queries.
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize journal schema: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	j := &Journal{
		conn:   conn,
		logger: logger,
		ch:     make(chan Entry, defaultQueueSize),
	}
	j.wg.Add(1)
	go j.writeLoop()
	return j, nil
}

// Record enqueues an entry for the background writer. It never blocks;
// when the queue is full the entry is dropped.
func (j *Journal) Record(e Entry) {
	select {
	case j.ch <- e:
	default:
	}
}

// writeLoop drains the entry queue into the database.
func (j *Journal) writeLoop() {
	defer j.wg.Done()
	for e := range j.ch {
		if err := j.insert(e); err != nil {
			j.logger.Warn("journal insert failed", "error", err)
		}
	}
}

func (j *Journal) insert(e Entry) error {
	_, err := j.conn.Exec(`
		INSERT INTO query_log (ts, qname, qtype, rcode, source, client, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.Time.UTC().Format(time.RFC3339Nano), e.QName, int(e.QType), int(e.RCode), e.Source, e.Client, e.DurationMs)
	return err
}

// Recent returns the most recent entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := j.conn.QueryContext(ctx, `
		SELECT ts, qname, qtype, rcode, source, client, duration_ms
		FROM query_log
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e     Entry
			ts    string
			qtype int
			rcode int
		)
		if err := rows.Scan(&ts, &e.QName, &qtype, &rcode, &e.Source, &e.Client, &e.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan journal row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.Time = t
		}
		e.QType = uint16(qtype)
		e.RCode = uint8(rcode)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than the retention window.
func (j *Journal) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention).Format(time.RFC3339Nano)
	res, err := j.conn.ExecContext(ctx, "DELETE FROM query_log WHERE ts < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune journal: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Health checks database connectivity.
func (j *Journal) Health() error {
	return j.conn.Ping()
}

// Close stops the writer after flushing queued entries and closes the
// database.
func (j *Journal) Close() error {
	j.once.Do(func() {
		close(j.ch)
	})
	j.wg.Wait()
	return j.conn.Close()
}
