// Package cache memoizes computed distances by radicand in SQLite.
package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/shogo82148/osqrt"
)

//go:embed schema.sql
var schemaSQL string

// Entry is a memoized distance.
type Entry struct {
	Radicand  uint32
	Distance  osqrt.Word
	Digest    [sha256.Size]byte
	CreatedAt time.Time
}

// Cache is a SQLite backed distance memo.
type Cache struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// WithClock sets the clock used to stamp new entries.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// Open creates or opens the SQLite database at path.
func Open(path string, opts ...Option) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	c := &Cache{
		db:     db,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the database.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup returns the entry memoized for radicand.
// The second result is false when there is none.
func (c *Cache) Lookup(ctx context.Context, radicand uint32) (Entry, bool, error) {
	row := c.db.QueryRowContext(ctx,
		"SELECT radicand, distance, digest, created_at FROM distances WHERE radicand = ?",
		int64(radicand))
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		c.logger.DebugContext(ctx, "cache miss", slog.Uint64("radicand", uint64(radicand)))
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to look up radicand %d: %w", radicand, err)
	}
	c.logger.DebugContext(ctx, "cache hit", slog.Uint64("radicand", uint64(radicand)))
	return e, true, nil
}

// Put memoizes distance for radicand, replacing any previous entry.
func (c *Cache) Put(ctx context.Context, radicand uint32, distance osqrt.Word) (Entry, error) {
	e := Entry{
		Radicand:  radicand,
		Distance:  distance,
		Digest:    Digest(distance),
		CreatedAt: c.now().UTC().Truncate(time.Second),
	}
	_, err := c.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO distances (radicand, distance, digest, created_at) VALUES (?, ?, ?, ?)",
		int64(radicand), encodeWord(distance), e.Digest[:], e.CreatedAt.Unix())
	if err != nil {
		return Entry{}, fmt.Errorf("failed to store radicand %d: %w", radicand, err)
	}
	c.logger.DebugContext(ctx, "cache store",
		slog.Uint64("radicand", uint64(radicand)),
		slog.String("distance", fmt.Sprintf("%x", distance)))
	return e, nil
}

// Dump returns every entry ordered by radicand.
func (c *Cache) Dump(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT radicand, distance, digest, created_at FROM distances ORDER BY radicand")
	if err != nil {
		return nil, fmt.Errorf("failed to dump distances: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan distance: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to dump distances: %w", err)
	}
	return entries, nil
}

// Wipe deletes every entry and returns how many were deleted.
func (c *Cache) Wipe(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, "DELETE FROM distances")
	if err != nil {
		return 0, fmt.Errorf("failed to wipe distances: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to wipe distances: %w", err)
	}
	c.logger.DebugContext(ctx, "cache wiped", slog.Int64("rows", n))
	return n, nil
}

// Digest returns the SHA-256 digest of the stored encoding of distance.
func Digest(distance osqrt.Word) [sha256.Size]byte {
	return sha256.Sum256(encodeWord(distance))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var (
		radicand  int64
		distance  []byte
		digest    []byte
		createdAt int64
	)
	if err := s.Scan(&radicand, &distance, &digest, &createdAt); err != nil {
		return Entry{}, err
	}
	if len(distance) != 4 || len(digest) != sha256.Size {
		return Entry{}, fmt.Errorf("corrupt entry for radicand %d", radicand)
	}
	e := Entry{
		Radicand:  uint32(radicand),
		Distance:  osqrt.FromBits(binary.LittleEndian.Uint32(distance)),
		CreatedAt: time.Unix(createdAt, 0).UTC(),
	}
	copy(e.Digest[:], digest)
	return e, nil
}

func encodeWord(w osqrt.Word) []byte {
	return binary.LittleEndian.AppendUint32(nil, w.Bits())
}
