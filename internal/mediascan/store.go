package mediascan

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"net/url"
	"time"

	serr "fpick/internal/errors"
	"fpick/internal/log"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store persists the media index and the history of scans in SQLite
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// ScanRecord is one scan run
type ScanRecord struct {
	ID       string
	Root     string
	Started  time.Time
	Finished time.Time // zero while the scan runs
	Total    int
	OK       bool
}

// OpenStore opens or creates the store at path. An empty path keeps the
// store in memory.
func OpenStore(path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		dsn = storeDSN(path)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, serr.NewStoreError("failed to open media store", err)
	}
	// A :memory: database lives on a single connection
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, serr.NewStoreError("failed to initialize media store schema", err)
	}

	return &Store{
		db:     db,
		logger: log.LogWithFields(log.F("component", "mediastore"), log.F("path", path)),
	}, nil
}

// storeDSN builds the SQLite uri for a file, escaping the characters the
// uri syntax reserves
func storeDSN(path string) string {
	return "file:" + (&url.URL{Path: path}).EscapedPath() + "?_busy_timeout=5000"
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts or replaces the record of path
func (s *Store) Save(ctx context.Context, path string, media Media) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO media (path, mime, taken_at, camera, indexed_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			mime = excluded.mime,
			taken_at = excluded.taken_at,
			camera = excluded.camera,
			indexed_at = excluded.indexed_at`,
		path, media.MIME, nullTime(media.Taken), media.Camera, time.Now().UTC())
	if err != nil {
		return serr.NewStoreError("failed to save media "+path, err)
	}
	return nil
}

// Load returns the stored record of path
func (s *Store) Load(ctx context.Context, path string) (Media, bool, error) {
	var media Media
	var taken sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT mime, taken_at, camera FROM media WHERE path = ?`, path).
		Scan(&media.MIME, &taken, &media.Camera)
	if errors.Is(err, sql.ErrNoRows) {
		return Media{}, false, nil
	}
	if err != nil {
		return Media{}, false, serr.NewStoreError("failed to load media "+path, err)
	}
	if taken.Valid {
		media.Taken = taken.Time
	}
	return media, true, nil
}

// Paths lists the stored paths whose MIME type starts with prefix
func (s *Store) Paths(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path FROM media WHERE substr(mime, 1, ?) = ? ORDER BY path`, len(prefix), prefix)
	if err != nil {
		return nil, serr.NewStoreError("failed to query media", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, serr.NewStoreError("failed to read media row", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// BeginScan records the start of a scan of root and returns its id
func (s *Store) BeginScan(ctx context.Context, root string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scans (id, root, started_at) VALUES (?, ?, ?)`,
		id, root, time.Now().UTC())
	if err != nil {
		return "", serr.NewStoreError("failed to record scan", err)
	}
	s.logger.With(log.F("scan", id), log.F("root", root)).Debug("scan recorded")
	return id, nil
}

// FinishScan records the outcome of scan id
func (s *Store) FinishScan(ctx context.Context, id string, total int, ok bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE scans SET finished_at = ?, total = ?, ok = ? WHERE id = ?`,
		time.Now().UTC(), total, ok, id)
	if err != nil {
		return serr.NewStoreError("failed to finish scan", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return serr.NewStoreError("unknown scan "+id, nil)
	}
	return nil
}

// Scans returns the latest scans, newest first
func (s *Store) Scans(ctx context.Context, limit int) ([]ScanRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, root, started_at, finished_at, total, ok
		FROM scans ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, serr.NewStoreError("failed to query scans", err)
	}
	defer rows.Close()

	var out []ScanRecord
	for rows.Next() {
		var r ScanRecord
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Root, &r.Started, &finished, &r.Total, &r.OK); err != nil {
			return nil, serr.NewStoreError("failed to read scan row", err)
		}
		if finished.Valid {
			r.Finished = finished.Time
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// StoredIndex is a MimeIndex that also writes every record to a Store
type StoredIndex struct {
	*MimeIndex
	store *Store
}

// NewStoredIndex persists what index records into store
func NewStoredIndex(index *MimeIndex, store *Store) *StoredIndex {
	return &StoredIndex{MimeIndex: index, store: store}
}

// Index records path in memory and in the store
func (s *StoredIndex) Index(ctx context.Context, path string) (string, error) {
	indexed, media, err := s.record(ctx, path)
	if err != nil {
		return "", err
	}
	if err := s.store.Save(ctx, indexed, media); err != nil {
		return "", err
	}
	return fileURI(indexed), nil
}
