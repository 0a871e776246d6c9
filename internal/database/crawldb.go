package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/siteanalyzer/internal/model"
)

// FileName is the database file name inside the database directory.
const FileName = "siteanalyzer.db"

// timestampLayout has a fixed width so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// ErrNotFound is returned when a history entry does not exist.
var ErrNotFound = errors.New("history entry not found")

// CrawlDB stores the history of crawl results in SQLite.
type CrawlDB struct {
	db     *sql.DB
	dbPath string

	// now stamps rows whose result carries no crawl time.
	now func() time.Time
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
		now:    time.Now,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Path returns the database file path.
func (cdb *CrawlDB) Path() string {
	return cdb.dbPath
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

func (cdb *CrawlDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS crawl_results (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		host TEXT NOT NULL,
		success INTEGER NOT NULL,
		title TEXT,
		file_path TEXT,
		pages_crawled INTEGER DEFAULT 0,
		content_length INTEGER DEFAULT 0,
		error TEXT,
		timestamp TEXT NOT NULL,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_url ON crawl_results(url);
	CREATE INDEX IF NOT EXISTS idx_results_host ON crawl_results(host);
	CREATE INDEX IF NOT EXISTS idx_results_timestamp ON crawl_results(timestamp);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// HistoryEntry summarizes one stored crawl result.
type HistoryEntry struct {
	ID            string
	URL           string
	Host          string
	Success       bool
	Title         string
	FilePath      string
	PagesCrawled  int
	ContentLength int
	Error         string
	Timestamp     time.Time
}

// SaveResult stores result and returns its generated id.
func (cdb *CrawlDB) SaveResult(ctx context.Context, result model.CrawlResult) (string, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}

	ts := result.CrawledAt
	if ts.IsZero() {
		ts = cdb.now()
	}
	id := uuid.NewString()

	query := `
	INSERT INTO crawl_results (id, url, host, success, title, file_path, pages_crawled, content_length, error, timestamp, result_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = cdb.db.ExecContext(ctx, query,
		id,
		result.URL,
		hostOf(result.URL),
		result.Success,
		result.Title,
		result.PrimaryPath,
		result.PagesCrawled,
		result.ContentLength,
		result.Error,
		ts.UTC().Format(timestampLayout),
		string(resultJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save crawl result: %w", err)
	}

	return id, nil
}

// GetResult returns the full result stored under id, or ErrNotFound.
func (cdb *CrawlDB) GetResult(ctx context.Context, id string) (*model.CrawlResult, error) {
	var resultJSON string
	err := cdb.db.QueryRowContext(ctx, `SELECT result_json FROM crawl_results WHERE id = ?`, id).Scan(&resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl result: %w", err)
	}

	var result model.CrawlResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse crawl result: %w", err)
	}

	return &result, nil
}

// History returns entries newest first. An empty host lists every host.
// A limit of zero or less returns everything.
func (cdb *CrawlDB) History(ctx context.Context, host string, limit int) ([]HistoryEntry, error) {
	query := `
	SELECT id, url, host, success, title, file_path, pages_crawled, content_length, error, timestamp
	FROM crawl_results
	`
	var args []any
	if host != "" {
		query += " WHERE host = ?"
		args = append(args, strings.ToLower(host))
	}
	query += " ORDER BY timestamp DESC, rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var (
			e         HistoryEntry
			title     sql.NullString
			filePath  sql.NullString
			errText   sql.NullString
			timestamp string
		)
		if err := rows.Scan(&e.ID, &e.URL, &e.Host, &e.Success, &title, &filePath,
			&e.PagesCrawled, &e.ContentLength, &errText, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Title = title.String
		e.FilePath = filePath.String
		e.Error = errText.String
		e.Timestamp = parseTimestamp(timestamp)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Hosts returns every crawled host in alphabetical order.
func (cdb *CrawlDB) Hosts(ctx context.Context) ([]string, error) {
	rows, err := cdb.db.QueryContext(ctx, `SELECT DISTINCT host FROM crawl_results ORDER BY host`)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}
	defer rows.Close()

	var hosts []string
	for rows.Next() {
		var host string
		if err := rows.Scan(&host); err != nil {
			return nil, fmt.Errorf("failed to scan host: %w", err)
		}
		hosts = append(hosts, host)
	}

	return hosts, rows.Err()
}

// HasRecentCrawl reports whether url was crawled successfully within d.
func (cdb *CrawlDB) HasRecentCrawl(ctx context.Context, url string, d time.Duration) (bool, error) {
	since := cdb.now().Add(-d).UTC().Format(timestampLayout)

	var count int
	err := cdb.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM crawl_results WHERE url = ? AND success = 1 AND timestamp >= ?`,
		url, since,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check recent crawl: %w", err)
	}

	return count > 0, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// timestampFormats are tried in order when reading timestamps back.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
