package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/w-h-a/validated-content/storer"
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
)

// dateLayout is fixed width so text ordering matches time ordering.
const dateLayout = "2006-01-02T15:04:05.000000000Z"

var DRIVER string

func init() {
	vec.Auto()

	driver, err := otelsql.Register(
		"sqlite3",
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
		otelsql.WithSystem(semconv.DBSystemSqlite),
	)
	if err != nil {
		detail := "failed to register sqlite storer with otel"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	DRIVER = driver
}

type sqliteStorer struct {
	options storer.Options
	conn    *sql.DB
	table   string
}

func (s *sqliteStorer) Insert(ctx context.Context, rec storer.Record) (string, error) {
	topics := rec.Topics
	if topics == nil {
		topics = []string{}
	}

	topicsJSON, err := json.Marshal(topics)
	if err != nil {
		return "", fmt.Errorf("marshal topics: %w", err)
	}

	blob, err := vec.SerializeFloat32(rec.Embedding)
	if err != nil {
		return "", fmt.Errorf("serialize embedding: %w", err)
	}

	id := uuid.New().String()

	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, excerpt, full_text, topics, source, url, validated, date, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.table)

	if _, err := s.conn.ExecContext(
		ctx,
		query,
		id,
		rec.Title,
		rec.Excerpt,
		rec.FullText,
		string(topicsJSON),
		rec.Source,
		rec.Url,
		rec.Validated,
		rec.Date.UTC().Format(dateLayout),
		blob,
	); err != nil {
		return "", err
	}

	return id, nil
}

func (s *sqliteStorer) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.table), id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if n == 0 {
		return storer.ErrNotFound
	}

	return nil
}

func (s *sqliteStorer) ListAll(ctx context.Context) ([]storer.Record, error) {
	query := fmt.Sprintf(`
		SELECT id, title, excerpt, full_text, topics, source, url, validated, date, NULL
		FROM %s
		ORDER BY date DESC
	`, s.table)

	rows, err := s.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	return scanRecords(rows)
}

func (s *sqliteStorer) Search(ctx context.Context, vector []float32, params storer.SearchParams) ([]storer.Record, error) {
	if params.Limit < 1 {
		return nil, nil
	}

	blob, err := vec.SerializeFloat32(vector)
	if err != nil {
		return nil, fmt.Errorf("serialize query: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, title, excerpt, full_text, topics, source, url, validated, date, similarity
		FROM (
			SELECT *, 1 - vec_distance_cosine(embedding, ?) AS similarity
			FROM %s
			WHERE embedding IS NOT NULL
		)
		WHERE similarity > ?
		ORDER BY similarity DESC
		LIMIT ?
	`, s.table)

	rows, err := s.conn.QueryContext(ctx, query, blob, params.Threshold, params.Limit)
	if err != nil {
		return nil, err
	}

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	return storer.Filter(records, params), nil
}

func (s *sqliteStorer) migrate(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id        TEXT PRIMARY KEY,
			title     TEXT NOT NULL,
			excerpt   TEXT,
			full_text TEXT,
			topics    TEXT NOT NULL DEFAULT '[]',
			source    TEXT,
			url       TEXT,
			validated INTEGER NOT NULL DEFAULT 1,
			date      TEXT NOT NULL,
			embedding BLOB
		)`, s.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s(date DESC)`, quoteIdentifier("idx_"+s.options.Table+"_date"), s.table),
	}

	for _, stmt := range stmts {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	return nil
}

// quoteIdentifier wraps name in double quotes, doubling any embedded quote.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func scanRecords(rows *sql.Rows) ([]storer.Record, error) {
	defer rows.Close()

	var records []storer.Record

	for rows.Next() {
		var rec storer.Record
		var topics, date string
		var score sql.NullFloat64

		if err := rows.Scan(
			&rec.Id,
			&rec.Title,
			&rec.Excerpt,
			&rec.FullText,
			&topics,
			&rec.Source,
			&rec.Url,
			&rec.Validated,
			&date,
			&score,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(topics), &rec.Topics); err != nil {
			rec.Topics = []string{}
		}

		if t, err := time.Parse(dateLayout, date); err == nil {
			rec.Date = t
		}

		if score.Valid {
			sim := score.Float64
			rec.Similarity = &sim
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	if len(options.Location) == 0 {
		panic("missing location for sqlite storer")
	}

	s := &sqliteStorer{
		options: options,
		table:   quoteIdentifier(options.Table),
	}

	if err := os.MkdirAll(filepath.Dir(options.Location), 0o755); err != nil {
		detail := "failed to create directory for sqlite storer"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", options.Location)

	conn, err := sql.Open(DRIVER, dsn)
	if err != nil {
		detail := "failed to open sqlite storer"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	// single writer
	conn.SetMaxOpenConns(1)

	s.conn = conn

	if err := s.migrate(options.Context); err != nil {
		detail := "failed to migrate sqlite storer"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	return s
}
