package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/w-h-a/validated-content/storer"
)

func newTestStorer(t *testing.T) *sqliteStorer {
	t.Helper()

	s := NewStorer(storer.WithLocation(filepath.Join(t.TempDir(), "content.db"))).(*sqliteStorer)
	t.Cleanup(func() { s.conn.Close() })

	return s
}

func ptr(s string) *string { return &s }

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"validated_content", `"validated_content"`},
		{`we"ird`, `"we""ird"`},
		{`x"; DROP TABLE t; --`, `"x""; DROP TABLE t; --"`},
	}

	for _, tt := range tests {
		if got := quoteIdentifier(tt.in); got != tt.want {
			t.Errorf("quoteIdentifier(%q): got %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestStorer_QuotedTable(t *testing.T) {
	s := NewStorer(
		storer.WithLocation(filepath.Join(t.TempDir(), "content.db")),
		storer.WithTable(`odd"name`),
	).(*sqliteStorer)
	t.Cleanup(func() { s.conn.Close() })

	ctx := context.Background()

	id, err := s.Insert(ctx, storer.Record{
		Title:     "quoted",
		Topics:    []string{"go"},
		Validated: true,
		Date:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Embedding: []float32{1, 0, 0},
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	records, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(records) != 1 || records[0].Id != id {
		t.Fatalf("records: %+v", records)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestInsertAndListAll(t *testing.T) {
	s := newTestStorer(t)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, title := range []string{"first", "second", "third"} {
		rec := storer.Record{
			Title:     title,
			Topics:    []string{"t"},
			Validated: true,
			Date:      base.Add(time.Duration(i) * time.Second),
			Embedding: []float32{1, float32(i)},
		}
		if _, err := s.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert %s: %v", title, err)
		}
	}

	records, err := s.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len: %d", len(records))
	}
	if records[0].Title != "third" || records[2].Title != "first" {
		t.Errorf("order: %s .. %s", records[0].Title, records[2].Title)
	}
	if !records[0].Date.Equal(base.Add(2 * time.Second)) {
		t.Errorf("date round trip: %v", records[0].Date)
	}
	if records[0].Excerpt != nil || records[0].Similarity != nil {
		t.Errorf("unexpected optional fields: %+v", records[0])
	}
}

func TestDelete(t *testing.T) {
	s := newTestStorer(t)
	ctx := context.Background()

	id, err := s.Insert(ctx, storer.Record{Title: "x", Date: time.Now(), Embedding: []float32{1}})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, storer.ErrNotFound) {
		t.Fatalf("second Delete: got %v", err)
	}
}

func TestSearch(t *testing.T) {
	s := newTestStorer(t)
	ctx := context.Background()
	now := time.Now()

	rows := []storer.Record{
		{Title: "match", Topics: []string{"go"}, Source: ptr("blog"), Validated: true, Date: now, Embedding: []float32{1, 0, 0}},
		{Title: "unvalidated", Topics: []string{"go"}, Source: ptr("blog"), Validated: false, Date: now, Embedding: []float32{1, 0.1, 0}},
		{Title: "other topic", Topics: []string{"rust"}, Validated: true, Date: now, Embedding: []float32{1, 0.2, 0}},
		{Title: "far", Topics: []string{"go"}, Validated: true, Date: now, Embedding: []float32{0, 0, 1}},
	}
	for _, rec := range rows {
		if _, err := s.Insert(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Search(ctx, []float32{1, 0, 0}, storer.SearchParams{Threshold: 0.1, Limit: 5})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 3 || got[0].Title != "match" {
		t.Fatalf("unfiltered: %+v", got)
	}
	for i := 1; i < len(got); i++ {
		if *got[i].Similarity > *got[i-1].Similarity {
			t.Errorf("not ranked at %d", i)
		}
	}

	got, err = s.Search(ctx, []float32{1, 0, 0}, storer.SearchParams{
		Threshold:     0.1,
		Limit:         5,
		ValidatedOnly: true,
		Topics:        []string{"go"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Title != "match" {
		t.Fatalf("filtered: %+v", got)
	}
}
