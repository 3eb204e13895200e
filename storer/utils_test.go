package storer

import (
	"math"
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		a, b []string
		want bool
	}{
		{[]string{"a", "b"}, []string{"b"}, true},
		{[]string{"a"}, []string{"c", "d"}, false},
		{nil, []string{"a"}, false},
		{[]string{"a"}, nil, false},
	}

	for _, tt := range tests {
		if got := Overlaps(tt.a, tt.b); got != tt.want {
			t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMatch(t *testing.T) {
	src := "blog"
	rec := Record{Validated: false, Source: &src, Topics: []string{"x"}}

	if Match(rec, SearchParams{ValidatedOnly: true}) {
		t.Error("unvalidated record matched validated-only filter")
	}
	if !Match(rec, SearchParams{Source: "blog", Topics: []string{"x", "y"}}) {
		t.Error("expected source and topics match")
	}
	if Match(rec, SearchParams{Source: "other"}) {
		t.Error("source filter ignored")
	}
	if Match(Record{}, SearchParams{Source: "blog"}) {
		t.Error("nil source matched")
	}
}

func TestRank(t *testing.T) {
	records := []Record{
		{Title: "orthogonal", Embedding: []float32{0, 1}},
		{Title: "close", Embedding: []float32{1, 0.2}},
		{Title: "exact", Embedding: []float32{2, 0}},
	}

	got := Rank(records, []float32{1, 0}, 0.1, 5)
	if len(got) != 2 {
		t.Fatalf("len: got %d, want 2", len(got))
	}
	if got[0].Title != "exact" || got[1].Title != "close" {
		t.Errorf("order: got %s, %s", got[0].Title, got[1].Title)
	}
	if math.Abs(*got[0].Similarity-1) > 1e-9 {
		t.Errorf("similarity: got %v, want 1", *got[0].Similarity)
	}

	if got := Rank(records, []float32{1, 0}, 0.1, 0); got != nil {
		t.Errorf("zero limit: got %v", got)
	}
}

func TestSortByDateDesc(t *testing.T) {
	now := time.Now()
	records := []Record{
		{Title: "old", Date: now.Add(-time.Hour)},
		{Title: "new", Date: now},
		{Title: "mid", Date: now.Add(-time.Minute)},
	}

	SortByDateDesc(records)

	if records[0].Title != "new" || records[1].Title != "mid" || records[2].Title != "old" {
		t.Errorf("order: %s %s %s", records[0].Title, records[1].Title, records[2].Title)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if got := CosineSimilarity([]float32{1, 0}, []float32{0, 1}); got != 0 {
		t.Errorf("orthogonal: got %v", got)
	}
	if got := CosineSimilarity([]float32{1, 2}, []float32{1}); got != 0 {
		t.Errorf("length mismatch: got %v", got)
	}
	if got := CosineSimilarity([]float32{0, 0}, []float32{1, 1}); got != 0 {
		t.Errorf("zero vector: got %v", got)
	}
}
