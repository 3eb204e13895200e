package content

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/w-h-a/validated-content/storer"
)

func TestFormatResult_Defaults(t *testing.T) {
	res := FormatResult(storer.Record{Id: "1", Title: "t", Embedding: []float32{1, 2}})

	raw, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatal(err)
	}

	for _, key := range []string{"id", "title", "excerpt", "full_text", "topics", "source", "url", "date", "validated"} {
		if _, ok := out[key]; !ok {
			t.Errorf("missing key %q in %s", key, raw)
		}
	}
	for _, key := range []string{"excerpt", "full_text", "source", "url", "date"} {
		if out[key] != nil {
			t.Errorf("%s: got %v, want null", key, out[key])
		}
	}
	if topics, ok := out["topics"].([]any); !ok || len(topics) != 0 {
		t.Errorf("topics: got %v, want []", out["topics"])
	}
	if out["validated"] != false {
		t.Errorf("validated: got %v", out["validated"])
	}
	if _, ok := out["embedding"]; ok {
		t.Error("embedding leaked into output")
	}
	if _, ok := out["similarity_score"]; ok {
		t.Error("similarity_score present outside search")
	}
}

func TestFormatResult_Values(t *testing.T) {
	excerpt := "short"
	date := time.Date(2025, 2, 3, 4, 5, 6, 789000000, time.UTC)

	res := FormatResult(storer.Record{
		Id:        "1",
		Title:     "t",
		Excerpt:   &excerpt,
		Topics:    []string{"a", "b"},
		Validated: true,
		Date:      date,
	})

	if res.Excerpt == nil || *res.Excerpt != "short" {
		t.Errorf("excerpt: %v", res.Excerpt)
	}
	if res.Date == nil || *res.Date != "2025-02-03T04:05:06.789Z" {
		t.Errorf("date: %v", res.Date)
	}
	if !res.Validated || len(res.Topics) != 2 {
		t.Errorf("result: %+v", res)
	}
}

func TestFormatSearchResult_Score(t *testing.T) {
	res := FormatSearchResult(storer.Record{Id: "1"})
	if res.SimilarityScore == nil || *res.SimilarityScore != 0 {
		t.Errorf("default score: %v", res.SimilarityScore)
	}

	score := 0.42
	res = FormatSearchResult(storer.Record{Id: "1", Similarity: &score})
	if *res.SimilarityScore != 0.42 {
		t.Errorf("score: %v", *res.SimilarityScore)
	}

	raw, _ := json.Marshal(FormatSearchResult(storer.Record{Id: "1"}))
	var out map[string]any
	json.Unmarshal(raw, &out)
	if v, ok := out["similarity_score"]; !ok || v != float64(0) {
		t.Errorf("similarity_score: %v", out["similarity_score"])
	}
}
