package google

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/w-h-a/validated-content/embedder"
)

func TestModelName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultModel},
		{embedder.DefaultModel, DefaultModel},
		{"embedding-001", "embedding-001"},
		{"models/text-embedding-004", "text-embedding-004"},
	}

	for _, tt := range tests {
		if got := modelName(tt.in); got != tt.want {
			t.Errorf("modelName(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValues(t *testing.T) {
	tests := []struct {
		name    string
		rsp     *genai.EmbedContentResponse
		want    int
		wantErr bool
	}{
		{"nil response", nil, 0, true},
		{"nil embedding", &genai.EmbedContentResponse{}, 0, true},
		{"empty values", &genai.EmbedContentResponse{Embedding: &genai.ContentEmbedding{}}, 0, true},
		{"values", &genai.EmbedContentResponse{Embedding: &genai.ContentEmbedding{Values: []float32{0.1, 0.2}}}, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := values(tt.rsp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len: got %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestNewEmbedder_MissingKey(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic without api key")
		}
	}()

	NewEmbedder()
}

func TestNewEmbedder(t *testing.T) {
	e := NewEmbedder(
		embedder.WithContext(context.Background()),
		embedder.WithApiKey("test-key"),
	).(*googleEmbedder)
	defer e.client.Close()

	if e.name != DefaultModel {
		t.Errorf("model: got %q, want %q", e.name, DefaultModel)
	}
	if e.model == nil || e.model.TaskType != genai.TaskTypeSemanticSimilarity {
		t.Errorf("embedding model not configured: %+v", e.model)
	}
}
