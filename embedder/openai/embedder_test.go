package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/w-h-a/validated-content/embedder"
)

func TestEmbed(t *testing.T) {
	var got struct {
		Input []string `json:"input"`
		Model string   `json:"model"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embeddings" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("authorization: got %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.5,-0.25,1]}],"model":"text-embedding-3-small"}`))
	}))
	defer srv.Close()

	e := NewEmbedder(
		embedder.WithApiKey("test-key"),
		embedder.WithBaseURL(srv.URL+"/v1"),
		embedder.WithHTTPClient(srv.Client()),
	)

	vec, err := e.Embed(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}

	if len(got.Input) != 1 || got.Input[0] != "hello world" {
		t.Errorf("input: got %v", got.Input)
	}
	if got.Model != embedder.DefaultModel {
		t.Errorf("model: got %q", got.Model)
	}
	want := []float32{0.5, -0.25, 1}
	if len(vec) != len(want) {
		t.Fatalf("len: got %d, want %d", len(vec), len(want))
	}
	for i := range want {
		if vec[i] != want[i] {
			t.Errorf("vec[%d]: got %v, want %v", i, vec[i], want[i])
		}
	}
}

func TestEmbed_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[],"model":"text-embedding-3-small"}`))
	}))
	defer srv.Close()

	e := NewEmbedder(
		embedder.WithBaseURL(srv.URL+"/v1"),
		embedder.WithHTTPClient(srv.Client()),
	)

	if _, err := e.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestEmbed_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	e := NewEmbedder(
		embedder.WithBaseURL(srv.URL+"/v1"),
		embedder.WithHTTPClient(srv.Client()),
	)

	if _, err := e.Embed(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for 401")
	}
}
