package google

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/w-h-a/validated-content/embedder"
	genaiopt "google.golang.org/api/option"
)

// DefaultModel replaces the OpenAI default when the caller did not pick a
// Gemini model.
const DefaultModel = "text-embedding-004"

type googleEmbedder struct {
	options embedder.Options
	name    string
	client  *genai.Client
	model   *genai.EmbeddingModel
}

func (e *googleEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	rsp, err := e.model.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}

	return values(rsp)
}

func values(rsp *genai.EmbedContentResponse) ([]float32, error) {
	if rsp == nil || rsp.Embedding == nil || len(rsp.Embedding.Values) == 0 {
		return nil, errors.New("no response from Google")
	}

	return rsp.Embedding.Values, nil
}

func modelName(model string) string {
	model = strings.TrimPrefix(model, "models/")
	if len(model) == 0 || model == embedder.DefaultModel {
		return DefaultModel
	}
	return model
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if len(options.ApiKey) == 0 {
		panic("missing api key for google embedder")
	}

	e := &googleEmbedder{
		options: options,
		name:    modelName(options.Model),
	}

	client, err := genai.NewClient(
		options.Context,
		genaiopt.WithAPIKey(options.ApiKey),
	)
	if err != nil {
		detail := "failed to initialize google embedder"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	e.client = client
	e.model = client.EmbeddingModel(e.name)
	e.model.TaskType = genai.TaskTypeSemanticSimilarity

	return e
}
