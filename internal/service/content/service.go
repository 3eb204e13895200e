package content

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/w-h-a/validated-content/embedder"
	"github.com/w-h-a/validated-content/storer"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	healthMessage = "Validated Content API is running!"
	addedMessage  = "Content added successfully"
	deleteMessage = "Content deleted successfully"
)

var tracer = otel.Tracer("github.com/w-h-a/validated-content/internal/service/content")

type Service struct {
	embedder  embedder.Embedder
	storer    storer.Storer
	threshold float64
	now       func() time.Time
}

func (s *Service) Search(ctx context.Context, req SearchRequest) (rsp SearchResponse, err error) {
	ctx, span := tracer.Start(ctx, "content.Search", trace.WithAttributes(
		attribute.Int("content.limit", req.Limit),
		attribute.Bool("content.validated_only", req.ValidatedOnly),
		attribute.String("content.source", req.Source),
		attribute.StringSlice("content.topics", req.Topics),
	))
	defer func() { end(span, err) }()

	vec, err := s.embed(ctx, OpSearch, req.Query)
	if err != nil {
		return SearchResponse{}, err
	}

	records, err := s.storer.Search(ctx, vec, storer.SearchParams{
		Threshold:     s.threshold,
		Limit:         req.Limit,
		ValidatedOnly: req.ValidatedOnly,
		Source:        req.Source,
		Topics:        req.Topics,
	})
	if err != nil {
		return SearchResponse{}, wrap(KindStoreReadFailed, OpSearch, err)
	}

	results := formatAll(records, FormatSearchResult)

	span.SetAttributes(attribute.Int("content.results", len(results)))

	return SearchResponse{
		Results:    results,
		TotalCount: len(results),
		QueryUsed:  req.Query,
	}, nil
}

func (s *Service) Add(ctx context.Context, req AddRequest) (rsp AddResponse, err error) {
	ctx, span := tracer.Start(ctx, "content.Add")
	defer func() { end(span, err) }()

	vec, err := s.embed(ctx, OpAdd, EmbeddingText(req))
	if err != nil {
		return AddResponse{}, err
	}

	rec := storer.Record{
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		FullText:  req.FullText,
		Topics:    req.Topics,
		Source:    req.Source,
		Url:       req.Url,
		Validated: req.Validated,
		Date:      s.now().UTC(),
		Embedding: vec,
	}

	id, err := s.storer.Insert(ctx, rec)
	if err != nil {
		return AddResponse{}, wrap(KindStoreWriteFailed, OpAdd, err)
	}

	span.SetAttributes(attribute.String("content.id", id))

	return AddResponse{
		Id:      id,
		Message: addedMessage,
		Title:   req.Title,
	}, nil
}

func (s *Service) Delete(ctx context.Context, id string) (rsp DeleteResponse, err error) {
	ctx, span := tracer.Start(ctx, "content.Delete", trace.WithAttributes(
		attribute.String("content.id", id),
	))
	defer func() { end(span, err) }()

	if err := s.storer.Delete(ctx, id); err != nil {
		if errors.Is(err, storer.ErrNotFound) {
			return DeleteResponse{}, wrap(KindNotFound, OpDelete, err)
		}
		return DeleteResponse{}, wrap(KindStoreWriteFailed, OpDelete, err)
	}

	return DeleteResponse{
		Message:   deleteMessage,
		DeletedId: id,
	}, nil
}

func (s *Service) ListAll(ctx context.Context) (rsp ListResponse, err error) {
	ctx, span := tracer.Start(ctx, "content.ListAll")
	defer func() { end(span, err) }()

	records, err := s.storer.ListAll(ctx)
	if err != nil {
		return ListResponse{}, wrap(KindStoreReadFailed, OpList, err)
	}

	results := formatAll(records, FormatResult)

	return ListResponse{
		Results:    results,
		TotalCount: len(results),
	}, nil
}

// Health never touches the embedder or the store.
func (s *Service) Health(ctx context.Context) HealthResponse {
	return HealthResponse{
		Message: healthMessage,
		Status:  "healthy",
	}
}

func (s *Service) embed(ctx context.Context, op Op, text string) ([]float32, error) {
	if len(text) == 0 {
		return nil, wrap(KindEmbeddingFailed, op, errors.New("input text is empty"))
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, wrap(KindEmbeddingFailed, op, err)
	}

	return vec, nil
}

// EmbeddingText is the text an added item is embedded from: the full text when
// present, otherwise the title and excerpt on separate lines.
func EmbeddingText(req AddRequest) string {
	if req.FullText != nil && len(*req.FullText) > 0 {
		return strings.TrimSpace(*req.FullText)
	}

	excerpt := ""
	if req.Excerpt != nil {
		excerpt = *req.Excerpt
	}

	return strings.TrimSpace(req.Title + "\n" + excerpt)
}

func end(span trace.Span, err error) {
	if err != nil && KindOf(err) != KindNotFound {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func New(
	embedder embedder.Embedder,
	storer storer.Storer,
	threshold float64,
) *Service {
	if embedder == nil {
		panic("embedder is required")
	}

	if storer == nil {
		panic("storer is required")
	}

	if threshold < 0 {
		panic("threshold must not be negative")
	}

	return &Service{
		embedder:  embedder,
		storer:    storer,
		threshold: threshold,
		now:       time.Now,
	}
}
