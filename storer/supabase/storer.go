package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/w-h-a/validated-content/storer"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type supabaseStorer struct {
	options storer.Options
	client  *http.Client
}

func (s *supabaseStorer) Insert(ctx context.Context, rec storer.Record) (string, error) {
	topics := rec.Topics
	if topics == nil {
		topics = []string{}
	}

	req := insertRequest{
		Title:     rec.Title,
		Excerpt:   rec.Excerpt,
		FullText:  rec.FullText,
		Topics:    topics,
		Source:    rec.Source,
		Url:       rec.Url,
		Validated: rec.Validated,
		Embedding: rec.Embedding,
		Date:      rec.Date.UTC().Format(time.RFC3339Nano),
	}

	var rows []map[string]any

	path := "/rest/v1/" + url.PathEscape(s.options.Table)

	query := url.Values{}
	query.Set("select", "id")

	if err := s.do(ctx, http.MethodPost, path, query, req, &rows); err != nil {
		return "", err
	}

	if len(rows) == 0 {
		return "", errors.New("supabase returned no inserted row")
	}

	return toRecord(rows[0]).Id, nil
}

func (s *supabaseStorer) Delete(ctx context.Context, id string) error {
	var rows []map[string]any

	path := "/rest/v1/" + url.PathEscape(s.options.Table)

	query := url.Values{}
	query.Set("id", "eq."+id)
	query.Set("select", "id")

	if err := s.do(ctx, http.MethodDelete, path, query, nil, &rows); err != nil {
		var pgErr *postgrestError
		if errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation {
			return storer.ErrNotFound
		}
		return err
	}

	if len(rows) == 0 {
		return storer.ErrNotFound
	}

	return nil
}

func (s *supabaseStorer) ListAll(ctx context.Context) ([]storer.Record, error) {
	var rows []map[string]any

	path := "/rest/v1/" + url.PathEscape(s.options.Table)

	query := url.Values{}
	query.Set("select", columns)
	query.Set("order", "date.desc")

	if err := s.do(ctx, http.MethodGet, path, query, nil, &rows); err != nil {
		return nil, err
	}

	records := make([]storer.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(row))
	}

	return records, nil
}

func (s *supabaseStorer) Search(ctx context.Context, vector []float32, params storer.SearchParams) ([]storer.Record, error) {
	if params.Limit < 1 {
		return nil, nil
	}

	req := matchRequest{
		QueryEmbedding: vector,
		MatchThreshold: params.Threshold,
		MatchCount:     params.Limit,
	}

	query := url.Values{}

	if params.ValidatedOnly {
		query.Set("validated", "eq.true")
	}

	if len(params.Source) > 0 {
		query.Set("source", "eq."+params.Source)
	}

	if len(params.Topics) > 0 {
		query.Set("topics", "ov."+arrayLiteral(params.Topics))
	}

	query.Set("order", "similarity.desc")

	var rows []map[string]any

	path := "/rest/v1/rpc/" + url.PathEscape(s.options.Function)

	if err := s.do(ctx, http.MethodPost, path, query, req, &rows); err != nil {
		return nil, err
	}

	records := make([]storer.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(row))
	}

	return records, nil
}

func (s *supabaseStorer) do(ctx context.Context, method string, path string, query url.Values, req any, rsp any) error {
	u := s.options.Location + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Prefer", "return=representation")
	request.Header.Set("apikey", s.options.ApiKey)
	request.Header.Set("Authorization", "Bearer "+s.options.ApiKey)

	response, err := s.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		pgErr := &postgrestError{Status: response.StatusCode}
		if err := json.Unmarshal(payload, pgErr); err != nil || len(pgErr.Message) == 0 {
			pgErr.Message = strings.TrimSpace(string(payload))
		}
		return pgErr
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return fmt.Errorf("decode supabase response: %w", err)
		}
	}

	return nil
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	if len(options.Location) == 0 || len(options.ApiKey) == 0 {
		panic("missing location or api key for supabase storer")
	}

	options.Location = strings.TrimRight(options.Location, "/")

	client := options.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	s := &supabaseStorer{
		options: options,
		client:  client,
	}

	return s
}
