package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/w-h-a/validated-content/storer"
)

type memoryStorer struct {
	options storer.Options
	records map[string]storer.Record
	mtx     sync.RWMutex
}

func (s *memoryStorer) Insert(ctx context.Context, rec storer.Record) (string, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	rec.Id = uuid.New().String()
	rec.Embedding = slices.Clone(rec.Embedding)
	rec.Topics = slices.Clone(rec.Topics)
	rec.Similarity = nil

	s.records[rec.Id] = rec

	return rec.Id, nil
}

func (s *memoryStorer) Delete(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.records[id]; !ok {
		return storer.ErrNotFound
	}

	delete(s.records, id)

	return nil
}

func (s *memoryStorer) ListAll(ctx context.Context) ([]storer.Record, error) {
	records := s.snapshot()

	storer.SortByDateDesc(records)

	return records, nil
}

func (s *memoryStorer) Search(ctx context.Context, vector []float32, params storer.SearchParams) ([]storer.Record, error) {
	if params.Limit < 1 {
		return nil, nil
	}

	ranked := storer.Rank(s.snapshot(), vector, params.Threshold, params.Limit)

	return storer.Filter(ranked, params), nil
}

func (s *memoryStorer) snapshot() []storer.Record {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	records := make([]storer.Record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}

	return records
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	s := &memoryStorer{
		options: options,
		records: map[string]storer.Record{},
		mtx:     sync.RWMutex{},
	}

	return s
}
