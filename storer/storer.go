package storer

import (
	"context"
	"errors"
)

const (
	DefaultTable    = "validated_content"
	DefaultFunction = "match_content"
)

var ErrNotFound = errors.New("content not found")

type Storer interface {
	Insert(ctx context.Context, rec Record) (string, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]Record, error)
	Search(ctx context.Context, vector []float32, params SearchParams) ([]Record, error)
}
