package storer

import (
	"context"
	"net/http"
)

type Option func(*Options)

type Options struct {
	Location   string
	ApiKey     string
	Table      string
	Function   string
	VectorSize int
	Migrate    bool
	HTTPClient *http.Client
	Context    context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithTable(table string) Option {
	return func(o *Options) {
		o.Table = table
	}
}

func WithFunction(fn string) Option {
	return func(o *Options) {
		o.Function = fn
	}
}

func WithVectorSize(size int) Option {
	return func(o *Options) {
		o.VectorSize = size
	}
}

// WithMigrate creates the table and similarity function on start when they
// are missing. Only meaningful for providers that own a SQL connection.
func WithMigrate(migrate bool) Option {
	return func(o *Options) {
		o.Migrate = migrate
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(o *Options) {
		o.HTTPClient = client
	}
}

func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		o.Context = ctx
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Table:      DefaultTable,
		Function:   DefaultFunction,
		VectorSize: 1536,
		Context:    context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
