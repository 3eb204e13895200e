package storer

import "time"

// Record is one row of the content table. Optional text columns are nil when
// the row holds NULL.
type Record struct {
	Id         string
	Title      string
	Excerpt    *string
	FullText   *string
	Topics     []string
	Source     *string
	Url        *string
	Validated  bool
	Date       time.Time
	Embedding  []float32
	Similarity *float64
}

// SearchParams carries the similarity function arguments and the filters
// applied to its result set.
type SearchParams struct {
	Threshold     float64
	Limit         int
	ValidatedOnly bool
	Source        string
	Topics        []string
}
