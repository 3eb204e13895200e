package content

import (
	"github.com/w-h-a/validated-content/storer"
)

// dateLayout matches the ISO-8601 form used when the row was written.
const dateLayout = "2006-01-02T15:04:05.999999Z07:00"

func FormatResult(rec storer.Record) Result {
	topics := rec.Topics
	if topics == nil {
		topics = []string{}
	}

	var date *string
	if !rec.Date.IsZero() {
		d := rec.Date.UTC().Format(dateLayout)
		date = &d
	}

	return Result{
		Id:        rec.Id,
		Title:     rec.Title,
		Excerpt:   rec.Excerpt,
		FullText:  rec.FullText,
		Topics:    topics,
		Source:    rec.Source,
		Url:       rec.Url,
		Date:      date,
		Validated: rec.Validated,
	}
}

// FormatSearchResult attaches the similarity score, zero when the store did
// not report one.
func FormatSearchResult(rec storer.Record) Result {
	res := FormatResult(rec)

	score := 0.0
	if rec.Similarity != nil {
		score = *rec.Similarity
	}
	res.SimilarityScore = &score

	return res
}

func formatAll(records []storer.Record, format func(storer.Record) Result) []Result {
	results := make([]Result, 0, len(records))
	for _, rec := range records {
		results = append(results, format(rec))
	}
	return results
}
