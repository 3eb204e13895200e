package supabase

import (
	"fmt"
	"strings"

	"github.com/w-h-a/validated-content/storer"
	getsafe "github.com/w-h-a/validated-content/util/get_safe"
)

// columns excludes the embedding so listings do not ship vectors back.
const columns = "id,title,excerpt,full_text,topics,source,url,date,validated"

// invalidTextRepresentation is returned by postgres when an id filter does not
// parse as the column type.
const invalidTextRepresentation = "22P02"

type postgrestError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *postgrestError) Error() string {
	msg := e.Message
	if len(msg) == 0 {
		msg = "unexpected response"
	}
	if len(e.Code) > 0 {
		return fmt.Sprintf("supabase http %d (%s): %s", e.Status, e.Code, msg)
	}
	return fmt.Sprintf("supabase http %d: %s", e.Status, msg)
}

type matchRequest struct {
	QueryEmbedding []float32 `json:"query_embedding"`
	MatchThreshold float64   `json:"match_threshold"`
	MatchCount     int       `json:"match_count"`
}

type insertRequest struct {
	Title     string    `json:"title"`
	Excerpt   *string   `json:"excerpt"`
	FullText  *string   `json:"full_text"`
	Topics    []string  `json:"topics"`
	Source    *string   `json:"source"`
	Url       *string   `json:"url"`
	Validated bool      `json:"validated"`
	Embedding []float32 `json:"embedding"`
	Date      string    `json:"date"`
}

func toRecord(row map[string]any) storer.Record {
	return storer.Record{
		Id:         getsafe.String(row, "id"),
		Title:      getsafe.String(row, "title"),
		Excerpt:    getsafe.StringPtr(row, "excerpt"),
		FullText:   getsafe.StringPtr(row, "full_text"),
		Topics:     getsafe.Strings(row, "topics"),
		Source:     getsafe.StringPtr(row, "source"),
		Url:        getsafe.StringPtr(row, "url"),
		Validated:  getsafe.Bool(row, "validated"),
		Date:       getsafe.Time(row, "date"),
		Similarity: getsafe.Float(row, "similarity"),
	}
}

// arrayLiteral renders a postgres array literal, quoting every element.
func arrayLiteral(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `"`, `\"`)
		quoted = append(quoted, `"`+v+`"`)
	}
	return "{" + strings.Join(quoted, ",") + "}"
}
