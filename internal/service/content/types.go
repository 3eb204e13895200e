package content

const (
	DefaultLimit     = 5
	DefaultThreshold = 0.1
)

type SearchRequest struct {
	Query         string
	Topics        []string
	Source        string
	ValidatedOnly bool
	Limit         int
}

type AddRequest struct {
	Title     string
	Excerpt   *string
	FullText  *string
	Topics    []string
	Source    *string
	Url       *string
	Validated bool
}

// Result is the public shape of a stored item. Optional fields encode as null
// rather than being omitted; the embedding is never part of it.
type Result struct {
	Id              string   `json:"id"`
	Title           string   `json:"title"`
	Excerpt         *string  `json:"excerpt"`
	FullText        *string  `json:"full_text"`
	Topics          []string `json:"topics"`
	Source          *string  `json:"source"`
	Url             *string  `json:"url"`
	Date            *string  `json:"date"`
	Validated       bool     `json:"validated"`
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
}

type SearchResponse struct {
	Results    []Result `json:"results"`
	TotalCount int      `json:"total_count"`
	QueryUsed  string   `json:"query_used"`
}

type AddResponse struct {
	Id      string `json:"id"`
	Message string `json:"message"`
	Title   string `json:"title"`
}

type DeleteResponse struct {
	Message   string `json:"message"`
	DeletedId string `json:"deleted_id"`
}

type ListResponse struct {
	Results    []Result `json:"results"`
	TotalCount int      `json:"total_count"`
}

type HealthResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
