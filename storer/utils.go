package storer

import (
	"math"
	"sort"
)

// Match reports whether rec passes the validated, source and topics filters.
func Match(rec Record, params SearchParams) bool {
	if params.ValidatedOnly && !rec.Validated {
		return false
	}

	if len(params.Source) > 0 && (rec.Source == nil || *rec.Source != params.Source) {
		return false
	}

	if len(params.Topics) > 0 && !Overlaps(rec.Topics, params.Topics) {
		return false
	}

	return true
}

// Overlaps reports whether a and b share at least one element.
func Overlaps(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}

	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}

	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}

	return false
}

// Rank scores every record against vector, drops those below threshold and
// returns at most limit records ordered by similarity descending. It mirrors
// what the match_content function does server side.
func Rank(records []Record, vector []float32, threshold float64, limit int) []Record {
	if limit < 1 {
		return nil
	}

	candidates := make([]Record, 0, len(records))

	for _, rec := range records {
		score := CosineSimilarity(vector, rec.Embedding)
		if score <= threshold {
			continue
		}
		rec.Similarity = &score
		candidates = append(candidates, rec)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return *candidates[i].Similarity > *candidates[j].Similarity
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates
}

// Filter keeps the records that pass Match, preserving order.
func Filter(records []Record, params SearchParams) []Record {
	filtered := make([]Record, 0, len(records))
	for _, rec := range records {
		if Match(rec, params) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func SortByDateDesc(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}

func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
