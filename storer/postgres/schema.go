package postgres

import (
	"fmt"

	"github.com/lib/pq"
)

// schema returns the statements that bootstrap the content table and the
// similarity function. They are idempotent.
func schema(table, function string, dims int) []string {
	t := pq.QuoteIdentifier(table)
	f := pq.QuoteIdentifier(function)
	idx := pq.QuoteIdentifier(table + "_date_idx")

	return []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id        uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			title     text NOT NULL,
			excerpt   text,
			full_text text,
			topics    text[] NOT NULL DEFAULT '{}',
			source    text,
			url       text,
			validated boolean NOT NULL DEFAULT true,
			date      timestamptz NOT NULL DEFAULT now(),
			embedding vector(%d)
		)`, t, dims),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (date DESC)`, idx, t),
		fmt.Sprintf(`
		CREATE OR REPLACE FUNCTION %s (
			query_embedding vector(%d),
			match_threshold float,
			match_count int
		)
		RETURNS TABLE (
			id uuid,
			title text,
			excerpt text,
			full_text text,
			topics text[],
			source text,
			url text,
			date timestamptz,
			validated boolean,
			similarity float
		)
		LANGUAGE sql STABLE
		AS $$
			SELECT
				c.id,
				c.title,
				c.excerpt,
				c.full_text,
				c.topics,
				c.source,
				c.url,
				c.date,
				c.validated,
				1 - (c.embedding <=> query_embedding) AS similarity
			FROM %s c
			WHERE 1 - (c.embedding <=> query_embedding) > match_threshold
			ORDER BY c.embedding <=> query_embedding
			LIMIT match_count;
		$$`, f, dims, t),
	}
}
