// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for catalog queries.
type QueryOptions struct {
	// Query is an FTS5 full-text search string over headline and body.
	Query string

	// Newspaper, Edition and Date filter on exact metadata values.
	Newspaper string
	Edition   string
	Date      string

	// Source filters by source PDF file name.
	Source string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Newspaper == "" && q.Edition == "" && q.Date == "" && q.Source == ""
}

// QueryResult is one catalogued article with its edition metadata.
type QueryResult struct {
	ID         string `json:"id" yaml:"id"`
	SourceFile string `json:"source_file" yaml:"source_file"`
	Sequence   int    `json:"sequence" yaml:"sequence"`
	Page       int    `json:"page" yaml:"page"`
	Headline   string `json:"headline" yaml:"headline"`
	Body       string `json:"body" yaml:"body"`
	Newspaper  string `json:"newspaper" yaml:"newspaper"`
	Edition    string `json:"edition" yaml:"edition"`
	Date       string `json:"date" yaml:"date"`
}

// Retrieve queries the catalog. Full-text results are ranked by relevance;
// filter-only results are in source file and sequence order.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT a.id, a.source_file, a.sequence, a.page, a.headline, a.body,
				e.newspaper, e.edition, e.date
			FROM articles_fts
			JOIN articles a ON a.rowid = articles_fts.rowid
			JOIN editions e ON e.source_file = a.source_file
			WHERE articles_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT a.id, a.source_file, a.sequence, a.page, a.headline, a.body,
				e.newspaper, e.edition, e.date
			FROM articles a
			JOIN editions e ON e.source_file = a.source_file
			WHERE 1=1`)
	}

	for _, f := range []struct{ col, val string }{
		{"e.newspaper", opts.Newspaper},
		{"e.edition", opts.Edition},
		{"e.date", opts.Date},
		{"a.source_file", opts.Source},
	} {
		if f.val != "" {
			qb.WriteString(` AND ` + f.col + ` = ?`)
			args = append(args, f.val)
		}
	}

	if useFTS {
		qb.WriteString(` ORDER BY articles_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY a.source_file, a.sequence`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var r QueryResult
		if err := rows.Scan(&r.ID, &r.SourceFile, &r.Sequence, &r.Page, &r.Headline, &r.Body,
			&r.Newspaper, &r.Edition, &r.Date); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
