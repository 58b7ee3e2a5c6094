// Package sources gathers market intelligence about a set of tickers.
package sources

import (
	"context"
	"fmt"
	"strings"
)

// Source is one document discovered while gathering intelligence.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Result is the aggregated intelligence for a set of tickers.
type Result struct {
	Content string
	Sources []Source
}

// Aggregator gathers intelligence for an ordered list of tickers.
type Aggregator interface {
	Aggregate(ctx context.Context, tickers []string) (*Result, error)
}

// Prompt returns the research request sent for tickers.
func Prompt(tickers []string) string {
	return fmt.Sprintf(
		"Provide a detailed summary of the latest news, financial reports, analyst ratings, "+
			"and overall market sentiment for the following securities: %s. "+
			"Focus on the most important developments from the past week and cite your sources.",
		strings.Join(tickers, ", "),
	)
}

// Dedupe keeps one entry per URI, in first-seen order. Entries without a
// URI are dropped and a missing title falls back to the URI.
func Dedupe(in []Source) []Source {
	seen := make(map[string]struct{}, len(in))
	out := make([]Source, 0, len(in))
	for _, s := range in {
		s.URI = strings.TrimSpace(s.URI)
		if s.URI == "" {
			continue
		}
		if _, ok := seen[s.URI]; ok {
			continue
		}
		seen[s.URI] = struct{}{}
		if strings.TrimSpace(s.Title) == "" {
			s.Title = s.URI
		}
		out = append(out, s)
	}
	return out
}
