package engine

import "strings"

// MaxTickers is the largest number of tickers a single briefing covers.
const MaxTickers = 4

// ParseTickers splits a comma-separated list into trimmed, de-duplicated
// tickers, keeping first-seen order.
func ParseTickers(input string) ([]string, error) {
	var tickers []string
	seen := make(map[string]struct{})
	for _, t := range strings.Split(input, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tickers = append(tickers, t)
	}

	switch {
	case len(tickers) == 0:
		return nil, &Error{Kind: KindValidation, Stage: StageIdle, Err: ErrNoTickers}
	case len(tickers) > MaxTickers:
		return nil, &Error{Kind: KindValidation, Stage: StageIdle, Err: ErrTooManyTickers}
	}
	return tickers, nil
}
