package api

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
)

// RatingEntry is one leaderboard row.
type RatingEntry struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Score      int    `json:"score" yaml:"score"`
	Trend      int    `json:"trend" yaml:"trend"`
	Region     string `json:"region" yaml:"region"`
	LastActive string `json:"last_active,omitempty" yaml:"last_active,omitempty"`
}

// RatingSummary aggregates a leaderboard.
type RatingSummary struct {
	Total        int    `json:"total" yaml:"total"`
	AverageScore int    `json:"average_score" yaml:"average_score"`
	TopRegion    string `json:"top_region,omitempty" yaml:"top_region,omitempty"`
}

// Leaderboard fetches GET /ratings/. A server that answers with anything
// other than a list yields an empty leaderboard.
func (c *Client) Leaderboard(ctx context.Context) ([]RatingEntry, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "GET", "/ratings/", nil, nil, &raw); err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		c.logger.DebugContext(ctx, "ratings endpoint returned no list")
		return []RatingEntry{}, nil
	}
	var entries []RatingEntry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		c.logger.WithError(err).WarnContext(ctx, "ratings list not decodable")
		return []RatingEntry{}, nil
	}
	return entries, nil
}

// FilterRatings keeps entries whose name or region contains search
// (case-insensitive) and whose region equals region when set, sorted by
// score descending.
func FilterRatings(entries []RatingEntry, search, region string) []RatingEntry {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]RatingEntry, 0, len(entries))
	for _, e := range entries {
		if region != "" && !strings.EqualFold(e.Region, region) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Name), search) &&
			!strings.Contains(strings.ToLower(e.Region), search) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// SummarizeRatings computes totals over entries. The top region is the one
// with the most entries, ties broken alphabetically.
func SummarizeRatings(entries []RatingEntry) RatingSummary {
	s := RatingSummary{Total: len(entries)}
	if len(entries) == 0 {
		return s
	}
	sum := 0
	counts := map[string]int{}
	for _, e := range entries {
		sum += e.Score
		counts[e.Region]++
	}
	s.AverageScore = (sum + len(entries)/2) / len(entries)

	best := -1
	for region, n := range counts {
		if n > best || (n == best && region < s.TopRegion) {
			best, s.TopRegion = n, region
		}
	}
	return s
}
