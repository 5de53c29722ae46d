package engine

import (
	"math"
	"sort"
	"strings"
)

// RootEndpointLabel is the stats key for the bare /api path.
const RootEndpointLabel = "root"

// EndpointLabel normalizes an endpoint path into a stats key: the API root
// collapses to "root" and the /api/ prefix is stripped from everything else.
func EndpointLabel(endpoint string) string {
	e := strings.TrimSpace(endpoint)
	switch e {
	case "", "/", "/api", "/api/":
		return RootEndpointLabel
	}
	if strings.HasPrefix(e, "/api/") {
		return strings.TrimPrefix(e, "/api/")
	}
	return e
}

// ComputeStats aggregates call records per endpoint label. It is a pure
// function of its input.
func ComputeStats(records []APICallRecord) map[string]EndpointStats {
	out := make(map[string]EndpointStats)
	for _, r := range records {
		label := EndpointLabel(r.Endpoint)
		s := out[label]
		s.Endpoint = label
		s.Total++
		if r.Success() {
			s.SuccessCount++
		} else {
			s.ErrorCount++
		}
		out[label] = s
	}
	for label, s := range out {
		s.SuccessRatePercent = successRate(s.SuccessCount, s.Total)
		out[label] = s
	}
	return out
}

// successRate returns the rounded percentage, or 0 when total is 0.
func successRate(success, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(success) / float64(total) * 100))
}

// SortedStats returns the stats ordered by endpoint label.
func SortedStats(stats map[string]EndpointStats) []EndpointStats {
	out := make([]EndpointStats, 0, len(stats))
	for _, s := range stats {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Endpoint < out[j].Endpoint
	})
	return out
}
