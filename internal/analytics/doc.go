// Package analytics holds the pure transformations behind every dashboard
// view: the pillar/year/unit filter and its per-group mean, the latest value
// selector used by the metric cards, and the helpers that shape the
// forecast and impact tables for display.
//
// Every function is total and allocation-local: inputs are never modified,
// so callers may share one loaded snapshot across concurrent requests.
package analytics
