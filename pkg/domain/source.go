package domain

import "time"

// Source represents a news feed provider
type Source struct {
	ID         int64
	Name       string
	RSSURL     string // empty for sources without a feed, never ingested
	CategoryID *int64
	CreatedAt  time.Time
}

// Category groups sources
type Category struct {
	ID   int64
	Name string
}

// SourceFilter selects sources eligible for an ingestion run.
// ShardCount of zero disables sharding.
type SourceFilter struct {
	ShardCount int
	ShardIndex int
	Limit      int
}

// Sharded reports whether the filter partitions sources
func (f SourceFilter) Sharded() bool {
	return f.ShardCount > 0
}

// Matches reports whether a source id belongs to the filter's shard
func (f SourceFilter) Matches(id int64) bool {
	if !f.Sharded() {
		return true
	}
	return id%int64(f.ShardCount) == int64(f.ShardIndex)
}

// SweepsRetention reports whether this invocation owns the retention delete.
// Only shard 0 sweeps, which also covers the unsharded case.
func (f SourceFilter) SweepsRetention() bool {
	return f.ShardIndex == 0
}
