package domain

import "time"

// ItemStatus is the outcome of processing one feed item
type ItemStatus string

// item statuses
const (
	ItemInserted ItemStatus = "inserted"
	ItemUpdated  ItemStatus = "updated"
	ItemSkipped  ItemStatus = "skipped"
	ItemFailed   ItemStatus = "failed"
)

// ItemResult describes what happened to a single feed item
type ItemResult struct {
	Status    ItemStatus
	ArticleID int64
	Reason    string
	Enriched  bool
	EnrichErr error
}

// SourceResult aggregates item results for one source. Err is set when the
// source was skipped because the feed could not be fetched or parsed.
type SourceResult struct {
	Source Source
	Items  []ItemResult
	Err    error
}

// BatchSummary is the aggregated outcome of one ingestion run
type BatchSummary struct {
	StartedAt        time.Time     `json:"started_at"`
	Duration         time.Duration `json:"duration"`
	SourcesSelected  int           `json:"sources_selected"`
	SourcesProcessed int           `json:"sources_processed"`
	SourcesFailed    int           `json:"sources_failed"`
	ItemsSeen        int           `json:"items_seen"`
	ItemsInserted    int           `json:"items_inserted"`
	ItemsUpdated     int           `json:"items_updated"`
	ItemsSkipped     int           `json:"items_skipped"`
	ItemsFailed      int           `json:"items_failed"`
	Enriched         int           `json:"enriched"`
	EnrichFailed     int           `json:"enrich_failed"`
	RetentionRan     bool          `json:"retention_ran"`
	RetentionDeleted int64         `json:"retention_deleted"`
	CacheInvalidated int64         `json:"cache_invalidated"`
}

// Upserted returns the number of items written, inserted or updated
func (s *BatchSummary) Upserted() int {
	return s.ItemsInserted + s.ItemsUpdated
}

// Add folds a source result into the summary
func (s *BatchSummary) Add(r SourceResult) {
	if r.Err != nil {
		s.SourcesFailed++
		return
	}
	s.SourcesProcessed++
	for _, item := range r.Items {
		s.ItemsSeen++
		switch item.Status {
		case ItemInserted:
			s.ItemsInserted++
		case ItemUpdated:
			s.ItemsUpdated++
		case ItemSkipped:
			s.ItemsSkipped++
		case ItemFailed:
			s.ItemsFailed++
		}
		if item.Enriched {
			s.Enriched++
		}
		if item.EnrichErr != nil {
			s.EnrichFailed++
		}
	}
}

// BackfillSummary is the outcome of a backfill pass
type BackfillSummary struct {
	Candidates int `json:"candidates"`
	Updated    int `json:"updated"`
	Failed     int `json:"failed"`
}
