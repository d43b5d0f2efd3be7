package domain

import "time"

// Article represents one ingested item, unique by canonical URL
type Article struct {
	ID           int64
	SourceID     int64
	Title        string
	CanonicalURL string
	PublishedAt  *time.Time
	CreatedAt    time.Time
	ImageURL     string
	AIHeadline   string
	AISummary    string
}

// UpsertResult reports the outcome of an insert-or-update on canonical URL
type UpsertResult struct {
	ID       int64
	Inserted bool
}

// Enrichment holds the AI generated headline and summary
type Enrichment struct {
	Headline string `json:"ai_headline"`
	Summary  string `json:"ai_summary"`
}

// Empty reports whether neither field carries text
func (e Enrichment) Empty() bool {
	return e.Headline == "" && e.Summary == ""
}

// Complete reports whether both fields carry text
func (e Enrichment) Complete() bool {
	return e.Headline != "" && e.Summary != ""
}
