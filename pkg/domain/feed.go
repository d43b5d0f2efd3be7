package domain

import "time"

// ParsedFeed represents a fetched and parsed RSS/Atom feed
type ParsedFeed struct {
	Title       string
	Description string
	Link        string
	Items       []ParsedItem
}

// ParsedItem represents an item from a parsed feed
type ParsedItem struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Content     string
	Author      string
	Published   time.Time
	Media       ItemMedia
}

// ItemMedia keeps image candidates found in the item metadata, each list in document order
type ItemMedia struct {
	Enclosures      []string // enclosure urls
	MediaContent    []string // media:content urls
	MediaThumbnails []string // media:thumbnail urls
	PublisherImage  string   // itunes:image
	Image           string   // generic image field
}
