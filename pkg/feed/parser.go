package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/umputun/newsbeat/pkg/domain"
)

// DefaultUserAgent identifies the ingestion bot to publishers
const DefaultUserAgent = "Mozilla/5.0 (compatible; NewsbeatBot/1.0; +https://github.com/umputun/newsbeat)"

// DefaultTimeout bounds a single feed request
const DefaultTimeout = 10 * time.Second

// Parser fetches and parses RSS/Atom feeds
type Parser struct {
	client    *http.Client
	userAgent string
}

// NewParser creates a new feed parser. Zero timeout and empty user agent fall back to defaults.
func NewParser(timeout time.Duration, userAgent string) *Parser {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Parser{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Parse fetches and parses a feed from the given URL
func (p *Parser) Parse(ctx context.Context, url string) (*domain.ParsedFeed, error) {
	body, err := p.fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer body.Close()

	feed, err := gofeed.NewParser().Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	result := &domain.ParsedFeed{
		Title:       feed.Title,
		Description: feed.Description,
		Link:        feed.Link,
		Items:       make([]domain.ParsedItem, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		parsedItem := domain.ParsedItem{
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
			Content:     item.Content,
			Media:       itemMedia(item),
		}

		// set GUID
		switch {
		case item.GUID != "":
			parsedItem.GUID = item.GUID
		case item.Link != "":
			parsedItem.GUID = item.Link
		default:
			parsedItem.GUID = fmt.Sprintf("%s-%s", feed.Title, item.Title)
		}

		if item.Author != nil {
			parsedItem.Author = item.Author.Name
		}

		if item.PublishedParsed != nil {
			parsedItem.Published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			parsedItem.Published = *item.UpdatedParsed
		}

		result.Items = append(result.Items, parsedItem)
	}

	return result, nil
}

// fetch retrieves content from a URL
func (p *Parser) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	addFeedHeaders(req, p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return resp.Body, nil
}

// itemMedia collects image candidates from enclosures, media rss, itunes and the generic image
func itemMedia(item *gofeed.Item) domain.ItemMedia {
	var m domain.ItemMedia
	for _, enc := range item.Enclosures {
		if enc != nil && strings.TrimSpace(enc.URL) != "" {
			m.Enclosures = append(m.Enclosures, strings.TrimSpace(enc.URL))
		}
	}

	if media, ok := item.Extensions["media"]; ok {
		m.MediaContent = extensionURLs(media, "content")
		m.MediaThumbnails = extensionURLs(media, "thumbnail")
	}

	if item.ITunesExt != nil && item.ITunesExt.Image != "" {
		m.PublisherImage = strings.TrimSpace(item.ITunesExt.Image)
	}
	if m.PublisherImage == "" {
		if itunes, ok := item.Extensions["itunes"]; ok {
			for _, e := range itunes["image"] {
				if v := firstAttr(e, "href", "url"); v != "" {
					m.PublisherImage = v
					break
				}
			}
		}
	}

	if item.Image != nil {
		m.Image = strings.TrimSpace(item.Image.URL)
	}
	return m
}

// extensionURLs returns url attributes of media:<name> elements, including ones nested in media:group
func extensionURLs(media map[string][]ext.Extension, name string) []string {
	var res []string
	for _, e := range media[name] {
		if v := firstAttr(e, "url"); v != "" {
			res = append(res, v)
		}
	}
	for _, group := range media["group"] {
		for _, e := range group.Children[name] {
			if v := firstAttr(e, "url"); v != "" {
				res = append(res, v)
			}
		}
	}
	return res
}

func firstAttr(e ext.Extension, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(e.Attrs[k]); v != "" {
			return v
		}
	}
	return ""
}
