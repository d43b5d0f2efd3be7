// Package image picks a representative image for an article, from feed metadata first
// and, for allow-listed publishers, by scraping Open Graph / Twitter meta tags of the page.
package image

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pkgz/lgr"

	"github.com/umputun/newsbeat/pkg/domain"
)

const maxPageSize = 2 * 1024 * 1024

// metaKeys are meta tag names checked in priority order, the first non-empty hit wins
var metaKeys = []string{"og:image:secure_url", "og:image", "twitter:image", "twitter:image:src"}

// Config defines resolver parameters
type Config struct {
	Timeout     time.Duration // page request timeout
	UserAgent   string
	ScrapeHosts []string      // publisher domains eligible for page scraping, subdomains included
	ScrapeDelay time.Duration // pause before every page request
}

// Resolver finds image urls for feed items
type Resolver struct {
	client    *http.Client
	userAgent string
	hosts     []string
	delay     time.Duration
}

// NewResolver makes image resolver
func NewResolver(cfg Config) *Resolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	hosts := make([]string, 0, len(cfg.ScrapeHosts))
	for _, h := range cfg.ScrapeHosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			hosts = append(hosts, strings.TrimPrefix(h, "www."))
		}
	}
	return &Resolver{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		hosts:     hosts,
		delay:     cfg.ScrapeDelay,
	}
}

// FromMedia returns the first image found in item metadata, or empty string.
// Order: enclosure, media:content, media:thumbnail, publisher (itunes) image, generic image.
func FromMedia(m domain.ItemMedia) string {
	for _, list := range [][]string{m.Enclosures, m.MediaContent, m.MediaThumbnails} {
		for _, v := range list {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	if v := strings.TrimSpace(m.PublisherImage); v != "" {
		return v
	}
	return strings.TrimSpace(m.Image)
}

// Resolve returns image url for an item. Falls back to page scraping for allow-listed hosts
// when metadata has nothing. Never fails, empty result means no image.
func (r *Resolver) Resolve(ctx context.Context, media domain.ItemMedia, link string) string {
	if img := FromMedia(media); img != "" {
		return img
	}
	if !r.ScrapeAllowed(link) {
		return ""
	}
	return r.Scrape(ctx, link)
}

// ScrapeAllowed checks if link's host is on the scrape allow-list
func (r *Resolver) ScrapeAllowed(link string) bool {
	if len(r.hosts) == 0 {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, h := range r.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// Scrape fetches the page and returns the absolute url of its og/twitter image, or empty string
func (r *Resolver) Scrape(ctx context.Context, pageURL string) string {
	img, err := r.scrape(ctx, pageURL)
	if err != nil {
		lgr.Printf("[DEBUG] no page image for %s: %v", pageURL, err)
		return ""
	}
	return img
}

func (r *Resolver) scrape(ctx context.Context, pageURL string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("invalid page url %q", pageURL)
	}

	if err := sleep(ctx, r.delay); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	addPageHeaders(req, r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	img := MetaImage(doc)
	if img == "" {
		return "", fmt.Errorf("no image meta tags")
	}
	return absolute(base, img), nil
}

// MetaImage returns the raw content of the highest priority og/twitter image meta tag.
// The key may sit in either the property or the name attribute, attribute order doesn't matter.
func MetaImage(doc *goquery.Document) string {
	metas := doc.Find("meta")
	for _, key := range metaKeys {
		var found string
		metas.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if !metaKeyIs(s, key) {
				return true
			}
			if v := strings.TrimSpace(s.AttrOr("content", "")); v != "" {
				found = v
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

func metaKeyIs(s *goquery.Selection, key string) bool {
	for _, attr := range []string{"property", "name"} {
		if v, ok := s.Attr(attr); ok && strings.EqualFold(strings.TrimSpace(v), key) {
			return true
		}
	}
	return false
}

// absolute resolves img against the page url, returns img as is if it can't be parsed
func absolute(base *url.URL, img string) string {
	ref, err := url.Parse(img)
	if err != nil {
		return img
	}
	return base.ResolveReference(ref).String()
}

// sleep waits for d or until ctx is done, non-positive d only checks ctx
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
