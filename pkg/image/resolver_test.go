package image

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsbeat/pkg/config"
	"github.com/umputun/newsbeat/pkg/domain"
)

func TestFromMedia(t *testing.T) {
	tests := []struct {
		name  string
		media domain.ItemMedia
		want  string
	}{
		{name: "empty", media: domain.ItemMedia{}, want: ""},
		{name: "enclosure beats media content", want: "https://cdn/enc.jpg", media: domain.ItemMedia{
			Enclosures: []string{"https://cdn/enc.jpg"}, MediaContent: []string{"https://cdn/content.jpg"}}},
		{name: "media content beats thumbnail", want: "https://cdn/content.jpg", media: domain.ItemMedia{
			MediaContent: []string{"https://cdn/content.jpg"}, MediaThumbnails: []string{"https://cdn/thumb.jpg"}}},
		{name: "thumbnail beats itunes", want: "https://cdn/thumb.jpg", media: domain.ItemMedia{
			MediaThumbnails: []string{"https://cdn/thumb.jpg"}, PublisherImage: "https://cdn/itunes.jpg"}},
		{name: "itunes beats generic", want: "https://cdn/itunes.jpg", media: domain.ItemMedia{
			PublisherImage: "https://cdn/itunes.jpg", Image: "https://cdn/generic.jpg"}},
		{name: "generic only", want: "https://cdn/generic.jpg", media: domain.ItemMedia{Image: " https://cdn/generic.jpg "}},
		{name: "blank entries skipped", want: "https://cdn/second.jpg", media: domain.ItemMedia{
			Enclosures: []string{"  "}, MediaContent: []string{"", "https://cdn/second.jpg"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromMedia(tt.media))
		})
	}
}

func TestResolver_ScrapeAllowed(t *testing.T) {
	r := NewResolver(Config{ScrapeHosts: []string{"financefeeds.com", " www.Example.org "}})

	assert.True(t, r.ScrapeAllowed("https://financefeeds.com/story"))
	assert.True(t, r.ScrapeAllowed("https://www.financefeeds.com/story"))
	assert.True(t, r.ScrapeAllowed("https://news.financefeeds.com/story"))
	assert.True(t, r.ScrapeAllowed("https://example.org/a"))
	assert.False(t, r.ScrapeAllowed("https://notfinancefeeds.com/story"))
	assert.False(t, r.ScrapeAllowed("https://other.com/story"))
	assert.False(t, r.ScrapeAllowed("not a url"))

	assert.False(t, NewResolver(Config{}).ScrapeAllowed("https://financefeeds.com/story"))
}

// hostRewriter sends every request to the test server, keeping path and original Host header
type hostRewriter struct{ target string }

func (h hostRewriter) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = "http"
	req.URL.Host = h.target
	return http.DefaultTransport.RoundTrip(req)
}

func TestResolver_DefaultAllowList(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/article", r.URL.Path)
		_, _ = w.Write([]byte(`<html><head><meta property="og:image" content="https://cdn.financefeeds.com/cover.jpg"></head></html>`))
	}))
	defer ts.Close()

	cfg, err := config.Load("")
	require.NoError(t, err)
	r := NewResolver(Config{Timeout: time.Second, ScrapeHosts: cfg.Image.ScrapeHosts, ScrapeDelay: time.Millisecond})
	r.client.Transport = hostRewriter{target: strings.TrimPrefix(ts.URL, "http://")}

	assert.True(t, r.ScrapeAllowed("https://financefeeds.com/article"))
	assert.Equal(t, "https://cdn.financefeeds.com/cover.jpg",
		r.Resolve(context.Background(), domain.ItemMedia{}, "https://financefeeds.com/article"))
	assert.Empty(t, r.Resolve(context.Background(), domain.ItemMedia{}, "https://example.com/article"))
	assert.Equal(t, int32(1), hits.Load(), "only the allow-listed page is fetched")
}

func TestSleep(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, sleep(context.Background(), 0))
	assert.NoError(t, sleep(context.Background(), time.Millisecond))
	assert.ErrorIs(t, sleep(canceled, 0), context.Canceled, "zero delay still reports canceled context")
	assert.ErrorIs(t, sleep(canceled, time.Second), context.Canceled)
}

func TestMetaImage(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{name: "none", html: `<html><head><title>x</title></head></html>`, want: ""},
		{name: "secure url wins", want: "https://cdn/secure.jpg", html: `<head>
			<meta name="twitter:image" content="https://cdn/tw.jpg">
			<meta property="og:image" content="https://cdn/og.jpg">
			<meta property="og:image:secure_url" content="https://cdn/secure.jpg">
		</head>`},
		{name: "og before twitter", want: "https://cdn/og.jpg", html: `<head>
			<meta name="twitter:image" content="https://cdn/tw.jpg">
			<meta property="og:image" content="https://cdn/og.jpg">
		</head>`},
		{name: "content before property", want: "https://cdn/og.jpg",
			html: `<head><meta content="https://cdn/og.jpg" property="og:image"></head>`},
		{name: "twitter image src last", want: "https://cdn/src.jpg",
			html: `<head><meta name="twitter:image:src" content="https://cdn/src.jpg"></head>`},
		{name: "twitter image beats src", want: "https://cdn/tw.jpg", html: `<head>
			<meta name="twitter:image:src" content="https://cdn/src.jpg">
			<meta content="https://cdn/tw.jpg" name="twitter:image">
		</head>`},
		{name: "empty content skipped", want: "https://cdn/tw.jpg", html: `<head>
			<meta property="og:image" content="">
			<meta name="twitter:image" content="https://cdn/tw.jpg">
		</head>`},
		{name: "og in name attribute", want: "https://cdn/og.jpg",
			html: `<head><meta name="OG:IMAGE" content="https://cdn/og.jpg"></head>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, MetaImage(doc))
		})
	}
}

func TestResolver_Scrape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TestBot/1.0", r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Accept"), "text/html")
		assert.Equal(t, "en-GB,en;q=0.9", r.Header.Get("Accept-Language"))
		switch r.URL.Path {
		case "/relative":
			w.Write([]byte(`<html><head><meta property="og:image" content="/img/cover.jpg"></head></html>`))
		case "/absolute":
			w.Write([]byte(`<html><head><meta content="https://cdn.example.com/a.png" name="twitter:image"></head></html>`))
		case "/none":
			w.Write([]byte(`<html><head></head><body>no images</body></html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	r := NewResolver(Config{Timeout: time.Second, UserAgent: "TestBot/1.0", ScrapeDelay: time.Millisecond})

	t.Run("relative image resolved against page", func(t *testing.T) {
		assert.Equal(t, ts.URL+"/img/cover.jpg", r.Scrape(context.Background(), ts.URL+"/relative"))
	})

	t.Run("absolute image kept", func(t *testing.T) {
		assert.Equal(t, "https://cdn.example.com/a.png", r.Scrape(context.Background(), ts.URL+"/absolute"))
	})

	t.Run("no meta tags", func(t *testing.T) {
		assert.Empty(t, r.Scrape(context.Background(), ts.URL+"/none"))
	})

	t.Run("http error", func(t *testing.T) {
		assert.Empty(t, r.Scrape(context.Background(), ts.URL+"/missing"))
	})

	t.Run("network error", func(t *testing.T) {
		assert.Empty(t, r.Scrape(context.Background(), "http://127.0.0.1:1/page"))
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		slow := NewResolver(Config{ScrapeDelay: time.Second})
		assert.Empty(t, slow.Scrape(ctx, ts.URL+"/relative"))
		assert.Empty(t, NewResolver(Config{}).Scrape(ctx, ts.URL+"/relative"), "no delay")
	})
}

func TestResolver_Resolve(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`<head><meta property="og:image" content="/scraped.jpg"></head>`))
	}))
	defer ts.Close()

	allowed := NewResolver(Config{ScrapeHosts: []string{"127.0.0.1"}})
	notAllowed := NewResolver(Config{ScrapeHosts: []string{"financefeeds.com"}})

	t.Run("metadata wins without scraping", func(t *testing.T) {
		hits.Store(0)
		media := domain.ItemMedia{Enclosures: []string{"https://cdn/enc.jpg"}, MediaContent: []string{"https://cdn/mc.jpg"}}
		assert.Equal(t, "https://cdn/enc.jpg", allowed.Resolve(context.Background(), media, ts.URL+"/a"))
		assert.Zero(t, hits.Load())
	})

	t.Run("allow-listed host scraped", func(t *testing.T) {
		hits.Store(0)
		assert.Equal(t, ts.URL+"/scraped.jpg", allowed.Resolve(context.Background(), domain.ItemMedia{}, ts.URL+"/a"))
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("other hosts not scraped", func(t *testing.T) {
		hits.Store(0)
		assert.Empty(t, notAllowed.Resolve(context.Background(), domain.ItemMedia{}, ts.URL+"/a"))
		assert.Zero(t, hits.Load())
	})
}
