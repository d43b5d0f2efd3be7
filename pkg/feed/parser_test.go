package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	rssContent := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
	<title>Test Feed</title>
	<link>http://example.com</link>
	<description>Test Description</description>
	<item>
		<title>Test Article 1</title>
		<link>http://example.com/article1</link>
		<description>Article 1 description</description>
		<content:encoded><![CDATA[<p>Full content of article 1</p>]]></content:encoded>
		<pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate>
		<guid>http://example.com/article1</guid>
		<author>test@example.com (Test Author)</author>
	</item>
	<item>
		<title>Test Article 2</title>
		<link>http://example.com/article2</link>
		<description>Article 2 description</description>
		<pubDate>Tue, 03 Jan 2006 15:04:05 -0700</pubDate>
	</item>
</channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssContent))
	}))
	defer server.Close()

	parser := NewParser(5*time.Second, "")
	feed, err := parser.Parse(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Test Feed", feed.Title)
	assert.Equal(t, "Test Description", feed.Description)
	assert.Equal(t, "http://example.com", feed.Link)

	require.Len(t, feed.Items, 2)

	// check first item
	item1 := feed.Items[0]
	assert.Equal(t, "Test Article 1", item1.Title)
	assert.Equal(t, "http://example.com/article1", item1.Link)
	assert.Equal(t, "Article 1 description", item1.Description)
	assert.Equal(t, "<p>Full content of article 1</p>", item1.Content)
	assert.Equal(t, "http://example.com/article1", item1.GUID)
	assert.Equal(t, "Test Author", item1.Author)
	assert.False(t, item1.Published.IsZero())

	// check second item - should generate GUID from link
	item2 := feed.Items[1]
	assert.Equal(t, "Test Article 2", item2.Title)
	assert.Equal(t, "http://example.com/article2", item2.Link)
	assert.Equal(t, "http://example.com/article2", item2.GUID)
}

func TestParser_Parse_AtomFeed(t *testing.T) {
	atomContent := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>Test Atom Feed</title>
	<link href="http://example.com"/>
	<subtitle>Test Subtitle</subtitle>
	<entry>
		<title>Atom Entry 1</title>
		<link href="http://example.com/entry1"/>
		<id>urn:uuid:1225c695-cfb8-4ebb-aaaa-80da344efa6a</id>
		<updated>2006-01-02T15:04:05Z</updated>
		<summary>Entry 1 summary</summary>
		<author>
			<name>John Doe</name>
		</author>
	</entry>
</feed>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(atomContent))
	}))
	defer server.Close()

	parser := NewParser(5*time.Second, "")
	feed, err := parser.Parse(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Test Atom Feed", feed.Title)
	assert.Equal(t, "Test Subtitle", feed.Description)

	require.Len(t, feed.Items, 1)
	item := feed.Items[0]
	assert.Equal(t, "Atom Entry 1", item.Title)
	assert.Equal(t, "http://example.com/entry1", item.Link)
	assert.Equal(t, "urn:uuid:1225c695-cfb8-4ebb-aaaa-80da344efa6a", item.GUID)
	assert.Equal(t, "John Doe", item.Author)
}

func TestParser_Parse_Errors(t *testing.T) {
	t.Run("HTTP error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		parser := NewParser(5*time.Second, "")
		_, err := parser.Parse(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 500")
	})

	t.Run("Invalid XML", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not xml"))
		}))
		defer server.Close()

		parser := NewParser(5*time.Second, "")
		_, err := parser.Parse(context.Background(), server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse feed")
	})

	t.Run("Timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte("too late"))
		}))
		defer server.Close()

		parser := NewParser(100*time.Millisecond, "")
		_, err := parser.Parse(context.Background(), server.URL)
		require.Error(t, err)
	})

	t.Run("Invalid URL", func(t *testing.T) {
		parser := NewParser(5*time.Second, "")
		_, err := parser.Parse(context.Background(), "not-a-url")
		require.Error(t, err)
	})
}

func TestParser_Parse_NoGUID(t *testing.T) {
	rssContent := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Test Feed</title>
	<item>
		<title>No GUID Article</title>
		<description>Article without GUID or link</description>
	</item>
</channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssContent))
	}))
	defer server.Close()

	parser := NewParser(5*time.Second, "")
	feed, err := parser.Parse(context.Background(), server.URL)
	require.NoError(t, err)

	require.Len(t, feed.Items, 1)
	item := feed.Items[0]
	// should generate GUID from feed title and item title
	assert.Equal(t, "Test Feed-No GUID Article", item.GUID)
}


func TestParser_Parse_Headers(t *testing.T) {
	var mu sync.Mutex
	var gotUA, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotUA, gotAccept = r.Header.Get("User-Agent"), r.Header.Get("Accept")
		mu.Unlock()
		w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>t</title></channel></rss>`))
	}))
	defer server.Close()

	t.Run("default user agent", func(t *testing.T) {
		_, err := NewParser(0, "").Parse(context.Background(), server.URL)
		require.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, DefaultUserAgent, gotUA)
		assert.Equal(t, "application/rss+xml, application/xml;q=0.9, */*;q=0.8", gotAccept)
	})

	t.Run("custom user agent", func(t *testing.T) {
		_, err := NewParser(time.Second, "TestBot/2.0").Parse(context.Background(), server.URL)
		require.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, "TestBot/2.0", gotUA)
	})
}

func TestParser_Parse_Media(t *testing.T) {
	rssContent := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
<channel>
	<title>Media Feed</title>
	<item>
		<title>With enclosure and media</title>
		<link>https://example.com/a</link>
		<enclosure url="https://cdn.example.com/enc.jpg" type="image/jpeg" length="100"/>
		<media:content url="https://cdn.example.com/content.jpg" medium="image"/>
		<media:thumbnail url="https://cdn.example.com/thumb.jpg"/>
	</item>
	<item>
		<title>Media group</title>
		<link>https://example.com/b</link>
		<media:group>
			<media:content url="https://cdn.example.com/group.jpg"/>
			<media:thumbnail url="https://cdn.example.com/group-thumb.jpg"/>
		</media:group>
	</item>
	<item>
		<title>Itunes image</title>
		<link>https://example.com/c</link>
		<itunes:image href="https://cdn.example.com/itunes.jpg"/>
	</item>
	<item>
		<title>Nothing</title>
		<link>https://example.com/d</link>
	</item>
</channel>
</rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssContent))
	}))
	defer server.Close()

	feed, err := NewParser(5*time.Second, "").Parse(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, feed.Items, 4)

	first := feed.Items[0].Media
	assert.Equal(t, []string{"https://cdn.example.com/enc.jpg"}, first.Enclosures)
	assert.Equal(t, []string{"https://cdn.example.com/content.jpg"}, first.MediaContent)
	assert.Equal(t, []string{"https://cdn.example.com/thumb.jpg"}, first.MediaThumbnails)

	group := feed.Items[1].Media
	assert.Empty(t, group.Enclosures)
	assert.Equal(t, []string{"https://cdn.example.com/group.jpg"}, group.MediaContent)
	assert.Equal(t, []string{"https://cdn.example.com/group-thumb.jpg"}, group.MediaThumbnails)

	assert.Equal(t, "https://cdn.example.com/itunes.jpg", feed.Items[2].Media.PublisherImage)

	none := feed.Items[3].Media
	assert.Empty(t, none.Enclosures)
	assert.Empty(t, none.MediaContent)
	assert.Empty(t, none.MediaThumbnails)
	assert.Empty(t, none.PublisherImage)
	assert.Empty(t, none.Image)
}
