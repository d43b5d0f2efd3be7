package feed

import "net/http"

const feedAccept = "application/rss+xml, application/xml;q=0.9, */*;q=0.8"

// addFeedHeaders sets the fixed identifying headers sent with every feed request
func addFeedHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", feedAccept)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Connection", "keep-alive")
}
