package content

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// PlainText converts feed html (content:encoded, description) to plain text:
// tags dropped, entities decoded, whitespace collapsed.
func PlainText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	// pad block tags so adjacent paragraphs stay separate words
	s = blockTags.Replace(s)
	text := html.UnescapeString(strictPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

var blockTags = strings.NewReplacer(
	"</p>", "</p> ", "<br>", " <br>", "<br/>", " <br/>", "<br />", " <br />",
	"</div>", "</div> ", "</li>", "</li> ", "</h1>", "</h1> ", "</h2>", "</h2> ", "</h3>", "</h3> ",
)

// FirstText returns plain text of the first candidate carrying any text
func FirstText(candidates ...string) string {
	for _, c := range candidates {
		if text := PlainText(c); text != "" {
			return text
		}
	}
	return ""
}
