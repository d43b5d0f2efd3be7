package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "  ", want: ""},
		{name: "plain", in: "just text", want: "just text"},
		{name: "tags dropped", in: "<p>Hello <b>world</b></p>", want: "Hello world"},
		{name: "paragraphs separated", in: "<p>One</p><p>Two</p>", want: "One Two"},
		{name: "entities decoded", in: "Fish &amp; chips &quot;today&quot;", want: `Fish & chips "today"`},
		{name: "scripts removed", in: "<script>alert(1)</script><p>safe</p>", want: "safe"},
		{name: "whitespace collapsed", in: "a\n\n\t b   c", want: "a b c"},
		{name: "line breaks", in: "line one<br/>line two", want: "line one line two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestFirstText(t *testing.T) {
	assert.Equal(t, "from description", FirstText("", "<p> </p>", "<p>from description</p>", "later"))
	assert.Empty(t, FirstText("", "  "))
	assert.Empty(t, FirstText())
}
