package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText_FallsBackToOpenGraph(t *testing.T) {
	html := `<html><head>
<meta property="og:description" content="An  app-rendered page">
</head><body><script>render()</script></body></html>`

	text, err := extractText([]byte(html))
	require.NoError(t, err)
	assert.Equal(t, "An app-rendered page", text)
}

func TestExtractText_FallsBackToMetaDescription(t *testing.T) {
	html := `<html><head><title>T</title><meta name="description" content="Meta text"></head><body></body></html>`

	text, err := extractText([]byte(html))
	require.NoError(t, err)
	assert.Equal(t, "T\nMeta text", text)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "héllo", truncateRunes("héllo", 0))
	assert.Equal(t, "hi", truncateRunes("hi", 10))
}
