package capture

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articlePage = `<!DOCTYPE html>
<html><head>
<title>Understanding WAL Mode</title>
<meta name="description" content="How write-ahead logging changes SQLite concurrency.">
</head><body>
<nav>home archive about</nav>
<article>
<h1>Understanding WAL Mode</h1>
<p>Write-ahead logging lets readers proceed while a writer appends to the log,
which changes the locking story completely for embedded databases.</p>
</article>
<footer>copyright footer text</footer>
<script>trackVisitor();</script>
</body></html>`

func TestExtractArticle(t *testing.T) {
	ex, err := Extract([]byte(articlePage))
	require.NoError(t, err)

	assert.Equal(t, "Understanding WAL Mode", ex.Title)
	assert.Equal(t, "How write-ahead logging changes SQLite concurrency.", ex.Description)
	assert.Contains(t, ex.Content, "Write-ahead logging lets readers proceed")
	assert.NotContains(t, ex.Content, "home archive")
	assert.NotContains(t, ex.Content, "copyright footer")
	assert.NotContains(t, ex.Content, "trackVisitor")
}

func TestExtractTitleFallbacks(t *testing.T) {
	cases := []struct {
		name string
		page string
		want string
	}{
		{
			"og-title",
			`<html><head><meta property="og:title" content="From OG"></head><body></body></html>`,
			"From OG",
		},
		{
			"h1",
			`<html><body><h1>From H1</h1></body></html>`,
			"From H1",
		},
		{
			"title-wins",
			`<html><head><title>From Title</title><meta property="og:title" content="From OG"></head><body><h1>From H1</h1></body></html>`,
			"From Title",
		},
		{
			"none",
			`<html><body><p>no headings at all</p></body></html>`,
			"",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ex, err := Extract([]byte(tc.page))
			require.NoError(t, err)
			assert.Equal(t, tc.want, ex.Title)
		})
	}
}

func TestExtractDescriptionFallsBackToOG(t *testing.T) {
	page := `<html><head><meta property="og:description" content="social description"></head><body></body></html>`
	ex, err := Extract([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, "social description", ex.Description)
}

func TestExtractBodyFallback(t *testing.T) {
	page := `<html><body><div><p>` + strings.Repeat("plain body paragraph text ", 5) + `</p></div></body></html>`
	ex, err := Extract([]byte(page))
	require.NoError(t, err)
	assert.Contains(t, ex.Content, "plain body paragraph text")
}

func TestExtractShortContentDropped(t *testing.T) {
	page := `<html><body><article><p>too short</p></article></body></html>`
	ex, err := Extract([]byte(page))
	require.NoError(t, err)
	assert.Empty(t, ex.Content)
}

func TestExtractNormalizesWhitespace(t *testing.T) {
	page := `<html><head><title>  spaced
	out   title </title></head><body><article><p>` +
		strings.Repeat("word      word\n\n", 10) + `</p></article></body></html>`
	ex, err := Extract([]byte(page))
	require.NoError(t, err)
	assert.Equal(t, "spaced out title", ex.Title)
	assert.NotContains(t, ex.Content, "  ")
}
