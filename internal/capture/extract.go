package capture

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/linkpad/linkpad/internal/apperr"
)

// minContentLength is the shortest extraction considered readable; below
// it the page is treated as having no usable content.
const minContentLength = 50

var whitespaceRe = regexp.MustCompile(`\s+`)

// Extraction holds the readable parts of a fetched page.
type Extraction struct {
	Title       string
	Description string
	Content     string
}

// Extract parses an HTML document and pulls out its title, description,
// and main readable text. Content shorter than minContentLength is
// dropped; boilerplate regions (nav, script, footer) never contribute.
func Extract(body []byte) (*Extraction, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrExtraction, err, "failed to parse html")
	}

	ex := &Extraction{
		Title:       extractTitle(doc),
		Description: metaByName(doc, "description"),
		Content:     extractContent(doc),
	}
	if ex.Description == "" {
		ex.Description = metaByProperty(doc, "og:description")
	}
	if len(ex.Content) < minContentLength {
		ex.Content = ""
	}
	return ex, nil
}

// extractTitle prefers the <title> element, then og:title, then the
// first h1.
func extractTitle(doc *html.Node) string {
	title := firstText(doc, "title")
	if title == "" {
		title = metaByProperty(doc, "og:title")
	}
	if title == "" {
		title = firstText(doc, "h1")
	}
	return cleanText(title)
}

// extractContent walks the document looking for an article or main
// container, falling back to the whole body. Script, style, and
// navigation chrome are skipped.
func extractContent(doc *html.Node) string {
	var b strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "aside", "header", "noscript":
				return
			case "article", "main":
				collectText(n, &b)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if b.Len() == 0 {
		if body := findElement(doc, "body"); body != nil {
			collectText(body, &b)
		}
	}
	return cleanText(b.String())
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			b.WriteString(text)
			b.WriteByte(' ')
		}
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "li", "tr":
			b.WriteByte('\n')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}

func findElement(doc *html.Node, tag string) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == tag {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}

// firstText returns the text of the first element with the given tag.
func firstText(doc *html.Node, tag string) string {
	n := findElement(doc, tag)
	if n == nil || n.FirstChild == nil || n.FirstChild.Type != html.TextNode {
		return ""
	}
	return strings.TrimSpace(n.FirstChild.Data)
}

func metaByName(doc *html.Node, name string) string {
	return metaContent(doc, "name", name)
}

func metaByProperty(doc *html.Node, property string) string {
	return metaContent(doc, "property", property)
}

func metaContent(doc *html.Node, attrKey, attrVal string) string {
	var result string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if result != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "meta" {
			var matched bool
			var content string
			for _, attr := range n.Attr {
				if attr.Key == attrKey && strings.EqualFold(attr.Val, attrVal) {
					matched = true
				}
				if attr.Key == "content" {
					content = attr.Val
				}
			}
			if matched && content != "" {
				result = content
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return result
}

// cleanText collapses runs of whitespace to single spaces.
func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
