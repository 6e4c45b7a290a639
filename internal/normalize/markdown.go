// Package normalize turns markup-formatted job descriptions into plain text.
package normalize

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"go-jobsift/internal/models"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(renderer.WithNodeRenderers(util.Prioritized(rawHTMLRenderer{}, 100))),
	)

	blankLinesRegex = regexp.MustCompile(`\n{3,}`)
)

// block elements end with a paragraph break, line elements with a newline
var (
	blockTags = map[string]bool{
		"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"pre": true, "blockquote": true, "table": true, "ul": true, "ol": true, "hr": true, "div": true,
	}
	lineTags = map[string]bool{
		"li": true, "tr": true, "dt": true, "dd": true,
	}
	//whitespace between children of these is layout, not content
	containerTags = map[string]bool{
		"html": true, "head": true, "body": true, "ul": true, "ol": true, "blockquote": true,
		"table": true, "thead": true, "tbody": true, "tfoot": true, "tr": true, "div": true, "dl": true,
	}
	skipTags = map[string]bool{
		"script": true, "style": true, "head": true,
	}
)

// a few scraped descriptions are escaped several times over
const maxPasses = 5

// Markdown strips markup (headings, emphasis, links, lists, inline HTML) and
// returns readable plain text. Plain text comes back unchanged apart from
// whitespace. Conversion repeats until the text stops changing, so escaped
// markup ("\*\*", "&lt;b&gt;") is stripped too and the result is a fixed point.
func Markdown(text string) string {
	out := convert(text)
	for i := 1; i < maxPasses; i++ {
		next := convert(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

func convert(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		//goldmark only fails on writer errors; fall back to whitespace cleanup
		return cleanup(text)
	}

	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return cleanup(text)
	}

	var sb strings.Builder
	for _, n := range doc.Nodes {
		writeText(&sb, n)
	}
	return cleanup(sb.String())
}

// Postings normalizes each posting's description in place and returns the slice
func Postings(postings []models.Posting) []models.Posting {
	for i := range postings {
		postings[i].Description = Markdown(postings[i].Description)
	}
	return postings
}

func writeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if n.Parent != nil && n.Parent.Type == html.ElementNode && containerTags[n.Parent.Data] &&
			strings.TrimSpace(n.Data) == "" {
			return
		}
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		switch {
		case skipTags[n.Data]:
			return
		case n.Data == "br":
			sb.WriteString("\n")
			return
		case n.Data == "img":
			for _, attr := range n.Attr {
				if attr.Key == "alt" {
					sb.WriteString(attr.Val)
				}
			}
			return
		case n.Data == "td" || n.Data == "th":
			if n.PrevSibling != nil {
				sb.WriteString(" ")
			}
		case lineTags[n.Data]:
			ensureNewline(sb)
		}
	case html.DocumentNode:
	default:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(sb, c)
	}

	if n.Type != html.ElementNode {
		return
	}
	switch {
	case blockTags[n.Data]:
		sb.WriteString("\n\n")
	case lineTags[n.Data]:
		sb.WriteString("\n")
	}
}

func ensureNewline(sb *strings.Builder) {
	s := sb.String()
	if s != "" && !strings.HasSuffix(s, "\n") {
		sb.WriteString("\n")
	}
}

func cleanup(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = norm.NFC.String(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	text = strings.Join(lines, "\n")

	text = blankLinesRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
