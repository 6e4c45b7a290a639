package normalize

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

var tagRegex = regexp.MustCompile(`</?([A-Za-z][A-Za-z0-9-]*)[^<>]*>`)

// formatting and layout elements that show up in job descriptions
var htmlTags = map[string]bool{
	"a": true, "abbr": true, "article": true, "b": true, "blockquote": true, "br": true, "center": true,
	"code": true, "dd": true, "del": true, "div": true, "dl": true, "dt": true, "em": true, "font": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "i": true, "img": true, "ins": true, "li": true, "mark": true, "ol": true, "p": true,
	"pre": true, "s": true, "section": true, "small": true, "span": true, "strike": true, "strong": true,
	"sub": true, "sup": true, "table": true, "tbody": true, "td": true, "tfoot": true, "th": true,
	"thead": true, "tr": true, "u": true, "ul": true,
}

// isHTMLTag reports whether name is a known element written the way HTML is
// written, so List<String> or <Option> stay text
func isHTMLTag(name string) bool {
	lower := strings.ToLower(name)
	if name != lower && name != strings.ToUpper(name) {
		return false
	}
	return htmlTags[lower]
}

// escapeUnknownTags escapes every tag in raw that is not a known element
func escapeUnknownTags(raw []byte) []byte {
	return tagRegex.ReplaceAllFunc(raw, func(tag []byte) []byte {
		name := tagRegex.FindSubmatch(tag)[1]
		if isHTMLTag(string(name)) {
			return tag
		}
		return util.EscapeHTML(tag)
	})
}

// rawHTMLRenderer passes known tags through for goquery to strip and renders
// anything else that merely looks like a tag as text
type rawHTMLRenderer struct{}

func (r rawHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindRawHTML, r.renderRawHTML)
	reg.Register(ast.KindHTMLBlock, r.renderHTMLBlock)
}

func (r rawHTMLRenderer) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		w.Write(escapeUnknownTags(seg.Value(source)))
	}
	return ast.WalkSkipChildren, nil
}

func (r rawHTMLRenderer) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.HTMLBlock)
	if entering {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			w.Write(escapeUnknownTags(line.Value(source)))
		}
		return ast.WalkContinue, nil
	}
	if n.HasClosure() {
		w.Write(escapeUnknownTags(n.ClosureLine.Value(source)))
	}
	return ast.WalkContinue, nil
}
