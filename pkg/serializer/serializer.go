// Package serializer lowers a document tree to the HTML string that is
// persisted and displayed, and builds the save payload from it.
package serializer

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"sheets-editor-be/pkg/doctree"
)

// ElementHandler renders one element given its already-serialized children.
type ElementHandler func(n *doctree.Node, children string) string

// MarkTag maps a boolean leaf flag to the tag wrapping the text.
type MarkTag struct {
	Flag string
	Tag  string
}

// DefaultMarks lists mark tags outermost first.
var DefaultMarks = []MarkTag{
	{Flag: "bold", Tag: "strong"},
	{Flag: "italic", Tag: "em"},
	{Flag: "underline", Tag: "u"},
	{Flag: "code", Tag: "code"},
}

// Serializer is safe for concurrent use; Register may be called at any time.
type Serializer struct {
	mu       sync.RWMutex
	elements map[string]ElementHandler
	marks    []MarkTag
}

func New() *Serializer {
	s := &Serializer{
		elements: map[string]ElementHandler{},
		marks:    DefaultMarks,
	}
	s.registerDefaults()
	return s
}

var defaultSerializer = New()

// Serialize renders n with the default tables.
func Serialize(n *doctree.Node) string {
	return defaultSerializer.Serialize(n)
}

func SerializeDocument(nodes []*doctree.Node) string {
	return defaultSerializer.SerializeDocument(nodes)
}

// Register adds or replaces the handler for an element type.
func (s *Serializer) Register(typ string, h ElementHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements[typ] = h
}

func (s *Serializer) SerializeDocument(nodes []*doctree.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(s.Serialize(n))
	}
	return b.String()
}

// Serialize never fails: unknown types fall back to a div and shapeless nodes
// to their children.
func (s *Serializer) Serialize(n *doctree.Node) string {
	if n == nil {
		return ""
	}
	if n.IsText() {
		return s.text(n)
	}

	var children strings.Builder
	for _, c := range n.Children {
		children.WriteString(s.Serialize(c))
	}
	if n.Type == "" {
		return children.String()
	}

	s.mu.RLock()
	h, ok := s.elements[n.Type]
	s.mu.RUnlock()
	if !ok {
		return block("div")(n, children.String())
	}
	return h(n, children.String())
}

func (s *Serializer) text(n *doctree.Node) string {
	if n.Text == "" {
		return ""
	}
	out := strings.ReplaceAll(html.EscapeString(n.Text), "\n", "<br>")

	// Apply marks from inside out so the first table entry ends up outermost.
	for i := len(s.marks) - 1; i >= 0; i-- {
		if n.Bool(s.marks[i].Flag) {
			out = fmt.Sprintf("<%s>%s</%s>", s.marks[i].Tag, out, s.marks[i].Tag)
		}
	}
	if style := leafStyle(n.Props); style != "" {
		out = fmt.Sprintf(`<span style="%s">%s</span>`, html.EscapeString(style), out)
	}
	return out
}

func (s *Serializer) registerDefaults() {
	for typ, tag := range map[string]string{
		doctree.TypeParagraph:     "p",
		doctree.TypeHeadingOne:    "h1",
		doctree.TypeHeadingTwo:    "h2",
		doctree.TypeHeadingThree:  "h3",
		doctree.TypeBlockQuote:    "blockquote",
		doctree.TypeOrderedList:   "ol",
		doctree.TypeNumberedList:  "ol",
		doctree.TypeUnorderedList: "ul",
		doctree.TypeBulletedList:  "ul",
		doctree.TypeListItem:      "li",
		doctree.TypeTableRow:      "tr",
		doctree.TypeTableCell:     "td",
	} {
		s.elements[typ] = block(tag)
	}

	s.elements[doctree.TypeCode] = func(n *doctree.Node, children string) string {
		return fmt.Sprintf("<pre%s><code>%s</code></pre>", alignAttr(n), children)
	}
	s.elements[doctree.TypeTable] = func(_ *doctree.Node, children string) string {
		return "<table><tbody>" + children + "</tbody></table>"
	}
	s.elements[doctree.TypeHorizontalLine] = func(*doctree.Node, string) string {
		return "<hr>"
	}
	s.elements[doctree.TypeLink] = func(n *doctree.Node, children string) string {
		attrs := fmt.Sprintf(` href="%s"`, html.EscapeString(n.Attr("url")))
		if ref := n.Attr("ref"); ref != "" {
			attrs += fmt.Sprintf(` class="refLink" data-ref="%s"`, html.EscapeString(ref))
		}
		return "<a" + attrs + ">" + children + "</a>"
	}
	s.elements[doctree.TypeImage] = func(n *doctree.Node, _ string) string {
		if src := n.Attr("src"); src != "" {
			return src
		}
		return n.Attr("url")
	}
	s.elements[doctree.TypeAudio] = func(n *doctree.Node, _ string) string {
		return n.Attr("url")
	}
	s.elements[doctree.TypeYoutube] = func(n *doctree.Node, _ string) string {
		return YoutubeEmbedURL(n.Attr("youtubeId"))
	}
	s.elements[doctree.TypePecha] = func(n *doctree.Node, _ string) string {
		return n.Attr("src")
	}
	s.elements[doctree.TypeCustomPecha] = func(n *doctree.Node, _ string) string {
		return n.Attr("src")
	}
}

func YoutubeEmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + id + "?rel=0&showinfo=0"
}

func block(tag string) ElementHandler {
	return func(n *doctree.Node, children string) string {
		return "<" + tag + alignAttr(n) + ">" + children + "</" + tag + ">"
	}
}

func alignAttr(n *doctree.Node) string {
	align := n.Attr("align")
	if align == "" {
		return ""
	}
	return fmt.Sprintf(` style="text-align: %s"`, html.EscapeString(align))
}
