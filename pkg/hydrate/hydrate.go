// Package hydrate rebuilds a document tree from a persisted payload so an
// editing session can resume where the last save left off.
package hydrate

import (
	"regexp"
	"sort"
	"strings"

	"sheets-editor-be/pkg/doctree"
	"sheets-editor-be/pkg/embed"
	"sheets-editor-be/pkg/serializer"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	contentPolicy = newContentPolicy()
	youtubeEmbed  = regexp.MustCompile(`/embed/([A-Za-z0-9_-]+)`)
)

func newContentPolicy() *bluemonday.Policy {
	colorRegexp := regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|rgba?\([\d\s,.%]+\)|[a-zA-Z]+)$`)
	keywordRegexp := regexp.MustCompile(`^[a-zA-Z0-9\s-]+$`)

	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class", "data-ref").OnElements("a")
	p.AllowStyles("color", "background-color").Matching(colorRegexp).Globally()
	p.AllowStyles("text-align").Matching(bluemonday.CellAlign).Globally()
	p.AllowStyles("font-weight", "font-style", "text-decoration").Matching(keywordRegexp).Globally()
	return p
}

// FromPayload turns saved items back into a normalized tree. Embeds come back
// as their embed nodes, content items are sanitized and parsed. A source
// carrying a share-image URL is a custompecha, any other source a pecha.
func FromPayload(items []serializer.PayloadItem) []*doctree.Node {
	ordered := make([]serializer.PayloadItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	var nodes []*doctree.Node
	for _, item := range ordered {
		switch item.Type {
		case serializer.PayloadImage:
			nodes = append(nodes, doctree.NewElement(doctree.TypeImage, doctree.Props{"src": item.Content}))
		case serializer.PayloadAudio:
			nodes = append(nodes, doctree.NewElement(doctree.TypeAudio, doctree.Props{"url": embed.AudioURL(item.Content), "src": item.Content}))
		case serializer.PayloadVideo:
			if m := youtubeEmbed.FindStringSubmatch(item.Content); m != nil {
				nodes = append(nodes, doctree.NewElement(doctree.TypeYoutube, doctree.Props{"youtubeId": m[1]}))
				continue
			}
			nodes = append(nodes, doctree.NewParagraph(item.Content))
		case serializer.PayloadSource:
			if id := embed.SegmentID(item.Content); id != "" {
				nodes = append(nodes, doctree.NewElement(doctree.TypeCustomPecha, doctree.Props{"src": item.Content, "segmentId": id}))
				continue
			}
			nodes = append(nodes, doctree.NewElement(doctree.TypePecha, doctree.Props{"src": item.Content}))
		default:
			nodes = append(nodes, FromHTML(item.Content)...)
		}
	}
	return doctree.NewFromNodes(nodes).Document()
}

// FromHTML sanitizes s and parses it into blocks. Loose inline content is
// gathered into paragraphs.
func FromHTML(s string) []*doctree.Node {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	doc, err := html.Parse(strings.NewReader(contentPolicy.Sanitize(s)))
	if err != nil {
		return []*doctree.Node{doctree.NewParagraph(s)}
	}
	body := findBody(doc)
	if body == nil {
		return nil
	}
	return parseBlocks(body)
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

var blockTypes = map[atom.Atom]string{
	atom.P:          doctree.TypeParagraph,
	atom.Div:        doctree.TypeParagraph,
	atom.H1:         doctree.TypeHeadingOne,
	atom.H2:         doctree.TypeHeadingTwo,
	atom.H3:         doctree.TypeHeadingThree,
	atom.H4:         doctree.TypeHeadingThree,
	atom.H5:         doctree.TypeHeadingThree,
	atom.H6:         doctree.TypeHeadingThree,
	atom.Blockquote: doctree.TypeBlockQuote,
}

func parseBlocks(parent *html.Node) []*doctree.Node {
	var out, pending []*doctree.Node
	flush := func() {
		if len(pending) > 0 {
			out = append(out, doctree.NewElement(doctree.TypeParagraph, nil, pending...))
			pending = nil
		}
	}

	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			if strings.TrimSpace(c.Data) != "" {
				pending = append(pending, doctree.NewText(c.Data, nil))
			}
			continue
		}
		if c.Type != html.ElementNode {
			continue
		}

		if typ, ok := blockTypes[c.DataAtom]; ok {
			flush()
			out = append(out, doctree.NewElement(typ, blockProps(c), parseInline(c, nil)...))
			continue
		}
		switch c.DataAtom {
		case atom.Pre:
			flush()
			out = append(out, doctree.NewElement(doctree.TypeCode, blockProps(c), parseCode(c)...))
		case atom.Ul, atom.Ol:
			flush()
			out = append(out, parseList(c))
		case atom.Table:
			flush()
			out = append(out, parseTable(c))
		case atom.Hr:
			flush()
			out = append(out, doctree.NewElement(doctree.TypeHorizontalLine, nil))
		default:
			pending = append(pending, inlineNode(c, nil)...)
		}
	}
	flush()
	return out
}

func parseCode(pre *html.Node) []*doctree.Node {
	var out []*doctree.Node
	for c := pre.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Code {
			out = append(out, parseInline(c, nil)...)
			continue
		}
		out = append(out, inlineNode(c, nil)...)
	}
	return out
}

func parseList(list *html.Node) *doctree.Node {
	typ := doctree.TypeUnorderedList
	if list.DataAtom == atom.Ol {
		typ = doctree.TypeOrderedList
	}
	var items []*doctree.Node
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			items = append(items, doctree.NewElement(doctree.TypeListItem, blockProps(c), parseInline(c, nil)...))
		}
	}
	return doctree.NewElement(typ, nil, items...)
}

func parseTable(table *html.Node) *doctree.Node {
	var rows []*doctree.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Tr:
				var cells []*doctree.Node
				for td := c.FirstChild; td != nil; td = td.NextSibling {
					if td.Type == html.ElementNode && (td.DataAtom == atom.Td || td.DataAtom == atom.Th) {
						cells = append(cells, doctree.NewElement(doctree.TypeTableCell, blockProps(td), parseInline(td, nil)...))
					}
				}
				rows = append(rows, doctree.NewElement(doctree.TypeTableRow, nil, cells...))
			case atom.Thead, atom.Tbody, atom.Tfoot:
				walk(c)
			}
		}
	}
	walk(table)
	return doctree.NewElement(doctree.TypeTable, nil, rows...)
}

func parseInline(n *html.Node, marks doctree.Props) []*doctree.Node {
	var out []*doctree.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, inlineNode(c, marks)...)
	}
	return out
}

var markTags = map[atom.Atom]string{
	atom.Strong: "bold",
	atom.B:      "bold",
	atom.Em:     "italic",
	atom.I:      "italic",
	atom.U:      "underline",
	atom.Code:   "code",
}

func inlineNode(c *html.Node, marks doctree.Props) []*doctree.Node {
	switch c.Type {
	case html.TextNode:
		return []*doctree.Node{doctree.NewText(c.Data, marks)}
	case html.ElementNode:
	default:
		return nil
	}

	if mark, ok := markTags[c.DataAtom]; ok {
		return parseInline(c, with(marks, doctree.Props{mark: true}))
	}
	switch c.DataAtom {
	case atom.Br:
		return []*doctree.Node{doctree.NewText("\n", marks)}
	case atom.Span:
		return parseInline(c, with(marks, serializer.ParseStyle(attr(c, "style")).LeafProps()))
	case atom.A:
		children := parseInline(c, marks)
		if len(children) == 0 {
			return nil
		}
		props := doctree.Props{"url": attr(c, "href")}
		if ref := attr(c, "data-ref"); ref != "" {
			props["ref"] = ref
		}
		return []*doctree.Node{doctree.NewElement(doctree.TypeLink, props, children...)}
	}
	return parseInline(c, marks)
}

func blockProps(n *html.Node) doctree.Props {
	styles := serializer.ParseStyle(attr(n, "style"))
	if align, ok := styles["text-align"]; ok {
		return doctree.Props{"align": align}
	}
	return nil
}

func with(base, extra doctree.Props) doctree.Props {
	if len(extra) == 0 {
		return base
	}
	out := base.Clone()
	if out == nil {
		out = doctree.Props{}
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
