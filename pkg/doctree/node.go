package doctree

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Well-known element types. Anything else is carried through untouched.
const (
	TypeParagraph      = "paragraph"
	TypeHeadingOne     = "heading-one"
	TypeHeadingTwo     = "heading-two"
	TypeHeadingThree   = "heading-three"
	TypeBlockQuote     = "block-quote"
	TypeCode           = "code"
	TypeOrderedList    = "ordered-list"
	TypeUnorderedList  = "unordered-list"
	TypeNumberedList   = "numbered-list"
	TypeBulletedList   = "bulleted-list"
	TypeListItem       = "list-item"
	TypeTable          = "table"
	TypeTableRow       = "table-row"
	TypeTableCell      = "table-cell"
	TypeHorizontalLine = "horizontal-line"
	TypeLink           = "link"
	TypeImage          = "image"
	TypeAudio          = "audio"
	TypeYoutube        = "youtube"
	TypePecha          = "pecha"
	TypeCustomPecha    = "custompecha"
)

var (
	listTypes = map[string]bool{
		TypeOrderedList:   true,
		TypeUnorderedList: true,
		TypeNumberedList:  true,
		TypeBulletedList:  true,
	}
	inlineTypes = map[string]bool{
		TypeLink: true,
	}
	voidTypes = map[string]bool{
		TypeImage:          true,
		TypeAudio:          true,
		TypeYoutube:        true,
		TypePecha:          true,
		TypeCustomPecha:    true,
		TypeHorizontalLine: true,
	}
)

// Props holds the non-structural attributes of a node: marks on text leaves,
// align/url/src/... on elements.
type Props map[string]any

func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func (p Props) Bool(key string) bool {
	v, ok := p[key].(bool)
	return ok && v
}

func (p Props) String(key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (p Props) Equal(other Props) bool {
	if len(p) != len(other) {
		return false
	}
	for k, v := range p {
		ov, ok := other[k]
		if !ok || fmt.Sprint(v) != fmt.Sprint(ov) {
			return false
		}
	}
	return true
}

// Node is either a text leaf or an element. Text leaves carry Text and mark
// Props; elements carry Type, Props and at least one child once normalized.
type Node struct {
	Type     string
	Text     string
	Props    Props
	Children []*Node

	text bool
}

func NewText(text string, props Props) *Node {
	return &Node{Text: text, Props: props.Clone(), text: true}
}

// NewElement builds an element; with no children it gets a single empty leaf.
func NewElement(typ string, props Props, children ...*Node) *Node {
	if len(children) == 0 {
		children = []*Node{NewText("", nil)}
	}
	return &Node{Type: typ, Props: props.Clone(), Children: children}
}

func NewParagraph(text string) *Node {
	return NewElement(TypeParagraph, nil, NewText(text, nil))
}

func (n *Node) IsText() bool {
	return n != nil && n.text
}

func (n *Node) IsElement() bool {
	return n != nil && !n.text
}

// IsBlock reports whether n is a block-level element.
func (n *Node) IsBlock() bool {
	return n.IsElement() && !inlineTypes[n.Type]
}

func (n *Node) IsInline() bool {
	return n.IsText() || (n.IsElement() && inlineTypes[n.Type])
}

// IsVoid reports whether n is an embed whose single empty leaf is not editable.
func (n *Node) IsVoid() bool {
	return n.IsElement() && voidTypes[n.Type]
}

func (n *Node) IsList() bool {
	return n.IsElement() && listTypes[n.Type]
}

func IsListType(typ string) bool {
	return listTypes[typ]
}

// Get returns the value of key; "type" reads the element type.
func (n *Node) Get(key string) any {
	if n == nil {
		return nil
	}
	if key == "type" && n.IsElement() {
		return n.Type
	}
	return n.Props[key]
}

func (n *Node) Bool(key string) bool {
	if n == nil {
		return false
	}
	return n.Props.Bool(key)
}

func (n *Node) Attr(key string) string {
	if n == nil {
		return ""
	}
	if key == "type" {
		return n.Type
	}
	return n.Props.String(key)
}

// Content is the concatenated text of every leaf below n.
func (n *Node) Content() string {
	if n == nil {
		return ""
	}
	if n.IsText() {
		return n.Text
	}
	var out []byte
	for _, c := range n.Children {
		out = append(out, c.Content()...)
	}
	return string(out)
}

func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Type: n.Type, Text: n.Text, Props: n.Props.Clone(), text: n.text}
	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}
	return out
}

// Equal reports whether n and other describe the same subtree.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.text != other.text || n.Type != other.Type || n.Text != other.Text || !n.Props.Equal(other.Props) {
		return false
	}
	return NodesEqual(n.Children, other.Children)
}

func NodesEqual(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// size is the rune length of a leaf or the child count of an element.
func (n *Node) size() int {
	if n.IsText() {
		return utf8.RuneCountInString(n.Text)
	}
	return len(n.Children)
}

func (n *Node) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(n.Props)+2)
	for k, v := range n.Props {
		out[k] = v
	}
	if n.IsText() {
		out["text"] = n.Text
		return json.Marshal(out)
	}
	if n.Type != "" {
		out["type"] = n.Type
	}
	children := n.Children
	if children == nil {
		children = []*Node{}
	}
	out["children"] = children
	return json.Marshal(out)
}

// UnmarshalJSON decodes the flat wire shape: an object is a text leaf iff it
// has a "text" key.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = Node{}
	if t, ok := raw["text"]; ok {
		if err := json.Unmarshal(t, &n.Text); err != nil {
			return fmt.Errorf("decode text: %w", err)
		}
		n.text = true
		delete(raw, "text")
	} else {
		if t, ok := raw["type"]; ok {
			if err := json.Unmarshal(t, &n.Type); err != nil {
				return fmt.Errorf("decode type: %w", err)
			}
			delete(raw, "type")
		}
		if c, ok := raw["children"]; ok {
			if err := json.Unmarshal(c, &n.Children); err != nil {
				return fmt.Errorf("decode children: %w", err)
			}
			delete(raw, "children")
		}
	}
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("decode %s: %w", k, err)
		}
		if n.Props == nil {
			n.Props = Props{}
		}
		n.Props[k] = val
	}
	return nil
}
