package doctree

import (
	"fmt"
	"strings"
)

// Entry pairs a node with its path.
type Entry struct {
	Node *Node
	Path Path
}

// Matcher selects nodes during traversal.
type Matcher func(n *Node, p Path) bool

func MatchType(types ...string) Matcher {
	return func(n *Node, _ Path) bool {
		if !n.IsElement() {
			return false
		}
		for _, t := range types {
			if n.Type == t {
				return true
			}
		}
		return false
	}
}

func MatchText(n *Node, _ Path) bool { return n.IsText() }

func MatchBlock(n *Node, _ Path) bool { return n.IsBlock() }

func MatchList(n *Node, _ Path) bool { return n.IsList() }

// MatchPath matches exactly the node at target.
func MatchPath(target Path) Matcher {
	return func(_ *Node, p Path) bool { return p.Equals(target) }
}

// Mode picks among nested matches.
type Mode int

const (
	ModeAll Mode = iota
	ModeLowest
	ModeHighest
)

// Get returns the node at p. Out-of-range paths report false; negative
// indices are a programming error and panic with ErrMalformedPath.
func (e *Editor) Get(p Path) (*Node, bool) {
	n := e.root
	for _, i := range p {
		if i < 0 {
			panic(fmt.Errorf("%w: %v", ErrMalformedPath, p))
		}
		if n.IsText() || i >= len(n.Children) {
			return nil, false
		}
		n = n.Children[i]
	}
	return n, true
}

func (e *Editor) Has(p Path) bool {
	for _, i := range p {
		if i < 0 {
			return false
		}
	}
	_, ok := e.Get(p)
	return ok
}

func (e *Editor) mustNode(p Path) *Node {
	n, ok := e.Get(p)
	if !ok {
		panic(fmt.Errorf("%w: no node at %v", ErrMalformedPath, p))
	}
	return n
}

// Leaf returns the text leaf at p.
func (e *Editor) Leaf(p Path) (*Node, bool) {
	n, ok := e.Get(p)
	if !ok || !n.IsText() {
		return nil, false
	}
	return n, true
}

// HasPoint reports whether pt addresses a leaf and an offset within it.
func (e *Editor) HasPoint(pt Point) bool {
	if !e.Has(pt.Path) || len(pt.Path) == 0 {
		return false
	}
	leaf, ok := e.Leaf(pt.Path)
	return ok && pt.Offset >= 0 && pt.Offset <= leaf.size()
}

// Leaves lists every text leaf in document order.
func (e *Editor) Leaves() []Entry {
	var out []Entry
	var walk func(n *Node, p Path)
	walk = func(n *Node, p Path) {
		if n.IsText() {
			out = append(out, Entry{Node: n, Path: p})
			return
		}
		for i, c := range n.Children {
			walk(c, p.Child(i))
		}
	}
	walk(e.root, Path{})
	return out
}

// First returns the path of the first leaf at or below p.
func (e *Editor) First(p Path) (Path, bool) {
	n, ok := e.Get(p)
	if !ok {
		return nil, false
	}
	out := p.Clone()
	for n.IsElement() {
		if len(n.Children) == 0 {
			return nil, false
		}
		n = n.Children[0]
		out = append(out, 0)
	}
	return out, true
}

func (e *Editor) Last(p Path) (Path, bool) {
	n, ok := e.Get(p)
	if !ok {
		return nil, false
	}
	out := p.Clone()
	for n.IsElement() {
		if len(n.Children) == 0 {
			return nil, false
		}
		i := len(n.Children) - 1
		n = n.Children[i]
		out = append(out, i)
	}
	return out, true
}

func (e *Editor) Start(p Path) (Point, bool) {
	leaf, ok := e.First(p)
	if !ok {
		return Point{}, false
	}
	return Point{Path: leaf, Offset: 0}, true
}

func (e *Editor) End(p Path) (Point, bool) {
	leaf, ok := e.Last(p)
	if !ok {
		return Point{}, false
	}
	n, _ := e.Get(leaf)
	return Point{Path: leaf, Offset: n.size()}, true
}

// RangeOf spans the whole node at p.
func (e *Editor) RangeOf(p Path) (Range, bool) {
	s, ok := e.Start(p)
	if !ok {
		return Range{}, false
	}
	end, ok := e.End(p)
	if !ok {
		return Range{}, false
	}
	return Range{Anchor: s, Focus: end}, true
}

// DocumentRange spans the whole document.
func (e *Editor) DocumentRange() (Range, bool) {
	return e.RangeOf(Path{})
}

func (e *Editor) IsStart(pt Point, p Path) bool {
	s, ok := e.Start(p)
	return ok && s.Equals(pt)
}

func (e *Editor) IsEnd(pt Point, p Path) bool {
	end, ok := e.End(p)
	return ok && end.Equals(pt)
}

// String returns the text content of the node at p.
func (e *Editor) String(p Path) string {
	n, ok := e.Get(p)
	if !ok {
		return ""
	}
	return n.Content()
}

// IsEmpty reports whether an element's full text content is empty.
func (e *Editor) IsEmpty(n *Node) bool {
	return n.IsElement() && n.Content() == ""
}

// Above returns the closest element strictly above at that satisfies match.
func (e *Editor) Above(at Path, match Matcher) (Entry, bool) {
	if !e.Has(at) {
		return Entry{}, false
	}
	for depth := len(at) - 1; depth >= 1; depth-- {
		p := at[:depth].Clone()
		n, _ := e.Get(p)
		if n.IsElement() && (match == nil || match(n, p)) {
			return Entry{Node: n, Path: p}, true
		}
	}
	return Entry{}, false
}

// NodeAt returns the ancestor of path at the given depth (1 is top level).
func (e *Editor) NodeAt(path Path, depth int) (Entry, bool) {
	if depth < 1 || depth > len(path) {
		return Entry{}, false
	}
	p := path[:depth].Clone()
	n, ok := e.Get(p)
	if !ok {
		return Entry{}, false
	}
	return Entry{Node: n, Path: p}, true
}

// Block returns the lowest block containing the selection anchor.
func (e *Editor) Block() (Entry, bool) {
	if e.Selection == nil {
		return Entry{}, false
	}
	return e.Above(e.Selection.Anchor.Path, MatchBlock)
}

// Nodes returns every node intersecting span, in document order, filtered by
// match and mode. A nil match accepts everything.
func (e *Editor) Nodes(span Range, match Matcher, mode Mode) []Entry {
	start, end := span.Edges()
	var all []Entry
	var walk func(n *Node, p Path)
	walk = func(n *Node, p Path) {
		if p.Compare(start.Path) < 0 || p.Compare(end.Path) > 0 {
			return
		}
		if len(p) > 0 && (match == nil || match(n, p)) {
			all = append(all, Entry{Node: n, Path: p})
		}
		if n.IsElement() {
			for i, c := range n.Children {
				walk(c, p.Child(i))
			}
		}
	}
	walk(e.root, Path{})

	switch mode {
	case ModeHighest:
		var out []Entry
		for _, m := range all {
			if len(out) > 0 && out[len(out)-1].Path.IsAncestor(m.Path) {
				continue
			}
			out = append(out, m)
		}
		return out
	case ModeLowest:
		var out []Entry
		for i, m := range all {
			if i+1 < len(all) && m.Path.IsAncestor(all[i+1].Path) {
				continue
			}
			out = append(out, m)
		}
		return out
	}
	return all
}

// TextsIn returns the leaves that share at least one character with r, or the
// leaf under a collapsed r.
func (e *Editor) TextsIn(r Range) []Entry {
	if r.IsCollapsed() {
		if leaf, ok := e.Leaf(r.Anchor.Path); ok {
			return []Entry{{Node: leaf, Path: r.Anchor.Path.Clone()}}
		}
		return nil
	}
	var out []Entry
	for _, leaf := range e.Nodes(r, MatchText, ModeAll) {
		if covers(leaf, r) {
			out = append(out, leaf)
		}
	}
	return out
}

func (e *Editor) previousLeaf(p Path) (Entry, bool) {
	var out Entry
	found := false
	for _, leaf := range e.Leaves() {
		if leaf.Path.Compare(p) >= 0 {
			break
		}
		out, found = leaf, true
	}
	return out, found
}

// PrettyPath renders a path for log fields.
func PrettyPath(p Path) string {
	parts := make([]string, len(p))
	for i, v := range p {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
