package doctree

import "unicode/utf8"

// InsertNodes inserts nodes at the selection, or where an At/AtPoint/AtRange
// option says. An expanded target range is deleted first. Block nodes split
// the enclosing block at the point (nothing is split at a block edge); inline
// nodes split the leaf. Unless an explicit path was given, the selection ends
// up at the end of the last inserted node. Returns false when there is nowhere
// to insert.
func (e *Editor) InsertNodes(nodes []*Node, opts ...Option) bool {
	if len(nodes) == 0 {
		return false
	}
	o := collect(opts)

	var endRef *PointRef
	ok := true
	e.WithoutNormalizing(func() {
		var at Path
		if o.path != nil {
			if !e.canInsertAt(o.path) {
				ok = false
				return
			}
			at = o.path.Clone()
		} else {
			pt, found := e.insertionPoint(o)
			if !found {
				ok = false
				return
			}
			depth := len(pt.Path)
			if !nodes[0].IsInline() {
				depth = e.blockDepth(pt.Path, o.modeOr(ModeLowest))
			}
			at = e.splitAt(pt, depth, false)
		}

		parent := at.Parent()
		first := at.Last()
		for i, n := range nodes {
			e.apply(Operation{Kind: OpInsertNode, Path: parent.Child(first + i), Node: withLeaves(n.Clone())})
		}
		if o.path == nil {
			if end, found := e.End(parent.Child(first + len(nodes) - 1)); found {
				endRef = e.PointRef(end, AffinityBackward)
			}
		}
	})

	if endRef != nil {
		if pt := endRef.Unref(); pt != nil {
			r := Collapsed(*pt)
			e.Selection = &r
		}
	}
	return ok
}

// RemoveNodes removes the node at p.
func (e *Editor) RemoveNodes(p Path) bool {
	n, ok := e.Get(p)
	if !ok || len(p) == 0 {
		return false
	}
	e.apply(Operation{Kind: OpRemoveNode, Path: p.Clone(), Node: n.Clone()})
	e.normalize()
	return true
}

func (e *Editor) canInsertAt(p Path) bool {
	if len(p) == 0 || p.Last() < 0 {
		return false
	}
	parent, ok := e.Get(p.Parent())
	return ok && parent.IsElement() && p.Last() <= len(parent.Children)
}

// insertionPoint resolves the collapsed point to insert at, deleting an
// expanded target first.
func (e *Editor) insertionPoint(o *options) (Point, bool) {
	if o.point != nil {
		if !e.HasPoint(*o.point) {
			return Point{}, false
		}
		return o.point.Clone(), true
	}
	span, ok := o.span(e)
	if !ok {
		return Point{}, false
	}
	if span.IsCollapsed() {
		return span.Anchor, true
	}
	ref := e.PointRef(span.Start(), AffinityBackward)
	e.DeleteRange(span)
	pt := ref.Unref()
	if pt == nil {
		if e.Selection == nil {
			return Point{}, false
		}
		return e.Selection.Anchor.Clone(), true
	}
	return *pt, true
}

// blockDepth is the depth of the lowest (or highest) block above a leaf.
func (e *Editor) blockDepth(leaf Path, mode Mode) int {
	if mode == ModeHighest {
		return 1
	}
	if b, ok := e.Above(leaf, MatchBlock); ok {
		return len(b.Path)
	}
	return 1
}

// splitAt splits every node from the leaf at pt up to the ancestor at depth
// and returns the path, at that depth, where new siblings should go. Unless
// always is set, a node is only split when the cut falls strictly inside it.
func (e *Editor) splitAt(pt Point, depth int, always bool) Path {
	if depth < 1 {
		depth = 1
	}
	cut := pt.Offset
	split, atEnd := false, false
	for k := len(pt.Path); k >= depth; k-- {
		p := pt.Path[:k].Clone()
		n := e.mustNode(p)
		if k < len(pt.Path) {
			idx := pt.Path[k]
			if split || atEnd {
				cut = idx + 1
			} else {
				cut = idx
			}
		}
		size := n.size()
		if always || (cut > 0 && cut < size) {
			e.apply(Operation{Kind: OpSplitNode, Path: p, Position: cut, Props: n.Props.Clone()})
			split, atEnd = true, false
		} else {
			split, atEnd = false, cut >= size
		}
	}
	top := pt.Path[:depth].Clone()
	if split || atEnd {
		return top.Next()
	}
	return top
}

func (e *Editor) splitLeaf(pt Point) {
	leaf, ok := e.Leaf(pt.Path)
	if !ok || pt.Offset <= 0 || pt.Offset >= leaf.size() {
		return
	}
	e.apply(Operation{Kind: OpSplitNode, Path: pt.Path.Clone(), Position: pt.Offset, Props: leaf.Props.Clone()})
}

// withLeaves gives every childless element an empty leaf.
func withLeaves(n *Node) *Node {
	if !n.IsElement() {
		return n
	}
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c != nil {
			kept = append(kept, withLeaves(c))
		}
	}
	n.Children = kept
	if len(n.Children) == 0 {
		n.Children = []*Node{NewText("", nil)}
	}
	return n
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
