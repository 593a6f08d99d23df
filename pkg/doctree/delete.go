package doctree

// DeleteRange removes the content between the range edges. Nodes wholly
// inside the range go away, the edge leaves are trimmed and the block holding
// the end edge is merged into the block holding the start edge. A selection
// touching the range collapses onto its start.
func (e *Editor) DeleteRange(r Range) bool {
	if !e.HasPoint(r.Anchor) || !e.HasPoint(r.Focus) || r.IsCollapsed() {
		return false
	}
	start, end := r.Edges()
	collapse := e.Selection != nil && (r.Includes(e.Selection.Anchor) || r.Includes(e.Selection.Focus))

	startRef := e.PointRef(start, AffinityBackward)
	e.WithoutNormalizing(func() {
		if start.Path.Equals(end.Path) {
			e.removeText(start.Path, start.Offset, end.Offset)
			return
		}

		endRef := e.PointRef(end, AffinityForward)
		between := e.between(start.Path, end.Path)
		for i := len(between) - 1; i >= 0; i-- {
			n := e.mustNode(between[i])
			e.apply(Operation{Kind: OpRemoveNode, Path: between[i], Node: n.Clone()})
		}

		s := *startRef.Current()
		e.removeText(s.Path, s.Offset, e.mustNode(s.Path).size())
		en := *endRef.Unref()
		e.removeText(en.Path, 0, en.Offset)

		e.mergeBlocks(startRef.Current().Path, en.Path)
	})

	pt := startRef.Unref()
	if collapse && pt != nil && e.HasPoint(*pt) {
		sel := Collapsed(*pt)
		e.Selection = &sel
	}
	return true
}

func (e *Editor) removeText(p Path, from, to int) {
	leaf := e.mustNode(p)
	rs := []rune(leaf.Text)
	from, to = clamp(from, 0, len(rs)), clamp(to, 0, len(rs))
	if to <= from {
		return
	}
	e.apply(Operation{Kind: OpRemoveText, Path: p.Clone(), Offset: from, Text: string(rs[from:to])})
}

// between lists the highest nodes strictly between two leaves, excluding
// ancestors of either.
func (e *Editor) between(from, to Path) []Path {
	var out []Path
	var walk func(n *Node, p Path)
	walk = func(n *Node, p Path) {
		for i, c := range n.Children {
			cp := p.Child(i)
			switch {
			case cp.IsAncestor(from) || cp.IsAncestor(to):
				walk(c, cp)
			case cp.Compare(from) > 0 && cp.Compare(to) < 0:
				out = append(out, cp)
			}
		}
	}
	walk(e.root, Path{})
	return out
}

// mergeBlocks moves the children of the block holding toLeaf to the end of
// the block holding fromLeaf, then drops the emptied block and any ancestors
// it leaves empty. A void block on either side is removed instead.
func (e *Editor) mergeBlocks(fromLeaf, toLeaf Path) {
	sb, ok := e.Above(fromLeaf, MatchBlock)
	if !ok {
		return
	}
	eb, ok := e.Above(toLeaf, MatchBlock)
	if !ok || sb.Path.Equals(eb.Path) || sb.Path.IsAncestor(eb.Path) || eb.Path.IsAncestor(sb.Path) {
		return
	}

	switch {
	case eb.Node.IsVoid():
		e.removeWithEmptyAncestors(eb.Path, sb.Path)
	case sb.Node.IsVoid():
		e.removeWithEmptyAncestors(sb.Path, eb.Path)
	default:
		sbRef := e.PathRef(sb.Path, AffinityForward)
		ebRef := e.PathRef(eb.Path, AffinityForward)
		for range len(eb.Node.Children) {
			dst := sbRef.Current()
			e.apply(Operation{
				Kind:    OpMoveNode,
				Path:    ebRef.Current().Child(0),
				NewPath: dst.Child(len(e.mustNode(dst).Children)),
			})
		}
		keep := sbRef.Unref()
		e.removeWithEmptyAncestors(ebRef.Unref(), keep)
	}
}

func (e *Editor) removeWithEmptyAncestors(p, keep Path) {
	n, ok := e.Get(p)
	if !ok {
		return
	}
	e.apply(Operation{Kind: OpRemoveNode, Path: p.Clone(), Node: n.Clone()})
	for parent := p.Parent(); len(parent) > 0; parent = parent.Parent() {
		if parent.IsAncestor(keep) {
			return
		}
		pn, ok := e.Get(parent)
		if !ok || pn.IsText() || len(pn.Children) > 0 {
			return
		}
		e.apply(Operation{Kind: OpRemoveNode, Path: parent, Node: pn.Clone()})
	}
}
