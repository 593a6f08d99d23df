package doctree

// WrapNodes wraps the matching nodes (default: lowest blocks in the range) in
// a copy of wrapper. All matches move into one wrapper inserted at their
// deepest common parent.
func (e *Editor) WrapNodes(wrapper *Node, opts ...Option) bool {
	if !wrapper.IsElement() {
		return false
	}
	o := collect(opts)
	span, ok := o.span(e)
	if !ok {
		return false
	}
	match := o.match
	if match == nil {
		match = MatchBlock
	}
	matches := e.Nodes(span, match, o.modeOr(ModeLowest))
	if len(matches) == 0 {
		return false
	}

	first, last := matches[0].Path, matches[len(matches)-1].Path
	common := Common(first, last)
	if len(common) >= len(first) || len(common) >= len(last) {
		common = common.Parent()
	}
	from, to := first[len(common)], last[len(common)]

	e.WithoutNormalizing(func() {
		at := common.Child(to + 1)
		e.apply(Operation{
			Kind: OpInsertNode,
			Path: at,
			Node: &Node{Type: wrapper.Type, Props: wrapper.Props.Clone()},
		})
		ref := e.PathRef(at, AffinityForward)
		for i := 0; i <= to-from; i++ {
			e.apply(Operation{Kind: OpMoveNode, Path: common.Child(from), NewPath: ref.Current().Child(i)})
		}
		ref.Unref()
	})
	return true
}

// UnwrapNodes lifts the children of every matching element out of it. With
// WithSplit only the children intersecting the range are lifted and the
// wrapper is split around them; otherwise the wrapper disappears.
func (e *Editor) UnwrapNodes(opts ...Option) bool {
	o := collect(opts)
	match := o.match
	if match == nil {
		if o.path == nil {
			return false
		}
		match = MatchPath(o.path)
	}
	span, ok := o.span(e)
	if !ok {
		return false
	}
	matches := e.Nodes(span, match, o.modeOr(ModeLowest))
	if len(matches) == 0 {
		return false
	}

	e.WithoutNormalizing(func() {
		rangeRef := e.RangeRef(span)
		refs := make([]*PathRef, 0, len(matches))
		for i := len(matches) - 1; i >= 0; i-- {
			refs = append(refs, e.PathRef(matches[i].Path, AffinityForward))
		}
		for _, ref := range refs {
			p := ref.Unref()
			n, found := e.Get(p)
			if p == nil || !found || n.IsText() {
				continue
			}
			var children []Path
			for i := range n.Children {
				c := p.Child(i)
				if o.split && rangeRef.Current() != nil {
					s, end := rangeRef.Current().Edges()
					if c.Compare(s.Path) < 0 || c.Compare(end.Path) > 0 {
						continue
					}
				}
				children = append(children, c)
			}
			e.liftNodes(children)
		}
		rangeRef.Unref()
	})
	return true
}

// liftNodes moves each node up one level, splitting its parent when the node
// sits in the middle and removing the parent when it is the only child.
func (e *Editor) liftNodes(paths []Path) {
	refs := make([]*PathRef, len(paths))
	for i, p := range paths {
		refs[i] = e.PathRef(p, AffinityForward)
	}
	for _, ref := range refs {
		p := ref.Unref()
		if len(p) < 2 {
			continue
		}
		parentPath := p.Parent()
		parent := e.mustNode(parentPath)
		idx, length := p.Last(), len(parent.Children)

		switch {
		case length == 1:
			e.apply(Operation{Kind: OpMoveNode, Path: p, NewPath: parentPath.Next()})
			e.apply(Operation{Kind: OpRemoveNode, Path: parentPath, Node: parent.Clone()})
		case idx == 0:
			e.apply(Operation{Kind: OpMoveNode, Path: p, NewPath: parentPath})
		case idx == length-1:
			e.apply(Operation{Kind: OpMoveNode, Path: p, NewPath: parentPath.Next()})
		default:
			e.apply(Operation{Kind: OpSplitNode, Path: parentPath, Position: idx + 1, Props: parent.Props.Clone()})
			e.apply(Operation{Kind: OpMoveNode, Path: p, NewPath: parentPath.Next()})
		}
	}
}
