package doctree

import "fmt"

// SetNodes shallow-merges patch into every node the options select. A nil
// value unsets the key and "type" rewrites an element's type. Without a
// matcher the lowest blocks in the target range are changed (or exactly the
// node at an At path). With WithSplit, text leaves are first split at the
// range edges so only the covered characters change.
func (e *Editor) SetNodes(patch Props, opts ...Option) bool {
	if len(patch) == 0 {
		return false
	}
	o := collect(opts)
	changed := false
	e.WithoutNormalizing(func() {
		if o.path != nil && o.match == nil {
			n, ok := e.Get(o.path)
			if !ok || len(o.path) == 0 {
				return
			}
			changed = e.setNode(o.path, n, patch)
			return
		}

		span, ok := o.span(e)
		if !ok {
			return
		}
		match := o.match
		if match == nil {
			match = MatchBlock
		}

		if o.split && span.IsExpanded() {
			ref := e.RangeRef(span)
			e.splitLeaf(span.End())
			e.splitLeaf(ref.Current().Start())
			span = *ref.Unref()
		}

		var refs []*PathRef
		for _, entry := range e.Nodes(span, match, o.modeOr(ModeLowest)) {
			if entry.Node.IsText() && span.IsExpanded() && !covers(entry, span) {
				continue
			}
			refs = append(refs, e.PathRef(entry.Path, AffinityForward))
		}
		for _, ref := range refs {
			p := ref.Unref()
			if n, ok := e.Get(p); ok && p != nil {
				if e.setNode(p, n, patch) {
					changed = true
				}
			}
		}
	})
	return changed
}

// UnsetNodes removes keys from the selected nodes.
func (e *Editor) UnsetNodes(keys []string, opts ...Option) bool {
	patch := make(Props, len(keys))
	for _, k := range keys {
		if k == "type" {
			continue
		}
		patch[k] = nil
	}
	return e.SetNodes(patch, opts...)
}

func (e *Editor) setNode(p Path, n *Node, patch Props) bool {
	props, old := Props{}, Props{}
	for k, v := range patch {
		if k == "type" && (n.IsText() || v == nil) {
			continue
		}
		cur := n.Get(k)
		if v == nil && cur == nil {
			continue
		}
		if v != nil && cur != nil && fmt.Sprint(v) == fmt.Sprint(cur) {
			continue
		}
		props[k] = v
		old[k] = cur
	}
	if len(props) == 0 {
		return false
	}
	e.apply(Operation{Kind: OpSetNode, Path: p.Clone(), Props: props, OldProps: old})
	return true
}

// covers reports whether a leaf shares at least one character with r.
func covers(leaf Entry, r Range) bool {
	start, end := r.Edges()
	from, to := 0, leaf.Node.size()
	if leaf.Path.Equals(start.Path) {
		from = start.Offset
	}
	if leaf.Path.Equals(end.Path) {
		to = end.Offset
	}
	return to > from
}
