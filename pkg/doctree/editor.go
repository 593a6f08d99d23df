package doctree

import (
	"errors"
	"fmt"
	"slices"
)

// ErrMalformedPath is raised (as a panic) when a caller hands the editor a
// path it could never have obtained from it, such as one with a negative index.
var ErrMalformedPath = errors.New("doctree: malformed path")

// Editor owns a document tree, a selection and the pending marks for the next
// typed text. Every mutation goes through apply, which keeps the selection and
// all outstanding refs valid. An Editor is not safe for concurrent use.
type Editor struct {
	root      *Node
	Selection *Range
	Marks     Props

	pathRefs  map[*PathRef]struct{}
	pointRefs map[*PointRef]struct{}
	rangeRefs map[*RangeRef]struct{}

	deferNormalize int
}

// New returns an editor holding a single empty paragraph.
func New() *Editor {
	return NewFromNodes(nil)
}

// NewFromNodes returns an editor over a copy of nodes, normalized.
func NewFromNodes(nodes []*Node) *Editor {
	e := &Editor{
		root:      &Node{},
		pathRefs:  map[*PathRef]struct{}{},
		pointRefs: map[*PointRef]struct{}{},
		rangeRefs: map[*RangeRef]struct{}{},
	}
	for _, n := range nodes {
		if n != nil {
			e.root.Children = append(e.root.Children, withLeaves(n.Clone()))
		}
	}
	e.Normalize()
	return e
}

// Children exposes the top-level blocks. Callers must not mutate them.
func (e *Editor) Children() []*Node {
	return e.root.Children
}

// Document returns a deep copy of the top-level blocks.
func (e *Editor) Document() []*Node {
	out := make([]*Node, len(e.root.Children))
	for i, n := range e.root.Children {
		out[i] = n.Clone()
	}
	return out
}

// Select moves the selection. Points that do not address a text leaf make it
// a no-op.
func (e *Editor) Select(r Range) bool {
	if !e.HasPoint(r.Anchor) || !e.HasPoint(r.Focus) {
		return false
	}
	sel := r.Clone()
	e.Selection = &sel
	e.Marks = nil
	return true
}

func (e *Editor) Deselect() {
	e.Selection = nil
	e.Marks = nil
}

// Collapse collapses the selection onto its start or end edge.
func (e *Editor) Collapse(toEnd bool) {
	if e.Selection == nil {
		return
	}
	pt := e.Selection.Start()
	if toEnd {
		pt = e.Selection.End()
	}
	r := Collapsed(pt)
	e.Selection = &r
}

// WithoutNormalizing runs fn as one unit: normalization is deferred until the
// outermost call returns.
func (e *Editor) WithoutNormalizing(fn func()) {
	e.deferNormalize++
	defer func() {
		e.deferNormalize--
		if e.deferNormalize == 0 {
			e.Normalize()
		}
	}()
	fn()
}

func (e *Editor) normalize() {
	if e.deferNormalize > 0 {
		return
	}
	e.Normalize()
}

// apply is the single funnel for tree mutation.
func (e *Editor) apply(op Operation) {
	var prev, next *Point
	if op.Kind == OpRemoveNode && e.Selection != nil {
		prev, next = e.removalFallback(op.Path)
	}

	e.mutate(op)

	for ref := range e.pathRefs {
		ref.transform(op)
	}
	for ref := range e.pointRefs {
		ref.transform(op)
	}
	for ref := range e.rangeRefs {
		ref.transform(op)
	}

	if e.Selection == nil {
		return
	}
	anchor, aok := TransformPoint(e.Selection.Anchor, op, AffinityForward)
	focus, fok := TransformPoint(e.Selection.Focus, op, AffinityForward)
	if !aok || !fok {
		var fallback *Point
		switch {
		case prev != nil:
			fallback = prev
		case next != nil:
			n, ok := TransformPoint(*next, op, AffinityForward)
			if ok {
				fallback = &n
			}
		}
		if fallback == nil {
			e.Selection = nil
			return
		}
		if !aok {
			anchor = fallback.Clone()
		}
		if !fok {
			focus = fallback.Clone()
		}
	}
	e.Selection = &Range{Anchor: anchor, Focus: focus}
}

// removalFallback finds where a selection point inside the subtree at `at`
// should go once it is removed: the end of the previous leaf, else the start of
// the next one, preferring leaves under the same parent.
func (e *Editor) removalFallback(at Path) (*Point, *Point) {
	var prev, next, localPrev, localNext *Point
	parent := at.Parent()
	for _, leaf := range e.Leaves() {
		local := parent.IsAncestor(leaf.Path)
		switch leaf.Path.Compare(at) {
		case -1:
			prev = &Point{Path: leaf.Path, Offset: leaf.Node.size()}
			if local {
				localPrev = prev
			}
		case 1:
			if next == nil {
				next = &Point{Path: leaf.Path, Offset: 0}
			}
			if local && localNext == nil {
				localNext = &Point{Path: leaf.Path, Offset: 0}
			}
		}
	}
	switch {
	case localPrev != nil:
		return localPrev, nil
	case localNext != nil:
		return nil, localNext
	}
	return prev, next
}

func (e *Editor) mutate(op Operation) {
	switch op.Kind {
	case OpInsertNode:
		parent := e.mustNode(op.Path.Parent())
		idx := op.Path.Last()
		if idx < 0 || idx > len(parent.Children) {
			panic(fmt.Errorf("%w: insert at %v", ErrMalformedPath, op.Path))
		}
		parent.Children = slices.Insert(parent.Children, idx, op.Node)

	case OpRemoveNode:
		parent := e.mustNode(op.Path.Parent())
		e.mustNode(op.Path)
		idx := op.Path.Last()
		parent.Children = slices.Delete(parent.Children, idx, idx+1)

	case OpInsertText:
		n := e.mustNode(op.Path)
		rs := []rune(n.Text)
		off := clamp(op.Offset, 0, len(rs))
		n.Text = string(rs[:off]) + op.Text + string(rs[off:])

	case OpRemoveText:
		n := e.mustNode(op.Path)
		rs := []rune(n.Text)
		start := clamp(op.Offset, 0, len(rs))
		end := clamp(start+len([]rune(op.Text)), start, len(rs))
		n.Text = string(rs[:start]) + string(rs[end:])

	case OpSplitNode:
		parent := e.mustNode(op.Path.Parent())
		n := e.mustNode(op.Path)
		var right *Node
		if n.IsText() {
			rs := []rune(n.Text)
			pos := clamp(op.Position, 0, len(rs))
			right = &Node{Text: string(rs[pos:]), Props: op.Props.Clone(), text: true}
			n.Text = string(rs[:pos])
		} else {
			pos := clamp(op.Position, 0, len(n.Children))
			right = &Node{
				Type:     n.Type,
				Props:    op.Props.Clone(),
				Children: append([]*Node{}, n.Children[pos:]...),
			}
			n.Children = slices.Clip(n.Children[:pos])
		}
		parent.Children = slices.Insert(parent.Children, op.Path.Last()+1, right)

	case OpMergeNode:
		parent := e.mustNode(op.Path.Parent())
		n := e.mustNode(op.Path)
		prevPath := op.Path.Previous()
		if prevPath == nil {
			panic(fmt.Errorf("%w: merge of first child %v", ErrMalformedPath, op.Path))
		}
		prev := e.mustNode(prevPath)
		if n.IsText() {
			prev.Text += n.Text
		} else {
			prev.Children = append(prev.Children, n.Children...)
		}
		idx := op.Path.Last()
		parent.Children = slices.Delete(parent.Children, idx, idx+1)

	case OpMoveNode:
		if op.Path.IsAncestor(op.NewPath) {
			panic(fmt.Errorf("%w: move %v into its own descendant", ErrMalformedPath, op.Path))
		}
		n := e.mustNode(op.Path)
		parent := e.mustNode(op.Path.Parent())
		idx := op.Path.Last()
		parent.Children = slices.Delete(parent.Children, idx, idx+1)
		target, _ := TransformPath(op.Path, op, AffinityForward)
		newParent := e.mustNode(target.Parent())
		newParent.Children = slices.Insert(newParent.Children, target.Last(), n)

	case OpSetNode:
		n := e.mustNode(op.Path)
		for k, v := range op.Props {
			if k == "type" && n.IsElement() {
				n.Type, _ = v.(string)
				continue
			}
			if v == nil {
				delete(n.Props, k)
				continue
			}
			if n.Props == nil {
				n.Props = Props{}
			}
			n.Props[k] = v
		}
		if len(n.Props) == 0 {
			n.Props = nil
		}
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// PathRef tracks a path across operations. Current is nil once the node is
// removed.
type PathRef struct {
	current  Path
	affinity Affinity
	e        *Editor
}

func (e *Editor) PathRef(p Path, affinity Affinity) *PathRef {
	ref := &PathRef{current: p.Clone(), affinity: affinity, e: e}
	e.pathRefs[ref] = struct{}{}
	return ref
}

func (r *PathRef) Current() Path { return r.current }

func (r *PathRef) Unref() Path {
	delete(r.e.pathRefs, r)
	return r.current
}

func (r *PathRef) transform(op Operation) {
	if r.current == nil {
		return
	}
	r.current, _ = TransformPath(r.current, op, r.affinity)
}

type PointRef struct {
	current  *Point
	affinity Affinity
	e        *Editor
}

func (e *Editor) PointRef(pt Point, affinity Affinity) *PointRef {
	c := pt.Clone()
	ref := &PointRef{current: &c, affinity: affinity, e: e}
	e.pointRefs[ref] = struct{}{}
	return ref
}

func (r *PointRef) Current() *Point { return r.current }

func (r *PointRef) Unref() *Point {
	delete(r.e.pointRefs, r)
	return r.current
}

func (r *PointRef) transform(op Operation) {
	if r.current == nil {
		return
	}
	pt, ok := TransformPoint(*r.current, op, r.affinity)
	if !ok {
		r.current = nil
		return
	}
	r.current = &pt
}

// RangeRef tracks a range with inward affinity.
type RangeRef struct {
	current *Range
	e       *Editor
}

func (e *Editor) RangeRef(rng Range) *RangeRef {
	c := rng.Clone()
	ref := &RangeRef{current: &c, e: e}
	e.rangeRefs[ref] = struct{}{}
	return ref
}

func (r *RangeRef) Current() *Range { return r.current }

func (r *RangeRef) Unref() *Range {
	delete(r.e.rangeRefs, r)
	return r.current
}

func (r *RangeRef) transform(op Operation) {
	if r.current == nil {
		return
	}
	rng, ok := TransformRange(*r.current, op, true)
	if !ok {
		r.current = nil
		return
	}
	r.current = &rng
}
