package doctree

import "unicode/utf8"

// Point is a rune offset inside the text leaf at Path.
type Point struct {
	Path   Path `json:"path"`
	Offset int  `json:"offset"`
}

func (p Point) Clone() Point {
	return Point{Path: p.Path.Clone(), Offset: p.Offset}
}

func (p Point) Equals(other Point) bool {
	return p.Offset == other.Offset && p.Path.Equals(other.Path)
}

func (p Point) Compare(other Point) int {
	if c := p.Path.Compare(other.Path); c != 0 {
		return c
	}
	switch {
	case p.Offset < other.Offset:
		return -1
	case p.Offset > other.Offset:
		return 1
	}
	return 0
}

func (p Point) IsBefore(other Point) bool { return p.Compare(other) < 0 }

func (p Point) IsAfter(other Point) bool { return p.Compare(other) > 0 }

// Range is a selection between two points. Anchor may come after Focus.
type Range struct {
	Anchor Point `json:"anchor"`
	Focus  Point `json:"focus"`
}

func Collapsed(p Point) Range {
	return Range{Anchor: p.Clone(), Focus: p.Clone()}
}

func (r Range) Clone() Range {
	return Range{Anchor: r.Anchor.Clone(), Focus: r.Focus.Clone()}
}

func (r Range) IsCollapsed() bool { return r.Anchor.Equals(r.Focus) }

func (r Range) IsExpanded() bool { return !r.IsCollapsed() }

func (r Range) IsBackward() bool { return r.Anchor.IsAfter(r.Focus) }

// Edges returns the range's points in document order.
func (r Range) Edges() (Point, Point) {
	if r.IsBackward() {
		return r.Focus, r.Anchor
	}
	return r.Anchor, r.Focus
}

func (r Range) Start() Point {
	s, _ := r.Edges()
	return s
}

func (r Range) End() Point {
	_, e := r.Edges()
	return e
}

func (r Range) Equals(other Range) bool {
	return r.Anchor.Equals(other.Anchor) && r.Focus.Equals(other.Focus)
}

// Includes reports whether pt lies between the range edges, inclusive.
func (r Range) Includes(pt Point) bool {
	s, e := r.Edges()
	return pt.Compare(s) >= 0 && pt.Compare(e) <= 0
}

// TransformPoint maps pt through op; false means the point was removed.
func TransformPoint(pt Point, op Operation, affinity Affinity) (Point, bool) {
	p := pt.Clone()
	switch op.Kind {
	case OpInsertText:
		if op.Path.Equals(p.Path) && (op.Offset < p.Offset || (op.Offset == p.Offset && affinity == AffinityForward)) {
			p.Offset += utf8.RuneCountInString(op.Text)
		}
		return p, true

	case OpRemoveText:
		if op.Path.Equals(p.Path) && op.Offset <= p.Offset {
			p.Offset -= min(p.Offset-op.Offset, utf8.RuneCountInString(op.Text))
		}
		return p, true

	case OpMergeNode:
		if op.Path.Equals(p.Path) {
			p.Offset += op.Position
		}

	case OpSplitNode:
		if op.Path.Equals(p.Path) {
			if op.Position == p.Offset && affinity == AffinityNone {
				return Point{}, false
			}
			if op.Position < p.Offset || (op.Position == p.Offset && affinity == AffinityForward) {
				p.Offset -= op.Position
				path, _ := TransformPath(p.Path, op, AffinityForward)
				p.Path = path
			}
			return p, true
		}

	case OpRemoveNode:
		if op.Path.Equals(p.Path) || op.Path.IsAncestor(p.Path) {
			return Point{}, false
		}
	}

	path, ok := TransformPath(p.Path, op, affinity)
	if !ok {
		return Point{}, false
	}
	p.Path = path
	return p, true
}

// TransformRange maps both points of r. Inward affinity keeps the edges from
// growing over content inserted at them.
func TransformRange(r Range, op Operation, inward bool) (Range, bool) {
	anchorAff, focusAff := AffinityForward, AffinityForward
	if inward {
		if r.IsBackward() {
			anchorAff, focusAff = AffinityBackward, AffinityForward
		} else {
			anchorAff, focusAff = AffinityForward, AffinityBackward
		}
		if r.IsCollapsed() {
			focusAff = anchorAff
		}
	}
	a, ok := TransformPoint(r.Anchor, op, anchorAff)
	if !ok {
		return Range{}, false
	}
	f, ok := TransformPoint(r.Focus, op, focusAff)
	if !ok {
		return Range{}, false
	}
	return Range{Anchor: a, Focus: f}, true
}
