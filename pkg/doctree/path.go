package doctree

// Path addresses a node by child indices from the root. The empty path is the
// document itself.
type Path []int

func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

func (p Path) Equals(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Compare orders paths in document order. A path and any of its ancestors
// compare equal.
func (p Path) Compare(other Path) int {
	n := min(len(p), len(other))
	for i := 0; i < n; i++ {
		if p[i] < other[i] {
			return -1
		}
		if p[i] > other[i] {
			return 1
		}
	}
	return 0
}

func (p Path) IsBefore(other Path) bool { return p.Compare(other) == -1 }

func (p Path) IsAfter(other Path) bool { return p.Compare(other) == 1 }

// IsAncestor reports whether p is a strict ancestor of other.
func (p Path) IsAncestor(other Path) bool {
	return len(p) < len(other) && p.Compare(other) == 0
}

// EndsBefore reports whether p's last index is before other's index at the
// same depth, under the same parent.
func (p Path) EndsBefore(other Path) bool {
	if len(p) == 0 || len(other) < len(p) {
		return false
	}
	i := len(p) - 1
	return p[:i].Equals(other[:i]) && p[i] < other[i]
}

func (p Path) IsSibling(other Path) bool {
	if len(p) == 0 || len(p) != len(other) {
		return false
	}
	i := len(p) - 1
	return p[:i].Equals(other[:i]) && p[i] != other[i]
}

func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1].Clone()
}

func (p Path) Last() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

func (p Path) Next() Path {
	out := p.Clone()
	if len(out) > 0 {
		out[len(out)-1]++
	}
	return out
}

// Previous returns the previous sibling path, or nil for a first child.
func (p Path) Previous() Path {
	if len(p) == 0 || p[len(p)-1] == 0 {
		return nil
	}
	out := p.Clone()
	out[len(out)-1]--
	return out
}

func (p Path) Child(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, i)
}

// Common returns the deepest path that is an ancestor of (or equal to) both.
func Common(a, b Path) Path {
	out := Path{}
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			break
		}
		out = append(out, a[i])
	}
	return out
}

// Affinity decides which side a position sticks to when content is inserted
// or split exactly at it.
type Affinity int

const (
	AffinityForward Affinity = iota
	AffinityBackward
	AffinityNone
)

// TransformPath maps p through op. The second result is false when the node at
// p no longer exists.
func TransformPath(path Path, op Operation, affinity Affinity) (Path, bool) {
	if path == nil {
		return nil, false
	}
	p := path.Clone()
	at := op.Path

	switch op.Kind {
	case OpInsertNode:
		if at.Equals(p) || at.EndsBefore(p) || at.IsAncestor(p) {
			p[len(at)-1]++
		}

	case OpRemoveNode:
		if at.Equals(p) || at.IsAncestor(p) {
			return nil, false
		}
		if at.EndsBefore(p) {
			p[len(at)-1]--
		}

	case OpMergeNode:
		if at.Equals(p) || at.EndsBefore(p) {
			p[len(at)-1]--
		} else if at.IsAncestor(p) {
			p[len(at)-1]--
			p[len(at)] += op.Position
		}

	case OpSplitNode:
		switch {
		case at.Equals(p):
			switch affinity {
			case AffinityForward:
				p[len(p)-1]++
			case AffinityBackward:
			default:
				return nil, false
			}
		case at.EndsBefore(p):
			p[len(at)-1]++
		case at.IsAncestor(p) && path[len(at)] >= op.Position:
			p[len(at)-1]++
			p[len(at)] -= op.Position
		}

	case OpMoveNode:
		to := op.NewPath
		if at.Equals(to) {
			return p, true
		}
		switch {
		case at.IsAncestor(p) || at.Equals(p):
			moved := to.Clone()
			if at.EndsBefore(to) && len(at) < len(to) {
				moved[len(at)-1]--
			}
			return append(moved, p[len(at):]...), true
		case at.IsSibling(to) && (to.IsAncestor(p) || to.Equals(p)):
			if at.EndsBefore(p) {
				p[len(at)-1]--
			} else {
				p[len(at)-1]++
			}
		case to.EndsBefore(p) || to.Equals(p) || to.IsAncestor(p):
			if at.EndsBefore(p) {
				p[len(at)-1]--
			}
			p[len(to)-1]++
		case at.EndsBefore(p):
			if to.Equals(p) {
				p[len(to)-1]++
			}
			p[len(at)-1]--
		}
	}
	return p, true
}
