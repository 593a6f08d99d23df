package doctree

// Normalize repairs the tree until it satisfies the document invariants:
//
//   - the document has at least one block and no top-level text;
//   - every element has at least one child;
//   - list-items live only in lists and lists only hold list-items;
//   - adjacent text leaves with equal marks are merged, and an empty leaf next
//     to another leaf is dropped.
//
// Each repair is a regular operation, so the selection and refs follow along.
func (e *Editor) Normalize() {
	limit := 64 + 8*countNodes(e.root)
	for range limit {
		if !e.normalizeOnce() {
			return
		}
	}
}

func (e *Editor) normalizeOnce() bool {
	if len(e.root.Children) == 0 {
		e.apply(Operation{Kind: OpInsertNode, Path: Path{0}, Node: NewParagraph("")})
		return true
	}
	return e.normalizeNode(e.root, Path{})
}

func (e *Editor) normalizeNode(n *Node, p Path) bool {
	if n.IsText() {
		return false
	}
	isRoot := len(p) == 0
	if !isRoot && len(n.Children) == 0 {
		e.apply(Operation{Kind: OpInsertNode, Path: p.Child(0), Node: NewText("", nil)})
		return true
	}

	for i, c := range n.Children {
		cp := p.Child(i)
		switch {
		case isRoot && c.IsInline():
			e.wrapIn(cp, TypeParagraph)
			return true
		case n.IsList() && c.IsInline():
			e.wrapIn(cp, TypeListItem)
			return true
		case n.IsList() && c.Type != TypeListItem:
			e.apply(Operation{Kind: OpSetNode, Path: cp, Props: Props{"type": TypeListItem}, OldProps: Props{"type": c.Type}})
			return true
		case !n.IsList() && c.IsElement() && c.Type == TypeListItem:
			e.apply(Operation{Kind: OpSetNode, Path: cp, Props: Props{"type": TypeParagraph}, OldProps: Props{"type": c.Type}})
			return true
		}

		if i == 0 || !c.IsText() || !n.Children[i-1].IsText() {
			continue
		}
		prev := n.Children[i-1]
		switch {
		case prev.Props.Equal(c.Props):
			e.apply(Operation{Kind: OpMergeNode, Path: cp, Position: prev.size(), Props: c.Props.Clone()})
			return true
		case prev.Text == "":
			e.apply(Operation{Kind: OpRemoveNode, Path: cp.Previous(), Node: prev.Clone()})
			return true
		case c.Text == "":
			e.apply(Operation{Kind: OpRemoveNode, Path: cp, Node: c.Clone()})
			return true
		}
	}

	for i, c := range n.Children {
		if e.normalizeNode(c, p.Child(i)) {
			return true
		}
	}
	return false
}

// wrapIn puts the node at p inside a new element of the given type.
func (e *Editor) wrapIn(p Path, typ string) {
	e.apply(Operation{Kind: OpInsertNode, Path: p, Node: &Node{Type: typ}})
	e.apply(Operation{Kind: OpMoveNode, Path: p.Next(), NewPath: p.Child(0)})
}

func countNodes(n *Node) int {
	total := 1
	for _, c := range n.Children {
		total += countNodes(c)
	}
	return total
}
