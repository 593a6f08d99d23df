package doctree

import "strings"

// InsertText types text at the selection, replacing an expanded selection.
// Pending marks, if any, are applied to the new text and then cleared.
func (e *Editor) InsertText(text string) bool {
	if text == "" || e.Selection == nil {
		return false
	}
	ok := false
	e.WithoutNormalizing(func() {
		if e.Selection.IsExpanded() {
			e.DeleteRange(*e.Selection)
		}
		if e.Selection == nil {
			return
		}
		pt := e.Selection.Anchor
		leaf, found := e.Leaf(pt.Path)
		if !found {
			return
		}
		ok = true

		marks := e.Marks
		e.Marks = nil
		if marks != nil && !marks.Equal(leaf.Props) {
			at := e.splitAt(pt, len(pt.Path), false)
			e.apply(Operation{Kind: OpInsertNode, Path: at, Node: NewText(text, marks)})
			sel := Collapsed(Point{Path: at, Offset: runeLen(text)})
			e.Selection = &sel
			return
		}
		e.apply(Operation{Kind: OpInsertText, Path: pt.Path.Clone(), Offset: pt.Offset, Text: text})
	})
	return ok
}

// DeleteBackward deletes one character before a collapsed caret, or merges
// the current block into the previous one when the caret is at its start. An
// expanded selection is simply deleted.
func (e *Editor) DeleteBackward() bool {
	if e.Selection == nil {
		return false
	}
	if e.Selection.IsExpanded() {
		return e.DeleteRange(*e.Selection)
	}
	pt := e.Selection.Anchor
	if pt.Offset > 0 {
		return e.DeleteRange(Range{Anchor: Point{Path: pt.Path.Clone(), Offset: pt.Offset - 1}, Focus: pt})
	}

	prev, ok := e.previousLeaf(pt.Path)
	if !ok {
		return false
	}
	from := Point{Path: prev.Path, Offset: prev.Node.size()}
	block, _ := e.Above(pt.Path, MatchBlock)
	prevBlock, _ := e.Above(prev.Path, MatchBlock)
	if block.Path.Equals(prevBlock.Path) && from.Offset > 0 {
		from.Offset--
	}
	return e.DeleteRange(Range{Anchor: from, Focus: pt})
}

// InsertBreak splits the current block at the caret. The new half of a
// heading becomes a paragraph when it is empty; breaking on a void block adds
// a paragraph after it.
func (e *Editor) InsertBreak() bool {
	if e.Selection == nil {
		return false
	}
	ok := false
	e.WithoutNormalizing(func() {
		if e.Selection.IsExpanded() {
			e.DeleteRange(*e.Selection)
		}
		if e.Selection == nil {
			return
		}
		pt := e.Selection.Anchor
		block, found := e.Above(pt.Path, MatchBlock)
		if !found {
			return
		}
		ok = true

		next := block.Path.Next()
		if block.Node.IsVoid() {
			e.apply(Operation{Kind: OpInsertNode, Path: next, Node: NewParagraph("")})
			sel := Collapsed(Point{Path: next.Child(0), Offset: 0})
			e.Selection = &sel
			return
		}

		e.splitAt(pt, len(block.Path), true)
		if n, has := e.Get(next); has && strings.HasPrefix(n.Type, "heading-") && e.IsEmpty(n) {
			e.apply(Operation{
				Kind:     OpSetNode,
				Path:     next,
				Props:    Props{"type": TypeParagraph},
				OldProps: Props{"type": n.Type},
			})
		}
	})
	return ok
}
