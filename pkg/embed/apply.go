package embed

import (
	"sheets-editor-be/pkg/doctree"
)

// Apply inserts a classification result at the editor's current selection as
// one edit. An expanded selection is deleted first. An empty top-level block
// is replaced, a list is kept whole with the new blocks after it, otherwise
// the new blocks go in at the top level next to the caret's block. An
// embed is always followed by an empty paragraph, and the caret ends at the
// end of the last inserted block. Without a selection the blocks are appended
// to the document.
func Apply(e *doctree.Editor, res Result) bool {
	if res.IsEmpty() {
		return false
	}

	nodes := []*doctree.Node{doctree.NewParagraph(res.Text)}
	if res.IsEmbed() {
		nodes = []*doctree.Node{res.Node.Clone(), doctree.NewParagraph("")}
	}

	ok := false
	e.WithoutNormalizing(func() {
		if e.Selection != nil && e.Selection.IsExpanded() {
			e.DeleteRange(*e.Selection)
		}

		if e.Selection == nil {
			at := doctree.Path{len(e.Children())}
			ok = insertAt(e, nodes, at)
			return
		}

		block, found := e.NodeAt(e.Selection.Anchor.Path, 1)
		if found && !block.Node.IsVoid() && e.IsEmpty(block.Node) {
			at := block.Path
			e.RemoveNodes(at)
			ok = insertAt(e, nodes, at)
			return
		}
		if found && block.Node.IsList() {
			ok = insertAt(e, nodes, block.Path.Next())
			return
		}
		ok = e.InsertNodes(nodes, doctree.WithMode(doctree.ModeHighest))
	})
	return ok
}

func insertAt(e *doctree.Editor, nodes []*doctree.Node, at doctree.Path) bool {
	if !e.InsertNodes(nodes, doctree.At(at)) {
		return false
	}
	last := doctree.Path{at[0] + len(nodes) - 1}
	if end, found := e.End(last); found {
		e.Select(doctree.Collapsed(end))
	}
	return true
}
