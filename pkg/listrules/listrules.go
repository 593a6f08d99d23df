// Package listrules holds the keystroke rules that run before the editor's
// generic behaviour, chiefly leaving a list from an empty item.
package listrules

import (
	"sheets-editor-be/pkg/doctree"
)

const (
	KeyBackspace = "Backspace"
	KeyEnter     = "Enter"
)

// Backspace turns an empty list-item into a paragraph and lifts it out of its
// list when the caret sits at the item's start. It reports whether it acted;
// when it did not, the caller should fall back to DeleteBackward.
func Backspace(e *doctree.Editor) bool {
	item, ok := emptyItemAtCaret(e, true)
	if !ok {
		return false
	}
	exitList(e, item)
	return true
}

// Enter on an empty list-item leaves the list the same way.
func Enter(e *doctree.Editor) bool {
	item, ok := emptyItemAtCaret(e, false)
	if !ok {
		return false
	}
	exitList(e, item)
	return true
}

// HandleKey runs the list rule for key and falls back to the default edit.
func HandleKey(e *doctree.Editor, key string) bool {
	switch key {
	case KeyBackspace:
		if Backspace(e) {
			return true
		}
		return e.DeleteBackward()
	case KeyEnter:
		if Enter(e) {
			return true
		}
		return e.InsertBreak()
	}
	return false
}

func emptyItemAtCaret(e *doctree.Editor, atStart bool) (doctree.Entry, bool) {
	sel := e.Selection
	if sel == nil || sel.IsExpanded() {
		return doctree.Entry{}, false
	}
	item, ok := e.Above(sel.Anchor.Path, doctree.MatchType(doctree.TypeListItem))
	if !ok {
		return doctree.Entry{}, false
	}
	if atStart && !e.IsStart(sel.Anchor, item.Path) {
		return doctree.Entry{}, false
	}
	if !e.IsEmpty(item.Node) {
		return doctree.Entry{}, false
	}
	return item, true
}

func exitList(e *doctree.Editor, item doctree.Entry) {
	e.WithoutNormalizing(func() {
		e.SetNodes(doctree.Props{"type": doctree.TypeParagraph}, doctree.At(item.Path))
		e.UnwrapNodes(doctree.WithMatch(doctree.MatchList), doctree.WithSplit())
	})
}
