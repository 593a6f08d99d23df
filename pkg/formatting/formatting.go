// Package formatting answers "is this format active?" for the current
// selection and flips marks, block types, alignment and code blocks.
package formatting

import (
	"sheets-editor-be/pkg/doctree"
)

// BlockType names the node property a block format is stored in.
type BlockType string

const (
	BlockTypeType  BlockType = "type"
	BlockTypeAlign BlockType = "align"
)

const (
	MarkBold      = "bold"
	MarkItalic    = "italic"
	MarkUnderline = "underline"
	MarkCode      = "code"
)

var (
	Marks      = []string{MarkBold, MarkItalic, MarkUnderline, MarkCode}
	ListTypes  = []string{doctree.TypeOrderedList, doctree.TypeUnorderedList}
	AlignTypes = []string{"left", "center", "right", "justify"}
)

func IsListType(format string) bool {
	return contains(ListTypes, format) || doctree.IsListType(format)
}

func IsAlignType(format string) bool {
	return contains(AlignTypes, format)
}

// IsMarkActive reports whether every selected character carries mark. A
// collapsed selection answers for the pending marks, or the leaf under the
// caret when none are pending.
func IsMarkActive(e *doctree.Editor, mark string) bool {
	sel := e.Selection
	if sel == nil {
		return false
	}
	if sel.IsCollapsed() && e.Marks != nil {
		return e.Marks.Bool(mark)
	}
	leaves := e.TextsIn(*sel)
	if len(leaves) == 0 {
		return false
	}
	for _, leaf := range leaves {
		if !leaf.Node.Bool(mark) {
			return false
		}
	}
	return true
}

// ToggleMark sets or clears mark on the selected text and reports whether
// anything changed. On a collapsed selection only the pending marks change.
func ToggleMark(e *doctree.Editor, mark string) bool {
	sel := e.Selection
	if sel == nil {
		return false
	}
	active := IsMarkActive(e, mark)

	if sel.IsCollapsed() {
		marks := e.Marks
		if marks == nil {
			marks = doctree.Props{}
			if leaf, ok := e.Leaf(sel.Anchor.Path); ok {
				marks = leaf.Props.Clone()
				if marks == nil {
					marks = doctree.Props{}
				}
			}
		}
		if active {
			delete(marks, mark)
		} else {
			marks[mark] = true
		}
		e.Marks = marks
		return true
	}

	return changed(e, func() {
		if active {
			e.UnsetNodes([]string{mark}, doctree.WithMatch(doctree.MatchText), doctree.WithSplit())
			return
		}
		e.SetNodes(doctree.Props{mark: true}, doctree.WithMatch(doctree.MatchText), doctree.WithSplit())
	})
}

// IsBlockActive reports whether any element touched by the selection has
// format stored under blockType.
func IsBlockActive(e *doctree.Editor, format string, blockType BlockType) bool {
	sel := e.Selection
	if sel == nil {
		return false
	}
	match := func(n *doctree.Node, _ doctree.Path) bool {
		return n.IsElement() && n.Attr(string(blockType)) == format
	}
	return len(e.Nodes(*sel, match, doctree.ModeAll)) > 0
}

// ToggleBlock switches the touched blocks to or from format. Lists are
// unwrapped first so a block never ends up in two lists; turning a list on
// wraps the new list-items in a fresh list container. The result reports
// whether the document changed.
func ToggleBlock(e *doctree.Editor, format string, blockType BlockType) bool {
	if e.Selection == nil {
		return false
	}
	active := IsBlockActive(e, format, blockType)
	isList := IsListType(format)

	return changed(e, func() {
		if blockType != BlockTypeAlign {
			unwrapLists(e)
		}

		if blockType == BlockTypeAlign {
			if active {
				e.UnsetNodes([]string{string(BlockTypeAlign)})
			} else {
				e.SetNodes(doctree.Props{string(BlockTypeAlign): format})
			}
			return
		}

		next := format
		switch {
		case active:
			next = doctree.TypeParagraph
		case isList:
			next = doctree.TypeListItem
		}
		e.SetNodes(doctree.Props{"type": next})

		if !active && isList {
			e.WrapNodes(doctree.NewElement(format, nil))
		}
	})
}

// unwrapLists lifts the touched list-items out of their list containers so
// the blocks can take a new type.
func unwrapLists(e *doctree.Editor) {
	e.UnwrapNodes(
		doctree.WithMatch(func(n *doctree.Node, _ doctree.Path) bool {
			return n.IsElement() && IsListType(n.Type)
		}),
		doctree.WithSplit(),
	)
}

// changed runs fn as one edit and reports whether the document differs
// afterwards.
func changed(e *doctree.Editor, fn func()) bool {
	before := e.Document()
	e.WithoutNormalizing(fn)
	return !doctree.NodesEqual(before, e.Children())
}

func IsCodeBlockActive(e *doctree.Editor) bool {
	return IsBlockActive(e, doctree.TypeCode, BlockTypeType)
}

// ToggleCodeBlock flips the touched blocks between code and paragraph. List
// items are lifted out of their list first, since a list only holds
// list-items.
func ToggleCodeBlock(e *doctree.Editor) bool {
	if e.Selection == nil {
		return false
	}
	next := doctree.TypeCode
	if IsCodeBlockActive(e) {
		next = doctree.TypeParagraph
	}
	return changed(e, func() {
		unwrapLists(e)
		e.SetNodes(doctree.Props{"type": next})
	})
}

// Active summarizes the toolbar state for the current selection.
type Active struct {
	Marks  map[string]bool `json:"marks"`
	Blocks map[string]bool `json:"blocks"`
	Align  string          `json:"align,omitempty"`
	Code   bool            `json:"code"`
}

var toolbarBlocks = []string{
	doctree.TypeHeadingOne,
	doctree.TypeHeadingTwo,
	doctree.TypeHeadingThree,
	doctree.TypeBlockQuote,
	doctree.TypeOrderedList,
	doctree.TypeUnorderedList,
}

func ActiveFormats(e *doctree.Editor) Active {
	out := Active{Marks: map[string]bool{}, Blocks: map[string]bool{}}
	for _, m := range Marks {
		out.Marks[m] = IsMarkActive(e, m)
	}
	for _, b := range toolbarBlocks {
		out.Blocks[b] = IsBlockActive(e, b, BlockTypeType)
	}
	for _, a := range AlignTypes {
		if IsBlockActive(e, a, BlockTypeAlign) {
			out.Align = a
			break
		}
	}
	out.Code = IsCodeBlockActive(e)
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
