package formatting

import (
	"testing"

	"sheets-editor-be/pkg/doctree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectRange(t *testing.T, e *doctree.Editor, from doctree.Path, fromOffset int, to doctree.Path, toOffset int) {
	t.Helper()
	ok := e.Select(doctree.Range{
		Anchor: doctree.Point{Path: from, Offset: fromOffset},
		Focus:  doctree.Point{Path: to, Offset: toOffset},
	})
	require.True(t, ok)
}

func TestToggleMarkRoundTrip(t *testing.T) {
	e := doctree.NewFromNodes([]*doctree.Node{doctree.NewParagraph("hello world")})
	selectRange(t, e, doctree.Path{0, 0}, 0, doctree.Path{0, 0}, 5)

	assert.False(t, IsMarkActive(e, MarkBold))
	ToggleMark(e, MarkBold)
	assert.True(t, IsMarkActive(e, MarkBold))
	assert.False(t, IsMarkActive(e, MarkItalic))

	ToggleMark(e, MarkBold)
	assert.False(t, IsMarkActive(e, MarkBold))
	leaves := e.Children()[0].Children
	require.Len(t, leaves, 1)
	assert.Equal(t, "hello world", leaves[0].Text)
	assert.Nil(t, leaves[0].Props)
}

func TestMarkActiveNeedsEveryCharacter(t *testing.T) {
	e := doctree.NewFromNodes([]*doctree.Node{
		doctree.NewElement(doctree.TypeParagraph, nil,
			doctree.NewText("bold", doctree.Props{"bold": true}),
			doctree.NewText(" plain", nil),
		),
	})

	selectRange(t, e, doctree.Path{0, 0}, 0, doctree.Path{0, 1}, 3)
	assert.False(t, IsMarkActive(e, MarkBold))

	selectRange(t, e, doctree.Path{0, 0}, 1, doctree.Path{0, 1}, 0)
	assert.True(t, IsMarkActive(e, MarkBold), "zero-width overlap with the plain leaf is ignored")

	ToggleMark(e, MarkItalic)
	selectRange(t, e, doctree.Path{0, 0}, 0, doctree.Path{0, 0}, 1)
	assert.False(t, IsMarkActive(e, MarkItalic))
}

func TestToggleMarkCollapsedUsesPendingMarks(t *testing.T) {
	e := doctree.NewFromNodes([]*doctree.Node{doctree.NewParagraph("ab")})
	selectRange(t, e, doctree.Path{0, 0}, 2, doctree.Path{0, 0}, 2)

	ToggleMark(e, MarkItalic)
	assert.True(t, IsMarkActive(e, MarkItalic))
	assert.Equal(t, "ab", e.Children()[0].Children[0].Text, "document untouched")

	e.InsertText("c")
	leaves := e.Children()[0].Children
	require.Len(t, leaves, 2)
	assert.True(t, leaves[1].Bool(MarkItalic))
}

func TestToggleBlockHeading(t *testing.T) {
	e := doctree.NewFromNodes([]*doctree.Node{doctree.NewParagraph("title")})
	selectRange(t, e, doctree.Path{0, 0}, 0, doctree.Path{0, 0}, 0)

	ToggleBlock(e, doctree.TypeHeadingOne, BlockTypeType)
	assert.True(t, IsBlockActive(e, doctree.TypeHeadingOne, BlockTypeType))
	assert.Equal(t, doctree.TypeHeadingOne, e.Children()[0].Type)

	ToggleBlock(e, doctree.TypeHeadingOne, BlockTypeType)
	assert.False(t, IsBlockActive(e, doctree.TypeHeadingOne, BlockTypeType))
	assert.Equal(t, doctree.TypeParagraph, e.Children()[0].Type)
}

func TestToggleBlockList(t *testing.T) {
	e := doctree.NewFromNodes([]*doctree.Node{doctree.NewParagraph("one"), doctree.NewParagraph("two")})
	selectRange(t, e, doctree.Path{0, 0}, 0, doctree.Path{1, 0}, 3)

	ToggleBlock(e, doctree.TypeNumberedList, BlockTypeType)

	require.Len(t, e.Children(), 1)
	list := e.Children()[0]
	assert.Equal(t, doctree.TypeNumberedList, list.Type)
	require.Len(t, list.Children, 2)
	for _, item := range list.Children {
		assert.Equal(t, doctree.TypeListItem, item.Type)
	}
	assert.True(t, IsBlockActive(e, doctree.TypeNumberedList, BlockTypeType))

	ToggleBlock(e, doctree.TypeNumberedList, BlockTypeType)
	require.Len(t, e.Children(), 2)
	for _, n := range e.Children() {
		assert.Equal(t, doctree.TypeParagraph, n.Type)
	}
}

func TestToggleBlockSwitchesListKind(t *testing.T) {
	e := doctree.NewFromNodes([]*doctree.Node{doctree.NewParagraph("one")})
	selectRange(t, e, doctree.Path{0, 0}, 0, doctree.Path{0, 0}, 0)

	ToggleBlock(e, doctree.TypeOrderedList, BlockTypeType)
	ToggleBlock(e, doctree.TypeUnorderedList, BlockTypeType)

	require.Len(t, e.Children(), 1)
	assert.Equal(t, doctree.TypeUnorderedList, e.Children()[0].Type)
	assert.Equal(t, doctree.TypeListItem, e.Children()[0].Children[0].Type)
}

func TestToggleAlign(t *testing.T) {
	e := doctree.NewFromNodes([]*doctree.Node{doctree.NewParagraph("a")})
	selectRange(t, e, doctree.Path{0, 0}, 0, doctree.Path{0, 0}, 1)

	ToggleBlock(e, "center", BlockTypeAlign)
	assert.True(t, IsBlockActive(e, "center", BlockTypeAlign))
	assert.Equal(t, doctree.TypeParagraph, e.Children()[0].Type)
	assert.Equal(t, "center", ActiveFormats(e).Align)

	ToggleBlock(e, "center", BlockTypeAlign)
	assert.False(t, IsBlockActive(e, "center", BlockTypeAlign))
}

func TestToggleCodeBlock(t *testing.T) {
	e := doctree.NewFromNodes([]*doctree.Node{doctree.NewParagraph("x := 1")})
	selectRange(t, e, doctree.Path{0, 0}, 0, doctree.Path{0, 0}, 0)

	ToggleCodeBlock(e)
	assert.True(t, IsCodeBlockActive(e))
	assert.Equal(t, doctree.TypeCode, e.Children()[0].Type)

	ToggleCodeBlock(e)
	assert.False(t, IsCodeBlockActive(e))
	assert.Equal(t, doctree.TypeParagraph, e.Children()[0].Type)
}

func TestToggleCodeBlockInsideList(t *testing.T) {
	list := doctree.NewElement(doctree.TypeUnorderedList, nil,
		doctree.NewElement(doctree.TypeListItem, nil, doctree.NewText("a", nil)),
		doctree.NewElement(doctree.TypeListItem, nil, doctree.NewText("b", nil)))
	e := doctree.NewFromNodes([]*doctree.Node{list})
	selectRange(t, e, doctree.Path{0, 0, 0}, 1, doctree.Path{0, 0, 0}, 1)

	assert.True(t, ToggleCodeBlock(e))
	assert.True(t, IsCodeBlockActive(e))

	require.Len(t, e.Children(), 2)
	assert.Equal(t, doctree.TypeCode, e.Children()[0].Type)
	assert.Equal(t, "a", e.String(doctree.Path{0}))
	assert.Equal(t, doctree.TypeUnorderedList, e.Children()[1].Type)
	assert.Equal(t, "b", e.String(doctree.Path{1}))
}

func TestToggleReportsChange(t *testing.T) {
	e := doctree.NewFromNodes([]*doctree.Node{doctree.NewParagraph("ab")})

	selectRange(t, e, doctree.Path{0, 0}, 0, doctree.Path{0, 0}, 2)
	assert.True(t, ToggleMark(e, MarkBold))
	assert.True(t, ToggleBlock(e, doctree.TypeHeadingTwo, BlockTypeType))
	assert.True(t, ToggleBlock(e, doctree.TypeHeadingTwo, BlockTypeType))
	assert.False(t, ToggleBlock(e, doctree.TypeParagraph, BlockTypeType), "paragraph off stays paragraph")

	selectRange(t, e, doctree.Path{0, 0}, 1, doctree.Path{0, 0}, 1)
	assert.True(t, ToggleMark(e, MarkItalic), "pending marks count as a change")

	e.Deselect()
	assert.False(t, ToggleMark(e, MarkBold))
	assert.False(t, ToggleCodeBlock(e))
}

func TestNoSelectionIsInactive(t *testing.T) {
	e := doctree.New()
	assert.False(t, IsMarkActive(e, MarkBold))
	assert.False(t, IsBlockActive(e, doctree.TypeHeadingOne, BlockTypeType))
	ToggleMark(e, MarkBold)
	ToggleBlock(e, doctree.TypeHeadingOne, BlockTypeType)
	assert.Equal(t, doctree.TypeParagraph, e.Children()[0].Type)
}
