package doctree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func caret(path Path, offset int) Range {
	return Collapsed(Point{Path: path, Offset: offset})
}

func span(from Path, fromOffset int, to Path, toOffset int) Range {
	return Range{
		Anchor: Point{Path: from, Offset: fromOffset},
		Focus:  Point{Path: to, Offset: toOffset},
	}
}

func types(e *Editor) []string {
	var out []string
	for _, n := range e.Children() {
		out = append(out, n.Type)
	}
	return out
}

func TestNewEditorHasEmptyParagraph(t *testing.T) {
	e := New()
	require.Len(t, e.Children(), 1)
	assert.Equal(t, TypeParagraph, e.Children()[0].Type)
	assert.True(t, e.IsEmpty(e.Children()[0]))
}

func TestNodeJSON(t *testing.T) {
	raw := `[{"type":"paragraph","align":"center","children":[{"text":"hi","bold":true}]}]`

	var nodes []*Node
	require.NoError(t, json.Unmarshal([]byte(raw), &nodes))
	require.Len(t, nodes, 1)
	assert.Equal(t, TypeParagraph, nodes[0].Type)
	assert.Equal(t, "center", nodes[0].Attr("align"))
	assert.True(t, nodes[0].Children[0].IsText())
	assert.True(t, nodes[0].Children[0].Bool("bold"))

	out, err := json.Marshal(nodes)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestInsertNodesSplitsBlock(t *testing.T) {
	tests := []struct {
		name      string
		offset    int
		wantTypes []string
		wantText  []string
	}{
		{
			name:      "middle splits the paragraph",
			offset:    5,
			wantTypes: []string{TypeParagraph, TypeImage, TypeParagraph},
			wantText:  []string{"hello", "", " world"},
		},
		{
			name:      "end inserts after",
			offset:    11,
			wantTypes: []string{TypeParagraph, TypeImage},
			wantText:  []string{"hello world", ""},
		},
		{
			name:      "start inserts before",
			offset:    0,
			wantTypes: []string{TypeImage, TypeParagraph},
			wantText:  []string{"", "hello world"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewFromNodes([]*Node{NewParagraph("hello world")})
			require.True(t, e.Select(caret(Path{0, 0}, tt.offset)))

			ok := e.InsertNodes([]*Node{NewElement(TypeImage, Props{"src": "a.png"})})
			require.True(t, ok)
			assert.Equal(t, tt.wantTypes, types(e))
			for i, want := range tt.wantText {
				assert.Equal(t, want, e.String(Path{i}))
			}
		})
	}
}

func TestInsertNodesMovesSelectionToEnd(t *testing.T) {
	e := NewFromNodes([]*Node{NewParagraph("hello world")})
	e.Select(caret(Path{0, 0}, 5))

	e.InsertNodes([]*Node{NewElement(TypeImage, Props{"src": "a.png"})})

	require.NotNil(t, e.Selection)
	assert.Equal(t, Point{Path: Path{1, 0}, Offset: 0}, e.Selection.Anchor)
}

func TestInsertNodesAtExplicitPathKeepsSelection(t *testing.T) {
	e := NewFromNodes([]*Node{NewParagraph("one")})
	e.Select(caret(Path{0, 0}, 1))

	ok := e.InsertNodes([]*Node{NewParagraph("two")}, At(Path{1}))
	require.True(t, ok)
	assert.Equal(t, "two", e.String(Path{1}))
	assert.Equal(t, Point{Path: Path{0, 0}, Offset: 1}, e.Selection.Anchor)
}

func TestInsertNodesInvalidTargets(t *testing.T) {
	e := NewFromNodes([]*Node{NewParagraph("one")})

	assert.False(t, e.InsertNodes([]*Node{NewParagraph("x")}), "no selection")
	assert.False(t, e.InsertNodes([]*Node{NewParagraph("x")}, At(Path{5})))
	assert.False(t, e.InsertNodes(nil))
	assert.Len(t, e.Children(), 1)
}

func TestDeleteRangeAcrossBlocks(t *testing.T) {
	e := NewFromNodes([]*Node{NewParagraph("hello"), NewParagraph("middle"), NewParagraph("world")})
	r := span(Path{0, 0}, 2, Path{2, 0}, 3)
	e.Select(r)

	require.True(t, e.DeleteRange(r))

	require.Len(t, e.Children(), 1)
	assert.Equal(t, "held", e.String(Path{0}))
	assert.Equal(t, Point{Path: Path{0, 0}, Offset: 2}, e.Selection.Anchor)
	assert.True(t, e.Selection.IsCollapsed())
}

func TestDeleteRangeWithinLeaf(t *testing.T) {
	e := NewFromNodes([]*Node{NewParagraph("hello world")})
	require.True(t, e.DeleteRange(span(Path{0, 0}, 5, Path{0, 0}, 11)))
	assert.Equal(t, "hello", e.String(nil))
	assert.False(t, e.DeleteRange(caret(Path{0, 0}, 1)))
	assert.False(t, e.DeleteRange(span(Path{3, 0}, 0, Path{0, 0}, 1)))
}

func TestDeleteRangeRemovesVoidBlock(t *testing.T) {
	e := NewFromNodes([]*Node{
		NewParagraph("ab"),
		NewElement(TypeImage, Props{"src": "a.png"}),
		NewParagraph("cd"),
	})
	require.True(t, e.DeleteRange(span(Path{0, 0}, 2, Path{1, 0}, 0)))
	assert.Equal(t, []string{TypeParagraph, TypeParagraph}, types(e))
}

func TestSetNodesSplitsMarks(t *testing.T) {
	e := NewFromNodes([]*Node{NewParagraph("hello world")})
	e.Select(span(Path{0, 0}, 0, Path{0, 0}, 5))

	require.True(t, e.SetNodes(Props{"bold": true}, WithMatch(MatchText), WithSplit()))

	leaves := e.Children()[0].Children
	require.Len(t, leaves, 2)
	assert.Equal(t, "hello", leaves[0].Text)
	assert.True(t, leaves[0].Bool("bold"))
	assert.Equal(t, " world", leaves[1].Text)
	assert.False(t, leaves[1].Bool("bold"))

	require.True(t, e.UnsetNodes([]string{"bold"}, WithMatch(MatchText), WithSplit()))
	require.Len(t, e.Children()[0].Children, 1)
	assert.Equal(t, "hello world", e.Children()[0].Children[0].Text)
}

func TestSetNodesTypeOnBlocks(t *testing.T) {
	e := NewFromNodes([]*Node{NewParagraph("a"), NewParagraph("b"), NewParagraph("c")})
	e.Select(span(Path{0, 0}, 0, Path{1, 0}, 1))

	require.True(t, e.SetNodes(Props{"type": TypeHeadingOne, "align": "center"}))
	assert.Equal(t, []string{TypeHeadingOne, TypeHeadingOne, TypeParagraph}, types(e))
	assert.Equal(t, "center", e.Children()[1].Attr("align"))

	require.True(t, e.SetNodes(Props{"align": nil}, At(Path{1})))
	assert.Nil(t, e.Children()[1].Get("align"))
	assert.False(t, e.SetNodes(Props{"align": nil}, At(Path{1})), "nothing left to change")
}

func TestWrapAndUnwrapList(t *testing.T) {
	e := NewFromNodes([]*Node{NewParagraph("a"), NewParagraph("b"), NewParagraph("c")})
	e.Select(span(Path{0, 0}, 0, Path{1, 0}, 1))

	e.WithoutNormalizing(func() {
		e.SetNodes(Props{"type": TypeListItem})
		e.WrapNodes(NewElement(TypeUnorderedList, nil))
	})

	assert.Equal(t, []string{TypeUnorderedList, TypeParagraph}, types(e))
	list := e.Children()[0]
	require.Len(t, list.Children, 2)
	assert.Equal(t, TypeListItem, list.Children[0].Type)
	assert.Equal(t, "b", list.Children[1].Content())

	require.True(t, e.UnwrapNodes(WithMatch(MatchList), WithSplit()))
	assert.Equal(t, []string{TypeParagraph, TypeParagraph, TypeParagraph}, types(e))
	assert.Equal(t, "c", e.String(Path{2}))
}

func TestUnwrapSplitsAroundMiddleItem(t *testing.T) {
	e := NewFromNodes([]*Node{
		NewElement(TypeUnorderedList, nil,
			NewElement(TypeListItem, nil, NewText("a", nil)),
			NewElement(TypeListItem, nil, NewText("b", nil)),
			NewElement(TypeListItem, nil, NewText("c", nil)),
		),
	})
	e.Select(caret(Path{0, 1, 0}, 0))

	require.True(t, e.UnwrapNodes(WithMatch(MatchList), WithSplit()))

	assert.Equal(t, []string{TypeUnorderedList, TypeParagraph, TypeUnorderedList}, types(e))
	assert.Equal(t, "a", e.String(Path{0}))
	assert.Equal(t, "b", e.String(Path{1}))
	assert.Equal(t, "c", e.String(Path{2}))
	assert.Equal(t, Point{Path: Path{1, 0}, Offset: 0}, e.Selection.Anchor)
}

func TestNormalizeRepairsStructure(t *testing.T) {
	e := NewFromNodes([]*Node{
		NewText("loose", nil),
		{Type: TypeUnorderedList, Children: []*Node{NewParagraph("item")}},
		NewElement(TypeListItem, nil, NewText("stray", nil)),
		NewElement(TypeParagraph, nil,
			NewText("a", nil),
			NewText("b", nil),
			NewText("", Props{"bold": true}),
		),
		{Type: TypeBlockQuote},
	})

	assert.Equal(t, []string{TypeParagraph, TypeUnorderedList, TypeParagraph, TypeParagraph, TypeBlockQuote}, types(e))
	assert.Equal(t, TypeListItem, e.Children()[1].Children[0].Type)
	require.Len(t, e.Children()[3].Children, 1)
	assert.Equal(t, "ab", e.Children()[3].Children[0].Text)
	require.Len(t, e.Children()[4].Children, 1)
	assert.True(t, e.Children()[4].Children[0].IsText())
}

func TestDeleteBackward(t *testing.T) {
	e := NewFromNodes([]*Node{NewParagraph("ab"), NewParagraph("cd")})

	e.Select(caret(Path{1, 0}, 0))
	require.True(t, e.DeleteBackward())
	require.Len(t, e.Children(), 1)
	assert.Equal(t, "abcd", e.String(Path{0}))
	assert.Equal(t, Point{Path: Path{0, 0}, Offset: 2}, e.Selection.Anchor)

	require.True(t, e.DeleteBackward())
	assert.Equal(t, "acd", e.String(Path{0}))
	assert.Equal(t, 1, e.Selection.Anchor.Offset)

	e.Select(caret(Path{0, 0}, 0))
	assert.False(t, e.DeleteBackward())
}

func TestInsertBreak(t *testing.T) {
	e := NewFromNodes([]*Node{NewParagraph("abcd")})
	e.Select(caret(Path{0, 0}, 2))

	require.True(t, e.InsertBreak())
	assert.Equal(t, "ab", e.String(Path{0}))
	assert.Equal(t, "cd", e.String(Path{1}))
	assert.Equal(t, Point{Path: Path{1, 0}, Offset: 0}, e.Selection.Anchor)
}

func TestInsertBreakAfterHeading(t *testing.T) {
	e := NewFromNodes([]*Node{NewElement(TypeHeadingOne, nil, NewText("Title", nil))})
	e.Select(caret(Path{0, 0}, 5))

	require.True(t, e.InsertBreak())
	assert.Equal(t, []string{TypeHeadingOne, TypeParagraph}, types(e))
}

func TestInsertTextWithPendingMarks(t *testing.T) {
	e := NewFromNodes([]*Node{NewParagraph("ab")})
	e.Select(caret(Path{0, 0}, 2))
	e.Marks = Props{"bold": true}

	require.True(t, e.InsertText("c"))

	leaves := e.Children()[0].Children
	require.Len(t, leaves, 2)
	assert.Equal(t, "c", leaves[1].Text)
	assert.True(t, leaves[1].Bool("bold"))
	assert.Nil(t, e.Marks)
	assert.Equal(t, Point{Path: Path{0, 1}, Offset: 1}, e.Selection.Anchor)

	require.True(t, e.InsertText("d"))
	assert.Equal(t, "cd", e.Children()[0].Children[1].Text)
}

func TestQueries(t *testing.T) {
	e := NewFromNodes([]*Node{
		NewElement(TypeOrderedList, nil, NewElement(TypeListItem, nil, NewText("", nil))),
		NewParagraph("x"),
	})
	e.Select(caret(Path{0, 0, 0}, 0))

	block, ok := e.Block()
	require.True(t, ok)
	assert.Equal(t, TypeListItem, block.Node.Type)
	assert.True(t, e.IsEmpty(block.Node))
	assert.False(t, e.IsEmpty(e.Children()[1]))

	top, ok := e.NodeAt(e.Selection.Anchor.Path, 1)
	require.True(t, ok)
	assert.Equal(t, TypeOrderedList, top.Node.Type)

	_, ok = e.NodeAt(Path{0}, 3)
	assert.False(t, ok)
	assert.False(t, e.Has(Path{4}))
	assert.False(t, e.Select(caret(Path{1, 0}, 7)))
	assert.Panics(t, func() { e.Get(Path{-1}) })
}

func TestPathRefFollowsEdits(t *testing.T) {
	e := NewFromNodes([]*Node{NewParagraph("a"), NewParagraph("b")})
	ref := e.PathRef(Path{1}, AffinityForward)

	e.InsertNodes([]*Node{NewParagraph("z")}, At(Path{0}))
	assert.Equal(t, Path{2}, ref.Current())

	e.RemoveNodes(Path{2})
	assert.Nil(t, ref.Unref())
}
