package hydrate

import (
	"context"
	"encoding/json"
	"testing"

	"sheets-editor-be/pkg/doctree"
	"sheets-editor-be/pkg/embed"
	"sheets-editor-be/pkg/serializer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) []*doctree.Node {
	t.Helper()
	var nodes []*doctree.Node
	require.NoError(t, json.Unmarshal([]byte(raw), &nodes))
	return nodes
}

func TestFromPayloadRoundTrip(t *testing.T) {
	original := decode(t, `[
		{"type":"heading-one","align":"center","children":[{"text":"Title"}]},
		{"type":"paragraph","children":[{"text":"b","bold":true},{"text":" plain "},{"text":"red","color":"#f00"}]},
		{"type":"unordered-list","children":[
			{"type":"list-item","children":[{"text":"a"}]},
			{"type":"list-item","children":[{"text":"b","italic":true}]}
		]},
		{"type":"image","src":"https://x.test/a.png","children":[{"text":""}]},
		{"type":"youtube","youtubeId":"abc123","children":[{"text":""}]},
		{"type":"code","children":[{"text":"x := 1"}]},
		{"type":"pecha","src":"seg-1","children":[{"text":""}]},
		{"type":"table","children":[{"type":"table-row","children":[{"type":"table-cell","children":[{"text":"c"}]}]}]}
	]`)

	items := serializer.BuildPayload(original)
	restored := FromPayload(items)

	require.Len(t, restored, len(original))
	assert.Equal(t, serializer.SerializeDocument(original), serializer.SerializeDocument(restored))
	assert.Equal(t, "abc123", restored[4].Attr("youtubeId"))
	assert.Equal(t, "center", restored[0].Attr("align"))
}

func TestFromPayloadRestoresEmbeds(t *testing.T) {
	classifier := embed.NewClassifier()
	var original []*doctree.Node
	for _, link := range []string{
		"https://pecha.org/chapter?text_id=t1&content_id=c1&segment_id=s1",
		"https://soundcloud.com/artist/track",
		"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
	} {
		res := classifier.Classify(context.Background(), link)
		require.True(t, res.IsEmbed(), link)
		original = append(original, res.Node)
	}
	original = append(original, doctree.NewElement(doctree.TypePecha, doctree.Props{"src": "seg-1"}))

	restored := FromPayload(serializer.BuildPayload(original))

	require.Len(t, restored, len(original))
	assert.Equal(t, serializer.SerializeDocument(original), serializer.SerializeDocument(restored))

	assert.Equal(t, doctree.TypeCustomPecha, restored[0].Type)
	assert.Equal(t, "s1", restored[0].Attr("segmentId"))
	assert.Equal(t, original[0].Attr("src"), restored[0].Attr("src"))
	for i := 1; i <= 2; i++ {
		assert.Equal(t, original[i].Attr("url"), restored[i].Attr("url"))
		assert.Equal(t, original[i].Attr("src"), restored[i].Attr("src"))
	}
	assert.Equal(t, doctree.TypePecha, restored[3].Type)
	assert.Equal(t, "seg-1", restored[3].Attr("src"))
}

func TestFromPayloadOrdersByPosition(t *testing.T) {
	restored := FromPayload([]serializer.PayloadItem{
		{Position: 1, Type: serializer.PayloadContent, Content: "<p>second</p>"},
		{Position: 0, Type: serializer.PayloadContent, Content: "<p>first</p>"},
	})

	require.Len(t, restored, 2)
	assert.Equal(t, "first", restored[0].Content())
	assert.Equal(t, "second", restored[1].Content())
}

func TestFromPayloadEmpty(t *testing.T) {
	restored := FromPayload(nil)

	require.Len(t, restored, 1)
	assert.Equal(t, doctree.TypeParagraph, restored[0].Type)
}

func TestFromHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips scripts",
			input: `<p>hi<script>alert(1)</script></p>`,
			want:  `[{"type":"paragraph","children":[{"text":"hi"}]}]`,
		},
		{
			name:  "loose text becomes paragraph",
			input: `hello <b>world</b>`,
			want:  `[{"type":"paragraph","children":[{"text":"hello "},{"text":"world","bold":true}]}]`,
		},
		{
			name:  "line breaks",
			input: `<p>a<br>b</p>`,
			want:  `[{"type":"paragraph","children":[{"text":"a"},{"text":"\n"},{"text":"b"}]}]`,
		},
		{
			name:  "nested marks",
			input: `<p><strong><em>x</em></strong></p>`,
			want:  `[{"type":"paragraph","children":[{"text":"x","bold":true,"italic":true}]}]`,
		},
		{
			name:  "ordered list",
			input: `<ol><li>one</li></ol>`,
			want:  `[{"type":"ordered-list","children":[{"type":"list-item","children":[{"text":"one"}]}]}]`,
		},
		{
			name:  "horizontal line",
			input: `<hr>`,
			want:  `[{"type":"horizontal-line","children":[{"text":""}]}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(FromHTML(tt.input))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestFromHTMLReferenceLink(t *testing.T) {
	nodes := FromHTML(`<p><a href="https://x.test/a" class="refLink" data-ref="r1">see</a></p>`)

	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Children, 1)
	link := nodes[0].Children[0]
	assert.Equal(t, doctree.TypeLink, link.Type)
	assert.Equal(t, "https://x.test/a", link.Attr("url"))
	assert.Equal(t, "r1", link.Attr("ref"))
	assert.Equal(t, "see", link.Content())
}
