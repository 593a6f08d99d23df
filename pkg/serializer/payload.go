package serializer

import (
	"sheets-editor-be/pkg/doctree"
)

type PayloadType string

const (
	PayloadImage   PayloadType = "image"
	PayloadAudio   PayloadType = "audio"
	PayloadVideo   PayloadType = "video"
	PayloadSource  PayloadType = "source"
	PayloadContent PayloadType = "content"
)

// PayloadItem is one top-level node as handed to persistence.
type PayloadItem struct {
	Position int         `json:"position"`
	Type     PayloadType `json:"type"`
	Content  string      `json:"content"`
}

func BuildPayload(nodes []*doctree.Node) []PayloadItem {
	return defaultSerializer.BuildPayload(nodes)
}

// BuildPayload emits one item per top-level node: embeds carry their source,
// everything else its serialized HTML.
func (s *Serializer) BuildPayload(nodes []*doctree.Node) []PayloadItem {
	items := make([]PayloadItem, 0, len(nodes))
	for i, n := range nodes {
		item := PayloadItem{Position: i, Type: PayloadContent}
		switch n.Attr("type") {
		case doctree.TypeImage:
			item.Type = PayloadImage
			item.Content = firstNonEmpty(n.Attr("src"), n.Attr("url"))
		case doctree.TypeAudio:
			item.Type = PayloadAudio
			item.Content = firstNonEmpty(n.Attr("src"), n.Attr("url"))
		case doctree.TypeYoutube:
			item.Type = PayloadVideo
			item.Content = YoutubeEmbedURL(n.Attr("youtubeId"))
		case doctree.TypePecha:
			item.Type = PayloadSource
			item.Content = n.Attr("src")
		case doctree.TypeCustomPecha:
			item.Type = PayloadSource
			item.Content = firstNonEmpty(n.Attr("src"), n.Attr("segmentId"))
		default:
			item.Content = s.Serialize(n)
		}
		items = append(items, item)
	}
	return items
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
