package doctree

type OpKind string

const (
	OpInsertNode OpKind = "insert_node"
	OpRemoveNode OpKind = "remove_node"
	OpInsertText OpKind = "insert_text"
	OpRemoveText OpKind = "remove_text"
	OpSplitNode  OpKind = "split_node"
	OpMergeNode  OpKind = "merge_node"
	OpMoveNode   OpKind = "move_node"
	OpSetNode    OpKind = "set_node"
)

// Operation is the unit every command is expressed in. Only the fields of the
// given Kind are meaningful.
//
//	insert_node, remove_node  Path, Node
//	insert_text, remove_text  Path, Offset, Text
//	split_node                Path, Position, Props (of the new right half)
//	merge_node                Path, Position (size of the left sibling)
//	move_node                 Path, NewPath
//	set_node                  Path, Props, OldProps (nil value unsets)
type Operation struct {
	Kind     OpKind `json:"type"`
	Path     Path   `json:"path"`
	NewPath  Path   `json:"newPath,omitempty"`
	Offset   int    `json:"offset,omitempty"`
	Text     string `json:"text,omitempty"`
	Position int    `json:"position,omitempty"`
	Node     *Node  `json:"node,omitempty"`
	Props    Props  `json:"properties,omitempty"`
	OldProps Props  `json:"oldProperties,omitempty"`
}
