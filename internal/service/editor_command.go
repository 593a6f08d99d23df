package service

import (
	"errors"
	"fmt"

	"sheets-editor-be/internal/dto"
	"sheets-editor-be/pkg/doctree"
)

var commandModes = map[string]doctree.Mode{
	"all":     doctree.ModeAll,
	"lowest":  doctree.ModeLowest,
	"highest": doctree.ModeHighest,
}

// executeCommand runs one command-layer operation against e. Paths the editor
// rejects as malformed come back as ErrInvalidCommand instead of a panic.
func executeCommand(e *doctree.Editor, req *dto.CommandRequest) (applied bool, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if perr, ok := r.(error); ok && errors.Is(perr, doctree.ErrMalformedPath) {
			applied, err = false, fmt.Errorf("%w: %v", ErrInvalidCommand, perr)
			return
		}
		panic(r)
	}()

	opts := commandOptions(req)
	switch req.Op {
	case dto.OpInsertNodes:
		nodes := req.Nodes
		if len(nodes) == 0 && req.Node != nil {
			nodes = []*doctree.Node{req.Node}
		}
		if len(nodes) == 0 {
			return false, fmt.Errorf("%w: %s needs nodes", ErrInvalidCommand, req.Op)
		}
		return e.InsertNodes(nodes, opts...), nil

	case dto.OpDeleteRange:
		target := req.Range
		if target == nil {
			target = e.Selection
		}
		if target == nil {
			return false, fmt.Errorf("%w: %s needs a range or a selection", ErrInvalidCommand, req.Op)
		}
		return e.DeleteRange(*target), nil

	case dto.OpSetNodes:
		if len(req.Props) == 0 {
			return false, fmt.Errorf("%w: %s needs props", ErrInvalidCommand, req.Op)
		}
		return e.SetNodes(req.Props, opts...), nil

	case dto.OpUnsetNodes:
		if len(req.Keys) == 0 {
			return false, fmt.Errorf("%w: %s needs keys", ErrInvalidCommand, req.Op)
		}
		return e.UnsetNodes(req.Keys, opts...), nil

	case dto.OpWrapNodes:
		if !req.Node.IsElement() || req.Node.Type == "" {
			return false, fmt.Errorf("%w: %s needs a wrapper element", ErrInvalidCommand, req.Op)
		}
		return e.WrapNodes(req.Node, opts...), nil

	case dto.OpUnwrapNodes:
		return e.UnwrapNodes(opts...), nil

	case dto.OpRemoveNodes:
		if len(req.At) == 0 {
			return false, fmt.Errorf("%w: %s needs a path", ErrInvalidCommand, req.Op)
		}
		return e.RemoveNodes(req.At), nil

	case dto.OpInsertText:
		return e.InsertText(req.Text), nil

	case dto.OpDeleteBackward:
		return e.DeleteBackward(), nil

	case dto.OpInsertBreak:
		return e.InsertBreak(), nil
	}
	return false, fmt.Errorf("%w: unknown op %q", ErrInvalidCommand, req.Op)
}

func commandOptions(req *dto.CommandRequest) []doctree.Option {
	var opts []doctree.Option
	switch {
	case req.At != nil:
		opts = append(opts, doctree.At(req.At))
	case req.Point != nil:
		opts = append(opts, doctree.AtPoint(*req.Point))
	case req.Range != nil:
		opts = append(opts, doctree.AtRange(*req.Range))
	}
	if len(req.Match) > 0 {
		opts = append(opts, doctree.WithMatch(doctree.MatchType(req.Match...)))
	}
	if mode, ok := commandModes[req.Mode]; ok {
		opts = append(opts, doctree.WithMode(mode))
	}
	if req.Split {
		opts = append(opts, doctree.WithSplit())
	}
	return opts
}
