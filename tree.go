package main

import (
	"encoding/json"
	"errors"
	"strconv"
)

// The front end (lexer, indentation handling, grammar) is a separate tool;
// it hands the compiler its parse tree in a small JSON form. Rule nodes
// carry Kind and Children, token leaves carry Type, Value and Line.
type ParseTree struct {
	Kind     string       `json:"kind,omitempty"`
	Type     string       `json:"type,omitempty"`
	Value    string       `json:"value,omitempty"`
	Line     int          `json:"line,omitempty"`
	Children []*ParseTree `json:"children,omitempty"`
}

// IsToken reports whether the node is a token leaf.
func (t *ParseTree) IsToken() bool {
	return t.Kind == ""
}

// firstToken descends leftmost until it reaches a token leaf. The grammar
// wraps type and operator tokens in one or two levels of rule nodes, and
// the exact depth differs between contexts; this makes the binder
// indifferent to it.
func firstToken(t *ParseTree) *ParseTree {
	for t != nil && !t.IsToken() {
		if len(t.Children) == 0 {
			return nil
		}
		t = t.Children[0]
	}
	return t
}

// TreeError is a front-end failure in the form the driver prints.
// UT: unexpected token, UC: unexpected characters, UI: unexpected input.
type TreeError struct {
	Code string
	Line int
}

func (e *TreeError) Error() string {
	return "[" + e.Code + "]Error on line: " + strconv.Itoa(e.Line)
}

// loadTree decodes a serialized parse tree. Decode failures map onto the
// front-end error codes so the driver prints a single uniform diagnostic.
func loadTree(data []byte) (*ParseTree, error) {
	var t ParseTree
	if err := json.Unmarshal(data, &t); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return nil, &TreeError{Code: "UC", Line: lineOfOffset(data, syn.Offset)}
		}
		var typ *json.UnmarshalTypeError
		if errors.As(err, &typ) {
			return nil, &TreeError{Code: "UT", Line: lineOfOffset(data, typ.Offset)}
		}
		return nil, &TreeError{Code: "UI", Line: 1}
	}
	return &t, nil
}

func lineOfOffset(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line := 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
		}
	}
	return line
}
