package main

import (
	"fmt"
	"strings"
)

// defaultStackSize is the byte count reserved at the base of the VM
// address space for the runtime stack.
const defaultStackSize = 150

// Compile translates a bound syntax tree plus the builtin signatures into
// the human-readable assembly text and the binary VM image. It is a pure
// function of its inputs: all counters and symbol state are created here,
// so compiling the same tree twice yields byte-identical output.
func Compile(root *Suite, builtins map[string]*FunctionSignature, stackSize int) (string, []byte, error) {
	st, sigs, tables, err := buildSymbolTable(root, builtins)
	if err != nil {
		return "", nil, err
	}

	em := newEmitter(st, sigs)
	em.emitf("$%s\n", globalScope)
	em.declarations(globalScope)
	if err := em.suite(root, globalScope); err != nil {
		return "", nil, err
	}
	em.out.WriteString("NOP\n")
	assembly := em.out.String()

	image, err := assemble(assembly, st, sigs, tables, stackSize)
	if err != nil {
		return "", nil, err
	}

	var text strings.Builder
	fmt.Fprintf(&text, "TABLES %d\n", len(tables))
	for _, table := range tables {
		text.WriteString(table.String())
	}
	text.WriteString(assembly)
	return text.String(), image, nil
}
