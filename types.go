package main

import "fmt"

// SymbolType classifies every name the compiler tracks. The tag order is
// the implicit promotion lattice: a value of a lower scalar tag may be
// promoted to a higher one, never the reverse.
type SymbolType int

const (
	SymUnknown SymbolType = iota
	SymChar
	SymInt
	SymFloat
	SymCharArr
	SymIntArr
	SymFloatArr
	SymFunction
	SymVoid
	SymLabel
)

// String returns a human-readable representation of the type
func (t SymbolType) String() string {
	switch t {
	case SymChar:
		return "char"
	case SymInt:
		return "int"
	case SymFloat:
		return "float"
	case SymCharArr:
		return "char[]"
	case SymIntArr:
		return "int[]"
	case SymFloatArr:
		return "float[]"
	case SymFunction:
		return "function"
	case SymVoid:
		return "void"
	case SymLabel:
		return "label"
	default:
		return "unknown"
	}
}

// IsArray reports whether t is one of the array types
func (t SymbolType) IsArray() bool {
	return t == SymCharArr || t == SymIntArr || t == SymFloatArr
}

// IsScalar reports whether t is a numeric scalar type
func (t SymbolType) IsScalar() bool {
	return t == SymChar || t == SymInt || t == SymFloat
}

// Elem returns the element type of an array type, SymUnknown otherwise.
func (t SymbolType) Elem() SymbolType {
	switch t {
	case SymCharArr:
		return SymChar
	case SymIntArr:
		return SymInt
	case SymFloatArr:
		return SymFloat
	default:
		return SymUnknown
	}
}

// Array returns the array counterpart of a scalar type, SymUnknown otherwise.
func (t SymbolType) Array() SymbolType {
	switch t {
	case SymChar:
		return SymCharArr
	case SymInt:
		return SymIntArr
	case SymFloat:
		return SymFloatArr
	default:
		return SymUnknown
	}
}

// scalarSize returns the storage width in bytes of a scalar type.
// Arrays carry their width in the Symbol instead.
func scalarSize(t SymbolType) int {
	switch t {
	case SymChar:
		return 1
	case SymInt, SymFloat:
		return 4
	default:
		return 0
	}
}

// symbolTypeFromToken maps a front-end type-token name onto a SymbolType.
// SHORT and LONG collapse onto the VM's single 4-byte integer.
func symbolTypeFromToken(tok string) SymbolType {
	switch tok {
	case "FLOAT", "FLOATING":
		return SymFloat
	case "INT", "DECIMAL", "LONG", "SHORT":
		return SymInt
	case "CHAR":
		return SymChar
	case "VOID":
		return SymVoid
	default:
		return SymUnknown
	}
}

// Symbol describes one named entity: a scalar, an array, or a code label.
// Address is a scope-relative offset until assembly resolves it to an
// absolute VM address.
type Symbol struct {
	Type     SymbolType
	ByteSize int // total byte count for arrays, always 0 for scalars
	IsArg    bool
	Address  int
}

func newSymbol(t SymbolType, size int, isArg bool) *Symbol {
	if !t.IsArray() {
		size = 0
	}
	return &Symbol{Type: t, ByteSize: size, IsArg: isArg}
}

// Size is the number of bytes the symbol occupies in storage.
func (s *Symbol) Size() int {
	if s.Type.IsArray() {
		return s.ByteSize
	}
	return scalarSize(s.Type)
}

// ElemSize is the width of one element: the scalar width for scalars, the
// element width for arrays.
func (s *Symbol) ElemSize() int {
	if s.Type.IsArray() {
		return scalarSize(s.Type.Elem())
	}
	return scalarSize(s.Type)
}

// Equal reports type-and-size equality. An array symbol with ByteSize 0 is
// an unsized array parameter and matches any array of the same element
// type, so arrays pass by reference without a declared length.
func (s *Symbol) Equal(o *Symbol) bool {
	if s.Type != o.Type {
		return false
	}
	if s.Type.IsArray() && (s.ByteSize == 0 || o.ByteSize == 0) {
		return true
	}
	return s.ByteSize == o.ByteSize
}

func (s *Symbol) String() string {
	if s.ByteSize == 0 {
		return fmt.Sprintf("Symbol: %s", s.Type)
	}
	return fmt.Sprintf("Symbol: %s[%d]", s.Type, s.ByteSize/s.ElemSize())
}

// FunctionSignature records a callable's return type, ordered parameters
// and resolved address. Builtins are preassigned addresses at or above
// builtinBase; user functions receive theirs during assembly pass 1.
type FunctionSignature struct {
	Ret        *Symbol
	Address    int
	ParamTypes []*Symbol
	ParamNames []string
}

// ParamType returns the declared type of the named parameter, or nil.
func (f *FunctionSignature) ParamType(name string) *Symbol {
	for i, n := range f.ParamNames {
		if n == name {
			return f.ParamTypes[i]
		}
	}
	return nil
}

func (f *FunctionSignature) String() string {
	params := ""
	for i, name := range f.ParamNames {
		if i > 0 {
			params += ", "
		}
		params += fmt.Sprintf("%s: %s", name, f.ParamTypes[i])
	}
	return fmt.Sprintf("Function: [%s]-> %s", params, f.Ret)
}
