package main

import (
	"errors"
	"testing"
)

// TestBuildSymbolTableOffsets tests global allocator advancement
func TestBuildSymbolTableOffsets(t *testing.T) {
	root := &Suite{Stmts: []Stmt{
		&VarDecl{Type: SymChar, Name: "c"},
		&VarDecl{Type: SymInt, Name: "x"},
		&VarDecl{Type: SymFloat, Name: "y"},
		&VarDecl{Type: SymInt, Name: "arr", IsArray: true, ArrayLen: 10},
		&VarDecl{Type: SymInt, Name: "z"},
	}}
	st, _, _, err := buildSymbolTable(root, nil)
	if err != nil {
		t.Fatalf("buildSymbolTable: %v", err)
	}

	wantOffsets := map[string]int{"c": 0, "x": 1, "y": 5, "arr": 9, "z": 49}
	for name, want := range wantOffsets {
		sym, err := st.Lookup(globalScope, name)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		if sym.Address != want {
			t.Errorf("%s at offset %d, want %d", name, sym.Address, want)
		}
	}

	arr, _ := st.Lookup(globalScope, "arr")
	if arr.Type != SymIntArr || arr.ByteSize != 40 {
		t.Errorf("arr = %s size %d, want int array of 40 bytes", arr.Type, arr.ByteSize)
	}
}

// TestBuildSymbolTableFunction tests function scopes and signatures
func TestBuildSymbolTableFunction(t *testing.T) {
	root := &Suite{Stmts: []Stmt{
		&FuncDecl{
			Ret:  SymInt,
			Name: "avg",
			Params: []Param{
				{Type: SymInt, Name: "a"},
				{Type: SymFloat, Name: "b"},
			},
			Body: &Suite{Stmts: []Stmt{
				&VarDecl{Type: SymInt, Name: "tmp"},
				&ReturnStmt{Value: &VarRef{Name: "tmp"}},
			}},
		},
	}}
	st, sigs, _, err := buildSymbolTable(root, nil)
	if err != nil {
		t.Fatalf("buildSymbolTable: %v", err)
	}

	sig, ok := sigs["avg"]
	if !ok {
		t.Fatal("avg has no signature")
	}
	if sig.Ret.Type != SymInt {
		t.Errorf("avg return = %s, want int", sig.Ret.Type)
	}
	if len(sig.ParamTypes) != 2 || sig.ParamTypes[1].Type != SymFloat {
		t.Errorf("avg parameters wrong: %v", sig.ParamTypes)
	}

	a, err := st.Lookup("avg", "a")
	if err != nil {
		t.Fatalf("lookup a: %v", err)
	}
	if !a.IsArg {
		t.Error("parameter a must be flagged as argument")
	}
	tmp, err := st.Lookup("avg", "tmp")
	if err != nil {
		t.Fatalf("lookup tmp: %v", err)
	}
	if tmp.IsArg {
		t.Error("local tmp must not be flagged as argument")
	}
	if tmp.Address != 0 {
		t.Errorf("first local at offset %d, want 0", tmp.Address)
	}
}

// TestBuildSymbolTableRedefinition tests duplicate-name rejection
func TestBuildSymbolTableRedefinition(t *testing.T) {
	f := func() *FuncDecl {
		return &FuncDecl{Ret: SymVoid, Name: "f", Body: &Suite{}}
	}
	root := &Suite{Stmts: []Stmt{f(), f()}}
	_, _, _, err := buildSymbolTable(root, nil)
	var ce *CompileError
	if !errors.As(err, &ce) || ce.Kind != ErrFunctionRedefined {
		t.Fatalf("want function redefined error, got %v", err)
	}

	// a user function may not shadow a builtin either
	builtins := map[string]*FunctionSignature{
		"f": {Ret: newSymbol(SymVoid, 0, false), Address: builtinBase},
	}
	root = &Suite{Stmts: []Stmt{f()}}
	_, _, _, err = buildSymbolTable(root, builtins)
	if !errors.As(err, &ce) || ce.Kind != ErrFunctionRedefined {
		t.Fatalf("want function redefined error for builtin clash, got %v", err)
	}
}

// TestBuildSymbolTableBuiltins tests builtin label injection
func TestBuildSymbolTableBuiltins(t *testing.T) {
	builtins := map[string]*FunctionSignature{
		"readAnalog": {Ret: newSymbol(SymFloat, 0, false), Address: builtinBase + 3},
	}
	st, sigs, _, err := buildSymbolTable(&Suite{}, builtins)
	if err != nil {
		t.Fatalf("buildSymbolTable: %v", err)
	}
	sym, err := st.Lookup(globalScope, "readAnalog")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if sym.Type != SymLabel || sym.Address != builtinBase+3 {
		t.Errorf("builtin label = %s at %d", sym.Type, sym.Address)
	}
	if sigs["readAnalog"] == nil {
		t.Error("builtin signature must be carried over")
	}
}

// TestBuildSymbolTableTables tests column globals in document order
func TestBuildSymbolTableTables(t *testing.T) {
	root := &Suite{Stmts: []Stmt{
		&VarDecl{Type: SymInt, Name: "before"},
		&TableDef{
			Name:        "t",
			PeriodValue: 5,
			PeriodUnit:  "s",
			Columns: []TableColumn{
				{TypeName: "INT", Name: "a"},
				{TypeName: "FLOAT", Name: "b"},
			},
		},
		&VarDecl{Type: SymInt, Name: "after"},
	}}
	st, _, tables, err := buildSymbolTable(root, nil)
	if err != nil {
		t.Fatalf("buildSymbolTable: %v", err)
	}
	if len(tables) != 1 || tables[0].Name != "t" {
		t.Fatalf("tables = %v", tables)
	}
	for name, want := range map[string]int{"before": 0, "a": 4, "b": 8, "after": 12} {
		sym, err := st.Lookup(globalScope, name)
		if err != nil {
			t.Fatalf("lookup %s: %v", name, err)
		}
		if sym.Address != want {
			t.Errorf("%s at offset %d, want %d", name, sym.Address, want)
		}
	}
}

// TestLookupFallback tests scope-then-global resolution
func TestLookupFallback(t *testing.T) {
	root := &Suite{Stmts: []Stmt{
		&VarDecl{Type: SymInt, Name: "g"},
		&FuncDecl{Ret: SymVoid, Name: "f", Body: &Suite{Stmts: []Stmt{
			&VarDecl{Type: SymInt, Name: "l"},
		}}},
	}}
	st, _, _, err := buildSymbolTable(root, nil)
	if err != nil {
		t.Fatalf("buildSymbolTable: %v", err)
	}
	if _, err := st.Lookup("f", "g"); err != nil {
		t.Errorf("global g must resolve from function scope: %v", err)
	}
	if _, err := st.Lookup("f", "l"); err != nil {
		t.Errorf("local l must resolve: %v", err)
	}
	_, err = st.Lookup(globalScope, "l")
	var ce *CompileError
	if !errors.As(err, &ce) || ce.Kind != ErrSymbolUndefined {
		t.Errorf("locals must not leak into the global scope, got %v", err)
	}
}
