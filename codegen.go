package main

import (
	"fmt"
	"strings"
)

// The emitter walks the typed tree and produces the textual assembly
// stream the assembler consumes. Reserved line prefixes: $ scope marker,
// % local declaration, * argument declaration, @ label definition; every
// other line is an instruction.
type emitter struct {
	st   *SymbolTable
	sigs map[string]*FunctionSignature
	out  strings.Builder

	// label ordinals, one counter per construct kind
	ifNum    int
	forNum   int
	whileNum int
}

func newEmitter(st *SymbolTable, sigs map[string]*FunctionSignature) *emitter {
	return &emitter{st: st, sigs: sigs, ifNum: 1, forNum: 1, whileNum: 1}
}

func (e *emitter) emitf(format string, args ...any) {
	fmt.Fprintf(&e.out, format, args...)
}

// Calls to these names lower to a single dedicated opcode instead of the
// generic calling sequence.
func isIntrinsic(name string) bool {
	switch name {
	case "waitNextMeasure", "delay", "saveTable":
		return true
	}
	return false
}

// declarations writes the %name,size and *name,size metadata lines for a
// scope, in declaration order. Labels carry no storage and are skipped.
func (e *emitter) declarations(scopeName string) {
	sc := e.st.Scope(scopeName)
	for _, name := range sc.names {
		sym := sc.syms[name]
		if sym.Type == SymLabel {
			continue
		}
		prefix := "%"
		if sym.IsArg {
			prefix = "*"
		}
		e.emitf("%s%s,%d\n", prefix, name, sym.Size())
	}
}

// suite emits every statement of a block in order.
func (e *emitter) suite(s *Suite, scopeName string) error {
	for _, stmt := range s.Stmts {
		if err := e.stmt(stmt, scopeName); err != nil {
			return err
		}
	}
	return nil
}

func (e *emitter) stmt(s Stmt, scopeName string) error {
	switch s := s.(type) {
	case *VarDecl, *TableDef:
		// storage handled by the symbol-table builder
		return nil
	case *AssignStmt:
		return e.assign(s, scopeName)
	case *AugAssignStmt:
		return e.augAssign(s, scopeName)
	case *CallStmt:
		return e.callStmt(s, scopeName)
	case *ReturnStmt:
		return e.returnStmt(s, scopeName)
	case *IfStmt:
		return e.ifStmt(s, scopeName)
	case *WhileStmt:
		return e.whileStmt(s, scopeName)
	case *ForStmt:
		return e.forStmt(s, scopeName)
	case *FuncDecl:
		return e.funcDecl(s)
	default:
		return compileErrf(ErrUnrecognizedNode, "cannot compile %s", s)
	}
}

// assign emits rhs loaded, the promotion cast, then the lhs store. The
// destination must sit at or above the source on the lattice.
func (e *emitter) assign(s *AssignStmt, scopeName string) error {
	dst, err := valueType(s.Target, e.st, e.sigs, scopeName)
	if err != nil {
		return err
	}
	src, err := valueType(s.Value, e.st, e.sigs, scopeName)
	if err != nil {
		return err
	}
	if dst.Type < src.Type {
		return compileErrf(ErrIllegalDowncast, "cannot assign %s to %s variable %s", src.Type, dst.Type, s.Target.Name)
	}
	if err := e.expr(s.Value, scopeName, true); err != nil {
		return err
	}
	cast, err := castValues(src, dst)
	if err != nil {
		return err
	}
	e.out.WriteString(cast)
	return e.operand(s.Target, scopeName, false)
}

var augAssignOps = map[string]string{
	"+=": "ADD",
	"-=": "SUB",
	"*=": "MUL",
	"/=": "DIV",
	"%=": "MOD",
	"&=": "BIT_AND",
	"|=": "BIT_OR",
}

func (e *emitter) augAssign(s *AugAssignStmt, scopeName string) error {
	dst, err := valueType(s.Target, e.st, e.sigs, scopeName)
	if err != nil {
		return err
	}
	src, err := valueType(s.Value, e.st, e.sigs, scopeName)
	if err != nil {
		return err
	}
	op, ok := augAssignOps[s.Op]
	if !ok {
		return compileErrf(ErrUnrecognizedNode, "augmented assignment %q not recognized", s.Op)
	}
	if err := e.expr(s.Value, scopeName, true); err != nil {
		return err
	}
	cast, err := castValues(src, dst)
	if err != nil {
		return err
	}
	e.out.WriteString(cast)
	if err := e.operand(s.Target, scopeName, true); err != nil {
		return err
	}
	if dst.Type == SymFloat {
		// the F prefix is applied to every operator here, including the
		// integer-only ones; the assembler rejects FMOD and friends
		e.out.WriteString("F")
	}
	e.out.WriteString(op)
	e.out.WriteString("\n")
	return e.operand(s.Target, scopeName, false)
}

// callStmt emits a call in statement position and discards any numeric
// result left on the stack.
func (e *emitter) callStmt(s *CallStmt, scopeName string) error {
	if err := e.call(s.Call, scopeName); err != nil {
		return err
	}
	ret, err := valueType(s.Call, e.st, e.sigs, scopeName)
	if err != nil {
		return err
	}
	switch ret.Type {
	case SymInt, SymFloat:
		e.out.WriteString("POP4\n")
	case SymChar:
		e.out.WriteString("POP1\n")
	}
	return nil
}

func (e *emitter) returnStmt(s *ReturnStmt, scopeName string) error {
	retType := newSymbol(SymVoid, 0, false)
	if s.Value != nil {
		var err error
		retType, err = valueType(s.Value, e.st, e.sigs, scopeName)
		if err != nil {
			return err
		}
		if err := e.expr(s.Value, scopeName, true); err != nil {
			return err
		}
	}
	sig, ok := e.sigs[scopeName]
	if !ok {
		return compileErrf(ErrUnrecognizedNode, "return outside a function")
	}
	if retType.Type != sig.Ret.Type {
		return compileErrf(ErrIllegalCast, "function %s must return a value of type %s", scopeName, sig.Ret.Type)
	}
	e.out.WriteString("RETURN\n")
	return nil
}

func (e *emitter) ifStmt(s *IfStmt, scopeName string) error {
	n := e.ifNum
	e.ifNum++
	e.emitf("LITERAL4 @if_stmt_%d\n", n)
	if err := e.expr(s.Cond, scopeName, true); err != nil {
		return err
	}
	e.out.WriteString("NOT\nJMP_IF\n")
	if err := e.suite(s.Body, scopeName); err != nil {
		return err
	}
	e.emitf("@if_stmt_%d\n", n)
	return nil
}

func (e *emitter) whileStmt(s *WhileStmt, scopeName string) error {
	n := e.whileNum
	e.whileNum++
	e.emitf("@while_comp_%d\n", n)
	e.emitf("LITERAL4 @while_end_%d\n", n)
	if err := e.expr(s.Cond, scopeName, true); err != nil {
		return err
	}
	e.out.WriteString("NOT\nJMP_IF\n")
	if err := e.suite(s.Body, scopeName); err != nil {
		return err
	}
	e.emitf("LITERAL4 @while_comp_%d\n", n)
	e.out.WriteString("JMP\n")
	e.emitf("@while_end_%d\n", n)
	return nil
}

// forStmt counts the induction variable from zero up to the literal
// bound: body first, then increment, then the backward conditional jump.
func (e *emitter) forStmt(s *ForStmt, scopeName string) error {
	n := e.forNum
	e.forNum++
	e.out.WriteString("LITERAL4 0\n")
	if err := e.operand(s.Var, scopeName, false); err != nil {
		return err
	}
	e.emitf("@for_start_%d\n", n)
	if err := e.suite(s.Body, scopeName); err != nil {
		return err
	}
	if err := e.operand(s.Var, scopeName, true); err != nil {
		return err
	}
	e.out.WriteString("INC_S\n")
	if err := e.operand(s.Var, scopeName, false); err != nil {
		return err
	}
	e.emitf("LITERAL4 @for_start_%d\n", n)
	if err := e.operand(s.Var, scopeName, true); err != nil {
		return err
	}
	e.emitf("LITERAL4 %s\n", s.Bound)
	e.out.WriteString("LESS\nJMP_IF\n")
	return nil
}

// funcDecl wraps the body between a jump over it and its end label. The
// surrounding code runs in the global scope, so execution falls past the
// definition unless it is called.
func (e *emitter) funcDecl(s *FuncDecl) error {
	e.emitf("LITERAL4 @func_end_%s\n", s.Name)
	e.out.WriteString("JMP\n")
	e.emitf("$%s\n", s.Name)
	e.declarations(s.Name)
	if err := e.suite(s.Body, s.Name); err != nil {
		return err
	}
	if !endsInReturn(s.Body) {
		e.out.WriteString("RETURN\n")
	}
	e.emitf("@func_end_%s\n", s.Name)
	e.emitf("$%s\n", globalScope)
	return nil
}

func endsInReturn(s *Suite) bool {
	if len(s.Stmts) == 0 {
		return false
	}
	_, ok := s.Stmts[len(s.Stmts)-1].(*ReturnStmt)
	return ok
}

// call emits a function call. The three VM intrinsics lower to single
// opcodes; everything else pushes its arguments in reverse source order,
// each cast to its declared parameter type, then the callee address.
func (e *emitter) call(c *CallExpr, scopeName string) error {
	switch c.Name {
	case "waitNextMeasure":
		e.out.WriteString("WAIT_TABLE\n")
		return nil
	case "delay":
		if len(c.Args) != 1 {
			return compileErrf(ErrUnknownCallee, "delay takes one argument")
		}
		if err := e.expr(c.Args[0], scopeName, true); err != nil {
			return err
		}
		e.out.WriteString("DELAY\n")
		return nil
	case "saveTable":
		e.out.WriteString("SAVE_TABLE\n")
		return nil
	}

	sig, ok := e.sigs[c.Name]
	if !ok {
		return compileErrf(ErrUnknownCallee, "function %s is not defined", c.Name)
	}
	if len(c.Args) != len(sig.ParamTypes) {
		return compileErrf(ErrUnknownCallee, "function %s takes %d arguments, got %d", c.Name, len(sig.ParamTypes), len(c.Args))
	}
	for i := len(c.Args) - 1; i >= 0; i-- {
		argType, err := valueType(c.Args[i], e.st, e.sigs, scopeName)
		if err != nil {
			return err
		}
		if err := e.expr(c.Args[i], scopeName, true); err != nil {
			return err
		}
		cast, err := castValues(argType, sig.ParamTypes[i])
		if err != nil {
			return err
		}
		e.out.WriteString(cast)
	}
	e.emitf("LITERAL4 #%s\n", c.Name)
	e.out.WriteString("CALL\n")
	return nil
}

var intCompareOps = map[string]string{
	"==": "EQUALS\n",
	"<":  "LESS\n",
	">":  "GREATER\n",
	"!=": "EQUALS\nNOT\n",
}

var floatCompareOps = map[string]string{
	"==": "FEQUALS\n",
	"<":  "FLESS\n",
	">":  "FGREATER\n",
	"!=": "FEQUALS\nNOT\n",
}

// expr emits an expression; load selects between the load and store form
// for plain operands.
func (e *emitter) expr(x Expr, scopeName string, load bool) error {
	switch x := x.(type) {
	case *ArithExpr:
		return e.arith(x, scopeName)
	case *CompareExpr:
		return e.compare(x, scopeName)
	case *CallExpr:
		return e.call(x, scopeName)
	default:
		return e.operand(x, scopeName, load)
	}
}

// arith promotes every factor to the chain's destination type and emits
// the operator after each subsequent factor.
func (e *emitter) arith(x *ArithExpr, scopeName string) error {
	types := make([]*Symbol, len(x.Factors))
	for i, f := range x.Factors {
		t, err := valueType(f, e.st, e.sigs, scopeName)
		if err != nil {
			return err
		}
		types[i] = t
	}
	dst := promoted(types)

	if err := e.expr(x.Factors[0], scopeName, true); err != nil {
		return err
	}
	cast, err := castValues(types[0], dst)
	if err != nil {
		return err
	}
	e.out.WriteString(cast)

	for i, op := range x.Ops {
		if err := e.expr(x.Factors[i+1], scopeName, true); err != nil {
			return err
		}
		cast, err := castValues(types[i+1], dst)
		if err != nil {
			return err
		}
		e.out.WriteString(cast)
		var opStr string
		switch op {
		case "+":
			opStr = "ADD"
		case "-":
			opStr = "SUB"
		case "*":
			opStr = "MUL"
		case "/":
			opStr = "DIV"
		default:
			return compileErrf(ErrUnrecognizedNode, "operator %q not recognized", op)
		}
		if dst.Type == SymFloat {
			e.out.WriteString("F")
		}
		e.out.WriteString(opStr)
		e.out.WriteString("\n")
	}
	return nil
}

func (e *emitter) compare(x *CompareExpr, scopeName string) error {
	left, err := valueType(x.Left, e.st, e.sigs, scopeName)
	if err != nil {
		return err
	}
	right, err := valueType(x.Right, e.st, e.sigs, scopeName)
	if err != nil {
		return err
	}
	dst := promoted([]*Symbol{left, right})
	if err := e.expr(x.Left, scopeName, true); err != nil {
		return err
	}
	if err := e.expr(x.Right, scopeName, true); err != nil {
		return err
	}
	var ops map[string]string
	switch dst.Type {
	case SymChar, SymInt:
		ops = intCompareOps
	case SymFloat:
		ops = floatCompareOps
	default:
		return compileErrf(ErrUnrecognizedNode, "cannot compare values of type %s", dst.Type)
	}
	opStr, ok := ops[x.Op]
	if !ok {
		return compileErrf(ErrUnrecognizedNode, "comparison %q not recognized", x.Op)
	}
	e.out.WriteString(opStr)
	return nil
}

// operand emits a leaf value. Addresses are always pushed as 4-byte
// literals; the width suffix applies to the LOAD/STORE that follows.
func (e *emitter) operand(x Expr, scopeName string, load bool) error {
	switch x := x.(type) {
	case *NumberLit:
		e.emitf("LITERAL4 %s\n", x.Raw)
		return nil

	case *VarRef:
		return e.varRef(x, scopeName, load)

	case *StringLit:
		e.emitf("LITERAL1_ARRAY \"%s\"\n", x.Contents())
		return nil

	case *BoolLit:
		if x.Value {
			e.out.WriteString("LITERAL1 1\n")
		} else {
			e.out.WriteString("LITERAL1 0\n")
		}
		return nil

	default:
		return compileErrf(ErrUnrecognizedNode, "cannot compile operand %s", x)
	}
}

func (e *emitter) varRef(x *VarRef, scopeName string, load bool) error {
	sym, err := e.st.Lookup(scopeName, x.Name)
	if err != nil {
		return err
	}

	if x.Index != nil {
		if !sym.Type.IsArray() {
			return compileErrf(ErrNotAnArray, "%s in %s is not an array", x.Name, scopeName)
		}
		width := widthSuffix(sym.Type.Elem())
		e.emitf("LITERAL4 #%s\n", x.Name)
		if err := e.expr(x.Index, scopeName, true); err != nil {
			return err
		}
		e.emitf("LITERAL4 %d\n", sym.ElemSize())
		e.out.WriteString("MUL\n")
		if load {
			e.emitf("LOAD%d\n", width)
		} else {
			e.emitf("STORE%d\n", width)
		}
		return nil
	}

	if !sym.Type.IsArray() {
		width := widthSuffix(sym.Type)
		e.emitf("LITERAL4 #%s\n", x.Name)
		if load {
			e.emitf("LOAD%d\n", width)
		} else {
			e.emitf("STORE%d\n", width)
		}
		return nil
	}

	// whole-array transfer
	width := widthSuffix(sym.Type.Elem())
	if load {
		e.emitf("LITERAL4 %d\n", sym.ByteSize)
		e.emitf("LITERAL4 #%s\n", x.Name)
		e.emitf("LOAD%d_ARRAY\n", width)
	} else {
		e.emitf("LITERAL4 #%s\n", x.Name)
		e.emitf("STORE%d_ARRAY\n", width)
	}
	return nil
}

// widthSuffix selects the 1- or 4-byte instruction form for a scalar.
func widthSuffix(t SymbolType) int {
	if t == SymChar {
		return 1
	}
	return 4
}
