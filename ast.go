package main

import (
	"fmt"
	"strings"
)

// AST nodes. The front end delivers a serialized parse tree (tree.go);
// bind.go turns it into these typed nodes before compilation starts.
type Node interface {
	String() string
}

// Expr is a node that leaves a value on the VM stack.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a node executed for effect.
type Stmt interface {
	Node
	stmtNode()
}

// Suite is an ordered statement block: the whole program or a body.
type Suite struct {
	Stmts []Stmt
}

func (s *Suite) String() string {
	var out strings.Builder
	for _, stmt := range s.Stmts {
		out.WriteString(stmt.String())
		out.WriteString("\n")
	}
	return out.String()
}

// VarRef names a variable, optionally subscripted.
type VarRef struct {
	Name  string
	Index Expr // nil unless the reference is name[index]
}

func (v *VarRef) String() string {
	if v.Index != nil {
		return v.Name + "[" + v.Index.String() + "]"
	}
	return v.Name
}
func (v *VarRef) exprNode() {}

// NumberLit is a numeric literal kept in its source spelling; the
// assembler re-parses it when encoding the operand.
type NumberLit struct {
	Raw   string
	Float bool
}

func (n *NumberLit) String() string { return n.Raw }
func (n *NumberLit) exprNode()      {}

// StringLit keeps the literal as delivered, surrounding quotes included.
type StringLit struct {
	Raw string
}

// Contents is the literal without its surrounding quotes.
func (s *StringLit) Contents() string {
	return strings.TrimSuffix(strings.TrimPrefix(s.Raw, "\""), "\"")
}

func (s *StringLit) String() string { return s.Raw }
func (s *StringLit) exprNode()      {}

type BoolLit struct {
	Value bool
}

func (b *BoolLit) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (b *BoolLit) exprNode() {}

// CallExpr is a function call, to a user function, a builtin, or one of
// the hard-wired VM intrinsics.
type CallExpr struct {
	Name string
	Args []Expr
}

func (c *CallExpr) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Name + "(" + strings.Join(args, ", ") + ")"
}
func (c *CallExpr) exprNode() {}

// ArithExpr is a left-to-right chain f0 op0 f1 op1 f2 …, covering both
// the additive and the multiplicative grammar levels.
type ArithExpr struct {
	Factors []Expr
	Ops     []string // len(Ops) == len(Factors)-1
}

func (a *ArithExpr) String() string {
	var out strings.Builder
	for i, f := range a.Factors {
		if i > 0 {
			out.WriteString(" " + a.Ops[i-1] + " ")
		}
		out.WriteString(f.String())
	}
	return out.String()
}
func (a *ArithExpr) exprNode() {}

// CompareExpr is a two-operand comparison producing a Char boolean.
type CompareExpr struct {
	Left  Expr
	Op    string
	Right Expr
}

func (c *CompareExpr) String() string {
	return c.Left.String() + " " + c.Op + " " + c.Right.String()
}
func (c *CompareExpr) exprNode() {}

// VarDecl declares a scalar or array variable in the enclosing scope.
type VarDecl struct {
	Type     SymbolType
	Name     string
	IsArray  bool
	ArrayLen int
}

func (v *VarDecl) String() string {
	if v.IsArray {
		return fmt.Sprintf("%s %s[%d]", v.Type, v.Name, v.ArrayLen)
	}
	return fmt.Sprintf("%s %s", v.Type, v.Name)
}
func (v *VarDecl) stmtNode() {}

type AssignStmt struct {
	Target *VarRef
	Value  Expr
}

func (a *AssignStmt) String() string { return a.Target.String() + " = " + a.Value.String() }
func (a *AssignStmt) stmtNode()      {}

type AugAssignStmt struct {
	Target *VarRef
	Op     string // "+=", "-=", "*=", "/=", "%=", "&=", "|="
	Value  Expr
}

func (a *AugAssignStmt) String() string {
	return a.Target.String() + " " + a.Op + " " + a.Value.String()
}
func (a *AugAssignStmt) stmtNode() {}

// CallStmt is a call in statement position; a numeric result is popped.
type CallStmt struct {
	Call *CallExpr
}

func (c *CallStmt) String() string { return c.Call.String() }
func (c *CallStmt) stmtNode()      {}

type ReturnStmt struct {
	Value Expr // nil for a bare return
}

func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}
func (r *ReturnStmt) stmtNode() {}

type IfStmt struct {
	Cond Expr
	Body *Suite
}

func (i *IfStmt) String() string { return "if " + i.Cond.String() }
func (i *IfStmt) stmtNode()      {}

type WhileStmt struct {
	Cond Expr
	Body *Suite
}

func (w *WhileStmt) String() string { return "while " + w.Cond.String() }
func (w *WhileStmt) stmtNode()      {}

// ForStmt iterates an induction variable from 0 up to a literal bound.
// Non-literal bounds are rejected by the binder.
type ForStmt struct {
	Var   *VarRef
	Bound string // decimal upper bound
	Body  *Suite
}

func (f *ForStmt) String() string {
	return "for " + f.Var.String() + " in range(" + f.Bound + ")"
}
func (f *ForStmt) stmtNode() {}

// Param is one declared function parameter.
type Param struct {
	Type     SymbolType
	Name     string
	IsArray  bool
	ArrayLen int
}

// FuncDecl defines a user function. Array return types are rejected by
// the binder, so Ret is always scalar or void.
type FuncDecl struct {
	Ret    SymbolType
	Name   string
	Params []Param
	Body   *Suite
}

func (f *FuncDecl) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = fmt.Sprintf("%s %s", p.Type, p.Name)
	}
	return fmt.Sprintf("def %s %s(%s)", f.Ret, f.Name, strings.Join(params, ", "))
}
func (f *FuncDecl) stmtNode() {}

// TableColumn is one declared column of a tabledef.
type TableColumn struct {
	TypeName string // "INT" or "FLOAT"
	Name     string
}

// TableDef declares a periodic telemetry table.
type TableDef struct {
	Name        string
	PeriodValue int
	PeriodUnit  string // "s", "m" or "h"
	Columns     []TableColumn
}

func (t *TableDef) String() string {
	return fmt.Sprintf("table %s every %d%s", t.Name, t.PeriodValue, t.PeriodUnit)
}
func (t *TableDef) stmtNode() {}

// nodeChildren lists the sub-blocks the symbol-table walk descends into.
// Declarations never appear in expressions, so condition subtrees are not
// visited.
func nodeChildren(n Node) []Node {
	switch n := n.(type) {
	case *Suite:
		children := make([]Node, len(n.Stmts))
		for i, s := range n.Stmts {
			children[i] = s
		}
		return children
	case *IfStmt:
		return []Node{n.Body}
	case *WhileStmt:
		return []Node{n.Body}
	case *ForStmt:
		return []Node{n.Body}
	default:
		return nil
	}
}
