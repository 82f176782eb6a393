package main

import (
	"strconv"
	"strings"
)

// bindProgram turns the front end's parse tree into the typed syntax tree
// the compiler works on. Shapes the grammar cannot produce surface here as
// unrecognized-node errors; past this point dispatch is exhaustive.
func bindProgram(t *ParseTree) (*Suite, error) {
	switch t.Kind {
	case "start", "input", "suite":
		return bindSuite(t)
	default:
		return nil, compileErrf(ErrUnrecognizedNode, "unexpected root node %q", t.Kind)
	}
}

func bindSuite(t *ParseTree) (*Suite, error) {
	suite := &Suite{}
	for _, child := range t.Children {
		if child.IsToken() {
			continue // stray newline tokens
		}
		stmt, err := bindStmt(child)
		if err != nil {
			return nil, err
		}
		suite.Stmts = append(suite.Stmts, stmt)
	}
	return suite, nil
}

func bindStmt(t *ParseTree) (Stmt, error) {
	switch t.Kind {
	case "compound_stmt":
		if len(t.Children) != 1 {
			return nil, compileErrf(ErrUnrecognizedNode, "malformed compound statement")
		}
		return bindStmt(t.Children[0])
	case "simple_stmt":
		return bindSimpleStmt(t)
	case "vardef":
		return bindVarDecl(t)
	case "funcdef":
		return bindFuncDecl(t)
	case "tabledef":
		return bindTableDef(t)
	case "if_stmt":
		cond, body, err := bindCondBlock(t)
		if err != nil {
			return nil, err
		}
		return &IfStmt{Cond: cond, Body: body}, nil
	case "while_stmt":
		cond, body, err := bindCondBlock(t)
		if err != nil {
			return nil, err
		}
		return &WhileStmt{Cond: cond, Body: body}, nil
	case "for_stmt":
		return bindForStmt(t)
	case "return_stmt":
		if len(t.Children) == 0 {
			return &ReturnStmt{}, nil
		}
		value, err := bindExpr(t.Children[0])
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{Value: value}, nil
	case "funccall":
		call, err := bindCall(t)
		if err != nil {
			return nil, err
		}
		return &CallStmt{Call: call}, nil
	default:
		return nil, compileErrf(ErrUnrecognizedNode, "unexpected statement node %q", t.Kind)
	}
}

// bindSimpleStmt distinguishes the three simple-statement shapes by child
// count: a lone call, lhs = rhs, and lhs op= rhs.
func bindSimpleStmt(t *ParseTree) (Stmt, error) {
	switch len(t.Children) {
	case 1:
		if t.Children[0].Kind != "funccall" {
			return nil, compileErrf(ErrUnrecognizedNode, "expression statement %q has no effect", t.Children[0].Kind)
		}
		call, err := bindCall(t.Children[0])
		if err != nil {
			return nil, err
		}
		return &CallStmt{Call: call}, nil
	case 2:
		target, err := bindTarget(t.Children[0])
		if err != nil {
			return nil, err
		}
		value, err := bindExpr(t.Children[1])
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Target: target, Value: value}, nil
	case 3:
		if t.Children[1].Kind != "auto_assign" {
			return nil, compileErrf(ErrUnrecognizedNode, "unexpected operator node %q", t.Children[1].Kind)
		}
		target, err := bindTarget(t.Children[0])
		if err != nil {
			return nil, err
		}
		op := firstToken(t.Children[1])
		if op == nil {
			return nil, compileErrf(ErrUnrecognizedNode, "malformed augmented assignment")
		}
		value, err := bindExpr(t.Children[2])
		if err != nil {
			return nil, err
		}
		return &AugAssignStmt{Target: target, Op: op.Value, Value: value}, nil
	default:
		return nil, compileErrf(ErrUnrecognizedNode, "malformed simple statement")
	}
}

func bindTarget(t *ParseTree) (*VarRef, error) {
	expr, err := bindExpr(t)
	if err != nil {
		return nil, err
	}
	target, ok := expr.(*VarRef)
	if !ok {
		return nil, compileErrf(ErrUnrecognizedNode, "assignment target is not a variable")
	}
	return target, nil
}

func bindVarDecl(t *ParseTree) (*VarDecl, error) {
	if len(t.Children) < 2 {
		return nil, compileErrf(ErrUnrecognizedNode, "malformed variable definition")
	}
	typeTok := firstToken(t.Children[0])
	if typeTok == nil {
		return nil, compileErrf(ErrUnrecognizedNode, "variable definition without a type")
	}
	decl := &VarDecl{
		Type: symbolTypeFromToken(typeTok.Type),
		Name: t.Children[1].Value,
	}
	if len(t.Children) > 2 && t.Children[2].Kind == "array_ind" {
		n, err := bindArrayLen(t.Children[2])
		if err != nil {
			return nil, err
		}
		decl.IsArray = true
		decl.ArrayLen = n
	}
	return decl, nil
}

func bindArrayLen(t *ParseTree) (int, error) {
	tok := firstToken(t)
	if tok == nil {
		return 0, compileErrf(ErrUnrecognizedNode, "malformed array length")
	}
	n, err := strconv.Atoi(tok.Value)
	if err != nil {
		return 0, compileErrf(ErrUnrecognizedNode, "array length %q is not an integer literal", tok.Value)
	}
	return n, nil
}

func bindFuncDecl(t *ParseTree) (*FuncDecl, error) {
	if len(t.Children) < 3 {
		return nil, compileErrf(ErrUnrecognizedNode, "malformed function definition")
	}
	retNode := t.Children[0]
	// Array-typed returns are not supported by the VM calling convention.
	for _, child := range retNode.Children {
		if !child.IsToken() && child.Kind == "array_ind" {
			return nil, compileErrf(ErrUnrecognizedNode, "array return types are not supported")
		}
	}
	retTok := firstToken(retNode)
	if retTok == nil {
		return nil, compileErrf(ErrUnrecognizedNode, "function definition without a return type")
	}
	decl := &FuncDecl{
		Ret:  symbolTypeFromToken(retTok.Type),
		Name: t.Children[1].Value,
	}
	if len(t.Children) > 3 {
		for _, paramNode := range t.Children[2].Children {
			param, err := bindParam(paramNode)
			if err != nil {
				return nil, err
			}
			decl.Params = append(decl.Params, param)
		}
	}
	body, err := bindSuite(t.Children[len(t.Children)-1])
	if err != nil {
		return nil, err
	}
	decl.Body = body
	return decl, nil
}

func bindParam(t *ParseTree) (Param, error) {
	if len(t.Children) < 2 {
		return Param{}, compileErrf(ErrUnrecognizedNode, "malformed parameter")
	}
	typeTok := firstToken(t.Children[0])
	if typeTok == nil {
		return Param{}, compileErrf(ErrUnrecognizedNode, "parameter without a type")
	}
	param := Param{
		Type: symbolTypeFromToken(typeTok.Type),
		Name: t.Children[1].Value,
	}
	if len(t.Children) > 2 && t.Children[2].Kind == "array_ind" {
		n, err := bindArrayLen(t.Children[2])
		if err != nil {
			return Param{}, err
		}
		param.IsArray = true
		param.ArrayLen = n
	}
	return param, nil
}

func bindTableDef(t *ParseTree) (*TableDef, error) {
	if len(t.Children) < 3 {
		return nil, compileErrf(ErrUnrecognizedNode, "malformed table definition")
	}
	def := &TableDef{Name: t.Children[0].Value}
	period := t.Children[1]
	if len(period.Children) < 2 {
		return nil, compileErrf(ErrMalformedTable, "table %s has no period", def.Name)
	}
	value, err := strconv.Atoi(period.Children[0].Value)
	if err != nil {
		return nil, compileErrf(ErrMalformedTable, "table %s period %q is not an integer", def.Name, period.Children[0].Value)
	}
	def.PeriodValue = value
	unitTok := firstToken(period.Children[1])
	if unitTok == nil {
		return nil, compileErrf(ErrMalformedTable, "table %s has no period unit", def.Name)
	}
	def.PeriodUnit = unitTok.Value
	for _, entry := range t.Children[2].Children {
		if len(entry.Children) < 2 {
			return nil, compileErrf(ErrMalformedTable, "table %s has a malformed column", def.Name)
		}
		typeTok := firstToken(entry.Children[0])
		if typeTok == nil {
			return nil, compileErrf(ErrMalformedTable, "table %s column without a type", def.Name)
		}
		def.Columns = append(def.Columns, TableColumn{
			TypeName: strings.ToUpper(typeTok.Value),
			Name:     entry.Children[1].Value,
		})
	}
	return def, nil
}

func bindCondBlock(t *ParseTree) (Expr, *Suite, error) {
	if len(t.Children) < 2 {
		return nil, nil, compileErrf(ErrUnrecognizedNode, "malformed %s", t.Kind)
	}
	cond, err := bindExpr(t.Children[0])
	if err != nil {
		return nil, nil, err
	}
	body, err := bindSuite(t.Children[len(t.Children)-1])
	if err != nil {
		return nil, nil, err
	}
	return cond, body, nil
}

// bindForStmt accepts only the single-argument range form with a literal
// bound; the VM has no instruction to reload a computed bound each pass.
func bindForStmt(t *ParseTree) (*ForStmt, error) {
	if len(t.Children) < 3 {
		return nil, compileErrf(ErrUnrecognizedNode, "malformed for statement")
	}
	target, err := bindTarget(t.Children[0])
	if err != nil {
		return nil, err
	}
	rangeNode := t.Children[1]
	if len(rangeNode.Children) != 1 {
		return nil, compileErrf(ErrUnrecognizedNode, "for ranges take a single bound")
	}
	boundTok := firstToken(rangeNode.Children[0])
	if boundTok == nil || !isDigits(boundTok.Value) {
		return nil, compileErrf(ErrUnrecognizedNode, "for bound must be an integer literal")
	}
	body, err := bindSuite(t.Children[2])
	if err != nil {
		return nil, err
	}
	return &ForStmt{Var: target, Bound: boundTok.Value, Body: body}, nil
}

func bindCall(t *ParseTree) (*CallExpr, error) {
	if len(t.Children) == 0 {
		return nil, compileErrf(ErrUnrecognizedNode, "malformed function call")
	}
	nameTok := firstToken(t.Children[0])
	if nameTok == nil {
		return nil, compileErrf(ErrUnrecognizedNode, "function call without a name")
	}
	call := &CallExpr{Name: nameTok.Value}
	if len(t.Children) > 1 {
		for _, argNode := range t.Children[1].Children {
			arg, err := bindExpr(argNode)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		}
	}
	return call, nil
}

func bindExpr(t *ParseTree) (Expr, error) {
	switch t.Kind {
	case "var":
		if len(t.Children) == 0 {
			return nil, compileErrf(ErrUnrecognizedNode, "malformed variable reference")
		}
		ref := &VarRef{Name: t.Children[0].Value}
		if len(t.Children) > 1 {
			index, err := bindIndex(t.Children[1])
			if err != nil {
				return nil, err
			}
			ref.Index = index
		}
		return ref, nil
	case "number":
		if len(t.Children) == 0 {
			return nil, compileErrf(ErrUnrecognizedNode, "malformed number literal")
		}
		tok := t.Children[0]
		return &NumberLit{Raw: tok.Value, Float: tok.Type == "FLOATING"}, nil
	case "string":
		if len(t.Children) == 0 {
			return nil, compileErrf(ErrUnrecognizedNode, "malformed string literal")
		}
		return &StringLit{Raw: t.Children[0].Value}, nil
	case "const_true":
		return &BoolLit{Value: true}, nil
	case "const_false":
		return &BoolLit{Value: false}, nil
	case "funccall":
		return bindCall(t)
	case "arith_expr", "term":
		return bindArith(t)
	case "comparison":
		if len(t.Children) != 3 {
			return nil, compileErrf(ErrUnrecognizedNode, "malformed comparison")
		}
		left, err := bindExpr(t.Children[0])
		if err != nil {
			return nil, err
		}
		right, err := bindExpr(t.Children[2])
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Left: left, Op: t.Children[1].Value, Right: right}, nil
	case "array_ind":
		// index expressions arrive wrapped in an array_ind node
		if len(t.Children) == 0 {
			return nil, compileErrf(ErrUnrecognizedNode, "malformed index expression")
		}
		return bindExpr(t.Children[0])
	default:
		return nil, compileErrf(ErrUnrecognizedNode, "unexpected expression node %q", t.Kind)
	}
}

func bindIndex(t *ParseTree) (Expr, error) {
	if t.Kind == "array_ind" {
		if len(t.Children) == 0 {
			return nil, compileErrf(ErrUnrecognizedNode, "malformed index expression")
		}
		return bindExpr(t.Children[0])
	}
	return bindExpr(t)
}

func bindArith(t *ParseTree) (Expr, error) {
	if len(t.Children) == 0 || len(t.Children)%2 == 0 {
		return nil, compileErrf(ErrUnrecognizedNode, "malformed %s", t.Kind)
	}
	expr := &ArithExpr{}
	for i, child := range t.Children {
		if i%2 == 0 {
			factor, err := bindExpr(child)
			if err != nil {
				return nil, err
			}
			expr.Factors = append(expr.Factors, factor)
		} else {
			expr.Ops = append(expr.Ops, child.Value)
		}
	}
	return expr, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
