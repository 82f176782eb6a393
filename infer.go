package main

// valueType computes the static type of an expression as a Symbol.
func valueType(e Expr, st *SymbolTable, sigs map[string]*FunctionSignature, scopeName string) (*Symbol, error) {
	switch e := e.(type) {
	case *VarRef:
		sym, err := st.Lookup(scopeName, e.Name)
		if err != nil {
			return nil, err
		}
		if e.Index != nil {
			if !sym.Type.IsArray() {
				return nil, compileErrf(ErrNotAnArray, "%s in %s is not an array", e.Name, scopeName)
			}
			return newSymbol(sym.Type.Elem(), 0, false), nil
		}
		return sym, nil

	case *CallExpr:
		if sig, ok := sigs[e.Name]; ok {
			return sig.Ret, nil
		}
		if isIntrinsic(e.Name) {
			return newSymbol(SymVoid, 0, false), nil
		}
		return nil, compileErrf(ErrUnknownCallee, "function %s is not defined", e.Name)

	case *ArithExpr:
		types := make([]*Symbol, 0, len(e.Factors))
		for _, f := range e.Factors {
			t, err := valueType(f, st, sigs, scopeName)
			if err != nil {
				return nil, err
			}
			types = append(types, t)
		}
		return promoted(types), nil

	case *CompareExpr:
		return newSymbol(SymChar, 0, false), nil

	case *NumberLit:
		if e.Float {
			return newSymbol(SymFloat, 0, false), nil
		}
		return newSymbol(SymInt, 0, false), nil

	case *StringLit:
		return newSymbol(SymCharArr, len(e.Raw)-1, false), nil

	case *BoolLit:
		return newSymbol(SymChar, 0, false), nil

	default:
		return nil, compileErrf(ErrUnrecognizedNode, "cannot type %s", e)
	}
}

// promoted returns the lattice-max of the operand types: the smallest
// type every operand can be promoted to.
func promoted(types []*Symbol) *Symbol {
	dst := newSymbol(SymUnknown, 0, false)
	for _, t := range types {
		if dst.Type < t.Type {
			dst.Type = t.Type
		}
	}
	return dst
}

// castValues emits the promotion-only cast sequence from src to dst.
// Equal types emit nothing; any downward conversion is an error.
func castValues(src, dst *Symbol) (string, error) {
	if src.Equal(dst) {
		return "", nil
	}
	switch src.Type {
	case SymChar:
		switch dst.Type {
		case SymChar:
			return "", nil
		case SymInt:
			return "CHAR2INT\n", nil
		case SymFloat:
			return "CHAR2INT\nINT2FLOAT\n", nil
		}
	case SymInt:
		switch dst.Type {
		case SymInt:
			return "", nil
		case SymFloat:
			return "INT2FLOAT\n", nil
		}
	case SymFloat:
		if dst.Type == SymFloat {
			return "", nil
		}
	}
	return "", compileErrf(ErrIllegalCast, "cannot cast %s to %s", src.Type, dst.Type)
}
