package main

// Builtins are functions the VM firmware implements. Their declarations
// live in a separate header parsed by the front end; the compiler only
// sees the resulting funcdef list and assigns each entry a synthetic
// address in a range no user code can reach.
const builtinBase = 65536

// loadBuiltins turns the parsed builtin-declarations tree into signatures,
// assigning sequential addresses from builtinBase upward in file order.
func loadBuiltins(root *ParseTree) (map[string]*FunctionSignature, error) {
	sigs := make(map[string]*FunctionSignature)
	if root == nil {
		return sigs, nil
	}
	for i, decl := range root.Children {
		if decl.IsToken() || decl.Kind != "funcdef" {
			return nil, compileErrf(ErrMalformedBuiltin, "entry %d is not a function declaration", i)
		}
		if len(decl.Children) < 2 {
			return nil, compileErrf(ErrMalformedBuiltin, "entry %d is missing a name", i)
		}
		name := decl.Children[1].Value
		sig := &FunctionSignature{Address: builtinBase + len(sigs)}
		retTok := firstToken(decl.Children[0])
		if retTok == nil {
			return nil, compileErrf(ErrMalformedBuiltin, "builtin %s has no return type", name)
		}
		switch retTok.Type {
		case "VOID":
			sig.Ret = newSymbol(SymVoid, 0, false)
		case "INT", "SHORT", "LONG":
			sig.Ret = newSymbol(SymInt, 0, false)
		case "FLOAT":
			sig.Ret = newSymbol(SymFloat, 0, false)
		case "CHAR":
			sig.Ret = newSymbol(SymChar, 0, false)
		default:
			return nil, compileErrf(ErrMalformedBuiltin, "builtin %s returns unknown type %q", name, retTok.Type)
		}
		if len(decl.Children) > 2 {
			for _, arg := range decl.Children[2].Children {
				paramType, paramName, err := builtinParam(name, arg)
				if err != nil {
					return nil, err
				}
				sig.ParamTypes = append(sig.ParamTypes, paramType)
				sig.ParamNames = append(sig.ParamNames, paramName)
			}
		}
		sigs[name] = sig
	}
	return sigs, nil
}

// builtinParam decodes one parameter: a scalar type, optionally carrying a
// pointer modifier. A pointer of scalar type t is an unsized array of t,
// matching any array argument of that element type.
func builtinParam(builtin string, arg *ParseTree) (*Symbol, string, error) {
	if len(arg.Children) < 2 || arg.Children[0].Kind != "type" {
		return nil, "", compileErrf(ErrMalformedBuiltin, "builtin %s has an unrecognized parameter form", builtin)
	}
	typeTok := firstToken(arg.Children[0])
	if typeTok == nil {
		return nil, "", compileErrf(ErrMalformedBuiltin, "builtin %s parameter has no type", builtin)
	}
	paramType := symbolTypeFromToken(typeTok.Type)
	if !paramType.IsScalar() {
		return nil, "", compileErrf(ErrMalformedBuiltin, "builtin %s parameter has type %q", builtin, typeTok.Type)
	}
	for _, mod := range arg.Children[0].Children[1:] {
		if mod.Kind == "pointer" {
			paramType = paramType.Array()
		}
	}
	return newSymbol(paramType, 0, true), arg.Children[1].Value, nil
}
