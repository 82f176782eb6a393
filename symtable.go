package main

// The global scope always exists; each function definition adds a scope
// named after the function.
const globalScope = "_global_"

// scope is an insertion-ordered name → Symbol store. Ordering matters:
// the declaration lines in the assembly stream and the allocator offsets
// must come out identical on every compile of the same tree.
type scope struct {
	names []string
	syms  map[string]*Symbol
}

func newScope() *scope {
	return &scope{syms: make(map[string]*Symbol)}
}

func (sc *scope) insert(name string, sym *Symbol) {
	if _, ok := sc.syms[name]; !ok {
		sc.names = append(sc.names, name)
	}
	sc.syms[name] = sym
}

func (sc *scope) lookup(name string) (*Symbol, bool) {
	sym, ok := sc.syms[name]
	return sym, ok
}

// SymbolTable maps scope name → ordered symbol store.
type SymbolTable struct {
	scopes map[string]*scope
}

func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{scopes: make(map[string]*scope)}
	st.scopes[globalScope] = newScope()
	return st
}

// Scope returns the named scope, creating it on first use.
func (st *SymbolTable) Scope(name string) *scope {
	sc, ok := st.scopes[name]
	if !ok {
		sc = newScope()
		st.scopes[name] = sc
	}
	return sc
}

// Lookup resolves a name in the given scope, falling back to the global
// scope, so function bodies see globals and table columns.
func (st *SymbolTable) Lookup(scopeName, name string) (*Symbol, error) {
	if sc, ok := st.scopes[scopeName]; ok {
		if sym, ok := sc.lookup(name); ok {
			return sym, nil
		}
	}
	if scopeName != globalScope {
		if sym, ok := st.scopes[globalScope].lookup(name); ok {
			return sym, nil
		}
	}
	return nil, compileErrf(ErrSymbolUndefined, "%s is not defined in %s", name, scopeName)
}

type workItem struct {
	scope string
	node  Node
}

// buildSymbolTable walks the tree once with an explicit worklist,
// producing the symbol table, the callable signatures (builtins included)
// and the table descriptors in document order. Offsets are relative to
// the owning scope; assembly rebases them to absolute VM addresses.
func buildSymbolTable(root *Suite, builtins map[string]*FunctionSignature) (*SymbolTable, map[string]*FunctionSignature, []*Table, error) {
	st := NewSymbolTable()
	sigs := make(map[string]*FunctionSignature, len(builtins))
	for name, sig := range builtins {
		sigs[name] = sig
		st.Scope(globalScope).insert(name, &Symbol{Type: SymLabel, Address: sig.Address})
	}

	var tables []*Table
	alloc := map[string]int{globalScope: 0}
	work := []workItem{{globalScope, root}}

	for len(work) > 0 {
		item := work[len(work)-1]
		work = work[:len(work)-1]

		switch n := item.node.(type) {
		case *VarDecl:
			symType := n.Type
			size := 0
			if n.IsArray {
				size = n.ArrayLen * scalarSize(symType)
				symType = symType.Array()
			}
			sym := newSymbol(symType, size, false)
			sym.Address = alloc[item.scope]
			alloc[item.scope] += sym.Size()
			st.Scope(item.scope).insert(n.Name, sym)

		case *FuncDecl:
			if _, ok := sigs[n.Name]; ok {
				return nil, nil, nil, compileErrf(ErrFunctionRedefined, "function %s redefined", n.Name)
			}
			sig := &FunctionSignature{Ret: newSymbol(n.Ret, 0, false)}
			sigs[n.Name] = sig
			st.Scope(n.Name)
			alloc[n.Name] = 0
			for _, p := range n.Params {
				paramType := p.Type
				size := 0
				if p.IsArray {
					size = p.ArrayLen * scalarSize(paramType)
					paramType = paramType.Array()
				}
				sig.ParamTypes = append(sig.ParamTypes, newSymbol(paramType, size, false))
				sig.ParamNames = append(sig.ParamNames, p.Name)
				st.Scope(n.Name).insert(p.Name, newSymbol(paramType, size, true))
			}
			work = append(work, workItem{n.Name, n.Body})

		case *TableDef:
			table, cols, err := compileTable(n)
			if err != nil {
				return nil, nil, nil, err
			}
			tables = append(tables, table)
			for _, col := range cols {
				col.Sym.Address = alloc[globalScope]
				alloc[globalScope] += col.Sym.Size()
				st.Scope(globalScope).insert(col.Name, col.Sym)
			}

		default:
			children := nodeChildren(item.node)
			for i := len(children) - 1; i >= 0; i-- {
				work = append(work, workItem{item.scope, children[i]})
			}
		}
	}

	return st, sigs, tables, nil
}
