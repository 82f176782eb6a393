package main

import "testing"

// TestPromotionLattice tests that the scalar tag order is the promotion order
func TestPromotionLattice(t *testing.T) {
	if !(SymChar < SymInt && SymInt < SymFloat) {
		t.Fatal("scalar lattice order broken")
	}
	if !(SymFloat < SymCharArr && SymCharArr < SymIntArr && SymIntArr < SymFloatArr) {
		t.Fatal("array tags must sit above the scalars")
	}
}

// TestElemArrayRoundTrip tests the scalar <-> array relation
func TestElemArrayRoundTrip(t *testing.T) {
	for _, scalar := range []SymbolType{SymChar, SymInt, SymFloat} {
		arr := scalar.Array()
		if !arr.IsArray() {
			t.Errorf("%s.Array() = %s, not an array", scalar, arr)
		}
		if arr.Elem() != scalar {
			t.Errorf("%s.Array().Elem() = %s, want %s", scalar, arr.Elem(), scalar)
		}
	}
	if SymVoid.Array() != SymUnknown || SymInt.Elem() != SymUnknown {
		t.Error("non-promotable kinds must map to unknown")
	}
}

// TestScalarSizes tests the storage widths
func TestScalarSizes(t *testing.T) {
	cases := []struct {
		typ  SymbolType
		want int
	}{
		{SymChar, 1},
		{SymInt, 4},
		{SymFloat, 4},
		{SymVoid, 0},
	}
	for _, c := range cases {
		if got := scalarSize(c.typ); got != c.want {
			t.Errorf("scalarSize(%s) = %d, want %d", c.typ, got, c.want)
		}
	}
}

// TestSymbolSize tests that scalars derive their size from the type and
// arrays carry theirs explicitly
func TestSymbolSize(t *testing.T) {
	if got := newSymbol(SymInt, 99, false).Size(); got != 4 {
		t.Errorf("scalar Size() = %d, want 4 (declared size must be dropped)", got)
	}
	arr := newSymbol(SymIntArr, 40, false)
	if arr.Size() != 40 {
		t.Errorf("array Size() = %d, want 40", arr.Size())
	}
	if arr.ElemSize() != 4 {
		t.Errorf("array ElemSize() = %d, want 4", arr.ElemSize())
	}
	if newSymbol(SymCharArr, 8, false).ElemSize() != 1 {
		t.Error("char array element size must be 1")
	}
}

// TestSymbolEqual tests equality including unsized-array covariance
func TestSymbolEqual(t *testing.T) {
	a := newSymbol(SymIntArr, 40, false)
	b := newSymbol(SymIntArr, 40, false)
	unsized := newSymbol(SymIntArr, 0, true)
	other := newSymbol(SymIntArr, 80, false)
	float := newSymbol(SymFloatArr, 40, false)

	if !a.Equal(b) {
		t.Error("identical arrays must compare equal")
	}
	if !a.Equal(unsized) || !unsized.Equal(a) {
		t.Error("an unsized array parameter must match any sized array of its element type")
	}
	if a.Equal(other) {
		t.Error("arrays of different sizes must differ")
	}
	if a.Equal(float) || unsized.Equal(float) {
		t.Error("arrays of different element types must differ")
	}
	if !newSymbol(SymInt, 0, false).Equal(newSymbol(SymInt, 0, true)) {
		t.Error("argument flag must not take part in equality")
	}
}

// TestSymbolTypeFromToken tests the front-end token mapping
func TestSymbolTypeFromToken(t *testing.T) {
	cases := map[string]SymbolType{
		"INT":      SymInt,
		"SHORT":    SymInt,
		"LONG":     SymInt,
		"DECIMAL":  SymInt,
		"FLOAT":    SymFloat,
		"FLOATING": SymFloat,
		"CHAR":     SymChar,
		"VOID":     SymVoid,
		"WAT":      SymUnknown,
	}
	for tok, want := range cases {
		if got := symbolTypeFromToken(tok); got != want {
			t.Errorf("symbolTypeFromToken(%q) = %s, want %s", tok, got, want)
		}
	}
}
