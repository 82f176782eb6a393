package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// TestEncodePeriod tests the unit folding into the single period byte
func TestEncodePeriod(t *testing.T) {
	cases := []struct {
		value int
		unit  string
		want  byte
		fails bool
	}{
		{5, "s", 5, false},
		{60, "s", 60, false},
		{61, "s", 0, true},
		{1, "m", 60, false},
		{60, "m", 119, false},
		{61, "m", 0, true},
		{1, "h", 119, false},
		{24, "h", 142, false},
		{25, "h", 0, true},
		{0, "s", 0, true},
		{-3, "m", 0, true},
		{5, "d", 0, true},
	}
	for _, c := range cases {
		got, err := encodePeriod(c.value, c.unit)
		if c.fails {
			if err == nil {
				t.Errorf("encodePeriod(%d, %q) should fail", c.value, c.unit)
			}
			continue
		}
		if err != nil {
			t.Errorf("encodePeriod(%d, %q): %v", c.value, c.unit, err)
			continue
		}
		if got != c.want {
			t.Errorf("encodePeriod(%d, %q) = %d, want %d", c.value, c.unit, got, c.want)
		}
	}
}

// TestSerializeName tests the fixed 16-byte name field
func TestSerializeName(t *testing.T) {
	short := serializeName("t")
	if len(short) != 16 {
		t.Fatalf("name field is %d bytes, want 16", len(short))
	}
	if short[0] != 't' || !bytes.Equal(short[1:], make([]byte, 15)) {
		t.Errorf("short name not zero-padded: %v", short)
	}
	long := serializeName("averyveryverylongtablename")
	if len(long) != 16 {
		t.Fatalf("long name field is %d bytes, want 16", len(long))
	}
	if string(long) != "averyveryverylon" {
		t.Errorf("long name not truncated: %q", long)
	}
}

// TestTableSerialize tests the descriptor block layout
func TestTableSerialize(t *testing.T) {
	table := &Table{
		Name:   "t",
		Period: 5,
		Columns: []DataColumn{
			{Name: "a", Format: FormatInt32},
			{Name: "b", Format: FormatFloat},
		},
	}
	out := table.Serialize()

	want := 16 + 1 + 2*(1+16) + 1
	if len(out) != want {
		t.Fatalf("descriptor is %d bytes, want %d", len(out), want)
	}
	if out[16] != 5 {
		t.Errorf("period byte = %d, want 5", out[16])
	}
	if out[17] != byte(FormatInt32) {
		t.Errorf("first column format = %d, want %d", out[17], FormatInt32)
	}
	if out[18] != 'a' {
		t.Errorf("first column name byte = %q, want 'a'", out[18])
	}
	if out[34] != byte(FormatFloat) {
		t.Errorf("second column format = %d, want %d", out[34], FormatFloat)
	}
	if out[len(out)-1] != 0 {
		t.Error("descriptor with fewer than 16 columns must end with a zero byte")
	}
}

// TestTableSerializeFull tests that a full table has no terminator and
// extra columns are dropped
func TestTableSerializeFull(t *testing.T) {
	table := &Table{Name: "big", Period: 1}
	for i := 0; i < 20; i++ {
		table.Columns = append(table.Columns, DataColumn{Name: "c", Format: FormatInt32})
	}
	out := table.Serialize()
	want := 16 + 1 + 16*(1+16)
	if len(out) != want {
		t.Fatalf("full descriptor is %d bytes, want %d (16 columns, no terminator)", len(out), want)
	}
}

// TestCompileTable tests descriptor and column symbol construction
func TestCompileTable(t *testing.T) {
	def := &TableDef{
		Name:        "meas",
		PeriodValue: 2,
		PeriodUnit:  "m",
		Columns: []TableColumn{
			{TypeName: "INT", Name: "temp"},
			{TypeName: "FLOAT", Name: "hum"},
		},
	}
	table, syms, err := compileTable(def)
	if err != nil {
		t.Fatalf("compileTable: %v", err)
	}
	if table.Period != 61 {
		t.Errorf("period = %d, want 61", table.Period)
	}
	if len(syms) != 2 {
		t.Fatalf("got %d column symbols, want 2", len(syms))
	}
	if syms[0].Name != "temp" || syms[0].Sym.Type != SymInt {
		t.Errorf("first column symbol = %s %s", syms[0].Name, syms[0].Sym)
	}
	if syms[1].Name != "hum" || syms[1].Sym.Type != SymFloat {
		t.Errorf("second column symbol = %s %s", syms[1].Name, syms[1].Sym)
	}
}

// TestCompileTableBadColumn tests the malformed-table error
func TestCompileTableBadColumn(t *testing.T) {
	def := &TableDef{
		Name:        "bad",
		PeriodValue: 1,
		PeriodUnit:  "s",
		Columns:     []TableColumn{{TypeName: "DOUBLE", Name: "x"}},
	}
	_, _, err := compileTable(def)
	var ce *CompileError
	if !errors.As(err, &ce) || ce.Kind != ErrMalformedTable {
		t.Fatalf("want malformed table error, got %v", err)
	}
}

// TestTableString tests the human-readable preamble entry
func TestTableString(t *testing.T) {
	table := &Table{
		Name:   "t",
		Period: 5,
		Columns: []DataColumn{
			{Name: "a", Format: FormatInt32},
			{Name: "b", Format: FormatFloat},
		},
	}
	want := "TABLE t\nPERIOD 5\nCOLUMNS 2\nINT:a\nFLOAT:b\nENDTABLE\n"
	if got := table.String(); got != want {
		t.Errorf("table preamble:\n%s\nwant:\n%s", got, want)
	}
	if !strings.HasSuffix(table.String(), "ENDTABLE\n") {
		t.Error("preamble must end with ENDTABLE")
	}
}
