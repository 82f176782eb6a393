package main

import (
	"fmt"
	"strings"
)

// TableFormat is the on-wire column format tag in the table descriptor.
// Only Int32 and Float are producible from source; the remaining tags are
// reserved by the VM's storage engine.
type TableFormat byte

const (
	FormatInvalid TableFormat = iota
	FormatUint8
	FormatInt8
	FormatUint16
	FormatInt16
	FormatUint32
	FormatInt32
	FormatFloat
)

// DataColumn is one named column of a telemetry table.
type DataColumn struct {
	Name   string
	Format TableFormat
}

// Table describes one periodic telemetry table: its name, the encoded
// sampling period and the ordered column list.
type Table struct {
	Name    string
	Period  byte
	Columns []DataColumn
}

// Descriptor name fields are fixed at 16 bytes; a table holds at most 16
// columns on the device.
const (
	nameFieldBytes = 16
	maxColumns     = 16
)

// serializeName fits a name into the fixed descriptor field: zero-padded
// when shorter than 16 bytes, truncated when longer.
func serializeName(s string) []byte {
	field := make([]byte, nameFieldBytes)
	copy(field, s)
	return field
}

// Serialize renders the descriptor block for the image header. Columns
// beyond 16 are dropped; fewer than 16 end with a single zero byte.
func (t *Table) Serialize() []byte {
	out := make([]byte, 0, nameFieldBytes+2+(nameFieldBytes+1)*len(t.Columns))
	out = append(out, serializeName(t.Name)...)
	out = append(out, t.Period)
	cols := t.Columns
	if len(cols) > maxColumns {
		cols = cols[:maxColumns]
	}
	for _, col := range cols {
		out = append(out, byte(col.Format))
		out = append(out, serializeName(col.Name)...)
	}
	if len(cols) < maxColumns {
		out = append(out, 0)
	}
	return out
}

// String renders the human-readable preamble entry used by -s and -d.
func (t *Table) String() string {
	var out strings.Builder
	fmt.Fprintf(&out, "TABLE %s\n", t.Name)
	fmt.Fprintf(&out, "PERIOD %d\n", t.Period)
	fmt.Fprintf(&out, "COLUMNS %d\n", len(t.Columns))
	for _, col := range t.Columns {
		switch col.Format {
		case FormatInt32:
			out.WriteString("INT")
		case FormatFloat:
			out.WriteString("FLOAT")
		}
		fmt.Fprintf(&out, ":%s\n", col.Name)
	}
	out.WriteString("ENDTABLE\n")
	return out.String()
}

// encodePeriod folds a value/unit pair into the single period byte:
// seconds occupy 1..60, minutes 60..119, hours 119..142.
func encodePeriod(value int, unit string) (byte, error) {
	if value <= 0 {
		return 0, compileErrf(ErrMalformedTable, "invalid period %d%s", value, unit)
	}
	switch unit {
	case "s":
		if value > 60 {
			return 0, compileErrf(ErrMalformedTable, "period %ds exceeds 60 seconds", value)
		}
		return byte(value), nil
	case "m":
		if value > 60 {
			return 0, compileErrf(ErrMalformedTable, "period %dm exceeds 60 minutes", value)
		}
		return byte(value + 59), nil
	case "h":
		if value > 24 {
			return 0, compileErrf(ErrMalformedTable, "period %dh exceeds 24 hours", value)
		}
		return byte(value + 118), nil
	default:
		return 0, compileErrf(ErrMalformedTable, "unknown period unit %q", unit)
	}
}

// tableColumnSym pairs a column's backing global with its name, in
// declaration order, for injection into the global scope.
type tableColumnSym struct {
	Name string
	Sym  *Symbol
}

// compileTable builds the descriptor for one tabledef and the backing
// global symbol for each column.
func compileTable(def *TableDef) (*Table, []tableColumnSym, error) {
	period, err := encodePeriod(def.PeriodValue, def.PeriodUnit)
	if err != nil {
		return nil, nil, err
	}
	table := &Table{Name: def.Name, Period: period}
	syms := make([]tableColumnSym, 0, len(def.Columns))
	for _, col := range def.Columns {
		entry := DataColumn{Name: col.Name}
		var sym *Symbol
		switch col.TypeName {
		case "INT":
			entry.Format = FormatInt32
			sym = newSymbol(SymInt, 0, false)
		case "FLOAT":
			entry.Format = FormatFloat
			sym = newSymbol(SymFloat, 0, false)
		default:
			return nil, nil, compileErrf(ErrMalformedTable, "table %s column %s has type %q", def.Name, col.Name, col.TypeName)
		}
		table.Columns = append(table.Columns, entry)
		syms = append(syms, tableColumnSym{Name: col.Name, Sym: sym})
	}
	return table, syms, nil
}
