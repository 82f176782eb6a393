package main

// The VM opcode tags. The four LITERAL forms carry operands; every other
// instruction is a single byte.
var opcodes = map[string]byte{
	"LITERAL1":          0,
	"LITERAL4":          1,
	"LITERAL1_ARRAY":    2,
	"LITERAL4_ARRAY":    3,
	"LOAD1":             4,
	"LOAD4":             5,
	"LOAD1_ARRAY":       6,
	"LOAD4_ARRAY":       7,
	"STORE1":            8,
	"STORE4":            9,
	"STORE1_ARRAY":      10,
	"STORE4_ARRAY":      11,
	"LOAD1_LCL":         12,
	"LOAD4_LCL":         13,
	"LOAD1_ARRAY_LCL":   14,
	"LOAD4_ARRAY_LCL":   15,
	"STORE1_LCL":        16,
	"STORE4_LCL":        17,
	"STORE1_ARRAY_LCL":  18,
	"STORE4_ARRAY_LCL":  19,
	"LOAD1_ARG":         20,
	"LOAD4_ARG":         21,
	"LOAD1_ARRAY_ARG":   22,
	"LOAD4_ARRAY_ARG":   23,
	"STORE1_ARG":        24,
	"STORE4_ARG":        25,
	"STORE1_ARRAY_ARG":  26,
	"STORE4_ARRAY_ARG":  27,
	"POP1":              28,
	"POP4":              29,
	"CLONE1":            30,
	"CLONE4":            31,
	"ALLOC":             32,
	"FREE":              33,
	"ADD":               34,
	"SUB":               35,
	"MUL":               36,
	"DIV":               37,
	"MOD":               38,
	"FADD":              39,
	"FSUB":              40,
	"FMUL":              41,
	"FDIV":              42,
	"DEC_S":             43,
	"INC_S":             44,
	"LESS":              45,
	"GREATER":           46,
	"NOT":               47,
	"EQUALS":            48,
	"FLESS":             49,
	"FGREATER":          50,
	"FNOT":              51,
	"FEQUALS":           52,
	"CHAR2INT":          53,
	"INT2FLOAT":         54,
	"FLOAT2INT":         55,
	"INT2CHAR":          56,
	"BIT_AND":           57,
	"BIT_OR":            58,
	"BIT_LS":            59,
	"BIT_RS":            60,
	"JMP":               61,
	"JMP_IF":            62,
	"JMP_SZ":            63,
	"CALL":              64,
	"RETURN":            65,
	"DELAY":             66,
	"WAIT_TABLE":        67,
	"SAVE_TABLE":        68,
	"NOP":               0x7f,
	"BAD":               0xff,
}
