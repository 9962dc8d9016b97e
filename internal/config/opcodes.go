package config

// OpcodeInfo documents one VM opcode's mnemonic and stack effect, used by
// the disassembler; the VM itself does not read this table. Mirrors the
// teacher's TypeInfo/BuiltinTypes pattern: one table that docs and code both
// read from.
type OpcodeInfo struct {
	Mnemonic string
	Operands int    // number of immediate operands the opcode carries
	Effect   string // short human-readable stack effect, for disassembly
}

// OpcodeNames is the single source of truth for opcode mnemonics, indexed
// by the byte value defined in internal/vm/opcode.go (kept here rather than
// in the vm package so tooling that only needs names, like `fullcircle
// dump`, does not need to import the VM's execution machinery).
var OpcodeNames = map[byte]OpcodeInfo{
	0:  {"nop", 0, ""},
	1:  {"alloc", 1, "(sp+=n)"},
	2:  {"release", 1, "(sp-=n)"},
	3:  {"loadi", 1, "(+4)"},
	4:  {"loadc", 1, "(+1)"},
	5:  {"loadf", 1, "(+4)"},
	6:  {"pushi", 1, "(+4)"},
	7:  {"pushc", 1, "(+1)"},
	8:  {"pushf", 1, "(+4)"},
	9:  {"popi", 1, "(-4)"},
	10: {"popc", 1, "(-1)"},
	11: {"popf", 1, "(-4)"},
	12: {"puship", 0, "(+4)"},
	13: {"popip", 0, "(-4)"},
	14: {"jmp", 1, ""},
	15: {"jmpr", 1, ""},
	16: {"jmp0", 1, "(-1)"},
	17: {"jmp0r", 1, "(-1)"},
	18: {"jmp1", 1, "(-1)"},
	19: {"jmp1r", 1, "(-1)"},
	20: {"addi", 0, "(-4,+4)"},
	21: {"subi", 0, "(-4,+4)"},
	22: {"muli", 0, "(-4,+4)"},
	23: {"divi", 0, "(-4,+4)"},
	24: {"modi", 0, "(-4,+4)"},
	25: {"negi", 0, ""},
	26: {"addc", 0, "(-1,+1)"},
	27: {"subc", 0, "(-1,+1)"},
	28: {"mulc", 0, "(-1,+1)"},
	29: {"divc", 0, "(-1,+1)"},
	30: {"modc", 0, "(-1,+1)"},
	31: {"negc", 0, ""},
	32: {"addf", 0, "(-4,+4)"},
	33: {"subf", 0, "(-4,+4)"},
	34: {"mulf", 0, "(-4,+4)"},
	35: {"divf", 0, "(-4,+4)"},
	36: {"powf", 0, "(-4,+4)"},
	37: {"negf", 0, ""},
	38: {"bandi", 0, "(-4,+4)"},
	39: {"bori", 0, "(-4,+4)"},
	40: {"xori", 0, "(-4,+4)"},
	41: {"bnoti", 0, ""},
	42: {"shli", 0, "(-4,+4)"},
	43: {"shri", 0, "(-4,+4)"},
	44: {"bandc", 0, "(-1,+1)"},
	45: {"borc", 0, "(-1,+1)"},
	46: {"xorc", 0, "(-1,+1)"},
	47: {"bnotc", 0, ""},
	48: {"shlc", 0, "(-1,+1)"},
	49: {"shrc", 0, "(-1,+1)"},
	50: {"landi", 0, "(-8,+1)"},
	51: {"lori", 0, "(-8,+1)"},
	52: {"lnoti", 0, "(-4,+1)"},
	53: {"landc", 0, "(-2,+1)"},
	54: {"lorc", 0, "(-2,+1)"},
	55: {"lnotc", 0, ""},
	56: {"landf", 0, "(-8,+1)"},
	57: {"lorf", 0, "(-8,+1)"},
	58: {"lnotf", 0, "(-4,+1)"},
	59: {"eqi", 0, "(-8,+1)"},
	60: {"neqi", 0, "(-8,+1)"},
	61: {"gti", 0, "(-8,+1)"},
	62: {"gtei", 0, "(-8,+1)"},
	63: {"lti", 0, "(-8,+1)"},
	64: {"ltei", 0, "(-8,+1)"},
	65: {"eqc", 0, "(-2,+1)"},
	66: {"neqc", 0, "(-2,+1)"},
	67: {"gtc", 0, "(-2,+1)"},
	68: {"gtec", 0, "(-2,+1)"},
	69: {"ltc", 0, "(-2,+1)"},
	70: {"ltec", 0, "(-2,+1)"},
	71: {"eqf", 0, "(-8,+1)"},
	72: {"neqf", 0, "(-8,+1)"},
	73: {"gtf", 0, "(-8,+1)"},
	74: {"gtef", 0, "(-8,+1)"},
	75: {"ltf", 0, "(-8,+1)"},
	76: {"ltef", 0, "(-8,+1)"},
	77: {"ctoi", 0, "(-1,+4)"},
	78: {"ctof", 0, "(-1,+4)"},
	79: {"itoc", 0, "(-4,+1)"},
	80: {"itof", 0, ""},
	81: {"ftoc", 0, "(-4,+1)"},
	82: {"ftoi", 0, ""},
	83: {"printi", 0, ""},
	84: {"printc", 0, ""},
	85: {"printf", 0, ""},
}

// Name returns the opcode's mnemonic, or "?" for an unknown opcode value.
func Name(op byte) string {
	if info, ok := OpcodeNames[op]; ok {
		return info.Mnemonic
	}
	return "?"
}
