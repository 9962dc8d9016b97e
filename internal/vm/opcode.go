package vm

// Opcode identifies a VM instruction. Values are kept in exact lockstep
// with internal/config.OpcodeNames, which is the single source of truth
// for mnemonics used by the disassembler (see internal/vm/disasm.go).
type Opcode byte

const (
	OpNop Opcode = iota
	OpAlloc
	OpRelease
	OpLoadI
	OpLoadC
	OpLoadF
	OpPushI
	OpPushC
	OpPushF
	OpPopI
	OpPopC
	OpPopF
	OpPushIP
	OpPopIP
	OpJmp
	OpJmpR
	OpJmp0
	OpJmp0R
	OpJmp1
	OpJmp1R
	OpAddI
	OpSubI
	OpMulI
	OpDivI
	OpModI
	OpNegI
	OpAddC
	OpSubC
	OpMulC
	OpDivC
	OpModC
	OpNegC
	OpAddF
	OpSubF
	OpMulF
	OpDivF
	OpPowF
	OpNegF
	OpBAndI
	OpBOrI
	OpXorI
	OpBNotI
	OpShlI
	OpShrI
	OpBAndC
	OpBOrC
	OpXorC
	OpBNotC
	OpShlC
	OpShrC
	OpLAndI
	OpLOrI
	OpLNotI
	OpLAndC
	OpLOrC
	OpLNotC
	OpLAndF
	OpLOrF
	OpLNotF
	OpEqI
	OpNeqI
	OpGtI
	OpGteI
	OpLtI
	OpLteI
	OpEqC
	OpNeqC
	OpGtC
	OpGteC
	OpLtC
	OpLteC
	OpEqF
	OpNeqF
	OpGtF
	OpGteF
	OpLtF
	OpLteF
	OpCtoI
	OpCtoF
	OpItoC
	OpItoF
	OpFtoC
	OpFtoI
	OpPrintI
	OpPrintC
	OpPrintF
)
