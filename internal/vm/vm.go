package vm

import (
	"io"
	"math"

	"github.com/funvibe/funbit/pkg/funbit"

	"github.com/fullcircle-lang/fullcircle/internal/diagnostics"
	"github.com/fullcircle-lang/fullcircle/internal/token"
)

// DefaultStackSize is the byte-arena capacity used when a caller does not
// override it, per spec.md §4.4.
const DefaultStackSize = 65536

// VM executes a linked Chunk against a single byte-addressable arena. The
// low end of the arena holds global variables (laid out by the global init
// code generated ahead of every function); everything above that is the
// live call-frame stack. There is no separate "globals" region at the Go
// level — spec.md §4.4 describes one arena, and global slots simply never
// get released.
//
// Grounded on the teacher's bytecode VM (fetch/execute loop over a flat
// instruction array, byte.Writer for program output); adapted from the
// teacher's tagged-value stack to FullCircle's untagged byte arena, since
// every value's size and interpretation is fixed by the opcode that reads
// it, never by a runtime tag.
type VM struct {
	stack []byte
	sp    int32
	ip    int32
	out   io.Writer
}

// New allocates a VM with the given stack capacity, writing program output
// to out.
func New(capacity int, out io.Writer) *VM {
	return &VM{stack: make([]byte, capacity), out: out}
}

// Run executes chunk to completion. Reaching the end of the code (ip ==
// len(code)) is the normal, successful exit and is reported as
// ErrProgramTerminated; any other error is a genuine runtime fault.
func Run(chunk *Chunk, capacity int, out io.Writer) error {
	v := New(capacity, out)
	return v.run(chunk)
}

func (v *VM) run(chunk *Chunk) error {
	for {
		if int(v.ip) >= len(chunk.Code) {
			return ErrProgramTerminated
		}
		instr := chunk.Code[v.ip]
		if err := v.exec(chunk, instr); err != nil {
			return err
		}
		v.ip++
	}
}

// addrFor resolves an instruction's addr operand to an absolute byte
// offset: negative addresses are relative to sp (locals, spec.md §4.4
// "addr + sp"), non-negative addresses are absolute (globals).
func addrFor(addr, sp int32) int32 {
	if addr < 0 {
		return addr + sp
	}
	return addr
}

func (v *VM) boundsCheck(effective, size, limit int32) error {
	if effective < 0 || effective+size > limit {
		return SegmentationFault("address out of range")
	}
	return nil
}

// pushFrom copies size bytes from addr (resolved against the current sp)
// to the top of the stack and advances sp.
func (v *VM) pushFrom(addr, size int32) error {
	effective := addrFor(addr, v.sp)
	if err := v.boundsCheck(effective, size, v.sp); err != nil {
		return err
	}
	if v.sp+size > int32(len(v.stack)) {
		return StackOverflow(int(v.sp+size), len(v.stack))
	}
	copy(v.stack[v.sp:v.sp+size], v.stack[effective:effective+size])
	v.sp += size
	return nil
}

// popTo pops size bytes off the top of the stack and copies them to addr,
// resolved against sp as it stood before the pop (spec.md §4.3: a pop's
// address is relative to the depth that still includes the popped value).
func (v *VM) popTo(addr, size int32) error {
	if v.sp < size {
		return StackUnderflow()
	}
	effective := addrFor(addr, v.sp)
	if err := v.boundsCheck(effective, size, v.sp); err != nil {
		return err
	}
	v.sp -= size
	copy(v.stack[effective:effective+size], v.stack[v.sp:v.sp+size])
	return nil
}

func (v *VM) pushRaw(bytes []byte) error {
	size := int32(len(bytes))
	if v.sp+size > int32(len(v.stack)) {
		return StackOverflow(int(v.sp+size), len(v.stack))
	}
	copy(v.stack[v.sp:v.sp+size], bytes)
	v.sp += size
	return nil
}

func (v *VM) popRaw(size int32) ([]byte, error) {
	if v.sp < size {
		return nil, StackUnderflow()
	}
	v.sp -= size
	out := make([]byte, size)
	copy(out, v.stack[v.sp:v.sp+size])
	return out, nil
}

func (v *VM) pushInt(val int32) error {
	bits, _ := funbit.IntToBits(int64(val), 32, true)
	return v.pushRaw(bits)
}

func (v *VM) popInt() (int32, error) {
	bits, err := v.popRaw(4)
	if err != nil {
		return 0, err
	}
	raw, _ := funbit.BitsToInt(bits, true)
	return int32(uint32(raw)), nil
}

func (v *VM) pushChar(c byte) error {
	return v.pushRaw([]byte{c})
}

func (v *VM) popChar() (byte, error) {
	bits, err := v.popRaw(1)
	if err != nil {
		return 0, err
	}
	return bits[0], nil
}

func (v *VM) pushFloat(f float32) error {
	bits, _ := funbit.IntToBits(int64(math.Float32bits(f)), 32, false)
	return v.pushRaw(bits)
}

func (v *VM) popFloat() (float32, error) {
	bits, err := v.popRaw(4)
	if err != nil {
		return 0, err
	}
	raw, _ := funbit.BitsToInt(bits, false)
	return math.Float32frombits(uint32(raw)), nil
}

func boolToChar(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// exec dispatches one instruction. Absolute jumps (jmp/jmp0/jmp1) set ip to
// target-1 so the generic ip += 1 in run's loop lands exactly on target;
// relative jumps (jmpr/jmp0r/jmp1r) add their offset directly to the
// current (unincremented) ip, so that same generic step lands at
// (address of the branch + 1 + offset) — "the instruction after the
// branch, plus offset", per spec.md §4.4. popip needs no special-casing:
// it sets ip to the popped value like any other instruction and lets the
// loop's ip += 1 carry it one past, which is exactly what lands a call's
// return on the release following its jmp (puship pushed the jmp's own
// address, not the one after it).
//
// Any runtime diagnostic raised while dispatching is stamped with the
// faulting instruction's source position, the way the teacher's own
// Chunk.Lines/Chunk.Columns let a VM crash point back at source.
func (v *VM) exec(chunk *Chunk, instr Instruction) error {
	err := v.dispatch(chunk, instr)
	if de, ok := err.(*diagnostics.Error); ok && de.Token.Line == 0 {
		de.Token = token.Token{Line: instr.Line, Column: instr.Column}
	}
	return err
}

func (v *VM) dispatch(chunk *Chunk, instr Instruction) error {
	switch instr.Op {
	case OpNop:
		return nil

	case OpAlloc:
		if v.sp+instr.IntArg > int32(len(v.stack)) {
			return StackOverflow(int(v.sp+instr.IntArg), len(v.stack))
		}
		v.sp += instr.IntArg
		return nil

	case OpRelease:
		if v.sp < instr.IntArg {
			return StackUnderflow()
		}
		v.sp -= instr.IntArg
		return nil

	case OpLoadI:
		return v.pushInt(instr.IntArg)
	case OpLoadC:
		return v.pushChar(instr.ByteArg)
	case OpLoadF:
		return v.pushFloat(instr.FloatArg)

	case OpPushI:
		return v.pushFrom(instr.IntArg, 4)
	case OpPushC:
		return v.pushFrom(instr.IntArg, 1)
	case OpPushF:
		return v.pushFrom(instr.IntArg, 4)
	case OpPopI:
		return v.popTo(instr.IntArg, 4)
	case OpPopC:
		return v.popTo(instr.IntArg, 1)
	case OpPopF:
		return v.popTo(instr.IntArg, 4)

	case OpPushIP:
		return v.pushInt(v.ip)
	case OpPopIP:
		addr, err := v.popInt()
		if err != nil {
			return err
		}
		v.ip = addr
		return nil

	case OpJmp:
		v.ip = instr.IntArg - 1
		return nil
	case OpJmpR:
		v.ip += instr.IntArg
		return nil
	case OpJmp0:
		c, err := v.popChar()
		if err != nil {
			return err
		}
		if c == 0 {
			v.ip = instr.IntArg - 1
		}
		return nil
	case OpJmp0R:
		c, err := v.popChar()
		if err != nil {
			return err
		}
		if c == 0 {
			v.ip += instr.IntArg
		}
		return nil
	case OpJmp1:
		c, err := v.popChar()
		if err != nil {
			return err
		}
		if c != 0 {
			v.ip = instr.IntArg - 1
		}
		return nil
	case OpJmp1R:
		c, err := v.popChar()
		if err != nil {
			return err
		}
		if c != 0 {
			v.ip += instr.IntArg
		}
		return nil

	case OpAddI, OpSubI, OpMulI, OpDivI, OpModI, OpBAndI, OpBOrI, OpXorI, OpShlI, OpShrI,
		OpLAndI, OpLOrI, OpEqI, OpNeqI, OpGtI, OpGteI, OpLtI, OpLteI:
		return v.execIntBinary(instr.Op)
	case OpNegI, OpBNotI, OpLNotI:
		return v.execIntUnary(instr.Op)

	case OpAddC, OpSubC, OpMulC, OpDivC, OpModC, OpBAndC, OpBOrC, OpXorC, OpShlC, OpShrC,
		OpLAndC, OpLOrC, OpEqC, OpNeqC, OpGtC, OpGteC, OpLtC, OpLteC:
		return v.execCharBinary(instr.Op)
	case OpNegC, OpBNotC, OpLNotC:
		return v.execCharUnary(instr.Op)

	case OpAddF, OpSubF, OpMulF, OpDivF, OpPowF, OpLAndF, OpLOrF,
		OpEqF, OpNeqF, OpGtF, OpGteF, OpLtF, OpLteF:
		return v.execFloatBinary(instr.Op)
	case OpNegF, OpLNotF:
		return v.execFloatUnary(instr.Op)

	case OpCtoI:
		c, err := v.popChar()
		if err != nil {
			return err
		}
		return v.pushInt(int32(c))
	case OpCtoF:
		c, err := v.popChar()
		if err != nil {
			return err
		}
		return v.pushFloat(float32(c))
	case OpItoC:
		i, err := v.popInt()
		if err != nil {
			return err
		}
		return v.pushChar(byte(uint32(i) & 0xFF))
	case OpItoF:
		i, err := v.popInt()
		if err != nil {
			return err
		}
		return v.pushFloat(float32(i))
	case OpFtoC:
		f, err := v.popFloat()
		if err != nil {
			return err
		}
		return v.pushChar(byte(int64(f) & 0xFF))
	case OpFtoI:
		f, err := v.popFloat()
		if err != nil {
			return err
		}
		return v.pushInt(int32(f))

	case OpPrintI:
		i, err := v.popInt()
		if err != nil {
			return err
		}
		_, _ = io.WriteString(v.out, itoa(int64(i)))
		return v.pushInt(i)
	case OpPrintC:
		c, err := v.popChar()
		if err != nil {
			return err
		}
		_, _ = v.out.Write([]byte{c})
		return v.pushChar(c)
	case OpPrintF:
		f, err := v.popFloat()
		if err != nil {
			return err
		}
		_, _ = io.WriteString(v.out, ftoa(f))
		return v.pushFloat(f)

	default:
		return SegmentationFault("unrecognized opcode")
	}
}

func (v *VM) execIntBinary(op Opcode) error {
	right, err := v.popInt()
	if err != nil {
		return err
	}
	left, err := v.popInt()
	if err != nil {
		return err
	}
	switch op {
	case OpAddI:
		return v.pushInt(left + right)
	case OpSubI:
		return v.pushInt(left - right)
	case OpMulI:
		return v.pushInt(left * right)
	case OpDivI:
		if right == 0 {
			return DivisionByZero()
		}
		return v.pushInt(left / right)
	case OpModI:
		if right == 0 {
			return DivisionByZero()
		}
		return v.pushInt(left % right)
	case OpBAndI:
		return v.pushInt(left & right)
	case OpBOrI:
		return v.pushInt(left | right)
	case OpXorI:
		return v.pushInt(left ^ right)
	case OpShlI:
		return v.pushInt(left << uint32(right))
	case OpShrI:
		return v.pushInt(left >> uint32(right))
	case OpLAndI:
		return v.pushChar(boolToChar(left != 0 && right != 0))
	case OpLOrI:
		return v.pushChar(boolToChar(left != 0 || right != 0))
	case OpEqI:
		return v.pushChar(boolToChar(left == right))
	case OpNeqI:
		return v.pushChar(boolToChar(left != right))
	case OpGtI:
		return v.pushChar(boolToChar(left > right))
	case OpGteI:
		return v.pushChar(boolToChar(left >= right))
	case OpLtI:
		return v.pushChar(boolToChar(left < right))
	case OpLteI:
		return v.pushChar(boolToChar(left <= right))
	}
	return SegmentationFault("unrecognized int operator")
}

func (v *VM) execIntUnary(op Opcode) error {
	a, err := v.popInt()
	if err != nil {
		return err
	}
	switch op {
	case OpNegI:
		return v.pushInt(-a)
	case OpBNotI:
		return v.pushInt(^a)
	case OpLNotI:
		return v.pushChar(boolToChar(a == 0))
	}
	return SegmentationFault("unrecognized int operator")
}

// execCharBinary implements char arithmetic modulo 256, per spec.md §8's
// resolved ambiguity: char is an unsigned 8-bit ring, not a signed byte.
func (v *VM) execCharBinary(op Opcode) error {
	right, err := v.popChar()
	if err != nil {
		return err
	}
	left, err := v.popChar()
	if err != nil {
		return err
	}
	switch op {
	case OpAddC:
		return v.pushChar(left + right)
	case OpSubC:
		return v.pushChar(left - right)
	case OpMulC:
		return v.pushChar(left * right)
	case OpDivC:
		if right == 0 {
			return DivisionByZero()
		}
		return v.pushChar(left / right)
	case OpModC:
		if right == 0 {
			return DivisionByZero()
		}
		return v.pushChar(left % right)
	case OpBAndC:
		return v.pushChar(left & right)
	case OpBOrC:
		return v.pushChar(left | right)
	case OpXorC:
		return v.pushChar(left ^ right)
	case OpShlC:
		return v.pushChar(left << (right % 8))
	case OpShrC:
		return v.pushChar(left >> (right % 8))
	case OpLAndC:
		return v.pushChar(boolToChar(left != 0 && right != 0))
	case OpLOrC:
		return v.pushChar(boolToChar(left != 0 || right != 0))
	case OpEqC:
		return v.pushChar(boolToChar(left == right))
	case OpNeqC:
		return v.pushChar(boolToChar(left != right))
	case OpGtC:
		return v.pushChar(boolToChar(left > right))
	case OpGteC:
		return v.pushChar(boolToChar(left >= right))
	case OpLtC:
		return v.pushChar(boolToChar(left < right))
	case OpLteC:
		return v.pushChar(boolToChar(left <= right))
	}
	return SegmentationFault("unrecognized char operator")
}

// execCharUnary implements negc as (-a) & 0xFF, the resolved reading of
// "negation on an unsigned ring": two's complement in 8 bits.
func (v *VM) execCharUnary(op Opcode) error {
	a, err := v.popChar()
	if err != nil {
		return err
	}
	switch op {
	case OpNegC:
		return v.pushChar(byte((-int32(a)) & 0xFF))
	case OpBNotC:
		return v.pushChar(^a)
	case OpLNotC:
		return v.pushChar(boolToChar(a == 0))
	}
	return SegmentationFault("unrecognized char operator")
}

func (v *VM) execFloatBinary(op Opcode) error {
	right, err := v.popFloat()
	if err != nil {
		return err
	}
	left, err := v.popFloat()
	if err != nil {
		return err
	}
	switch op {
	case OpAddF:
		return v.pushFloat(left + right)
	case OpSubF:
		return v.pushFloat(left - right)
	case OpMulF:
		return v.pushFloat(left * right)
	case OpDivF:
		// Division by zero is not checked here: IEEE 754 produces
		// +/-Inf or NaN, per spec.md §8.
		return v.pushFloat(left / right)
	case OpPowF:
		return v.pushFloat(float32(math.Pow(float64(left), float64(right))))
	case OpLAndF:
		return v.pushChar(boolToChar(left != 0 && right != 0))
	case OpLOrF:
		return v.pushChar(boolToChar(left != 0 || right != 0))
	case OpEqF:
		return v.pushChar(boolToChar(left == right))
	case OpNeqF:
		return v.pushChar(boolToChar(left != right))
	case OpGtF:
		return v.pushChar(boolToChar(left > right))
	case OpGteF:
		return v.pushChar(boolToChar(left >= right))
	case OpLtF:
		return v.pushChar(boolToChar(left < right))
	case OpLteF:
		return v.pushChar(boolToChar(left <= right))
	}
	return SegmentationFault("unrecognized float operator")
}

func (v *VM) execFloatUnary(op Opcode) error {
	a, err := v.popFloat()
	if err != nil {
		return err
	}
	switch op {
	case OpNegF:
		return v.pushFloat(-a)
	case OpLNotF:
		return v.pushChar(boolToChar(a == 0))
	}
	return SegmentationFault("unrecognized float operator")
}
