package vm

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/google/uuid"
)

// Instruction is one (opcode, *args) tuple, per spec.md §4.4. Only one of
// IntArg/FloatArg/ByteArg is meaningful for a given Op; Sym is set instead
// of IntArg for a loadi/jmp/jmp0/jmp1 that still names a symbolic target
// (cleared by Chunk.Link, spec.md §4.3 "linker pass").
type Instruction struct {
	Op       Opcode
	IntArg   int32
	FloatArg float32
	ByteArg  byte
	Sym      string

	Line   int
	Column int
}

// Code is a code generation fragment: an ordered instruction sequence, as
// produced by every AST node's Generate method.
type Code []Instruction

// Chunk is the linkable, executable unit produced by compiling a
// GlobalBlock: the flat instruction array plus the symbol table used to
// resolve jump/call targets (spec.md §4.3's "linker pass").
//
// Grounded on the teacher's internal/vm.Chunk (bytecode + constant pool +
// per-offset line/column tables for error reporting); adapted to hold a
// typed Instruction slice instead of a packed byte stream, since
// FullCircle's instruction set has no use for a separate constant pool.
type Chunk struct {
	Code    Code
	Symbols map[string]int
}

// NewChunk creates an empty chunk ready for code generation.
func NewChunk() *Chunk {
	return &Chunk{Code: make(Code, 0, 256), Symbols: make(map[string]int)}
}

// Append adds fragment to the end of the chunk and returns the instruction
// offset it started at.
func (c *Chunk) Append(fragment Code) int {
	start := len(c.Code)
	c.Code = append(c.Code, fragment...)
	return start
}

// Len reports the number of instructions currently in the chunk.
func (c *Chunk) Len() int {
	return len(c.Code)
}

// Link resolves every symbolic loadi/jmp/jmp0/jmp1 target to an integer
// instruction index, per spec.md §4.3: "a final linker sweep; unresolved
// symbols are a fatal compile error."
func (c *Chunk) Link() error {
	for i, instr := range c.Code {
		if instr.Sym == "" {
			continue
		}
		switch instr.Op {
		case OpLoadI, OpJmp, OpJmp0, OpJmp1:
			addr, ok := c.Symbols[instr.Sym]
			if !ok {
				return fmt.Errorf("undefined reference %q", instr.Sym)
			}
			c.Code[i].IntArg = int32(addr)
			c.Code[i].Sym = ""
		}
	}
	return nil
}

// BytecodeFile is the optional serialized form of a Chunk, written only
// by `fullcircle build`; `fullcircle dump` and `fullcircle run` compile
// in process and never read it (spec.md §6: "no persisted format is
// specified"). Grounded on the
// teacher's BytecodeFile (magic + version + gob body); FullCircle adds a
// random BuildID so two builds of identical source are distinguishable in
// tooling output.
type BytecodeFile struct {
	Magic   [4]byte
	Version byte
	BuildID uuid.UUID
	Chunk   *Chunk
}

var magic = [4]byte{'F', 'C', 'C', 'B'}

// Serialize encodes the chunk as a self-describing gob-encoded byte blob.
func (c *Chunk) Serialize() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(magic[:])
	buf.WriteByte(0x01)

	id := uuid.New()
	buf.Write(id[:])

	enc := gob.NewEncoder(buf)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("gob encoding failed: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize reconstructs a BytecodeFile from Serialize's output.
func Deserialize(data []byte) (*BytecodeFile, error) {
	if len(data) < 4+1+16 {
		return nil, fmt.Errorf("bytecode data too short")
	}
	var bf BytecodeFile
	copy(bf.Magic[:], data[0:4])
	if bf.Magic != magic {
		return nil, fmt.Errorf("invalid magic number, expected %q", magic)
	}
	bf.Version = data[4]
	if bf.Version != 0x01 {
		return nil, fmt.Errorf("unsupported bytecode version: %d", bf.Version)
	}
	id, err := uuid.FromBytes(data[5:21])
	if err != nil {
		return nil, fmt.Errorf("invalid build id: %w", err)
	}
	bf.BuildID = id

	dec := gob.NewDecoder(bytes.NewReader(data[21:]))
	var chunk Chunk
	if err := dec.Decode(&chunk); err != nil {
		return nil, fmt.Errorf("gob decoding failed: %w", err)
	}
	bf.Chunk = &chunk
	return &bf, nil
}
