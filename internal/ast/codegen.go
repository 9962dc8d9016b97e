package ast

import (
	"fmt"

	"github.com/fullcircle-lang/fullcircle/internal/vm"
)

// Generate walks a validated, promoted tree and emits a linked vm.Chunk,
// per spec.md §4.3's codegen contract: every node's code fragment is
// produced by a function of shape generate(sp_in) -> (code, sp_out),
// where sp_in/sp_out are byte offsets relative to the enclosing frame's
// base (locals) or to the start of the global data area (globals). The
// frame base itself is never known at compile time — only the running
// offset within it — which is exactly why local addressing is emitted
// relative to the runtime stack pointer while global addressing is
// emitted as a fixed absolute address (see pushOpFor/addrFor below).
func (a *Arena) GenerateProgram(root Handle) (*vm.Chunk, error) {
	chunk := vm.NewChunk()
	global := a.Get(root)

	var globalAddr int32
	var initCode vm.Code
	var funcs []Handle

	for _, stmtH := range global.Statements {
		node := a.Get(stmtH)
		switch node.Kind {
		case KVarDecl:
			node.IsGlobal = true
			node.Offset = globalAddr
			if node.Operand != NilHandle {
				operandCode, _ := a.generate(node.Operand, 0, NilHandle)
				initCode = append(initCode, operandCode...)
			} else {
				initCode = append(initCode, vm.Instruction{Op: vm.OpAlloc, IntArg: node.Type.Size(), Line: node.Tok.Line, Column: node.Tok.Column})
			}
			globalAddr += node.Type.Size()
		case KFuncDecl:
			funcs = append(funcs, stmtH)
		}
	}

	chunk.Append(initCode)

	for _, fnH := range funcs {
		a.generateFunc(chunk, fnH)
	}

	// __exit__ must resolve to the jmp instruction's own index, not
	// loadi's: the calling convention's puship/popip pair treats the
	// pushed return address as "the jmp that made the call", and the
	// fetch/execute loop's trailing ip++ lands one past whatever popip
	// sets ip to. So __exit__ = jmp's index (loadi's index + 1) makes
	// main's popip land on the trailing "release 0" (main takes no
	// arguments, and popip has already removed the return address) and
	// fall off the end, per spec §8's universal program-termination
	// invariant.
	chunk.Symbols["__exit__"] = chunk.Len() + 1
	chunk.Append(vm.Code{
		{Op: vm.OpLoadI, Sym: "__exit__"},
		{Op: vm.OpJmp, Sym: "main"},
		{Op: vm.OpRelease, IntArg: 0},
	})

	if err := chunk.Link(); err != nil {
		return nil, fmt.Errorf("linking: %w", err)
	}
	return chunk, nil
}

// generateFunc lays out a function's parameter and result-slot offsets
// relative to its frame base, then appends a skip-over jmpr (so the
// global block's linear startup flow never falls into a function body
// it isn't calling) followed by the body itself, recording the body's
// start offset as the function's call symbol.
//
// Parameters occupy negative frame-base-relative offsets counted down
// from the return address at [FB-4, FB): the last-declared parameter
// sits immediately below the return address, the first sits deepest.
// The result slot sits deeper still, below every parameter — this is
// the layout spec.md §4.3's calling convention requires so that
// "release <args>" at the call site, run after the callee has already
// popped its own return address, leaves exactly the result slot (or
// nothing, for void) on the caller's stack.
func (a *Arena) generateFunc(chunk *vm.Chunk, fnH Handle) {
	fn := a.Get(fnH)

	offset := int32(-4)
	for i := len(fn.ParamDecls) - 1; i >= 0; i-- {
		p := a.Get(fn.ParamDecls[i])
		offset -= p.Type.Size()
		p.Offset = offset
		p.IsGlobal = false
	}
	fn.ResultOffset = offset - fn.ReturnType.Size()

	bodyCode, _ := a.generate(fn.Body, 0, fnH)
	if !a.endsInReturn(fn.Body) {
		bodyCode = append(bodyCode,
			vm.Instruction{Op: vm.OpRelease, IntArg: 0, Line: fn.Tok.Line, Column: fn.Tok.Column},
			vm.Instruction{Op: vm.OpPopIP, Line: fn.Tok.Line, Column: fn.Tok.Column},
		)
	}

	chunk.Append(vm.Code{{Op: vm.OpJmpR, IntArg: int32(len(bodyCode)), Line: fn.Tok.Line, Column: fn.Tok.Column}})
	chunk.Symbols[fn.Name] = chunk.Len()
	chunk.Append(bodyCode)
}

// endsInReturn reports whether a function body's last top-level statement
// is already a Return, so generateFunc knows whether falling off the end
// of the body needs a synthesized "release 0; popip" to actually unwind
// the call frame. Every spec §8 scenario is a void main with no explicit
// return, so without this every function body would run straight off its
// own end into whatever bytecode follows it.
func (a *Arena) endsInReturn(bodyH Handle) bool {
	body := a.Get(bodyH)
	if body.Kind != KBlock || len(body.Statements) == 0 {
		return false
	}
	last := a.Get(body.Statements[len(body.Statements)-1])
	return last.Kind == KReturn
}

func pushOpFor(t ScalarType) vm.Opcode {
	switch t {
	case TypeInt:
		return vm.OpPushI
	case TypeFloat:
		return vm.OpPushF
	default:
		return vm.OpPushC
	}
}

func popOpFor(t ScalarType) vm.Opcode {
	switch t {
	case TypeInt:
		return vm.OpPopI
	case TypeFloat:
		return vm.OpPopF
	default:
		return vm.OpPopC
	}
}

// addrFor computes a VarDecl's address operand for use at a point where
// the running frame-relative stack depth is sp. Globals are always
// non-negative absolute addresses into the data area; locals are always
// zero or negative, a byte count below the current stack pointer — the
// sign itself is what the VM uses to tell the two addressing modes
// apart (see internal/vm's instruction dispatch).
func addrFor(decl *Node, sp int32) int32 {
	if decl.IsGlobal {
		return decl.Offset
	}
	return decl.Offset - sp
}

// generate emits h's code fragment starting at frame-relative depth sp,
// returning the fragment and the depth after it runs. fn is the
// enclosing function (for Return's result-slot lookup); it is NilHandle
// at global scope, where no Return can appear.
func (a *Arena) generate(h Handle, sp int32, fn Handle) (vm.Code, int32) {
	node := a.Get(h)
	tok := node.Tok

	switch node.Kind {
	case KIntLit:
		return vm.Code{{Op: vm.OpLoadI, IntArg: node.IntVal, Line: tok.Line, Column: tok.Column}}, sp + TypeInt.Size()

	case KFloatLit:
		return vm.Code{{Op: vm.OpLoadF, FloatArg: node.FloatVal, Line: tok.Line, Column: tok.Column}}, sp + TypeFloat.Size()

	case KCharLit:
		return vm.Code{{Op: vm.OpLoadC, ByteArg: node.CharVal, Line: tok.Line, Column: tok.Column}}, sp + TypeChar.Size()

	case KVarRef:
		decl := a.Get(node.Decl)
		addr := addrFor(decl, sp)
		code := vm.Code{{Op: pushOpFor(decl.Type), IntArg: addr, Line: tok.Line, Column: tok.Column}}
		return code, sp + decl.Type.Size()

	case KUnary:
		operandCode, sp1 := a.generate(node.Operand, sp, fn)
		operandType := a.Get(node.Operand).Type
		opcode := unaryOpcode(node.Op, operandType)
		code := append(operandCode, vm.Instruction{Op: opcode, Line: tok.Line, Column: tok.Column})
		return code, sp1 - operandType.Size() + node.Type.Size()

	case KBinary:
		leftCode, spL := a.generate(node.Left, sp, fn)
		rightCode, spR := a.generate(node.Right, spL, fn)
		leftType := a.Get(node.Left).Type
		rightType := a.Get(node.Right).Type
		code := append(leftCode, rightCode...)
		code = append(code, vm.Instruction{Op: binaryOpcode(node.Op, leftType), Line: tok.Line, Column: tok.Column})
		return code, spR - leftType.Size() - rightType.Size() + node.Type.Size()

	case KComma:
		leftCode, spL := a.generate(node.Left, sp, fn)
		leftSize := spL - sp
		code := leftCode
		if leftSize > 0 {
			code = append(code, vm.Instruction{Op: vm.OpRelease, IntArg: leftSize, Line: tok.Line, Column: tok.Column})
		}
		rightCode, spR := a.generate(node.Right, sp, fn)
		code = append(code, rightCode...)
		return code, spR

	case KAssign:
		decl := a.Get(node.Decl)
		rhsCode, spR := a.generate(node.Right, sp, fn)
		popAddr := addrFor(decl, spR)
		code := append(rhsCode, vm.Instruction{Op: popOpFor(decl.Type), IntArg: popAddr, Line: tok.Line, Column: tok.Column})
		pushAddr := addrFor(decl, sp)
		code = append(code, vm.Instruction{Op: pushOpFor(decl.Type), IntArg: pushAddr, Line: tok.Line, Column: tok.Column})
		return code, sp + decl.Type.Size()

	case KCall:
		decl := a.Get(node.Decl)
		resultSize := decl.ReturnType.Size()
		sp1 := sp
		var code vm.Code
		if resultSize > 0 {
			code = append(code, vm.Instruction{Op: vm.OpAlloc, IntArg: resultSize, Line: tok.Line, Column: tok.Column})
			sp1 += resultSize
		}
		var argsTotal int32
		for _, argH := range node.Args {
			argCode, spNext := a.generate(argH, sp1, fn)
			code = append(code, argCode...)
			argsTotal += spNext - sp1
			sp1 = spNext
		}
		code = append(code,
			vm.Instruction{Op: vm.OpLoadI, IntArg: 2, Line: tok.Line, Column: tok.Column},
			vm.Instruction{Op: vm.OpPushIP, Line: tok.Line, Column: tok.Column},
			vm.Instruction{Op: vm.OpAddI, Line: tok.Line, Column: tok.Column},
			vm.Instruction{Op: vm.OpJmp, Sym: decl.Name, Line: tok.Line, Column: tok.Column},
			vm.Instruction{Op: vm.OpRelease, IntArg: argsTotal, Line: tok.Line, Column: tok.Column},
		)
		return code, sp + resultSize

	case KIf:
		condCode, _ := a.generate(node.Operand, sp, fn)
		thenCode, _ := a.generate(node.Then, sp, fn)
		code := condCode
		if node.Else == NilHandle {
			code = append(code, vm.Instruction{Op: vm.OpJmp0R, IntArg: int32(len(thenCode)), Line: tok.Line, Column: tok.Column})
			code = append(code, thenCode...)
		} else {
			elseCode, _ := a.generate(node.Else, sp, fn)
			code = append(code, vm.Instruction{Op: vm.OpJmp0R, IntArg: int32(len(thenCode) + 1), Line: tok.Line, Column: tok.Column})
			code = append(code, thenCode...)
			code = append(code, vm.Instruction{Op: vm.OpJmpR, IntArg: int32(len(elseCode)), Line: tok.Line, Column: tok.Column})
			code = append(code, elseCode...)
		}
		return code, sp

	case KWhile:
		condCode, _ := a.generate(node.Operand, sp, fn)
		bodyCode, _ := a.generate(node.Body, sp, fn)
		backOffset := -(int32(len(condCode)) + int32(len(bodyCode)) + 2)
		code := condCode
		code = append(code, vm.Instruction{Op: vm.OpJmp0R, IntArg: int32(len(bodyCode) + 1), Line: tok.Line, Column: tok.Column})
		code = append(code, bodyCode...)
		code = append(code, vm.Instruction{Op: vm.OpJmpR, IntArg: backOffset, Line: tok.Line, Column: tok.Column})
		return code, sp

	case KBlock:
		cur := sp
		var code vm.Code
		for _, stmtH := range node.Statements {
			stmtCode, next := a.generate(stmtH, cur, fn)
			code = append(code, stmtCode...)
			cur = next
		}
		if cur != sp {
			code = append(code, vm.Instruction{Op: vm.OpRelease, IntArg: cur - sp, Line: tok.Line, Column: tok.Column})
		}
		return code, sp

	case KVarDecl:
		node.Offset = sp
		if node.Operand != NilHandle {
			return a.generate(node.Operand, sp, fn)
		}
		return vm.Code{{Op: vm.OpAlloc, IntArg: node.Type.Size(), Line: tok.Line, Column: tok.Column}}, sp + node.Type.Size()

	case KReturn:
		fnNode := a.Get(fn)
		var code vm.Code
		sp1 := sp
		if node.Operand != NilHandle {
			operandCode, spAfter := a.generate(node.Operand, sp, fn)
			code = append(code, operandCode...)
			sp1 = spAfter
			popAddr := fnNode.ResultOffset - sp1
			code = append(code, vm.Instruction{Op: popOpFor(fnNode.ReturnType), IntArg: popAddr, Line: tok.Line, Column: tok.Column})
			sp1 -= fnNode.ReturnType.Size()
		}
		code = append(code, vm.Instruction{Op: vm.OpRelease, IntArg: sp1, Line: tok.Line, Column: tok.Column})
		code = append(code, vm.Instruction{Op: vm.OpPopIP, Line: tok.Line, Column: tok.Column})
		return code, sp

	case KDiscard:
		operandCode, spAfter := a.generate(node.Operand, sp, fn)
		size := spAfter - sp
		code := operandCode
		if size > 0 {
			code = append(code, vm.Instruction{Op: vm.OpRelease, IntArg: size, Line: tok.Line, Column: tok.Column})
		}
		return code, sp

	default:
		return nil, sp
	}
}
