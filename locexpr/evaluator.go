// This file is part of PeekLinuxDebugger.
//
// PeekLinuxDebugger is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// PeekLinuxDebugger is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with PeekLinuxDebugger.  If not, see <https://www.gnu.org/licenses/>.

package locexpr

import (
	"github.com/msashank910/PeekLinuxDebugger/curated"
	"github.com/msashank910/PeekLinuxDebugger/registers"
)

// operator encoding, "DWARF4 Standard" section 7.7.1, table on page 153.
const (
	opAddr        = 0x03
	opDeref       = 0x06
	opConst1u     = 0x08
	opConst1s     = 0x09
	opConst2u     = 0x0a
	opConst2s     = 0x0b
	opConst4u     = 0x0c
	opConst4s     = 0x0d
	opConst8u     = 0x0e
	opConst8s     = 0x0f
	opConstu      = 0x10
	opConsts      = 0x11
	opDup         = 0x12
	opDrop        = 0x13
	opOver        = 0x14
	opPick        = 0x15
	opSwap        = 0x16
	opRot         = 0x17
	opAbs         = 0x19
	opAnd         = 0x1a
	opDiv         = 0x1b
	opMinus       = 0x1c
	opMod         = 0x1d
	opMul         = 0x1e
	opNeg         = 0x1f
	opNot         = 0x20
	opOr          = 0x21
	opPlus        = 0x22
	opPlusUconst  = 0x23
	opShl         = 0x24
	opShr         = 0x25
	opShra        = 0x26
	opXor         = 0x27
	opLit0        = 0x30 // lit0 .. lit31 = 0x30 .. 0x4f
	opReg0        = 0x50 // reg0 .. reg31 = 0x50 .. 0x6f
	opBreg0       = 0x70 // breg0 .. breg31 = 0x70 .. 0x8f
	opRegx        = 0x90
	opFbreg       = 0x91
	opBregx       = 0x92
	opPiece       = 0x93
	opCallFrameCFA = 0x9c
	opStackValue  = 0x9f
)

var errUnsupported = curated.Errorf("unsupported DWARF expression operator")

// Evaluator interprets DWARF location-expression byte streams against a
// Capability. One Evaluator is reused across every variable evaluated at a
// given stop, since it carries no per-expression state.
type Evaluator struct {
	cap       Capability
	frameBase []byte // DW_AT_frame_base of the innermost function, or nil
}

// New constructs an Evaluator. frameBase is the enclosing function's own
// DW_AT_frame_base expression (commonly a single DW_OP_call_frame_cfa or
// DW_OP_breg6 relative to rbp); it may be nil if the current variable's
// expression contains no DW_OP_fbreg operator.
func New(cap Capability, frameBase []byte) *Evaluator {
	return &Evaluator{cap: cap, frameBase: frameBase}
}

// Evaluate interprets expr as a DWARF location expression and returns the
// resulting Result. Spec.md §4.7: an expression containing DW_OP_stack_value
// produces KindImplicit; an expression that is a single bare DW_OP_reg*/
// DW_OP_regx produces KindRegister; any other non-empty final stack
// produces KindAddress with the top of stack, whichever operator pushed it.
// Evaluate never returns KindLiteral.
func (e *Evaluator) Evaluate(expr []byte) (Result, error) {
	var stack []uint64
	push := func(v uint64) { stack = append(stack, v) }
	pop := func() (uint64, error) {
		if len(stack) == 0 {
			return 0, curated.Errorf("DWARF expression stack underflow")
		}
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v, nil
	}

	var reg registers.Register = registers.Invalid
	var isImplicit bool
	var opCount int
	var lastWasBareReg bool

	i := 0
	for i < len(expr) {
		op := expr[i]
		i++
		opCount++
		lastWasBareReg = (op >= opReg0 && op <= opReg0+31) || op == opRegx

		switch {
		case op == opAddr:
			if i+8 > len(expr) {
				return Result{}, curated.Errorf("truncated DW_OP_addr")
			}
			push(leUint64(expr[i : i+8]))
			i += 8

		case op == opDeref:
			addr, err := pop()
			if err != nil {
				return Result{}, err
			}
			v, err := e.cap.DerefSize(addr, 8)
			if err != nil {
				return Result{}, err
			}
			push(v)

		case op == opConst1u:
			push(uint64(expr[i]))
			i++
		case op == opConst1s:
			push(uint64(int64(int8(expr[i]))))
			i++
		case op == opConst2u:
			push(uint64(leUint16(expr[i : i+2])))
			i += 2
		case op == opConst2s:
			push(uint64(int64(int16(leUint16(expr[i : i+2])))))
			i += 2
		case op == opConst4u:
			push(uint64(leUint32(expr[i : i+4])))
			i += 4
		case op == opConst4s:
			push(uint64(int64(int32(leUint32(expr[i : i+4])))))
			i += 4
		case op == opConst8u:
			push(leUint64(expr[i : i+8]))
			i += 8
		case op == opConst8s:
			push(leUint64(expr[i : i+8]))
			i += 8
		case op == opConstu:
			v, n := decodeULEB128(expr[i:])
			push(v)
			i += n
		case op == opConsts:
			v, n := decodeSLEB128(expr[i:])
			push(uint64(v))
			i += n

		case op == opDup:
			v, err := pop()
			if err != nil {
				return Result{}, err
			}
			push(v)
			push(v)
		case op == opDrop:
			if _, err := pop(); err != nil {
				return Result{}, err
			}
		case op == opSwap:
			a, err := pop()
			if err != nil {
				return Result{}, err
			}
			b, err := pop()
			if err != nil {
				return Result{}, err
			}
			push(a)
			push(b)
		case op == opOver:
			if len(stack) < 2 {
				return Result{}, curated.Errorf("DWARF expression stack underflow")
			}
			push(stack[len(stack)-2])
		case op == opRot:
			if len(stack) < 3 {
				return Result{}, curated.Errorf("DWARF expression stack underflow")
			}
			n := len(stack)
			stack[n-1], stack[n-2], stack[n-3] = stack[n-2], stack[n-3], stack[n-1]
		case op == opPick:
			idx := int(expr[i])
			i++
			if idx >= len(stack) {
				return Result{}, curated.Errorf("DWARF expression stack underflow")
			}
			push(stack[len(stack)-1-idx])

		case op == opAbs, op == opAnd, op == opDiv, op == opMinus, op == opMod,
			op == opMul, op == opNeg, op == opNot, op == opOr, op == opPlus,
			op == opShl, op == opShr, op == opShra, op == opXor:
			if err := e.applyBinaryOrUnary(op, &stack); err != nil {
				return Result{}, err
			}

		case op == opPlusUconst:
			v, err := pop()
			if err != nil {
				return Result{}, err
			}
			u, n := decodeULEB128(expr[i:])
			i += n
			push(v + u)

		case op >= opLit0 && op <= opLit0+31:
			push(uint64(op - opLit0))

		case op >= opReg0 && op <= opReg0+31:
			reg = registers.FromDWARF(int(op - opReg0))
			v, err := e.cap.Reg(int(op - opReg0))
			if err != nil {
				return Result{}, err
			}
			push(v)

		case op >= opBreg0 && op <= opBreg0+31:
			base, err := e.cap.Reg(int(op - opBreg0))
			if err != nil {
				return Result{}, err
			}
			off, n := decodeSLEB128(expr[i:])
			i += n
			push(uint64(int64(base) + off))

		case op == opRegx:
			n, consumed := decodeULEB128(expr[i:])
			i += consumed
			reg = registers.FromDWARF(int(n))
			v, err := e.cap.Reg(int(n))
			if err != nil {
				return Result{}, err
			}
			push(v)

		case op == opBregx:
			n, consumed := decodeULEB128(expr[i:])
			i += consumed
			base, err := e.cap.Reg(int(n))
			if err != nil {
				return Result{}, err
			}
			off, consumed2 := decodeSLEB128(expr[i:])
			i += consumed2
			push(uint64(int64(base) + off))

		case op == opFbreg:
			off, n := decodeSLEB128(expr[i:])
			i += n
			if e.frameBase == nil {
				return Result{}, curated.Errorf("DW_OP_fbreg with no frame base in scope")
			}
			base, err := e.frameBaseValue()
			if err != nil {
				return Result{}, err
			}
			push(uint64(int64(base) + off))

		case op == opCallFrameCFA:
			return Result{}, curated.Errorf("DW_OP_call_frame_cfa requires call frame information, which is not implemented")

		case op == opStackValue:
			isImplicit = true

		case op == opPiece:
			_, n := decodeULEB128(expr[i:])
			i += n

		default:
			return Result{}, curated.Errorf("%w: opcode 0x%02x", errUnsupported, op)
		}
	}

	if len(stack) == 0 {
		return Result{}, curated.Errorf("DWARF expression produced no value")
	}
	top := stack[len(stack)-1]

	switch {
	case isImplicit:
		return Result{Kind: KindImplicit, Value: top}, nil
	case opCount == 1 && lastWasBareReg && reg != registers.Invalid:
		return Result{Kind: KindRegister, Register: reg, Value: top}, nil
	default:
		return Result{Kind: KindAddress, Address: top}, nil
	}
}

// frameBaseValue evaluates the enclosing function's frame-base expression
// to an address. It supports the common single-operator case
// (DW_OP_bregN) directly, since a general call-frame-info unwinder is out
// of scope.
func (e *Evaluator) frameBaseValue() (uint64, error) {
	inner := &Evaluator{cap: e.cap}
	r, err := inner.Evaluate(e.frameBase)
	if err != nil {
		return 0, curated.Errorf("evaluating frame base: %w", err)
	}
	return r.Address, nil
}

func (e *Evaluator) applyBinaryOrUnary(op byte, stack *[]uint64) error {
	s := *stack
	pop := func() (uint64, error) {
		if len(s) == 0 {
			return 0, curated.Errorf("DWARF expression stack underflow")
		}
		v := s[len(s)-1]
		s = s[:len(s)-1]
		return v, nil
	}
	push := func(v uint64) { s = append(s, v) }

	switch op {
	case opAbs:
		v, err := pop()
		if err != nil {
			return err
		}
		if int64(v) < 0 {
			v = uint64(-int64(v))
		}
		push(v)
	case opNeg:
		v, err := pop()
		if err != nil {
			return err
		}
		push(uint64(-int64(v)))
	case opNot:
		v, err := pop()
		if err != nil {
			return err
		}
		push(^v)
	default:
		b, err := pop()
		if err != nil {
			return err
		}
		a, err := pop()
		if err != nil {
			return err
		}
		switch op {
		case opAnd:
			push(a & b)
		case opDiv:
			if b == 0 {
				return curated.Errorf("DW_OP_div by zero")
			}
			push(uint64(int64(a) / int64(b)))
		case opMinus:
			push(a - b)
		case opMod:
			if b == 0 {
				return curated.Errorf("DW_OP_mod by zero")
			}
			push(a % b)
		case opMul:
			push(a * b)
		case opOr:
			push(a | b)
		case opPlus:
			push(a + b)
		case opShl:
			push(a << b)
		case opShr:
			push(a >> b)
		case opShra:
			push(uint64(int64(a) >> b))
		case opXor:
			push(a ^ b)
		}
	}
	*stack = s
	return nil
}

func leUint16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func leUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
