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
	"testing"

	"github.com/msashank910/PeekLinuxDebugger/registers"
)

type fakeCapability struct {
	regs map[int]uint64
	mem  map[uint64]uint64
	pc   uint64
}

func (f *fakeCapability) Reg(n int) (uint64, error) { return f.regs[n], nil }

func (f *fakeCapability) DerefSize(addr uint64, size int) (uint64, error) {
	return f.mem[addr], nil
}

func (f *fakeCapability) PC() (uint64, error) { return f.pc, nil }

func TestEvaluateAddr(t *testing.T) {
	cap := &fakeCapability{}
	e := New(cap, nil)
	expr := []byte{opAddr, 0x00, 0x10, 0x40, 0x00, 0x00, 0x00, 0x00, 0x00}
	r, err := e.Evaluate(expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Kind != KindAddress || r.Address != 0x401000 {
		t.Fatalf("got %+v, want address 0x401000", r)
	}
}

func TestEvaluateBareRegister(t *testing.T) {
	cap := &fakeCapability{regs: map[int]uint64{0: 0xdeadbeef}}
	e := New(cap, nil)
	r, err := e.Evaluate([]byte{opReg0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Kind != KindRegister || r.Register != registers.FromDWARF(0) || r.Value != 0xdeadbeef {
		t.Fatalf("got %+v", r)
	}
}

func TestEvaluateBregPlusOffset(t *testing.T) {
	// DW_OP_breg6 (rbp) -8: rbp holds 0x7ffff000, expect address 0x7fffeff8.
	cap := &fakeCapability{regs: map[int]uint64{6: 0x7ffff000}}
	e := New(cap, nil)
	expr := []byte{opBreg0 + 6, 0x78} // sleb128(-8) = 0x78
	r, err := e.Evaluate(expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Kind != KindAddress || r.Address != 0x7ffff000-8 {
		t.Fatalf("got %+v, want address %#x", r, 0x7ffff000-8)
	}
}

func TestEvaluateFbreg(t *testing.T) {
	frameBase := []byte{opBreg0 + 6, 0x7e} // DW_OP_breg6 -2
	cap := &fakeCapability{regs: map[int]uint64{6: 1000}}
	e := New(cap, frameBase)
	expr := []byte{opFbreg, 0x08} // sleb128(8) = 0x08
	r, err := e.Evaluate(expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Kind != KindAddress || r.Address != 1000-2+8 {
		t.Fatalf("got %+v, want address %d", r, 1000-2+8)
	}
}

func TestEvaluateFbregWithoutFrameBase(t *testing.T) {
	cap := &fakeCapability{}
	e := New(cap, nil)
	if _, err := e.Evaluate([]byte{opFbreg, 0x00}); err == nil {
		t.Fatalf("expected error for DW_OP_fbreg with no frame base")
	}
}

func TestEvaluateStackValue(t *testing.T) {
	cap := &fakeCapability{}
	e := New(cap, nil)
	expr := []byte{opLit0 + 5, opStackValue}
	r, err := e.Evaluate(expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Kind != KindImplicit || r.Value != 5 {
		t.Fatalf("got %+v, want implicit value 5", r)
	}
}

func TestEvaluatePlusUconst(t *testing.T) {
	cap := &fakeCapability{}
	e := New(cap, nil)
	expr := []byte{opAddr, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, opPlusUconst, 0x10}
	r, err := e.Evaluate(expr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Kind != KindAddress || r.Address != 0x10 {
		t.Fatalf("got %+v, want address 0x10", r)
	}
}

func TestEvaluateUnsupportedOpcode(t *testing.T) {
	cap := &fakeCapability{}
	e := New(cap, nil)
	if _, err := e.Evaluate([]byte{0xff}); err == nil {
		t.Fatalf("expected error for unsupported opcode")
	}
}

func TestEvaluateEmptyExpressionErrors(t *testing.T) {
	cap := &fakeCapability{}
	e := New(cap, nil)
	if _, err := e.Evaluate(nil); err == nil {
		t.Fatalf("expected error for empty expression")
	}
}
