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

package breakpoint_test

import (
	"testing"

	"github.com/msashank910/PeekLinuxDebugger/breakpoint"
)

// fakeMemory is a minimal in-memory double for breakpoint.Memory.
type fakeMemory struct {
	words map[uint64]uint64
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{words: make(map[uint64]uint64)}
}

func (f *fakeMemory) Read(addr uint64) (uint64, error) {
	return f.words[addr], nil
}

func (f *fakeMemory) Write(addr uint64, word uint64) error {
	f.words[addr] = word
	return nil
}

// TestTrapRoundtrip is spec.md scenario 1.
func TestTrapRoundtrip(t *testing.T) {
	mem := newFakeMemory()
	const addr = 0x401120

	// build the word explicitly so the low byte is unambiguous: 0x48 83 EC
	// 08 55 48 89 E5 stored little-endian means byte 0 (the low byte) is 0xE5.
	word := uint64(0)
	bytes := []byte{0xE5, 0x89, 0x48, 0x55, 0x08, 0xEC, 0x83, 0x48}
	for i := 7; i >= 0; i-- {
		word = (word << 8) | uint64(bytes[i])
	}
	mem.words[addr] = word

	bp := breakpoint.New(addr)
	if bp.Enabled {
		t.Fatalf("a new breakpoint must start disabled")
	}

	if err := bp.Enable(mem); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if !bp.Enabled {
		t.Fatalf("Enable should mark the breakpoint enabled")
	}
	if bp.SavedByte != 0xE5 {
		t.Fatalf("SavedByte = %#x, want 0xE5", bp.SavedByte)
	}
	got, _ := mem.Read(addr)
	if byte(got) != breakpoint.TrapOpcode {
		t.Fatalf("low byte after Enable = %#x, want trap opcode", byte(got))
	}
	if got>>8 != word>>8 {
		t.Fatalf("Enable must not disturb bytes above the low byte")
	}

	if err := bp.Disable(mem); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if bp.Enabled {
		t.Fatalf("Disable should mark the breakpoint disabled")
	}
	got, _ = mem.Read(addr)
	if got != word {
		t.Fatalf("Disable did not restore the original word: got %#x, want %#x", got, word)
	}
}

// TestEnableIdempotent verifies the spec's required guard: calling Enable
// again on an already-enabled breakpoint must not re-save the trap byte as
// SavedByte.
func TestEnableIdempotent(t *testing.T) {
	mem := newFakeMemory()
	const addr = 0x1000
	mem.words[addr] = 0x1122334455667788

	bp := breakpoint.New(addr)
	if err := bp.Enable(mem); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	saved := bp.SavedByte

	if err := bp.Enable(mem); err != nil {
		t.Fatalf("second Enable: %v", err)
	}
	if bp.SavedByte != saved {
		t.Fatalf("second Enable must not disturb SavedByte: got %#x, want %#x", bp.SavedByte, saved)
	}

	if err := bp.Disable(mem); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	got, _ := mem.Read(addr)
	if got != 0x1122334455667788 {
		t.Fatalf("round trip failed after idempotent Enable: got %#x", got)
	}
}

func TestDisableOnDisabledIsNoOp(t *testing.T) {
	mem := newFakeMemory()
	const addr = 0x2000
	mem.words[addr] = 0xAABBCCDDEEFF0011

	bp := breakpoint.New(addr)
	if err := bp.Disable(mem); err != nil {
		t.Fatalf("Disable on a never-enabled breakpoint should succeed: %v", err)
	}
	got, _ := mem.Read(addr)
	if got != 0xAABBCCDDEEFF0011 {
		t.Fatalf("Disable on a disabled breakpoint must not touch memory")
	}
}
