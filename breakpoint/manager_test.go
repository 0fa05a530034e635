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
	"os"
	"runtime"
	"testing"

	"github.com/msashank910/PeekLinuxDebugger/breakpoint"
	"github.com/msashank910/PeekLinuxDebugger/procmap"
)

// selfMap builds a real procmap.Map for the running test process, since
// ChunkContaining needs genuine address ranges and there is no way to
// fabricate a synthetic /proc/<pid>/maps file from this package.
func selfMap(t *testing.T) *procmap.Map {
	t.Helper()
	execPath, err := os.Readlink("/proc/self/exe")
	if err != nil {
		t.Skipf("cannot resolve /proc/self/exe: %v", err)
	}
	m := procmap.New(os.Getpid(), execPath)
	if err := m.Reload(); err != nil {
		t.Skipf("cannot read /proc/self/maps: %v", err)
	}
	return m
}

func callerPC(t *testing.T) uint64 {
	t.Helper()
	pc, _, _, ok := runtime.Caller(0)
	if !ok {
		t.Skip("runtime.Caller unavailable")
	}
	return uint64(pc)
}

type fakePrompt struct {
	confirm        bool
	chooseIndex    int
	chooseOK       bool
	lastCandidates []breakpoint.Candidate
}

func (p *fakePrompt) Confirm(string) bool { return p.confirm }
func (p *fakePrompt) Choose(c []breakpoint.Candidate) (int, bool) {
	p.lastCandidates = c
	return p.chooseIndex, p.chooseOK
}

func TestSetAtAddressRejectsUnmapped(t *testing.T) {
	pm := selfMap(t)
	mem := newFakeMemory()
	mgr := breakpoint.NewManager(mem, pm, nil, nil, 0, nil)

	if _, _, err := mgr.SetAtAddress(1); err == nil {
		t.Fatalf("expected error for an unmapped address")
	}
}

func TestSetAtAddressAcceptsMappedExecutable(t *testing.T) {
	pm := selfMap(t)
	pc := callerPC(t)
	mem := newFakeMemory()
	mem.words[pc] = 0x0102030405060708
	mgr := breakpoint.NewManager(mem, pm, nil, nil, 0, nil)

	h, inserted, err := mgr.SetAtAddress(pc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inserted {
		t.Fatalf("expected inserted=true on first call")
	}
	if uint64(h) != pc {
		t.Fatalf("handle = %#x, want %#x", h, pc)
	}
	if mem.words[pc]&0xff != breakpoint.TrapOpcode {
		t.Fatalf("trap byte was not installed")
	}

	h2, inserted2, err := mgr.SetAtAddress(pc)
	if err != nil {
		t.Fatalf("unexpected error on re-set: %v", err)
	}
	if inserted2 {
		t.Fatalf("expected inserted=false on second call at the same address")
	}
	if h2 != h {
		t.Fatalf("handles differ across calls at the same address")
	}
}

func TestRemoveRestoresMemory(t *testing.T) {
	pm := selfMap(t)
	pc := callerPC(t)
	mem := newFakeMemory()
	mem.words[pc] = 0x0102030405060708
	mgr := breakpoint.NewManager(mem, pm, nil, nil, 0, nil)

	h, _, err := mgr.SetAtAddress(pc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mgr.Remove(h); err != nil {
		t.Fatalf("unexpected error removing: %v", err)
	}
	if mem.words[pc] != 0x0102030405060708 {
		t.Fatalf("memory was not restored, got %#x", mem.words[pc])
	}
	if _, ok := mgr.Get(pc); ok {
		t.Fatalf("breakpoint should no longer be tracked after removal")
	}
}

func TestRemoveSentinelRequiresConfirmation(t *testing.T) {
	pm := selfMap(t)
	pc := callerPC(t)
	mem := newFakeMemory()
	mem.words[pc] = 0x0102030405060708
	prompt := &fakePrompt{confirm: false}
	mgr := breakpoint.NewManager(mem, pm, nil, nil, 0, prompt)

	h, _, err := mgr.MarkMainReturn(pc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mgr.Remove(h); err != breakpoint.ErrRemovalNotConfirmed {
		t.Fatalf("got err=%v, want ErrRemovalNotConfirmed", err)
	}
	if _, ok := mgr.Get(pc); !ok {
		t.Fatalf("breakpoint should survive a declined removal")
	}

	prompt.confirm = true
	if err := mgr.Remove(h); err != nil {
		t.Fatalf("unexpected error on confirmed removal: %v", err)
	}
}

func TestDumpLabelsSentinelAndOrder(t *testing.T) {
	pm := selfMap(t)
	pc := callerPC(t)
	mem := newFakeMemory()
	mem.words[pc] = 0x0102030405060708
	mgr := breakpoint.NewManager(mem, pm, nil, nil, 0, &fakePrompt{confirm: true})

	if _, _, err := mgr.MarkMainReturn(pc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dump := mgr.Dump()
	if len(dump) != 1 {
		t.Fatalf("expected exactly one dump row, got %d", len(dump))
	}
	if dump[0].Label != "Main Return" {
		t.Fatalf("label = %q, want %q", dump[0].Label, "Main Return")
	}
	if dump[0].Absolute != pc {
		t.Fatalf("absolute address mismatch")
	}
}
