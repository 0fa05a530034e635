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

package stepengine

import (
	"github.com/msashank910/PeekLinuxDebugger/curated"
	"github.com/msashank910/PeekLinuxDebugger/registers"
)

// snapshot is a saved copy of every register plus a slice of stack memory
// above rsp, used to revert a step_in attempt that wandered into a region
// with no debug information.
type snapshot struct {
	regs  registers.Set
	rsp   uint64
	stack []byte
}

func (e *Engine) takeSnapshot() (snapshot, error) {
	regs, err := e.regs.ReadAll()
	if err != nil {
		return snapshot{}, err
	}
	rsp := regs.Get(registers.Rsp)

	stack := make([]byte, 0, e.stackBytes)
	for off := 0; off < e.stackBytes; off += 8 {
		word, err := e.mem.Read(rsp + uint64(off))
		if err != nil {
			break
		}
		for b := 0; b < 8; b++ {
			stack = append(stack, byte(word>>(8*b)))
		}
	}
	return snapshot{regs: regs, rsp: rsp, stack: stack}, nil
}

func (e *Engine) restoreSnapshot(s snapshot) error {
	for off := 0; off+8 <= len(s.stack); off += 8 {
		var word uint64
		for b := 7; b >= 0; b-- {
			word = word<<8 | uint64(s.stack[off+b])
		}
		if err := e.mem.Write(s.rsp+uint64(off), word); err != nil {
			return curated.Errorf("%w: restoring stack: %v", ErrRevertFailed, err)
		}
	}
	if err := e.regs.WriteAll(s.regs); err != nil {
		return curated.Errorf("%w: restoring registers: %v", ErrRevertFailed, err)
	}
	return nil
}

// StepIn steps line by line into whatever the current source line calls.
// If execution wanders into a region with no debug information, confirm is
// asked whether to revert to the pre-step state and fall back to
// StepOver; declining leaves the tracee stopped in the no-DWARF region.
func (e *Engine) StepIn(confirm func() bool) error {
	pc, err := e.regs.Read(registers.Rip)
	if err != nil {
		return err
	}
	rel := pc - e.loadAddress

	startLine, ok := e.dw.LineEntryForPC(rel)
	if !ok {
		return curated.Errorf("step_in: pc %#x resolves to no line entry", pc)
	}
	startFn, ok := e.dw.FunctionForPCOffset(rel)
	if !ok {
		return curated.Errorf("step_in: pc %#x resolves to no user function", pc)
	}

	snap, err := e.takeSnapshot()
	if err != nil {
		return curated.Errorf("snapshotting before step_in: %w", err)
	}

	trackedLine := startLine.Line
	trackedFn := startFn

	for {
		prevPC := pc
		if err := e.SingleStepBPCheck(); err != nil {
			return err
		}
		pc, err = e.regs.Read(registers.Rip)
		if err != nil {
			return err
		}
		if pc == prevPC {
			return ErrNoProgress
		}
		rel = pc - e.loadAddress

		le, ok := e.dw.LineEntryForPC(rel)
		if !ok {
			if confirm != nil && confirm() {
				if err := e.restoreSnapshot(snap); err != nil {
					return err
				}
				return e.StepOver(nil)
			}
			return nil
		}

		if le.Line == trackedLine {
			continue
		}

		fn, ok := e.dw.FunctionForPCOffset(rel)
		if ok && fn.Offset == trackedFn.Offset {
			return nil
		}

		// stepped into a different user function: keep going, tracking
		// its line instead, until it too settles or returns.
		trackedLine = le.Line
		if ok {
			trackedFn = fn
		}
	}
}
