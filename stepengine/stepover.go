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
	"github.com/msashank910/PeekLinuxDebugger/breakpoint"
	"github.com/msashank910/PeekLinuxDebugger/curated"
	"github.com/msashank910/PeekLinuxDebugger/registers"
)

type tempBreakpoint struct {
	addr         uint64
	preExisted   bool
	wasEnabled   bool
}

// StepOver runs the tracee until it reaches the next source line within
// the current function, stepping over any calls the current line makes.
// It escalates to stepIn when the current PC resolves to no user function,
// no line entry, or the frame can't be read.
func (e *Engine) StepOver(stepIn func() error) error {
	pc, err := e.regs.Read(registers.Rip)
	if err != nil {
		return err
	}
	rel := pc - e.loadAddress

	fn, ok := e.dw.FunctionForPCOffset(rel)
	if !ok {
		if stepIn != nil {
			return stepIn()
		}
		return curated.Errorf("step_over: pc %#x resolves to no user function", pc)
	}

	startLine, ok := e.dw.LineEntryForPC(rel)
	if !ok {
		if stepIn != nil {
			return stepIn()
		}
		return curated.Errorf("step_over: pc %#x resolves to no line entry", pc)
	}

	retAddr, err := e.returnAddress()
	if err != nil {
		if stepIn != nil {
			return stepIn()
		}
		return curated.Errorf("%w", ErrUnreadableFrame)
	}

	var temps []tempBreakpoint
	seen := make(map[uint64]bool)

	install := func(addr uint64) {
		if seen[addr] {
			return
		}
		seen[addr] = true
		if bp, existed := e.bps.Get(addr); existed {
			temps = append(temps, tempBreakpoint{addr: addr, preExisted: true, wasEnabled: bp.Enabled})
			if !bp.Enabled {
				_ = bp.Enable(e.mem)
			}
			return
		}
		if _, _, err := e.bps.SetAtAddress(addr); err == nil {
			temps = append(temps, tempBreakpoint{addr: addr})
		}
	}

	for _, le := range e.dw.LinesInFunction(fn) {
		if !le.IsStmt || le.Address == rel || le.Line == startLine.Line {
			continue
		}
		install(le.Address + e.loadAddress)
	}
	install(retAddr)

	runErr := e.resumeAndWait()

	for _, t := range temps {
		if !t.preExisted {
			_ = e.bps.Remove(breakpoint.Handle(t.addr))
			continue
		}
		if !t.wasEnabled {
			if bp, ok := e.bps.Get(t.addr); ok {
				_ = bp.Disable(e.mem)
			}
		}
	}

	return runErr
}
