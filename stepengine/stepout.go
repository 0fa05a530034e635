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
	"golang.org/x/sys/unix"

	"github.com/msashank910/PeekLinuxDebugger/curated"
	"github.com/msashank910/PeekLinuxDebugger/registers"
)

// StepOut runs the tracee until it returns from the current function. If
// the return address can't be read, it escalates to StepIn instead.
func (e *Engine) StepOut(stepIn func() error) error {
	retAddr, err := e.returnAddress()
	if err != nil {
		if stepIn != nil {
			return stepIn()
		}
		return curated.Errorf("%w", ErrUnreadableFrame)
	}
	return e.runOneShot(retAddr)
}

// runOneShot installs a temporary breakpoint at addr (or borrows the one
// already there), continues the tracee until it stops, then restores the
// breakpoint to whatever state it was in beforehand.
func (e *Engine) runOneShot(addr uint64) error {
	if bp, existed := e.bps.Get(addr); existed {
		wasEnabled := bp.Enabled
		if !wasEnabled {
			if err := bp.Enable(e.mem); err != nil {
				return curated.Errorf("enabling one-shot breakpoint at %#x: %w", addr, err)
			}
		}
		if err := e.resumeAndWait(); err != nil {
			return err
		}
		if !wasEnabled {
			if err := bp.Disable(e.mem); err != nil {
				return curated.Errorf("restoring breakpoint state at %#x: %w", addr, err)
			}
		}
		return nil
	}

	h, _, err := e.bps.SetAtAddress(addr)
	if err != nil {
		return curated.Errorf("installing one-shot breakpoint at %#x: %w", addr, err)
	}
	if err := e.resumeAndWait(); err != nil {
		_ = e.bps.Remove(h)
		return err
	}
	return e.bps.Remove(h)
}

// resumeAndWait continues the tracee past the current PC (stepping over a
// breakpoint there first, if any) and blocks until the next stop. A SIGTRAP
// stop here can only come from landing on one of our 0xCC temporaries (this
// path resumes via Cont, never SingleStep), so rip is rewound by one to
// undo the CPU's post-trap advance past the trap byte, mirroring
// wait_for_signal's handle_sigtrap (spec.md §4.10); tracee.WaitForSignal
// itself is unreachable here without an import cycle.
func (e *Engine) resumeAndWait() error {
	if err := e.StepOverBP(); err != nil {
		return err
	}
	if err := e.tracer.Cont(e.pid, 0); err != nil {
		return curated.Errorf("ptrace cont: %w", err)
	}
	ws, err := e.tracer.Wait(e.pid)
	if err != nil {
		return curated.Errorf("waiting after continue: %w", err)
	}
	if ws.Exited() || ws.Signaled() {
		return nil
	}
	if ws.StopSignal() == unix.SIGTRAP {
		pc, err := e.regs.Read(registers.Rip)
		if err != nil {
			return curated.Errorf("reading rip after continue: %w", err)
		}
		if err := e.regs.Write(registers.Rip, pc-1); err != nil {
			return curated.Errorf("rewinding rip past trap byte: %w", err)
		}
	}
	return nil
}
