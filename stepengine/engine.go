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
	"github.com/msashank910/PeekLinuxDebugger/dwarfidx"
	"github.com/msashank910/PeekLinuxDebugger/procmap"
	"github.com/msashank910/PeekLinuxDebugger/registers"
)

// DefaultStepInStackBytes is how much of the stack above rsp step_in
// snapshots before it starts probing unknown territory, per spec.md §4.9.
const DefaultStepInStackBytes = 64

var (
	ErrNoProgress          = curated.Errorf("single step made no progress")
	ErrUnreadableFrame     = curated.Errorf("frame pointer or return address is not readable")
	ErrUnmappedJumpTarget  = curated.Errorf("jump target is not mapped")
	ErrSkipNotConfirmed    = curated.Errorf("skip was not confirmed")
	ErrSkipVerifyMismatch  = curated.Errorf("skip verify-read mismatch")
	ErrRevertFailed        = curated.Errorf("reverting registers and stack after step_in failed")
)

// RegisterIO is the subset of *registers.Gateway the engine needs. It
// exists so tests can drive the engine without a live tracee; real callers
// pass a *registers.Gateway, which satisfies it structurally.
type RegisterIO interface {
	Read(r registers.Register) (uint64, error)
	Write(r registers.Register, v uint64) error
	ReadAll() (registers.Set, error)
	WriteAll(s registers.Set) error
}

// Engine drives one tracee's program counter forward.
type Engine struct {
	pid         int
	tracer      Tracer
	regs        RegisterIO
	mem         breakpoint.Memory
	bps         *breakpoint.Manager
	dw          *dwarfidx.Index
	pm          *procmap.Map
	loadAddress uint64
	stackBytes  int
}

// New constructs an Engine. stackBytes is how much stack step_in snapshots;
// callers pass DefaultStepInStackBytes unless configured otherwise.
func New(pid int, tracer Tracer, regs RegisterIO, mem breakpoint.Memory, bps *breakpoint.Manager, dw *dwarfidx.Index, pm *procmap.Map, loadAddress uint64, stackBytes int) *Engine {
	if stackBytes <= 0 {
		stackBytes = DefaultStepInStackBytes
	}
	return &Engine{
		pid:         pid,
		tracer:      tracer,
		regs:        regs,
		mem:         mem,
		bps:         bps,
		dw:          dw,
		pm:          pm,
		loadAddress: loadAddress,
		stackBytes:  stackBytes,
	}
}

// SingleStep executes exactly one machine instruction and blocks until the
// tracee reports the resulting stop.
func (e *Engine) SingleStep() error {
	if err := e.tracer.SingleStep(e.pid); err != nil {
		return curated.Errorf("ptrace single-step: %w", err)
	}
	if _, err := e.tracer.Wait(e.pid); err != nil {
		return curated.Errorf("waiting after single-step: %w", err)
	}
	return nil
}

// SingleStepBPCheck single-steps normally, unless the current PC has a
// tracked breakpoint, in which case it defers to StepOverBP. For a
// disabled breakpoint at PC, StepOverBP does nothing, so no instruction
// executes.
func (e *Engine) SingleStepBPCheck() error {
	pc, err := e.regs.Read(registers.Rip)
	if err != nil {
		return err
	}
	if _, ok := e.bps.Get(pc); ok {
		return e.StepOverBP()
	}
	return e.SingleStep()
}

// StepOverBP steps past the trap byte at the current PC if, and only if,
// there is an enabled breakpoint there: disable, single-step, re-enable.
func (e *Engine) StepOverBP() error {
	pc, err := e.regs.Read(registers.Rip)
	if err != nil {
		return err
	}
	bp, ok := e.bps.Get(pc)
	if !ok || !bp.Enabled {
		return nil
	}
	if err := bp.Disable(e.mem); err != nil {
		return curated.Errorf("disabling breakpoint before step: %w", err)
	}
	stepErr := e.SingleStep()
	if err := bp.Enable(e.mem); err != nil {
		return curated.Errorf("re-enabling breakpoint after step: %w", err)
	}
	return stepErr
}

func (e *Engine) readRBP() (uint64, error) {
	return e.regs.Read(registers.Rbp)
}

// returnAddress reads the caller's return address at [rbp+8].
func (e *Engine) returnAddress() (uint64, error) {
	rbp, err := e.readRBP()
	if err != nil {
		return 0, err
	}
	return e.mem.Read(rbp + 8)
}
