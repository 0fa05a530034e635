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

package tracee

import (
	"debug/elf"

	"golang.org/x/sys/unix"

	"github.com/msashank910/PeekLinuxDebugger/breakpoint"
	"github.com/msashank910/PeekLinuxDebugger/curated"
	"github.com/msashank910/PeekLinuxDebugger/dwarfidx"
	"github.com/msashank910/PeekLinuxDebugger/procmap"
	"github.com/msashank910/PeekLinuxDebugger/registers"
	"github.com/msashank910/PeekLinuxDebugger/stepengine"
	"github.com/msashank910/PeekLinuxDebugger/symbols"
	"github.com/msashank910/PeekLinuxDebugger/variables"
)

// Initialize loads the tracee's ELF and DWARF data, builds its memory map,
// symbol and DWARF indices, and runs the tracee up to its first
// instruction inside main past the prologue, then installs the persistent
// return-from-main breakpoint at main's return address. Spec.md §4.10
// "initialize".
func (s *Session) Initialize() error {
	if s.initialized {
		return ErrAlreadyInitialized
	}

	if err := s.Maps.Reload(); err != nil {
		return err
	}
	s.LoadAddress = loadAddressOf(s.Maps.Chunks())

	ef, err := elf.Open(s.ExecPath)
	if err != nil {
		return curated.Errorf("opening ELF image %s: %w", s.ExecPath, err)
	}
	s.elf = ef

	dwData, err := ef.DWARF()
	if err != nil {
		return curated.Errorf("reading DWARF data from %s: %w", s.ExecPath, err)
	}
	s.dwData = dwData

	s.Symbols = symbols.New(ef, s.LoadAddress, s.Opts.Demangle)
	s.Symbols.Configure(s.Opts.SymbolCacheMaxSize, s.Opts.SymbolMinCachedKeyLength)

	idx, err := dwarfidx.Build(dwData)
	if err != nil {
		return err
	}
	s.DWARF = idx

	s.BPs = breakpoint.NewManager(s.Mem, s.Maps, s.DWARF, s.Symbols, s.LoadAddress, s.Prompt)
	s.Step = stepengine.New(s.Pid, s.tracer, s.Regs, s.Mem, s.BPs, s.DWARF, s.Maps, s.LoadAddress, stepengine.DefaultStepInStackBytes)
	s.Vars = variables.New(dwData, capability{s})

	mainBP, _, err := s.BPs.SetAtFunction("main")
	if err != nil {
		return curated.Errorf("setting entry breakpoint at main: %w", err)
	}

	if err := s.ContinueExecution(); err != nil {
		return err
	}

	if err := s.BPs.Remove(mainBP); err != nil {
		return curated.Errorf("removing entry breakpoint: %w", err)
	}

	rbp, err := s.Regs.Read(registers.Rbp)
	if err != nil {
		return curated.Errorf("reading rbp to locate main's return address: %w", err)
	}
	retAddr, err := s.Mem.Read(rbp + 8)
	if err != nil {
		return curated.Errorf("reading main's return address: %w", err)
	}

	h, _, err := s.BPs.MarkMainReturn(retAddr)
	if err != nil {
		return curated.Errorf("installing return-from-main breakpoint: %w", err)
	}
	s.mainReturn = h
	s.mainReturnExists = true

	s.initialized = true
	return nil
}

// loadAddressOf returns the lowest low address among the chunks classified
// as the main executable image, or 0 if none were found (a non-PIE
// executable, spec.md's glossary "Load address").
func loadAddressOf(chunks []procmap.Chunk) uint64 {
	var (
		min   uint64
		found bool
	)
	for _, c := range chunks {
		if c.Kind != procmap.KindExec {
			continue
		}
		if !found || c.Low < min {
			min = c.Low
			found = true
		}
	}
	return min
}

// ContinueExecution steps over any breakpoint currently under the PC,
// resumes the tracee, and blocks until its next reported stop. Spec.md
// §4.10 "continue_execution".
func (s *Session) ContinueExecution() error {
	if err := s.Step.StepOverBP(); err != nil {
		return curated.Errorf("stepping over the current breakpoint: %w", err)
	}
	if err := s.tracer.Cont(s.Pid, 0); err != nil {
		return curated.Errorf("ptrace cont: %w", err)
	}
	return s.WaitForSignal()
}

// WaitForSignal blocks on the kernel's wait primitive, classifies the
// result, reloads the memory map, and dispatches on the reported signal.
// Spec.md §4.10 "wait_for_signal".
func (s *Session) WaitForSignal() error {
	ws, err := s.tracer.Wait(s.Pid)
	if err != nil {
		return curated.Errorf("waiting for tracee: %w", err)
	}

	if ws.Exited() {
		s.State = Terminated
		logf("wait", "tracee exited with status %d", ws.ExitStatus())
		return nil
	}
	if ws.Signaled() {
		s.State = Crashed
		logf("wait", "tracee was killed by signal %v", ws.Signal())
		return nil
	}

	if s.Maps.Initialized() && s.State.Executing() {
		if err := s.Maps.Reload(); err != nil {
			return err
		}
	}

	sig := ws.StopSignal()
	info, err := s.tracer.GetSiginfo(s.Pid)
	if err != nil {
		return curated.Errorf("fetching signal info: %w", err)
	}

	switch sig {
	case unix.SIGTRAP:
		return s.onSigtrap(info)
	case unix.SIGSEGV:
		logf("sigsegv", "tracee faulted (code=%d)", info.Code)
		s.State = transition(s.State, Faulting)
	case unix.SIGWINCH:
		// the front-end masks SIGWINCH at the process level (spec.md §5);
		// this branch is defensive only.
	default:
		logf("signal", "unhandled stop signal %v (code=%d)", sig, info.Code)
	}
	return nil
}

// onSigtrap implements spec.md §4.10's handle_sigtrap plus the
// main-return and faulting-recovery transitions layered on top of it in
// wait_for_signal's SIGTRAP branch.
func (s *Session) onSigtrap(info SignalInfo) error {
	if err := s.handleSigtrapCode(info); err != nil {
		return err
	}

	mainHit := false
	if s.mainReturnExists {
		if pc, err := s.Regs.Read(registers.Rip); err == nil && pc == uint64(s.mainReturn) {
			mainHit = true
		}
	}

	switch {
	case mainHit && s.State == Running:
		s.State = transition(s.State, Finish)
	case mainHit && s.State == Faulting:
		s.State = transition(s.State, ForceDetach)
	case s.State == Faulting:
		s.State = transition(s.State, Running)
	}
	return nil
}

// handleSigtrapCode decrements rip by one when the trap was a software
// breakpoint (the CPU advances past the 0xCC byte before delivering
// SIGTRAP; the breakpoint lives at rip-1) and is a no-op for every other
// trap cause, per spec.md §4.10.
func (s *Session) handleSigtrapCode(info SignalInfo) error {
	switch info.Code {
	case unix.SI_KERNEL, unix.TRAP_BRKPT:
		pc, err := s.Regs.Read(registers.Rip)
		if err != nil {
			return err
		}
		return s.Regs.Write(registers.Rip, pc-1)
	case 0, unix.TRAP_TRACE:
		return nil
	default:
		logf("sigtrap", "unhandled trap code %d", info.Code)
		return nil
	}
}

// needsCleanup reports whether s.State is one of the terminating states
// that Cleanup must run for before the session can end.
func (s *Session) needsCleanup() bool {
	switch s.State {
	case Detach, ForceDetach, Finish, Kill:
		return true
	}
	return false
}

// Cleanup disables every breakpoint, pauses for the user to observe final
// state, then detaches or kills the tracee according to the current
// state. Spec.md §4.10 "cleanup".
func (s *Session) Cleanup() error {
	if err := s.BPs.DisableAll(); err != nil {
		return err
	}
	if s.Prompt != nil {
		s.Prompt.PressEnter()
	}

	switch s.State {
	case Detach, Finish:
		if s.Prompt != nil && s.Prompt.Confirm("kill the tracee instead of detaching?") {
			s.State = Kill
			return s.killTracee()
		}
		return s.detachTracee()
	case ForceDetach:
		return s.detachTracee()
	case Kill:
		return s.killTracee()
	}
	return nil
}

func (s *Session) detachTracee() error {
	if err := s.tracer.Detach(s.Pid); err != nil {
		return curated.Errorf("detaching from tracee: %w", err)
	}
	return nil
}

func (s *Session) killTracee() error {
	if err := s.tracer.Kill(s.Pid); err != nil {
		return curated.Errorf("killing tracee: %w", err)
	}
	return nil
}
