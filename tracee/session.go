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
	"debug/dwarf"
	"debug/elf"

	"github.com/msashank910/PeekLinuxDebugger/breakpoint"
	"github.com/msashank910/PeekLinuxDebugger/curated"
	"github.com/msashank910/PeekLinuxDebugger/dwarfidx"
	"github.com/msashank910/PeekLinuxDebugger/logger"
	"github.com/msashank910/PeekLinuxDebugger/memio"
	"github.com/msashank910/PeekLinuxDebugger/procmap"
	"github.com/msashank910/PeekLinuxDebugger/registers"
	"github.com/msashank910/PeekLinuxDebugger/source"
	"github.com/msashank910/PeekLinuxDebugger/stepengine"
	"github.com/msashank910/PeekLinuxDebugger/symbols"
	"github.com/msashank910/PeekLinuxDebugger/variables"
)

var (
	ErrAlreadyInitialized    = curated.Errorf("session is already initialized")
	ErrNotInitialized        = curated.Errorf("session has not been initialized")
	ErrInvalidDWARFRegister  = curated.Errorf("no register maps to that DWARF number")
	ErrNoFrame               = curated.Errorf("no current function for the program counter")
)

// Prompter is every place the control core needs to ask the terminal a
// question mid-session: it satisfies breakpoint.Prompter structurally
// (Confirm, Choose) and adds PressEnter, the single pause cleanup gives the
// user before detaching or killing the tracee.
type Prompter interface {
	Confirm(question string) bool
	Choose(candidates []breakpoint.Candidate) (index int, ok bool)
	PressEnter()
}

// Session owns one ptrace'd child end to end: its memory map, symbol and
// DWARF indices, breakpoint manager, step engine, and the current State.
type Session struct {
	Pid      int
	ExecPath string
	Opts     Options
	Prompt   Prompter

	State       State
	LoadAddress uint64

	Maps    *procmap.Map
	Symbols *symbols.Index
	DWARF   *dwarfidx.Index
	dwData  *dwarf.Data
	elf     *elf.File

	Mem    *memio.IO
	Regs   *registers.Gateway
	BPs    *breakpoint.Manager
	Step   *stepengine.Engine
	Source *source.Printer
	Vars   *variables.Inspector
	tracer ControlTracer

	initialized      bool
	mainReturn       breakpoint.Handle
	mainReturnExists bool
}

// New constructs a Session for a pid that has already been ptrace-attached
// (or is the freshly-forked, stopped child of a PTRACE_TRACEME launch).
// Call Initialize before driving it.
func New(pid int, execPath string, opts Options, prompt Prompter) *Session {
	return &Session{
		Pid:      pid,
		ExecPath: execPath,
		Opts:     opts,
		Prompt:   prompt,
		State:    Running,
		Maps:     procmap.New(pid, execPath),
		Mem:      memio.New(pid),
		Regs:     registers.NewGateway(pid),
		Source:   source.New(),
		tracer:   SystemControlTracer{},
	}
}

// WithTracer overrides the default ptrace-backed ControlTracer. Only tests
// should call this.
func (s *Session) WithTracer(t ControlTracer) *Session {
	s.tracer = t
	return s
}

func logf(category, format string, a ...interface{}) {
	logger.Logf(category, format, a...)
}
