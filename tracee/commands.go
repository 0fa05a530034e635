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
	"strconv"
	"strings"

	"github.com/msashank910/PeekLinuxDebugger/breakpoint"
	"github.com/msashank910/PeekLinuxDebugger/curated"
	"github.com/msashank910/PeekLinuxDebugger/procmap"
	"github.com/msashank910/PeekLinuxDebugger/registers"
	"github.com/msashank910/PeekLinuxDebugger/stepengine"
	"github.com/msashank910/PeekLinuxDebugger/symbols"
	"github.com/msashank910/PeekLinuxDebugger/variables"
)

// This file is the public command surface of spec.md §6: one method per
// command the front-end may issue. Address-grammar parsing (0xHEX,
// *0xHEX relative-to-load-address) lives here too, since the grammar
// itself is part of the external interface contract, not the line editor.

var (
	ErrContextOutOfRange   = curated.Errorf("context lines must be between 1 and 255")
	ErrUnknownRegisterName = curated.Errorf("unknown register name")
	ErrMalformedAddress    = curated.Errorf("malformed address")
	ErrNotExecuting        = curated.Errorf("tracee is not in an executing state")
)

// ParseAddress resolves the grammar of spec.md §6: "0xHEX" is absolute,
// "*0xHEX" is relative to the image's load address.
func (s *Session) ParseAddress(text string) (uint64, error) {
	relative := false
	if strings.HasPrefix(text, "*") {
		relative = true
		text = text[1:]
	}
	if !strings.HasPrefix(text, "0x") && !strings.HasPrefix(text, "0X") {
		return 0, curated.Errorf("%w: %s", ErrMalformedAddress, text)
	}
	v, err := strconv.ParseUint(text[2:], 16, 64)
	if err != nil {
		return 0, curated.Errorf("%w: %s", ErrMalformedAddress, text)
	}
	if relative {
		return v + s.LoadAddress, nil
	}
	return v, nil
}

// Break sets a breakpoint from one of spec.md §6's three forms: an
// address (already parsed via ParseAddress), "file:line", or a bare
// function name.
func (s *Session) Break(spec string) (breakpoint.Handle, bool, error) {
	if addr, err := s.ParseAddress(spec); err == nil {
		return s.BPs.SetAtAddress(addr)
	}
	if file, lineStr, ok := strings.Cut(spec, ":"); ok {
		if line, err := strconv.Atoi(lineStr); err == nil {
			return s.BPs.SetAtSourceLine(file, line)
		}
	}
	return s.BPs.SetAtFunction(spec)
}

// BreakEnable re-enables a disabled breakpoint at addr.
func (s *Session) BreakEnable(addr uint64) error {
	bp, ok := s.BPs.Get(addr)
	if !ok {
		return curated.Errorf("%w: %#x", breakpoint.ErrNoSuchBreakpoint, addr)
	}
	return bp.Enable(s.Mem)
}

// BreakDisable disables an enabled breakpoint at addr without removing it
// from the manager.
func (s *Session) BreakDisable(addr uint64) error {
	bp, ok := s.BPs.Get(addr)
	if !ok {
		return curated.Errorf("%w: %#x", breakpoint.ErrNoSuchBreakpoint, addr)
	}
	return bp.Disable(s.Mem)
}

// DumpBreakpoints lists every managed breakpoint. Spec.md §4.8 "dump".
func (s *Session) DumpBreakpoints() []breakpoint.DumpEntry {
	return s.BPs.Dump()
}

// SingleStep executes one machine instruction, stepping over an enabled
// breakpoint at the current PC transparently. When a disabled breakpoint
// is tracked at the current PC, no instruction executes.
func (s *Session) SingleStep() error {
	return s.Step.SingleStepBPCheck()
}

// StepIn, StepOver and StepOut drive the step engine with the
// no-DWARF-region confirmation and escalation callbacks wired to the
// session's Prompter.
func (s *Session) StepIn() error {
	if s.State != Running {
		return ErrNotExecuting
	}
	return s.Step.StepIn(s.confirmEnterNoDWARF)
}

func (s *Session) StepOver() error {
	if s.State != Running {
		return ErrNotExecuting
	}
	return s.Step.StepOver(func() error { return s.Step.StepIn(s.confirmEnterNoDWARF) })
}

func (s *Session) StepOut() error {
	if s.State != Running {
		return ErrNotExecuting
	}
	return s.Step.StepOut(func() error { return s.Step.StepIn(s.confirmEnterNoDWARF) })
}

func (s *Session) confirmEnterNoDWARF() bool {
	if s.Prompt == nil {
		return false
	}
	return s.Prompt.Confirm("stepped into a region with no debug information; revert and step over instead?")
}

// Skip adjusts rip by n bytes, warning the user first via the session's
// Prompter.
func (s *Session) Skip(n int64) error {
	return s.Step.Skip(n, func() bool {
		if s.Prompt == nil {
			return true
		}
		return s.Prompt.Confirm("skip bytes without executing them?")
	})
}

// Jump sets rip to addr, refusing unmapped targets.
func (s *Session) Jump(addr uint64) error {
	return s.Step.Jump(addr)
}

// Backtrace walks the rbp chain from the current frame.
func (s *Session) Backtrace() ([]stepengine.Frame, error) {
	return s.Step.Backtrace()
}

// RegisterRead returns the current value of the named register.
func (s *Session) RegisterRead(name string) (uint64, error) {
	r := registers.FromName(name)
	if r == registers.Invalid {
		return 0, curated.Errorf("%w: %s", ErrUnknownRegisterName, name)
	}
	return s.Regs.Read(r)
}

// RegisterWrite sets the named register to v, verifying the write.
func (s *Session) RegisterWrite(name string, v uint64) error {
	r := registers.FromName(name)
	if r == registers.Invalid {
		return curated.Errorf("%w: %s", ErrUnknownRegisterName, name)
	}
	return s.Regs.Write(r, v)
}

// DumpRegisters returns every register's current value.
func (s *Session) DumpRegisters() (registers.Set, error) {
	return s.Regs.ReadAll()
}

// ReadMemory reads the word at addr.
func (s *Session) ReadMemory(addr uint64) (uint64, error) {
	return s.Mem.Read(addr)
}

// WriteMemory overwrites the word at addr.
func (s *Session) WriteMemory(addr, word uint64) error {
	return s.Mem.Write(addr, word)
}

// SetContext updates how many lines of source context PrintContext shows.
func (s *Session) SetContext(n int) error {
	if n < 1 || n > 255 {
		return ErrContextOutOfRange
	}
	s.Opts.ContextLines = n
	return nil
}

// ContextLines returns the current context-line setting.
func (s *Session) ContextLines() int {
	return s.Opts.ContextLines
}

// SymbolLookup resolves a substring or exact query against the symbol
// index.
func (s *Session) SymbolLookup(name string, strict bool) []symbols.Symbol {
	return s.Symbols.SymbolsMatching(name, strict)
}

// SetCacheMax reconfigures the symbol cache's maximum size.
func (s *Session) SetCacheMax(n int) {
	s.Opts.SymbolCacheMaxSize = n
	s.Symbols.Configure(s.Opts.SymbolCacheMaxSize, s.Opts.SymbolMinCachedKeyLength)
}

// SetSymbolMin reconfigures the shortest cacheable query length.
func (s *Session) SetSymbolMin(n int) {
	s.Opts.SymbolMinCachedKeyLength = n
	s.Symbols.Configure(s.Opts.SymbolCacheMaxSize, s.Opts.SymbolMinCachedKeyLength)
}

// ClearSymbolCache empties the symbol cache without changing its limits.
func (s *Session) ClearSymbolCache() {
	s.Symbols.ClearCache()
}

// ProgramCounter returns the tracee's current rip.
func (s *Session) ProgramCounter() (uint64, error) {
	return s.Regs.Read(registers.Rip)
}

// Chunk returns the memory chunk containing addr.
func (s *Session) Chunk(addr uint64) (procmap.Chunk, bool) {
	return s.Maps.ChunkContaining(addr)
}

// DumpChunks lists every chunk in the current memory map.
func (s *Session) DumpChunks() []procmap.Chunk {
	return s.Maps.Chunks()
}

// DumpSymbols lists every symbol matching name, or every collected symbol
// when name is empty.
func (s *Session) DumpSymbols(name string) []symbols.Symbol {
	if name == "" {
		return s.Symbols.AllSymbols()
	}
	return s.Symbols.SymbolsMatching(name, false)
}

// FunctionEntry is one row of DumpFunctions' listing.
type FunctionEntry struct {
	Name     string
	Absolute uint64
	Relative uint64
}

// DumpFunctions lists every indexed user function. FunctionEntry always
// carries both the absolute and the relative address; the relative flag
// does not change the result.
func (s *Session) DumpFunctions(relative bool) []FunctionEntry {
	funcs := s.DWARF.AllFunctions()
	out := make([]FunctionEntry, 0, len(funcs))
	for _, f := range funcs {
		out = append(out, FunctionEntry{
			Name:     f.Name,
			Absolute: f.LowPC + s.LoadAddress,
			Relative: f.LowPC,
		})
	}
	_ = relative
	return out
}

// Variables lists the live variables of the function enclosing the
// current PC, each already described as it would be printed.
func (s *Session) Variables() ([]string, error) {
	pc, err := s.Regs.Read(registers.Rip)
	if err != nil {
		return nil, err
	}
	fn, ok := s.DWARF.FunctionForPCOffset(pc - s.LoadAddress)
	if !ok {
		return nil, ErrNoFrame
	}
	vars, err := s.Vars.Variables(fn)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(vars))
	for _, v := range vars {
		desc, err := variables.Describe(v, s.Mem)
		if err != nil {
			continue
		}
		out = append(out, desc)
	}
	return out, nil
}

// Quit implements spec.md §4.10's quit transitions: running moves to
// detach, faulting moves to force_detach; force skips straight to kill.
// Cleanup always runs before Quit returns.
func (s *Session) Quit(force bool) error {
	switch s.State {
	case Running:
		s.State = transition(s.State, Detach)
	case Faulting:
		s.State = transition(s.State, ForceDetach)
	}
	if force {
		s.State = Kill
	}
	return s.Cleanup()
}

// Continue resumes the tracee and, if the resulting state requires it,
// runs cleanup immediately afterward.
func (s *Session) Continue() (State, error) {
	if err := s.ContinueExecution(); err != nil {
		return s.State, err
	}
	if s.needsCleanup() {
		if err := s.Cleanup(); err != nil {
			return s.State, err
		}
	}
	return s.State, nil
}
