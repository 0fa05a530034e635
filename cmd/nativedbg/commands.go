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

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/msashank910/PeekLinuxDebugger/registers"
	"github.com/msashank910/PeekLinuxDebugger/symbols"
	"github.com/msashank910/PeekLinuxDebugger/tracee"
)

// command is one row of spec.md §6's command table: the front-end binds
// each name to a tracee.Session method, mirroring original_source/'s
// src/command.cpp dispatch table one-for-one.
type command struct {
	name string
	run  func(s *tracee.Session, args []string) (string, error)
}

var commandTable = []command{
	{"continue", cmdContinue},
	{"break", cmdBreak},
	{"break_enable", cmdBreakEnable},
	{"break_disable", cmdBreakDisable},
	{"dump_breakpoints", cmdDumpBreakpoints},
	{"single_step", cmdSingleStep},
	{"step_in", cmdStepIn},
	{"step_over", cmdStepOver},
	{"step_out", cmdStepOut},
	{"skip", cmdSkip},
	{"jump", cmdJump},
	{"pid", cmdPid},
	{"register_read", cmdRegisterRead},
	{"register_write", cmdRegisterWrite},
	{"dump_registers", cmdDumpRegisters},
	{"read_memory", cmdReadMemory},
	{"write_memory", cmdWriteMemory},
	{"set_context", cmdSetContext},
	{"symbol_lookup", cmdSymbolLookup},
	{"set_cache_max", cmdSetCacheMax},
	{"set_symbol_min", cmdSetSymbolMin},
	{"clear_symbol_cache", cmdClearSymbolCache},
	{"program_counter", cmdProgramCounter},
	{"chunk", cmdChunk},
	{"dump_chunks", cmdDumpChunks},
	{"dump_symbols", cmdDumpSymbols},
	{"dump_functions", cmdDumpFunctions},
	{"backtrace", cmdBacktrace},
	{"quit", cmdQuit},
}

// dispatch resolves a bare command name against commandTable. The line
// editor/history/help-text that would normally surround this lookup is
// out of scope per spec.md §1.
func dispatch(name string) (func(s *tracee.Session, args []string) (string, error), bool) {
	for _, c := range commandTable {
		if c.name == name {
			return c.run, true
		}
	}
	return nil, false
}

func cmdContinue(s *tracee.Session, args []string) (string, error) {
	state, err := s.Continue()
	if err != nil {
		return "", err
	}
	return state.String(), nil
}

func cmdBreak(s *tracee.Session, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: break <addr|*reladdr|file:line|function>")
	}
	h, inserted, err := s.Break(args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("breakpoint at %#x (inserted=%v)", uint64(h), inserted), nil
}

func parseHexArg(args []string, i int) (uint64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing address argument")
	}
	text := args[i]
	if !strings.HasPrefix(text, "0x") && !strings.HasPrefix(text, "0X") {
		return 0, fmt.Errorf("malformed address: %s", text)
	}
	return strconv.ParseUint(text[2:], 16, 64)
}

func cmdBreakEnable(s *tracee.Session, args []string) (string, error) {
	addr, err := parseHexArg(args, 0)
	if err != nil {
		return "", err
	}
	if err := s.BreakEnable(addr); err != nil {
		return "", err
	}
	return "enabled", nil
}

func cmdBreakDisable(s *tracee.Session, args []string) (string, error) {
	addr, err := parseHexArg(args, 0)
	if err != nil {
		return "", err
	}
	if err := s.BreakDisable(addr); err != nil {
		return "", err
	}
	return "disabled", nil
}

func cmdDumpBreakpoints(s *tracee.Session, args []string) (string, error) {
	var b strings.Builder
	for _, e := range s.DumpBreakpoints() {
		fmt.Fprintf(&b, "%-12s %#x (%#x) enabled=%v\n", e.Label, e.Absolute, e.Relative, e.Enabled)
	}
	return b.String(), nil
}

func cmdSingleStep(s *tracee.Session, args []string) (string, error) {
	return "", s.SingleStep()
}

func cmdStepIn(s *tracee.Session, args []string) (string, error) {
	return "", s.StepIn()
}

func cmdStepOver(s *tracee.Session, args []string) (string, error) {
	return "", s.StepOver()
}

func cmdStepOut(s *tracee.Session, args []string) (string, error) {
	return "", s.StepOut()
}

func cmdSkip(s *tracee.Session, args []string) (string, error) {
	n := int64(1)
	if len(args) > 0 {
		v, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return "", fmt.Errorf("malformed byte count: %s", args[0])
		}
		n = v
	}
	return "", s.Skip(n)
}

func cmdJump(s *tracee.Session, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: jump <addr|*reladdr>")
	}
	addr, err := s.ParseAddress(args[0])
	if err != nil {
		return "", err
	}
	return "", s.Jump(addr)
}

func cmdPid(s *tracee.Session, args []string) (string, error) {
	return strconv.Itoa(s.Pid), nil
}

func cmdRegisterRead(s *tracee.Session, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: register_read <name>")
	}
	v, err := s.RegisterRead(args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%#x", v), nil
}

func cmdRegisterWrite(s *tracee.Session, args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("usage: register_write <name> <value>")
	}
	v, err := parseHexArg(args, 1)
	if err != nil {
		return "", err
	}
	if err := s.RegisterWrite(args[0], v); err != nil {
		return "", err
	}
	return "ok", nil
}

func cmdDumpRegisters(s *tracee.Session, args []string) (string, error) {
	set, err := s.DumpRegisters()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, r := range registers.All() {
		fmt.Fprintf(&b, "%-9s %#016x\n", registers.Name(r), set.Get(r))
	}
	return b.String(), nil
}

func cmdReadMemory(s *tracee.Session, args []string) (string, error) {
	addr, err := parseHexArg(args, 0)
	if err != nil {
		return "", err
	}
	v, err := s.ReadMemory(addr)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%#016x", v), nil
}

func cmdWriteMemory(s *tracee.Session, args []string) (string, error) {
	addr, err := parseHexArg(args, 0)
	if err != nil {
		return "", err
	}
	word, err := parseHexArg(args, 1)
	if err != nil {
		return "", err
	}
	if err := s.WriteMemory(addr, word); err != nil {
		return "", err
	}
	return "ok", nil
}

func cmdSetContext(s *tracee.Session, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: set_context <1..255>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "", fmt.Errorf("malformed context line count: %s", args[0])
	}
	if err := s.SetContext(n); err != nil {
		return "", err
	}
	return "ok", nil
}

func cmdSymbolLookup(s *tracee.Session, args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("usage: symbol_lookup <name> [strict]")
	}
	strict := len(args) > 1 && args[1] == "strict"
	return formatSymbols(s.SymbolLookup(args[0], strict)), nil
}

func formatSymbols(syms []symbols.Symbol) string {
	var b strings.Builder
	for _, sym := range syms {
		fmt.Fprintf(&b, "%#016x %s\n", sym.Value, sym.Name)
	}
	return b.String()
}

func cmdSetCacheMax(s *tracee.Session, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: set_cache_max <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "", fmt.Errorf("malformed count: %s", args[0])
	}
	s.SetCacheMax(n)
	return "ok", nil
}

func cmdSetSymbolMin(s *tracee.Session, args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("usage: set_symbol_min <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return "", fmt.Errorf("malformed length: %s", args[0])
	}
	s.SetSymbolMin(n)
	return "ok", nil
}

func cmdClearSymbolCache(s *tracee.Session, args []string) (string, error) {
	s.ClearSymbolCache()
	return "ok", nil
}

func cmdProgramCounter(s *tracee.Session, args []string) (string, error) {
	pc, err := s.ProgramCounter()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%#x", pc), nil
}

func cmdChunk(s *tracee.Session, args []string) (string, error) {
	addr, err := parseHexArg(args, 0)
	if err != nil {
		return "", err
	}
	c, ok := s.Chunk(addr)
	if !ok {
		return "", fmt.Errorf("no chunk contains %#x", addr)
	}
	return fmt.Sprintf("%#x-%#x %s %s", c.Low, c.High, c.Kind, c.Pathname), nil
}

func cmdDumpChunks(s *tracee.Session, args []string) (string, error) {
	var b strings.Builder
	for _, c := range s.DumpChunks() {
		fmt.Fprintf(&b, "%#x-%#x %s %s\n", c.Low, c.High, c.Kind, c.Pathname)
	}
	return b.String(), nil
}

func cmdDumpSymbols(s *tracee.Session, args []string) (string, error) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return formatSymbols(s.DumpSymbols(name)), nil
}

func cmdDumpFunctions(s *tracee.Session, args []string) (string, error) {
	relative := len(args) > 0 && args[0] == "init"
	var b strings.Builder
	for _, f := range s.DumpFunctions(relative) {
		fmt.Fprintf(&b, "%-32s %#x (%#x)\n", f.Name, f.Absolute, f.Relative)
	}
	return b.String(), nil
}

func cmdBacktrace(s *tracee.Session, args []string) (string, error) {
	frames, err := s.Backtrace()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i, f := range frames {
		fmt.Fprintf(&b, "#%-3d pc=%#016x rbp=%#016x\n", i, f.PC, f.RBP)
	}
	return b.String(), nil
}

func cmdQuit(s *tracee.Session, args []string) (string, error) {
	force := len(args) > 0 && args[0] == "force"
	return "", s.Quit(force)
}
