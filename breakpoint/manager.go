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

package breakpoint

import (
	"sort"
	"strconv"

	"github.com/msashank910/PeekLinuxDebugger/curated"
	"github.com/msashank910/PeekLinuxDebugger/dwarfidx"
	"github.com/msashank910/PeekLinuxDebugger/procmap"
	"github.com/msashank910/PeekLinuxDebugger/symbols"
)

var (
	ErrNoSuchFunction    = curated.Errorf("no function with that name")
	ErrNoSuchLine        = curated.Errorf("no line-table entry for that file and line")
	ErrUnmappedAddress   = curated.Errorf("address is not mapped into an executable region")
	ErrChoiceAborted     = curated.Errorf("disambiguation aborted by user")
	ErrRemovalNotConfirmed = curated.Errorf("removal of the return-from-main breakpoint was not confirmed")
	ErrNoSuchBreakpoint  = curated.Errorf("no breakpoint at that address")
)

// Handle identifies one managed breakpoint by its absolute address. Spec.md
// §9's redesign note: the manager tracks the "return-from-main" sentinel by
// address plus a boolean flag, never by pointer.
type Handle uint64

// Candidate is one disambiguation choice offered to the user when a
// function name or source line resolves to more than one address.
type Candidate struct {
	Address   uint64
	Signature string
	File      string
	Line      int
}

// Prompter is how the manager asks the terminal for user input mid-command.
// A real implementation reads a line from stdin; tests supply a fake that
// returns canned answers.
type Prompter interface {
	// Confirm asks a yes/no question and returns the answer.
	Confirm(question string) bool
	// Choose presents candidates and returns the chosen index, or
	// ok == false if the user aborted.
	Choose(candidates []Candidate) (index int, ok bool)
}

type entry struct {
	bp       *Breakpoint
	sentinel bool
}

// Manager owns every installed breakpoint, keyed by absolute address.
type Manager struct {
	mem         Memory
	pm          *procmap.Map
	dw          *dwarfidx.Index
	sym         *symbols.Index
	loadAddress uint64
	prompt      Prompter

	order  []uint64 // insertion order, for stable Dump indexing
	byAddr map[uint64]*entry
}

// NewManager constructs a Manager. pm, dw and sym must already be
// populated; loadAddress is the image's relocation base (0 for a
// non-PIE binary).
func NewManager(mem Memory, pm *procmap.Map, dw *dwarfidx.Index, sym *symbols.Index, loadAddress uint64, prompt Prompter) *Manager {
	return &Manager{
		mem:         mem,
		pm:          pm,
		dw:          dw,
		sym:         sym,
		loadAddress: loadAddress,
		prompt:      prompt,
		byAddr:      make(map[uint64]*entry),
	}
}

// SetAtAddress installs a breakpoint at an absolute address, rejecting
// addresses outside any mapped executable region. inserted is false when a
// breakpoint already existed there.
func (m *Manager) SetAtAddress(absAddr uint64) (Handle, bool, error) {
	chunk, ok := m.pm.ChunkContaining(absAddr)
	if !ok || !(chunk.Kind == procmap.KindExec || chunk.Perms.Exec) {
		return 0, false, curated.Errorf("%w: %#x", ErrUnmappedAddress, absAddr)
	}
	return m.insert(absAddr, false)
}

// MarkMainReturn is like SetAtAddress but flags the entry as the
// return-from-main sentinel, used only by tracee initialization. Unlike
// SetAtAddress it does not check absAddr against the memory map.
func (m *Manager) MarkMainReturn(absAddr uint64) (Handle, bool, error) {
	return m.insert(absAddr, true)
}

func (m *Manager) insert(absAddr uint64, sentinel bool) (Handle, bool, error) {
	if _, ok := m.byAddr[absAddr]; ok {
		return Handle(absAddr), false, nil
	}
	bp := New(absAddr)
	if err := bp.Enable(m.mem); err != nil {
		return 0, false, curated.Errorf("enabling breakpoint at %#x: %w", absAddr, err)
	}
	m.byAddr[absAddr] = &entry{bp: bp, sentinel: sentinel}
	m.order = append(m.order, absAddr)
	return Handle(absAddr), true, nil
}

// SetAtFunction resolves name to a breakpoint address: the second
// line-table entry at the function's low_pc (the first instruction past
// the prologue). If the name is ambiguous across compilation units, the
// user is prompted to choose.
func (m *Manager) SetAtFunction(name string) (Handle, bool, error) {
	funcs := m.dw.FunctionsNamed(name)
	if len(funcs) == 0 {
		return 0, false, curated.Errorf("%w: %s", ErrNoSuchFunction, name)
	}

	f := funcs[0]
	if len(funcs) > 1 {
		chosen, ok := m.choose(funcsToCandidates(m, funcs))
		if !ok {
			return 0, false, ErrChoiceAborted
		}
		f = funcs[chosen]
	}

	addr := m.afterPrologue(f)
	return m.SetAtAddress(addr)
}

// afterPrologue returns the address of the second ascending is_stmt
// line-table entry within f, or f.LowPC if there is no second entry.
// uniqueSortedAddrs drops non-is_stmt rows first, so this is the second
// is_stmt entry rather than strictly the line table's second entry at
// LowPC.
func (m *Manager) afterPrologue(f dwarfidx.Func) uint64 {
	lines := m.dw.LinesInFunction(f)
	addrs := uniqueSortedAddrs(lines)
	if len(addrs) >= 2 {
		return addrs[1]
	}
	return f.LowPC
}

// SetAtSourceLine resolves file:line to a breakpoint address via the DWARF
// line table, prompting to disambiguate when more than one address
// matches.
func (m *Manager) SetAtSourceLine(file string, line int) (Handle, bool, error) {
	lines := m.dw.LinesForFileAndLine(file, line)
	if len(lines) == 0 {
		return 0, false, curated.Errorf("%w: %s:%d", ErrNoSuchLine, file, line)
	}

	chosen := lines[0]
	if len(lines) > 1 {
		idx, ok := m.choose(linesToCandidates(m, lines))
		if !ok {
			return 0, false, ErrChoiceAborted
		}
		chosen = lines[idx]
	}

	return m.SetAtAddress(chosen.Address)
}

func (m *Manager) choose(candidates []Candidate) (int, bool) {
	if m.prompt == nil {
		return 0, true
	}
	return m.prompt.Choose(candidates)
}

// Remove disables and erases the breakpoint at h. Removing the
// return-from-main sentinel requires explicit confirmation via Prompter.
func (m *Manager) Remove(h Handle) error {
	addr := uint64(h)
	e, ok := m.byAddr[addr]
	if !ok {
		return curated.Errorf("%w: %#x", ErrNoSuchBreakpoint, addr)
	}
	if e.sentinel {
		if m.prompt == nil || !m.prompt.Confirm("remove the return-from-main breakpoint?") {
			return ErrRemovalNotConfirmed
		}
	}
	if err := e.bp.Disable(m.mem); err != nil {
		return curated.Errorf("disabling breakpoint at %#x: %w", addr, err)
	}
	delete(m.byAddr, addr)
	for i, a := range m.order {
		if a == addr {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the live Breakpoint installed at addr, if any. Used by the
// step engine to check whether the current PC sits on a breakpoint.
func (m *Manager) Get(addr uint64) (*Breakpoint, bool) {
	e, ok := m.byAddr[addr]
	if !ok {
		return nil, false
	}
	return e.bp, true
}

// DisableAll disables every managed breakpoint in place, leaving it
// tracked but inactive. Used by the control core's cleanup step
// (spec.md §4.10) before detaching or killing the tracee.
func (m *Manager) DisableAll() error {
	for _, addr := range m.order {
		e := m.byAddr[addr]
		if !e.bp.Enabled {
			continue
		}
		if err := e.bp.Disable(m.mem); err != nil {
			return curated.Errorf("disabling breakpoint at %#x: %w", addr, err)
		}
	}
	return nil
}

// DumpEntry is one row of Manager.Dump's listing.
type DumpEntry struct {
	Label    string
	Absolute uint64
	Relative uint64
	Enabled  bool
}

// Dump lists every managed breakpoint in insertion order, labelling the
// return-from-main sentinel distinctly.
func (m *Manager) Dump() []DumpEntry {
	out := make([]DumpEntry, 0, len(m.order))
	for i, addr := range m.order {
		e := m.byAddr[addr]
		label := indexLabel(i)
		if e.sentinel {
			label = "Main Return"
		}
		out = append(out, DumpEntry{
			Label:    label,
			Absolute: addr,
			Relative: addr - m.loadAddress,
			Enabled:  e.bp.Enabled,
		})
	}
	return out
}

func indexLabel(i int) string {
	return strconv.Itoa(i)
}

func uniqueSortedAddrs(lines []dwarfidx.LineEntry) []uint64 {
	seen := make(map[uint64]bool)
	var addrs []uint64
	for _, l := range lines {
		if !l.IsStmt || seen[l.Address] {
			continue
		}
		seen[l.Address] = true
		addrs = append(addrs, l.Address)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

func funcsToCandidates(m *Manager, funcs []dwarfidx.Func) []Candidate {
	out := make([]Candidate, 0, len(funcs))
	for _, f := range funcs {
		sig := f.Name
		if matches := m.sym.SymbolsMatching(f.Name, true); len(matches) > 0 {
			sig = matches[0].Name
		}
		file, line := "", 0
		if le, ok := m.dw.LineEntryForPC(f.LowPC); ok {
			file, line = le.File, le.Line
		}
		out = append(out, Candidate{Address: f.LowPC, Signature: sig, File: file, Line: line})
	}
	return out
}

func linesToCandidates(m *Manager, lines []dwarfidx.LineEntry) []Candidate {
	out := make([]Candidate, 0, len(lines))
	for _, l := range lines {
		sig := ""
		if f, ok := m.dw.FunctionForPCOffset(l.Address); ok {
			sig = f.Name
			if matches := m.sym.SymbolsMatching(f.Name, true); len(matches) > 0 {
				sig = matches[0].Name
			}
		}
		out = append(out, Candidate{Address: l.Address, Signature: sig, File: l.File, Line: l.Line})
	}
	return out
}
