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

package dwarfidx

import (
	"debug/dwarf"
	"strings"
)

// FunctionForPCOffset returns the indexed subprogram DIE whose PC range
// contains pc (already offset by the load address, ie. the value actually
// found in DWARF), or false if none matches. Spec.md §4.6.
func (idx *Index) FunctionForPCOffset(pc uint64) (Func, bool) {
	for _, cu := range idx.cus {
		if !cu.containsPC(pc) {
			continue
		}
		for _, f := range cu.funcs {
			if f.Contains(pc) {
				return f, true
			}
		}
	}
	return Func{}, false
}

// FunctionsNamed returns every indexed subprogram DIE whose name equals
// name exactly, across every compilation unit (used to disambiguate
// break-at-function when a name is defined in more than one file).
func (idx *Index) FunctionsNamed(name string) []Func {
	var out []Func
	for _, cu := range idx.cus {
		for _, f := range cu.funcs {
			if f.Name == name {
				out = append(out, f)
			}
		}
	}
	return out
}

// AllFunctions returns every indexed subprogram DIE across every
// compilation unit, in CU traversal order. Used by the dump_functions
// front-end command.
func (idx *Index) AllFunctions() []Func {
	var out []Func
	for _, cu := range idx.cus {
		out = append(out, cu.funcs...)
	}
	return out
}

// LineEntry is a copy of the debug/dwarf line-table row this package
// reports, with File holding the name of the row's own file entry as a
// plain string rather than a *dwarf.LineFile.
type LineEntry struct {
	Address uint64
	File    string
	Line    int
	IsStmt  bool
}

// LineEntryForPC scans every compilation unit's line table and returns the
// first entry whose address matches pc via the table's own seek, or false
// if pc maps to no line. Spec.md §4.6.
func (idx *Index) LineEntryForPC(pc uint64) (LineEntry, bool) {
	for _, cu := range idx.cus {
		lr, err := idx.data.LineReader(idx.rootEntry(cu))
		if err != nil || lr == nil {
			continue
		}
		var e dwarf.LineEntry
		if err := lr.SeekPC(pc, &e); err != nil {
			continue
		}
		return toLineEntry(e), true
	}
	return LineEntry{}, false
}

// LinesForFileAndLine collects every is_stmt line-table entry across every
// compilation unit whose source line equals line and whose compilation
// unit's root filename tail-matches file (spec.md §4.8's
// set_at_source_line and §4.9's step_over use the same matching rule).
func (idx *Index) LinesForFileAndLine(file string, line int) []LineEntry {
	var out []LineEntry
	for _, cu := range idx.cus {
		if !fileTailMatches(cu.name, file) {
			continue
		}
		out = append(out, idx.linesInCU(cu, func(e dwarf.LineEntry) bool {
			return e.Line == line && e.IsStmt
		})...)
	}
	return out
}

// LinesInFunction returns every line-table entry whose address falls
// within [f.LowPC, f.HighPC), in ascending address order, used by
// step_over (spec.md §4.9) to enumerate statement boundaries.
func (idx *Index) LinesInFunction(f Func) []LineEntry {
	for _, cu := range idx.cus {
		for _, fn := range cu.funcs {
			if fn.Offset == f.Offset {
				return idx.linesInCU(cu, func(e dwarf.LineEntry) bool {
					return e.Address >= f.LowPC && e.Address < f.HighPC
				})
			}
		}
	}
	return nil
}

func (idx *Index) linesInCU(cu *compUnit, keep func(dwarf.LineEntry) bool) []LineEntry {
	lr, err := idx.data.LineReader(idx.rootEntry(cu))
	if err != nil || lr == nil {
		return nil
	}
	var out []LineEntry
	var e dwarf.LineEntry
	for {
		if err := lr.Next(&e); err != nil {
			break
		}
		if keep(e) {
			out = append(out, toLineEntry(e))
		}
	}
	return out
}

// rootEntry re-reads the CU root DIE at its known offset, which is what
// debug/dwarf.Data.LineReader requires as an argument.
func (idx *Index) rootEntry(cu *compUnit) *dwarf.Entry {
	r := idx.data.Reader()
	r.Seek(cu.offset)
	e, err := r.Next()
	if err != nil {
		return nil
	}
	return e
}

func toLineEntry(e dwarf.LineEntry) LineEntry {
	name := ""
	if e.File != nil {
		name = e.File.Name
	}
	return LineEntry{Address: e.Address, File: name, Line: e.Line, IsStmt: e.IsStmt}
}

// fileTailMatches reports whether candidate (a compilation unit's root
// filename) ends with query, matching on path element boundaries so
// "main.cpp" matches both "main.cpp" and "/home/user/src/main.cpp" but not
// "domain.cpp".
func fileTailMatches(candidate, query string) bool {
	if candidate == query {
		return true
	}
	return strings.HasSuffix(candidate, "/"+query)
}
