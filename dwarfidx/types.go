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

import "debug/dwarf"

// Func is one indexed subprogram DIE: a user function with both a name and
// a PC range, filtered from compiler/library internals.
type Func struct {
	Offset       dwarf.Offset
	Name         string
	LowPC, HighPC uint64
}

// Contains reports whether pc falls within [LowPC, HighPC).
func (f Func) Contains(pc uint64) bool {
	return pc >= f.LowPC && pc < f.HighPC
}

// compUnit is one compilation unit's root DIE plus its indexed functions.
type compUnit struct {
	offset   dwarf.Offset
	name     string // CU root's AttrName, typically the primary source file
	lowPC    uint64
	highPC   uint64
	hasRange bool
	funcs    []Func
}

func (cu *compUnit) containsPC(pc uint64) bool {
	if !cu.hasRange {
		// a CU without its own low_pc/high_pc covers an unknown range; be
		// conservative and let callers fall through to its functions.
		return true
	}
	return pc >= cu.lowPC && pc < cu.highPC
}
