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
	"unicode"

	"github.com/msashank910/PeekLinuxDebugger/curated"
)

// ErrNoUserFunctions is a fatal error: the DWARF index came up empty after
// filtering. Per spec.md §4.6 the debugger aborts initialization in this
// case.
var ErrNoUserFunctions = curated.Errorf("DWARF data contains no user functions")

// Index is the built PC→function and PC→line lookup structure over one
// debug/dwarf.Data image.
type Index struct {
	data *dwarf.Data
	cus  []*compUnit
}

// Build traverses every compilation unit's root DIE and indexes every
// subprogram DIE that has both a name and a PC range and whose name does
// not begin "__" or "_<Uppercase>" (compiler/library internals).
func Build(data *dwarf.Data) (*Index, error) {
	idx := &Index{data: data}

	r := data.Reader()
	var cur *compUnit

	for {
		entry, err := r.Next()
		if err != nil {
			return nil, curated.Errorf("reading DWARF entries: %w", err)
		}
		if entry == nil {
			break
		}

		switch entry.Tag {
		case dwarf.TagCompileUnit:
			cur = &compUnit{offset: entry.Offset}
			if name, ok := entry.Val(dwarf.AttrName).(string); ok {
				cur.name = name
			}
			if low, high, ok := pcRange(data, entry); ok {
				cur.lowPC, cur.highPC, cur.hasRange = low, high, true
			}
			idx.cus = append(idx.cus, cur)

		case dwarf.TagSubprogram:
			if cur == nil {
				continue
			}
			name, ok := entry.Val(dwarf.AttrName).(string)
			if !ok || name == "" {
				continue
			}
			if isInternalName(name) {
				continue
			}
			low, high, ok := pcRange(data, entry)
			if !ok {
				continue
			}
			cur.funcs = append(cur.funcs, Func{
				Offset: entry.Offset,
				Name:   name,
				LowPC:  low,
				HighPC: high,
			})
		}
	}

	if idx.empty() {
		return nil, ErrNoUserFunctions
	}

	return idx, nil
}

func (idx *Index) empty() bool {
	for _, cu := range idx.cus {
		if len(cu.funcs) > 0 {
			return false
		}
	}
	return true
}

// isInternalName reports whether name looks like a compiler or library
// internal: it begins "__", or it begins "_" followed by an upper-case
// letter.
func isInternalName(name string) bool {
	if len(name) >= 2 && name[0] == '_' && name[1] == '_' {
		return true
	}
	if len(name) >= 2 && name[0] == '_' && unicode.IsUpper(rune(name[1])) {
		return true
	}
	return false
}

// pcRange resolves a DIE's low_pc/high_pc (or, failing that, the bounding
// box of its non-contiguous ranges) into an absolute [low, high) pair.
func pcRange(data *dwarf.Data, entry *dwarf.Entry) (low, high uint64, ok bool) {
	if lowVal, lok := entry.Val(dwarf.AttrLowpc).(uint64); lok {
		low = lowVal
		field := entry.AttrField(dwarf.AttrHighpc)
		if field == nil {
			return low, low, true
		}
		switch field.Class {
		case dwarf.ClassAddress:
			if h, hok := field.Val.(uint64); hok {
				return low, h, true
			}
		case dwarf.ClassConstant:
			switch v := field.Val.(type) {
			case int64:
				return low, low + uint64(v), true
			case uint64:
				return low, low + v, true
			}
		}
		return low, low, true
	}

	ranges, err := data.Ranges(entry)
	if err != nil || len(ranges) == 0 {
		return 0, 0, false
	}
	low, high = ranges[0][0], ranges[0][1]
	for _, rg := range ranges[1:] {
		if rg[0] < low {
			low = rg[0]
		}
		if rg[1] > high {
			high = rg[1]
		}
	}
	return low, high, true
}
