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

package variables

import (
	"debug/dwarf"

	"github.com/msashank910/PeekLinuxDebugger/curated"
	"github.com/msashank910/PeekLinuxDebugger/dwarfidx"
	"github.com/msashank910/PeekLinuxDebugger/locexpr"
)

// Variable is one DW_TAG_variable DIE found under a function, paired with
// its evaluated live location.
type Variable struct {
	Name   string
	Result locexpr.Result
}

// Inspector enumerates variables under a function DIE and evaluates their
// locations against a live tracee.
type Inspector struct {
	data *dwarf.Data
	cap  locexpr.Capability
}

// New constructs an Inspector over data, evaluating locations via cap.
func New(data *dwarf.Data, cap locexpr.Capability) *Inspector {
	return &Inspector{data: data, cap: cap}
}

// Variables returns every variable DIE found anywhere under fn (including
// nested lexical blocks) that has an inline location, each evaluated to
// its current Result. A variable whose location fails to evaluate is
// omitted. Spec.md §4.12.
func (ins *Inspector) Variables(fn dwarfidx.Func) ([]Variable, error) {
	frameBase, err := ins.exprAttr(fn.Offset, dwarf.AttrFrameBase)
	if err != nil {
		frameBase = nil
	}
	eval := locexpr.New(ins.cap, frameBase)

	raw, err := ins.collectVariableDIEs(fn.Offset)
	if err != nil {
		return nil, err
	}

	out := make([]Variable, 0, len(raw))
	for _, rv := range raw {
		res, err := eval.Evaluate(rv.loc)
		if err != nil {
			continue
		}
		out = append(out, Variable{Name: rv.name, Result: res})
	}
	return out, nil
}

type rawVariable struct {
	name string
	loc  []byte
}

// collectVariableDIEs walks every descendant of the DIE at offset and
// returns each DW_TAG_variable child that carries an inline (exprloc)
// location; loclist-based locations are out of scope.
func (ins *Inspector) collectVariableDIEs(offset dwarf.Offset) ([]rawVariable, error) {
	r := ins.data.Reader()
	r.Seek(offset)

	root, err := r.Next()
	if err != nil {
		return nil, curated.Errorf("reading function DIE: %w", err)
	}
	if root == nil || !root.Children {
		return nil, nil
	}

	var out []rawVariable
	depth := 0
	for {
		e, err := r.Next()
		if err != nil {
			return nil, curated.Errorf("reading function children: %w", err)
		}
		if e == nil {
			break
		}
		if e.Tag == 0 {
			if depth == 0 {
				break
			}
			depth--
			continue
		}
		if e.Tag == dwarf.TagVariable {
			name, _ := e.Val(dwarf.AttrName).(string)
			if loc, ok := e.Val(dwarf.AttrLocation).([]byte); ok {
				out = append(out, rawVariable{name: name, loc: loc})
			}
		}
		if e.Children {
			depth++
		}
	}
	return out, nil
}

// exprAttr reads one attribute off the DIE at offset as an inline
// expression (ClassExprLoc); it returns nil if the attribute is absent or
// encoded as a location list.
func (ins *Inspector) exprAttr(offset dwarf.Offset, attr dwarf.Attr) ([]byte, error) {
	r := ins.data.Reader()
	r.Seek(offset)
	e, err := r.Next()
	if err != nil {
		return nil, curated.Errorf("reading DIE at %#x: %w", offset, err)
	}
	if e == nil {
		return nil, curated.Errorf("no DIE at %#x", offset)
	}
	loc, ok := e.Val(attr).([]byte)
	if !ok {
		return nil, nil
	}
	return loc, nil
}
