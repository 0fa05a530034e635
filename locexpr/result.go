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

package locexpr

import "github.com/msashank910/PeekLinuxDebugger/registers"

// Kind classifies what an evaluated location expression produced, per
// spec.md §4.7.
type Kind int

const (
	// KindAddress means the variable lives in memory at Result.Address.
	KindAddress Kind = iota
	// KindRegister means the variable's current value is held entirely in
	// Result.Register, with no backing memory address.
	KindRegister
	// KindLiteral means the expression evaluated to a constant with no
	// associated storage. Evaluator.Evaluate does not produce it: a bare
	// DW_OP_lit*/DW_OP_const* expression is reported as KindAddress.
	KindLiteral
	// KindImplicit means the expression produced a value computed by the
	// expression itself (DW_OP_stack_value) rather than a location; the
	// value is not backed by any live register or memory cell.
	KindImplicit
)

func (k Kind) String() string {
	switch k {
	case KindAddress:
		return "address"
	case KindRegister:
		return "register"
	case KindLiteral:
		return "literal"
	case KindImplicit:
		return "implicit"
	default:
		return "unknown"
	}
}

// Result is the outcome of evaluating one DWARF location expression.
type Result struct {
	Kind     Kind
	Address  uint64
	Register registers.Register
	Value    uint64
}
