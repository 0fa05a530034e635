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
	"fmt"

	"github.com/msashank910/PeekLinuxDebugger/locexpr"
	"github.com/msashank910/PeekLinuxDebugger/registers"
)

// MemoryReader is the peek capability Describe needs for an address-valued
// variable.
type MemoryReader interface {
	Read(addr uint64) (uint64, error)
}

// Describe renders v the way the variable inspector prints it: the word at
// its address for a memory-resident variable, the live register value for
// a register-resident one, or a fixed message for anything else.
// Spec.md §4.12.
func Describe(v Variable, mem MemoryReader) (string, error) {
	switch v.Result.Kind {
	case locexpr.KindAddress:
		val, err := mem.Read(v.Result.Address)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s = %#x", v.Name, val), nil
	case locexpr.KindRegister:
		return fmt.Sprintf("%s = %#x (%s)", v.Name, v.Result.Value, registers.Name(v.Result.Register)), nil
	default:
		return fmt.Sprintf("%s: not stored in memory or register", v.Name), nil
	}
}
