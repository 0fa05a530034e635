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

import "github.com/msashank910/PeekLinuxDebugger/registers"

// capability adapts a Session to locexpr.Capability, per spec.md §4.7: Reg
// reads through the register gateway by DWARF number, DerefSize masks a
// peeked word down to the requested width, and PC reports rip relative to
// the image's load address.
type capability struct {
	s *Session
}

func (c capability) Reg(dwarfNum int) (uint64, error) {
	r := registers.FromDWARF(dwarfNum)
	if r == registers.Invalid {
		return 0, ErrInvalidDWARFRegister
	}
	return c.s.Regs.Read(r)
}

func (c capability) DerefSize(addr uint64, size int) (uint64, error) {
	word, err := c.s.Mem.Read(addr + c.s.LoadAddress)
	if err != nil {
		return 0, err
	}
	if size >= 8 {
		return word, nil
	}
	mask := uint64(1)<<(uint(size)*8) - 1
	return word & mask, nil
}

func (c capability) PC() (uint64, error) {
	pc, err := c.s.Regs.Read(registers.Rip)
	if err != nil {
		return 0, err
	}
	return pc - c.s.LoadAddress, nil
}
