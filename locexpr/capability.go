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

// Capability is everything an expression operator may need to ask the live
// tracee for. A real implementation backs Reg with registers.Gateway and
// DerefSize with memio.IO; tests back it with an in-memory fake, so this
// package never imports ptrace directly.
type Capability interface {
	// Reg returns the current value of the register with the given DWARF
	// register number (System V AMD64 ABI numbering).
	Reg(dwarfNum int) (uint64, error)
	// DerefSize reads size bytes (1, 2, 4 or 8) at addr and returns them
	// zero-extended to 64 bits, little-endian.
	DerefSize(addr uint64, size int) (uint64, error)
	// PC returns the tracee's current instruction pointer.
	PC() (uint64, error)
}
