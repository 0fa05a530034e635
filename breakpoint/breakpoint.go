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

// TrapOpcode is the x86-64 software interrupt byte (INT3) that raises
// SIGTRAP when executed.
const TrapOpcode = 0xCC

// Memory is the word-sized peek/poke capability a Breakpoint needs. It is
// satisfied by *memio.IO against a live tracee, and by a fake in tests.
type Memory interface {
	Read(addr uint64) (uint64, error)
	Write(addr uint64, word uint64) error
}

// Breakpoint owns one (address, saved-byte) pair in a single tracee's
// address space.
//
// Invariants: when Enabled is true, the byte at Address in the tracee's
// memory is TrapOpcode and SavedByte holds the byte that was displaced.
// When Enabled is false, the byte at Address holds SavedByte. A
// Breakpoint is always created disabled.
type Breakpoint struct {
	Address   uint64
	Enabled   bool
	SavedByte byte
}

// New creates a disabled breakpoint at addr. It does not touch tracee
// memory; call Enable to install it.
func New(addr uint64) *Breakpoint {
	return &Breakpoint{Address: addr}
}

// Enable installs the breakpoint: it reads the word at Address, saves the
// low byte, and writes the word back with the low byte replaced by
// TrapOpcode. Calling Enable on an already-enabled breakpoint is a no-op;
// callers must not rely on it re-reading SavedByte, since the byte in
// memory at that point is the trap opcode, not the original instruction
// byte.
func (b *Breakpoint) Enable(mem Memory) error {
	if b.Enabled {
		return nil
	}

	word, err := mem.Read(b.Address)
	if err != nil {
		return err
	}

	saved := byte(word)
	trapped := (word &^ 0xFF) | TrapOpcode

	if err := mem.Write(b.Address, trapped); err != nil {
		return err
	}

	b.SavedByte = saved
	b.Enabled = true
	return nil
}

// Disable removes the breakpoint: it reads the word at Address and writes
// it back with the low byte restored to SavedByte. On failure the
// breakpoint's Enabled state is left unchanged.
func (b *Breakpoint) Disable(mem Memory) error {
	if !b.Enabled {
		return nil
	}

	word, err := mem.Read(b.Address)
	if err != nil {
		return err
	}

	restored := (word &^ 0xFF) | uint64(b.SavedByte)

	if err := mem.Write(b.Address, restored); err != nil {
		return err
	}

	b.Enabled = false
	return nil
}
