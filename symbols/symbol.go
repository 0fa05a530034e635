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

package symbols

// Kind classifies an ELF symbol table entry.
type Kind int

// The symbol kinds the index recognizes.
const (
	KindNoType Kind = iota
	KindObject
	KindFunc
	KindSection
	KindFile
	KindNull
)

// Symbol is one entry read from .symtab or .dynsym, with its name already
// run through the demangling hook.
type Symbol struct {
	Kind  Kind
	Name  string // demangled, or the mangled name if demangling failed
	Value uint64 // unrelocated offset for relocatable images
}
