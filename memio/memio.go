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

package memio

import (
	"encoding/binary"

	"github.com/msashank910/PeekLinuxDebugger/curated"
	"golang.org/x/sys/unix"
)

// ErrShortTransfer is a fatal error: the kernel transferred fewer than 8
// bytes for a word-sized peek or poke.
var ErrShortTransfer = curated.Errorf("ptrace word transfer was short")

// IO reads and writes 8-byte words in a single tracee's address space.
type IO struct {
	pid int
}

// New returns a memory I/O handle for the tracee with the given pid.
func New(pid int) *IO {
	return &IO{pid: pid}
}

// Read returns the 8 bytes at addr, little-endian, as a uint64.
func (m *IO) Read(addr uint64) (uint64, error) {
	var buf [8]byte
	n, err := unix.PtracePeekData(m.pid, uintptr(addr), buf[:])
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		return 0, ErrShortTransfer
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// Write overwrites the 8 bytes at addr with word, little-endian.
func (m *IO) Write(addr uint64, word uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], word)
	n, err := unix.PtracePokeData(m.pid, uintptr(addr), buf[:])
	if err != nil {
		return err
	}
	if n != len(buf) {
		return ErrShortTransfer
	}
	return nil
}
