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

package stepengine

import (
	"github.com/msashank910/PeekLinuxDebugger/curated"
	"github.com/msashank910/PeekLinuxDebugger/registers"
)

// Skip adjusts rip by n bytes without executing anything in between. warn
// is invoked first and must return true for the skip to proceed; the
// write is verified by reading rip back.
func (e *Engine) Skip(n int64, warn func() bool) error {
	if warn != nil && !warn() {
		return ErrSkipNotConfirmed
	}
	pc, err := e.regs.Read(registers.Rip)
	if err != nil {
		return err
	}
	target := uint64(int64(pc) + n)
	if err := e.regs.Write(registers.Rip, target); err != nil {
		return curated.Errorf("skip: writing rip: %w", err)
	}
	got, err := e.regs.Read(registers.Rip)
	if err != nil {
		return err
	}
	if got != target {
		return ErrSkipVerifyMismatch
	}
	return nil
}

// Jump sets rip to an absolute address, refusing targets outside any
// mapped region. Translating a "*"-prefixed relative input into an
// absolute address is the caller's responsibility.
func (e *Engine) Jump(addr uint64) error {
	if _, ok := e.pm.ChunkContaining(addr); !ok {
		return curated.Errorf("%w: %#x", ErrUnmappedJumpTarget, addr)
	}
	return e.regs.Write(registers.Rip, addr)
}
