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

import "github.com/msashank910/PeekLinuxDebugger/registers"

// Frame is one entry of a backtrace: the return address and the saved
// frame pointer that produced it.
type Frame struct {
	PC  uint64
	RBP uint64
}

// Backtrace walks the rbp chain from the current frame until rbp is zero,
// unreadable, or stops increasing (a guard against a corrupted chain
// looping forever).
func (e *Engine) Backtrace() ([]Frame, error) {
	regs, err := e.regs.ReadAll()
	if err != nil {
		return nil, err
	}
	rbp := regs.Get(registers.Rbp)
	frames := []Frame{{PC: regs.Get(registers.Rip), RBP: rbp}}

	for rbp != 0 {
		retAddr, err := e.mem.Read(rbp + 8)
		if err != nil {
			break
		}
		savedRBP, err := e.mem.Read(rbp)
		if err != nil {
			break
		}
		frames = append(frames, Frame{PC: retAddr, RBP: savedRBP})
		if savedRBP <= rbp {
			break
		}
		rbp = savedRBP
	}
	return frames, nil
}
