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

package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/pkg/term/termios"
)

// rawTerm wraps the controlling terminal's termios state so single-key
// stepping shortcuts (single_step/step_in/step_over bound to bare
// keypresses) can be read without waiting for a newline, the same role
// "github.com/pkg/term/termios" plays in the teacher's
// debugger/terminal/colorterm/easyterm.
type rawTerm struct {
	fd       uintptr
	canAttr  syscall.Termios
	cbreak   syscall.Termios
	inRaw    bool
}

func newRawTerm(f *os.File) (*rawTerm, error) {
	rt := &rawTerm{fd: f.Fd()}
	if err := termios.Tcgetattr(rt.fd, &rt.canAttr); err != nil {
		return nil, fmt.Errorf("reading terminal attributes: %w", err)
	}
	rt.cbreak = rt.canAttr
	termios.Cfmakecbreak(&rt.cbreak)
	return rt, nil
}

// CBreakMode puts the terminal into cbreak mode: input available
// character-by-character, no local echo suppression beyond that.
func (rt *rawTerm) CBreakMode() error {
	if rt.inRaw {
		return nil
	}
	rt.inRaw = true
	return termios.Tcsetattr(rt.fd, termios.TCIFLUSH, &rt.cbreak)
}

// CanonicalMode restores the terminal to whatever mode it was in before
// CBreakMode was first called.
func (rt *rawTerm) CanonicalMode() error {
	if !rt.inRaw {
		return nil
	}
	rt.inRaw = false
	return termios.Tcsetattr(rt.fd, termios.TCIFLUSH, &rt.canAttr)
}

// ReadKey blocks for exactly one byte of input.
func (rt *rawTerm) ReadKey(f *os.File) (byte, error) {
	var buf [1]byte
	if _, err := f.Read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
