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

import "golang.org/x/sys/unix"

// Tracer is the resume/wait surface the engine needs from ptrace. Real code
// calls the kernel directly; tests drive a fake that simulates a tracee
// without ever forking one.
type Tracer interface {
	Cont(pid int, sig int) error
	SingleStep(pid int) error
	Wait(pid int) (unix.WaitStatus, error)
}

// SystemTracer is the real Tracer, backed by golang.org/x/sys/unix.
type SystemTracer struct{}

func (SystemTracer) Cont(pid int, sig int) error {
	return unix.PtraceCont(pid, sig)
}

func (SystemTracer) SingleStep(pid int) error {
	return unix.PtraceSingleStep(pid)
}

func (SystemTracer) Wait(pid int) (unix.WaitStatus, error) {
	var ws unix.WaitStatus
	_, err := unix.Wait4(pid, &ws, 0, nil)
	return ws, err
}
