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

import (
	"golang.org/x/sys/unix"

	"github.com/msashank910/PeekLinuxDebugger/stepengine"
)

// SignalInfo is the slice of siginfo_t the control core inspects: which
// signal stopped the tracee and the kernel's classification code (eg
// TRAP_BRKPT for a software breakpoint vs TRAP_TRACE for a single-step).
type SignalInfo struct {
	Signo int32
	Code  int32
}

// ControlTracer is everything the control core needs from ptrace beyond
// what stepengine.Tracer already covers: classifying a SIGTRAP stop and
// detaching. Real code backs it with SystemControlTracer; WithTracer can
// substitute another implementation.
type ControlTracer interface {
	stepengine.Tracer
	GetSiginfo(pid int) (SignalInfo, error)
	Detach(pid int) error
	Kill(pid int) error
}

// SystemControlTracer is the real ControlTracer, backed by
// golang.org/x/sys/unix.
type SystemControlTracer struct {
	stepengine.SystemTracer
}

func (SystemControlTracer) GetSiginfo(pid int) (SignalInfo, error) {
	var raw unix.Siginfo
	if err := unix.PtraceGetSiginfo(pid, &raw); err != nil {
		return SignalInfo{}, err
	}
	return SignalInfo{Signo: raw.Signo, Code: raw.Code}, nil
}

func (SystemControlTracer) Detach(pid int) error {
	return unix.PtraceDetach(pid)
}

func (SystemControlTracer) Kill(pid int) error {
	return unix.Kill(pid, unix.SIGKILL)
}
