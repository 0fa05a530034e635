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
	"os"
	"os/exec"
	"runtime"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/msashank910/PeekLinuxDebugger/curated"
)

// Launch forks, arranges PTRACE_TRACEME, and execs path with args, blocking
// until the child reports its post-exec SIGTRAP stop. Spec.md §6 assumes
// this step has already happened before the core sees a pid; it lives here
// because a real front-end needs a concrete way to produce one.
//
// Every later ptrace call for this tracee must come from the same OS
// thread that issued the trace, so Launch locks the calling goroutine to
// its thread for the remainder of the process's life (grounded on
// other_examples' ptrace demo, which states the same requirement verbatim,
// and on delve's identical practice).
func Launch(path string, args []string) (int, error) {
	runtime.LockOSThread()

	cmd := exec.Command(path, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Ptrace: true}

	if err := cmd.Start(); err != nil {
		return 0, curated.Errorf("launching tracee: %w", err)
	}

	var ws unix.WaitStatus
	if _, err := unix.Wait4(cmd.Process.Pid, &ws, 0, nil); err != nil {
		return 0, curated.Errorf("waiting for tracee's initial trap: %w", err)
	}
	return cmd.Process.Pid, nil
}

// Attach ptrace-attaches to an already-running pid, the alternative to
// Launch for a front-end invoked against a live process. Locks the calling
// goroutine's OS thread for the same reason as Launch.
func Attach(pid int) error {
	runtime.LockOSThread()

	if err := unix.PtraceAttach(pid); err != nil {
		return curated.Errorf("ptrace attach to pid %d: %w", pid, err)
	}
	var ws unix.WaitStatus
	if _, err := unix.Wait4(pid, &ws, 0, nil); err != nil {
		return curated.Errorf("waiting for attach stop: %w", err)
	}
	return nil
}
