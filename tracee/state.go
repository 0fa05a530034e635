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

// State is where the control loop currently sits. The zero value is
// Running, which is also the state New gives a fresh session.
type State int

const (
	Running State = iota
	Faulting
	Detach
	ForceDetach
	Finish
	Kill
	Terminated
	Crashed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Faulting:
		return "faulting"
	case Detach:
		return "detach"
	case ForceDetach:
		return "force_detach"
	case Finish:
		return "finish"
	case Kill:
		return "kill"
	case Terminated:
		return "terminated"
	case Crashed:
		return "crashed"
	}
	return ""
}

// Executing reports whether s is a state in which the tracee is still a
// live process under our control and wait_for_signal should keep looping.
func (s State) Executing() bool {
	return s == Running || s == Faulting
}

// Terminal reports whether s ends the control loop: the tracee is gone, or
// we are about to make it so.
func (s State) Terminal() bool {
	return s == Terminated || s == Crashed || s == Kill
}

// transition validates one wait_for_signal/handle_sigtrap state move and
// returns the resulting state. An invalid combination returns from
// unchanged rather than panicking, so the caller silently keeps the state
// it already had instead of crashing the debugger around a live child.
func transition(from, to State) State {
	switch from {
	case Running:
		switch to {
		case Running, Faulting, Detach, Finish, Terminated, Crashed:
			return to
		}
	case Faulting:
		switch to {
		case Running, ForceDetach, Terminated, Crashed:
			return to
		}
	}
	return from
}
