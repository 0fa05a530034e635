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

// Package tracee owns one ptrace'd child process end to end: attaching,
// loading its symbol and DWARF indices, driving the wait loop that
// classifies every stop, and tearing the session down. It is the one
// package that wires breakpoint, stepengine, procmap, symbols and dwarfidx
// together against a real pid; everything underneath it is unit-testable
// in isolation, but the control loop itself only makes sense against a
// live process, so it is reviewed by hand rather than covered by a fork
// exerciser.
package tracee
