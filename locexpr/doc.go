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

// Package locexpr evaluates DWARF location expressions (DW_AT_location,
// DW_AT_frame_base) against a live tracee. It does not itself read registers
// or memory; it asks a Capability for whatever values an operator needs, so
// the evaluator has no dependency on ptrace and can be exercised with a
// fake. Spec.md §4.7.
package locexpr
