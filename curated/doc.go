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

// Package curated implements a small error type that remembers the format
// pattern it was created with, so that callers can test an error against a
// sentinel pattern (Is) without fragile string comparison, and so chains of
// wrapped errors can be searched (Has). This is how the tracer distinguishes
// the fatal/user/recoverable/protected error kinds of the error-handling
// design without a taxonomy of named error types.
package curated
