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

package logger

import (
	"fmt"
	"io"
	"sync"
)

type entry struct {
	category string
	message  string
}

func (e entry) String() string {
	return fmt.Sprintf("%s: %s", e.category, e.message)
}

var (
	mu  sync.Mutex
	log []entry
)

// Log adds an entry to the log. Category is a short tag (eg. "sigtrap",
// "ptrace") and message is the free-form detail.
func Log(category, message string) {
	mu.Lock()
	defer mu.Unlock()
	log = append(log, entry{category: category, message: message})
}

// Logf is like Log but formats message with fmt.Sprintf.
func Logf(category, format string, a ...interface{}) {
	Log(category, fmt.Sprintf(format, a...))
}

// Write dumps the entire log to w, one entry per line.
func Write(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	for _, e := range log {
		fmt.Fprintf(w, "%s\n", e)
	}
}

// Tail dumps the last n entries to w. A request for more entries than
// exist is not an error; it simply dumps everything.
func Tail(w io.Writer, n int) {
	mu.Lock()
	defer mu.Unlock()
	if n <= 0 {
		return
	}
	start := len(log) - n
	if start < 0 {
		start = 0
	}
	for _, e := range log[start:] {
		fmt.Fprintf(w, "%s\n", e)
	}
}

// Clear empties the log. Intended for tests.
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	log = nil
}
