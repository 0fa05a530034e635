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

package procmap

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/msashank910/PeekLinuxDebugger/curated"
)

// Kind classifies the path field of a memory chunk.
type Kind int

// The classified kinds a chunk can fall into.
const (
	KindAnon Kind = iota
	KindStack
	KindStackTid
	KindHeap
	KindVDSO
	KindVVAR
	KindVsyscall
	KindExec
	KindSO
	KindMmap
)

func (k Kind) String() string {
	switch k {
	case KindStack:
		return "stack"
	case KindStackTid:
		return "stack-tid"
	case KindHeap:
		return "heap"
	case KindVDSO:
		return "vdso"
	case KindVVAR:
		return "vvar"
	case KindVsyscall:
		return "vsyscall"
	case KindExec:
		return "exec"
	case KindSO:
		return "so"
	case KindMmap:
		return "mmap"
	}
	return "anon"
}

// Perms is the four-character permission string from /proc/<pid>/maps.
type Perms struct {
	Read, Write, Exec, Shared bool
}

// Chunk is one [Low, High) region of the tracee's virtual address space.
// Chunks are immutable once constructed.
type Chunk struct {
	Low, High uint64
	Perms     Perms
	Pathname  string
	Kind      Kind
}

// Contains reports whether addr falls within [Low, High).
func (c Chunk) Contains(addr uint64) bool {
	return addr >= c.Low && addr < c.High
}

// Map is an ordered, non-overlapping snapshot of a tracee's address space,
// sorted ascending by Low. It is replaced wholesale on every Reload.
type Map struct {
	pid      int
	execPath string
	chunks   []Chunk
}

// ErrMapsUnreadable is a fatal error: /proc/<pid>/maps could not be opened.
var ErrMapsUnreadable = curated.Errorf("cannot open /proc/<pid>/maps")

// New returns a Map for pid. execPath is the resolved absolute path of the
// tracee's main executable, used to classify the "exec" chunk. The map is
// empty until the first Reload.
func New(pid int, execPath string) *Map {
	return &Map{pid: pid, execPath: execPath}
}

// Initialized reports whether the map has a non-zero pid, a non-empty
// executable path, and at least one chunk.
func (m *Map) Initialized() bool {
	return m.pid != 0 && m.execPath != "" && len(m.chunks) > 0
}

// Chunks returns the current chunk list. Callers must not mutate it.
func (m *Map) Chunks() []Chunk {
	return m.chunks
}

// ChunkContaining returns the chunk whose [Low,High) contains addr, if any.
func (m *Map) ChunkContaining(addr uint64) (Chunk, bool) {
	for _, c := range m.chunks {
		if c.Contains(addr) {
			return c, true
		}
	}
	return Chunk{}, false
}

// Reload re-parses /proc/<pid>/maps and replaces the chunk list in place.
func (m *Map) Reload() error {
	f, err := os.Open(fmt.Sprintf("/proc/%d/maps", m.pid))
	if err != nil {
		return ErrMapsUnreadable
	}
	defer f.Close()

	var chunks []Chunk
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		c, ok, err := parseLine(sc.Text(), m.execPath)
		if err != nil {
			return err
		}
		if ok {
			chunks = append(chunks, c)
		}
	}
	if err := sc.Err(); err != nil {
		return ErrMapsUnreadable
	}

	m.chunks = chunks
	return nil
}

// parseLine parses one "LOW-HIGH perms offset dev inode pathname" line.
func parseLine(line, execPath string) (Chunk, bool, error) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return Chunk{}, false, nil
	}

	addrs := strings.SplitN(fields[0], "-", 2)
	if len(addrs) != 2 {
		return Chunk{}, false, nil
	}
	low, err := strconv.ParseUint(addrs[0], 16, 64)
	if err != nil {
		return Chunk{}, false, nil
	}
	high, err := strconv.ParseUint(addrs[1], 16, 64)
	if err != nil {
		return Chunk{}, false, nil
	}

	permStr := fields[1]
	if len(permStr) != 4 {
		return Chunk{}, false, nil
	}
	perms := Perms{
		Read:   permStr[0] == 'r',
		Write:  permStr[1] == 'w',
		Exec:   permStr[2] == 'x',
		Shared: permStr[3] == 's',
	}

	pathname := ""
	if len(fields) >= 6 {
		pathname = strings.Join(fields[5:], " ")
	}

	return Chunk{
		Low:      low,
		High:     high,
		Perms:    perms,
		Pathname: pathname,
		Kind:     classify(pathname, execPath),
	}, true, nil
}

func classify(pathname, execPath string) Kind {
	switch {
	case strings.HasPrefix(pathname, "/"):
		if isSharedObject(pathname) {
			return KindSO
		}
		if pathname == execPath {
			return KindExec
		}
		return KindMmap
	case strings.HasPrefix(pathname, "["):
		inner := strings.TrimSuffix(strings.TrimPrefix(pathname, "["), "]")
		if idx := strings.Index(inner, ":"); idx >= 0 {
			base, tid := inner[:idx], inner[idx+1:]
			if base == "stack" && tid != "" {
				return KindStackTid
			}
		}
		switch inner {
		case "stack":
			return KindStack
		case "heap":
			return KindHeap
		case "vdso":
			return KindVDSO
		case "vvar":
			return KindVVAR
		case "vsyscall":
			return KindVsyscall
		}
		return KindAnon
	default:
		return KindAnon
	}
}

// isSharedObject reports whether pathname contains ".so" either at the end
// of the string or immediately followed by a '.' (eg "libc.so.6").
func isSharedObject(pathname string) bool {
	idx := strings.Index(pathname, ".so")
	for idx >= 0 {
		end := idx + len(".so")
		if end == len(pathname) || pathname[end] == '.' {
			return true
		}
		next := strings.Index(pathname[end:], ".so")
		if next < 0 {
			return false
		}
		idx = end + next
	}
	return false
}
