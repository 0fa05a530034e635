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

package source

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/msashank910/PeekLinuxDebugger/curated"
)

var ErrFileUnreadable = curated.Errorf("cannot open source file")

// Printer caches the line-split contents of every source file it has read,
// since a stepping session re-prints the same file repeatedly.
type Printer struct {
	cache map[string][]string
}

// New returns an empty Printer.
func New() *Printer {
	return &Printer{cache: make(map[string][]string)}
}

// PrintContext writes lines [max(1, line-n), line+n] of file to w, prefixing
// the target line with "> " and every other line with two spaces, with
// line numbers padded to a common width.
func (p *Printer) PrintContext(w io.Writer, file string, line, n int) error {
	lines, err := p.lines(file)
	if err != nil {
		return err
	}

	lo := line - n
	if lo < 1 {
		lo = 1
	}
	hi := line + n
	if hi > len(lines) {
		hi = len(lines)
	}

	width := len(strconv.Itoa(hi))
	for l := lo; l <= hi; l++ {
		marker := "  "
		if l == line {
			marker = "> "
		}
		fmt.Fprintf(w, "%s%*d %s\n", marker, width, l, lines[l-1])
	}
	return nil
}

func (p *Printer) lines(file string) ([]string, error) {
	if cached, ok := p.cache[file]; ok {
		return cached, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, curated.Errorf("%w: %s: %v", ErrFileUnreadable, file, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, curated.Errorf("%w: %s: %v", ErrFileUnreadable, file, err)
	}

	p.cache[file] = lines
	return lines, nil
}

// Clear empties the file cache, used when the tracee's working directory
// or binary changes underneath the debugger.
func (p *Printer) Clear() {
	p.cache = make(map[string][]string)
}
