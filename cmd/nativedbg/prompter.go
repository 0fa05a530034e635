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

package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/msashank910/PeekLinuxDebugger/breakpoint"
)

// stdPrompter answers the confirm/choose/press-enter questions the control
// core and breakpoint manager ask mid-command by reading lines from stdin,
// the out-of-scope "interactive front-end" collaborator spec.md §1 assumes
// exists.
type stdPrompter struct {
	in  *bufio.Reader
	out *os.File
}

func newStdPrompter() *stdPrompter {
	return &stdPrompter{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (p *stdPrompter) Confirm(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N] ", question)
	line, _ := p.in.ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}

func (p *stdPrompter) Choose(candidates []breakpoint.Candidate) (int, bool) {
	for i, c := range candidates {
		fmt.Fprintf(p.out, "  [%d] %s at %s:%d (%#x)\n", i, c.Signature, c.File, c.Line, c.Address)
	}
	fmt.Fprint(p.out, "choose index, or blank to abort: ")
	line, _ := p.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, false
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 0 || n >= len(candidates) {
		return 0, false
	}
	return n, true
}

func (p *stdPrompter) PressEnter() {
	fmt.Fprint(p.out, "press enter to continue... ")
	p.in.ReadString('\n')
}
