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

// Command nativedbg is a minimal front-end over the tracee package: enough
// of a line-at-a-time command loop to exercise every operation in
// spec.md §6, with the line editor/history/help-text spec.md §1 excludes
// left for a real terminal UI to add.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/msashank910/PeekLinuxDebugger/logger"
	"github.com/msashank910/PeekLinuxDebugger/tracee"
)

// shortcutKeys binds single keypresses, recognized without waiting for
// Enter while the terminal is in cbreak mode, to zero-argument commands.
var shortcutKeys = map[byte]string{
	's': "single_step",
	'i': "step_in",
	'o': "step_over",
	'u': "step_out",
	'c': "continue",
	'q': "quit",
}

func main() {
	var (
		attachPid = flag.Int("pid", 0, "attach to an already-running process instead of launching one")
		context   = flag.Int("context", 3, "number of source lines of context to print around the current line")
	)
	flag.Parse()

	// the control core's wait loop is the only blocking primitive (spec.md
	// §5); SIGWINCH must never interrupt it.
	signal.Ignore(syscall.SIGWINCH)

	var (
		pid      int
		execPath string
		err      error
	)
	if *attachPid != 0 {
		pid = *attachPid
		execPath = fmt.Sprintf("/proc/%d/exe", pid)
		err = tracee.Attach(pid)
	} else {
		args := flag.Args()
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "usage: nativedbg [-pid N] <executable> [args...]")
			os.Exit(1)
		}
		execPath = args[0]
		pid, err = tracee.Launch(args[0], args[1:])
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "nativedbg:", err)
		os.Exit(1)
	}

	opts := tracee.Options{
		ContextLines:             *context,
		SymbolCacheMaxSize:       64,
		SymbolMinCachedKeyLength: 3,
	}
	session := tracee.New(pid, execPath, opts, newStdPrompter())

	if err := session.Initialize(); err != nil {
		fmt.Fprintln(os.Stderr, "nativedbg: initializing tracee:", err)
		os.Exit(1)
	}

	rt, rtErr := newRawTerm(os.Stdin)
	if rtErr == nil {
		if err := rt.CBreakMode(); err == nil {
			defer rt.CanonicalMode()
		} else {
			rt = nil
		}
	} else {
		rt = nil
	}

	runLoop(session, rt)

	var tail strings.Builder
	logger.Tail(&tail, 20)
	if tail.Len() > 0 {
		fmt.Fprint(os.Stderr, tail.String())
	}

	os.Exit(exitCode(session.State))
}

// runLoop reads one command at a time from stdin until the tracee reaches
// a terminal state or stdin closes. When rt is non-nil and the terminal is
// in cbreak mode, a first keypress matching shortcutKeys dispatches
// immediately without waiting for Enter, so in that mode a typed command
// line cannot begin with one of those keys; any other first key is read
// through as a complete, space-separated command line.
func runLoop(s *tracee.Session, rt *rawTerm) {
	for !s.State.Terminal() {
		fmt.Printf("(nativedbg) ")
		line, eof := readCommandLine(rt)
		if eof {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		run, ok := dispatch(fields[0])
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown command: %s\n", fields[0])
			continue
		}
		out, err := run(s, fields[1:])
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		if out != "" {
			fmt.Print(out)
			if !strings.HasSuffix(out, "\n") {
				fmt.Println()
			}
		}
	}
}

// readCommandLine returns the next full command line. With rt in cbreak
// mode it reads the first key immediately: a shortcutKeys hit returns that
// command name on its own, anything else (including a bare Enter) is
// folded into an ordinary line accumulated byte by byte, mirroring the
// teacher's rune-at-a-time reader in debugger/terminal/colorterm.
func readCommandLine(rt *rawTerm) (string, bool) {
	if rt == nil {
		return readLine(os.Stdin)
	}

	first, err := rt.ReadKey(os.Stdin)
	if err != nil {
		return "", true
	}
	if first == '\n' || first == '\r' {
		return "", false
	}
	if name, ok := shortcutKeys[first]; ok {
		fmt.Println(string(first))
		return name, false
	}

	rest, eof := readLine(os.Stdin)
	return string(first) + rest, eof
}

// readLine accumulates bytes from f until a newline or EOF.
func readLine(f *os.File) (string, bool) {
	var b strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return b.String(), false
			}
			if buf[0] != '\r' {
				b.WriteByte(buf[0])
			}
		}
		if err != nil {
			return b.String(), b.Len() == 0
		}
	}
}

func exitCode(state tracee.State) int {
	switch state {
	case tracee.Terminated, tracee.Detach, tracee.Finish:
		return 0
	default:
		return 1
	}
}
