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

package logger_test

import (
	"strings"
	"testing"

	"github.com/msashank910/PeekLinuxDebugger/logger"
)

func TestLogger(t *testing.T) {
	logger.Clear()

	var sb strings.Builder
	logger.Write(&sb)
	if sb.String() != "" {
		t.Fatalf("expected empty log, got %q", sb.String())
	}

	logger.Log("test", "this is a test")
	sb.Reset()
	logger.Write(&sb)
	if sb.String() != "test: this is a test\n" {
		t.Fatalf("unexpected log contents: %q", sb.String())
	}

	logger.Log("test2", "this is another test")
	sb.Reset()
	logger.Write(&sb)
	want := "test: this is a test\ntest2: this is another test\n"
	if sb.String() != want {
		t.Fatalf("got %q, want %q", sb.String(), want)
	}

	// asking for too many entries in a Tail() should be okay
	sb.Reset()
	logger.Tail(&sb, 100)
	if sb.String() != want {
		t.Fatalf("Tail(100): got %q, want %q", sb.String(), want)
	}

	// asking for exactly the correct number of entries is okay
	sb.Reset()
	logger.Tail(&sb, 2)
	if sb.String() != want {
		t.Fatalf("Tail(2): got %q, want %q", sb.String(), want)
	}

	// asking for fewer entries is okay too
	sb.Reset()
	logger.Tail(&sb, 1)
	if sb.String() != "test2: this is another test\n" {
		t.Fatalf("Tail(1): got %q", sb.String())
	}

	// and no entries
	sb.Reset()
	logger.Tail(&sb, 0)
	if sb.String() != "" {
		t.Fatalf("Tail(0): got %q", sb.String())
	}
}
