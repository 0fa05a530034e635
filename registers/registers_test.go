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

package registers_test

import (
	"testing"

	"github.com/msashank910/PeekLinuxDebugger/registers"
)

func TestNameRoundTrip(t *testing.T) {
	for r := registers.R15; r <= registers.Gs; r++ {
		name := registers.Name(r)
		if name == "" {
			t.Fatalf("register %d has no name", r)
		}
		if got := registers.FromName(name); got != r {
			t.Fatalf("FromName(%q) = %d, want %d", name, got, r)
		}
	}
}

func TestFromNameInvalid(t *testing.T) {
	if got := registers.FromName("not-a-register"); got != registers.Invalid {
		t.Fatalf("expected Invalid, got %d", got)
	}
}

func TestDWARFMapping(t *testing.T) {
	// rip and orig_rax have no DWARF number per the System V AMD64 ABI.
	if got := registers.FromDWARF(999); got != registers.Invalid {
		t.Fatalf("expected Invalid for an unmapped DWARF number, got %d", got)
	}
	if got := registers.FromDWARF(0); got != registers.Rax {
		t.Fatalf("DWARF register 0 should be rax, got %d", got)
	}
	if got := registers.FromDWARF(7); got != registers.Rsp {
		t.Fatalf("DWARF register 7 should be rsp, got %d", got)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	var s registers.Set
	for r := registers.R15; r <= registers.Gs; r++ {
		s.Set(r, uint64(r)+1)
	}
	for r := registers.R15; r <= registers.Gs; r++ {
		if got := s.Get(r); got != uint64(r)+1 {
			t.Fatalf("register %d: got %d, want %d", r, got, uint64(r)+1)
		}
	}
}
