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

package dwarfidx

import "testing"

func TestIsInternalName(t *testing.T) {
	cases := map[string]bool{
		"main":        false,
		"compute":     false,
		"__libc_init": true,
		"_Unwind_Resume": true,
		"_start":      false, // 's' is lower-case, so only the "__" rule would apply
		"__":          true,
		"_":           false,
	}
	for name, want := range cases {
		if got := isInternalName(name); got != want {
			t.Errorf("isInternalName(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestFileTailMatches(t *testing.T) {
	cases := []struct {
		candidate, query string
		want             bool
	}{
		{"main.cpp", "main.cpp", true},
		{"/home/user/src/main.cpp", "main.cpp", true},
		{"/home/user/src/domain.cpp", "main.cpp", false},
		{"other.cpp", "main.cpp", false},
	}
	for _, c := range cases {
		if got := fileTailMatches(c.candidate, c.query); got != c.want {
			t.Errorf("fileTailMatches(%q, %q) = %v, want %v", c.candidate, c.query, got, c.want)
		}
	}
}

func TestFuncContains(t *testing.T) {
	f := Func{LowPC: 0x1000, HighPC: 0x1010}
	if !f.Contains(0x1000) {
		t.Fatalf("low bound should be contained")
	}
	if f.Contains(0x1010) {
		t.Fatalf("high bound is exclusive")
	}
	if f.Contains(0xfff) {
		t.Fatalf("address below range should not be contained")
	}
}
