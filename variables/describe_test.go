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

package variables_test

import (
	"strings"
	"testing"

	"github.com/msashank910/PeekLinuxDebugger/locexpr"
	"github.com/msashank910/PeekLinuxDebugger/registers"
	"github.com/msashank910/PeekLinuxDebugger/variables"
)

type fakeMemReader struct {
	words map[uint64]uint64
}

func (f fakeMemReader) Read(addr uint64) (uint64, error) { return f.words[addr], nil }

func TestDescribeAddress(t *testing.T) {
	v := variables.Variable{Name: "x", Result: locexpr.Result{Kind: locexpr.KindAddress, Address: 0x1000}}
	mem := fakeMemReader{words: map[uint64]uint64{0x1000: 42}}
	s, err := variables.Describe(v, mem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(s, "x") || !strings.Contains(s, "0x2a") {
		t.Fatalf("got %q", s)
	}
}

func TestDescribeRegister(t *testing.T) {
	v := variables.Variable{Name: "y", Result: locexpr.Result{Kind: locexpr.KindRegister, Register: registers.Rax, Value: 7}}
	s, err := variables.Describe(v, fakeMemReader{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(s, "y") || !strings.Contains(s, "0x7") {
		t.Fatalf("got %q", s)
	}
}

func TestDescribeOther(t *testing.T) {
	v := variables.Variable{Name: "z", Result: locexpr.Result{Kind: locexpr.KindImplicit, Value: 1}}
	s, err := variables.Describe(v, fakeMemReader{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(s, "not stored in memory or register") {
		t.Fatalf("got %q", s)
	}
}
