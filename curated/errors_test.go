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

package curated_test

import (
	"testing"

	"github.com/msashank910/PeekLinuxDebugger/curated"
)

const patternA = "address %d is not mapped"
const patternB = "breakpoint at %d: %v"

func TestIsAndHas(t *testing.T) {
	inner := curated.Errorf(patternA, 0x1000)
	outer := curated.Errorf(patternB, 0x1000, inner)

	if !curated.Is(inner, patternA) {
		t.Fatalf("expected inner to match patternA")
	}
	if curated.Is(outer, patternA) {
		t.Fatalf("outer should not directly match patternA")
	}
	if !curated.Has(outer, patternA) {
		t.Fatalf("expected Has to find patternA in the wrapped chain")
	}
	if !curated.Has(outer, patternB) {
		t.Fatalf("expected Has to find the outer pattern too")
	}
	if curated.Has(outer, "something else") {
		t.Fatalf("Has should not match an unrelated pattern")
	}
	if curated.Is(nil, patternA) || curated.Has(nil, patternA) || curated.IsAny(nil) {
		t.Fatalf("nil error should never match")
	}
}
