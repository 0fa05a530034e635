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

package symbols_test

import (
	"debug/elf"
	"os"
	"strings"
	"testing"

	"github.com/msashank910/PeekLinuxDebugger/symbols"
)

func openSelf(t *testing.T) *elf.File {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Skipf("cannot resolve own executable: %v", err)
	}
	ef, err := elf.Open(exe)
	if err != nil {
		t.Skipf("own executable is not an ELF file in this environment: %v", err)
	}
	t.Cleanup(func() { ef.Close() })
	return ef
}

func TestStrictIsSubsetOfNonStrict(t *testing.T) {
	ef := openSelf(t)
	idx := symbols.New(ef, 0, nil)

	const query = "main"
	nonStrict := idx.SymbolsMatching(query, false)
	strict := idx.SymbolsMatching(query, true)

	strictSet := make(map[string]bool)
	for _, s := range strict {
		strictSet[s.Name] = true
		if s.Name != query {
			t.Fatalf("strict match %q does not equal query %q", s.Name, query)
		}
	}

	nonStrictSet := make(map[string]bool)
	for _, s := range nonStrict {
		nonStrictSet[s.Name] = true
		if !strings.Contains(s.Name, query) {
			t.Fatalf("non-strict match %q does not contain query %q", s.Name, query)
		}
	}

	for name := range strictSet {
		if !nonStrictSet[name] {
			t.Fatalf("strict result %q missing from non-strict result", name)
		}
	}
}

func TestCachingRespectsMinKeyLength(t *testing.T) {
	ef := openSelf(t)
	idx := symbols.New(ef, 0, nil)
	idx.Configure(64, 10)

	idx.SymbolsMatching("main", false) // shorter than min key length 10
	for _, k := range idx.CacheKeys() {
		if k == "main" {
			t.Fatalf("a key shorter than the configured minimum must not be cached")
		}
	}
}
