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

package symbols

import (
	"debug/elf"
	"strings"
)

// Demangler turns a mangled symbol name into a human-readable one. It is
// the one hook this package calls into the out-of-scope demangler; on
// failure the caller should return ("", false) and the mangled name is
// used unchanged.
type Demangler func(name string) (string, bool)

// DefaultMinCachedKeyLength and DefaultMaxCacheSize are sane starting
// points for Index.Configure; the front-end overrides them with
// set_symbol_min/set_cache_max.
const (
	DefaultMinCachedKeyLength = 3
	DefaultMaxCacheSize       = 64
)

// Index answers substring and exact symbol-name queries against a parsed
// ELF image, demangling names through a caller-supplied hook and caching
// non-strict results with a bounded LRU.
type Index struct {
	ef        *elf.File
	demangle  Demangler
	loadAddr  uint64
	cache     *cache
	allSyms   []Symbol
	collected bool
}

// New builds a symbol index over ef. loadAddr is the main image's load
// address (0 for non-relocatable executables); it is not applied to
// symbol values here — per spec.md §3, Symbol.Value is an unrelocated
// offset, relocation is the caller's job when resolving an address.
func New(ef *elf.File, loadAddr uint64, demangle Demangler) *Index {
	if demangle == nil {
		demangle = func(name string) (string, bool) { return "", false }
	}
	return &Index{
		ef:       ef,
		demangle: demangle,
		loadAddr: loadAddr,
		cache:    newCache(DefaultMaxCacheSize, DefaultMinCachedKeyLength),
	}
}

// Configure updates the cache's limits, evicting entries as spec.md §4.5
// describes.
func (idx *Index) Configure(maxCacheSize, minCachedKeyLength int) {
	idx.cache.configure(maxCacheSize, minCachedKeyLength)
}

// ClearCache empties the symbol cache without changing its limits.
func (idx *Index) ClearCache() {
	idx.cache = newCache(idx.cache.maxSize, idx.cache.minKeyLen)
}

// CacheKeys returns the current cache keys, most-recently-used first.
func (idx *Index) CacheKeys() []string {
	return idx.cache.keys()
}

func elfKind(info byte) Kind {
	switch elf.ST_TYPE(info) {
	case elf.STT_OBJECT:
		return KindObject
	case elf.STT_FUNC:
		return KindFunc
	case elf.STT_SECTION:
		return KindSection
	case elf.STT_FILE:
		return KindFile
	case elf.STT_NOTYPE:
		return KindNoType
	}
	return KindNull
}

// collect lazily reads every named symbol out of .symtab and .dynsym,
// demangling each, once.
func (idx *Index) collect() []Symbol {
	if idx.collected {
		return idx.allSyms
	}
	idx.collected = true

	add := func(syms []elf.Symbol) {
		for _, s := range syms {
			if s.Name == "" {
				continue
			}
			name, ok := idx.demangle(s.Name)
			if !ok {
				name = s.Name
			}
			idx.allSyms = append(idx.allSyms, Symbol{
				Kind:  elfKind(s.Info),
				Name:  name,
				Value: s.Value,
			})
		}
	}

	if syms, err := idx.ef.Symbols(); err == nil {
		add(syms)
	}
	if syms, err := idx.ef.DynamicSymbols(); err == nil {
		add(syms)
	}

	return idx.allSyms
}

// AllSymbols returns every named symbol collected from .symtab and
// .dynsym, demangled, uncached and unfiltered. Used by the dump_symbols
// front-end command when it is given no filter.
func (idx *Index) AllSymbols() []Symbol {
	return idx.collect()
}

// SymbolsMatching implements spec.md §4.5's symbols_matching(name, strict).
func (idx *Index) SymbolsMatching(name string, strict bool) []Symbol {
	if cached, ok := idx.cache.get(name); ok {
		if !strict {
			return cached
		}
		return filterStrict(cached, name)
	}

	var nonStrict []Symbol
	for _, s := range idx.collect() {
		if strings.Contains(s.Name, name) {
			nonStrict = append(nonStrict, s)
		}
	}

	idx.cache.insert(name, nonStrict)

	if strict {
		return filterStrict(nonStrict, name)
	}
	return nonStrict
}

func filterStrict(syms []Symbol, name string) []Symbol {
	var out []Symbol
	for _, s := range syms {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}
