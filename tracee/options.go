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

package tracee

import "github.com/msashank910/PeekLinuxDebugger/symbols"

// Options collects the handful of tunables the original config.h grouped
// under DebugConfig and SymbolConfig: how many lines of source context to
// print, and the symbol cache's size and minimum-cached-key-length.
type Options struct {
	// ContextLines is how many lines above and below the current line
	// PrintContext shows.
	ContextLines int
	// SymbolCacheMaxSize bounds the symbol index's LRU cache.
	SymbolCacheMaxSize int
	// SymbolMinCachedKeyLength is the shortest query string the symbol
	// index will cache a result for.
	SymbolMinCachedKeyLength int
	// Demangle is the out-of-scope demangler hook (spec.md §1): called on
	// every ELF symbol name. A nil Demangle leaves names mangled.
	Demangle symbols.Demangler
}

// DefaultOptions mirrors config.h's field defaults: 3 lines of context, a
// 64-entry symbol cache, and a minimum cached key length of 3.
func DefaultOptions() Options {
	return Options{
		ContextLines:             3,
		SymbolCacheMaxSize:       symbols.DefaultMaxCacheSize,
		SymbolMinCachedKeyLength: symbols.DefaultMinCachedKeyLength,
	}
}
