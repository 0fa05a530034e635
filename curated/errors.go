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

package curated

import (
	"fmt"
	"strings"
)

// curated is an implementation of the go language error interface.
type curated struct {
	pattern string
	values  []interface{}
}

// Errorf creates a new curated error. Unlike fmt.Errorf the first argument
// is named "pattern" rather than "format" because Is() and Has() match
// against the pattern, not the formatted message.
func Errorf(pattern string, values ...interface{}) error {
	return &curated{
		pattern: pattern,
		values:  values,
	}
}

// Error returns the formatted error message, de-duplicating adjacent
// repeated parts produced when one curated error wraps another with the
// same leading text.
func (er curated) Error() string {
	s := fmt.Errorf(er.pattern, er.values...).Error()

	p := strings.SplitN(s, ": ", 3)
	if len(p) > 1 && p[0] == p[1] {
		return strings.Join(p[1:], ": ")
	}

	return strings.Join(p, ": ")
}

// IsAny reports whether err is a curated error of any pattern.
func IsAny(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*curated)
	return ok
}

// Is reports whether err is a curated error created with exactly pattern.
func Is(err error, pattern string) bool {
	if err == nil {
		return false
	}
	if er, ok := err.(*curated); ok {
		return er.pattern == pattern
	}
	return false
}

// Has reports whether err, or any curated error it wraps, was created with
// pattern.
func Has(err error, pattern string) bool {
	if err == nil {
		return false
	}
	if !IsAny(err) {
		return false
	}
	if Is(err, pattern) {
		return true
	}
	for _, v := range err.(*curated).values {
		if e, ok := v.(*curated); ok {
			if Has(e, pattern) {
				return true
			}
		}
	}
	return false
}
