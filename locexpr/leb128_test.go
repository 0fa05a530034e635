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

package locexpr

import "testing"

func TestDecodeULEB128(t *testing.T) {
	cases := []struct {
		encoded []byte
		value   uint64
		n       int
	}{
		{[]byte{0x00}, 0, 1},
		{[]byte{0x02}, 2, 1},
		{[]byte{0x7f}, 127, 1},
		{[]byte{0x80, 0x01}, 128, 2},
		{[]byte{0xe5, 0x8e, 0x26}, 624485, 3},
	}
	for _, c := range cases {
		v, n := decodeULEB128(c.encoded)
		if v != c.value || n != c.n {
			t.Errorf("decodeULEB128(% x) = (%d, %d), want (%d, %d)", c.encoded, v, n, c.value, c.n)
		}
	}
}

func TestDecodeSLEB128(t *testing.T) {
	cases := []struct {
		encoded []byte
		value   int64
		n       int
	}{
		{[]byte{0x02}, 2, 1},
		{[]byte{0x7e}, -2, 1},
		{[]byte{0xff, 0x00}, 127, 2},
		{[]byte{0x81, 0x7f}, -127, 2},
	}
	for _, c := range cases {
		v, n := decodeSLEB128(c.encoded)
		if v != c.value || n != c.n {
			t.Errorf("decodeSLEB128(% x) = (%d, %d), want (%d, %d)", c.encoded, v, n, c.value, c.n)
		}
	}
}
