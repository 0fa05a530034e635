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

// decodeULEB128 decodes an unsigned little-endian base-128 integer, per
// "DWARF4 Standard" figure 46, returning the value and the number of bytes
// consumed from encoded.
func decodeULEB128(encoded []byte) (uint64, int) {
	var result uint64
	var shift uint64
	var n int
	for _, v := range encoded {
		n++
		result |= uint64(v&0x7f) << shift
		if v&0x80 == 0 {
			break
		}
		shift += 7
	}
	return result, n
}

// decodeSLEB128 decodes a signed little-endian base-128 integer, per
// "DWARF4 Standard" figure 47.
func decodeSLEB128(encoded []byte) (int64, int) {
	const size = 64
	var result int64
	var shift uint64
	var v byte
	var n int
	for _, v = range encoded {
		n++
		result |= int64(v&0x7f) << shift
		shift += 7
		if v&0x80 == 0 {
			break
		}
	}
	if shift < size && v&0x40 != 0 {
		result |= -1 << shift
	}
	return result, n
}
