package video

import "github.com/tholian-dev/dmgcore/bit"

// TileRow is one 8-pixel row of a tile, stored in the Game Boy's 2-bit
// bit-plane format: bit 7 of each byte is the leftmost pixel, bit 0 the
// rightmost. Combining the corresponding bit from Low and High yields a
// 2-bit color index (0-3).
type TileRow struct {
	Low, High byte
}

// At returns the color index (0-3) of pixel x (0 = leftmost), optionally
// flipped horizontally.
func (r TileRow) At(x int, flipX bool) int {
	bitIndex := uint8(7 - x)
	if flipX {
		bitIndex = uint8(x)
	}
	idx := 0
	if bit.IsSet(bitIndex, r.Low) {
		idx |= 1
	}
	if bit.IsSet(bitIndex, r.High) {
		idx |= 2
	}
	return idx
}

// FetchTileRow reads one 2-byte row of tile data from VRAM. addrInVRAM must
// already point at the correct tile + row offset (16 bytes per tile, 2
// bytes per row).
func FetchTileRow(vram *[0x2000]byte, addrInVRAM uint16) TileRow {
	return TileRow{
		Low:  vram[addrInVRAM],
		High: vram[addrInVRAM+1],
	}
}
