package video

import "github.com/tholian-dev/dmgcore/bit"

// renderScanline draws the current ly into the frame buffer. It runs once,
// atomically, at the mode-3/mode-0 boundary rather than pixel-by-pixel;
// this reproduces the same visible output as a dot-exact pixel FIFO for
// any scanline whose registers are not rewritten mid-transfer.
func (p *PPU) renderScanline() {
	if int(p.ly) >= Height {
		return
	}
	p.sprites.Clear()

	bgRaw := [Width]int{}
	p.drawBackground(&bgRaw)
	p.drawWindow(&bgRaw)

	final := [Width]int{}
	for x := 0; x < Width; x++ {
		final[x] = int((p.bgp >> (bgRaw[x] * 2)) & 0x03)
	}
	p.drawSprites(&bgRaw, &final)

	for x := 0; x < Width; x++ {
		p.frame.SetPixel(x, int(p.ly), byte(final[x]))
	}
}

func (p *PPU) bgTileMapBase() uint16 {
	if bit.IsSet(3, p.lcdc) {
		return 0x9C00
	}
	return 0x9800
}

func (p *PPU) windowTileMapBase() uint16 {
	if bit.IsSet(6, p.lcdc) {
		return 0x9C00
	}
	return 0x9800
}

// tileDataAddr resolves a tile index to its base VRAM offset, honoring
// LCDC bit 4's signed/unsigned addressing mode switch.
func (p *PPU) tileDataAddr(tileIndex byte) uint16 {
	if bit.IsSet(4, p.lcdc) {
		return 0x8000 + uint16(tileIndex)*16
	}
	return uint16(0x9000 + int(int8(tileIndex))*16)
}

func (p *PPU) bgWindowEnabled() bool {
	return bit.IsSet(0, p.lcdc)
}

func (p *PPU) drawBackground(out *[Width]int) {
	if !p.bgWindowEnabled() {
		return
	}
	y := int(p.ly) + int(p.scy)
	y &= 0xFF
	tileRow := y / 8
	rowInTile := y % 8

	for x := 0; x < Width; x++ {
		scrolledX := (x + int(p.scx)) & 0xFF
		tileCol := scrolledX / 8
		colInTile := scrolledX % 8

		mapAddr := p.bgTileMapBase() + uint16(tileRow*32+tileCol) - 0x8000
		tileIndex := p.VRAM[mapAddr]
		rowAddr := p.tileDataAddr(tileIndex) - 0x8000 + uint16(rowInTile*2)
		row := TileRow{Low: p.VRAM[rowAddr], High: p.VRAM[rowAddr+1]}
		out[x] = row.At(colInTile, false)
	}
}

func (p *PPU) drawWindow(out *[Width]int) {
	if !p.bgWindowEnabled() || !p.windowVisibleOnLine() {
		return
	}
	wx := int(p.wx) - 7
	if wx >= Width {
		return
	}
	rowInTile := p.windowLineCounter % 8
	tileRow := p.windowLineCounter / 8
	usedWindow := false

	for x := 0; x < Width; x++ {
		if x < wx {
			continue
		}
		usedWindow = true
		col := x - wx
		tileCol := col / 8
		colInTile := col % 8

		mapAddr := p.windowTileMapBase() + uint16(tileRow*32+tileCol) - 0x8000
		tileIndex := p.VRAM[mapAddr]
		rowAddr := p.tileDataAddr(tileIndex) - 0x8000 + uint16(rowInTile*2)
		row := TileRow{Low: p.VRAM[rowAddr], High: p.VRAM[rowAddr+1]}
		out[x] = row.At(colInTile, false)
	}
	if usedWindow {
		p.windowLineCounter++
	}
}

func (p *PPU) drawSprites(bgRaw *[Width]int, out *[Width]int) {
	if !bit.IsSet(1, p.lcdc) {
		return
	}
	height := 8
	if bit.IsSet(2, p.lcdc) {
		height = 16
	}

	visible := make([]int, 0, 10)
	for i := 0; i < 40 && len(visible) < 10; i++ {
		y := int(p.OAM[i*4]) - 16
		if int(p.ly) >= y && int(p.ly) < y+height {
			visible = append(visible, i)
		}
	}

	for _, i := range visible {
		y := int(p.OAM[i*4]) - 16
		x := int(p.OAM[i*4+1]) - 8
		tileIndex := p.OAM[i*4+2]
		attrs := p.OAM[i*4+3]
		flipY := bit.IsSet(6, attrs)
		flipX := bit.IsSet(5, attrs)
		behindBG := bit.IsSet(7, attrs)
		palette := p.obp0
		if bit.IsSet(4, attrs) {
			palette = p.obp1
		}

		if height == 16 {
			tileIndex &^= 0x01
		}
		line := int(p.ly) - y
		if flipY {
			line = height - 1 - line
		}
		if height == 16 && line >= 8 {
			tileIndex++
			line -= 8
		}

		rowAddr := uint16(tileIndex)*16 + uint16(line*2)
		row := TileRow{Low: p.VRAM[rowAddr], High: p.VRAM[rowAddr+1]}

		for px := 0; px < 8; px++ {
			screenX := x + px
			if screenX < 0 || screenX >= Width {
				continue
			}
			if !p.sprites.TryClaim(screenX, i, x) {
				continue
			}
			colorIdx := row.At(px, flipX)
			if colorIdx == 0 {
				continue // transparent
			}
			if behindBG && bgRaw[screenX] != 0 {
				continue
			}
			out[screenX] = int((palette >> (colorIdx * 2)) & 0x03)
		}
	}
}
