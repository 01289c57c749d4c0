package memory

import "testing"

// buildTestROM builds a minimal, header-valid ROM image of the given
// cartridge-type byte and ROM bank count, suitable for NewCartridgeWithData.
func buildTestROM(cartType byte, romBanks int) []byte {
	size := romBanks * 16 * 1024
	if size < 0x150 {
		size = 0x8000
	}
	data := make([]byte, size)
	copy(data[titleAddress:titleAddress+16], []byte("TESTROM"))
	data[cartTypeAddress] = cartType
	data[romSizeAddress] = 0x00 // 32KB, 2 banks
	data[ramSizeAddress] = 0x02 // 8KB RAM

	sum := computeHeaderChecksum(data)
	data[headerChecksumAddress] = sum
	return data
}

func TestNewCartridgeWithDataParsesHeader(t *testing.T) {
	data := buildTestROM(0x00, 2)
	cart, err := NewCartridgeWithData(data)
	if err != nil {
		t.Fatalf("unexpected header error: %v", err)
	}
	if cart.Title() != "TESTROM" {
		t.Fatalf("Title() = %q, want TESTROM", cart.Title())
	}
	if cart.Kind() != KindNoMBC {
		t.Fatalf("Kind() = %v, want KindNoMBC", cart.Kind())
	}
}

func TestNewCartridgeWithDataRejectsBadChecksum(t *testing.T) {
	data := buildTestROM(0x00, 2)
	data[headerChecksumAddress] ^= 0xFF // corrupt it
	cart, err := NewCartridgeWithData(data)
	if err == nil {
		t.Fatalf("expected a header checksum error")
	}
	if _, ok := err.(*HeaderError); !ok {
		t.Fatalf("expected *HeaderError, got %T", err)
	}
	if cart == nil {
		t.Fatalf("a bad checksum should still return a usable cartridge")
	}
}

func TestMBCDispatchByCartridgeType(t *testing.T) {
	cases := []struct {
		cartType byte
		want     MBCKind
	}{
		{0x00, KindNoMBC},
		{0x01, KindMBC1},
		{0x03, KindMBC1},
		{0x06, KindMBC2},
		{0x13, KindMBC3},
		{0x1B, KindMBC5},
	}
	for _, c := range cases {
		data := buildTestROM(c.cartType, 2)
		cart, err := NewCartridgeWithData(data)
		if err != nil {
			t.Fatalf("cartType %#02x: unexpected error %v", c.cartType, err)
		}
		if cart.Kind() != c.want {
			t.Fatalf("cartType %#02x: Kind() = %v, want %v", c.cartType, cart.Kind(), c.want)
		}
	}
}

func TestMBC1BankZeroQuirkAndBanking(t *testing.T) {
	rom := make([]byte, 16*1024*4) // 4 banks
	for bank := 0; bank < 4; bank++ {
		for i := 0; i < 16*1024; i++ {
			rom[bank*16*1024+i] = byte(bank)
		}
	}
	mbc := NewMBC1(rom, 1)

	// selecting bank 0 in the low 5 bits actually maps bank 1
	mbc.Write(0x2000, 0x00)
	if got := mbc.Read(0x4000); got != 1 {
		t.Fatalf("selecting ROM bank 0 should alias to bank 1, read %d", got)
	}

	mbc.Write(0x2000, 0x03)
	if got := mbc.Read(0x4000); got != 3 {
		t.Fatalf("ROM bank 3 selected, read %d", got)
	}
}

func TestMBC1RAMGatedByEnable(t *testing.T) {
	rom := make([]byte, 16*1024*2)
	mbc := NewMBC1(rom, 1)

	mbc.Write(0xA000, 0x42) // RAM not enabled yet
	if got := mbc.Read(0xA000); got != 0xFF {
		t.Fatalf("RAM write while disabled should be dropped, read %#02x", got)
	}

	mbc.Write(0x0000, 0x0A) // enable RAM
	mbc.Write(0xA000, 0x42)
	if got := mbc.Read(0xA000); got != 0x42 {
		t.Fatalf("RAM read after enable = %#02x, want 0x42", got)
	}
}
