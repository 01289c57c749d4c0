package bit

import "testing"

func TestSetResetRoundTrip(t *testing.T) {
	v := byte(0)
	v = Set(3, v)
	if !IsSet(3, v) {
		t.Fatalf("expected bit 3 set, got %08b", v)
	}
	v = Reset(3, v)
	if IsSet(3, v) {
		t.Fatalf("expected bit 3 clear, got %08b", v)
	}
}

func TestCombineLowHigh(t *testing.T) {
	v := Combine(0x12, 0x34)
	if v != 0x1234 {
		t.Fatalf("Combine(0x12, 0x34) = 0x%04X, want 0x1234", v)
	}
	if High(v) != 0x12 || Low(v) != 0x34 {
		t.Fatalf("High/Low round trip failed for 0x%04X", v)
	}
}

func TestExtractBits(t *testing.T) {
	if got := ExtractBits(0b1011_0100, 7, 4); got != 0b1011 {
		t.Fatalf("ExtractBits high nibble = %04b, want 1011", got)
	}
	if got := ExtractBits(0b1011_0100, 3, 0); got != 0b0100 {
		t.Fatalf("ExtractBits low nibble = %04b, want 0100", got)
	}
}

func TestCheckedAddCarries(t *testing.T) {
	result, half, carry := CheckedAdd(0x0F, 0x01)
	if result != 0x10 || !half || carry {
		t.Fatalf("CheckedAdd(0x0F,0x01) = %02X half=%v carry=%v, want 10 true false", result, half, carry)
	}
	result, half, carry = CheckedAdd(0xFF, 0x01)
	if result != 0x00 || !half || !carry {
		t.Fatalf("CheckedAdd(0xFF,0x01) = %02X half=%v carry=%v, want 00 true true", result, half, carry)
	}
}

func TestCheckedSubBorrows(t *testing.T) {
	result, half, borrow := CheckedSub(0x10, 0x01)
	if result != 0x0F || !half || borrow {
		t.Fatalf("CheckedSub(0x10,0x01) = %02X half=%v borrow=%v, want 0F true false", result, half, borrow)
	}
	result, half, borrow = CheckedSub(0x00, 0x01)
	if result != 0xFF || !borrow {
		t.Fatalf("CheckedSub(0x00,0x01) = %02X borrow=%v, want FF true", result, borrow)
	}
}

func TestPut(t *testing.T) {
	if Put(2, 0x00, true) != 0x04 {
		t.Fatalf("Put(2, 0, true) should set bit 2")
	}
	if Put(2, 0xFF, false) != 0xFB {
		t.Fatalf("Put(2, 0xFF, false) should clear bit 2")
	}
}
