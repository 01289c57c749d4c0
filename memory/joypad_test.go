package memory

import "testing"

func TestJoypadReadsAllOnesWhenNothingSelected(t *testing.T) {
	j := NewJoypad()
	j.Write(0x30) // select neither group
	if j.Read() != 0xFF {
		t.Fatalf("Read() = %#02x, want 0xFF with no group selected", j.Read())
	}
}

func TestJoypadDirectionSelection(t *testing.T) {
	j := NewJoypad()
	j.SetState(0xFF &^ byte(JoypadRight)) // press Right only
	j.Write(0x20)                         // select direction keys (bit 4 low)
	got := j.Read()
	if got&0x01 != 0 {
		t.Fatalf("Right should read low (pressed), got %#02x", got)
	}
	if got&0x02 == 0 {
		t.Fatalf("Left should read high (released), got %#02x", got)
	}
}

func TestJoypadSetStateReportsFallingEdge(t *testing.T) {
	j := NewJoypad()
	j.Write(0x20) // direction keys selected
	if raised := j.SetState(0xFF); raised {
		t.Fatalf("no buttons pressed yet, should not raise an interrupt")
	}
	if raised := j.SetState(0xFF &^ byte(JoypadDown)); !raised {
		t.Fatalf("pressing a selected button should raise an interrupt")
	}
}

func TestJoypadSnapshotRoundTrip(t *testing.T) {
	j := NewJoypad()
	j.Write(0x10)
	j.SetState(0x0F)

	snap := j.Export()
	restored := NewJoypad()
	restored.Import(snap)

	if restored.Read() != j.Read() {
		t.Fatalf("Read() mismatch after Export/Import round trip")
	}
}
