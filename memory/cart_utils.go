package memory

import "strings"

// cleanTitle extracts a printable ASCII title from the 16-byte (or, on
// CGB-flagged headers, 15-byte) title field, stopping at the first NUL and
// replacing any other non-printable byte with '?'.
func cleanTitle(titleBytes []byte) string {
	var b strings.Builder
	for _, c := range titleBytes {
		if c == 0x00 {
			break
		}
		if c < 0x20 || c > 0x7E {
			b.WriteByte('?')
			continue
		}
		b.WriteByte(c)
	}
	title := strings.TrimSpace(b.String())
	if title == "" {
		return "(Untitled)"
	}
	return title
}
