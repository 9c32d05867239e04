package extract

import (
	"bytes"
	"testing"
)

func TestDecompressContainerRaw(t *testing.T) {
	// Uncompressed chunk: high bit of the header clear, data copied as is.
	data := []byte{0x01, 0xFF, 0x3F, 'h', 'e', 'l', 'l', 'o'}

	out, err := decompressContainer(data)
	if err != nil {
		t.Fatalf("decompressContainer failed: %v", err)
	}
	if string(out) != "hello" {
		t.Errorf("Expected %q, got %q", "hello", out)
	}
}

func TestDecompressContainerLiterals(t *testing.T) {
	// Compressed chunk of pure literals: flag byte 0x00, eight literal bytes.
	payload := append([]byte{0x00}, []byte("attribut")...)
	header := uint16(0x8000 | 0x3000 | uint16(len(payload)+2-3))
	data := []byte{0x01, byte(header), byte(header >> 8)}
	data = append(data, payload...)

	out, err := decompressContainer(data)
	if err != nil {
		t.Fatalf("decompressContainer failed: %v", err)
	}
	if string(out) != "attribut" {
		t.Errorf("Expected %q, got %q", "attribut", out)
	}
}

func TestDecompressContainerCopyToken(t *testing.T) {
	// Three literals then a copy token repeating them: "abc" -> "abcabc".
	// Three bytes decompressed gives a 4 bit offset field, so the token is
	// (offset-1)<<12 | (length-3) = 2<<12 | 0.
	payload := []byte{0x08, 'a', 'b', 'c', 0x00, 0x20}
	header := uint16(0x8000 | 0x3000 | uint16(len(payload)+2-3))
	data := []byte{0x01, byte(header), byte(header >> 8)}
	data = append(data, payload...)

	out, err := decompressContainer(data)
	if err != nil {
		t.Fatalf("decompressContainer failed: %v", err)
	}
	if string(out) != "abcabc" {
		t.Errorf("Expected %q, got %q", "abcabc", out)
	}
}

func TestDecompressContainerOverlappingCopy(t *testing.T) {
	// A copy token whose length exceeds its offset repeats the source run.
	// One literal 'x' then offset 1, length 5 gives "xxxxxx".
	token := uint16(0<<12 | 2)
	payload := []byte{0x02, 'x', byte(token), byte(token >> 8)}
	header := uint16(0x8000 | 0x3000 | uint16(len(payload)+2-3))
	data := []byte{0x01, byte(header), byte(header >> 8)}
	data = append(data, payload...)

	out, err := decompressContainer(data)
	if err != nil {
		t.Fatalf("decompressContainer failed: %v", err)
	}
	if !bytes.Equal(out, []byte("xxxxxx")) {
		t.Errorf("Expected %q, got %q", "xxxxxx", out)
	}
}

func TestDecompressContainerBadSignature(t *testing.T) {
	if _, err := decompressContainer([]byte{0x00, 0x01, 0x02}); err == nil {
		t.Error("Expected error for bad signature")
	}
	if _, err := decompressContainer(nil); err == nil {
		t.Error("Expected error for empty input")
	}
}

func TestDecodeCopyToken(t *testing.T) {
	tests := []struct {
		token        uint16
		decompressed int
		offset       int
		length       int
	}{
		// 4 bit offset field at the start of a chunk.
		{0x2000, 3, 3, 3},
		// Still 4 bits at 16 decompressed bytes.
		{0x1005, 16, 2, 8},
		// 5 bit offset field once past 16 bytes.
		{0x0805, 17, 2, 8},
		// 12 bit field cap for large chunks.
		{0xFFF0, 5000, 4096, 3},
	}

	for _, tt := range tests {
		offset, length := decodeCopyToken(tt.token, tt.decompressed)
		if offset != tt.offset || length != tt.length {
			t.Errorf("decodeCopyToken(%#x, %d) = (%d, %d), expected (%d, %d)",
				tt.token, tt.decompressed, offset, length, tt.offset, tt.length)
		}
	}
}
