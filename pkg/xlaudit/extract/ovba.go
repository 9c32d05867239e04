package extract

import (
	"encoding/binary"
	"errors"
)

// decompressContainer expands a VBA compressed container as stored in the
// project binary. The container is a 0x01 signature byte followed by 4096
// byte chunks, each with a 2 byte header carrying the chunk size and a
// compressed flag. Compressed chunks hold flag bytes followed by eight
// literal bytes or copy tokens each.
func decompressContainer(data []byte) ([]byte, error) {
	if len(data) == 0 || data[0] != 0x01 {
		return nil, errors.New("invalid compressed container signature")
	}

	var out []byte
	pos := 1

	for pos+1 < len(data) {
		header := binary.LittleEndian.Uint16(data[pos : pos+2])
		pos += 2

		chunkSize := int(header&0x0FFF) + 3
		compressed := header&0x8000 != 0
		chunkEnd := pos + chunkSize - 2
		if chunkEnd > len(data) {
			chunkEnd = len(data)
		}

		if !compressed {
			end := pos + 4096
			if end > len(data) {
				end = len(data)
			}
			out = append(out, data[pos:end]...)
			pos = end
			continue
		}

		chunkStart := len(out)
		for pos < chunkEnd {
			flags := data[pos]
			pos++
			for bit := 0; bit < 8 && pos < chunkEnd; bit++ {
				if flags&(1<<bit) == 0 {
					out = append(out, data[pos])
					pos++
					continue
				}
				if pos+1 >= len(data) {
					return out, nil
				}
				token := binary.LittleEndian.Uint16(data[pos : pos+2])
				pos += 2

				offset, length := decodeCopyToken(token, len(out)-chunkStart)
				src := len(out) - offset
				if src < 0 {
					return out, errors.New("copy token offset out of range")
				}
				// Ranges may overlap; copy byte by byte.
				for i := 0; i < length; i++ {
					out = append(out, out[src+i])
				}
			}
		}
	}

	return out, nil
}

// decodeCopyToken splits a copy token into offset and length. The bit split
// between the two fields depends on how many bytes of the current chunk are
// already decompressed.
func decodeCopyToken(token uint16, decompressed int) (offset, length int) {
	bitCount := 4
	for 1<<bitCount < decompressed {
		bitCount++
	}
	if bitCount > 12 {
		bitCount = 12
	}
	lengthBits := 16 - bitCount
	lengthMask := uint16(1<<lengthBits) - 1

	offset = int(token>>lengthBits) + 1
	length = int(token&lengthMask) + 3
	return offset, length
}
