package zipfmt

import (
	"encoding/binary"
	"fmt"
)

// PurifyExtra sanitizes an extra field block in place. The block is a
// sequence of (id, length, payload) records whose encoded sizes must sum
// exactly to len(data), the enclosing header's declared extra length.
//
// Records carrying timestamps (0x5455) or Unix UID/GID (0x7875) get their
// id rewritten to ExtraIDStripped and their payload overwritten with
// ExtraFiller bytes. Lengths are preserved so later records keep their
// offsets. Records already stripped pass through. Any other id aborts:
// this is an allow-list, unrecognized metadata is never silently
// destroyed.
//
// Returns the number of records rewritten.
func PurifyExtra(data []byte) (int, error) {
	stripped := 0

	for offset := 0; offset < len(data); {
		if offset+ExtraHeaderSize > len(data) {
			return stripped, fmt.Errorf("%w: record prefix at offset %d", ErrCorruptExtraField, offset)
		}

		id := binary.LittleEndian.Uint16(data[offset:])
		length := int(binary.LittleEndian.Uint16(data[offset+2:]))

		payload := offset + ExtraHeaderSize
		if payload+length > len(data) {
			return stripped, fmt.Errorf("%w: record 0x%04x at offset %d declares %d payload bytes, %d remain",
				ErrCorruptExtraField, id, offset, length, len(data)-payload)
		}

		switch id {
		case ExtraIDExtendedTimestamp, ExtraIDUnixUIDGID:
			binary.LittleEndian.PutUint16(data[offset:], ExtraIDStripped)
			for i := payload; i < payload+length; i++ {
				data[i] = ExtraFiller
			}
			stripped++

		case ExtraIDStripped:
			// Blanked on a previous run.

		default:
			return stripped, fmt.Errorf("%w: id 0x%04x, length %d", ErrUnknownExtraHeader, id, length)
		}

		offset = payload + length
	}

	return stripped, nil
}
