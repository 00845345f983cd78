package zipfmt_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/KittyHawkCorp/stripzip/internal/zipfmt"
)

// extraRecord appends one (id, length, payload) extra-field record
func extraRecord(b []byte, id uint16, payload []byte) []byte {
	b = binary.LittleEndian.AppendUint16(b, id)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(payload)))
	return append(b, payload...)
}

func TestPurifyExtra(t *testing.T) {
	tests := []struct {
		name         string
		input        []byte
		want         []byte
		wantStripped int
		wantErr      error
	}{
		{
			name:  "empty block",
			input: []byte{},
			want:  []byte{},
		},
		{
			name:         "extended timestamp record",
			input:        extraRecord(nil, 0x5455, []byte{0x01, 0x02, 0x03, 0x04, 0x05}),
			want:         extraRecord(nil, 0xFFFF, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}),
			wantStripped: 1,
		},
		{
			name:         "unix uid/gid record",
			input:        extraRecord(nil, 0x7875, []byte{0x01, 0x04, 0xE8, 0x03, 0x00, 0x00, 0x04, 0xE8, 0x03, 0x00, 0x00}),
			want:         extraRecord(nil, 0xFFFF, bytes.Repeat([]byte{0xFF}, 11)),
			wantStripped: 1,
		},
		{
			name:  "already-stripped record passes through",
			input: extraRecord(nil, 0xFFFF, []byte{0xFF, 0xFF, 0xFF}),
			want:  extraRecord(nil, 0xFFFF, []byte{0xFF, 0xFF, 0xFF}),
		},
		{
			name: "mixed records keep their offsets",
			input: extraRecord(extraRecord(extraRecord(nil,
				0x5455, []byte{0x01, 0x9A, 0x58, 0xC7, 0x68}),
				0xFFFF, []byte{0xFF}),
				0x7875, []byte{0x01, 0x04, 0x00, 0x00, 0x00, 0x00}),
			want: extraRecord(extraRecord(extraRecord(nil,
				0xFFFF, bytes.Repeat([]byte{0xFF}, 5)),
				0xFFFF, []byte{0xFF}),
				0xFFFF, bytes.Repeat([]byte{0xFF}, 6)),
			wantStripped: 2,
		},
		{
			name:         "zero-length timestamp record",
			input:        extraRecord(nil, 0x5455, nil),
			want:         extraRecord(nil, 0xFFFF, nil),
			wantStripped: 1,
		},
		{
			name:    "unknown record id",
			input:   extraRecord(nil, 0x1234, []byte{0xAA, 0xBB}),
			wantErr: zipfmt.ErrUnknownExtraHeader,
		},
		{
			name:    "unknown record after a recognized one",
			input:   extraRecord(extraRecord(nil, 0x5455, []byte{0x01}), 0x0001, []byte{0x00}),
			wantErr: zipfmt.ErrUnknownExtraHeader,
		},
		{
			name:    "truncated record prefix",
			input:   []byte{0x55, 0x54, 0x05},
			wantErr: zipfmt.ErrCorruptExtraField,
		},
		{
			name:    "payload overruns declared length",
			input:   extraRecord(nil, 0x5455, []byte{0x01, 0x02})[:4],
			wantErr: zipfmt.ErrCorruptExtraField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := append([]byte(nil), tt.input...)
			stripped, err := zipfmt.PurifyExtra(data)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("PurifyExtra() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("PurifyExtra() failed: %v", err)
			}
			if stripped != tt.wantStripped {
				t.Errorf("PurifyExtra() stripped = %d, want %d", stripped, tt.wantStripped)
			}
			if !bytes.Equal(data, tt.want) {
				t.Errorf("PurifyExtra() block = % x, want % x", data, tt.want)
			}
			if len(data) != len(tt.input) {
				t.Errorf("PurifyExtra() changed block length: %d, want %d", len(data), len(tt.input))
			}
		})
	}
}

func TestPurifyExtra_Idempotent(t *testing.T) {
	data := extraRecord(extraRecord(nil,
		0x5455, []byte{0x01, 0x02, 0x03, 0x04, 0x05}),
		0x7875, []byte{0x01, 0x04, 0xE8, 0x03, 0x00, 0x00})

	if _, err := zipfmt.PurifyExtra(data); err != nil {
		t.Fatalf("first PurifyExtra() failed: %v", err)
	}
	first := append([]byte(nil), data...)

	stripped, err := zipfmt.PurifyExtra(data)
	if err != nil {
		t.Fatalf("second PurifyExtra() failed: %v", err)
	}
	if stripped != 0 {
		t.Errorf("second PurifyExtra() stripped = %d, want 0", stripped)
	}
	if !bytes.Equal(data, first) {
		t.Errorf("second PurifyExtra() changed the block: % x, want % x", data, first)
	}
}
