// Package zipfmt decodes and encodes the fixed-layout ZIP records the
// sanitizer needs: the end-of-central-directory record, central directory
// entries, local file headers, and extra-field records.
//
// All integers are little-endian. Decode and Encode work over byte buffers
// of the exact fixed record size; the variable-length tails (filename,
// extra field, comment) are handled by the caller.
//
// ZIP specification: https://pkware.cachefly.net/webdocs/casestudies/APPNOTE.TXT
package zipfmt

import (
	"encoding/binary"
	"fmt"
)

// readBuf consumes little-endian fields from the front of a byte slice.
type readBuf []byte

func (b *readBuf) uint16() uint16 {
	v := binary.LittleEndian.Uint16(*b)
	*b = (*b)[2:]
	return v
}

func (b *readBuf) uint32() uint32 {
	v := binary.LittleEndian.Uint32(*b)
	*b = (*b)[4:]
	return v
}

// writeBuf appends little-endian fields to the front of a byte slice.
type writeBuf []byte

func (b *writeBuf) uint16(v uint16) {
	binary.LittleEndian.PutUint16(*b, v)
	*b = (*b)[2:]
}

func (b *writeBuf) uint32(v uint32) {
	binary.LittleEndian.PutUint32(*b, v)
	*b = (*b)[4:]
}

// EOCD is the end-of-central-directory record, the fixed 22-byte trailer
// that locates the central directory.
type EOCD struct {
	DiskNumber      uint16
	CDStartDisk     uint16
	EntriesThisDisk uint16
	TotalEntries    uint16
	CDSize          uint32
	CDOffset        uint32
	CommentLength   uint16
}

// DecodeEOCD parses the fixed 22-byte trailer. It validates the signature
// and the single-disk, non-Zip64 invariants this tool depends on.
func DecodeEOCD(data []byte) (*EOCD, error) {
	if len(data) < EOCDSize {
		return nil, fmt.Errorf("%w: %d bytes is too short for a trailer", ErrNotZip, len(data))
	}

	b := readBuf(data)
	if sig := b.uint32(); sig != EOCDSignature {
		return nil, fmt.Errorf("%w: trailer signature 0x%08x", ErrNotZip, sig)
	}

	r := &EOCD{
		DiskNumber:      b.uint16(),
		CDStartDisk:     b.uint16(),
		EntriesThisDisk: b.uint16(),
		TotalEntries:    b.uint16(),
		CDSize:          b.uint32(),
		CDOffset:        b.uint32(),
		CommentLength:   b.uint16(),
	}

	if r.DiskNumber != 0 {
		return nil, fmt.Errorf("%w: disk number %d", ErrMultiDisk, r.DiskNumber)
	}
	if r.CDSize == Zip64Marker {
		return nil, ErrZip64
	}

	return r, nil
}

// Encode writes the record into a 22-byte buffer.
func (r *EOCD) Encode(data []byte) {
	b := writeBuf(data[:EOCDSize])
	b.uint32(EOCDSignature)
	b.uint16(r.DiskNumber)
	b.uint16(r.CDStartDisk)
	b.uint16(r.EntriesThisDisk)
	b.uint16(r.TotalEntries)
	b.uint32(r.CDSize)
	b.uint32(r.CDOffset)
	b.uint16(r.CommentLength)
}

// CentralHeader is the fixed 46-byte prefix of a central directory entry.
// Filename, extra field, and comment follow it.
type CentralHeader struct {
	VersionMadeBy     uint16
	VersionNeeded     uint16
	Flags             uint16
	Method            uint16
	ModTime           uint16
	ModDate           uint16
	CRC32             uint32
	CompressedSize    uint32
	UncompressedSize  uint32
	NameLength        uint16
	ExtraLength       uint16
	CommentLength     uint16
	DiskStart         uint16
	InternalAttrs     uint16
	ExternalAttrs     uint32
	LocalHeaderOffset uint32
}

// DecodeCentralHeader parses the fixed 46-byte prefix of one central
// directory entry.
func DecodeCentralHeader(data []byte) (*CentralHeader, error) {
	b := readBuf(data[:CentralHeaderSize])
	if sig := b.uint32(); sig != CentralHeaderSignature {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrCorruptCentralDirectory, sig)
	}

	return &CentralHeader{
		VersionMadeBy:     b.uint16(),
		VersionNeeded:     b.uint16(),
		Flags:             b.uint16(),
		Method:            b.uint16(),
		ModTime:           b.uint16(),
		ModDate:           b.uint16(),
		CRC32:             b.uint32(),
		CompressedSize:    b.uint32(),
		UncompressedSize:  b.uint32(),
		NameLength:        b.uint16(),
		ExtraLength:       b.uint16(),
		CommentLength:     b.uint16(),
		DiskStart:         b.uint16(),
		InternalAttrs:     b.uint16(),
		ExternalAttrs:     b.uint32(),
		LocalHeaderOffset: b.uint32(),
	}, nil
}

// Encode writes the header into a 46-byte buffer.
func (h *CentralHeader) Encode(data []byte) {
	b := writeBuf(data[:CentralHeaderSize])
	b.uint32(CentralHeaderSignature)
	b.uint16(h.VersionMadeBy)
	b.uint16(h.VersionNeeded)
	b.uint16(h.Flags)
	b.uint16(h.Method)
	b.uint16(h.ModTime)
	b.uint16(h.ModDate)
	b.uint32(h.CRC32)
	b.uint32(h.CompressedSize)
	b.uint32(h.UncompressedSize)
	b.uint16(h.NameLength)
	b.uint16(h.ExtraLength)
	b.uint16(h.CommentLength)
	b.uint16(h.DiskStart)
	b.uint16(h.InternalAttrs)
	b.uint32(h.ExternalAttrs)
	b.uint32(h.LocalHeaderOffset)
}

// LocalHeader is the fixed 30-byte prefix of a local file header. Filename
// and extra field follow it.
type LocalHeader struct {
	VersionNeeded    uint16
	Flags            uint16
	Method           uint16
	ModTime          uint16
	ModDate          uint16
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
	NameLength       uint16
	ExtraLength      uint16
}

// DecodeLocalHeader parses the fixed 30-byte prefix of one local file
// header.
func DecodeLocalHeader(data []byte) (*LocalHeader, error) {
	b := readBuf(data[:LocalHeaderSize])
	if sig := b.uint32(); sig != LocalHeaderSignature {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrCorruptLocalHeader, sig)
	}

	return &LocalHeader{
		VersionNeeded:    b.uint16(),
		Flags:            b.uint16(),
		Method:           b.uint16(),
		ModTime:          b.uint16(),
		ModDate:          b.uint16(),
		CRC32:            b.uint32(),
		CompressedSize:   b.uint32(),
		UncompressedSize: b.uint32(),
		NameLength:       b.uint16(),
		ExtraLength:      b.uint16(),
	}, nil
}

// Encode writes the header into a 30-byte buffer.
func (h *LocalHeader) Encode(data []byte) {
	b := writeBuf(data[:LocalHeaderSize])
	b.uint32(LocalHeaderSignature)
	b.uint16(h.VersionNeeded)
	b.uint16(h.Flags)
	b.uint16(h.Method)
	b.uint16(h.ModTime)
	b.uint16(h.ModDate)
	b.uint32(h.CRC32)
	b.uint32(h.CompressedSize)
	b.uint32(h.UncompressedSize)
	b.uint16(h.NameLength)
	b.uint16(h.ExtraLength)
}

// CheckFlags rejects entries with encryption markers or general-purpose
// bits outside the recognized set.
func CheckFlags(flags uint16) error {
	if flags&encryptionFlags != 0 {
		return fmt.Errorf("%w: general purpose bits 0x%04x", ErrEncrypted, flags)
	}
	if flags&^knownFlags != 0 {
		return fmt.Errorf("%w: 0x%04x", ErrUnknownFlags, flags)
	}
	return nil
}
