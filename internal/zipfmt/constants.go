package zipfmt

// Record signatures, little-endian on the wire.
const (
	// LocalHeaderSignature marks a local file header ("PK\x03\x04").
	LocalHeaderSignature uint32 = 0x04034b50
	// CentralHeaderSignature marks a central directory entry ("PK\x01\x02").
	CentralHeaderSignature uint32 = 0x02014b50
	// EOCDSignature marks the end-of-central-directory record ("PK\x05\x06").
	EOCDSignature uint32 = 0x06054b50
)

// Fixed record sizes in bytes. Variable-length tails (filename, extra
// field, comment) follow the fixed prefix.
const (
	EOCDSize          = 22
	CentralHeaderSize = 46
	LocalHeaderSize   = 30
	ExtraHeaderSize   = 4 // id (u16) + length (u16)
)

// General-purpose bit flags.
const (
	FlagEncrypted        uint16 = 0x1 << 0
	FlagMethod6Detail    uint16 = 0x3 << 1
	FlagNotSeekable      uint16 = 0x1 << 3
	FlagEnhancedDeflate  uint16 = 0x1 << 4
	FlagPatchData        uint16 = 0x1 << 5
	FlagStrongEncryption uint16 = 0x1 << 6
	FlagUTF8Encoding     uint16 = 0x1 << 11
	FlagCDEncrypted      uint16 = 0x1 << 13
)

// encryptionFlags are the bits that mark an entry as encrypted in some form.
const encryptionFlags = FlagEncrypted | FlagStrongEncryption | FlagCDEncrypted

// knownFlags is every general-purpose bit this tool recognizes. Anything
// outside this set means the entry uses a feature we cannot reason about.
const knownFlags = FlagEncrypted | FlagMethod6Detail | FlagNotSeekable |
	FlagEnhancedDeflate | FlagPatchData | FlagStrongEncryption |
	FlagUTF8Encoding | FlagCDEncrypted

// Extra-field record ids.
const (
	// ExtraIDExtendedTimestamp carries mtime/atime/ctime (Info-ZIP "UT").
	ExtraIDExtendedTimestamp uint16 = 0x5455
	// ExtraIDUnixUIDGID carries Unix UID/GID (Info-ZIP "ux", new format).
	ExtraIDUnixUIDGID uint16 = 0x7875
	// ExtraIDStripped replaces the id of a blanked record. Payload bytes
	// become ExtraFiller. Already-stripped records pass through, which
	// makes a second run idempotent.
	ExtraIDStripped uint16 = 0xFFFF
)

// ExtraFiller overwrites the payload of a blanked extra record.
const ExtraFiller byte = 0xFF

// Zip64Marker in the EOCD size-of-central-directory field signals the
// 64-bit extension, which this tool does not support.
const Zip64Marker uint32 = 0xFFFFFFFF
