package zipfmt

import "errors"

// Sentinel errors for archive validation. Use errors.Is in callers.
var (
	// ErrNotZip means the trailer is not a valid end-of-central-directory
	// record.
	ErrNotZip = errors.New("no end of central directory record; not a ZIP file, or the archive has a trailing comment")
	// ErrMultiDisk means the archive is split across multiple disks.
	ErrMultiDisk = errors.New("split (multi-disk) archives are not supported")
	// ErrZip64 means the archive uses the 64-bit size extension.
	ErrZip64 = errors.New("Zip64 archives are not supported")
	// ErrCorruptCentralDirectory means a central directory entry has a bad
	// signature.
	ErrCorruptCentralDirectory = errors.New("bad central directory entry signature")
	// ErrCorruptLocalHeader means a local file header has a bad signature.
	ErrCorruptLocalHeader = errors.New("bad local file header signature")
	// ErrCorruptExtraField means an extra field's records do not sum to its
	// declared length.
	ErrCorruptExtraField = errors.New("extra field records overrun declared length")
	// ErrEncrypted means an entry has an encryption flag set.
	ErrEncrypted = errors.New("entry is encrypted")
	// ErrUnknownFlags means an entry has general-purpose bits outside the
	// recognized set.
	ErrUnknownFlags = errors.New("entry has unrecognized general purpose bits")
	// ErrUnknownExtraHeader means an extra field carries a record id this
	// tool does not know how to sanitize. Unknown records are never
	// silently stripped; they may carry identity data of their own.
	ErrUnknownExtraHeader = errors.New("unknown extra field record")
	// ErrTruncated means a record extends past the end of the archive.
	ErrTruncated = errors.New("archive truncated")
)
