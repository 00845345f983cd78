// Package sanitizer walks a ZIP archive's central directory and rewrites,
// in place, every field that carries a modification timestamp or Unix
// UID/GID: the mod time/date of each central directory entry and local
// file header, and the 0x5455 / 0x7875 extra-field records of both.
//
// Compressed data, filenames, checksums, and the total file length are
// never touched. The walk fails hard at the first structural problem;
// entries already patched stay patched (there is no rollback or backup,
// on purpose).
package sanitizer

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/KittyHawkCorp/stripzip/internal/config"
	"github.com/KittyHawkCorp/stripzip/internal/zipfmt"
)

// File is the byte store the sanitizer operates on: pre-opened,
// random-access, readable and writable. *os.File satisfies it.
type File interface {
	io.ReaderAt
	io.WriterAt
}

// Result summarizes a completed run.
type Result struct {
	// Entries is the number of archive entries sanitized.
	Entries int
	// ExtrasStripped is the number of extra-field records blanked across
	// both central directory and local headers.
	ExtrasStripped int
}

// Sanitizer performs one sequential sanitizing pass over a single archive.
// It is not safe for concurrent use; the store is both read source and
// write destination.
type Sanitizer struct {
	file   File
	size   int64
	dryRun bool
	logger *slog.Logger
}

// New returns a Sanitizer over a pre-opened archive of the given size.
func New(file File, size int64, cfg *config.Config) *Sanitizer {
	return &Sanitizer{
		file:   file,
		size:   size,
		dryRun: cfg.DryRun,
		logger: slog.With("file", cfg.ArchiveFile),
	}
}

// Run sanitizes every entry in the archive. Any error is fatal to the
// run: entries processed before the failure remain mutated, entries after
// it remain untouched.
func (s *Sanitizer) Run() (*Result, error) {
	if s.size < zipfmt.EOCDSize {
		return nil, fmt.Errorf("%w: file is only %d bytes", zipfmt.ErrNotZip, s.size)
	}

	// The trailer is read from exactly the last 22 bytes. An archive with
	// a trailing comment fails the signature check here.
	buf, err := s.readRange(s.size-zipfmt.EOCDSize, zipfmt.EOCDSize)
	if err != nil {
		return nil, err
	}
	eocd, err := zipfmt.DecodeEOCD(buf)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("found end of central directory",
		"entries", eocd.TotalEntries,
		"cd_offset", eocd.CDOffset,
		"cd_size", eocd.CDSize,
	)

	res := &Result{}
	total := int(eocd.TotalEntries)

	offset := int64(eocd.CDOffset)
	for i := 0; i < total; i++ {
		next, err := s.sanitizeEntry(offset, i, total, res)
		if err != nil {
			return nil, fmt.Errorf("entry %d/%d: %w", i+1, total, err)
		}
		offset = next
	}

	s.logger.Info("archive sanitized",
		"entries", res.Entries,
		"extras_stripped", res.ExtrasStripped,
		"dry_run", s.dryRun,
	)

	return res, nil
}

// sanitizeEntry processes one central directory entry and the local file
// header it points at, and returns the offset of the next entry.
func (s *Sanitizer) sanitizeEntry(offset int64, index, total int, res *Result) (int64, error) {
	buf, err := s.readRange(offset, zipfmt.CentralHeaderSize)
	if err != nil {
		return 0, err
	}
	h, err := zipfmt.DecodeCentralHeader(buf)
	if err != nil {
		return 0, err
	}
	if err := zipfmt.CheckFlags(h.Flags); err != nil {
		return 0, err
	}

	name, err := s.readRange(offset+zipfmt.CentralHeaderSize, int(h.NameLength))
	if err != nil {
		return 0, err
	}

	s.logger.Info("sanitizing entry",
		"index", index+1,
		"total", total,
		"offset", offset,
		"name", string(name),
	)
	s.logger.Debug("central directory entry",
		"method", h.Method,
		"crc32", h.CRC32,
		"compressed_size", h.CompressedSize,
		"uncompressed_size", h.UncompressedSize,
		"local_header_offset", h.LocalHeaderOffset,
	)

	h.ModTime = 0
	h.ModDate = 0
	h.Encode(buf)
	if err := s.patch(offset, buf); err != nil {
		return 0, err
	}

	extraOffset := offset + zipfmt.CentralHeaderSize + int64(h.NameLength)
	if h.ExtraLength > 0 {
		stripped, err := s.sanitizeExtra(extraOffset, int(h.ExtraLength))
		if err != nil {
			return 0, fmt.Errorf("central directory extra field of %q: %w", name, err)
		}
		res.ExtrasStripped += stripped
	}

	if err := s.sanitizeLocalHeader(int64(h.LocalHeaderOffset), name, res); err != nil {
		return 0, err
	}

	res.Entries++

	// Filename and comment bytes are left untouched; they only advance
	// the offset to the next entry.
	return extraOffset + int64(h.ExtraLength) + int64(h.CommentLength), nil
}

// sanitizeLocalHeader re-validates and sanitizes the local file header a
// central directory entry points at.
func (s *Sanitizer) sanitizeLocalHeader(offset int64, name []byte, res *Result) error {
	buf, err := s.readRange(offset, zipfmt.LocalHeaderSize)
	if err != nil {
		return err
	}
	h, err := zipfmt.DecodeLocalHeader(buf)
	if err != nil {
		return err
	}
	if err := zipfmt.CheckFlags(h.Flags); err != nil {
		return err
	}

	h.ModTime = 0
	h.ModDate = 0
	h.Encode(buf)
	if err := s.patch(offset, buf); err != nil {
		return err
	}

	if h.ExtraLength > 0 {
		extraOffset := offset + zipfmt.LocalHeaderSize + int64(h.NameLength)
		stripped, err := s.sanitizeExtra(extraOffset, int(h.ExtraLength))
		if err != nil {
			return fmt.Errorf("local header extra field of %q: %w", name, err)
		}
		res.ExtrasStripped += stripped
	}

	return nil
}

// sanitizeExtra reads an extra field block, purifies it, and flushes it
// back at the same offset.
func (s *Sanitizer) sanitizeExtra(offset int64, length int) (int, error) {
	buf, err := s.readRange(offset, length)
	if err != nil {
		return 0, err
	}

	stripped, err := zipfmt.PurifyExtra(buf)
	if err != nil {
		return 0, err
	}

	if err := s.patch(offset, buf); err != nil {
		return 0, err
	}
	return stripped, nil
}
