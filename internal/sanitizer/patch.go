package sanitizer

import (
	"errors"
	"fmt"
	"io"

	"github.com/KittyHawkCorp/stripzip/internal/zipfmt"
)

// readRange reads exactly n bytes at off into a buffer sized to the
// declared length.
func (s *Sanitizer) readRange(off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := s.file.ReadAt(buf, off); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: %d bytes at offset %d", zipfmt.ErrTruncated, n, off)
		}
		return nil, fmt.Errorf("failed to read %d bytes at offset %d: %w", n, off, err)
	}
	return buf, nil
}

// patch writes data back at off, the same range it was read from. Range
// lengths never change, so the archive keeps its exact size and every
// later record keeps its offset. In dry-run mode the write is skipped.
func (s *Sanitizer) patch(off int64, data []byte) error {
	if s.dryRun {
		return nil
	}

	n, err := s.file.WriteAt(data, off)
	if err != nil {
		return fmt.Errorf("failed to write %d bytes at offset %d: %w", len(data), off, err)
	}
	if n != len(data) {
		return fmt.Errorf("short write at offset %d: %d of %d bytes", off, n, len(data))
	}
	return nil
}
