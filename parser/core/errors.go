package core

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Wrap with fmt.Errorf("...: %w", ErrX) so callers
// can errors.Is/errors.As against the taxonomy without losing context.
var (
	// ErrOutOfRange is returned when a bounds check fails in the byte
	// codec or a PC-relative literal resolver.
	ErrOutOfRange = errors.New("out of range")

	// ErrInvalidFormat is returned when a save image fails structural
	// validation (bad size, no sectors with a known signature, a
	// missing mandatory sector).
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidLength is returned when a buffer handed to the cipher
	// or record constructor is smaller than required.
	ErrInvalidLength = errors.New("invalid length")

	// ErrNoMatch is returned when variant detection or the signature
	// scanner finds no candidate.
	ErrNoMatch = errors.New("no match")
)

// ChecksumMismatch is a non-fatal diagnostic surfaced from parse(). A
// sector whose stored checksum does not match its recomputed checksum
// is still used if its footer signature matches the variant — real
// saves commonly carry one stale slot — but the mismatch is reported
// here for observability rather than silently ignored.
type ChecksumMismatch struct {
	SectorID       int
	PhysicalIndex  int
	StoredChecksum uint16
	ComputedChecksum uint16
}

func (c ChecksumMismatch) Error() string {
	return fmt.Sprintf("sector %d (physical %d): stored checksum 0x%04x != computed 0x%04x",
		c.SectorID, c.PhysicalIndex, c.StoredChecksum, c.ComputedChecksum)
}

// outOfRange builds an ErrOutOfRange wrapping error with context.
func outOfRange(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrOutOfRange)...)
}

// invalidFormat builds an ErrInvalidFormat wrapping error with context.
func invalidFormat(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidFormat)...)
}

// invalidLength builds an ErrInvalidLength wrapping error with context.
func invalidLength(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidLength)...)
}

// noMatch builds an ErrNoMatch wrapping error with context.
func noMatch(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNoMatch)...)
}
