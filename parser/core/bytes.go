package core

import "encoding/binary"

// ByteView is a bounds-checked little-endian accessor over a window of
// a mutable byte buffer. Every accessor validates offset+width against
// the window length and fails with ErrOutOfRange instead of silently
// truncating or panicking — every higher layer is driven by numeric
// offset constants from a variant descriptor, and a typo in one of
// those constants must surface deterministically.
type ByteView struct {
	buf []byte
}

// NewByteView wraps buf. The view aliases buf; writes through the view
// mutate buf in place.
func NewByteView(buf []byte) *ByteView {
	return &ByteView{buf: buf}
}

// Len returns the window length.
func (v *ByteView) Len() int { return len(v.buf) }

func (v *ByteView) check(offset, width int) error {
	if offset < 0 || width < 0 || offset+width > len(v.buf) {
		return outOfRange("offset %d width %d exceeds window of %d bytes", offset, width, len(v.buf))
	}
	return nil
}

// U8 reads a byte at offset.
func (v *ByteView) U8(offset int) (uint8, error) {
	if err := v.check(offset, 1); err != nil {
		return 0, err
	}
	return v.buf[offset], nil
}

// SetU8 writes a byte at offset.
func (v *ByteView) SetU8(offset int, val uint8) error {
	if err := v.check(offset, 1); err != nil {
		return err
	}
	v.buf[offset] = val
	return nil
}

// U16 reads a little-endian uint16 at offset.
func (v *ByteView) U16(offset int) (uint16, error) {
	if err := v.check(offset, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(v.buf[offset:]), nil
}

// SetU16 writes a little-endian uint16 at offset.
func (v *ByteView) SetU16(offset int, val uint16) error {
	if err := v.check(offset, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(v.buf[offset:], val)
	return nil
}

// U32 reads a little-endian uint32 at offset.
func (v *ByteView) U32(offset int) (uint32, error) {
	if err := v.check(offset, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(v.buf[offset:]), nil
}

// SetU32 writes a little-endian uint32 at offset.
func (v *ByteView) SetU32(offset int, val uint32) error {
	if err := v.check(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(v.buf[offset:], val)
	return nil
}

// Bytes returns a sub-slice view [offset, offset+length) aliasing the
// underlying buffer.
func (v *ByteView) Bytes(offset, length int) ([]byte, error) {
	if err := v.check(offset, length); err != nil {
		return nil, err
	}
	return v.buf[offset : offset+length], nil
}

// CopyFrom copies src into the buffer starting at offset.
func (v *ByteView) CopyFrom(offset int, src []byte) error {
	if err := v.check(offset, len(src)); err != nil {
		return err
	}
	copy(v.buf[offset:offset+len(src)], src)
	return nil
}

// readU32/writeU32/readU16/writeU16 are unchecked helpers used inside
// the engine where the caller has already validated record length once
// up front (e.g. the cipher, which requires >= 80 bytes and then only
// ever touches offsets inside that window). They return no error: an
// offset past the end of b panics. They still route through
// binary.LittleEndian so byte order matches ByteView.
func readU32(b []byte, offset int) uint32 {
	return binary.LittleEndian.Uint32(b[offset:])
}

func writeU32(b []byte, offset int, val uint32) {
	binary.LittleEndian.PutUint32(b[offset:], val)
}

func readU16(b []byte, offset int) uint16 {
	return binary.LittleEndian.Uint16(b[offset:])
}

func writeU16(b []byte, offset int, val uint16) {
	binary.LittleEndian.PutUint16(b[offset:], val)
}
