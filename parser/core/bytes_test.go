package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteViewU8RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	v := NewByteView(buf)

	require.NoError(t, v.SetU8(1, 0xAB))
	got, err := v.U8(1)
	require.NoError(t, err)
	assert.Equal(t, uint8(0xAB), got)
}

func TestByteViewU16LittleEndian(t *testing.T) {
	buf := make([]byte, 4)
	v := NewByteView(buf)

	require.NoError(t, v.SetU16(0, 0x1234))
	assert.Equal(t, []byte{0x34, 0x12}, buf[0:2])

	got, err := v.U16(0)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), got)
}

func TestByteViewU32LittleEndian(t *testing.T) {
	buf := make([]byte, 4)
	v := NewByteView(buf)

	require.NoError(t, v.SetU32(0, 0x01020304))
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, buf)

	got, err := v.U32(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), got)
}

func TestByteViewOutOfRange(t *testing.T) {
	v := NewByteView(make([]byte, 4))

	_, err := v.U32(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	err = v.SetU8(4, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestByteViewBytesAliasesBuffer(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	v := NewByteView(buf)

	sub, err := v.Bytes(1, 2)
	require.NoError(t, err)
	sub[0] = 0xFF
	assert.Equal(t, byte(0xFF), buf[1])
}

func TestByteViewCopyFrom(t *testing.T) {
	buf := make([]byte, 4)
	v := NewByteView(buf)

	require.NoError(t, v.CopyFrom(1, []byte{9, 8}))
	assert.Equal(t, []byte{0, 9, 8, 0}, buf)

	err := v.CopyFrom(3, []byte{1, 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}
