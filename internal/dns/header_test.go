package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delvedns/delvedns/internal/wire"
)

func TestHeaderWriteBitLayout(t *testing.T) {
	h := Header{
		ID:               0x1234,
		Response:         true,
		Opcode:           2,
		RecursionDesired: true,
		RCode:            RCodeNXDomain,
		QDCount:          1,
		ANCount:          2,
		NSCount:          3,
		ARCount:          4,
	}

	b := wire.NewBuffer()
	require.NoError(t, h.Write(b))

	out := b.Bytes()
	require.Len(t, out, HeaderSize)
	assert.Equal(t, byte(0x12), out[0])
	assert.Equal(t, byte(0x34), out[1])
	// QR=1, Opcode=2, RD=1
	assert.Equal(t, byte(0x91), out[2])
	// RCODE=3, everything else clear
	assert.Equal(t, byte(0x03), out[3])
	assert.Equal(t, []byte{0, 1, 0, 2, 0, 3, 0, 4}, out[4:])
}

func TestReadHeaderBitLayout(t *testing.T) {
	msg := []byte{
		0xAB, 0xCD, // ID
		0x91, 0x83, // QR=1 Opcode=2 RD=1 | RA=1 RCODE=3
		0x00, 0x01,
		0x00, 0x02,
		0x00, 0x03,
		0x00, 0x04,
	}
	b := wire.From(msg)

	h, err := ReadHeader(b)
	require.NoError(t, err)

	assert.Equal(t, uint16(0xABCD), h.ID)
	assert.True(t, h.Response)
	assert.Equal(t, uint8(2), h.Opcode)
	assert.True(t, h.RecursionDesired)
	assert.False(t, h.Authoritative)
	assert.False(t, h.Truncated)
	assert.True(t, h.RecursionAvailable)
	assert.Equal(t, RCodeNXDomain, h.RCode)
	assert.Equal(t, uint16(1), h.QDCount)
	assert.Equal(t, uint16(2), h.ANCount)
	assert.Equal(t, uint16(3), h.NSCount)
	assert.Equal(t, uint16(4), h.ARCount)
	assert.Equal(t, HeaderSize, b.Pos())
}

func TestHeaderRoundTripAllFlags(t *testing.T) {
	orig := Header{
		ID:                 0xFFFF,
		RecursionDesired:   true,
		Truncated:          true,
		Authoritative:      true,
		Opcode:             0x0F,
		Response:           true,
		RCode:              RCodeRefused,
		CheckingDisabled:   true,
		AuthedData:         true,
		Z:                  true,
		RecursionAvailable: true,
		QDCount:            0xFFFF,
		ANCount:            1,
	}

	b := wire.NewBuffer()
	require.NoError(t, orig.Write(b))
	require.NoError(t, b.Seek(0))

	got, err := ReadHeader(b)
	require.NoError(t, err)
	assert.Equal(t, orig, got)
}

func TestSetCountsClamps(t *testing.T) {
	var h Header
	h.SetCounts(1, -5, 70000, 4)
	assert.Equal(t, uint16(1), h.QDCount)
	assert.Equal(t, uint16(0), h.ANCount)
	assert.Equal(t, uint16(0xFFFF), h.NSCount)
	assert.Equal(t, uint16(4), h.ARCount)
}

func TestReadHeaderTruncatedInput(t *testing.T) {
	b := wire.From([]byte{0x12, 0x34, 0x01})
	require.NoError(t, b.Seek(wire.PacketSize-3))
	_, err := ReadHeader(b)
	assert.Error(t, err)
}

func TestRCodeFromNum(t *testing.T) {
	tests := []struct {
		in   uint8
		want RCode
	}{
		{0, RCodeNoError},
		{1, RCodeFormErr},
		{2, RCodeServFail},
		{3, RCodeNXDomain},
		{4, RCodeNotImp},
		{5, RCodeRefused},
		{6, RCodeNoError},  // unmapped values fall back
		{15, RCodeNoError}, // max 4-bit value
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RCodeFromNum(tt.in), "rcode %d", tt.in)
	}
}
