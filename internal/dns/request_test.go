package dns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delvedns/delvedns/internal/wire"
)

func validRequestBytes(t *testing.T) []byte {
	t.Helper()
	p := Packet{
		Header:    Header{ID: 0x1111, RecursionDesired: true},
		Questions: []Question{{Name: "example.com", Type: TypeA}},
	}
	b, err := p.Marshal()
	require.NoError(t, err)
	return b
}

func TestParseRequestValid(t *testing.T) {
	p, err := ParseRequest(validRequestBytes(t))
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1111), p.Header.ID)
	require.Len(t, p.Questions, 1)
	assert.Equal(t, "example.com", p.Questions[0].Name)
}

func TestParseRequestRejectsOversized(t *testing.T) {
	_, err := ParseRequest(make([]byte, wire.PacketSize+1))
	assert.ErrorIs(t, err, wire.ErrOutOfBounds)
}

func TestParseRequestRejectsResponses(t *testing.T) {
	b := validRequestBytes(t)
	b[2] |= 0x80 // set QR
	_, err := ParseRequest(b)
	assert.Error(t, err)
}

func TestParseRequestRejectsNonQueryOpcode(t *testing.T) {
	b := validRequestBytes(t)
	b[2] |= 2 << 3 // opcode STATUS
	_, err := ParseRequest(b)
	assert.Error(t, err)
}

func TestBuildErrorResponse(t *testing.T) {
	req := Packet{
		Header:    Header{ID: 0xBEEF, RecursionDesired: true},
		Questions: []Question{{Name: "example.com", Type: TypeA}},
	}
	resp := BuildErrorResponse(req, RCodeServFail)

	assert.Equal(t, uint16(0xBEEF), resp.Header.ID)
	assert.True(t, resp.Header.Response)
	assert.True(t, resp.Header.RecursionDesired)
	assert.True(t, resp.Header.RecursionAvailable)
	assert.Equal(t, RCodeServFail, resp.Header.RCode)
	assert.Equal(t, req.Questions, resp.Questions)
	assert.Empty(t, resp.Answers)
}
