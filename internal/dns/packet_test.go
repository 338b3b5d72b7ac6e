package dns

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delvedns/delvedns/internal/wire"
)

func TestPacketRoundTrip(t *testing.T) {
	orig := Packet{
		Header: Header{
			ID:               0x4321,
			Response:         true,
			RecursionDesired: true,
			Authoritative:    true,
		},
		Questions: []Question{{Name: "example.com", Type: TypeA}},
		Answers: []Record{
			NewIPRecord(RRHeader{Name: "example.com", TTL: 300}, net.IPv4(93, 184, 216, 34)),
			NewCNAMERecord(RRHeader{Name: "www.example.com", TTL: 60}, "example.com"),
		},
		Authorities: []Record{
			NewNSRecord(RRHeader{Name: "example.com", TTL: 86400}, "ns1.example.net"),
		},
		Additionals: []Record{
			NewIPRecord(RRHeader{Name: "ns1.example.net", TTL: 86400}, net.IPv4(192, 0, 2, 1)),
		},
	}

	b, err := orig.Marshal()
	require.NoError(t, err)

	got, err := ParsePacket(b)
	require.NoError(t, err)

	assert.Equal(t, orig.Header.ID, got.Header.ID)
	assert.True(t, got.Header.Response)
	assert.True(t, got.Header.Authoritative)
	assert.Equal(t, uint16(1), got.Header.QDCount)
	assert.Equal(t, uint16(2), got.Header.ANCount)
	assert.Equal(t, uint16(1), got.Header.NSCount)
	assert.Equal(t, uint16(1), got.Header.ARCount)

	require.Len(t, got.Questions, 1)
	assert.Equal(t, "example.com", got.Questions[0].Name)
	assert.Equal(t, TypeA, got.Questions[0].Type)

	require.Len(t, got.Answers, 2)
	require.Len(t, got.Authorities, 1)
	require.Len(t, got.Additionals, 1)
}

func TestPacketWriteRecomputesCounts(t *testing.T) {
	p := Packet{
		Header:    Header{ID: 1, QDCount: 40, ANCount: 9},
		Questions: []Question{{Name: "example.com", Type: TypeA}},
	}
	b, err := p.Marshal()
	require.NoError(t, err)

	got, err := ParsePacket(b)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), got.Header.QDCount)
	assert.Equal(t, uint16(0), got.Header.ANCount)
}

func TestParsePacketLyingCounts(t *testing.T) {
	p := Packet{
		Header:    Header{ID: 7},
		Questions: []Question{{Name: "example.com", Type: TypeA}},
	}
	b, err := p.Marshal()
	require.NoError(t, err)

	// Claim 65535 answers: the bounds-checked reads run off the end
	// of the packet and fail instead of reading adjacent memory.
	b[6] = 0xFF
	b[7] = 0xFF
	_, err = ParsePacket(b)
	assert.ErrorIs(t, err, wire.ErrOutOfBounds)
}

func TestFirstA(t *testing.T) {
	p := Packet{
		Answers: []Record{
			NewCNAMERecord(RRHeader{Name: "www.example.com"}, "example.com"),
			NewIPRecord(RRHeader{Name: "example.com"}, net.IPv4(1, 2, 3, 4)),
			NewIPRecord(RRHeader{Name: "example.com"}, net.IPv4(5, 6, 7, 8)),
		},
	}
	addr, ok := p.FirstA()
	require.True(t, ok)
	assert.True(t, addr.Equal(net.IPv4(1, 2, 3, 4)))

	empty := Packet{}
	_, ok = empty.FirstA()
	assert.False(t, ok)
}

func TestFirstASkipsAAAA(t *testing.T) {
	p := Packet{
		Answers: []Record{
			NewIPRecord(RRHeader{Name: "example.com"}, net.ParseIP("2001:db8::1")),
		},
	}
	_, ok := p.FirstA()
	assert.False(t, ok)
}

func delegationResponse() Packet {
	return Packet{
		Authorities: []Record{
			NewNSRecord(RRHeader{Name: "example.com", TTL: 172800}, "a.iana-servers.net"),
			NewNSRecord(RRHeader{Name: "example.com", TTL: 172800}, "b.iana-servers.net"),
			NewNSRecord(RRHeader{Name: "other.org", TTL: 172800}, "ns.other.org"),
		},
		Additionals: []Record{
			NewIPRecord(RRHeader{Name: "a.iana-servers.net", TTL: 172800}, net.IPv4(199, 43, 135, 53)),
		},
	}
}

func TestResolvedNS(t *testing.T) {
	p := delegationResponse()

	addr, ok := p.ResolvedNS("www.example.com")
	require.True(t, ok)
	assert.True(t, addr.Equal(net.IPv4(199, 43, 135, 53)))

	// No NS entry covers this name; the other.org delegation does not
	// apply either.
	_, ok = p.ResolvedNS("www.example.net")
	assert.False(t, ok)
}

func TestUnresolvedNS(t *testing.T) {
	p := delegationResponse()

	// a.iana-servers.net has glue; b.iana-servers.net is the first
	// entry without it.
	host, ok := p.UnresolvedNS("www.example.com")
	require.True(t, ok)
	assert.Equal(t, "b.iana-servers.net", host)
}

func TestUnresolvedNSAllGlued(t *testing.T) {
	p := Packet{
		Authorities: []Record{
			NewNSRecord(RRHeader{Name: "example.com"}, "ns1.example.com"),
		},
		Additionals: []Record{
			NewIPRecord(RRHeader{Name: "ns1.example.com"}, net.IPv4(192, 0, 2, 1)),
		},
	}
	_, ok := p.UnresolvedNS("www.example.com")
	assert.False(t, ok)
}

func TestNSEntriesSuffixFilter(t *testing.T) {
	p := Packet{
		Authorities: []Record{
			NewNSRecord(RRHeader{Name: "com"}, "a.gtld-servers.net"),
		},
	}

	// The com delegation covers anything under com but not net names.
	_, ok := p.UnresolvedNS("example.com")
	assert.True(t, ok)
	_, ok = p.UnresolvedNS("example.net")
	assert.False(t, ok)
}

func TestMarshalSkipsOpaqueRecords(t *testing.T) {
	p := Packet{
		Header:    Header{ID: 9},
		Questions: []Question{{Name: "example.com", Type: TypeA}},
		Answers: []Record{
			&OpaqueRecord{H: RRHeader{Name: "example.com"}, T: RecordType(16), DataLen: 4},
			NewIPRecord(RRHeader{Name: "example.com", TTL: 60}, net.IPv4(1, 2, 3, 4)),
		},
	}

	b, err := p.Marshal()
	require.NoError(t, err)

	// Counts reflect section lengths, so the skipped record is still
	// counted even though only the A record is serialized.
	assert.Equal(t, byte(2), b[7])

	// 12 header + 17 question + 27 A record; the opaque record
	// contributes no octets.
	assert.Len(t, b, 56)
}
