package dns

import (
	"github.com/delvedns/delvedns/internal/helpers"
	"github.com/delvedns/delvedns/internal/wire"
)

// HeaderSize is the fixed size of a DNS header in octets.
const HeaderSize = 12

// Header represents a DNS message header (RFC 1035 Section 4.1.1) with
// the 16-bit flags field broken out into its individual fields:
//
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	|QR|   Opcode  |AA|TC|RD|RA| Z|AD|CD|   RCODE   |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	 15 14 13 12 11 10  9  8  7  6  5  4  3  2  1  0
//
// The four section counts describe how many entries follow the header.
// They are recomputed from the actual section lengths whenever a packet
// is written; callers never maintain them by hand.
type Header struct {
	ID uint16 // Transaction ID

	RecursionDesired   bool  // RD: client asks the server to recurse
	Truncated          bool  // TC: message was truncated
	Authoritative      bool  // AA: answer comes from the zone's owner
	Opcode             uint8 // 4 bits: 0=Query, 1=IQuery, 2=Status
	Response           bool  // QR: 1 = response, 0 = query
	RCode              RCode // 4 bits: response code
	CheckingDisabled   bool  // CD: DNSSEC validation disabled (RFC 4035)
	AuthedData         bool  // AD: answer was validated (RFC 4035)
	Z                  bool  // Reserved, must be zero in queries
	RecursionAvailable bool  // RA: server supports recursion

	QDCount uint16 // Question count
	ANCount uint16 // Answer count
	NSCount uint16 // Authority (nameserver) count
	ARCount uint16 // Additional records count
}

// ReadHeader decodes the fixed 12-octet header from the buffer.
func ReadHeader(b *wire.Buffer) (Header, error) {
	var h Header

	id, err := b.ReadU16()
	if err != nil {
		return Header{}, err
	}
	h.ID = id

	flags, err := b.ReadU16()
	if err != nil {
		return Header{}, err
	}
	a := uint8(flags >> 8)
	bb := uint8(flags)

	h.RecursionDesired = a&(1<<0) != 0
	h.Truncated = a&(1<<1) != 0
	h.Authoritative = a&(1<<2) != 0
	h.Opcode = (a >> 3) & 0x0F
	h.Response = a&(1<<7) != 0

	h.RCode = RCodeFromNum(bb & 0x0F)
	h.CheckingDisabled = bb&(1<<4) != 0
	h.AuthedData = bb&(1<<5) != 0
	h.Z = bb&(1<<6) != 0
	h.RecursionAvailable = bb&(1<<7) != 0

	if h.QDCount, err = b.ReadU16(); err != nil {
		return Header{}, err
	}
	if h.ANCount, err = b.ReadU16(); err != nil {
		return Header{}, err
	}
	if h.NSCount, err = b.ReadU16(); err != nil {
		return Header{}, err
	}
	if h.ARCount, err = b.ReadU16(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// Write encodes the header to wire format.
func (h Header) Write(b *wire.Buffer) error {
	if err := b.WriteU16(h.ID); err != nil {
		return err
	}

	a := boolBit(h.RecursionDesired, 0) |
		boolBit(h.Truncated, 1) |
		boolBit(h.Authoritative, 2) |
		(h.Opcode&0x0F)<<3 |
		boolBit(h.Response, 7)

	bb := uint8(h.RCode)&0x0F |
		boolBit(h.CheckingDisabled, 4) |
		boolBit(h.AuthedData, 5) |
		boolBit(h.Z, 6) |
		boolBit(h.RecursionAvailable, 7)

	if err := b.WriteU8(a); err != nil {
		return err
	}
	if err := b.WriteU8(bb); err != nil {
		return err
	}
	if err := b.WriteU16(h.QDCount); err != nil {
		return err
	}
	if err := b.WriteU16(h.ANCount); err != nil {
		return err
	}
	if err := b.WriteU16(h.NSCount); err != nil {
		return err
	}
	return b.WriteU16(h.ARCount)
}

// SetCounts overwrites the four section counts from actual section sizes.
func (h *Header) SetCounts(qd, an, ns, ar int) {
	h.QDCount = helpers.ClampIntToUint16(qd)
	h.ANCount = helpers.ClampIntToUint16(an)
	h.NSCount = helpers.ClampIntToUint16(ns)
	h.ARCount = helpers.ClampIntToUint16(ar)
}

func boolBit(v bool, bit uint) uint8 {
	if v {
		return 1 << bit
	}
	return 0
}
