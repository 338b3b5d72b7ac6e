package dns

import (
	"errors"
	"fmt"

	"github.com/delvedns/delvedns/internal/wire"
)

// Limits applied to inbound requests before any work is done on them.
const (
	// MaxQuestions bounds how many questions a request may carry. Real
	// resolvers only ever send one.
	MaxQuestions = 4
)

// ParseRequest parses an inbound DNS request with validity checks: the
// message must be a query (QR clear) with opcode 0 and a sane question
// count. Resource exhaustion through lying headers is already handled by
// the bounds-checked buffer; this adds protocol-level sanity on top.
func ParseRequest(msg []byte) (Packet, error) {
	if len(msg) > wire.PacketSize {
		return Packet{}, fmt.Errorf("%w: request of %d octets", wire.ErrOutOfBounds, len(msg))
	}
	p, err := ParsePacket(msg)
	if err != nil {
		return Packet{}, err
	}
	if p.Header.Response {
		return Packet{}, errors.New("dns: QR flag set, packet is a response")
	}
	if p.Header.Opcode != 0 {
		return Packet{}, fmt.Errorf("dns: unsupported opcode %d", p.Header.Opcode)
	}
	if len(p.Questions) > MaxQuestions {
		return Packet{}, errors.New("dns: too many questions")
	}
	return p, nil
}

// BuildErrorResponse constructs an error response for a request: same
// transaction ID, RD echoed, QR and RA set, the given result code, and
// the original question section with no records.
func BuildErrorResponse(req Packet, rcode RCode) Packet {
	return Packet{
		Header: Header{
			ID:                 req.Header.ID,
			Response:           true,
			RecursionDesired:   req.Header.RecursionDesired,
			RecursionAvailable: true,
			RCode:              rcode,
		},
		Questions: req.Questions,
	}
}
