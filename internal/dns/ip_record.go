package dns

import (
	"fmt"
	"net"

	"github.com/delvedns/delvedns/internal/wire"
)

// IPRecord represents a DNS A or AAAA record containing an IP address.
// The type is determined by the address family (IPv4 → TypeA, IPv6 →
// TypeAAAA).
type IPRecord struct {
	H    RRHeader
	Addr net.IP
}

// NewIPRecord creates an A or AAAA record depending on the address.
func NewIPRecord(h RRHeader, addr net.IP) *IPRecord {
	return &IPRecord{H: h, Addr: addr}
}

// Type returns TypeA for IPv4 addresses, TypeAAAA for IPv6.
func (r *IPRecord) Type() RecordType {
	if r.Addr.To4() != nil {
		return TypeA
	}
	return TypeAAAA
}

// Header returns the record's shared metadata.
func (r *IPRecord) Header() RRHeader { return r.H }

func readARData(b *wire.Buffer, h RRHeader) (*IPRecord, error) {
	raw, err := b.ReadU32()
	if err != nil {
		return nil, err
	}
	addr := net.IPv4(
		uint8(raw>>24),
		uint8(raw>>16),
		uint8(raw>>8),
		uint8(raw),
	)
	return &IPRecord{H: h, Addr: addr}, nil
}

// readAAAARData reads the 16-octet payload as eight big-endian 16-bit
// groups (RFC 3596 Section 2.2).
func readAAAARData(b *wire.Buffer, h RRHeader) (*IPRecord, error) {
	addr := make(net.IP, net.IPv6len)
	for i := 0; i < 8; i++ {
		group, err := b.ReadU16()
		if err != nil {
			return nil, err
		}
		addr[2*i] = uint8(group >> 8)
		addr[2*i+1] = uint8(group)
	}
	return &IPRecord{H: h, Addr: addr}, nil
}

// write encodes the record with its fixed RDLENGTH (4 or 16).
func (r *IPRecord) write(b *wire.Buffer) error {
	if err := writeRRPrefix(b, r.H, r.Type()); err != nil {
		return err
	}
	if ip4 := r.Addr.To4(); ip4 != nil {
		if err := b.WriteU16(net.IPv4len); err != nil {
			return err
		}
		for _, octet := range ip4 {
			if err := b.WriteU8(octet); err != nil {
				return err
			}
		}
		return nil
	}
	ip6 := r.Addr.To16()
	if ip6 == nil {
		return fmt.Errorf("%w: invalid IP address in A/AAAA record", wire.ErrUnhandledType)
	}
	if err := b.WriteU16(net.IPv6len); err != nil {
		return err
	}
	for i := 0; i < net.IPv6len; i += 2 {
		if err := b.WriteU16(uint16(ip6[i])<<8 | uint16(ip6[i+1])); err != nil {
			return err
		}
	}
	return nil
}
