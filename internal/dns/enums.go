// Package dns implements the DNS message codec: header, question, and
// resource record encoding/decoding over the bounds-checked wire buffer,
// plus the packet aggregate with its delegation-lookup views.
package dns

// RecordType represents DNS resource record types (RFC 1035, RFC 3596).
type RecordType uint16

const (
	TypeA     RecordType = 1  // IPv4 address
	TypeNS    RecordType = 2  // Authoritative name server
	TypeCNAME RecordType = 5  // Canonical name (alias)
	TypeMX    RecordType = 15 // Mail exchange
	TypeAAAA  RecordType = 28 // IPv6 address (RFC 3596)
)

// RecordClass represents DNS resource record classes (RFC 1035).
type RecordClass uint16

const (
	ClassIN RecordClass = 1 // Internet class
)

// RCode represents DNS response codes (RFC 1035).
type RCode uint8

const (
	RCodeNoError  RCode = 0 // No error
	RCodeFormErr  RCode = 1 // Format error: query malformed
	RCodeServFail RCode = 2 // Server failure: internal error
	RCodeNXDomain RCode = 3 // Non-existent domain
	RCodeNotImp   RCode = 4 // Not implemented: unsupported query type
	RCodeRefused  RCode = 5 // Query refused by policy
)

// RCodeFromNum maps a wire value to an RCode. Values above 5 collapse to
// NoError, mirroring how unknown codes are treated on read.
func RCodeFromNum(v uint8) RCode {
	if v >= 1 && v <= 5 {
		return RCode(v)
	}
	return RCodeNoError
}
