package dns

import "github.com/delvedns/delvedns/internal/wire"

// Question represents a DNS question section entry (RFC 1035 Section
// 4.1.2): the domain name being asked about and the record type wanted.
//
// The class field is not modeled. Only the Internet class is supported
// downstream, so writes always emit ClassIN and reads discard the value.
type Question struct {
	Name string
	Type RecordType
}

// ReadQuestion decodes a question at the buffer's current position.
func ReadQuestion(b *wire.Buffer) (Question, error) {
	name, err := b.ReadDomainName()
	if err != nil {
		return Question{}, err
	}
	qtype, err := b.ReadU16()
	if err != nil {
		return Question{}, err
	}
	// QCLASS; only IN is supported so the value is dropped.
	if _, err := b.ReadU16(); err != nil {
		return Question{}, err
	}
	return Question{Name: name, Type: RecordType(qtype)}, nil
}

// Write encodes the question to wire format with class IN.
func (q Question) Write(b *wire.Buffer) error {
	if err := b.WriteDomainName(q.Name); err != nil {
		return err
	}
	if err := b.WriteU16(uint16(q.Type)); err != nil {
		return err
	}
	return b.WriteU16(uint16(ClassIN))
}
