package dns

import "github.com/delvedns/delvedns/internal/wire"

// NameRecord represents the records whose payload is a single domain
// name: NS (delegation target) and CNAME (alias target).
type NameRecord struct {
	H      RRHeader
	T      RecordType
	Target string
}

// NewNSRecord creates an NS record delegating h.Name to target.
func NewNSRecord(h RRHeader, target string) *NameRecord {
	return &NameRecord{H: h, T: TypeNS, Target: target}
}

// NewCNAMERecord creates a CNAME record aliasing h.Name to target.
func NewCNAMERecord(h RRHeader, target string) *NameRecord {
	return &NameRecord{H: h, T: TypeCNAME, Target: target}
}

// Type returns the record type (NS or CNAME).
func (r *NameRecord) Type() RecordType { return r.T }

// Header returns the record's shared metadata.
func (r *NameRecord) Header() RRHeader { return r.H }

// write encodes the record. The target may decompress to a different
// size than it had on the wire, so RDLENGTH is patched in after the
// payload is written.
func (r *NameRecord) write(b *wire.Buffer) error {
	if err := writeRRPrefix(b, r.H, r.T); err != nil {
		return err
	}
	return writeRDataPatched(b, func() error {
		return b.WriteDomainName(r.Target)
	})
}
