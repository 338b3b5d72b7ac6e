package dns

import "github.com/delvedns/delvedns/internal/wire"

// MXRecord represents a mail exchange record (RFC 1035 Section 3.3.9):
// a 16-bit preference followed by the exchange host name. Lower
// preference values are preferred.
type MXRecord struct {
	H          RRHeader
	Preference uint16
	Target     string
}

// NewMXRecord creates an MX record for h.Name.
func NewMXRecord(h RRHeader, preference uint16, target string) *MXRecord {
	return &MXRecord{H: h, Preference: preference, Target: target}
}

// Type returns TypeMX.
func (r *MXRecord) Type() RecordType { return TypeMX }

// Header returns the record's shared metadata.
func (r *MXRecord) Header() RRHeader { return r.H }

func (r *MXRecord) write(b *wire.Buffer) error {
	if err := writeRRPrefix(b, r.H, TypeMX); err != nil {
		return err
	}
	return writeRDataPatched(b, func() error {
		if err := b.WriteU16(r.Preference); err != nil {
			return err
		}
		return b.WriteDomainName(r.Target)
	})
}
