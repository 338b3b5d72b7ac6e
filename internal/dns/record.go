package dns

import (
	"fmt"
	"log/slog"

	"github.com/delvedns/delvedns/internal/helpers"
	"github.com/delvedns/delvedns/internal/wire"
)

// RRHeader contains the metadata shared by every resource record
// variant. This is distinct from Header, the DNS message header.
type RRHeader struct {
	Name string
	TTL  uint32
}

// Record is the closed set of resource record variants. All answer,
// authority, and additional entries are one of IPRecord, NameRecord,
// MXRecord, or OpaqueRecord.
type Record interface {
	// Type returns the DNS record type.
	Type() RecordType

	// Header returns the record's shared metadata.
	Header() RRHeader

	// write encodes the full record (name, type, class, ttl, rdata).
	// Implementing it unexported keeps the union closed.
	write(b *wire.Buffer) error
}

// ReadRecord decodes a resource record at the buffer's current position.
//
// The record class is read and discarded (only IN is supported). Record
// types without a dedicated variant are captured as OpaqueRecord: the
// cursor skips their payload using the declared RDLENGTH, and parsing of
// the remaining message continues. Unknown types never abort a parse.
func ReadRecord(b *wire.Buffer) (Record, error) {
	name, err := b.ReadDomainName()
	if err != nil {
		return nil, err
	}
	rrType, err := b.ReadU16()
	if err != nil {
		return nil, err
	}
	// CLASS, unused.
	if _, err := b.ReadU16(); err != nil {
		return nil, err
	}
	ttl, err := b.ReadU32()
	if err != nil {
		return nil, err
	}
	rdlen, err := b.ReadU16()
	if err != nil {
		return nil, err
	}

	h := RRHeader{Name: name, TTL: ttl}

	switch RecordType(rrType) {
	case TypeA:
		return readARData(b, h)
	case TypeAAAA:
		return readAAAARData(b, h)
	case TypeNS, TypeCNAME:
		target, err := b.ReadDomainName()
		if err != nil {
			return nil, err
		}
		return &NameRecord{H: h, T: RecordType(rrType), Target: target}, nil
	case TypeMX:
		pref, err := b.ReadU16()
		if err != nil {
			return nil, err
		}
		target, err := b.ReadDomainName()
		if err != nil {
			return nil, err
		}
		return &MXRecord{H: h, Preference: pref, Target: target}, nil
	default:
		if err := b.Step(int(rdlen)); err != nil {
			return nil, err
		}
		return &OpaqueRecord{H: h, T: RecordType(rrType), DataLen: rdlen}, nil
	}
}

// WriteRecord encodes a record to wire format.
//
// Opaque records are the one deliberate omission: their payload was
// never interpreted, so they are skipped with a debug log rather than
// re-serialized. A response assembled from records that were read as
// unknown types silently omits them.
func WriteRecord(b *wire.Buffer, r Record) error {
	switch rec := r.(type) {
	case *IPRecord, *NameRecord, *MXRecord:
		return rec.write(b)
	case *OpaqueRecord:
		slog.Debug("skipping unparsed record on write",
			"name", rec.H.Name,
			"type", uint16(rec.T),
			"rdlen", rec.DataLen,
		)
		return nil
	default:
		return fmt.Errorf("%w: %d", wire.ErrUnhandledType, uint16(r.Type()))
	}
}

// writeRRPrefix writes the fields every record shares: the owner name,
// type, class (always IN), and ttl. The caller writes RDLENGTH and the
// payload.
func writeRRPrefix(b *wire.Buffer, h RRHeader, t RecordType) error {
	if err := b.WriteDomainName(h.Name); err != nil {
		return err
	}
	if err := b.WriteU16(uint16(t)); err != nil {
		return err
	}
	if err := b.WriteU16(uint16(ClassIN)); err != nil {
		return err
	}
	return b.WriteU32(h.TTL)
}

// writeRDataPatched writes a variable-length payload whose size is not
// known up front (it may itself contain domain labels): reserve two
// octets for RDLENGTH, write the payload, then patch the written size
// back into the reserved slot.
func writeRDataPatched(b *wire.Buffer, payload func() error) error {
	lenPos := b.Pos()
	if err := b.WriteU16(0); err != nil {
		return err
	}
	start := b.Pos()
	if err := payload(); err != nil {
		return err
	}
	return b.SetU16(lenPos, helpers.ClampIntToUint16(b.Pos()-start))
}
