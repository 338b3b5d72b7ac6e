package dns

import "github.com/delvedns/delvedns/internal/wire"

// OpaqueRecord captures a resource record of a type the codec does not
// interpret. Only the owner name, type code, ttl, and declared payload
// length survive; the payload itself was skipped on read. Opaque records
// are never re-serialized.
type OpaqueRecord struct {
	H       RRHeader
	T       RecordType
	DataLen uint16
}

// Type returns the raw record type code.
func (r *OpaqueRecord) Type() RecordType { return r.T }

// Header returns the record's shared metadata.
func (r *OpaqueRecord) Header() RRHeader { return r.H }

// write is never reached: WriteRecord skips opaque records before
// dispatching here.
func (r *OpaqueRecord) write(*wire.Buffer) error {
	return nil
}
