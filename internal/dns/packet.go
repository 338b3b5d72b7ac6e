package dns

import (
	"net"
	"strings"

	"github.com/delvedns/delvedns/internal/wire"
)

// Packet represents a complete DNS message (RFC 1035 Section 4.1).
//
// DNS messages are composed of five sections:
//   - Header: transaction ID, flags, section counts
//   - Questions: what is being asked
//   - Answers: resource records answering the question
//   - Authorities: name servers authoritative for the domain
//   - Additionals: extra records, e.g. glue addresses for NS targets
//
// A Packet is built fresh per query or response and mutated only while
// being assembled or parsed; once written to a buffer it is done.
type Packet struct {
	Header      Header
	Questions   []Question
	Answers     []Record
	Authorities []Record
	Additionals []Record
}

// ReadPacket decodes a full message from the buffer.
//
// The header's section counts bound the four read loops. They are not
// otherwise trusted: every underlying read stays bounds-checked, so a
// header lying about its counts fails mid-section instead of reading
// past the message.
func ReadPacket(b *wire.Buffer) (Packet, error) {
	h, err := ReadHeader(b)
	if err != nil {
		return Packet{}, err
	}

	p := Packet{Header: h}

	for range h.QDCount {
		q, err := ReadQuestion(b)
		if err != nil {
			return Packet{}, err
		}
		p.Questions = append(p.Questions, q)
	}
	for range h.ANCount {
		r, err := ReadRecord(b)
		if err != nil {
			return Packet{}, err
		}
		p.Answers = append(p.Answers, r)
	}
	for range h.NSCount {
		r, err := ReadRecord(b)
		if err != nil {
			return Packet{}, err
		}
		p.Authorities = append(p.Authorities, r)
	}
	for range h.ARCount {
		r, err := ReadRecord(b)
		if err != nil {
			return Packet{}, err
		}
		p.Additionals = append(p.Additionals, r)
	}
	return p, nil
}

// ParsePacket decodes a message from raw bytes via a fresh buffer.
func ParsePacket(msg []byte) (Packet, error) {
	return ReadPacket(wire.From(msg))
}

// Write encodes the packet. The header's section counts are always
// recomputed from the actual section lengths first; any caller-set
// count is overwritten.
func (p *Packet) Write(b *wire.Buffer) error {
	p.Header.SetCounts(
		len(p.Questions),
		len(p.Answers),
		len(p.Authorities),
		len(p.Additionals),
	)

	if err := p.Header.Write(b); err != nil {
		return err
	}
	for _, q := range p.Questions {
		if err := q.Write(b); err != nil {
			return err
		}
	}
	for _, sec := range [][]Record{p.Answers, p.Authorities, p.Additionals} {
		for _, r := range sec {
			if err := WriteRecord(b, r); err != nil {
				return err
			}
		}
	}
	return nil
}

// Marshal encodes the packet into a fresh buffer and returns its bytes.
func (p *Packet) Marshal() ([]byte, error) {
	b := wire.NewBuffer()
	if err := p.Write(b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// FirstA returns the first A-record address among the answers.
func (p *Packet) FirstA() (net.IP, bool) {
	for _, r := range p.Answers {
		if rec, ok := r.(*IPRecord); ok && rec.Type() == TypeA {
			return rec.Addr, true
		}
	}
	return nil, false
}

// nsEntry is one (delegated domain, name server host) pair.
type nsEntry struct {
	domain string
	host   string
}

// nsEntries returns the authority-section NS records whose domain is a
// suffix of qname. Delegations for unrelated zones carry no authority
// over the queried name and are filtered out.
func (p *Packet) nsEntries(qname string) []nsEntry {
	var entries []nsEntry
	for _, r := range p.Authorities {
		rec, ok := r.(*NameRecord)
		if !ok || rec.T != TypeNS {
			continue
		}
		if !strings.HasSuffix(qname, rec.H.Name) {
			continue
		}
		entries = append(entries, nsEntry{domain: rec.H.Name, host: rec.Target})
	}
	return entries
}

// ResolvedNS returns the address of a name server for qname whose glue
// A record is present in the additional section.
func (p *Packet) ResolvedNS(qname string) (net.IP, bool) {
	for _, ns := range p.nsEntries(qname) {
		for _, r := range p.Additionals {
			rec, ok := r.(*IPRecord)
			if !ok || rec.Type() != TypeA {
				continue
			}
			if rec.H.Name == ns.host {
				return rec.Addr, true
			}
		}
	}
	return nil, false
}

// UnresolvedNS returns the host name of a name server for qname that has
// no glue address in this message. Resolving it requires a nested
// lookup of the host's own A record.
func (p *Packet) UnresolvedNS(qname string) (string, bool) {
	for _, ns := range p.nsEntries(qname) {
		if !p.hasGlue(ns.host) {
			return ns.host, true
		}
	}
	return "", false
}

// hasGlue reports whether the additional section carries an A record for
// the given name server host.
func (p *Packet) hasGlue(host string) bool {
	for _, r := range p.Additionals {
		if rec, ok := r.(*IPRecord); ok && rec.Type() == TypeA && rec.H.Name == host {
			return true
		}
	}
	return false
}
