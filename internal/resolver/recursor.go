package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/netip"

	"github.com/delvedns/delvedns/internal/dns"
	"github.com/delvedns/delvedns/internal/wire"
)

// DNSPort is the well-known DNS server port. The recursor always talks
// to authoritative servers on it.
const DNSPort = 53

// DefaultMaxDepth is the default bound on delegation steps per
// resolution. Each referral followed and each nested name-server lookup
// consumes one step; a chain longer than this is misconfigured or
// hostile.
const DefaultMaxDepth = 10

// ErrDepthExceeded is returned when a resolution follows more
// delegation steps than the configured maximum.
var ErrDepthExceeded = errors.New("resolver: delegation depth exceeded")

// Root of the delegation chain: a.root-servers.net. Any root server
// works; the set is published in the IANA root hints file.
var DefaultRoot = netip.AddrFrom4([4]byte{198, 41, 0, 4})

// Recursor resolves names iteratively, starting at a root server and
// following NS referrals until a server answers authoritatively.
//
// A Recursor holds no per-query state: every Resolve call is a pure
// function of its inputs and the network's responses, so one Recursor
// is safely shared across concurrent queries without locking.
type Recursor struct {
	Exchanger Exchanger    // Transport capability, required
	Root      netip.Addr   // Starting server (default DefaultRoot)
	MaxDepth  int          // Delegation step budget (default DefaultMaxDepth)
	Logger    *slog.Logger // Optional
}

// Lookup sends a single iterative query for (name, qtype) to the given
// server and parses the response. Recursion-desired is cleared: this is
// the query form exchanged between resolvers and authoritative servers.
func (r *Recursor) Lookup(ctx context.Context, name string, qtype dns.RecordType, server netip.Addr) (dns.Packet, error) {
	query := dns.Packet{
		Header: dns.Header{
			ID: rand.N[uint16](1<<16 - 1) + 1,
		},
		Questions: []dns.Question{{Name: name, Type: qtype}},
	}

	buf := wire.NewBuffer()
	if err := query.Write(buf); err != nil {
		return dns.Packet{}, err
	}

	resp, err := r.Exchanger.Exchange(ctx, netip.AddrPortFrom(server, DNSPort), buf.Bytes())
	if err != nil {
		return dns.Packet{}, err
	}
	return dns.ParsePacket(resp)
}

// Resolve walks the delegation chain for (name, qtype) from the root
// down and returns the first authoritative result.
//
// Loop, per candidate server:
//  1. Send the query.
//  2. Answers present and NoError: done.
//  3. NameError: done — an authoritative negative answer is final and
//     never retried, whatever else the response carries.
//  4. A matching NS referral with glue: switch to the glue address.
//  5. A matching NS referral without glue: resolve the name server's
//     own A record with a nested invocation of this same algorithm,
//     then switch to it. A nested resolution that succeeds without
//     producing an address ends the walk with the last response
//     returned as-is (best effort).
//  6. No applicable referral: return the last response as-is.
//
// Any transport or parse failure aborts the whole attempt and
// propagates. The delegation step budget bounds referrals followed and
// nested lookups combined, including across nesting levels.
func (r *Recursor) Resolve(ctx context.Context, name string, qtype dns.RecordType) (dns.Packet, error) {
	budget := r.MaxDepth
	if budget <= 0 {
		budget = DefaultMaxDepth
	}
	return r.resolve(ctx, name, qtype, &budget)
}

func (r *Recursor) resolve(ctx context.Context, name string, qtype dns.RecordType, budget *int) (dns.Packet, error) {
	server := r.Root
	if !server.IsValid() {
		server = DefaultRoot
	}

	for {
		if *budget <= 0 {
			return dns.Packet{}, fmt.Errorf("%w: resolving %q", ErrDepthExceeded, name)
		}
		*budget--

		if r.Logger != nil {
			r.Logger.Debug("attempting lookup",
				"qname", name,
				"qtype", uint16(qtype),
				"server", server.String(),
			)
		}

		resp, err := r.Lookup(ctx, name, qtype, server)
		if err != nil {
			return dns.Packet{}, err
		}

		if len(resp.Answers) > 0 && resp.Header.RCode == dns.RCodeNoError {
			return resp, nil
		}
		if resp.Header.RCode == dns.RCodeNXDomain {
			return resp, nil
		}

		if addr, ok := resp.ResolvedNS(name); ok {
			next, ok := netip.AddrFromSlice(addr.To4())
			if !ok {
				return resp, nil
			}
			server = next
			continue
		}

		host, ok := resp.UnresolvedNS(name)
		if !ok {
			return resp, nil
		}

		nested, err := r.resolve(ctx, host, dns.TypeA, budget)
		if err != nil {
			return dns.Packet{}, err
		}
		glue, ok := nested.FirstA()
		if !ok {
			// The name server's address could not be resolved;
			// hand back what we have.
			return resp, nil
		}
		next, ok := netip.AddrFromSlice(glue.To4())
		if !ok {
			return resp, nil
		}
		server = next
	}
}
