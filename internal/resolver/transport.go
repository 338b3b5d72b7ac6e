// Package resolver implements iterative DNS resolution: a single
// upstream query primitive plus the recursive algorithm that walks the
// name-server delegation chain from the root down to an authoritative
// answer.
//
// Network I/O is an injected capability (Exchanger). The resolver never
// opens listening sockets and never decides transport beyond one UDP
// round trip per query; tests inject scripted exchangers instead.
package resolver

import (
	"context"
	"net"
	"net/netip"
	"time"

	"github.com/delvedns/delvedns/internal/wire"
)

// DefaultTimeout bounds one UDP round trip to an upstream server.
const DefaultTimeout = 3 * time.Second

// Exchanger performs one query/response round trip with a DNS server.
type Exchanger interface {
	// Exchange sends query to server and returns the raw response.
	// Transport failures propagate immediately; there is no retry at
	// this layer.
	Exchange(ctx context.Context, server netip.AddrPort, query []byte) ([]byte, error)
}

// UDPExchanger is the production Exchanger: dial, send, receive one
// datagram of at most 512 octets.
type UDPExchanger struct {
	Timeout time.Duration // Per round-trip deadline (default DefaultTimeout)
}

// Exchange performs one UDP round trip.
func (e *UDPExchanger) Exchange(ctx context.Context, server netip.AddrPort, query []byte) ([]byte, error) {
	c, err := net.DialUDP("udp", nil, net.UDPAddrFromAddrPort(server))
	if err != nil {
		return nil, err
	}
	defer c.Close()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	deadline := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	_ = c.SetDeadline(deadline)

	if _, err := c.Write(query); err != nil {
		return nil, err
	}

	buf := make([]byte, wire.PacketSize)
	n, err := c.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n:n], nil
}
