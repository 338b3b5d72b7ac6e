package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/delvedns/delvedns/internal/dns"
	"github.com/delvedns/delvedns/internal/journal"
	"github.com/delvedns/delvedns/internal/pool"
	"github.com/delvedns/delvedns/internal/wire"
)

// bufferPool reduces allocations for incoming UDP packets. Each buffer
// is one maximum-size DNS message; the payload is copied out before the
// buffer is returned, so a pooled buffer never outlives one receive.
var bufferPool = pool.New(func() *[]byte {
	buf := make([]byte, wire.PacketSize)
	return &buf
})

// UDPServer serves DNS queries over UDP.
//
// Each inbound query is handled by its own goroutine: a query is a pure
// function of its bytes and the upstream responses, so queries need no
// coordination beyond the concurrency semaphore. A slow or hostile
// query can therefore never stall another.
type UDPServer struct {
	Logger         *slog.Logger     // Optional
	Handler        *QueryHandler    // Query processor
	Limiter        *RateLimiter     // Optional pre-parse admission control
	Stats          *Stats           // Optional counters
	Journal        *journal.Journal // Optional query journal
	MaxConcurrency int              // Maximum concurrent query handlers

	conn *net.UDPConn
	wg   sync.WaitGroup
	sem  chan struct{}
}

// Run starts the server, listening on addr until ctx is canceled.
func (s *UDPServer) Run(ctx context.Context, addr string) error {
	conn, err := listenUDPReusePort(ctx, addr)
	if err != nil {
		return err
	}
	return s.RunOnConn(ctx, conn)
}

// RunOnConn runs the server on an existing UDP connection. Useful for
// tests and callers that manage the socket themselves.
func (s *UDPServer) RunOnConn(ctx context.Context, conn *net.UDPConn) error {
	s.conn = conn
	defer conn.Close()

	maxConc := s.MaxConcurrency
	if maxConc <= 0 {
		maxConc = 1
	}
	s.sem = make(chan struct{}, maxConc)

	for {
		if ctx.Err() != nil {
			break
		}

		payload, remote, ok := s.receivePacket(ctx, conn)
		if !ok {
			continue
		}

		if s.Limiter != nil && !s.Limiter.Allow(remote.IP.String()) {
			continue
		}

		if !s.tryAcquireSemaphore() {
			continue // at max concurrency, drop
		}

		s.wg.Add(1)
		go s.handleRequest(ctx, conn, payload, remote)
	}
	return nil
}

// receivePacket reads one datagram using a pooled buffer. The short
// read deadline keeps the loop responsive to shutdown.
func (s *UDPServer) receivePacket(ctx context.Context, conn *net.UDPConn) ([]byte, *net.UDPAddr, bool) {
	bufPtr := bufferPool.Get()
	buf := *bufPtr
	defer bufferPool.Put(bufPtr)

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	n, remote, err := conn.ReadFromUDP(buf)
	if err != nil || remote == nil {
		return nil, nil, false
	}
	if ctx.Err() != nil {
		return nil, nil, false
	}

	payload := make([]byte, n)
	copy(payload, buf[:n])
	return payload, remote, true
}

func (s *UDPServer) tryAcquireSemaphore() bool {
	select {
	case s.sem <- struct{}{}:
		return true
	default:
		return false
	}
}

// handleRequest processes one query and writes its response back.
func (s *UDPServer) handleRequest(ctx context.Context, conn *net.UDPConn, payload []byte, peer *net.UDPAddr) {
	defer s.wg.Done()
	defer func() { <-s.sem }()

	if s.Handler == nil {
		return
	}
	start := time.Now()
	res := s.Handler.Handle(ctx, peer.String(), payload)
	elapsed := time.Since(start)

	s.record(res, peer, elapsed)

	if len(res.ResponseBytes) == 0 {
		return
	}
	_, _ = conn.WriteToUDP(res.ResponseBytes, peer)
}

// record feeds the query outcome to the optional stats counters and
// the query journal.
func (s *UDPServer) record(res HandleResult, peer *net.UDPAddr, elapsed time.Duration) {
	if s.Stats != nil {
		s.Stats.RecordQuery()
		s.Stats.RecordLatency(elapsed.Nanoseconds())
		switch {
		case res.RCode == uint8(dns.RCodeNXDomain):
			s.Stats.RecordNXDOMAIN()
		case res.RCode != uint8(dns.RCodeNoError):
			s.Stats.RecordError()
		}
	}
	if s.Journal != nil && res.QName != "" {
		s.Journal.Record(journal.Entry{
			Time:       time.Now().UTC(),
			QName:      res.QName,
			QType:      res.QType,
			RCode:      res.RCode,
			Source:     res.Source,
			Client:     peer.IP.String(),
			DurationMs: elapsed.Milliseconds(),
		})
	}
}

// Stop gracefully shuts down the server, waiting up to timeout for
// in-flight queries to finish.
func (s *UDPServer) Stop(timeout time.Duration) error {
	if s.conn == nil {
		return nil
	}
	_ = s.conn.Close()

	if timeout <= 0 {
		s.wg.Wait()
		return nil
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return errors.New("udp server: timeout waiting for in-flight queries")
	}
}

// listenUDPReusePort creates a UDP socket with SO_REUSEPORT enabled,
// allowing multiple server processes to bind the same address with the
// kernel distributing datagrams across them.
func listenUDPReusePort(ctx context.Context, addr string) (*net.UDPConn, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, c syscall.RawConn) error {
			return c.Control(func(fd uintptr) {
				_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
			})
		},
	}
	pc, err := lc.ListenPacket(ctx, "udp", addr)
	if err != nil {
		return nil, err
	}
	conn, ok := pc.(*net.UDPConn)
	if !ok {
		pc.Close()
		return nil, errors.New("udp server: unexpected packet conn type")
	}
	return conn, nil
}
