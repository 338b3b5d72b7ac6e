package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delvedns/delvedns/internal/dns"
)

// startTestServer runs a UDPServer on a loopback socket and returns the
// address to send queries to.
func startTestServer(t *testing.T, s *UDPServer) *net.UDPAddr {
	t.Helper()

	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.RunOnConn(ctx, conn)
	}()
	t.Cleanup(func() {
		cancel()
		_ = s.Stop(2 * time.Second)
		<-done
	})

	return conn.LocalAddr().(*net.UDPAddr)
}

func exchange(t *testing.T, addr *net.UDPAddr, req []byte) []byte {
	t.Helper()
	c, err := net.DialUDP("udp", nil, addr)
	require.NoError(t, err)
	defer c.Close()

	_ = c.SetDeadline(time.Now().Add(3 * time.Second))
	_, err = c.Write(req)
	require.NoError(t, err)

	buf := make([]byte, 512)
	n, err := c.Read(buf)
	require.NoError(t, err)
	return buf[:n]
}

func TestUDPServerServesQueries(t *testing.T) {
	s := &UDPServer{
		Handler:        &QueryHandler{Recursor: answeringRecursor(t, net.IPv4(198, 51, 100, 4))},
		Stats:          NewStats(),
		MaxConcurrency: 4,
	}
	addr := startTestServer(t, s)

	respBytes := exchange(t, addr, requestBytes(t, 0xABCD, "example.com"))

	resp, err := dns.ParsePacket(respBytes)
	require.NoError(t, err)
	assert.Equal(t, uint16(0xABCD), resp.Header.ID)
	got, ok := resp.FirstA()
	require.True(t, ok)
	assert.True(t, got.Equal(net.IPv4(198, 51, 100, 4)))

	// Allow the recording goroutine to finish before inspecting.
	require.Eventually(t, func() bool {
		return s.Stats.Snapshot().QueriesTotal == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUDPServerSendsServFailOnResolverFailure(t *testing.T) {
	s := &UDPServer{
		Handler:        &QueryHandler{Recursor: failingRecursor(), Timeout: time.Second},
		MaxConcurrency: 4,
	}
	addr := startTestServer(t, s)

	respBytes := exchange(t, addr, requestBytes(t, 0x0F0F, "example.com"))

	resp, err := dns.ParsePacket(respBytes)
	require.NoError(t, err)
	assert.Equal(t, dns.RCodeServFail, resp.Header.RCode)
	assert.Equal(t, uint16(0x0F0F), resp.Header.ID)
}

func TestUDPServerStopIsIdempotent(t *testing.T) {
	s := &UDPServer{}
	assert.NoError(t, s.Stop(time.Second))
}
