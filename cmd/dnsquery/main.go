// Command dnsquery sends a single DNS query and prints the parsed
// response. It is a debugging tool for inspecting what a server
// actually returns.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/netip"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/delvedns/delvedns/internal/dns"
	"github.com/delvedns/delvedns/internal/resolver"
)

func main() {
	var (
		server  = flag.String("server", "8.8.8.8:53", "DNS server HOST:PORT")
		name    = flag.String("name", "example.com", "Query name")
		qtype   = flag.Int("qtype", 1, "Query type (numeric, A=1)")
		timeout = flag.Duration("timeout", 2*time.Second, "Timeout")
		quiet   = flag.Bool("quiet", false, "Suppress output (exit status indicates success)")
	)
	flag.Parse()

	p, err := query(*server, *name, dns.RecordType(*qtype), *timeout)
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "dnsquery error: %v\n", err)
		}
		os.Exit(1)
	}
	if *quiet {
		return
	}

	fmt.Printf("id=%d rcode=%d answers=%d authorities=%d additionals=%d\n",
		p.Header.ID,
		p.Header.RCode,
		len(p.Answers),
		len(p.Authorities),
		len(p.Additionals),
	)

	printSection("answers", p.Answers)
	printSection("authorities", p.Authorities)
	printSection("additionals", p.Additionals)
}

func query(server, name string, qtype dns.RecordType, timeout time.Duration) (dns.Packet, error) {
	addr, err := netip.ParseAddrPort(server)
	if err != nil {
		return dns.Packet{}, fmt.Errorf("invalid server address: %w", err)
	}
	name = strings.TrimSuffix(strings.TrimSpace(name), ".")
	if name == "" {
		return dns.Packet{}, fmt.Errorf("name required")
	}

	q := dns.Packet{
		Header: dns.Header{
			ID:               rand.N[uint16](65535) + 1,
			RecursionDesired: true,
		},
		Questions: []dns.Question{{Name: name, Type: qtype}},
	}
	reqBytes, err := q.Marshal()
	if err != nil {
		return dns.Packet{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ex := resolver.UDPExchanger{Timeout: timeout}
	respBytes, err := ex.Exchange(ctx, addr, reqBytes)
	if err != nil {
		return dns.Packet{}, err
	}
	return dns.ParsePacket(respBytes)
}

func printSection(label string, recs []dns.Record) {
	if len(recs) == 0 {
		return
	}
	fmt.Printf(";; %s\n", label)
	rows := make([]string, 0, len(recs))
	for _, rr := range recs {
		rows = append(rows, formatRR(rr))
	}
	sort.Strings(rows)
	for _, s := range rows {
		fmt.Println(s)
	}
}

func formatRR(rr dns.Record) string {
	h := rr.Header()
	name := h.Name
	if name == "" {
		name = "."
	}
	switch rec := rr.(type) {
	case *dns.IPRecord:
		kind := "A"
		if rec.Type() == dns.TypeAAAA {
			kind = "AAAA"
		}
		return fmt.Sprintf("%s %d IN %s %s", name, h.TTL, kind, rec.Addr)
	case *dns.NameRecord:
		kind := "NS"
		if rec.Type() == dns.TypeCNAME {
			kind = "CNAME"
		}
		return fmt.Sprintf("%s %d IN %s %s", name, h.TTL, kind, rec.Target)
	case *dns.MXRecord:
		return fmt.Sprintf("%s %d IN MX %d %s", name, h.TTL, rec.Preference, rec.Target)
	default:
		return fmt.Sprintf("%s %d IN TYPE%d (unparsed)", name, h.TTL, uint16(rr.Type()))
	}
}
