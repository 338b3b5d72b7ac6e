// Command dnstrace resolves a name iteratively from the root and
// prints every delegation hop along the way.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/netip"
	"os"
	"time"

	"github.com/delvedns/delvedns/internal/dns"
	"github.com/delvedns/delvedns/internal/resolver"
)

func main() {
	var (
		name    = flag.String("name", "", "Name to resolve (required)")
		qtype   = flag.Int("qtype", 1, "Query type (numeric, A=1)")
		root    = flag.String("root", "", "Root server IPv4 address (default a.root-servers.net)")
		depth   = flag.Int("depth", resolver.DefaultMaxDepth, "Maximum delegation steps")
		timeout = flag.Duration("timeout", 3*time.Second, "Per-exchange timeout")
	)
	flag.Parse()

	if *name == "" {
		fmt.Fprintln(os.Stderr, "dnstrace: -name is required")
		flag.Usage()
		os.Exit(2)
	}

	rootAddr := resolver.DefaultRoot
	if *root != "" {
		addr, err := netip.ParseAddr(*root)
		if err != nil || !addr.Is4() {
			fmt.Fprintf(os.Stderr, "dnstrace: invalid root server %q\n", *root)
			os.Exit(2)
		}
		rootAddr = addr
	}

	rec := &resolver.Recursor{
		Exchanger: &resolver.UDPExchanger{Timeout: *timeout},
		Root:      rootAddr,
		MaxDepth:  *depth,
	}

	if err := trace(rec, *name, dns.RecordType(*qtype)); err != nil {
		fmt.Fprintf(os.Stderr, "dnstrace error: %v\n", err)
		os.Exit(1)
	}
}

// trace runs the same referral walk the resolution engine performs,
// printing each hop instead of hiding it.
func trace(rec *resolver.Recursor, name string, qtype dns.RecordType) error {
	ctx := context.Background()
	server := rec.Root
	budget := rec.MaxDepth
	if budget <= 0 {
		budget = resolver.DefaultMaxDepth
	}

	for hop := 1; ; hop++ {
		if budget <= 0 {
			return resolver.ErrDepthExceeded
		}
		budget--

		fmt.Printf(";; hop %d: asking %s about %s (type %d)\n", hop, server, name, uint16(qtype))
		resp, err := rec.Lookup(ctx, name, qtype, server)
		if err != nil {
			return err
		}

		fmt.Printf(";;   rcode=%d answers=%d authorities=%d additionals=%d\n",
			resp.Header.RCode, len(resp.Answers), len(resp.Authorities), len(resp.Additionals))

		if len(resp.Answers) > 0 && resp.Header.RCode == dns.RCodeNoError {
			fmt.Println(";; final answer")
			for _, rr := range resp.Answers {
				printRecord(rr)
			}
			return nil
		}
		if resp.Header.RCode == dns.RCodeNXDomain {
			fmt.Println(";; name does not exist (NXDOMAIN)")
			return nil
		}

		if glue, ok := resp.ResolvedNS(name); ok {
			if g4 := glue.To4(); g4 != nil {
				next, _ := netip.AddrFromSlice(g4)
				fmt.Printf(";;   referral with glue -> %s\n", next)
				server = next
				continue
			}
		}

		host, ok := resp.UnresolvedNS(name)
		if !ok {
			fmt.Println(";; dead end: no answer and no referral")
			return nil
		}

		fmt.Printf(";;   referral without glue, resolving %s first\n", host)
		nested, err := rec.Resolve(ctx, host, dns.TypeA)
		if err != nil {
			return err
		}
		addr, ok := nested.FirstA()
		if !ok {
			fmt.Printf(";; dead end: could not resolve name server %s\n", host)
			return nil
		}
		a4 := addr.To4()
		if a4 == nil {
			fmt.Printf(";; dead end: name server %s has no IPv4 address\n", host)
			return nil
		}
		next, _ := netip.AddrFromSlice(a4)
		server = next
	}
}

func printRecord(rr dns.Record) {
	h := rr.Header()
	switch rec := rr.(type) {
	case *dns.IPRecord:
		fmt.Printf("%s %d %s\n", h.Name, h.TTL, rec.Addr)
	case *dns.NameRecord:
		fmt.Printf("%s %d -> %s\n", h.Name, h.TTL, rec.Target)
	case *dns.MXRecord:
		fmt.Printf("%s %d MX %d %s\n", h.Name, h.TTL, rec.Preference, rec.Target)
	default:
		fmt.Printf("%s %d TYPE%d\n", h.Name, h.TTL, uint16(rr.Type()))
	}
}
