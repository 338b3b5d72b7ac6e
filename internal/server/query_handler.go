// Package server implements the UDP front end: socket handling, admission
// control, and the query handler that drives the recursor.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/delvedns/delvedns/internal/dns"
	"github.com/delvedns/delvedns/internal/resolver"
)

// QueryHandler processes one inbound DNS request end to end: parse,
// recursively resolve, assemble the response. It owns the error
// mapping required at the serving boundary: a request with no question
// becomes FORMERR, any resolution failure becomes SERVFAIL, and nothing
// a client sends may crash the process or affect another query.
type QueryHandler struct {
	Logger   *slog.Logger       // Optional
	Recursor *resolver.Recursor // The resolution engine
	Timeout  time.Duration      // Per-query budget (default 10s)
}

// HandleResult contains the outcome of query processing.
type HandleResult struct {
	ResponseBytes []byte // Serialized DNS response; empty means drop
	Source        string // Outcome tag for logging/journaling
	QName         string // Queried name, if one was parsed
	QType         uint16 // Queried type, if one was parsed
	RCode         uint8  // Result code of the response
}

// Handle processes a raw DNS request and returns the wire response.
func (h *QueryHandler) Handle(ctx context.Context, src string, reqBytes []byte) HandleResult {
	req, err := dns.ParseRequest(reqBytes)
	if err != nil {
		// Nothing trustworthy to respond to; drop silently.
		return HandleResult{Source: "parse-error"}
	}

	if len(req.Questions) == 0 {
		resp := dns.BuildErrorResponse(req, dns.RCodeFormErr)
		return HandleResult{
			ResponseBytes: mustMarshal(&resp),
			Source:        "formerr",
			RCode:         uint8(dns.RCodeFormErr),
		}
	}

	q := req.Questions[0]
	result := h.resolveWithTimeout(ctx, req)
	result.QName = q.Name
	result.QType = uint16(q.Type)

	if h.Logger != nil && h.Logger.Enabled(ctx, slog.LevelDebug) {
		h.Logger.Debug("dns request",
			"src", src,
			"id", int(req.Header.ID),
			"qname", q.Name,
			"qtype", int(q.Type),
			"rcode", int(result.RCode),
			"source", result.Source,
		)
	}
	return result
}

// resolveWithTimeout runs the recursor under the per-query budget and
// maps every failure mode to SERVFAIL.
func (h *QueryHandler) resolveWithTimeout(ctx context.Context, req dns.Packet) HandleResult {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	q := req.Questions[0]
	answer, err := h.Recursor.Resolve(ctx, q.Name, q.Type)
	if err != nil {
		resp := dns.BuildErrorResponse(req, dns.RCodeServFail)
		return HandleResult{
			ResponseBytes: mustMarshal(&resp),
			Source:        "servfail",
			RCode:         uint8(dns.RCodeServFail),
		}
	}

	resp := buildResponse(req, answer)
	b, err := resp.Marshal()
	if err != nil {
		fallback := dns.BuildErrorResponse(req, dns.RCodeServFail)
		return HandleResult{
			ResponseBytes: mustMarshal(&fallback),
			Source:        "servfail",
			RCode:         uint8(dns.RCodeServFail),
		}
	}
	return HandleResult{
		ResponseBytes: b,
		Source:        "resolved",
		RCode:         uint8(resp.Header.RCode),
	}
}

// buildResponse assembles the client-facing response from the
// recursor's result: the client's transaction ID and question, RD
// echoed, RA set, and the resolved sections copied over.
func buildResponse(req dns.Packet, answer dns.Packet) dns.Packet {
	return dns.Packet{
		Header: dns.Header{
			ID:                 req.Header.ID,
			Response:           true,
			RecursionDesired:   req.Header.RecursionDesired,
			RecursionAvailable: true,
			RCode:              answer.Header.RCode,
		},
		Questions:   req.Questions,
		Answers:     answer.Answers,
		Authorities: answer.Authorities,
		Additionals: answer.Additionals,
	}
}

// mustMarshal serializes a packet, returning nil on error. Error
// responses carry no variable payload beyond the echoed question, so a
// failure here means the question itself does not fit a packet; the
// request is dropped.
func mustMarshal(p *dns.Packet) []byte {
	b, err := p.Marshal()
	if err != nil {
		return nil
	}
	return b
}
