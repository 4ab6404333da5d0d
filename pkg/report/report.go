package report

import (
	"fmt"
	"io"
	"log"
	"net"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Format selects how status lines are rendered.
type Format int

const (
	Text Format = iota
	JSON
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "":
		return Text, nil
	case "json":
		return JSON, nil
	}
	return Text, fmt.Errorf("unknown output format %q (want text or json)", s)
}

func (f Format) String() string {
	if f == JSON {
		return "json"
	}
	return "text"
}

// Set implements pflag.Value.
func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string { return "format" }

// Printer writes one status line per event. Every line is emitted with a
// single Write call.
type Printer struct {
	w       io.Writer
	format  Format
	session uuid.UUID
}

// NewPrinter returns a Printer tagged with a fresh session id.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format, session: uuid.New()}
}

// Session returns the id stamped on json events.
func (p *Printer) Session() uuid.UUID {
	return p.session
}

// Bound reports the broadcast flag read back from the socket and its local address.
func (p *Printer) Bound(broadcast bool, local net.Addr) {
	if p.format == JSON {
		p.emit("bound", map[string]any{
			"broadcast":  broadcast,
			"local_addr": local.String(),
		})
		return
	}
	fmt.Fprintf(p.w, "broadcast: %t, local addr: %s\n", broadcast, local)
}

// Sent reports a completed send of n bytes to address:port.
func (p *Printer) Sent(n int, address string, port uint16) {
	if p.format == JSON {
		p.emit("sent", map[string]any{
			"bytes":   n,
			"address": address,
			"port":    int(port),
		})
		return
	}
	fmt.Fprintf(p.w, "Sent %d bytes to %s:%d\n", n, address, port)
}

// Received reports a datagram of n bytes from addr.
func (p *Printer) Received(n int, from net.Addr) {
	if p.format == JSON {
		p.emit("received", map[string]any{
			"bytes": n,
			"from":  from.String(),
		})
		return
	}
	fmt.Fprintf(p.w, "%d bytes from %s\n", n, from)
}

func (p *Printer) emit(event string, fields map[string]any) {
	fields["session"] = p.session.String()
	fields["event"] = event

	s, err := structpb.NewStruct(fields)
	if err != nil {
		log.Printf("Failed to build %s event: %v", event, err)
		return
	}
	out, err := protojson.Marshal(s)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", event, err)
		return
	}
	if _, err := p.w.Write(append(out, '\n')); err != nil {
		log.Printf("Failed to write %s event: %v", event, err)
	}
}
