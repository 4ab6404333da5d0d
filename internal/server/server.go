package server

import (
	"net"

	"udpcast/internal/sock"
	"udpcast/pkg/models"
	"udpcast/pkg/report"
)

// BufferSize is the receive buffer length. Longer datagrams are truncated.
const BufferSize = 64

// Server prints the size and origin of every datagram it receives.
// Create one with Listen and call Serve to start the receive loop.
type Server struct {
	conn *net.UDPConn
	out  *report.Printer
}

// Listen binds addr:port with the requested broadcast flag and prints the
// flag and the bound address.
func Listen(p models.Params, out *report.Printer) (*Server, error) {
	addr, err := sock.Resolve("udp", p.Address, p.Port)
	if err != nil {
		return nil, err
	}

	conn, err := sock.Bind(addr, p.Broadcast)
	if err != nil {
		return nil, err
	}

	on, err := sock.Broadcast(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	out.Bound(on, conn.LocalAddr())

	return &Server{conn: conn, out: out}, nil
}

// LocalAddr returns the bound address, including an OS-assigned port.
func (s *Server) LocalAddr() *net.UDPAddr {
	return s.conn.LocalAddr().(*net.UDPAddr)
}

// Serve blocks receiving datagrams until the first read error, which it
// returns. It never returns nil.
func (s *Server) Serve() error {
	buf := make([]byte, BufferSize)
	for {
		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			return &sock.IOError{Op: "receive", Addr: s.conn.LocalAddr().String(), Err: err}
		}
		s.out.Received(n, addr)
	}
}

// Close releases the socket. A blocked Serve returns with a receive error.
func (s *Server) Close() error {
	return s.conn.Close()
}

// Run binds and serves until a receive error.
func Run(p models.Params, out *report.Printer) error {
	s, err := Listen(p, out)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.Serve()
}
