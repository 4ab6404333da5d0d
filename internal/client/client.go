package client

import (
	"net"

	"udpcast/internal/sock"
	"udpcast/pkg/models"
	"udpcast/pkg/report"
)

// Payload is the datagram every client sends.
var Payload = [...]byte{1, 2, 3, 4, 5}

// Client sends the fixed payload from an ephemeral socket.
type Client struct {
	conn    *net.UDPConn
	address string
	port    uint16
	out     *report.Printer
}

// New binds an ephemeral IPv4 socket with the requested broadcast flag and
// prints the flag as read back from the socket.
func New(p models.Params, out *report.Printer) (*Client, error) {
	conn, err := sock.Bind(&net.UDPAddr{IP: net.IPv4zero}, p.Broadcast)
	if err != nil {
		return nil, err
	}

	on, err := sock.Broadcast(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	out.Bound(on, conn.LocalAddr())

	return &Client{conn: conn, address: p.Address, port: p.Port, out: out}, nil
}

// LocalAddr returns the address the client socket is bound to.
func (c *Client) LocalAddr() *net.UDPAddr {
	return c.conn.LocalAddr().(*net.UDPAddr)
}

// Send writes Payload to the destination in a single call and returns the
// number of bytes the OS accepted.
func (c *Client) Send() (int, error) {
	dst, err := sock.Resolve("udp4", c.address, c.port)
	if err != nil {
		return 0, err
	}

	n, err := c.conn.WriteToUDP(Payload[:], dst)
	if err != nil {
		return n, &sock.IOError{Op: "send", Addr: dst.String(), Err: err}
	}
	c.out.Sent(n, c.address, c.port)
	return n, nil
}

// Close releases the socket.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Run sends one datagram and returns.
func Run(p models.Params, out *report.Printer) error {
	c, err := New(p, out)
	if err != nil {
		return err
	}
	defer c.Close()

	_, err = c.Send()
	return err
}
