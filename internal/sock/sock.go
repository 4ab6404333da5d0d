// Package sock holds the UDP socket primitives shared by the client and the
// server: binding with the broadcast flag applied, reading the flag back and
// resolving endpoints.
package sock

import (
	"context"
	"net"
	"strconv"
	"syscall"
)

// Bind opens a UDP socket on addr. SO_BROADCAST is set to broadcast after
// the socket is created and before it is bound, overriding the platform
// default.
func Bind(addr *net.UDPAddr, broadcast bool) (*net.UDPConn, error) {
	lc := net.ListenConfig{
		Control: func(_, _ string, rc syscall.RawConn) error {
			var serr error
			if err := rc.Control(func(fd uintptr) {
				serr = setBroadcast(fd, broadcast)
			}); err != nil {
				return err
			}
			return serr
		},
	}

	pc, err := lc.ListenPacket(context.Background(), network(addr), addr.String())
	if err != nil {
		return nil, &IOError{Op: "bind", Addr: addr.String(), Err: err}
	}
	return pc.(*net.UDPConn), nil
}

// Broadcast reports whether SO_BROADCAST is set on conn.
func Broadcast(conn *net.UDPConn) (bool, error) {
	rc, err := conn.SyscallConn()
	if err != nil {
		return false, &IOError{Op: "getsockopt", Addr: conn.LocalAddr().String(), Err: err}
	}

	var (
		on   bool
		gerr error
	)
	if err := rc.Control(func(fd uintptr) {
		on, gerr = getBroadcast(fd)
	}); err != nil {
		return false, &IOError{Op: "getsockopt", Addr: conn.LocalAddr().String(), Err: err}
	}
	if gerr != nil {
		return false, &IOError{Op: "getsockopt", Addr: conn.LocalAddr().String(), Err: gerr}
	}
	return on, nil
}

// Resolve turns a host (address or name) and port into a UDP endpoint.
func Resolve(network, host string, port uint16) (*net.UDPAddr, error) {
	hostport := net.JoinHostPort(host, strconv.Itoa(int(port)))
	addr, err := net.ResolveUDPAddr(network, hostport)
	if err != nil {
		return nil, &IOError{Op: "resolve", Addr: hostport, Err: err}
	}
	return addr, nil
}

// network picks udp4 for IPv4 and wildcard addresses so that the broadcast
// flag applies to an AF_INET socket.
func network(addr *net.UDPAddr) string {
	if addr.IP == nil || addr.IP.To4() != nil {
		return "udp4"
	}
	return "udp6"
}
