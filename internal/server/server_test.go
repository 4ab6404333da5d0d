package server

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"testing"
	"time"

	"udpcast/internal/client"
	"udpcast/pkg/models"
	"udpcast/pkg/report"
)

// lineWriter hands every Write to the test as one line.
type lineWriter chan string

func (w lineWriter) Write(p []byte) (int, error) {
	w <- string(p)
	return len(p), nil
}

func (w lineWriter) next(t *testing.T) string {
	t.Helper()
	select {
	case line := <-w:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for output")
		return ""
	}
}

func loopbackParams(port uint16) models.Params {
	p := models.Defaults(models.Server)
	p.Address = "127.0.0.1"
	p.Port = port
	return p
}

func startServer(t *testing.T) (*Server, lineWriter, chan error) {
	t.Helper()
	out := make(lineWriter, 16)
	s, err := Listen(loopbackParams(0), report.NewPrinter(out, report.Text))
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	out.next(t)

	done := make(chan error, 1)
	go func() { done <- s.Serve() }()
	return s, out, done
}

func send(t *testing.T, to *net.UDPAddr, payload []byte) *net.UDPAddr {
	t.Helper()
	conn, err := net.DialUDP("udp4", nil, to)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write(payload); err != nil {
		t.Fatalf("write: %v", err)
	}
	return conn.LocalAddr().(*net.UDPAddr)
}

func TestListenPortZero(t *testing.T) {
	out := make(lineWriter, 1)
	s, err := Listen(loopbackParams(0), report.NewPrinter(out, report.Text))
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer s.Close()

	port := s.LocalAddr().Port
	if port == 0 {
		t.Fatal("no port assigned")
	}
	want := fmt.Sprintf("broadcast: false, local addr: 127.0.0.1:%d\n", port)
	if got := out.next(t); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestListenBroadcastEnabled(t *testing.T) {
	out := make(lineWriter, 1)
	p := loopbackParams(0)
	p.Broadcast = true
	s, err := Listen(p, report.NewPrinter(out, report.Text))
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer s.Close()

	if got := out.next(t); !strings.HasPrefix(got, "broadcast: true, ") {
		t.Errorf("got %q", got)
	}
}

func TestServeReportsDatagrams(t *testing.T) {
	s, out, done := startServer(t)

	from := send(t, s.LocalAddr(), []byte{1, 2, 3, 4, 5})
	want := fmt.Sprintf("5 bytes from 127.0.0.1:%d\n", from.Port)
	if got := out.next(t); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	s.Close()
	if err := <-done; err == nil {
		t.Error("Serve returned nil")
	}
}

func TestServeReportsClientDatagram(t *testing.T) {
	s, out, done := startServer(t)
	defer func() {
		s.Close()
		<-done
	}()

	p := models.Defaults(models.Client)
	p.Address = "127.0.0.1"
	p.Port = uint16(s.LocalAddr().Port)

	var clientOut strings.Builder
	c, err := client.New(p, report.NewPrinter(&clientOut, report.Text))
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	defer c.Close()

	n, err := c.Send()
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if n != len(client.Payload) {
		t.Errorf("client sent %d bytes, want %d", n, len(client.Payload))
	}

	want := fmt.Sprintf("5 bytes from 127.0.0.1:%d\n", c.LocalAddr().Port)
	if got := out.next(t); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRunClientAgainstServer(t *testing.T) {
	s, out, done := startServer(t)
	defer func() {
		s.Close()
		<-done
	}()

	p := models.Defaults(models.Client)
	p.Address = "127.0.0.1"
	p.Port = uint16(s.LocalAddr().Port)

	var clientOut strings.Builder
	if err := client.Run(p, report.NewPrinter(&clientOut, report.Text)); err != nil {
		t.Fatalf("client.Run: %v", err)
	}

	// The first client line is "broadcast: false, local addr: 0.0.0.0:<port>".
	first, _, _ := strings.Cut(clientOut.String(), "\n")
	_, port, ok := strings.Cut(first, "local addr: 0.0.0.0:")
	if !ok {
		t.Fatalf("unexpected client output %q", clientOut.String())
	}

	want := fmt.Sprintf("5 bytes from 127.0.0.1:%s\n", port)
	if got := out.next(t); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestServeTruncatesLongDatagrams(t *testing.T) {
	s, out, done := startServer(t)
	defer func() {
		s.Close()
		<-done
	}()

	from := send(t, s.LocalAddr(), make([]byte, 200))
	want := fmt.Sprintf("%d bytes from 127.0.0.1:%d\n", BufferSize, from.Port)
	if got := out.next(t); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	from = send(t, s.LocalAddr(), []byte{9})
	want = fmt.Sprintf("1 bytes from 127.0.0.1:%d\n", from.Port)
	if got := out.next(t); got != want {
		t.Errorf("loop did not survive truncation: got %q, want %q", got, want)
	}
}

func TestServeReturnsReceiveError(t *testing.T) {
	s, _, done := startServer(t)
	s.Close()

	select {
	case err := <-done:
		if !errors.Is(err, net.ErrClosed) {
			t.Errorf("err = %v, want net.ErrClosed", err)
		}
		if !strings.HasPrefix(err.Error(), "receive ") {
			t.Errorf("err = %q, want receive IOError", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Close")
	}
}

func TestSecondServerAddressInUse(t *testing.T) {
	first, out, done := startServer(t)
	defer func() {
		first.Close()
		<-done
	}()

	_, err := Listen(loopbackParams(uint16(first.LocalAddr().Port)), report.NewPrinter(out, report.Text))
	if err == nil {
		t.Fatal("second Listen succeeded")
	}
	if !errors.Is(err, syscall.EADDRINUSE) {
		t.Errorf("err = %v, want EADDRINUSE", err)
	}
}
