package models

import (
	"errors"

	"github.com/spf13/pflag"

	"udpcast/pkg/report"
)

// Mode selects which side of the exchange an invocation runs.
type Mode int

const (
	Client Mode = iota + 1
	Server
)

// String returns the subcommand name of the mode.
func (m Mode) String() string {
	switch m {
	case Client:
		return "client"
	case Server:
		return "server"
	}
	return "unknown"
}

// DefaultPort is used by both modes when -p is not given.
const DefaultPort uint16 = 5555

const (
	DefaultClientAddress = "255.255.255.255"
	DefaultServerAddress = "0.0.0.0"
)

// Params is the struct holding one invocation's parameters
type Params struct {
	Mode      Mode
	Broadcast bool
	Address   string
	Port      uint16
	Format    report.Format
}

// Defaults returns the parameters a mode runs with when no flags are given.
func Defaults(mode Mode) Params {
	p := Params{Mode: mode, Port: DefaultPort, Format: report.Text}
	switch mode {
	case Client:
		p.Address = DefaultClientAddress
	case Server:
		p.Address = DefaultServerAddress
	}
	return p
}

// BindFlags registers the mode's flags on fs, using the current values of p
// as defaults.
func (p *Params) BindFlags(fs *pflag.FlagSet) {
	addrUsage := "destination address"
	portUsage := "destination port"
	if p.Mode == Server {
		addrUsage = "bind address"
		portUsage = "bind port"
	}

	fs.BoolVarP(&p.Broadcast, "broadcast", "b", p.Broadcast, "enable broadcast permission on the socket")
	fs.StringVarP(&p.Address, "address", "a", p.Address, addrUsage)
	fs.Uint16VarP(&p.Port, "port", "p", p.Port, portUsage)
	fs.Var(&p.Format, "format", "status output format: text or json")
}

// Validate checks what the flag parser cannot.
func (p Params) Validate() error {
	if p.Mode != Client && p.Mode != Server {
		return errors.New("mode must be client or server")
	}
	if p.Address == "" {
		return errors.New("address must not be empty")
	}
	return nil
}
