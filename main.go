package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/pflag"

	"udpcast/internal/client"
	"udpcast/internal/server"
	"udpcast/pkg/models"
	"udpcast/pkg/report"
)

const version = "0.1.0"

const usage = "Usage: udpcast [client|server] [-b] [-a address] [-p port] [--format text|json]"

var errVersion = errors.New("version requested")

// parseArgs picks the subcommand from args[0] and parses its flags.
func parseArgs(args []string, stderr io.Writer) (models.Params, error) {
	if len(args) == 0 {
		return models.Params{}, errors.New(usage)
	}

	var mode models.Mode
	switch args[0] {
	case "client":
		mode = models.Client
	case "server", "serve":
		mode = models.Server
	case "-V", "--version", "version":
		return models.Params{}, errVersion
	default:
		return models.Params{}, fmt.Errorf("invalid command %q\n%s", args[0], usage)
	}

	p := models.Defaults(mode)
	fs := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	fs.SetOutput(stderr)
	p.BindFlags(fs)
	showVersion := fs.BoolP("version", "V", false, "print version and exit")
	if err := fs.Parse(args[1:]); err != nil {
		return p, err
	}
	if *showVersion {
		return p, errVersion
	}
	if fs.NArg() > 0 {
		return p, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return p, p.Validate()
}

func run(p models.Params, out io.Writer) error {
	printer := report.NewPrinter(out, p.Format)
	if p.Mode == models.Client {
		return client.Run(p, printer)
	}
	return server.Run(p, printer)
}

func main() {
	p, err := parseArgs(os.Args[1:], os.Stderr)
	switch {
	case errors.Is(err, errVersion):
		fmt.Println("udpcast", version)
		return
	case errors.Is(err, pflag.ErrHelp):
		return
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(p, os.Stdout); err != nil {
		log.Fatalf("%s failed: %v", p.Mode, err)
	}
}
