package main

import (
	"log"
	"os"

	"github.com/spf13/pflag"

	"udpcast/internal/server"
	"udpcast/pkg/models"
	"udpcast/pkg/report"
)

func main() {
	p := models.Defaults(models.Server)
	p.BindFlags(pflag.CommandLine)
	pflag.Parse()

	if err := p.Validate(); err != nil {
		log.Fatal(err)
	}

	// Serve only returns on a receive error.
	if err := server.Run(p, report.NewPrinter(os.Stdout, p.Format)); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
