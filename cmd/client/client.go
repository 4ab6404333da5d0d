package main

import (
	"log"
	"os"

	"github.com/spf13/pflag"

	"udpcast/internal/client"
	"udpcast/pkg/models"
	"udpcast/pkg/report"
)

func main() {
	p := models.Defaults(models.Client)
	p.BindFlags(pflag.CommandLine)
	pflag.Parse()

	if err := p.Validate(); err != nil {
		log.Fatal(err)
	}

	if err := client.Run(p, report.NewPrinter(os.Stdout, p.Format)); err != nil {
		log.Fatalf("client failed: %v", err)
	}
}
