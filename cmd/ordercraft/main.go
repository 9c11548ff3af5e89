package main

import (
	"fmt"
	"os"

	"github.com/ordercraft/ordercraft/internal/adapters/inbound/cli"
	"github.com/ordercraft/ordercraft/internal/telemetry"

	_ "github.com/ordercraft/ordercraft/docs"
)

func main() {
	telemetry.InitLogger()

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
