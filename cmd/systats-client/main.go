package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	client "github.com/teslafields/sysinfo-reader/client"
)

const usage = `usage: systats-client [-addr=host:port] [-timeout=duration] [-compact] snapshot|cpu|memory|disks|networks|ping
  snapshot - all published statistics
  cpu      - cpu usage and frequency
  memory   - memory free/used/available/buffers
  disks    - used space per disk
  networks - rx/tx counters per interface
  ping     - check the server is alive`

func main() {
	addr := flag.String("addr", envOr("SYSTATS_ADDR", "localhost:8000"), "systats gRPC address (or SYSTATS_ADDR env)")
	timeout := flag.Duration("timeout", 5*time.Second, "RPC timeout")
	compact := flag.Bool("compact", false, "print single-line JSON")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	c, err := client.New(*addr, client.WithTimeout(*timeout))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = c.Close() }()

	if err := runCommand(context.Background(), c, args[0], os.Stdout, !*compact); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1) // nolint: gocritic
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
