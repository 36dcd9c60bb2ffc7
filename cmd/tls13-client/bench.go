package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/sara-star-quant/tls13-client/pkg/tls13"
)

func runBench(addr string, handshakes int, timeout time.Duration) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid address %q: %v\n", addr, err)
		os.Exit(1)
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid port %q: %v\n", portStr, err)
		os.Exit(1)
	}

	if handshakes <= 0 {
		fmt.Println("Nothing to do: --handshakes must be > 0")
		os.Exit(1)
	}

	fmt.Printf("Benchmarking %d handshakes against %s\n", handshakes, addr)

	opts := []tls13.Option{}
	if timeout > 0 {
		opts = append(opts, tls13.WithTimeout(timeout))
	}

	durations := make([]time.Duration, 0, handshakes)
	failures := 0

	for i := 0; i < handshakes; i++ {
		client, err := tls13.New(host, uint16(port), opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = client.Connect(ctx)
		cancel()
		if err != nil {
			failures++
			fmt.Printf("  [%d] failed: %v\n", i+1, err)
			continue
		}
		durations = append(durations, time.Since(start))
		_ = client.Close()
	}

	if len(durations) == 0 {
		fmt.Println("All handshakes failed.")
		os.Exit(1)
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	mean := total / time.Duration(len(durations))
	p50 := durations[len(durations)/2]
	p99 := durations[(len(durations)*99)/100]

	fmt.Println()
	fmt.Printf("Completed: %d/%d (%d failures)\n", len(durations), handshakes, failures)
	fmt.Printf("  min:  %v\n", durations[0])
	fmt.Printf("  mean: %v\n", mean)
	fmt.Printf("  p50:  %v\n", p50)
	fmt.Printf("  p99:  %v\n", p99)
	fmt.Printf("  max:  %v\n", durations[len(durations)-1])
}
