package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sara-star-quant/tls13-client/internal/constants"
	"github.com/sara-star-quant/tls13-client/pkg/obslog"
	"github.com/sara-star-quant/tls13-client/pkg/tls13"
)

func runConnect(addr, message string, timeout time.Duration, verbose bool, logFormat, cipherSuite string) {
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

	opts := []tls13.Option{}
	if timeout > 0 {
		opts = append(opts, tls13.WithTimeout(timeout))
	}
	if suites, err := parseCipherSuite(cipherSuite); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	} else if suites != nil {
		opts = append(opts, tls13.WithCipherSuites(suites))
	}

	format := obslog.FormatText
	if strings.EqualFold(logFormat, "json") {
		format = obslog.FormatJSON
	}
	level := obslog.LevelSilent
	if verbose {
		level = obslog.LevelDebug
	}
	opts = append(opts, tls13.WithLogger(obslog.New(
		obslog.WithOutput(os.Stderr),
		obslog.WithLevel(level),
		obslog.WithFormat(format),
		obslog.WithName("tls13-client"),
	)))

	client, err := tls13.New(host, uint16(port), opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Connecting to %s...\n", addr)
	start := time.Now()

	ctx := context.Background()
	if err := client.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: handshake failed: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = client.Close() }()

	fmt.Printf("Connected (handshake took %v)\n", time.Since(start))

	fmt.Printf("Sending: %q\n", message)
	if err := client.SendData([]byte(message)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: send failed: %v\n", err)
		os.Exit(1)
	}

	response, err := client.ReceiveData()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: receive failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Received: %q\n", response)
}

func parseCipherSuite(name string) ([]constants.CipherSuite, error) {
	switch strings.ToLower(name) {
	case "":
		return nil, nil
	case "aes128":
		return []constants.CipherSuite{constants.TLS_AES_128_GCM_SHA256}, nil
	case "aes256":
		return []constants.CipherSuite{constants.TLS_AES_256_GCM_SHA384}, nil
	case "chacha20":
		return []constants.CipherSuite{constants.TLS_CHACHA20_POLY1305_SHA256}, nil
	default:
		return nil, fmt.Errorf("unknown cipher suite %q (use aes128, aes256, or chacha20)", name)
	}
}
