package main

import (
	"flag"
	"fmt"
	"os"

	pkgversion "github.com/sara-star-quant/tls13-client/pkg/version"
)

// Build-time variables (set via -ldflags).
var (
	version   = ""
	buildTime = "unknown"
	gitCommit = "unknown"
)

func getVersion() string {
	if version != "" {
		return version
	}
	return pkgversion.String()
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "connect":
		connectCommand()
	case "bench":
		benchCommand()
	case "version":
		fmt.Println(pkgversion.Full("tls13-client", getVersion()))
		if buildTime != "unknown" {
			fmt.Printf("Built: %s\n", buildTime)
		}
		if gitCommit != "unknown" {
			fmt.Printf("Commit: %s\n", gitCommit)
		}
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tls13-client - A from-scratch TLS 1.3 client core

USAGE:
    tls13-client <command> [options]

COMMANDS:
    connect   Connect to a server and exchange one message
    bench     Benchmark handshake latency against a server
    version   Print version information
    help      Show this help message

Run 'tls13-client <command> --help' for more information on a command.

EXAMPLES:
    # Connect and send one line, print the response
    tls13-client connect --addr example.com:443 --message "hello"

    # Time 50 handshakes against a server
    tls13-client bench --addr example.com:443 --handshakes 50

PROJECT:
    A from-scratch TLS 1.3 client core (RFC 8446): handshake state
    machine, HKDF key schedule, handshake reassembler, record layer.`)
}

func connectCommand() {
	fs := flag.NewFlagSet("connect", flag.ExitOnError)
	addr := fs.String("addr", "localhost:443", "host:port to connect to")
	message := fs.String("message", "hello", "message to send as one application_data record")
	timeout := fs.Duration("timeout", 0, "connect timeout (0 = library default)")
	verbose := fs.Bool("verbose", false, "print handshake progress")
	logFormat := fs.String("log-format", "text", "log format: text or json")
	cipherSuite := fs.String("cipher", "", "restrict to one cipher suite: aes128, aes256, chacha20 (default: all three)")

	fs.Usage = func() {
		fmt.Println(`USAGE: tls13-client connect [options]

Dial a TLS 1.3 server, complete the handshake, send one
application_data message, and print the response.

OPTIONS:`)
		fs.PrintDefaults()
	}

	_ = fs.Parse(os.Args[2:])
	runConnect(*addr, *message, *timeout, *verbose, *logFormat, *cipherSuite)
}

func benchCommand() {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	addr := fs.String("addr", "localhost:443", "host:port to connect to")
	handshakes := fs.Int("handshakes", 10, "number of handshakes to time")
	timeout := fs.Duration("timeout", 0, "connect timeout (0 = library default)")

	fs.Usage = func() {
		fmt.Println(`USAGE: tls13-client bench [options]

Repeatedly connect to a server and report handshake latency.

OPTIONS:`)
		fs.PrintDefaults()
	}

	_ = fs.Parse(os.Args[2:])
	runBench(*addr, *handshakes, *timeout)
}
