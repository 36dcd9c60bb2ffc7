// Package tls13client provides a from-scratch TLS 1.3 client core: the
// handshake state machine, the HKDF-based key schedule, the handshake
// message reassembler, and the record-layer cipher-state handoff
// described in RFC 8446.
//
// # Quick Start
//
// For a full connection:
//
//	import "github.com/sara-star-quant/tls13-client/pkg/tls13"
//
//	client, _ := tls13.New("example.com", 443)
//	if err := client.Connect(context.Background()); err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	client.SendData([]byte("GET / HTTP/1.1\r\nHost: example.com\r\n\r\n"))
//	resp, _ := client.ReceiveData()
//
// # Package Structure
//
// The module is organized into several packages:
//
//   - pkg/tls13: the handshake state machine, key schedule, transcript,
//     handshake-message reassembler, and the Client orchestrator
//   - pkg/handshake: handshake message structures, wire codecs, and
//     extension encodings (RFC 8446 §4)
//   - pkg/record: the record-layer adapter — fragmentation, AEAD
//     sealing/opening, sequence numbers, and cipher-state installation
//   - pkg/crypto: cryptographic primitives treated as external
//     collaborators (X25519, HKDF, AEAD construction, CSPRNG)
//   - pkg/obslog: structured logging and OpenTelemetry tracing
//   - internal/constants: wire-format constants and security parameters
//   - internal/errors: the error taxonomy (Transport, Protocol, Crypto,
//     Config, Usage)
//
// # Security Properties
//
// This core implements:
//
//   - Forward secrecy via ephemeral X25519 key exchange
//   - Authenticated encryption: AES-128-GCM, AES-256-GCM, or
//     ChaCha20-Poly1305, selected by the negotiated cipher suite
//   - A from-scratch HKDF key schedule (Early, Handshake, Master
//     secrets; RFC 8446 §7.1) with constant-time Finished verification
//   - Best-effort zeroization of derived secrets and ephemeral key
//     material on connection close or handshake failure
//
// Certificate chain validation is delegated entirely to an optional
// caller-supplied hook (tls13.WithVerifyPeerCertificate); this core
// never parses or validates X.509 certificates itself.
//
// # Non-goals
//
// Session resumption (PSK/tickets), 0-RTT early data, HelloRetryRequest,
// post-handshake client authentication, key update, TLS 1.2 fallback,
// DTLS, server-side TLS, and renegotiation are all out of scope. This
// package implements one client-initiated TLS 1.3 handshake per
// connection and nothing beyond it.
//
// # References
//
//   - RFC 8446: The Transport Layer Security (TLS) Protocol Version 1.3
//   - RFC 7748: Elliptic Curves for Security
//   - RFC 5869: HMAC-based Extract-and-Expand Key Derivation Function
package tls13client
