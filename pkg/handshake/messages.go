// Package handshake implements the TLS 1.3 handshake message codecs:
// encode/decode for ClientHello, ServerHello, EncryptedExtensions,
// Certificate, CertificateVerify, Finished, plus the extensions the
// client negotiates (key_share, supported_versions, signature_algorithms,
// supported_groups). This package is the concrete, hand-rolled
// big-endian wire codec the core depends on through narrow function
// calls; it owns no handshake logic of its own.
package handshake

import "github.com/sara-star-quant/tls13-client/internal/constants"

// KeyShareEntry pairs a named group with its key-exchange value.
type KeyShareEntry struct {
	Group NamedGroup
	Data  []byte
}

// NamedGroup re-exports constants.NamedGroup so callers need not import
// the internal package directly.
type NamedGroup = constants.NamedGroup

// ClientHello is the first message the client sends.
type ClientHello struct {
	LegacyVersion           uint16
	Random                  [32]byte
	LegacySessionID         []byte
	CipherSuites            []constants.CipherSuite
	LegacyCompressionMethod []byte

	ServerName          string // empty means no server_name extension
	SupportedVersions   []uint16
	SupportedGroups     []NamedGroup
	SignatureAlgorithms []constants.SignatureScheme
	PSKKeyExchangeModes []uint8
	ALPNProtocols       []string
	KeyShares           []KeyShareEntry
}

// ServerHello is the server's response.
type ServerHello struct {
	LegacyVersion           uint16
	Random                  [32]byte
	LegacySessionIDEcho     []byte
	CipherSuite             constants.CipherSuite
	LegacyCompressionMethod uint8

	SelectedVersion uint16 // from supported_versions extension, if present
	KeyShare        *KeyShareEntry
}

// EncryptedExtensions carries the server's remaining, now-encrypted,
// extensions. The core only needs the raw extension list to append to
// the transcript; it does not interpret extension semantics.
type EncryptedExtensions struct {
	Raw        []byte // exact extensions<0..2^16-1> body, for transcript fidelity
	ALPNProto  string // decoded opportunistically; empty if absent/unparsable
}

// CertificateEntry is one entry of a Certificate message's
// certificate_list. X.509 parsing/validation is out of core scope
//; CertData is passed through as opaque DER bytes.
type CertificateEntry struct {
	CertData   []byte
	Extensions []byte
}

// Certificate is the server's certificate chain message.
type Certificate struct {
	RequestContext []byte
	Entries        []CertificateEntry
}

// CertificateVerify carries the server's signature over the transcript.
// Signature verification is out of core scope; the core
// only needs the raw bytes for the transcript.
type CertificateVerify struct {
	Algorithm constants.SignatureScheme
	Signature []byte
}

// Finished carries a MAC over the handshake transcript.
// VerifyData's length equals the negotiated hash's output length.
type Finished struct {
	VerifyData []byte
}
