// codec.go implements the handshake message codecs: encode/decode for
// ClientHello, ServerHello, EncryptedExtensions, Certificate,
// CertificateVerify, and Finished, each framed as a TLS 1.3 handshake
// message:
//
//	uint8  msg_type
//	uint24 length
//	opaque body[length]
//
// The length field is 3 bytes (RFC 8446 §4), and Finished.VerifyData is
// sized to the negotiated hash rather than a fixed length.
package handshake

import (
	"github.com/sara-star-quant/tls13-client/internal/constants"
	qerrors "github.com/sara-star-quant/tls13-client/internal/errors"
)

// Frame wraps an encoded message body with its handshake header
// (msg_type + 3-byte length), for both outbound writes and transcript
// accumulation.
func Frame(msgType uint8, body []byte) []byte {
	var w writer
	w.u8(msgType)
	w.u24(uint32(len(body)))
	w.raw(body)
	return w.bytes()
}

// ParseHeader reads the 4-byte handshake header from buf, returning the
// message type, body length, and whether enough bytes were available.
// Used by the reassembler, which operates on a byte stream
// of unknown framing boundaries.
func ParseHeader(buf []byte) (msgType uint8, length uint32, ok bool) {
	if len(buf) < 4 {
		return 0, 0, false
	}
	return buf[0], uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3]), true
}

// HeaderLen is the fixed handshake message header size.
const HeaderLen = 4

// EncodeClientHello serializes a ClientHello body (excluding the
// handshake header).
func EncodeClientHello(ch *ClientHello) ([]byte, error) {
	var w writer
	w.u16(ch.LegacyVersion)
	w.raw(ch.Random[:])
	w.vec8(ch.LegacySessionID)

	var suites writer
	for _, cs := range ch.CipherSuites {
		suites.u16(uint16(cs))
	}
	w.vec16(suites.bytes())
	w.vec8(ch.LegacyCompressionMethod)

	var ext writer
	if ch.ServerName != "" {
		writeExtension(&ext, constants.ExtServerName, encodeServerNameExtension(ch.ServerName))
	}
	if len(ch.SupportedVersions) > 0 {
		writeExtension(&ext, constants.ExtSupportedVersions, encodeSupportedVersionsCH(ch.SupportedVersions))
	}
	if len(ch.SupportedGroups) > 0 {
		writeExtension(&ext, constants.ExtSupportedGroups, encodeSupportedGroups(ch.SupportedGroups))
	}
	if len(ch.SignatureAlgorithms) > 0 {
		writeExtension(&ext, constants.ExtSignatureAlgorithms, encodeSignatureAlgorithms(ch.SignatureAlgorithms))
	}
	if len(ch.PSKKeyExchangeModes) > 0 {
		writeExtension(&ext, constants.ExtPSKKeyExchangeModes, encodePSKKeyExchangeModes(ch.PSKKeyExchangeModes))
	}
	if len(ch.ALPNProtocols) > 0 {
		writeExtension(&ext, constants.ExtALPN, encodeALPN(ch.ALPNProtocols))
	}
	if len(ch.KeyShares) > 0 {
		writeExtension(&ext, constants.ExtKeyShare, encodeKeyShareCH(ch.KeyShares))
	}
	w.vec16(ext.bytes())

	return w.bytes(), nil
}

// DecodeClientHello parses a ClientHello body (used by test fixtures and
// any future server-side tooling; the client only encodes these).
func DecodeClientHello(body []byte) (*ClientHello, error) {
	r := newReader(body)
	ch := &ClientHello{}

	v, err := r.u16()
	if err != nil {
		return nil, err
	}
	ch.LegacyVersion = v

	rnd, err := r.raw(32)
	if err != nil {
		return nil, err
	}
	copy(ch.Random[:], rnd)

	sid, err := r.vec8()
	if err != nil {
		return nil, err
	}
	ch.LegacySessionID = sid

	suites, err := r.vec16()
	if err != nil {
		return nil, err
	}
	sr := newReader(suites)
	for !sr.done() {
		cs, err := sr.u16()
		if err != nil {
			return nil, err
		}
		ch.CipherSuites = append(ch.CipherSuites, constants.CipherSuite(cs))
	}

	comp, err := r.vec8()
	if err != nil {
		return nil, err
	}
	ch.LegacyCompressionMethod = comp

	extBody, err := r.vec16()
	if err != nil {
		return nil, err
	}
	err = decodeExtensions(extBody, func(extType uint16, data []byte) error {
		switch extType {
		case constants.ExtSupportedVersions:
			lr := newReader(data)
			list, err := lr.vec8()
			if err != nil {
				return err
			}
			vr := newReader(list)
			for !vr.done() {
				ver, err := vr.u16()
				if err != nil {
					return err
				}
				ch.SupportedVersions = append(ch.SupportedVersions, ver)
			}
		case constants.ExtSupportedGroups:
			lr := newReader(data)
			list, err := lr.vec16()
			if err != nil {
				return err
			}
			gr := newReader(list)
			for !gr.done() {
				g, err := gr.u16()
				if err != nil {
					return err
				}
				ch.SupportedGroups = append(ch.SupportedGroups, NamedGroup(g))
			}
		case constants.ExtKeyShare:
			lr := newReader(data)
			list, err := lr.vec16()
			if err != nil {
				return err
			}
			kr := newReader(list)
			for !kr.done() {
				g, err := kr.u16()
				if err != nil {
					return err
				}
				ke, err := kr.vec16()
				if err != nil {
					return err
				}
				ch.KeyShares = append(ch.KeyShares, KeyShareEntry{Group: NamedGroup(g), Data: ke})
			}
		case constants.ExtALPN:
			proto, err := decodeALPN(data)
			if err != nil {
				return err
			}
			if proto != "" {
				ch.ALPNProtocols = []string{proto}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ch, nil
}

// EncodeServerHello serializes a ServerHello body. The client never sends
// this; it exists for completeness and for test fixtures that build a
// synthetic server response.
func EncodeServerHello(sh *ServerHello) ([]byte, error) {
	var w writer
	w.u16(sh.LegacyVersion)
	w.raw(sh.Random[:])
	w.vec8(sh.LegacySessionIDEcho)
	w.u16(uint16(sh.CipherSuite))
	w.u8(sh.LegacyCompressionMethod)

	var ext writer
	if sh.SelectedVersion != 0 {
		var v writer
		v.u16(sh.SelectedVersion)
		writeExtension(&ext, constants.ExtSupportedVersions, v.bytes())
	}
	if sh.KeyShare != nil {
		var ks writer
		ks.u16(uint16(sh.KeyShare.Group))
		ks.vec16(sh.KeyShare.Data)
		writeExtension(&ext, constants.ExtKeyShare, ks.bytes())
	}
	w.vec16(ext.bytes())

	return w.bytes(), nil
}

// DecodeServerHello parses a ServerHello body.
func DecodeServerHello(body []byte) (*ServerHello, error) {
	r := newReader(body)
	sh := &ServerHello{}

	v, err := r.u16()
	if err != nil {
		return nil, err
	}
	sh.LegacyVersion = v

	rnd, err := r.raw(32)
	if err != nil {
		return nil, err
	}
	copy(sh.Random[:], rnd)

	sid, err := r.vec8()
	if err != nil {
		return nil, err
	}
	sh.LegacySessionIDEcho = sid

	cs, err := r.u16()
	if err != nil {
		return nil, err
	}
	sh.CipherSuite = constants.CipherSuite(cs)

	comp, err := r.u8()
	if err != nil {
		return nil, err
	}
	sh.LegacyCompressionMethod = comp

	extBody, err := r.vec16()
	if err != nil {
		return nil, err
	}
	err = decodeExtensions(extBody, func(extType uint16, data []byte) error {
		switch extType {
		case constants.ExtSupportedVersions:
			sv, err := decodeSupportedVersionsSH(data)
			if err != nil {
				return err
			}
			sh.SelectedVersion = sv
		case constants.ExtKeyShare:
			ks, err := decodeKeyShareSH(data)
			if err != nil {
				return err
			}
			sh.KeyShare = ks
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sh, nil
}

// DecodeEncryptedExtensions parses an EncryptedExtensions body. The core
// only needs ALPN selection out of it; everything else rides along as
// Raw for transcript purposes.
func DecodeEncryptedExtensions(body []byte) (*EncryptedExtensions, error) {
	ee := &EncryptedExtensions{Raw: body}
	r := newReader(body)
	extBody, err := r.vec16()
	if err != nil {
		return nil, err
	}
	err = decodeExtensions(extBody, func(extType uint16, data []byte) error {
		if extType == constants.ExtALPN {
			proto, err := decodeALPN(data)
			if err != nil {
				return err
			}
			ee.ALPNProto = proto
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ee, nil
}

// DecodeCertificate parses a Certificate message body.
// Certificate validation is out of core scope; this only has to preserve
// enough structure for the transcript and for an optional verification
// hook to inspect the raw DER chain.
func DecodeCertificate(body []byte) (*Certificate, error) {
	r := newReader(body)
	cert := &Certificate{}

	ctx, err := r.vec8()
	if err != nil {
		return nil, err
	}
	cert.RequestContext = ctx

	list, err := r.vec24()
	if err != nil {
		return nil, err
	}
	lr := newReader(list)
	for !lr.done() {
		data, err := lr.vec24()
		if err != nil {
			return nil, err
		}
		extBody, err := lr.vec16()
		if err != nil {
			return nil, err
		}
		cert.Entries = append(cert.Entries, CertificateEntry{CertData: data, Extensions: extBody})
	}

	return cert, nil
}

// DecodeCertificateVerify parses a CertificateVerify message body.
func DecodeCertificateVerify(body []byte) (*CertificateVerify, error) {
	r := newReader(body)
	alg, err := r.u16()
	if err != nil {
		return nil, err
	}
	sig, err := r.vec16()
	if err != nil {
		return nil, err
	}
	return &CertificateVerify{Algorithm: constants.SignatureScheme(alg), Signature: sig}, nil
}

// EncodeFinished serializes a Finished message body: the verify_data
// bytes, unframed.
func EncodeFinished(f *Finished) []byte {
	return f.VerifyData
}

// DecodeFinished parses a Finished message body. hashLen is the
// negotiated hash's output length; a fixed 32 bytes only holds for
// SHA-256 suites, not SHA-384.
func DecodeFinished(body []byte, hashLen int) (*Finished, error) {
	if len(body) != hashLen {
		return nil, qerrors.ErrMalformedMessage
	}
	return &Finished{VerifyData: body}, nil
}
