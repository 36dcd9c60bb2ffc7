package tls13

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/sara-star-quant/tls13-client/internal/constants"
	qerrors "github.com/sara-star-quant/tls13-client/internal/errors"
	qcrypto "github.com/sara-star-quant/tls13-client/pkg/crypto"
	"github.com/sara-star-quant/tls13-client/pkg/handshake"
	"github.com/sara-star-quant/tls13-client/pkg/obslog"
	"github.com/sara-star-quant/tls13-client/pkg/record"
)

// defaultCipherSuites is the preference order offered when Options
// doesn't configure one.
var defaultCipherSuites = []constants.CipherSuite{
	constants.TLS_AES_128_GCM_SHA256,
	constants.TLS_AES_256_GCM_SHA384,
	constants.TLS_CHACHA20_POLY1305_SHA256,
}

// Options configures a Client. Constructed via functional options;
// every caller-supplied slice is copied so that mutating it after
// construction has no effect on the client.
type Options struct {
	timeout      time.Duration
	version      string
	cipherSuites []constants.CipherSuite
	alpn         []string

	logger *obslog.Logger
	tracer obslog.Tracer

	// VerifyPeerCertificate, if non-nil, is invoked with the raw
	// Certificate and CertificateVerify message bodies before the
	// client declares CONNECTED. It is the escape hatch for delegated
	// certificate validation; the core itself never parses or
	// validates the chain.
	VerifyPeerCertificate func(certificateBody, certificateVerifyBody []byte) error
}

// Option configures Options at construction.
type Option func(*Options)

// WithTimeout overrides the connect timeout (default 30s).
func WithTimeout(d time.Duration) Option {
	return func(o *Options) { o.timeout = d }
}

// WithVersion sets the informational version string ("1.3" default;
// "1.2" is accepted as a label only — this core never negotiates it).
func WithVersion(v string) Option {
	return func(o *Options) { o.version = v }
}

// WithCipherSuites overrides the cipher preference list. The slice is
// copied; unrecognised suites are dropped by New, not here.
func WithCipherSuites(suites []constants.CipherSuite) Option {
	return func(o *Options) { o.cipherSuites = append([]constants.CipherSuite(nil), suites...) }
}

// WithALPN overrides the advertised ALPN protocol list (default
// ["http/1.1"]). The slice is copied.
func WithALPN(protocols []string) Option {
	return func(o *Options) { o.alpn = append([]string(nil), protocols...) }
}

// WithLogger attaches a logger; defaults to a silent logger.
func WithLogger(l *obslog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithTracer attaches a tracer; defaults to obslog.NoOpTracer.
func WithTracer(t obslog.Tracer) Option {
	return func(o *Options) { o.tracer = t }
}

// WithVerifyPeerCertificate installs the certificate-verification hook.
func WithVerifyPeerCertificate(fn func(certificateBody, certificateVerifyBody []byte) error) Option {
	return func(o *Options) { o.VerifyPeerCertificate = fn }
}

func defaultOptions() *Options {
	return &Options{
		timeout:      30 * time.Second,
		version:      "1.3",
		cipherSuites: append([]constants.CipherSuite(nil), defaultCipherSuites...),
		alpn:         []string{"http/1.1"},
		logger:       obslog.Null(),
		tracer:       obslog.NoOpTracer{},
	}
}

// connState is the informational string state() reports;
// distinct from the internal handshake State enum, which has no
// "connecting" phase of its own (the orchestrator occupies it while
// driving INITIAL..WAIT_FINISHED).
type connState int

const (
	connInitial connState = iota
	connConnecting
	connEstablished
	connClosed
	connErrorState
)

func (s connState) String() string {
	switch s {
	case connInitial:
		return "initial"
	case connConnecting:
		return "connecting"
	case connEstablished:
		return "established"
	case connClosed:
		return "closed"
	case connErrorState:
		return "error"
	default:
		return "unknown"
	}
}

// Client is the client orchestrator: it owns the connection lifecycle,
// drives the state machine through the record layer, and exposes the
// public application-data API.
type Client struct {
	hostname string
	port     uint16
	opts     *Options

	mu    sync.Mutex
	state connState

	conn   net.Conn
	layer  *record.Layer
	sm     *StateMachine
	ks     *KeySchedule
	ts     Transcript
	keys   *qcrypto.KeyPair
	suite  constants.CipherSuite
	closed bool
}

// New constructs a Client targeting hostname:port. hostname must be
// non-empty; SNI requires it.
func New(hostname string, port uint16, opts ...Option) (*Client, error) {
	if hostname == "" {
		return nil, qerrors.NewConfigError("hostname", qerrors.ErrMissingHostname)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	recognised := make([]constants.CipherSuite, 0, len(o.cipherSuites))
	for _, s := range o.cipherSuites {
		if s.IsKnown() {
			recognised = append(recognised, s)
		}
	}
	if len(recognised) == 0 {
		return nil, qerrors.NewConfigError("cipher_suites", qerrors.ErrNoCipherSuites)
	}
	o.cipherSuites = recognised

	return &Client{
		hostname: hostname,
		port:     port,
		opts:     o,
		sm:       NewStateMachine(),
		state:    connInitial,
	}, nil
}

// State reports the client's informational connection state.
func (c *Client) State() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.String()
}

// IsEstablished reports whether the handshake completed successfully.
func (c *Client) IsEstablished() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == connEstablished
}

// Version reports the informational protocol version; this
// core only ever actually negotiates TLS 1.3.
func (c *Client) Version() int {
	if c.opts.version == "1.2" {
		return 12
	}
	return 13
}

// Connect opens the TCP transport and drives the handshake to
// completion or to ERROR.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != connInitial {
		c.mu.Unlock()
		return qerrors.NewUsageError("Connect", qerrors.ErrInvalidState)
	}
	c.state = connConnecting
	c.mu.Unlock()

	ctx, end := c.opts.tracer.StartSpan(ctx, "tls13.connect", obslog.SpanKindClient, map[string]string{
		"hostname": c.hostname,
	})
	var err error
	defer func() { end(err) }()

	dialer := net.Dialer{Timeout: c.opts.timeout}
	addr := net.JoinHostPort(c.hostname, strconv.Itoa(int(c.port)))
	conn, dialErr := dialer.DialContext(ctx, "tcp", addr)
	if dialErr != nil {
		err = qerrors.NewTransportError("Connect", dialErr)
		c.fail()
		return err
	}
	c.conn = conn
	c.layer = record.New(conn)

	if err = c.handshakeLoop(ctx); err != nil {
		c.fail()
		return err
	}

	c.mu.Lock()
	c.state = connEstablished
	c.mu.Unlock()
	c.opts.logger.Info("handshake complete", obslog.Fields{"hostname": c.hostname})
	return nil
}

func (c *Client) fail() {
	c.mu.Lock()
	c.state = connErrorState
	c.mu.Unlock()
	_ = c.sm.TryTransition(StateError)
	if c.ks != nil {
		c.ks.Zeroize()
	}
	if c.keys != nil {
		c.keys.Zeroize()
	}
}

// handshakeLoop runs the INITIAL..CONNECTED sequence end to end.
func (c *Client) handshakeLoop(ctx context.Context) error {
	keyPair, err := qcrypto.GenerateX25519KeyPair()
	if err != nil {
		return err
	}
	c.keys = keyPair

	clientRandom, err := qcrypto.Random(32)
	if err != nil {
		return err
	}
	sessionID, err := qcrypto.Random(32)
	if err != nil {
		return err
	}

	ch := c.buildClientHello(clientRandom, sessionID, keyPair)
	chBody, err := handshake.EncodeClientHello(ch)
	if err != nil {
		return qerrors.NewProtocolError("ClientHello", err)
	}
	chFrame := handshake.Frame(constants.HandshakeTypeClientHello, chBody)

	if err := c.layer.Send(constants.ContentTypeHandshake, chFrame); err != nil {
		return err
	}
	c.ts.Append(chFrame)

	// Middlebox-compat ChangeCipherSpec, sent once, plaintext (RFC 8446
	// §D.4). No delay before sending it; the compat record carries no
	// timing requirement.
	if err := c.layer.Send(constants.ContentTypeChangeCipherSpec, []byte{0x01}); err != nil {
		return err
	}

	if err := c.sm.TryTransition(StateWaitServerHello); err != nil {
		return qerrors.NewProtocolError("state", err)
	}

	reassembler := NewReassembler(c.layer)

	if err := c.processServerHello(reassembler, keyPair); err != nil {
		return err
	}
	if err := c.sm.TryTransition(StateWaitEncryptedExtensions); err != nil {
		return qerrors.NewProtocolError("state", err)
	}

	eeFrame, err := reassembler.Next()
	if err != nil {
		return qerrors.NewTransportError("EncryptedExtensions", err)
	}
	c.ts.Append(eeFrame)
	if err := c.sm.TryTransition(StateWaitCertificate); err != nil {
		return qerrors.NewProtocolError("state", err)
	}

	certFrame, err := reassembler.Next()
	if err != nil {
		return qerrors.NewTransportError("Certificate", err)
	}
	c.ts.Append(certFrame)
	if err := c.sm.TryTransition(StateWaitCertificateVerify); err != nil {
		return qerrors.NewProtocolError("state", err)
	}

	cvFrame, err := reassembler.Next()
	if err != nil {
		return qerrors.NewTransportError("CertificateVerify", err)
	}
	c.ts.Append(cvFrame)

	if c.opts.VerifyPeerCertificate != nil {
		if err := c.opts.VerifyPeerCertificate(certFrame[handshake.HeaderLen:], cvFrame[handshake.HeaderLen:]); err != nil {
			return qerrors.NewProtocolError("VerifyPeerCertificate", err)
		}
	}

	if err := c.sm.TryTransition(StateWaitFinished); err != nil {
		return qerrors.NewProtocolError("state", err)
	}

	if err := c.finishHandshake(reassembler); err != nil {
		return err
	}
	return c.sm.TryTransition(StateConnected)
}

func (c *Client) buildClientHello(clientRandom, sessionID []byte, keyPair *qcrypto.KeyPair) *handshake.ClientHello {
	ch := &handshake.ClientHello{
		LegacyVersion:           constants.LegacyVersionTLS12,
		LegacySessionID:         sessionID,
		CipherSuites:            c.opts.cipherSuites,
		LegacyCompressionMethod: []byte{0},
		ServerName:              c.hostname,
		SupportedVersions:       []uint16{constants.SupportedVersionTLS13},
		SupportedGroups:         []handshake.NamedGroup{constants.X25519, constants.Secp256r1, constants.Secp384r1},
		SignatureAlgorithms: []constants.SignatureScheme{
			constants.RsaPssRsaeSha256, constants.EcdsaSecp256r1Sha256, constants.RsaPkcs1Sha256,
		},
		PSKKeyExchangeModes: []uint8{constants.PSKKeyExchangeModeDHE},
		ALPNProtocols:       c.opts.alpn,
		KeyShares:           []handshake.KeyShareEntry{{Group: constants.X25519, Data: keyPair.PublicBytes()}},
	}
	copy(ch.Random[:], clientRandom)
	return ch
}

// processServerHello consumes the ServerHello frame, validates it,
// completes ECDHE, derives the handshake epoch, and installs the
// resulting cipher states on the record layer.
func (c *Client) processServerHello(reassembler *Reassembler, keyPair *qcrypto.KeyPair) error {
	frame, err := reassembler.Next()
	if err != nil {
		return qerrors.NewTransportError("ServerHello", err)
	}
	c.ts.Append(frame)

	msgType, _, _ := handshake.ParseHeader(frame)
	if msgType != constants.HandshakeTypeServerHello {
		return qerrors.NewProtocolError("ServerHello", qerrors.ErrUnexpectedMessage)
	}
	sh, err := handshake.DecodeServerHello(frame[handshake.HeaderLen:])
	if err != nil {
		return qerrors.NewProtocolError("ServerHello", err)
	}

	if sh.LegacyVersion != constants.LegacyVersionTLS12 && sh.LegacyVersion != constants.SupportedVersionTLS13 {
		return qerrors.NewProtocolError("ServerHello", qerrors.ErrMalformedMessage)
	}
	if !c.offeredSuite(sh.CipherSuite) {
		return qerrors.NewProtocolError("ServerHello", qerrors.ErrCipherNotOffered)
	}
	if sh.KeyShare == nil || sh.KeyShare.Group != constants.X25519 || len(sh.KeyShare.Data) != constants.X25519KeySize {
		return qerrors.NewProtocolError("ServerHello", qerrors.ErrUnsupportedGroup)
	}

	c.suite = sh.CipherSuite
	c.ks = NewKeySchedule(sh.CipherSuite)

	sharedSecret, err := keyPair.SharedSecret(sh.KeyShare.Data)
	if err != nil {
		return err
	}

	if err := c.ks.DeriveEarly(); err != nil {
		return err
	}
	if err := c.ks.DeriveHandshake(sharedSecret); err != nil {
		return err
	}
	if err := c.ks.DeriveHandshakeTraffic(c.ts.Snapshot()); err != nil {
		return err
	}

	clientState, err := c.ks.ClientHandshakeCipherState()
	if err != nil {
		return err
	}
	serverState, err := c.ks.ServerHandshakeCipherState()
	if err != nil {
		return err
	}
	if err := c.layer.InstallWriteCipherState(clientState); err != nil {
		return err
	}
	if err := c.layer.InstallReadCipherState(serverState); err != nil {
		return err
	}
	c.opts.logger.Debug("handshake epoch installed", obslog.Fields{"suite": sh.CipherSuite.String()})
	return nil
}

func (c *Client) offeredSuite(suite constants.CipherSuite) bool {
	for _, s := range c.opts.cipherSuites {
		if s == suite {
			return true
		}
	}
	return false
}

// finishHandshake verifies ServerFinished, emits ClientFinished, derives
// the application epoch, and installs it.
func (c *Client) finishHandshake(reassembler *Reassembler) error {
	transcriptBeforeFinished := c.ts.Snapshot()

	frame, err := reassembler.Next()
	if err != nil {
		return qerrors.NewTransportError("ServerFinished", err)
	}
	msgType, _, _ := handshake.ParseHeader(frame)
	if msgType != constants.HandshakeTypeFinished {
		return qerrors.NewProtocolError("ServerFinished", qerrors.ErrUnexpectedMessage)
	}
	sf, err := handshake.DecodeFinished(frame[handshake.HeaderLen:], c.ks.HashLen())
	if err != nil {
		return qerrors.NewProtocolError("ServerFinished", err)
	}

	transcriptWithFinished := append(append([]byte(nil), transcriptBeforeFinished...), frame...)
	if err := c.ks.VerifyServerFinished(sf.VerifyData, transcriptBeforeFinished, transcriptWithFinished); err != nil {
		return err
	}
	// Only now does ServerFinished join the transcript.
	c.ts.Append(frame)

	// ClientFinished's verify_data is keyed by the client's own
	// handshake traffic secret.
	clientVerifyData, err := c.ks.FinishedVerifyData(c.ks.clientHSSecret, c.ts.Snapshot())
	if err != nil {
		return err
	}
	clientFinishedBody := handshake.EncodeFinished(&handshake.Finished{VerifyData: clientVerifyData})
	clientFinishedFrame := handshake.Frame(constants.HandshakeTypeFinished, clientFinishedBody)

	if err := c.layer.Send(constants.ContentTypeHandshake, clientFinishedFrame); err != nil {
		return err
	}
	c.ts.Append(clientFinishedFrame)

	if err := c.ks.DeriveApplicationSecrets(c.ts.Snapshot()); err != nil {
		return err
	}
	clientAppState, err := c.ks.ClientApplicationCipherState()
	if err != nil {
		return err
	}
	serverAppState, err := c.ks.ServerApplicationCipherState()
	if err != nil {
		return err
	}
	if err := c.layer.InstallWriteCipherState(clientAppState); err != nil {
		return err
	}
	if err := c.layer.InstallReadCipherState(serverAppState); err != nil {
		return err
	}
	return nil
}

// SendData delivers payload as application_data under the installed
// application write cipher state; requires CONNECTED.
func (c *Client) SendData(payload []byte) error {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	if state != connEstablished {
		return qerrors.NewUsageError("SendData", qerrors.ErrNotConnected)
	}
	return c.layer.Send(constants.ContentTypeApplicationData, payload)
}

// ReceiveData returns the first successfully decrypted application_data
// payload, skipping records of other content types and records that
// fail AEAD verification).
func (c *Client) ReceiveData() ([]byte, error) {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	if state != connEstablished {
		return nil, qerrors.NewUsageError("ReceiveData", qerrors.ErrNotConnected)
	}

	for {
		contentType, payload, err := c.layer.Receive()
		if err != nil {
			var cryptoErr *qerrors.CryptoError
			if qerrors.As(err, &cryptoErr) {
				c.opts.logger.Warn("dropping record that failed AEAD verification")
				continue
			}
			return nil, err
		}
		if contentType != constants.ContentTypeApplicationData {
			continue
		}
		return payload, nil
	}
}

// Close closes the underlying transport and wipes key material. Safe to
// call multiple times; only the first call has effect.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.state = connClosed
	c.mu.Unlock()

	if c.ks != nil {
		c.ks.Zeroize()
	}
	if c.keys != nil {
		c.keys.Zeroize()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
