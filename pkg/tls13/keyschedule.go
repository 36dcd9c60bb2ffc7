package tls13

import (
	"github.com/sara-star-quant/tls13-client/internal/constants"
	qerrors "github.com/sara-star-quant/tls13-client/internal/errors"
	qcrypto "github.com/sara-star-quant/tls13-client/pkg/crypto"
	"github.com/sara-star-quant/tls13-client/pkg/record"
)

// scheduleStage tracks which one-shot derivation steps have run, so a
// step invoked out of order fails with ErrKeyScheduleNotReady rather
// than silently deriving from zeroed secrets.
type scheduleStage int

const (
	stageNone scheduleStage = iota
	stageEarly
	stageHandshake
	stageHandshakeTraffic
	stageApplication
)

// KeySchedule implements the TLS 1.3 HKDF tree: Early ->
// Handshake -> Application secrets, per-epoch traffic key/IV expansion,
// and Finished MAC compute/verify. It calls through to pkg/crypto for
// the raw HKDF-Extract/Expand-Label primitives; the derivation
// sequencing itself is core logic, not delegated.
type KeySchedule struct {
	suite constants.CipherSuite
	hash  qcrypto.HashAlgorithm
	stage scheduleStage

	earlySecret     []byte
	handshakeSecret []byte
	clientHSSecret  []byte
	serverHSSecret  []byte
	clientAppSecret []byte
	serverAppSecret []byte
}

// NewKeySchedule creates a schedule for the negotiated suite. The hash
// algorithm follows from the suite (AES-256-GCM-SHA384 uses SHA-384,
// every other suite uses SHA-256) and is immutable thereafter.
func NewKeySchedule(suite constants.CipherSuite) *KeySchedule {
	return &KeySchedule{
		suite: suite,
		hash:  qcrypto.HashAlgorithmForSuite(suite),
	}
}

// HashLen returns Hlen, the negotiated hash's output length.
func (k *KeySchedule) HashLen() int { return k.hash.Len() }

// DeriveEarly computes the Early Secret from an all-zero PSK (RFC 8446
// §7.1 step 1; PSK flows themselves are out of scope here).
func (k *KeySchedule) DeriveEarly() error {
	if k.stage != stageNone {
		return qerrors.NewCryptoError("DeriveEarly", qerrors.ErrKeyScheduleNotReady)
	}
	zeros := make([]byte, k.hash.Len())
	k.earlySecret = qcrypto.HKDFExtract(k.hash, nil, zeros)
	k.stage = stageEarly
	return nil
}

// DeriveHandshake computes the Handshake Secret from the ECDHE shared
// secret. Must follow DeriveEarly.
func (k *KeySchedule) DeriveHandshake(sharedSecret []byte) error {
	if k.stage != stageEarly {
		return qerrors.NewCryptoError("DeriveHandshake", qerrors.ErrKeyScheduleNotReady)
	}
	if len(sharedSecret) != constants.X25519KeySize {
		return qerrors.NewCryptoError("DeriveHandshake", qerrors.ErrKeyExchangeFailed)
	}
	salt, err := k.deriveSecret(k.earlySecret, constants.LabelDerived, nil)
	if err != nil {
		return err
	}
	k.handshakeSecret = qcrypto.HKDFExtract(k.hash, salt, sharedSecret)
	k.stage = stageHandshake
	return nil
}

// DeriveHandshakeTraffic computes the client/server handshake traffic
// secrets from the transcript through ServerHello.
// Must follow DeriveHandshake.
func (k *KeySchedule) DeriveHandshakeTraffic(transcriptThroughServerHello []byte) error {
	if k.stage != stageHandshake {
		return qerrors.NewCryptoError("DeriveHandshakeTraffic", qerrors.ErrKeyScheduleNotReady)
	}
	var err error
	k.clientHSSecret, err = k.deriveSecret(k.handshakeSecret, constants.LabelCHSTraffic, transcriptThroughServerHello)
	if err != nil {
		return err
	}
	k.serverHSSecret, err = k.deriveSecret(k.handshakeSecret, constants.LabelSHSTraffic, transcriptThroughServerHello)
	if err != nil {
		return err
	}
	k.stage = stageHandshakeTraffic
	return nil
}

// DeriveApplicationSecrets computes the Master Secret and client/server
// application traffic secrets from the transcript through
// ClientFinished. Must follow DeriveHandshakeTraffic.
func (k *KeySchedule) DeriveApplicationSecrets(transcriptThroughClientFinished []byte) error {
	if k.stage != stageHandshakeTraffic {
		return qerrors.NewCryptoError("DeriveApplicationSecrets", qerrors.ErrKeyScheduleNotReady)
	}
	salt, err := k.deriveSecret(k.handshakeSecret, constants.LabelDerived, nil)
	if err != nil {
		return err
	}
	zeros := make([]byte, k.hash.Len())
	masterSecret := qcrypto.HKDFExtract(k.hash, salt, zeros)

	k.clientAppSecret, err = k.deriveSecret(masterSecret, constants.LabelCAPTraffic, transcriptThroughClientFinished)
	if err != nil {
		return err
	}
	k.serverAppSecret, err = k.deriveSecret(masterSecret, constants.LabelSAPTraffic, transcriptThroughClientFinished)
	if err != nil {
		return err
	}
	k.stage = stageApplication
	return nil
}

// deriveSecret implements Derive-Secret(secret, label, messages) =
// HKDF-Expand-Label(secret, label, Hash(messages), Hlen).
func (k *KeySchedule) deriveSecret(secret []byte, label string, messages []byte) ([]byte, error) {
	h := qcrypto.TranscriptHash(k.hash, messages)
	return qcrypto.HKDFExpandLabel(k.hash, secret, label, h, k.hash.Len())
}

// TrafficKeys derives the (key, iv) pair for secret, sized for the
// negotiated cipher suite: key length is cipher-dependent, iv is
// always 12 bytes.
func (k *KeySchedule) TrafficKeys(secret []byte) (key, iv []byte, err error) {
	key, err = qcrypto.HKDFExpandLabel(k.hash, secret, constants.LabelKey, nil, k.suite.KeyLen())
	if err != nil {
		return nil, nil, err
	}
	iv, err = qcrypto.HKDFExpandLabel(k.hash, secret, constants.LabelIV, nil, constants.AEADNonceSize)
	if err != nil {
		return nil, nil, err
	}
	return key, iv, nil
}

// ClientHandshakeCipherState builds the installable cipher state for the
// client's write direction during the handshake epoch.
func (k *KeySchedule) ClientHandshakeCipherState() (record.CipherState, error) {
	return k.cipherState(k.clientHSSecret)
}

// ServerHandshakeCipherState builds the installable cipher state for the
// client's read direction during the handshake epoch.
func (k *KeySchedule) ServerHandshakeCipherState() (record.CipherState, error) {
	return k.cipherState(k.serverHSSecret)
}

// ClientApplicationCipherState builds the installable cipher state for
// the client's write direction during the application epoch.
func (k *KeySchedule) ClientApplicationCipherState() (record.CipherState, error) {
	return k.cipherState(k.clientAppSecret)
}

// ServerApplicationCipherState builds the installable cipher state for
// the client's read direction during the application epoch.
func (k *KeySchedule) ServerApplicationCipherState() (record.CipherState, error) {
	return k.cipherState(k.serverAppSecret)
}

func (k *KeySchedule) cipherState(secret []byte) (record.CipherState, error) {
	if secret == nil {
		return record.CipherState{}, qerrors.NewCryptoError("cipherState", qerrors.ErrKeyScheduleNotReady)
	}
	key, iv, err := k.TrafficKeys(secret)
	if err != nil {
		return record.CipherState{}, err
	}
	return record.NewCipherState(k.suite, key, iv), nil
}

// FinishedVerifyData computes verify_data for a Finished message keyed
// by secret (the role-appropriate handshake traffic secret) over
// transcript.
func (k *KeySchedule) FinishedVerifyData(secret, transcript []byte) ([]byte, error) {
	finishedKey, err := qcrypto.HKDFExpandLabel(k.hash, secret, constants.LabelFinished, nil, k.hash.Len())
	if err != nil {
		return nil, err
	}
	h := qcrypto.TranscriptHash(k.hash, transcript)
	return qcrypto.HMAC(k.hash, finishedKey, h), nil
}

// VerifyServerFinished checks candidate against the two transcript
// boundaries this client tolerates: the transcript up to (but
// excluding) the ServerFinished frame, and the transcript including it.
// Verification is constant-time.
func (k *KeySchedule) VerifyServerFinished(candidate, transcriptBeforeFinished, transcriptWithFinished []byte) error {
	expectedBefore, err := k.FinishedVerifyData(k.serverHSSecret, transcriptBeforeFinished)
	if err != nil {
		return err
	}
	if qcrypto.ConstantTimeCompare(candidate, expectedBefore) {
		return nil
	}
	expectedWith, err := k.FinishedVerifyData(k.serverHSSecret, transcriptWithFinished)
	if err != nil {
		return err
	}
	if qcrypto.ConstantTimeCompare(candidate, expectedWith) {
		return nil
	}
	return qerrors.NewCryptoError("VerifyServerFinished", qerrors.ErrFinishedMismatch)
}

// Zeroize wipes every derived secret. Called on connection close or
// error transition.
func (k *KeySchedule) Zeroize() {
	qcrypto.ZeroizeAll(k.earlySecret, k.handshakeSecret, k.clientHSSecret, k.serverHSSecret, k.clientAppSecret, k.serverAppSecret)
}
