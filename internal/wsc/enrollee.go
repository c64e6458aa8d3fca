package wsc

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
)

// -------------------------------------------------------------------------
// Enrollee Configuration
// -------------------------------------------------------------------------

// Sentinel errors for Enrollee configuration validation.
var (
	// ErrNilSender indicates no response sender was provided.
	ErrNilSender = errors.New("response sender must not be nil")

	// ErrInvalidRFBand indicates the RF band is not one of the three
	// defined bands.
	ErrInvalidRFBand = errors.New("invalid RF band")

	// ErrInvalidDevicePassword indicates the device password is not a
	// hexadecimal string of at least 8 characters.
	ErrInvalidDevicePassword = errors.New("invalid device password")
)

// Config carries the fully resolved settings needed to instantiate an
// Enrollee. All nonces, IVs and the DH private scalar must already be
// populated; the configuration layer fills unset values with secure
// random bytes.
type Config struct {
	// Addr is the enrollee MAC address; it seeds UUID-E.
	Addr [AddrSize]byte

	// EnrolleeNonce is N1, carried in M1.
	EnrolleeNonce [NonceSize]byte

	// PrivateKey is the DH group-5 private scalar.
	PrivateKey [PublicKeySize]byte

	// ConfigMethods is the configuration methods bitmask for M1.
	ConfigMethods uint16

	// Descriptive device identity, truncated to the attribute capacities
	// on encoding.
	Manufacturer string
	ModelName    string
	ModelNumber  string
	SerialNumber string
	DeviceName   string

	// PrimaryDeviceType identifies the device category.
	PrimaryDeviceType PrimaryDeviceType

	// RFBand is the band advertised in M1. Must be valid.
	RFBand RFBand

	// OSVersion is the advertised OS version; only the low 31 bits are
	// carried.
	OSVersion uint32

	// DevicePassword is the shared registration password: hexadecimal
	// ASCII, at least 8 characters. Lowercase digits are uppercased on
	// ingestion (WSC v2.0.5 Section 7.4).
	DevicePassword string

	// ESNonce1 and ESNonce2 are the Enrollee secret nonces E-S1, E-S2.
	ESNonce1 [NonceSize]byte
	ESNonce2 [NonceSize]byte

	// IV1 and IV2 are the initialization vectors for the M5 and M7
	// Encrypted Settings.
	IV1 [IVSize]byte
	IV2 [IVSize]byte
}

// normalizePassword validates the device password and returns the
// uppercased byte form held by the session.
func normalizePassword(password string) ([]byte, error) {
	if len(password) < 8 {
		return nil, fmt.Errorf("password length %d: %w", len(password), ErrInvalidDevicePassword)
	}

	out := make([]byte, len(password))
	for i := 0; i < len(password); i++ {
		c := password[i]
		switch {
		case c >= '0' && c <= '9', c >= 'A' && c <= 'F':
			out[i] = c
		case c >= 'a' && c <= 'f':
			out[i] = c - 'a' + 'A'
		default:
			ZeroBytes(out)
			return nil, fmt.Errorf("non-hex character at index %d: %w", i, ErrInvalidDevicePassword)
		}
	}

	return out, nil
}

// -------------------------------------------------------------------------
// Metrics and callbacks
// -------------------------------------------------------------------------

// ResponseSender delivers WSC payloads produced by the Enrollee to the
// EAP envelope. Implementations frame the payload behind the 1-byte
// opcode and 1-byte flags prefix.
type ResponseSender interface {
	SendResponse(op Op, pdu []byte)
}

// MetricsReporter receives protocol events for monitoring. All methods
// are invoked synchronously from HandleRequest.
type MetricsReporter interface {
	// HandshakeStarted is reported when M1 is transmitted.
	HandshakeStarted()

	// HandshakeCompleted is reported when WSC_Done is transmitted.
	HandshakeCompleted()

	// PDUDropped is reported for every silently discarded payload.
	PDUDropped(reason string)

	// NACKSent is reported for every transmitted WSC_NACK.
	NACKSent(code ConfigError)

	// RecordStateTransition is reported on every state advance.
	RecordStateTransition(from, to string)
}

// noopMetrics is the default MetricsReporter.
type noopMetrics struct{}

func (noopMetrics) HandshakeStarted()                 {}
func (noopMetrics) HandshakeCompleted()               {}
func (noopMetrics) PDUDropped(string)                 {}
func (noopMetrics) NACKSent(ConfigError)              {}
func (noopMetrics) RecordStateTransition(_, _ string) {}

// EnrolleeOption configures optional Enrollee parameters.
type EnrolleeOption func(*Enrollee)

// WithMetrics attaches a MetricsReporter to the enrollee. If mr is nil,
// the default no-op reporter is used.
func WithMetrics(mr MetricsReporter) EnrolleeOption {
	return func(e *Enrollee) {
		if mr != nil {
			e.metrics = mr
		}
	}
}

// WithCredentialsHandler registers a callback invoked with the
// credentials extracted from M8, before WSC_Done is reported complete.
// The callback owns the passed slice.
func WithCredentialsHandler(fn func([]Credential)) EnrolleeOption {
	return func(e *Enrollee) { e.onCredentials = fn }
}

// WithCompletionHandler registers a callback invoked with a copy of the
// EMSK when the registration reaches Finished.
func WithCompletionHandler(fn func(emsk []byte)) EnrolleeOption {
	return func(e *Enrollee) { e.onComplete = fn }
}

// -------------------------------------------------------------------------
// Enrollee — WSC v2.0.5 Section 7.4 Enrollee registration session
// -------------------------------------------------------------------------

// Enrollee drives the Enrollee half of the WSC registration protocol over
// an EAP-WSC channel.
//
// The session is single-threaded and event-driven: HandleRequest runs to
// completion in the caller's dispatch context and is not re-entrant.
// Responses are delivered synchronously to the ResponseSender.
//
// All key material is owned exclusively by the session and scrubbed by
// Remove.
type Enrollee struct {
	// m1 is built once from the configuration and replayed on Start.
	m1 *M1

	// m2 is held only after its authenticator verified.
	m2 *M2

	// privateKey is the DH group-5 private scalar.
	privateKey [PublicKeySize]byte

	// devicePassword is the uppercased hexadecimal password.
	devicePassword []byte

	// Secret nonces and IVs for the M5/M7 Encrypted Settings.
	eSNonce1 [NonceSize]byte
	eSNonce2 [NonceSize]byte
	iv1      [IVSize]byte
	iv2      [IVSize]byte

	// psk1 and psk2 are derived from the device password on M3
	// construction.
	psk1 [16]byte
	psk2 [16]byte

	// rHash2 is captured from M4 and verified against M6.
	rHash2 [HashSize]byte

	// state is the next message the session will accept.
	state State

	// sentPDU is the last WSC payload transmitted inside an EAP
	// response; the next inbound authenticator chains over it.
	sentPDU []byte

	// Derived keys. keyWrap is nil until M2 is accepted.
	authKey [AuthKeySize]byte
	emsk    [EMSKSize]byte
	keyWrap cipher.Block

	sender        ResponseSender
	metrics       MetricsReporter
	logger        *slog.Logger
	onCredentials func([]Credential)
	onComplete    func(emsk []byte)
}

// NewEnrollee creates an Enrollee session from a fully resolved
// configuration. The M1 record, UUID-E and DH public key are computed
// here; the session then waits for the EAP-WSC Start opcode.
func NewEnrollee(
	cfg Config,
	sender ResponseSender,
	logger *slog.Logger,
	opts ...EnrolleeOption,
) (*Enrollee, error) {
	if sender == nil {
		return nil, ErrNilSender
	}
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.RFBand.Valid() {
		return nil, fmt.Errorf("rf band %d: %w", cfg.RFBand, ErrInvalidRFBand)
	}

	password, err := normalizePassword(cfg.DevicePassword)
	if err != nil {
		return nil, err
	}

	e := &Enrollee{
		devicePassword: password,
		privateKey:     cfg.PrivateKey,
		eSNonce1:       cfg.ESNonce1,
		eSNonce2:       cfg.ESNonce2,
		iv1:            cfg.IV1,
		iv2:            cfg.IV2,
		state:          StateExpectStart,
		sender:         sender,
		metrics:        noopMetrics{},
		logger: logger.With(
			slog.String("addr", fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
				cfg.Addr[0], cfg.Addr[1], cfg.Addr[2], cfg.Addr[3], cfg.Addr[4], cfg.Addr[5])),
		),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.m1 = &M1{
		Version2:      true,
		UUIDE:         UUIDFromAddr(cfg.Addr),
		Addr:          cfg.Addr,
		EnrolleeNonce: cfg.EnrolleeNonce,
		State:         DeviceStateNotConfigured,
		DeviceInfo: DeviceInfo{
			AuthTypeFlags:       AuthTypeWPA2Personal | AuthTypeWPAPersonal | AuthTypeOpen,
			EncryptionTypeFlags: EncryptionTypeNone | EncryptionTypeAESTKIP,
			ConnectionTypeFlags: ConnectionTypeESS,
			ConfigMethods:       cfg.ConfigMethods,
			Manufacturer:        cfg.Manufacturer,
			ModelName:           cfg.ModelName,
			ModelNumber:         cfg.ModelNumber,
			SerialNumber:        cfg.SerialNumber,
			PrimaryDeviceType:   cfg.PrimaryDeviceType,
			DeviceName:          cfg.DeviceName,
			RFBands:             cfg.RFBand,
			AssociationState:    AssociationStateNotAssociated,
			DevicePasswordID:    DevicePasswordIDPushButton,
			ConfigurationError:  ConfigErrorNoError,
			OSVersion:           cfg.OSVersion & 0x7fffffff,
		},
	}

	if err := DHPublic(e.privateKey[:], e.m1.PublicKey[:]); err != nil {
		e.Remove()
		return nil, fmt.Errorf("compute DH public key: %w", err)
	}

	return e, nil
}

// State returns the current registration state.
func (e *Enrollee) State() State { return e.state }

// -------------------------------------------------------------------------
// Request dispatch
// -------------------------------------------------------------------------

// HandleRequest processes one reassembled EAP-WSC payload: a 1-byte
// opcode, a 1-byte flags octet and the message body. Malformed or
// unexpected payloads are silently dropped; NACKs for M2..M8 content are
// emitted only after the outer authenticator verified (WSC v2.0.5
// Section 7.1). A WSC_MSG arriving in StateFinished is answered with a
// DeviceBusy NACK without authenticator verification.
func (e *Enrollee) HandleRequest(pkt []byte) {
	if len(pkt) < 2 {
		e.drop("short payload")
		return
	}

	op := Op(pkt[0])
	flags := pkt[1]

	// Fragmentation is unsupported; any flag bit drops the payload.
	if flags != 0 {
		e.drop("fragmented payload")
		return
	}

	switch op {
	case OpStart:
		e.handleStart(pkt)
		return

	case OpNACK:
		// The Registrar aborted. Tearing the session down is the outer
		// EAP layer's decision; record the error code and stop.
		var nack NACK
		if err := ParseNACK(pkt[2:], &nack); err == nil {
			e.logger.Info("registrar sent NACK",
				slog.String("error", nack.ConfigurationError.String()))
		} else {
			e.logger.Info("registrar sent malformed NACK")
		}
		return

	case OpACK, OpDone, OpFragACK:
		// An Enrollee must never receive these.
		e.drop("unexpected opcode")
		return

	case OpMsg:
		// Fall through to state dispatch.

	default:
		e.drop("unknown opcode")
		return
	}

	if len(pkt) <= 2 {
		e.drop("empty message")
		return
	}
	body := pkt[2:]

	switch e.state {
	case StateExpectStart:
		e.drop("message before start")
	case StateExpectM2:
		e.handleM2(body)
	case StateExpectM4:
		e.handleM4(body)
	case StateExpectM6:
		e.handleM6(body)
	case StateExpectM8:
		e.handleM8(body)
	case StateFinished:
		// The registration already concluded; answer with a non-zero
		// Configuration Error rather than reopening the session.
		e.sendNACK(ConfigErrorDeviceBusy)
	}
}

// handleStart answers the EAP-WSC Start opcode with M1.
func (e *Enrollee) handleStart(pkt []byte) {
	if len(pkt) != 2 {
		e.drop("start with trailing bytes")
		return
	}
	if e.state != StateExpectStart {
		e.drop("start out of sequence")
		return
	}

	pdu, err := BuildM1(e.m1)
	if err != nil {
		e.logger.Error("build M1", slog.String("error", err.Error()))
		return
	}

	e.sendMsg(pdu)
	e.setState(StateExpectM2)
	e.metrics.HandshakeStarted()
}

// -------------------------------------------------------------------------
// M2 pipeline — WSC v2.0.5 Section 7.4
// -------------------------------------------------------------------------

// handleM2 runs the M2 pipeline: parse, DH shared secret, session key
// derivation, authenticator verification, M3 transmission. The session
// never holds an M2 record until the authenticator verified; any failure
// wipes the partial record and derived material.
func (e *Enrollee) handleM2(pdu []byte) {
	m2 := &M2{}
	if err := ParseM2(pdu, m2); err != nil {
		// WSC v2.0.5 is ambiguous on structurally invalid messages
		// (Section 7.1 vs 7.7.3); a suppressed NACK, i.e. a silent
		// drop, is used throughout.
		e.dropErr("malformed M2", err)
		return
	}

	sharedSecret := make([]byte, PublicKeySize)
	if err := DHSharedSecret(m2.PublicKey[:], e.privateKey[:], sharedSecret); err != nil {
		e.dropErr("M2 shared secret", err)
		return
	}

	// DeriveSessionKeys consumes and zeroes the shared secret.
	keys := DeriveSessionKeys(sharedSecret, e.m1.EnrolleeNonce, e.m1.Addr, m2.RegistrarNonce)
	defer keys.Zero()

	if !CheckAuthenticator(keys.AuthKey[:], e.sentPDU, pdu) {
		e.drop("M2 authenticator mismatch")
		return
	}

	block, err := aes.NewCipher(keys.KeyWrapKey[:])
	if err != nil {
		e.dropErr("key wrap cipher", err)
		return
	}

	e.m2 = m2
	e.authKey = keys.AuthKey
	e.emsk = keys.EMSK
	e.keyWrap = block

	e.sendM3(pdu)
}

// sendM3 derives PSK1/PSK2 from the device password, computes the E-Hash
// commitments and transmits M3.
func (e *Enrollee) sendM3(m2PDU []byte) {
	// WSC v2.0.5 Section 7.4: odd-length passwords put the extra
	// character in the first half.
	e.psk1, e.psk2 = SplitPassword(e.authKey[:], e.devicePassword)

	m3 := &M3{
		Version2:       true,
		RegistrarNonce: e.m2.RegistrarNonce,
		EHash1: ComputeRHash(e.authKey[:],
			e.eSNonce1[:], e.psk1[:], e.m1.PublicKey[:], e.m2.PublicKey[:]),
		EHash2: ComputeRHash(e.authKey[:],
			e.eSNonce2[:], e.psk2[:], e.m1.PublicKey[:], e.m2.PublicKey[:]),
	}

	pdu, err := BuildM3(m3)
	if err != nil {
		e.logger.Error("build M3", slog.String("error", err.Error()))
		return
	}

	WriteAuthenticator(e.authKey[:], m2PDU, pdu)
	e.sendMsg(pdu)
	e.setState(StateExpectM4)
}

// -------------------------------------------------------------------------
// M4 / M6 pipelines
// -------------------------------------------------------------------------

// handleM4 runs the M4 pipeline: parse, authenticator, settings
// decryption, key wrap verification, R-Hash1 proof. R-Hash2 is retained
// for the M6 check.
func (e *Enrollee) handleM4(pdu []byte) {
	var m4 M4
	encrypted, err := ParseM4(pdu, &m4)
	if err != nil {
		e.dropErr("malformed M4", err)
		return
	}

	if !CheckAuthenticator(e.authKey[:], e.sentPDU, pdu) {
		e.drop("M4 authenticator mismatch")
		return
	}

	var es M4EncryptedSettings
	if !e.openSettings(encrypted, "M4", func(plain []byte) error {
		return ParseM4EncryptedSettings(plain, &es)
	}) {
		return
	}
	defer ZeroBytes(es.RSNonce1[:])

	// R-SNonce1 in hand; verify the Registrar's R-Hash1 commitment.
	if !e.rHashValid(es.RSNonce1, e.psk1, m4.RHash1) {
		e.sendNACK(ConfigErrorDevicePasswordAuthFailure)
		return
	}

	// Retain R-Hash2 for verification once M6 reveals R-SNonce2.
	e.rHash2 = m4.RHash2

	e.sendM5(pdu)
}

// sendM5 reveals E-S1 inside Encrypted Settings and transmits M5.
func (e *Enrollee) sendM5(m4PDU []byte) {
	es := M5EncryptedSettings{ESNonce1: e.eSNonce1}
	encrypted := e.sealSettings(BuildM5EncryptedSettings(&es), e.iv1)

	m5 := &M5{Version2: true, RegistrarNonce: e.m2.RegistrarNonce}
	pdu, err := BuildM5(m5, encrypted)
	if err != nil {
		e.logger.Error("build M5", slog.String("error", err.Error()))
		return
	}

	WriteAuthenticator(e.authKey[:], m4PDU, pdu)
	e.sendMsg(pdu)
	e.setState(StateExpectM6)
}

// handleM6 runs the M6 pipeline, verifying the R-Hash2 commitment
// captured from M4 against the revealed R-SNonce2.
func (e *Enrollee) handleM6(pdu []byte) {
	var m6 M6
	encrypted, err := ParseM6(pdu, &m6)
	if err != nil {
		e.dropErr("malformed M6", err)
		return
	}

	if !CheckAuthenticator(e.authKey[:], e.sentPDU, pdu) {
		e.drop("M6 authenticator mismatch")
		return
	}

	var es M6EncryptedSettings
	if !e.openSettings(encrypted, "M6", func(plain []byte) error {
		return ParseM6EncryptedSettings(plain, &es)
	}) {
		return
	}
	defer ZeroBytes(es.RSNonce2[:])

	if !e.rHashValid(es.RSNonce2, e.psk2, e.rHash2) {
		e.sendNACK(ConfigErrorDevicePasswordAuthFailure)
		return
	}

	e.sendM7(pdu)
}

// sendM7 reveals E-S2 inside Encrypted Settings and transmits M7.
func (e *Enrollee) sendM7(m6PDU []byte) {
	es := M7EncryptedSettings{ESNonce2: e.eSNonce2}
	encrypted := e.sealSettings(BuildM7EncryptedSettings(&es), e.iv2)

	m7 := &M7{Version2: true, RegistrarNonce: e.m2.RegistrarNonce}
	pdu, err := BuildM7(m7, encrypted)
	if err != nil {
		e.logger.Error("build M7", slog.String("error", err.Error()))
		return
	}

	WriteAuthenticator(e.authKey[:], m6PDU, pdu)
	e.sendMsg(pdu)
	e.setState(StateExpectM8)
}

// -------------------------------------------------------------------------
// M8 pipeline
// -------------------------------------------------------------------------

// handleM8 runs the M8 pipeline and, on success, extracts the credential
// bundle, transmits WSC_Done and reports completion.
func (e *Enrollee) handleM8(pdu []byte) {
	var m8 M8
	encrypted, err := ParseM8(pdu, &m8)
	if err != nil {
		e.dropErr("malformed M8", err)
		return
	}

	if !CheckAuthenticator(e.authKey[:], e.sentPDU, pdu) {
		e.drop("M8 authenticator mismatch")
		return
	}

	var creds [MaxCredentials]Credential
	var n int
	if !e.openSettings(encrypted, "M8", func(plain []byte) error {
		n, err = ParseM8EncryptedSettings(plain, creds[:])
		return err
	}) {
		return
	}

	e.sendDone()
	e.setState(StateFinished)
	e.metrics.HandshakeCompleted()

	e.logger.Info("registration finished", slog.Int("credentials", n))

	if e.onCredentials != nil {
		e.onCredentials(creds[:n])
	}
	if e.onComplete != nil {
		emsk := make([]byte, EMSKSize)
		copy(emsk, e.emsk[:])
		e.onComplete(emsk)
	}
}

// -------------------------------------------------------------------------
// Encrypted settings helpers
// -------------------------------------------------------------------------

// openSettings decrypts an Encrypted Settings payload, parses the
// plaintext via parse and verifies the KeyWrapAuthenticator. Any failure
// emits a NACK with DecryptionCRCFailure and returns false. The
// plaintext is zeroed before return.
func (e *Enrollee) openSettings(encrypted []byte, msg string, parse func(plain []byte) error) bool {
	plain, err := DecryptSettings(e.keyWrap, encrypted)
	if err != nil {
		e.logger.Debug("decrypt settings failed",
			slog.String("message", msg), slog.String("error", err.Error()))
		e.sendNACK(ConfigErrorDecryptionCRCFailure)
		return false
	}
	defer ZeroBytes(plain)

	if err := parse(plain); err != nil {
		e.logger.Debug("parse settings failed",
			slog.String("message", msg), slog.String("error", err.Error()))
		e.sendNACK(ConfigErrorDecryptionCRCFailure)
		return false
	}

	if !CheckKeyWrapAuthenticator(e.authKey[:], plain) {
		e.logger.Debug("key wrap authenticator mismatch", slog.String("message", msg))
		e.sendNACK(ConfigErrorDecryptionCRCFailure)
		return false
	}

	return true
}

// sealSettings writes the KeyWrapAuthenticator into the plaintext, pads
// and encrypts it under KeyWrapKey, and zeroes the plaintext.
func (e *Enrollee) sealSettings(plain []byte, iv [IVSize]byte) []byte {
	WriteKeyWrapAuthenticator(e.authKey[:], plain)
	encrypted := EncryptSettings(e.keyWrap, iv, plain)
	ZeroBytes(plain)
	return encrypted
}

// rHashValid recomputes the R-Hash commitment from the revealed secret
// nonce and compares it in constant time (WSC v2.0.5 Section 7.4).
func (e *Enrollee) rHashValid(snonce [NonceSize]byte, psk [16]byte, want [HashSize]byte) bool {
	got := ComputeRHash(e.authKey[:],
		snonce[:], psk[:], e.m1.PublicKey[:], e.m2.PublicKey[:])

	return subtle.ConstantTimeCompare(got[:], want[:]) == 1
}

// -------------------------------------------------------------------------
// Transmission
// -------------------------------------------------------------------------

// sendMsg transmits a registration message and replaces sentPDU so the
// next inbound authenticator chains over it.
func (e *Enrollee) sendMsg(pdu []byte) {
	e.sender.SendResponse(OpMsg, pdu)
	e.sentPDU = pdu
}

// sendNACK transmits a WSC_NACK with the given Configuration Error. The
// NoError code is the suppression sentinel: the NACK is not transmitted
// (WSC v2.0.5 Table 34 forbids NoError in a WSC_NACK). The registrar
// nonce is zeroed when M2 has not been established. sentPDU is not
// touched; NACKs are outside the authenticator chain.
func (e *Enrollee) sendNACK(code ConfigError) {
	if code == ConfigErrorNoError {
		return
	}

	nack := &NACK{
		Version2:           true,
		EnrolleeNonce:      e.m1.EnrolleeNonce,
		ConfigurationError: code,
	}
	if e.m2 != nil {
		nack.RegistrarNonce = e.m2.RegistrarNonce
	}

	pdu, err := BuildNACK(nack)
	if err != nil {
		e.logger.Error("build NACK", slog.String("error", err.Error()))
		return
	}

	e.logger.Debug("sending NACK", slog.String("error_code", code.String()))
	e.sender.SendResponse(OpNACK, pdu)
	e.metrics.NACKSent(code)
}

// sendDone transmits WSC_Done. Like NACKs, it does not replace sentPDU.
func (e *Enrollee) sendDone() {
	done := &Done{
		Version2:       true,
		EnrolleeNonce:  e.m1.EnrolleeNonce,
		RegistrarNonce: e.m2.RegistrarNonce,
	}

	pdu, err := BuildDone(done)
	if err != nil {
		e.logger.Error("build Done", slog.String("error", err.Error()))
		return
	}

	e.sender.SendResponse(OpDone, pdu)
}

// drop records a silently discarded payload. The reason is a stable,
// low-cardinality token suitable for a metric label.
func (e *Enrollee) drop(reason string) {
	e.logger.Debug("payload dropped", slog.String("reason", reason))
	e.metrics.PDUDropped(reason)
}

// dropErr records a silently discarded payload with error detail in the
// log; only the stable reason reaches the metrics label.
func (e *Enrollee) dropErr(reason string, err error) {
	e.logger.Debug("payload dropped",
		slog.String("reason", reason),
		slog.String("error", err.Error()),
	)
	e.metrics.PDUDropped(reason)
}

// setState advances the registration state.
func (e *Enrollee) setState(next State) {
	if next == e.state {
		return
	}

	e.logger.Info("state changed",
		slog.String("old_state", e.state.String()),
		slog.String("new_state", next.String()),
	)
	e.metrics.RecordStateTransition(e.state.String(), next.String())
	e.state = next
}

// -------------------------------------------------------------------------
// Teardown
// -------------------------------------------------------------------------

// Remove tears the session down and scrubs all key material: the DH
// private scalar, derived keys, PSKs, secret nonces, IVs and the device
// password. Safe to call at any quiescent boundary and idempotent.
func (e *Enrollee) Remove() {
	ZeroBytes(e.privateKey[:])
	ZeroBytes(e.authKey[:])
	ZeroBytes(e.emsk[:])
	ZeroBytes(e.psk1[:])
	ZeroBytes(e.psk2[:])
	ZeroBytes(e.eSNonce1[:])
	ZeroBytes(e.eSNonce2[:])
	ZeroBytes(e.iv1[:])
	ZeroBytes(e.iv2[:])
	ZeroBytes(e.rHash2[:])
	ZeroBytes(e.devicePassword)
	e.devicePassword = nil

	if e.sentPDU != nil {
		ZeroBytes(e.sentPDU)
		e.sentPDU = nil
	}

	e.m1 = nil
	e.m2 = nil
	e.keyWrap = nil
}
