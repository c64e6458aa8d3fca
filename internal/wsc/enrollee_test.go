package wsc_test

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dantte-lp/gowsc/internal/wsc"
)

// discardLogger returns a logger that swallows everything.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// -------------------------------------------------------------------------
// captureSender — records enrollee responses
// -------------------------------------------------------------------------

// captureSender implements wsc.ResponseSender by recording every
// response.
type captureSender struct {
	ops  []wsc.Op
	pdus [][]byte
}

func (s *captureSender) SendResponse(op wsc.Op, pdu []byte) {
	s.ops = append(s.ops, op)
	s.pdus = append(s.pdus, append([]byte(nil), pdu...))
}

// last returns the most recent response, failing the test if none exists.
func (s *captureSender) last(t *testing.T) (wsc.Op, []byte) {
	t.Helper()
	if len(s.ops) == 0 {
		t.Fatal("no response captured")
	}
	return s.ops[len(s.ops)-1], s.pdus[len(s.pdus)-1]
}

// -------------------------------------------------------------------------
// Enrollee fixture
// -------------------------------------------------------------------------

// testEnrolleeConfig returns a deterministic enrollee configuration with
// the given device password.
func testEnrolleeConfig(password string) wsc.Config {
	var cfg wsc.Config

	cfg.Addr = [6]byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x00}
	cfg.EnrolleeNonce = testNonce(0xE1)
	cfg.PrivateKey = testPrivateKey(0x21)
	cfg.ConfigMethods = wsc.ConfigMethodVirtualDisplayPIN
	cfg.Manufacturer = "ACME"
	cfg.ModelName = "Widget"
	cfg.ModelNumber = "W-1000"
	cfg.SerialNumber = "0001"
	cfg.DeviceName = "widget"
	cfg.PrimaryDeviceType = wsc.DefaultPrimaryDeviceType()
	cfg.RFBand = wsc.RFBand24GHz
	cfg.OSVersion = 0x01020304
	cfg.DevicePassword = password
	cfg.ESNonce1 = testNonce(0xA1)
	cfg.ESNonce2 = testNonce(0xA2)
	cfg.IV1 = testNonce(0xC1)
	cfg.IV2 = testNonce(0xC2)

	return cfg
}

// newTestEnrollee creates an enrollee wired to a capture sender.
func newTestEnrollee(t *testing.T, password string, opts ...wsc.EnrolleeOption) (*wsc.Enrollee, *captureSender) {
	t.Helper()

	sender := &captureSender{}
	e, err := wsc.NewEnrollee(testEnrolleeConfig(password), sender, discardLogger(), opts...)
	if err != nil {
		t.Fatalf("NewEnrollee: %v", err)
	}
	t.Cleanup(e.Remove)

	return e, sender
}

// msg frames a registration message payload behind the MSG opcode.
func msg(pdu []byte) []byte {
	return append([]byte{byte(wsc.OpMsg), 0x00}, pdu...)
}

// -------------------------------------------------------------------------
// testRegistrar — a scripted Registrar driving the handshake
// -------------------------------------------------------------------------

// testRegistrar implements the Registrar half of the registration
// protocol with pinned nonces, playing against the enrollee under test.
type testRegistrar struct {
	t *testing.T

	password []byte
	private  [wsc.PublicKeySize]byte
	nonce    [wsc.NonceSize]byte
	rs1      [wsc.NonceSize]byte
	rs2      [wsc.NonceSize]byte
	iv1      [16]byte
	iv2      [16]byte

	// Learned from the exchange.
	m1   wsc.M1
	keys *wsc.SessionKeys
	wrap cipher.Block
	psk1 [16]byte
	psk2 [16]byte
	m3   wsc.M3

	// corruptM4 flips a ciphertext bit in the M4 Encrypted Settings
	// before the outer authenticator is computed.
	corruptM4 bool
}

func newTestRegistrar(t *testing.T, password string) *testRegistrar {
	t.Helper()

	return &testRegistrar{
		t:        t,
		password: []byte(password),
		private:  testPrivateKey(0x91),
		nonce:    testNonce(0xB2),
		rs1:      testNonce(0xD1),
		rs2:      testNonce(0xD2),
		iv1:      testNonce(0xF1),
		iv2:      testNonce(0xF2),
	}
}

// makeM2 consumes the enrollee's M1 and produces a fully authenticated M2.
func (r *testRegistrar) makeM2(m1PDU []byte) []byte {
	r.t.Helper()

	if err := wsc.ParseM1(m1PDU, &r.m1); err != nil {
		r.t.Fatalf("registrar: parse M1: %v", err)
	}

	m2 := &wsc.M2{
		Version2:       true,
		EnrolleeNonce:  r.m1.EnrolleeNonce,
		RegistrarNonce: r.nonce,
		UUIDR:          wsc.UUIDFromAddr([6]byte{0x02, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}),
		DeviceInfo:     testDeviceInfo(),
	}
	if err := wsc.DHPublic(r.private[:], m2.PublicKey[:]); err != nil {
		r.t.Fatalf("registrar: DH public: %v", err)
	}

	shared := make([]byte, wsc.PublicKeySize)
	if err := wsc.DHSharedSecret(r.m1.PublicKey[:], r.private[:], shared); err != nil {
		r.t.Fatalf("registrar: DH shared secret: %v", err)
	}
	r.keys = wsc.DeriveSessionKeys(shared, r.m1.EnrolleeNonce, r.m1.Addr, r.nonce)

	block, err := aes.NewCipher(r.keys.KeyWrapKey[:])
	if err != nil {
		r.t.Fatalf("registrar: key wrap cipher: %v", err)
	}
	r.wrap = block

	r.psk1, r.psk2 = wsc.SplitPassword(r.keys.AuthKey[:], r.password)

	pdu, err := wsc.BuildM2(m2)
	if err != nil {
		r.t.Fatalf("registrar: build M2: %v", err)
	}
	wsc.WriteAuthenticator(r.keys.AuthKey[:], m1PDU, pdu)

	return pdu
}

// seal encrypts a settings plaintext under the key wrap key.
func (r *testRegistrar) seal(plain []byte, iv [16]byte) []byte {
	wsc.WriteKeyWrapAuthenticator(r.keys.AuthKey[:], plain)
	return wsc.EncryptSettings(r.wrap, iv, plain)
}

// makeM4 consumes the enrollee's M3 and produces M4 with the R-Hash
// commitments and the encrypted R-SNonce1.
func (r *testRegistrar) makeM4(m3PDU []byte) []byte {
	r.t.Helper()

	if err := wsc.ParseM3(m3PDU, &r.m3); err != nil {
		r.t.Fatalf("registrar: parse M3: %v", err)
	}

	pke := r.m1.PublicKey[:]
	pkr := r.pkr()

	m4 := &wsc.M4{
		Version2:      true,
		EnrolleeNonce: r.m1.EnrolleeNonce,
		RHash1:        wsc.ComputeRHash(r.keys.AuthKey[:], r.rs1[:], r.psk1[:], pke, pkr),
		RHash2:        wsc.ComputeRHash(r.keys.AuthKey[:], r.rs2[:], r.psk2[:], pke, pkr),
	}

	encrypted := r.seal(wsc.BuildM4EncryptedSettings(&wsc.M4EncryptedSettings{RSNonce1: r.rs1}), r.iv1)
	if r.corruptM4 {
		encrypted[wsc.IVSize] ^= 0x01
	}

	pdu, err := wsc.BuildM4(m4, encrypted)
	if err != nil {
		r.t.Fatalf("registrar: build M4: %v", err)
	}
	wsc.WriteAuthenticator(r.keys.AuthKey[:], m3PDU, pdu)

	return pdu
}

// makeM6 consumes the enrollee's M5, checks the E-Hash1 commitment and
// produces M6 with the encrypted R-SNonce2.
func (r *testRegistrar) makeM6(m5PDU []byte) []byte {
	r.t.Helper()

	var m5 wsc.M5
	encrypted, err := wsc.ParseM5(m5PDU, &m5)
	if err != nil {
		r.t.Fatalf("registrar: parse M5: %v", err)
	}

	plain, err := wsc.DecryptSettings(r.wrap, encrypted)
	if err != nil {
		r.t.Fatalf("registrar: decrypt M5 settings: %v", err)
	}
	if !wsc.CheckKeyWrapAuthenticator(r.keys.AuthKey[:], plain) {
		r.t.Fatal("registrar: M5 key wrap authenticator mismatch")
	}

	var es wsc.M5EncryptedSettings
	if err := wsc.ParseM5EncryptedSettings(plain, &es); err != nil {
		r.t.Fatalf("registrar: parse M5 settings: %v", err)
	}

	// With matching passwords, the revealed E-S1 must prove E-Hash1.
	wantEHash1 := wsc.ComputeRHash(r.keys.AuthKey[:],
		es.ESNonce1[:], r.psk1[:], r.m1.PublicKey[:], r.pkr())
	if wantEHash1 != r.m3.EHash1 {
		r.t.Fatal("registrar: E-Hash1 commitment does not verify")
	}

	m6 := &wsc.M6{Version2: true, EnrolleeNonce: r.m1.EnrolleeNonce}
	sealed := r.seal(wsc.BuildM6EncryptedSettings(&wsc.M6EncryptedSettings{RSNonce2: r.rs2}), r.iv2)

	pdu, err := wsc.BuildM6(m6, sealed)
	if err != nil {
		r.t.Fatalf("registrar: build M6: %v", err)
	}
	wsc.WriteAuthenticator(r.keys.AuthKey[:], m5PDU, pdu)

	return pdu
}

// makeM8 consumes the enrollee's M7 and delivers the credential bundle.
func (r *testRegistrar) makeM8(m7PDU []byte) []byte {
	r.t.Helper()

	var m7 wsc.M7
	if _, err := wsc.ParseM7(m7PDU, &m7); err != nil {
		r.t.Fatalf("registrar: parse M7: %v", err)
	}

	creds := []wsc.Credential{{
		SSID:           []byte("testnet"),
		AuthType:       wsc.AuthTypeWPA2Personal,
		EncryptionType: wsc.EncryptionTypeAES,
		NetworkKey:     []byte("correct horse battery"),
		Addr:           r.m1.Addr,
	}}

	plain, err := wsc.BuildM8EncryptedSettings(creds)
	if err != nil {
		r.t.Fatalf("registrar: build M8 settings: %v", err)
	}

	m8 := &wsc.M8{Version2: true, EnrolleeNonce: r.m1.EnrolleeNonce}
	pdu, err := wsc.BuildM8(m8, r.seal(plain, testNonce(0xF3)))
	if err != nil {
		r.t.Fatalf("registrar: build M8: %v", err)
	}
	wsc.WriteAuthenticator(r.keys.AuthKey[:], m7PDU, pdu)

	return pdu
}

// pkr recomputes the registrar public key.
func (r *testRegistrar) pkr() []byte {
	out := make([]byte, wsc.PublicKeySize)
	if err := wsc.DHPublic(r.private[:], out); err != nil {
		r.t.Fatalf("registrar: DH public: %v", err)
	}
	return out
}

// -------------------------------------------------------------------------
// End-to-end scenarios
// -------------------------------------------------------------------------

// runToM3 drives the handshake through Start/M1/M2/M3 and returns the
// enrollee's M3 payload.
func runToM3(t *testing.T, e *wsc.Enrollee, sender *captureSender, reg *testRegistrar) []byte {
	t.Helper()

	e.HandleRequest([]byte{byte(wsc.OpStart), 0x00})

	op, m1PDU := sender.last(t)
	if op != wsc.OpMsg {
		t.Fatalf("response to Start: op %v, want MSG", op)
	}
	if e.State() != wsc.StateExpectM2 {
		t.Fatalf("state %v after M1, want ExpectM2", e.State())
	}

	e.HandleRequest(msg(reg.makeM2(m1PDU)))

	op, m3PDU := sender.last(t)
	if op != wsc.OpMsg {
		t.Fatalf("response to M2: op %v, want MSG", op)
	}
	if e.State() != wsc.StateExpectM4 {
		t.Fatalf("state %v after M2, want ExpectM4", e.State())
	}

	return m3PDU
}

func TestHandshakeHappyPath(t *testing.T) {
	t.Parallel()

	var gotCreds []wsc.Credential
	var gotEMSK []byte

	e, sender := newTestEnrollee(t, "12345670",
		wsc.WithCredentialsHandler(func(creds []wsc.Credential) {
			gotCreds = append(gotCreds, creds...)
		}),
		wsc.WithCompletionHandler(func(emsk []byte) {
			gotEMSK = emsk
		}),
	)
	reg := newTestRegistrar(t, "12345670")

	m3PDU := runToM3(t, e, sender, reg)

	e.HandleRequest(msg(reg.makeM4(m3PDU)))
	op, m5PDU := sender.last(t)
	if op != wsc.OpMsg || e.State() != wsc.StateExpectM6 {
		t.Fatalf("after M4: op %v state %v, want MSG/ExpectM6", op, e.State())
	}

	e.HandleRequest(msg(reg.makeM6(m5PDU)))
	op, m7PDU := sender.last(t)
	if op != wsc.OpMsg || e.State() != wsc.StateExpectM8 {
		t.Fatalf("after M6: op %v state %v, want MSG/ExpectM8", op, e.State())
	}

	e.HandleRequest(msg(reg.makeM8(m7PDU)))
	op, _ = sender.last(t)
	if op != wsc.OpDone {
		t.Fatalf("after M8: op %v, want Done", op)
	}
	if e.State() != wsc.StateFinished {
		t.Fatalf("state %v, want Finished", e.State())
	}

	// Exactly four MSGs (M1, M3, M5, M7) plus the final Done.
	wantOps := []wsc.Op{wsc.OpMsg, wsc.OpMsg, wsc.OpMsg, wsc.OpMsg, wsc.OpDone}
	if len(sender.ops) != len(wantOps) {
		t.Fatalf("emitted %d responses, want %d", len(sender.ops), len(wantOps))
	}
	for i, want := range wantOps {
		if sender.ops[i] != want {
			t.Errorf("response %d: op %v, want %v", i, sender.ops[i], want)
		}
	}

	if len(gotCreds) != 1 || string(gotCreds[0].SSID) != "testnet" {
		t.Fatalf("credentials %v, want one with SSID testnet", gotCreds)
	}
	if len(gotEMSK) != wsc.EMSKSize {
		t.Fatalf("EMSK length %d, want %d", len(gotEMSK), wsc.EMSKSize)
	}
	if bytes.Equal(gotEMSK, make([]byte, wsc.EMSKSize)) {
		t.Fatal("EMSK is all zero")
	}
}

func TestHandshakeWrongPassword(t *testing.T) {
	t.Parallel()

	// A fully different password breaks PSK1, so M4's R-Hash1 proof
	// fails and the session stalls in ExpectM4.
	e, sender := newTestEnrollee(t, "87654321")
	reg := newTestRegistrar(t, "12345670")

	m3PDU := runToM3(t, e, sender, reg)

	e.HandleRequest(msg(reg.makeM4(m3PDU)))

	op, pdu := sender.last(t)
	if op != wsc.OpNACK {
		t.Fatalf("after M4: op %v, want NACK", op)
	}

	var nack wsc.NACK
	if err := wsc.ParseNACK(pdu, &nack); err != nil {
		t.Fatalf("parse NACK: %v", err)
	}
	if nack.ConfigurationError != wsc.ConfigErrorDevicePasswordAuthFailure {
		t.Fatalf("NACK error %v, want DevicePasswordAuthFailure", nack.ConfigurationError)
	}
	if nack.RegistrarNonce != reg.nonce {
		t.Fatal("NACK registrar nonce not echoed")
	}
	if e.State() != wsc.StateExpectM4 {
		t.Fatalf("state %v, want ExpectM4 (stalled)", e.State())
	}
}

func TestHandshakeSecondHalfPasswordMismatch(t *testing.T) {
	t.Parallel()

	// Passwords agreeing on the first half pass M4; the mismatch
	// surfaces at M6 via R-Hash2 and the session stalls in ExpectM6.
	e, sender := newTestEnrollee(t, "12345670")
	reg := newTestRegistrar(t, "12340000")

	m3PDU := runToM3(t, e, sender, reg)

	e.HandleRequest(msg(reg.makeM4(m3PDU)))
	op, m5PDU := sender.last(t)
	if op != wsc.OpMsg || e.State() != wsc.StateExpectM6 {
		t.Fatalf("after M4: op %v state %v, want MSG/ExpectM6", op, e.State())
	}

	// The registrar's E-Hash1 check still passes (PSK1 agrees); the
	// mismatch only surfaces through R-Hash2.
	e.HandleRequest(msg(reg.makeM6(m5PDU)))

	op, npdu := sender.last(t)
	if op != wsc.OpNACK {
		t.Fatalf("after M6: op %v, want NACK", op)
	}
	var nack wsc.NACK
	if err := wsc.ParseNACK(npdu, &nack); err != nil {
		t.Fatalf("parse NACK: %v", err)
	}
	if nack.ConfigurationError != wsc.ConfigErrorDevicePasswordAuthFailure {
		t.Fatalf("NACK error %v, want DevicePasswordAuthFailure", nack.ConfigurationError)
	}
	if e.State() != wsc.StateExpectM6 {
		t.Fatalf("state %v, want ExpectM6 (stalled)", e.State())
	}
}

func TestHandshakeBitFlippedM4Ciphertext(t *testing.T) {
	t.Parallel()

	e, sender := newTestEnrollee(t, "12345670")
	reg := newTestRegistrar(t, "12345670")
	reg.corruptM4 = true

	m3PDU := runToM3(t, e, sender, reg)

	e.HandleRequest(msg(reg.makeM4(m3PDU)))

	op, pdu := sender.last(t)
	if op != wsc.OpNACK {
		t.Fatalf("after corrupted M4: op %v, want NACK", op)
	}
	var nack wsc.NACK
	if err := wsc.ParseNACK(pdu, &nack); err != nil {
		t.Fatalf("parse NACK: %v", err)
	}
	if nack.ConfigurationError != wsc.ConfigErrorDecryptionCRCFailure {
		t.Fatalf("NACK error %v, want DecryptionCRCFailure", nack.ConfigurationError)
	}
	if e.State() != wsc.StateExpectM4 {
		t.Fatalf("state %v, want ExpectM4", e.State())
	}
}

func TestHandshakeTamperedM4OuterAuthenticator(t *testing.T) {
	t.Parallel()

	// Tampering after the authenticator is computed must be a silent
	// drop, not a NACK: the outer check fires first.
	e, sender := newTestEnrollee(t, "12345670")
	reg := newTestRegistrar(t, "12345670")

	m3PDU := runToM3(t, e, sender, reg)
	responses := len(sender.ops)

	// Flip a bit of the trailing authenticator value itself.
	m4PDU := reg.makeM4(m3PDU)
	m4PDU[len(m4PDU)-1] ^= 0x01
	e.HandleRequest(msg(m4PDU))

	if len(sender.ops) != responses {
		t.Fatal("tampered M4 produced a response")
	}
	if e.State() != wsc.StateExpectM4 {
		t.Fatalf("state %v, want ExpectM4", e.State())
	}
}

func TestHandshakeTruncatedM2(t *testing.T) {
	t.Parallel()

	e, sender := newTestEnrollee(t, "12345670")
	reg := newTestRegistrar(t, "12345670")

	e.HandleRequest([]byte{byte(wsc.OpStart), 0x00})
	_, m1PDU := sender.last(t)
	responses := len(sender.ops)

	m2PDU := reg.makeM2(m1PDU)
	e.HandleRequest(msg(m2PDU[:len(m2PDU)-1]))

	if len(sender.ops) != responses {
		t.Fatal("truncated M2 produced a response")
	}
	if e.State() != wsc.StateExpectM2 {
		t.Fatalf("state %v, want ExpectM2", e.State())
	}

	// The intact M2 must still be accepted afterwards.
	e.HandleRequest(msg(m2PDU))
	if e.State() != wsc.StateExpectM4 {
		t.Fatalf("state %v after intact M2, want ExpectM4", e.State())
	}
}

// -------------------------------------------------------------------------
// Dispatch edge cases
// -------------------------------------------------------------------------

func TestHandleRequestSilentDrops(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pkt  []byte
	}{
		{name: "empty payload", pkt: nil},
		{name: "single byte", pkt: []byte{byte(wsc.OpStart)}},
		{name: "nonzero flags", pkt: []byte{byte(wsc.OpStart), 0x01}},
		{name: "length field flag", pkt: []byte{byte(wsc.OpMsg), 0x02, 0x10, 0x4A}},
		{name: "unexpected ACK", pkt: []byte{byte(wsc.OpACK), 0x00}},
		{name: "unexpected Done", pkt: []byte{byte(wsc.OpDone), 0x00}},
		{name: "unexpected FragACK", pkt: []byte{byte(wsc.OpFragACK), 0x00}},
		{name: "unknown opcode", pkt: []byte{0x77, 0x00}},
		{name: "start with trailing bytes", pkt: []byte{byte(wsc.OpStart), 0x00, 0xAA}},
		{name: "message before start", pkt: append([]byte{byte(wsc.OpMsg), 0x00}, 0x10, 0x4A, 0x00, 0x01, 0x10)},
		{name: "registrar NACK", pkt: []byte{byte(wsc.OpNACK), 0x00}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, sender := newTestEnrollee(t, "12345670")

			e.HandleRequest(tt.pkt)

			if len(sender.ops) != 0 {
				t.Fatalf("payload produced %d responses, want none", len(sender.ops))
			}
			if e.State() != wsc.StateExpectStart {
				t.Fatalf("state %v, want ExpectStart", e.State())
			}
		})
	}
}

func TestUnexpectedACKInExpectM2(t *testing.T) {
	t.Parallel()

	e, sender := newTestEnrollee(t, "12345670")

	e.HandleRequest([]byte{byte(wsc.OpStart), 0x00})
	responses := len(sender.ops)

	e.HandleRequest([]byte{byte(wsc.OpACK), 0x00})

	if len(sender.ops) != responses {
		t.Fatal("ACK produced a response")
	}
	if e.State() != wsc.StateExpectM2 {
		t.Fatalf("state %v, want ExpectM2", e.State())
	}
}

func TestMessageAfterFinishedNACKs(t *testing.T) {
	t.Parallel()

	e, sender := newTestEnrollee(t, "12345670")
	reg := newTestRegistrar(t, "12345670")

	m3PDU := runToM3(t, e, sender, reg)
	e.HandleRequest(msg(reg.makeM4(m3PDU)))
	_, m5PDU := sender.last(t)
	e.HandleRequest(msg(reg.makeM6(m5PDU)))
	_, m7PDU := sender.last(t)
	e.HandleRequest(msg(reg.makeM8(m7PDU)))

	if e.State() != wsc.StateFinished {
		t.Fatalf("state %v, want Finished", e.State())
	}

	// Any registration message after Done draws a non-zero-error NACK.
	e.HandleRequest(msg([]byte{0x10, 0x4A, 0x00, 0x01, 0x10}))

	op, pdu := sender.last(t)
	if op != wsc.OpNACK {
		t.Fatalf("after Finished: op %v, want NACK", op)
	}
	var nack wsc.NACK
	if err := wsc.ParseNACK(pdu, &nack); err != nil {
		t.Fatalf("parse NACK: %v", err)
	}
	if nack.ConfigurationError == wsc.ConfigErrorNoError {
		t.Fatal("NACK after Finished carries NoError")
	}
	if e.State() != wsc.StateFinished {
		t.Fatalf("state %v, want Finished", e.State())
	}
}

func TestStartIgnoredAfterM1(t *testing.T) {
	t.Parallel()

	e, sender := newTestEnrollee(t, "12345670")

	e.HandleRequest([]byte{byte(wsc.OpStart), 0x00})
	responses := len(sender.ops)

	e.HandleRequest([]byte{byte(wsc.OpStart), 0x00})

	if len(sender.ops) != responses {
		t.Fatal("second Start produced a response")
	}
	if e.State() != wsc.StateExpectM2 {
		t.Fatalf("state %v, want ExpectM2", e.State())
	}
}

// -------------------------------------------------------------------------
// Constructor validation
// -------------------------------------------------------------------------

func TestNewEnrolleeValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*wsc.Config)
		sender  wsc.ResponseSender
		wantErr error
	}{
		{
			name:    "nil sender",
			mutate:  func(*wsc.Config) {},
			sender:  nil,
			wantErr: wsc.ErrNilSender,
		},
		{
			name:    "invalid rf band",
			mutate:  func(c *wsc.Config) { c.RFBand = 3 },
			sender:  &captureSender{},
			wantErr: wsc.ErrInvalidRFBand,
		},
		{
			name:    "short password",
			mutate:  func(c *wsc.Config) { c.DevicePassword = "1234567" },
			sender:  &captureSender{},
			wantErr: wsc.ErrInvalidDevicePassword,
		},
		{
			name:    "non-hex password",
			mutate:  func(c *wsc.Config) { c.DevicePassword = "1234567G" },
			sender:  &captureSender{},
			wantErr: wsc.ErrInvalidDevicePassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testEnrolleeConfig("12345670")
			tt.mutate(&cfg)

			_, err := wsc.NewEnrollee(cfg, tt.sender, discardLogger())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewEnrollee: %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLowercasePasswordAccepted(t *testing.T) {
	t.Parallel()

	// Lowercase hex digits are uppercased on ingestion; the enrollee
	// must interoperate with a registrar holding the uppercase form.
	e, sender := newTestEnrollee(t, "abcdef01")
	reg := newTestRegistrar(t, "ABCDEF01")

	m3PDU := runToM3(t, e, sender, reg)
	e.HandleRequest(msg(reg.makeM4(m3PDU)))

	if e.State() != wsc.StateExpectM6 {
		t.Fatalf("state %v, want ExpectM6", e.State())
	}
}
