package eap_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/dantte-lp/gowsc/internal/config"
	"github.com/dantte-lp/gowsc/internal/eap"
	"github.com/dantte-lp/gowsc/internal/wsc"
)

// captureSender records framed responses.
type captureSender struct {
	types []eap.Type
	bufs  []*eap.TxBuffer
}

func (s *captureSender) SendResponse(typ eap.Type, buf *eap.TxBuffer) {
	s.types = append(s.types, typ)
	s.bufs = append(s.bufs, buf)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testWSCSettings returns a minimal valid WSC section.
func testWSCSettings() *config.WSCConfig {
	return &config.WSCConfig{
		EnrolleeMAC:    "02:00:00:00:00:00",
		RFBand:         1,
		DevicePassword: "12345670",
	}
}

// -------------------------------------------------------------------------
// TxBuffer
// -------------------------------------------------------------------------

func TestTxBufferReservation(t *testing.T) {
	t.Parallel()

	tx := eap.NewTxBuffer(5)

	if len(tx.Bytes()) != eap.HeaderReserve+5 {
		t.Fatalf("Bytes() length %d, want %d", len(tx.Bytes()), eap.HeaderReserve+5)
	}
	if tx.PayloadLen() != 5 {
		t.Fatalf("PayloadLen() = %d, want 5", tx.PayloadLen())
	}

	// Writes through Payload land after the reserved header.
	payload := tx.Payload()
	for i := range payload {
		payload[i] = byte(i + 1)
	}

	full := tx.Bytes()
	if !bytes.Equal(full[:eap.HeaderReserve], make([]byte, eap.HeaderReserve)) {
		t.Fatal("reserved header region disturbed")
	}
	if !bytes.Equal(full[eap.HeaderReserve:], []byte{1, 2, 3, 4, 5}) {
		t.Fatal("payload region mismatch")
	}
}

// -------------------------------------------------------------------------
// Method registry
// -------------------------------------------------------------------------

func TestProbeCaseInsensitive(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"WSC", "wsc", "Wsc"} {
		method, err := eap.Probe(name, &captureSender{})
		if err != nil {
			t.Fatalf("Probe(%q): %v", name, err)
		}
		if method.Name() != eap.MethodNameWSC {
			t.Fatalf("Probe(%q) returned method %q", name, method.Name())
		}
		method.Remove()
	}
}

func TestProbeUnknownMethod(t *testing.T) {
	t.Parallel()

	if _, err := eap.Probe("TLS", &captureSender{}); !errors.Is(err, eap.ErrMethodNotSupported) {
		t.Fatalf("Probe(TLS): %v, want ErrMethodNotSupported", err)
	}
}

func TestRegisterMethodDuplicate(t *testing.T) {
	t.Parallel()

	factory := func(sender eap.Sender) (eap.Method, error) {
		return eap.NewWSCMethod(sender, nil)
	}

	if err := eap.RegisterMethod("dup-test", factory); err != nil {
		t.Fatalf("RegisterMethod: %v", err)
	}
	t.Cleanup(func() { eap.UnregisterMethod("dup-test") })

	if err := eap.RegisterMethod("DUP-TEST", factory); !errors.Is(err, eap.ErrMethodRegistered) {
		t.Fatalf("duplicate RegisterMethod: %v, want ErrMethodRegistered", err)
	}
}

// -------------------------------------------------------------------------
// WSCMethod framing
// -------------------------------------------------------------------------

func TestWSCMethodFramesStartResponse(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	method, err := eap.NewWSCMethod(sender, discardLogger())
	if err != nil {
		t.Fatalf("NewWSCMethod: %v", err)
	}
	t.Cleanup(method.Remove)

	if err := method.LoadSettings(testWSCSettings(), ""); err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}

	method.HandleRequest([]byte{0x01, 0x00}) // WSC_Start

	if len(sender.bufs) != 1 {
		t.Fatalf("captured %d responses, want 1", len(sender.bufs))
	}
	if sender.types[0] != eap.TypeExpanded {
		t.Fatalf("response type %d, want expanded (%d)", sender.types[0], eap.TypeExpanded)
	}

	payload := sender.bufs[0].Payload()
	if payload[0] != byte(wsc.OpMsg) || payload[1] != 0x00 {
		t.Fatalf("payload prefix %x, want MSG opcode and zero flags", payload[:2])
	}

	// The body after opcode and flags is M1.
	var m1 wsc.M1
	if err := wsc.ParseM1(payload[2:], &m1); err != nil {
		t.Fatalf("ParseM1: %v", err)
	}
	if m1.Addr != [6]byte{0x02, 0, 0, 0, 0, 0} {
		t.Fatalf("M1 address %x", m1.Addr)
	}
	if m1.UUIDE != wsc.UUIDFromAddr(m1.Addr) {
		t.Fatal("UUID-E not derived from the enrollee MAC")
	}

	if method.State() != wsc.StateExpectM2 {
		t.Fatalf("state %v, want ExpectM2", method.State())
	}
}

func TestWSCMethodRequestBeforeSettings(t *testing.T) {
	t.Parallel()

	sender := &captureSender{}
	method, err := eap.NewWSCMethod(sender, discardLogger())
	if err != nil {
		t.Fatalf("NewWSCMethod: %v", err)
	}

	method.HandleRequest([]byte{0x01, 0x00})

	if len(sender.bufs) != 0 {
		t.Fatal("request before LoadSettings produced a response")
	}
	if method.State() != wsc.StateExpectStart {
		t.Fatalf("state %v, want ExpectStart", method.State())
	}
}

func TestWSCMethodLoadSettingsRejectsBadSection(t *testing.T) {
	t.Parallel()

	method, err := eap.NewWSCMethod(&captureSender{}, discardLogger())
	if err != nil {
		t.Fatalf("NewWSCMethod: %v", err)
	}

	settings := testWSCSettings()
	settings.EnrolleeMAC = ""

	if err := method.LoadSettings(settings, ""); !errors.Is(err, config.ErrMissingEnrolleeMAC) {
		t.Fatalf("LoadSettings: %v, want ErrMissingEnrolleeMAC", err)
	}
}
