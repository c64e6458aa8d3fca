package eap

import (
	"fmt"
	"log/slog"

	"github.com/dantte-lp/gowsc/internal/config"
	"github.com/dantte-lp/gowsc/internal/wsc"
)

// MethodNameWSC is the name the outer EAP peer probes for the Simple
// Configuration method.
const MethodNameWSC = "WSC"

// -------------------------------------------------------------------------
// WSCMethod — expanded-type EAP method wrapping the Enrollee
// -------------------------------------------------------------------------

// WSCMethod frames the Enrollee's WSC payloads as expanded-type EAP
// responses (vendor ID 00:37:2A, vendor type 1) and surfaces credentials
// and the EMSK to the outer peer on completion.
type WSCMethod struct {
	enrollee *wsc.Enrollee
	sender   Sender
	logger   *slog.Logger

	onCredentials func([]wsc.Credential)
	onComplete    func(emsk []byte)
}

// WSCMethodOption configures optional WSCMethod parameters.
type WSCMethodOption func(*WSCMethod)

// WithCredentialsExport registers a callback receiving the credentials
// extracted from M8.
func WithCredentialsExport(fn func([]wsc.Credential)) WSCMethodOption {
	return func(m *WSCMethod) { m.onCredentials = fn }
}

// WithEMSKExport registers a callback receiving the EMSK when the
// method completes.
func WithEMSKExport(fn func(emsk []byte)) WSCMethodOption {
	return func(m *WSCMethod) { m.onComplete = fn }
}

// NewWSCMethod creates the method shell. The Enrollee session is not
// instantiated until LoadSettings provides the keyfile configuration.
func NewWSCMethod(sender Sender, logger *slog.Logger, opts ...WSCMethodOption) (*WSCMethod, error) {
	if sender == nil {
		return nil, wsc.ErrNilSender
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &WSCMethod{
		sender: sender,
		logger: logger.With(slog.String("method", MethodNameWSC)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Name returns the method name.
func (m *WSCMethod) Name() string { return MethodNameWSC }

// LoadSettings resolves the WSC section of the keyfile and instantiates
// the Enrollee session. The prefix parameter exists for methods whose
// options are namespaced per EAP identity; the WSC section is global and
// the prefix is ignored.
func (m *WSCMethod) LoadSettings(settings *config.WSCConfig, _ string, opts ...wsc.EnrolleeOption) error {
	cfg, err := settings.EnrolleeConfig()
	if err != nil {
		return fmt.Errorf("load WSC settings: %w", err)
	}

	opts = append(opts,
		wsc.WithCredentialsHandler(m.credentialsReady),
		wsc.WithCompletionHandler(m.completed),
	)

	enrollee, err := wsc.NewEnrollee(cfg, m, m.logger, opts...)
	if err != nil {
		return fmt.Errorf("load WSC settings: %w", err)
	}

	m.enrollee = enrollee

	return nil
}

// HandleRequest forwards one reassembled request payload to the session.
func (m *WSCMethod) HandleRequest(pkt []byte) {
	if m.enrollee == nil {
		m.logger.Warn("request before settings loaded")
		return
	}
	m.enrollee.HandleRequest(pkt)
}

// Remove tears the session down and scrubs its key material.
func (m *WSCMethod) Remove() {
	if m.enrollee != nil {
		m.enrollee.Remove()
		m.enrollee = nil
	}
}

// State returns the session state, or ExpectStart before LoadSettings.
func (m *WSCMethod) State() wsc.State {
	if m.enrollee == nil {
		return wsc.StateExpectStart
	}
	return m.enrollee.State()
}

// -------------------------------------------------------------------------
// wsc.ResponseSender implementation
// -------------------------------------------------------------------------

// SendResponse frames a WSC payload behind the opcode and flags octets
// at the start of the payload region and hands the buffer to the outer
// peer. Fragmentation is not supported, so the flags octet is always 0.
func (m *WSCMethod) SendResponse(op wsc.Op, pdu []byte) {
	tx := NewTxBuffer(2 + len(pdu))
	payload := tx.Payload()
	payload[0] = uint8(op)
	payload[1] = 0
	copy(payload[2:], pdu)

	m.sender.SendResponse(TypeExpanded, tx)
}

// -------------------------------------------------------------------------
// Completion plumbing
// -------------------------------------------------------------------------

// credentialsReady relays the extracted credentials to the outer peer.
func (m *WSCMethod) credentialsReady(creds []wsc.Credential) {
	if m.onCredentials != nil {
		m.onCredentials(creds)
	}
}

// completed reports method success and surfaces the EMSK.
func (m *WSCMethod) completed(emsk []byte) {
	m.logger.Info("method completed")
	if m.onComplete != nil {
		m.onComplete(emsk)
	}
}

// init registers the WSC method for case-insensitive probing by the
// outer EAP peer.
func init() {
	_ = RegisterMethod(MethodNameWSC, func(sender Sender) (Method, error) {
		return NewWSCMethod(sender, nil)
	})
}
