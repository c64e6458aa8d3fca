package wsc

import "fmt"

// -------------------------------------------------------------------------
// EAP-WSC opcodes and flags — WSC v2.0.5 Section 7.7.1
// -------------------------------------------------------------------------

// Op is the 1-byte opcode prefixing every EAP-WSC payload.
type Op uint8

const (
	// OpStart solicits M1 from the Enrollee.
	OpStart Op = 0x01

	// OpACK acknowledges a message that needs no reply.
	OpACK Op = 0x02

	// OpNACK aborts the registration with a Configuration Error.
	OpNACK Op = 0x03

	// OpMsg carries a registration protocol message (M1..M8).
	OpMsg Op = 0x04

	// OpDone concludes a successful registration.
	OpDone Op = 0x05

	// OpFragACK acknowledges a message fragment.
	OpFragACK Op = 0x06
)

// String returns the human-readable name for the opcode.
func (op Op) String() string {
	switch op {
	case OpStart:
		return "WSC_Start"
	case OpACK:
		return "WSC_ACK"
	case OpNACK:
		return "WSC_NACK"
	case OpMsg:
		return "WSC_MSG"
	case OpDone:
		return "WSC_Done"
	case OpFragACK:
		return "WSC_FRAG_ACK"
	default:
		return fmt.Sprintf("Op(0x%02x)", uint8(op))
	}
}

// Message flags (WSC v2.0.5 Section 7.7.1). Fragmentation is not
// supported; payloads with any flag set are dropped.
const (
	// FlagMoreFragments indicates more fragments follow.
	FlagMoreFragments uint8 = 0x01

	// FlagLengthField indicates a 2-byte total length field follows
	// the flags octet.
	FlagLengthField uint8 = 0x02
)

// -------------------------------------------------------------------------
// Enrollee State — WSC v2.0.5 Section 7.4 message sequence
// -------------------------------------------------------------------------

// State is the Enrollee registration state. Each state names the next
// message the Enrollee will accept; every transition is gated on full
// cryptographic acceptance of that message.
type State uint8

const (
	// StateExpectStart awaits the EAP-WSC Start opcode.
	StateExpectStart State = iota

	// StateExpectM2 awaits the Registrar's M2 after transmitting M1.
	StateExpectM2

	// StateExpectM4 awaits M4 after transmitting M3.
	StateExpectM4

	// StateExpectM6 awaits M6 after transmitting M5.
	StateExpectM6

	// StateExpectM8 awaits M8 after transmitting M7.
	StateExpectM8

	// StateFinished indicates WSC_Done was transmitted and credentials
	// were extracted.
	StateFinished
)

// stateNames maps states to human-readable strings.
var stateNames = [6]string{
	"ExpectStart",
	"ExpectM2",
	"ExpectM4",
	"ExpectM6",
	"ExpectM8",
	"Finished",
}

// String returns the human-readable name for the state.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}
