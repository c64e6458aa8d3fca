package wsc

// -------------------------------------------------------------------------
// Registration Protocol Records — WSC v2.0.5 Section 8
// -------------------------------------------------------------------------

// PrimaryDeviceType is the 8-byte Primary Device Type attribute value
// (WSC v2.0.5 Table 41).
type PrimaryDeviceType struct {
	Category    uint16
	OUI         [3]byte
	OUIType     uint8
	Subcategory uint16
}

// DefaultPrimaryDeviceType is a WFA standard PC (category 1, WFA OUI,
// OUI type 4, subcategory 1).
func DefaultPrimaryDeviceType() PrimaryDeviceType {
	return PrimaryDeviceType{
		Category:    1,
		OUI:         WFADeviceOUI,
		OUIType:     0x04,
		Subcategory: 1,
	}
}

// DeviceInfo holds the descriptive device attributes shared by M1 and M2.
type DeviceInfo struct {
	AuthTypeFlags       uint16
	EncryptionTypeFlags uint16
	ConnectionTypeFlags uint8
	ConfigMethods       uint16
	Manufacturer        string
	ModelName           string
	ModelNumber         string
	SerialNumber        string
	PrimaryDeviceType   PrimaryDeviceType
	DeviceName          string
	RFBands             RFBand
	AssociationState    uint16
	DevicePasswordID    uint16
	ConfigurationError  ConfigError
	OSVersion           uint32
}

// M1 is the Enrollee-originated introduction (WSC v2.0.5 Section 8.3.1).
type M1 struct {
	Version2      bool
	UUIDE         [UUIDSize]byte
	Addr          [AddrSize]byte
	EnrolleeNonce [NonceSize]byte
	PublicKey     [PublicKeySize]byte
	State         DeviceState
	DeviceInfo
}

// M2 is the Registrar reply to M1 (WSC v2.0.5 Section 8.3.2).
type M2 struct {
	Version2       bool
	EnrolleeNonce  [NonceSize]byte
	RegistrarNonce [NonceSize]byte
	UUIDR          [UUIDSize]byte
	PublicKey      [PublicKeySize]byte
	DeviceInfo
	Authenticator [AuthenticatorSize]byte
}

// M3 carries the Enrollee hash commitments (WSC v2.0.5 Section 8.3.3).
type M3 struct {
	Version2       bool
	RegistrarNonce [NonceSize]byte
	EHash1         [HashSize]byte
	EHash2         [HashSize]byte
	Authenticator  [AuthenticatorSize]byte
}

// M4 carries the Registrar hash commitments and the first encrypted
// Registrar secret nonce (WSC v2.0.5 Section 8.3.4).
type M4 struct {
	Version2      bool
	EnrolleeNonce [NonceSize]byte
	RHash1        [HashSize]byte
	RHash2        [HashSize]byte
	Authenticator [AuthenticatorSize]byte
}

// M5 reveals the first Enrollee secret nonce inside Encrypted Settings
// (WSC v2.0.5 Section 8.3.5).
type M5 struct {
	Version2       bool
	RegistrarNonce [NonceSize]byte
	Authenticator  [AuthenticatorSize]byte
}

// M6 reveals the second Registrar secret nonce (WSC v2.0.5 Section 8.3.6).
type M6 struct {
	Version2      bool
	EnrolleeNonce [NonceSize]byte
	Authenticator [AuthenticatorSize]byte
}

// M7 reveals the second Enrollee secret nonce (WSC v2.0.5 Section 8.3.7).
type M7 struct {
	Version2       bool
	RegistrarNonce [NonceSize]byte
	Authenticator  [AuthenticatorSize]byte
}

// M8 delivers the encrypted credential bundle (WSC v2.0.5 Section 8.3.8).
type M8 struct {
	Version2      bool
	EnrolleeNonce [NonceSize]byte
	Authenticator [AuthenticatorSize]byte
}

// NACK is the WSC_NACK message (WSC v2.0.5 Section 8.3.10).
type NACK struct {
	Version2           bool
	EnrolleeNonce      [NonceSize]byte
	RegistrarNonce     [NonceSize]byte
	ConfigurationError ConfigError
}

// Done is the WSC_Done message (WSC v2.0.5 Section 8.3.11).
type Done struct {
	Version2       bool
	EnrolleeNonce  [NonceSize]byte
	RegistrarNonce [NonceSize]byte
}

// -------------------------------------------------------------------------
// Encrypted Settings inner records — WSC v2.0.5 Section 8.3
// -------------------------------------------------------------------------

// M4EncryptedSettings is the plaintext of the M4 Encrypted Settings.
type M4EncryptedSettings struct {
	RSNonce1 [NonceSize]byte
}

// M5EncryptedSettings is the plaintext of the M5 Encrypted Settings.
type M5EncryptedSettings struct {
	ESNonce1 [NonceSize]byte
}

// M6EncryptedSettings is the plaintext of the M6 Encrypted Settings.
type M6EncryptedSettings struct {
	RSNonce2 [NonceSize]byte
}

// M7EncryptedSettings is the plaintext of the M7 Encrypted Settings.
type M7EncryptedSettings struct {
	ESNonce2 [NonceSize]byte
}

// MaxCredentials is the maximum number of Credential attributes extracted
// from the M8 Encrypted Settings.
const MaxCredentials = 3

// Credential is one network credential from the M8 plaintext
// (WSC v2.0.5 Section 12, Credential).
type Credential struct {
	SSID           []byte
	AuthType       uint16
	EncryptionType uint16
	NetworkKey     []byte
	Addr           [AddrSize]byte
}

// Zero scrubs the credential's key material in place.
func (c *Credential) Zero() {
	ZeroBytes(c.NetworkKey)
	ZeroBytes(c.SSID)
}
