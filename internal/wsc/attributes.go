package wsc

import "fmt"

// -------------------------------------------------------------------------
// Attribute Tags — WSC v2.0.5 Section 12, Table 28
// -------------------------------------------------------------------------

// Tag identifies a WSC attribute. The wire encoding is a 2-byte big-endian
// tag followed by a 2-byte big-endian length (WSC v2.0.5 Section 12).
type Tag uint16

const (
	// TagAssociationState carries the configuration/association state of
	// the Enrollee (WSC v2.0.5 Table 31).
	TagAssociationState Tag = 0x1002

	// TagAuthenticationType carries a single authentication type inside a
	// Credential (WSC v2.0.5 Table 32).
	TagAuthenticationType Tag = 0x1003

	// TagAuthenticationTypeFlags carries the supported authentication
	// types bitmask (WSC v2.0.5 Table 32).
	TagAuthenticationTypeFlags Tag = 0x1004

	// TagAuthenticator is the 8-byte truncated HMAC-SHA-256 over the
	// previous and current message (WSC v2.0.5 Section 7.4).
	TagAuthenticator Tag = 0x1005

	// TagConfigurationMethods carries the configuration methods bitmask
	// (WSC v2.0.5 Table 33).
	TagConfigurationMethods Tag = 0x1008

	// TagConfigurationError carries a Configuration Error code
	// (WSC v2.0.5 Table 34).
	TagConfigurationError Tag = 0x1009

	// TagConnectionTypeFlags carries the supported connection types
	// (WSC v2.0.5 Table 35).
	TagConnectionTypeFlags Tag = 0x100D

	// TagCredential wraps a nested attribute stream describing a single
	// network credential (WSC v2.0.5 Section 12).
	TagCredential Tag = 0x100E

	// TagEncryptionType carries a single encryption type inside a
	// Credential (WSC v2.0.5 Table 36).
	TagEncryptionType Tag = 0x100F

	// TagEncryptionTypeFlags carries the supported encryption types
	// bitmask (WSC v2.0.5 Table 36).
	TagEncryptionTypeFlags Tag = 0x1010

	// TagDeviceName is a UTF-8 device name, up to 32 bytes.
	TagDeviceName Tag = 0x1011

	// TagDevicePasswordID identifies the device password in use
	// (WSC v2.0.5 Table 37).
	TagDevicePasswordID Tag = 0x1012

	// TagEHash1 is the Enrollee commitment to E-S1 (WSC v2.0.5 Section 7.4).
	TagEHash1 Tag = 0x1014

	// TagEHash2 is the Enrollee commitment to E-S2 (WSC v2.0.5 Section 7.4).
	TagEHash2 Tag = 0x1015

	// TagESNonce1 is the Enrollee secret nonce E-S1, revealed in M5.
	TagESNonce1 Tag = 0x1016

	// TagESNonce2 is the Enrollee secret nonce E-S2, revealed in M7.
	TagESNonce2 Tag = 0x1017

	// TagEncryptedSettings carries an IV followed by AES-CBC-128
	// ciphertext (WSC v2.0.5 Section 12, Encrypted Settings).
	TagEncryptedSettings Tag = 0x1018

	// TagEnrolleeNonce is the 16-byte Enrollee nonce N1.
	TagEnrolleeNonce Tag = 0x101A

	// TagKeyWrapAuthenticator is the 8-byte HMAC-SHA-256 over the
	// encrypted-settings plaintext, carried as its trailing attribute.
	TagKeyWrapAuthenticator Tag = 0x101E

	// TagMACAddress is a 6-byte IEEE 802 MAC address.
	TagMACAddress Tag = 0x1020

	// TagManufacturer is a UTF-8 manufacturer string, up to 64 bytes.
	TagManufacturer Tag = 0x1021

	// TagMessageType distinguishes M1..M8, ACK, NACK and Done
	// (WSC v2.0.5 Table 42).
	TagMessageType Tag = 0x1022

	// TagModelName is a UTF-8 model name, up to 32 bytes.
	TagModelName Tag = 0x1023

	// TagModelNumber is a UTF-8 model number, up to 32 bytes.
	TagModelNumber Tag = 0x1024

	// TagNetworkIndex is a 1-byte network index, deprecated to 1.
	TagNetworkIndex Tag = 0x1026

	// TagNetworkKey is the network key of a Credential, up to 64 bytes.
	TagNetworkKey Tag = 0x1027

	// TagNetworkKeyIndex is a deprecated 1-byte key index.
	TagNetworkKeyIndex Tag = 0x1028

	// TagOSVersion is the 4-byte OS version with the MSB always set on
	// the wire (WSC v2.0.5 Section 12).
	TagOSVersion Tag = 0x102D

	// TagPublicKey is the 192-byte Diffie-Hellman public key.
	TagPublicKey Tag = 0x1032

	// TagRegistrarNonce is the 16-byte Registrar nonce N2.
	TagRegistrarNonce Tag = 0x1039

	// TagRFBands carries the supported RF band bitmask (WSC v2.0.5 Table 44).
	TagRFBands Tag = 0x103C

	// TagRHash1 is the Registrar commitment to R-S1 (WSC v2.0.5 Section 7.4).
	TagRHash1 Tag = 0x103D

	// TagRHash2 is the Registrar commitment to R-S2 (WSC v2.0.5 Section 7.4).
	TagRHash2 Tag = 0x103E

	// TagRSNonce1 is the Registrar secret nonce R-S1, revealed in M4.
	TagRSNonce1 Tag = 0x103F

	// TagRSNonce2 is the Registrar secret nonce R-S2, revealed in M6.
	TagRSNonce2 Tag = 0x1040

	// TagSerialNumber is a UTF-8 serial number, up to 32 bytes.
	TagSerialNumber Tag = 0x1042

	// TagWSCState carries the Wi-Fi Simple Configuration state
	// (WSC v2.0.5 Table 43).
	TagWSCState Tag = 0x1044

	// TagSSID is the network SSID of a Credential, up to 32 bytes.
	TagSSID Tag = 0x1045

	// TagUUIDE is the 16-byte UUID of the Enrollee.
	TagUUIDE Tag = 0x1047

	// TagUUIDR is the 16-byte UUID of the Registrar.
	TagUUIDR Tag = 0x1048

	// TagVendorExtension wraps a 3-byte vendor OUI followed by
	// vendor-specific subelements (WSC v2.0.5 Section 12).
	TagVendorExtension Tag = 0x1049

	// TagVersion is the deprecated version attribute, always 0x10
	// (WSC v2.0.5 Section 12).
	TagVersion Tag = 0x104A

	// TagPrimaryDeviceType is the 8-byte primary device type
	// (category, OUI, OUI type, subcategory).
	TagPrimaryDeviceType Tag = 0x1054

	// TagRequestedDeviceType mirrors TagPrimaryDeviceType in probe
	// requests (WSC v2.0.5 Section 12).
	TagRequestedDeviceType Tag = 0x106A
)

// -------------------------------------------------------------------------
// Fixed attribute and field sizes
// -------------------------------------------------------------------------

const (
	// NonceSize is the size of every WSC nonce (enrollee, registrar,
	// secret nonces) in bytes.
	NonceSize = 16

	// PublicKeySize is the fixed width of a DH group-5 public key.
	PublicKeySize = 192

	// AuthenticatorSize is the truncated HMAC length of the Authenticator
	// and KeyWrapAuthenticator attributes.
	AuthenticatorSize = 8

	// HashSize is the length of the E-Hash/R-Hash commitments.
	HashSize = 32

	// UUIDSize is the size of UUID-E and UUID-R.
	UUIDSize = 16

	// AddrSize is the size of an IEEE 802 MAC address.
	AddrSize = 6

	// IVSize is the AES-CBC initialization vector length.
	IVSize = 16

	// attrHeaderSize is the tag+length overhead of one WSC attribute.
	attrHeaderSize = 4

	// authenticatorAttrSize is the full on-wire size of the trailing
	// Authenticator attribute (4-byte header + 8-byte tag value). The
	// authenticator HMAC input always ends at len - authenticatorAttrSize.
	authenticatorAttrSize = attrHeaderSize + AuthenticatorSize
)

// String capacities of the descriptive device attributes. Values longer
// than the capacity are truncated when encoded (WSC v2.0.5 Section 12).
const (
	ManufacturerMaxLen = 64
	ModelNameMaxLen    = 32
	ModelNumberMaxLen  = 32
	SerialNumberMaxLen = 32
	DeviceNameMaxLen   = 32
)

// versionValue is the fixed value of the deprecated Version attribute.
const versionValue = 0x10

// version2Value identifies WSC version 2.0 in the WFA Version2 subelement.
const version2Value = 0x20

// wfaVersion2SubID is the subelement ID of Version2 inside the WFA
// vendor extension.
const wfaVersion2SubID = 0x00

// WFAVendorOUI is the Wi-Fi Alliance OUI used in the Vendor Extension
// attribute (WSC v2.0.5 Section 12).
var WFAVendorOUI = [3]byte{0x00, 0x37, 0x2A}

// WFADeviceOUI is the Wi-Fi Alliance OUI used inside the Primary Device
// Type attribute (WSC v2.0.5 Table 41).
var WFADeviceOUI = [3]byte{0x00, 0x50, 0xF2}

// -------------------------------------------------------------------------
// Message Types — WSC v2.0.5 Table 42
// -------------------------------------------------------------------------

// MessageType is the value of the Message Type attribute.
type MessageType uint8

const (
	// MessageTypeBeacon through MessageTypeProbeResponse exist in the
	// table but never traverse the EAP channel; only the registration
	// protocol values below are handled here.
	MessageTypeM1      MessageType = 0x04
	MessageTypeM2      MessageType = 0x05
	MessageTypeM2D     MessageType = 0x06
	MessageTypeM3      MessageType = 0x07
	MessageTypeM4      MessageType = 0x08
	MessageTypeM5      MessageType = 0x09
	MessageTypeM6      MessageType = 0x0A
	MessageTypeM7      MessageType = 0x0B
	MessageTypeM8      MessageType = 0x0C
	MessageTypeWSCACK  MessageType = 0x0D
	MessageTypeWSCNACK MessageType = 0x0E
	MessageTypeWSCDone MessageType = 0x0F
)

// String returns the human-readable name for the message type.
func (mt MessageType) String() string {
	switch mt {
	case MessageTypeM1:
		return "M1"
	case MessageTypeM2:
		return "M2"
	case MessageTypeM2D:
		return "M2D"
	case MessageTypeM3:
		return "M3"
	case MessageTypeM4:
		return "M4"
	case MessageTypeM5:
		return "M5"
	case MessageTypeM6:
		return "M6"
	case MessageTypeM7:
		return "M7"
	case MessageTypeM8:
		return "M8"
	case MessageTypeWSCACK:
		return "WSC_ACK"
	case MessageTypeWSCNACK:
		return "WSC_NACK"
	case MessageTypeWSCDone:
		return "WSC_Done"
	default:
		return fmt.Sprintf("Unknown(0x%02x)", uint8(mt))
	}
}

// -------------------------------------------------------------------------
// Configuration Error — WSC v2.0.5 Table 34
// -------------------------------------------------------------------------

// ConfigError is the value of the Configuration Error attribute.
type ConfigError uint16

const (
	ConfigErrorNoError                    ConfigError = 0
	ConfigErrorOOBInterfaceReadError      ConfigError = 1
	ConfigErrorDecryptionCRCFailure       ConfigError = 2
	ConfigErrorChannel24NotSupported      ConfigError = 3
	ConfigErrorChannel50NotSupported      ConfigError = 4
	ConfigErrorSignalTooWeak              ConfigError = 5
	ConfigErrorNetworkAuthFailure         ConfigError = 6
	ConfigErrorNetworkAssociationFailure  ConfigError = 7
	ConfigErrorNoDHCPResponse             ConfigError = 8
	ConfigErrorFailedDHCPConfig           ConfigError = 9
	ConfigErrorIPAddressConflict          ConfigError = 10
	ConfigErrorCouldNotConnectToRegistrar ConfigError = 11
	ConfigErrorMultiplePBCSessions        ConfigError = 12
	ConfigErrorRogueActivitySuspected     ConfigError = 13
	ConfigErrorDeviceBusy                 ConfigError = 14
	ConfigErrorSetupLocked                ConfigError = 15
	ConfigErrorMessageTimeout             ConfigError = 16
	ConfigErrorRegistrationSessionTimeout ConfigError = 17
	ConfigErrorDevicePasswordAuthFailure  ConfigError = 18
)

// String returns the human-readable name for the configuration error.
func (ce ConfigError) String() string {
	switch ce {
	case ConfigErrorNoError:
		return "NoError"
	case ConfigErrorOOBInterfaceReadError:
		return "OOBInterfaceReadError"
	case ConfigErrorDecryptionCRCFailure:
		return "DecryptionCRCFailure"
	case ConfigErrorNetworkAuthFailure:
		return "NetworkAuthFailure"
	case ConfigErrorNetworkAssociationFailure:
		return "NetworkAssociationFailure"
	case ConfigErrorDeviceBusy:
		return "DeviceBusy"
	case ConfigErrorSetupLocked:
		return "SetupLocked"
	case ConfigErrorMessageTimeout:
		return "MessageTimeout"
	case ConfigErrorRegistrationSessionTimeout:
		return "RegistrationSessionTimeout"
	case ConfigErrorDevicePasswordAuthFailure:
		return "DevicePasswordAuthFailure"
	default:
		return fmt.Sprintf("ConfigError(%d)", uint16(ce))
	}
}

// -------------------------------------------------------------------------
// Bitmask and enum attributes
// -------------------------------------------------------------------------

// Authentication type flags (WSC v2.0.5 Table 32).
const (
	AuthTypeOpen           uint16 = 0x0001
	AuthTypeWPAPersonal    uint16 = 0x0002
	AuthTypeShared         uint16 = 0x0004
	AuthTypeWPAEnterprise  uint16 = 0x0008
	AuthTypeWPA2Enterprise uint16 = 0x0010
	AuthTypeWPA2Personal   uint16 = 0x0020
)

// Encryption type flags (WSC v2.0.5 Table 36).
const (
	EncryptionTypeNone    uint16 = 0x0001
	EncryptionTypeWEP     uint16 = 0x0002
	EncryptionTypeTKIP    uint16 = 0x0004
	EncryptionTypeAES     uint16 = 0x0008
	EncryptionTypeAESTKIP uint16 = EncryptionTypeAES | EncryptionTypeTKIP
)

// Connection type flags (WSC v2.0.5 Table 35).
const (
	ConnectionTypeESS  uint8 = 0x01
	ConnectionTypeIBSS uint8 = 0x02
)

// Configuration methods (WSC v2.0.5 Table 33).
const (
	ConfigMethodUSBA               uint16 = 0x0001
	ConfigMethodEthernet           uint16 = 0x0002
	ConfigMethodLabel              uint16 = 0x0004
	ConfigMethodDisplay            uint16 = 0x0008
	ConfigMethodExternalNFCToken   uint16 = 0x0010
	ConfigMethodIntegratedNFCToken uint16 = 0x0020
	ConfigMethodNFCInterface       uint16 = 0x0040
	ConfigMethodPushButton         uint16 = 0x0080
	ConfigMethodKeypad             uint16 = 0x0100
	ConfigMethodVirtualPushButton  uint16 = 0x0280
	ConfigMethodPhysicalPushButton uint16 = 0x0480
	ConfigMethodVirtualDisplayPIN  uint16 = 0x2008
	ConfigMethodPhysicalDisplayPIN uint16 = 0x4008
)

// DeviceState is the Wi-Fi Simple Configuration State (WSC v2.0.5 Table 43).
type DeviceState uint8

const (
	// DeviceStateNotConfigured indicates the device holds no credentials.
	DeviceStateNotConfigured DeviceState = 0x01

	// DeviceStateConfigured indicates the device is provisioned.
	DeviceStateConfigured DeviceState = 0x02
)

// String returns the human-readable name for the device state.
func (ds DeviceState) String() string {
	switch ds {
	case DeviceStateNotConfigured:
		return "NotConfigured"
	case DeviceStateConfigured:
		return "Configured"
	default:
		return fmt.Sprintf("DeviceState(%d)", uint8(ds))
	}
}

// RFBand is the RF Bands attribute bitmask (WSC v2.0.5 Table 44).
type RFBand uint8

const (
	// RFBand24GHz is the 2.4 GHz ISM band.
	RFBand24GHz RFBand = 0x01

	// RFBand5GHz is the 5 GHz U-NII band.
	RFBand5GHz RFBand = 0x02

	// RFBand60GHz is the 60 GHz millimeter-wave band.
	RFBand60GHz RFBand = 0x04
)

// Valid reports whether the band is one of the three defined bands.
func (b RFBand) Valid() bool {
	return b == RFBand24GHz || b == RFBand5GHz || b == RFBand60GHz
}

// String returns the human-readable name for the RF band.
func (b RFBand) String() string {
	switch b {
	case RFBand24GHz:
		return "2.4GHz"
	case RFBand5GHz:
		return "5GHz"
	case RFBand60GHz:
		return "60GHz"
	default:
		return fmt.Sprintf("RFBand(%d)", uint8(b))
	}
}

// Association states (WSC v2.0.5 Table 31).
const (
	AssociationStateNotAssociated      uint16 = 0
	AssociationStateConnSuccess        uint16 = 1
	AssociationStateConfigFailure      uint16 = 2
	AssociationStateAssociationFailure uint16 = 3
	AssociationStateIPFailure          uint16 = 4
)

// Device password IDs (WSC v2.0.5 Table 37).
const (
	DevicePasswordIDDefault            uint16 = 0x0000
	DevicePasswordIDUserSpecified      uint16 = 0x0001
	DevicePasswordIDMachineSpecified   uint16 = 0x0002
	DevicePasswordIDRekey              uint16 = 0x0003
	DevicePasswordIDPushButton         uint16 = 0x0004
	DevicePasswordIDRegistrarSpecified uint16 = 0x0005
)
