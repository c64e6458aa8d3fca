package wsc

import (
	"encoding/binary"
	"fmt"
)

// This file implements the transmit half of the message codec: typed
// records to attribute streams. Authenticated messages are emitted with
// the trailing Authenticator attribute carrying the record's value
// (zeroes until WriteAuthenticator fills the slot).

// Build buffer capacities. M1/M2 carry the full descriptive catalogue;
// everything else is far smaller.
const (
	deviceMsgBufSize = 1024
	smallMsgBufSize  = 512
)

// appendPrimaryDeviceType encodes the 8-byte Primary Device Type value.
func appendPrimaryDeviceType(b *AttrBuilder, pdt PrimaryDeviceType) {
	var v [8]byte
	binary.BigEndian.PutUint16(v[0:2], pdt.Category)
	copy(v[2:5], pdt.OUI[:])
	v[5] = pdt.OUIType
	binary.BigEndian.PutUint16(v[6:8], pdt.Subcategory)
	b.Append(TagPrimaryDeviceType, v[:])
}

// appendOSVersion encodes the OS Version attribute with the mandatory
// wire MSB (WSC v2.0.5 Section 12).
func appendOSVersion(b *AttrBuilder, v uint32) {
	b.AppendUint32(TagOSVersion, v|0x80000000)
}

// appendDescriptive emits the descriptive run shared by M1 and M2:
// manufacturer through RF bands (WSC v2.0.5 Section 8.3.1/8.3.2).
func appendDescriptive(b *AttrBuilder, info *DeviceInfo) {
	b.AppendString(TagManufacturer, info.Manufacturer, ManufacturerMaxLen)
	b.AppendString(TagModelName, info.ModelName, ModelNameMaxLen)
	b.AppendString(TagModelNumber, info.ModelNumber, ModelNumberMaxLen)
	b.AppendString(TagSerialNumber, info.SerialNumber, SerialNumberMaxLen)
	appendPrimaryDeviceType(b, info.PrimaryDeviceType)
	b.AppendString(TagDeviceName, info.DeviceName, DeviceNameMaxLen)
	b.AppendUint8(TagRFBands, uint8(info.RFBands))
}

// -------------------------------------------------------------------------
// M1 / M2
// -------------------------------------------------------------------------

// BuildM1 encodes an M1 message (WSC v2.0.5 Section 8.3.1).
func BuildM1(m *M1) ([]byte, error) {
	buf := make([]byte, deviceMsgBufSize)
	b := NewAttrBuilder(buf)

	b.AppendUint8(TagVersion, versionValue)
	b.AppendUint8(TagMessageType, uint8(MessageTypeM1))
	b.Append(TagUUIDE, m.UUIDE[:])
	b.Append(TagMACAddress, m.Addr[:])
	b.Append(TagEnrolleeNonce, m.EnrolleeNonce[:])
	b.Append(TagPublicKey, m.PublicKey[:])
	b.AppendUint16(TagAuthenticationTypeFlags, m.AuthTypeFlags)
	b.AppendUint16(TagEncryptionTypeFlags, m.EncryptionTypeFlags)
	b.AppendUint8(TagConnectionTypeFlags, m.ConnectionTypeFlags)
	b.AppendUint16(TagConfigurationMethods, m.ConfigMethods)
	b.AppendUint8(TagWSCState, uint8(m.State))
	appendDescriptive(b, &m.DeviceInfo)
	b.AppendUint16(TagAssociationState, m.AssociationState)
	b.AppendUint16(TagDevicePasswordID, m.DevicePasswordID)
	b.AppendUint16(TagConfigurationError, uint16(m.ConfigurationError))
	appendOSVersion(b, m.OSVersion)
	if m.Version2 {
		b.appendVersion2()
	}

	n, err := b.Finish()
	if err != nil {
		return nil, fmt.Errorf("build M1: %w", err)
	}

	return buf[:n], nil
}

// BuildM2 encodes an M2 message (WSC v2.0.5 Section 8.3.2). The trailing
// Authenticator attribute carries m.Authenticator; WriteAuthenticator
// overwrites the slot once the previous PDU is known.
func BuildM2(m *M2) ([]byte, error) {
	buf := make([]byte, deviceMsgBufSize)
	b := NewAttrBuilder(buf)

	b.AppendUint8(TagVersion, versionValue)
	b.AppendUint8(TagMessageType, uint8(MessageTypeM2))
	b.Append(TagEnrolleeNonce, m.EnrolleeNonce[:])
	b.Append(TagRegistrarNonce, m.RegistrarNonce[:])
	b.Append(TagUUIDR, m.UUIDR[:])
	b.Append(TagPublicKey, m.PublicKey[:])
	b.AppendUint16(TagAuthenticationTypeFlags, m.AuthTypeFlags)
	b.AppendUint16(TagEncryptionTypeFlags, m.EncryptionTypeFlags)
	b.AppendUint8(TagConnectionTypeFlags, m.ConnectionTypeFlags)
	b.AppendUint16(TagConfigurationMethods, m.ConfigMethods)
	appendDescriptive(b, &m.DeviceInfo)
	b.AppendUint16(TagAssociationState, m.AssociationState)
	b.AppendUint16(TagConfigurationError, uint16(m.ConfigurationError))
	b.AppendUint16(TagDevicePasswordID, m.DevicePasswordID)
	appendOSVersion(b, m.OSVersion)
	if m.Version2 {
		b.appendVersion2()
	}
	b.Append(TagAuthenticator, m.Authenticator[:])

	n, err := b.Finish()
	if err != nil {
		return nil, fmt.Errorf("build M2: %w", err)
	}

	return buf[:n], nil
}

// -------------------------------------------------------------------------
// M3..M8
// -------------------------------------------------------------------------

// BuildM3 encodes an M3 message (WSC v2.0.5 Section 8.3.3).
func BuildM3(m *M3) ([]byte, error) {
	buf := make([]byte, smallMsgBufSize)
	b := NewAttrBuilder(buf)

	b.AppendUint8(TagVersion, versionValue)
	b.AppendUint8(TagMessageType, uint8(MessageTypeM3))
	b.Append(TagRegistrarNonce, m.RegistrarNonce[:])
	b.Append(TagEHash1, m.EHash1[:])
	b.Append(TagEHash2, m.EHash2[:])
	if m.Version2 {
		b.appendVersion2()
	}
	b.Append(TagAuthenticator, m.Authenticator[:])

	n, err := b.Finish()
	if err != nil {
		return nil, fmt.Errorf("build M3: %w", err)
	}

	return buf[:n], nil
}

// BuildM4 encodes an M4 message around an already encrypted settings
// payload (WSC v2.0.5 Section 8.3.4).
func BuildM4(m *M4, encrypted []byte) ([]byte, error) {
	buf := make([]byte, smallMsgBufSize+len(encrypted))
	b := NewAttrBuilder(buf)

	b.AppendUint8(TagVersion, versionValue)
	b.AppendUint8(TagMessageType, uint8(MessageTypeM4))
	b.Append(TagEnrolleeNonce, m.EnrolleeNonce[:])
	b.Append(TagRHash1, m.RHash1[:])
	b.Append(TagRHash2, m.RHash2[:])
	b.Append(TagEncryptedSettings, encrypted)
	if m.Version2 {
		b.appendVersion2()
	}
	b.Append(TagAuthenticator, m.Authenticator[:])

	n, err := b.Finish()
	if err != nil {
		return nil, fmt.Errorf("build M4: %w", err)
	}

	return buf[:n], nil
}

// buildNonceES encodes the shared M5/M6/M7/M8 shape: a nonce, the
// Encrypted Settings payload and the trailing authenticator.
func buildNonceES(
	mt MessageType,
	nonceTag Tag,
	nonce [NonceSize]byte,
	encrypted []byte,
	version2 bool,
	auth [AuthenticatorSize]byte,
) ([]byte, error) {
	buf := make([]byte, smallMsgBufSize+len(encrypted))
	b := NewAttrBuilder(buf)

	b.AppendUint8(TagVersion, versionValue)
	b.AppendUint8(TagMessageType, uint8(mt))
	b.Append(nonceTag, nonce[:])
	b.Append(TagEncryptedSettings, encrypted)
	if version2 {
		b.appendVersion2()
	}
	b.Append(TagAuthenticator, auth[:])

	n, err := b.Finish()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", mt, err)
	}

	return buf[:n], nil
}

// BuildM5 encodes an M5 message (WSC v2.0.5 Section 8.3.5).
func BuildM5(m *M5, encrypted []byte) ([]byte, error) {
	return buildNonceES(MessageTypeM5, TagRegistrarNonce,
		m.RegistrarNonce, encrypted, m.Version2, m.Authenticator)
}

// BuildM6 encodes an M6 message (WSC v2.0.5 Section 8.3.6).
func BuildM6(m *M6, encrypted []byte) ([]byte, error) {
	return buildNonceES(MessageTypeM6, TagEnrolleeNonce,
		m.EnrolleeNonce, encrypted, m.Version2, m.Authenticator)
}

// BuildM7 encodes an M7 message (WSC v2.0.5 Section 8.3.7).
func BuildM7(m *M7, encrypted []byte) ([]byte, error) {
	return buildNonceES(MessageTypeM7, TagRegistrarNonce,
		m.RegistrarNonce, encrypted, m.Version2, m.Authenticator)
}

// BuildM8 encodes an M8 message (WSC v2.0.5 Section 8.3.8).
func BuildM8(m *M8, encrypted []byte) ([]byte, error) {
	return buildNonceES(MessageTypeM8, TagEnrolleeNonce,
		m.EnrolleeNonce, encrypted, m.Version2, m.Authenticator)
}

// -------------------------------------------------------------------------
// WSC_NACK / WSC_Done
// -------------------------------------------------------------------------

// BuildNACK encodes a WSC_NACK message (WSC v2.0.5 Section 8.3.10).
func BuildNACK(n *NACK) ([]byte, error) {
	buf := make([]byte, smallMsgBufSize)
	b := NewAttrBuilder(buf)

	b.AppendUint8(TagVersion, versionValue)
	b.AppendUint8(TagMessageType, uint8(MessageTypeWSCNACK))
	b.Append(TagEnrolleeNonce, n.EnrolleeNonce[:])
	b.Append(TagRegistrarNonce, n.RegistrarNonce[:])
	b.AppendUint16(TagConfigurationError, uint16(n.ConfigurationError))
	if n.Version2 {
		b.appendVersion2()
	}

	sz, err := b.Finish()
	if err != nil {
		return nil, fmt.Errorf("build NACK: %w", err)
	}

	return buf[:sz], nil
}

// BuildDone encodes a WSC_Done message (WSC v2.0.5 Section 8.3.11).
func BuildDone(d *Done) ([]byte, error) {
	buf := make([]byte, smallMsgBufSize)
	b := NewAttrBuilder(buf)

	b.AppendUint8(TagVersion, versionValue)
	b.AppendUint8(TagMessageType, uint8(MessageTypeWSCDone))
	b.Append(TagEnrolleeNonce, d.EnrolleeNonce[:])
	b.Append(TagRegistrarNonce, d.RegistrarNonce[:])
	if d.Version2 {
		b.appendVersion2()
	}

	sz, err := b.Finish()
	if err != nil {
		return nil, fmt.Errorf("build Done: %w", err)
	}

	return buf[:sz], nil
}

// -------------------------------------------------------------------------
// Encrypted Settings plaintext builders
// -------------------------------------------------------------------------

// buildSNonceSettings encodes a single secret nonce attribute followed by
// a zeroed KeyWrapAuthenticator slot. WriteKeyWrapAuthenticator fills the
// trailing 8 bytes before encryption.
func buildSNonceSettings(tag Tag, nonce [NonceSize]byte) []byte {
	buf := make([]byte, 2*attrHeaderSize+NonceSize+AuthenticatorSize)
	b := NewAttrBuilder(buf)

	b.Append(tag, nonce[:])
	b.Append(TagKeyWrapAuthenticator, make([]byte, AuthenticatorSize))

	n, _ := b.Finish() // fixed-size buffer, cannot overflow

	return buf[:n]
}

// BuildM4EncryptedSettings encodes the M4 settings plaintext.
func BuildM4EncryptedSettings(es *M4EncryptedSettings) []byte {
	return buildSNonceSettings(TagRSNonce1, es.RSNonce1)
}

// BuildM5EncryptedSettings encodes the M5 settings plaintext.
func BuildM5EncryptedSettings(es *M5EncryptedSettings) []byte {
	return buildSNonceSettings(TagESNonce1, es.ESNonce1)
}

// BuildM6EncryptedSettings encodes the M6 settings plaintext.
func BuildM6EncryptedSettings(es *M6EncryptedSettings) []byte {
	return buildSNonceSettings(TagRSNonce2, es.RSNonce2)
}

// BuildM7EncryptedSettings encodes the M7 settings plaintext.
func BuildM7EncryptedSettings(es *M7EncryptedSettings) []byte {
	return buildSNonceSettings(TagESNonce2, es.ESNonce2)
}

// BuildM8EncryptedSettings encodes the M8 settings plaintext carrying the
// given credentials and a zeroed KeyWrapAuthenticator slot.
func BuildM8EncryptedSettings(creds []Credential) ([]byte, error) {
	buf := make([]byte, smallMsgBufSize*(1+len(creds)))
	b := NewAttrBuilder(buf)

	for i := range creds {
		c := &creds[i]
		b.AppendSub(TagCredential, func(sub *AttrBuilder) {
			sub.AppendUint8(TagNetworkIndex, 1)
			sub.Append(TagSSID, c.SSID)
			sub.AppendUint16(TagAuthenticationType, c.AuthType)
			sub.AppendUint16(TagEncryptionType, c.EncryptionType)
			sub.Append(TagNetworkKey, c.NetworkKey)
			sub.Append(TagMACAddress, c.Addr[:])
		})
	}
	b.Append(TagKeyWrapAuthenticator, make([]byte, AuthenticatorSize))

	n, err := b.Finish()
	if err != nil {
		return nil, fmt.Errorf("build M8 encrypted settings: %w", err)
	}

	return buf[:n], nil
}
