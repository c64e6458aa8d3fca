package wsc

import (
	"encoding/binary"
	"fmt"
)

// This file implements the receive half of the message codec: attribute
// streams to typed records. The codec performs structural validation only;
// cryptographic checks belong to the Enrollee session.

// -------------------------------------------------------------------------
// Scalar helpers
// -------------------------------------------------------------------------

// getBytes copies a fixed-width attribute value into dst.
func getBytes(dst []byte, v []byte, tag Tag) error {
	if len(v) != len(dst) {
		return fmt.Errorf("attribute 0x%04x has %d bytes, want %d: %w",
			uint16(tag), len(v), len(dst), ErrAttrLength)
	}
	copy(dst, v)
	return nil
}

// getUint8 decodes a 1-byte attribute value.
func getUint8(v []byte, tag Tag) (uint8, error) {
	if len(v) != 1 {
		return 0, fmt.Errorf("attribute 0x%04x has %d bytes, want 1: %w",
			uint16(tag), len(v), ErrAttrLength)
	}
	return v[0], nil
}

// getUint16 decodes a 2-byte big-endian attribute value.
func getUint16(v []byte, tag Tag) (uint16, error) {
	if len(v) != 2 {
		return 0, fmt.Errorf("attribute 0x%04x has %d bytes, want 2: %w",
			uint16(tag), len(v), ErrAttrLength)
	}
	return binary.BigEndian.Uint16(v), nil
}

// getUint32 decodes a 4-byte big-endian attribute value.
func getUint32(v []byte, tag Tag) (uint32, error) {
	if len(v) != 4 {
		return 0, fmt.Errorf("attribute 0x%04x has %d bytes, want 4: %w",
			uint16(tag), len(v), ErrAttrLength)
	}
	return binary.BigEndian.Uint32(v), nil
}

// parsePrimaryDeviceType decodes the 8-byte Primary Device Type value.
func parsePrimaryDeviceType(v []byte, pdt *PrimaryDeviceType) error {
	if len(v) != 8 {
		return fmt.Errorf("primary device type has %d bytes, want 8: %w",
			len(v), ErrAttrLength)
	}

	pdt.Category = binary.BigEndian.Uint16(v[0:2])
	copy(pdt.OUI[:], v[2:5])
	pdt.OUIType = v[5]
	pdt.Subcategory = binary.BigEndian.Uint16(v[6:8])

	return nil
}

// parseDeviceInfo folds one descriptive attribute into info. Returns
// false when the tag is not a DeviceInfo attribute.
func parseDeviceInfo(tag Tag, v []byte, info *DeviceInfo) (bool, error) {
	var err error

	switch tag {
	case TagAuthenticationTypeFlags:
		info.AuthTypeFlags, err = getUint16(v, tag)
	case TagEncryptionTypeFlags:
		info.EncryptionTypeFlags, err = getUint16(v, tag)
	case TagConnectionTypeFlags:
		info.ConnectionTypeFlags, err = getUint8(v, tag)
	case TagConfigurationMethods:
		info.ConfigMethods, err = getUint16(v, tag)
	case TagManufacturer:
		info.Manufacturer = string(v)
	case TagModelName:
		info.ModelName = string(v)
	case TagModelNumber:
		info.ModelNumber = string(v)
	case TagSerialNumber:
		info.SerialNumber = string(v)
	case TagPrimaryDeviceType:
		err = parsePrimaryDeviceType(v, &info.PrimaryDeviceType)
	case TagDeviceName:
		info.DeviceName = string(v)
	case TagRFBands:
		var b uint8
		b, err = getUint8(v, tag)
		info.RFBands = RFBand(b)
	case TagAssociationState:
		info.AssociationState, err = getUint16(v, tag)
	case TagDevicePasswordID:
		info.DevicePasswordID, err = getUint16(v, tag)
	case TagConfigurationError:
		var ce uint16
		ce, err = getUint16(v, tag)
		info.ConfigurationError = ConfigError(ce)
	case TagOSVersion:
		var osv uint32
		osv, err = getUint32(v, tag)
		// The wire value carries the mandatory MSB; only the low 31
		// bits are meaningful (WSC v2.0.5 Section 12).
		info.OSVersion = osv & 0x7fffffff
	default:
		return false, nil
	}

	return true, err
}

// -------------------------------------------------------------------------
// Message frame — shared required-attribute machinery
// -------------------------------------------------------------------------

// msgFrame accumulates cross-attribute state while walking one message.
type msgFrame struct {
	sawVersion bool
	sawType    bool
	sawAuth    bool
	version2   bool
}

// checkCommon folds the attributes every registration message carries.
// Returns true if the tag was consumed. A non-final Authenticator
// attribute is rejected: the authenticator chain hashes everything up to
// len-12, so the tag must terminate the stream.
func (f *msgFrame) checkCommon(tag Tag, v []byte, want MessageType) (bool, error) {
	if f.sawAuth {
		return false, fmt.Errorf("attribute 0x%04x after authenticator: %w",
			uint16(tag), ErrAttrOrder)
	}

	switch tag {
	case TagVersion:
		if _, err := getUint8(v, tag); err != nil {
			return false, err
		}
		f.sawVersion = true
		return true, nil

	case TagMessageType:
		mt, err := getUint8(v, tag)
		if err != nil {
			return false, err
		}
		if MessageType(mt) != want {
			return false, fmt.Errorf("message type %s, want %s: %w",
				MessageType(mt), want, ErrMessageType)
		}
		f.sawType = true
		return true, nil

	case TagVendorExtension:
		if ver, ok := parseVersion2(v); ok {
			f.version2 = ver >= version2Value
		}
		return true, nil

	case TagAuthenticator:
		f.sawAuth = true
		return false, nil // caller copies the tag value

	default:
		return false, nil
	}
}

// finish validates stream termination and the required common attributes.
func (f *msgFrame) finish(it *AttrIter, needAuth bool) error {
	if err := it.Err(); err != nil {
		return err
	}
	if !f.sawVersion || !f.sawType {
		return fmt.Errorf("version or message type: %w", ErrAttrMissing)
	}
	if needAuth && !f.sawAuth {
		return fmt.Errorf("authenticator: %w", ErrAttrMissing)
	}
	return nil
}

// -------------------------------------------------------------------------
// M1 / M2
// -------------------------------------------------------------------------

// ParseM1 decodes an M1 message into m.
func ParseM1(buf []byte, m *M1) error {
	*m = M1{}

	var f msgFrame
	var sawNonce, sawKey, sawAddr bool

	it := NewAttrIter(buf)
	for it.Next() {
		handled, err := f.checkCommon(it.Tag(), it.Value(), MessageTypeM1)
		if err != nil {
			return fmt.Errorf("parse M1: %w", err)
		}
		if handled {
			continue
		}

		switch it.Tag() {
		case TagUUIDE:
			err = getBytes(m.UUIDE[:], it.Value(), it.Tag())
		case TagMACAddress:
			err = getBytes(m.Addr[:], it.Value(), it.Tag())
			sawAddr = err == nil
		case TagEnrolleeNonce:
			err = getBytes(m.EnrolleeNonce[:], it.Value(), it.Tag())
			sawNonce = err == nil
		case TagPublicKey:
			err = getBytes(m.PublicKey[:], it.Value(), it.Tag())
			sawKey = err == nil
		case TagWSCState:
			var st uint8
			st, err = getUint8(it.Value(), it.Tag())
			m.State = DeviceState(st)
		default:
			_, err = parseDeviceInfo(it.Tag(), it.Value(), &m.DeviceInfo)
		}
		if err != nil {
			return fmt.Errorf("parse M1: %w", err)
		}
	}

	if err := f.finish(&it, false); err != nil {
		return fmt.Errorf("parse M1: %w", err)
	}
	if !sawNonce || !sawKey || !sawAddr {
		return fmt.Errorf("parse M1: nonce, address or public key: %w", ErrAttrMissing)
	}

	m.Version2 = f.version2

	return nil
}

// ParseM2 decodes an M2 message into m.
func ParseM2(buf []byte, m *M2) error {
	*m = M2{}

	var f msgFrame
	var sawENonce, sawRNonce, sawKey bool

	it := NewAttrIter(buf)
	for it.Next() {
		handled, err := f.checkCommon(it.Tag(), it.Value(), MessageTypeM2)
		if err != nil {
			return fmt.Errorf("parse M2: %w", err)
		}
		if handled {
			continue
		}

		switch it.Tag() {
		case TagEnrolleeNonce:
			err = getBytes(m.EnrolleeNonce[:], it.Value(), it.Tag())
			sawENonce = err == nil
		case TagRegistrarNonce:
			err = getBytes(m.RegistrarNonce[:], it.Value(), it.Tag())
			sawRNonce = err == nil
		case TagUUIDR:
			err = getBytes(m.UUIDR[:], it.Value(), it.Tag())
		case TagPublicKey:
			err = getBytes(m.PublicKey[:], it.Value(), it.Tag())
			sawKey = err == nil
		case TagAuthenticator:
			err = getBytes(m.Authenticator[:], it.Value(), it.Tag())
		default:
			_, err = parseDeviceInfo(it.Tag(), it.Value(), &m.DeviceInfo)
		}
		if err != nil {
			return fmt.Errorf("parse M2: %w", err)
		}
	}

	if err := f.finish(&it, true); err != nil {
		return fmt.Errorf("parse M2: %w", err)
	}
	if !sawENonce || !sawRNonce || !sawKey {
		return fmt.Errorf("parse M2: nonces or public key: %w", ErrAttrMissing)
	}

	m.Version2 = f.version2

	return nil
}

// -------------------------------------------------------------------------
// M3 — hash commitments
// -------------------------------------------------------------------------

// ParseM3 decodes an M3 message into m.
func ParseM3(buf []byte, m *M3) error {
	*m = M3{}

	var f msgFrame
	var sawNonce, sawH1, sawH2 bool

	it := NewAttrIter(buf)
	for it.Next() {
		handled, err := f.checkCommon(it.Tag(), it.Value(), MessageTypeM3)
		if err != nil {
			return fmt.Errorf("parse M3: %w", err)
		}
		if handled {
			continue
		}

		switch it.Tag() {
		case TagRegistrarNonce:
			err = getBytes(m.RegistrarNonce[:], it.Value(), it.Tag())
			sawNonce = err == nil
		case TagEHash1:
			err = getBytes(m.EHash1[:], it.Value(), it.Tag())
			sawH1 = err == nil
		case TagEHash2:
			err = getBytes(m.EHash2[:], it.Value(), it.Tag())
			sawH2 = err == nil
		case TagAuthenticator:
			err = getBytes(m.Authenticator[:], it.Value(), it.Tag())
		}
		if err != nil {
			return fmt.Errorf("parse M3: %w", err)
		}
	}

	if err := f.finish(&it, true); err != nil {
		return fmt.Errorf("parse M3: %w", err)
	}
	if !sawNonce || !sawH1 || !sawH2 {
		return fmt.Errorf("parse M3: nonce or hashes: %w", ErrAttrMissing)
	}

	m.Version2 = f.version2

	return nil
}

// -------------------------------------------------------------------------
// M4 / M6 / M8 — Registrar messages with Encrypted Settings
// -------------------------------------------------------------------------

// ParseM4 decodes an M4 message into m. The returned slice references the
// Encrypted Settings value (IV followed by ciphertext) inside buf.
func ParseM4(buf []byte, m *M4) ([]byte, error) {
	*m = M4{}

	var f msgFrame
	var sawNonce, sawH1, sawH2 bool
	var encrypted []byte

	it := NewAttrIter(buf)
	for it.Next() {
		handled, err := f.checkCommon(it.Tag(), it.Value(), MessageTypeM4)
		if err != nil {
			return nil, fmt.Errorf("parse M4: %w", err)
		}
		if handled {
			continue
		}

		switch it.Tag() {
		case TagEnrolleeNonce:
			err = getBytes(m.EnrolleeNonce[:], it.Value(), it.Tag())
			sawNonce = err == nil
		case TagRHash1:
			err = getBytes(m.RHash1[:], it.Value(), it.Tag())
			sawH1 = err == nil
		case TagRHash2:
			err = getBytes(m.RHash2[:], it.Value(), it.Tag())
			sawH2 = err == nil
		case TagEncryptedSettings:
			encrypted = it.Value()
		case TagAuthenticator:
			err = getBytes(m.Authenticator[:], it.Value(), it.Tag())
		}
		if err != nil {
			return nil, fmt.Errorf("parse M4: %w", err)
		}
	}

	if err := f.finish(&it, true); err != nil {
		return nil, fmt.Errorf("parse M4: %w", err)
	}
	if !sawNonce || !sawH1 || !sawH2 || encrypted == nil {
		return nil, fmt.Errorf("parse M4: nonce, hashes or settings: %w", ErrAttrMissing)
	}

	m.Version2 = f.version2

	return encrypted, nil
}

// parseRegistrarES is the shared shape of M6 and M8: enrollee nonce,
// Encrypted Settings, trailing authenticator.
func parseRegistrarES(
	buf []byte,
	want MessageType,
	nonce *[NonceSize]byte,
	auth *[AuthenticatorSize]byte,
) (encrypted []byte, version2 bool, err error) {
	var f msgFrame
	var sawNonce bool

	it := NewAttrIter(buf)
	for it.Next() {
		handled, cerr := f.checkCommon(it.Tag(), it.Value(), want)
		if cerr != nil {
			return nil, false, cerr
		}
		if handled {
			continue
		}

		switch it.Tag() {
		case TagEnrolleeNonce:
			cerr = getBytes(nonce[:], it.Value(), it.Tag())
			sawNonce = cerr == nil
		case TagEncryptedSettings:
			encrypted = it.Value()
		case TagAuthenticator:
			cerr = getBytes(auth[:], it.Value(), it.Tag())
		}
		if cerr != nil {
			return nil, false, cerr
		}
	}

	if err := f.finish(&it, true); err != nil {
		return nil, false, err
	}
	if !sawNonce || encrypted == nil {
		return nil, false, fmt.Errorf("nonce or settings: %w", ErrAttrMissing)
	}

	return encrypted, f.version2, nil
}

// ParseM6 decodes an M6 message into m. The returned slice references the
// Encrypted Settings value inside buf.
func ParseM6(buf []byte, m *M6) ([]byte, error) {
	*m = M6{}

	encrypted, v2, err := parseRegistrarES(buf, MessageTypeM6, &m.EnrolleeNonce, &m.Authenticator)
	if err != nil {
		return nil, fmt.Errorf("parse M6: %w", err)
	}
	m.Version2 = v2

	return encrypted, nil
}

// ParseM8 decodes an M8 message into m. The returned slice references the
// Encrypted Settings value inside buf.
func ParseM8(buf []byte, m *M8) ([]byte, error) {
	*m = M8{}

	encrypted, v2, err := parseRegistrarES(buf, MessageTypeM8, &m.EnrolleeNonce, &m.Authenticator)
	if err != nil {
		return nil, fmt.Errorf("parse M8: %w", err)
	}
	m.Version2 = v2

	return encrypted, nil
}

// -------------------------------------------------------------------------
// M5 / M7 — Enrollee messages with Encrypted Settings
// -------------------------------------------------------------------------

// parseEnrolleeES is the shared shape of M5 and M7: registrar nonce,
// Encrypted Settings, trailing authenticator.
func parseEnrolleeES(
	buf []byte,
	want MessageType,
	nonce *[NonceSize]byte,
	auth *[AuthenticatorSize]byte,
) (encrypted []byte, version2 bool, err error) {
	var f msgFrame
	var sawNonce bool

	it := NewAttrIter(buf)
	for it.Next() {
		handled, cerr := f.checkCommon(it.Tag(), it.Value(), want)
		if cerr != nil {
			return nil, false, cerr
		}
		if handled {
			continue
		}

		switch it.Tag() {
		case TagRegistrarNonce:
			cerr = getBytes(nonce[:], it.Value(), it.Tag())
			sawNonce = cerr == nil
		case TagEncryptedSettings:
			encrypted = it.Value()
		case TagAuthenticator:
			cerr = getBytes(auth[:], it.Value(), it.Tag())
		}
		if cerr != nil {
			return nil, false, cerr
		}
	}

	if err := f.finish(&it, true); err != nil {
		return nil, false, err
	}
	if !sawNonce || encrypted == nil {
		return nil, false, fmt.Errorf("nonce or settings: %w", ErrAttrMissing)
	}

	return encrypted, f.version2, nil
}

// ParseM5 decodes an M5 message into m. The returned slice references the
// Encrypted Settings value inside buf.
func ParseM5(buf []byte, m *M5) ([]byte, error) {
	*m = M5{}

	encrypted, v2, err := parseEnrolleeES(buf, MessageTypeM5, &m.RegistrarNonce, &m.Authenticator)
	if err != nil {
		return nil, fmt.Errorf("parse M5: %w", err)
	}
	m.Version2 = v2

	return encrypted, nil
}

// ParseM7 decodes an M7 message into m. The returned slice references the
// Encrypted Settings value inside buf.
func ParseM7(buf []byte, m *M7) ([]byte, error) {
	*m = M7{}

	encrypted, v2, err := parseEnrolleeES(buf, MessageTypeM7, &m.RegistrarNonce, &m.Authenticator)
	if err != nil {
		return nil, fmt.Errorf("parse M7: %w", err)
	}
	m.Version2 = v2

	return encrypted, nil
}

// -------------------------------------------------------------------------
// WSC_NACK / WSC_Done
// -------------------------------------------------------------------------

// ParseNACK decodes a WSC_NACK message into n.
func ParseNACK(buf []byte, n *NACK) error {
	*n = NACK{}

	var f msgFrame
	var sawENonce, sawRNonce, sawErr bool

	it := NewAttrIter(buf)
	for it.Next() {
		handled, err := f.checkCommon(it.Tag(), it.Value(), MessageTypeWSCNACK)
		if err != nil {
			return fmt.Errorf("parse NACK: %w", err)
		}
		if handled {
			continue
		}

		switch it.Tag() {
		case TagEnrolleeNonce:
			err = getBytes(n.EnrolleeNonce[:], it.Value(), it.Tag())
			sawENonce = err == nil
		case TagRegistrarNonce:
			err = getBytes(n.RegistrarNonce[:], it.Value(), it.Tag())
			sawRNonce = err == nil
		case TagConfigurationError:
			var ce uint16
			ce, err = getUint16(it.Value(), it.Tag())
			n.ConfigurationError = ConfigError(ce)
			sawErr = err == nil
		}
		if err != nil {
			return fmt.Errorf("parse NACK: %w", err)
		}
	}

	if err := f.finish(&it, false); err != nil {
		return fmt.Errorf("parse NACK: %w", err)
	}
	if !sawENonce || !sawRNonce || !sawErr {
		return fmt.Errorf("parse NACK: nonces or error code: %w", ErrAttrMissing)
	}

	n.Version2 = f.version2

	return nil
}

// ParseDone decodes a WSC_Done message into d.
func ParseDone(buf []byte, d *Done) error {
	*d = Done{}

	var f msgFrame
	var sawENonce, sawRNonce bool

	it := NewAttrIter(buf)
	for it.Next() {
		handled, err := f.checkCommon(it.Tag(), it.Value(), MessageTypeWSCDone)
		if err != nil {
			return fmt.Errorf("parse Done: %w", err)
		}
		if handled {
			continue
		}

		switch it.Tag() {
		case TagEnrolleeNonce:
			err = getBytes(d.EnrolleeNonce[:], it.Value(), it.Tag())
			sawENonce = err == nil
		case TagRegistrarNonce:
			err = getBytes(d.RegistrarNonce[:], it.Value(), it.Tag())
			sawRNonce = err == nil
		}
		if err != nil {
			return fmt.Errorf("parse Done: %w", err)
		}
	}

	if err := f.finish(&it, false); err != nil {
		return fmt.Errorf("parse Done: %w", err)
	}
	if !sawENonce || !sawRNonce {
		return fmt.Errorf("parse Done: nonces: %w", ErrAttrMissing)
	}

	d.Version2 = f.version2

	return nil
}

// -------------------------------------------------------------------------
// Encrypted Settings plaintext parsers
// -------------------------------------------------------------------------

// parseSNonceSettings decodes a plaintext carrying a single secret nonce
// attribute terminated by a KeyWrapAuthenticator.
func parseSNonceSettings(plain []byte, tag Tag, nonce *[NonceSize]byte) error {
	var sawNonce, sawKWA bool

	it := NewAttrIter(plain)
	for it.Next() {
		if sawKWA {
			return fmt.Errorf("attribute 0x%04x after key wrap authenticator: %w",
				uint16(it.Tag()), ErrAttrOrder)
		}

		switch it.Tag() {
		case tag:
			if err := getBytes(nonce[:], it.Value(), it.Tag()); err != nil {
				return err
			}
			sawNonce = true
		case TagKeyWrapAuthenticator:
			if len(it.Value()) != AuthenticatorSize {
				return fmt.Errorf("key wrap authenticator %d bytes: %w",
					len(it.Value()), ErrAttrLength)
			}
			sawKWA = true
		}
	}

	if err := it.Err(); err != nil {
		return err
	}
	if !sawNonce || !sawKWA {
		return fmt.Errorf("secret nonce or key wrap authenticator: %w", ErrAttrMissing)
	}

	return nil
}

// ParseM4EncryptedSettings decodes the decrypted M4 settings into es.
func ParseM4EncryptedSettings(plain []byte, es *M4EncryptedSettings) error {
	if err := parseSNonceSettings(plain, TagRSNonce1, &es.RSNonce1); err != nil {
		return fmt.Errorf("parse M4 encrypted settings: %w", err)
	}
	return nil
}

// ParseM5EncryptedSettings decodes the decrypted M5 settings into es.
func ParseM5EncryptedSettings(plain []byte, es *M5EncryptedSettings) error {
	if err := parseSNonceSettings(plain, TagESNonce1, &es.ESNonce1); err != nil {
		return fmt.Errorf("parse M5 encrypted settings: %w", err)
	}
	return nil
}

// ParseM6EncryptedSettings decodes the decrypted M6 settings into es.
func ParseM6EncryptedSettings(plain []byte, es *M6EncryptedSettings) error {
	if err := parseSNonceSettings(plain, TagRSNonce2, &es.RSNonce2); err != nil {
		return fmt.Errorf("parse M6 encrypted settings: %w", err)
	}
	return nil
}

// ParseM7EncryptedSettings decodes the decrypted M7 settings into es.
func ParseM7EncryptedSettings(plain []byte, es *M7EncryptedSettings) error {
	if err := parseSNonceSettings(plain, TagESNonce2, &es.ESNonce2); err != nil {
		return fmt.Errorf("parse M7 encrypted settings: %w", err)
	}
	return nil
}

// ParseM8EncryptedSettings decodes the decrypted M8 settings, filling
// creds with up to len(creds) credentials. Returns the number extracted.
func ParseM8EncryptedSettings(plain []byte, creds []Credential) (int, error) {
	var sawKWA bool
	n := 0

	it := NewAttrIter(plain)
	for it.Next() {
		if sawKWA {
			return 0, fmt.Errorf("parse M8 encrypted settings: attribute 0x%04x after key wrap authenticator: %w",
				uint16(it.Tag()), ErrAttrOrder)
		}

		switch it.Tag() {
		case TagCredential:
			if n == len(creds) {
				continue // surplus credentials beyond capacity are ignored
			}
			if err := parseCredential(it.Value(), &creds[n]); err != nil {
				return 0, fmt.Errorf("parse M8 encrypted settings: %w", err)
			}
			n++
		case TagKeyWrapAuthenticator:
			if len(it.Value()) != AuthenticatorSize {
				return 0, fmt.Errorf("parse M8 encrypted settings: key wrap authenticator %d bytes: %w",
					len(it.Value()), ErrAttrLength)
			}
			sawKWA = true
		}
	}

	if err := it.Err(); err != nil {
		return 0, fmt.Errorf("parse M8 encrypted settings: %w", err)
	}
	if n == 0 || !sawKWA {
		return 0, fmt.Errorf("parse M8 encrypted settings: credential or key wrap authenticator: %w",
			ErrAttrMissing)
	}

	return n, nil
}

// parseCredential decodes one nested Credential attribute stream.
// SSID and NetworkKey are copied out of the transient plaintext.
func parseCredential(buf []byte, c *Credential) error {
	*c = Credential{}

	var sawSSID, sawKey bool

	it := NewAttrIter(buf)
	for it.Next() {
		var err error

		switch it.Tag() {
		case TagSSID:
			c.SSID = append([]byte(nil), it.Value()...)
			sawSSID = true
		case TagAuthenticationType:
			c.AuthType, err = getUint16(it.Value(), it.Tag())
		case TagEncryptionType:
			c.EncryptionType, err = getUint16(it.Value(), it.Tag())
		case TagNetworkKey:
			c.NetworkKey = append([]byte(nil), it.Value()...)
			sawKey = true
		case TagMACAddress:
			err = getBytes(c.Addr[:], it.Value(), it.Tag())
		}
		if err != nil {
			return fmt.Errorf("credential: %w", err)
		}
	}

	if err := it.Err(); err != nil {
		return fmt.Errorf("credential: %w", err)
	}
	if !sawSSID || !sawKey {
		return fmt.Errorf("credential: SSID or network key: %w", ErrAttrMissing)
	}

	return nil
}
