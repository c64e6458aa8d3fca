package wsc

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
)

// -------------------------------------------------------------------------
// Session Key Schedule — WSC v2.0.5 Section 7.3
// -------------------------------------------------------------------------

const (
	// AuthKeySize is the HMAC-SHA-256 key authenticating every message
	// after M2.
	AuthKeySize = 32

	// KeyWrapKeySize is the AES-CBC-128 key protecting Encrypted Settings.
	KeyWrapKeySize = 16

	// EMSKSize is the Extended Master Session Key exported to the outer
	// EAP layer.
	EMSKSize = 32

	// sessionKeySize is the total KDF output consumed by the session key
	// structure: AuthKey || KeyWrapKey || EMSK.
	sessionKeySize = AuthKeySize + KeyWrapKeySize + EMSKSize
)

// kdfPersonalization is the personalization string of the WSC key
// derivation function (WSC v2.0.5 Section 7.3).
const kdfPersonalization = "Wi-Fi Easy and Secure Key Derivation"

// SessionKeys holds the symmetric keys derived from the DH shared secret.
// The structure layout matches the KDF output slicing order.
type SessionKeys struct {
	// AuthKey keys all HMAC-SHA-256 authenticators in M2..M8.
	AuthKey [AuthKeySize]byte

	// KeyWrapKey keys AES-CBC-128 for the Encrypted Settings attribute.
	KeyWrapKey [KeyWrapKeySize]byte

	// EMSK is surfaced to the outer EAP layer on method completion.
	EMSK [EMSKSize]byte
}

// Zero scrubs all key material in place.
func (k *SessionKeys) Zero() {
	ZeroBytes(k.AuthKey[:])
	ZeroBytes(k.KeyWrapKey[:])
	ZeroBytes(k.EMSK[:])
}

// DeriveSessionKeys runs the WSC key derivation pipeline
// (WSC v2.0.5 Section 7.3):
//
//	DHKey = SHA-256(shared secret)
//	KDK   = HMAC-SHA-256(DHKey, N1 || EnrolleeAddr || N2)
//	AuthKey || KeyWrapKey || EMSK = KDF(KDK)
//
// The shared secret is zeroed before return, as are the intermediate
// DHKey and KDK values.
func DeriveSessionKeys(
	sharedSecret []byte,
	enrolleeNonce [NonceSize]byte,
	enrolleeAddr [AddrSize]byte,
	registrarNonce [NonceSize]byte,
) *SessionKeys {
	dhkey := sha256.Sum256(sharedSecret)
	ZeroBytes(sharedSecret)

	mac := hmac.New(sha256.New, dhkey[:])
	mac.Write(enrolleeNonce[:])
	mac.Write(enrolleeAddr[:])
	mac.Write(registrarNonce[:])
	kdk := mac.Sum(nil)
	ZeroBytes(dhkey[:])

	var out [sessionKeySize]byte
	wscKDF(kdk, out[:])
	ZeroBytes(kdk)

	keys := &SessionKeys{}
	copy(keys.AuthKey[:], out[:AuthKeySize])
	copy(keys.KeyWrapKey[:], out[AuthKeySize:AuthKeySize+KeyWrapKeySize])
	copy(keys.EMSK[:], out[AuthKeySize+KeyWrapKeySize:])
	ZeroBytes(out[:])

	return keys
}

// wscKDF is the counter-mode HMAC-SHA-256 key derivation function of
// WSC v2.0.5 Section 7.3:
//
//	K(i) = HMAC-SHA-256(key, i || personalization || total_bits)
//
// with i and total_bits as 4-byte big-endian values and i counting from 1.
// Output blocks are concatenated and truncated to len(out).
func wscKDF(key []byte, out []byte) {
	var counter, totalBits [4]byte
	binary.BigEndian.PutUint32(totalBits[:], uint32(len(out))*8)

	for off, i := 0, uint32(1); off < len(out); i++ {
		binary.BigEndian.PutUint32(counter[:], i)

		mac := hmac.New(sha256.New, key)
		mac.Write(counter[:])
		mac.Write([]byte(kdfPersonalization))
		mac.Write(totalBits[:])

		off += copy(out[off:], mac.Sum(nil))
	}
}

// SplitPassword derives PSK1 and PSK2 from the device password
// (WSC v2.0.5 Section 7.4). For an odd-length password of length N the
// first half has length N/2+1 and the second half N/2. Each PSK is the
// first 16 bytes of HMAC-SHA-256(AuthKey, half).
func SplitPassword(authKey, password []byte) (psk1, psk2 [16]byte) {
	half1 := len(password) / 2
	if len(password)%2 == 1 {
		half1++
	}

	copy(psk1[:], hmacSHA256(authKey, 16, password[:half1]))
	copy(psk2[:], hmacSHA256(authKey, 16, password[half1:]))

	return psk1, psk2
}
