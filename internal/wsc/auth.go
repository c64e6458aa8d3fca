package wsc

import "crypto/subtle"

// -------------------------------------------------------------------------
// Authenticator chain — WSC v2.0.5 Section 7.4
// -------------------------------------------------------------------------

// Every registration message from M2 onward ends with a 12-byte
// Authenticator attribute whose 8-byte value is a truncated HMAC-SHA-256
// over the concatenation of the previously transmitted message and the
// current message up to, but not including, its own Authenticator
// attribute.

// ComputeAuthenticator returns the 8-byte authenticator over
// prev || cur[:len(cur)-12].
func ComputeAuthenticator(authKey, prev, cur []byte) [AuthenticatorSize]byte {
	var out [AuthenticatorSize]byte
	copy(out[:], hmacSHA256(authKey, AuthenticatorSize,
		prev, cur[:len(cur)-authenticatorAttrSize]))
	return out
}

// CheckAuthenticator verifies the trailing authenticator of cur against
// the chained HMAC. cur must be at least one full Authenticator attribute
// long; the comparison is constant-time.
func CheckAuthenticator(authKey, prev, cur []byte) bool {
	if len(cur) < authenticatorAttrSize {
		return false
	}

	want := ComputeAuthenticator(authKey, prev, cur)

	return subtle.ConstantTimeCompare(want[:], cur[len(cur)-AuthenticatorSize:]) == 1
}

// WriteAuthenticator computes the chained authenticator and writes it
// into the trailing slot of cur. The message must have been built with
// an Authenticator attribute as its final attribute.
func WriteAuthenticator(authKey, prev, cur []byte) {
	tag := ComputeAuthenticator(authKey, prev, cur)
	copy(cur[len(cur)-AuthenticatorSize:], tag[:])
}

// -------------------------------------------------------------------------
// KeyWrapAuthenticator — WSC v2.0.5 Section 7.5
// -------------------------------------------------------------------------

// The Encrypted Settings plaintext ends with a 12-byte
// KeyWrapAuthenticator attribute whose 8-byte value is a truncated
// HMAC-SHA-256 over the plaintext excluding the attribute itself.

// CheckKeyWrapAuthenticator verifies the trailing KeyWrapAuthenticator
// of a decrypted settings plaintext.
func CheckKeyWrapAuthenticator(authKey, plain []byte) bool {
	if len(plain) < authenticatorAttrSize {
		return false
	}

	want := hmacSHA256(authKey, AuthenticatorSize,
		plain[:len(plain)-authenticatorAttrSize])

	return subtle.ConstantTimeCompare(want, plain[len(plain)-AuthenticatorSize:]) == 1
}

// WriteKeyWrapAuthenticator computes the key wrap authenticator and
// writes it into the trailing slot of plain before encryption.
func WriteKeyWrapAuthenticator(authKey, plain []byte) {
	tag := hmacSHA256(authKey, AuthenticatorSize,
		plain[:len(plain)-authenticatorAttrSize])
	copy(plain[len(plain)-AuthenticatorSize:], tag)
}

// ComputeRHash returns HMAC-SHA-256(AuthKey, snonce || psk || pke || pkr),
// the commitment form of the E-Hash/R-Hash attributes
// (WSC v2.0.5 Section 7.4).
func ComputeRHash(authKey []byte, snonce, psk, pke, pkr []byte) [HashSize]byte {
	var out [HashSize]byte
	copy(out[:], hmacSHA256(authKey, HashSize, snonce, psk, pke, pkr))
	return out
}
