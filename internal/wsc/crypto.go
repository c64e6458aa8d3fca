package wsc

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1" //nolint:gosec // G505: UUID v5 generation requires SHA-1 (RFC 4122 Section 4.3)
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"
)

// -------------------------------------------------------------------------
// Crypto Errors
// -------------------------------------------------------------------------

// Sentinel errors for cryptographic operations.
var (
	// ErrInvalidPublicKey indicates a DH public key is out of range.
	ErrInvalidPublicKey = errors.New("invalid DH public key")

	// ErrInvalidKeySize indicates key material of unexpected length.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrCiphertextSize indicates the encrypted settings payload is not
	// a whole number of AES blocks or is too short to carry an IV.
	ErrCiphertextSize = errors.New("invalid ciphertext size")

	// ErrInvalidPadding indicates the trailing padding of the decrypted
	// settings is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
)

// -------------------------------------------------------------------------
// DH Group 5 — RFC 3526 Section 2 (1536-bit MODP)
// -------------------------------------------------------------------------

// dh5PrimeHex is the 1536-bit MODP prime (RFC 3526 Section 2).
const dh5PrimeHex = "FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD1" +
	"29024E088A67CC74020BBEA63B139B22514A08798E3404DD" +
	"EF9519B3CD3A431B302B0A6DF25F14374FE1356D6D51C245" +
	"E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
	"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3D" +
	"C2007CB8A163BF0598DA48361C55D39A69163FA8FD24CF5F" +
	"83655D23DCA3AD961C62F356208552BB9ED529077096966D" +
	"670C354E4ABC9804F1746C08CA237327FFFFFFFFFFFFFFFF"

// Read-only group parameters, initialized once at startup.
var (
	dh5Prime     = mustParseHexInt(dh5PrimeHex)
	dh5Generator = big.NewInt(2)
)

// mustParseHexInt parses a hex constant into a big.Int. Panics on
// malformed input; only used for the package-level group constants.
func mustParseHexInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("wsc: malformed group constant")
	}
	return n
}

// DHPublic computes g^x mod p for the group-5 generator and writes the
// result into out as a fixed-width 192-byte big-endian value.
func DHPublic(private []byte, out []byte) error {
	if len(private) != PublicKeySize {
		return fmt.Errorf("private key %d bytes, need %d: %w",
			len(private), PublicKeySize, ErrInvalidKeySize)
	}
	if len(out) != PublicKeySize {
		return fmt.Errorf("output %d bytes, need %d: %w",
			len(out), PublicKeySize, ErrInvalidKeySize)
	}

	x := new(big.Int).SetBytes(private)
	y := new(big.Int).Exp(dh5Generator, x, dh5Prime)
	y.FillBytes(out)
	x.SetInt64(0)
	y.SetInt64(0)

	return nil
}

// DHSharedSecret computes peer^x mod p and writes the shared secret into
// out as a fixed-width 192-byte big-endian value. Public keys equal to
// 0, 1 or >= p are rejected as degenerate.
func DHSharedSecret(peerPublic, private, out []byte) error {
	if len(peerPublic) != PublicKeySize || len(private) != PublicKeySize {
		return fmt.Errorf("key material: %w", ErrInvalidKeySize)
	}
	if len(out) != PublicKeySize {
		return fmt.Errorf("output %d bytes, need %d: %w",
			len(out), PublicKeySize, ErrInvalidKeySize)
	}

	y := new(big.Int).SetBytes(peerPublic)
	if y.Cmp(big.NewInt(1)) <= 0 || y.Cmp(dh5Prime) >= 0 {
		return fmt.Errorf("peer public key out of range: %w", ErrInvalidPublicKey)
	}

	x := new(big.Int).SetBytes(private)
	s := new(big.Int).Exp(y, x, dh5Prime)
	s.FillBytes(out)
	x.SetInt64(0)
	s.SetInt64(0)

	return nil
}

// -------------------------------------------------------------------------
// Random
// -------------------------------------------------------------------------

// FillRandom fills b with cryptographically secure random bytes.
func FillRandom(b []byte) error {
	if _, err := rand.Read(b); err != nil {
		return fmt.Errorf("fill random: %w", err)
	}
	return nil
}

// -------------------------------------------------------------------------
// UUID-E derivation — RFC 4122 Section 4.3 (version 5)
// -------------------------------------------------------------------------

// uuidNamespace is the RFC 4122 Appendix C URL namespace, reused as the
// name space ID for deriving UUID-E from the enrollee address.
var uuidNamespace = [UUIDSize]byte{
	0x6b, 0xa7, 0xb8, 0x11, 0x9d, 0xad, 0x11, 0xd1,
	0x80, 0xb4, 0x00, 0xc0, 0x4f, 0xd4, 0x30, 0xc8,
}

// UUIDFromAddr derives a version 5 UUID from a 6-byte MAC address.
func UUIDFromAddr(addr [AddrSize]byte) [UUIDSize]byte {
	h := sha1.New() //nolint:gosec // G401: RFC 4122 Section 4.3 name-based UUID
	h.Write(uuidNamespace[:])
	h.Write(addr[:])
	sum := h.Sum(nil)

	var uuid [UUIDSize]byte
	copy(uuid[:], sum)

	// RFC 4122 Section 4.3: set version 5 and the RFC 4122 variant.
	uuid[6] = (uuid[6] & 0x0f) | 0x50
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return uuid
}

// -------------------------------------------------------------------------
// Encrypted Settings envelope — WSC v2.0.5 Section 12
// -------------------------------------------------------------------------

// DecryptSettings decrypts an Encrypted Settings value (16-byte IV
// followed by AES-CBC-128 ciphertext) and strips the trailing padding.
// Every trailing byte must equal the pad length p with 1 <= p <= len.
//
// The returned plaintext is freshly allocated; callers owning secrets
// should zero it when done.
func DecryptSettings(block cipher.Block, data []byte) ([]byte, error) {
	if len(data) < IVSize {
		return nil, fmt.Errorf("settings %d bytes, no room for IV: %w",
			len(data), ErrCiphertextSize)
	}

	ct := data[IVSize:]
	if len(ct) < aes.BlockSize || len(ct)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext %d bytes: %w", len(ct), ErrCiphertextSize)
	}

	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, data[:IVSize]).CryptBlocks(plain, ct)

	pad := int(plain[len(plain)-1])
	if pad < 1 || pad > len(plain) {
		ZeroBytes(plain)
		return nil, fmt.Errorf("pad value %d: %w", pad, ErrInvalidPadding)
	}
	for _, v := range plain[len(plain)-pad:] {
		if int(v) != pad {
			ZeroBytes(plain)
			return nil, fmt.Errorf("pad byte 0x%02x, want 0x%02x: %w", v, pad, ErrInvalidPadding)
		}
	}

	return plain[:len(plain)-pad], nil
}

// EncryptSettings pads plain to a whole number of AES blocks (pad length
// 16 - len mod 16, each pad byte equal to the pad length) and returns
// iv || AES-CBC-128(plain || pad).
func EncryptSettings(block cipher.Block, iv [IVSize]byte, plain []byte) []byte {
	pad := aes.BlockSize - len(plain)%aes.BlockSize

	out := make([]byte, IVSize+len(plain)+pad)
	copy(out, iv[:])
	copy(out[IVSize:], plain)
	for i := IVSize + len(plain); i < len(out); i++ {
		out[i] = byte(pad)
	}

	cipher.NewCBCEncrypter(block, iv[:]).CryptBlocks(out[IVSize:], out[IVSize:])

	return out
}

// -------------------------------------------------------------------------
// Digest helpers
// -------------------------------------------------------------------------

// hmacSHA256 computes HMAC-SHA-256 over the concatenation of the given
// chunks and returns the digest truncated to n bytes.
func hmacSHA256(key []byte, n int, chunks ...[]byte) []byte {
	mac := hmac.New(sha256.New, key)
	for _, c := range chunks {
		mac.Write(c)
	}
	return mac.Sum(nil)[:n]
}

// ZeroBytes overwrites b with zeroes. Used to scrub key material before
// release (WSC v2.0.5 Section 7.4 secrecy requirements).
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
