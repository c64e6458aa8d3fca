// Package wsc implements the Wi-Fi Simple Configuration Enrollee protocol
// core (WSC v2.0.5).
//
// This includes the attribute codec, the registration message codec
// (M1..M8, WSC_NACK, WSC_Done), the session key schedule, and the
// message-sequenced Enrollee state machine embedded in expanded-type EAP.
package wsc

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// -------------------------------------------------------------------------
// Codec Errors
// -------------------------------------------------------------------------

// Sentinel errors for attribute stream validation failures.
var (
	// ErrAttrTruncated indicates an attribute header or value extends
	// past the end of the buffer.
	ErrAttrTruncated = errors.New("attribute truncated")

	// ErrAttrLength indicates an attribute value has an unexpected length.
	ErrAttrLength = errors.New("unexpected attribute length")

	// ErrAttrMissing indicates a required attribute is absent.
	ErrAttrMissing = errors.New("required attribute missing")

	// ErrAttrOrder indicates an attribute appeared in an invalid position
	// (e.g., the Authenticator is not the final attribute).
	ErrAttrOrder = errors.New("attribute out of order")

	// ErrMessageType indicates the Message Type attribute does not match
	// the expected registration protocol message.
	ErrMessageType = errors.New("unexpected message type")

	// ErrBufTooSmall indicates the caller-provided build buffer cannot
	// hold the attribute stream.
	ErrBufTooSmall = errors.New("buffer too small for attribute stream")
)

// -------------------------------------------------------------------------
// AttrIter — WSC attribute stream iterator
// -------------------------------------------------------------------------

// AttrIter iterates a WSC attribute stream: 2-byte big-endian tag,
// 2-byte big-endian length, value. Values reference the original buffer
// (zero-copy); callers must copy if the buffer is reused.
//
// Usage:
//
//	it := NewAttrIter(buf)
//	for it.Next() {
//		switch it.Tag() { ... }
//	}
//	if err := it.Err(); err != nil { ... }
type AttrIter struct {
	buf  []byte
	off  int
	tag  Tag
	data []byte
	err  error
}

// NewAttrIter creates an iterator over buf.
func NewAttrIter(buf []byte) AttrIter {
	return AttrIter{buf: buf}
}

// Next advances to the next attribute. It returns false at the end of the
// stream or on a malformed triple; check Err to distinguish.
func (it *AttrIter) Next() bool {
	if it.err != nil || it.off == len(it.buf) {
		return false
	}

	if len(it.buf)-it.off < attrHeaderSize {
		it.err = fmt.Errorf("attribute header at offset %d: %w", it.off, ErrAttrTruncated)
		return false
	}

	it.tag = Tag(binary.BigEndian.Uint16(it.buf[it.off:]))
	vlen := int(binary.BigEndian.Uint16(it.buf[it.off+2:]))
	it.off += attrHeaderSize

	// Reject any triple whose declared length exceeds remaining bytes.
	if vlen > len(it.buf)-it.off {
		it.err = fmt.Errorf("attribute 0x%04x declares %d bytes, %d remain: %w",
			uint16(it.tag), vlen, len(it.buf)-it.off, ErrAttrTruncated)
		return false
	}

	it.data = it.buf[it.off : it.off+vlen]
	it.off += vlen

	return true
}

// Tag returns the tag of the current attribute.
func (it *AttrIter) Tag() Tag { return it.tag }

// Value returns the value bytes of the current attribute (zero-copy).
func (it *AttrIter) Value() []byte { return it.data }

// Offset returns the byte offset of the first attribute not yet consumed.
func (it *AttrIter) Offset() int { return it.off }

// AtEnd reports whether the iterator consumed the entire stream cleanly.
func (it *AttrIter) AtEnd() bool { return it.err == nil && it.off == len(it.buf) }

// Err returns the malformation encountered, or nil for a clean stream.
func (it *AttrIter) Err() error { return it.err }

// -------------------------------------------------------------------------
// AttrBuilder — WSC attribute stream builder
// -------------------------------------------------------------------------

// AttrBuilder appends WSC attributes into a caller-owned buffer. Append
// errors are sticky; callers check once at Finish.
type AttrBuilder struct {
	buf []byte
	off int
	err error
}

// NewAttrBuilder creates a builder writing into buf.
func NewAttrBuilder(buf []byte) *AttrBuilder {
	return &AttrBuilder{buf: buf}
}

// Append writes one attribute with the given value.
func (b *AttrBuilder) Append(tag Tag, value []byte) {
	if b.err != nil {
		return
	}

	if len(b.buf)-b.off < attrHeaderSize+len(value) {
		b.err = fmt.Errorf("attribute 0x%04x needs %d bytes, %d remain: %w",
			uint16(tag), attrHeaderSize+len(value), len(b.buf)-b.off, ErrBufTooSmall)
		return
	}

	binary.BigEndian.PutUint16(b.buf[b.off:], uint16(tag))
	binary.BigEndian.PutUint16(b.buf[b.off+2:], uint16(len(value)))
	copy(b.buf[b.off+attrHeaderSize:], value)
	b.off += attrHeaderSize + len(value)
}

// AppendUint8 writes a 1-byte attribute.
func (b *AttrBuilder) AppendUint8(tag Tag, v uint8) {
	b.Append(tag, []byte{v})
}

// AppendUint16 writes a 2-byte big-endian attribute.
func (b *AttrBuilder) AppendUint16(tag Tag, v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.Append(tag, tmp[:])
}

// AppendUint32 writes a 4-byte big-endian attribute.
func (b *AttrBuilder) AppendUint32(tag Tag, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.Append(tag, tmp[:])
}

// AppendString writes a UTF-8 string attribute truncated to max bytes.
// Empty strings are emitted as a single space; zero-length string
// attributes are not tolerated by all registrars.
func (b *AttrBuilder) AppendString(tag Tag, s string, max int) {
	if s == "" {
		s = " "
	}
	if len(s) > max {
		s = s[:max]
	}
	b.Append(tag, []byte(s))
}

// AppendSub appends an attribute whose value is built by fn using a nested
// builder over the remaining space. Used for container attributes such as
// Vendor Extension and Credential.
func (b *AttrBuilder) AppendSub(tag Tag, fn func(sub *AttrBuilder)) {
	if b.err != nil {
		return
	}

	if len(b.buf)-b.off < attrHeaderSize {
		b.err = fmt.Errorf("attribute 0x%04x header: %w", uint16(tag), ErrBufTooSmall)
		return
	}

	sub := NewAttrBuilder(b.buf[b.off+attrHeaderSize:])
	fn(sub)

	n, err := sub.Finish()
	if err != nil {
		b.err = err
		return
	}

	binary.BigEndian.PutUint16(b.buf[b.off:], uint16(tag))
	binary.BigEndian.PutUint16(b.buf[b.off+2:], uint16(n))
	b.off += attrHeaderSize + n
}

// AppendWFAExtension writes a WFA Vendor Extension attribute carrying a
// single subelement. Subelements use 1-byte ID and 1-byte length.
func (b *AttrBuilder) AppendWFAExtension(subID byte, data []byte) {
	value := make([]byte, 0, len(WFAVendorOUI)+2+len(data))
	value = append(value, WFAVendorOUI[:]...)
	value = append(value, subID, byte(len(data)))
	value = append(value, data...)
	b.Append(TagVendorExtension, value)
}

// Len returns the number of bytes written so far.
func (b *AttrBuilder) Len() int { return b.off }

// Finish returns the total length of the built stream, or the first
// append error encountered.
func (b *AttrBuilder) Finish() (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	return b.off, nil
}

// appendVersion2 writes the WFA Version2 vendor extension present in every
// registration protocol message (WSC v2.0.5 Section 12).
func (b *AttrBuilder) appendVersion2() {
	b.AppendWFAExtension(wfaVersion2SubID, []byte{version2Value})
}

// parseVersion2 extracts the Version2 subelement from a Vendor Extension
// value. Returns (0, false) if the extension is not the WFA OUI or carries
// no Version2 subelement.
func parseVersion2(value []byte) (uint8, bool) {
	if len(value) < len(WFAVendorOUI) {
		return 0, false
	}
	if [3]byte(value[:3]) != WFAVendorOUI {
		return 0, false
	}

	sub := value[3:]
	for len(sub) >= 2 {
		id, slen := sub[0], int(sub[1])
		if slen > len(sub)-2 {
			return 0, false
		}
		if id == wfaVersion2SubID && slen == 1 {
			return sub[2], true
		}
		sub = sub[2+slen:]
	}

	return 0, false
}

// -------------------------------------------------------------------------
// IEIter — generic 802.11 information element iterator
// -------------------------------------------------------------------------

// IEIter iterates a generic IEEE 802.11 information element stream:
// 1-byte element ID, 1-byte length, data (IEEE 802.11 Section 9.4.2).
// Values reference the original buffer.
type IEIter struct {
	buf  []byte
	off  int
	id   uint8
	data []byte
	err  error
}

// NewIEIter creates an iterator over an information element stream.
func NewIEIter(buf []byte) IEIter {
	return IEIter{buf: buf}
}

// Next advances to the next element. It returns false at the end of the
// stream or on a malformed element; check Err to distinguish.
func (it *IEIter) Next() bool {
	if it.err != nil || it.off == len(it.buf) {
		return false
	}

	if len(it.buf)-it.off < 2 {
		it.err = fmt.Errorf("element header at offset %d: %w", it.off, ErrAttrTruncated)
		return false
	}

	it.id = it.buf[it.off]
	elen := int(it.buf[it.off+1])
	it.off += 2

	if elen > len(it.buf)-it.off {
		it.err = fmt.Errorf("element %d declares %d bytes, %d remain: %w",
			it.id, elen, len(it.buf)-it.off, ErrAttrTruncated)
		return false
	}

	it.data = it.buf[it.off : it.off+elen]
	it.off += elen

	return true
}

// ID returns the element ID of the current element.
func (it *IEIter) ID() uint8 { return it.id }

// Value returns the data bytes of the current element (zero-copy).
func (it *IEIter) Value() []byte { return it.data }

// Err returns the malformation encountered, or nil for a clean stream.
func (it *IEIter) Err() error { return it.err }
