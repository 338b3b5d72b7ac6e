// Package wire provides the bounds-checked byte buffer DNS messages are
// decoded from and encoded into, including domain name (de)compression
// per RFC 1035 Section 4.1.4.
package wire

import (
	"fmt"
	"strings"
)

// PacketSize is the maximum size of a DNS message over plain UDP
// (RFC 1035 Section 2.3.4).
const PacketSize = 512

// maxJumps bounds how many compression pointers a single name decode may
// follow. Hostile messages can form pointer cycles; without a limit a
// decode would never terminate.
const maxJumps = 5

// Buffer is a fixed 512-octet message buffer with a single read/write
// position. One Buffer holds exactly one DNS message: it is filled by one
// receive (or one encode) and then discarded, never reused.
//
// All accesses go through bounds-checked methods; any offset touching or
// exceeding PacketSize fails with ErrOutOfBounds before memory is read
// or written.
type Buffer struct {
	data [PacketSize]byte
	pos  int
}

// NewBuffer returns an empty Buffer positioned at offset zero.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// From copies up to PacketSize octets of msg into a fresh Buffer
// positioned at offset zero. Longer input is truncated: a well-formed
// UDP DNS message never exceeds PacketSize.
func From(msg []byte) *Buffer {
	b := &Buffer{}
	copy(b.data[:], msg)
	return b
}

// Pos returns the current position within the buffer.
func (b *Buffer) Pos() int {
	return b.pos
}

// Bytes returns the written portion of the buffer, from offset zero up
// to the current position.
func (b *Buffer) Bytes() []byte {
	return b.data[:b.pos]
}

// Seek moves the position to an absolute offset.
func (b *Buffer) Seek(pos int) error {
	if pos < 0 || pos > PacketSize {
		return fmt.Errorf("%w: seek to %d", ErrOutOfBounds, pos)
	}
	b.pos = pos
	return nil
}

// Step moves the position forward by n octets.
func (b *Buffer) Step(n int) error {
	return b.Seek(b.pos + n)
}

// Get returns the octet at an absolute offset without moving the position.
func (b *Buffer) Get(pos int) (byte, error) {
	if pos < 0 || pos >= PacketSize {
		return 0, fmt.Errorf("%w: get at %d", ErrOutOfBounds, pos)
	}
	return b.data[pos], nil
}

// GetRange returns n octets starting at an absolute offset without
// moving the position. The returned slice aliases the buffer and is only
// valid for the lifetime of this message.
func (b *Buffer) GetRange(start, n int) ([]byte, error) {
	if start < 0 || n < 0 || start+n > PacketSize {
		return nil, fmt.Errorf("%w: range [%d,%d)", ErrOutOfBounds, start, start+n)
	}
	return b.data[start : start+n], nil
}

// ReadU8 reads one octet and advances the position.
func (b *Buffer) ReadU8() (uint8, error) {
	if b.pos >= PacketSize {
		return 0, fmt.Errorf("%w: read at %d", ErrOutOfBounds, b.pos)
	}
	v := b.data[b.pos]
	b.pos++
	return v, nil
}

// ReadU16 reads two octets big-endian and advances the position.
func (b *Buffer) ReadU16() (uint16, error) {
	hi, err := b.ReadU8()
	if err != nil {
		return 0, err
	}
	lo, err := b.ReadU8()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// ReadU32 reads four octets big-endian and advances the position.
func (b *Buffer) ReadU32() (uint32, error) {
	hi, err := b.ReadU16()
	if err != nil {
		return 0, err
	}
	lo, err := b.ReadU16()
	if err != nil {
		return 0, err
	}
	return uint32(hi)<<16 | uint32(lo), nil
}

// WriteU8 writes one octet and advances the position.
func (b *Buffer) WriteU8(v uint8) error {
	if b.pos >= PacketSize {
		return fmt.Errorf("%w: write at %d", ErrOutOfBounds, b.pos)
	}
	b.data[b.pos] = v
	b.pos++
	return nil
}

// WriteU16 writes two octets big-endian and advances the position.
func (b *Buffer) WriteU16(v uint16) error {
	if err := b.WriteU8(uint8(v >> 8)); err != nil {
		return err
	}
	return b.WriteU8(uint8(v))
}

// WriteU32 writes four octets big-endian and advances the position.
func (b *Buffer) WriteU32(v uint32) error {
	if err := b.WriteU16(uint16(v >> 16)); err != nil {
		return err
	}
	return b.WriteU16(uint16(v))
}

// SetU16 patches two octets big-endian at an absolute offset without
// moving the position. Used to backfill a record's RDLENGTH once a
// variable-length payload has been written and its size is known.
func (b *Buffer) SetU16(pos int, v uint16) error {
	if pos < 0 || pos+2 > PacketSize {
		return fmt.Errorf("%w: set u16 at %d", ErrOutOfBounds, pos)
	}
	b.data[pos] = uint8(v >> 8)
	b.data[pos+1] = uint8(v)
	return nil
}

// ReadDomainName decodes a possibly-compressed domain name starting at
// the current position (RFC 1035 Section 4.1.4).
//
// A name is a sequence of (length, bytes) labels terminated by a zero
// length octet. A length octet with the top two bits set (11xxxxxx) is
// instead a 2-octet pointer holding a 14-bit absolute offset to an
// earlier occurrence of the remaining suffix:
//
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//	| 1  1|                OFFSET                   |
//	+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+--+
//
// Decoding keeps a local read position separate from the shared buffer
// position. On the first pointer the shared position is moved exactly
// two octets past it and never touched again for this name; pointers are
// followed locally, with at most maxJumps jumps before the decode fails
// with ErrJumpLimit. If no pointer was followed, the shared position
// ends just past the terminating zero octet.
//
// The result is ASCII-lowercased, dot-separated, with no trailing dot.
func (b *Buffer) ReadDomainName() (string, error) {
	local := b.pos
	jumped := false
	jumps := 0

	var name strings.Builder

	for {
		if jumps > maxJumps {
			return "", fmt.Errorf("%w: more than %d jumps", ErrJumpLimit, maxJumps)
		}

		length, err := b.Get(local)
		if err != nil {
			return "", err
		}

		if length&0xC0 == 0xC0 {
			// Pointer. Park the shared position past it once, then
			// redirect the local position to the 14-bit offset.
			if !jumped {
				if err := b.Seek(local + 2); err != nil {
					return "", err
				}
			}
			second, err := b.Get(local + 1)
			if err != nil {
				return "", err
			}
			local = int(uint16(length&0x3F)<<8 | uint16(second))
			jumped = true
			jumps++
			continue
		}

		local++
		if length == 0 {
			break
		}

		if name.Len() > 0 {
			name.WriteByte('.')
		}
		label, err := b.GetRange(local, int(length))
		if err != nil {
			return "", err
		}
		for _, c := range label {
			name.WriteByte(lowerASCII(c))
		}
		local += int(length)
	}

	if !jumped {
		if err := b.Seek(local); err != nil {
			return "", err
		}
	}
	return name.String(), nil
}

// WriteDomainName encodes a domain name as uncompressed labels
// terminated by a zero octet. Compression pointers are never emitted.
//
// Limits per RFC 1035 Section 2.3.4: labels of 63 octets or fewer,
// names of 255 octets or fewer.
func (b *Buffer) WriteDomainName(name string) error {
	if len(name) > 255 {
		return fmt.Errorf("%w: %d octets", ErrNameTooLong, len(name))
	}
	if name == "" {
		// Root name: just the terminator.
		return b.WriteU8(0)
	}
	for i, label := range strings.Split(name, ".") {
		if len(label) > 63 {
			return fmt.Errorf("%w: label %d is %d octets", ErrLabelTooLong, i, len(label))
		}
		if err := b.WriteU8(uint8(len(label))); err != nil {
			return err
		}
		for j := 0; j < len(label); j++ {
			if err := b.WriteU8(label[j]); err != nil {
				return err
			}
		}
	}
	return b.WriteU8(0)
}

// lowerASCII lowercases a single octet. Domain names are compared
// case-insensitively per RFC 4343; normalizing at decode time keeps
// every downstream comparison a plain string equality.
func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
