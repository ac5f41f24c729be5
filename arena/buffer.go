package arena

import "unicode/utf8"

// minBufferSize is the first region size reserved by a growing Buffer.
const minBufferSize = 64

// Buffer is an append-only byte buffer whose storage is taken from an Arena.
//
// When the buffer outgrows its region it is extended in place if it holds
// the arena's most recent allocation, and otherwise moved to a larger region.
// Writes that cannot be satisfied fail with [ErrOutOfMemory]; nothing is
// ever silently truncated.
type Buffer struct {
	arena  *Arena
	region Region
	n      int
}

// NewBuffer returns an empty Buffer backed by a.
func NewBuffer(a *Arena) *Buffer {
	return &Buffer{arena: a}
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int { return b.n }

// Bytes returns a view of the written bytes.
// The view is only valid until the next write or arena reset.
func (b *Buffer) Bytes() []byte {
	if b.n == 0 {
		return nil
	}

	return b.arena.Bytes(b.region)[:b.n]
}

// String returns a copy of the written bytes.
func (b *Buffer) String() string { return string(b.Bytes()) }

// Reset discards the buffer contents but keeps its region for reuse.
// If the arena was reset since the region was allocated, the region is
// abandoned instead.
func (b *Buffer) Reset() {
	b.n = 0

	if !b.arena.Valid(b.region) {
		b.region = Region{}
	}
}

// Write appends p to the buffer. It implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.grow(len(p)); err != nil {
		return 0, err
	}

	copy(b.arena.Bytes(b.region)[b.n:], p)
	b.n += len(p)

	return len(p), nil
}

// WriteString appends s to the buffer. It implements io.StringWriter.
func (b *Buffer) WriteString(s string) (int, error) {
	if err := b.grow(len(s)); err != nil {
		return 0, err
	}

	copy(b.arena.Bytes(b.region)[b.n:], s)
	b.n += len(s)

	return len(s), nil
}

// WriteByte appends c to the buffer. It implements io.ByteWriter.
func (b *Buffer) WriteByte(c byte) error {
	if err := b.grow(1); err != nil {
		return err
	}

	b.arena.Bytes(b.region)[b.n] = c
	b.n++

	return nil
}

// WriteRune appends the UTF-8 encoding of r to the buffer.
func (b *Buffer) WriteRune(r rune) (int, error) {
	var enc [utf8.UTFMax]byte

	return b.Write(enc[:utf8.EncodeRune(enc[:], r)])
}

// grow makes room for n more bytes.
func (b *Buffer) grow(n int) error {
	if n == 0 {
		return nil
	}

	if b.region.Len > 0 && !b.arena.Valid(b.region) {
		b.region = Region{}
		b.n = 0
	}

	need := b.n + n
	if need <= b.region.Len {
		return nil
	}

	if b.region.Len > 0 {
		if r, ok := b.arena.extend(b.region, max(need, 2*b.region.Len)); ok {
			b.region = r

			return nil
		}

		if r, ok := b.arena.extend(b.region, need); ok {
			b.region = r

			return nil
		}
	}

	r, err := b.arena.Allocate(max(need, 2*b.region.Len, minBufferSize))
	if err != nil {
		if r, err = b.arena.Allocate(need); err != nil {
			return err
		}
	}

	if b.n > 0 {
		copy(b.arena.Bytes(r), b.arena.Bytes(b.region)[:b.n])
	}

	b.region = r

	return nil
}
