package arena

import (
	"log/slog"

	"github.com/ardnew/stencil/pkg"
)

// DefaultCapacity is the capacity of arenas created with a non-positive size
// (1 MiB).
const DefaultCapacity = 1 << 20

// align is the alignment of every region's starting offset.
const align = 8

var (
	// ErrOutOfMemory is returned when an allocation exceeds the remaining
	// capacity of an arena.
	ErrOutOfMemory = pkg.NewError("arena out of memory")
	// ErrInvalidSize is returned when a negative allocation size is requested.
	ErrInvalidSize = pkg.NewError("invalid allocation size")
)

// Region is a handle to a contiguous block of arena memory.
// A Region is only valid until the next [Arena.Reset] of the arena that
// produced it.
type Region struct {
	Offset int
	Len    int
	gen    uint64
}

// Arena is a fixed-capacity bump allocator.
type Arena struct {
	buf        []byte
	capacity   int
	offset     int
	peak       int
	allocs     int
	generation uint64
	released   bool
}

// New creates an Arena that can hand out up to capacity bytes.
// If capacity <= 0, [DefaultCapacity] is used. The backing buffer is
// allocated on first use.
func New(capacity int) *Arena {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Arena{capacity: capacity}
}

// Allocate reserves n bytes and returns a handle to them.
//
// The region starts at the next 8-byte aligned offset. Allocate(0) is legal
// and returns an empty region at the current cursor. Previously returned
// regions are never moved or invalidated by Allocate.
func (a *Arena) Allocate(n int) (Region, error) {
	r, err := a.reserve(n)
	if err != nil {
		return Region{}, err
	}

	if n > 0 && a.buf == nil {
		a.buf = make([]byte, a.capacity)
	}

	return r, nil
}

// Charge reserves n bytes of budget without materializing memory for them.
// Parsers use it to bound the size of the trees they build.
func (a *Arena) Charge(n int) error {
	_, err := a.reserve(n)

	return err
}

func (a *Arena) reserve(n int) (Region, error) {
	a.panicIfReleased()

	if n < 0 {
		return Region{}, ErrInvalidSize.With(slog.Int("requested", n))
	}

	if n == 0 {
		return Region{Offset: a.offset, gen: a.generation}, nil
	}

	off := alignUp(a.offset)
	if off > a.capacity || n > a.capacity-off {
		return Region{}, ErrOutOfMemory.With(
			slog.Int("requested", n),
			slog.Int("available", a.Available()),
			slog.Int("capacity", a.capacity),
		)
	}

	a.offset = off + n
	a.peak = max(a.peak, a.offset)
	a.allocs++

	return Region{Offset: off, Len: n, gen: a.generation}, nil
}

// extend grows r in place to n bytes if r is the most recent allocation and
// the arena has room for it.
func (a *Arena) extend(r Region, n int) (Region, bool) {
	if r.gen != a.generation || r.Offset+r.Len != a.offset ||
		n > a.capacity-r.Offset {
		return r, false
	}

	if a.buf == nil {
		a.buf = make([]byte, a.capacity)
	}

	a.offset = r.Offset + n
	a.peak = max(a.peak, a.offset)
	r.Len = n

	return r, true
}

// Bytes returns the memory referred to by r.
//
// Bytes panics if r was allocated before the most recent [Arena.Reset] or if
// the arena has been released. The returned slice has no spare capacity, so
// appending to it never overwrites neighboring regions.
func (a *Arena) Bytes(r Region) []byte {
	a.panicIfReleased()

	if r.gen != a.generation {
		panic("arena: region used after Reset()")
	}

	if r.Len == 0 {
		return nil
	}

	end := r.Offset + r.Len

	return a.buf[r.Offset:end:end]
}

// Valid reports whether r may still be read from a.
func (a *Arena) Valid(r Region) bool {
	return !a.released && r.gen == a.generation
}

// Reset rewinds the arena so that its full capacity is available again.
// All regions obtained before the reset become stale.
func (a *Arena) Reset() {
	a.panicIfReleased()

	a.offset = 0
	a.allocs = 0
	a.generation++
}

// Release drops the backing memory. Any further use of the arena panics.
func (a *Arena) Release() {
	a.buf = nil
	a.offset = 0
	a.released = true
}

func (a *Arena) panicIfReleased() {
	if a.released {
		panic("arena: use after Release()")
	}
}

func alignUp(off int) int {
	return (off + align - 1) &^ (align - 1)
}
