// Package arena implements a fixed-capacity bump allocator.
//
// An [Arena] hands out [Region] handles carved sequentially from a single
// backing buffer. Individual regions are never freed; instead the whole arena
// is rewound with [Arena.Reset], which makes every outstanding region stale.
// Reading a stale region through [Arena.Bytes] panics, so content written
// before a reset can never be observed through an old handle.
//
// Typical usage is one arena per render session:
//
//	a := arena.New(64 << 10)
//	buf := arena.NewBuffer(a)
//	_, err := buf.WriteString("hello")
//	out := buf.String() // copied out, survives Reset
//	a.Reset()
//
// Allocation fails with [ErrOutOfMemory] once the capacity is exhausted.
// Arenas are not safe for concurrent use.
package arena
