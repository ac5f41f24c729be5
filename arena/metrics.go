package arena

// SizeInUse returns the number of bytes allocated since the last reset,
// including alignment padding.
func (a *Arena) SizeInUse() int {
	if a.released {
		return 0
	}

	return a.offset
}

// Capacity returns the fixed capacity of the arena in bytes.
func (a *Arena) Capacity() int {
	if a.released {
		return 0
	}

	return a.capacity
}

// Available returns the number of bytes that can still be allocated.
func (a *Arena) Available() int {
	return max(0, a.Capacity()-a.SizeInUse())
}

// Utilization returns the ratio of bytes in use to capacity (0.0 to 1.0).
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}

	return float64(a.SizeInUse()) / float64(capacity)
}

// Generation returns the number of times the arena has been reset.
func (a *Arena) Generation() uint64 { return a.generation }

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() Metrics {
	return Metrics{
		SizeInUse:   a.SizeInUse(),
		Capacity:    a.Capacity(),
		Peak:        a.peak,
		Allocations: a.allocs,
		Generation:  a.generation,
		Utilization: a.Utilization(),
	}
}

// Metrics contains statistical information about an arena.
type Metrics struct {
	SizeInUse   int     // Bytes currently allocated
	Capacity    int     // Total capacity in bytes
	Peak        int     // Highest SizeInUse observed over the arena's life
	Allocations int     // Allocations since the last reset
	Generation  uint64  // Number of resets
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}
