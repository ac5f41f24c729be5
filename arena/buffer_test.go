package arena

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestBufferWrite(t *testing.T) {
	a := New(1024)
	b := NewBuffer(a)

	_, _ = b.WriteString("hello")
	_ = b.WriteByte(',')
	_, _ = b.WriteRune(' ')
	_, _ = b.Write([]byte("wörld"))

	if got, want := b.String(), "hello, wörld"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	if b.Len() != len("hello, wörld") {
		t.Errorf("Len() = %d", b.Len())
	}
}

func TestBufferGrowsAcrossRegions(t *testing.T) {
	a := New(4096)
	b := NewBuffer(a)

	var want strings.Builder

	for i := range 100 {
		s := fmt.Sprintf("line %d\n", i)
		want.WriteString(s)

		if _, err := b.WriteString(s); err != nil {
			t.Fatalf("WriteString(%q) error = %v", s, err)
		}
	}

	if b.String() != want.String() {
		t.Error("buffer contents differ after growth")
	}
}

func TestBufferInterleavedAllocations(t *testing.T) {
	a := New(4096)
	b := NewBuffer(a)

	_, _ = b.WriteString(strings.Repeat("x", 60))

	other, err := a.Allocate(8)
	if err != nil {
		t.Fatal(err)
	}

	copy(a.Bytes(other), "ABCDEFGH")

	_, _ = b.WriteString(strings.Repeat("y", 60))

	if got := string(a.Bytes(other)); got != "ABCDEFGH" {
		t.Errorf("buffer growth clobbered neighbor region: %q", got)
	}

	if got, want := b.String(), strings.Repeat("x", 60)+strings.Repeat("y", 60); got != want {
		t.Errorf("String() = %q", got)
	}
}

func TestBufferOutOfMemory(t *testing.T) {
	a := New(32)
	b := NewBuffer(a)

	if _, err := b.WriteString(strings.Repeat("a", 32)); err != nil {
		t.Fatalf("WriteString to capacity error = %v", err)
	}

	n, err := b.WriteString("b")
	if !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("WriteString past capacity error = %v, want ErrOutOfMemory", err)
	}

	if n != 0 || b.Len() != 32 {
		t.Errorf("failed write reported n=%d, len=%d", n, b.Len())
	}
}

func TestBufferSurvivesArenaReset(t *testing.T) {
	a := New(256)
	b := NewBuffer(a)

	_, _ = b.WriteString("first")
	out := b.String()

	a.Reset()
	b.Reset()

	_, _ = b.WriteString("second")

	if out != "first" {
		t.Errorf("copied result changed after Reset: %q", out)
	}

	if b.String() != "second" {
		t.Errorf("String() after Reset = %q", b.String())
	}
}
