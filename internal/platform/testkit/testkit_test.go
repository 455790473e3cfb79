package testkit

import (
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func TestMustPanic(t *testing.T) {
	t.Parallel()

	MustPanic(t, func() {
		panic("boom")
	})
}

func TestMustContain(t *testing.T) {
	t.Parallel()

	MustContain(t, "id,message,genre", "message")
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	p := WriteFile(t, "messages.csv", "id,message\n2,help\n")
	b, err := os.ReadFile(p)
	if err != nil || string(b) != "id,message\n2,help\n" {
		t.Fatalf("read back %q err %v", b, err)
	}
}

func TestEventually(t *testing.T) {
	t.Parallel()

	var n atomic.Int32
	go func() {
		time.Sleep(20 * time.Millisecond)
		n.Store(1)
	}()
	Eventually(t, time.Second, func() bool { return n.Load() == 1 })
}
