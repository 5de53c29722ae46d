package engine

import (
	"testing"
)

func TestRingBufferPush(t *testing.T) {
	rb := NewRingBuffer[int](5)
	view := rb.Push(1, 2, 3)
	if rb.Len() != 3 {
		t.Errorf("expected len 3, got %d", rb.Len())
	}
	if len(view) != 3 || view[0] != 1 || view[2] != 3 {
		t.Errorf("unexpected view %v", view)
	}
}

func TestRingBufferWrap(t *testing.T) {
	rb := NewRingBuffer[int](3)
	for i := 0; i < 5; i++ {
		rb.Push(i)
	}
	if rb.Len() != 3 {
		t.Errorf("expected len 3, got %d", rb.Len())
	}
	items := rb.View()
	if items[0] != 2 {
		t.Errorf("expected oldest item 2, got %d", items[0])
	}
	if items[2] != 4 {
		t.Errorf("expected newest item 4, got %d", items[2])
	}
}

func TestRingBufferEvictsFIFOInSinglePush(t *testing.T) {
	for capacity := 1; capacity <= 7; capacity++ {
		for k := 0; k <= 15; k++ {
			rb := NewRingBuffer[int](capacity)
			in := make([]int, k)
			for i := range in {
				in[i] = i + 1
			}
			view := rb.Push(in...)

			want := in
			if len(want) > capacity {
				want = want[len(want)-capacity:]
			}
			if len(view) != len(want) {
				t.Fatalf("cap=%d k=%d: expected %d items, got %d", capacity, k, len(want), len(view))
			}
			for i := range want {
				if view[i] != want[i] {
					t.Fatalf("cap=%d k=%d: view %v, want %v", capacity, k, view, want)
				}
			}
		}
	}
}

func TestRingBufferNeverExceedsCapacity(t *testing.T) {
	rb := NewRingBuffer[int](4)
	n := 0
	for round := 0; round < 20; round++ {
		batch := make([]int, round%6)
		for i := range batch {
			n++
			batch[i] = n
		}
		if got := len(rb.Push(batch...)); got > rb.Cap() {
			t.Fatalf("round %d: len %d exceeds capacity %d", round, got, rb.Cap())
		}
	}
}

func TestRingBufferEmptyPushKeepsIdentity(t *testing.T) {
	rb := NewRingBuffer[int](3)
	first := rb.Push(7, 8)
	v := rb.Version()

	second := rb.Push()
	if &first[0] != &second[0] {
		t.Error("empty push should return the same view slice")
	}
	if rb.Version() != v {
		t.Errorf("empty push should not bump version: %d -> %d", v, rb.Version())
	}
}

func TestRingBufferOldViewUntouched(t *testing.T) {
	rb := NewRingBuffer[int](2)
	old := rb.Push(1, 2)
	rb.Push(3)
	if old[0] != 1 || old[1] != 2 {
		t.Errorf("previous view mutated: %v", old)
	}
}

func TestRingBufferEmpty(t *testing.T) {
	rb := NewRingBuffer[int](10)
	if rb.Len() != 0 {
		t.Error("new ring buffer should be empty")
	}
	if items := rb.View(); len(items) != 0 {
		t.Error("View() on empty buffer should return empty slice")
	}
	if _, ok := rb.Last(); ok {
		t.Error("Last() on empty buffer should return false")
	}
}

func TestRingBufferLast(t *testing.T) {
	rb := NewRingBuffer[int](5)
	rb.Push(1, 2, 3)
	last, ok := rb.Last()
	if !ok {
		t.Fatal("Last() should return true for non-empty buffer")
	}
	if last != 3 {
		t.Errorf("expected 3, got %d", last)
	}
}

func TestNewestFirst(t *testing.T) {
	got := newestFirst([]int{1, 2, 3})
	if got[0] != 3 || got[2] != 1 {
		t.Errorf("expected reversed order, got %v", got)
	}
}

func TestRingBufferReplace(t *testing.T) {
	rb := NewRingBuffer[int](3)
	rb.Push(1, 2, 3)
	v := rb.Version()

	view := rb.Replace(7, 8, 9, 10)
	if len(view) != 3 || view[0] != 8 || view[2] != 10 {
		t.Errorf("expected newest three, got %v", view)
	}
	if rb.Version() != v+1 {
		t.Errorf("Replace did not bump version")
	}
	if last, ok := rb.Last(); !ok || last != 10 {
		t.Errorf("Last() = %d, %v", last, ok)
	}

	if view := rb.Replace(); len(view) != 0 || rb.Len() != 0 {
		t.Errorf("empty Replace left %v", view)
	}
	if rb.Version() != v+2 {
		t.Errorf("empty Replace must still count as an update")
	}
	rb.Push(4)
	if view := rb.View(); len(view) != 1 || view[0] != 4 {
		t.Errorf("push after clear = %v", view)
	}
}
