package service

import "testing"

func TestBroadcastWriter_ForwardsChunks(t *testing.T) {
	var got []string
	w := NewBroadcastWriter(func(chunk string) { got = append(got, chunk) })

	n, err := w.Write([]byte("hello "))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != 6 {
		t.Errorf("n = %d, want 6", n)
	}
	w.Write([]byte("world"))

	if len(got) != 2 || got[0] != "hello " || got[1] != "world" {
		t.Errorf("unexpected forwarded chunks: %v", got)
	}
}

func TestBroadcastWriter_Drain(t *testing.T) {
	w := NewBroadcastWriter(nil)
	w.Write([]byte("abc"))
	w.Write([]byte("def"))

	if got := w.Drain(); got != "abcdef" {
		t.Errorf("Drain() = %q, want %q", got, "abcdef")
	}
	if got := w.Drain(); got != "" {
		t.Errorf("second Drain() = %q, want empty", got)
	}
}
