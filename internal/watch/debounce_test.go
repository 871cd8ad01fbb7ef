package watch

import (
	"testing"
	"time"
)

func TestDebouncer_Coalesces(t *testing.T) {
	out := make(chan Event, 10)
	done := make(chan struct{})
	d := newDebouncer(20*time.Millisecond, out, done)
	defer func() {
		close(done)
		d.stop()
	}()

	now := time.Now()
	d.add(Event{Path: "/a", Op: OpCreate, Timestamp: now})
	d.add(Event{Path: "/a", Op: OpWrite, Timestamp: now.Add(time.Millisecond)})
	d.add(Event{Path: "/b", Op: OpRemove, Timestamp: now})

	got := make(map[string]Op)
	for len(got) < 2 {
		select {
		case e := <-out:
			got[e.Path] = e.Op
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out, got %v", got)
		}
	}
	if got["/a"] != OpCreate|OpWrite {
		t.Errorf("/a op = %s, want CREATE|WRITE", got["/a"])
	}
	if got["/b"] != OpRemove {
		t.Errorf("/b op = %s, want REMOVE", got["/b"])
	}
	select {
	case e := <-out:
		t.Errorf("unexpected second delivery for %s", e.Path)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestDebouncer_ResetsTimer(t *testing.T) {
	out := make(chan Event, 10)
	done := make(chan struct{})
	d := newDebouncer(40*time.Millisecond, out, done)
	defer func() {
		close(done)
		d.stop()
	}()

	start := time.Now()
	d.add(Event{Path: "/a", Op: OpWrite})
	time.Sleep(25 * time.Millisecond)
	d.add(Event{Path: "/a", Op: OpWrite})

	select {
	case <-out:
		if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
			t.Errorf("delivered after %v, want the second event to restart the delay", elapsed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the event")
	}
}

func TestDebouncer_StopDiscards(t *testing.T) {
	out := make(chan Event, 10)
	done := make(chan struct{})
	d := newDebouncer(10*time.Millisecond, out, done)

	d.add(Event{Path: "/a", Op: OpWrite})
	close(done)
	d.stop()
	d.add(Event{Path: "/b", Op: OpWrite})

	time.Sleep(50 * time.Millisecond)
	if len(out) != 0 {
		t.Errorf("stopped debouncer delivered %d events", len(out))
	}
}
