package midi

import (
	"math/rand"
	"testing"
)

func trackerOf(notes ...Note) *NoteTracker {
	t := &NoteTracker{}
	for _, n := range notes {
		t.Push(n)
	}
	return t
}

// held lists the tracked notes, most recent first.
func held(tr NoteTracker) []Note {
	var out []Note
	for i := 0; i < tr.Len(); i++ {
		out = append(out, tr.At(i))
	}
	return out
}

func TestTrackerMostRecentFirst(t *testing.T) {
	tr := trackerOf(60, 64, 67)
	want := []Note{67, 64, 60}
	got := held(*tr)
	if len(got) != len(want) {
		t.Fatalf("notes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notes = %v, want %v", got, want)
		}
	}
	if tr.MostRecent() != 67 {
		t.Fatalf("most recent = %v, want 67", tr.MostRecent())
	}
}

func TestTrackerPushIsIdempotent(t *testing.T) {
	tr := trackerOf(60, 64)
	tr.Push(60)
	if tr.Len() != 2 || tr.At(0) != 64 || tr.At(1) != 60 {
		t.Fatalf("re-push reordered tracker: %v", held(*tr))
	}
	tr.Push(None)
	if tr.Len() != 2 {
		t.Fatalf("pushing None changed length to %d", tr.Len())
	}
}

func TestTrackerOverflowDropsOldest(t *testing.T) {
	tr := trackerOf(1, 2, 3, 4, 5, 6)
	if tr.Len() != TrackerCapacity {
		t.Fatalf("len = %d, want %d", tr.Len(), TrackerCapacity)
	}
	if tr.Has(1) {
		t.Fatal("oldest note should have been dropped")
	}
	if tr.MostRecent() != 6 {
		t.Fatalf("most recent = %v, want 6", tr.MostRecent())
	}
}

func TestTrackerPopPreservesOrder(t *testing.T) {
	tr := trackerOf(10, 20, 30, 40)
	tr.Pop(30)
	want := []Note{40, 20, 10}
	for i, n := range want {
		if tr.At(i) != n {
			t.Fatalf("after pop: %v, want %v", held(*tr), want)
		}
	}
	tr.Pop(99)
	tr.Pop(None)
	if tr.Len() != 3 {
		t.Fatalf("popping absent notes changed length to %d", tr.Len())
	}
	if tr.At(5) != None || tr.At(-1) != None {
		t.Fatal("out of range At should return None")
	}
}

func TestTrackerRightOf(t *testing.T) {
	tr := trackerOf(40, 60, 80)
	cases := []struct {
		x, want Note
	}{
		{60, 80},
		{80, 40},
		{None, 40},
		{40, 60},
		{0, 40},
		{70, 80},
	}
	for _, tc := range cases {
		if got := tr.RightOf(tc.x); got != tc.want {
			t.Errorf("RightOf(%v) = %v, want %v", tc.x, got, tc.want)
		}
	}
	if tr.Smallest() != 40 {
		t.Fatalf("smallest = %v, want 40", tr.Smallest())
	}

	single := trackerOf(50)
	for _, x := range []Note{0, 50, 90, 127} {
		if got := single.RightOf(x); got != 50 {
			t.Errorf("single RightOf(%v) = %v, want 50", x, got)
		}
	}

	empty := &NoteTracker{}
	if empty.RightOf(10) != None || empty.Smallest() != None || empty.MostRecent() != None {
		t.Fatal("empty tracker should answer None")
	}
}

func TestTrackerRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := &NoteTracker{}
	for i := 0; i < 10000; i++ {
		n := Note(rng.Intn(12) + 60)
		if rng.Intn(2) == 0 {
			tr.Push(n)
		} else {
			tr.Pop(n)
		}
		if tr.Len() > TrackerCapacity {
			t.Fatalf("len %d exceeds capacity", tr.Len())
		}
		seen := map[Note]bool{}
		for _, x := range held(*tr) {
			if seen[x] {
				t.Fatalf("duplicate note %v in %v", x, held(*tr))
			}
			if x == None {
				t.Fatalf("None stored in tracker: %v", held(*tr))
			}
			seen[x] = true
		}
	}
}

func TestTrackerReadableByValue(t *testing.T) {
	snapshot := func() NoteTracker { return *trackerOf(40, 60, 80) }
	if snapshot().Len() != 3 || snapshot().MostRecent() != 80 || snapshot().RightOf(80) != 40 {
		t.Fatalf("value reads = %v", held(snapshot()))
	}
	if !snapshot().Has(60) || snapshot().At(2) != 40 || snapshot().Smallest() != 40 {
		t.Fatalf("value reads = %v", held(snapshot()))
	}
}
