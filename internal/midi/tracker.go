package midi

// TrackerCapacity is the maximum number of held notes remembered.
const TrackerCapacity = 5

// NoteTracker is the set of currently held notes, most recently pressed
// first. It never allocates. Reads work on copies, so a tracker returned by
// value can be inspected directly.
type NoteTracker struct {
	notes [TrackerCapacity]Note
	count int
}

func (t NoteTracker) Len() int { return t.count }

// MostRecent returns the front entry, or None when empty.
func (t NoteTracker) MostRecent() Note {
	if t.count == 0 {
		return None
	}
	return t.notes[0]
}

// At returns the entry at index, or None when out of range.
func (t NoteTracker) At(index int) Note {
	if index < 0 || index >= t.count {
		return None
	}
	return t.notes[index]
}

func (t NoteTracker) Has(n Note) bool {
	for i := 0; i < t.count; i++ {
		if t.notes[i] == n {
			return true
		}
	}
	return false
}

// Smallest returns the lowest tracked pitch, or None when empty.
func (t NoteTracker) Smallest() Note {
	res := None
	for i := 0; i < t.count; i++ {
		if t.notes[i] < res {
			res = t.notes[i]
		}
	}
	return res
}

// RightOf returns the smallest tracked note strictly above x, wrapping to
// Smallest when x is the highest. A single tracked note is always returned.
func (t NoteTracker) RightOf(x Note) Note {
	if x == None {
		return t.Smallest()
	}
	if t.count == 0 {
		return None
	}
	if t.count == 1 {
		return t.MostRecent()
	}
	res := None
	for i := 0; i < t.count; i++ {
		if t.notes[i] > x && t.notes[i] < res {
			res = t.notes[i]
		}
	}
	if res == None {
		res = t.Smallest()
	}
	return res
}

// Push inserts n at the front. Already tracked notes and None are ignored;
// at capacity the oldest entry falls off the back.
func (t *NoteTracker) Push(n Note) {
	if n == None || t.Has(n) {
		return
	}
	if t.count < TrackerCapacity {
		t.count++
	}
	for i := t.count - 1; i > 0; i-- {
		t.notes[i] = t.notes[i-1]
	}
	t.notes[0] = n
}

// Pop removes n, keeping the order of the remaining entries.
func (t *NoteTracker) Pop(n Note) {
	if n == None {
		return
	}
	found := -1
	for i := 0; i < t.count; i++ {
		if t.notes[i] == n {
			found = i
			break
		}
	}
	if found < 0 {
		return
	}
	for i := found; i < t.count-1; i++ {
		t.notes[i] = t.notes[i+1]
	}
	t.count--
	t.notes[t.count] = None
}

func (t *NoteTracker) Clear() { *t = NoteTracker{} }
