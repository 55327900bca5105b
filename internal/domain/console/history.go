package console

// history is the ring of recently committed lines plus the browse cursor.
//
// Entries are ordered oldest to newest as (head-count+i) mod HistorySize for
// i in [0, count). cur is -1 when not browsing, otherwise the number of
// steps back from the newest entry.
type history struct {
	entries [HistorySize][]byte
	count   int
	head    int
	cur     int
}

func newHistory() history {
	return history{cur: -1}
}

// push saves line, truncated to InputSize-1 bytes, evicting the oldest entry
// when the ring is full. Browsing stops.
func (h *history) push(line []byte) {
	if len(line) > InputSize-1 {
		line = line[:InputSize-1]
	}
	h.entries[h.head] = append(h.entries[h.head][:0], line...)
	h.head = (h.head + 1) % HistorySize
	if h.count < HistorySize {
		h.count++
	}
	h.cur = -1
}

// recent returns the entry n steps back from the newest.
func (h *history) recent(n int) []byte {
	return h.entries[(h.head-1-n+HistorySize)%HistorySize]
}

// older moves the cursor one entry back and returns it. ok is false, and the
// cursor is unchanged, when there is no older entry.
func (h *history) older() (line []byte, ok bool) {
	if h.count == 0 || h.cur+1 >= h.count {
		return nil, false
	}
	h.cur++
	return h.recent(h.cur), true
}

// newer moves the cursor one entry forward. ok is false when history is
// empty. A nil line with ok means the line should be left empty: either the
// cursor was not browsing or it just moved past the newest entry.
func (h *history) newer() (line []byte, ok bool) {
	if h.count == 0 {
		return nil, false
	}
	if h.cur < 0 {
		return nil, true
	}
	h.cur--
	if h.cur < 0 {
		return nil, true
	}
	return h.recent(h.cur), true
}

// browsing reports whether the cursor is on an entry.
func (h *history) browsing() bool { return h.cur >= 0 }

// lines returns copies of the entries, oldest first.
func (h *history) lines() []string {
	out := make([]string, 0, h.count)
	for i := 0; i < h.count; i++ {
		out = append(out, string(h.entries[(h.head-h.count+i+HistorySize)%HistorySize]))
	}
	return out
}
