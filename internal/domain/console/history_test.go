package console

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRing(t *testing.T) {
	h := newHistory()
	assert.Empty(t, h.lines())

	for _, l := range []string{"1\n", "2\n", "3\n", "4\n", "5\n", "6\n"} {
		h.push([]byte(l))
	}

	assert.Equal(t, HistorySize, h.count)
	assert.Equal(t, []string{"2\n", "3\n", "4\n", "5\n", "6\n"}, h.lines())
	assert.Equal(t, "6\n", string(h.recent(0)))
	assert.Equal(t, "2\n", string(h.recent(4)))
}

func TestHistoryPushCopies(t *testing.T) {
	h := newHistory()
	line := []byte("abc\n")
	h.push(line)
	line[0] = 'X'

	assert.Equal(t, []string{"abc\n"}, h.lines())
}

func TestHistoryCursor(t *testing.T) {
	h := newHistory()

	_, ok := h.older()
	assert.False(t, ok, "older on empty history")
	_, ok = h.newer()
	assert.False(t, ok, "newer on empty history")

	h.push([]byte("a\n"))
	h.push([]byte("b\n"))

	line, ok := h.older()
	require.True(t, ok)
	assert.Equal(t, "b\n", string(line))
	line, ok = h.older()
	require.True(t, ok)
	assert.Equal(t, "a\n", string(line))
	_, ok = h.older()
	assert.False(t, ok, "already at the oldest entry")
	assert.Equal(t, 1, h.cur)

	line, ok = h.newer()
	require.True(t, ok)
	assert.Equal(t, "b\n", string(line))
	line, ok = h.newer()
	require.True(t, ok)
	assert.Nil(t, line, "past the newest entry")
	assert.False(t, h.browsing())

	line, ok = h.newer()
	require.True(t, ok)
	assert.Nil(t, line)
	assert.Equal(t, -1, h.cur)
}

func TestHistoryPushResetsCursor(t *testing.T) {
	h := newHistory()
	h.push([]byte("a\n"))
	_, ok := h.older()
	require.True(t, ok)
	require.True(t, h.browsing())

	h.push([]byte("b\n"))
	assert.False(t, h.browsing())
}

func TestHistoryTruncates(t *testing.T) {
	c, _ := newTestConsole(t)

	feed(c, strings.Repeat("q", InputSize-1)+"\n")

	hist := c.History()
	require.Len(t, hist, 1)
	assert.Equal(t, strings.Repeat("q", InputSize-1), hist[0])
}

// Lines pushed to history keep their newline; recall drops it.
func TestRecallScenario(t *testing.T) {
	c, line := newTestConsole(t)

	feed(c, "hi\n")
	assert.Equal(t, "hi\n", readString(t, c, 10))

	line.resetEcho()
	c.Intr(RecallOlder)
	assert.Equal(t, "hi", c.Editing())
	assert.Equal(t, "hi", line.echoed())
	assert.Equal(t, 0, c.Pending(), "recall does not commit")

	c.Intr('\n')
	assert.Equal(t, "hi\n", readString(t, c, 10))
	assert.Equal(t, []string{"hi\n", "hi\n"}, c.History())
}

func TestRecallReplacesLine(t *testing.T) {
	c, line := newTestConsole(t)

	feed(c, "first\n")
	readString(t, c, 10)
	line.resetEcho()

	feed(c, "xy")
	c.Intr(RecallOlder)

	assert.Equal(t, "first", c.Editing())
	assert.Equal(t, "xy"+eraseSeq+eraseSeq+"first", line.echoed())
}

func TestRecallOlderNoHistory(t *testing.T) {
	c, line := newTestConsole(t)

	feed(c, "xy")
	c.Intr(RecallOlder)
	c.Intr(RecallNewer)

	assert.Equal(t, "xy", c.Editing())
	assert.Equal(t, "xy", line.echoed())
}

func TestRecallNewerWhileNotBrowsingClears(t *testing.T) {
	c, _ := newTestConsole(t)

	feed(c, "old\n")
	readString(t, c, 10)

	feed(c, "xy")
	c.Intr(RecallNewer)

	assert.Equal(t, "", c.Editing())
}

func TestRecallRoundTrip(t *testing.T) {
	c, _ := newTestConsole(t)

	for _, l := range []string{"a", "b", "c"} {
		feed(c, l+"\n")
		readString(t, c, 10)
	}

	for steps := 1; steps <= 3; steps++ {
		for i := 0; i < steps; i++ {
			c.Intr(RecallOlder)
		}
		assert.Equal(t, string(rune('c'-steps+1)), c.Editing())

		for i := 0; i < steps; i++ {
			c.Intr(RecallNewer)
		}
		assert.Equal(t, "", c.Editing(), "round trip after %d steps", steps)
	}

	// Walking newer past the newest entry stays empty.
	c.Intr(RecallNewer)
	assert.Equal(t, "", c.Editing())
}

func TestRecallOlderStopsAtOldest(t *testing.T) {
	c, _ := newTestConsole(t)

	for i := 0; i < HistorySize+1; i++ {
		feed(c, string(rune('0'+i))+"\n")
		readString(t, c, 10)
	}

	for i := 0; i < HistorySize+3; i++ {
		c.Intr(RecallOlder)
	}

	// "0" was evicted; the oldest reachable entry is "1".
	assert.Equal(t, "1", c.Editing())
}

func TestRecallStopsWhenBufferFull(t *testing.T) {
	c, _ := newTestConsole(t)

	feed(c, strings.Repeat("a", 100)+"\n")
	require.Equal(t, 101, c.Pending())

	c.Intr(RecallOlder)

	assert.Equal(t, strings.Repeat("a", InputSize-101), c.Editing())
	assert.Equal(t, 101, c.Pending())
}

func TestEditedRecallIsSaved(t *testing.T) {
	c, _ := newTestConsole(t)

	feed(c, "make\n")
	readString(t, c, 10)

	c.Intr(RecallOlder)
	c.Intr(Backspace)
	feed(c, "r\n")

	assert.Equal(t, "makr\n", readString(t, c, 10))
	assert.Equal(t, []string{"make\n", "makr\n"}, c.History())
}

func TestKillAfterRecall(t *testing.T) {
	c, _ := newTestConsole(t)

	feed(c, "abc\n")
	readString(t, c, 10)

	c.Intr(RecallOlder)
	c.Intr(KillLine)
	assert.Equal(t, "", c.Editing())

	// The cursor is still on the entry; newer walks off it.
	c.Intr(RecallNewer)
	assert.Equal(t, "", c.Editing())
	c.Intr(RecallOlder)
	assert.Equal(t, "abc", c.Editing())
}
