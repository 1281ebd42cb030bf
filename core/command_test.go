package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReaderAssemblesLines(t *testing.T) {
	var l lineReader

	for _, b := range []byte("R:1\r") {
		line, done, dropped := l.feed(b)
		assert.False(t, dropped)
		if b == '\r' {
			require.True(t, done)
			assert.Equal(t, "R:1", line)
		} else {
			assert.False(t, done)
		}
	}

	// CRLF: the LF after a consumed CR is a blank line, ignored.
	_, done, dropped := l.feed('\n')
	assert.False(t, done)
	assert.False(t, dropped)
}

func TestLineReaderOverflowDiscardsWholeLine(t *testing.T) {
	var l lineReader

	long := strings.Repeat("A", lineBufSize+50)
	for i := 0; i < len(long); i++ {
		_, done, dropped := l.feed(long[i])
		assert.False(t, done)
		assert.False(t, dropped)
	}

	// The terminator reports the overflow exactly once...
	_, done, dropped := l.feed('\n')
	assert.False(t, done)
	assert.True(t, dropped)

	// ...and the next line comes through clean.
	var line string
	for i := 0; i < len("STATUS"); i++ {
		line, done, _ = l.feed("STATUS"[i])
	}
	line, done, dropped = l.feed('\n')
	require.True(t, done)
	assert.False(t, dropped)
	assert.Equal(t, "STATUS", line)
}

func TestSplitCommands(t *testing.T) {
	assert.Equal(t, []string{"R:1", "B:1", "A:0"}, SplitCommands("R:1;B:1;A:0"))
	assert.Equal(t, []string{"R:1"}, SplitCommands(" R:1 "))
	assert.Equal(t, []string{"G:0"}, SplitCommands(";;G:0;"))
	assert.Nil(t, SplitCommands("  ;  "))
}

func TestParseRequest(t *testing.T) {
	req := ParseRequest("FEED:SEQ:0.1:2:1:10:5")
	assert.Equal(t, "FEED", req.Verb)
	assert.Equal(t, "SEQ:0.1:2:1:10:5", req.Args)
	assert.Equal(t, "FEED:SEQ:0.1:2:1:10:5", req.Raw)

	req = ParseRequest("STATUS")
	assert.Equal(t, "STATUS", req.Verb)
	assert.Equal(t, "", req.Args)
}

func TestSplitArgs(t *testing.T) {
	assert.Equal(t, []string{"auger", "forward", "10"}, splitArgs("auger:forward:10"))
	assert.Equal(t, []string{"tare"}, splitArgs("tare"))
	assert.Nil(t, splitArgs(""))
	assert.Equal(t, []string{"a", "", "b"}, splitArgs("a::b"))
}
