package core

const lineBufSize = 256

// lineReader accumulates serial bytes into CR/LF-terminated lines. A line
// longer than the buffer is discarded whole; the overflow is reported
// exactly once, on the terminator.
type lineReader struct {
	buf      [lineBufSize]byte
	n        int
	overflow bool
}

// feed consumes one byte. When a terminator completes a line it is
// returned with done=true; dropped=true flags a line that overflowed and
// was thrown away.
func (l *lineReader) feed(b byte) (line string, done bool, dropped bool) {
	if b == '\r' || b == '\n' {
		if l.overflow {
			l.overflow = false
			l.n = 0
			return "", false, true
		}
		if l.n == 0 {
			return "", false, false
		}
		line = string(l.buf[:l.n])
		l.n = 0
		return line, true, false
	}
	if l.overflow {
		return "", false, false
	}
	if l.n >= lineBufSize {
		l.overflow = true
		return "", false, false
	}
	l.buf[l.n] = b
	l.n++
	return "", false, false
}

// Request is one parsed command: the verb before the first colon, the
// remainder as args, and the untrimmed original for echoing in replies.
type Request struct {
	Verb string
	Args string
	Raw  string
}

// SplitCommands cuts a line on ';' so several commands can share one
// transmission. Empty segments are kept out of the result.
func SplitCommands(line string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(line); i++ {
		if i == len(line) || line[i] == ';' {
			seg := trimSpaces(line[start:i])
			if seg != "" {
				out = append(out, seg)
			}
			start = i + 1
		}
	}
	return out
}

// ParseRequest splits a command into verb and argument tail. Parsing
// never fails: an unknown verb is the dispatcher's problem, not the
// tokenizer's.
func ParseRequest(cmd string) Request {
	for i := 0; i < len(cmd); i++ {
		if cmd[i] == ':' {
			return Request{Verb: cmd[:i], Args: cmd[i+1:], Raw: cmd}
		}
	}
	return Request{Verb: cmd, Raw: cmd}
}

func trimSpaces(s string) string {
	start := 0
	for start < len(s) && (s[start] == ' ' || s[start] == '\t') {
		start++
	}
	end := len(s)
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[start:end]
}

// splitArgs cuts an argument tail on ':' for multi-field commands.
func splitArgs(args string) []string {
	if args == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(args); i++ {
		if i == len(args) || args[i] == ':' {
			out = append(out, args[start:i])
			start = i + 1
		}
	}
	return out
}
