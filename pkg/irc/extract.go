package irc

// skipSpaces returns the index of the first byte at or after i which is not
// a space.
func skipSpaces(line []byte, i int) int {
	for i < len(line) && line[i] == ' ' {
		i++
	}
	return i
}

// skipToken returns the index of the first byte at or after i which is a
// space.
func skipToken(line []byte, i int) int {
	for i < len(line) && line[i] != ' ' {
		i++
	}
	return i
}

// skipPrelude skips leading spaces, an optional message-tags token and an
// optional source-prefix token, returning the index of the verb's first byte.
func skipPrelude(line []byte) int {
	i := skipSpaces(line, 0)

	// tags
	if i < len(line) && line[i] == '@' {
		i = skipToken(line, i)
		i = skipSpaces(line, i)
	}

	// prefix
	if i < len(line) && line[i] == ':' {
		i = skipToken(line, i)
		i = skipSpaces(line, i)
	}

	return i
}

// ExtractVerb extracts the verb part of an IRC message.
//
// If the returned slice represents a meaningful IRC verb, then the input is
// either well-formed, or badly-formed in an insignificant way (too many
// spaces, for example). For other badly-formed inputs the returned slice will
// either be empty or nonsense. In other words, if the returned slice is
// meaningful as an IRC verb, then it definitely appears as the verb part of
// the input message.
//
// The returned slice borrows from line.
func ExtractVerb(line []byte) []byte {
	i := skipPrelude(line)
	j := skipToken(line, i)
	return line[i:j]
}

// CapMessage is the parsed form of an IRC CAP message. Both fields borrow
// from the input line.
type CapMessage struct {
	Subcommand []byte
	Trailing   []byte
}

// ExtractCap extracts the subcommand and trailing parts of an IRCv3 CAP
// message. The second return value is false if the input does not appear to
// be a CAP command at all.
//
// For example, "CAP * LS * :multi-prefix sasl" with isServer set to true
// yields "LS" as the subcommand and "multi-prefix sasl" as the trailing part.
// (Were isServer false, the subcommand would be incorrectly identified as the
// "*" following the main verb.)
//
// isServer indicates whether the line came from a server or a client. Servers
// include an extra client-identifier parameter between the verb and the
// subcommand, and it is not possible in general to tell a client identifier
// from a subcommand.
//
// When no colon-marked trailing parameter is present but parameters follow
// the subcommand, the trailing part is the last whitespace-delimited token of
// the remainder.
func ExtractCap(line []byte, isServer bool) (cap CapMessage, ok bool) {
	i := skipPrelude(line)

	// confirm we are pointing at "CAP "
	if i+4 > len(line) || string(line[i:i+4]) != "CAP " {
		return CapMessage{}, false
	}
	i += 4

	i = skipSpaces(line, i)

	// a server message carries the client identifier first
	if isServer {
		i = skipToken(line, i)
		i = skipSpaces(line, i)
	}

	j := skipToken(line, i)
	cap.Subcommand = line[i:j]

	// j points directly after the subcommand. Scan to the end of line:
	// colon will point directly after the first " :", or stay 0, and last
	// will point at the last non-space byte encountered.
	last := 0
	colon := 0
	for ; j < len(line); j++ {
		if line[j-1] == ' ' && line[j] == ':' {
			colon = j + 1
			break
		}
		if line[j] != ' ' {
			last = j
		}
	}

	switch {
	case colon != 0:
		// everything after the colon, embedded spaces included
		cap.Trailing = line[colon:]

	case last != 0:
		// no colon, but parameters exist: walk back from the last
		// non-space byte to the start of its token
		j = last
		for j > 0 && line[j] != ' ' {
			j--
		}
		cap.Trailing = line[j+1 : last+1]

	default:
		cap.Trailing = line[:0]
	}

	return cap, true
}
