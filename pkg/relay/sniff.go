package relay

import (
	"net"

	log "github.com/sirupsen/logrus"

	"github.com/ircpair/ircpair/pkg/irc"
	"github.com/ircpair/ircpair/pkg/splice"
)

// maxSniffedLine bounds the bytes accumulated while waiting for a line
// terminator. Longer lines are skipped, not relayed any differently.
const maxSniffedLine = 4096

// A sniffer wraps an Endpoint's read side, splits the passing byte stream
// at line terminators and logs the IRC fields of each complete line at
// debug level. The relayed bytes themselves pass through untouched.
//
// The relay cannot know whether a peer is a client or a server, so the CAP
// fields are extracted under the client rule set.
type sniffer struct {
	splice.Endpoint

	entry *log.Entry

	buf      []byte
	overflow bool
}

func newSniffer(inner splice.Endpoint, from net.Addr) *sniffer {
	return &sniffer{
		Endpoint: inner,
		entry:    log.WithField("from", from),
	}
}

func (s *sniffer) Read(p []byte) (int, error) {
	n, err := s.Endpoint.Read(p)
	if n > 0 {
		s.scan(p[:n])
	}

	return n, err
}

func (s *sniffer) scan(data []byte) {
	for len(data) > 0 {
		nl := -1
		for i, c := range data {
			if c == '\n' {
				nl = i
				break
			}
		}

		if nl < 0 {
			if s.overflow || len(s.buf)+len(data) > maxSniffedLine {
				s.buf = s.buf[:0]
				s.overflow = true
			} else {
				s.buf = append(s.buf, data...)
			}
			return
		}

		line := data[:nl]
		if len(s.buf) > 0 {
			line = append(s.buf, line...)
		}
		if !s.overflow {
			s.line(line)
		}

		s.buf = s.buf[:0]
		s.overflow = false
		data = data[nl+1:]
	}
}

func (s *sniffer) line(line []byte) {
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}

	verb := irc.ExtractVerb(line)
	if len(verb) == 0 {
		return
	}

	fields := log.Fields{"verb": string(verb)}
	if cap, ok := irc.ExtractCap(line, false); ok {
		fields["subcommand"] = string(cap.Subcommand)
		fields["trailing"] = string(cap.Trailing)
	}

	s.entry.WithFields(fields).Debug("Relayed IRC line")
}
