// Package game implements the per-session hangman state machine.
// It is pure state — no I/O, no knowledge of the wire format beyond the
// shared limits in the protocol package. The server handler owns exactly
// one Session per connection and drives it with Guess results.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/mkrenn/hangman/internal/protocol"
)

// Placeholder is the byte shown for an unrevealed letter.
const Placeholder = '_'

// Status is the lifecycle state of a session.
type Status int

const (
	StatusAwaitingStart Status = iota
	StatusPlaying
	StatusWon
	StatusLost
)

// String reports a coarse string form for logging.
func (s Status) String() string {
	switch s {
	case StatusAwaitingStart:
		return "awaiting_start"
	case StatusPlaying:
		return "playing"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Event is the result of applying one guess.
type Event int

const (
	EventNoChange Event = iota // letter already revealed or already incorrect
	EventRevealed              // letter revealed somewhere, game continues
	EventMiss                  // letter absent, appended to incorrect list
	EventWon                   // this guess revealed the last placeholder
	EventLost                  // this guess filled the incorrect list
)

var (
	// ErrInvalidWord rejects words the protocol cannot carry.
	ErrInvalidWord = errors.New("word must be 1-8 lowercase letters")
	// ErrNotPlaying rejects guesses outside the Playing state.
	ErrNotPlaying = errors.New("session is not accepting guesses")
)

// Session holds the complete state of one player's single-word game.
type Session struct {
	id        string
	word      []byte
	masked    []byte
	incorrect []byte
	status    Status
}

// New creates a session for the given secret word in the AwaitingStart
// state. The word must already be normalized by the loader.
func New(word string) (*Session, error) {
	if len(word) == 0 || len(word) > protocol.MaxWordLen || !isLower(word) {
		return nil, ErrInvalidWord
	}
	masked := make([]byte, len(word))
	for i := range masked {
		masked[i] = Placeholder
	}
	return &Session{
		id:     randomID(),
		word:   []byte(word),
		masked: masked,
		status: StatusAwaitingStart,
	}, nil
}

// Start moves the session into the Playing state. It is a no-op once the
// session has left AwaitingStart.
func (s *Session) Start() {
	if s.status == StatusAwaitingStart {
		s.status = StatusPlaying
	}
}

// Guess applies one letter and reports what happened. Repeated guesses are
// idempotent: a letter already revealed or already in the incorrect list
// changes nothing. Win is evaluated before loss; a guess can only trigger
// one of them since it either reveals or misses.
func (s *Session) Guess(letter byte) (Event, error) {
	if s.status != StatusPlaying {
		return EventNoChange, ErrNotPlaying
	}

	letter = toLower(letter)
	if s.alreadyGuessed(letter) {
		return EventNoChange, nil
	}

	revealed := false
	for i, c := range s.word {
		if c == letter {
			s.masked[i] = letter
			revealed = true
		}
	}

	if revealed {
		if !s.hasPlaceholder() {
			s.status = StatusWon
			return EventWon, nil
		}
		return EventRevealed, nil
	}

	s.incorrect = append(s.incorrect, letter)
	if len(s.incorrect) >= protocol.MaxIncorrect {
		s.status = StatusLost
		return EventLost, nil
	}
	return EventMiss, nil
}

// ID is a compact random identifier for log correlation.
func (s *Session) ID() string { return s.id }

// Word returns the secret word.
func (s *Session) Word() string { return string(s.word) }

// Status reports the current lifecycle state.
func (s *Session) Status() Status { return s.status }

// Masked returns a copy of the player-visible word state.
func (s *Session) Masked() []byte {
	out := make([]byte, len(s.masked))
	copy(out, s.masked)
	return out
}

// Incorrect returns a copy of the incorrect-guess list in guess order.
func (s *Session) Incorrect() []byte {
	out := make([]byte, len(s.incorrect))
	copy(out, s.incorrect)
	return out
}

// Reveal builds the end-of-game reveal line, e.g. "The word was c a t".
func (s *Session) Reveal() string {
	var b strings.Builder
	b.WriteString(protocol.RevealPrefix)
	for _, c := range s.word {
		b.WriteByte(' ')
		b.WriteByte(c)
	}
	return b.String()
}

func (s *Session) alreadyGuessed(letter byte) bool {
	for _, c := range s.masked {
		if c == letter {
			return true
		}
	}
	for _, c := range s.incorrect {
		if c == letter {
			return true
		}
	}
	return false
}

func (s *Session) hasPlaceholder() bool {
	for _, c := range s.masked {
		if c == Placeholder {
			return true
		}
	}
	return false
}

func isLower(w string) bool {
	for _, r := range w {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
