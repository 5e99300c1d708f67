// Package protocol defines the hangman wire format shared by server and client.
package protocol

// Protocol limits.
const (
	MaxWordLen    = 8   // masked-word ceiling, enforced by both peers
	MaxIncorrect  = 8   // incorrect-guess list ceiling
	MaxMessageLen = 255 // 1-byte length prefix
)

// Sentinel payloads whose exact text is protocol-meaningful.
const (
	MsgOverloaded = "server-overloaded"
	MsgGameOver   = "Game Over!"
)

// Display payloads. Conformant clients treat these as opaque text.
const (
	MsgWelcome   = "Welcome to Hangman"
	MsgWin       = "You Win!"
	MsgLose      = "You Lose."
	RevealPrefix = "The word was"
)

// Kind discriminates the two server→client packet shapes.
type Kind uint8

const (
	KindMessage     Kind = iota // [len>0][len bytes of text]
	KindGameControl             // [0][wordLen][numIncorrect][masked][incorrect]
)

// ServerPacket is one decoded server→client packet.
// Text is set for KindMessage; Masked/Incorrect for KindGameControl.
type ServerPacket struct {
	Kind      Kind
	Text      string
	Masked    []byte
	Incorrect []byte
}

// IsSentinel reports whether the packet is a message carrying exactly s.
func (p *ServerPacket) IsSentinel(s string) bool {
	return p.Kind == KindMessage && p.Text == s
}

// ClientFrame is one decoded client→server frame read mid-game.
// A frame whose declared length is not exactly 1 is malformed: its payload
// has already been drained from the stream and Guess is meaningless.
type ClientFrame struct {
	Guess     byte
	Malformed bool
}
