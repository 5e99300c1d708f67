// Package client implements the interactive side of the hangman protocol:
// read packets, render them, and forward the player's guesses.
package client

import (
	"bufio"
	"io"

	"github.com/pterm/pterm"

	"github.com/mkrenn/hangman/internal/protocol"
)

// Client drives one connection through the interaction states:
// AwaitingWelcome → PromptStart → AwaitingBoard → Guessing → Done.
// It is built over plain readers/writers so tests can script both the
// server stream and the player's input.
type Client struct {
	conn io.ReadWriter
	in   *bufio.Scanner
	out  *pterm.BasicTextPrinter
}

// New wraps an established connection with the given console streams.
func New(conn io.ReadWriter, in io.Reader, out io.Writer) *Client {
	return &Client{
		conn: conn,
		in:   bufio.NewScanner(in),
		out:  pterm.DefaultBasicText.WithWriter(out),
	}
}

// Run executes the full interaction. It returns nil on every clean path
// (overloaded server, declined start, player quit, game over) and an error
// only when the transport fails.
func (c *Client) Run() error {
	// First packet is either "server-overloaded" or the welcome message.
	pkt, err := protocol.ReadServerPacket(c.conn)
	if err != nil {
		return err
	}
	c.render(pkt)
	if pkt.IsSentinel(protocol.MsgOverloaded) || pkt.IsSentinel(protocol.MsgGameOver) {
		return nil
	}

	ok, err := c.promptStart()
	if err != nil || !ok {
		return err
	}
	if err := protocol.WriteStart(c.conn); err != nil {
		return err
	}

	// Await the initial board, printing any messages on the way.
	done, err := c.awaitBoard()
	if err != nil || done {
		return err
	}

	return c.guessLoop()
}

// promptStart asks whether to begin. Anything but y/Y declines.
func (c *Client) promptStart() (bool, error) {
	c.out.Print(">>> Ready to start game? (y/n): ")
	if !c.in.Scan() {
		return false, c.in.Err()
	}
	line := c.in.Text()
	return len(line) > 0 && (line[0] == 'y' || line[0] == 'Y'), nil
}

// awaitBoard reads and prints packets until a game-control packet arrives
// (done=false) or a "Game Over!" sentinel ends the session (done=true).
// Informational messages are printed and looped past.
func (c *Client) awaitBoard() (done bool, err error) {
	for {
		pkt, err := protocol.ReadServerPacket(c.conn)
		if err != nil {
			return false, err
		}
		c.render(pkt)
		if pkt.IsSentinel(protocol.MsgGameOver) {
			return true, nil
		}
		if pkt.Kind == protocol.KindGameControl {
			return false, nil
		}
	}
}

// guessLoop prompts for one letter at a time. An empty line quits even
// mid-game; anything that is not exactly one alphabetic character is a
// local format error with no network effect.
func (c *Client) guessLoop() error {
	for {
		c.out.Print(">>>Letter to guess: ")
		if !c.in.Scan() {
			return c.in.Err()
		}
		line := c.in.Text()
		if len(line) == 0 {
			return nil
		}
		if len(line) != 1 || !isAlpha(line[0]) {
			c.out.Println(">>>Error! Please guess one letter.")
			continue
		}

		if err := protocol.WriteGuess(c.conn, toLower(line[0])); err != nil {
			return err
		}

		done, err := c.awaitBoard()
		if err != nil || done {
			return err
		}
	}
}

// render prints one packet the way the original client does: every line
// prefixed with ">>>", masked letters and incorrect guesses space-separated.
func (c *Client) render(pkt *protocol.ServerPacket) {
	if pkt.Kind == protocol.KindMessage {
		c.out.Println(">>>" + pkt.Text)
		return
	}

	c.out.Println(">>>" + spaced(pkt.Masked))
	if len(pkt.Incorrect) > 0 {
		c.out.Println(">>>Incorrect Guesses: " + spaced(pkt.Incorrect))
	} else {
		c.out.Println(">>>Incorrect Guesses:")
	}
	c.out.Println(">>>")
}

func spaced(letters []byte) string {
	var b []byte
	for i, c := range letters {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, c)
	}
	return string(b)
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func toLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}
