package protocol

import (
	"errors"
	"fmt"
	"io"
)

// ErrFrameTooLong is returned when a game-control frame declares a word
// length outside [1, MaxWordLen] or an incorrect count above MaxIncorrect.
// It is a protocol violation: the session cannot continue on this stream.
var ErrFrameTooLong = errors.New("game-control frame exceeds protocol limits")

// Every frame starts with one unsigned flag byte. Its value alone decides
// how many bytes follow and how they are interpreted; the interpretation of
// a zero flag additionally depends on direction and session phase, which is
// why the server and client each get their own read entry points below.

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

// WriteMessage sends a message packet: [len][len bytes of text].
// Text longer than MaxMessageLen is truncated to fit the 1-byte prefix.
func WriteMessage(w io.Writer, text string) error {
	if len(text) > MaxMessageLen {
		text = text[:MaxMessageLen]
	}
	buf := make([]byte, 1+len(text))
	buf[0] = byte(len(text))
	copy(buf[1:], text)
	if err := writeFull(w, buf); err != nil {
		return fmt.Errorf("write message packet: %w", err)
	}
	return nil
}

// WriteGameControl sends a board update:
// [0][wordLen][numIncorrect][masked bytes][incorrect bytes].
func WriteGameControl(w io.Writer, masked, incorrect []byte) error {
	if len(masked) == 0 || len(masked) > MaxWordLen || len(incorrect) > MaxIncorrect {
		return ErrFrameTooLong
	}
	buf := make([]byte, 3+len(masked)+len(incorrect))
	buf[0] = 0
	buf[1] = byte(len(masked))
	buf[2] = byte(len(incorrect))
	copy(buf[3:], masked)
	copy(buf[3+len(masked):], incorrect)
	if err := writeFull(w, buf); err != nil {
		return fmt.Errorf("write game-control packet: %w", err)
	}
	return nil
}

// WriteStart sends the start signal: a lone zero byte.
func WriteStart(w io.Writer) error {
	if err := writeFull(w, []byte{0}); err != nil {
		return fmt.Errorf("write start signal: %w", err)
	}
	return nil
}

// WriteGuess sends a guess packet: [1][letter].
func WriteGuess(w io.Writer, letter byte) error {
	if err := writeFull(w, []byte{1, letter}); err != nil {
		return fmt.Errorf("write guess packet: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Decoding — client side
// ---------------------------------------------------------------------------

// ReadServerPacket reads exactly one server→client packet. A non-zero flag
// byte is a message; a zero flag is a game-control frame. Short streams
// surface as transport errors; an oversized game-control header is reported
// as ErrFrameTooLong.
func ReadServerPacket(r io.Reader) (*ServerPacket, error) {
	flag, err := readByte(r)
	if err != nil {
		return nil, fmt.Errorf("read packet flag: %w", err)
	}

	if flag > 0 {
		data := make([]byte, flag)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("read message payload: %w", err)
		}
		return &ServerPacket{Kind: KindMessage, Text: string(data)}, nil
	}

	var header [2]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read game-control header: %w", err)
	}
	wordLen, numIncorrect := int(header[0]), int(header[1])
	if wordLen == 0 || wordLen > MaxWordLen || numIncorrect > MaxIncorrect {
		return nil, ErrFrameTooLong
	}

	data := make([]byte, wordLen+numIncorrect)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("read game-control payload: %w", err)
	}
	return &ServerPacket{
		Kind:      KindGameControl,
		Masked:    data[:wordLen],
		Incorrect: data[wordLen:],
	}, nil
}

// ---------------------------------------------------------------------------
// Decoding — server side
// ---------------------------------------------------------------------------

// ReadStart blocks until the client's start signal (a zero flag byte)
// arrives. A non-zero flag before the game has started carries no meaning;
// its declared payload is drained to preserve framing and the wait continues.
func ReadStart(r io.Reader) error {
	for {
		flag, err := readByte(r)
		if err != nil {
			return fmt.Errorf("read start signal: %w", err)
		}
		if flag == 0 {
			return nil
		}
		if err := drain(r, int64(flag)); err != nil {
			return fmt.Errorf("drain pre-start frame: %w", err)
		}
	}
}

// ReadClientFrame reads one mid-game frame from the client. A declared
// length of exactly 1 yields a guess; anything else is malformed — the
// declared byte count is drained and discarded so the next frame stays
// aligned, and the caller sends no response.
func ReadClientFrame(r io.Reader) (ClientFrame, error) {
	flag, err := readByte(r)
	if err != nil {
		return ClientFrame{}, fmt.Errorf("read guess header: %w", err)
	}

	if flag != 1 {
		if err := drain(r, int64(flag)); err != nil {
			return ClientFrame{}, fmt.Errorf("drain malformed guess: %w", err)
		}
		return ClientFrame{Malformed: true}, nil
	}

	letter, err := readByte(r)
	if err != nil {
		return ClientFrame{}, fmt.Errorf("read guess letter: %w", err)
	}
	return ClientFrame{Guess: letter}, nil
}

// ---------------------------------------------------------------------------
// Stream helpers
// ---------------------------------------------------------------------------

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// writeFull delivers every byte of buf, retrying on short writes.
func writeFull(w io.Writer, buf []byte) error {
	for len(buf) > 0 {
		n, err := w.Write(buf)
		if err != nil {
			return err
		}
		buf = buf[n:]
	}
	return nil
}

func drain(r io.Reader, n int64) error {
	_, err := io.CopyN(io.Discard, r, n)
	return err
}
