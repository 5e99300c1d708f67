package protocol_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mkrenn/hangman/internal/protocol"
)

// TestGameControlRoundTrip verifies that encoding and decoding are inverse
// operations across the full range of legal board sizes.
func TestGameControlRoundTrip(t *testing.T) {
	testCases := []struct {
		name      string
		masked    []byte
		incorrect []byte
	}{
		{"1-letter word, no misses", []byte("_"), nil},
		{"fresh 3-letter board", []byte("___"), []byte{}},
		{"partially revealed", []byte("c_t"), []byte("xz")},
		{"max word, no misses", []byte("________"), nil},
		{"max word, max misses", []byte("aaaaaaaa"), []byte("bcdefghi")},
		{"solved board", []byte("cat"), []byte("b")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := protocol.WriteGameControl(&buf, tc.masked, tc.incorrect); err != nil {
				t.Fatalf("WriteGameControl failed: %v", err)
			}

			pkt, err := protocol.ReadServerPacket(&buf)
			if err != nil {
				t.Fatalf("ReadServerPacket failed: %v", err)
			}
			if pkt.Kind != protocol.KindGameControl {
				t.Fatalf("Kind = %v, want KindGameControl", pkt.Kind)
			}
			if !bytes.Equal(pkt.Masked, tc.masked) {
				t.Errorf("Masked = %q, want %q", pkt.Masked, tc.masked)
			}
			if len(tc.incorrect) == 0 {
				if len(pkt.Incorrect) != 0 {
					t.Errorf("Incorrect = %q, want empty", pkt.Incorrect)
				}
			} else if !bytes.Equal(pkt.Incorrect, tc.incorrect) {
				t.Errorf("Incorrect = %q, want %q", pkt.Incorrect, tc.incorrect)
			}
			if buf.Len() != 0 {
				t.Errorf("%d bytes left on the stream after decode", buf.Len())
			}
		})
	}
}

// TestMessageRoundTrip verifies message framing and sentinel classification.
func TestMessageRoundTrip(t *testing.T) {
	testCases := []struct {
		name       string
		text       string
		overloaded bool
		gameOver   bool
	}{
		{"welcome", protocol.MsgWelcome, false, false},
		{"overloaded sentinel", protocol.MsgOverloaded, true, false},
		{"game-over sentinel", protocol.MsgGameOver, false, true},
		{"reveal line", "The word was c a t", false, false},
		{"near-sentinel text is opaque", "Game Over", false, false},
		{"empty-adjacent text", "x", false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := protocol.WriteMessage(&buf, tc.text); err != nil {
				t.Fatalf("WriteMessage failed: %v", err)
			}

			pkt, err := protocol.ReadServerPacket(&buf)
			if err != nil {
				t.Fatalf("ReadServerPacket failed: %v", err)
			}
			if pkt.Kind != protocol.KindMessage {
				t.Fatalf("Kind = %v, want KindMessage", pkt.Kind)
			}
			if pkt.Text != tc.text {
				t.Errorf("Text = %q, want %q", pkt.Text, tc.text)
			}
			if got := pkt.IsSentinel(protocol.MsgOverloaded); got != tc.overloaded {
				t.Errorf("IsSentinel(overloaded) = %v, want %v", got, tc.overloaded)
			}
			if got := pkt.IsSentinel(protocol.MsgGameOver); got != tc.gameOver {
				t.Errorf("IsSentinel(game over) = %v, want %v", got, tc.gameOver)
			}
		})
	}
}

// TestMessageTruncation verifies that text beyond the 1-byte length prefix
// is truncated, never over-declared.
func TestMessageTruncation(t *testing.T) {
	long := bytes.Repeat([]byte("a"), 300)

	var buf bytes.Buffer
	if err := protocol.WriteMessage(&buf, string(long)); err != nil {
		t.Fatalf("WriteMessage failed: %v", err)
	}
	if buf.Len() != 1+protocol.MaxMessageLen {
		t.Fatalf("encoded length = %d, want %d", buf.Len(), 1+protocol.MaxMessageLen)
	}

	pkt, err := protocol.ReadServerPacket(&buf)
	if err != nil {
		t.Fatalf("ReadServerPacket failed: %v", err)
	}
	if len(pkt.Text) != protocol.MaxMessageLen {
		t.Errorf("decoded length = %d, want %d", len(pkt.Text), protocol.MaxMessageLen)
	}
}

// TestReadServerPacketShortStream verifies that truncated streams surface
// as transport errors, never as partial packets.
func TestReadServerPacketShortStream(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"empty stream", nil},
		{"message header only", []byte{5}},
		{"message payload cut short", []byte{5, 'h', 'e'}},
		{"game-control flag only", []byte{0}},
		{"game-control header cut short", []byte{0, 3}},
		{"game-control payload cut short", []byte{0, 3, 1, '_', '_'}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := protocol.ReadServerPacket(bytes.NewReader(tc.data))
			if err == nil {
				t.Fatal("expected error for short stream, got nil")
			}
			if errors.Is(err, protocol.ErrFrameTooLong) {
				t.Fatalf("short stream misclassified as protocol violation: %v", err)
			}
		})
	}
}

// TestReadServerPacketRejectsBadBoard verifies the receiver-side limits on
// game-control headers.
func TestReadServerPacketRejectsBadBoard(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"word length over ceiling", []byte{0, 9, 0}},
		{"zero word length", []byte{0, 0, 0}},
		{"incorrect count over cap", []byte{0, 3, 9}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := protocol.ReadServerPacket(bytes.NewReader(tc.data))
			if !errors.Is(err, protocol.ErrFrameTooLong) {
				t.Fatalf("err = %v, want ErrFrameTooLong", err)
			}
		})
	}
}

// TestReadStart verifies start-signal handling, including draining of
// pre-start noise frames.
func TestReadStart(t *testing.T) {
	t.Run("plain start signal", func(t *testing.T) {
		buf := bytes.NewReader([]byte{0})
		if err := protocol.ReadStart(buf); err != nil {
			t.Fatalf("ReadStart failed: %v", err)
		}
	})

	t.Run("noise frame before start", func(t *testing.T) {
		buf := bytes.NewReader([]byte{3, 'x', 'y', 'z', 0})
		if err := protocol.ReadStart(buf); err != nil {
			t.Fatalf("ReadStart failed: %v", err)
		}
	})

	t.Run("stream closed before start", func(t *testing.T) {
		if err := protocol.ReadStart(bytes.NewReader(nil)); err == nil {
			t.Fatal("expected error on closed stream, got nil")
		}
	})
}

// TestReadClientFrame covers well-formed guesses and the malformed-frame
// drain rule: the declared byte count is consumed exactly, so the next
// frame on the stream stays intact.
func TestReadClientFrame(t *testing.T) {
	t.Run("well-formed guess", func(t *testing.T) {
		frame, err := protocol.ReadClientFrame(bytes.NewReader([]byte{1, 'c'}))
		if err != nil {
			t.Fatalf("ReadClientFrame failed: %v", err)
		}
		if frame.Malformed || frame.Guess != 'c' {
			t.Errorf("frame = %+v, want guess 'c'", frame)
		}
	})

	t.Run("malformed frame preserves framing", func(t *testing.T) {
		// Declared length 3 with junk payload, followed by a valid guess.
		buf := bytes.NewReader([]byte{3, 'x', 'y', 'z', 1, 'a'})

		frame, err := protocol.ReadClientFrame(buf)
		if err != nil {
			t.Fatalf("ReadClientFrame failed: %v", err)
		}
		if !frame.Malformed {
			t.Fatal("expected malformed frame")
		}

		next, err := protocol.ReadClientFrame(buf)
		if err != nil {
			t.Fatalf("next ReadClientFrame failed: %v", err)
		}
		if next.Malformed || next.Guess != 'a' {
			t.Errorf("next frame = %+v, want guess 'a'", next)
		}
	})

	t.Run("zero-length frame is malformed with nothing to drain", func(t *testing.T) {
		frame, err := protocol.ReadClientFrame(bytes.NewReader([]byte{0}))
		if err != nil {
			t.Fatalf("ReadClientFrame failed: %v", err)
		}
		if !frame.Malformed {
			t.Fatal("expected malformed frame")
		}
	})

	t.Run("malformed frame cut short is a transport error", func(t *testing.T) {
		_, err := protocol.ReadClientFrame(bytes.NewReader([]byte{3, 'x'}))
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

// TestWireBytes pins the exact client→server encodings.
func TestWireBytes(t *testing.T) {
	var buf bytes.Buffer
	if err := protocol.WriteStart(&buf); err != nil {
		t.Fatalf("WriteStart failed: %v", err)
	}
	if err := protocol.WriteGuess(&buf, 'q'); err != nil {
		t.Fatalf("WriteGuess failed: %v", err)
	}
	want := []byte{0, 1, 'q'}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Errorf("wire bytes = %v, want %v", buf.Bytes(), want)
	}
}
