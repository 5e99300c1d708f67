// Package words loads the word list and picks secrets from it.
//
// The list is built once at startup and never mutated afterwards, so it can
// be shared read-only across all session goroutines. Loading filters the
// file the same way the protocol constrains the game: lowercase alphabetic
// words of 1-8 letters, anything else skipped.
package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/mkrenn/hangman/internal/protocol"
)

// maxWords bounds the list size; extra lines are ignored.
const maxWords = 1024

// ErrEmptyWordList means no usable word survived loading, or a List was
// constructed with zero entries. Fatal for the caller.
var ErrEmptyWordList = errors.New("word list is empty")

// List is an immutable set of candidate words.
type List struct {
	words []string
}

// Load reads one candidate word per line from path, normalizes to
// lowercase, and drops empty lines, words with non-alphabetic characters,
// and words longer than the protocol ceiling.
func Load(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() && len(out) < maxWords {
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if !valid(w) {
			continue
		}
		out = append(out, w)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyWordList)
	}
	return &List{words: out}, nil
}

// NewList wraps a pre-validated slice, mainly for tests.
func NewList(words []string) (*List, error) {
	if len(words) == 0 {
		return nil, ErrEmptyWordList
	}
	out := make([]string, len(words))
	copy(out, words)
	return &List{words: out}, nil
}

// Len reports the number of candidates.
func (l *List) Len() int { return len(l.words) }

// Pick returns one word chosen uniformly at random.
func (l *List) Pick() (string, error) {
	if len(l.words) == 0 {
		return "", ErrEmptyWordList
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(l.words))))
	if err != nil {
		return "", fmt.Errorf("pick word: %w", err)
	}
	return l.words[n.Int64()], nil
}

func valid(w string) bool {
	if len(w) == 0 || len(w) > protocol.MaxWordLen {
		return false
	}
	for _, r := range w {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
