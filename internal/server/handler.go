package server

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkrenn/hangman/internal/game"
	"github.com/mkrenn/hangman/internal/protocol"
	"github.com/mkrenn/hangman/internal/store"
	"github.com/mkrenn/hangman/internal/util"
)

// handle runs the complete session state machine for one connection:
// welcome → await start → board exchange → guess loop → verdict. Any
// transport error abandons the session; other sessions are unaffected.
func (s *Server) handle(ctx context.Context, conn net.Conn) {
	logger := log.With().
		Uint32("conn", util.ConnID(conn)).
		Str("remote", conn.RemoteAddr().String()).
		Logger()

	if err := protocol.WriteMessage(conn, protocol.MsgWelcome); err != nil {
		logger.Debug().Err(err).Msg("welcome failed")
		return
	}

	// The client may close instead of starting; that is a normal exit.
	if err := protocol.ReadStart(conn); err != nil {
		if !errors.Is(err, io.EOF) {
			logger.Debug().Err(err).Msg("connection lost before start")
		}
		return
	}

	word, err := s.list.Pick()
	if err != nil {
		logger.Error().Err(err).Msg("word selection failed")
		return
	}
	sess, err := game.New(word)
	if err != nil {
		logger.Error().Err(err).Msg("session init failed")
		return
	}
	sess.Start()
	util.Stats.GameStarted()

	logger = logger.With().Str("session", sess.ID()).Logger()
	logger.Info().Int("word_len", len(word)).Msg("game started")

	if err := protocol.WriteGameControl(conn, sess.Masked(), sess.Incorrect()); err != nil {
		logger.Error().Err(err).Msg("initial board failed")
		return
	}

	s.guessLoop(ctx, conn, sess, logger)
}

// guessLoop processes guesses one at a time: each guess is fully applied
// and answered before the next frame is read.
func (s *Server) guessLoop(ctx context.Context, conn net.Conn, sess *game.Session, logger zerolog.Logger) {
	for sess.Status() == game.StatusPlaying {
		frame, err := protocol.ReadClientFrame(conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Info().Msg("client left mid-game")
			} else {
				logger.Error().Err(err).Msg("session read failed")
			}
			s.record(ctx, sess, store.OutcomeAbandoned, logger)
			return
		}
		if frame.Malformed {
			// Frame already drained; the session continues unaffected.
			logger.Debug().Msg("malformed guess frame discarded")
			continue
		}

		event, err := sess.Guess(frame.Guess)
		if err != nil {
			logger.Error().Err(err).Msg("guess rejected")
			return
		}

		switch event {
		case game.EventWon:
			util.Stats.WinRecorded()
			logger.Info().Str("outcome", "won").Msg("game over")
			s.finish(ctx, conn, sess, protocol.MsgWin, store.OutcomeWon, logger)
			return
		case game.EventLost:
			util.Stats.LossRecorded()
			logger.Info().Str("outcome", "lost").
				Int("incorrect", len(sess.Incorrect())).Msg("game over")
			s.finish(ctx, conn, sess, protocol.MsgLose, store.OutcomeLost, logger)
			return
		default:
			// NoChange, Revealed, Miss: answer with the (possibly unchanged) board.
			if err := protocol.WriteGameControl(conn, sess.Masked(), sess.Incorrect()); err != nil {
				logger.Error().Err(err).Msg("board update failed")
				s.record(ctx, sess, store.OutcomeAbandoned, logger)
				return
			}
		}
	}
}

// finish sends the terminal message sequence: reveal, verdict, "Game Over!".
func (s *Server) finish(ctx context.Context, conn net.Conn, sess *game.Session, verdict, outcome string, logger zerolog.Logger) {
	for _, msg := range []string{sess.Reveal(), verdict, protocol.MsgGameOver} {
		if err := protocol.WriteMessage(conn, msg); err != nil {
			logger.Debug().Err(err).Msg("final message failed")
			break
		}
	}
	s.record(ctx, sess, outcome, logger)
}

// record persists the result when a store is configured. Best effort: a
// store failure is logged and the session ends normally.
func (s *Server) record(ctx context.Context, sess *game.Session, outcome string, logger zerolog.Logger) {
	if s.rec == nil {
		return
	}
	res := store.Result{
		Word:      sess.Word(),
		Outcome:   outcome,
		Incorrect: len(sess.Incorrect()),
	}
	if err := s.rec.Record(ctx, res); err != nil {
		logger.Warn().Err(err).Msg("result not recorded")
	}
}
