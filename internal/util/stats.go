package util

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Stats is the process-wide session counter set. Sessions are owned by
// independent goroutines, so every field is atomic.
var Stats = &stats{}

type stats struct {
	Active   atomic.Int64 // admitted connections currently open
	Played   atomic.Int64 // sessions that reached a start signal
	Won      atomic.Int64 // sessions finished in a win
	Lost     atomic.Int64 // sessions finished in a loss
	Rejected atomic.Int64 // connections refused by admission control
}

func (s *stats) ConnOpened()   { s.Active.Add(1) }
func (s *stats) ConnClosed()   { s.Active.Add(-1) }
func (s *stats) GameStarted()  { s.Played.Add(1) }
func (s *stats) WinRecorded()  { s.Won.Add(1) }
func (s *stats) LossRecorded() { s.Lost.Add(1) }
func (s *stats) ConnRejected() { s.Rejected.Add(1) }

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Active   int64 `json:"active"`
	Played   int64 `json:"played"`
	Won      int64 `json:"won"`
	Lost     int64 `json:"lost"`
	Rejected int64 `json:"rejected"`
}

// Snap reads all counters.
func (s *stats) Snap() Snapshot {
	return Snapshot{
		Active:   s.Active.Load(),
		Played:   s.Played.Load(),
		Won:      s.Won.Load(),
		Lost:     s.Lost.Load(),
		Rejected: s.Rejected.Load(),
	}
}

// StartStatsReporter launches a goroutine that logs session counters once a
// minute while they are changing. It stops when ctx is cancelled.
func StartStatsReporter(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		var prev Snapshot
		for {
			select {
			case <-ticker.C:
				cur := Stats.Snap()
				if cur != prev {
					log.Info().
						Int64("active", cur.Active).
						Int64("played", cur.Played).
						Int64("won", cur.Won).
						Int64("lost", cur.Lost).
						Int64("rejected", cur.Rejected).
						Msg("session stats")
					prev = cur
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
