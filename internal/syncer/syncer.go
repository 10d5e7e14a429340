// internal/syncer/syncer.go
package syncer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/apex/log"

	"github.com/tamzrod/bot-status/internal/bot"
	"github.com/tamzrod/bot-status/internal/poller"
	"github.com/tamzrod/bot-status/internal/status"
)

// Sink receives the bot's status report after every successful sync.
type Sink interface {
	Publish(snap status.Snapshot) error
}

// Syncer applies poll results to the bot's cache and storage.
// Handle must be called from one goroutine.
type Syncer struct {
	bot    *bot.Bot
	sinks  []Sink
	logger *log.Entry

	failures atomic.Int64
}

func New(b *bot.Bot, sinks ...Sink) *Syncer {
	return &Syncer{
		bot:    b,
		sinks:  sinks,
		logger: log.WithField("module", "syncer").WithField("bot", b.ID()),
	}
}

// Failures returns the number of consecutive failed poll cycles.
func (s *Syncer) Failures() int64 {
	return s.failures.Load()
}

// Handle processes one poll result.
// A failed cycle leaves the cache and last sync untouched.
func (s *Syncer) Handle(res poller.PollResult) error {
	if res.Err != nil {
		n := s.failures.Add(1)
		s.logger.WithError(res.Err).Warnf("sync failed (consecutive=%d)", n)
		return res.Err
	}

	if n := s.failures.Swap(0); n > 0 {
		s.logger.Infof("sync recovered after %d failures", n)
	}

	prev, synced := s.bot.Cache().Current()
	s.bot.Cache().Apply(res.Update)

	var errs []string

	u := res.Update
	if u.CommandCode != 0 && (!synced || prev.CommandCode != u.CommandCode) {
		cmd := status.Command{Name: u.Command, At: res.At}
		if err := s.bot.Store().AppendCommand(cmd); err != nil {
			errs = append(errs, err.Error())
		} else {
			s.logger.Debugf("command %s", u.Command)
		}
	}

	if err := s.bot.Persist(); err != nil {
		errs = append(errs, err.Error())
	}

	if err := s.bot.Store().MarkSynced(res.At); err != nil {
		errs = append(errs, err.Error())
	}

	if len(s.sinks) > 0 {
		snap, err := s.bot.Report()
		if err != nil {
			errs = append(errs, fmt.Sprintf("report: %v", err))
		} else {
			for _, sink := range s.sinks {
				if err := sink.Publish(snap); err != nil {
					errs = append(errs, fmt.Sprintf("publish: %v", err))
				}
			}
		}
	}

	if len(errs) > 0 {
		return errors.New("syncer: " + strings.Join(errs, " | "))
	}
	return nil
}

// Run consumes poll results until ctx is done.
func (s *Syncer) Run(ctx context.Context, in <-chan poller.PollResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case res := <-in:
			if err := s.Handle(res); err != nil && res.Err == nil {
				s.logger.WithError(err).Error("sync bookkeeping failed")
			}
		}
	}
}
