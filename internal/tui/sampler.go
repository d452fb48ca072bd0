package tui

import (
	"context"
	"errors"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// KeySource is polled by the Sampler for terminal input
type KeySource interface {
	// Poll waits up to timeout for the next key. ok is false when the
	// timeout elapsed without input. A non-nil error ends sampling.
	Poll(timeout time.Duration) (k tea.Key, ok bool, err error)
}

// Sampler turns a KeySource into a stream of key and tick messages
type Sampler struct {
	source   KeySource
	tickRate time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewSampler creates a sampler emitting a tick every tickRate
func NewSampler(source KeySource, tickRate time.Duration, logger *zap.Logger) *Sampler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{
		source:   source,
		tickRate: tickRate,
		logger:   logger,
		now:      time.Now,
	}
}

// Run samples until ctx is cancelled or the source fails, then closes out.
// Keys are forwarded as soon as they arrive; a tick is forwarded whenever
// tickRate has elapsed since the previous one, so a key waits at most
// tickRate to be delivered.
func (s *Sampler) Run(ctx context.Context, out chan<- Message) {
	defer close(out)

	send := func(msg Message) bool {
		select {
		case out <- msg:
			return true
		case <-ctx.Done():
			return false
		}
	}

	lastTick := s.now()
	for {
		if ctx.Err() != nil {
			return
		}

		timeout := s.tickRate - s.now().Sub(lastTick)
		if timeout < 0 {
			timeout = 0
		}

		k, ok, err := s.source.Poll(timeout)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed")
			} else {
				s.logger.Error("Polling input failed", zap.Error(err))
			}
			return
		}

		if ok && !send(KeyMessage{Key: k}) {
			return
		}

		if now := s.now(); now.Sub(lastTick) >= s.tickRate {
			if !send(TickMessage{At: now}) {
				return
			}
			lastTick = s.now()
		}
	}
}
