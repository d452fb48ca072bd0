package tui

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/anyproto/remo-tui/internal/source"
)

// Options tune a dashboard session
type Options struct {
	// TickRate is the heartbeat interval; zero means 200ms
	TickRate time.Duration
	Logger   *zap.Logger
}

// Run sets up the terminal, fetches the appliance list from src and runs
// the dashboard until the user quits or ctx is cancelled. The terminal is
// restored before Run returns on every path.
func Run(ctx context.Context, t Terminal, src source.Source, opts Options) (err error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tickRate := opts.TickRate
	if tickRate <= 0 {
		tickRate = 200 * time.Millisecond
	}

	defer func() {
		if cerr := t.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := t.EnableRawMode(); err != nil {
		return err
	}
	if err := t.EnterAltScreen(); err != nil {
		return fmt.Errorf("entering alternate screen: %w", err)
	}
	input, err := t.Input()
	if err != nil {
		return err
	}

	appliances, err := src.FetchAppliances(ctx)
	if err != nil {
		return fmt.Errorf("fetching appliances from %s: %w", src.Name(), err)
	}
	logger.Info("Fetched appliances",
		zap.String("source", src.Name()),
		zap.Int("count", len(appliances)),
	)

	loop, err := NewLoop(t, NewState(appliances), DefaultViews(), logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	msgs := make(chan Message)
	done := make(chan struct{})
	go func() {
		defer close(done)
		NewSampler(input, tickRate, logger).Run(ctx, msgs)
	}()

	err = loop.Run(ctx, msgs)
	cancel()
	<-done
	return err
}
