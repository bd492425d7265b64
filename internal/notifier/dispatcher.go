package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/suspectuso/airdrop-bot/internal/binance"
)

// Channel delivers plain text to one destination
type Channel interface {
	Name() string
	Send(ctx context.Context, text string) error
}

// DeliveryError is a failed send on a single channel
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver to %s: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Outcome is the joined result of one fan-out.
// Only PrimarySucceeded is meant to drive seen-state.
type Outcome struct {
	PrimarySucceeded bool
	Failures         []*DeliveryError
}

// Dispatcher fans a message out to the primary channel and every side channel
type Dispatcher struct {
	primary     Channel
	sides       []Channel
	format      *Formatter
	sendTimeout time.Duration
	log         *slog.Logger
}

// NewDispatcher creates a new Dispatcher. Side channels that are nil or report
// Enabled() == false are dropped here and never attempted.
func NewDispatcher(primary Channel, sides []Channel, format *Formatter, sendTimeout time.Duration, log *slog.Logger) *Dispatcher {
	active := make([]Channel, 0, len(sides))
	for _, ch := range sides {
		if !enabled(ch) {
			continue
		}
		active = append(active, ch)
	}

	return &Dispatcher{
		primary:     primary,
		sides:       active,
		format:      format,
		sendTimeout: sendTimeout,
		log:         log,
	}
}

// Channels returns the names of all enabled channels, primary first
func (d *Dispatcher) Channels() []string {
	names := []string{d.primary.Name()}
	for _, ch := range d.sides {
		names = append(names, ch.Name())
	}
	return names
}

// Deliver renders the announcement once and broadcasts it
func (d *Dispatcher) Deliver(ctx context.Context, a binance.Airdrop) Outcome {
	text := d.format.Announcement(a)
	out := d.Broadcast(ctx, text)

	if out.PrimarySucceeded {
		d.log.Info("airdrop announced", "config_id", a.ConfigID, "name", a.ConfigName, "side_failures", len(out.Failures))
	}
	return out
}

// Broadcast sends text to all channels concurrently and waits for every send.
// Each send runs under its own timeout; a failure on one channel never touches another.
func (d *Dispatcher) Broadcast(ctx context.Context, text string) Outcome {
	channels := append([]Channel{d.primary}, d.sides...)
	errs := make([]error, len(channels))

	var wg sync.WaitGroup
	for i, ch := range channels {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = d.send(ctx, ch, text)
		}()
	}
	wg.Wait()

	out := Outcome{PrimarySucceeded: errs[0] == nil}
	for i, err := range errs {
		if err == nil {
			continue
		}
		derr := &DeliveryError{Channel: channels[i].Name(), Err: err}
		out.Failures = append(out.Failures, derr)
		d.log.Error("send notification", "channel", derr.Channel, "primary", i == 0, "error", err)
	}
	return out
}

// send returns once the channel answers or the timeout fires, whichever is first.
// A channel that ignores ctx keeps running in the background but no longer blocks the caller.
func (d *Dispatcher) send(ctx context.Context, ch Channel, text string) error {
	if d.sendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.sendTimeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("panic: %v", r)
			}
		}()
		done <- ch.Send(ctx, text)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// toggle is implemented by channels whose configuration may be absent
type toggle interface {
	Enabled() bool
}

func enabled(ch Channel) bool {
	if ch == nil {
		return false
	}
	if t, ok := ch.(toggle); ok {
		return t.Enabled()
	}
	return true
}
