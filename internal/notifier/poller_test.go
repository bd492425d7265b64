package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/suspectuso/airdrop-bot/internal/binance"
	"github.com/suspectuso/airdrop-bot/internal/storage"
)

func airdrop(id, status string) binance.Airdrop {
	return binance.Airdrop{ConfigID: id, ConfigName: "drop " + id, Status: status}
}

func byID(id string) interface{} {
	return mock.MatchedBy(func(a binance.Airdrop) bool { return a.ConfigID == id })
}

func TestCycleAnnouncesActiveAndSkipsEnded(t *testing.T) {
	src := &mockSource{}
	src.On("FetchAirdrops", mock.Anything).
		Return([]binance.Airdrop{airdrop("A", "active"), airdrop("B", "ended")}, nil)

	dl := &mockDeliverer{}
	dl.On("Deliver", mock.Anything, byID("A")).Return(Outcome{PrimarySucceeded: true}).Once()

	seen := storage.NewSeenSet(0)
	p := NewPoller(src, dl, seen, time.Second, discardLogger())
	p.Cycle(context.Background())

	dl.AssertExpectations(t)
	dl.AssertNumberOfCalls(t, "Deliver", 1)
	assert.Equal(t, 1, seen.Len())
	assert.False(t, seen.IsNovel("A"))
	assert.True(t, seen.IsNovel("B"))
}

func TestCycleIsIdempotentAcrossPolls(t *testing.T) {
	src := &mockSource{}
	src.On("FetchAirdrops", mock.Anything).Return([]binance.Airdrop{airdrop("A", "active")}, nil)

	dl := &mockDeliverer{}
	dl.On("Deliver", mock.Anything, byID("A")).Return(Outcome{PrimarySucceeded: true})

	p := NewPoller(src, dl, storage.NewSeenSet(0), time.Second, discardLogger())
	p.Cycle(context.Background())
	p.Cycle(context.Background())
	p.Cycle(context.Background())

	dl.AssertNumberOfCalls(t, "Deliver", 1)
	assert.Equal(t, int64(1), p.Stats().Announced)
	assert.Equal(t, int64(3), p.Stats().Cycles)
}

func TestCycleRetriesWhenPrimaryFails(t *testing.T) {
	src := &mockSource{}
	src.On("FetchAirdrops", mock.Anything).Return([]binance.Airdrop{airdrop("A", "active")}, nil)

	dl := &mockDeliverer{}
	dl.On("Deliver", mock.Anything, byID("A")).Return(Outcome{PrimarySucceeded: false}).Once()
	dl.On("Deliver", mock.Anything, byID("A")).Return(Outcome{PrimarySucceeded: true}).Once()

	seen := storage.NewSeenSet(0)
	p := NewPoller(src, dl, seen, time.Second, discardLogger())

	p.Cycle(context.Background())
	assert.True(t, seen.IsNovel("A"))
	assert.Equal(t, int64(1), p.Stats().FailedSends)

	p.Cycle(context.Background())
	assert.False(t, seen.IsNovel("A"))
	dl.AssertNumberOfCalls(t, "Deliver", 2)
}

func TestCycleSideFailureStillMarksSeen(t *testing.T) {
	src := &mockSource{}
	src.On("FetchAirdrops", mock.Anything).Return([]binance.Airdrop{airdrop("A", "active")}, nil)

	tg := newMockChannel("telegram")
	tg.On("Send", mock.Anything, mock.Anything).Return(nil)
	wx := newMockChannel("wechat")
	wx.On("Send", mock.Anything, mock.Anything).Return(errors.New("always failing"))

	seen := storage.NewSeenSet(0)
	d := NewDispatcher(tg, []Channel{wx}, NewFormatter(utc8), time.Second, discardLogger())
	p := NewPoller(src, d, seen, time.Second, discardLogger())

	p.Cycle(context.Background())
	p.Cycle(context.Background())

	assert.False(t, seen.IsNovel("A"))
	tg.AssertNumberOfCalls(t, "Send", 1)
	wx.AssertNumberOfCalls(t, "Send", 1)
}

func TestCycleFetchFailureIsNoop(t *testing.T) {
	src := &mockSource{}
	src.On("FetchAirdrops", mock.Anything).Return(nil, errors.New("connection refused"))

	dl := &mockDeliverer{}
	seen := storage.NewSeenSet(0)
	p := NewPoller(src, dl, seen, time.Second, discardLogger())
	p.Cycle(context.Background())

	dl.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
	assert.Equal(t, 0, seen.Len())

	stats := p.Stats()
	assert.Equal(t, int64(1), stats.FetchFailures)
	assert.Equal(t, "connection refused", stats.LastError)
	assert.False(t, stats.LastPollAt.IsZero())
}

func TestCycleDeliversInResponseOrder(t *testing.T) {
	src := &mockSource{}
	src.On("FetchAirdrops", mock.Anything).
		Return([]binance.Airdrop{airdrop("1", "active"), airdrop("2", "upcoming"), airdrop("3", "active")}, nil)

	var order []string
	dl := &mockDeliverer{}
	dl.On("Deliver", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			order = append(order, args.Get(1).(binance.Airdrop).ConfigID)
		}).
		Return(Outcome{PrimarySucceeded: true})

	p := NewPoller(src, dl, storage.NewSeenSet(0), time.Second, discardLogger())
	p.Cycle(context.Background())

	assert.Equal(t, []string{"1", "2", "3"}, order)
}

func TestRunStopsOnCancel(t *testing.T) {
	src := &mockSource{}
	src.On("FetchAirdrops", mock.Anything).Return([]binance.Airdrop{}, nil)

	p := NewPoller(src, &mockDeliverer{}, storage.NewSeenSet(0), 10*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return p.Stats().Cycles >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop")
	}
}
