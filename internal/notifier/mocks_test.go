package notifier

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/suspectuso/airdrop-bot/internal/binance"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockChannel struct {
	mock.Mock
	name string
}

func newMockChannel(name string) *mockChannel {
	return &mockChannel{name: name}
}

func (m *mockChannel) Name() string { return m.name }

func (m *mockChannel) Send(ctx context.Context, text string) error {
	args := m.Called(ctx, text)
	return args.Error(0)
}

// disabledChannel mimics a side channel without a configured target
type disabledChannel struct {
	mockChannel
}

func (d *disabledChannel) Enabled() bool { return false }

type mockSource struct {
	mock.Mock
}

func (m *mockSource) FetchAirdrops(ctx context.Context) ([]binance.Airdrop, error) {
	args := m.Called(ctx)
	airdrops, _ := args.Get(0).([]binance.Airdrop)
	return airdrops, args.Error(1)
}

type mockDeliverer struct {
	mock.Mock
}

func (m *mockDeliverer) Deliver(ctx context.Context, a binance.Airdrop) Outcome {
	args := m.Called(ctx, a)
	return args.Get(0).(Outcome)
}
