package bridge_test

import (
	"errors"
	"testing"
	"time"

	"github.com/fuad-daoud/bot-dashboard/bridge"
	"github.com/fuad-daoud/bot-dashboard/bridge/bridgetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/context"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, opts ...bridge.Option) (*bridge.Service, *bridgetest.Gateway) {
	t.Helper()
	gateway := bridgetest.NewGateway()
	gateway.AddGuild(bridge.Guild{ID: "1", Name: "guild"})
	gateway.AddChannel(bridge.Channel{ID: "10", Name: "general", GuildID: "1", Text: true})
	gateway.AddChannel(bridge.Channel{ID: "11", Name: "Voice", GuildID: "1", Text: false})
	gateway.AddChannel(bridge.Channel{ID: "20", Name: "elsewhere", GuildID: "2", Text: true})
	opts = append([]bridge.Option{bridge.WithClock(func() time.Time { return now })}, opts...)
	return bridge.NewService(gateway, opts...), gateway
}

func TestStatus(t *testing.T) {
	service, gateway := newService(t)

	t.Run("starting", func(t *testing.T) {
		assert.Equal(t, bridge.Status{Status: "Bot is starting up", Uptime: "0 seconds "}, service.Status())
	})
	t.Run("online", func(t *testing.T) {
		gateway.SetSession(bridge.Session{State: bridge.StateOnline, ReadyAt: now.Add(-90 * time.Second)})
		assert.Equal(t, bridge.Status{Status: "Bot is online", Uptime: "1 minutes 30 seconds "}, service.Status())
	})
	t.Run("offline", func(t *testing.T) {
		gateway.SetSession(bridge.Session{State: bridge.StateOffline, ReadyAt: now.Add(-time.Hour)})
		assert.Equal(t, bridge.Status{Status: "Bot is offline", Uptime: "0 seconds "}, service.Status())
	})
}

func TestServers(t *testing.T) {
	service := bridge.NewService(bridgetest.NewGateway())
	servers := service.Servers()
	require.NotNil(t, servers)
	assert.Empty(t, servers)
}

func TestChannels(t *testing.T) {
	service, _ := newService(t)

	channels, err := service.Channels("1")
	require.NoError(t, err)
	assert.Equal(t, []bridge.Channel{{ID: "10", Name: "general", GuildID: "1", Text: true}}, channels)

	_, err = service.Channels("404")
	assert.ErrorIs(t, err, bridge.ErrNotFound)
}

func TestMessages(t *testing.T) {
	service, gateway := newService(t, bridge.WithTimeout(time.Second))
	message := bridge.Message{ID: "100", Content: "hi", Author: "alice", Timestamp: now}
	gateway.AddMessages("10", message)

	t.Run("unknown channel", func(t *testing.T) {
		_, err := service.Messages(context.Background(), "404")
		assert.ErrorIs(t, err, bridge.ErrNotFound)
	})
	t.Run("voice only channel", func(t *testing.T) {
		_, err := service.Messages(context.Background(), "11")
		assert.ErrorIs(t, err, bridge.ErrInvalidTarget)
	})
	t.Run("fetches with deadline", func(t *testing.T) {
		var hasDeadline bool
		gateway.FetchHook = func(ctx context.Context, channelID string) {
			_, hasDeadline = ctx.Deadline()
		}
		t.Cleanup(func() { gateway.FetchHook = nil })

		messages, err := service.Messages(context.Background(), "10")
		require.NoError(t, err)
		assert.Equal(t, []bridge.Message{message}, messages)
		assert.True(t, hasDeadline)
	})
	t.Run("empty channel", func(t *testing.T) {
		gateway.AddChannel(bridge.Channel{ID: "12", Name: "quiet", GuildID: "1", Text: true})
		messages, err := service.Messages(context.Background(), "12")
		require.NoError(t, err)
		assert.NotNil(t, messages)
		assert.Empty(t, messages)
	})
	t.Run("upstream failure", func(t *testing.T) {
		cause := errors.New("missing access")
		gateway.FetchErr = cause
		t.Cleanup(func() { gateway.FetchErr = nil })

		_, err := service.Messages(context.Background(), "10")
		assert.ErrorIs(t, err, bridge.ErrUpstream)
		assert.ErrorIs(t, err, cause)
	})
}

func TestSend(t *testing.T) {
	t.Run("sends once", func(t *testing.T) {
		service, gateway := newService(t)
		require.NoError(t, service.Send(context.Background(), "10", "hello"))
		assert.Equal(t, []bridgetest.Sent{{ChannelID: "10", Content: "hello"}}, gateway.Sent())
	})
	t.Run("rejects bad targets without calling out", func(t *testing.T) {
		service, gateway := newService(t)
		assert.ErrorIs(t, service.Send(context.Background(), "404", "hello"), bridge.ErrNotFound)
		assert.ErrorIs(t, service.Send(context.Background(), "11", "hello"), bridge.ErrInvalidTarget)
		assert.Empty(t, gateway.Sent())
	})
	t.Run("empty content is left to the platform", func(t *testing.T) {
		service, gateway := newService(t)
		gateway.SendErr = errors.New("cannot send an empty message")
		err := service.Send(context.Background(), "10", "")
		assert.ErrorIs(t, err, bridge.ErrUpstream)
		assert.Equal(t, []bridgetest.Sent{{ChannelID: "10", Content: ""}}, gateway.Sent())
	})
	t.Run("upstream failure is not retried", func(t *testing.T) {
		service, gateway := newService(t)
		gateway.SendErr = errors.New("boom")
		err := service.Send(context.Background(), "10", "hello")
		assert.ErrorIs(t, err, bridge.ErrUpstream)
		assert.Len(t, gateway.Sent(), 1)
	})
}
