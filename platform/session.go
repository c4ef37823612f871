package platform

import (
	"sync"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/fuad-daoud/bot-dashboard/bridge"
	"github.com/fuad-daoud/bot-dashboard/logger/dlog"
	"golang.org/x/net/context"
)

// Session owns the bot's gateway client. It is created once at startup and handed
// to everything that needs the cache or the REST API.
type Session struct {
	client bot.Client
	rest   rest.Rest

	m       sync.RWMutex
	readyAt time.Time
	failed  bool

	// gatewayReady reports whether the gateway connection is currently usable.
	gatewayReady func() bool
}

var _ bridge.Gateway = (*Session)(nil)

func New(token string) (*Session, error) {
	s := &Session{}
	client, err := disgo.New(token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentMessageContent,
			),
		),
		bot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagGuilds, cache.FlagChannels),
		),
		bot.WithEventListenerFunc(s.readyHandler),
		bot.WithEventListenerFunc(s.resumedHandler),
	)
	if err != nil {
		return nil, err
	}
	s.client = client
	s.rest = client.Rest()
	s.gatewayReady = func() bool {
		return client.HasGateway() && client.Gateway().Status() == gateway.StatusReady
	}
	return s, nil
}

// Open connects to the gateway. The cache fills in the background as guilds arrive.
// A failed open leaves the session offline.
func (s *Session) Open(ctx context.Context) error {
	if err := s.client.OpenGateway(ctx); err != nil {
		s.m.Lock()
		s.failed = true
		s.m.Unlock()
		return err
	}
	dlog.Info("gateway opened")
	return nil
}

func (s *Session) Close(ctx context.Context) {
	s.client.Close(ctx)
	dlog.Info("disgo close successfully")
}

func (s *Session) markReady(at time.Time) {
	s.m.Lock()
	defer s.m.Unlock()
	s.readyAt = at
	s.failed = false
}

func (s *Session) Session() bridge.Session {
	s.m.RLock()
	readyAt, failed := s.readyAt, s.failed
	s.m.RUnlock()

	switch {
	case failed:
		return bridge.Session{State: bridge.StateOffline, ReadyAt: readyAt}
	case readyAt.IsZero():
		return bridge.Session{State: bridge.StateStarting}
	case s.gatewayReady():
		return bridge.Session{State: bridge.StateOnline, ReadyAt: readyAt}
	default:
		return bridge.Session{State: bridge.StateOffline, ReadyAt: readyAt}
	}
}

func (s *Session) Guilds() []bridge.Guild {
	var guilds []discord.Guild
	s.client.Caches().GuildsForEach(func(guild discord.Guild) {
		guilds = append(guilds, guild)
	})
	return toGuilds(guilds)
}

func (s *Session) Guild(id string) (bridge.Guild, bool) {
	guildID, err := snowflake.Parse(id)
	if err != nil {
		return bridge.Guild{}, false
	}
	guild, ok := s.client.Caches().Guild(guildID)
	if !ok {
		return bridge.Guild{}, false
	}
	return toGuild(guild), true
}

func (s *Session) Channels(guildID string) []bridge.Channel {
	id, err := snowflake.Parse(guildID)
	if err != nil {
		return nil
	}
	var channels []discord.GuildChannel
	s.client.Caches().ChannelsForEach(func(channel discord.GuildChannel) {
		if channel.GuildID() == id {
			channels = append(channels, channel)
		}
	})
	return toChannels(channels)
}

func (s *Session) Channel(id string) (bridge.Channel, bool) {
	channelID, err := snowflake.Parse(id)
	if err != nil {
		return bridge.Channel{}, false
	}
	channel, ok := s.client.Caches().Channel(channelID)
	if !ok {
		return bridge.Channel{}, false
	}
	return toChannel(channel), true
}

// Messages fetches the newest messages of a channel, newest first.
func (s *Session) Messages(ctx context.Context, channelID string, limit int) ([]bridge.Message, error) {
	id, err := snowflake.Parse(channelID)
	if err != nil {
		return nil, err
	}
	messages, err := s.rest.GetMessages(id, 0, 0, 0, limit, rest.WithCtx(ctx))
	if err != nil {
		return nil, err
	}
	return toMessages(messages), nil
}

func (s *Session) SendMessage(ctx context.Context, channelID string, content string) error {
	id, err := snowflake.Parse(channelID)
	if err != nil {
		return err
	}
	message, err := s.rest.CreateMessage(id, discord.MessageCreate{Content: content}, rest.WithCtx(ctx))
	if err != nil {
		return err
	}
	dlog.Info("Created message", "ID", message.ID, "channel", id)
	return nil
}
