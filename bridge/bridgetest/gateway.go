// Package bridgetest provides an in-memory bridge.Gateway for tests.
package bridgetest

import (
	"sync"

	"github.com/fuad-daoud/bot-dashboard/bridge"
	"golang.org/x/net/context"
)

type Sent struct {
	ChannelID string
	Content   string
}

type Gateway struct {
	mu       sync.RWMutex
	session  bridge.Session
	guilds   []bridge.Guild
	channels []bridge.Channel
	messages map[string][]bridge.Message
	sent     []Sent

	FetchErr error
	SendErr  error
	// FetchHook runs before Messages returns, with the call's context.
	FetchHook func(ctx context.Context, channelID string)
}

func NewGateway() *Gateway {
	return &Gateway{messages: make(map[string][]bridge.Message)}
}

func (g *Gateway) SetSession(session bridge.Session) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.session = session
}

func (g *Gateway) AddGuild(guild bridge.Guild) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.guilds = append(g.guilds, guild)
}

func (g *Gateway) AddChannel(channel bridge.Channel) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.channels = append(g.channels, channel)
}

func (g *Gateway) AddMessages(channelID string, messages ...bridge.Message) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.messages[channelID] = append(g.messages[channelID], messages...)
}

func (g *Gateway) Sent() []Sent {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Sent(nil), g.sent...)
}

func (g *Gateway) Session() bridge.Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session
}

func (g *Gateway) Guilds() []bridge.Guild {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]bridge.Guild(nil), g.guilds...)
}

func (g *Gateway) Guild(id string) (bridge.Guild, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, guild := range g.guilds {
		if guild.ID == id {
			return guild, true
		}
	}
	return bridge.Guild{}, false
}

func (g *Gateway) Channels(guildID string) []bridge.Channel {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var channels []bridge.Channel
	for _, channel := range g.channels {
		if channel.GuildID == guildID {
			channels = append(channels, channel)
		}
	}
	return channels
}

func (g *Gateway) Channel(id string) (bridge.Channel, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, channel := range g.channels {
		if channel.ID == id {
			return channel, true
		}
	}
	return bridge.Channel{}, false
}

func (g *Gateway) Messages(ctx context.Context, channelID string, limit int) ([]bridge.Message, error) {
	if g.FetchHook != nil {
		g.FetchHook(ctx, channelID)
	}
	if g.FetchErr != nil {
		return nil, g.FetchErr
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	messages := g.messages[channelID]
	if len(messages) > limit {
		messages = messages[:limit]
	}
	return append([]bridge.Message(nil), messages...), nil
}

func (g *Gateway) SendMessage(ctx context.Context, channelID string, content string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, Sent{ChannelID: channelID, Content: content})
	return g.SendErr
}
