package bridge

import (
	"fmt"
	"time"

	"golang.org/x/net/context"
)

// MessageFetchLimit is the most messages a single fetch asks the platform for.
const MessageFetchLimit = 100

type Service struct {
	gateway Gateway
	timeout time.Duration
	now     func() time.Time
}

type Option func(s *Service)

// WithTimeout bounds every outbound platform call. Zero leaves calls bounded only
// by the caller's context.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.timeout = timeout
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(gateway Gateway, opts ...Option) *Service {
	s := &Service{
		gateway: gateway,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Status() Status {
	session := s.gateway.Session()
	var uptime time.Duration
	if session.State == StateOnline && !session.ReadyAt.IsZero() {
		uptime = s.now().Sub(session.ReadyAt)
	}
	return Status{
		Status: session.State.String(),
		Uptime: FormatUptime(uptime.Milliseconds()),
	}
}

func (s *Service) Servers() []Guild {
	guilds := s.gateway.Guilds()
	if guilds == nil {
		return []Guild{}
	}
	return guilds
}

// Channels returns the text based channels of a cached guild.
func (s *Service) Channels(guildID string) ([]Channel, error) {
	if _, ok := s.gateway.Guild(guildID); !ok {
		return nil, fmt.Errorf("guild %q: %w", guildID, ErrNotFound)
	}
	channels := []Channel{}
	for _, channel := range s.gateway.Channels(guildID) {
		if channel.Text {
			channels = append(channels, channel)
		}
	}
	return channels, nil
}

func (s *Service) Messages(ctx context.Context, channelID string) ([]Message, error) {
	if err := s.textChannel(channelID); err != nil {
		return nil, err
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	messages, err := s.gateway.Messages(ctx, channelID, MessageFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch messages from %q: %w: %w", channelID, ErrUpstream, err)
	}
	if messages == nil {
		return []Message{}, nil
	}
	return messages, nil
}

// Send posts content to a text channel. Every call produces a new message. The
// platform decides whether content is acceptable.
func (s *Service) Send(ctx context.Context, channelID string, content string) error {
	if err := s.textChannel(channelID); err != nil {
		return err
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	if err := s.gateway.SendMessage(ctx, channelID, content); err != nil {
		return fmt.Errorf("send message to %q: %w: %w", channelID, ErrUpstream, err)
	}
	return nil
}

func (s *Service) textChannel(channelID string) error {
	channel, ok := s.gateway.Channel(channelID)
	if !ok {
		return fmt.Errorf("channel %q: %w", channelID, ErrNotFound)
	}
	if !channel.Text {
		return fmt.Errorf("channel %q: %w", channelID, ErrInvalidTarget)
	}
	return nil
}

func (s *Service) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
