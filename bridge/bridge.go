// Package bridge translates dashboard requests into reads of the bot's gateway
// cache and single outbound platform calls.
package bridge

import (
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/net/context"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidTarget = errors.New("channel is not text based")
	ErrUpstream      = errors.New("platform call failed")
)

type SessionState int

const (
	StateStarting SessionState = iota
	StateOnline
	StateOffline
)

func (s SessionState) String() string {
	switch s {
	case StateStarting:
		return "Bot is starting up"
	case StateOnline:
		return "Bot is online"
	default:
		return "Bot is offline"
	}
}

// Session is a snapshot of the bot's connection. ReadyAt is zero until the first
// Ready event.
type Session struct {
	State   SessionState
	ReadyAt time.Time
}

type Guild struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Channel struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	GuildID string `json:"-"`
	Text    bool   `json:"-"`
}

type Message struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	Author       string    `json:"author"`
	AuthorAvatar string    `json:"authorAvatar"`
	Timestamp    time.Time `json:"timestamp"`
}

// TimestampFormat is how message times go over the wire: UTC, millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

func (m Message) MarshalJSON() ([]byte, error) {
	type message Message
	return json.Marshal(struct {
		message
		Timestamp string `json:"timestamp"`
	}{
		message:   message(m),
		Timestamp: m.Timestamp.UTC().Format(TimestampFormat),
	})
}

type Status struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// Gateway is the read side of the gateway cache plus the two outbound calls the
// dashboard needs. Implementations must be safe for concurrent use.
type Gateway interface {
	Session() Session
	Guilds() []Guild
	Guild(id string) (Guild, bool)
	Channels(guildID string) []Channel
	Channel(id string) (Channel, bool)
	Messages(ctx context.Context, channelID string, limit int) ([]Message, error)
	SendMessage(ctx context.Context, channelID string, content string) error
}
