package platform

import (
	"cmp"
	"slices"

	"github.com/disgoorg/disgo/discord"
	"github.com/fuad-daoud/bot-dashboard/bridge"
)

func toGuild(guild discord.Guild) bridge.Guild {
	return bridge.Guild{ID: guild.ID.String(), Name: guild.Name}
}

// toGuilds sorts by id so the cache's map order never leaks into responses.
func toGuilds(guilds []discord.Guild) []bridge.Guild {
	slices.SortFunc(guilds, func(a, b discord.Guild) int {
		return cmp.Compare(a.ID, b.ID)
	})
	result := make([]bridge.Guild, 0, len(guilds))
	for _, guild := range guilds {
		result = append(result, toGuild(guild))
	}
	return result
}

// isTextBased matches every channel a message can be posted in, voice channel
// text chat and threads included.
func isTextBased(channel discord.GuildChannel) bool {
	_, ok := channel.(discord.GuildMessageChannel)
	return ok
}

func toChannel(channel discord.GuildChannel) bridge.Channel {
	return bridge.Channel{
		ID:      channel.ID().String(),
		Name:    channel.Name(),
		GuildID: channel.GuildID().String(),
		Text:    isTextBased(channel),
	}
}

// toChannels orders channels the way the client sidebar does: by position, then id.
func toChannels(channels []discord.GuildChannel) []bridge.Channel {
	slices.SortFunc(channels, func(a, b discord.GuildChannel) int {
		if c := cmp.Compare(a.Position(), b.Position()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID(), b.ID())
	})
	result := make([]bridge.Channel, 0, len(channels))
	for _, channel := range channels {
		result = append(result, toChannel(channel))
	}
	return result
}

func toMessage(message discord.Message) bridge.Message {
	return bridge.Message{
		ID:           message.ID.String(),
		Content:      message.Content,
		Author:       message.Author.Username,
		AuthorAvatar: message.Author.EffectiveAvatarURL(),
		Timestamp:    message.CreatedAt,
	}
}

func toMessages(messages []discord.Message) []bridge.Message {
	result := make([]bridge.Message, 0, len(messages))
	for _, message := range messages {
		result = append(result, toMessage(message))
	}
	return result
}
