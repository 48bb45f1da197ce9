package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// User identifies an actor on the chat platform.
type User struct {
	ID        string
	Username  string
	AvatarURL string
}

// Message is the handle returned for an outbound send.
type Message struct {
	ID        string
	ChannelID string
}

// InboundMessage is a direct message received from a user.
type InboundMessage struct {
	ID        string
	ChannelID string
	Author    User
	Content   string
}

// Gateway is the capability set the bot consumes from the chat platform.
// Callers depend only on these operations succeeding or failing, not on
// platform-specific semantics.
type Gateway interface {
	// SendMessage posts plain content to a channel or thread.
	SendMessage(ctx context.Context, channelID, content string) (*Message, error)
	// SendEmbed posts a rich embed to a channel or thread.
	SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) (*Message, error)
	// SendAnnouncement posts content plus an embed in one message.
	SendAnnouncement(ctx context.Context, channelID, content string, embed *discordgo.MessageEmbed) (*Message, error)
	// CreateThread starts a thread under an existing message.
	CreateThread(ctx context.Context, channelID, messageID, name string) (threadID string, err error)
	// EditEmbed replaces the embed on an existing message.
	EditEmbed(ctx context.Context, channelID, messageID string, embed *discordgo.MessageEmbed) error
	// CreateDM opens (or reuses) the DM channel to a user.
	CreateDM(ctx context.Context, userID string) (channelID string, err error)
	// ArchiveThread archives a thread.
	ArchiveThread(ctx context.Context, threadID string) error
	// React applies an emoji reaction to a message.
	React(ctx context.Context, channelID, messageID, emoji string) error
}
