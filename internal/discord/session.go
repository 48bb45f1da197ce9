package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
)

// Session adapts a discordgo session to the Gateway capability set.
type Session struct {
	s *discordgo.Session
}

// NewSession wraps an established discordgo session.
func NewSession(s *discordgo.Session) *Session {
	return &Session{s: s}
}

// Raw exposes the underlying session for event handler registration.
func (g *Session) Raw() *discordgo.Session {
	return g.s
}

// SendMessage posts plain content to a channel or thread.
func (g *Session) SendMessage(ctx context.Context, channelID, content string) (*Message, error) {
	msg, err := g.s.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return &Message{ID: msg.ID, ChannelID: msg.ChannelID}, nil
}

// SendEmbed posts a rich embed to a channel or thread.
func (g *Session) SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) (*Message, error) {
	msg, err := g.s.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return &Message{ID: msg.ID, ChannelID: msg.ChannelID}, nil
}

// SendAnnouncement posts content plus an embed in one message.
func (g *Session) SendAnnouncement(ctx context.Context, channelID, content string, embed *discordgo.MessageEmbed) (*Message, error) {
	msg, err := g.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return &Message{ID: msg.ID, ChannelID: msg.ChannelID}, nil
}

// CreateThread starts a thread under an existing message.
func (g *Session) CreateThread(ctx context.Context, channelID, messageID, name string) (string, error) {
	thread, err := g.s.MessageThreadStartComplex(channelID, messageID, &discordgo.ThreadStart{
		Name:                name,
		AutoArchiveDuration: 60,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return thread.ID, nil
}

// EditEmbed replaces the embed on an existing message.
func (g *Session) EditEmbed(ctx context.Context, channelID, messageID string, embed *discordgo.MessageEmbed) error {
	_, err := g.s.ChannelMessageEditEmbed(channelID, messageID, embed, discordgo.WithContext(ctx))
	return err
}

// CreateDM opens (or reuses) the DM channel to a user.
func (g *Session) CreateDM(ctx context.Context, userID string) (string, error) {
	channel, err := g.s.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return channel.ID, nil
}

// ArchiveThread archives a thread.
func (g *Session) ArchiveThread(ctx context.Context, threadID string) error {
	archived := true
	_, err := g.s.ChannelEditComplex(threadID, &discordgo.ChannelEdit{
		Archived: &archived,
	}, discordgo.WithContext(ctx))
	return err
}

// React applies an emoji reaction to a message.
func (g *Session) React(ctx context.Context, channelID, messageID, emoji string) error {
	return g.s.MessageReactionAdd(channelID, messageID, emoji, discordgo.WithContext(ctx))
}
