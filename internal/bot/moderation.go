package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Moderation event handlers. These rely on discordgo's state cache for
// before-images; events for messages that predate the process simply log
// with less detail.

func (h *Handler) onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	if m.GuildID != h.guildID {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	authorID, content := "", ""
	if m.BeforeDelete != nil {
		if m.BeforeDelete.Author != nil {
			if m.BeforeDelete.Author.Bot {
				return
			}
			authorID = m.BeforeDelete.Author.ID
		}
		content = m.BeforeDelete.Content
	}
	h.audit.MessageDeleted(ctx, m.ChannelID, authorID, content)
}

func (h *Handler) onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.GuildID != h.guildID || m.Author == nil || m.Author.Bot {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	before := ""
	if m.BeforeUpdate != nil {
		before = m.BeforeUpdate.Content
	}
	h.audit.MessageEdited(ctx, m.ChannelID, m.Author.ID, before, m.Content)
}

func (h *Handler) onMemberUpdate(s *discordgo.Session, m *discordgo.GuildMemberUpdate) {
	if m.GuildID != h.guildID || m.User == nil || m.User.Bot {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if m.BeforeUpdate != nil && m.BeforeUpdate.Nick != m.Nick {
		change := fmt.Sprintf("nickname changed from %q to %q", displayNick(m.BeforeUpdate.Nick), displayNick(m.Nick))
		h.audit.MemberUpdated(ctx, m.User.ID, change)
		return
	}
	if timeoutChanged(m) {
		if m.CommunicationDisabledUntil != nil {
			h.audit.MemberUpdated(ctx, m.User.ID,
				fmt.Sprintf("timed out until <t:%d:f>", m.CommunicationDisabledUntil.Unix()))
		} else {
			h.audit.MemberUpdated(ctx, m.User.ID, "timeout removed")
		}
	}
}

func timeoutChanged(m *discordgo.GuildMemberUpdate) bool {
	if m.BeforeUpdate == nil {
		return m.CommunicationDisabledUntil != nil
	}
	before, after := m.BeforeUpdate.CommunicationDisabledUntil, m.CommunicationDisabledUntil
	if (before == nil) != (after == nil) {
		return true
	}
	return before != nil && after != nil && !before.Equal(*after)
}

func displayNick(nick string) string {
	if nick == "" {
		return "<none>"
	}
	return nick
}
