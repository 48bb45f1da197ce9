package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/membercat-studios/membercat-bot/internal/discord"
)

func (h *Handler) handleModmail(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) error {
	if len(data.Options) == 0 {
		return nil
	}
	sub := data.Options[0]
	opts := options(sub.Options)
	invoker := asUser(interactionUser(i))

	switch sub.Name {
	case "open":
		ticket, err := h.modmail.Open(ctx, invoker, opts["subject"].StringValue(), opts["message"].StringValue())
		if err != nil {
			return err
		}
		h.reply(s, i, fmt.Sprintf("📬 Your modmail has been opened (ID: %s). The staff team will get back to you; check your DMs.", ticket.ID))
		return nil

	case "respond":
		if err := h.modmail.Respond(ctx, i.ChannelID, invoker, opts["message"].StringValue()); err != nil {
			return err
		}
		h.reply(s, i, "✅ Reply sent to the user.")
		return nil

	case "close":
		if err := h.modmail.Close(ctx, i.ChannelID, invoker); err != nil {
			return err
		}
		h.reply(s, i, "📪 Modmail closed.")
		return nil

	case "resolve":
		if err := h.modmail.Resolve(ctx, i.ChannelID, invoker, opts["resolution"].StringValue()); err != nil {
			return err
		}
		h.reply(s, i, "✅ Modmail resolved.")
		return nil

	case "ban":
		target := opts["user"].UserValue(s)
		if err := h.modmail.Ban(ctx, invoker, target.ID, opts["reason"].StringValue()); err != nil {
			return err
		}
		h.reply(s, i, fmt.Sprintf("🚫 <@%s> is now banned from modmail.", target.ID))
		return nil

	case "unban":
		target := opts["user"].UserValue(s)
		if err := h.modmail.Unban(ctx, invoker, target.ID); err != nil {
			return err
		}
		h.reply(s, i, fmt.Sprintf("📬 <@%s> may open modmails again.", target.ID))
		return nil

	case "list":
		target := opts["user"].UserValue(s)
		tickets, err := h.modmail.Report(ctx, target.ID)
		if err != nil {
			return err
		}
		if len(tickets) == 0 {
			h.reply(s, i, fmt.Sprintf("<@%s> has never opened a modmail.", target.ID))
			return nil
		}
		settings, err := h.settings.Get(ctx)
		if err != nil {
			return err
		}
		h.replyEmbed(s, i, discord.ReportEmbed(target.Username, tickets, settings.Bot, time.Now()))
		return nil
	}
	return nil
}

func asUser(u *discordgo.User) discord.User {
	if u == nil {
		return discord.User{}
	}
	return discord.User{
		ID:        u.ID,
		Username:  u.Username,
		AvatarURL: u.AvatarURL(""),
	}
}

func inboundMessage(m *discordgo.Message) discord.InboundMessage {
	return discord.InboundMessage{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		Author:    asUser(m.Author),
		Content:   m.Content,
	}
}
