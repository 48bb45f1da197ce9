package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/membercat-studios/membercat-bot/internal/repository"
)

func (h *Handler) handleSettings(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) error {
	if len(data.Options) == 0 {
		return nil
	}
	top := data.Options[0]
	opts := options(data.Options)

	switch top.Name {
	case "channel":
		channel := opts["channel"].ChannelValue(s)
		slot := repository.ChannelKind(opts["slot"].StringValue())
		if err := h.settings.SetChannel(ctx, slot, channel.ID); err != nil {
			return err
		}
		h.reply(s, i, fmt.Sprintf("✅ The %s channel is now <#%s>.", slot, channel.ID))
		return nil

	case "updater":
		if len(top.Options) == 0 {
			return nil
		}
		switch top.Options[0].Name {
		case "interval":
			minutes := int(opts["minutes"].IntValue())
			if err := h.settings.SetUpdaterInterval(ctx, minutes); err != nil {
				return err
			}
			h.reply(s, i, fmt.Sprintf("✅ Projects are now checked every %d minute(s).", minutes))
		case "channel":
			channel := opts["channel"].ChannelValue(s)
			if err := h.settings.SetUpdaterChannel(ctx, channel.ID); err != nil {
				return err
			}
			h.reply(s, i, fmt.Sprintf("✅ Update announcements will be posted in <#%s>.", channel.ID))
		case "pingrole":
			role := opts["role"].RoleValue(s, i.GuildID)
			if err := h.settings.SetUpdaterPingRole(ctx, role.ID); err != nil {
				return err
			}
			h.reply(s, i, fmt.Sprintf("✅ <@&%s> will be pinged on update announcements.", role.ID))
		}
		return nil

	case "feeds":
		return h.handleFeeds(ctx, s, i, top)

	case "toggle":
		feature := opts["feature"].StringValue()
		enabled, err := h.settings.ToggleFeature(ctx, feature)
		if err != nil {
			return err
		}
		state := "disabled"
		if enabled {
			state = "enabled"
		}
		h.reply(s, i, fmt.Sprintf("✅ %s is now %s.", feature, state))
		return nil

	case "color":
		color := opts["color"].StringValue()
		if err := h.settings.SetColor(ctx, color); err != nil {
			return err
		}
		h.reply(s, i, "✅ Embed color updated to "+color+".")
		return nil

	case "footer":
		if err := h.settings.SetFooter(ctx, opts["text"].StringValue()); err != nil {
			return err
		}
		h.reply(s, i, "✅ Embed footer updated.")
		return nil

	case "cooldown":
		seconds := int(opts["seconds"].IntValue())
		if err := h.settings.SetModmailCooldown(ctx, seconds); err != nil {
			return err
		}
		h.reply(s, i, fmt.Sprintf("✅ Modmail cooldown set to %d second(s).", seconds))
		return nil
	}
	return nil
}

func (h *Handler) handleFeeds(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, group *discordgo.ApplicationCommandInteractionDataOption) error {
	if len(group.Options) == 0 {
		return nil
	}
	sub := group.Options[0]
	opts := options(sub.Options)
	platform := repository.FeedPlatform(opts["platform"].StringValue())

	switch sub.Name {
	case "follow":
		account := opts["account"].StringValue()
		if err := h.feeds.Follow(ctx, platform, account); err != nil {
			return err
		}
		h.reply(s, i, fmt.Sprintf("✅ Now following `%s` on %s.", account, platform))
	case "unfollow":
		account := opts["account"].StringValue()
		if err := h.feeds.Unfollow(ctx, platform, account); err != nil {
			return err
		}
		h.reply(s, i, fmt.Sprintf("✅ No longer following `%s` on %s.", account, platform))
	case "list":
		accounts, err := h.feeds.Accounts(ctx, platform)
		if err != nil {
			return err
		}
		if len(accounts) == 0 {
			h.reply(s, i, fmt.Sprintf("No accounts followed on %s yet.", platform))
			return nil
		}
		lines := make([]string, 0, len(accounts))
		for _, account := range accounts {
			lines = append(lines, "• `"+account.AccountID+"`")
		}
		h.reply(s, i, fmt.Sprintf("Followed on %s:\n%s", platform, strings.Join(lines, "\n")))
	}
	return nil
}
