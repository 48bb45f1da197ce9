package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/membercat-studios/membercat-bot/internal/cache"
	"github.com/membercat-studios/membercat-bot/internal/discord"
	"github.com/membercat-studios/membercat-bot/internal/modrinth"
)

const (
	projectTTL = 5 * time.Minute
	teamTTL    = 8 * time.Minute
)

func (h *Handler) handleProject(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) error {
	opts := options(data.Options)
	id := opts["project"].StringValue()

	var project modrinth.Project
	if !h.cache.Get(ctx, cache.KeyProject(id), &project) {
		fetched, err := h.modrinth.Project(ctx, id)
		if err != nil {
			return err
		}
		project = *fetched
		h.cache.Set(ctx, cache.KeyProject(id), project, projectTTL)
		h.cache.Set(ctx, cache.KeyProject(project.Slug), project, projectTTL)
	}

	settings, err := h.settings.Get(ctx)
	if err != nil {
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title:       project.Name,
		URL:         project.URL(),
		Description: project.Summary,
		Color:       discord.ParseColor(settings.Bot.Color),
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: project.IconURL},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Downloads", Value: fmt.Sprintf("%d", project.Downloads), Inline: true},
			{Name: "Followers", Value: fmt.Sprintf("%d", project.Followers), Inline: true},
		},
	}
	if len(project.Categories) > 0 {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Categories", Value: strings.Join(project.Categories, ", "), Inline: true})
	}
	if updated := project.UpdatedAt(); !updated.IsZero() {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Last Updated", Value: fmt.Sprintf("<t:%d:R>", updated.Unix()), Inline: true})
	}
	if settings.Bot.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: settings.Bot.Footer}
	}
	h.replyEmbed(s, i, embed)
	return nil
}

func (h *Handler) handleStudio(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	org := h.updater.Organization

	var projects []modrinth.Project
	if !h.cache.Get(ctx, cache.KeyTeam(org), &projects) {
		fetched, err := h.modrinth.OrganizationProjects(ctx, org)
		if err != nil {
			return err
		}
		projects = fetched
		h.cache.Set(ctx, cache.KeyTeam(org), projects, teamTTL)
	}

	settings, err := h.settings.Get(ctx)
	if err != nil {
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title:       "📦 " + org + " on Modrinth",
		Description: fmt.Sprintf("%d project(s) published.", len(projects)),
		Color:       discord.ParseColor(settings.Bot.Color),
	}
	for _, project := range projects {
		value := fmt.Sprintf("[%d downloads](%s)", project.Downloads, project.URL())
		if updated := project.UpdatedAt(); !updated.IsZero() {
			value += fmt.Sprintf(" · updated <t:%d:R>", updated.Unix())
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  project.Name,
			Value: value,
		})
	}
	if settings.Bot.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: settings.Bot.Footer}
	}
	h.replyEmbed(s, i, embed)
	return nil
}
