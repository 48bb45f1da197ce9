package bot

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/membercat-studios/membercat-bot/internal/cache"
	"github.com/membercat-studios/membercat-bot/internal/config"
	"github.com/membercat-studios/membercat-bot/internal/modrinth"
	"github.com/membercat-studios/membercat-bot/internal/observability"
	"github.com/membercat-studios/membercat-bot/internal/service"
	"github.com/membercat-studios/membercat-bot/pkg/util"
)

// handlerTimeout bounds the work done for one gateway event. Discord
// expects an interaction response within three seconds; deferred replies
// extend that but the backend work should still finish promptly.
const handlerTimeout = 10 * time.Second

// Handler routes gateway events to the bot's services.
type Handler struct {
	guildID  string
	modmail  *service.ModmailService
	settings *service.SettingsService
	feeds    *service.FeedService
	audit    *service.AuditService
	modrinth *modrinth.Client
	updater  config.UpdaterConfig
	cache    cache.Cache
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// HandlerDependencies bundles collaborators for the gateway handler.
type HandlerDependencies struct {
	GuildID  string
	Modmail  *service.ModmailService
	Settings *service.SettingsService
	Feeds    *service.FeedService
	Audit    *service.AuditService
	Modrinth *modrinth.Client
	Updater  config.UpdaterConfig
	Cache    cache.Cache
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

// NewHandler creates the handler.
func NewHandler(deps HandlerDependencies) *Handler {
	return &Handler{
		guildID:  deps.GuildID,
		modmail:  deps.Modmail,
		settings: deps.Settings,
		feeds:    deps.Feeds,
		audit:    deps.Audit,
		modrinth: deps.Modrinth,
		updater:  deps.Updater,
		cache:    deps.Cache,
		metrics:  deps.Metrics,
		logger:   deps.Logger,
	}
}

// Bind attaches every gateway event handler to the session.
func (h *Handler) Bind(s *discordgo.Session) {
	s.AddHandler(h.onInteraction)
	s.AddHandler(h.onMessageCreate)
	s.AddHandler(h.onMessageDelete)
	s.AddHandler(h.onMessageUpdate)
	s.AddHandler(h.onMemberUpdate)
}

func (h *Handler) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	data := i.ApplicationCommandData()
	h.metrics.RecordCommand(data.Name)

	var err error
	switch data.Name {
	case "modmail":
		err = h.handleModmail(ctx, s, i, data)
	case "settings":
		err = h.handleSettings(ctx, s, i, data)
	case "project":
		err = h.handleProject(ctx, s, i, data)
	case "studio":
		err = h.handleStudio(ctx, s, i)
	default:
		return
	}
	if err != nil {
		domainErr := util.ToDomainError(err)
		h.metrics.RecordError(data.Name, domainErr.Code)
		if domainErr.Code == "INTERNAL_ERROR" {
			h.logger.Error("command failed",
				zap.String("command", data.Name), zap.Error(err))
		}
		h.replyError(s, i, domainErr)
	}
}

// onMessageCreate feeds direct messages into the modmail relay. Guild
// messages and the bot's own messages are ignored here.
func (h *Handler) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.GuildID != "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	err := h.modmail.HandleDM(ctx, inboundMessage(m.Message))
	if err == nil {
		return
	}
	h.logger.Error("dm relay failed", zap.String("user", m.Author.ID), zap.Error(err))
	if util.IsCode(err, service.CodeDeliveryFailed) {
		_, _ = s.ChannelMessageSend(m.ChannelID,
			"⚠️ There was an error forwarding your message to the staff team. Please try again.",
			discordgo.WithContext(ctx))
	}
}

// interactionUser returns the invoking user for guild and DM contexts.
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil {
		return i.Member.User
	}
	return i.User
}

// reply sends an ephemeral text response to an interaction.
func (h *Handler) reply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Warn("could not respond to interaction", zap.Error(err))
	}
}

// replyEmbed sends an ephemeral embed response to an interaction.
func (h *Handler) replyEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Warn("could not respond to interaction", zap.Error(err))
	}
}

func (h *Handler) replyError(s *discordgo.Session, i *discordgo.InteractionCreate, domainErr *util.DomainError) {
	h.reply(s, i, "❌ "+domainErr.Message)
}

// options flattens an option list into a name-indexed map, descending
// into the (single) subcommand or group when present.
func options(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	for len(opts) == 1 && (opts[0].Type == discordgo.ApplicationCommandOptionSubCommand ||
		opts[0].Type == discordgo.ApplicationCommandOptionSubCommandGroup) {
		opts = opts[0].Options
	}
	indexed := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		indexed[opt.Name] = opt
	}
	return indexed
}
