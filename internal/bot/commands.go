package bot

import (
	"github.com/bwmarrin/discordgo"
)

var adminOnly int64 = discordgo.PermissionAdministrator

var feedPlatformChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "bluesky", Value: "bluesky"},
	{Name: "youtube", Value: "youtube"},
	{Name: "instagram", Value: "instagram"},
}

// commandDefinitions is the full slash command surface registered against
// the home guild on startup.
var commandDefinitions = []*discordgo.ApplicationCommand{
	{
		Name:        "modmail",
		Description: "Contact or manage modmail tickets",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "open",
				Description: "Open a modmail ticket with the staff team",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "subject", Description: "Short summary of your issue", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "Describe your issue", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "respond",
				Description: "Reply to the ticket in this thread (staff)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "message", Description: "Reply to send to the user", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "close",
				Description: "Close the ticket in this thread (staff)",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "resolve",
				Description: "Close the ticket with a resolution message (staff)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "resolution", Description: "How the issue was resolved", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "ban",
				Description: "Ban a user from opening modmails (staff)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to ban", Required: true},
					{Type: discordgo.ApplicationCommandOptionString, Name: "reason", Description: "Why the user is banned", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "unban",
				Description: "Lift a user's modmail ban (staff)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to unban", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "list",
				Description: "List a user's modmail history (staff)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionUser, Name: "user", Description: "User to report on", Required: true},
				},
			},
		},
	},
	{
		Name:                     "settings",
		Description:              "Configure the bot for this server",
		DefaultMemberPermissions: &adminOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
				Name:        "channel",
				Description: "Channel assignments",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "set",
						Description: "Assign a channel slot",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type: discordgo.ApplicationCommandOptionString, Name: "slot", Description: "Which function the channel serves", Required: true,
								Choices: []*discordgo.ApplicationCommandOptionChoice{
									{Name: "logging", Value: "logging"},
									{Name: "modmail", Value: "modmail"},
									{Name: "posts", Value: "posts"},
									{Name: "uploads", Value: "uploads"},
								},
							},
							{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Channel to use", Required: true},
						},
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
				Name:        "updater",
				Description: "Project update announcements",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "interval",
						Description: "Set how often projects are checked",
						Options: []*discordgo.ApplicationCommandOption{
							{Type: discordgo.ApplicationCommandOptionInteger, Name: "minutes", Description: "Poll period in minutes (1-60)", Required: true},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "channel",
						Description: "Set the announcement channel",
						Options: []*discordgo.ApplicationCommandOption{
							{Type: discordgo.ApplicationCommandOptionChannel, Name: "channel", Description: "Channel to announce in", Required: true},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "pingrole",
						Description: "Set the role pinged on announcements",
						Options: []*discordgo.ApplicationCommandOption{
							{Type: discordgo.ApplicationCommandOptionRole, Name: "role", Description: "Role to ping", Required: true},
						},
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
				Name:        "feeds",
				Description: "Followed social accounts",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "follow",
						Description: "Follow a social account for announcements",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type: discordgo.ApplicationCommandOptionString, Name: "platform", Description: "Where the account lives", Required: true,
								Choices: feedPlatformChoices,
							},
							{Type: discordgo.ApplicationCommandOptionString, Name: "account", Description: "Account id (Bluesky DID, YouTube channel id, Instagram handle)", Required: true},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "unfollow",
						Description: "Stop following a social account",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type: discordgo.ApplicationCommandOptionString, Name: "platform", Description: "Where the account lives", Required: true,
								Choices: feedPlatformChoices,
							},
							{Type: discordgo.ApplicationCommandOptionString, Name: "account", Description: "Account id to remove", Required: true},
						},
					},
					{
						Type:        discordgo.ApplicationCommandOptionSubCommand,
						Name:        "list",
						Description: "List followed accounts on a platform",
						Options: []*discordgo.ApplicationCommandOption{
							{
								Type: discordgo.ApplicationCommandOptionString, Name: "platform", Description: "Platform to list", Required: true,
								Choices: feedPlatformChoices,
							},
						},
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "toggle",
				Description: "Toggle a feature on or off",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type: discordgo.ApplicationCommandOptionString, Name: "feature", Description: "Feature to toggle", Required: true,
						Choices: []*discordgo.ApplicationCommandOptionChoice{
							{Name: "bluesky", Value: "bluesky"},
							{Name: "instagram", Value: "instagram"},
							{Name: "youtube", Value: "youtube"},
							{Name: "timestamp", Value: "timestamp"},
						},
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "color",
				Description: "Set the embed color",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "color", Description: "Hex code like #57F287 or a basic color name", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "footer",
				Description: "Set the embed footer text",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionString, Name: "text", Description: "Footer text", Required: true},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "cooldown",
				Description: "Set the modmail cooldown",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "seconds", Description: "Seconds a user must wait between tickets", Required: true},
				},
			},
		},
	},
	{
		Name:        "project",
		Description: "Look up one of the studio's Modrinth projects",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "project", Description: "Project id or slug", Required: true},
		},
	},
	{
		Name:        "studio",
		Description: "Show the studio's Modrinth project overview",
	},
}

// RegisterCommands overwrites the guild's application commands with the
// current definitions and returns the registered set for cleanup.
func RegisterCommands(s *discordgo.Session, guildID string) ([]*discordgo.ApplicationCommand, error) {
	return s.ApplicationCommandBulkOverwrite(s.State.User.ID, guildID, commandDefinitions)
}

// UnregisterCommands removes previously registered commands.
func UnregisterCommands(s *discordgo.Session, guildID string, commands []*discordgo.ApplicationCommand) {
	for _, cmd := range commands {
		_ = s.ApplicationCommandDelete(s.State.User.ID, guildID, cmd.ID)
	}
}
