// Package events provides event handlers for member events
package events

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// RegisterMemberEvents registers all member-related event handlers
func RegisterMemberEvents(client *discord.ExtendedClient) {
	client.Session.AddHandler(onGuildMemberAdd)
	client.Session.AddHandler(onGuildMemberRemove)
}

// onGuildMemberAdd is called when a new member joins the server. If the user
// carries active warnings from a previous stay, the mod-log channel is told.
func onGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	logger.Info(fmt.Sprintf("👋 Nuevo miembro: %s#%s en servidor %s",
		m.User.Username, m.User.Discriminator, m.GuildID), "Member")

	if eng == nil {
		return
	}

	go func() {
		defer errors.RecoverMiddleware()()

		warns, err := eng.GetUserWarnings(m.GuildID, m.User.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error consultando advertencias de %s: %v", m.User.ID, err), "Member")
			return
		}

		active := 0
		for _, w := range warns {
			if w.Active() {
				active++
			}
		}
		if active == 0 {
			return
		}

		cfg := eng.Config(m.GuildID)
		if cfg.ModLogChannelID == "" {
			return
		}

		embed := &discordgo.MessageEmbed{
			Title:       "⚠️ Miembro con historial",
			Description: fmt.Sprintf("<@%s> volvió al servidor con **%d** advertencias activas.", m.User.ID, active),
			Color:       0xE67E22,
			Thumbnail: &discordgo.MessageEmbedThumbnail{
				URL: m.User.AvatarURL("128"),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		if _, err := s.ChannelMessageSendEmbed(cfg.ModLogChannelID, embed); err != nil {
			logger.Error(fmt.Sprintf("Error notificando historial de %s: %v", m.User.ID, err), "Member")
		}
	}()
}

// onGuildMemberRemove is called when a member leaves the server
func onGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	logger.Info(fmt.Sprintf("👋 Adiós: %s#%s salió del servidor %s",
		m.User.Username, m.User.Discriminator, m.GuildID), "Member")
}
