// Package discord - user notification with moderator-channel fallback.
package discord

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/warnengine"
	"github.com/bwmarrin/discordgo"
)

// DMNotifier sends appeal prompts by direct message and falls back to the
// guild's configured mod-log channel when the DM cannot be delivered.
type DMNotifier struct {
	session *discordgo.Session
	configs warnengine.ConfigProvider
}

// NewDMNotifier creates a notifier over an open session.
func NewDMNotifier(session *discordgo.Session, configs warnengine.ConfigProvider) *DMNotifier {
	return &DMNotifier{session: session, configs: configs}
}

// SendAppealPrompt notifies the user of a new warning and how to appeal it.
// Returns whether any delivery path succeeded.
func (n *DMNotifier) SendAppealPrompt(guildID, userID string, w *models.Warning) bool {
	embed := &discordgo.MessageEmbed{
		Title: "⚠️ - Has recibido una advertencia",
		Color: 0xFFA500,
		Description: fmt.Sprintf(
			"⚒ - **Razón:** %s\n"+
				"📌 - **Severidad:** %s\n"+
				"🆔 - **ID:** `%s`\n\n"+
				"Puedes apelar esta advertencia con `/mod appeal id:%s`\n"+
				"🕒 - **Fecha:** <t:%d:F>",
			w.Reason, w.Severity, w.ID, w.ID, w.CreatedAt,
		),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "💫 - Developed by PancyStudios",
		},
		Timestamp: time.Unix(w.CreatedAt, 0).Format(time.RFC3339),
	}

	channel, err := n.session.UserChannelCreate(userID)
	if err == nil {
		if _, err = n.session.ChannelMessageSendEmbed(channel.ID, embed); err == nil {
			return true
		}
	}
	logger.Debug(fmt.Sprintf("MD fallido para %s, intentando canal de moderación: %v", userID, err), "Notifier")

	cfg := n.configs.GuildConfig(guildID)
	if cfg.ModLogChannelID == "" {
		return false
	}

	fallback := fmt.Sprintf("ℹ️ No se pudo enviar un MD a <@%s> por la advertencia `%s`.", userID, w.ID)
	if _, err := n.session.ChannelMessageSendComplex(cfg.ModLogChannelID, &discordgo.MessageSend{
		Content: fallback,
		Embeds:  []*discordgo.MessageEmbed{embed},
	}); err != nil {
		logger.Warn(fmt.Sprintf("Fallback al canal de moderación falló para %s: %v", guildID, err), "Notifier")
		return false
	}
	return true
}
