// Package mod - /mod clearwarns command
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createClearWarnsCommand creates the /mod clearwarns subcommand
func createClearWarnsCommand() *discord.Command {
	return discord.NewCommand(
		"clearwarns",
		"Retira todas las advertencias activas de un usuario",
		"mod",
		clearWarnsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a limpiar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Por qué se limpian las advertencias",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).RequiresDatabase()
}

// clearWarnsHandler handles the /mod clearwarns command
func clearWarnsHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		targetUser := ctx.GetUserOption("usuario")
		if targetUser == nil {
			ctx.ReplyEphemeral("❌ Debes especificar un usuario válido.")
			return
		}
		reason := ctx.GetStringOption("razon")
		if reason == "" {
			reason = "Sin razón especificada"
		}

		if err := ctx.Defer(); err != nil {
			logger.Error(fmt.Sprintf("Error en defer de clearwarns: %v", err), "CMD-ClearWarns")
			return
		}

		count, err := eng.ClearWarnings(ctx.Interaction.GuildID, targetUser.ID, ctx.User().ID, reason)
		if err != nil {
			logger.Error(fmt.Sprintf("Error DB ClearWarns: %v", err), "CMD-ClearWarns")
			ctx.EditReply("❌ Error al limpiar las advertencias.")
			return
		}

		if count == 0 {
			ctx.EditReply(fmt.Sprintf("ℹ️ **%s** no tiene advertencias activas.", targetUser.Username))
			return
		}

		ctx.EditReplyEmbed(&discordgo.MessageEmbed{
			Title:       "✅ Advertencias retiradas",
			Description: fmt.Sprintf("Se retiraron **%d** advertencias activas de **%s**.\n**Razón:** %s", count, targetUser.String(), reason),
			Color:       0x00FF00,
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Solicitado por %s", ctx.User().String()),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}()

	return nil
}
