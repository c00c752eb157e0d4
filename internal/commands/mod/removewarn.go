// Package mod - /mod removewarn command
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createRemoveWarnCommand creates the /mod removewarn subcommand
func createRemoveWarnCommand() *discord.Command {
	return discord.NewCommand(
		"removewarn",
		"Elimina una advertencia específica de un usuario",
		"mod",
		removeWarnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario del cual eliminar la advertencia",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         "id",
			Description:  "ID de la advertencia a eliminar",
			Required:     true,
			Autocomplete: true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Por qué se retira la advertencia",
			Required:    false,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).WithAutoComplete(removeWarnAutoComplete).RequiresDatabase()
}

// removeWarnHandler handles the /mod removewarn command
func removeWarnHandler(ctx *discord.CommandContext) error {
	go func() {
		defer errors.RecoverMiddleware()()

		targetUser := ctx.GetUserOption("usuario")
		warnID := ctx.GetStringOption("id")
		reason := ctx.GetStringOption("razon")
		if reason == "" {
			reason = "Sin razón especificada"
		}

		if targetUser == nil {
			ctx.ReplyEphemeral("❌ Debes especificar un usuario válido.")
			return
		}
		if warnID == "" {
			ctx.ReplyEphemeral("❌ Debes especificar el ID de la advertencia.")
			return
		}

		embedProcess := &discordgo.MessageEmbed{
			Title:       "🗑️ Eliminando advertencia...",
			Description: fmt.Sprintf("Eliminando advertencia de **%s**...\n\nEspere un momento...", targetUser.String()),
			Color:       0xFFFF00,
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Solicitado por %s", ctx.User().String()),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		if err := ctx.ReplyEmbed(embedProcess); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reply inicial: %v", err), "CMD-RemoveWarn")
			return
		}

		removed, err := eng.RemoveWarning(ctx.Interaction.GuildID, targetUser.ID, warnID, ctx.User().ID, reason)
		if err != nil {
			logger.Error(fmt.Sprintf("Error DB RemoveWarn: %v", err), "CMD-RemoveWarn")
			ctx.EditReplyEmbed(&discordgo.MessageEmbed{
				Title:       "❌ Error al eliminar advertencia",
				Description: fmt.Sprintf("No se pudo eliminar la advertencia.\nError: `%v`", err),
				Color:       0xFF0000,
			})
			return
		}
		if !removed {
			ctx.EditReply("❌ No se encontró una advertencia activa con ese ID.")
			return
		}

		ctx.EditReplyEmbed(&discordgo.MessageEmbed{
			Title:       "✅ Advertencia eliminada con éxito",
			Description: fmt.Sprintf("La advertencia de **%s** ha sido retirada.\n\n**ID:** `%s`\n**Razón del retiro:** %s", targetUser.String(), warnID, reason),
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

// removeWarnAutoComplete handles autocomplete for the removewarn command
func removeWarnAutoComplete(ctx *discord.CommandContext) {
	go func() {
		defer errors.RecoverMiddleware()()

		targetUser := ctx.GetUserOption("usuario")
		if targetUser == nil {
			return
		}

		warns, err := eng.GetUserWarnings(ctx.Interaction.GuildID, targetUser.ID)
		if err != nil || len(warns) == 0 {
			return
		}

		choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, 25)
		for _, warn := range warns {
			if warn.Removed {
				continue
			}
			if len(choices) >= 25 {
				break
			}
			name := fmt.Sprintf("ID: %s - Razón: %s", warn.ID, warn.Reason)
			if len(name) > 100 {
				name = name[:97] + "..."
			}
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  name,
				Value: warn.ID,
			})
		}

		ctx.SendAutoCompleteChoices(choices)
	}()
}
