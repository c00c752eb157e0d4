package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// createWarningsCommand creates the /mod warns subcommand
func createWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"warns",
		"Lista de advertencias de un usuario",
		"mod",
		warningsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "[STAFF] Usuario a buscar (opcional)",
			Required:    false,
		},
	).RequiresDatabase()
}

func warningsHandler(ctx *discord.CommandContext) error {
	// Goroutine para no bloquear el hilo principal
	go func() {
		defer errors.RecoverMiddleware()()

		targetUser := ctx.GetUserOption("usuario")
		isSelf := false

		perms, err := ctx.Session.UserChannelPermissions(ctx.User().ID, ctx.Interaction.ChannelID)
		if err != nil {
			perms = 0
		}
		isModerator := (perms & discordgo.PermissionManageMessages) != 0

		if targetUser == nil {
			targetUser = ctx.User()
			isSelf = true
		}

		if !isSelf && !isModerator {
			ctx.ReplyEphemeral("❌ No tienes permisos para ver la lista de advertencias de otro usuario.")
			return
		}

		embedLoading := &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s", targetUser.Username),
			Description: "Espere un momento mientras obtenemos las advertencias...",
			Color:       0x3498db,
			Footer: &discordgo.MessageEmbedFooter{
				Text: "💫 - Developed by PancyStudios",
			},
		}
		if err := ctx.ReplyEphemeralEmbed(embedLoading); err != nil {
			logger.Error(fmt.Sprintf("Error enviando reply inicial warns: %v", err), "CMD-Warns")
			return
		}

		warns, err := eng.GetUserWarnings(ctx.Interaction.GuildID, targetUser.ID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error DB Warns: %v", err), "CMD-Warns")
			ctx.EditReply("❌ Error al consultar la base de datos.")
			return
		}

		if len(warns) == 0 {
			ctx.EditReplyEmbed(&discordgo.MessageEmbed{
				Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s", targetUser.Username),
				Color:       0x00FF00,
				Description: fmt.Sprintf("No se han encontrado advertencias del usuario en este servidor\n\n> 🕒 - **Fecha de consulta:** <t:%d>", time.Now().Unix()),
				Footer: &discordgo.MessageEmbedFooter{
					Text: "💫 - Developed by PancyStudios",
				},
			})
			return
		}

		var description string
		active := 0
		for _, warn := range warns {
			state := "🟢 activa"
			switch {
			case warn.Removed:
				state = "🗑️ retirada"
			case warn.Expired:
				state = "⌛ expirada"
			default:
				active++
			}

			modName := "Oculto"
			if isModerator {
				modName = warn.Moderator
			}

			description += fmt.Sprintf("> **Advertencia:** %s \n> **Severidad:** %s | **Estado:** %s \n> **Moderador:** %s \n> **ID:** `%s` \n\n",
				warn.Reason, warn.Severity, state, modName, warn.ID)
		}
		description += fmt.Sprintf("> 💫 - **Total:** %d (%d activas) \n> 🕒 - **Fecha de consulta:** <t:%d>",
			len(warns), active, time.Now().Unix())

		ctx.EditReplyEmbed(&discordgo.MessageEmbed{
			Title:       fmt.Sprintf("🔖 - Lista de advertencias de %s (%s)", targetUser.Username, targetUser.ID),
			Color:       0xFFA500,
			Description: description,
			Footer: &discordgo.MessageEmbedFooter{
				Text: "💫 - Developed by PancyStudios",
			},
		})
	}()

	return nil
}
