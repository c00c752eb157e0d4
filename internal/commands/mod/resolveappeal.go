// Package mod - /mod resolveappeal command
package mod

import (
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	pancyerrors "github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/warnengine"
	"github.com/bwmarrin/discordgo"
)

// createResolveAppealCommand creates the /mod resolveappeal subcommand
func createResolveAppealCommand() *discord.Command {
	return discord.NewCommand(
		"resolveappeal",
		"Resuelve una apelación pendiente",
		"mod",
		resolveAppealHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID de la advertencia apelada",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "decision",
			Description: "Veredicto de la apelación",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Aprobar", Value: "approve"},
				{Name: "Denegar", Value: "deny"},
			},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Explicación del veredicto",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).RequiresDatabase()
}

// resolveAppealHandler handles the /mod resolveappeal command
func resolveAppealHandler(ctx *discord.CommandContext) error {
	go func() {
		defer pancyerrors.RecoverMiddleware()()

		warnID := ctx.GetStringOption("id")
		modReason := ctx.GetStringOption("razon")

		decision := warnengine.DecisionDeny
		if ctx.GetStringOption("decision") == "approve" {
			decision = warnengine.DecisionApprove
		}

		if err := ctx.Defer(); err != nil {
			logger.Error(fmt.Sprintf("Error en defer de resolveappeal: %v", err), "CMD-ResolveAppeal")
			return
		}

		w, err := eng.ProcessAppeal(ctx.Interaction.GuildID, warnID, decision, modReason, ctx.User().ID)
		switch {
		case err == nil:
			// resolved below
		case errors.Is(err, warnengine.ErrWarningNotFound):
			ctx.EditReply("❌ No existe una advertencia con ese ID en este servidor.")
			return
		case errors.Is(err, warnengine.ErrAppealNotPending):
			ctx.EditReply("❌ Esa advertencia no tiene una apelación pendiente.")
			return
		default:
			logger.Error(fmt.Sprintf("Error en resolveappeal: %v", err), "CMD-ResolveAppeal")
			ctx.EditReply("❌ No se pudo resolver la apelación.")
			return
		}

		title := "✅ Apelación aprobada"
		description := fmt.Sprintf("La advertencia `%s` fue retirada y las sanciones asociadas revertidas.\n**Veredicto:** %s", warnID, modReason)
		color := 0x00FF00
		if decision == warnengine.DecisionDeny {
			title = "❌ Apelación denegada"
			description = fmt.Sprintf("La advertencia `%s` se mantiene.\n**Veredicto:** %s", warnID, modReason)
			color = 0xFF0000
		}

		ctx.EditReplyEmbed(&discordgo.MessageEmbed{
			Title:       title,
			Description: description + fmt.Sprintf("\n**Motivo de la apelación:** %s", w.AppealReason),
			Color:       color,
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Resuelto por %s", ctx.User().String()),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}()

	return nil
}
