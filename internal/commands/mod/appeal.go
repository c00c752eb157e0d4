// Package mod - /mod appeal command
package mod

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	pancyerrors "github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/warnengine"
	"github.com/bwmarrin/discordgo"
)

// createAppealCommand creates the /mod appeal subcommand. Unlike the rest of
// the group it is meant for the sanctioned user, so it carries no permission
// requirement.
func createAppealCommand() *discord.Command {
	return discord.NewCommand(
		"appeal",
		"Apela una de tus advertencias",
		"mod",
		appealHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID de la advertencia a apelar",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Por qué debería retirarse (20-500 caracteres)",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "evidencia",
			Description: "Enlaces o contexto que apoyen la apelación",
			Required:    false,
		},
	).RequiresDatabase()
}

// appealHandler handles the /mod appeal command
func appealHandler(ctx *discord.CommandContext) error {
	go func() {
		defer pancyerrors.RecoverMiddleware()()

		warnID := ctx.GetStringOption("id")
		reason := ctx.GetStringOption("razon")
		evidence := ctx.GetStringOption("evidencia")

		err := eng.AppealWarning(ctx.Interaction.GuildID, ctx.User().ID, warnID, reason, evidence)
		switch {
		case err == nil:
			ctx.ReplyEphemeral(fmt.Sprintf("✅ Tu apelación de la advertencia `%s` fue registrada. Un moderador la revisará.", warnID))
		case errors.Is(err, warnengine.ErrAppealReasonLength):
			ctx.ReplyEphemeral("❌ La razón debe tener entre 20 y 500 caracteres.")
		case errors.Is(err, warnengine.ErrWarningNotFound):
			ctx.ReplyEphemeral("❌ No tienes una advertencia con ese ID.")
		case errors.Is(err, warnengine.ErrAppealCooldown):
			ctx.ReplyEphemeral("⏳ Ya tienes una apelación pendiente reciente para esta advertencia. Inténtalo más tarde.")
		case errors.Is(err, warnengine.ErrAppealInFlight):
			ctx.ReplyEphemeral("⏳ Tu apelación ya se está procesando.")
		default:
			logger.Error(fmt.Sprintf("Error en appeal: %v", err), "CMD-Appeal")
			ctx.ReplyEphemeral("❌ No se pudo registrar la apelación. Inténtalo de nuevo.")
		}
	}()

	return nil
}
