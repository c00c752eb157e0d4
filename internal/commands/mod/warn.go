// Package mod - /mod warn command
package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/PancyStudios/PancyModGo/pkg/warnengine"
	"github.com/bwmarrin/discordgo"
)

// createWarnCommand creates the /mod warn subcommand
func createWarnCommand() *discord.Command {
	return discord.NewCommand(
		"warn",
		"Advierte a un usuario",
		"mod",
		warnHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "usuario",
			Description: "Usuario a advertir",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "razon",
			Description: "Razón de la advertencia (5-500 caracteres)",
			Required:    true,
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "severidad",
			Description: "Severidad de la infracción",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Menor", Value: string(models.SeverityMinor)},
				{Name: "Moderada", Value: string(models.SeverityModerate)},
				{Name: "Severa", Value: string(models.SeveritySevere)},
			},
		},
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "expira",
			Description: "Días hasta expirar (0 = valor del servidor, -1 = permanente)",
			Required:    false,
			MinValue:    func() *float64 { v := -1.0; return &v }(),
			MaxValue:    365,
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).RequiresDatabase()
}

// warnHandler handles the /mod warn command
func warnHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("usuario")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Debes especificar un usuario.")
	}

	reason := ctx.GetStringOption("razon")
	severity := models.Severity(ctx.GetStringOption("severidad"))
	expiresInDays := int(ctx.GetIntOption("expira"))

	if err := ctx.Defer(); err != nil {
		return err
	}

	go func() {
		defer errors.RecoverMiddleware()()

		res, err := eng.AddWarning(ctx.Interaction.GuildID, user.ID, reason, ctx.User().ID, severity, expiresInDays)
		if err != nil {
			logger.Error(fmt.Sprintf("Error en AddWarning: %v", err), "CMD-Warn")
			ctx.EditReply(fmt.Sprintf("❌ No se pudo registrar la advertencia: %v", err))
			return
		}

		if res.Duplicate {
			msg := "ℹ️ Advertencia duplicada detectada; no se registró de nuevo."
			if res.Warning != nil {
				msg = fmt.Sprintf("ℹ️ Advertencia duplicada; ya existe con ID `%s`.", res.Warning.ID)
			}
			ctx.EditReply(msg)
			return
		}

		description := fmt.Sprintf(
			"⚠️ **%s** ha sido advertido.\n**Razón:** %s\n**Severidad:** %s\n**ID:** `%s`",
			user.Username, reason, severity, res.Warning.ID,
		)
		switch res.Escalation.Action {
		case warnengine.ActionTimeout:
			description += fmt.Sprintf("\n\n🔇 Escalado automático: timeout de %s (%d advertencias activas).",
				res.Escalation.TimeoutDuration, res.Escalation.ActiveCount)
		case warnengine.ActionKick:
			description += fmt.Sprintf("\n\n👢 Escalado automático: expulsión (%d advertencias activas).",
				res.Escalation.ActiveCount)
		case warnengine.ActionBan:
			description += fmt.Sprintf("\n\n🔨 Escalado automático: ban (%d advertencias activas).",
				res.Escalation.ActiveCount)
		}
		if res.Escalation.Action != warnengine.ActionNone && !res.Escalation.Applied {
			description += "\n⚠️ La sanción automática no pudo aplicarse; la advertencia queda registrada."
		}

		embed := &discordgo.MessageEmbed{
			Title:       "⚠️ Advertencia registrada",
			Description: description,
			Color:       0xFFA500,
			Footer: &discordgo.MessageEmbedFooter{
				Text:    fmt.Sprintf("Solicitado por %s", ctx.User().String()),
				IconURL: ctx.User().AvatarURL(""),
			},
			Timestamp: time.Now().Format(time.RFC3339),
		}
		ctx.EditReplyEmbed(embed)
	}()

	return nil
}
