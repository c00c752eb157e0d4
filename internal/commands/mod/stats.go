// Package mod - /mod warnstats command
package mod

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	pancyerrors "github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/bwmarrin/discordgo"
)

// createWarnStatsCommand creates the /mod warnstats subcommand
func createWarnStatsCommand() *discord.Command {
	return discord.NewCommand(
		"warnstats",
		"Estadísticas de advertencias del servidor",
		"mod",
		warnStatsHandler,
	).WithUserPermissions(discordgo.PermissionModerateMembers).RequiresDatabase()
}

// warnStatsHandler handles the /mod warnstats command
func warnStatsHandler(ctx *discord.CommandContext) error {
	go func() {
		defer pancyerrors.RecoverMiddleware()()

		if err := ctx.Defer(); err != nil {
			logger.Error(fmt.Sprintf("Error en defer de warnstats: %v", err), "CMD-WarnStats")
			return
		}

		stats, err := eng.GetWarningStats(ctx.Interaction.GuildID)
		if err != nil {
			logger.Error(fmt.Sprintf("Error obteniendo estadísticas: %v", err), "CMD-WarnStats")
			ctx.EditReply("❌ No se pudieron obtener las estadísticas.")
			return
		}

		severityLine := fmt.Sprintf("🟡 Leve: %d | 🟠 Moderada: %d | 🔴 Grave: %d",
			stats.BySeverity[models.SeverityMinor],
			stats.BySeverity[models.SeverityModerate],
			stats.BySeverity[models.SeveritySevere],
		)

		appealsLine := fmt.Sprintf("⏳ Pendientes: %d | ✅ Aprobadas: %d | ❌ Denegadas: %d",
			stats.Appeals.Pending, stats.Appeals.Approved, stats.Appeals.Denied)

		var top strings.Builder
		if len(stats.TopOffenders) == 0 {
			top.WriteString("Sin usuarios con advertencias.")
		}
		for i, o := range stats.TopOffenders {
			top.WriteString(fmt.Sprintf("`%d.` <@%s> — %d activas (%d totales)\n", i+1, o.UserID, o.Active, o.Total))
		}

		ctx.EditReplyEmbed(&discordgo.MessageEmbed{
			Title: "📊 Estadísticas de advertencias",
			Color: 0x5865F2,
			Fields: []*discordgo.MessageEmbedField{
				{
					Name: "Resumen",
					Value: fmt.Sprintf("**Totales:** %d\n**Activas:** %d\n**Expiradas:** %d\n**Retiradas:** %d",
						stats.Total, stats.Active, stats.Expired, stats.Removed),
					Inline: true,
				},
				{Name: "Por severidad", Value: severityLine},
				{Name: "Apelaciones", Value: appealsLine},
				{Name: "Usuarios con más advertencias", Value: top.String()},
			},
			Footer: &discordgo.MessageEmbedFooter{
				Text: "💫 - Developed by PancyStudios",
			},
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}()

	return nil
}
