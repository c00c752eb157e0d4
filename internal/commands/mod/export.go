// Package mod - /mod exportwarns command
package mod

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/discord"
	pancyerrors "github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/warnengine"
	"github.com/bwmarrin/discordgo"
)

// createExportWarnsCommand creates the /mod exportwarns subcommand
func createExportWarnsCommand() *discord.Command {
	return discord.NewCommand(
		"exportwarns",
		"Exporta las advertencias del servidor a un archivo",
		"mod",
		exportWarnsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "formato",
			Description: "Formato del archivo exportado",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "JSON", Value: warnengine.FormatJSON},
				{Name: "CSV", Value: warnengine.FormatCSV},
			},
		},
	).WithUserPermissions(discordgo.PermissionModerateMembers).RequiresDatabase()
}

// exportWarnsHandler handles the /mod exportwarns command
func exportWarnsHandler(ctx *discord.CommandContext) error {
	go func() {
		defer pancyerrors.RecoverMiddleware()()

		format := ctx.GetStringOption("formato")

		if err := ctx.Defer(); err != nil {
			logger.Error(fmt.Sprintf("Error en defer de exportwarns: %v", err), "CMD-ExportWarns")
			return
		}

		data, err := eng.ExportWarningData(ctx.Interaction.GuildID, format)
		if err != nil {
			if errors.Is(err, warnengine.ErrUnknownFormat) {
				ctx.EditReply("❌ Formato desconocido. Usa `json` o `csv`.")
				return
			}
			logger.Error(fmt.Sprintf("Error exportando advertencias: %v", err), "CMD-ExportWarns")
			ctx.EditReply("❌ No se pudo exportar el registro de advertencias.")
			return
		}

		contentType := "application/json"
		if format == warnengine.FormatCSV {
			contentType = "text/csv"
		}
		filename := fmt.Sprintf("warnings-%s-%s.%s",
			ctx.Interaction.GuildID, time.Now().Format("2006-01-02"), format)

		content := "📦 Registro de advertencias exportado."
		_, err = ctx.Session.InteractionResponseEdit(ctx.Interaction.Interaction, &discordgo.WebhookEdit{
			Content: &content,
			Files: []*discordgo.File{
				{
					Name:        filename,
					ContentType: contentType,
					Reader:      strings.NewReader(data),
				},
			},
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Error enviando archivo exportado: %v", err), "CMD-ExportWarns")
		}
	}()

	return nil
}
