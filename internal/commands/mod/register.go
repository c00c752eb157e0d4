// Package mod provides moderation commands organized as subcommands under /mod
// Each command is in its own file for better organization
package mod

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/warnengine"
)

// eng is the warning engine shared by every /mod subcommand handler.
var eng *warnengine.Engine

// RegisterModCommands registers all moderation commands as /mod subcommands
func RegisterModCommands(client *discord.ExtendedClient, engine *warnengine.Engine) {
	eng = engine

	warnCmd := createWarnCommand()
	warningsCmd := createWarningsCommand()
	removeWarnCmd := createRemoveWarnCommand()
	clearWarnsCmd := createClearWarnsCommand()
	appealCmd := createAppealCommand()
	resolveAppealCmd := createResolveAppealCommand()
	statsCmd := createWarnStatsCommand()
	exportCmd := createExportWarnsCommand()

	// Build the /mod command group with all subcommands
	modGroup := client.CommandHandler.BuildCommandGroup(
		"mod",
		"Comandos de moderación",
		warnCmd,
		warningsCmd,
		removeWarnCmd,
		clearWarnsCmd,
		appealCmd,
		resolveAppealCmd,
		statsCmd,
		exportCmd,
	)

	// Register the command group
	client.CommandHandler.AddGlobalCommand(modGroup)
}
