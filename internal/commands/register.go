// Package commands provides a registry for organizing bot commands.
// Commands are organized in subdirectories by category (util, mod, etc.)
package commands

import (
	"github.com/PancyStudios/PancyModGo/internal/commands/mod"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/warnengine"
)

// RegisterAll registers all commands with the Discord client
// Add your command registration calls here
func RegisterAll(client *discord.ExtendedClient, engine *warnengine.Engine) {
	// Utility commands
	RegisterUtilCommands(client)

	// Moderation commands (/mod warn, /mod warnings, /mod appeal, ...)
	mod.RegisterModCommands(client, engine)

	// Add more categories here as needed:
	// RegisterFunCommands(client)
}
