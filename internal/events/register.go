// Package events provides a registry for organizing bot events.
// Events are organized by category (guild, member, message, etc.)
package events

import (
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/warnengine"
)

// eng is the warning engine shared by event handlers that consult the ledger.
var eng *warnengine.Engine

// RegisterAll registers all events with the Discord client
// Add your event registration calls here
func RegisterAll(client *discord.ExtendedClient, engine *warnengine.Engine) {
	eng = engine

	logger.System("📋 Registrando eventos del bot...", "Events")

	// Ready event (bot startup)
	RegisterReadyEvent(client)

	// Guild events (server join/leave)
	RegisterGuildEvents(client)

	// Member events (join/leave)
	RegisterMemberEvents(client)

	// Message events (bot mentions)
	RegisterMessageEvents(client)

	// Shard lifecycle events
	RegisterShardEvents(client)

	logger.Success("✅ Todos los eventos registrados correctamente", "Events")
}
