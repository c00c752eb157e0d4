// Package web provides API routes for the web server.
package web

import (
	"net/http"

	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/discord"
	"github.com/PancyStudios/PancyModGo/pkg/warnengine"
	"github.com/gin-gonic/gin"
)

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, engine *warnengine.Engine) {
	api := s.Group("/api")
	{
		api.GET("/status", statusHandler)
		api.GET("/health", healthHandler)
		api.GET("/bot", botInfoHandler)

		guilds := api.Group("/guilds/:guildId")
		{
			guilds.GET("/warnings", guildWarningsHandler(engine))
			guilds.GET("/warnings/:userId", userWarningsHandler(engine))
			guilds.GET("/stats", guildStatsHandler(engine))
			guilds.GET("/export", guildExportHandler(engine))
			guilds.GET("/events/ws", eventStreamHandler())
		}
	}
}

// statusHandler returns the bot and database status
func statusHandler(c *gin.Context) {
	db := database.Get()
	client := discord.Get()

	dbStatus, dbOnline := db.GetStatus()

	botOnline := false
	if client != nil {
		botOnline = client.IsReady()
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"isOnline": botOnline,
		},
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PancyMod Go is running",
	})
}

// botInfoHandler returns information about the bot
func botInfoHandler(c *gin.Context) {
	client := discord.Get()

	if client == nil || !client.IsReady() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Bot Offline",
			"message": "El bot no está disponible en este momento.",
		})
		return
	}

	user := client.Session.State.User

	c.JSON(http.StatusOK, gin.H{
		"id":            user.ID,
		"username":      user.Username,
		"discriminator": user.Discriminator,
		"avatar":        user.Avatar,
		"guilds":        client.GuildCount(),
		"isReady":       client.IsReady(),
	})
}

// guildWarningsHandler returns every warning of a guild, newest first
func guildWarningsHandler(engine *warnengine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		warns, err := engine.GetAllWarnings(c.Param("guildId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Error",
				"message": "No se pudieron obtener las advertencias.",
			})
			return
		}
		if warns == nil {
			warns = []warnengine.GuildWarning{}
		}
		c.JSON(http.StatusOK, gin.H{
			"guildId":  c.Param("guildId"),
			"count":    len(warns),
			"warnings": warns,
		})
	}
}

// userWarningsHandler returns the warnings of a single user
func userWarningsHandler(engine *warnengine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		warns, err := engine.GetUserWarnings(c.Param("guildId"), c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Error",
				"message": "No se pudieron obtener las advertencias.",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"guildId":  c.Param("guildId"),
			"userId":   c.Param("userId"),
			"count":    len(warns),
			"warnings": warns,
		})
	}
}

// guildStatsHandler returns aggregate warning statistics for a guild
func guildStatsHandler(engine *warnengine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := engine.GetWarningStats(c.Param("guildId"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Error",
				"message": "No se pudieron obtener las estadísticas.",
			})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// guildExportHandler streams the guild ledger as a JSON or CSV download
func guildExportHandler(engine *warnengine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		format := c.DefaultQuery("format", warnengine.FormatJSON)

		data, err := engine.ExportWarningData(c.Param("guildId"), format)
		if err != nil {
			if err == warnengine.ErrUnknownFormat {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":   "Bad Request",
					"message": "Formato desconocido, usa json o csv.",
				})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Internal Error",
				"message": "No se pudo exportar el registro.",
			})
			return
		}

		contentType := "application/json"
		if format == warnengine.FormatCSV {
			contentType = "text/csv"
		}
		c.Header("Content-Disposition", `attachment; filename="warnings.`+format+`"`)
		c.Data(http.StatusOK, contentType, []byte(data))
	}
}
