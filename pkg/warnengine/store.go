package warnengine

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/database"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Store is the persistence contract of the engine. One document per
// (guildId, userId) pair; reads and writes are whole-document.
type Store interface {
	// Load returns the document for the pair, or nil when none exists.
	Load(guildID, userID string) (*models.WarningsDocument, error)
	// Save upserts the document. A returned error means the write must not
	// be assumed committed.
	Save(doc *models.WarningsDocument) error
	// LoadGuild returns every warning document of a guild.
	LoadGuild(guildID string) ([]*models.WarningsDocument, error)
}

// ConfigProvider returns the escalation configuration for a guild. It must
// fall back to the documented defaults on any error, never fail.
type ConfigProvider interface {
	GuildConfig(guildID string) *models.GuildConfig
}

// MongoStore persists warning documents through the shared DataManager.
type MongoStore struct {
	dm *database.DataManager[models.WarningsDocument]
}

// NewMongoStore creates a store over the shared "warnings" DataManager,
// initializing the global managers when that has not happened yet.
func NewMongoStore(db *database.Database) *MongoStore {
	if database.GlobalWarningDM == nil {
		database.InitGlobalDataManagers(db)
	}
	return &MongoStore{dm: database.GlobalWarningDM}
}

func (s *MongoStore) Load(guildID, userID string) (*models.WarningsDocument, error) {
	doc, err := s.dm.Get(bson.M{"guildId": guildID, "userId": userID})
	if err != nil {
		return nil, fmt.Errorf("warnengine: load %s_%s: %w", guildID, userID, err)
	}
	return doc, nil
}

func (s *MongoStore) Save(doc *models.WarningsDocument) error {
	res, err := s.dm.Set(bson.M{"guildId": doc.GuildID, "userId": doc.UserID}, doc)
	if err != nil {
		return fmt.Errorf("warnengine: save %s_%s: %w", doc.GuildID, doc.UserID, err)
	}
	// The DataManager queues writes while offline and reports success later;
	// for the engine that still counts as "not persisted yet".
	if res == nil {
		return ErrStoreUnavailable
	}
	return nil
}

func (s *MongoStore) LoadGuild(guildID string) ([]*models.WarningsDocument, error) {
	docs, err := s.dm.GetAll(bson.M{"guildId": guildID})
	if err != nil {
		return nil, fmt.Errorf("warnengine: load guild %s: %w", guildID, err)
	}
	return docs, nil
}

// MongoConfigProvider reads per-guild escalation configs from the
// "guild_configs" collection, one document per guild.
type MongoConfigProvider struct {
	dm *database.DataManager[models.GuildConfig]
}

// NewMongoConfigProvider creates a provider over the shared "guild_configs"
// DataManager.
func NewMongoConfigProvider(db *database.Database) *MongoConfigProvider {
	if database.GlobalGuildConfigDM == nil {
		database.InitGlobalDataManagers(db)
	}
	return &MongoConfigProvider{dm: database.GlobalGuildConfigDM}
}

// GuildConfig returns the stored config or the defaults when the guild has
// none or the store is unreachable.
func (p *MongoConfigProvider) GuildConfig(guildID string) *models.GuildConfig {
	cfg, err := p.dm.Get(bson.M{"guildId": guildID})
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo leer la configuración de %s, usando valores por defecto: %v", guildID, err), "WarnEngine")
		return models.DefaultGuildConfig(guildID)
	}
	if cfg == nil {
		return models.DefaultGuildConfig(guildID)
	}
	normalizeConfig(cfg, guildID)
	return cfg
}

// normalizeConfig fills zero-valued fields of a stored config with defaults
// so a partially written document cannot disable escalation by accident.
func normalizeConfig(cfg *models.GuildConfig, guildID string) {
	def := models.DefaultGuildConfig(guildID)
	if cfg.GuildID == "" {
		cfg.GuildID = guildID
	}
	if cfg.Thresholds.Timeout == 0 && cfg.Thresholds.Kick == 0 && cfg.Thresholds.Ban == 0 {
		cfg.Thresholds = def.Thresholds
	}
	if cfg.TimeoutMinutes.Minor == 0 {
		cfg.TimeoutMinutes.Minor = def.TimeoutMinutes.Minor
	}
	if cfg.TimeoutMinutes.Moderate == 0 {
		cfg.TimeoutMinutes.Moderate = def.TimeoutMinutes.Moderate
	}
	if cfg.TimeoutMinutes.Severe == 0 {
		cfg.TimeoutMinutes.Severe = def.TimeoutMinutes.Severe
	}
	if cfg.MaxWarningsPerUser == 0 {
		cfg.MaxWarningsPerUser = def.MaxWarningsPerUser
	}
}
