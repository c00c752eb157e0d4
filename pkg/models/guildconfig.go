package models

// Thresholds holds the active-warning counts at which each automatic
// punishment kicks in. Checked highest-first, so ban wins over kick.
type Thresholds struct {
	Timeout int `bson:"timeout" json:"timeout"`
	Kick    int `bson:"kick" json:"kick"`
	Ban     int `bson:"ban" json:"ban"`
}

// TimeoutMinutes maps the severity of the triggering warning to the
// timeout duration applied when escalation lands on a timeout.
type TimeoutMinutes struct {
	Minor    int `bson:"minor" json:"minor"`
	Moderate int `bson:"moderate" json:"moderate"`
	Severe   int `bson:"severe" json:"severe"`
}

// GuildConfig representa la configuración de moderación de un servidor.
// Stored one document per guild in the "guild_configs" collection.
type GuildConfig struct {
	GuildID            string         `bson:"guildId" json:"guildId"`
	Thresholds         Thresholds     `bson:"thresholds" json:"thresholds"`
	TimeoutMinutes     TimeoutMinutes `bson:"timeoutMinutes" json:"timeoutMinutes"`
	MaxWarningsPerUser int            `bson:"maxWarningsPerUser" json:"maxWarningsPerUser"`
	DefaultExpiryDays  int            `bson:"defaultExpiryDays" json:"defaultExpiryDays"`
	ModLogChannelID    string         `bson:"modLogChannelId,omitempty" json:"modLogChannelId,omitempty"`
}

// DefaultGuildConfig returns the documented defaults (thresholds 3/5/7).
// Used whenever a guild has no stored config or the store is unreachable.
func DefaultGuildConfig(guildID string) *GuildConfig {
	return &GuildConfig{
		GuildID: guildID,
		Thresholds: Thresholds{
			Timeout: 3,
			Kick:    5,
			Ban:     7,
		},
		TimeoutMinutes: TimeoutMinutes{
			Minor:    10,
			Moderate: 60,
			Severe:   1440,
		},
		MaxWarningsPerUser: 50,
		DefaultExpiryDays:  90,
	}
}
