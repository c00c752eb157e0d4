// Package models contains the data structures persisted by the bot.
package models

// Severity classifies how serious an infraction is.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Valid reports whether the severity is one of the known values.
func (s Severity) Valid() bool {
	switch s {
	case SeverityMinor, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// AppealStatus tracks the appeal state machine of a warning.
type AppealStatus string

const (
	AppealNone     AppealStatus = "none"
	AppealPending  AppealStatus = "pending"
	AppealApproved AppealStatus = "approved"
	AppealDenied   AppealStatus = "denied"
)

// Warning representa una advertencia individual.
// A warning is never physically deleted; removal is always the Removed flag.
type Warning struct {
	ID        string   `bson:"id" json:"id"`
	Reason    string   `bson:"reason" json:"reason"`
	Moderator string   `bson:"moderator" json:"moderator"`
	Severity  Severity `bson:"severity" json:"severity"`
	CreatedAt int64    `bson:"createdAt" json:"createdAt"`
	ExpiresAt int64    `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"` // 0 = permanent

	Expired       bool   `bson:"expired" json:"expired"`
	Removed       bool   `bson:"removed" json:"removed"`
	RemovedBy     string `bson:"removedBy,omitempty" json:"removedBy,omitempty"`
	RemovedReason string `bson:"removedReason,omitempty" json:"removedReason,omitempty"`
	RemovedAt     int64  `bson:"removedAt,omitempty" json:"removedAt,omitempty"`

	// Logged marks whether the audit event for this warning was emitted.
	// A false value is retried on the next sweep without re-issuing the warning.
	Logged bool `bson:"logged" json:"logged"`

	Appealed          bool         `bson:"appealed" json:"appealed"`
	AppealReason      string       `bson:"appealReason,omitempty" json:"appealReason,omitempty"`
	AppealEvidence    string       `bson:"appealEvidence,omitempty" json:"appealEvidence,omitempty"`
	AppealedAt        int64        `bson:"appealedAt,omitempty" json:"appealedAt,omitempty"`
	AppealStatus      AppealStatus `bson:"appealStatus,omitempty" json:"appealStatus,omitempty"`
	AppealProcessedBy string       `bson:"appealProcessedBy,omitempty" json:"appealProcessedBy,omitempty"`
	AppealProcessedAt int64        `bson:"appealProcessedAt,omitempty" json:"appealProcessedAt,omitempty"`
	AppealModReason   string       `bson:"appealModReason,omitempty" json:"appealModReason,omitempty"`
}

// Active reports whether the warning still counts towards escalation.
func (w *Warning) Active() bool {
	return !w.Expired && !w.Removed
}

// WarningsDocument representa el documento completo en la colección "warnings".
// One document per (guildId, userId) pair.
type WarningsDocument struct {
	GuildID string    `bson:"guildId" json:"guildId"`
	UserID  string    `bson:"userId" json:"userId"`
	Warns   []Warning `bson:"warns" json:"warns"`
}
