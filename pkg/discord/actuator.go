// Package discord - moderation actuator over the Discord session.
package discord

import (
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"
)

// SessionActuator applies punishments through discordgo. It satisfies the
// warn engine's Actuator contract.
type SessionActuator struct {
	session *discordgo.Session
}

// NewSessionActuator creates an actuator over an open session.
func NewSessionActuator(session *discordgo.Session) *SessionActuator {
	return &SessionActuator{session: session}
}

// Ban bans the user without deleting message history.
func (a *SessionActuator) Ban(guildID, userID, reason string) error {
	return a.session.GuildBanCreateWithReason(guildID, userID, reason, 0)
}

// Unban lifts an existing ban. The audit reason only reaches Discord's log
// through the X-Audit-Log-Reason header, which discordgo sets from options;
// the plain call is enough here.
func (a *SessionActuator) Unban(guildID, userID, reason string) error {
	return a.session.GuildBanDelete(guildID, userID)
}

// Kick removes the user from the guild.
func (a *SessionActuator) Kick(guildID, userID, reason string) error {
	return a.session.GuildMemberDeleteWithReason(guildID, userID, reason)
}

// Timeout applies a communication timeout for the given duration.
func (a *SessionActuator) Timeout(guildID, userID string, duration time.Duration, reason string) error {
	until := time.Now().Add(duration)
	return a.session.GuildMemberTimeout(guildID, userID, &until)
}

// ClearTimeout lifts an active communication timeout.
func (a *SessionActuator) ClearTimeout(guildID, userID, reason string) error {
	return a.session.GuildMemberTimeout(guildID, userID, nil)
}

// IsBanned reports whether the user currently appears in the guild's ban list.
func (a *SessionActuator) IsBanned(guildID, userID string) (bool, error) {
	_, err := a.session.GuildBan(guildID, userID)
	if err == nil {
		return true, nil
	}
	if isDiscordCode(err, discordgo.ErrCodeUnknownBan) {
		return false, nil
	}
	return false, err
}

// IsTimedOut reports whether the user has an active communication timeout.
// A user who is not a member (kicked, banned, left) counts as not timed out.
func (a *SessionActuator) IsTimedOut(guildID, userID string) (bool, error) {
	member, err := a.session.GuildMember(guildID, userID)
	if err != nil {
		if isDiscordCode(err, discordgo.ErrCodeUnknownMember) || isDiscordCode(err, discordgo.ErrCodeUnknownUser) {
			return false, nil
		}
		return false, err
	}
	return member.CommunicationDisabledUntil != nil && member.CommunicationDisabledUntil.After(time.Now()), nil
}

// isDiscordCode matches a REST error against a Discord API error code.
func isDiscordCode(err error, code int) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	return restErr.Message != nil && restErr.Message.Code == code
}
