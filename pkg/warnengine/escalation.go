package warnengine

import (
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// Action is the automatic punishment selected by the escalation policy.
type Action int

const (
	ActionNone Action = iota
	ActionTimeout
	ActionKick
	ActionBan
)

// String returns the action name used in audit events and logs.
func (a Action) String() string {
	switch a {
	case ActionTimeout:
		return "timeout"
	case ActionKick:
		return "kick"
	case ActionBan:
		return "ban"
	default:
		return "none"
	}
}

// Evaluate maps an active-warning count to the punishment action for the
// given thresholds. Thresholds are checked highest-first so the most severe
// applicable action wins. A threshold of 0 disables that rung.
func Evaluate(activeCount int, t models.Thresholds) Action {
	switch {
	case t.Ban > 0 && activeCount >= t.Ban:
		return ActionBan
	case t.Kick > 0 && activeCount >= t.Kick:
		return ActionKick
	case t.Timeout > 0 && activeCount >= t.Timeout:
		return ActionTimeout
	default:
		return ActionNone
	}
}

// TimeoutFor selects the timeout duration from the severity of the warning
// that triggered the evaluation, not from any aggregate.
func TimeoutFor(severity models.Severity, tm models.TimeoutMinutes) time.Duration {
	minutes := tm.Minor
	switch severity {
	case models.SeverityModerate:
		minutes = tm.Moderate
	case models.SeveritySevere:
		minutes = tm.Severe
	}
	return time.Duration(minutes) * time.Minute
}

// EscalationResult describes the punishment chosen for a successful AddWarning.
type EscalationResult struct {
	Action          Action
	TimeoutDuration time.Duration
	ActiveCount     int
	// Applied is false when the actuator refused the action; the warning
	// record stands either way.
	Applied bool
}

// actionHandler applies one punishment kind through the actuator.
type actionHandler func(guildID, userID, reason string, timeout time.Duration) error

// buildActionTable wires the closed set of actions to their actuator calls.
// Adding an Action constant without a handler here is a programming error
// surfaced by the escalate path logging "no handler".
func (e *Engine) buildActionTable() map[Action]actionHandler {
	return map[Action]actionHandler{
		ActionTimeout: func(guildID, userID, reason string, timeout time.Duration) error {
			return e.actuator.Timeout(guildID, userID, timeout, reason)
		},
		ActionKick: func(guildID, userID, reason string, _ time.Duration) error {
			return e.actuator.Kick(guildID, userID, reason)
		},
		ActionBan: func(guildID, userID, reason string, _ time.Duration) error {
			return e.actuator.Ban(guildID, userID, reason)
		},
	}
}
