// Package warnengine implements the warning and auto-escalation engine.
// It records infractions per (guild, user), deduplicates concurrent
// submissions, escalates punishment as active warnings accumulate and runs
// the appeal workflow that can reverse both a warning and its punishment.
package warnengine

import (
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/google/uuid"
)

const logPrefix = "WarnEngine"

const (
	reasonMinLen = 5
	reasonMaxLen = 500
)

// Actuator applies and inspects external punishments. Failures are logged
// as non-fatal; the warning record stands even if enforcement failed.
type Actuator interface {
	Ban(guildID, userID, reason string) error
	Unban(guildID, userID, reason string) error
	Kick(guildID, userID, reason string) error
	Timeout(guildID, userID string, duration time.Duration, reason string) error
	ClearTimeout(guildID, userID, reason string) error
	IsBanned(guildID, userID string) (bool, error)
	IsTimedOut(guildID, userID string) (bool, error)
}

// Notifier delivers user-facing notices. Implementations must fall back to a
// moderator-visible channel when direct delivery fails and report the result.
type Notifier interface {
	SendAppealPrompt(guildID, userID string, w *models.Warning) bool
}

// AuditSink receives one event per lifecycle transition. Emission failure
// never rolls back engine state.
type AuditSink interface {
	Emit(guildID, eventType string, payload map[string]interface{}) error
}

// Engine is the single entry point for all warning operations. All shared
// state (dedup cache, in-flight appeal set, per-key locks) is owned by the
// instance so isolated engines can coexist, e.g. in tests.
type Engine struct {
	store    Store
	configs  ConfigProvider
	actuator Actuator
	notifier Notifier
	audit    AuditSink

	dedup    *dedupCache
	keys     *keyedMutex
	inFlight *inFlightSet
	actions  map[Action]actionHandler

	now func() time.Time
}

// New creates an engine with all collaborators injected.
func New(store Store, configs ConfigProvider, actuator Actuator, notifier Notifier, audit AuditSink) *Engine {
	e := &Engine{
		store:    store,
		configs:  configs,
		actuator: actuator,
		notifier: notifier,
		audit:    audit,
		dedup:    newDedupCache(),
		keys:     newKeyedMutex(),
		inFlight: newInFlightSet(),
		now:      time.Now,
	}
	e.actions = e.buildActionTable()
	return e
}

// Config returns the effective configuration for a guild.
func (e *Engine) Config(guildID string) *models.GuildConfig {
	return e.configs.GuildConfig(guildID)
}

// AddResult is the outcome of AddWarning. On a detected duplicate, Warning
// carries the pre-existing record when one was created within the last 30
// seconds and nil otherwise; callers must tolerate both.
type AddResult struct {
	Warning    *models.Warning
	Duplicate  bool
	Escalation EscalationResult
}

// AddWarning validates, deduplicates, sweeps expiry, persists the warning
// and evaluates escalation exactly once.
func (e *Engine) AddWarning(guildID, userID, reason, issuerID string, severity models.Severity, expiresInDays int) (*AddResult, error) {
	if n := utf8.RuneCountInString(reason); n < reasonMinLen || n > reasonMaxLen {
		return nil, ErrReasonLength
	}
	if !severity.Valid() {
		return nil, ErrInvalidSeverity
	}

	dedupKey := e.dedup.Key("add", guildID, userID, reason, string(severity), issuerID)
	if e.dedup.IsDuplicate(dedupKey) {
		return e.resolveDuplicateAdd(guildID, userID, reason, issuerID, severity), nil
	}

	e.sweepGuild(guildID)

	cfg := e.configs.GuildConfig(guildID)

	unlock := e.keys.Lock(guildID + "_" + userID)
	defer unlock()

	// Re-check under the key lock: a concurrent identical submission may
	// have been remembered while this one waited for the lock.
	if e.dedup.IsDuplicate(dedupKey) {
		return e.resolveDuplicateAdd(guildID, userID, reason, issuerID, severity), nil
	}

	doc, err := e.store.Load(guildID, userID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		doc = &models.WarningsDocument{GuildID: guildID, UserID: userID}
	}

	if cfg.MaxWarningsPerUser > 0 && countActive(doc.Warns) >= cfg.MaxWarningsPerUser {
		return nil, ErrMaxWarnings
	}

	now := e.now()
	w := models.Warning{
		ID:           uuid.NewString(),
		Reason:       reason,
		Moderator:    issuerID,
		Severity:     severity,
		CreatedAt:    now.Unix(),
		AppealStatus: models.AppealNone,
	}
	if days := effectiveExpiryDays(expiresInDays, cfg.DefaultExpiryDays); days > 0 {
		w.ExpiresAt = now.AddDate(0, 0, days).Unix()
	}

	doc.Warns = append(doc.Warns, w)
	if err := e.store.Save(doc); err != nil {
		return nil, err
	}
	e.dedup.Remember(dedupKey)

	if e.emit(guildID, "warning_added", map[string]interface{}{
		"warningId": w.ID,
		"userId":    userID,
		"moderator": issuerID,
		"severity":  string(severity),
		"reason":    reason,
	}) {
		doc.Warns[len(doc.Warns)-1].Logged = true
		if err := e.store.Save(doc); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo marcar logged para %s: %v", w.ID, err), logPrefix)
		}
	}

	if !e.notifier.SendAppealPrompt(guildID, userID, &w) {
		logger.Warn(fmt.Sprintf("No se pudo notificar la advertencia %s al usuario %s", w.ID, userID), logPrefix)
	}

	esc := e.escalate(guildID, userID, cfg, &w, countActive(doc.Warns))

	created := doc.Warns[len(doc.Warns)-1]
	return &AddResult{Warning: &created, Escalation: esc}, nil
}

// resolveDuplicateAdd implements the duplicate-add contract: return the most
// recent matching warning created within the lookback window if one exists,
// otherwise signal a plain no-op.
func (e *Engine) resolveDuplicateAdd(guildID, userID, reason, issuerID string, severity models.Severity) *AddResult {
	res := &AddResult{Duplicate: true}

	doc, err := e.store.Load(guildID, userID)
	if err != nil || doc == nil {
		return res
	}

	cutoff := e.now().Add(-duplicateLookback).Unix()
	for i := len(doc.Warns) - 1; i >= 0; i-- {
		w := doc.Warns[i]
		if w.Reason == reason && w.Severity == severity && w.Moderator == issuerID && w.CreatedAt >= cutoff {
			res.Warning = &w
			break
		}
	}
	return res
}

// escalate evaluates the policy once per successful AddWarning and applies
// the resulting action through the dispatch table. Actuator failures do not
// unwind the warning record.
func (e *Engine) escalate(guildID, userID string, cfg *models.GuildConfig, trigger *models.Warning, activeCount int) EscalationResult {
	action := Evaluate(activeCount, cfg.Thresholds)
	// Act only when this warning crossed into a new rung. Counts already
	// above a threshold keep the standing punishment; re-applying it on
	// every further warning would punish the same crossing repeatedly.
	if action != ActionNone && action == Evaluate(activeCount-1, cfg.Thresholds) {
		action = ActionNone
	}

	res := EscalationResult{
		Action:      action,
		ActiveCount: activeCount,
	}
	if res.Action == ActionNone {
		return res
	}
	if res.Action == ActionTimeout {
		res.TimeoutDuration = TimeoutFor(trigger.Severity, cfg.TimeoutMinutes)
	}

	handler, ok := e.actions[res.Action]
	if !ok {
		logger.Error(fmt.Sprintf("Sin handler para la acción %s", res.Action), logPrefix)
		return res
	}

	reason := fmt.Sprintf("Escalado automático: %d advertencias activas", activeCount)
	if err := handler(guildID, userID, reason, res.TimeoutDuration); err != nil {
		logger.Error(fmt.Sprintf("Fallo aplicando %s a %s en %s: %v", res.Action, userID, guildID, err), logPrefix)
		return res
	}
	res.Applied = true

	e.emit(guildID, "escalation_applied", map[string]interface{}{
		"userId":      userID,
		"action":      res.Action.String(),
		"activeCount": activeCount,
		"warningId":   trigger.ID,
		"timeoutMs":   res.TimeoutDuration.Milliseconds(),
	})
	return res
}

// RemoveWarning flags one warning removed and reverses matching punishments.
// Returns false when the warning does not exist or was already removed.
func (e *Engine) RemoveWarning(guildID, userID, warningID, removedBy, reason string) (bool, error) {
	unlock := e.keys.Lock(guildID + "_" + userID)
	defer unlock()

	doc, err := e.store.Load(guildID, userID)
	if err != nil {
		return false, err
	}
	if doc == nil {
		return false, nil
	}

	idx := findWarning(doc.Warns, warningID)
	if idx < 0 || doc.Warns[idx].Removed {
		return false, nil
	}

	w := &doc.Warns[idx]
	w.Removed = true
	w.RemovedBy = removedBy
	w.RemovedReason = reason
	w.RemovedAt = e.now().Unix()

	if err := e.store.Save(doc); err != nil {
		return false, err
	}

	e.emit(guildID, "warning_removed", map[string]interface{}{
		"warningId": warningID,
		"userId":    userID,
		"removedBy": removedBy,
		"reason":    reason,
	})

	e.reversePunishment(guildID, userID, w)
	return true, nil
}

// ClearWarnings flags every currently-active warning of the user removed and
// reverses punishments once through a synthetic marker warning. Returns the
// number cleared; 0 when none were active.
func (e *Engine) ClearWarnings(guildID, userID, moderatorID, reason string) (int, error) {
	unlock := e.keys.Lock(guildID + "_" + userID)
	defer unlock()

	doc, err := e.store.Load(guildID, userID)
	if err != nil {
		return 0, err
	}
	if doc == nil {
		return 0, nil
	}

	now := e.now().Unix()
	cleared := 0
	for i := range doc.Warns {
		if !doc.Warns[i].Active() {
			continue
		}
		doc.Warns[i].Removed = true
		doc.Warns[i].RemovedBy = moderatorID
		doc.Warns[i].RemovedReason = reason
		doc.Warns[i].RemovedAt = now
		cleared++
	}
	if cleared == 0 {
		return 0, nil
	}

	if err := e.store.Save(doc); err != nil {
		return 0, err
	}

	e.emit(guildID, "warnings_cleared", map[string]interface{}{
		"userId":    userID,
		"moderator": moderatorID,
		"count":     cleared,
		"reason":    reason,
	})

	marker := models.Warning{
		ID:        "bulk-clear",
		Reason:    "Todas las advertencias eliminadas",
		Moderator: moderatorID,
		CreatedAt: now,
	}
	e.reversePunishment(guildID, userID, &marker)

	return cleared, nil
}

// GetUserWarnings sweeps expiry first and returns the user's warnings
// newest-first for display.
func (e *Engine) GetUserWarnings(guildID, userID string) ([]models.Warning, error) {
	e.sweepGuild(guildID)

	doc, err := e.store.Load(guildID, userID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	out := make([]models.Warning, len(doc.Warns))
	copy(out, doc.Warns)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

// GuildWarning pairs a warning with the user who received it, for guild-wide
// listings, stats and export.
type GuildWarning struct {
	UserID string `json:"userId"`
	models.Warning
}

// GetAllWarnings sweeps expiry first and returns every warning in the guild,
// newest-first.
func (e *Engine) GetAllWarnings(guildID string) ([]GuildWarning, error) {
	e.sweepGuild(guildID)

	docs, err := e.store.LoadGuild(guildID)
	if err != nil {
		return nil, err
	}

	var out []GuildWarning
	for _, doc := range docs {
		for _, w := range doc.Warns {
			out = append(out, GuildWarning{UserID: doc.UserID, Warning: w})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

// emit sends an audit event, tolerating failure. Returns whether it landed.
func (e *Engine) emit(guildID, eventType string, payload map[string]interface{}) bool {
	if err := e.audit.Emit(guildID, eventType, payload); err != nil {
		logger.Warn(fmt.Sprintf("Fallo emitiendo evento %s para %s: %v", eventType, guildID, err), logPrefix)
		return false
	}
	return true
}

func findWarning(warns []models.Warning, id string) int {
	for i := range warns {
		if warns[i].ID == id {
			return i
		}
	}
	return -1
}

func countActive(warns []models.Warning) int {
	n := 0
	for i := range warns {
		if warns[i].Active() {
			n++
		}
	}
	return n
}

// effectiveExpiryDays resolves the expiry argument: a positive value wins,
// 0 falls back to the guild default and a negative value forces permanent.
func effectiveExpiryDays(requested, guildDefault int) int {
	switch {
	case requested > 0:
		return requested
	case requested < 0:
		return 0
	default:
		return guildDefault
	}
}
