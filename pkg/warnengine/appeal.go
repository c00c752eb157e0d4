package warnengine

import (
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
)

const (
	appealReasonMinLen = 20
	appealReasonMaxLen = 500
	appealCooldown     = 5 * time.Minute
)

// Decision is the moderator's explicit verdict for a pending appeal.
type Decision int

const (
	DecisionDeny Decision = iota
	DecisionApprove
)

// String returns the audit event suffix for the decision.
func (d Decision) String() string {
	if d == DecisionApprove {
		return "approved"
	}
	return "denied"
}

// inFlightSet guards against the same appeal operation executing twice
// concurrently. Separate from the idempotency cache: entries live only for
// the duration of the call.
type inFlightSet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInFlightSet() *inFlightSet {
	return &inFlightSet{keys: make(map[string]struct{})}
}

// TryAcquire claims the key; the release func must be called when done.
func (s *inFlightSet) TryAcquire(key string) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.keys[key]; busy {
		return nil, false
	}
	s.keys[key] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.keys, key)
		s.mu.Unlock()
	}, true
}

// AppealWarning transitions a warning's appeal to pending. Resubmission over
// a resolved or stale-pending appeal resets every appeal field; a pending
// appeal younger than the cooldown is rejected.
func (e *Engine) AppealWarning(guildID, userID, warningID, reason, evidence string) error {
	if n := utf8.RuneCountInString(reason); n < appealReasonMinLen || n > appealReasonMaxLen {
		return ErrAppealReasonLength
	}

	release, ok := e.inFlight.TryAcquire("appeal|" + guildID + "|" + userID + "|" + warningID)
	if !ok {
		return ErrAppealInFlight
	}
	defer release()

	unlock := e.keys.Lock(guildID + "_" + userID)
	defer unlock()

	doc, err := e.store.Load(guildID, userID)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrWarningNotFound
	}
	idx := findWarning(doc.Warns, warningID)
	if idx < 0 {
		return ErrWarningNotFound
	}

	now := e.now()
	w := &doc.Warns[idx]
	if w.AppealStatus == models.AppealPending && now.Unix()-w.AppealedAt < int64(appealCooldown.Seconds()) {
		return ErrAppealCooldown
	}

	w.Appealed = true
	w.AppealReason = reason
	w.AppealEvidence = evidence
	w.AppealedAt = now.Unix()
	w.AppealStatus = models.AppealPending
	w.AppealProcessedBy = ""
	w.AppealProcessedAt = 0
	w.AppealModReason = ""

	if err := e.store.Save(doc); err != nil {
		return err
	}

	e.emit(guildID, "appeal_submitted", map[string]interface{}{
		"warningId": warningID,
		"userId":    userID,
	})
	return nil
}

// ProcessAppeal resolves a pending appeal. On approval the warning is also
// flagged removed and matching punishments are reversed.
func (e *Engine) ProcessAppeal(guildID, warningID string, decision Decision, moderatorReason, moderatorID string) (*models.Warning, error) {
	userID, err := e.findAppealOwner(guildID, warningID)
	if err != nil {
		return nil, err
	}

	unlock := e.keys.Lock(guildID + "_" + userID)
	defer unlock()

	// Reload under the key lock; the unlocked lookup only located the owner.
	doc, err := e.store.Load(guildID, userID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrWarningNotFound
	}
	idx := findWarning(doc.Warns, warningID)
	if idx < 0 {
		return nil, ErrWarningNotFound
	}

	w := &doc.Warns[idx]
	if w.AppealStatus != models.AppealPending {
		return nil, ErrAppealNotPending
	}

	now := e.now().Unix()
	w.AppealProcessedBy = moderatorID
	w.AppealProcessedAt = now
	w.AppealModReason = moderatorReason

	if decision == DecisionApprove {
		w.AppealStatus = models.AppealApproved
		w.Removed = true
		w.RemovedBy = moderatorID
		w.RemovedReason = "Appeal approved"
		w.RemovedAt = now
	} else {
		w.AppealStatus = models.AppealDenied
	}

	if err := e.store.Save(doc); err != nil {
		return nil, err
	}

	e.emit(guildID, "appeal_"+decision.String(), map[string]interface{}{
		"warningId": warningID,
		"userId":    userID,
		"moderator": moderatorID,
		"reason":    moderatorReason,
	})

	if decision == DecisionApprove {
		e.reversePunishment(guildID, userID, w)
	}

	resolved := *w
	return &resolved, nil
}

// findAppealOwner locates which user a warning id belongs to within a guild.
func (e *Engine) findAppealOwner(guildID, warningID string) (string, error) {
	docs, err := e.store.LoadGuild(guildID)
	if err != nil {
		return "", err
	}
	for _, doc := range docs {
		if findWarning(doc.Warns, warningID) >= 0 {
			return doc.UserID, nil
		}
	}
	logger.Debug(fmt.Sprintf("Apelación para advertencia inexistente %s en %s", warningID, guildID), logPrefix)
	return "", ErrWarningNotFound
}
