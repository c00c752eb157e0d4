package warnengine

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// sweepGuild lazily marks due warnings expired and persists the change.
// There is no background scheduler; the expired flag may lag real time
// until the next access, which is acceptable because Active() always
// checks both flags. The sweep also retries pending audit emissions
// (logged=false) once per access.
//
// The guild scan only selects candidate pairs; each document is re-read
// and rewritten under its key lock in sweepUser, so a warning added
// between the scan and the write cannot be lost to a stale copy.
func (e *Engine) sweepGuild(guildID string) {
	docs, err := e.store.LoadGuild(guildID)
	if err != nil {
		logger.Warn(fmt.Sprintf("Sweep de %s falló al leer: %v", guildID, err), logPrefix)
		return
	}

	now := e.now().Unix()
	for _, doc := range docs {
		if needsSweep(doc.Warns, now) {
			e.sweepUser(doc.GuildID, doc.UserID)
		}
	}
}

// needsSweep reports whether any warning has a due expiry or a pending
// audit emission.
func needsSweep(warns []models.Warning, now int64) bool {
	for i := range warns {
		if warns[i].ExpiresAt > 0 && warns[i].ExpiresAt <= now && !warns[i].Expired {
			return true
		}
		if !warns[i].Logged {
			return true
		}
	}
	return false
}

func (e *Engine) sweepUser(guildID, userID string) {
	unlock := e.keys.Lock(guildID + "_" + userID)
	defer unlock()

	doc, err := e.store.Load(guildID, userID)
	if err != nil {
		logger.Warn(fmt.Sprintf("Sweep de %s_%s falló al leer: %v", guildID, userID, err), logPrefix)
		return
	}
	if doc == nil {
		return
	}

	now := e.now().Unix()
	changed := false
	for i := range doc.Warns {
		w := &doc.Warns[i]
		if w.ExpiresAt > 0 && w.ExpiresAt <= now && !w.Expired {
			w.Expired = true
			changed = true
		}
		if !w.Logged {
			if e.emit(guildID, "warning_added", map[string]interface{}{
				"warningId": w.ID,
				"userId":    doc.UserID,
				"moderator": w.Moderator,
				"severity":  string(w.Severity),
				"reason":    w.Reason,
				"retried":   true,
			}) {
				w.Logged = true
				changed = true
			}
		}
	}
	if !changed {
		return
	}

	if err := e.store.Save(doc); err != nil {
		logger.Warn(fmt.Sprintf("Sweep de %s_%s falló al guardar: %v", guildID, userID, err), logPrefix)
	}
}
