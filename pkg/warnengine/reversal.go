package warnengine

import (
	"fmt"

	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// reversePunishment undoes the external sanction presumed to be caused by a
// removed warning. Ban is checked first: a banned user cannot simultaneously
// be timed out in-guild, so at most one reversal happens. The reversal is
// unconditional with respect to who imposed the sanction; the engine does
// not track cause-of-punishment.
func (e *Engine) reversePunishment(guildID, userID string, w *models.Warning) {
	reason := fmt.Sprintf("Advertencia retirada: %s", w.ID)

	banned, err := e.actuator.IsBanned(guildID, userID)
	if err != nil {
		logger.Error(fmt.Sprintf("No se pudo consultar el estado de ban de %s en %s: %v", userID, guildID, err), logPrefix)
		return
	}
	if banned {
		if err := e.actuator.Unban(guildID, userID, reason); err != nil {
			logger.Error(fmt.Sprintf("Fallo revirtiendo ban de %s en %s: %v", userID, guildID, err), logPrefix)
			return
		}
		e.emit(guildID, "punishment_reversed", map[string]interface{}{
			"userId":    userID,
			"type":      "ban",
			"warningId": w.ID,
		})
		return
	}

	timedOut, err := e.actuator.IsTimedOut(guildID, userID)
	if err != nil {
		logger.Error(fmt.Sprintf("No se pudo consultar el timeout de %s en %s: %v", userID, guildID, err), logPrefix)
		return
	}
	if !timedOut {
		return
	}
	if err := e.actuator.ClearTimeout(guildID, userID, reason); err != nil {
		logger.Error(fmt.Sprintf("Fallo revirtiendo timeout de %s en %s: %v", userID, guildID, err), logPrefix)
		return
	}
	e.emit(guildID, "punishment_reversed", map[string]interface{}{
		"userId":    userID,
		"type":      "timeout",
		"warningId": w.ID,
	})
}
