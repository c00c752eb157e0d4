package warnengine

import (
	"fmt"
	"testing"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

func TestGetWarningStats(t *testing.T) {
	env := newTestEnv()

	// u1: dos activas, una removida. u2: una activa.
	env.engine.AddWarning("g1", "u1", "primera infracción", "mod1", models.SeverityMinor, 0)
	env.engine.AddWarning("g1", "u1", "segunda infracción", "mod1", models.SeverityModerate, 0)
	removedRes, _ := env.engine.AddWarning("g1", "u1", "tercera infracción", "mod1", models.SeveritySevere, 0)
	env.engine.RemoveWarning("g1", "u1", removedRes.Warning.ID, "mod2", "revisión")
	env.engine.AddWarning("g1", "u2", "infracción aislada", "mod1", models.SeverityMinor, 0)

	appealRes, _ := env.engine.AddWarning("g1", "u2", "infracción apelada", "mod1", models.SeverityMinor, 0)
	env.engine.AppealWarning("g1", "u2", appealRes.Warning.ID, "Considero que la advertencia fue un malentendido", "")

	stats, err := env.engine.GetWarningStats("g1")
	if err != nil {
		t.Fatalf("GetWarningStats: %v", err)
	}

	if stats.Total != 5 {
		t.Errorf("Total = %d, want 5", stats.Total)
	}
	if stats.Active != 4 {
		t.Errorf("Active = %d, want 4", stats.Active)
	}
	if stats.Removed != 1 {
		t.Errorf("Removed = %d, want 1", stats.Removed)
	}
	if stats.Expired != 0 {
		t.Errorf("Expired = %d, want 0", stats.Expired)
	}

	if stats.BySeverity[models.SeverityMinor] != 3 {
		t.Errorf("minor = %d, want 3", stats.BySeverity[models.SeverityMinor])
	}
	if stats.BySeverity[models.SeverityModerate] != 1 || stats.BySeverity[models.SeveritySevere] != 1 {
		t.Errorf("por severidad = %+v", stats.BySeverity)
	}

	if stats.Appeals.Pending != 1 || stats.Appeals.Approved != 0 || stats.Appeals.Denied != 0 {
		t.Errorf("apelaciones = %+v", stats.Appeals)
	}

	if len(stats.TopOffenders) != 2 {
		t.Fatalf("top offenders = %d, want 2", len(stats.TopOffenders))
	}
	// Empate en activas (2 y 2): desempata el total de u1 (3 vs 2)
	if stats.TopOffenders[0].UserID != "u1" {
		t.Errorf("primer offender = %s, want u1", stats.TopOffenders[0].UserID)
	}
	if stats.TopOffenders[0].Active != 2 || stats.TopOffenders[0].Total != 3 {
		t.Errorf("offender u1 = %+v", stats.TopOffenders[0])
	}
}

func TestGetWarningStatsTopOffenderLimit(t *testing.T) {
	env := newTestEnv()

	for i := 0; i < 15; i++ {
		userID := fmt.Sprintf("u%02d", i)
		env.engine.AddWarning("g1", userID, "infracción genérica repetida", "mod1", models.SeverityMinor, 0)
	}

	stats, err := env.engine.GetWarningStats("g1")
	if err != nil {
		t.Fatalf("GetWarningStats: %v", err)
	}
	if len(stats.TopOffenders) != topOffenderLimit {
		t.Errorf("top offenders = %d, want %d", len(stats.TopOffenders), topOffenderLimit)
	}
	// Con todo empatado el orden cae al id de usuario
	if stats.TopOffenders[0].UserID != "u00" {
		t.Errorf("primer offender = %s, want u00", stats.TopOffenders[0].UserID)
	}
}

func TestGetWarningStatsEmptyGuild(t *testing.T) {
	env := newTestEnv()

	stats, err := env.engine.GetWarningStats("g-vacio")
	if err != nil {
		t.Fatalf("GetWarningStats: %v", err)
	}
	if stats.Total != 0 || len(stats.TopOffenders) != 0 {
		t.Errorf("stats de guild vacío = %+v", stats)
	}
}
