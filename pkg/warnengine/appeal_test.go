package warnengine

import (
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

const validAppealReason = "Considero que la advertencia fue un malentendido"

func TestAppealWarningValidation(t *testing.T) {
	env := newTestEnv()

	if err := env.engine.AppealWarning("g1", "u1", "w1", "muy corta", ""); err != ErrAppealReasonLength {
		t.Errorf("razón corta: err = %v, want ErrAppealReasonLength", err)
	}

	if err := env.engine.AppealWarning("g1", "u1", "no-existe", validAppealReason, ""); err != ErrWarningNotFound {
		t.Errorf("advertencia inexistente: err = %v, want ErrWarningNotFound", err)
	}
}

func TestAppealWarningMarksPending(t *testing.T) {
	env := newTestEnv()

	res, err := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityMinor, 0)
	if err != nil {
		t.Fatalf("AddWarning: %v", err)
	}

	if err := env.engine.AppealWarning("g1", "u1", res.Warning.ID, validAppealReason, "captura.png"); err != nil {
		t.Fatalf("AppealWarning: %v", err)
	}

	warns, _ := env.engine.GetUserWarnings("g1", "u1")
	w := warns[0]
	if !w.Appealed || w.AppealStatus != models.AppealPending {
		t.Fatalf("estado de apelación = %+v, want pendiente", w)
	}
	if w.AppealReason != validAppealReason || w.AppealEvidence != "captura.png" {
		t.Errorf("campos de apelación incorrectos: %+v", w)
	}
	if env.audit.countOf("appeal_submitted") != 1 {
		t.Errorf("eventos appeal_submitted = %d, want 1", env.audit.countOf("appeal_submitted"))
	}
}

func TestAppealCooldown(t *testing.T) {
	env := newTestEnv()

	res, _ := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityMinor, 0)
	if err := env.engine.AppealWarning("g1", "u1", res.Warning.ID, validAppealReason, ""); err != nil {
		t.Fatalf("AppealWarning: %v", err)
	}

	env.clock.Advance(time.Minute)
	if err := env.engine.AppealWarning("g1", "u1", res.Warning.ID, validAppealReason, ""); err != ErrAppealCooldown {
		t.Errorf("reenvío dentro del cooldown: err = %v, want ErrAppealCooldown", err)
	}

	// Tras el cooldown el reenvío sobreescribe la apelación pendiente
	env.clock.Advance(5 * time.Minute)
	if err := env.engine.AppealWarning("g1", "u1", res.Warning.ID, validAppealReason+" con nueva evidencia", ""); err != nil {
		t.Errorf("reenvío tras cooldown: %v", err)
	}
}

func TestProcessAppealDeny(t *testing.T) {
	env := newTestEnv()

	res, _ := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityMinor, 0)
	if err := env.engine.AppealWarning("g1", "u1", res.Warning.ID, validAppealReason, ""); err != nil {
		t.Fatalf("AppealWarning: %v", err)
	}

	w, err := env.engine.ProcessAppeal("g1", res.Warning.ID, DecisionDeny, "la evidencia no alcanza", "mod2")
	if err != nil {
		t.Fatalf("ProcessAppeal: %v", err)
	}
	if w.AppealStatus != models.AppealDenied {
		t.Errorf("AppealStatus = %s, want denied", w.AppealStatus)
	}
	if w.Removed {
		t.Error("la advertencia quedó removed tras una denegación")
	}
	if w.AppealProcessedBy != "mod2" || w.AppealModReason != "la evidencia no alcanza" {
		t.Errorf("metadatos del veredicto incorrectos: %+v", w)
	}
	if env.audit.countOf("appeal_denied") != 1 {
		t.Errorf("eventos appeal_denied = %d, want 1", env.audit.countOf("appeal_denied"))
	}
}

func TestProcessAppealApproveReversesBan(t *testing.T) {
	env := newTestEnv()

	res, _ := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityMinor, 0)
	if err := env.engine.AppealWarning("g1", "u1", res.Warning.ID, validAppealReason, ""); err != nil {
		t.Fatalf("AppealWarning: %v", err)
	}
	env.actuator.banned["g1_u1"] = true
	env.actuator.timedOut["g1_u1"] = true

	w, err := env.engine.ProcessAppeal("g1", res.Warning.ID, DecisionApprove, "tiene razón", "mod2")
	if err != nil {
		t.Fatalf("ProcessAppeal: %v", err)
	}
	if w.AppealStatus != models.AppealApproved || !w.Removed {
		t.Fatalf("estado tras aprobación = %+v", w)
	}

	// El ban se revierte primero y detiene la reversión: exactamente un
	// Unban y ningún ClearTimeout
	if env.actuator.unbans != 1 {
		t.Errorf("unbans = %d, want 1", env.actuator.unbans)
	}
	if env.actuator.clearTimeouts != 0 {
		t.Errorf("clearTimeouts = %d, want 0", env.actuator.clearTimeouts)
	}
	if env.audit.countOf("appeal_approved") != 1 {
		t.Errorf("eventos appeal_approved = %d, want 1", env.audit.countOf("appeal_approved"))
	}
}

func TestProcessAppealNotPending(t *testing.T) {
	env := newTestEnv()

	res, _ := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityMinor, 0)

	if _, err := env.engine.ProcessAppeal("g1", res.Warning.ID, DecisionApprove, "sin apelación", "mod2"); err != ErrAppealNotPending {
		t.Errorf("sin apelación: err = %v, want ErrAppealNotPending", err)
	}

	if err := env.engine.AppealWarning("g1", "u1", res.Warning.ID, validAppealReason, ""); err != nil {
		t.Fatalf("AppealWarning: %v", err)
	}
	if _, err := env.engine.ProcessAppeal("g1", res.Warning.ID, DecisionDeny, "denegada", "mod2"); err != nil {
		t.Fatalf("ProcessAppeal: %v", err)
	}

	// Volver a resolver una apelación ya resuelta falla
	if _, err := env.engine.ProcessAppeal("g1", res.Warning.ID, DecisionApprove, "reintento", "mod2"); err != ErrAppealNotPending {
		t.Errorf("doble resolución: err = %v, want ErrAppealNotPending", err)
	}

	if _, err := env.engine.ProcessAppeal("g1", "no-existe", DecisionDeny, "nada", "mod2"); err != ErrWarningNotFound {
		t.Errorf("id inexistente: err = %v, want ErrWarningNotFound", err)
	}
}

func TestAppealResubmissionResetsFields(t *testing.T) {
	env := newTestEnv()

	res, _ := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityMinor, 0)
	if err := env.engine.AppealWarning("g1", "u1", res.Warning.ID, validAppealReason, ""); err != nil {
		t.Fatalf("AppealWarning: %v", err)
	}
	if _, err := env.engine.ProcessAppeal("g1", res.Warning.ID, DecisionDeny, "denegada", "mod2"); err != nil {
		t.Fatalf("ProcessAppeal: %v", err)
	}

	env.clock.Advance(time.Hour)
	if err := env.engine.AppealWarning("g1", "u1", res.Warning.ID, validAppealReason+" con más contexto", ""); err != nil {
		t.Fatalf("reenvío tras denegación: %v", err)
	}

	warns, _ := env.engine.GetUserWarnings("g1", "u1")
	w := warns[0]
	if w.AppealStatus != models.AppealPending {
		t.Errorf("AppealStatus = %s, want pending", w.AppealStatus)
	}
	if w.AppealProcessedBy != "" || w.AppealProcessedAt != 0 || w.AppealModReason != "" {
		t.Errorf("el reenvío no limpió el veredicto anterior: %+v", w)
	}
}

func TestInFlightSet(t *testing.T) {
	s := newInFlightSet()

	release, ok := s.TryAcquire("k")
	if !ok {
		t.Fatal("la primera adquisición falló")
	}
	if _, ok := s.TryAcquire("k"); ok {
		t.Error("la clave ocupada se adquirió dos veces")
	}
	release()
	if _, ok := s.TryAcquire("k"); !ok {
		t.Error("la clave liberada no se pudo readquirir")
	}
}
