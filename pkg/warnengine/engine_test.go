package warnengine

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// testClock is a controllable clock shared by the engine and its dedup cache
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// memStore is an in-memory Store. Documents are copied on the way in and
// out, like a real driver decoding into fresh structs.
type memStore struct {
	mu       sync.Mutex
	docs     map[string]*models.WarningsDocument
	failSave bool
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string]*models.WarningsDocument)}
}

func copyDoc(doc *models.WarningsDocument) *models.WarningsDocument {
	cp := *doc
	cp.Warns = make([]models.Warning, len(doc.Warns))
	copy(cp.Warns, doc.Warns)
	return &cp
}

func (s *memStore) Load(guildID, userID string) (*models.WarningsDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[guildID+"_"+userID]
	if !ok {
		return nil, nil
	}
	return copyDoc(doc), nil
}

func (s *memStore) Save(doc *models.WarningsDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return ErrStoreUnavailable
	}
	s.docs[doc.GuildID+"_"+doc.UserID] = copyDoc(doc)
	return nil
}

func (s *memStore) LoadGuild(guildID string) ([]*models.WarningsDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.WarningsDocument
	for _, doc := range s.docs {
		if doc.GuildID == guildID {
			out = append(out, copyDoc(doc))
		}
	}
	return out, nil
}

// staticConfigs serves the same config for every guild
type staticConfigs struct {
	cfg *models.GuildConfig
}

func (p *staticConfigs) GuildConfig(guildID string) *models.GuildConfig {
	cp := *p.cfg
	cp.GuildID = guildID
	return &cp
}

// fakeActuator records every punishment call and simulates external state
type fakeActuator struct {
	mu       sync.Mutex
	banned   map[string]bool
	timedOut map[string]bool

	bans, unbans, kicks, timeouts, clearTimeouts int
	lastTimeout                                  time.Duration
}

func newFakeActuator() *fakeActuator {
	return &fakeActuator{
		banned:   make(map[string]bool),
		timedOut: make(map[string]bool),
	}
}

func (a *fakeActuator) Ban(guildID, userID, reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bans++
	a.banned[guildID+"_"+userID] = true
	return nil
}

func (a *fakeActuator) Unban(guildID, userID, reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.unbans++
	a.banned[guildID+"_"+userID] = false
	return nil
}

func (a *fakeActuator) Kick(guildID, userID, reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.kicks++
	return nil
}

func (a *fakeActuator) Timeout(guildID, userID string, duration time.Duration, reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.timeouts++
	a.lastTimeout = duration
	a.timedOut[guildID+"_"+userID] = true
	return nil
}

func (a *fakeActuator) ClearTimeout(guildID, userID, reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clearTimeouts++
	a.timedOut[guildID+"_"+userID] = false
	return nil
}

func (a *fakeActuator) IsBanned(guildID, userID string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.banned[guildID+"_"+userID], nil
}

func (a *fakeActuator) IsTimedOut(guildID, userID string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timedOut[guildID+"_"+userID], nil
}

// fakeNotifier counts appeal prompts
type fakeNotifier struct {
	mu      sync.Mutex
	prompts int
	ok      bool
}

func (n *fakeNotifier) SendAppealPrompt(guildID, userID string, w *models.Warning) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.prompts++
	return n.ok
}

type recordedEvent struct {
	GuildID string
	Type    string
	Payload map[string]interface{}
}

// fakeAudit records emissions and can simulate a broker outage
type fakeAudit struct {
	mu     sync.Mutex
	events []recordedEvent
	fail   bool
}

func (a *fakeAudit) Emit(guildID, eventType string, payload map[string]interface{}) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail {
		return fmt.Errorf("broker caído")
	}
	a.events = append(a.events, recordedEvent{GuildID: guildID, Type: eventType, Payload: payload})
	return nil
}

func (a *fakeAudit) countOf(eventType string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, ev := range a.events {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

type testEnv struct {
	engine   *Engine
	clock    *testClock
	store    *memStore
	actuator *fakeActuator
	notifier *fakeNotifier
	audit    *fakeAudit
}

func newTestEnv() *testEnv {
	clock := newTestClock()
	store := newMemStore()
	actuator := newFakeActuator()
	notifier := &fakeNotifier{ok: true}
	audit := &fakeAudit{}

	engine := New(store, &staticConfigs{cfg: models.DefaultGuildConfig("")}, actuator, notifier, audit)
	engine.now = clock.Now
	engine.dedup.now = clock.Now

	return &testEnv{
		engine:   engine,
		clock:    clock,
		store:    store,
		actuator: actuator,
		notifier: notifier,
		audit:    audit,
	}
}

func TestAddWarningValidation(t *testing.T) {
	env := newTestEnv()

	if _, err := env.engine.AddWarning("g1", "u1", "mal", "mod1", models.SeverityMinor, 0); err != ErrReasonLength {
		t.Errorf("razón corta: err = %v, want ErrReasonLength", err)
	}

	long := make([]rune, 501)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := env.engine.AddWarning("g1", "u1", string(long), "mod1", models.SeverityMinor, 0); err != ErrReasonLength {
		t.Errorf("razón larga: err = %v, want ErrReasonLength", err)
	}

	if _, err := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.Severity("extreme"), 0); err != ErrInvalidSeverity {
		t.Errorf("severidad inválida: err = %v, want ErrInvalidSeverity", err)
	}
}

func TestAddWarningCreatesRecord(t *testing.T) {
	env := newTestEnv()

	res, err := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityModerate, 0)
	if err != nil {
		t.Fatalf("AddWarning: %v", err)
	}
	if res.Duplicate {
		t.Error("Duplicate = true en la primera inserción")
	}

	w := res.Warning
	if w.ID == "" {
		t.Error("ID vacío")
	}
	if w.Reason != "spam reiterado" || w.Moderator != "mod1" || w.Severity != models.SeverityModerate {
		t.Errorf("campos incorrectos: %+v", w)
	}
	if w.CreatedAt != env.clock.Now().Unix() {
		t.Errorf("CreatedAt = %d, want %d", w.CreatedAt, env.clock.Now().Unix())
	}

	// expiresInDays=0 cae al default del servidor (90 días)
	wantExpiry := env.clock.Now().AddDate(0, 0, 90).Unix()
	if w.ExpiresAt != wantExpiry {
		t.Errorf("ExpiresAt = %d, want %d", w.ExpiresAt, wantExpiry)
	}

	if !w.Logged {
		t.Error("Logged = false con auditoría disponible")
	}
	if env.audit.countOf("warning_added") != 1 {
		t.Errorf("eventos warning_added = %d, want 1", env.audit.countOf("warning_added"))
	}
	if env.notifier.prompts != 1 {
		t.Errorf("prompts de apelación = %d, want 1", env.notifier.prompts)
	}
}

func TestAddWarningExpiryOverrides(t *testing.T) {
	env := newTestEnv()

	res, err := env.engine.AddWarning("g1", "u1", "uso de alt para evadir", "mod1", models.SeverityMinor, 7)
	if err != nil {
		t.Fatalf("AddWarning: %v", err)
	}
	if want := env.clock.Now().AddDate(0, 0, 7).Unix(); res.Warning.ExpiresAt != want {
		t.Errorf("ExpiresAt = %d, want %d", res.Warning.ExpiresAt, want)
	}

	res, err = env.engine.AddWarning("g1", "u1", "amenazas a otro miembro", "mod1", models.SeveritySevere, -1)
	if err != nil {
		t.Fatalf("AddWarning: %v", err)
	}
	if res.Warning.ExpiresAt != 0 {
		t.Errorf("ExpiresAt = %d, want 0 (permanente)", res.Warning.ExpiresAt)
	}
}

func TestAddWarningDuplicateWithinWindow(t *testing.T) {
	env := newTestEnv()

	first, err := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityMinor, 0)
	if err != nil {
		t.Fatalf("AddWarning: %v", err)
	}

	env.clock.Advance(2 * time.Second)
	dup, err := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityMinor, 0)
	if err != nil {
		t.Fatalf("AddWarning duplicado: %v", err)
	}
	if !dup.Duplicate {
		t.Fatal("Duplicate = false en reenvío dentro de la ventana")
	}
	if dup.Warning == nil || dup.Warning.ID != first.Warning.ID {
		t.Errorf("el duplicado no devolvió la advertencia original: %+v", dup.Warning)
	}

	warns, _ := env.engine.GetUserWarnings("g1", "u1")
	if len(warns) != 1 {
		t.Errorf("advertencias almacenadas = %d, want 1", len(warns))
	}
	if env.audit.countOf("warning_added") != 1 {
		t.Errorf("eventos warning_added = %d, want 1", env.audit.countOf("warning_added"))
	}
}

func TestAddWarningDuplicateAfterWindow(t *testing.T) {
	env := newTestEnv()

	if _, err := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityMinor, 0); err != nil {
		t.Fatalf("AddWarning: %v", err)
	}

	env.clock.Advance(11 * time.Second)
	res, err := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityMinor, 0)
	if err != nil {
		t.Fatalf("AddWarning tras TTL: %v", err)
	}
	if res.Duplicate {
		t.Error("Duplicate = true tras expirar la ventana de idempotencia")
	}

	warns, _ := env.engine.GetUserWarnings("g1", "u1")
	if len(warns) != 2 {
		t.Errorf("advertencias almacenadas = %d, want 2", len(warns))
	}
}

func TestAddWarningMaxPerUser(t *testing.T) {
	env := newTestEnv()
	cfg := models.DefaultGuildConfig("")
	cfg.MaxWarningsPerUser = 2
	env.engine.configs = &staticConfigs{cfg: cfg}

	for i := 0; i < 2; i++ {
		if _, err := env.engine.AddWarning("g1", "u1", fmt.Sprintf("infracción número %d", i), "mod1", models.SeverityMinor, 0); err != nil {
			t.Fatalf("AddWarning %d: %v", i, err)
		}
	}
	if _, err := env.engine.AddWarning("g1", "u1", "una infracción de más", "mod1", models.SeverityMinor, 0); err != ErrMaxWarnings {
		t.Errorf("err = %v, want ErrMaxWarnings", err)
	}
}

func TestAddWarningStoreFailure(t *testing.T) {
	env := newTestEnv()
	env.store.failSave = true

	if _, err := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityMinor, 0); err != ErrStoreUnavailable {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}

	// El fallo no debe dejar huella en la caché de idempotencia
	env.store.failSave = false
	res, err := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityMinor, 0)
	if err != nil {
		t.Fatalf("reintento: %v", err)
	}
	if res.Duplicate {
		t.Error("el reintento tras fallo de almacenamiento fue tratado como duplicado")
	}
}

func TestEscalationThresholds(t *testing.T) {
	env := newTestEnv()

	// Dos advertencias no alcanzan el umbral de timeout (3)
	for i := 0; i < 2; i++ {
		res, err := env.engine.AddWarning("g1", "u1", fmt.Sprintf("infracción número %d", i), "mod1", models.SeverityMinor, 0)
		if err != nil {
			t.Fatalf("AddWarning %d: %v", i, err)
		}
		if res.Escalation.Action != ActionNone {
			t.Errorf("advertencia %d: acción = %s, want none", i+1, res.Escalation.Action)
		}
	}

	// La tercera dispara timeout con la duración de la severidad del disparador
	res, err := env.engine.AddWarning("g1", "u1", "amenazas a otro miembro", "mod1", models.SeveritySevere, 0)
	if err != nil {
		t.Fatalf("AddWarning: %v", err)
	}
	if res.Escalation.Action != ActionTimeout || !res.Escalation.Applied {
		t.Fatalf("escalado = %+v, want timeout aplicado", res.Escalation)
	}
	if want := 1440 * time.Minute; res.Escalation.TimeoutDuration != want {
		t.Errorf("TimeoutDuration = %v, want %v", res.Escalation.TimeoutDuration, want)
	}
	if env.actuator.timeouts != 1 || env.actuator.lastTimeout != 1440*time.Minute {
		t.Errorf("actuador: timeouts = %d (dur %v), want 1 con 24h", env.actuator.timeouts, env.actuator.lastTimeout)
	}

	// Quinta advertencia activa: kick
	if _, err := env.engine.AddWarning("g1", "u1", "cuarta infracción acumulada", "mod1", models.SeverityMinor, 0); err != nil {
		t.Fatalf("AddWarning: %v", err)
	}
	res, err = env.engine.AddWarning("g1", "u1", "quinta infracción acumulada", "mod1", models.SeverityMinor, 0)
	if err != nil {
		t.Fatalf("AddWarning: %v", err)
	}
	if res.Escalation.Action != ActionKick {
		t.Errorf("acción = %s, want kick", res.Escalation.Action)
	}
	if env.actuator.kicks != 1 {
		t.Errorf("kicks = %d, want 1", env.actuator.kicks)
	}

	// Séptima: ban
	if _, err := env.engine.AddWarning("g1", "u1", "sexta infracción acumulada", "mod1", models.SeverityMinor, 0); err != nil {
		t.Fatalf("AddWarning: %v", err)
	}
	res, err = env.engine.AddWarning("g1", "u1", "séptima infracción acumulada", "mod1", models.SeverityMinor, 0)
	if err != nil {
		t.Fatalf("AddWarning: %v", err)
	}
	if res.Escalation.Action != ActionBan {
		t.Errorf("acción = %s, want ban", res.Escalation.Action)
	}
	if env.actuator.bans != 1 {
		t.Errorf("bans = %d, want 1", env.actuator.bans)
	}
	if env.audit.countOf("escalation_applied") != 3 {
		t.Errorf("eventos escalation_applied = %d, want 3", env.audit.countOf("escalation_applied"))
	}
}

func TestRemoveWarning(t *testing.T) {
	env := newTestEnv()

	res, err := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityMinor, 0)
	if err != nil {
		t.Fatalf("AddWarning: %v", err)
	}

	removed, err := env.engine.RemoveWarning("g1", "u1", res.Warning.ID, "mod2", "fue un malentendido")
	if err != nil || !removed {
		t.Fatalf("RemoveWarning = (%v, %v), want (true, nil)", removed, err)
	}

	warns, _ := env.engine.GetUserWarnings("g1", "u1")
	if len(warns) != 1 || !warns[0].Removed {
		t.Fatalf("la advertencia no quedó marcada removed: %+v", warns)
	}
	if warns[0].RemovedBy != "mod2" || warns[0].RemovedReason != "fue un malentendido" {
		t.Errorf("metadatos de retiro incorrectos: %+v", warns[0])
	}

	// Segunda eliminación y un id inexistente son no-ops
	if removed, _ := env.engine.RemoveWarning("g1", "u1", res.Warning.ID, "mod2", "otra vez"); removed {
		t.Error("la segunda eliminación reportó éxito")
	}
	if removed, _ := env.engine.RemoveWarning("g1", "u1", "no-existe", "mod2", "nada"); removed {
		t.Error("eliminar un id inexistente reportó éxito")
	}
}

func TestRemoveWarningReversesTimeout(t *testing.T) {
	env := newTestEnv()

	res, err := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityMinor, 0)
	if err != nil {
		t.Fatalf("AddWarning: %v", err)
	}
	env.actuator.timedOut["g1_u1"] = true

	if removed, err := env.engine.RemoveWarning("g1", "u1", res.Warning.ID, "mod2", "revisión"); err != nil || !removed {
		t.Fatalf("RemoveWarning = (%v, %v)", removed, err)
	}
	if env.actuator.clearTimeouts != 1 {
		t.Errorf("clearTimeouts = %d, want 1", env.actuator.clearTimeouts)
	}
	if env.actuator.unbans != 0 {
		t.Errorf("unbans = %d, want 0", env.actuator.unbans)
	}
	if env.audit.countOf("punishment_reversed") != 1 {
		t.Errorf("eventos punishment_reversed = %d, want 1", env.audit.countOf("punishment_reversed"))
	}
}

func TestClearWarnings(t *testing.T) {
	env := newTestEnv()

	for i := 0; i < 3; i++ {
		if _, err := env.engine.AddWarning("g1", "u1", fmt.Sprintf("infracción número %d", i), "mod1", models.SeverityMinor, 0); err != nil {
			t.Fatalf("AddWarning %d: %v", i, err)
		}
	}
	env.actuator.banned["g1_u1"] = true

	cleared, err := env.engine.ClearWarnings("g1", "u1", "mod2", "amnistía")
	if err != nil {
		t.Fatalf("ClearWarnings: %v", err)
	}
	if cleared != 3 {
		t.Errorf("cleared = %d, want 3", cleared)
	}

	// La reversión corre una sola vez, no una por advertencia
	if env.actuator.unbans != 1 {
		t.Errorf("unbans = %d, want 1", env.actuator.unbans)
	}
	if env.actuator.clearTimeouts != 0 {
		t.Errorf("clearTimeouts = %d, want 0 (ban tiene prioridad)", env.actuator.clearTimeouts)
	}

	// Sin advertencias activas la segunda pasada devuelve 0
	cleared, err = env.engine.ClearWarnings("g1", "u1", "mod2", "amnistía")
	if err != nil {
		t.Fatalf("ClearWarnings: %v", err)
	}
	if cleared != 0 {
		t.Errorf("cleared = %d, want 0", cleared)
	}
	if env.actuator.unbans != 1 {
		t.Errorf("unbans tras segunda pasada = %d, want 1", env.actuator.unbans)
	}
}

func TestGetUserWarningsNewestFirst(t *testing.T) {
	env := newTestEnv()

	first, _ := env.engine.AddWarning("g1", "u1", "primera infracción", "mod1", models.SeverityMinor, 0)
	env.clock.Advance(time.Minute)
	second, _ := env.engine.AddWarning("g1", "u1", "segunda infracción", "mod1", models.SeverityMinor, 0)

	warns, err := env.engine.GetUserWarnings("g1", "u1")
	if err != nil {
		t.Fatalf("GetUserWarnings: %v", err)
	}
	if len(warns) != 2 {
		t.Fatalf("len = %d, want 2", len(warns))
	}
	if warns[0].ID != second.Warning.ID || warns[1].ID != first.Warning.ID {
		t.Errorf("orden incorrecto: %s, %s", warns[0].ID, warns[1].ID)
	}
}

func TestGetAllWarnings(t *testing.T) {
	env := newTestEnv()

	env.engine.AddWarning("g1", "u1", "primera infracción", "mod1", models.SeverityMinor, 0)
	env.clock.Advance(time.Minute)
	env.engine.AddWarning("g1", "u2", "segunda infracción", "mod1", models.SeverityModerate, 0)
	env.engine.AddWarning("g2", "u3", "otro servidor", "mod1", models.SeverityMinor, 0)

	warns, err := env.engine.GetAllWarnings("g1")
	if err != nil {
		t.Fatalf("GetAllWarnings: %v", err)
	}
	if len(warns) != 2 {
		t.Fatalf("len = %d, want 2", len(warns))
	}
	if warns[0].UserID != "u2" {
		t.Errorf("primer elemento = %s, want u2 (más reciente)", warns[0].UserID)
	}
}
