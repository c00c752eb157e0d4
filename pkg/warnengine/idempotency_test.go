package warnengine

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/models"
)

func TestDedupCacheWindow(t *testing.T) {
	clock := newTestClock()
	c := newDedupCache()
	c.now = clock.Now

	key := c.Key("add", "g1", "u1", "razón", "minor", "mod1")
	if c.IsDuplicate(key) {
		t.Error("clave no registrada reportada como duplicada")
	}

	c.Remember(key)
	if !c.IsDuplicate(key) {
		t.Error("clave registrada no reportada como duplicada")
	}

	clock.Advance(dedupTTL + time.Second)
	if c.IsDuplicate(key) {
		t.Error("clave vencida reportada como duplicada")
	}
}

func TestDedupCacheKeyDiscriminates(t *testing.T) {
	c := newDedupCache()

	base := c.Key("add", "g1", "u1", "razón", "minor", "mod1")
	variants := []string{
		c.Key("add", "g1", "u1", "otra razón", "minor", "mod1"),
		c.Key("add", "g1", "u1", "razón", "severe", "mod1"),
		c.Key("add", "g1", "u1", "razón", "minor", "mod2"),
		c.Key("add", "g1", "u2", "razón", "minor", "mod1"),
		c.Key("add", "g2", "u1", "razón", "minor", "mod1"),
	}

	c.Remember(base)
	for _, v := range variants {
		if c.IsDuplicate(v) {
			t.Errorf("clave distinta coincidió con la base: %q", v)
		}
	}
}

func TestDedupCacheTrimsExpired(t *testing.T) {
	clock := newTestClock()
	c := newDedupCache()
	c.now = clock.Now
	c.maxSize = 5

	for i := 0; i < 5; i++ {
		c.Remember(fmt.Sprintf("vieja-%d", i))
	}
	clock.Advance(dedupTTL + time.Second)

	// Al superar el límite las entradas vencidas se descartan
	c.Remember("nueva")
	if c.Size() != 1 {
		t.Errorf("Size = %d, want 1 tras el recorte", c.Size())
	}
	if !c.IsDuplicate("nueva") {
		t.Error("la entrada recién registrada se perdió en el recorte")
	}
}

func TestConcurrentAddsCollapse(t *testing.T) {
	env := newTestEnv()

	const goroutines = 8
	var wg sync.WaitGroup
	results := make([]*AddResult, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := env.engine.AddWarning("g1", "u1", "spam reiterado", "mod1", models.SeverityMinor, 0)
			if err != nil {
				t.Errorf("AddWarning concurrente: %v", err)
				return
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	created := 0
	for _, res := range results {
		if res != nil && !res.Duplicate {
			created++
		}
	}
	if created != 1 {
		t.Errorf("inserciones efectivas = %d, want 1", created)
	}

	warns, _ := env.engine.GetUserWarnings("g1", "u1")
	if len(warns) != 1 {
		t.Errorf("advertencias almacenadas = %d, want 1", len(warns))
	}
}

func TestKeyedMutexSerializes(t *testing.T) {
	km := newKeyedMutex()

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("g1_u1")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
}
