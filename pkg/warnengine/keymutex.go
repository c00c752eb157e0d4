package warnengine

import "sync"

// keyedMutex serializes the read-modify-write cycle per (guildId, userId)
// key so two near-simultaneous mutations of the same document cannot lose
// an update. Mutexes are kept for the process lifetime; the key space is
// bounded by the pairs the bot actually serves.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the key and returns its unlock function.
func (km *keyedMutex) Lock(key string) func() {
	km.mu.Lock()
	l, ok := km.locks[key]
	if !ok {
		l = &sync.Mutex{}
		km.locks[key] = l
	}
	km.mu.Unlock()

	l.Lock()
	return l.Unlock
}
