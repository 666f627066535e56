package locks

import "sync"

// KeyedMutex serializes operations that share a key: per-meeting writers,
// per-(slot, mode) capacity updates. Mutexes are created on first use and
// kept for the process lifetime; the key space (meetings, slots of one
// event) is small enough that this never matters.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *KeyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
