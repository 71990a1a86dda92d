package session

import (
	"hash/fnv"
	"sync"
)

// KeyMutex serializes operations on the same attempt key so that
// concurrent requests for one student's attempt are applied one at a
// time. Locks are striped, so unrelated keys may occasionally share a
// stripe; that only costs a little contention, never correctness.
type KeyMutex struct {
	stripes []sync.Mutex
}

// NewKeyMutex creates a KeyMutex with the given number of stripes.
func NewKeyMutex(stripes int) *KeyMutex {
	if stripes < 1 {
		stripes = 64
	}
	return &KeyMutex{stripes: make([]sync.Mutex, stripes)}
}

// Lock acquires the stripe for key and returns its unlock function.
func (m *KeyMutex) Lock(key Key) func() {
	stripe := &m.stripes[m.index(key)]
	stripe.Lock()
	return stripe.Unlock
}

func (m *KeyMutex) index(key Key) int {
	h := fnv.New32a()
	h.Write(key.QuizID[:])
	h.Write([]byte{byte(key.UserID), byte(key.UserID >> 8), byte(key.UserID >> 16), byte(key.UserID >> 24)})
	return int(h.Sum32() % uint32(len(m.stripes)))
}
