package store

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Entity prefixes used for generated ids.
const (
	SupplierPrefix = "s"
	ProductPrefix  = "p"
	AlertPrefix    = "a"
)

// IDGenerator returns a new id for the given entity prefix. The store skips
// any generated id that is already taken.
type IDGenerator func(prefix string) string

// UUIDs is the default generator: the prefix followed by a random uuid.
func UUIDs(prefix string) string {
	return prefix + uuid.NewString()
}

// Sequential returns a generator producing s1, s2, ... per prefix. Counters
// only move forward, so ids are never reused after a delete.
func Sequential() IDGenerator {
	var mu sync.Mutex
	next := make(map[string]int)
	return func(prefix string) string {
		mu.Lock()
		defer mu.Unlock()
		next[prefix]++
		return prefix + strconv.Itoa(next[prefix])
	}
}

func (s *Store) generateID(prefix string, taken func(string) bool) string {
	for {
		id := s.newID(prefix)
		if !taken(id) {
			return id
		}
	}
}
