package utils

import (
	"sync"
	"time"
)

var (
	cooldowns     = make(map[string]time.Time)
	cooldownMutex = &sync.Mutex{}
)

// CheckAndSetCooldown reports whether key is free. If it is, the key is
// held for d starting now; otherwise it returns false and leaves the
// existing hold untouched.
func CheckAndSetCooldown(key string, d time.Duration) bool {
	return checkAndSetCooldown(key, d, time.Now())
}

func checkAndSetCooldown(key string, d time.Duration, now time.Time) bool {
	cooldownMutex.Lock()
	defer cooldownMutex.Unlock()

	if until, ok := cooldowns[key]; ok && now.Before(until) {
		return false
	}
	cooldowns[key] = now.Add(d)

	// Expired entries are swept on write so the map stays small.
	for k, until := range cooldowns {
		if !now.Before(until) {
			delete(cooldowns, k)
		}
	}
	return true
}
