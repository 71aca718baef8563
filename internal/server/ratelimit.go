package server

import (
	"sync"
	"time"
)

// clientLimiter is a fixed-window limiter keyed by client address.
type clientLimiter struct {
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	limit        int
	mu           sync.Mutex
	shutdownOnce sync.Once
}

type clientInfo struct {
	windowStart time.Time
	requests    int
}

func newClientLimiter(perMinute int) *clientLimiter {
	rl := &clientLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
		limit:       perMinute,
	}
	go rl.startCleanup()
	return rl
}

func (rl *clientLimiter) allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	info, ok := rl.clients[client]
	if !ok || now.Sub(info.windowStart) > time.Minute {
		rl.clients[client] = &clientInfo{windowStart: now, requests: 1}
		return true
	}

	info.requests++
	return info.requests <= rl.limit
}

func (rl *clientLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStale()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *clientLimiter) cleanupStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-2 * time.Minute)
	for client, info := range rl.clients {
		if info.windowStart.Before(cutoff) {
			delete(rl.clients, client)
		}
	}
}

func (rl *clientLimiter) stop() {
	rl.shutdownOnce.Do(func() { close(rl.stopCleanup) })
}
