package service

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// DayLocker serializes booking submissions for the same dentist and date
// inside one process. Cross-process serialization is done by the database
// advisory lock; this only keeps concurrent requests on one instance from
// queueing on a pooled connection.
//
// Lock Ordering (to prevent deadlocks):
// 1. Acquire day mutex FIRST
// 2. Then open the DB transaction
type DayLocker struct {
	log *logrus.Logger

	dayMu sync.Map // map[string]*mutexWithTimestamp

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewDayLocker creates a DayLocker and starts its cleanup goroutine.
// Call Stop() during graceful shutdown.
func NewDayLocker(log *logrus.Logger) *DayLocker {
	l := &DayLocker{
		log:      log,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Lock blocks until the dentist's day is free and returns the unlock func.
func (l *DayLocker) Lock(dentistID uuid.UUID, date time.Time) func() {
	mt := l.mutexFor(dayKey(dentistID, date))
	mt.mu.Lock()
	return func() {
		mt.lastUsed.Store(time.Now().Unix())
		mt.mu.Unlock()
	}
}

// Stop gracefully shuts down the cleanup goroutine.
// Safe to call multiple times.
func (l *DayLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("DayLocker stopped")
	}
}

func dayKey(dentistID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s:%s", dentistID, date.Format("2006-01-02"))
}

func (l *DayLocker) mutexFor(key string) *mutexWithTimestamp {
	mt, _ := l.dayMu.LoadOrStore(key, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

func (l *DayLocker) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			l.log.Debug("Day mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			l.cleanupStale(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStale removes mutexes unused since cutoff. TryLock skips any mutex
// currently held; lastUsed is re-checked under the lock.
func (l *DayLocker) cleanupStale(cutoff time.Time) int {
	cutoffUnix := cutoff.Unix()
	var cleaned int

	l.dayMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffUnix {
				l.dayMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale day mutexes", cleaned)
	}
	return cleaned
}
