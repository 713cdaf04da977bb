package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// Interval for cleaning up stale clinic mutexes
	lockerCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	lockerStaleThreshold = 10 * time.Minute
)

// ClinicLocker serializes the two read-then-write sequences the queue
// engine has per clinic: token-number allocation on the DB fallback
// path and the call-next select-then-activate pair. Clinics are
// independent scheduling domains, so each gets its own mutex; there is
// no cross-clinic ordering.
type ClinicLocker struct {
	log *logrus.Logger

	clinicMu sync.Map // map[uuid.UUID]*mutexWithTimestamp

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewClinicLocker creates a ClinicLocker and starts its background
// cleanup goroutine. Call Stop() during graceful shutdown.
func NewClinicLocker(log *logrus.Logger) *ClinicLocker {
	l := &ClinicLocker{
		log:      log,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Lock acquires the clinic's mutex and returns the unlock function.
//
//	unlock := locker.Lock(clinicID)
//	defer unlock()
func (l *ClinicLocker) Lock(clinicID uuid.UUID) func() {
	mt := l.getMutex(clinicID)
	mt.mu.Lock()
	return mt.mu.Unlock
}

// Stop gracefully shuts down the cleanup goroutine. Safe to call
// multiple times.
func (l *ClinicLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("ClinicLocker stopped")
	}
}

func (l *ClinicLocker) getMutex(clinicID uuid.UUID) *mutexWithTimestamp {
	mt, _ := l.clinicMu.LoadOrStore(clinicID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

func (l *ClinicLocker) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(lockerCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			return
		case <-ticker.C:
			l.cleanupStaleMutexes()
		}
	}
}

// cleanupStaleMutexes removes unused mutexes using TryLock for safety.
// The lastUsed check happens inside the lock so a concurrent Lock
// cannot race the delete.
func (l *ClinicLocker) cleanupStaleMutexes() {
	cutoffTime := time.Now().Add(-lockerStaleThreshold).Unix()
	var cleaned int

	l.clinicMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime {
				l.clinicMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale clinic mutexes", cleaned)
	}
}
