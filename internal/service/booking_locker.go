package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrLockNotAcquired is returned when another booking for the same professional
// holds the lock past the acquire timeout.
var ErrLockNotAcquired = errors.New("booking lock not acquired")

const (
	// RedisBookingLockKeyPrefix namespaces per-professional booking locks
	RedisBookingLockKeyPrefix = "lock:professional:"

	lockRetryInterval = 25 * time.Millisecond

	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// BookingLocker serializes overlap check and write for one professional's calendar
type BookingLocker interface {
	WithProfessionalLock(ctx context.Context, professionalID uint, fn func(ctx context.Context) error) error
	Stop()
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

type redisBookingLocker struct {
	client         *redis.Client
	log            *logrus.Logger
	ttl            time.Duration
	acquireTimeout time.Duration
}

// NewRedisBookingLocker creates a locker holding a token-guarded Redis key per professional.
// ttl bounds both the key lifetime and the guarded callback.
func NewRedisBookingLocker(client *redis.Client, log *logrus.Logger, ttl, acquireTimeout time.Duration) BookingLocker {
	return &redisBookingLocker{
		client:         client,
		log:            log,
		ttl:            ttl,
		acquireTimeout: acquireTimeout,
	}
}

func (l *redisBookingLocker) WithProfessionalLock(ctx context.Context, professionalID uint, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("%s%d", RedisBookingLockKeyPrefix, professionalID)
	token := uuid.NewString()

	if err := l.acquire(ctx, key, token); err != nil {
		return err
	}

	defer func() {
		if err := l.release(context.WithoutCancel(ctx), key, token); err != nil {
			l.log.Warnf("Failed to release booking lock for professional %d: %+v", professionalID, err)
		}
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

func (l *redisBookingLocker) acquire(ctx context.Context, key, token string) error {
	deadline := time.Now().Add(l.acquireTimeout)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire booking lock: %w", err)
		}
		if ok {
			return nil
		}
		if !time.Now().Add(lockRetryInterval).Before(deadline) {
			return ErrLockNotAcquired
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

func (l *redisBookingLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release booking lock: %w", err)
	}
	return nil
}

func (l *redisBookingLocker) Stop() {}

// localBookingLocker guards bookings within one process when Redis is disabled.
type localBookingLocker struct {
	log *logrus.Logger

	// Per-professional mutex
	professionalMu sync.Map // map[uint]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewLocalBookingLocker starts the background mutex cleanup. Call Stop during shutdown.
func NewLocalBookingLocker(log *logrus.Logger) BookingLocker {
	l := &localBookingLocker{
		log:      log,
		stopChan: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupMutexMapLoop()

	return l
}

func (l *localBookingLocker) WithProfessionalLock(ctx context.Context, professionalID uint, fn func(ctx context.Context) error) error {
	mt := l.lockProfessional(professionalID)
	defer func() {
		mt.lastUsed.Store(time.Now().Unix())
		mt.mu.Unlock()
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// Stop gracefully shuts down the cleanup loop.
// Safe to call multiple times.
func (l *localBookingLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("Booking locker stopped")
	}
}

// getProfessionalMutex returns mutex for a specific professional ID
func (l *localBookingLocker) getProfessionalMutex(professionalID uint) *mutexWithTimestamp {
	mt, _ := l.professionalMu.LoadOrStore(professionalID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

// lockProfessional locks the mutex currently mapped to the professional. Cleanup may
// drop an entry between lookup and Lock; holding an orphan would not exclude callers
// that get the replacement, so it retries until the held mutex is the mapped one.
func (l *localBookingLocker) lockProfessional(professionalID uint) *mutexWithTimestamp {
	for {
		mt := l.getProfessionalMutex(professionalID)
		if l.holdIfCurrent(professionalID, mt) {
			return mt
		}
	}
}

// holdIfCurrent locks mt and keeps it only while the map still points at it.
// Cleanup deletes entries under the mutex, so a held current entry stays mapped.
func (l *localBookingLocker) holdIfCurrent(professionalID uint, mt *mutexWithTimestamp) bool {
	mt.mu.Lock()
	if current, ok := l.professionalMu.Load(professionalID); ok && current == mt {
		return true
	}
	mt.mu.Unlock()
	return false
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (l *localBookingLocker) cleanupMutexMapLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			l.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			l.cleanupStaleMutexes(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStaleMutexes removes mutexes unused since cutoff. lastUsed is read under
// the mutex so a concurrent getProfessionalMutex cannot be lost.
func (l *localBookingLocker) cleanupStaleMutexes(cutoff time.Time) int {
	cutoffUnix := cutoff.Unix()
	var cleaned int

	l.professionalMu.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		// TryLock first - if we can't get lock, someone is using it
		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffUnix {
				l.professionalMu.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
	return cleaned
}
