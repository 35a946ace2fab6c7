package flow

import "sync"

type userLock struct {
	mu   sync.Mutex
	refs int
}

// userLocks is a keyed mutex; entries live only while someone holds or waits for them
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[int64]*userLock)}
}

// Lock blocks until the user's turn lock is held and returns its release func
func (l *userLocks) Lock(userID int64) func() {
	l.mu.Lock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &userLock{}
		l.locks[userID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}

func (l *userLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
