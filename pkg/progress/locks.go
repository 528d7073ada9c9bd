// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package progress

import "sync"

// profileLocks hands out one mutex per profile. An entry lives only while
// some tracker holds or waits for it.
type profileLocks struct {
	mu    sync.Mutex
	locks map[string]*profileMutex
}

type profileMutex struct {
	sync.Mutex
	refs int
}

func newProfileLocks() *profileLocks {
	return &profileLocks{locks: make(map[string]*profileMutex)}
}

// locker returns a sync.Locker for profileID.
func (p *profileLocks) locker(profileID string) sync.Locker {
	return &profileLock{locks: p, profileID: profileID}
}

func (p *profileLocks) acquire(profileID string) *profileMutex {
	p.mu.Lock()
	m, ok := p.locks[profileID]
	if !ok {
		m = &profileMutex{}
		p.locks[profileID] = m
	}
	m.refs++
	p.mu.Unlock()

	m.Lock()
	return m
}

func (p *profileLocks) release(profileID string, m *profileMutex) {
	m.Unlock()

	p.mu.Lock()
	m.refs--
	if m.refs == 0 {
		delete(p.locks, profileID)
	}
	p.mu.Unlock()
}

// len returns the number of profiles with a held or awaited lock.
func (p *profileLocks) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.locks)
}

type profileLock struct {
	locks     *profileLocks
	profileID string
	held      *profileMutex
}

func (l *profileLock) Lock() {
	l.held = l.locks.acquire(l.profileID)
}

func (l *profileLock) Unlock() {
	m := l.held
	l.held = nil
	l.locks.release(l.profileID, m)
}
