// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestProtection() *LoginProtection {
	return NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       100, // effectively off for these tests
		IPBurst:           100,
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     time.Minute,
	})
}

func TestLockoutAfterMaxFailures(t *testing.T) {
	lp := newTestProtection()

	locked, _ := lp.RecordFailure("admin")
	assert.False(t, locked)
	locked, _ = lp.RecordFailure("admin")
	assert.False(t, locked)

	locked, duration := lp.RecordFailure("admin")
	assert.True(t, locked)
	assert.Equal(t, time.Minute, duration)

	isLocked, remaining := lp.IsLocked("admin")
	assert.True(t, isLocked)
	assert.Greater(t, remaining, time.Duration(0))
}

func TestLockoutBackoffDoubles(t *testing.T) {
	lp := newTestProtection()

	for i := 0; i < 3; i++ {
		lp.RecordFailure("admin")
	}
	lp.attemptsMu.Lock()
	lp.failedAttempts["admin"].lockedUntil = time.Now().Add(-time.Second)
	lp.attemptsMu.Unlock()

	var duration time.Duration
	var locked bool
	for i := 0; i < 3; i++ {
		locked, duration = lp.RecordFailure("admin")
	}
	assert.True(t, locked)
	assert.Equal(t, 2*time.Minute, duration, "second lockout doubles the base duration")
}

func TestSuccessClearsFailures(t *testing.T) {
	lp := newTestProtection()

	lp.RecordFailure("editor")
	lp.RecordFailure("editor")
	lp.RecordSuccess("editor")

	locked, _ := lp.RecordFailure("editor")
	assert.False(t, locked, "counter must restart after a successful login")

	isLocked, _ := lp.IsLocked("editor")
	assert.False(t, isLocked)
}

func TestIPRateLimit(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit: 1,
		IPBurst:     2,
	})

	assert.True(t, lp.CheckIPRateLimit("203.0.113.9"))
	assert.True(t, lp.CheckIPRateLimit("203.0.113.9"))
	assert.False(t, lp.CheckIPRateLimit("203.0.113.9"), "burst exhausted")
	assert.True(t, lp.CheckIPRateLimit("198.51.100.7"), "other IPs unaffected")
}
