// Copyright (c) 2025-2026 SPACE Exhibitions
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("space2024admin")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$"))

	ok, err := Verify("space2024admin", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Verify("wrong-password", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("editor2024")
	require.NoError(t, err)
	b, err := Hash("editor2024")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyMalformed(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"plaintext", "space2024admin"},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"bad salt encoding", "$argon2id$v=19$m=19456,t=2,p=1$!!$aGFzaA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Verify("anything", tt.encoded)
			assert.Error(t, err)
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	encoded, err := Hash("space2024admin")
	require.NoError(t, err)
	assert.False(t, NeedsRehash(encoded))

	weak, err := HashWithParams("space2024admin", Params{
		Memory: 8 * 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32,
	})
	require.NoError(t, err)
	assert.True(t, NeedsRehash(weak))

	assert.True(t, NeedsRehash("not-a-hash"))
}
