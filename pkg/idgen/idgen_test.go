package idgen

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserID(t *testing.T) {
	id, err := NewUserID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(id, "user_"))
	assert.Len(t, id, len("user_")+24)
}

func TestPrefixedIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id, err := NewAnalysisID()
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestIDPrefixes(t *testing.T) {
	cases := []struct {
		gen    func() (string, error)
		prefix string
	}{
		{NewSettingID, "set_"},
		{NewCodeID, "code_"},
		{NewAnalysisID, "ana_"},
	}
	for _, tc := range cases {
		id, err := tc.gen()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(id, tc.prefix), "id %s should start with %s", id, tc.prefix)
		assert.Len(t, id, len(tc.prefix)+16)
	}
}

func TestNewResetCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := NewResetCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, ch := range code {
			assert.True(t, ch >= '0' && ch <= '9', "code %q should be digits only", code)
		}
	}
}

func TestNewCacheID(t *testing.T) {
	at := time.Date(2026, 8, 26, 12, 30, 45, 0, time.UTC)
	id := NewCacheID("price", "lithium_carbonate", at)
	assert.Equal(t, "price_lithium_carbonate_20260826_123045", id)
}
