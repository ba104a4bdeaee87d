package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

// Identifiers are opaque prefixed hex strings rather than database
// sequences, so they can be generated before the insert and never
// collide across environments.

// NewUserID returns a user identifier like "user_1a2b...". 12 random
// bytes gives 24 hex characters.
func NewUserID() (string, error) {
	return prefixedToken("user", 12)
}

// NewSettingID returns a settings-row identifier like "set_1a2b..."
func NewSettingID() (string, error) {
	return prefixedToken("set", 8)
}

// NewCodeID returns a reset-code identifier like "code_1a2b..."
func NewCodeID() (string, error) {
	return prefixedToken("code", 8)
}

// NewAnalysisID returns an analysis identifier like "ana_1a2b..."
func NewAnalysisID() (string, error) {
	return prefixedToken("ana", 8)
}

// NewCacheID returns a cache identifier tagged with the data type,
// symbol and fetch time, e.g. "price_lithium_carbonate_20260826_120000"
func NewCacheID(dataType, symbol string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s", dataType, symbol, at.UTC().Format("20060102_150405"))
}

// NewResetCode returns a 6-digit numeric verification code
func NewResetCode() (string, error) {
	code := make([]byte, 6)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

func prefixedToken(prefix string, numBytes int) (string, error) {
	buf := make([]byte, numBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return prefix + "_" + hex.EncodeToString(buf), nil
}
