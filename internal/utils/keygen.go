package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// Session token prefixes. A pending-2FA token is distinguishable from a full
// session token by its prefix alone; nothing else about the two differs on
// the wire.
const (
	SessionTokenPrefix = "sess"
	PendingTokenPrefix = "pending-2fa"
)

// generateToken generates a random opaque token with the given prefix.
// Format: prefix_randomhex
// Example: sess_a1b2c3d4e5f6...
func generateToken(prefix string) (string, error) {
	b := make([]byte, 32) // 64 char hex
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b)), nil
}

// GenerateSessionToken generates a full session token: sess_xxx
func GenerateSessionToken() (string, error) {
	return generateToken(SessionTokenPrefix)
}

// GeneratePendingToken generates a pending-2FA token: pending-2fa_xxx
func GeneratePendingToken() (string, error) {
	return generateToken(PendingTokenPrefix)
}

// IsPendingToken reports whether token carries the pending-2FA prefix.
func IsPendingToken(token string) bool {
	return strings.HasPrefix(token, PendingTokenPrefix+"_")
}
