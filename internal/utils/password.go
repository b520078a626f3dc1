package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword computes the stored digest for a password: hex-encoded
// SHA-256 over password+salt, with one application-wide salt.
//
// This scheme is weak by modern standards (no per-user salt, no work factor);
// it is kept because stored credential rows depend on the deterministic
// digest. Moving to a slow hash requires re-provisioning every admin user.
func HashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword compares a candidate password against a stored digest in
// constant time.
func VerifyPassword(password, salt, storedHash string) bool {
	computed := HashPassword(password, salt)
	return hmac.Equal([]byte(computed), []byte(storedHash))
}
