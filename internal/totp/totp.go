// Package totp implements time-based one-time passwords (RFC 6238) over
// HMAC-SHA1 (RFC 4226), plus the Base32 secret codec and otpauth
// provisioning URIs used for authenticator enrollment.
//
// The package is pure computation: no I/O, no stored state. Callers supply
// the clock.
package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	// SecretBytes is the raw length of generated secrets.
	SecretBytes = 20
	// Period is the time-step size in seconds.
	Period = 30
	// Digits is the length of generated codes.
	Digits = 6
	// DriftWindow is the default number of adjacent steps checked on each
	// side during verification, tolerating up to one step of clock skew
	// between server and authenticator.
	DriftWindow = 1

	// Algorithm as advertised in provisioning URIs.
	algorithm = "SHA1"

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// GenerateSecret draws SecretBytes cryptographically random bytes and returns
// them Base32-encoded without padding.
func GenerateSecret() (string, error) {
	buf := make([]byte, SecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return Encode(buf), nil
}

// Encode returns the RFC 4648 Base32 encoding of b without '=' padding.
func Encode(b []byte) string {
	return b32.EncodeToString(b)
}

// Decode decodes a Base32 string into bytes. It is deliberately lenient:
// lowercase letters are accepted, and characters outside the alphabet
// (spaces, dashes, '=' padding) are skipped rather than rejected. Trailing
// bits that do not form a full byte are discarded.
func Decode(s string) []byte {
	var (
		out  []byte
		acc  uint32
		bits uint
	)
	for _, r := range strings.ToUpper(s) {
		idx := strings.IndexRune(alphabet, r)
		if idx < 0 {
			continue
		}
		acc = acc<<5 | uint32(idx)
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>bits))
		}
	}
	return out
}

// ComputeCode returns the code for the current time step.
func ComputeCode(secret string, now time.Time) string {
	return ComputeCodeAt(secret, now, 0)
}

// ComputeCodeAt returns the code for the time step offsetSteps away from the
// one containing now. Counter arithmetic is 64-bit throughout; only the final
// truncated value is reduced modulo 10^Digits.
func ComputeCodeAt(secret string, now time.Time, offsetSteps int) string {
	counter := now.Unix()/Period + int64(offsetSteps)
	return hotp(Decode(secret), counter, Digits)
}

// VerifyCode reports whether candidate matches the code for any time step in
// [-driftSteps, +driftSteps] around now. Comparison is exact on the
// zero-padded string. The server checks multiple windows while the client
// submits one, so up to driftSteps steps of clock drift in either direction
// still verify.
func VerifyCode(secret, candidate string, now time.Time, driftSteps int) bool {
	candidate = strings.TrimSpace(candidate)
	if len(candidate) != Digits {
		return false
	}
	if driftSteps < 0 {
		driftSteps = 0
	}
	for i := -driftSteps; i <= driftSteps; i++ {
		if ComputeCodeAt(secret, now, i) == candidate {
			return true
		}
	}
	return false
}

// hotp implements RFC 4226 dynamic truncation: HMAC-SHA1 over the big-endian
// counter, 4 bytes extracted at the offset named by the low nibble of the
// last digest byte, top bit masked, reduced modulo 10^digits.
func hotp(key []byte, counter int64, digits int) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	value := (uint32(sum[offset]&0x7f) << 24) |
		(uint32(sum[offset+1]) << 16) |
		(uint32(sum[offset+2]) << 8) |
		uint32(sum[offset+3])

	mod := uint32(1)
	for i := 0; i < digits; i++ {
		mod *= 10
	}
	return fmt.Sprintf("%0*d", digits, value%mod)
}

// ProvisioningURI builds the otpauth:// URI encoding issuer, account label,
// secret, and code parameters, suitable for rendering as an enrollment QR.
func ProvisioningURI(issuer, account, secret string) string {
	label := url.PathEscape(issuer + ":" + account)
	params := url.Values{}
	params.Set("secret", secret)
	params.Set("issuer", issuer)
	params.Set("algorithm", algorithm)
	params.Set("digits", fmt.Sprintf("%d", Digits))
	params.Set("period", fmt.Sprintf("%d", Period))
	return fmt.Sprintf("otpauth://totp/%s?%s", label, params.Encode())
}
