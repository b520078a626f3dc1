package totp

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rfcSecret is the shared secret from the RFC 6238 appendix test vectors,
// the ASCII bytes of "12345678901234567890".
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestComputeCodeRFCVectors(t *testing.T) {
	// Low-order six digits of the RFC 6238 SHA-1 reference outputs.
	vectors := []struct {
		unix int64
		code string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
		{20000000000, "353130"},
	}

	for _, v := range vectors {
		got := ComputeCode(rfcSecret, time.Unix(v.unix, 0).UTC())
		assert.Equal(t, v.code, got, "unix time %d", v.unix)
	}
}

func TestComputeCodeStableWithinStep(t *testing.T) {
	base := time.Unix(1111111110, 0).UTC()
	for _, offset := range []time.Duration{0, time.Second, 29 * time.Second} {
		assert.Equal(t, "050471", ComputeCode(rfcSecret, base.Add(offset)))
	}
	// 1111111109 is the last second of the previous step.
	assert.Equal(t, "081804", ComputeCode(rfcSecret, base.Add(-time.Second)))
}

func TestVerifyCodeDriftWindow(t *testing.T) {
	now := time.Unix(1700000015, 0).UTC()

	for _, steps := range []int{-1, 0, 1} {
		code := ComputeCodeAt(rfcSecret, now, steps)
		assert.True(t, VerifyCode(rfcSecret, code, now, DriftWindow), "offset %d steps", steps)
	}
	for _, steps := range []int{-2, 2} {
		code := ComputeCodeAt(rfcSecret, now, steps)
		assert.False(t, VerifyCode(rfcSecret, code, now, DriftWindow), "offset %d steps", steps)
	}
}

func TestVerifyCodeRejectsMalformedInput(t *testing.T) {
	now := time.Unix(1700000015, 0).UTC()
	code := ComputeCode(rfcSecret, now)

	assert.True(t, VerifyCode(rfcSecret, " "+code+" ", now, DriftWindow), "surrounding whitespace is trimmed")
	assert.False(t, VerifyCode(rfcSecret, "", now, DriftWindow))
	assert.False(t, VerifyCode(rfcSecret, code[:5], now, DriftWindow))
	assert.False(t, VerifyCode(rfcSecret, code+"0", now, DriftWindow))
}

func TestVerifyCodeNegativeDriftTreatedAsZero(t *testing.T) {
	now := time.Unix(1700000015, 0).UTC()
	assert.True(t, VerifyCode(rfcSecret, ComputeCode(rfcSecret, now), now, -3))
	assert.False(t, VerifyCode(rfcSecret, ComputeCodeAt(rfcSecret, now, 1), now, -3))
}

func TestGenerateSecret(t *testing.T) {
	s1, err := GenerateSecret()
	require.NoError(t, err)
	s2, err := GenerateSecret()
	require.NoError(t, err)

	// 20 bytes -> 32 Base32 chars, no padding.
	assert.Len(t, s1, 32)
	assert.NotEqual(t, s1, s2)
	assert.NotContains(t, s1, "=")
	assert.Equal(t, SecretBytes, len(Decode(s1)))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, b := range [][]byte{
		[]byte("12345678901234567890"),
		{0x00},
		{0xff, 0x00, 0xff},
		[]byte("a"),
		[]byte("hello world!"),
	} {
		assert.Equal(t, b, Decode(Encode(b)))
	}
}

func TestEncodeMatchesKnownValue(t *testing.T) {
	assert.Equal(t, rfcSecret, Encode([]byte("12345678901234567890")))
}

func TestDecodeLenient(t *testing.T) {
	want := []byte("12345678901234567890")

	assert.Equal(t, want, Decode(strings.ToLower(rfcSecret)), "lowercase accepted")
	assert.Equal(t, want, Decode("GEZD GNBV-GY3T QOJQ gezd gnbv gy3t qojq"), "separators skipped")
	assert.Equal(t, want, Decode(rfcSecret+"===="), "padding skipped")
	assert.Empty(t, Decode(""))
	assert.Empty(t, Decode("!@# $%"))
}

func TestDecodeDiscardsTrailingPartialBits(t *testing.T) {
	// "A" carries only 5 bits, not enough for a byte.
	assert.Empty(t, Decode("A"))
	// "AB" carries 10 bits, exactly one byte survives.
	assert.Len(t, Decode("AB"), 1)
}

func TestProvisioningURI(t *testing.T) {
	uri := ProvisioningURI("Tavola", "admin@example.com", rfcSecret)

	parsed, err := url.Parse(uri)
	require.NoError(t, err)

	assert.Equal(t, "otpauth", parsed.Scheme)
	assert.Equal(t, "totp", parsed.Host)
	assert.Equal(t, "Tavola:admin@example.com", strings.TrimPrefix(parsed.Path, "/"))

	q := parsed.Query()
	assert.Equal(t, rfcSecret, q.Get("secret"))
	assert.Equal(t, "Tavola", q.Get("issuer"))
	assert.Equal(t, "SHA1", q.Get("algorithm"))
	assert.Equal(t, "6", q.Get("digits"))
	assert.Equal(t, "30", q.Get("period"))
}
